// Package config loads application settings from defaults, an optional YAML file,
// a .env file and the environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"cryptovision/internal/feature/chart/domain/entity"
	"cryptovision/internal/platform/db"
	"cryptovision/internal/platform/externalapi/binance"
	platformredis "cryptovision/internal/platform/redis"
)

// Config holds all configuration for the server.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Binance    BinanceConfig    `mapstructure:"binance"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Preference PreferenceConfig `mapstructure:"preference"`
	CORS       CORSConfig       `mapstructure:"cors"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// BinanceConfig holds market data client settings.
type BinanceConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RowLayout         string        `mapstructure:"row_layout"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
}

// RedisConfig holds Redis settings. An empty host disables Redis.
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CacheConfig holds kline cache settings.
type CacheConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}

// DatabaseConfig holds SQL preference store settings.
type DatabaseConfig struct {
	Driver         string        `mapstructure:"driver"`
	SQLitePath     string        `mapstructure:"sqlite_path"`
	DSN            string        `mapstructure:"dsn"`
	User           string        `mapstructure:"user"`
	Password       string        `mapstructure:"password"`
	Name           string        `mapstructure:"name"`
	Host           string        `mapstructure:"host"`
	Port           string        `mapstructure:"port"`
	InstanceName   string        `mapstructure:"instance_name"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	Migrate        bool          `mapstructure:"migrate"`
}

// PreferenceConfig holds preference store settings.
type PreferenceConfig struct {
	Prefix string `mapstructure:"prefix"`
}

// CORSConfig holds the allowed browser origins.
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// LoggingConfig holds logging specific configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration. path may be empty; a missing .env file is ignored.
// Environment variables use the key with dots replaced by underscores,
// e.g. REDIS_HOST or BINANCE_ROW_LAYOUT.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	// comma-separated list from the environment
	cfg.CORS.AllowOrigins = splitList(strings.Join(cfg.CORS.AllowOrigins, ","))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("binance.base_url", binance.DefaultBaseURL)
	v.SetDefault("binance.timeout", "10s")
	v.SetDefault("binance.row_layout", entity.LegacyLayout.Name)
	v.SetDefault("binance.requests_per_minute", 1200)

	v.SetDefault("redis.host", "")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.namespace", "klines")

	v.SetDefault("database.driver", db.DriverSQLite)
	v.SetDefault("database.sqlite_path", "cryptovision.db")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "")
	v.SetDefault("database.host", "")
	v.SetDefault("database.port", "3306")
	v.SetDefault("database.instance_name", "")
	v.SetDefault("database.connect_timeout", "60s")
	v.SetDefault("database.migrate", true)

	v.SetDefault("preference.prefix", "pref")

	v.SetDefault("cors.allow_origins", []string{"http://localhost:3000"})

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if _, ok := entity.LayoutByName(c.Binance.RowLayout); !ok {
		return fmt.Errorf("binance.row_layout: unknown layout %q", c.Binance.RowLayout)
	}
	switch c.Database.Driver {
	case db.DriverSQLite, db.DriverMySQL, db.DriverPostgres:
	default:
		return fmt.Errorf("database.driver: %w: %q", db.ErrUnsupportedDriver, c.Database.Driver)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format: must be json or console, got %q", c.Logging.Format)
	}
	if c.Server.Port == "" {
		return errors.New("server.port: must not be empty")
	}
	// cors.New panics on an empty origin list.
	if len(c.CORS.AllowOrigins) == 0 {
		return errors.New("cors.allow_origins: must list at least one origin")
	}
	return nil
}

// RowLayout returns the configured kline row layout.
func (c *Config) RowLayout() entity.RowLayout {
	l, _ := entity.LayoutByName(c.Binance.RowLayout)
	return l
}

// BinanceClient returns the market client settings.
func (c *Config) BinanceClient() binance.Config {
	return binance.Config{
		BaseURL:           c.Binance.BaseURL,
		Timeout:           c.Binance.Timeout,
		RequestsPerMinute: c.Binance.RequestsPerMinute,
	}
}

// RedisClient returns the Redis connection settings.
func (c *Config) RedisClient() platformredis.Config {
	return platformredis.Config{
		Host:     c.Redis.Host,
		Port:     c.Redis.Port,
		Password: c.Redis.Password,
		DB:       c.Redis.DB,
	}
}

// DB returns the SQL connection settings.
func (c *Config) DB() db.Config {
	d := c.Database
	return db.Config{
		Driver:         d.Driver,
		SQLitePath:     d.SQLitePath,
		User:           d.User,
		Password:       d.Password,
		Name:           d.Name,
		Host:           d.Host,
		Port:           d.Port,
		InstanceName:   d.InstanceName,
		DSN:            d.DSN,
		ConnectTimeout: d.ConnectTimeout,
		Migrate:        d.Migrate,
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
