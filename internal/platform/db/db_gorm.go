// Package db opens the gorm connection used by SQL-backed stores.
package db

import (
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	gmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// ErrUnsupportedDriver is returned by Open for an unknown driver name.
var ErrUnsupportedDriver = errors.New("unsupported database driver")

// Config holds database connection settings.
type Config struct {
	Driver string // sqlite (default), mysql or postgres

	// sqlite
	SQLitePath string

	// mysql; ignored when DSN is set
	User         string
	Password     string
	Name         string
	Host         string
	Port         string
	InstanceName string // Cloud SQL instance connection name

	// DSN is used as is for mysql and postgres.
	DSN string

	ConnectTimeout time.Duration
	Migrate        bool
}

// Opener opens a gorm connection for a DSN.
type Opener func(dsn string) (*gorm.DB, error)

// BuildDSN returns the MySQL DSN for cfg. A Cloud SQL instance name takes
// precedence over host and port.
func BuildDSN(cfg Config) string {
	if cfg.InstanceName != "" {
		return fmt.Sprintf("%s:%s@unix(/cloudsql/%s)/%s?charset=utf8mb4&parseTime=true&loc=Local",
			cfg.User, cfg.Password, cfg.InstanceName, cfg.Name)
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=Local",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name)
}

// ConnectWithRetry calls opener with exponential backoff until it succeeds or
// timeout has elapsed.
func ConnectWithRetry(dsn string, timeout time.Duration, opener Opener) (*gorm.DB, error) {
	return connectWithRetry(dsn, timeout, opener, zap.NewNop())
}

func connectWithRetry(dsn string, timeout time.Duration, opener Opener, logger *zap.Logger) (*gorm.DB, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = timeout
	b.Reset()

	var db *gorm.DB
	op := func() error {
		conn, err := opener(dsn)
		if err != nil {
			return err
		}
		db = conn
		return nil
	}
	notify := func(err error, wait time.Duration) {
		logger.Warn("DB connect failed, retrying", zap.Error(err), zap.Duration("wait", wait))
	}

	if err := backoff.RetryNotify(op, b, notify); err != nil {
		return nil, fmt.Errorf("db connect failed after %s: %w", timeout, err)
	}
	return db, nil
}

// dialect returns the DSN and opener for cfg.Driver.
func dialect(cfg Config) (string, Opener, error) {
	switch cfg.Driver {
	case "", DriverSQLite:
		path := cfg.SQLitePath
		if path == "" {
			path = "cryptovision.db"
		}
		return path, func(dsn string) (*gorm.DB, error) {
			return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
		}, nil
	case DriverMySQL:
		dsn := cfg.DSN
		if dsn == "" {
			dsn = BuildDSN(cfg)
		}
		return dsn, func(dsn string) (*gorm.DB, error) {
			return gorm.Open(gmysql.Open(dsn), &gorm.Config{})
		}, nil
	case DriverPostgres:
		return cfg.DSN, func(dsn string) (*gorm.DB, error) {
			return gorm.Open(postgres.Open(dsn), &gorm.Config{})
		}, nil
	default:
		return "", nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, cfg.Driver)
	}
}

// Open connects to the configured database and, when cfg.Migrate is set,
// migrates models.
func Open(cfg Config, logger *zap.Logger, models ...any) (*gorm.DB, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	dsn, opener, err := dialect(cfg)
	if err != nil {
		return nil, err
	}
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	db, err := connectWithRetry(dsn, timeout, opener, logger)
	if err != nil {
		return nil, err
	}

	if cfg.Migrate && len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			return nil, fmt.Errorf("failed to migrate: %w", err)
		}
		logger.Info("database migrated", zap.Int("models", len(models)))
	}

	logger.Info("database connected", zap.String("driver", driverName(cfg)))
	return db, nil
}

func driverName(cfg Config) string {
	if cfg.Driver == "" {
		return DriverSQLite
	}
	return cfg.Driver
}
