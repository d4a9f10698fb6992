package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	redisv9 "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"cryptovision/internal/app/di"
	"cryptovision/internal/app/router"
	chartadapters "cryptovision/internal/feature/chart/adapters"
	charthandler "cryptovision/internal/feature/chart/transport/handler"
	"cryptovision/internal/feature/chart/usecase"
	"cryptovision/internal/platform/config"
	infradb "cryptovision/internal/platform/db"
	"cryptovision/internal/platform/http/handler"
	"cryptovision/internal/platform/logger"
	infraredis "cryptovision/internal/platform/redis"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_FILE"), "path to an optional YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx := context.Background()
	checks := map[string]handler.Check{}

	// Redis
	var rdb *redisv9.Client
	if rc := cfg.RedisClient(); rc.Enabled() {
		if tmp, err := infraredis.NewRedisClient(ctx, rc, zl); err != nil {
			zl.Warn("Redis unavailable. Running without cache.", zap.Error(err))
		} else {
			rdb = tmp
			checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
			defer func() {
				if err := rdb.Close(); err != nil {
					zl.Error("Failed to close Redis client", zap.Error(err))
				}
			}()
		}
	}

	// SQL preference store, only needed without Redis
	var db *gorm.DB
	if rdb == nil {
		if tmp, err := infradb.Open(cfg.DB(), zl, &chartadapters.PreferenceModel{}); err != nil {
			zl.Warn("Database unavailable. Selection will not be persisted.", zap.Error(err))
		} else {
			db = tmp
			checks["database"] = func(ctx context.Context) error {
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}
				return sqlDB.PingContext(ctx)
			}
		}
	}

	// Usecase
	market := di.NewMarket(cfg, rdb, zl)
	prefs := di.NewPreferenceStore(rdb, db, cfg.Preference.Prefix)
	vc := usecase.NewViewController(market, prefs, zl.Named("chart"), usecase.WithRowLayout(cfg.RowLayout()))

	if err := vc.Initialize(ctx); err != nil {
		// the front-end sees last_error and can refresh
		zl.Warn("Initial market data fetch failed", zap.Error(err))
	}

	// Handler
	chartH := charthandler.NewChartHandler(vc, zl)
	healthH := handler.NewHealthHandler(checks)

	gin.SetMode(gin.ReleaseMode)
	r := router.NewRouter(chartH, healthH, cfg.CORS.AllowOrigins, zl)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zl.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zl.Info("Shutting down server...")

	shutdownTimeout := cfg.Server.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(sctx); err != nil {
		zl.Error("Server forced to shutdown", zap.Error(err))
	}
	zl.Info("Server exited")
}
