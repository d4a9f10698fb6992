// Package di provides dependency injection factories for creating application components.
package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"cryptovision/internal/feature/chart/usecase"
	"cryptovision/internal/platform/cache"
	"cryptovision/internal/platform/config"
	"cryptovision/internal/platform/externalapi/binance"
	infrahttp "cryptovision/internal/platform/http"
	"cryptovision/internal/shared/ratelimiter"
)

// NewMarket creates the Binance market client with its HTTP client and rate limiter,
// wrapped in the Redis kline cache when Redis is available and caching is enabled.
func NewMarket(cfg *config.Config, rdb *redis.Client, logger *zap.Logger) usecase.MarketRepository {
	bcfg := cfg.BinanceClient()
	httpClient := infrahttp.NewHTTPClient(bcfg.Timeout)
	limiter := ratelimiter.NewRateLimiter(bcfg.RequestsPerMinute, time.Minute, logger)
	market := binance.NewBinanceMarket(bcfg, httpClient, limiter, logger)

	if rdb == nil || !cfg.Cache.Enabled {
		return market
	}
	return cache.NewCachingMarketRepository(rdb, market, cfg.Cache.Namespace, logger)
}
