package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"cryptovision/internal/feature/chart/domain/entity"
	"cryptovision/internal/feature/chart/usecase"
	"cryptovision/internal/shared/ratelimiter"
)

// maxErrorBody caps how much of a failed response is kept in the error.
const maxErrorBody = 512

// BinanceMarket is a MarketRepository backed by the Binance klines endpoint.
type BinanceMarket struct {
	cfg     Config
	client  *http.Client
	limiter ratelimiter.Limiter
	logger  *zap.Logger
}

// Compile-time check to ensure BinanceMarket implements MarketRepository.
var _ usecase.MarketRepository = (*BinanceMarket)(nil)

// NewBinanceMarket creates a BinanceMarket. limiter and logger may be nil.
func NewBinanceMarket(cfg Config, client *http.Client, limiter ratelimiter.Limiter, logger *zap.Logger) *BinanceMarket {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &BinanceMarket{cfg: cfg, client: client, limiter: limiter, logger: logger}
}

// GetKlines requests the latest limit klines for symbol/interval and returns the rows
// undecoded. Numbers are kept as json.Number so timestamps stay exact.
func (b *BinanceMarket) GetKlines(ctx context.Context, symbol, interval string, limit int) ([]entity.RawCandle, error) {
	if b.limiter != nil {
		if err := b.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: rate limiter: %v", usecase.ErrNetworkFailure, err)
		}
	}

	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("interval", interval)
	q.Set("limit", strconv.Itoa(limit))
	u := fmt.Sprintf("%s/api/v3/klines?%s", b.cfg.BaseURL, q.Encode())

	b.logger.Debug("calling Binance API", zap.String("url", u))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", usecase.ErrNetworkFailure, err)
	}

	res, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", usecase.ErrNetworkFailure, err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			b.logger.Warn("failed to close response body", zap.Error(err))
		}
	}()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		b.logger.Error("Binance API error response",
			zap.Int("status", res.StatusCode),
			zap.String("symbol", symbol),
			zap.String("interval", interval),
			zap.String("response", string(body)))
		return nil, fmt.Errorf("%w: binance http %d: %s", usecase.ErrNetworkFailure, res.StatusCode, strings.TrimSpace(string(body)))
	}

	dec := json.NewDecoder(res.Body)
	dec.UseNumber()
	var raw [][]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: decode klines: %v", usecase.ErrParseFailure, err)
	}
	// null decodes without error into a nil slice.
	if raw == nil {
		return nil, fmt.Errorf("%w: klines body is not an array", usecase.ErrParseFailure)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after klines array", usecase.ErrParseFailure)
	}

	if len(raw) == 0 {
		b.logger.Warn("Binance returned empty klines array",
			zap.String("symbol", symbol),
			zap.String("interval", interval))
	}

	rows := make([]entity.RawCandle, len(raw))
	for i, r := range raw {
		rows[i] = entity.RawCandle(r)
	}
	return rows, nil
}
