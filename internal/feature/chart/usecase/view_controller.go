package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"cryptovision/internal/feature/chart/domain/entity"
)

const (
	// KlineLimit is the number of historical candles requested per fetch.
	KlineLimit = 100

	// PrefKeyCoin is the preference key holding the selected coin symbol.
	PrefKeyCoin = "selectedCoin"
	// PrefKeyInterval is the preference key holding the selected interval code.
	PrefKeyInterval = "selectedTimeframe"
)

// MarketRepository fetches raw kline rows from an exchange.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type MarketRepository interface {
	GetKlines(ctx context.Context, symbol, interval string, limit int) ([]entity.RawCandle, error)
}

// CacheInvalidator is implemented by market repositories that cache responses.
// Refresh uses it so a manual reload always reaches the exchange.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, symbol, interval string) error
}

// PreferenceStore is a persistent string key-value store for the user's selection.
// Get returns ErrPreferenceNotFound for keys that were never written.
type PreferenceStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// State is a consistent snapshot of the view held by the controller.
type State struct {
	Selection entity.Selection
	Loading   bool
	// Series is nil until the first successful fetch.
	Series    *entity.SeriesData
	Options   entity.ChartOptions
	LastError string
}

// ViewController owns the chart view state and is the only writer to it.
// Every exported method is safe for concurrent use.
type ViewController struct {
	market MarketRepository
	prefs  PreferenceStore
	layout entity.RowLayout
	logger *zap.Logger
	now    func() time.Time

	mu        sync.Mutex
	selection entity.Selection
	series    *entity.SeriesData
	inFlight  int
	seq       uint64
	lastErr   error

	// persistMu orders preference writes so the store ends on the latest selection.
	persistMu sync.Mutex
}

// Option configures a ViewController.
type Option func(*ViewController)

// WithRowLayout sets how OHLC prices are read from raw kline rows.
func WithRowLayout(l entity.RowLayout) Option {
	return func(vc *ViewController) { vc.layout = l }
}

// WithClock replaces the clock used to stamp fetched series.
func WithClock(now func() time.Time) Option {
	return func(vc *ViewController) { vc.now = now }
}

// NewViewController creates a controller holding the default selection.
// Call Initialize to apply persisted preferences and load the first series.
func NewViewController(market MarketRepository, prefs PreferenceStore, logger *zap.Logger, opts ...Option) *ViewController {
	if logger == nil {
		logger = zap.NewNop()
	}
	vc := &ViewController{
		market:    market,
		prefs:     prefs,
		layout:    entity.LegacyLayout,
		logger:    logger,
		now:       time.Now,
		selection: entity.DefaultSelection(),
	}
	for _, opt := range opts {
		opt(vc)
	}
	return vc
}

// Initialize restores the persisted coin and interval and triggers the first fetch.
// ChartType is not persisted and always starts as line. The returned error is the
// fetch error, if any; the controller stays usable either way.
func (vc *ViewController) Initialize(ctx context.Context) error {
	sel := entity.DefaultSelection()

	if v, ok := vc.loadPreference(ctx, PrefKeyCoin); ok {
		if c := entity.Coin(v); c.Valid() {
			sel.Coin = c
		} else {
			vc.logger.Warn("ignoring persisted coin", zap.String("value", v))
		}
	}
	if v, ok := vc.loadPreference(ctx, PrefKeyInterval); ok {
		if i := entity.Interval(v); i.Valid() {
			sel.Interval = i
		} else {
			vc.logger.Warn("ignoring persisted interval", zap.String("value", v))
		}
	}

	vc.mu.Lock()
	vc.selection = sel
	vc.mu.Unlock()

	vc.logger.Info("chart view initialized",
		zap.String("coin", string(sel.Coin)),
		zap.String("interval", string(sel.Interval)))

	_, err := vc.FetchMarketData(ctx, sel.Coin, sel.Interval)
	return err
}

func (vc *ViewController) loadPreference(ctx context.Context, key string) (string, bool) {
	if vc.prefs == nil {
		return "", false
	}
	v, err := vc.prefs.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrPreferenceNotFound) {
			vc.logger.Warn("failed to read preference; using default", zap.String("key", key), zap.Error(err))
		}
		return "", false
	}
	if v == "" {
		return "", false
	}
	return v, true
}

// FetchMarketData requests the latest klines for coin/interval and, when this is
// still the newest request for the current selection, replaces the held series.
//
// Loading stays true while any fetch is in flight and is cleared on every exit path.
// On failure the held series is left untouched and the error is recorded for the view.
// A result superseded by a newer request is discarded and ErrStaleResult is returned
// together with the series that was built.
func (vc *ViewController) FetchMarketData(ctx context.Context, coin entity.Coin, interval entity.Interval) (entity.SeriesData, error) {
	if !coin.Valid() {
		return entity.SeriesData{}, fmt.Errorf("%w: %q", ErrUnsupportedCoin, coin)
	}
	if !interval.Valid() {
		return entity.SeriesData{}, fmt.Errorf("%w: %q", ErrUnsupportedInterval, interval)
	}

	vc.mu.Lock()
	vc.seq++
	seq := vc.seq
	vc.inFlight++
	vc.mu.Unlock()
	defer vc.settle()

	data, err := vc.load(ctx, coin, interval)

	vc.mu.Lock()
	latest := seq == vc.seq &&
		vc.selection.SameMarket(entity.Selection{Coin: coin, Interval: interval})

	if err != nil {
		if latest {
			vc.lastErr = err
		}
		vc.mu.Unlock()
		vc.logger.Error("failed to fetch market data",
			zap.String("coin", string(coin)),
			zap.String("interval", string(interval)),
			zap.Uint64("seq", seq),
			zap.Error(err))
		return entity.SeriesData{}, err
	}

	if !latest {
		vc.mu.Unlock()
		vc.logger.Debug("discarding superseded market data",
			zap.String("coin", string(coin)),
			zap.String("interval", string(interval)),
			zap.Uint64("seq", seq))
		return data, ErrStaleResult
	}

	vc.series = &data
	vc.lastErr = nil
	vc.mu.Unlock()

	vc.logger.Debug("market data applied",
		zap.String("coin", string(coin)),
		zap.String("interval", string(interval)),
		zap.Int("rows", data.Len()),
		zap.Uint64("seq", seq))
	return data, nil
}

func (vc *ViewController) load(ctx context.Context, coin entity.Coin, interval entity.Interval) (entity.SeriesData, error) {
	rows, err := vc.market.GetKlines(ctx, string(coin), string(interval), KlineLimit)
	if err != nil {
		return entity.SeriesData{}, err
	}
	return BuildSeriesData(coin, interval, rows, vc.layout, vc.now())
}

func (vc *ViewController) settle() {
	vc.mu.Lock()
	vc.inFlight--
	vc.mu.Unlock()
}

// OnCoinChange selects a new coin, persists the selection and fetches its data.
func (vc *ViewController) OnCoinChange(ctx context.Context, coin entity.Coin) error {
	if !coin.Valid() {
		return fmt.Errorf("%w: %q", ErrUnsupportedCoin, coin)
	}
	vc.mu.Lock()
	vc.selection.Coin = coin
	sel := vc.selection
	vc.mu.Unlock()

	vc.persistSelection(ctx)
	_, err := vc.FetchMarketData(ctx, sel.Coin, sel.Interval)
	return err
}

// OnIntervalChange selects a new interval, persists the selection and fetches its data.
func (vc *ViewController) OnIntervalChange(ctx context.Context, interval entity.Interval) error {
	if !interval.Valid() {
		return fmt.Errorf("%w: %q", ErrUnsupportedInterval, interval)
	}
	vc.mu.Lock()
	vc.selection.Interval = interval
	sel := vc.selection
	vc.mu.Unlock()

	vc.persistSelection(ctx)
	_, err := vc.FetchMarketData(ctx, sel.Coin, sel.Interval)
	return err
}

// OnChartTypeChange only switches how the held series is rendered.
func (vc *ViewController) OnChartTypeChange(chartType entity.ChartType) error {
	if !chartType.Valid() {
		return fmt.Errorf("%w: %q", ErrUnsupportedChartType, chartType)
	}
	vc.mu.Lock()
	vc.selection.ChartType = chartType
	vc.mu.Unlock()
	return nil
}

// Refresh re-fetches the current selection, bypassing any response cache.
func (vc *ViewController) Refresh(ctx context.Context) error {
	vc.mu.Lock()
	sel := vc.selection
	vc.mu.Unlock()

	if inv, ok := vc.market.(CacheInvalidator); ok {
		if err := inv.Invalidate(ctx, string(sel.Coin), string(sel.Interval)); err != nil {
			vc.logger.Warn("failed to invalidate cached klines", zap.Error(err))
		}
	}
	_, err := vc.FetchMarketData(ctx, sel.Coin, sel.Interval)
	return err
}

// persistSelection writes the current coin and interval. Failures are logged only:
// a broken preference store must not block the view.
func (vc *ViewController) persistSelection(ctx context.Context) {
	if vc.prefs == nil {
		return
	}
	vc.persistMu.Lock()
	defer vc.persistMu.Unlock()

	vc.mu.Lock()
	sel := vc.selection
	vc.mu.Unlock()

	err := errors.Join(
		vc.prefs.Set(ctx, PrefKeyCoin, string(sel.Coin)),
		vc.prefs.Set(ctx, PrefKeyInterval, string(sel.Interval)),
	)
	if err != nil {
		vc.logger.Warn("failed to persist selection",
			zap.String("coin", string(sel.Coin)),
			zap.String("interval", string(sel.Interval)),
			zap.Error(err))
	}
}

// State returns a snapshot of the current view.
func (vc *ViewController) State() State {
	vc.mu.Lock()
	defer vc.mu.Unlock()

	st := State{
		Selection: vc.selection,
		Loading:   vc.inFlight > 0,
		Series:    vc.series,
		Options:   DerivedChartOptions(vc.selection.Interval),
	}
	if vc.lastErr != nil {
		st.LastError = vc.lastErr.Error()
	}
	return st
}
