// Package entity defines the domain models for the chart feature.
package entity

// Coin is a supported trading pair symbol.
type Coin string

const (
	CoinETHUSDT Coin = "ETHUSDT"
	CoinBTCUSDT Coin = "BTCUSDT"
	CoinLTCUSDT Coin = "LTCUSDT"
	CoinBNBUSDT Coin = "BNBUSDT"
)

// Interval is a supported kline granularity code.
type Interval string

const (
	Interval1m  Interval = "1m"
	Interval5m  Interval = "5m"
	Interval15m Interval = "15m"
	Interval1h  Interval = "1h"
	Interval1d  Interval = "1d"
	Interval1w  Interval = "1w"
	Interval1M  Interval = "1M"
)

// ChartType selects how held series data is rendered.
type ChartType string

const (
	ChartTypeLine        ChartType = "line"
	ChartTypeBar         ChartType = "bar"
	ChartTypeCandlestick ChartType = "candlestick"
)

const (
	DefaultCoin      = CoinETHUSDT
	DefaultInterval  = Interval1m
	DefaultChartType = ChartTypeLine
)

// Option is a selectable value with its display label, in dropdown order.
type Option struct {
	Value string
	Label string
}

var coinOptions = []Option{
	{Value: string(CoinETHUSDT), Label: "Ethereum (ETH/USDT)"},
	{Value: string(CoinBTCUSDT), Label: "Bitcoin (BTC/USDT)"},
	{Value: string(CoinLTCUSDT), Label: "Litecoin (LTC/USDT)"},
	{Value: string(CoinBNBUSDT), Label: "Binance Coin (BNB/USDT)"},
}

var intervalOptions = []Option{
	{Value: string(Interval1m), Label: "1 Minute"},
	{Value: string(Interval5m), Label: "5 Minutes"},
	{Value: string(Interval15m), Label: "15 Minutes"},
	{Value: string(Interval1h), Label: "1 Hour"},
	{Value: string(Interval1d), Label: "1 Day"},
	{Value: string(Interval1w), Label: "1 Week"},
	{Value: string(Interval1M), Label: "1 Month"},
}

var chartTypeOptions = []Option{
	{Value: string(ChartTypeLine), Label: "Line Chart"},
	{Value: string(ChartTypeBar), Label: "Bar Chart"},
	{Value: string(ChartTypeCandlestick), Label: "Candlestick Chart"},
}

// CoinOptions returns the supported coins with labels.
func CoinOptions() []Option { return append([]Option(nil), coinOptions...) }

// IntervalOptions returns the supported intervals with labels.
func IntervalOptions() []Option { return append([]Option(nil), intervalOptions...) }

// ChartTypeOptions returns the supported chart types with labels.
func ChartTypeOptions() []Option { return append([]Option(nil), chartTypeOptions...) }

func contains(opts []Option, v string) bool {
	for _, o := range opts {
		if o.Value == v {
			return true
		}
	}
	return false
}

// Valid reports whether c is one of the supported coins.
func (c Coin) Valid() bool { return contains(coinOptions, string(c)) }

// Valid reports whether i is one of the supported intervals.
// Interval codes are case sensitive: "1m" is a minute and "1M" a month.
func (i Interval) Valid() bool { return contains(intervalOptions, string(i)) }

// Valid reports whether t is one of the supported chart types.
func (t ChartType) Valid() bool { return contains(chartTypeOptions, string(t)) }

// Selection is the user's current coin, interval and chart type.
type Selection struct {
	Coin      Coin
	Interval  Interval
	ChartType ChartType
}

// DefaultSelection returns the selection a session starts with when nothing is persisted.
func DefaultSelection() Selection {
	return Selection{
		Coin:      DefaultCoin,
		Interval:  DefaultInterval,
		ChartType: DefaultChartType,
	}
}

// SameMarket reports whether s and o request the same market data.
// ChartType is ignored because it never affects what is fetched.
func (s Selection) SameMarket(o Selection) bool {
	return s.Coin == o.Coin && s.Interval == o.Interval
}
