// Package dto defines the data transfer objects of the chart HTTP transport layer.
package dto

// CoinChangeRequest is the request body of PUT /chart/coin.
type CoinChangeRequest struct {
	Coin string `json:"coin" binding:"required,oneof=ETHUSDT BTCUSDT LTCUSDT BNBUSDT"`
}

// IntervalChangeRequest is the request body of PUT /chart/interval.
// oneof is case sensitive, so "1m" and "1M" stay distinct.
type IntervalChangeRequest struct {
	Interval string `json:"interval" binding:"required,oneof=1m 5m 15m 1h 1d 1w 1M"`
}

// ChartTypeChangeRequest is the request body of PUT /chart/chart-type.
type ChartTypeChangeRequest struct {
	ChartType string `json:"chart_type" binding:"required,oneof=line bar candlestick"`
}

// OptionsQuery is the query of GET /chart/options. An empty interval means the current one.
type OptionsQuery struct {
	Interval string `form:"interval" binding:"omitempty,oneof=1m 5m 15m 1h 1d 1w 1M"`
}
