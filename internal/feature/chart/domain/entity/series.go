package entity

import "time"

// ValuePoint is one (timestamp, value) pair of a line or bar series.
type ValuePoint struct {
	Time  time.Time
	Value float64
}

// LineBarSeries is the dataset drawn by line and bar charts.
type LineBarSeries struct {
	Label           string
	Points          []ValuePoint
	BorderColor     string
	BackgroundColor string
	BorderWidth     int
}

// CandlePoint is one OHLC point of a candlestick chart.
type CandlePoint struct {
	Time  time.Time
	Open  float64
	High  float64
	Low   float64
	Close float64
}

// SeriesData holds both chart views of a single completed fetch.
// It is replaced wholesale on every successful fetch and never patched.
type SeriesData struct {
	Coin      Coin
	Interval  Interval
	LineBar   LineBarSeries
	Candles   []CandlePoint
	FetchedAt time.Time
}

// Len returns the number of rows the series was built from.
func (s SeriesData) Len() int {
	return len(s.Candles)
}
