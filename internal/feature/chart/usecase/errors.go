// Package usecase implements the chart view state and the transformation of
// exchange klines into chart-ready series.
package usecase

import "errors"

var (
	// ErrNetworkFailure is returned when the market request was rejected or answered with a non-success status.
	ErrNetworkFailure = errors.New("market data request failed")

	// ErrParseFailure is returned when the market response is not JSON or a row does not have the expected shape.
	ErrParseFailure = errors.New("market data response malformed")

	// ErrUnsupportedCoin is returned for a coin outside the supported set.
	ErrUnsupportedCoin = errors.New("unsupported coin")

	// ErrUnsupportedInterval is returned for an interval outside the supported set.
	ErrUnsupportedInterval = errors.New("unsupported interval")

	// ErrUnsupportedChartType is returned for a chart type outside the supported set.
	ErrUnsupportedChartType = errors.New("unsupported chart type")

	// ErrPreferenceNotFound is returned by a PreferenceStore when a key has never been written.
	ErrPreferenceNotFound = errors.New("preference not found")

	// ErrStaleResult is returned by FetchMarketData when a newer fetch superseded this one
	// and its result was discarded.
	ErrStaleResult = errors.New("fetch result superseded by a newer request")
)
