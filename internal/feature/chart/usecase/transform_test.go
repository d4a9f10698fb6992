package usecase

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptovision/internal/feature/chart/domain/entity"
)

func TestBuildSeriesData_LegacyLayout(t *testing.T) {
	t.Parallel()

	fetchedAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := []entity.RawCandle{
		{json.Number("1700000000000"), "1800.5", "1805.2", "1810.0", "1795.0", "12.5"},
		{json.Number("1700000060000"), "1805.2", "1801.0", "1806.3", "1799.9", "8.1"},
	}

	data, err := BuildSeriesData(entity.CoinETHUSDT, entity.Interval1m, rows, entity.LegacyLayout, fetchedAt)
	require.NoError(t, err)

	require.Len(t, data.LineBar.Points, 2)
	require.Len(t, data.Candles, 2)
	assert.Equal(t, 2, data.Len())

	assert.Equal(t, int64(1700000000000), data.LineBar.Points[0].Time.UnixMilli())
	assert.Equal(t, 1800.5, data.LineBar.Points[0].Value)

	assert.Equal(t, entity.CandlePoint{
		Time:  time.UnixMilli(1700000000000).UTC(),
		Open:  1800.5,
		High:  1810.0,
		Low:   1795.0,
		Close: 1805.2,
	}, data.Candles[0])

	assert.Equal(t, "Price", data.LineBar.Label)
	assert.Equal(t, "rgba(75, 192, 192, 1)", data.LineBar.BorderColor)
	assert.Equal(t, "rgba(75, 192, 192, 0.2)", data.LineBar.BackgroundColor)
	assert.Equal(t, 1, data.LineBar.BorderWidth)
	assert.Equal(t, entity.CoinETHUSDT, data.Coin)
	assert.Equal(t, entity.Interval1m, data.Interval)
	assert.Equal(t, fetchedAt, data.FetchedAt)
}

func TestBuildSeriesData_BinanceLayout(t *testing.T) {
	t.Parallel()

	rows := []entity.RawCandle{
		{json.Number("1700000000000"), "1800.5", "1810.0", "1795.0", "1805.2"},
	}

	data, err := BuildSeriesData(entity.CoinETHUSDT, entity.Interval1m, rows, entity.BinanceLayout, time.Now())
	require.NoError(t, err)

	assert.Equal(t, 1800.5, data.Candles[0].Open)
	assert.Equal(t, 1810.0, data.Candles[0].High)
	assert.Equal(t, 1795.0, data.Candles[0].Low)
	assert.Equal(t, 1805.2, data.Candles[0].Close)
}

func TestBuildSeriesData_Empty(t *testing.T) {
	t.Parallel()

	data, err := BuildSeriesData(entity.CoinBTCUSDT, entity.Interval1d, nil, entity.LegacyLayout, time.Now())
	require.NoError(t, err)
	assert.Empty(t, data.LineBar.Points)
	assert.Empty(t, data.Candles)
	assert.NotNil(t, data.Candles, "empty series still serializes as an array")
}

func TestBuildSeriesData_MalformedRow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		row  entity.RawCandle
	}{
		{"too short", entity.RawCandle{json.Number("1700000000000"), "1"}},
		{"bad time", entity.RawCandle{"yesterday", "1", "2", "3", "4"}},
		{"bad open", entity.RawCandle{json.Number("1700000000000"), "x", "2", "3", "4"}},
		{"bad close", entity.RawCandle{json.Number("1700000000000"), "1", "x", "3", "4"}},
		{"bad high", entity.RawCandle{json.Number("1700000000000"), "1", "2", "x", "4"}},
		{"bad low", entity.RawCandle{json.Number("1700000000000"), "1", "2", "3", "x"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			good := entity.RawCandle{json.Number("1700000000000"), "1", "2", "3", "4"}
			_, err := BuildSeriesData(entity.CoinETHUSDT, entity.Interval1m, []entity.RawCandle{good, tt.row}, entity.LegacyLayout, time.Now())
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrParseFailure), "expected ErrParseFailure, got %v", err)
			assert.Contains(t, err.Error(), "row 1")
		})
	}
}

func TestDerivedChartOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		interval entity.Interval
		want     entity.TimeUnit
	}{
		{"1m", entity.TimeUnitMinute},
		{"5m", entity.TimeUnitMinute},
		{"15m", entity.TimeUnitMonth},
		{"1h", entity.TimeUnitHour},
		{"1d", entity.TimeUnitDay},
		{"1w", entity.TimeUnitWeek},
		{"1M", entity.TimeUnitMonth},
		{"", entity.TimeUnitMonth},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(string(tt.interval), func(t *testing.T) {
			t.Parallel()

			opts := DerivedChartOptions(tt.interval)
			assert.Equal(t, tt.want, opts.TimeUnit)
			assert.True(t, opts.Responsive)
			assert.True(t, opts.BeginAtZero)
		})
	}
}
