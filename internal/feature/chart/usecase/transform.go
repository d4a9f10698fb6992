package usecase

import (
	"fmt"
	"time"

	"cryptovision/internal/feature/chart/domain/entity"
)

// Line/bar dataset styling sent with every series.
const (
	seriesLabel           = "Price"
	seriesBorderColor     = "rgba(75, 192, 192, 1)"
	seriesBackgroundColor = "rgba(75, 192, 192, 0.2)"
	seriesBorderWidth     = 1
)

// BuildSeriesData converts raw kline rows into both chart views.
// The line/bar value of each row is its open price. Any malformed row fails the
// whole conversion so a partial series is never produced.
func BuildSeriesData(coin entity.Coin, interval entity.Interval, rows []entity.RawCandle, layout entity.RowLayout, fetchedAt time.Time) (entity.SeriesData, error) {
	points := make([]entity.ValuePoint, 0, len(rows))
	candles := make([]entity.CandlePoint, 0, len(rows))

	for i, row := range rows {
		cp, err := toCandlePoint(row, layout)
		if err != nil {
			return entity.SeriesData{}, fmt.Errorf("%w: row %d: %v", ErrParseFailure, i, err)
		}
		points = append(points, entity.ValuePoint{Time: cp.Time, Value: cp.Open})
		candles = append(candles, cp)
	}

	return entity.SeriesData{
		Coin:     coin,
		Interval: interval,
		LineBar: entity.LineBarSeries{
			Label:           seriesLabel,
			Points:          points,
			BorderColor:     seriesBorderColor,
			BackgroundColor: seriesBackgroundColor,
			BorderWidth:     seriesBorderWidth,
		},
		Candles:   candles,
		FetchedAt: fetchedAt,
	}, nil
}

func toCandlePoint(row entity.RawCandle, layout entity.RowLayout) (entity.CandlePoint, error) {
	tm, err := row.Time(0)
	if err != nil {
		return entity.CandlePoint{}, err
	}
	o, err := row.Float(layout.Open)
	if err != nil {
		return entity.CandlePoint{}, fmt.Errorf("open: %w", err)
	}
	h, err := row.Float(layout.High)
	if err != nil {
		return entity.CandlePoint{}, fmt.Errorf("high: %w", err)
	}
	l, err := row.Float(layout.Low)
	if err != nil {
		return entity.CandlePoint{}, fmt.Errorf("low: %w", err)
	}
	c, err := row.Float(layout.Close)
	if err != nil {
		return entity.CandlePoint{}, fmt.Errorf("close: %w", err)
	}
	return entity.CandlePoint{Time: tm, Open: o, High: h, Low: l, Close: c}, nil
}
