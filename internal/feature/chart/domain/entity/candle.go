package entity

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// RawCandle is one kline row exactly as the exchange returned it.
// Fields are positional: [0] open time in epoch milliseconds, then prices.
// Elements may be json.Number, float64 or string depending on how the row was decoded.
type RawCandle []any

// Time parses position i as an epoch-millisecond timestamp.
func (r RawCandle) Time(i int) (time.Time, error) {
	if i < 0 || i >= len(r) {
		return time.Time{}, fmt.Errorf("field %d missing (row has %d fields)", i, len(r))
	}
	var ms int64
	switch v := r[i].(type) {
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return time.Time{}, fmt.Errorf("field %d: parse time %q: %w", i, v, err)
		}
		ms = n
	case float64:
		ms = int64(v)
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("field %d: parse time %q: %w", i, v, err)
		}
		ms = n
	default:
		return time.Time{}, fmt.Errorf("field %d: unexpected type %T for time", i, r[i])
	}
	return time.UnixMilli(ms).UTC(), nil
}

// Float parses position i as a price.
func (r RawCandle) Float(i int) (float64, error) {
	if i < 0 || i >= len(r) {
		return 0, fmt.Errorf("field %d missing (row has %d fields)", i, len(r))
	}
	switch v := r[i].(type) {
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("field %d: parse price %q: %w", i, v, err)
		}
		return f, nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, fmt.Errorf("field %d: parse price %q: %w", i, v, err)
		}
		return f, nil
	case float64:
		return v, nil
	default:
		return 0, fmt.Errorf("field %d: unexpected type %T for price", i, r[i])
	}
}

// RowLayout maps the OHLC prices of a RawCandle to their positions.
type RowLayout struct {
	Name  string
	Open  int
	High  int
	Low   int
	Close int
}

// LegacyLayout reads index 2 as close and 3 as high, 4 as low.
// Existing chart front-ends were built against this reading of the row.
var LegacyLayout = RowLayout{Name: "legacy", Open: 1, High: 3, Low: 4, Close: 2}

// BinanceLayout is the documented Binance kline order: open, high, low, close.
var BinanceLayout = RowLayout{Name: "binance", Open: 1, High: 2, Low: 3, Close: 4}

// LayoutByName returns the layout registered under name.
func LayoutByName(name string) (RowLayout, bool) {
	switch name {
	case LegacyLayout.Name, "":
		return LegacyLayout, true
	case BinanceLayout.Name:
		return BinanceLayout, true
	default:
		return RowLayout{}, false
	}
}
