package dto

import (
	"cryptovision/internal/feature/chart/domain/entity"
	"cryptovision/internal/feature/chart/usecase"
)

// ErrorResponse is the body returned for rejected requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SelectionResponse is the current coin, interval and chart type.
type SelectionResponse struct {
	Coin      string `json:"coin"`
	Interval  string `json:"interval"`
	ChartType string `json:"chart_type"`
}

// OptionsResponse is the axis configuration for the current interval.
type OptionsResponse struct {
	Responsive  bool   `json:"responsive"`
	TimeUnit    string `json:"time_unit"`
	BeginAtZero bool   `json:"begin_at_zero"`
}

// PointResponse is one line/bar point. Time is epoch milliseconds.
type PointResponse struct {
	Time  int64   `json:"time"`
	Value float64 `json:"value"`
}

// LineBarResponse is the line/bar dataset.
type LineBarResponse struct {
	Label           string          `json:"label"`
	Data            []PointResponse `json:"data"`
	BorderColor     string          `json:"border_color"`
	BackgroundColor string          `json:"background_color"`
	BorderWidth     int             `json:"border_width"`
	Fill            bool            `json:"fill"`
}

// CandleResponse is one OHLC point. Time is epoch milliseconds.
type CandleResponse struct {
	Time  int64   `json:"time"`
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

// SeriesResponse carries both views of the held series.
type SeriesResponse struct {
	Coin      string           `json:"coin"`
	Interval  string           `json:"interval"`
	FetchedAt int64            `json:"fetched_at"`
	LineBar   LineBarResponse  `json:"line_bar"`
	Candles   []CandleResponse `json:"candles"`
}

// StateResponse is the full view state.
type StateResponse struct {
	Selection SelectionResponse `json:"selection"`
	Loading   bool              `json:"loading"`
	Options   OptionsResponse   `json:"options"`
	Series    *SeriesResponse   `json:"series"`
	LastError string            `json:"last_error,omitempty"`
}

// OptionResponse is a selectable value with its display label.
type OptionResponse struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// CatalogResponse lists every supported selection value in display order.
type CatalogResponse struct {
	Coins      []OptionResponse `json:"coins"`
	Intervals  []OptionResponse `json:"intervals"`
	ChartTypes []OptionResponse `json:"chart_types"`
}

// NewOptionsResponse converts chart options.
func NewOptionsResponse(o entity.ChartOptions) OptionsResponse {
	return OptionsResponse{
		Responsive:  o.Responsive,
		TimeUnit:    string(o.TimeUnit),
		BeginAtZero: o.BeginAtZero,
	}
}

// NewStateResponse converts a controller snapshot.
// The line/bar dataset is filled only when the line chart is selected.
func NewStateResponse(st usecase.State) StateResponse {
	out := StateResponse{
		Selection: SelectionResponse{
			Coin:      string(st.Selection.Coin),
			Interval:  string(st.Selection.Interval),
			ChartType: string(st.Selection.ChartType),
		},
		Loading:   st.Loading,
		Options:   NewOptionsResponse(st.Options),
		LastError: st.LastError,
	}
	if st.Series == nil {
		return out
	}

	s := st.Series
	points := make([]PointResponse, 0, len(s.LineBar.Points))
	for _, p := range s.LineBar.Points {
		points = append(points, PointResponse{Time: p.Time.UnixMilli(), Value: p.Value})
	}
	candles := make([]CandleResponse, 0, len(s.Candles))
	for _, c := range s.Candles {
		candles = append(candles, CandleResponse{
			Time:  c.Time.UnixMilli(),
			Open:  c.Open,
			High:  c.High,
			Low:   c.Low,
			Close: c.Close,
		})
	}

	out.Series = &SeriesResponse{
		Coin:      string(s.Coin),
		Interval:  string(s.Interval),
		FetchedAt: s.FetchedAt.UnixMilli(),
		LineBar: LineBarResponse{
			Label:           s.LineBar.Label,
			Data:            points,
			BorderColor:     s.LineBar.BorderColor,
			BackgroundColor: s.LineBar.BackgroundColor,
			BorderWidth:     s.LineBar.BorderWidth,
			Fill:            st.Selection.ChartType == entity.ChartTypeLine,
		},
		Candles: candles,
	}
	return out
}

// NewCatalogResponse lists the supported coins, intervals and chart types.
func NewCatalogResponse() CatalogResponse {
	return CatalogResponse{
		Coins:      toOptions(entity.CoinOptions()),
		Intervals:  toOptions(entity.IntervalOptions()),
		ChartTypes: toOptions(entity.ChartTypeOptions()),
	}
}

func toOptions(in []entity.Option) []OptionResponse {
	out := make([]OptionResponse, len(in))
	for i, o := range in {
		out[i] = OptionResponse{Value: o.Value, Label: o.Label}
	}
	return out
}
