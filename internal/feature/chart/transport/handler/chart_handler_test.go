package handler_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"cryptovision/internal/feature/chart/domain/entity"
	"cryptovision/internal/feature/chart/transport/handler"
	"cryptovision/internal/feature/chart/usecase"
)

// mockChartController is a func-field mock of handler.ChartController.
type mockChartController struct {
	StateFunc             func() usecase.State
	OnCoinChangeFunc      func(ctx context.Context, coin entity.Coin) error
	OnIntervalChangeFunc  func(ctx context.Context, interval entity.Interval) error
	OnChartTypeChangeFunc func(chartType entity.ChartType) error
	RefreshFunc           func(ctx context.Context) error
}

func (m *mockChartController) State() usecase.State { return m.StateFunc() }

func (m *mockChartController) OnCoinChange(ctx context.Context, coin entity.Coin) error {
	return m.OnCoinChangeFunc(ctx, coin)
}

func (m *mockChartController) OnIntervalChange(ctx context.Context, interval entity.Interval) error {
	return m.OnIntervalChangeFunc(ctx, interval)
}

func (m *mockChartController) OnChartTypeChange(chartType entity.ChartType) error {
	return m.OnChartTypeChangeFunc(chartType)
}

func (m *mockChartController) Refresh(ctx context.Context) error { return m.RefreshFunc(ctx) }

func newRouter(vc handler.ChartController) *gin.Engine {
	h := handler.NewChartHandler(vc, nil)
	r := gin.New()
	r.GET("/chart/state", h.GetState)
	r.PUT("/chart/coin", h.ChangeCoin)
	r.PUT("/chart/interval", h.ChangeInterval)
	r.PUT("/chart/chart-type", h.ChangeChartType)
	r.POST("/chart/refresh", h.Refresh)
	r.GET("/chart/options", h.GetOptions)
	r.GET("/chart/catalog", h.GetCatalog)
	return r
}

func sampleState(chartType entity.ChartType) usecase.State {
	ts := time.UnixMilli(1700000000000).UTC()
	return usecase.State{
		Selection: entity.Selection{Coin: entity.CoinETHUSDT, Interval: entity.Interval1m, ChartType: chartType},
		Options:   usecase.DerivedChartOptions(entity.Interval1m),
		Series: &entity.SeriesData{
			Coin:     entity.CoinETHUSDT,
			Interval: entity.Interval1m,
			LineBar: entity.LineBarSeries{
				Label:           "Price",
				Points:          []entity.ValuePoint{{Time: ts, Value: 1800.5}},
				BorderColor:     "rgba(75, 192, 192, 1)",
				BackgroundColor: "rgba(75, 192, 192, 0.2)",
				BorderWidth:     1,
			},
			Candles:   []entity.CandlePoint{{Time: ts, Open: 1800.5, High: 1810, Low: 1795, Close: 1805.2}},
			FetchedAt: time.UnixMilli(1700000100000).UTC(),
		},
	}
}

func TestChartHandler_GetState(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name         string
		state        usecase.State
		expectedBody string
	}{
		{
			name: "no data yet",
			state: usecase.State{
				Selection: entity.DefaultSelection(),
				Loading:   true,
				Options:   usecase.DerivedChartOptions(entity.Interval1m),
			},
			expectedBody: `{
				"selection":{"coin":"ETHUSDT","interval":"1m","chart_type":"line"},
				"loading":true,
				"options":{"responsive":true,"time_unit":"minute","begin_at_zero":true},
				"series":null
			}`,
		},
		{
			name:  "line chart is filled",
			state: sampleState(entity.ChartTypeLine),
			expectedBody: `{
				"selection":{"coin":"ETHUSDT","interval":"1m","chart_type":"line"},
				"loading":false,
				"options":{"responsive":true,"time_unit":"minute","begin_at_zero":true},
				"series":{
					"coin":"ETHUSDT","interval":"1m","fetched_at":1700000100000,
					"line_bar":{"label":"Price","data":[{"time":1700000000000,"value":1800.5}],
						"border_color":"rgba(75, 192, 192, 1)","background_color":"rgba(75, 192, 192, 0.2)",
						"border_width":1,"fill":true},
					"candles":[{"time":1700000000000,"open":1800.5,"high":1810,"low":1795,"close":1805.2}]
				}
			}`,
		},
		{
			name: "bar chart is not filled and error is reported",
			state: func() usecase.State {
				st := sampleState(entity.ChartTypeBar)
				st.LastError = "market data request failed"
				return st
			}(),
			expectedBody: `{
				"selection":{"coin":"ETHUSDT","interval":"1m","chart_type":"bar"},
				"loading":false,
				"options":{"responsive":true,"time_unit":"minute","begin_at_zero":true},
				"series":{
					"coin":"ETHUSDT","interval":"1m","fetched_at":1700000100000,
					"line_bar":{"label":"Price","data":[{"time":1700000000000,"value":1800.5}],
						"border_color":"rgba(75, 192, 192, 1)","background_color":"rgba(75, 192, 192, 0.2)",
						"border_width":1,"fill":false},
					"candles":[{"time":1700000000000,"open":1800.5,"high":1810,"low":1795,"close":1805.2}]
				},
				"last_error":"market data request failed"
			}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vc := &mockChartController{StateFunc: func() usecase.State { return tt.state }}

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, "/chart/state", nil)
			newRouter(vc).ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

func TestChartHandler_ChangeCoin(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		body           string
		changeErr      error
		expectCall     bool
		expectedStatus int
	}{
		{"success", `{"coin":"BTCUSDT"}`, nil, true, http.StatusOK},
		{"fetch failure is still 200", `{"coin":"BTCUSDT"}`, usecase.ErrNetworkFailure, true, http.StatusOK},
		{"superseded fetch is 200", `{"coin":"BTCUSDT"}`, usecase.ErrStaleResult, true, http.StatusOK},
		{"unsupported coin", `{"coin":"DOGEUSDT"}`, nil, false, http.StatusBadRequest},
		{"lower case coin", `{"coin":"btcusdt"}`, nil, false, http.StatusBadRequest},
		{"missing field", `{}`, nil, false, http.StatusBadRequest},
		{"malformed json", `{"coin":`, nil, false, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			vc := &mockChartController{
				StateFunc: func() usecase.State { return sampleState(entity.ChartTypeLine) },
				OnCoinChangeFunc: func(ctx context.Context, coin entity.Coin) error {
					called = true
					assert.Equal(t, entity.CoinBTCUSDT, coin)
					assert.NoError(t, ctx.Err())
					return tt.changeErr
				},
			}

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodPut, "/chart/coin", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			newRouter(vc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectCall, called)
			if tt.expectedStatus == http.StatusBadRequest {
				assert.JSONEq(t, `{"error":"invalid request"}`, w.Body.String())
			}
		})
	}
}

func TestChartHandler_ChangeInterval(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		body           string
		want           entity.Interval
		expectedStatus int
	}{
		{"minute", `{"interval":"1m"}`, entity.Interval1m, http.StatusOK},
		{"month is distinct from minute", `{"interval":"1M"}`, entity.Interval1M, http.StatusOK},
		{"unsupported", `{"interval":"4h"}`, "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got entity.Interval
			vc := &mockChartController{
				StateFunc: func() usecase.State { return sampleState(entity.ChartTypeLine) },
				OnIntervalChangeFunc: func(ctx context.Context, interval entity.Interval) error {
					got = interval
					return nil
				},
			}

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodPut, "/chart/interval", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			newRouter(vc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChartHandler_ChangeChartType(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var got entity.ChartType
	vc := &mockChartController{
		StateFunc: func() usecase.State { return sampleState(got) },
		OnChartTypeChangeFunc: func(chartType entity.ChartType) error {
			got = chartType
			return nil
		},
	}
	r := newRouter(vc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPut, "/chart/chart-type", bytes.NewBufferString(`{"chart_type":"candlestick"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, entity.ChartTypeCandlestick, got)
	assert.Contains(t, w.Body.String(), `"chart_type":"candlestick"`)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodPut, "/chart/chart-type", bytes.NewBufferString(`{"chart_type":"pie"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChartHandler_ControllerValidationErrorIsBadRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)

	vc := &mockChartController{
		StateFunc: func() usecase.State { return sampleState(entity.ChartTypeLine) },
		OnChartTypeChangeFunc: func(chartType entity.ChartType) error {
			return errors.Join(usecase.ErrUnsupportedChartType)
		},
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPut, "/chart/chart-type", bytes.NewBufferString(`{"chart_type":"bar"}`))
	req.Header.Set("Content-Type", "application/json")
	newRouter(vc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"unsupported chart type"}`, w.Body.String())
}

func TestChartHandler_Refresh(t *testing.T) {
	gin.SetMode(gin.TestMode)

	calls := 0
	vc := &mockChartController{
		StateFunc: func() usecase.State { return sampleState(entity.ChartTypeLine) },
		RefreshFunc: func(ctx context.Context) error {
			calls++
			return usecase.ErrParseFailure
		},
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/chart/refresh", nil)
	newRouter(vc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, calls)
}

func TestChartHandler_GetOptions(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		url            string
		expectedStatus int
		expectedBody   string
	}{
		{"explicit interval", "/chart/options?interval=1d", http.StatusOK, `{"responsive":true,"time_unit":"day","begin_at_zero":true}`},
		{"month", "/chart/options?interval=1M", http.StatusOK, `{"responsive":true,"time_unit":"month","begin_at_zero":true}`},
		{"current selection", "/chart/options", http.StatusOK, `{"responsive":true,"time_unit":"hour","begin_at_zero":true}`},
		{"unsupported", "/chart/options?interval=2d", http.StatusBadRequest, `{"error":"invalid request"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vc := &mockChartController{
				StateFunc: func() usecase.State {
					return usecase.State{Selection: entity.Selection{Coin: entity.CoinETHUSDT, Interval: entity.Interval1h, ChartType: entity.ChartTypeLine}}
				},
			}

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, tt.url, nil)
			newRouter(vc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

func TestChartHandler_GetCatalog(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/chart/catalog", nil)
	newRouter(&mockChartController{}).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `{"value":"ETHUSDT","label":"Ethereum (ETH/USDT)"}`)
	assert.Contains(t, body, `{"value":"1M","label":"1 Month"}`)
	assert.Contains(t, body, `{"value":"candlestick","label":"Candlestick Chart"}`)
}
