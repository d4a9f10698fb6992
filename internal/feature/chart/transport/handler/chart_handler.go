// Package handler provides the HTTP handlers of the chart feature.
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cryptovision/internal/feature/chart/domain/entity"
	"cryptovision/internal/feature/chart/transport/http/dto"
	"cryptovision/internal/feature/chart/usecase"
)

// ChartController is the view state the handler exposes.
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type ChartController interface {
	State() usecase.State
	OnCoinChange(ctx context.Context, coin entity.Coin) error
	OnIntervalChange(ctx context.Context, interval entity.Interval) error
	OnChartTypeChange(chartType entity.ChartType) error
	Refresh(ctx context.Context) error
}

// ChartHandler serves the chart view state over HTTP/JSON.
type ChartHandler struct {
	vc     ChartController
	logger *zap.Logger
}

// NewChartHandler creates a ChartHandler.
func NewChartHandler(vc ChartController, logger *zap.Logger) *ChartHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChartHandler{vc: vc, logger: logger}
}

// GetState returns the current view state.
//
// GET /chart/state
func (h *ChartHandler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewStateResponse(h.vc.State()))
}

// ChangeCoin selects a new coin and returns the state after the fetch settled.
//
// PUT /chart/coin {"coin":"BTCUSDT"}
func (h *ChartHandler) ChangeCoin(c *gin.Context) {
	var req dto.CoinChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "coin change validation failed", err)
		return
	}
	err := h.vc.OnCoinChange(h.detached(c), entity.Coin(req.Coin))
	h.respondAfterChange(c, err)
}

// ChangeInterval selects a new interval and returns the state after the fetch settled.
//
// PUT /chart/interval {"interval":"1h"}
func (h *ChartHandler) ChangeInterval(c *gin.Context) {
	var req dto.IntervalChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "interval change validation failed", err)
		return
	}
	err := h.vc.OnIntervalChange(h.detached(c), entity.Interval(req.Interval))
	h.respondAfterChange(c, err)
}

// ChangeChartType switches the chart type. No data is fetched.
//
// PUT /chart/chart-type {"chart_type":"candlestick"}
func (h *ChartHandler) ChangeChartType(c *gin.Context) {
	var req dto.ChartTypeChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "chart type change validation failed", err)
		return
	}
	err := h.vc.OnChartTypeChange(entity.ChartType(req.ChartType))
	h.respondAfterChange(c, err)
}

// Refresh re-fetches the current selection.
//
// POST /chart/refresh
func (h *ChartHandler) Refresh(c *gin.Context) {
	err := h.vc.Refresh(h.detached(c))
	h.respondAfterChange(c, err)
}

// GetOptions returns the axis options for an interval, defaulting to the selected one.
//
// GET /chart/options?interval=1d
func (h *ChartHandler) GetOptions(c *gin.Context) {
	var q dto.OptionsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.badRequest(c, "options query validation failed", err)
		return
	}
	interval := entity.Interval(q.Interval)
	if interval == "" {
		interval = h.vc.State().Selection.Interval
	}
	c.JSON(http.StatusOK, dto.NewOptionsResponse(usecase.DerivedChartOptions(interval)))
}

// GetCatalog lists the supported coins, intervals and chart types.
//
// GET /chart/catalog
func (h *ChartHandler) GetCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewCatalogResponse())
}

// detached keeps request values but not cancellation: a client that disconnects
// mid-fetch must not record a failure for the session.
func (h *ChartHandler) detached(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}

func (h *ChartHandler) badRequest(c *gin.Context, msg string, err error) {
	h.logger.Warn(msg, zap.Error(err), zap.String("remote_addr", c.ClientIP()))
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request"})
}

// respondAfterChange maps a controller error to a response. Fetch failures are part
// of the state (last_error), not HTTP errors.
func (h *ChartHandler) respondAfterChange(c *gin.Context, err error) {
	switch {
	case err == nil, errors.Is(err, usecase.ErrStaleResult):
	case errors.Is(err, usecase.ErrUnsupportedCoin),
		errors.Is(err, usecase.ErrUnsupportedInterval),
		errors.Is(err, usecase.ErrUnsupportedChartType):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	default:
		h.logger.Debug("change settled with fetch error", zap.Error(err))
	}
	c.JSON(http.StatusOK, dto.NewStateResponse(h.vc.State()))
}
