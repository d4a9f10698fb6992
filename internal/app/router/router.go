// Package router wires HTTP routes and middleware.
package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	charthandler "cryptovision/internal/feature/chart/transport/handler"
	"cryptovision/internal/platform/http/handler"
	"cryptovision/internal/platform/http/middleware"
)

// NewRouter builds the gin engine serving the chart API.
func NewRouter(chart *charthandler.ChartHandler, health *handler.HealthHandler, allowOrigins []string, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Recovery(logger),
		cors.New(cors.Config{
			AllowOrigins:     allowOrigins,
			AllowMethods:     []string{"GET", "PUT", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", middleware.RequestIDHeader},
			ExposeHeaders:    []string{middleware.RequestIDHeader},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}),
	)

	// 導通確認用
	r.GET("/healthz", health.Health)
	r.HEAD("/healthz", health.Health)

	g := r.Group("/chart")
	{
		g.GET("/state", chart.GetState)
		g.GET("/options", chart.GetOptions)
		g.GET("/catalog", chart.GetCatalog)
		g.PUT("/coin", chart.ChangeCoin)
		g.PUT("/interval", chart.ChangeInterval)
		g.PUT("/chart-type", chart.ChangeChartType)
		g.POST("/refresh", chart.Refresh)
	}

	return r
}
