package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/msydata/dashboard/pkg/application/dto"
	apperrors "github.com/msydata/dashboard/pkg/errors"
	"github.com/msydata/dashboard/pkg/logging"
	"github.com/msydata/dashboard/pkg/metrics"
)

// DashboardBuilder recomputes the dashboard from a source directory
type DashboardBuilder interface {
	Build(ctx context.Context, dir string) (*dto.Dashboard, error)
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"requestId,omitempty"`
	Timestamp string            `json:"timestamp"`
	Path      string            `json:"path"`
}

// InventoryResponse is the inventory section of the dashboard
type InventoryResponse struct {
	Inventory      []dto.InventoryRow  `json:"inventory"`
	InventoryChart dto.InventoryChart  `json:"inventory_chart"`
	LowStockAlerts []dto.LowStockAlert `json:"low_stock_alerts"`
	SkippedMapping []dto.SkippedEntry  `json:"skipped_mapping"`
}

// ItemsResponse is the ranked item table with its revenue share chart
type ItemsResponse struct {
	TopItems []dto.ItemRow  `json:"top_items"`
	Donut    dto.DonutChart `json:"donut"`
}

// Handler serves the dashboard contract. Every request rebuilds from the source directory.
type Handler struct {
	builder DashboardBuilder
	dataDir string
	logger  *logging.Logger
}

// NewHandler creates a dashboard handler over dataDir
func NewHandler(builder DashboardBuilder, dataDir string, logger *logging.Logger) *Handler {
	return &Handler{
		builder: builder,
		dataDir: dataDir,
		logger:  logger.WithComponent("api"),
	}
}

// NewRouter builds the gin engine with middleware and routes
func NewRouter(h *Handler, m *metrics.Metrics, logger *logging.Logger) *gin.Engine {
	router := gin.New()
	router.Use(Recovery(logger))
	router.Use(RequestID())
	router.Use(Logger(logger))
	router.Use(Metrics(m))

	router.GET("/health", h.Health)
	if m != nil {
		handler := m.Handler()
		router.GET("/metrics", func(c *gin.Context) {
			handler.ServeHTTP(c.Writer, c.Request)
		})
	}

	v1 := router.Group("/api/v1")
	{
		v1.GET("/dashboard", h.Dashboard)
		v1.GET("/inventory", h.Inventory)
		v1.GET("/forecast", h.Forecast)
		v1.GET("/items", h.Items)
	}

	router.NoRoute(func(c *gin.Context) {
		respondError(c, apperrors.ErrNotFound("route "+c.Request.URL.Path))
	})

	return router
}

// Health reports liveness
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "dashboard",
	})
}

// Dashboard returns the full dashboard
func (h *Handler) Dashboard(c *gin.Context) {
	dashboard, ok := h.build(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

// Inventory returns the reconciliation table, chart and alerts
func (h *Handler) Inventory(c *gin.Context) {
	dashboard, ok := h.build(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, InventoryResponse{
		Inventory:      dashboard.Inventory,
		InventoryChart: dashboard.InventoryChart,
		LowStockAlerts: dashboard.LowStockAlerts,
		SkippedMapping: dashboard.SkippedMapping,
	})
}

// Forecast returns the revenue series with its projection
func (h *Handler) Forecast(c *gin.Context) {
	dashboard, ok := h.build(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dashboard.RevenueChart)
}

// Items returns the ranked item table and the revenue share chart
func (h *Handler) Items(c *gin.Context) {
	dashboard, ok := h.build(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ItemsResponse{
		TopItems: dashboard.TopItems,
		Donut:    dashboard.Donut,
	})
}

func (h *Handler) build(c *gin.Context) (*dto.Dashboard, bool) {
	dashboard, err := h.builder.Build(c.Request.Context(), h.dataDir)
	if err != nil {
		h.logger.WithRequestID(requestID(c)).WithError(err).ErrorContext(c.Request.Context(), "dashboard build failed",
			"path", c.Request.URL.Path,
		)
		respondError(c, err)
		return nil, false
	}
	return dashboard, true
}

func respondError(c *gin.Context, err error) {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		appErr = apperrors.ErrInternal("").Wrap(err)
	}

	status := appErr.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}

	c.JSON(status, ErrorResponse{
		Code:      appErr.Code,
		Message:   appErr.Message,
		Details:   appErr.Details,
		RequestID: requestID(c),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Path:      c.Request.URL.Path,
	})
}
