package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/madiallo/carbontrack/internal/service/dashboard"
)

// DashboardHandler serves the aggregated dashboard view.
type DashboardHandler struct {
	svc    *dashboard.Service
	logger *zap.Logger
}

// NewDashboardHandler constructs the HTTP handler adapter.
func NewDashboardHandler(svc *dashboard.Service, logger *zap.Logger) *DashboardHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardHandler{svc: svc, logger: logger}
}

// Overview returns today's breakdown, the weekly series, goal progress,
// streak, and comparisons in one response. A failed store read surfaces as
// an error status, never as zeroed data.
func (h *DashboardHandler) Overview(c *gin.Context) {
	overview, err := h.svc.Overview(c.Request.Context(), c.Param("userID"))
	if err != nil {
		h.logger.Error("failed building dashboard", zap.String("user_id", c.Param("userID")), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not load dashboard data"})
		return
	}

	c.JSON(http.StatusOK, overview)
}
