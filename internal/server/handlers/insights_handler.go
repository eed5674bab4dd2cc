package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/madiallo/carbontrack/internal/service/dashboard"
	"github.com/madiallo/carbontrack/internal/service/insights"
)

// InsightsHandler serves AI-generated summaries and reduction tips.
type InsightsHandler struct {
	svc       *insights.Service
	dashboard *dashboard.Service
	logger    *zap.Logger
}

// NewInsightsHandler constructs the HTTP handler adapter.
func NewInsightsHandler(svc *insights.Service, dashboardSvc *dashboard.Service, logger *zap.Logger) *InsightsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InsightsHandler{svc: svc, dashboard: dashboardSvc, logger: logger}
}

// Summary aggregates the user's trailing week and asks the model for a
// summary with insights.
func (h *InsightsHandler) Summary(c *gin.Context) {
	userID := c.Param("userID")

	digest, err := h.dashboard.WeekDigest(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("failed aggregating week for summary", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not load emission data"})
		return
	}

	result, err := h.svc.Summarize(c.Request.Context(), digest)
	if err != nil {
		if errors.Is(err, insights.ErrDisabled) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "insights are not enabled"})
			return
		}
		h.logger.Error("failed generating summary", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not generate summary"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Tips generates reduction tips from the user's described habits.
func (h *InsightsHandler) Tips(c *gin.Context) {
	var req insights.HabitsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid tips payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	tips, err := h.svc.ReductionTips(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, insights.ErrDisabled) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "insights are not enabled"})
			return
		}
		h.logger.Error("failed generating tips", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not generate tips"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tips": tips})
}
