package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/madiallo/carbontrack/internal/domain/models"
	"github.com/madiallo/carbontrack/internal/emissions"
	"github.com/madiallo/carbontrack/internal/repository/mongodb"
	"github.com/madiallo/carbontrack/internal/service/tracking"
)

// ActivityHandler handles activity logging, listing, deletion, and the
// stateless calculation endpoint.
type ActivityHandler struct {
	svc    *tracking.Service
	logger *zap.Logger
}

// NewActivityHandler constructs the HTTP handler adapter.
func NewActivityHandler(svc *tracking.Service, logger *zap.Logger) *ActivityHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityHandler{svc: svc, logger: logger}
}

// activityDetails is the wire shape of the optional per-category details.
// Only the fields matching the category are consulted.
type activityDetails struct {
	Mode        string  `json:"mode"`
	DietType    string  `json:"dietType"`
	AcHours     float64 `json:"acHours"`
	HeaterHours float64 `json:"heaterHours"`
}

type activityRequest struct {
	Category    string           `json:"category" binding:"required"`
	Value       float64          `json:"value"`
	Description string           `json:"description"`
	OccurredAt  time.Time        `json:"occurredAt"`
	Details     *activityDetails `json:"details"`
}

func (r activityRequest) toLogRequest() tracking.LogRequest {
	req := tracking.LogRequest{
		Category:    r.Category,
		Value:       r.Value,
		Description: r.Description,
		OccurredAt:  r.OccurredAt,
	}
	if r.Details == nil {
		return req
	}
	req.Travel = &emissions.TravelDetails{Mode: models.TransportMode(r.Details.Mode)}
	req.Food = &emissions.FoodDetails{DietType: models.DietType(r.Details.DietType)}
	req.Energy = &emissions.EnergyDetails{AcHours: r.Details.AcHours, HeaterHours: r.Details.HeaterHours}
	return req
}

// Log calculates and persists one activity.
func (h *ActivityHandler) Log(c *gin.Context) {
	var req activityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid activity payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	activity, err := h.svc.LogActivity(c.Request.Context(), c.Param("userID"), req.toLogRequest())
	if err != nil {
		if errors.Is(err, tracking.ErrInvalidCategory) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category"})
			return
		}
		h.logger.Error("failed logging activity", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save activity"})
		return
	}

	c.JSON(http.StatusCreated, activity)
}

// Calculate runs the pure calculator without persisting.
func (h *ActivityHandler) Calculate(c *gin.Context) {
	var req activityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid calculation payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	emission, err := h.svc.Calculate(req.toLogRequest())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"emission": emission})
}

// List returns the user's activities in a date range (default trailing week).
func (h *ActivityHandler) List(c *gin.Context) {
	start, ok := parseTimeQuery(c, "start")
	if !ok {
		return
	}
	end, ok := parseTimeQuery(c, "end")
	if !ok {
		return
	}

	activities, err := h.svc.ListActivities(c.Request.Context(), c.Param("userID"), start, end)
	if err != nil {
		h.logger.Error("failed listing activities", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not retrieve activities"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"activities": activities})
}

// Delete removes one activity owned by the user.
func (h *ActivityHandler) Delete(c *gin.Context) {
	err := h.svc.DeleteActivity(c.Request.Context(), c.Param("userID"), c.Param("id"))
	if err != nil {
		if errors.Is(err, mongodb.ErrActivityNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "activity not found"})
			return
		}
		h.logger.Error("failed deleting activity", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete activity"})
		return
	}

	c.Status(http.StatusNoContent)
}

func parseTimeQuery(c *gin.Context, key string) (time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		return time.Time{}, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": key + " must be RFC3339"})
		return time.Time{}, false
	}
	return t, true
}
