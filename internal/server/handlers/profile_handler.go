package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/madiallo/carbontrack/internal/domain/models"
	profilesvc "github.com/madiallo/carbontrack/internal/service/profile"
)

// ProfileHandler handles survey submission, profile reads, history, and the
// stateless baseline endpoint.
type ProfileHandler struct {
	svc    *profilesvc.Service
	logger *zap.Logger
}

// NewProfileHandler constructs the HTTP handler adapter.
func NewProfileHandler(svc *profilesvc.Service, logger *zap.Logger) *ProfileHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileHandler{svc: svc, logger: logger}
}

// Get returns the user's current profile.
func (h *ProfileHandler) Get(c *gin.Context) {
	profile, err := h.svc.Get(c.Request.Context(), c.Param("userID"))
	if err != nil {
		if errors.Is(err, profilesvc.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found, complete the survey first"})
			return
		}
		h.logger.Error("failed loading profile", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not load profile"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// Submit replaces the user's profile from a survey submission.
func (h *ProfileHandler) Submit(c *gin.Context) {
	var submitted models.UserProfile
	if err := c.ShouldBindJSON(&submitted); err != nil {
		h.logger.Warn("invalid profile payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	profile, err := h.svc.SubmitSurvey(c.Request.Context(), c.Param("userID"), submitted)
	if err != nil {
		h.logger.Error("failed submitting survey", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save profile"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// History returns the user's survey snapshots, newest first.
func (h *ProfileHandler) History(c *gin.Context) {
	history, err := h.svc.History(c.Request.Context(), c.Param("userID"))
	if err != nil {
		h.logger.Error("failed loading profile history", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not load profile history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": history})
}

// Baseline computes daily/weekly baselines for a submitted profile without
// persisting anything.
func (h *ProfileHandler) Baseline(c *gin.Context) {
	var submitted models.UserProfile
	if err := c.ShouldBindJSON(&submitted); err != nil {
		h.logger.Warn("invalid baseline payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	baseline, breakdown := h.svc.BaselineView(submitted)
	c.JSON(http.StatusOK, gin.H{
		"daily":     baseline.Daily,
		"weekly":    baseline.Weekly,
		"total":     breakdown.Total,
		"breakdown": breakdown.Breakdown,
	})
}
