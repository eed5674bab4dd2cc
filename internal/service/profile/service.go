// Package profile owns the lifestyle survey lifecycle: baseline computation,
// current-profile replacement, and history snapshots.
package profile

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/madiallo/carbontrack/internal/domain/models"
	"github.com/madiallo/carbontrack/internal/emissions"
	"github.com/madiallo/carbontrack/internal/repository/mongodb"
)

// ErrProfileNotFound indicates the user has not submitted a survey yet.
var ErrProfileNotFound = errors.New("profile not found")

// Service implements survey submission and profile reads.
type Service struct {
	store  mongodb.Store
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a profile service instance.
func NewService(store mongodb.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger, now: time.Now}
}

// Get returns the user's current profile.
func (s *Service) Get(ctx context.Context, userID string) (models.UserProfile, error) {
	current, err := s.store.GetCurrentProfile(ctx, userID)
	if err != nil {
		return models.UserProfile{}, err
	}
	if current == nil {
		return models.UserProfile{}, ErrProfileNotFound
	}
	return *current, nil
}

// SubmitSurvey normalizes the submitted profile, computes its baseline, and
// replaces the current document (the store appends the history snapshot).
func (s *Service) SubmitSurvey(ctx context.Context, userID string, submitted models.UserProfile) (models.UserProfile, error) {
	submitted.UserID = userID
	submitted.Normalize()

	baseline := emissions.Baseline(submitted)
	submitted.Baseline = &baseline
	submitted.UpdatedAt = s.now().UTC()

	if err := s.store.SetCurrentProfile(ctx, submitted); err != nil {
		return models.UserProfile{}, err
	}

	s.logger.Info("survey submitted",
		zap.String("user_id", userID),
		zap.Float64("baseline_daily", baseline.Daily),
		zap.Float64("baseline_weekly", baseline.Weekly))
	return submitted, nil
}

// History returns all survey snapshots, newest first.
func (s *Service) History(ctx context.Context, userID string) ([]models.UserProfile, error) {
	return s.store.GetProfileHistory(ctx, userID)
}

// BaselineView computes the per-category daily baseline for a profile without
// persisting anything, for the stateless baseline endpoint.
func (s *Service) BaselineView(p models.UserProfile) (models.BaselineEmissions, models.BaselineBreakdown) {
	p.Normalize()
	return emissions.Baseline(p), emissions.BaselineBreakdown(p)
}
