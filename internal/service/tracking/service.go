// Package tracking owns the activity logging flow: calculate, persist,
// list, delete.
package tracking

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/madiallo/carbontrack/internal/domain/models"
	"github.com/madiallo/carbontrack/internal/emissions"
	"github.com/madiallo/carbontrack/internal/repository/mongodb"
)

// ErrInvalidCategory indicates the request named no known emission category.
var ErrInvalidCategory = errors.New("invalid emission category")

// Service implements activity logging on top of the calculation engine and
// the document store.
type Service struct {
	store  mongodb.Store
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a tracking service instance.
func NewService(store mongodb.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger, now: time.Now}
}

// LogRequest is one activity to calculate and persist.
type LogRequest struct {
	Category    string
	Value       float64
	Description string
	OccurredAt  time.Time // zero means "now"
	Travel      *emissions.TravelDetails
	Food        *emissions.FoodDetails
	Energy      *emissions.EnergyDetails
}

// LogActivity converts the request into kg CO2e and appends the record.
//
// A calculation failure is deliberately downgraded to a zero-emission record
// so a malformed activity never blocks the logging flow; the failure is
// logged at WARN. This mirrors the documented availability-over-strictness
// policy of the calculation path.
func (s *Service) LogActivity(ctx context.Context, userID string, req LogRequest) (models.Activity, error) {
	category, ok := models.ParseCategory(req.Category)
	if !ok {
		return models.Activity{}, ErrInvalidCategory
	}

	emission, err := emissions.Calculate(emissions.Input{
		Category: category,
		Value:    req.Value,
		Travel:   req.Travel,
		Food:     req.Food,
		Energy:   req.Energy,
	})
	if err != nil {
		s.logger.Warn("emission calculation failed, recording zero",
			zap.String("user_id", userID),
			zap.String("category", string(category)),
			zap.Float64("value", req.Value),
			zap.Error(err))
		emission = 0
	}

	occurredAt := req.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = s.now()
	}

	activity := models.Activity{
		UserID:      userID,
		Category:    category,
		Emissions:   emissions.Round2(emission),
		Description: strings.TrimSpace(req.Description),
		OccurredAt:  occurredAt,
	}

	stored, err := s.store.AppendActivity(ctx, activity)
	if err != nil {
		return models.Activity{}, err
	}

	s.logger.Info("activity logged",
		zap.String("user_id", userID),
		zap.String("category", string(category)),
		zap.Float64("emissions", stored.Emissions))
	return stored, nil
}

// Calculate runs the pure calculator without persisting anything, for the
// stateless calculation endpoint. The zero-on-error policy applies here too.
func (s *Service) Calculate(req LogRequest) (float64, error) {
	category, ok := models.ParseCategory(req.Category)
	if !ok {
		return 0, ErrInvalidCategory
	}

	emission, err := emissions.Calculate(emissions.Input{
		Category: category,
		Value:    req.Value,
		Travel:   req.Travel,
		Food:     req.Food,
		Energy:   req.Energy,
	})
	if err != nil {
		s.logger.Warn("stateless calculation failed, returning zero",
			zap.String("category", string(category)), zap.Error(err))
		return 0, nil
	}
	return emission, nil
}

// ListActivities returns the user's records in [start, end], newest first.
// A zero start/end defaults to the trailing seven days ending now.
func (s *Service) ListActivities(ctx context.Context, userID string, start, end time.Time) ([]models.Activity, error) {
	if end.IsZero() {
		end = s.now()
	}
	if start.IsZero() {
		start = end.AddDate(0, 0, -7)
	}
	return s.store.QueryActivities(ctx, userID, start, end)
}

// DeleteActivity removes one record owned by the user.
func (s *Service) DeleteActivity(ctx context.Context, userID, activityID string) error {
	return s.store.DeleteActivity(ctx, userID, activityID)
}
