// Package insights produces natural-language summaries and reduction tips
// through the external text-generation collaborator.
package insights

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/madiallo/carbontrack/internal/domain/models"
	"github.com/madiallo/carbontrack/pkg/clients/anthropic"
)

// ErrDisabled indicates no text-generation client is configured.
var ErrDisabled = errors.New("insights disabled: no ai client configured")

// Service wraps the Anthropic client with domain-shaped requests.
type Service struct {
	ai     anthropic.Client
	logger *zap.Logger
}

// NewService wires an insights service. A nil client disables the feature.
func NewService(ai anthropic.Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{ai: ai, logger: logger}
}

// Enabled reports whether a text-generation client is configured.
func (s *Service) Enabled() bool { return s.ai != nil }

// Summarize renders a digest into prose and asks the model for a structured
// summary with insights.
func (s *Service) Summarize(ctx context.Context, digest models.WeeklyDigest) (anthropic.SummaryResult, error) {
	if s.ai == nil {
		return anthropic.SummaryResult{}, ErrDisabled
	}

	parts := make([]string, 0, len(digest.ByCategory))
	for _, entry := range digest.ByCategory {
		parts = append(parts, fmt.Sprintf("%s: %.2f kg", entry.Category, entry.Emissions))
	}
	description := fmt.Sprintf("Total emissions: %.2f kg CO2e. Breakdown: %s.",
		digest.Total, strings.Join(parts, ", "))

	result, err := s.ai.SummarizeEmissions(ctx, anthropic.SummaryRequest{PeriodDataDescription: description})
	if err != nil {
		return anthropic.SummaryResult{}, fmt.Errorf("summarize emissions: %w", err)
	}
	return result, nil
}

// HabitsRequest describes the user's lifestyle in free text for tip
// generation.
type HabitsRequest struct {
	Travel      string `json:"travel"`
	Food        string `json:"food"`
	Shopping    string `json:"shopping"`
	EnergyUsage string `json:"energyUsage"`
}

// ReductionTips asks the model for habit-specific reduction tips.
func (s *Service) ReductionTips(ctx context.Context, req HabitsRequest) ([]string, error) {
	if s.ai == nil {
		return nil, ErrDisabled
	}

	result, err := s.ai.GenerateReductionTips(ctx, anthropic.TipsRequest{
		Travel:      req.Travel,
		Food:        req.Food,
		Shopping:    req.Shopping,
		EnergyUsage: req.EnergyUsage,
	})
	if err != nil {
		return nil, fmt.Errorf("generate reduction tips: %w", err)
	}
	return result.Tips, nil
}
