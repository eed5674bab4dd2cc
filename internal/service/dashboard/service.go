// Package dashboard implements the aggregation engine: read-only rollups of
// activity records into the dashboard view models. Nothing here mutates
// stored records, so concurrent reads are safe and need no coordination.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/madiallo/carbontrack/internal/domain/models"
	"github.com/madiallo/carbontrack/internal/emissions"
	"github.com/madiallo/carbontrack/internal/repository/mongodb"
)

const (
	// streakWindowDays bounds the trailing window scanned for the streak.
	streakWindowDays = 30
	weeklyDays       = 7

	dateLayout = "2006-01-02"
)

// Config carries the externally supplied reference values for goals and
// population comparisons.
type Config struct {
	DefaultDailyGoalKg float64
	CountryAvgDailyKg  float64
	WorldAvgDailyKg    float64
}

// Service computes dashboard aggregates for one user at a time.
type Service struct {
	store  mongodb.Store
	cfg    Config
	loc    *time.Location
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a dashboard service. loc defines what "the current local
// day" means for day bucketing; nil falls back to time.Local.
func NewService(store mongodb.Store, cfg Config, loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Service{store: store, cfg: cfg, loc: loc, logger: logger, now: time.Now}
}

// TodayBreakdown sums the current local day's records into a fixed
// four-category vector; categories without activity report 0.
func (s *Service) TodayBreakdown(ctx context.Context, userID string) (models.TodaySummary, error) {
	dayStart, dayEnd := s.dayBounds(s.now().In(s.loc))

	activities, err := s.store.QueryActivities(ctx, userID, dayStart, dayEnd)
	if err != nil {
		return models.TodaySummary{}, fmt.Errorf("load today's activities: %w", err)
	}

	totals := make(map[models.EmissionCategory]float64, len(models.Categories))
	for _, a := range activities {
		totals[a.Category] += a.Emissions
	}

	summary := models.TodaySummary{
		Date:      dayStart.Format(dateLayout),
		Breakdown: make([]models.CategoryBreakdown, 0, len(models.Categories)),
	}
	for _, cat := range models.Categories {
		v := emissions.Round2(totals[cat])
		summary.Breakdown = append(summary.Breakdown, models.CategoryBreakdown{Category: cat, Emissions: v})
		summary.Total += v
	}
	summary.Total = emissions.Round2(summary.Total)
	return summary, nil
}

// WeeklySeries returns one point per trailing calendar day, oldest first.
// Days without activity report 0, not absence.
func (s *Service) WeeklySeries(ctx context.Context, userID string) ([]models.WeeklyPoint, error) {
	today := s.now().In(s.loc)
	totals, err := s.dailyTotals(ctx, userID, today, weeklyDays)
	if err != nil {
		return nil, fmt.Errorf("load weekly activities: %w", err)
	}

	series := make([]models.WeeklyPoint, 0, weeklyDays)
	for i := weeklyDays - 1; i >= 0; i-- {
		dayStart, _ := s.dayBounds(today.AddDate(0, 0, -i))
		series = append(series, models.WeeklyPoint{
			Day:       dayStart.Format("Mon"),
			Date:      dayStart,
			Emissions: emissions.Round2(totals[dayStart.Format(dateLayout)]),
		})
	}
	return series, nil
}

// GoalProgress derives the daily and weekly goal views. The weekly target is
// always the daily target times seven; the weekly current is the sum of the
// trailing seven-day series.
func (s *Service) GoalProgress(ctx context.Context, userID string) (daily, weekly models.EmissionGoal, err error) {
	goal, err := s.dailyGoal(ctx, userID)
	if err != nil {
		return daily, weekly, err
	}

	today, err := s.TodayBreakdown(ctx, userID)
	if err != nil {
		return daily, weekly, err
	}

	series, err := s.WeeklySeries(ctx, userID)
	if err != nil {
		return daily, weekly, err
	}

	var weekTotal float64
	for _, point := range series {
		weekTotal += point.Emissions
	}
	weekTotal = emissions.Round2(weekTotal)

	daily = models.EmissionGoal{
		Label:              "Daily Goal",
		Current:            today.Total,
		Target:             goal,
		ProgressPercentage: ProgressPercent(today.Total, goal),
	}
	weekly = models.EmissionGoal{
		Label:              "Weekly Goal",
		Current:            weekTotal,
		Target:             emissions.Round2(goal * 7),
		ProgressPercentage: ProgressPercent(weekTotal, goal*7),
	}
	return daily, weekly, nil
}

// StreakCount scans the trailing 30 days newest-first and counts consecutive
// days whose total is above zero and within the daily goal.
//
// Policy "zero-day hold": a day with no logged emissions neither increments
// nor breaks the streak. A day over goal terminates the scan, except the
// current day, which is still in progress and is skipped instead.
func (s *Service) StreakCount(ctx context.Context, userID string) (models.Streak, error) {
	goal, err := s.dailyGoal(ctx, userID)
	if err != nil {
		return models.Streak{}, err
	}

	today := s.now().In(s.loc)
	totals, err := s.dailyTotals(ctx, userID, today, streakWindowDays)
	if err != nil {
		return models.Streak{}, fmt.Errorf("load streak window: %w", err)
	}

	streak := models.Streak{WindowDays: streakWindowDays, DailyGoalKg: goal}
	for i := 0; i < streakWindowDays; i++ {
		dayStart, _ := s.dayBounds(today.AddDate(0, 0, -i))
		total := totals[dayStart.Format(dateLayout)]

		if total > goal {
			if i == 0 {
				continue
			}
			break
		}
		if total > 0 {
			streak.Days++
		}
	}
	return streak, nil
}

// Comparisons positions the user's average daily emissions over the trailing
// week against the configured country and world averages.
func (s *Service) Comparisons(ctx context.Context, userID string) ([]models.Comparison, error) {
	series, err := s.WeeklySeries(ctx, userID)
	if err != nil {
		return nil, err
	}

	var weekTotal float64
	for _, point := range series {
		weekTotal += point.Emissions
	}
	actualDaily := emissions.Round2(weekTotal / weeklyDays)

	return []models.Comparison{
		{
			Label:      "Country Average",
			Actual:     actualDaily,
			Reference:  s.cfg.CountryAvgDailyKg,
			Percentage: ComparisonPercent(actualDaily, s.cfg.CountryAvgDailyKg),
		},
		{
			Label:      "World Average",
			Actual:     actualDaily,
			Reference:  s.cfg.WorldAvgDailyKg,
			Percentage: ComparisonPercent(actualDaily, s.cfg.WorldAvgDailyKg),
		},
	}, nil
}

// Overview bundles every dashboard aggregate for one read.
func (s *Service) Overview(ctx context.Context, userID string) (models.DashboardOverview, error) {
	today, err := s.TodayBreakdown(ctx, userID)
	if err != nil {
		return models.DashboardOverview{}, err
	}
	series, err := s.WeeklySeries(ctx, userID)
	if err != nil {
		return models.DashboardOverview{}, err
	}
	daily, weekly, err := s.GoalProgress(ctx, userID)
	if err != nil {
		return models.DashboardOverview{}, err
	}
	streak, err := s.StreakCount(ctx, userID)
	if err != nil {
		return models.DashboardOverview{}, err
	}
	comparisons, err := s.Comparisons(ctx, userID)
	if err != nil {
		return models.DashboardOverview{}, err
	}

	return models.DashboardOverview{
		Today:       today,
		Weekly:      series,
		DailyGoal:   daily,
		WeeklyGoal:  weekly,
		Streak:      streak,
		Comparisons: comparisons,
	}, nil
}

// WeekDigest aggregates the trailing seven days into a digest document, for
// the scheduled sweep.
func (s *Service) WeekDigest(ctx context.Context, userID string) (models.WeeklyDigest, error) {
	today := s.now().In(s.loc)
	weekStart, _ := s.dayBounds(today.AddDate(0, 0, -(weeklyDays - 1)))
	_, weekEnd := s.dayBounds(today)

	activities, err := s.store.QueryActivities(ctx, userID, weekStart, weekEnd)
	if err != nil {
		return models.WeeklyDigest{}, fmt.Errorf("load digest window: %w", err)
	}

	totals := make(map[models.EmissionCategory]float64, len(models.Categories))
	for _, a := range activities {
		totals[a.Category] += a.Emissions
	}

	digest := models.WeeklyDigest{
		UserID:    userID,
		WeekStart: weekStart,
		WeekEnd:   weekEnd,
		CreatedAt: s.now().UTC(),
	}
	for _, cat := range models.Categories {
		v := emissions.Round2(totals[cat])
		digest.ByCategory = append(digest.ByCategory, models.CategoryBreakdown{Category: cat, Emissions: v})
		digest.Total += v
	}
	digest.Total = emissions.Round2(digest.Total)
	return digest, nil
}

// dailyGoal reads the profile's goal override, falling back to the
// configured default when absent or non-positive.
func (s *Service) dailyGoal(ctx context.Context, userID string) (float64, error) {
	current, err := s.store.GetCurrentProfile(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("load profile for goal: %w", err)
	}
	if current != nil && current.DailyGoalKg > 0 {
		return current.DailyGoalKg, nil
	}
	return s.cfg.DefaultDailyGoalKg, nil
}

// dailyTotals sums emissions per local calendar day over the trailing
// window ending today, keyed by the day's date string.
func (s *Service) dailyTotals(ctx context.Context, userID string, today time.Time, window int) (map[string]float64, error) {
	windowStart, _ := s.dayBounds(today.AddDate(0, 0, -(window - 1)))
	_, todayEnd := s.dayBounds(today)

	activities, err := s.store.QueryActivities(ctx, userID, windowStart, todayEnd)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]float64, window)
	for _, a := range activities {
		key := a.OccurredAt.In(s.loc).Format(dateLayout)
		totals[key] += a.Emissions
	}
	return totals, nil
}

func (s *Service) dayBounds(t time.Time) (start, end time.Time) {
	t = t.In(s.loc)
	start = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.loc)
	end = start.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return start, end
}
