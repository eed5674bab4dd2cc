package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/madiallo/carbontrack/internal/domain/models"
)

// fakeStore serves canned activities and profiles for aggregation tests.
type fakeStore struct {
	activities []models.Activity
	profile    *models.UserProfile
	queryErr   error
}

func (f *fakeStore) AppendActivity(ctx context.Context, a models.Activity) (models.Activity, error) {
	f.activities = append(f.activities, a)
	return a, nil
}

func (f *fakeStore) QueryActivities(ctx context.Context, userID string, start, end time.Time) ([]models.Activity, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	var out []models.Activity
	for _, a := range f.activities {
		if a.UserID == userID && !a.OccurredAt.Before(start) && !a.OccurredAt.After(end) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStore) DeleteActivity(ctx context.Context, userID, id string) error { return nil }

func (f *fakeStore) GetCurrentProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	return f.profile, nil
}

func (f *fakeStore) SetCurrentProfile(ctx context.Context, p models.UserProfile) error { return nil }

func (f *fakeStore) GetProfileHistory(ctx context.Context, userID string) ([]models.UserProfile, error) {
	return nil, nil
}

func (f *fakeStore) ListUserIDs(ctx context.Context) ([]string, error) { return []string{"u1"}, nil }

func (f *fakeStore) SaveWeeklyDigest(ctx context.Context, d models.WeeklyDigest) error { return nil }

var testNow = time.Date(2024, 5, 15, 14, 30, 0, 0, time.UTC) // a Wednesday

func newTestService(store *fakeStore) *Service {
	svc := NewService(store, Config{
		DefaultDailyGoalKg: 20,
		CountryAvgDailyKg:  5.5,
		WorldAvgDailyKg:    12.9,
	}, time.UTC, zap.NewNop())
	svc.now = func() time.Time { return testNow }
	return svc
}

func activityOn(day time.Time, cat models.EmissionCategory, kg float64) models.Activity {
	return models.Activity{
		UserID:     "u1",
		Category:   cat,
		Emissions:  kg,
		OccurredAt: day,
	}
}

func daysAgo(n int) time.Time {
	return testNow.AddDate(0, 0, -n)
}

func TestTodayBreakdownSumsByCategory(t *testing.T) {
	store := &fakeStore{activities: []models.Activity{
		activityOn(testNow, models.CategoryTravel, 4.5),
		activityOn(testNow, models.CategoryTravel, 1.5),
		activityOn(testNow, models.CategoryFood, 2.5),
		activityOn(daysAgo(1), models.CategoryEnergy, 9), // yesterday, excluded
	}}
	svc := newTestService(store)

	today, err := svc.TodayBreakdown(context.Background(), "u1")
	require.NoError(t, err)

	assert.Len(t, today.Breakdown, 4)
	byCat := make(map[models.EmissionCategory]float64)
	var sum float64
	for _, entry := range today.Breakdown {
		byCat[entry.Category] = entry.Emissions
		sum += entry.Emissions
	}

	assert.InDelta(t, 6, byCat[models.CategoryTravel], 1e-9)
	assert.InDelta(t, 2.5, byCat[models.CategoryFood], 1e-9)
	assert.Zero(t, byCat[models.CategoryEnergy])
	assert.Zero(t, byCat[models.CategoryShopping])
	assert.InDelta(t, sum, today.Total, 1e-9)
}

func TestTodayBreakdownEmptyIsAllZeros(t *testing.T) {
	svc := newTestService(&fakeStore{})

	today, err := svc.TodayBreakdown(context.Background(), "u1")
	require.NoError(t, err)

	assert.Zero(t, today.Total)
	assert.Len(t, today.Breakdown, 4)
	for _, entry := range today.Breakdown {
		assert.Zero(t, entry.Emissions)
	}
}

func TestWeeklySeriesZeroFillsAndOrders(t *testing.T) {
	store := &fakeStore{activities: []models.Activity{
		activityOn(daysAgo(6), models.CategoryTravel, 3),
		activityOn(daysAgo(2), models.CategoryFood, 5),
		activityOn(testNow, models.CategoryShopping, 1),
	}}
	svc := newTestService(store)

	series, err := svc.WeeklySeries(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, series, 7)

	// Oldest first, ending today.
	assert.True(t, series[0].Date.Before(series[6].Date))
	assert.Equal(t, "Wed", series[6].Day)

	assert.InDelta(t, 3, series[0].Emissions, 1e-9)
	assert.InDelta(t, 5, series[4].Emissions, 1e-9)
	assert.InDelta(t, 1, series[6].Emissions, 1e-9)

	// Days without activity report 0, not absence.
	for _, i := range []int{1, 2, 3, 5} {
		assert.Zero(t, series[i].Emissions)
	}
}

func TestGoalProgress(t *testing.T) {
	store := &fakeStore{activities: []models.Activity{
		activityOn(testNow, models.CategoryTravel, 10),
		activityOn(daysAgo(1), models.CategoryFood, 25),
	}}
	svc := newTestService(store)

	daily, weekly, err := svc.GoalProgress(context.Background(), "u1")
	require.NoError(t, err)

	assert.InDelta(t, 10, daily.Current, 1e-9)
	assert.InDelta(t, 20, daily.Target, 1e-9)
	assert.InDelta(t, 50, daily.ProgressPercentage, 1e-9)

	assert.InDelta(t, 35, weekly.Current, 1e-9)
	assert.InDelta(t, 140, weekly.Target, 1e-9)
	assert.InDelta(t, 25, weekly.ProgressPercentage, 1e-9)
}

func TestGoalProgressUsesProfileOverride(t *testing.T) {
	store := &fakeStore{profile: &models.UserProfile{UserID: "u1", DailyGoalKg: 10}}
	svc := newTestService(store)

	daily, weekly, err := svc.GoalProgress(context.Background(), "u1")
	require.NoError(t, err)
	assert.InDelta(t, 10, daily.Target, 1e-9)
	assert.InDelta(t, 70, weekly.Target, 1e-9)
}

func TestStreakSevenLowDays(t *testing.T) {
	store := &fakeStore{}
	for i := 0; i < 7; i++ {
		store.activities = append(store.activities, activityOn(daysAgo(i), models.CategoryFood, 5))
	}
	svc := newTestService(store)

	streak, err := svc.StreakCount(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 7, streak.Days)
	assert.Equal(t, 30, streak.WindowDays)
}

func TestStreakBreaksOnOverGoalDay(t *testing.T) {
	store := &fakeStore{}
	store.activities = append(store.activities,
		activityOn(daysAgo(0), models.CategoryFood, 5),
		activityOn(daysAgo(1), models.CategoryFood, 5),
		activityOn(daysAgo(2), models.CategoryTravel, 25), // over the 20 kg goal
		activityOn(daysAgo(3), models.CategoryFood, 5),
	)
	svc := newTestService(store)

	streak, err := svc.StreakCount(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, streak.Days)
}

func TestStreakZeroDayHolds(t *testing.T) {
	// Day 1 has no activity at all; the streak neither grows nor breaks there.
	store := &fakeStore{}
	store.activities = append(store.activities,
		activityOn(daysAgo(0), models.CategoryFood, 5),
		activityOn(daysAgo(2), models.CategoryFood, 5),
		activityOn(daysAgo(3), models.CategoryFood, 5),
	)
	svc := newTestService(store)

	streak, err := svc.StreakCount(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, streak.Days)
}

func TestStreakCurrentDayOverGoalDoesNotTerminate(t *testing.T) {
	store := &fakeStore{}
	store.activities = append(store.activities,
		activityOn(daysAgo(0), models.CategoryTravel, 30), // today over goal
		activityOn(daysAgo(1), models.CategoryFood, 5),
		activityOn(daysAgo(2), models.CategoryFood, 5),
	)
	svc := newTestService(store)

	streak, err := svc.StreakCount(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, streak.Days)
}

func TestComparisonsSignedPercentages(t *testing.T) {
	store := &fakeStore{}
	// 7 days x 11 kg = daily average 11, above country (5.5), below world (12.9).
	for i := 0; i < 7; i++ {
		store.activities = append(store.activities, activityOn(daysAgo(i), models.CategoryEnergy, 11))
	}
	svc := newTestService(store)

	comparisons, err := svc.Comparisons(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, comparisons, 2)

	assert.InDelta(t, 100, comparisons[0].Percentage, 1e-9) // 11 vs 5.5
	assert.Negative(t, comparisons[1].Percentage)           // 11 vs 12.9
}

func TestAggregationPropagatesStoreErrors(t *testing.T) {
	sentinel := errors.New("permission denied")
	svc := newTestService(&fakeStore{queryErr: sentinel})

	_, err := svc.TodayBreakdown(context.Background(), "u1")
	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel)

	_, err = svc.Overview(context.Background(), "u1")
	assert.ErrorIs(t, err, sentinel)
}

func TestWeekDigestTotals(t *testing.T) {
	store := &fakeStore{activities: []models.Activity{
		activityOn(daysAgo(1), models.CategoryTravel, 4),
		activityOn(daysAgo(3), models.CategoryFood, 6),
		activityOn(daysAgo(10), models.CategoryFood, 99), // outside the week
	}}
	svc := newTestService(store)

	digest, err := svc.WeekDigest(context.Background(), "u1")
	require.NoError(t, err)
	assert.InDelta(t, 10, digest.Total, 1e-9)
	assert.Len(t, digest.ByCategory, 4)
	assert.Equal(t, "u1", digest.UserID)
}

func TestProgressPercent(t *testing.T) {
	assert.InDelta(t, 50, ProgressPercent(10, 20), 1e-9)
	assert.InDelta(t, 125, ProgressPercent(25, 20), 1e-9)
	assert.Zero(t, ProgressPercent(10, 0))
}

func TestComparisonPercent(t *testing.T) {
	assert.InDelta(t, -50, ComparisonPercent(5, 10), 1e-9)
	assert.InDelta(t, 20, ComparisonPercent(12, 10), 1e-9)
	assert.Zero(t, ComparisonPercent(5, 0))
}
