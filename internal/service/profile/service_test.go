package profile

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/madiallo/carbontrack/internal/domain/models"
)

// memStore keeps the current profile and history snapshots in memory.
type memStore struct {
	current *models.UserProfile
	history []models.UserProfile
}

func (m *memStore) AppendActivity(ctx context.Context, a models.Activity) (models.Activity, error) {
	return a, nil
}

func (m *memStore) QueryActivities(ctx context.Context, userID string, start, end time.Time) ([]models.Activity, error) {
	return nil, nil
}

func (m *memStore) DeleteActivity(ctx context.Context, userID, id string) error { return nil }

func (m *memStore) GetCurrentProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	return m.current, nil
}

func (m *memStore) SetCurrentProfile(ctx context.Context, p models.UserProfile) error {
	m.current = &p
	m.history = append([]models.UserProfile{p}, m.history...)
	return nil
}

func (m *memStore) GetProfileHistory(ctx context.Context, userID string) ([]models.UserProfile, error) {
	return m.history, nil
}

func (m *memStore) ListUserIDs(ctx context.Context) ([]string, error) { return nil, nil }

func (m *memStore) SaveWeeklyDigest(ctx context.Context, d models.WeeklyDigest) error { return nil }

func survey() models.UserProfile {
	return models.UserProfile{
		TransportModes: map[models.TransportMode]models.TransportUsage{
			models.ModeCar: {KmPerWeek: 70},
		},
		Diet:          models.DietVeg,
		MonthlyKwh:    150,
		MonthlySpend:  5000,
		HouseholdSize: 3,
		MealsPerDay:   2,
	}
}

func TestSubmitSurveyComputesBaseline(t *testing.T) {
	store := &memStore{}
	svc := NewService(store, zap.NewNop())

	saved, err := svc.SubmitSurvey(context.Background(), "u1", survey())
	require.NoError(t, err)

	assert.Equal(t, "u1", saved.UserID)
	require.NotNil(t, saved.Baseline)
	assert.Greater(t, saved.Baseline.Weekly, 0.0)
	assert.InDelta(t, saved.Baseline.Weekly, saved.Baseline.Daily*7, 0.05)
	assert.False(t, saved.UpdatedAt.IsZero())
}

func TestSubmitSurveyAppendsHistory(t *testing.T) {
	store := &memStore{}
	svc := NewService(store, zap.NewNop())

	_, err := svc.SubmitSurvey(context.Background(), "u1", survey())
	require.NoError(t, err)

	second := survey()
	second.MonthlyKwh = 300
	_, err = svc.SubmitSurvey(context.Background(), "u1", second)
	require.NoError(t, err)

	history, err := svc.History(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	// Newest first; the latest snapshot carries the updated consumption.
	assert.InDelta(t, 300, history[0].MonthlyKwh, 1e-9)
	assert.InDelta(t, 150, history[1].MonthlyKwh, 1e-9)
}

func TestSubmitSurveyNormalizesFields(t *testing.T) {
	store := &memStore{}
	svc := NewService(store, zap.NewNop())

	bad := survey()
	bad.HouseholdSize = -4
	bad.MealsPerDay = 0
	bad.MonthlySpend = -100

	saved, err := svc.SubmitSurvey(context.Background(), "u1", bad)
	require.NoError(t, err)
	assert.Equal(t, 1, saved.HouseholdSize)
	assert.Equal(t, 1, saved.MealsPerDay)
	assert.Zero(t, saved.MonthlySpend)
}

func TestGetMissingProfile(t *testing.T) {
	svc := NewService(&memStore{}, zap.NewNop())

	_, err := svc.Get(context.Background(), "u1")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestBaselineViewDoesNotPersist(t *testing.T) {
	store := &memStore{}
	svc := NewService(store, zap.NewNop())

	baseline, breakdown := svc.BaselineView(survey())
	assert.Greater(t, baseline.Weekly, 0.0)
	assert.Len(t, breakdown.Breakdown, 4)
	assert.Nil(t, store.current)
}
