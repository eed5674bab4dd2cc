package tracking

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/madiallo/carbontrack/internal/domain/models"
	"github.com/madiallo/carbontrack/internal/emissions"
	"github.com/madiallo/carbontrack/internal/repository/mongodb"
)

// memStore is an in-memory Store covering the logging round trip.
type memStore struct {
	nextID     int
	activities []models.Activity
}

func (m *memStore) AppendActivity(ctx context.Context, a models.Activity) (models.Activity, error) {
	m.nextID++
	a.ID = fmt.Sprintf("act-%d", m.nextID)
	a.CreatedAt = time.Now().UTC()
	m.activities = append(m.activities, a)
	return a, nil
}

func (m *memStore) QueryActivities(ctx context.Context, userID string, start, end time.Time) ([]models.Activity, error) {
	var out []models.Activity
	for _, a := range m.activities {
		if a.UserID == userID && !a.OccurredAt.Before(start) && !a.OccurredAt.After(end) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memStore) DeleteActivity(ctx context.Context, userID, id string) error {
	for i, a := range m.activities {
		if a.ID == id && a.UserID == userID {
			m.activities = append(m.activities[:i], m.activities[i+1:]...)
			return nil
		}
	}
	return mongodb.ErrActivityNotFound
}

func (m *memStore) GetCurrentProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	return nil, nil
}

func (m *memStore) SetCurrentProfile(ctx context.Context, p models.UserProfile) error { return nil }

func (m *memStore) GetProfileHistory(ctx context.Context, userID string) ([]models.UserProfile, error) {
	return nil, nil
}

func (m *memStore) ListUserIDs(ctx context.Context) ([]string, error) { return nil, nil }

func (m *memStore) SaveWeeklyDigest(ctx context.Context, d models.WeeklyDigest) error { return nil }

func TestLogActivityRoundTrip(t *testing.T) {
	store := &memStore{}
	svc := NewService(store, zap.NewNop())

	logged, err := svc.LogActivity(context.Background(), "u1", LogRequest{
		Category:    "Travel",
		Value:       100,
		Description: "commute",
		Travel:      &emissions.TravelDetails{Mode: models.ModeBus},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, logged.ID)
	assert.InDelta(t, 10, logged.Emissions, 1e-9)

	// Querying today's activities includes the record exactly once, with the
	// emissions the calculator produced at logging time.
	now := time.Now()
	listed, err := svc.ListActivities(context.Background(), "u1", now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, logged.ID, listed[0].ID)
	assert.Equal(t, logged.Emissions, listed[0].Emissions)
}

func TestLogActivityRejectsUnknownCategory(t *testing.T) {
	svc := NewService(&memStore{}, zap.NewNop())

	_, err := svc.LogActivity(context.Background(), "u1", LogRequest{Category: "Llamas", Value: 1})
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestLogActivityHonoursOccurredAt(t *testing.T) {
	store := &memStore{}
	svc := NewService(store, zap.NewNop())

	past := time.Now().AddDate(0, 0, -3)
	logged, err := svc.LogActivity(context.Background(), "u1", LogRequest{
		Category:   "Shopping",
		Value:      1500,
		OccurredAt: past,
	})
	require.NoError(t, err)
	assert.Equal(t, past, logged.OccurredAt)
	assert.InDelta(t, 0.6, logged.Emissions, 1e-9)
}

func TestCalculateStateless(t *testing.T) {
	svc := NewService(&memStore{}, zap.NewNop())

	emission, err := svc.Calculate(LogRequest{
		Category: "Travel",
		Value:    42,
		Travel:   &emissions.TravelDetails{Mode: models.ModeBike},
	})
	require.NoError(t, err)
	assert.Zero(t, emission)
}

func TestDeleteActivity(t *testing.T) {
	store := &memStore{}
	svc := NewService(store, zap.NewNop())

	logged, err := svc.LogActivity(context.Background(), "u1", LogRequest{Category: "Food", Value: 1})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteActivity(context.Background(), "u1", logged.ID))
	assert.ErrorIs(t, svc.DeleteActivity(context.Background(), "u1", logged.ID), mongodb.ErrActivityNotFound)
}
