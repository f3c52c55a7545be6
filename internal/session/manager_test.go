package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forest-focus-bot/internal/catalog"
	"forest-focus-bot/internal/logging"
	"forest-focus-bot/internal/models"
	"forest-focus-bot/internal/storage"
)

var day0 = time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

func newTestManager(t *testing.T) (*Manager, storage.UserStore) {
	t.Helper()
	store, err := storage.NewFileStore(filepath.Join(t.TempDir(), "users.json"), logging.NewNop())
	require.NoError(t, err)

	m := NewManager(store, logging.NewNop())
	m.now = func() time.Time { return day0 }
	return m, store
}

func (m *Manager) setNow(tm time.Time) {
	m.now = func() time.Time { return tm }
}

func TestStartThenCompleteUpdatesTotals(t *testing.T) {
	for _, duration := range []int{1, 15, 25, 50} {
		m, store := newTestManager(t)
		ctx := context.Background()

		_, err := m.Start(ctx, "u1", StartRequest{DurationMinutes: duration, PlantType: "seedling"})
		require.NoError(t, err)

		plant, err := m.Complete(ctx, "u1")
		require.NoError(t, err)
		require.NotNil(t, plant)
		assert.Equal(t, "seedling", plant.Type)
		assert.Equal(t, duration, plant.SessionMinutes)

		rec, err := store.GetOrCreate(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, duration, rec.Stats.TotalFocusMinutes)
		assert.Equal(t, 1, rec.Stats.TotalItemsGrown)
		assert.Nil(t, rec.ActiveSession)
		require.Len(t, rec.GrownItems, 1)
		assert.Equal(t, "seedling", rec.GrownItems[0].Type)
	}
}

func TestStartReplacesActiveSession(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()

	_, err := m.Start(ctx, "u1", StartRequest{DurationMinutes: 25, PlantType: "seedling"})
	require.NoError(t, err)
	_, err = m.Start(ctx, "u1", StartRequest{DurationMinutes: 50, PlantType: "sprout"})
	require.NoError(t, err)

	rec, err := store.GetOrCreate(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, rec.ActiveSession)
	assert.Equal(t, 50, rec.ActiveSession.DurationMinutes)
	assert.Equal(t, "sprout", rec.ActiveSession.ItemType)

	// The replaced session contributed nothing.
	plant, err := m.Complete(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, plant)
	rec, _ = store.GetOrCreate(ctx, "u1")
	assert.Equal(t, 1, rec.Stats.TotalItemsGrown)
	assert.Equal(t, 50, rec.Stats.TotalFocusMinutes)
}

func TestStartValidation(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	_, err := m.Start(ctx, "u1", StartRequest{DurationMinutes: 0, PlantType: "seedling"})
	assert.Error(t, err)

	_, err = m.Start(ctx, "u1", StartRequest{DurationMinutes: -5, PlantType: "seedling"})
	assert.Error(t, err)

	_, err = m.Start(ctx, "u1", StartRequest{DurationMinutes: 25})
	assert.Error(t, err)
}

func TestCompleteWithoutSessionIsNoop(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()

	plant, err := m.Complete(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, plant)

	rec, err := store.GetOrCreate(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, rec.Stats.TotalItemsGrown)
}

func completeOn(t *testing.T, m *Manager, tm time.Time, userID string) {
	t.Helper()
	m.setNow(tm)
	_, err := m.Start(context.Background(), userID, StartRequest{DurationMinutes: 25, PlantType: "seedling"})
	require.NoError(t, err)
	plant, err := m.Complete(context.Background(), userID)
	require.NoError(t, err)
	require.NotNil(t, plant)
}

func TestSameDayCompletionKeepsStreak(t *testing.T) {
	m, store := newTestManager(t)

	completeOn(t, m, day0, "u1")
	completeOn(t, m, day0.Add(3*time.Hour), "u1")

	rec, err := store.GetOrCreate(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, rec.Stats.CurrentStreak)
	assert.Equal(t, 2, rec.Stats.TotalItemsGrown)
}

func TestConsecutiveDaysExtendStreak(t *testing.T) {
	m, store := newTestManager(t)

	longest := 0
	for i := 0; i < 5; i++ {
		completeOn(t, m, day0.AddDate(0, 0, i), "u1")

		rec, err := store.GetOrCreate(context.Background(), "u1")
		require.NoError(t, err)
		assert.Equal(t, i+1, rec.Stats.CurrentStreak)
		assert.GreaterOrEqual(t, rec.Stats.LongestStreak, longest)
		assert.GreaterOrEqual(t, rec.Stats.LongestStreak, rec.Stats.CurrentStreak)
		longest = rec.Stats.LongestStreak
	}
}

func TestGapResetsStreak(t *testing.T) {
	m, store := newTestManager(t)

	completeOn(t, m, day0, "u1")
	completeOn(t, m, day0.AddDate(0, 0, 1), "u1")
	completeOn(t, m, day0.AddDate(0, 0, 4), "u1")

	rec, err := store.GetOrCreate(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, rec.Stats.CurrentStreak)
	assert.Equal(t, 2, rec.Stats.LongestStreak)
	assert.Equal(t, day0.AddDate(0, 0, 4).Format(models.DateLayout), rec.Stats.LastActivityDate)
}

func TestAbandonLeavesStatsAlone(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()

	_, err := m.Start(ctx, "u1", StartRequest{DurationMinutes: 25, PlantType: "rose"})
	require.NoError(t, err)

	abandoned, err := m.Abandon(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, abandoned)

	rec, err := store.GetOrCreate(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, rec.ActiveSession)
	assert.Zero(t, rec.Stats.TotalFocusMinutes)
	assert.Zero(t, rec.Stats.TotalItemsGrown)
	assert.Zero(t, rec.Stats.CurrentStreak)
	assert.Empty(t, rec.GrownItems)

	abandoned, err = m.Abandon(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, abandoned)
}

func TestWeekStreakEarnsAchievement(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()

	_, err := store.GetOrCreate(ctx, "u1")
	require.NoError(t, err)
	stats := models.Statistics{
		TotalFocusMinutes: 150,
		TotalItemsGrown:   6,
		CurrentStreak:     6,
		LongestStreak:     6,
		LastActivityDate:  day0.AddDate(0, 0, -1).Format(models.DateLayout),
		StreakFreezes:     models.InitialStreakFreezes,
	}
	_, err = store.Update(ctx, "u1", storage.UserPatch{Stats: &stats})
	require.NoError(t, err)

	completeOn(t, m, day0, "u1")

	rec, err := store.GetOrCreate(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 7, rec.Stats.CurrentStreak)
	assert.Equal(t, 7, rec.Stats.LongestStreak)

	earned := catalog.EvaluateAchievements(rec)
	kinds := make([]catalog.AchievementKind, 0, len(earned))
	for _, a := range earned {
		kinds = append(kinds, a.Kind)
	}
	assert.Contains(t, kinds, catalog.AchWeekStreak)
}

func TestRemainingBeforeComplete(t *testing.T) {
	m, _ := newTestManager(t)

	sess := &models.Session{
		StartedAt:       day0,
		DurationMinutes: 25,
		Status:          models.SessionActive,
	}

	// 80% of 25 minutes is 20 minutes.
	m.setNow(day0.Add(10 * time.Minute))
	assert.Equal(t, 10*time.Minute, m.RemainingBeforeComplete(sess))

	m.setNow(day0.Add(20 * time.Minute))
	assert.Equal(t, time.Duration(0), m.RemainingBeforeComplete(sess))

	m.setNow(day0.Add(25 * time.Minute))
	assert.Equal(t, time.Duration(0), m.RemainingBeforeComplete(sess))
}
