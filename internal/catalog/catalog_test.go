package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forest-focus-bot/internal/models"
)

func TestSpeciesTable(t *testing.T) {
	require.Len(t, Species, 12)
	assert.Equal(t, "seedling", Species[0].ID)
	assert.Zero(t, Species[0].UnlockAt)

	seen := map[string]bool{}
	for _, p := range Species {
		assert.False(t, seen[p.ID], "duplicate plant id %s", p.ID)
		seen[p.ID] = true
		assert.NotEmpty(t, p.Emoji)
		assert.NotEmpty(t, p.NameRU)
		assert.NotEmpty(t, p.NameEN)
		if p.Premium {
			assert.Equal(t, TierGold, p.Tier)
		}
	}
}

func TestByID(t *testing.T) {
	p, ok := ByID("rose")
	require.True(t, ok)
	assert.Equal(t, "🌹", p.Emoji)
	assert.Equal(t, "Роза", p.Name(models.LangRU))
	assert.Equal(t, "Rose", p.Name(models.LangEN))

	_, ok = ByID("tumbleweed")
	assert.False(t, ok)
}

func TestAvailableNewUser(t *testing.T) {
	available := Available(models.Statistics{TotalItemsGrown: 0}, false)
	require.Len(t, available, 1)
	assert.Equal(t, "seedling", available[0].ID)

	available = Available(models.Statistics{TotalItemsGrown: 5}, false)
	require.Len(t, available, 2)
	assert.Equal(t, "seedling", available[0].ID)
	assert.Equal(t, "sprout", available[1].ID)
}

func TestAvailableFiltersPremium(t *testing.T) {
	stats := models.Statistics{TotalItemsGrown: 500}

	free := Available(stats, false)
	assert.Len(t, free, 9)
	for _, p := range free {
		assert.False(t, p.Premium)
	}

	premium := Available(stats, true)
	require.Len(t, premium, len(Species))
	// Declaration order, not threshold order.
	for i, p := range premium {
		assert.Equal(t, Species[i].ID, p.ID)
	}
}

func TestNextUnlock(t *testing.T) {
	unlock := NextUnlock(models.Statistics{TotalItemsGrown: 0})
	require.NotNil(t, unlock)
	assert.Equal(t, "sprout", unlock.Plant.ID)
	assert.Equal(t, 5, unlock.PlantsNeeded)

	unlock = NextUnlock(models.Statistics{TotalItemsGrown: 79})
	require.NotNil(t, unlock)
	assert.Equal(t, "cactus", unlock.Plant.ID)
	assert.Equal(t, 1, unlock.PlantsNeeded)

	assert.Nil(t, NextUnlock(models.Statistics{TotalItemsGrown: 80}))
	assert.Nil(t, NextUnlock(models.Statistics{TotalItemsGrown: 500}))
}

func TestEvaluateAchievementsNewlyEarnedOnly(t *testing.T) {
	rec := models.NewUserRecord("u1", time.Now())
	rec.Stats.TotalItemsGrown = 1

	earned := EvaluateAchievements(rec)
	require.Len(t, earned, 1)
	assert.Equal(t, AchFirstPlant, earned[0].Kind)
	assert.True(t, rec.HasAchievement(string(AchFirstPlant)))

	// Already unlocked, nothing new the second time around.
	assert.Empty(t, EvaluateAchievements(rec))
}

func TestEvaluateAchievementsDeclarationOrder(t *testing.T) {
	rec := models.NewUserRecord("u1", time.Now())
	rec.Stats = models.Statistics{
		TotalItemsGrown:   100,
		TotalFocusMinutes: 2500,
		CurrentStreak:     8,
		LongestStreak:     8,
	}

	earned := EvaluateAchievements(rec)
	require.Len(t, earned, 4)
	assert.Equal(t, AchFirstPlant, earned[0].Kind)
	assert.Equal(t, AchWeekStreak, earned[1].Kind)
	assert.Equal(t, AchForestBuilder, earned[2].Kind)
	assert.Equal(t, AchFocusMaster, earned[3].Kind)
}

func TestAchievementByKind(t *testing.T) {
	a, ok := AchievementByKind(AchFocusMaster)
	require.True(t, ok)
	assert.Equal(t, "⏱️", a.Icon)
	assert.Equal(t, "Focus Master", a.Name(models.LangEN))
	assert.Equal(t, "Мастер концентрации", a.Name(models.LangRU))

	_, ok = AchievementByKind("unheard_of")
	assert.False(t, ok)
}
