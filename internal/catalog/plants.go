// Package catalog holds the static plant progression table and the
// achievement definitions. Both are read-only configuration; evaluation
// helpers are pure functions over user statistics.
package catalog

import (
	"sort"

	"forest-focus-bot/internal/models"
)

type Tier string

const (
	TierFree   Tier = "free"
	TierBronze Tier = "bronze"
	TierSilver Tier = "silver"
	TierGold   Tier = "gold"
)

type Plant struct {
	ID       string
	Emoji    string
	NameRU   string
	NameEN   string
	Tier     Tier
	UnlockAt int
	Premium  bool
}

func (p Plant) Name(lang models.Language) string {
	if lang == models.LangEN {
		return p.NameEN
	}
	return p.NameRU
}

// Species lists every growable plant. Declaration order is the display
// order and must stay stable; unlock thresholds are not required to be
// sorted here.
var Species = []Plant{
	{ID: "seedling", Emoji: "🌱", NameRU: "Росток", NameEN: "Seedling", Tier: TierFree, UnlockAt: 0},
	{ID: "sprout", Emoji: "🌿", NameRU: "Побег", NameEN: "Sprout", Tier: TierFree, UnlockAt: 5},
	{ID: "herb", Emoji: "🍀", NameRU: "Клевер", NameEN: "Clover", Tier: TierFree, UnlockAt: 10},

	{ID: "flower", Emoji: "🌸", NameRU: "Цветок", NameEN: "Flower", Tier: TierBronze, UnlockAt: 15},
	{ID: "sunflower", Emoji: "🌻", NameRU: "Подсолнух", NameEN: "Sunflower", Tier: TierBronze, UnlockAt: 20},
	{ID: "rose", Emoji: "🌹", NameRU: "Роза", NameEN: "Rose", Tier: TierBronze, UnlockAt: 25},

	{ID: "sapling", Emoji: "🌳", NameRU: "Саженец", NameEN: "Sapling", Tier: TierSilver, UnlockAt: 30},
	{ID: "pine", Emoji: "🌲", NameRU: "Сосна", NameEN: "Pine", Tier: TierSilver, UnlockAt: 40},
	{ID: "palm", Emoji: "🌴", NameRU: "Пальма", NameEN: "Palm", Tier: TierSilver, UnlockAt: 50},

	{ID: "cherry", Emoji: "🌸", NameRU: "Сакура", NameEN: "Cherry Blossom", Tier: TierGold, UnlockAt: 60, Premium: true},
	{ID: "bamboo", Emoji: "🎋", NameRU: "Бамбук", NameEN: "Bamboo", Tier: TierGold, UnlockAt: 70, Premium: true},
	{ID: "cactus", Emoji: "🌵", NameRU: "Кактус", NameEN: "Cactus", Tier: TierGold, UnlockAt: 80, Premium: true},
}

func ByID(id string) (Plant, bool) {
	for _, p := range Species {
		if p.ID == id {
			return p, true
		}
	}
	return Plant{}, false
}

// Available returns the plants the user can grow right now, in declaration
// order. Premium-only plants are filtered out unless isPremium is set.
func Available(stats models.Statistics, isPremium bool) []Plant {
	available := make([]Plant, 0, len(Species))
	for _, p := range Species {
		if stats.TotalItemsGrown < p.UnlockAt {
			continue
		}
		if p.Premium && !isPremium {
			continue
		}
		available = append(available, p)
	}
	return available
}

type Unlock struct {
	Plant        Plant
	PlantsNeeded int
}

// NextUnlock returns the closest still-locked plant by unlock threshold,
// or nil once everything is unlocked. Unlike Available it scans the table
// sorted ascending by threshold.
func NextUnlock(stats models.Statistics) *Unlock {
	ordered := make([]Plant, len(Species))
	copy(ordered, Species)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].UnlockAt < ordered[j].UnlockAt
	})

	for _, p := range ordered {
		if stats.TotalItemsGrown < p.UnlockAt {
			return &Unlock{Plant: p, PlantsNeeded: p.UnlockAt - stats.TotalItemsGrown}
		}
	}
	return nil
}
