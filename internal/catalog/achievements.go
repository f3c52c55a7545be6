package catalog

import "forest-focus-bot/internal/models"

type AchievementKind string

const (
	AchFirstPlant    AchievementKind = "first_plant"
	AchWeekStreak    AchievementKind = "week_streak"
	AchForestBuilder AchievementKind = "forest_builder"
	AchFocusMaster   AchievementKind = "focus_master"
)

type Achievement struct {
	Kind   AchievementKind
	Icon   string
	NameRU string
	NameEN string
	DescRU string
	DescEN string
}

func (a Achievement) Name(lang models.Language) string {
	if lang == models.LangEN {
		return a.NameEN
	}
	return a.NameRU
}

func (a Achievement) Description(lang models.Language) string {
	if lang == models.LangEN {
		return a.DescEN
	}
	return a.DescRU
}

// Achievements is the display table; declaration order is evaluation and
// display order.
var Achievements = []Achievement{
	{Kind: AchFirstPlant, Icon: "🏆", NameRU: "Первый росток", NameEN: "First Sprout",
		DescRU: "Вырастил первое растение", DescEN: "Grew your first plant"},
	{Kind: AchWeekStreak, Icon: "🔥", NameRU: "Неделя продуктивности", NameEN: "Productive Week",
		DescRU: "Поддерживал серию 7 дней", DescEN: "Kept a 7-day streak"},
	{Kind: AchForestBuilder, Icon: "🌲", NameRU: "Строитель леса", NameEN: "Forest Builder",
		DescRU: "Вырастил 100 растений", DescEN: "Grew 100 plants"},
	{Kind: AchFocusMaster, Icon: "⏱️", NameRU: "Мастер концентрации", NameEN: "Focus Master",
		DescRU: "Накопил 1000 минут фокуса", DescEN: "Accumulated 1000 focus minutes"},
}

// Predicates are registered apart from the display table so the data stays
// plain data. Each predicate is pure and evaluated independently.
var predicates = map[AchievementKind]func(models.Statistics) bool{
	AchFirstPlant:    func(s models.Statistics) bool { return s.TotalItemsGrown >= 1 },
	AchWeekStreak:    func(s models.Statistics) bool { return s.LongestStreak >= 7 },
	AchForestBuilder: func(s models.Statistics) bool { return s.TotalItemsGrown >= 100 },
	AchFocusMaster:   func(s models.Statistics) bool { return s.TotalFocusMinutes >= 1000 },
}

func AchievementByKind(kind AchievementKind) (Achievement, bool) {
	for _, a := range Achievements {
		if a.Kind == kind {
			return a, true
		}
	}
	return Achievement{}, false
}

// EvaluateAchievements appends every achievement whose predicate now holds
// and which the user has not earned yet, and returns the newly earned ones
// in declaration order. The caller persists the mutated record.
func EvaluateAchievements(rec *models.UserRecord) []Achievement {
	var earned []Achievement
	for _, a := range Achievements {
		if rec.HasAchievement(string(a.Kind)) {
			continue
		}
		pred, ok := predicates[a.Kind]
		if !ok || !pred(rec.Stats) {
			continue
		}
		rec.UnlockedAchievements = append(rec.UnlockedAchievements, string(a.Kind))
		earned = append(earned, a)
	}
	return earned
}
