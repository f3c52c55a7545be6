package models

import "time"

type Language string

const (
	LangRU Language = "ru"
	LangEN Language = "en"
)

const (
	DefaultSessionMinutes = 25
	InitialStreakFreezes  = 2
	DefaultFavoritePlant  = "🌱"
)

// DateLayout is the calendar-date form used for streak accounting.
const DateLayout = "2006-01-02"

type UserRecord struct {
	ID                   string       `json:"id"`
	CreatedAt            time.Time    `json:"createdAt"`
	Language             Language     `json:"language"`
	GrownItems           []GrownPlant `json:"grownItems"`
	ActiveSession        *Session     `json:"activeSession,omitempty"`
	Stats                Statistics   `json:"stats"`
	UnlockedAchievements []string     `json:"unlockedAchievements"`
	Preferences          Preferences  `json:"preferences"`
}

type Statistics struct {
	TotalFocusMinutes int    `json:"totalFocusMinutes"`
	TotalItemsGrown   int    `json:"totalItemsGrown"`
	CurrentStreak     int    `json:"currentStreak"`
	LongestStreak     int    `json:"longestStreak"`
	LastActivityDate  string `json:"lastActivityDate,omitempty"`
	StreakFreezes     int    `json:"streakFreezes"`
}

// GrownPlant is immutable once appended to GrownItems.
type GrownPlant struct {
	Type           string    `json:"type"`
	GrownAt        time.Time `json:"grownAt"`
	SessionMinutes int       `json:"sessionMinutes"`
}

type Preferences struct {
	SessionDuration int    `json:"sessionDuration"`
	FavoritePlant   string `json:"favoritePlant"`
	// PendingDuration holds a duration picked on the duration keyboard
	// until a plant is chosen and the session actually starts.
	PendingDuration int `json:"pendingDuration,omitempty"`
}

// NewUserRecord builds a fresh record with the defaults every new user gets.
func NewUserRecord(id string, now time.Time) *UserRecord {
	return &UserRecord{
		ID:                   id,
		CreatedAt:            now,
		Language:             LangRU,
		GrownItems:           []GrownPlant{},
		Stats:                Statistics{StreakFreezes: InitialStreakFreezes},
		UnlockedAchievements: []string{},
		Preferences: Preferences{
			SessionDuration: DefaultSessionMinutes,
			FavoritePlant:   DefaultFavoritePlant,
		},
	}
}

func (u *UserRecord) HasAchievement(id string) bool {
	for _, a := range u.UnlockedAchievements {
		if a == id {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers never alias store-owned state.
func (u *UserRecord) Clone() *UserRecord {
	c := *u
	c.GrownItems = append([]GrownPlant{}, u.GrownItems...)
	c.UnlockedAchievements = append([]string{}, u.UnlockedAchievements...)
	if u.ActiveSession != nil {
		s := *u.ActiveSession
		c.ActiveSession = &s
	}
	return &c
}
