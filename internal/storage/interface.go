package storage

import (
	"context"
	"errors"

	"forest-focus-bot/internal/models"
)

// ErrUserNotFound is returned by Update when the id has never been seen.
var ErrUserNotFound = errors.New("storage: user not found")

// UserPatch is a partial update over the named top-level fields of a
// UserRecord. A nil field leaves the stored value untouched, so applying a
// patch is always a shallow merge, never a full replace. ID and CreatedAt
// are immutable and therefore not patchable.
type UserPatch struct {
	Language    *models.Language
	GrownItems  []models.GrownPlant
	Stats       *models.Statistics
	Preferences *models.Preferences

	// ActiveSession replaces the stored session when SetActiveSession is
	// true; a nil value then clears it.
	ActiveSession    *models.Session
	SetActiveSession bool

	UnlockedAchievements []string
}

func (p UserPatch) apply(rec *models.UserRecord) {
	if p.Language != nil {
		rec.Language = *p.Language
	}
	if p.GrownItems != nil {
		rec.GrownItems = p.GrownItems
	}
	if p.Stats != nil {
		rec.Stats = *p.Stats
	}
	if p.Preferences != nil {
		rec.Preferences = *p.Preferences
	}
	if p.SetActiveSession {
		rec.ActiveSession = p.ActiveSession
	}
	if p.UnlockedAchievements != nil {
		rec.UnlockedAchievements = p.UnlockedAchievements
	}
}

// UserStore keeps one UserRecord per user id. Every mutation is persisted
// synchronously before the call returns.
type UserStore interface {
	// GetOrCreate returns the stored record, creating and persisting a
	// default one on first access.
	GetOrCreate(ctx context.Context, id string) (*models.UserRecord, error)

	// Update applies a shallow patch to an existing record and persists
	// it. Unknown ids yield ErrUserNotFound.
	Update(ctx context.Context, id string, patch UserPatch) (*models.UserRecord, error)

	Close() error
}
