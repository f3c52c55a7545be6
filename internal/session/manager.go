// Package session owns the focus-session lifecycle: start, complete,
// abandon, and the statistics and streak bookkeeping that completion
// triggers.
package session

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"forest-focus-bot/internal/logging"
	"forest-focus-bot/internal/models"
	"forest-focus-bot/internal/storage"
)

var validate = validator.New()

// MinCompletionRatio is the share of the declared duration that must have
// elapsed before the conversation layer lets a user complete a session.
const MinCompletionRatio = 0.8

type StartRequest struct {
	DurationMinutes int    `validate:"required,gt=0"`
	PlantType       string `validate:"required"`
}

type Manager struct {
	store  storage.UserStore
	logger logging.Logger
	now    func() time.Time
}

func NewManager(store storage.UserStore, logger logging.Logger) *Manager {
	return &Manager{store: store, logger: logger, now: time.Now}
}

// Start opens a new active session for the user. A previous active session
// is overwritten, not rejected; nothing from it is kept.
func (m *Manager) Start(ctx context.Context, userID string, req StartRequest) (*models.Session, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	rec, err := m.store.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if rec.ActiveSession.IsActive() {
		m.logger.Warnf("session: user %s replaced an active session", userID)
	}

	sess := &models.Session{
		StartedAt:       m.now(),
		DurationMinutes: req.DurationMinutes,
		ItemType:        req.PlantType,
		Status:          models.SessionActive,
	}
	if _, err := m.store.Update(ctx, userID, storage.UserPatch{
		ActiveSession:    sess,
		SetActiveSession: true,
	}); err != nil {
		return nil, err
	}
	m.logger.Infof("session: user %s started %dm session growing %s",
		userID, req.DurationMinutes, req.PlantType)
	return sess, nil
}

// Complete finishes the active session: the grown plant is appended,
// totals and streak are updated, and the session slot is cleared. Without
// an active session it is a no-op returning (nil, nil).
func (m *Manager) Complete(ctx context.Context, userID string) (*models.GrownPlant, error) {
	rec, err := m.store.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	sess := rec.ActiveSession
	if !sess.IsActive() {
		return nil, nil
	}
	sess.Status = models.SessionCompleted

	now := m.now()
	plant := models.GrownPlant{
		Type:           sess.ItemType,
		GrownAt:        now,
		SessionMinutes: sess.DurationMinutes,
	}

	stats := rec.Stats
	stats.TotalFocusMinutes += sess.DurationMinutes
	stats.TotalItemsGrown++
	m.advanceStreak(&stats, now)

	if _, err := m.store.Update(ctx, userID, storage.UserPatch{
		GrownItems:       append(rec.GrownItems, plant),
		Stats:            &stats,
		SetActiveSession: true, // nil session clears the slot
	}); err != nil {
		return nil, err
	}
	m.logger.Infof("session: user %s grew %s, streak %d", userID, plant.Type, stats.CurrentStreak)
	return &plant, nil
}

// advanceStreak applies the calendar rules: a completion on the same day
// changes nothing, the day after the last activity extends the streak, any
// other gap restarts it at 1.
func (m *Manager) advanceStreak(stats *models.Statistics, now time.Time) {
	today := now.Format(models.DateLayout)
	yesterday := now.AddDate(0, 0, -1).Format(models.DateLayout)

	switch stats.LastActivityDate {
	case today:
		// already counted today
	case yesterday:
		stats.CurrentStreak++
		if stats.CurrentStreak > stats.LongestStreak {
			stats.LongestStreak = stats.CurrentStreak
		}
	default:
		stats.CurrentStreak = 1
		if stats.LongestStreak < 1 {
			stats.LongestStreak = 1
		}
	}
	stats.LastActivityDate = today
}

// Abandon discards the active session without touching statistics and
// reports whether there was anything to abandon.
func (m *Manager) Abandon(ctx context.Context, userID string) (bool, error) {
	rec, err := m.store.GetOrCreate(ctx, userID)
	if err != nil {
		return false, err
	}
	if rec.ActiveSession == nil {
		return false, nil
	}
	rec.ActiveSession.Status = models.SessionAbandoned

	if _, err := m.store.Update(ctx, userID, storage.UserPatch{
		SetActiveSession: true,
	}); err != nil {
		return false, err
	}
	m.logger.Infof("session: user %s abandoned their session", userID)
	return true, nil
}

// RemainingBeforeComplete tells how much longer the user has to wait until
// the completion gate opens; zero means the session may be completed.
func (m *Manager) RemainingBeforeComplete(sess *models.Session) time.Duration {
	required := time.Duration(MinCompletionRatio * float64(sess.DurationMinutes) * float64(time.Minute))
	elapsed := m.now().Sub(sess.StartedAt)
	if elapsed >= required {
		return 0
	}
	return required - elapsed
}
