// Package handlers maps inbound messenger updates to store, catalog and
// session operations and renders the localized replies.
package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	maxbot "github.com/max-messenger/max-bot-api-client-go"
	"github.com/max-messenger/max-bot-api-client-go/schemes"

	"forest-focus-bot/internal/catalog"
	"forest-focus-bot/internal/config"
	"forest-focus-bot/internal/i18n"
	"forest-focus-bot/internal/logging"
	"forest-focus-bot/internal/models"
	"forest-focus-bot/internal/session"
	"forest-focus-bot/internal/storage"
)

// streakMilestones get a celebratory extra line in the completion reply.
var streakMilestones = map[int]bool{3: true, 7: true, 14: true, 30: true, 50: true, 100: true}

const recentPlantsShown = 10

type Handler struct {
	cfg      *config.Config
	store    storage.UserStore
	sessions *session.Manager
	logger   logging.Logger
}

func New(cfg *config.Config, store storage.UserStore, sessions *session.Manager, logger logging.Logger) *Handler {
	return &Handler{cfg: cfg, store: store, sessions: sessions, logger: logger}
}

// HandleUpdate dispatches one inbound update. Errors are logged, never
// propagated: a broken update must not take the poll loop down.
func (h *Handler) HandleUpdate(ctx context.Context, api *maxbot.Api, update interface{}) {
	trace := uuid.NewString()[:8]

	switch upd := update.(type) {
	case *schemes.BotStartedUpdate:
		h.handleBotStarted(ctx, api, upd, trace)
	case *schemes.MessageCreatedUpdate:
		h.handleMessage(ctx, api, upd, trace)
	case *schemes.MessageCallbackUpdate:
		h.handleCallback(ctx, api, upd, trace)
	}
}

func (h *Handler) handleBotStarted(ctx context.Context, api *maxbot.Api, upd *schemes.BotStartedUpdate, trace string) {
	userID := fmt.Sprintf("%d", upd.User.UserId)
	chatID := int64(upd.ChatId)
	h.logger.Infof("[%s] bot started by user %s", trace, userID)

	rec, err := h.store.GetOrCreate(ctx, userID)
	if err != nil {
		h.logger.Errorf("[%s] failed to load user %s: %v", trace, userID, err)
		return
	}
	lang := h.langOf(rec)

	h.send(ctx, api, chatID, i18n.Get("welcome", lang, nil), h.mainMenuKeyboard(api, lang), trace)
}

// ========== MESSAGES & COMMANDS ==========

func (h *Handler) handleMessage(ctx context.Context, api *maxbot.Api, upd *schemes.MessageCreatedUpdate, trace string) {
	chatID := int64(upd.Message.Recipient.ChatId)
	text := strings.ToLower(strings.TrimSpace(upd.Message.Body.Text))
	userID := fmt.Sprintf("%d", upd.Message.Sender.UserId)

	h.logger.Debugf("[%s] message from %s: %q", trace, userID, text)

	rec, err := h.store.GetOrCreate(ctx, userID)
	if err != nil {
		h.logger.Errorf("[%s] failed to load user %s: %v", trace, userID, err)
		return
	}
	lang := h.langOf(rec)

	switch {
	case text == "/start" || text == "start" || text == "начать":
		if notice := h.streakBrokenNotice(rec, lang); notice != "" {
			h.send(ctx, api, chatID, notice, nil, trace)
		}
		h.send(ctx, api, chatID, i18n.Get("main_menu", lang, nil), h.mainMenuKeyboard(api, lang), trace)

	case text == "/forest" || strings.Contains(text, "лес"):
		h.send(ctx, api, chatID, h.forestView(rec, lang), h.mainMenuKeyboard(api, lang), trace)

	case strings.Contains(text, "стат") || strings.Contains(text, "stat"):
		h.send(ctx, api, chatID, h.statisticsView(rec, lang), h.mainMenuKeyboard(api, lang), trace)

	default:
		h.send(ctx, api, chatID, i18n.Get("unknown_text", lang, nil), h.mainMenuKeyboard(api, lang), trace)
	}
}

// streakBrokenNotice is shown on /start when the user skipped at least one
// whole day since the last completion.
func (h *Handler) streakBrokenNotice(rec *models.UserRecord, lang models.Language) string {
	last := rec.Stats.LastActivityDate
	if last == "" {
		return ""
	}
	now := time.Now()
	today := now.Format(models.DateLayout)
	yesterday := now.AddDate(0, 0, -1).Format(models.DateLayout)
	if last == today || last == yesterday {
		return ""
	}
	return i18n.Get("streak_broken", lang, i18n.Vars{"freezes": rec.Stats.StreakFreezes})
}

// ========== CALLBACKS ==========

func (h *Handler) handleCallback(ctx context.Context, api *maxbot.Api, upd *schemes.MessageCallbackUpdate, trace string) {
	userID := fmt.Sprintf("%d", upd.Callback.GetUserID())
	chatID := int64(upd.Callback.GetChatID())
	payload := upd.Callback.Payload

	h.logger.Debugf("[%s] callback %q from %s", trace, payload, userID)

	rec, err := h.store.GetOrCreate(ctx, userID)
	if err != nil {
		h.logger.Errorf("[%s] failed to load user %s: %v", trace, userID, err)
		return
	}
	lang := h.langOf(rec)

	switch {
	case payload == cbStartFocus:
		h.send(ctx, api, chatID, i18n.Get("start_session_prompt", lang, nil), h.durationKeyboard(api, lang), trace)

	case payload == cbMyForest:
		h.send(ctx, api, chatID, h.forestView(rec, lang), h.mainMenuKeyboard(api, lang), trace)

	case payload == cbStatistics:
		h.send(ctx, api, chatID, h.statisticsView(rec, lang), h.mainMenuKeyboard(api, lang), trace)

	case payload == cbAchievements:
		h.send(ctx, api, chatID, h.achievementsView(rec, lang), h.mainMenuKeyboard(api, lang), trace)

	case payload == cbSettings:
		h.send(ctx, api, chatID, h.settingsView(rec, lang), h.mainMenuKeyboard(api, lang), trace)

	case payload == cbBackToMenu:
		h.send(ctx, api, chatID, i18n.Get("main_menu", lang, nil), h.mainMenuKeyboard(api, lang), trace)

	case strings.HasPrefix(payload, cbDurationPrefix):
		h.handleDurationPicked(ctx, api, rec, chatID, payload, lang, trace)

	case strings.HasPrefix(payload, cbPlantPrefix):
		h.handlePlantPicked(ctx, api, rec, chatID, payload, lang, trace)

	case payload == cbCompleteSess:
		h.handleCompleteSession(ctx, api, rec, chatID, lang, trace)

	case payload == cbAbandonSess:
		h.handleAbandonSession(ctx, api, rec, chatID, lang, trace)

	default:
		h.logger.Warnf("[%s] unknown callback payload %q", trace, payload)
	}
}

func (h *Handler) handleDurationPicked(ctx context.Context, api *maxbot.Api, rec *models.UserRecord, chatID int64, payload string, lang models.Language, trace string) {
	duration, ok := parseDurationPayload(payload)
	if !ok {
		h.logger.Warnf("[%s] bad duration payload %q", trace, payload)
		return
	}

	prefs := rec.Preferences
	prefs.PendingDuration = duration
	if _, err := h.store.Update(ctx, rec.ID, storage.UserPatch{Preferences: &prefs}); err != nil {
		h.logger.Errorf("[%s] failed to stash duration for %s: %v", trace, rec.ID, err)
		return
	}

	h.send(ctx, api, chatID, i18n.Get("choose_plant", lang, nil), h.plantKeyboard(api, rec.Stats, lang), trace)
}

func (h *Handler) handlePlantPicked(ctx context.Context, api *maxbot.Api, rec *models.UserRecord, chatID int64, payload string, lang models.Language, trace string) {
	plantID := strings.TrimPrefix(payload, cbPlantPrefix)
	plant, ok := catalog.ByID(plantID)
	if !ok {
		h.logger.Warnf("[%s] unknown plant %q", trace, plantID)
		return
	}

	duration := rec.Preferences.PendingDuration
	if duration <= 0 {
		duration = rec.Preferences.SessionDuration
	}
	if duration <= 0 {
		duration = models.DefaultSessionMinutes
	}

	if _, err := h.sessions.Start(ctx, rec.ID, session.StartRequest{
		DurationMinutes: duration,
		PlantType:       plant.ID,
	}); err != nil {
		h.logger.Errorf("[%s] failed to start session for %s: %v", trace, rec.ID, err)
		return
	}

	// The stashed duration is consumed by the start.
	prefs := rec.Preferences
	prefs.PendingDuration = 0
	if _, err := h.store.Update(ctx, rec.ID, storage.UserPatch{Preferences: &prefs}); err != nil {
		h.logger.Errorf("[%s] failed to clear pending duration for %s: %v", trace, rec.ID, err)
	}

	h.send(ctx, api, chatID, i18n.Get("session_started", lang, i18n.Vars{
		"duration":   duration,
		"plant":      plant.Emoji,
		"plant_name": plant.Name(lang),
	}), h.sessionKeyboard(api, lang), trace)
}

func (h *Handler) handleCompleteSession(ctx context.Context, api *maxbot.Api, rec *models.UserRecord, chatID int64, lang models.Language, trace string) {
	sess := rec.ActiveSession
	if !sess.IsActive() {
		h.send(ctx, api, chatID, i18n.Get("no_active_session", lang, nil), h.mainMenuKeyboard(api, lang), trace)
		return
	}

	// Completing counts only after most of the declared time has passed.
	if remaining := h.sessions.RemainingBeforeComplete(sess); remaining > 0 {
		minutes := int(remaining.Minutes()) + 1
		h.send(ctx, api, chatID, i18n.Get("too_early", lang, i18n.Vars{"minutes": minutes}), nil, trace)
		return
	}

	plant, err := h.sessions.Complete(ctx, rec.ID)
	if err != nil {
		h.logger.Errorf("[%s] failed to complete session for %s: %v", trace, rec.ID, err)
		return
	}
	if plant == nil {
		h.send(ctx, api, chatID, i18n.Get("no_active_session", lang, nil), h.mainMenuKeyboard(api, lang), trace)
		return
	}

	rec, err = h.store.GetOrCreate(ctx, rec.ID)
	if err != nil {
		h.logger.Errorf("[%s] failed to reload user %s: %v", trace, rec.ID, err)
		return
	}

	extras := h.awardAchievements(ctx, rec, lang, trace)
	if streakMilestones[rec.Stats.CurrentStreak] {
		extras += "\n\n" + i18n.Get("milestone", lang, i18n.Vars{"days": rec.Stats.CurrentStreak})
	}

	grown, _ := catalog.ByID(plant.Type)
	h.send(ctx, api, chatID, i18n.Get("session_completed", lang, i18n.Vars{
		"plant":            grown.Emoji,
		"plant_name":       grown.Name(lang),
		"total":            rec.Stats.TotalItemsGrown,
		"minutes":          rec.Stats.TotalFocusMinutes,
		"streak":           rec.Stats.CurrentStreak,
		"achievement_text": strings.TrimSpace(extras),
	}), h.mainMenuKeyboard(api, lang), trace)
}

func (h *Handler) handleAbandonSession(ctx context.Context, api *maxbot.Api, rec *models.UserRecord, chatID int64, lang models.Language, trace string) {
	abandoned, err := h.sessions.Abandon(ctx, rec.ID)
	if err != nil {
		h.logger.Errorf("[%s] failed to abandon session for %s: %v", trace, rec.ID, err)
		return
	}
	if !abandoned {
		h.send(ctx, api, chatID, i18n.Get("no_active_session", lang, nil), h.mainMenuKeyboard(api, lang), trace)
		return
	}
	h.send(ctx, api, chatID, i18n.Get("plant_died", lang, nil), h.mainMenuKeyboard(api, lang), trace)
}

// awardAchievements evaluates the catalog predicates against the fresh
// record, persists anything newly earned and returns the announcement text.
func (h *Handler) awardAchievements(ctx context.Context, rec *models.UserRecord, lang models.Language, trace string) string {
	earned := catalog.EvaluateAchievements(rec)
	if len(earned) == 0 {
		return ""
	}

	if _, err := h.store.Update(ctx, rec.ID, storage.UserPatch{
		UnlockedAchievements: rec.UnlockedAchievements,
	}); err != nil {
		h.logger.Errorf("[%s] failed to persist achievements for %s: %v", trace, rec.ID, err)
		return ""
	}

	var b strings.Builder
	b.WriteString("\n\n" + i18n.Get("new_achievement", lang, nil) + "\n")
	for _, a := range earned {
		b.WriteString(fmt.Sprintf("\n%s %s", a.Icon, a.Name(lang)))
	}
	return b.String()
}

// ========== VIEWS ==========

func (h *Handler) forestView(rec *models.UserRecord, lang models.Language) string {
	stats := rec.Stats

	recent := rec.GrownItems
	if len(recent) > recentPlantsShown {
		recent = recent[len(recent)-recentPlantsShown:]
	}
	var strip strings.Builder
	for _, item := range recent {
		if p, ok := catalog.ByID(item.Type); ok {
			strip.WriteString(p.Emoji + " ")
		}
	}

	next := "0"
	if unlock := catalog.NextUnlock(stats); unlock != nil {
		next = fmt.Sprintf("%d", unlock.PlantsNeeded)
	}

	return i18n.Get("forest_view", lang, i18n.Vars{
		"total":         stats.TotalItemsGrown,
		"hours":         fmt.Sprintf("%.1f", float64(stats.TotalFocusMinutes)/60),
		"streak":        stats.CurrentStreak,
		"best_streak":   stats.LongestStreak,
		"recent_plants": strings.TrimSpace(strip.String()),
		"next":          next,
	})
}

func (h *Handler) statisticsView(rec *models.UserRecord, lang models.Language) string {
	stats := rec.Stats

	lastActivity := stats.LastActivityDate
	if lastActivity == "" {
		lastActivity = i18n.Get("never", lang, nil)
	}

	return i18n.Get("statistics_view", lang, i18n.Vars{
		"total":         stats.TotalItemsGrown,
		"minutes":       stats.TotalFocusMinutes,
		"hours":         fmt.Sprintf("%.1f", float64(stats.TotalFocusMinutes)/60),
		"streak":        stats.CurrentStreak,
		"best_streak":   stats.LongestStreak,
		"freezes":       stats.StreakFreezes,
		"last_activity": lastActivity,
		"created":       rec.CreatedAt.Format(models.DateLayout),
	})
}

func (h *Handler) achievementsView(rec *models.UserRecord, lang models.Language) string {
	var b strings.Builder
	b.WriteString(i18n.Get("achievements_header", lang, nil) + "\n")
	for _, a := range catalog.Achievements {
		status := "🔒"
		if rec.HasAchievement(string(a.Kind)) {
			status = "✅"
		}
		b.WriteString(fmt.Sprintf("\n%s %s %s\n%s\n", status, a.Icon, a.Name(lang), a.Description(lang)))
	}
	return b.String()
}

func (h *Handler) settingsView(rec *models.UserRecord, lang models.Language) string {
	language := "Русский"
	if lang == models.LangEN {
		language = "English"
	}
	duration := rec.Preferences.SessionDuration
	if duration <= 0 {
		duration = models.DefaultSessionMinutes
	}
	return i18n.Get("settings_view", lang, i18n.Vars{
		"language": language,
		"duration": duration,
	})
}

// ========== HELPERS ==========

func (h *Handler) langOf(rec *models.UserRecord) models.Language {
	if rec.Language != "" {
		return rec.Language
	}
	return models.Language(h.cfg.DefaultLang)
}

func (h *Handler) send(ctx context.Context, api *maxbot.Api, chatID int64, text string, kb *maxbot.Keyboard, trace string) {
	msg := maxbot.NewMessage().SetChat(chatID).SetText(text)
	if kb != nil {
		msg.AddKeyboard(kb)
	}
	if _, err := api.Messages.Send(ctx, msg); err != nil {
		h.logger.Errorf("[%s] failed to send message to chat %d: %v", trace, chatID, err)
	}
}
