package handlers

import (
	"strconv"

	maxbot "github.com/max-messenger/max-bot-api-client-go"
	"github.com/max-messenger/max-bot-api-client-go/schemes"

	"forest-focus-bot/internal/catalog"
	"forest-focus-bot/internal/i18n"
	"forest-focus-bot/internal/models"
)

// Callback payloads. Prefixed payloads carry their argument after the
// underscore.
const (
	cbStartFocus     = "start_focus"
	cbMyForest       = "my_forest"
	cbStatistics     = "statistics"
	cbAchievements   = "achievements"
	cbSettings       = "settings"
	cbBackToMenu     = "back_to_menu"
	cbCompleteSess   = "complete_session"
	cbAbandonSess    = "abandon_session"
	cbDurationPrefix = "duration_"
	cbPlantPrefix    = "plant_"
)

func (h *Handler) mainMenuKeyboard(api *maxbot.Api, lang models.Language) *maxbot.Keyboard {
	kb := api.Messages.NewKeyboardBuilder()
	kb.AddRow().
		AddCallback(i18n.Get("btn_start_focus", lang, nil), schemes.POSITIVE, cbStartFocus)
	kb.AddRow().
		AddCallback(i18n.Get("btn_my_forest", lang, nil), schemes.DEFAULT, cbMyForest).
		AddCallback(i18n.Get("btn_statistics", lang, nil), schemes.DEFAULT, cbStatistics)
	kb.AddRow().
		AddCallback(i18n.Get("btn_achievements", lang, nil), schemes.DEFAULT, cbAchievements).
		AddCallback(i18n.Get("btn_settings", lang, nil), schemes.DEFAULT, cbSettings)
	return kb
}

func (h *Handler) durationKeyboard(api *maxbot.Api, lang models.Language) *maxbot.Keyboard {
	kb := api.Messages.NewKeyboardBuilder()
	kb.AddRow().
		AddCallback(i18n.Get("btn_25min", lang, nil), schemes.DEFAULT, cbDurationPrefix+"25")
	kb.AddRow().
		AddCallback(i18n.Get("btn_15min", lang, nil), schemes.DEFAULT, cbDurationPrefix+"15")
	kb.AddRow().
		AddCallback(i18n.Get("btn_50min", lang, nil), schemes.DEFAULT, cbDurationPrefix+"50")
	kb.AddRow().
		AddCallback(i18n.Get("btn_back", lang, nil), schemes.DEFAULT, cbBackToMenu)
	return kb
}

// plantKeyboard lays the unlocked plants out two per row.
func (h *Handler) plantKeyboard(api *maxbot.Api, stats models.Statistics, lang models.Language) *maxbot.Keyboard {
	available := catalog.Available(stats, h.cfg.Premium)

	kb := api.Messages.NewKeyboardBuilder()
	for i := 0; i < len(available); i += 2 {
		row := kb.AddRow()
		for j := i; j < i+2 && j < len(available); j++ {
			p := available[j]
			row.AddCallback(p.Emoji+" "+p.Name(lang), schemes.DEFAULT, cbPlantPrefix+p.ID)
		}
	}
	kb.AddRow().
		AddCallback(i18n.Get("btn_back", lang, nil), schemes.DEFAULT, cbBackToMenu)
	return kb
}

func (h *Handler) sessionKeyboard(api *maxbot.Api, lang models.Language) *maxbot.Keyboard {
	kb := api.Messages.NewKeyboardBuilder()
	kb.AddRow().
		AddCallback(i18n.Get("btn_complete_session", lang, nil), schemes.POSITIVE, cbCompleteSess)
	kb.AddRow().
		AddCallback(i18n.Get("btn_abandon_session", lang, nil), schemes.NEGATIVE, cbAbandonSess)
	return kb
}

func parseDurationPayload(payload string) (int, bool) {
	n, err := strconv.Atoi(payload[len(cbDurationPrefix):])
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
