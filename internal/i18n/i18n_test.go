package i18n

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"forest-focus-bot/internal/models"
)

func TestGetPlainMessage(t *testing.T) {
	ru := Get("main_menu", models.LangRU, nil)
	en := Get("main_menu", models.LangEN, nil)

	assert.NotEmpty(t, ru)
	assert.NotEmpty(t, en)
	assert.NotEqual(t, ru, en)
}

func TestGetSubstitutesVars(t *testing.T) {
	msg := Get("session_started", models.LangEN, Vars{
		"duration":   25,
		"plant":      "🌱",
		"plant_name": "Seedling",
	})

	assert.Contains(t, msg, "25 minutes")
	assert.Contains(t, msg, "🌱")
	assert.False(t, strings.Contains(msg, "{duration}"))
}

func TestUnknownLanguageFallsBackToRussian(t *testing.T) {
	assert.Equal(t, Get("welcome", models.LangRU, nil), Get("welcome", models.Language("de"), nil))
}

func TestUnknownKeyIsEmpty(t *testing.T) {
	assert.Empty(t, Get("no_such_key", models.LangRU, nil))
}

func TestAllMessagesHaveBothLanguages(t *testing.T) {
	for key, byLang := range messages {
		assert.NotEmpty(t, byLang["ru"], "message %s missing ru", key)
		assert.NotEmpty(t, byLang["en"], "message %s missing en", key)
	}
}
