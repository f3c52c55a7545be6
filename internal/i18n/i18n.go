// Package i18n serves the bot's localized texts from an embedded catalog.
package i18n

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"forest-focus-bot/internal/models"
)

//go:embed messages.yaml
var rawMessages []byte

// messages maps key -> language -> template.
var messages map[string]map[string]string

func init() {
	if err := yaml.Unmarshal(rawMessages, &messages); err != nil {
		panic(fmt.Sprintf("i18n: malformed messages.yaml: %v", err))
	}
}

// Vars are the named {placeholder} substitutions of a message template.
type Vars map[string]interface{}

// Get returns the message for key in the given language, falling back to
// Russian when the translation is missing. Unknown keys come back empty.
func Get(key string, lang models.Language, vars Vars) string {
	byLang, ok := messages[key]
	if !ok {
		return ""
	}
	template, ok := byLang[string(lang)]
	if !ok || template == "" {
		template = byLang[string(models.LangRU)]
	}
	if len(vars) == 0 {
		return template
	}

	pairs := make([]string, 0, len(vars)*2)
	for name, value := range vars {
		pairs = append(pairs, "{"+name+"}", fmt.Sprint(value))
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
