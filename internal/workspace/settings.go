package workspace

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// SettingKeys lists the keys accepted by Settings.Set, in display order.
var SettingKeys = []string{
	"openRouterApiKey",
	"openAiApiKey",
	"openAiCliEnabled",
	"themeMode",
	"quickAiContinueEnabled",
	"systemPrompt",
	"model",
	"localModel",
}

// Set assigns one setting from its string form.
func (st *Settings) Set(key, value string) error {
	switch key {
	case "openRouterApiKey":
		st.OpenRouterAPIKey = value
	case "openAiApiKey":
		st.OpenAIAPIKey = value
	case "openAiCliEnabled", "quickAiContinueEnabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return &ValidationError{Field: key, Message: fmt.Sprintf("invalid boolean %q", value)}
		}
		if key == "openAiCliEnabled" {
			st.OpenAICLIEnabled = b
		} else {
			st.QuickAIContinueEnabled = b
		}
	case "themeMode":
		switch value {
		case "dark", "light", "system":
			st.ThemeMode = value
		default:
			return &ValidationError{Field: key, Message: "must be one of dark, light, system"}
		}
	case "systemPrompt":
		st.SystemPrompt = value
	case "model":
		st.Model = value
	case "localModel":
		st.LocalModel = value
	default:
		keys := append([]string{}, SettingKeys...)
		sort.Strings(keys)
		return &ValidationError{Field: key, Message: "unknown setting (valid: " + strings.Join(keys, ", ") + ")"}
	}
	return nil
}

// Masked returns a copy with API keys shortened for display.
func (st Settings) Masked() Settings {
	st.OpenRouterAPIKey = maskKey(st.OpenRouterAPIKey)
	st.OpenAIAPIKey = maskKey(st.OpenAIAPIKey)
	return st
}

func maskKey(k string) string {
	if k == "" {
		return ""
	}
	if len(k) <= 8 {
		return "****"
	}
	return k[:4] + "…" + k[len(k)-4:]
}

// Settings returns the workspace settings.
func (s *Store) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Settings
}

// UpdateSettings applies fn to the settings atomically. A non-nil error from
// fn aborts the update.
func (s *Store) UpdateSettings(fn func(*Settings) error) error {
	var err error
	s.mutate(func(st *State) bool {
		next := st.Settings
		if err = fn(&next); err != nil {
			return false
		}
		if next == st.Settings {
			return false
		}
		st.Settings = next
		return true
	})
	return err
}
