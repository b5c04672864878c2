package cmd

import (
	"fmt"

	"github.com/KaramelBytes/vibewriter/internal/workspace"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var settingsReveal bool

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "View or change workspace settings (API keys, AI provider, theme)",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show workspace settings (API keys masked)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(s *session) error {
			st := s.store.Settings()
			if !settingsReveal {
				st = st.Masked()
			}
			if done, err := printStructured(st); done {
				return err
			}
			b, err := yaml.Marshal(settingsView(st))
			if err != nil {
				return fmt.Errorf("marshal yaml: %w", err)
			}
			fmt.Print(string(b))
			return nil
		})
	},
}

// settingsView keys settings by the names accepted by `settings set`.
func settingsView(st workspace.Settings) map[string]any {
	return map[string]any{
		"openRouterApiKey":       st.OpenRouterAPIKey,
		"openAiApiKey":           st.OpenAIAPIKey,
		"openAiCliEnabled":       st.OpenAICLIEnabled,
		"themeMode":              st.ThemeMode,
		"quickAiContinueEnabled": st.QuickAIContinueEnabled,
		"systemPrompt":           st.SystemPrompt,
		"model":                  st.Model,
		"localModel":             st.LocalModel,
	}
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a workspace setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		return withSession(cmd, func(s *session) error {
			if err := s.store.UpdateSettings(func(st *workspace.Settings) error { return st.Set(key, val) }); err != nil {
				return err
			}
			fmt.Printf("✓ Setting saved: %s\n", key)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsShowCmd, settingsSetCmd)
	settingsShowCmd.Flags().BoolVar(&settingsReveal, "reveal", false, "show API keys unmasked")
}
