package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/vibewriter/internal/workspace"
	"github.com/spf13/cobra"
)

var (
	personaTitle  string
	personaDesc   string
	personaPrompt string
)

var personaCmd = &cobra.Command{
	Use:     "persona",
	Aliases: []string{"skill"},
	Short:   "Manage personas (reusable system prompts for AI actions)",
}

// persona resolves a persona by id or case-insensitive title.
func (s *session) persona(ref string) (workspace.Persona, error) {
	if p, ok := s.store.Persona(ref); ok {
		return p, nil
	}
	for _, p := range s.store.Personas() {
		if strings.EqualFold(p.Title, ref) {
			return p, nil
		}
	}
	return workspace.Persona{}, fmt.Errorf("persona %q: %w", ref, workspace.ErrNotFound)
}

var personaAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a persona",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(s *session) error {
			p, err := s.store.CreatePersona(personaTitle, personaDesc, personaPrompt)
			if err != nil {
				return err
			}
			fmt.Printf("✓ Persona added: %s (%s)\n", p.Title, p.ID)
			return nil
		})
	},
}

var personaUpdateCmd = &cobra.Command{
	Use:   "update <persona>",
	Short: "Update a persona's title, description or prompt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var u workspace.PersonaUpdate
		f := cmd.Flags()
		if f.Changed("title") {
			u.Title = &personaTitle
		}
		if f.Changed("desc") {
			u.Description = &personaDesc
		}
		if f.Changed("prompt") {
			u.SystemPrompt = &personaPrompt
		}
		return withSession(cmd, func(s *session) error {
			p, err := s.persona(args[0])
			if err != nil {
				return err
			}
			if _, err := s.store.UpdatePersona(p.ID, u); err != nil {
				return err
			}
			fmt.Printf("✓ Persona updated: %s\n", p.ID)
			return nil
		})
	},
}

var personaDeleteCmd = &cobra.Command{
	Use:   "delete <persona>",
	Short: "Delete a persona",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(s *session) error {
			p, err := s.persona(args[0])
			if err != nil {
				return err
			}
			s.store.DeletePersona(p.ID)
			fmt.Printf("✓ Persona deleted: %s\n", p.Title)
			return nil
		})
	},
}

var personaListCmd = &cobra.Command{
	Use:   "list",
	Short: "List personas",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(s *session) error {
			list := s.store.Personas()
			if done, err := printStructured(list); done {
				return err
			}
			if len(list) == 0 {
				fmt.Println("(no personas)")
				return nil
			}
			for _, p := range list {
				fmt.Printf("- %s: %s (%s)\n", p.ID, p.Title, p.Description)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(personaCmd)
	personaCmd.AddCommand(personaAddCmd, personaUpdateCmd, personaDeleteCmd, personaListCmd)
	for _, c := range []*cobra.Command{personaAddCmd, personaUpdateCmd} {
		c.Flags().StringVarP(&personaTitle, "title", "t", "", "persona title")
		c.Flags().StringVarP(&personaDesc, "desc", "d", "", "short description")
		c.Flags().StringVarP(&personaPrompt, "prompt", "p", "", "system prompt")
	}
}
