package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var openSecondary bool

var openCmd = &cobra.Command{
	Use:   "open <doc>",
	Short: "Open a document in the primary pane (or the secondary pane with --secondary)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(s *session) error {
			d, err := s.document(args[0])
			if err != nil {
				return err
			}
			if openSecondary {
				s.store.SetActiveDocumentSecondary(d.ID)
				fmt.Printf("✓ Opened %s in the secondary pane\n", d.Name)
				return nil
			}
			s.store.SetActiveDocument(d.ID)
			fmt.Printf("✓ Opened %s\n", d.Name)
			return nil
		})
	},
}

var splitCmd = &cobra.Command{
	Use:   "split",
	Short: "Toggle split mode",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(s *session) error {
			if s.store.ToggleSplitMode() {
				fmt.Println("✓ Split mode on")
			} else {
				fmt.Println("✓ Split mode off")
			}
			return nil
		})
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the active project and open documents",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(s *session) error {
			sel := s.store.Selection()
			if done, err := printStructured(sel); done {
				return err
			}
			name := func(id string) string {
				if d, ok := s.store.Document(id); ok {
					return d.Name
				}
				return "(none)"
			}
			project := "(none)"
			if p, ok := s.store.ActiveProject(); ok {
				project = p.Name
			}
			fmt.Printf("Project:   %s\n", project)
			fmt.Printf("Primary:   %s\n", name(sel.ActiveDocumentID))
			if sel.SplitMode {
				fmt.Printf("Secondary: %s\n", name(sel.ActiveDocumentIDSecondary))
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(openCmd, splitCmd, statusCmd)
	openCmd.Flags().BoolVar(&openSecondary, "secondary", false, "open in the secondary pane (enables split mode)")
}
