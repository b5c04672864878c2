package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Create, list and switch projects",
}

var projectCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a project and make it active",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(s *session) error {
			p, err := s.store.CreateProject(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("✓ Project created: %s (%s)\n", p.Name, p.ID)
			return nil
		})
	},
}

type projectRow struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Active    bool   `json:"active"`
	Folders   int    `json:"folders"`
	Documents int    `json:"documents"`
	Words     int    `json:"words"`
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(s *session) error {
			active := s.store.Selection().ActiveProjectID
			var rows []projectRow
			for _, p := range s.store.Projects() {
				docs := s.store.ProjectDocuments(p.ID)
				words := 0
				for _, d := range docs {
					words += d.WordCount
				}
				rows = append(rows, projectRow{
					ID: p.ID, Name: p.Name, Active: p.ID == active,
					Folders: len(s.store.Folders(p.ID)), Documents: len(docs), Words: words,
				})
			}
			if done, err := printStructured(rows); done {
				return err
			}
			if len(rows) == 0 {
				fmt.Println("(no projects)")
				return nil
			}
			for _, r := range rows {
				marker := " "
				if r.Active {
					marker = "*"
				}
				fmt.Printf("%s %s: %s (%d folders, %d documents, %d words)\n", marker, r.ID, r.Name, r.Folders, r.Documents, r.Words)
			}
			return nil
		})
	},
}

var projectUseCmd = &cobra.Command{
	Use:   "use <project>",
	Short: "Make a project active",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(s *session) error {
			p, err := s.project(args[0])
			if err != nil {
				return err
			}
			s.store.SetActiveProject(p.ID)
			fmt.Printf("✓ Active project: %s\n", p.Name)
			return nil
		})
	},
}

var projectRenameCmd = &cobra.Command{
	Use:   "rename <project> <new-name>",
	Short: "Rename a project",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(s *session) error {
			p, err := s.project(args[0])
			if err != nil {
				return err
			}
			if _, err := s.store.RenameProject(p.ID, args[1]); err != nil {
				return err
			}
			fmt.Printf("✓ Project renamed: %s → %s\n", p.Name, args[1])
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(projectCmd)
	projectCmd.AddCommand(projectCreateCmd, projectListCmd, projectUseCmd, projectRenameCmd)
}
