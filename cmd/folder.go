package cmd

import (
	"fmt"

	"github.com/KaramelBytes/vibewriter/internal/workspace"
	"github.com/spf13/cobra"
)

var folderCmd = &cobra.Command{
	Use:   "folder",
	Short: "Manage folders of the active project",
}

var folderCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a folder in the active project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(s *session) error {
			p, err := s.activeProject()
			if err != nil {
				return err
			}
			f, err := s.store.CreateFolder(p.ID, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("✓ Folder created: %s (%s)\n", f.Name, f.ID)
			return nil
		})
	},
}

var folderRenameCmd = &cobra.Command{
	Use:   "rename <folder> <new-name>",
	Short: "Rename a folder",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(s *session) error {
			f, err := s.folder(args[0])
			if err != nil {
				return err
			}
			if _, err := s.store.RenameFolder(f.ID, args[1]); err != nil {
				return err
			}
			fmt.Printf("✓ Folder renamed: %s → %s\n", f.Name, args[1])
			return nil
		})
	},
}

var folderDeleteCmd = &cobra.Command{
	Use:   "delete <folder>",
	Short: "Delete a folder with its documents and their snapshots",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(s *session) error {
			f, err := s.folder(args[0])
			if err != nil {
				return err
			}
			n := len(s.store.Documents(f.ID))
			s.store.DeleteFolder(f.ID)
			fmt.Printf("✓ Folder deleted: %s (%d documents removed)\n", f.Name, n)
			return nil
		})
	},
}

type folderRow struct {
	workspace.Folder
	Documents int `json:"documents"`
}

var folderListCmd = &cobra.Command{
	Use:   "list",
	Short: "List folders of the active project",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(s *session) error {
			p, err := s.activeProject()
			if err != nil {
				return err
			}
			var rows []folderRow
			for _, f := range s.store.Folders(p.ID) {
				rows = append(rows, folderRow{Folder: f, Documents: len(s.store.Documents(f.ID))})
			}
			if done, err := printStructured(rows); done {
				return err
			}
			if len(rows) == 0 {
				fmt.Println("(no folders)")
				return nil
			}
			for _, r := range rows {
				fmt.Printf("- %s: %s (%d documents)\n", r.ID, r.Name, r.Documents)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(folderCmd)
	folderCmd.AddCommand(folderCreateCmd, folderRenameCmd, folderDeleteCmd, folderListCmd)
}
