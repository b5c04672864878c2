package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/vibewriter/internal/merge"
	"github.com/KaramelBytes/vibewriter/internal/utils"
	"github.com/KaramelBytes/vibewriter/internal/workspace"
	"github.com/spf13/cobra"
)

var (
	wsOut    string
	wsDryRun bool
	wsYes    bool
)

var workspaceCmd = &cobra.Command{
	Use:     "workspace",
	Aliases: []string{"ws"},
	Short:   "Export, import and recover the whole workspace",
}

var workspaceExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a JSON backup of every project, folder, document and persona",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(s *session) error {
			now := s.store.Now()
			data, err := utils.PrettyJSON(workspace.NewBackup(s.store.State(), now))
			if err != nil {
				return fmt.Errorf("encode backup: %w", err)
			}
			out := wsOut
			if out == "" {
				out = workspace.BackupFileName(now)
			}
			if err := utils.SafeWriteFile(out, data); err != nil {
				return fmt.Errorf("write backup: %w", err)
			}
			fmt.Printf("✓ Workspace exported to %s\n", out)
			return nil
		})
	},
}

func printSummary(sum merge.Summary) {
	line := func(name string, c merge.Counts) {
		fmt.Printf("  %-10s %3d in file: %d new, %d updated, %d unchanged\n", name, c.Imported, c.NewItems, c.Updates, c.Unchanged)
	}
	line("Projects", sum.Projects)
	line("Folders", sum.Folders)
	line("Documents", sum.Documents)
	line("Personas", sum.Personas)
	if sum.SettingsChanged {
		fmt.Println("  Settings   will be updated")
	}
}

// confirm asks a yes/no question on in; anything but y/yes is a no.
func confirm(in io.Reader, question string) bool {
	fmt.Printf("%s [y/N]: ", question)
	answer, _ := bufio.NewReader(in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

var workspaceImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Merge a workspace backup into this workspace",
	Long: `Merge a workspace backup into this workspace.

Items are matched by id: existing items are updated field by field, new items
are added, and nothing local is ever deleted. A safety backup of the current
workspace is stored before anything changes.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}
		return withSession(cmd, func(s *session) error {
			im := merge.NewImporter(s.store, s.backend, commandLogger())
			p, sum, err := im.Preview(data)
			if err != nil {
				return err
			}
			if done, err := printStructured(sum); done {
				if err != nil || wsDryRun {
					return err
				}
			} else {
				fmt.Printf("Import preview for %s:\n", filepath.Base(args[0]))
				printSummary(sum)
			}
			if wsDryRun {
				return nil
			}
			if !sum.HasChanges() {
				fmt.Println("No new or changed items; the selection will still be refreshed from this file.")
			}
			if !wsYes && !confirm(cmd.InOrStdin(), "Apply this import?") {
				fmt.Println("Import cancelled.")
				return nil
			}
			out, err := im.Import(cmd.Context(), p)
			if err != nil {
				return err
			}
			if out.SafetyBackupErr != nil {
				fmt.Printf("⚠ Warning: safety backup could not be stored: %v\n", out.SafetyBackupErr)
			}
			fmt.Printf("✓ Imported %d new and %d updated documents\n", out.Summary.Documents.NewItems, out.Summary.Documents.Updates)
			if out.Summary.SettingsChanged {
				fmt.Println("✓ Settings updated")
			}
			return nil
		})
	},
}

type backupRow struct {
	N         int    `json:"n"`
	ID        string `json:"id"`
	CreatedAt string `json:"createdAt"`
	Reason    string `json:"reason"`
	Projects  int    `json:"projects"`
	Documents int    `json:"documents"`
}

var workspaceBackupsCmd = &cobra.Command{
	Use:   "backups",
	Short: "List the safety backups taken before imports",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(s *session) error {
			list, err := s.backend.SafetyBackups(cmd.Context())
			if err != nil {
				return err
			}
			var rows []backupRow
			for i, b := range list {
				rows = append(rows, backupRow{
					N: i + 1, ID: b.ID, CreatedAt: b.CreatedAt.Local().Format("2006-01-02 15:04:05"),
					Reason: b.Reason, Projects: len(b.Payload.Projects), Documents: len(b.Payload.Documents),
				})
			}
			if done, err := printStructured(rows); done {
				return err
			}
			if len(rows) == 0 {
				fmt.Println("(no safety backups)")
				return nil
			}
			for _, r := range rows {
				fmt.Printf("%2d. %s  %s  [%s] %d projects, %d documents\n", r.N, r.CreatedAt, r.ID, r.Reason, r.Projects, r.Documents)
			}
			return nil
		})
	},
}

var workspaceRollbackCmd = &cobra.Command{
	Use:   "rollback <backup>",
	Short: "Replace the workspace with a safety backup (by id or list position)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(s *session) error {
			list, err := s.backend.SafetyBackups(cmd.Context())
			if err != nil {
				return err
			}
			var found *workspace.SafetyBackup
			for i := range list {
				if list[i].ID == args[0] || fmt.Sprint(i+1) == args[0] {
					found = &list[i]
					break
				}
			}
			if found == nil {
				return fmt.Errorf("safety backup %q: %w", args[0], workspace.ErrNotFound)
			}
			if !wsYes && !confirm(cmd.InOrStdin(), "This replaces the current workspace. Continue?") {
				return errors.New("rollback cancelled")
			}
			s.store.Transform(found.Payload.Restore)
			fmt.Printf("✓ Workspace rolled back to %s\n", found.CreatedAt.Local().Format("2006-01-02 15:04:05"))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(workspaceCmd)
	workspaceCmd.AddCommand(workspaceExportCmd, workspaceImportCmd, workspaceBackupsCmd, workspaceRollbackCmd)
	workspaceExportCmd.Flags().StringVarP(&wsOut, "out", "o", "", "output file (default vibewriter-workspace-<date>.json)")
	workspaceImportCmd.Flags().BoolVar(&wsDryRun, "dry-run", false, "show the import preview and stop")
	workspaceImportCmd.Flags().BoolVarP(&wsYes, "yes", "y", false, "skip the confirmation prompt")
	workspaceRollbackCmd.Flags().BoolVarP(&wsYes, "yes", "y", false, "skip the confirmation prompt")
}
