package cmd

import (
	"fmt"
	"strconv"

	"github.com/KaramelBytes/vibewriter/internal/utils"
	"github.com/KaramelBytes/vibewriter/internal/workspace"
	"github.com/spf13/cobra"
)

// Labels of the manual snapshots the CLI takes on the user's behalf.
const (
	manualSaveLabel = "Manual save"
	preRestoreLabel = "Pre-restore backup"
)

var snapLabel string

var snapshotCmd = &cobra.Command{
	Use:     "snapshot",
	Aliases: []string{"snap", "history"},
	Short:   "Save, list, restore and duplicate document snapshots",
}

// snapshotOf resolves a snapshot of doc by id or by 1-based position in the
// newest-first history.
func snapshotOf(s *session, doc workspace.Document, ref string) (workspace.Snapshot, error) {
	list := s.store.ListSnapshots(doc.ID)
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(list) {
		return list[n-1], nil
	}
	for _, sn := range list {
		if sn.ID == ref {
			return sn, nil
		}
	}
	return workspace.Snapshot{}, fmt.Errorf("snapshot %q of %s: %w", ref, doc.Name, workspace.ErrNotFound)
}

var snapshotSaveCmd = &cobra.Command{
	Use:   "save [doc]",
	Short: "Record a manual snapshot of a document",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(s *session) error {
			d, err := s.document(firstArg(args))
			if err != nil {
				return err
			}
			label := snapLabel
			if label == "" {
				label = manualSaveLabel
			}
			sn, _ := s.store.CreateSnapshot(d.ID, workspace.SnapshotOptions{Source: workspace.SourceManual, Label: label})
			fmt.Printf("✓ Snapshot saved: %s (%s, %d words)\n", sn.ID, label, sn.WordCount)
			return nil
		})
	},
}

type snapshotRow struct {
	N         int    `json:"n"`
	ID        string `json:"id"`
	CreatedAt string `json:"createdAt"`
	Source    string `json:"source"`
	Label     string `json:"label,omitempty"`
	Words     int    `json:"words"`
	Preview   string `json:"preview"`
}

var snapshotListCmd = &cobra.Command{
	Use:   "list [doc]",
	Short: "List a document's snapshots, newest first",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(s *session) error {
			d, err := s.document(firstArg(args))
			if err != nil {
				return err
			}
			var rows []snapshotRow
			for i, sn := range s.store.ListSnapshots(d.ID) {
				rows = append(rows, snapshotRow{
					N: i + 1, ID: sn.ID, CreatedAt: sn.CreatedAt.Local().Format("2006-01-02 15:04:05"),
					Source: string(sn.Source), Label: sn.Label, Words: sn.WordCount,
					Preview: utils.Preview(sn.TextPreview, 60),
				})
			}
			if done, err := printStructured(rows); done {
				return err
			}
			if len(rows) == 0 {
				fmt.Printf("(no snapshots for %s)\n", d.Name)
				return nil
			}
			for _, r := range rows {
				label := r.Source
				if r.Label != "" {
					label += ": " + r.Label
				}
				fmt.Printf("%2d. %s  %s  [%s] %d words  %q\n", r.N, r.CreatedAt, r.ID, label, r.Words, r.Preview)
			}
			return nil
		})
	},
}

var snapshotRestoreCmd = &cobra.Command{
	Use:   "restore <doc> <snapshot>",
	Short: "Restore a snapshot into its document (the current content is snapshotted first)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(s *session) error {
			d, err := s.document(args[0])
			if err != nil {
				return err
			}
			sn, err := snapshotOf(s, d, args[1])
			if err != nil {
				return err
			}
			s.store.CreateSnapshot(d.ID, workspace.SnapshotOptions{Source: workspace.SourceManual, Label: preRestoreLabel})
			if !s.store.RestoreSnapshot(d.ID, sn.ID) {
				return fmt.Errorf("restore snapshot %s: %w", sn.ID, workspace.ErrNotFound)
			}
			fmt.Printf("✓ Restored %s to snapshot from %s\n", d.Name, sn.CreatedAt.Local().Format("2006-01-02 15:04:05"))
			return nil
		})
	},
}

var snapshotDuplicateCmd = &cobra.Command{
	Use:   "duplicate <doc> <snapshot>",
	Short: "Copy a snapshot into a new document next to the original",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(s *session) error {
			d, err := s.document(args[0])
			if err != nil {
				return err
			}
			sn, err := snapshotOf(s, d, args[1])
			if err != nil {
				return err
			}
			nd, ok := s.store.DuplicateSnapshotAsDocument(sn.ID)
			if !ok {
				return fmt.Errorf("duplicate snapshot %s: %w", sn.ID, workspace.ErrNotFound)
			}
			fmt.Printf("✓ Document created from snapshot: %s (%s)\n", nd.Name, nd.ID)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.AddCommand(snapshotSaveCmd, snapshotListCmd, snapshotRestoreCmd, snapshotDuplicateCmd)
	snapshotSaveCmd.Flags().StringVarP(&snapLabel, "label", "l", "", "snapshot label (default \"Manual save\")")
}
