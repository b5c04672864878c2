package cmd

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/vibewriter/internal/storage"
	"github.com/KaramelBytes/vibewriter/internal/utils"
	"github.com/KaramelBytes/vibewriter/internal/workspace"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// resetFlags puts every flag of c and its subcommands back to its default so
// state does not leak between invocations.
func resetFlags(c *cobra.Command) {
	reset := func(fl *pflag.Flag) {
		if sv, ok := fl.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = fl.Value.Set(fl.DefValue)
		}
		fl.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// runCmd is a helper to execute the root command with args.
func runCmd(t *testing.T, args ...string) {
	t.Helper()
	if err := execCmd(args...); err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
}

func execCmd(args ...string) error {
	resetFlags(rootCmd)
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

// isolate points HOME and the data dir at a temp dir and drops cached config.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("VIBEWRITER_DATA_DIR", filepath.Join(home, "data"))
	t.Setenv("VIBEWRITER_STORAGE_DRIVER", storage.DriverFile)
	cfg = nil
	t.Cleanup(func() { cfg = nil })
	return home
}

// loadState reads the workspace the commands persisted.
func loadState(t *testing.T, home string) workspace.State {
	t.Helper()
	b, err := storage.New(storage.Config{Driver: storage.DriverFile, Dir: filepath.Join(home, "data")}, nil)
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}
	defer b.Close()
	st, found, err := b.Load(context.Background())
	if err != nil || !found {
		t.Fatalf("load workspace: found=%v err=%v", found, err)
	}
	return st
}

func docByName(t *testing.T, st workspace.State, name string) workspace.Document {
	t.Helper()
	for _, d := range st.Documents {
		if d.Name == name {
			return d
		}
	}
	t.Fatalf("document %q not found", name)
	return workspace.Document{}
}

func TestCLI_Init_Project_Doc_Snapshot(t *testing.T) {
	home := isolate(t)

	runCmd(t, "init")
	runCmd(t, "project", "create", "Novel")
	runCmd(t, "folder", "create", "Chapters")
	runCmd(t, "doc", "create", "Chapter_One", "--text", "Hello world")
	runCmd(t, "doc", "edit", "Chapter_One", "--text", "Hello brave new world")
	runCmd(t, "snapshot", "save", "Chapter_One", "--label", "draft")

	st := loadState(t, home)
	if len(st.Projects) != 2 {
		t.Fatalf("projects = %d, want 2", len(st.Projects))
	}
	if len(st.Personas) != 2 {
		t.Fatalf("personas = %d, want 2", len(st.Personas))
	}
	d := docByName(t, st, "Chapter_One")
	if d.Content != "<p>Hello brave new world</p>" {
		t.Fatalf("content = %q", d.Content)
	}
	if d.WordCount != 4 {
		t.Fatalf("word count = %d, want 4", d.WordCount)
	}
	var labels []string
	for _, sn := range st.DocumentVersions {
		if sn.DocumentID == d.ID {
			labels = append(labels, sn.Label)
		}
	}
	if len(labels) != 1 || labels[0] != "draft" {
		t.Fatalf("snapshots = %v, want [draft]", labels)
	}

	// Restoring snapshot 1 keeps the current content as a pre-restore snapshot.
	runCmd(t, "doc", "edit", "Chapter_One", "--text", "Gone")
	runCmd(t, "snapshot", "restore", "Chapter_One", "1")
	st = loadState(t, home)
	d = docByName(t, st, "Chapter_One")
	if d.Content != "<p>Hello brave new world</p>" {
		t.Fatalf("restored content = %q", d.Content)
	}
}

func TestCLI_InitIsIdempotent(t *testing.T) {
	home := isolate(t)
	runCmd(t, "init")
	runCmd(t, "init")
	if n := len(loadState(t, home).Projects); n != 1 {
		t.Fatalf("projects = %d, want 1", n)
	}
}

func TestCLI_ReplaceAcrossProject(t *testing.T) {
	home := isolate(t)
	runCmd(t, "project", "create", "Essay")
	runCmd(t, "folder", "create", "Drafts")
	runCmd(t, "doc", "create", "A", "--text", "the cat sat")
	runCmd(t, "doc", "create", "B", "--text", "a cat and another Cat")

	runCmd(t, "replace", "cat", "dog", "--all", "--project")

	st := loadState(t, home)
	if got := docByName(t, st, "A").Content; got != "<p>the dog sat</p>" {
		t.Fatalf("A = %q", got)
	}
	if got := docByName(t, st, "B").Content; got != "<p>a dog and another dog</p>" {
		t.Fatalf("B = %q", got)
	}

	if err := execCmd("replace", "dog", "cat"); err == nil {
		t.Fatalf("expected error without --all or --match")
	}
}

func TestCLI_WorkspaceExportImportRollback(t *testing.T) {
	home := isolate(t)
	runCmd(t, "project", "create", "Novel")
	runCmd(t, "folder", "create", "Chapters")
	runCmd(t, "doc", "create", "Chapter_One", "--text", "Exported text")

	backup := filepath.Join(home, "backup.json")
	runCmd(t, "workspace", "export", "--out", backup)
	if _, err := os.Stat(backup); err != nil {
		t.Fatalf("backup not written: %v", err)
	}

	runCmd(t, "doc", "edit", "Chapter_One", "--text", "Local edit")
	runCmd(t, "doc", "create", "Chapter_Two", "--text", "Only local")

	runCmd(t, "workspace", "import", backup, "--dry-run")
	if got := docByName(t, loadState(t, home), "Chapter_One").Content; got != "<p>Local edit</p>" {
		t.Fatalf("dry run changed content: %q", got)
	}

	runCmd(t, "workspace", "import", backup, "--yes")
	st := loadState(t, home)
	if got := docByName(t, st, "Chapter_One").Content; got != "<p>Exported text</p>" {
		t.Fatalf("imported content = %q", got)
	}
	// Merge never deletes local items.
	docByName(t, st, "Chapter_Two")

	b, err := storage.New(storage.Config{Driver: storage.DriverFile, Dir: filepath.Join(home, "data")}, nil)
	if err != nil {
		t.Fatal(err)
	}
	backups, err := b.SafetyBackups(context.Background())
	_ = b.Close()
	if err != nil || len(backups) != 1 {
		t.Fatalf("safety backups = %d, err = %v", len(backups), err)
	}

	runCmd(t, "workspace", "rollback", "1", "--yes")
	if got := docByName(t, loadState(t, home), "Chapter_One").Content; got != "<p>Local edit</p>" {
		t.Fatalf("rolled back content = %q", got)
	}
}

func TestCLI_ImportAppliesSettingsOnlyChange(t *testing.T) {
	home := isolate(t)
	runCmd(t, "init")
	backup := filepath.Join(home, "backup.json")
	runCmd(t, "workspace", "export", "--out", backup)

	runCmd(t, "settings", "set", "themeMode", "light")
	runCmd(t, "workspace", "import", backup, "--yes")

	if got := loadState(t, home).Settings.ThemeMode; got != "dark" {
		t.Fatalf("themeMode after import = %q, want dark", got)
	}
}

func TestCLI_DocAddAndExportZip(t *testing.T) {
	home := isolate(t)
	md := filepath.Join(home, "notes.md")
	if err := os.WriteFile(md, []byte("# Notes\n\nSome *content*."), 0o644); err != nil {
		t.Fatalf("write doc: %v", err)
	}
	runCmd(t, "project", "create", "Research")
	runCmd(t, "folder", "create", "Sources")
	runCmd(t, "doc", "add", md)
	runCmd(t, "doc", "create", "Summary", "--text", "Short summary")

	out := filepath.Join(home, "out.zip")
	runCmd(t, "export", "--as", "zip", "--doc", "notes", "--doc", "Summary", "--out", out)

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read zip: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	if strings.Join(names, ",") != "Sources/notes.md,Sources/Summary.md" {
		t.Fatalf("zip entries = %v", names)
	}

	st := loadState(t, home)
	if d := docByName(t, st, "notes"); !strings.Contains(utils.PlainText(d.Content), "content") {
		t.Fatalf("notes content = %q", d.Content)
	}
}

func TestCLI_UnknownDocument(t *testing.T) {
	isolate(t)
	runCmd(t, "project", "create", "Empty")
	if err := execCmd("doc", "show", "missing"); err == nil {
		t.Fatalf("expected error for unknown document")
	}
}
