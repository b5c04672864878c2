package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/vibewriter/internal/utils"
)

func TestSafeWriteFileCreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "out.json")
	if err := utils.SafeWriteFile(path, []byte(`{}`)); err != nil {
		t.Fatalf("SafeWriteFile: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil || string(b) != "{}" {
		t.Fatalf("read back %q, %v", b, err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	got, err := utils.ExpandHome("~/exports/book.md")
	if err != nil || got != filepath.Join(home, "exports", "book.md") {
		t.Fatalf("ExpandHome = %q, %v", got, err)
	}
	got, _ = utils.ExpandHome("rel/./x.md")
	if got != filepath.Join("rel", "x.md") {
		t.Fatalf("relative path = %q", got)
	}
}

func TestSafeFileName(t *testing.T) {
	if got := utils.SafeFileName(" Act 1: Draft? "); got != "Act 1_ Draft_" {
		t.Fatalf("SafeFileName = %q", got)
	}
	if got := utils.SafeFileName("  "); got != "untitled" {
		t.Fatalf("blank name = %q", got)
	}
}
