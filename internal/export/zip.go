package export

import (
	"archive/zip"
	"bytes"
	"fmt"
	"path"

	"github.com/KaramelBytes/vibewriter/internal/utils"
	"github.com/KaramelBytes/vibewriter/internal/workspace"
)

// File is one entry of a ZIP archive.
type File struct {
	Name string
	Data []byte
}

// ToZip packs files into a ZIP archive, in the given order.
func ToZip(files []File) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range files {
		w, err := zw.Create(f.Name)
		if err != nil {
			return nil, fmt.Errorf("zip %s: %w", f.Name, err)
		}
		if _, err := w.Write(f.Data); err != nil {
			return nil, fmt.Errorf("zip %s: %w", f.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close zip: %w", err)
	}
	return buf.Bytes(), nil
}

// MarkdownFiles renders each document as "<folder>/<name>.md". Names that
// collide inside a folder get a numeric suffix.
func (e *MarkdownEncoder) MarkdownFiles(st workspace.State, docs []workspace.Document) ([]File, error) {
	folders := make(map[string]string, len(st.Folders))
	for _, f := range st.Folders {
		folders[f.ID] = utils.SafeFileName(f.Name)
	}
	used := map[string]bool{}
	files := make([]File, 0, len(docs))
	for _, d := range docs {
		data, err := e.ToMarkdown(d)
		if err != nil {
			return nil, err
		}
		dir := folders[d.FolderID]
		if dir == "" {
			dir = "untitled"
		}
		name := path.Join(dir, utils.SafeFileName(d.Name)+".md")
		for i := 2; used[name]; i++ {
			name = path.Join(dir, fmt.Sprintf("%s_%d.md", utils.SafeFileName(d.Name), i))
		}
		used[name] = true
		files = append(files, File{Name: name, Data: data})
	}
	return files, nil
}
