package export_test

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/KaramelBytes/vibewriter/internal/export"
	"github.com/KaramelBytes/vibewriter/internal/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture() workspace.State {
	st := workspace.NewState()
	st.Projects = []workspace.Project{{ID: "p1", Name: "Saga"}}
	st.Folders = []workspace.Folder{
		{ID: "f2", ProjectID: "p1", Name: "Part Two", Order: 1},
		{ID: "f1", ProjectID: "p1", Name: "Part One", Order: 0},
	}
	st.Documents = []workspace.Document{
		{ID: "d3", FolderID: "f2", Name: "Chapter_Three", Content: "<p>Third.</p>", IncludeInContext: true},
		{ID: "d2", FolderID: "f1", Name: "Chapter_Two", Content: "<p>Second <strong>bold</strong>.</p>", Order: 1, IncludeInContext: false},
		{ID: "d1", FolderID: "f1", Name: "Chapter_One", Content: "<h2>Start</h2><p>First &amp; best.</p>", Order: 0, IncludeInContext: true},
	}
	return st
}

func ids(docs []workspace.Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.ID
	}
	return out
}

func TestSelect(t *testing.T) {
	st := fixture()
	assert.Equal(t, []string{"d1", "d3"}, ids(export.Select(st, "p1", nil)))
	assert.Equal(t, []string{"d1", "d2", "d3"}, ids(export.Select(st, "p1", []string{"d3", "d2", "d1"})))
	assert.Empty(t, export.Select(st, "other", nil))
}

func TestBaseName(t *testing.T) {
	st := fixture()
	assert.Equal(t, "Chapter_One", export.BaseName("Saga", st.Documents[2:]))
	assert.Equal(t, "Saga_Master", export.BaseName("Saga", st.Documents))
}

func TestMarkdownMaster(t *testing.T) {
	enc := export.NewMarkdownEncoder()
	docs := export.Select(fixture(), "p1", nil)

	out, err := enc.Combine(docs)
	require.NoError(t, err)
	got := string(out)
	assert.True(t, strings.HasPrefix(got, "# Chapter One\n\n## Start"), got)
	assert.Contains(t, got, "First & best.")
	assert.Contains(t, got, "\n---\n\n# Chapter Three\n\nThird.")
	assert.Equal(t, 1, strings.Count(got, "---"))
}

func TestMarkdownSingleHasNoHeader(t *testing.T) {
	enc := export.NewMarkdownEncoder()
	out, err := enc.Combine([]workspace.Document{{Name: "Solo", Content: "<p>Just <em>one</em></p><script>alert(1)</script>"}})
	require.NoError(t, err)
	assert.Equal(t, "Just _one_\n\n", string(out))
}

func readZip(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	files := map[string]string{}
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		files[f.Name] = string(b)
	}
	return files
}

func TestDocx(t *testing.T) {
	docs := export.Select(fixture(), "p1", []string{"d1", "d2"})
	data, err := export.ToDocx(docs)
	require.NoError(t, err)

	files := readZip(t, data)
	require.Contains(t, files, "word/document.xml")
	require.Contains(t, files, "[Content_Types].xml")
	body := files["word/document.xml"]
	assert.Contains(t, body, `<w:pStyle w:val="Heading1"/>`)
	assert.Contains(t, body, "Chapter One")
	assert.Contains(t, body, `<w:pStyle w:val="Heading2"/>`)
	assert.Contains(t, body, "First &amp; best.")
	assert.Contains(t, body, "<w:b/>")
	assert.Equal(t, 1, strings.Count(body, "<w:pageBreakBefore/>"))
}

func TestZipOfMarkdownFiles(t *testing.T) {
	st := fixture()
	enc := export.NewMarkdownEncoder()
	files, err := enc.MarkdownFiles(st, export.Select(st, "p1", []string{"d1", "d3"}))
	require.NoError(t, err)
	data, err := export.ToZip(files)
	require.NoError(t, err)

	got := readZip(t, data)
	assert.Contains(t, got, "Part One/Chapter_One.md")
	assert.Contains(t, got, "Part Two/Chapter_Three.md")
	assert.Contains(t, got["Part Two/Chapter_Three.md"], "Third.")
}

func TestPDF(t *testing.T) {
	data, err := export.ToPDF("Saga", export.Select(fixture(), "p1", nil))
	require.NoError(t, err)
	require.Greater(t, len(data), 4)
	assert.Equal(t, "%PDF", string(data[:4]))
}
