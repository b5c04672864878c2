package parser_test

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/vibewriter/internal/parser"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestParseFileTXT(t *testing.T) {
	p := writeFile(t, "a.txt", []byte("hello world\nthis is txt\n\nsecond <para>"))
	out, err := parser.ParseFile(p)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := "<p>hello world<br>this is txt</p><p>second &lt;para&gt;</p>"
	if out != want {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestParseFileMD(t *testing.T) {
	p := writeFile(t, "a.md", []byte("# Title\n\nBody **here**\n\n- list\n"))
	out, err := parser.ParseFile(p)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	for _, want := range []string{"<h1>Title</h1>", "<strong>here</strong>", "<li>list</li>"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
}

func TestParseFileHTMLSanitises(t *testing.T) {
	p := writeFile(t, "page.html", []byte(`<html><head><title>x</title></head><body><p onclick="x()">Hi</p><script>alert(1)</script></body></html>`))
	out, err := parser.ParseFile(p)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if out != "<p>Hi</p>" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestParseFileCSV(t *testing.T) {
	p := writeFile(t, "harvest.csv", []byte("date,plot\n2024-08-10,A1\n2024-08-12,B<3\n"))
	out, err := parser.ParseFile(p)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := "<table><thead><tr><th>date</th><th>plot</th></tr></thead><tbody><tr><td>2024-08-10</td><td>A1</td></tr><tr><td>2024-08-12</td><td>B&lt;3</td></tr></tbody></table>"
	if out != want {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestParseFileTSV(t *testing.T) {
	p := writeFile(t, "t.tsv", []byte("a\tb\n1\t2\n"))
	out, err := parser.ParseFile(p)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !strings.Contains(out, "<th>a</th><th>b</th>") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestParseFileDOCX(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, _ := zw.Create("word/document.xml")
	w.Write([]byte(`<w:document><w:body><w:p><w:r><w:t>First &amp; one</w:t></w:r></w:p><w:p><w:r><w:t>Line</w:t><w:br/><w:t>two</w:t></w:r></w:p><w:p></w:p></w:body></w:document>`))
	zw.Close()
	p := writeFile(t, "d.docx", buf.Bytes())

	out, err := parser.ParseFile(p)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := "<p>First &amp; one</p><p>Line<br>two</p>"
	if out != want {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestParseFileXLSX(t *testing.T) {
	files := map[string]string{
		"xl/workbook.xml": `<workbook xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"><sheets><sheet name="Scores" sheetId="1" r:id="rId1"/></sheets></workbook>`,
		"xl/_rels/workbook.xml.rels": `<Relationships><Relationship Id="rId1" Target="worksheets/sheet1.xml"/></Relationships>`,
		"xl/sharedStrings.xml": `<sst><si><t>Name</t></si><si><t>Score</t></si><si><r><t>Ad</t></r><r><t>a</t></r></si></sst>`,
		"xl/worksheets/sheet1.xml": `<worksheet><sheetData>` +
			`<row r="1"><c r="A1" t="s"><v>0</v></c><c r="B1" t="s"><v>1</v></c></row>` +
			`<row r="2"><c r="A2" t="s"><v>2</v></c><c r="C2"><f>40+2</f><v>42</v></c></row>` +
			`<row r="3"><c r="A3" t="inlineStr"><is><t>Bo &amp; Co</t></is></c></row>` +
			`</sheetData></worksheet>`,
	}
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, _ := zw.Create(name)
		w.Write([]byte(body))
	}
	zw.Close()
	p := writeFile(t, "scores.xlsx", buf.Bytes())

	out, err := parser.ParseFile(p)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := "<table><thead><tr><th>Name</th><th>Score</th></tr></thead><tbody>" +
		"<tr><td>Ada</td><td></td><td>42</td></tr><tr><td>Bo &amp; Co</td></tr></tbody></table>"
	if out != want {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestDocumentName(t *testing.T) {
	if got := parser.DocumentName("/tmp/notes/Chapter_1.md"); got != "Chapter_1" {
		t.Fatalf("got %q", got)
	}
}
