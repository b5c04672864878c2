package export

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/KaramelBytes/vibewriter/internal/workspace"
)

// ToPDF renders docs as an A4 PDF titled title. Text outside cp1252 is
// replaced by the font translator.
func ToPDF(title string, docs []workspace.Document) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	master := IsMaster(docs)
	for _, d := range docs {
		pdf.AddPage()
		if master {
			pdf.SetFont("Arial", "B", 18)
			pdf.MultiCell(0, 9, tr(DisplayName(d.Name)), "", "L", false)
			pdf.Ln(3)
		}
		for _, b := range blocksOf(d.Content) {
			size, style, indent := 11.0, "", 0.0
			switch b.kind {
			case blockHeading1:
				size, style = 16, "B"
			case blockHeading2:
				size, style = 14, "B"
			case blockHeading3:
				size, style = 12, "B"
			case blockQuote:
				style, indent = "I", 8
			case blockListItem:
				indent = 5
			}
			text := b.text()
			if b.kind == blockListItem {
				text = "- " + text
			}
			pdf.SetFont("Arial", style, size)
			pdf.SetX(pdf.GetX() + indent)
			pdf.MultiCell(0, size*0.5, tr(text), "", "L", false)
			pdf.Ln(2)
		}
	}
	if len(docs) == 0 {
		pdf.AddPage()
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF output: %w", err)
	}
	return buf.Bytes(), nil
}
