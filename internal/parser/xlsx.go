package parser

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
)

// MaxSpreadsheetRows caps how many rows of a sheet are imported.
const MaxSpreadsheetRows = 5000

type xlsxParser struct{}

func (xlsxParser) CanParse(filename string) bool {
	return hasSuffix(filename, ".xlsx")
}

// Parse renders the first worksheet as an HTML table.
func (xlsxParser) Parse(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("open xlsx: %w", err)
	}
	sheet := firstSheetPath(
		zipEntry(zr, "xl/workbook.xml"),
		zipEntry(zr, "xl/_rels/workbook.xml.rels"),
	)
	data := zipEntry(zr, sheet)
	if data == nil {
		return "", fmt.Errorf("xlsx: worksheet %s not found", sheet)
	}
	rows := readSheet(data, sharedStrings(zipEntry(zr, "xl/sharedStrings.xml")), MaxSpreadsheetRows)
	return tableHTML(rows), nil
}

func zipEntry(zr *zip.Reader, name string) []byte {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil
		}
		defer rc.Close()
		b, _ := io.ReadAll(rc)
		return b
	}
	return nil
}

func attr(se xml.StartElement, local string) string {
	for _, a := range se.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// eachStart calls fn for every start element of an XML document until fn
// returns false or the input ends.
func eachStart(data []byte, fn func(dec *xml.Decoder, se xml.StartElement) bool) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			return
		}
		if se, ok := tok.(xml.StartElement); ok && !fn(dec, se) {
			return
		}
	}
}

// firstSheetPath resolves the zip path of the first sheet in workbook order,
// falling back to xl/worksheets/sheet1.xml.
func firstSheetPath(workbook, rels []byte) string {
	var rid string
	eachStart(workbook, func(_ *xml.Decoder, se xml.StartElement) bool {
		if se.Name.Local == "sheet" {
			rid = attr(se, "id")
			return false
		}
		return true
	})
	target := ""
	eachStart(rels, func(_ *xml.Decoder, se xml.StartElement) bool {
		if se.Name.Local == "Relationship" && rid != "" && attr(se, "Id") == rid {
			target = attr(se, "Target")
			return false
		}
		return true
	})
	if target == "" {
		return "xl/worksheets/sheet1.xml"
	}
	target = strings.TrimPrefix(target, "/")
	if strings.HasPrefix(target, "xl/") {
		return target
	}
	return path.Join("xl", target)
}

// elementText returns the character data up to the end of the element the
// decoder is in, including nested rich-text runs.
func elementText(dec *xml.Decoder) string {
	var sb strings.Builder
	for depth := 1; depth > 0; {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			sb.Write(t)
		}
	}
	return sb.String()
}

func sharedStrings(data []byte) []string {
	var out []string
	eachStart(data, func(dec *xml.Decoder, se xml.StartElement) bool {
		if se.Name.Local == "si" {
			out = append(out, elementText(dec))
		}
		return true
	})
	return out
}

// columnIndex turns a cell reference such as "C12" into a 0-based column.
func columnIndex(ref string) int {
	idx := 0
	for _, c := range strings.ToUpper(ref) {
		if c < 'A' || c > 'Z' {
			break
		}
		idx = idx*26 + int(c-'A'+1)
	}
	return idx - 1
}

// readSheet returns up to limit rows. Cells are placed by their reference, so
// gaps become empty strings; trailing empty rows are dropped.
func readSheet(data []byte, shared []string, limit int) [][]string {
	var rows [][]string
	var cur []string
	eachStart(data, func(dec *xml.Decoder, se xml.StartElement) bool {
		switch se.Name.Local {
		case "row":
			if cur != nil {
				rows = append(rows, cur)
			}
			if len(rows) >= limit {
				cur = nil
				return false
			}
			cur = []string{}
		case "c":
			col := columnIndex(attr(se, "r"))
			if col < 0 {
				col = len(cur)
			}
			val := cellValue(dec, attr(se, "t"), shared)
			for len(cur) <= col {
				cur = append(cur, "")
			}
			cur[col] = val
		}
		return true
	})
	if cur != nil && len(rows) < limit {
		rows = append(rows, cur)
	}
	for len(rows) > 0 && len(strings.Join(rows[len(rows)-1], "")) == 0 {
		rows = rows[:len(rows)-1]
	}
	return rows
}

// cellValue reads a <c> element's value: a shared-string index, an inline
// string or a literal.
func cellValue(dec *xml.Decoder, typ string, shared []string) string {
	var val string
	for {
		tok, err := dec.Token()
		if err != nil {
			return val
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "v":
				val = elementText(dec)
			case "is":
				val = elementText(dec)
			default:
				dec.Skip()
			}
		case xml.EndElement:
			if typ == "s" {
				i, err := strconv.Atoi(strings.TrimSpace(val))
				if err != nil || i < 0 || i >= len(shared) {
					return ""
				}
				return shared[i]
			}
			return val
		}
	}
}
