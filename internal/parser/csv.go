package parser

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"html"
	"io"
	"strings"
)

type csvParser struct{}

func (csvParser) CanParse(filename string) bool {
	return hasSuffix(filename, ".csv", ".tsv")
}

// Parse sniffs the delimiter (tab or comma) from the first line and renders
// the rows as an HTML table, the first row as header.
func (csvParser) Parse(content []byte) (string, error) {
	content = bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))
	r := csv.NewReader(bytes.NewReader(content))
	first, _, _ := bytes.Cut(content, []byte("\n"))
	if bytes.Count(first, []byte("\t")) > bytes.Count(first, []byte(",")) {
		r.Comma = '\t'
	}
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var rows [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("read csv row %d: %w", len(rows)+1, err)
		}
		rows = append(rows, rec)
	}
	return tableHTML(rows), nil
}

// tableHTML renders rows as a table with the first row as header. No rows
// render as "".
func tableHTML(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("<table>")
	for i, rec := range rows {
		cell := "td"
		if i == 0 {
			cell = "th"
			sb.WriteString("<thead>")
		} else if i == 1 {
			sb.WriteString("<tbody>")
		}
		sb.WriteString("<tr>")
		for _, v := range rec {
			sb.WriteString("<" + cell + ">" + html.EscapeString(v) + "</" + cell + ">")
		}
		sb.WriteString("</tr>")
		if i == 0 {
			sb.WriteString("</thead>")
		}
	}
	if len(rows) > 1 {
		sb.WriteString("</tbody>")
	}
	sb.WriteString("</table>")
	return sb.String()
}
