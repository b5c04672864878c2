package export

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/KaramelBytes/vibewriter/internal/workspace"
)

const docxContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>
</Types>`

const docxRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

const docxDocumentRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>
</Relationships>`

const docxStyles = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/><w:pPr><w:spacing w:after="200"/></w:pPr></w:style>
<w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/><w:basedOn w:val="Normal"/><w:pPr><w:spacing w:before="200" w:after="300"/><w:outlineLvl w:val="0"/></w:pPr><w:rPr><w:b/><w:sz w:val="32"/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="Heading2"><w:name w:val="heading 2"/><w:basedOn w:val="Normal"/><w:pPr><w:spacing w:before="200" w:after="200"/><w:outlineLvl w:val="1"/></w:pPr><w:rPr><w:b/><w:sz w:val="28"/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="Heading3"><w:name w:val="heading 3"/><w:basedOn w:val="Normal"/><w:pPr><w:spacing w:before="200" w:after="200"/><w:outlineLvl w:val="2"/></w:pPr><w:rPr><w:b/><w:sz w:val="24"/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="Quote"><w:name w:val="Quote"/><w:basedOn w:val="Normal"/><w:pPr><w:ind w:left="720"/></w:pPr><w:rPr><w:i/></w:rPr></w:style>
</w:styles>`

// ToDocx renders docs as a single Word document. With more than one document
// each starts with a Heading 1 of its name and later ones begin on a new page.
func ToDocx(docs []workspace.Document) ([]byte, error) {
	master := IsMaster(docs)
	var body strings.Builder
	for i, d := range docs {
		if master {
			writeParagraph(&body, "Heading1", i > 0, []run{{text: DisplayName(d.Name)}})
		}
		for _, b := range blocksOf(d.Content) {
			style := ""
			runs := b.runs
			switch b.kind {
			case blockHeading1:
				style = "Heading1"
			case blockHeading2:
				style = "Heading2"
			case blockHeading3:
				style = "Heading3"
			case blockQuote:
				style = "Quote"
			case blockListItem:
				runs = append([]run{{text: "• "}}, runs...)
			}
			writeParagraph(&body, style, false, runs)
		}
	}

	var document bytes.Buffer
	document.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	document.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	document.WriteString(body.String())
	document.WriteString(`<w:sectPr/></w:body></w:document>`)

	return ToZip([]File{
		{Name: "[Content_Types].xml", Data: []byte(docxContentTypes)},
		{Name: "_rels/.rels", Data: []byte(docxRels)},
		{Name: "word/_rels/document.xml.rels", Data: []byte(docxDocumentRels)},
		{Name: "word/styles.xml", Data: []byte(docxStyles)},
		{Name: "word/document.xml", Data: document.Bytes()},
	})
}

func writeParagraph(w *strings.Builder, style string, pageBreak bool, runs []run) {
	w.WriteString("<w:p>")
	if style != "" || pageBreak {
		w.WriteString("<w:pPr>")
		if style != "" {
			fmt.Fprintf(w, `<w:pStyle w:val="%s"/>`, style)
		}
		if pageBreak {
			w.WriteString("<w:pageBreakBefore/>")
		}
		w.WriteString("</w:pPr>")
	}
	for _, r := range runs {
		w.WriteString("<w:r>")
		if r.bold || r.italic {
			w.WriteString("<w:rPr>")
			if r.bold {
				w.WriteString("<w:b/>")
			}
			if r.italic {
				w.WriteString("<w:i/>")
			}
			w.WriteString("</w:rPr>")
		}
		for i, line := range strings.Split(r.text, "\n") {
			if i > 0 {
				w.WriteString("<w:br/>")
			}
			if line == "" {
				continue
			}
			w.WriteString(`<w:t xml:space="preserve">`)
			_ = xml.EscapeText(w, []byte(line))
			w.WriteString("</w:t>")
		}
		w.WriteString("</w:r>")
	}
	w.WriteString("</w:p>")
}
