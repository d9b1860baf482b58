package render

import (
	"io"
	"strconv"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/akeil/bizgen"
	"github.com/akeil/bizgen/internal/logging"
)

// title size in half-points
const docxTitleSize = 32

type docxRun struct {
	text string
	bold bool
	size int // half-points, 0 for the default
}

type docxParagraph struct {
	runs   []docxRun
	center bool
}

func renderDOCX(d *bizgen.Document, w io.Writer) error {
	err := d.Validate()
	if err != nil {
		return err
	}
	logging.Debug("Render DOCX for %v %d", d.Kind, d.ID)

	doc := docx.New().WithDefaultTheme()
	for _, p := range docxParagraphs(d) {
		para := doc.AddParagraph()
		if p.center {
			para.Justification("center")
		}
		for _, r := range p.runs {
			run := para.AddText(r.text)
			if r.bold {
				run.Bold()
			}
			if r.size > 0 {
				run.Size(strconv.Itoa(r.size))
			}
		}
	}

	_, err = doc.WriteTo(w)
	return err
}

// docxParagraphs lays out a document: the kind title as heading, the
// header fields in bold and the plain content split into paragraphs.
// Each line of a content block is a paragraph of its own.
func docxParagraphs(d *bizgen.Document) []docxParagraph {
	out := []docxParagraph{{
		runs:   []docxRun{{text: d.Title(), bold: true, size: docxTitleSize}},
		center: true,
	}}

	for _, f := range d.Header {
		out = append(out, docxParagraph{
			runs: []docxRun{{text: f.String(), bold: true}},
		})
	}

	for _, block := range bizgen.Paragraphs(bizgen.FormatPlain(d.Content)) {
		for _, line := range strings.Split(block, "\n") {
			out = append(out, docxParagraph{
				runs: []docxRun{{text: line}},
			})
		}
	}

	return out
}
