package render

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"

	"github.com/akeil/bizgen"
	"github.com/akeil/bizgen/internal/imaging"
	"github.com/akeil/bizgen/internal/logging"
)

const (
	docMargin      = 56.0
	docFontSize    = 11.0
	docLineHeight  = 15.0
	docLogoHeight  = 40.0
	docBulletShift = 14.0
)

var (
	reHeading     = regexp.MustCompile(`^(#{1,3})\s+(.*)$`)
	reBareHeading = regexp.MustCompile(`^#{1,6}\s*$`)
)

func renderDocumentPDF(c *Context, d *bizgen.Document, w io.Writer) error {
	err := d.Validate()
	if err != nil {
		return err
	}
	logging.Debug("Render PDF for %v %d", d.Kind, d.ID)

	pdf := setupPDF("P", d)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	logo := ""
	if d.LogoURL != "" {
		logo, _, err = c.registerImage(pdf, d.LogoURL)
		if err != nil {
			// a broken logo is not worth failing the export
			logging.Warning("Skip logo for %v %d: %v", d.Kind, d.ID, err)
			logo = ""
		}
	}

	pages := d.Pages()
	if len(pages) == 0 {
		pages = []bizgen.Page{{}}
	}

	for i, page := range pages {
		pdf.AddPage()

		if logo != "" {
			y := pdf.GetY()
			opts := gofpdf.ImageOptions{ImageType: "PNG"}
			pdf.ImageOptions(logo, docMargin, y, 0, docLogoHeight, false, opts, 0, "")
			pdf.SetY(y + docLogoHeight + docLineHeight)
		}

		if i == 0 {
			writeDocumentHeader(pdf, tr, d)
		}

		writeMarkdown(pdf, tr, page.Text())
	}

	if pdf.Err() {
		return pdf.Error()
	}
	return pdf.Output(w)
}

func setupPDF(orientation string, d *bizgen.Document) *gofpdf.Fpdf {
	sizeUnit := "pt"
	fontDir := ""
	pdf := gofpdf.New(orientation, sizeUnit, "A4", fontDir)

	pdf.SetMargins(docMargin, docMargin, docMargin) // left, top, right
	pdf.SetAutoPageBreak(true, docMargin)
	pdf.AliasNbPages("{nb}")
	pdf.SetProducer("bizgen", true)

	if d != nil {
		pdf.SetTitle(d.Title(), true)
		pdf.SetSubject(d.Name(), true)
		if !d.Created.IsZero() {
			pdf.SetCreationDate(d.Created.UTC())
		}
		if !d.Updated.IsZero() {
			pdf.SetModificationDate(d.Updated.UTC())
		}

		pdf.SetFooterFunc(func() {
			pdf.SetY(-docMargin + 16)
			pdf.SetFont("times", "", 8)
			pdf.SetTextColor(127, 127, 127)
			pdf.CellFormat(0, 10, pdfPageLabel(pdf.PageNo()), "", 0, "R", false, 0, "")
		})
	}

	return pdf
}

func pdfPageLabel(n int) string {
	return fmt.Sprintf("Page %d of {nb}", n)
}

func writeDocumentHeader(pdf *gofpdf.Fpdf, tr func(string) string, d *bizgen.Document) {
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("times", "B", 18)
	pdf.MultiCell(0, 24, tr(d.Title()), "", "C", false)
	pdf.Ln(docLineHeight)

	pdf.SetFont("times", "B", docFontSize)
	for _, f := range d.Header {
		pdf.MultiCell(0, docLineHeight, tr(f.String()), "", "L", false)
	}
	pdf.Ln(docLineHeight)
}

// writeMarkdown writes the markdown-like text of a document page.
//
// Headings up to level 3, "- " bullets and inline bold are supported.
func writeMarkdown(pdf *gofpdf.Fpdf, tr func(string) string, text string) {
	pdf.SetTextColor(0, 0, 0)
	blank := false

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			if !blank {
				pdf.Ln(docLineHeight / 2)
			}
			blank = true
			continue
		}
		blank = false

		if reBareHeading.MatchString(trimmed) {
			continue
		}

		if m := reHeading.FindStringSubmatch(trimmed); m != nil {
			size := map[int]float64{1: 16, 2: 14, 3: 12}[len(m[1])]
			pdf.Ln(docLineHeight / 2)
			pdf.SetFont("times", "B", size)
			pdf.MultiCell(0, size+4, tr(strings.ReplaceAll(m[2], "**", "")), "", "L", false)
			continue
		}

		if strings.HasPrefix(trimmed, "- ") {
			left, _, _, _ := pdf.GetMargins()
			pdf.SetFont("times", "", docFontSize)
			pdf.Write(docLineHeight, tr("•"))
			pdf.SetLeftMargin(left + docBulletShift)
			pdf.SetX(left + docBulletShift)
			writeInline(pdf, tr, strings.TrimPrefix(trimmed, "- "))
			pdf.SetLeftMargin(left)
			pdf.Ln(docLineHeight)
			continue
		}

		writeInline(pdf, tr, trimmed)
		pdf.Ln(docLineHeight)
	}
}

// writeInline writes flowing text, switching to bold inside "**" pairs.
func writeInline(pdf *gofpdf.Fpdf, tr func(string) string, text string) {
	for i, part := range strings.Split(text, "**") {
		style := ""
		if i%2 == 1 {
			style = "B"
		}
		pdf.SetFont("times", style, docFontSize)
		if part != "" {
			pdf.Write(docLineHeight, tr(part))
		}
	}
}

// registerImage loads an image and registers it with the PDF under a random
// name. Returns the name and the image info.
func (c *Context) registerImage(pdf *gofpdf.Fpdf, src string) (string, *gofpdf.ImageInfoType, error) {
	img, err := c.loadImage(src)
	if err != nil {
		return "", nil, err
	}

	buf, err := imaging.EncodePNG(img)
	if err != nil {
		return "", nil, err
	}

	name := uuid.New().String()
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	info := pdf.RegisterImageOptionsReader(name, opts, buf)
	if pdf.Err() {
		return "", nil, pdf.Error()
	}

	return name, info, nil
}
