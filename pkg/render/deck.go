package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/akeil/bizgen/internal/imaging"
	"github.com/akeil/bizgen/internal/logging"
	"github.com/akeil/bizgen/pkg/deck"
)

const (
	slideMargin  = 40.0
	slideBar     = 8.0
	slideGap     = 24.0
	slideTextH   = 16.0
	slideItemPad = 6.0
)

var itemKinds = []deck.ItemKind{deck.Bullets, deck.Cycle, deck.Arrows, deck.Timeline}

// Deck renders slides to a landscape PDF, one page per slide.
//
// Slides are drawn with the given theme color. Images are loaded from the
// slide image URLs and fitted into the image area of the layout.
func (c *Context) Deck(title string, slides []deck.Slide, theme string, w io.Writer) error {
	logging.Debug("Render deck %q with %d slides", title, len(slides))

	th := deck.NewTheme(deck.ParseTheme(theme))

	pdf := setupPDF("L", nil)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(title, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	total := len(slides)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-slideMargin + 12)
		pdf.SetFont("helvetica", "", 9)
		pdf.SetTextColor(rgb(th.Subtext))
		pdf.CellFormat(0, 10, fmt.Sprintf("%d / %d", pdf.PageNo(), total), "", 0, "R", false, 0, "")
	})

	for _, s := range slides {
		pdf.AddPage()
		drawSlide(c, pdf, tr, th, s)
	}

	if pdf.Err() {
		return pdf.Error()
	}
	return pdf.Output(w)
}

func drawSlide(c *Context, pdf *gofpdf.Fpdf, tr func(string) string, th deck.Theme, s deck.Slide) {
	pageW, pageH := pdf.GetPageSize()

	pdf.SetFillColor(rgb(th.Main))
	pdf.Rect(0, 0, pageW, slideBar, "F")

	content := imaging.Box{
		X: slideMargin,
		Y: slideMargin,
		W: pageW - 2*slideMargin,
		H: pageH - 2*slideMargin - slideBar,
	}
	text, img := splitLayout(s.Layout, content, s.ImageURL != "")

	if s.ImageURL != "" {
		drawSlideImage(c, pdf, th, s.ImageURL, img)
	}

	pdf.SetLeftMargin(text.X)
	pdf.SetRightMargin(pageW - text.X - text.W)
	pdf.SetXY(text.X, text.Y)

	if s.Title != "" {
		pdf.SetFont("helvetica", "B", 26)
		pdf.SetTextColor(rgb(th.Main))
		pdf.MultiCell(text.W, 32, tr(s.Title), "", "L", false)
	}
	if s.Subtitle != "" {
		pdf.SetFont("helvetica", "", 15)
		pdf.SetTextColor(rgb(th.Subtext))
		pdf.MultiCell(text.W, 20, tr(s.Subtitle), "", "L", false)
	}
	pdf.Ln(slideTextH / 2)

	pdf.SetFont("helvetica", "", 12)
	pdf.SetTextColor(0x33, 0x33, 0x33)
	for _, p := range s.Paragraphs {
		pdf.MultiCell(text.W, slideTextH, tr(p), "", "L", false)
		pdf.Ln(slideTextH / 2)
	}

	for _, k := range itemKinds {
		items := s.Items(k)
		for i, item := range items {
			drawItem(pdf, tr, th, k, i, item, text.W)
		}
	}

	pdf.SetLeftMargin(slideMargin)
	pdf.SetRightMargin(slideMargin)
}

// splitLayout divides the content box into text and image areas.
//
// "left" and "right" put the image in a column on that side. Other layouts
// put the image below the text.
func splitLayout(layout string, b imaging.Box, hasImage bool) (text, img imaging.Box) {
	if !hasImage {
		return b, imaging.Box{}
	}

	col := (b.W - slideGap) / 2
	switch strings.ToLower(layout) {
	case "left":
		img = imaging.Box{X: b.X, Y: b.Y, W: col, H: b.H}
		text = imaging.Box{X: b.X + col + slideGap, Y: b.Y, W: col, H: b.H}
	case "right":
		text = imaging.Box{X: b.X, Y: b.Y, W: col, H: b.H}
		img = imaging.Box{X: b.X + col + slideGap, Y: b.Y, W: col, H: b.H}
	default:
		textH := b.H * 0.55
		text = imaging.Box{X: b.X, Y: b.Y, W: b.W, H: textH}
		img = imaging.Box{X: b.X, Y: b.Y + textH + slideGap/2, W: b.W, H: b.H - textH - slideGap/2}
	}
	return text, img
}

func drawSlideImage(c *Context, pdf *gofpdf.Fpdf, th deck.Theme, src string, box imaging.Box) {
	name, info, err := c.registerImage(pdf, src)
	if err != nil {
		logging.Warning("Skip slide image %q: %v", src, err)
		pdf.SetDrawColor(rgb(th.Border))
		pdf.SetFillColor(rgb(th.Soft))
		pdf.Rect(box.X, box.Y, box.W, box.H, "FD")
		return
	}

	fit := imaging.Fit(info.Width(), info.Height(), box)
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.ImageOptions(name, fit.X, fit.Y, fit.W, fit.H, false, opts, 0, "")
}

func drawItem(pdf *gofpdf.Fpdf, tr func(string) string, th deck.Theme, k deck.ItemKind, i int, item deck.Item, w float64) {
	var marker string
	switch k {
	case deck.Bullets:
		marker = "•"
	case deck.Arrows:
		marker = "»"
	default:
		marker = fmt.Sprintf("%d.", i+1)
	}

	pdf.SetFillColor(rgb(th.Soft))
	pdf.SetDrawColor(rgb(th.Border))

	head := marker
	if item.Title != "" {
		head += " " + item.Title
	}
	pdf.SetFont("helvetica", "B", 12)
	pdf.SetTextColor(rgb(th.Main))
	pdf.MultiCell(w, slideTextH, tr(head), "LTR", "L", true)

	pdf.SetFont("helvetica", "", 11)
	pdf.SetTextColor(0x33, 0x33, 0x33)
	pdf.MultiCell(w, slideTextH, tr(item.Text), "LBR", "L", true)
	pdf.Ln(slideItemPad)
}
