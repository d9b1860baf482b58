package render

import (
	"image/color"
	"io"

	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"

	"github.com/akeil/bizgen/internal/imaging"
)

// PageCount reads the number of pages from PDF data.
func PageCount(rs io.ReadSeeker) (int, error) {
	return pdfapi.PageCount(rs, pdfcpu.NewDefaultConfiguration())
}

var white = color.NRGBA{0xff, 0xff, 0xff, 0xff}

// rgb returns the components of a color mixed over white,
// as gofpdf expects them.
func rgb(c color.NRGBA) (int, int, int) {
	o := imaging.Blend(c, white)
	return int(o.R), int(o.G), int(o.B)
}
