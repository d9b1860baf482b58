package imaging

import (
	"bytes"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Box is a placement rectangle in page units.
type Box struct {
	X, Y, W, H float64
}

// Fit scales an image of size w x h to fit into the box, keeping the aspect
// ratio, and centers it.
//
// Returns the zero Box for images or boxes without area.
func Fit(w, h float64, box Box) Box {
	if w <= 0 || h <= 0 || box.W <= 0 || box.H <= 0 {
		return Box{}
	}

	scale := math.Min(box.W/w, box.H/h)
	fw := w * scale
	fh := h * scale

	return Box{
		X: box.X + (box.W-fw)/2,
		Y: box.Y + (box.H-fh)/2,
		W: fw,
		H: fh,
	}
}

// Decode reads a PNG, JPEG, GIF or WebP image.
func Decode(r io.Reader) (image.Image, string, error) {
	return image.Decode(r)
}

// Downscale creates a copy of the given image whose longer side is at most
// max pixels. Smaller images are returned as they are.
func Downscale(i image.Image, max int) image.Image {
	b := i.Bounds()
	w, h := b.Dx(), b.Dy()
	if max <= 0 || (w <= max && h <= max) {
		return i
	}

	scale := float64(max) / float64(w)
	if h > w {
		scale = float64(max) / float64(h)
	}
	sw := int(math.Max(1, math.Round(float64(w)*scale)))
	sh := int(math.Max(1, math.Round(float64(h)*scale)))

	dst := image.NewRGBA(image.Rect(0, 0, sw, sh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), i, b, draw.Over, nil)
	return dst
}

// Flatten paints the image onto a uniform background.
// The result is fully opaque.
func Flatten(i image.Image, bg color.Color) image.Image {
	b := i.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), i, b.Min, draw.Over)
	return dst
}

// EncodePNG encodes an image to PNG.
func EncodePNG(i image.Image) (*bytes.Buffer, error) {
	var buf bytes.Buffer
	err := png.Encode(&buf, i)
	if err != nil {
		return nil, err
	}
	return &buf, nil
}

// Blend mixes a translucent color over an opaque background and returns the
// resulting opaque color.
func Blend(c color.NRGBA, bg color.NRGBA) color.NRGBA {
	a := float64(c.A) / 255
	mix := func(fg, bg uint8) uint8 {
		return uint8(math.Round(float64(fg)*a + float64(bg)*(1-a)))
	}
	return color.NRGBA{
		R: mix(c.R, bg.R),
		G: mix(c.G, bg.G),
		B: mix(c.B, bg.B),
		A: 0xff,
	}
}
