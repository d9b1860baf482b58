package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/akeil/bizgen"
	"github.com/akeil/bizgen/internal/imaging"
	"github.com/akeil/bizgen/internal/logging"
)

// MaxImageSize is the longest side, in pixels, for images embedded in
// exports. Larger images are scaled down.
const MaxImageSize = 1600

// Context holds parameters and cached data for rendering operations.
//
// If multiple exports are rendered, they should use the same Context.
type Context struct {
	client *http.Client
	cache  bizgen.Cache
	// Resolve turns relative image URLs into absolute ones.
	Resolve func(string) string

	imgMx  sync.Mutex
	images map[string]image.Image
}

// NewContext sets up a new rendering context.
//
// Remote images are fetched with the given client. If cache is not nil,
// downloaded image data is kept there.
func NewContext(client *http.Client, cache bizgen.Cache) *Context {
	if client == nil {
		client = http.DefaultClient
	}
	return &Context{
		client: client,
		cache:  cache,
		images: make(map[string]image.Image),
	}
}

// DefaultContext renders without image cache.
func DefaultContext() *Context {
	return NewContext(nil, nil)
}

// PDF renders a generated document to PDF.
func (c *Context) PDF(d *bizgen.Document, w io.Writer) error {
	return renderDocumentPDF(c, d, w)
}

// DOCX renders a generated document to a Word file.
func (c *Context) DOCX(d *bizgen.Document, w io.Writer) error {
	return renderDOCX(d, w)
}

// loadImage fetches, decodes and prepares an image for embedding.
//
// The result is opaque, on a white background, and no larger than
// MaxImageSize.
func (c *Context) loadImage(src string) (image.Image, error) {
	if c.Resolve != nil {
		src = c.Resolve(src)
	}

	c.imgMx.Lock()
	defer c.imgMx.Unlock()

	img, ok := c.images[src]
	if ok {
		return img, nil
	}

	data, err := c.readImage(src)
	if err != nil {
		return nil, err
	}

	img, format, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, bizgen.Wrap(err, "decode image %q", src)
	}
	logging.Debug("Loaded %v image %q, size %v", format, src, img.Bounds().Size())

	img = imaging.Downscale(img, MaxImageSize)
	img = imaging.Flatten(img, color.White)

	c.images[src] = img
	return img, nil
}

func (c *Context) readImage(src string) ([]byte, error) {
	if !strings.HasPrefix(src, "http://") && !strings.HasPrefix(src, "https://") {
		return os.ReadFile(src)
	}

	key := "image:" + src
	if c.cache != nil {
		r, err := c.cache.Get(key)
		if err == nil {
			defer r.Close()
			return io.ReadAll(r)
		} else if !bizgen.IsNotFound(err) {
			logging.Warning("Image cache read failed: %v", err)
		}
	}

	res, err := c.client.Get(src)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	err = bizgen.ExpectOK(res, fmt.Sprintf("fetch image %q", src))
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		err = c.cache.Put(key, bytes.NewReader(data))
		if err != nil {
			logging.Warning("Image cache write failed: %v", err)
		}
	}

	return data, nil
}
