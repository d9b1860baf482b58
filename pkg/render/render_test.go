package render

import (
	"archive/zip"
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akeil/bizgen"
	"github.com/akeil/bizgen/internal/imaging"
	"github.com/akeil/bizgen/pkg/deck"
)

func imageServer(t *testing.T) (*httptest.Server, *int32) {
	var hits int32
	img := image.NewRGBA(image.Rect(0, 0, 64, 32))
	for x := 0; x < 64; x++ {
		for y := 0; y < 32; y++ {
			img.Set(x, y, color.RGBA{0x7c, 0x3a, 0xed, 0xff})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		if r.URL.Path != "/logo.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(buf.Bytes())
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func words(n int) string {
	w := make([]string, n)
	for i := range w {
		w[i] = "lorem"
	}
	return strings.Join(w, " ")
}

func testDocument() *bizgen.Document {
	return &bizgen.Document{
		ID:   3,
		Kind: bizgen.NDA,
		Header: []bizgen.Field{
			{Label: "Disclosing Party", Value: "Acme & Sons"},
			{Label: "Receiving Party", Value: "Globex"},
		},
		Content: "# Agreement\n\n**Parties** agree.\n\n- first point\n- second point\n\n" + words(1195),
	}
}

func TestDocumentPDF(t *testing.T) {
	srv, hits := imageServer(t)
	d := testDocument()
	d.LogoURL = srv.URL + "/logo.png"

	var buf bytes.Buffer
	err := DefaultContext().PDF(d, &buf)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))

	n, err := PageCount(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, len(d.Pages()), n)
	assert.Equal(t, 3, n)
}

func TestDocumentPDFBrokenLogo(t *testing.T) {
	srv, _ := imageServer(t)
	d := testDocument()
	d.LogoURL = srv.URL + "/missing.png"

	var buf bytes.Buffer
	err := DefaultContext().PDF(d, &buf)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestDocumentPDFInvalid(t *testing.T) {
	var buf bytes.Buffer
	err := DefaultContext().PDF(&bizgen.Document{Kind: bizgen.Kind(99)}, &buf)
	assert.True(t, bizgen.IsValidationError(err))
	assert.Zero(t, buf.Len())
}

func TestDeckPDF(t *testing.T) {
	srv, _ := imageServer(t)
	raw := `<SECTION layout="left"><H1>Acme</H1><H2>Rockets for all</H2><IMG src="` + srv.URL + `/logo.png"/></SECTION>
<SECTION><H1>Problem</H1><P>Launches cost too much</P><BULLETS><DIV><H3>Cost</H3><P>High</P></DIV><DIV><P>No title</P></DIV></BULLETS></SECTION>
<SECTION layout="right"><H1>Timeline</H1><TIMELINE><DIV><H3>2025</H3><P>First launch</P></DIV></TIMELINE><IMG src="` + srv.URL + `/missing.png"/></SECTION>`
	slides := deck.Parse(raw)
	require.Len(t, slides, 3)

	var buf bytes.Buffer
	err := DefaultContext().Deck("Acme", slides, "blue", &buf)
	require.NoError(t, err)

	n, err := PageCount(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestSplitLayout(t *testing.T) {
	b := imaging.Box{X: 0, Y: 0, W: 224, H: 100}

	text, img := splitLayout("left", b, true)
	assert.Equal(t, imaging.Box{X: 0, Y: 0, W: 100, H: 100}, img)
	assert.Equal(t, imaging.Box{X: 124, Y: 0, W: 100, H: 100}, text)

	text, img = splitLayout("Right", b, true)
	assert.Equal(t, imaging.Box{X: 0, Y: 0, W: 100, H: 100}, text)
	assert.Equal(t, imaging.Box{X: 124, Y: 0, W: 100, H: 100}, img)

	text, img = splitLayout("vertical", b, true)
	assert.Equal(t, b.W, text.W)
	assert.Equal(t, b.W, img.W)
	assert.Greater(t, img.Y, text.Y+text.H)

	text, img = splitLayout("left", b, false)
	assert.Equal(t, b, text)
	assert.Equal(t, imaging.Box{}, img)
}

func TestImageCache(t *testing.T) {
	srv, hits := imageServer(t)
	cache := bizgen.NewFilesystemCache(t.TempDir())
	src := srv.URL + "/logo.png"

	img, err := NewContext(nil, cache).loadImage(src)
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())

	// a new context reads from the cache
	img, err = NewContext(nil, cache).loadImage(src)
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dy())
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))

	_, err = NewContext(nil, cache).loadImage(srv.URL + "/missing.png")
	assert.True(t, bizgen.IsNotFound(err))
}

func TestResolveImage(t *testing.T) {
	srv, _ := imageServer(t)
	c := DefaultContext()
	c.Resolve = func(s string) string { return srv.URL + s }

	_, err := c.loadImage("/logo.png")
	assert.NoError(t, err)
}

func readDocumentXML(t *testing.T, data []byte) string {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	names := make([]string, 0)
	var doc string
	for _, f := range zr.File {
		names = append(names, f.Name)
		if f.Name == "word/document.xml" {
			r, err := f.Open()
			require.NoError(t, err)
			b, err := io.ReadAll(r)
			require.NoError(t, err)
			r.Close()
			doc = string(b)
		}
	}
	assert.ElementsMatch(t, []string{"[Content_Types].xml", "_rels/.rels", "word/document.xml"}, names)
	return doc
}

func TestDOCX(t *testing.T) {
	d := &bizgen.Document{
		ID:   1,
		Kind: bizgen.NDA,
		Header: []bizgen.Field{
			{Label: "Disclosing Party", Value: "Acme & Sons"},
			{Label: "Receiving Party", Value: "Globex"},
		},
		Content: "## Purpose\n\n**Both** parties agree.\nSecond line.\n\n- one\n- two",
	}

	var buf bytes.Buffer
	require.NoError(t, DefaultContext().DOCX(d, &buf))
	doc := readDocumentXML(t, buf.Bytes())

	assert.Contains(t, doc, `<w:jc w:val="center"`)
	assert.Contains(t, doc, `<w:sz w:val="32"`)
	assert.Contains(t, doc, "<w:b")
	assert.Contains(t, doc, ">Non-Disclosure Agreement</w:t>")
	assert.Contains(t, doc, ">Disclosing Party: Acme &amp; Sons</w:t>")
	assert.Contains(t, doc, ">Purpose</w:t>")
	assert.Contains(t, doc, ">Both parties agree.</w:t>")
	assert.Contains(t, doc, ">Second line.</w:t>")
	assert.Contains(t, doc, ">• one</w:t>")
	assert.NotContains(t, doc, "**")

	// heading, two header fields, five content lines
	assert.Len(t, regexp.MustCompile(`<w:p[ >]`).FindAllString(doc, -1), 8)
}

func TestDOCXParagraphs(t *testing.T) {
	d := &bizgen.Document{
		Kind:    bizgen.Contract,
		Header:  []bizgen.Field{{Label: "Client", Value: "Globex"}},
		Content: "First block.\n\n**Second** block\nwith two lines.",
	}

	paras := docxParagraphs(d)
	require.Len(t, paras, 5)

	assert.True(t, paras[0].center)
	assert.Equal(t, docxRun{text: "Contract", bold: true, size: docxTitleSize}, paras[0].runs[0])
	assert.Equal(t, docxRun{text: "Client: Globex", bold: true}, paras[1].runs[0])
	assert.Equal(t, "First block.", paras[2].runs[0].text)
	assert.Equal(t, "Second block", paras[3].runs[0].text)
	assert.Equal(t, "with two lines.", paras[4].runs[0].text)
	assert.False(t, paras[4].center)
}
