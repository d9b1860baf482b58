package bizgen

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilesystemCache(t *testing.T) {
	c := NewFilesystemCache(t.TempDir())

	_, err := c.Get("missing")
	assert.True(t, IsNotFound(err))

	require.NoError(t, c.Put("presentation_xml:1", strings.NewReader("abc")))
	r, err := c.Get("presentation_xml:1")
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	r.Close()
	require.NoError(t, err)
	assert.Equal(t, "abc", string(data))

	require.NoError(t, c.Delete("presentation_xml:1"))
	require.NoError(t, c.Delete("presentation_xml:1"), "delete is idempotent")
	_, err = c.Get("presentation_xml:1")
	assert.True(t, IsNotFound(err))
}

func TestFilesystemCacheKeys(t *testing.T) {
	c := NewFilesystemCache(t.TempDir())

	require.NoError(t, c.Put("image:https://cdn.example/a_b.png", strings.NewReader("A")))
	require.NoError(t, c.Put("image:https://cdn.example/a/b.png", strings.NewReader("B")))

	read := func(key string) string {
		r, err := c.Get(key)
		require.NoError(t, err)
		defer r.Close()
		data, err := io.ReadAll(r)
		require.NoError(t, err)
		return string(data)
	}
	assert.Equal(t, "A", read("image:https://cdn.example/a_b.png"))
	assert.Equal(t, "B", read("image:https://cdn.example/a/b.png"))

	long := "image:https://cdn.example/img.png?sig=" + strings.Repeat("x", 400)
	require.NoError(t, c.Put(long, strings.NewReader("C")))
	assert.Equal(t, "C", read(long))
}

func TestDrafts(t *testing.T) {
	d := NewDrafts(NewFilesystemCache(t.TempDir()))

	_, ok, err := d.Load(7)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, d.Save(7, "<SECTION></SECTION>"))
	text, ok, err := d.Load(7)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "<SECTION></SECTION>", text)

	_, ok, err = d.Load(8)
	require.NoError(t, err)
	assert.False(t, ok, "drafts are per presentation")

	require.NoError(t, d.Discard(7))
	_, ok, err = d.Load(7)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTakeImageRequest(t *testing.T) {
	d := NewDrafts(NewFilesystemCache(t.TempDir()))

	ok, err := d.TakeImageRequest(3)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, d.RequestImages(3))
	ok, err = d.TakeImageRequest(3)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = d.TakeImageRequest(3)
	require.NoError(t, err)
	assert.False(t, ok, "request is consumed once")
}
