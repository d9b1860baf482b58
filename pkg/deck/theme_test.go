package deck

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTheme(t *testing.T) {
	cases := map[string]string{
		"":        DefaultTheme,
		"#123abc": "#123abc",
		"#FFF":    "#FFF",
		"Blue":    "#3B82F6",
		" teal ":  "#14B8A6",
		"#12345":  DefaultTheme,
		"magenta": DefaultTheme,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseTheme(in), "theme %q", in)
	}
}

func TestNewTheme(t *testing.T) {
	th := NewTheme("#FF5E3A")
	assert.Equal(t, color.NRGBA{R: 0xff, G: 0x5e, B: 0x3a, A: 0xff}, th.Main)
	assert.Equal(t, uint8(20), th.Soft.A)
	assert.Equal(t, uint8(64), th.Border.A)
	assert.Equal(t, uint8(179), th.Subtext.A)
	assert.Equal(t, "rgba(255, 94, 58, 0.08)", CSS(th.Soft))

	short := NewTheme("#fff")
	assert.Equal(t, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, short.Main)

	bad := NewTheme("nope")
	assert.Equal(t, color.NRGBA{A: 0xff}, bad.Main)
}

func TestSameTheme(t *testing.T) {
	assert.True(t, SameTheme("#ff5e3a", "#FF5E3A"))
	assert.False(t, SameTheme("#ff5e3a", "#ff5e3b"))
}

func TestPalette(t *testing.T) {
	assert.Len(t, Palette, 10)
	for _, c := range Palette {
		_, err := ParseHex(c)
		assert.NoError(t, err)
	}
}
