package deck

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// DefaultTheme is the theme color used when none is set.
const DefaultTheme = "#7C3AED"

var namedThemes = map[string]string{
	"purple": "#7C3AED",
	"blue":   "#3B82F6",
	"green":  "#10B981",
	"red":    "#EF4444",
	"orange": "#F97316",
	"indigo": "#6366F1",
	"pink":   "#EC4899",
	"teal":   "#14B8A6",
	"yellow": "#EAB308",
	"slate":  "#64748B",
}

// Palette holds the selectable theme colors.
var Palette = []string{
	"#FF5E3A",
	"#FF00FF",
	"#FFFF00",
	"#FF4500",
	"#1C274C",
	"#FF69B4",
	"#9E32DD",
	"#008080",
	"#E6E6FA",
	"#8B4513",
}

// ParseTheme maps a theme as stored by the backend to a hex color.
//
// Hex colors are returned as given, color names are looked up.
// Anything else yields the default theme.
func ParseTheme(name string) string {
	t := strings.ToLower(strings.TrimSpace(name))
	if t == "" {
		return DefaultTheme
	}
	if strings.HasPrefix(t, "#") && (len(t) == 7 || len(t) == 4) {
		return name
	}
	c, ok := namedThemes[t]
	if !ok {
		return DefaultTheme
	}
	return c
}

// SameTheme compares two theme values ignoring case.
func SameTheme(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// Theme holds the color variants used to draw slides.
type Theme struct {
	Main    color.NRGBA
	Soft    color.NRGBA
	Border  color.NRGBA
	Subtext color.NRGBA
}

// NewTheme builds the theme variants for a hex color.
// Invalid colors are treated as black.
func NewTheme(hex string) Theme {
	c, err := ParseHex(hex)
	if err != nil {
		c = color.NRGBA{A: 0xff}
	}
	return Theme{
		Main:    c,
		Soft:    withOpacity(c, 0.08),
		Border:  withOpacity(c, 0.25),
		Subtext: withOpacity(c, 0.7),
	}
}

func withOpacity(c color.NRGBA, o float64) color.NRGBA {
	c.A = uint8(o*255 + 0.5)
	return c
}

// ParseHex parses "#rrggbb" or "#rgb".
func ParseHex(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	return color.NRGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 0xff,
	}, nil
}

// CSS formats a color as a CSS rgba() value.
func CSS(c color.NRGBA) string {
	a := strconv.FormatFloat(float64(c.A)/255, 'f', 2, 64)
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, a)
}
