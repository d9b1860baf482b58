package bizgen

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/akeil/bizgen/internal/logging"
)

var (
	markdown = goldmark.New(
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)
	policy = bluemonday.UGCPolicy()
)

var (
	reBold           = regexp.MustCompile(`\*\*(.*?)\*\*`)
	reH3             = regexp.MustCompile(`(?m)### (.*)$`)
	reH2             = regexp.MustCompile(`(?m)## (.*)$`)
	reH1             = regexp.MustCompile(`(?m)# (.*)$`)
	reBareHeading    = regexp.MustCompile(`(?m)^#{1,6}[ \t]*$`)
	reBulletItem     = regexp.MustCompile(`(?m)^- (.*)$`)
	reNumberedItem   = regexp.MustCompile(`(?m)^\d+\. (.*)$`)
	reBlankParagraph = regexp.MustCompile(`\n\s*\n`)
)

// FormatHTML converts the markdown-like text of a generated document into
// sanitized HTML for previews.
//
// Single line breaks are kept as <br>.
// Heading markers without text are dropped.
func FormatHTML(text string) string {
	text = reBareHeading.ReplaceAllString(text, "")

	var buf bytes.Buffer
	err := markdown.Convert([]byte(text), &buf)
	if err != nil {
		logging.Warning("Failed to convert markdown: %v", err)
		return policy.Sanitize("<p>" + text + "</p>")
	}

	return string(policy.SanitizeBytes(buf.Bytes()))
}

// FormatPlain removes markdown markers from text.
//
// Bold and heading markers are dropped, "- " list markers become bullet
// glyphs and numbered list markers are removed.
func FormatPlain(text string) string {
	text = reBold.ReplaceAllString(text, "$1")
	text = reH3.ReplaceAllString(text, "$1")
	text = reH2.ReplaceAllString(text, "$1")
	text = reH1.ReplaceAllString(text, "$1")
	text = reBareHeading.ReplaceAllString(text, "")
	text = reBulletItem.ReplaceAllString(text, "• $1")
	text = reNumberedItem.ReplaceAllString(text, "$1")
	return strings.TrimSpace(text)
}

// Paragraphs splits plain text into blocks separated by blank lines.
// Empty blocks are dropped.
func Paragraphs(text string) []string {
	parts := reBlankParagraph.Split(text, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
