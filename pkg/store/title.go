package store

import (
	"regexp"
	"strings"
)

const (
	DefaultChatTitle = "New Chat"
	maxTitleLength   = 50
	// cut at a word boundary only past this share of the max length
	wordBoundaryThreshold = 0.7
)

var (
	reLineBreak       = regexp.MustCompile(`\r?\n`)
	reMarkdownMarkers = regexp.MustCompile("[*_`#]+")
	reMarkdownImage   = regexp.MustCompile(`!\[([^\]]*)\]\([^)]+\)`)
	reMarkdownLink    = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	reWhitespace      = regexp.MustCompile(`\s+`)
)

// ChatTitle derives a session title from the first message.
//
// The first line is used with markdown removed. Images are dropped, links
// are reduced to their text. Long titles are cut, at a word boundary where
// possible, and end with "...".
func ChatTitle(message string) string {
	cleaned := strings.TrimSpace(message)
	if cleaned == "" {
		return DefaultChatTitle
	}

	first := strings.TrimSpace(reLineBreak.Split(cleaned, 2)[0])
	if first == "" {
		return DefaultChatTitle
	}

	title := reMarkdownMarkers.ReplaceAllString(first, "")
	title = reMarkdownImage.ReplaceAllString(title, "")
	title = reMarkdownLink.ReplaceAllString(title, "$1")
	title = reWhitespace.ReplaceAllString(title, " ")
	title = strings.TrimSpace(title)

	runes := []rune(title)
	if len(runes) > maxTitleLength {
		cut := strings.TrimSpace(string(runes[:maxTitleLength]))
		last := strings.LastIndex(cut, " ")
		if last >= 0 && float64(len([]rune(cut[:last]))) > maxTitleLength*wordBoundaryThreshold {
			cut = cut[:last]
		}
		title = cut + "..."
	}

	if title == "" {
		return DefaultChatTitle
	}
	return title
}
