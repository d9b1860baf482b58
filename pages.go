package bizgen

import (
	"strings"
)

// WordsPerPage is the fixed page size for document previews and exports.
const WordsPerPage = 500

// Page is one chunk of a paginated document.
type Page struct {
	index int
	total int
	Words []string
}

// Number is the 1-based page number.
func (p Page) Number() int {
	return p.index + 1
}

// Total is the number of pages in the document this page belongs to.
func (p Page) Total() int {
	return p.total
}

// Text joins the words of this page.
func (p Page) Text() string {
	return strings.Join(p.Words, " ")
}

// HTML returns the page text formatted for preview.
func (p Page) HTML() string {
	return FormatHTML(p.Text())
}

// Plain returns the page text with markdown markers removed.
func (p Page) Plain() string {
	return FormatPlain(p.Text())
}

// Paginate splits content into pages of at most size words.
//
// Words are separated by single spaces and NOT by other whitespace,
// so line breaks stay inside the words and the markdown structure of a
// page survives the split. Joining all words with " " yields content.
//
// Empty content has no pages.
func Paginate(content string, size int) []Page {
	if content == "" {
		return nil
	}
	if size <= 0 {
		size = WordsPerPage
	}

	words := strings.Split(content, " ")
	total := (len(words) + size - 1) / size

	pages := make([]Page, 0, total)
	for i := 0; i < total; i++ {
		start := i * size
		end := start + size
		if end > len(words) {
			end = len(words)
		}
		pages = append(pages, Page{
			index: i,
			total: total,
			Words: words[start:end:end],
		})
	}

	return pages
}

// Join reverses Paginate.
func Join(pages []Page) string {
	words := make([]string, 0)
	for _, p := range pages {
		words = append(words, p.Words...)
	}
	return strings.Join(words, " ")
}
