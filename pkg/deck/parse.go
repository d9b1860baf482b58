package deck

import (
	"regexp"
	"strings"
)

// DefaultLayout is used for slides without a layout attribute.
const DefaultLayout = "vertical"

var (
	reFenceOpen  = regexp.MustCompile("(?i)^```[a-zA-Z]*\\n?")
	reFenceClose = regexp.MustCompile("```\\s*$")
	reSection    = regexp.MustCompile(`(?i)<SECTION\b[^>]*>[\s\S]*?</SECTION>`)
	reLayout     = regexp.MustCompile(`(?i)<SECTION\b[^>]*layout="([^"]+)"`)
)

// ItemKind names one of the item containers of a slide.
type ItemKind int

const (
	Bullets ItemKind = iota
	Cycle
	Arrows
	Timeline
)

var itemTags = map[ItemKind]string{
	Bullets:  "BULLETS",
	Cycle:    "CYCLE",
	Arrows:   "ARROWS",
	Timeline: "TIMELINE",
}

// Tag is the element name of the container.
func (k ItemKind) Tag() string {
	return itemTags[k]
}

func (k ItemKind) String() string {
	return strings.ToLower(k.Tag())
}

// ParseItemKind resolves a container name like "bullets".
func ParseItemKind(s string) (ItemKind, bool) {
	for k, tag := range itemTags {
		if strings.EqualFold(tag, strings.TrimSpace(s)) {
			return k, true
		}
	}
	return Bullets, false
}

// Item is an entry in one of the item containers.
// Empty strings mean the field is absent.
type Item struct {
	Title string
	Text  string
}

// Slide is the projection of a single SECTION.
type Slide struct {
	Index      int
	Layout     string
	Title      string
	Subtitle   string
	Paragraphs []string
	ImageURL   string
	ImageQuery string
	Bullets    []Item
	Cycle      []Item
	Arrows     []Item
	Timeline   []Item
}

// Items returns the item list for the given container.
func (s *Slide) Items(k ItemKind) []Item {
	switch k {
	case Bullets:
		return s.Bullets
	case Cycle:
		return s.Cycle
	case Arrows:
		return s.Arrows
	case Timeline:
		return s.Timeline
	}
	return nil
}

func (s Slide) clone() Slide {
	s.Paragraphs = cloneStrings(s.Paragraphs)
	s.Bullets = cloneItems(s.Bullets)
	s.Cycle = cloneItems(s.Cycle)
	s.Arrows = cloneItems(s.Arrows)
	s.Timeline = cloneItems(s.Timeline)
	return s
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

func cloneItems(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	copy(out, items)
	return out
}

// Clean removes a surrounding markdown code fence from generated text.
func Clean(raw string) string {
	raw = reFenceOpen.ReplaceAllString(raw, "")
	return reFenceClose.ReplaceAllString(raw, "")
}

// sections returns the byte ranges of all SECTION spans in clean text.
func sections(text string) [][]int {
	return reSection.FindAllStringIndex(text, -1)
}

// Parse projects the raw deck text to its slides.
//
// Sections that are not well-formed yield a slide with only a layout.
// Text without any SECTION yields a single slide holding the whole text
// as its paragraph.
func Parse(raw string) []Slide {
	text := Clean(raw)
	spans := sections(text)

	slides := make([]Slide, 0, len(spans))
	for i, span := range spans {
		slides = append(slides, parseSlide(i, text[span[0]:span[1]]))
	}

	if len(slides) == 0 && strings.TrimSpace(text) != "" {
		slides = append(slides, Slide{
			Layout:     DefaultLayout,
			Paragraphs: []string{strings.TrimSpace(text)},
		})
	}

	return slides
}

func parseSlide(index int, span string) Slide {
	s := Slide{
		Index:  index,
		Layout: DefaultLayout,
	}
	m := reLayout.FindStringSubmatch(span)
	if m != nil {
		s.Layout = m[1]
	}

	sec := parseSection(span)
	if sec == nil {
		return s
	}

	s.Title = sec.firstText("H1")
	s.Subtitle = sec.firstText("H2")

	for _, p := range sec.direct("P") {
		t := strings.TrimSpace(p.textContent())
		if t != "" {
			s.Paragraphs = append(s.Paragraphs, t)
		}
	}

	img := sec.first("IMG")
	if img != nil {
		s.ImageURL = img.attr("src")
		s.ImageQuery = img.attr("query")
	}

	s.Bullets = parseItems(sec, Bullets)
	s.Cycle = parseItems(sec, Cycle)
	s.Arrows = parseItems(sec, Arrows)
	s.Timeline = parseItems(sec, Timeline)

	return s
}

func parseItems(sec *element, k ItemKind) []Item {
	container := sec.first(k.Tag())
	if container == nil {
		return nil
	}

	divs := container.all("DIV")
	items := make([]Item, 0, len(divs))
	for _, div := range divs {
		items = append(items, Item{
			Title: div.firstText("H3"),
			Text:  div.firstText("P"),
		})
	}
	return items
}
