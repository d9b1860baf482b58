package deck

import (
	"regexp"

	"github.com/akeil/bizgen"
)

var (
	reH1           = regexp.MustCompile(`(?i)<H1>[\s\S]*?</H1>`)
	reH2           = regexp.MustCompile(`(?i)<H2>[\s\S]*?</H2>`)
	reH3           = regexp.MustCompile(`(?i)<H3>[\s\S]*?</H3>`)
	reP            = regexp.MustCompile(`(?i)<P>[\s\S]*?</P>`)
	reSectionOpen  = regexp.MustCompile(`(?i)<SECTION\b[^>]*>`)
	reSectionClose = regexp.MustCompile(`(?i)</SECTION>`)
	reDiv          = regexp.MustCompile(`(?i)<DIV>[\s\S]*?</DIV>`)
	reDivOpen      = regexp.MustCompile(`(?i)<DIV>`)
	reDivClose     = regexp.MustCompile(`(?i)</DIV>`)
)

var containerPatterns = map[ItemKind]*regexp.Regexp{}
var containerClosePatterns = map[ItemKind]*regexp.Regexp{}

func init() {
	for k, tag := range itemTags {
		containerPatterns[k] = regexp.MustCompile(`(?i)<` + tag + `>[\s\S]*?</` + tag + `>`)
		containerClosePatterns[k] = regexp.MustCompile(`(?i)</` + tag + `>`)
	}
}

// Patch holds the fields to change on an item.
// Nil fields are left as they are.
type Patch struct {
	Title *string
	Text  *string
}

// editSection applies fn to the SECTION span with the given index and
// splices the result back into the clean text.
func editSection(raw string, index int, fn func(span string) (string, error)) (string, error) {
	text := Clean(raw)
	spans := sections(text)
	if index < 0 || index >= len(spans) {
		return raw, bizgen.NewNotFound("no slide with index %d", index)
	}

	s, e := spans[index][0], spans[index][1]
	updated, err := fn(text[s:e])
	if err != nil {
		return raw, err
	}

	return text[:s] + updated + text[e:], nil
}

// splice replaces text[start:end] with repl.
func splice(text string, start, end int, repl string) string {
	return text[:start] + repl + text[end:]
}

// insertBefore inserts s before the first match of re, or returns text
// unchanged if there is no match.
func insertBefore(text string, re *regexp.Regexp, s string) string {
	loc := re.FindStringIndex(text)
	if loc == nil {
		return text
	}
	return splice(text, loc[0], loc[0], s)
}

// insertAfter inserts s after the first match of re, or returns text
// unchanged if there is no match.
func insertAfter(text string, re *regexp.Regexp, s string) string {
	loc := re.FindStringIndex(text)
	if loc == nil {
		return text
	}
	return splice(text, loc[1], loc[1], s)
}

// replaceFirst replaces the first match of re with s.
// The boolean is false if nothing matched.
func replaceFirst(text string, re *regexp.Regexp, s string) (string, bool) {
	loc := re.FindStringIndex(text)
	if loc == nil {
		return text, false
	}
	return splice(text, loc[0], loc[1], s), true
}

// SetTitle sets the H1 of a slide.
//
// If the slide has no H1, one is added right after the SECTION start tag.
func SetTitle(raw string, slide int, title string) (string, error) {
	return editSection(raw, slide, func(span string) (string, error) {
		h1 := "<H1>" + escape(title) + "</H1>"
		out, ok := replaceFirst(span, reH1, h1)
		if ok {
			return out, nil
		}
		return insertAfter(span, reSectionOpen, "\n  "+h1), nil
	})
}

// SetSubtitle sets the H2 of a slide.
//
// If the slide has no H2, one is added after the H1, or after the SECTION
// start tag if there is no H1 either.
func SetSubtitle(raw string, slide int, subtitle string) (string, error) {
	return editSection(raw, slide, func(span string) (string, error) {
		h2 := "<H2>" + escape(subtitle) + "</H2>"
		out, ok := replaceFirst(span, reH2, h2)
		if ok {
			return out, nil
		}
		if reH1.MatchString(span) {
			return insertAfter(span, reH1, "\n  "+h2), nil
		}
		return insertAfter(span, reSectionOpen, "\n  "+h2), nil
	})
}

// SetParagraph sets the text of the n-th top-level paragraph of a slide.
//
// Paragraphs are counted over all P elements that are direct children of
// the SECTION, including empty ones. If there is no such paragraph, a new
// one is added after the last top-level H2, or at the end of the slide.
//
// The slide must be well-formed.
func SetParagraph(raw string, slide, n int, value string) (string, error) {
	return editSection(raw, slide, func(span string) (string, error) {
		sec := parseSection(span)
		if sec == nil {
			return "", bizgen.NewValidationError("slide %d is not well-formed", slide)
		}

		ps := sec.direct("P")
		if n >= 0 && n < len(ps) {
			p := ps[n]
			if p.selfClosing() {
				return splice(span, p.start, p.end, "<P>"+escape(value)+"</P>"), nil
			}
			return splice(span, p.openEnd, p.closeStart, escape(value)), nil
		}

		p := "<P>" + escape(value) + "</P>"
		h2s := sec.direct("H2")
		if len(h2s) > 0 {
			last := h2s[len(h2s)-1]
			return splice(span, last.end, last.end, "\n  "+p), nil
		}
		return splice(span, sec.closeStart, sec.closeStart, "  "+p+"\n"), nil
	})
}

// AddParagraph appends an empty paragraph to a slide.
func AddParagraph(raw string, slide int) (string, error) {
	return editSection(raw, slide, func(span string) (string, error) {
		return insertBefore(span, reSectionClose, "  <P></P>\n"), nil
	})
}

const emptyItem = "<DIV>\n  <H3></H3>\n  <P></P>\n</DIV>"

// SetItem changes the n-th item in one of the containers of a slide.
//
// The container is created at the end of the slide if it does not exist.
// If there is no item with index n, a new item is appended to the
// container. Only the fields set in the patch are written.
func SetItem(raw string, slide int, kind ItemKind, n int, patch Patch) (string, error) {
	tag, ok := itemTags[kind]
	if !ok {
		return raw, bizgen.NewValidationError("invalid item kind %d", int(kind))
	}

	return editSection(raw, slide, func(span string) (string, error) {
		re := containerPatterns[kind]
		loc := re.FindStringIndex(span)
		if loc == nil {
			span = insertBefore(span, reSectionClose, "<"+tag+">\n</"+tag+">\n")
			loc = re.FindStringIndex(span)
			if loc == nil {
				return "", bizgen.NewValidationError("slide %d has no end tag", slide)
			}
		}

		container := span[loc[0]:loc[1]]
		items := reDiv.FindAllStringIndex(container, -1)

		var updated string
		if n >= 0 && n < len(items) {
			s, e := items[n][0], items[n][1]
			updated = splice(container, s, e, patchItem(container[s:e], patch))
		} else {
			item := patchItem(emptyItem, patch)
			updated = insertBefore(container, containerClosePatterns[kind], item+"\n")
		}

		return splice(span, loc[0], loc[1], updated), nil
	})
}

// AddItem appends an empty item to one of the containers of a slide.
func AddItem(raw string, slide int, kind ItemKind) (string, error) {
	empty := ""
	return SetItem(raw, slide, kind, -1, Patch{Title: &empty, Text: &empty})
}

func patchItem(item string, patch Patch) string {
	if patch.Title != nil {
		h3 := "<H3>" + escape(*patch.Title) + "</H3>"
		var ok bool
		item, ok = replaceFirst(item, reH3, h3)
		if !ok {
			item = insertAfter(item, reDivOpen, "\n  "+h3)
		}
	}
	if patch.Text != nil {
		p := "<P>" + escape(*patch.Text) + "</P>"
		var ok bool
		item, ok = replaceFirst(item, reP, p)
		if !ok {
			item = insertBefore(item, reDivClose, "  "+p+"\n")
		}
	}
	return item
}

// StringPtr is a helper to build a Patch.
func StringPtr(s string) *string {
	return &s
}

