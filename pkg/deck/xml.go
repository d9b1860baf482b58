package deck

import (
	"encoding/xml"
	"io"
	"strings"
)

// element is a node of a parsed SECTION with the byte offsets of its
// markup, relative to the section text.
type element struct {
	name     string
	attrs    []xml.Attr
	parent   *element
	children []*element
	text     strings.Builder

	start      int // first byte of the start tag
	openEnd    int // first byte after the start tag
	closeStart int // first byte of the end tag
	end        int // first byte after the end tag
}

const (
	rootOpen  = "<ROOT>"
	rootClose = "</ROOT>"
)

// parseSection parses a SECTION span as strict XML.
//
// It returns the SECTION element, or nil if the span is not well-formed
// or does not contain a SECTION.
func parseSection(span string) *element {
	d := xml.NewDecoder(strings.NewReader(rootOpen + span + rootClose))
	d.Strict = true

	offset := func() int {
		return int(d.InputOffset()) - len(rootOpen)
	}

	var (
		root  *element
		stack []*element
	)

	for {
		before := offset()
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil
		}

		switch t := tok.(type) {
		case xml.StartElement:
			e := &element{
				name:    t.Name.Local,
				attrs:   t.Copy().Attr,
				start:   before,
				openEnd: offset(),
			}
			if len(stack) > 0 {
				e.parent = stack[len(stack)-1]
				e.parent.children = append(e.parent.children, e)
			} else {
				root = e
			}
			stack = append(stack, e)
		case xml.EndElement:
			if len(stack) == 0 {
				return nil
			}
			e := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			e.closeStart = before
			e.end = offset()
		case xml.CharData:
			for _, e := range stack {
				e.text.Write(t)
			}
		}
	}

	if root == nil || len(stack) != 0 {
		return nil
	}

	return root.first("SECTION")
}

func (e *element) is(name string) bool {
	return strings.EqualFold(e.name, name)
}

// selfClosing tells if the element was written as <NAME/>.
func (e *element) selfClosing() bool {
	return e.closeStart == e.end
}

func (e *element) textContent() string {
	return e.text.String()
}

func (e *element) attr(name string) string {
	for _, a := range e.attrs {
		if strings.EqualFold(a.Name.Local, name) {
			return a.Value
		}
	}
	return ""
}

// first returns the first descendant with the given name, in document
// order.
func (e *element) first(name string) *element {
	for _, c := range e.children {
		if c.is(name) {
			return c
		}
		found := c.first(name)
		if found != nil {
			return found
		}
	}
	return nil
}

// all returns all descendants with the given name, in document order.
func (e *element) all(name string) []*element {
	var out []*element
	for _, c := range e.children {
		if c.is(name) {
			out = append(out, c)
		}
		out = append(out, c.all(name)...)
	}
	return out
}

// direct returns the direct children with the given name.
func (e *element) direct(name string) []*element {
	var out []*element
	for _, c := range e.children {
		if c.is(name) {
			out = append(out, c)
		}
	}
	return out
}

// firstText is the text content of the first descendant with the given
// name, or "" if there is none.
func (e *element) firstText(name string) string {
	f := e.first(name)
	if f == nil {
		return ""
	}
	return f.textContent()
}

var xmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// escape replaces the characters that cannot appear in element text.
func escape(s string) string {
	return xmlEscaper.Replace(s)
}
