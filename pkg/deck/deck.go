package deck

import (
	"sync"
)

// Deck holds the raw slide text of a presentation.
//
// The raw text is authoritative. Slides are derived from it on demand and
// cached until the text changes. Edits go through the mutators and are
// applied one after the other.
type Deck struct {
	mx     sync.Mutex
	raw    string
	parsed string
	slides []Slide
	valid  bool
}

// New creates a deck from generated text.
// A surrounding code fence is removed.
func New(raw string) *Deck {
	return &Deck{raw: Clean(raw)}
}

// Raw returns the current text.
func (d *Deck) Raw() string {
	d.mx.Lock()
	defer d.mx.Unlock()
	return d.raw
}

// SetRaw replaces the text, e.g. after loading a draft.
func (d *Deck) SetRaw(raw string) {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.raw = Clean(raw)
}

// Slides returns the projection of the current text.
// The slides are copies and may be modified by the caller.
func (d *Deck) Slides() []Slide {
	d.mx.Lock()
	defer d.mx.Unlock()

	if !d.valid || d.parsed != d.raw {
		d.slides = Parse(d.raw)
		d.parsed = d.raw
		d.valid = true
	}

	out := make([]Slide, len(d.slides))
	for i, s := range d.slides {
		out[i] = s.clone()
	}
	return out
}

// Len is the number of slides.
func (d *Deck) Len() int {
	return len(d.Slides())
}

func (d *Deck) apply(fn func(raw string) (string, error)) error {
	d.mx.Lock()
	defer d.mx.Unlock()

	next, err := fn(d.raw)
	if err != nil {
		return err
	}
	d.raw = next
	return nil
}

func (d *Deck) SetTitle(slide int, title string) error {
	return d.apply(func(raw string) (string, error) {
		return SetTitle(raw, slide, title)
	})
}

func (d *Deck) SetSubtitle(slide int, subtitle string) error {
	return d.apply(func(raw string) (string, error) {
		return SetSubtitle(raw, slide, subtitle)
	})
}

func (d *Deck) SetParagraph(slide, n int, value string) error {
	return d.apply(func(raw string) (string, error) {
		return SetParagraph(raw, slide, n, value)
	})
}

func (d *Deck) AddParagraph(slide int) error {
	return d.apply(func(raw string) (string, error) {
		return AddParagraph(raw, slide)
	})
}

func (d *Deck) SetItem(slide int, kind ItemKind, n int, patch Patch) error {
	return d.apply(func(raw string) (string, error) {
		return SetItem(raw, slide, kind, n, patch)
	})
}

func (d *Deck) AddItem(slide int, kind ItemKind) error {
	return d.apply(func(raw string) (string, error) {
		return AddItem(raw, slide, kind)
	})
}
