package main

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/multierr"

	"github.com/akeil/bizgen"
	"github.com/akeil/bizgen/internal/logging"
	"github.com/akeil/bizgen/pkg/api"
	"github.com/akeil/bizgen/pkg/deck"
)

// imageLimit is the number of slide images generated at once.
const imageLimit = 4

type deckOptions struct {
	prompt   string
	slides   int
	theme    string
	urls     string
	industry string
	pitch    string
	language string
	tone     string
	images   bool
}

func doDeckList(e *env) error {
	uid, err := e.userID()
	if err != nil {
		return err
	}

	items, err := e.client.Presentations(uid)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("Found no presentations.")
		return nil
	}

	for _, p := range items {
		fmt.Printf("%5v  %v | %v\n", p.ID, p.CreatedAt.Local().Format(dateFormat), p.Title)
	}
	return nil
}

func doDeckGenerate(e *env, o deckOptions) error {
	uid, err := e.userID()
	if err != nil {
		return err
	}

	req := api.GenerateDeckRequest{
		SlidesCount:    o.slides,
		Prompt:         o.prompt,
		UserID:         uid,
		ColorTheme:     o.theme,
		WebsiteURLs:    o.urls,
		IndustrySector: o.industry,
		OneLinePitch:   o.pitch,
		Language:       o.language,
		Tone:           o.tone,
		GenerateImages: &o.images,
	}

	fmt.Printf("%v generate %d slides\n", ellipsis, o.slides)
	res, err := e.client.GenerateDeck(req)
	if err != nil {
		return err
	}

	id := res.PresentationID
	if id == 0 {
		id = res.DatabaseID
	}
	if res.DatabaseError != "" {
		logging.Warning("Presentation not stored: %v", res.DatabaseError)
	}

	if o.images && id != 0 {
		err = e.drafts.RequestImages(id)
		if err != nil {
			return err
		}
	}

	fmt.Printf("%v presentation %d generated, %d slides in %.1fs\n", checkmark, id, res.SlidesCount, res.ProcessingTime)
	if o.images {
		fmt.Printf("  slide images are generated when the presentation is opened, e.g. with 'bizgen deck show %d'\n", id)
	}
	return nil
}

// openDeck loads a presentation and its slides.
//
// An unsaved draft replaces the stored slides. Pending image generation
// runs once.
func openDeck(e *env, id int) (*api.PresentationDetail, *deck.Deck, error) {
	p, err := e.client.Presentation(id)
	if err != nil {
		return nil, nil, err
	}

	raw := p.SlidesXML()
	if raw == "" {
		raw = p.PresentationXML
	}

	draft, ok, err := e.drafts.Load(id)
	if err != nil {
		return nil, nil, err
	}
	if ok {
		logging.Info("Using unsaved draft for presentation %d", id)
		raw = draft
	}

	d := deck.New(raw)

	pending, err := e.drafts.TakeImageRequest(id)
	if err != nil {
		logging.Warning("Could not read image request for %d: %v", id, err)
	}
	if pending {
		err = generateImages(e, id, d.Raw())
		if err != nil {
			fmt.Printf("%v some slide images failed: %v\n", crossmark, err)
		}
	}

	return p, d, nil
}

// slideImages returns the image URL of each slide that has one.
//
// URLs in the slide text win over the images stored with the presentation.
func slideImages(e *env, id int, d *deck.Deck) map[int]string {
	stored, err := e.client.PresentationImages(id)
	if err != nil {
		logging.Warning("Could not list images for presentation %d: %v", id, err)
	}

	urls := deck.MapImages(d.Raw(), stored, e.client.ResolveAsset)
	for _, s := range d.Slides() {
		if s.ImageURL != "" {
			urls[s.Index] = e.client.ResolveAsset(s.ImageURL)
		}
	}
	return urls
}

func generateImages(e *env, id int, raw string) error {
	d := deck.New(raw)
	have := slideImages(e, id, d)

	var missing []deck.ImageQuery
	for _, q := range deck.ImageQueries(raw) {
		if _, ok := have[q.Slide]; !ok {
			missing = append(missing, q)
		}
	}
	if len(missing) == 0 {
		fmt.Printf("%v all slides have images\n", checkmark)
		return nil
	}

	fmt.Printf("%v generate %d slide image(s)\n", ellipsis, len(missing))
	runner := deck.NewImageRunner(e.client.SlideImageGenerator(), imageLimit)
	urls, err := runner.Run(id, e.email(), missing)

	slides := make([]int, 0, len(urls))
	for i := range urls {
		slides = append(slides, i)
	}
	sort.Ints(slides)
	for _, i := range slides {
		fmt.Printf("%v slide %d: %v\n", checkmark, i+1, e.client.ResolveAsset(urls[i]))
	}

	for _, failed := range multierr.Errors(err) {
		fmt.Printf("%v %v\n", crossmark, failed)
	}
	return err
}

func doDeckImages(e *env, id int) error {
	_, d, err := openDeck(e, id)
	if err != nil {
		return err
	}
	return generateImages(e, id, d.Raw())
}

func doDeckShow(e *env, id int) error {
	p, d, err := openDeck(e, id)
	if err != nil {
		return err
	}

	fmt.Printf("%v (theme %v)\n", p.Title, deck.ParseTheme(p.ThemeValue()))
	fmt.Println(strings.Repeat("-", len(p.Title)))

	images := slideImages(e, id, d)
	for _, s := range d.Slides() {
		showSlide(s, images[s.Index])
	}
	return nil
}

func showSlide(s deck.Slide, image string) {
	fmt.Printf("[%d] layout: %v\n", s.Index+1, s.Layout)
	if s.Title != "" {
		fmt.Printf("    # %v\n", s.Title)
	}
	if s.Subtitle != "" {
		fmt.Printf("    ## %v\n", s.Subtitle)
	}
	for i, para := range s.Paragraphs {
		fmt.Printf("    p%d: %v\n", i+1, para)
	}
	if image != "" {
		fmt.Printf("    image: %v\n", image)
	} else if s.ImageQuery != "" {
		fmt.Printf("    image query: %q\n", s.ImageQuery)
	}
	for _, k := range []deck.ItemKind{deck.Bullets, deck.Cycle, deck.Arrows, deck.Timeline} {
		items := s.Items(k)
		if len(items) == 0 {
			continue
		}
		fmt.Printf("    %v:\n", k.String())
		for i, item := range items {
			fmt.Printf("      %d. %v: %v\n", i+1, item.Title, item.Text)
		}
	}
	fmt.Println()
}

// editDeck applies an edit to the slides and keeps the result as draft.
func editDeck(e *env, id int, edit func(d *deck.Deck) error) error {
	_, d, err := openDeck(e, id)
	if err != nil {
		return err
	}

	err = edit(d)
	if err != nil {
		return err
	}

	err = e.drafts.Save(id, d.Raw())
	if err != nil {
		return err
	}

	fmt.Printf("%v draft updated, use 'bizgen deck save %d' to store it\n", checkmark, id)
	return nil
}

// slideIndex converts a slide number from the command line.
func slideIndex(n int) int {
	return n - 1
}

func doDeckSetTitle(e *env, id, slide int, title string) error {
	return editDeck(e, id, func(d *deck.Deck) error {
		return d.SetTitle(slideIndex(slide), title)
	})
}

func doDeckSetSubtitle(e *env, id, slide int, subtitle string) error {
	return editDeck(e, id, func(d *deck.Deck) error {
		return d.SetSubtitle(slideIndex(slide), subtitle)
	})
}

func doDeckSetParagraph(e *env, id, slide, n int, text string) error {
	return editDeck(e, id, func(d *deck.Deck) error {
		return d.SetParagraph(slideIndex(slide), n-1, text)
	})
}

func doDeckAddParagraph(e *env, id, slide int) error {
	return editDeck(e, id, func(d *deck.Deck) error {
		return d.AddParagraph(slideIndex(slide))
	})
}

func doDeckSetItem(e *env, id, slide int, kind string, n int, title, text *string) error {
	k, ok := deck.ParseItemKind(kind)
	if !ok {
		return bizgen.NewValidationError("unknown item kind %q", kind)
	}
	return editDeck(e, id, func(d *deck.Deck) error {
		return d.SetItem(slideIndex(slide), k, n-1, deck.Patch{Title: title, Text: text})
	})
}

func doDeckAddItem(e *env, id, slide int, kind string) error {
	k, ok := deck.ParseItemKind(kind)
	if !ok {
		return bizgen.NewValidationError("unknown item kind %q", kind)
	}
	return editDeck(e, id, func(d *deck.Deck) error {
		return d.AddItem(slideIndex(slide), k)
	})
}

func doDeckSave(e *env, id int) error {
	draft, ok, err := e.drafts.Load(id)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("No unsaved changes.")
		return nil
	}

	_, err = e.client.SaveSlides(id, draft)
	if err != nil {
		return err
	}

	err = e.drafts.Discard(id)
	if err != nil {
		return err
	}
	fmt.Printf("%v presentation %d saved\n", checkmark, id)
	return nil
}

func doDeckDiscard(e *env, id int) error {
	err := e.drafts.Discard(id)
	if err != nil {
		return err
	}
	fmt.Printf("%v draft for presentation %d discarded\n", checkmark, id)
	return nil
}

func doDeckTheme(e *env, id int, theme string) error {
	value := deck.ParseTheme(theme)
	_, err := e.client.SaveTheme(id, value)
	if err != nil {
		return err
	}
	fmt.Printf("%v theme of presentation %d set to %v\n", checkmark, id, value)
	return nil
}

func doDeckDelete(e *env, id int) error {
	err := e.client.DeletePresentation(id)
	if err != nil {
		return err
	}
	err = e.drafts.Discard(id)
	if err != nil {
		logging.Warning("Could not remove draft for %d: %v", id, err)
	}
	fmt.Printf("%v presentation %d deleted\n", checkmark, id)
	return nil
}

func doDeckExport(e *env, id int, outDir string) error {
	fmt.Printf("%v download presentation %d\n", ellipsis, id)
	p, d, err := openDeck(e, id)
	if err != nil {
		fmt.Printf("%v Failed to download presentation %d: %v\n", crossmark, id, err)
		return err
	}

	images := slideImages(e, id, d)
	slides := d.Slides()
	for i := range slides {
		slides[i].ImageURL = images[slides[i].Index]
	}

	title := p.Title
	if title == "" {
		title = fmt.Sprintf("presentation-%d", id)
	}

	fmt.Printf("%v render %q\n", ellipsis, title)
	var buf bytes.Buffer
	err = e.renderContext().Deck(title, slides, p.ThemeValue(), &buf)
	if err != nil {
		fmt.Printf("%v Failed to render %q: %v\n", crossmark, title, err)
		return err
	}

	name := strings.NewReplacer("/", "-", "\\", "-", ":", "-").Replace(title)
	return saveExport(filepath.Join(outDir, name+".pdf"), buf.Bytes(), true)
}
