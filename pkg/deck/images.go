package deck

import (
	"fmt"
	"regexp"
	"sync"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/akeil/bizgen/internal/logging"
)

var (
	reImgQuery = regexp.MustCompile(`(?i)<IMG\b[^>]*query="([^"]+)"`)
	reImg      = regexp.MustCompile(`(?i)<IMG\b[^>]*>`)
)

// ImageQuery is the image search phrase of a slide.
type ImageQuery struct {
	Slide int
	Query string
}

// ImageQueries lists the image queries of all slides that have one.
func ImageQueries(raw string) []ImageQuery {
	text := Clean(raw)
	var out []ImageQuery
	for i, span := range sections(text) {
		m := reImgQuery.FindStringSubmatch(text[span[0]:span[1]])
		if m != nil {
			out = append(out, ImageQuery{Slide: i, Query: m[1]})
		}
	}
	return out
}

// MapImages assigns stored image URLs to slides.
//
// URLs are assigned in order to the slides that contain an IMG element.
// Surplus URLs are ignored, empty ones leave their slide without an image.
// If resolve is not nil it is applied to each URL.
func MapImages(raw string, urls []string, resolve func(string) string) map[int]string {
	text := Clean(raw)
	m := make(map[int]string)

	next := 0
	for i, span := range sections(text) {
		if next >= len(urls) {
			break
		}
		if !reImg.MatchString(text[span[0]:span[1]]) {
			continue
		}
		url := urls[next]
		next++
		if url == "" {
			continue
		}
		if resolve != nil {
			url = resolve(url)
		}
		m[i] = url
	}

	return m
}

// ImageRequest describes a single slide image to generate.
type ImageRequest struct {
	Deck  int
	Slide int
	Query string
	Email string
}

// Key identifies the request for deduplication.
func (r ImageRequest) Key() string {
	return fmt.Sprintf("%d|%d|%s", r.Slide, r.Deck, r.Query)
}

// GenerateFunc produces an image for a slide and returns its URL.
type GenerateFunc func(req ImageRequest) (string, error)

// ImageRunner generates slide images concurrently.
//
// Each request is started at most once per runner; a repeated request with
// the same deck, slide and query is skipped.
type ImageRunner struct {
	generate GenerateFunc
	limit    int
	mx       sync.Mutex
	started  map[string]bool
}

// NewImageRunner creates a runner that uses fn to generate images with at
// most limit requests in flight. A limit <= 0 means no limit.
func NewImageRunner(fn GenerateFunc, limit int) *ImageRunner {
	return &ImageRunner{
		generate: fn,
		limit:    limit,
		started:  make(map[string]bool),
	}
}

func (r *ImageRunner) claim(key string) bool {
	r.mx.Lock()
	defer r.mx.Unlock()
	if r.started[key] {
		return false
	}
	r.started[key] = true
	return true
}

// Run generates images for the given queries.
//
// It returns the URLs of the generated images by slide index. A failure
// for one slide does not stop the others; all failures are returned
// combined.
func (r *ImageRunner) Run(deckID int, email string, queries []ImageQuery) (map[int]string, error) {
	var (
		mx   sync.Mutex
		urls = make(map[int]string)
		errs error
	)

	var g errgroup.Group
	if r.limit > 0 {
		g.SetLimit(r.limit)
	}

	for _, q := range queries {
		req := ImageRequest{
			Deck:  deckID,
			Slide: q.Slide,
			Query: q.Query,
			Email: email,
		}
		if req.Query == "" {
			continue
		}
		if !r.claim(req.Key()) {
			logging.Debug("Skip image for slide %d, already requested", req.Slide)
			continue
		}

		g.Go(func() error {
			logging.Info("Generate image for slide %d: %q", req.Slide, req.Query)
			url, err := r.generate(req)
			if err == nil && url == "" {
				err = fmt.Errorf("no image returned")
			}

			mx.Lock()
			defer mx.Unlock()
			if err != nil {
				logging.Warning("Image generation failed for slide %d: %v", req.Slide, err)
				errs = multierr.Append(errs, fmt.Errorf("slide %d: %w", req.Slide, err))
				return nil
			}
			urls[req.Slide] = url
			return nil
		})
	}

	// goroutines never return an error; failures are collected in errs
	_ = g.Wait()

	return urls, errs
}
