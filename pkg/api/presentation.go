package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/akeil/bizgen"
	"github.com/akeil/bizgen/internal/logging"
	"github.com/akeil/bizgen/pkg/deck"
)

const (
	epPresentation  = "/presentation/presentation"
	epGenerateDeck  = epPresentation + "/generate-unified"
	epGenerateImage = epPresentation + "/generate-image"
)

// Limits for the number of slides in a generated deck.
const (
	MinSlides = 3
	MaxSlides = 20
)

// Settings for slide images.
const (
	SlideImageSize    = "1792x1024"
	SlideImageQuality = "hd"
	SlideImageContext = "slide-image"
)

// GenerateDeckRequest is the form to generate a pitch deck.
//
// Optional fields are only sent when set.
type GenerateDeckRequest struct {
	SlidesCount    int
	Prompt         string
	UserID         int
	ColorTheme     string
	WebsiteURLs    string
	IndustrySector string
	OneLinePitch   string
	ProblemSolving string
	UniqueSolution string
	TargetAudience string
	BusinessModel  string
	RevenuePlan    string
	Competitors    string
	Vision         string
	Language       string
	Tone           string
	GenerateImages *bool
}

func (r GenerateDeckRequest) Validate() error {
	if r.SlidesCount < MinSlides || r.SlidesCount > MaxSlides {
		return bizgen.NewValidationError("Slides must be between %d and %d", MinSlides, MaxSlides)
	}
	if r.UserID <= 0 {
		return bizgen.NewValidationError("user id is required")
	}
	err := minLength("Prompt", r.Prompt, 10)
	if err != nil {
		return err
	}
	if r.WebsiteURLs != "" {
		_, err = SplitURLs(r.WebsiteURLs)
		if err != nil {
			return err
		}
	}

	long := []struct {
		label string
		value string
	}{
		{"Problem description", r.ProblemSolving},
		{"Solution description", r.UniqueSolution},
		{"Business model", r.BusinessModel},
		{"Revenue plan", r.RevenuePlan},
	}
	for _, f := range long {
		if f.value == "" {
			continue
		}
		err = minLength(f.label, f.value, 10)
		if err != nil {
			return err
		}
	}

	return nil
}

func (r GenerateDeckRequest) fields() url.Values {
	v := url.Values{}
	v.Set("slides_count", strconv.Itoa(r.SlidesCount))
	v.Set("prompt", r.Prompt)
	v.Set("user_id", strconv.Itoa(r.UserID))

	optional := []struct {
		key   string
		value string
	}{
		{"color_theme", r.ColorTheme},
		{"website_urls", r.WebsiteURLs},
		{"industry_sector", r.IndustrySector},
		{"one_line_pitch", r.OneLinePitch},
		{"problem_solving", r.ProblemSolving},
		{"unique_solution", r.UniqueSolution},
		{"target_audience", r.TargetAudience},
		{"business_model", r.BusinessModel},
		{"revenue_plan", r.RevenuePlan},
		{"competitors", r.Competitors},
		{"vision", r.Vision},
		{"language", r.Language},
		{"tone", r.Tone},
	}
	for _, o := range optional {
		if o.value != "" {
			v.Set(o.key, o.value)
		}
	}
	if r.GenerateImages != nil {
		v.Set("generate_images", strconv.FormatBool(*r.GenerateImages))
	}

	return v
}

type GenerateDeckResponse struct {
	Success         bool     `json:"success"`
	PresentationXML string   `json:"presentation_xml"`
	SlidesCount     int      `json:"slides_count"`
	ProcessingTime  float64  `json:"processing_time"`
	GeneratedImages []string `json:"generated_images"`
	ContextSources  []string `json:"context_sources_used"`
	Error           string   `json:"error"`
	PresentationID  int      `json:"presentation_id"`
	DatabaseID      int      `json:"database_id"`
	DatabaseError   string   `json:"database_error"`
	Prompt          string   `json:"prompt"`
	Theme           string   `json:"theme"`
	Language        string   `json:"language"`
	Tone            string   `json:"tone"`
}

type PresentationSummary struct {
	ID        ID                     `json:"id"`
	Title     string                 `json:"title"`
	Content   map[string]interface{} `json:"content"`
	Theme     string                 `json:"theme"`
	Language  string                 `json:"language"`
	Tone      string                 `json:"tone"`
	UserID    ID                     `json:"userId"`
	CreatedAt DateTime               `json:"createdAt"`
	UpdatedAt DateTime               `json:"updatedAt"`
	Public    bool                   `json:"isPublic"`
	Slug      string                 `json:"slug"`
}

type PresentationDetail struct {
	PresentationSummary
	PresentationXML string   `json:"presentation_xml"`
	SlidesCount     int      `json:"slides_count"`
	Prompt          string   `json:"prompt"`
	GeneratedImages []string `json:"generated_images"`
	Error           string   `json:"error"`
}

// SlidesXML returns the deck text stored with the presentation.
//
// content.slides is either the text itself or a list whose first entry
// holds the text as "xml".
func (p *PresentationDetail) SlidesXML() string {
	raw, ok := p.Content["slides"]
	if !ok || raw == nil {
		return ""
	}

	switch v := raw.(type) {
	case string:
		return deck.Clean(v)
	case []interface{}:
		if len(v) == 0 {
			return ""
		}
		first, ok := v[0].(map[string]interface{})
		if !ok {
			return ""
		}
		s, _ := first["xml"].(string)
		return s
	}
	return ""
}

// ThemeValue is the stored theme, top-level or inside content.
func (p *PresentationDetail) ThemeValue() string {
	if p.Theme != "" {
		return p.Theme
	}
	s, _ := p.Content["theme"].(string)
	return s
}

type GenerateImageRequest struct {
	Prompt         string `json:"prompt"`
	PresentationID int    `json:"presentation_id"`
	UserEmail      string `json:"user_email"`
	Size           string `json:"size"`
	Quality        string `json:"quality"`
	Context        string `json:"context,omitempty"`
}

type GenerateImageResponse struct {
	Success  bool   `json:"success"`
	URL      string `json:"url"`
	Prompt   string `json:"prompt"`
	Model    string `json:"model"`
	Size     string `json:"size"`
	Quality  string `json:"quality"`
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

func presentationPath(id int, rest ...string) string {
	p := fmt.Sprintf("%v/%d", epPresentation, id)
	for _, r := range rest {
		p += "/" + r
	}
	return p
}

// GenerateDeck submits the pitch deck form.
func (c *Client) GenerateDeck(r GenerateDeckRequest) (GenerateDeckResponse, error) {
	var res GenerateDeckResponse
	err := r.Validate()
	if err != nil {
		return res, err
	}

	err = c.form(http.MethodPost, epGenerateDeck, r.fields(), nil, &res)
	if err != nil {
		return res, err
	}
	if !res.Success && res.Error != "" {
		return res, fmt.Errorf("generation failed: %v", res.Error)
	}
	return res, nil
}

// Presentations lists the presentations of a user.
func (c *Client) Presentations(userID int) ([]PresentationSummary, error) {
	var raw json.RawMessage
	err := c.request(http.MethodGet, fmt.Sprintf("%v/user-id/%d", epPresentation, userID), nil, &raw)
	if err != nil {
		return nil, err
	}

	items := make([]PresentationSummary, 0)
	err = json.Unmarshal(raw, &items)
	if err != nil {
		// anything but a list means there are none
		logging.Debug("Unexpected presentation list: %v", err)
		return []PresentationSummary{}, nil
	}
	return items, nil
}

// Presentation fetches a single presentation.
func (c *Client) Presentation(id int) (*PresentationDetail, error) {
	var p PresentationDetail
	err := c.request(http.MethodGet, presentationPath(id), nil, &p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdatePresentation changes fields of a presentation.
func (c *Client) UpdatePresentation(id int, fields map[string]interface{}) (*PresentationDetail, error) {
	var p PresentationDetail
	err := c.request(http.MethodPut, presentationPath(id), fields, &p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SaveSlides stores edited deck text.
func (c *Client) SaveSlides(id int, raw string) (*PresentationDetail, error) {
	return c.UpdatePresentation(id, map[string]interface{}{
		"content": map[string]interface{}{
			"slides": raw,
		},
	})
}

// SaveTheme stores the theme color of a presentation.
//
// The theme is verified against the response. If the response does not
// confirm it, the presentation is fetched again; if that does not carry the
// theme either, an error names what the server has.
func (c *Client) SaveTheme(id int, theme string) (*PresentationDetail, error) {
	updated, err := c.UpdatePresentation(id, map[string]interface{}{"theme": theme})
	if err != nil {
		return nil, err
	}
	returned := updated.ThemeValue()
	if returned != "" && deck.SameTheme(returned, theme) {
		return updated, nil
	}

	logging.Debug("Theme not confirmed in response, fetch presentation %d", id)
	fresh, err := c.Presentation(id)
	if err == nil {
		current := fresh.ThemeValue()
		if current != "" && deck.SameTheme(current, theme) {
			return fresh, nil
		}
		if current != "" {
			returned = current
		}
	}

	if returned == "" {
		returned = "<none>"
	}
	return nil, fmt.Errorf("theme not saved, server returned: %v", returned)
}

// DeletePresentation removes a presentation.
func (c *Client) DeletePresentation(id int) error {
	return c.request(http.MethodDelete, presentationPath(id), nil, nil)
}

// GenerateImage requests an image for a slide and returns its URL.
func (c *Client) GenerateImage(r GenerateImageRequest) (string, error) {
	if r.Prompt == "" {
		return "", bizgen.NewValidationError("image prompt is required")
	}

	var res GenerateImageResponse
	err := c.request(http.MethodPost, epGenerateImage, r, &res)
	if err != nil {
		return "", err
	}
	if !res.Success || res.URL == "" {
		msg := res.Error
		if msg == "" {
			msg = "Failed to generate image"
		}
		return "", fmt.Errorf("%v", msg)
	}
	return res.URL, nil
}

// SlideImageGenerator adapts GenerateImage for a deck.ImageRunner.
func (c *Client) SlideImageGenerator() deck.GenerateFunc {
	return func(req deck.ImageRequest) (string, error) {
		return c.GenerateImage(GenerateImageRequest{
			Prompt:         req.Query,
			PresentationID: req.Deck,
			UserEmail:      req.Email,
			Size:           SlideImageSize,
			Quality:        SlideImageQuality,
			Context:        SlideImageContext,
		})
	}
}

// PresentationImages lists the images generated for a presentation, in
// slide order.
func (c *Client) PresentationImages(id int) ([]string, error) {
	var raw json.RawMessage
	err := c.request(http.MethodGet, presentationPath(id, "images"), nil, &raw)
	if err != nil {
		return nil, err
	}

	var list []string
	if json.Unmarshal(raw, &list) == nil {
		return list, nil
	}
	var wrapped struct {
		Images []string `json:"images"`
	}
	if json.Unmarshal(raw, &wrapped) == nil && wrapped.Images != nil {
		return wrapped.Images, nil
	}
	return []string{}, nil
}
