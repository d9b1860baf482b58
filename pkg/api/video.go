package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/akeil/bizgen"
)

// Limits and defaults for short videos.
const (
	MaxVideoDuration     = 60
	DefaultVideoDuration = 5
	DefaultAspectRatio   = "16:9"
	DefaultResolution    = "720p"
)

var (
	aspectRatios = []string{"16:9", "9:16", "1:1", "4:5"}
	resolutions  = []string{"480p", "720p", "1080p"}
)

type VideoRequest struct {
	UserID         int    `json:"user_id"`
	Prompt         string `json:"prompt"`
	AspectRatio    string `json:"aspect_ratio"`
	Duration       int    `json:"duration"`
	Resolution     string `json:"resolution"`
	GenerateAudio  bool   `json:"generate_audio"`
	NegativePrompt string `json:"negative_prompt"`
}

// NewVideoRequest creates a request with the default settings.
func NewVideoRequest(userID int, prompt string) VideoRequest {
	return VideoRequest{
		UserID:        userID,
		Prompt:        prompt,
		AspectRatio:   DefaultAspectRatio,
		Duration:      DefaultVideoDuration,
		Resolution:    DefaultResolution,
		GenerateAudio: true,
	}
}

func (r VideoRequest) Validate() error {
	if r.UserID <= 0 {
		return bizgen.NewValidationError("user id is required")
	}
	if strings.TrimSpace(r.Prompt) == "" {
		return bizgen.NewValidationError("Prompt is required")
	}
	if !oneOf(r.AspectRatio, aspectRatios) {
		return bizgen.NewValidationError("invalid aspect ratio %q", r.AspectRatio)
	}
	if !oneOf(r.Resolution, resolutions) {
		return bizgen.NewValidationError("invalid resolution %q", r.Resolution)
	}
	if r.Duration < 1 || r.Duration > MaxVideoDuration {
		return bizgen.NewValidationError("Duration must be between 1 and %d seconds", MaxVideoDuration)
	}
	return nil
}

func oneOf(s string, options []string) bool {
	for _, o := range options {
		if s == o {
			return true
		}
	}
	return false
}

type Video struct {
	ID        int      `json:"id"`
	UserID    int      `json:"user_id"`
	Prompt    string   `json:"prompt"`
	VideoURL  string   `json:"video_url"`
	CreatedAt DateTime `json:"created_at"`
	UpdatedAt DateTime `json:"updated_at"`
}

func (c *Client) GenerateVideo(r VideoRequest) (Video, error) {
	var v Video
	err := r.Validate()
	if err != nil {
		return v, err
	}
	err = c.request(http.MethodPost, "/short-video/generate", r, &v)
	return v, err
}

func (c *Client) Videos(userID int) ([]Video, error) {
	items := make([]Video, 0)
	err := c.request(http.MethodGet, fmt.Sprintf("/short-video/user/%d", userID), nil, &items)
	return items, err
}

func (c *Client) Video(id int) (Video, error) {
	var v Video
	err := c.request(http.MethodGet, fmt.Sprintf("/short-video/%d", id), nil, &v)
	return v, err
}

func (c *Client) DeleteVideo(id int) error {
	return c.request(http.MethodDelete, fmt.Sprintf("/short-video/%d", id), nil, nil)
}
