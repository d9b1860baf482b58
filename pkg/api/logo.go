package api

import (
	"fmt"
	"net/http"

	"github.com/akeil/bizgen"
)

type LogoRequest struct {
	Title       string `json:"logo_title"`
	Vision      string `json:"logo_vision"`
	PaletteName string `json:"color_palette_name"`
	Style       string `json:"logo_style"`
	UserID      int    `json:"user_id"`
}

func (r LogoRequest) Validate() error {
	if r.UserID <= 0 {
		return bizgen.NewValidationError("user id is required")
	}
	return required(
		"Business name", r.Title,
		"Logo description", r.Vision,
		"Color palette", r.PaletteName,
		"Logo style", r.Style)
}

type Logo struct {
	ID                int                    `json:"id"`
	UserID            int                    `json:"user_id"`
	ImageURL          string                 `json:"logo_image_url"`
	RemovedBgImageURL string                 `json:"remove_bg_logo_image_url"`
	Content           map[string]interface{} `json:"content"`
	Title             string                 `json:"logo_title"`
	Vision            string                 `json:"logo_vision"`
	PaletteName       string                 `json:"color_palette_name"`
	Style             string                 `json:"logo_style"`
	CreatedAt         DateTime               `json:"created_at"`
	UpdatedAt         DateTime               `json:"updated_at"`
}

type removeBgResponse struct {
	Success  bool   `json:"success"`
	LogoID   int    `json:"logo_id"`
	ImageURL string `json:"remove_bg_logo_image_url"`
	Error    string `json:"error"`
}

func (c *Client) GenerateLogo(r LogoRequest) (Logo, error) {
	var l Logo
	err := r.Validate()
	if err != nil {
		return l, err
	}
	err = c.request(http.MethodPost, "/logo/design", r, &l)
	return l, err
}

func (c *Client) Logos(userID int) ([]Logo, error) {
	items := make([]Logo, 0)
	err := c.request(http.MethodGet, fmt.Sprintf("/logo/user/%d", userID), nil, &items)
	return items, err
}

func (c *Client) Logo(id int) (Logo, error) {
	var l Logo
	err := c.request(http.MethodGet, fmt.Sprintf("/logo/%d", id), nil, &l)
	return l, err
}

func (c *Client) DeleteLogo(id int) error {
	return c.request(http.MethodDelete, fmt.Sprintf("/logo/%d", id), nil, nil)
}

// RemoveLogoBackground creates a transparent version of a logo and returns
// its URL.
func (c *Client) RemoveLogoBackground(id int) (string, error) {
	payload := struct {
		LogoID int `json:"logo_id"`
	}{id}

	var res removeBgResponse
	err := c.request(http.MethodPost, "/logo/remove_bg", payload, &res)
	if err != nil {
		return "", err
	}
	if !res.Success {
		msg := res.Error
		if msg == "" {
			msg = "background removal failed"
		}
		return "", fmt.Errorf("%v", msg)
	}
	return res.ImageURL, nil
}
