package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/akeil/bizgen"
)

// MaxNames is the most names one request can generate.
const MaxNames = 50

type NamesRequest struct {
	UserID   int
	Tone     string
	Industry string
	Prompt   string
	Count    int
}

func (r NamesRequest) Validate() error {
	if r.UserID <= 0 {
		return bizgen.NewValidationError("user id is required")
	}
	err := required(
		"Tone", r.Tone,
		"Industry", r.Industry,
		"Description", r.Prompt)
	if err != nil {
		return err
	}
	if r.Count < 1 || r.Count > MaxNames {
		return bizgen.NewValidationError("number of names must be between 1 and %d", MaxNames)
	}
	return nil
}

func (r NamesRequest) fields() url.Values {
	v := url.Values{}
	v.Set("user_id", strconv.Itoa(r.UserID))
	v.Set("name_tone", r.Tone)
	v.Set("industry", r.Industry)
	v.Set("prompts", r.Prompt)
	v.Set("no_of_names", strconv.Itoa(r.Count))
	return v
}

type NameGeneration struct {
	ID        int      `json:"id"`
	UserID    int      `json:"user_id"`
	Tone      string   `json:"name_tone"`
	Industry  string   `json:"industry"`
	Count     int      `json:"no_of_names"`
	Names     []string `json:"generated_names"`
	CreatedAt DateTime `json:"created_at"`
}

type NameHistory struct {
	Generations []NameGeneration `json:"generations"`
	Total       int              `json:"total"`
}

// GenerateNames asks for business name suggestions.
func (c *Client) GenerateNames(r NamesRequest) (NameGeneration, error) {
	var g NameGeneration
	err := r.Validate()
	if err != nil {
		return g, err
	}
	err = c.form(http.MethodPost, "/business-generation/generate-simple", r.fields(), nil, &g)
	return g, err
}

func (c *Client) NameGeneration(id int) (NameGeneration, error) {
	var g NameGeneration
	err := c.request(http.MethodGet, fmt.Sprintf("/business-generation/%d", id), nil, &g)
	return g, err
}

func (c *Client) NameHistory(userID int) (NameHistory, error) {
	var h NameHistory
	err := c.request(http.MethodGet, fmt.Sprintf("/business-generation/user/%d", userID), nil, &h)
	return h, err
}

func (c *Client) DeleteNameGeneration(id int) error {
	return c.request(http.MethodDelete, fmt.Sprintf("/business-generation/%d", id), nil, nil)
}
