package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/akeil/bizgen"
)

type ProjectMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Project struct {
	ID          ID                     `json:"id"`
	Title       string                 `json:"title"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Prompt      string                 `json:"prompt"`
	PreviewURL  string                 `json:"preview_url"`
	Thumbnail   string                 `json:"thumbnail"`
	Status      string                 `json:"status"`
	UserID      ID                     `json:"user_id"`
	Files       map[string]interface{} `json:"files"`
	Messages    []json.RawMessage      `json:"messages"`
	CreatedAt   DateTime               `json:"created_at"`
	DeployedURL string                 `json:"deployedUrl"`
}

// DisplayName is the title, or the name for older projects.
func (p Project) DisplayName() string {
	if p.Title != "" {
		return p.Title
	}
	return p.Name
}

// History returns the chat messages of the project with their text
// extracted. Roles "assistant", "ai" and "system" are reported as
// "assistant".
func (p Project) History() []ProjectMessage {
	out := make([]ProjectMessage, 0, len(p.Messages))
	for _, raw := range p.Messages {
		var m map[string]interface{}
		if json.Unmarshal(raw, &m) != nil {
			continue
		}
		role := fmt.Sprint(firstValue(m, "role", "sender"))
		switch role {
		case "assistant", "ai", "system":
			role = "assistant"
		default:
			role = "user"
		}
		out = append(out, ProjectMessage{
			Role:    role,
			Content: ExtractText(firstValue(m, "content", "message", "data")),
		})
	}
	return out
}

func firstValue(m map[string]interface{}, keys ...string) interface{} {
	for _, k := range keys {
		v, ok := m[k]
		if ok && v != nil {
			return v
		}
	}
	return ""
}

type ProjectRequest struct {
	Title       string
	Description string
	Prompt      string
	UserID      int
}

func (r ProjectRequest) Validate() error {
	return required("Title", r.Title, "Prompt", r.Prompt)
}

// CreateProject creates a website project seeded with the prompt as first
// chat message.
func (c *Client) CreateProject(r ProjectRequest) (Project, error) {
	var p Project
	err := r.Validate()
	if err != nil {
		return p, err
	}

	payload := map[string]interface{}{
		"title":       r.Title,
		"description": r.Description,
		"prompt":      r.Prompt,
		"files":       map[string]interface{}{},
		"messages":    []ProjectMessage{{Role: "user", Content: r.Prompt}},
		"thumbnail":   "",
		"status":      "active",
		"user_id":     fmt.Sprint(r.UserID),
	}
	err = c.request(http.MethodPost, "/website-builder/projects", payload, &p)
	if err != nil {
		return p, err
	}
	if p.ID == "" {
		return p, fmt.Errorf("project created but no ID returned")
	}
	return p, nil
}

func (c *Client) Projects(userID int) ([]Project, error) {
	items := make([]Project, 0)
	err := c.request(http.MethodGet, fmt.Sprintf("/website-builder/projects/user/%d", userID), nil, &items)
	return items, err
}

func (c *Client) Project(id string) (Project, error) {
	var p Project
	err := c.request(http.MethodGet, "/website-builder/projects/"+id, nil, &p)
	return p, err
}

// UpdateProject changes fields of a project, e.g. "files" or "messages".
func (c *Client) UpdateProject(id string, fields map[string]interface{}) error {
	return c.request(http.MethodPut, "/website-builder/projects/"+id, fields, nil)
}

func (c *Client) DeleteProject(id string) error {
	return c.request(http.MethodDelete, "/website-builder/projects/"+id, nil, nil)
}

// AIChat sends a prompt to the website assistant and returns its reply.
func (c *Client) AIChat(prompt string) (string, error) {
	var res interface{}
	err := c.request(http.MethodPost, "/website-builder/ai-chat", promptPayload(prompt), &res)
	if err != nil {
		return "", err
	}
	return ExtractText(res), nil
}

// GenerateCode returns the generated project files.
func (c *Client) GenerateCode(prompt string) (map[string]interface{}, error) {
	var res struct {
		Files map[string]interface{} `json:"files"`
	}
	err := c.request(http.MethodPost, "/website-builder/generate-code", promptPayload(prompt), &res)
	if err != nil {
		return nil, err
	}
	if res.Files == nil {
		res.Files = map[string]interface{}{}
	}
	return res.Files, nil
}

// EnhancePrompt asks the backend to improve a project prompt.
// The prompt is returned unchanged if no enhancement comes back.
func (c *Client) EnhancePrompt(prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", bizgen.NewValidationError("Prompt is required")
	}
	var res struct {
		Enhanced string `json:"enhancedPrompt"`
	}
	err := c.request(http.MethodPost, "/website-builder/enhance-prompt", promptPayload(prompt), &res)
	if err != nil {
		return "", err
	}
	if res.Enhanced == "" {
		return prompt, nil
	}
	return res.Enhanced, nil
}

// HistoryPrompt serializes a chat history as prompt for the assistant.
func HistoryPrompt(msgs []ProjectMessage) (string, error) {
	data, err := json.Marshal(msgs)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func promptPayload(prompt string) interface{} {
	return struct {
		Prompt string `json:"prompt"`
	}{prompt}
}

// ExtractText finds the readable text in a loosely shaped AI response.
//
// Strings are returned as they are, lists are joined by newlines. For
// objects the usual fields are tried in order, falling back to the JSON
// encoding of the object.
func ExtractText(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []interface{}:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			s := ExtractText(item)
			if s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "\n")
	case map[string]interface{}:
		candidates := []interface{}{
			t["result"],
			t["message"],
			t["content"],
			dig(t, "choices", 0, "message", "content"),
			dig(t, "choices", 0, "text"),
			dig(t, "data", "content"),
			t["output"],
		}
		for _, c := range candidates {
			s := ExtractText(c)
			if s != "" {
				return s
			}
		}
		data, err := json.MarshalIndent(t, "", "  ")
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(data)
	}
	return fmt.Sprint(v)
}

// dig follows a path of map keys and list indices.
func dig(v interface{}, path ...interface{}) interface{} {
	for _, p := range path {
		switch key := p.(type) {
		case string:
			m, ok := v.(map[string]interface{})
			if !ok {
				return nil
			}
			v = m[key]
		case int:
			l, ok := v.([]interface{})
			if !ok || key >= len(l) {
				return nil
			}
			v = l[key]
		}
	}
	return v
}
