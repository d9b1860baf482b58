package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/akeil/bizgen"
)

// DefaultSessionLimit is the number of chat sessions listed at once.
const DefaultSessionLimit = 25

type ChatMessage struct {
	ID         int      `json:"id"`
	SessionID  int      `json:"session_id"`
	UserID     int      `json:"user_id"`
	Role       string   `json:"role"`
	Content    string   `json:"content"`
	Timestamp  DateTime `json:"timestamp"`
	TokenCount int      `json:"token_count"`
}

// IsReply tells if the message was written by the assistant.
func (m ChatMessage) IsReply() bool {
	return m.Role == "assistant"
}

type ChatSession struct {
	ID        int           `json:"id"`
	UserID    int           `json:"user_id"`
	Title     string        `json:"title"`
	CreatedAt DateTime      `json:"created_at"`
	UpdatedAt DateTime      `json:"updated_at"`
	Active    bool          `json:"is_active"`
	Messages  []ChatMessage `json:"messages"`
}

// LastReply returns the last assistant message from a list.
func LastReply(msgs []ChatMessage) (ChatMessage, bool) {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].IsReply() {
			return msgs[i], true
		}
	}
	return ChatMessage{}, false
}

// CreateChatSession starts a new chat session.
func (c *Client) CreateChatSession(userID int, title string) (ChatSession, error) {
	var s ChatSession
	payload := struct {
		UserID int    `json:"user_id"`
		Title  string `json:"title"`
	}{userID, title}
	err := c.request(http.MethodPost, "/chat/sessions", payload, &s)
	if s.Messages == nil {
		s.Messages = []ChatMessage{}
	}
	return s, err
}

// ChatSessions lists the most recent chat sessions of a user.
func (c *Client) ChatSessions(userID, limit int) ([]ChatSession, error) {
	if limit <= 0 {
		limit = DefaultSessionLimit
	}
	items := make([]ChatSession, 0)
	ep := fmt.Sprintf("/chat/sessions/%d?limit=%d", userID, limit)
	err := c.request(http.MethodGet, ep, nil, &items)
	return items, err
}

// ChatMessages returns the messages of a session.
func (c *Client) ChatMessages(sessionID, userID int) ([]ChatMessage, error) {
	items := make([]ChatMessage, 0)
	ep := fmt.Sprintf("/chat/sessions/%d/messages?user_id=%d", sessionID, userID)
	err := c.request(http.MethodGet, ep, nil, &items)
	return items, err
}

// RenameChatSession changes the title of a session.
func (c *Client) RenameChatSession(sessionID, userID int, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return bizgen.NewValidationError("Title cannot be empty")
	}
	q := url.Values{}
	q.Set("user_id", fmt.Sprint(userID))
	q.Set("title", title)
	ep := fmt.Sprintf("/chat/sessions/%d/title?%v", sessionID, q.Encode())
	return c.request(http.MethodPut, ep, nil, nil)
}

// SendMessage posts a user message and returns the messages the backend
// sends back, which include the reply.
func (c *Client) SendMessage(userID, sessionID int, content string) ([]ChatMessage, error) {
	if strings.TrimSpace(content) == "" {
		return nil, bizgen.NewValidationError("message is empty")
	}
	payload := struct {
		UserID    int    `json:"user_id"`
		Content   string `json:"content"`
		SessionID int    `json:"session_id"`
	}{userID, content, sessionID}

	items := make([]ChatMessage, 0)
	err := c.request(http.MethodPost, "/chat/message", payload, &items)
	return items, err
}

// DeleteChatSession removes a session.
func (c *Client) DeleteChatSession(sessionID, userID int) error {
	ep := fmt.Sprintf("/chat/sessions/%d?user_id=%d", sessionID, userID)
	return c.request(http.MethodDelete, ep, nil, nil)
}

// ClearChatSessions removes all sessions of a user.
func (c *Client) ClearChatSessions(userID int) error {
	return c.request(http.MethodDelete, fmt.Sprintf("/chat/sessions/user/%d", userID), nil, nil)
}
