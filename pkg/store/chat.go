package store

import (
	"sync"
	"time"

	"github.com/akeil/bizgen"
	"github.com/akeil/bizgen/internal/logging"
	"github.com/akeil/bizgen/pkg/api"
)

// ChatClient is the part of the API used by Chat.
type ChatClient interface {
	ChatSessions(userID, limit int) ([]api.ChatSession, error)
	DeleteChatSession(sessionID, userID int) error
	ClearChatSessions(userID int) error
}

// Chat holds the chat sessions of the current user.
type Chat struct {
	client ChatClient
	// userID returns the id of the signed in user, from the access token
	userID func() (int, error)

	mx       sync.RWMutex
	sessions []api.ChatSession
	loading  bool
	loaded   bool
	err      error
}

// NewChat creates the session list.
//
// userID is asked for the current user when a session is deleted.
func NewChat(c ChatClient, userID func() (int, error)) *Chat {
	return &Chat{
		client:   c,
		userID:   userID,
		sessions: []api.ChatSession{},
	}
}

// Load fetches the sessions of a user.
//
// Nothing happens if the sessions are loaded or being loaded. A failure is
// kept in Err and the list can be loaded again.
func (c *Chat) Load(userID int) error {
	c.mx.Lock()
	if c.loaded || c.loading {
		c.mx.Unlock()
		return nil
	}
	c.loading = true
	c.err = nil
	c.mx.Unlock()

	logging.Debug("Load chat sessions for user %d", userID)
	sessions, err := c.client.ChatSessions(userID, api.DefaultSessionLimit)

	c.mx.Lock()
	defer c.mx.Unlock()
	c.loading = false
	if err != nil {
		c.err = err
		return err
	}
	c.sessions = sessions
	c.loaded = true
	return nil
}

// Sessions returns a copy of the session list, newest first.
func (c *Chat) Sessions() []api.ChatSession {
	c.mx.RLock()
	defer c.mx.RUnlock()
	out := make([]api.ChatSession, len(c.sessions))
	copy(out, c.sessions)
	return out
}

func (c *Chat) Loaded() bool {
	c.mx.RLock()
	defer c.mx.RUnlock()
	return c.loaded
}

func (c *Chat) Err() error {
	c.mx.RLock()
	defer c.mx.RUnlock()
	return c.err
}

// Add puts a new session at the top of the list.
func (c *Chat) Add(s api.ChatSession) {
	c.mx.Lock()
	defer c.mx.Unlock()
	c.sessions = append([]api.ChatSession{s}, c.sessions...)
}

// UpdateTitle changes the title of a listed session.
func (c *Chat) UpdateTitle(sessionID int, title string, updated time.Time) {
	c.mx.Lock()
	defer c.mx.Unlock()
	for i := range c.sessions {
		if c.sessions[i].ID == sessionID {
			c.sessions[i].Title = title
			c.sessions[i].UpdatedAt = api.DateTime{Time: updated}
		}
	}
}

// Delete removes a session for the signed in user.
func (c *Chat) Delete(sessionID int) error {
	uid, err := c.userID()
	if err != nil || uid == 0 {
		return bizgen.NewUnauthorized("User not authenticated")
	}

	err = c.client.DeleteChatSession(sessionID, uid)
	if err != nil {
		return err
	}

	c.mx.Lock()
	defer c.mx.Unlock()
	kept := c.sessions[:0]
	for _, s := range c.sessions {
		if s.ID != sessionID {
			kept = append(kept, s)
		}
	}
	c.sessions = kept
	return nil
}

// Clear removes all sessions of a user.
// The list counts as loaded afterwards.
func (c *Chat) Clear(userID int) error {
	err := c.client.ClearChatSessions(userID)
	if err != nil {
		return err
	}

	c.mx.Lock()
	defer c.mx.Unlock()
	c.sessions = []api.ChatSession{}
	c.loading = false
	c.loaded = true
	c.err = nil
	return nil
}

// Reset forgets all sessions, the next Load fetches again.
func (c *Chat) Reset() {
	c.mx.Lock()
	defer c.mx.Unlock()
	c.sessions = []api.ChatSession{}
	c.loading = false
	c.loaded = false
	c.err = nil
}
