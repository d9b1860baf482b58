package store

import (
	"errors"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akeil/bizgen"
	"github.com/akeil/bizgen/pkg/api"
)

func TestTokenFile(t *testing.T) {
	tf := NewTokenFile(filepath.Join(t.TempDir(), "bizgen", "token"))

	tok, err := tf.Load()
	require.NoError(t, err)
	assert.Equal(t, "", tok)

	require.NoError(t, tf.Save("abc.def.ghi"))
	tok, err = tf.Load()
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", tok)

	require.NoError(t, tf.Clear())
	require.NoError(t, tf.Clear())
	tok, err = tf.Load()
	require.NoError(t, err)
	assert.Equal(t, "", tok)
}

func TestAuthSignOut(t *testing.T) {
	tf := NewTokenFile(filepath.Join(t.TempDir(), "token"))
	require.NoError(t, tf.Save("token"))

	a := NewAuth(tf)
	a.SetUser(&api.User{ID: 1, Email: "me@example.com"})
	a.SetAuthenticated(true)

	u, ok := a.User()
	assert.True(t, ok)
	assert.Equal(t, 1, u.ID)

	c := api.NewClient("http://localhost", "token", 0)
	a.Bind(c)
	require.NotNil(t, c.OnUnauthorized)
	c.OnUnauthorized()

	_, ok = a.User()
	assert.False(t, ok)
	assert.False(t, a.Authenticated())
	tok, err := tf.Load()
	require.NoError(t, err)
	assert.Equal(t, "", tok)
}

type mockChat struct {
	mx       sync.Mutex
	sessions []api.ChatSession
	calls    int
	deleted  []int
	cleared  int
	fail     error
	block    chan struct{}
}

func (m *mockChat) ChatSessions(userID, limit int) ([]api.ChatSession, error) {
	if m.block != nil {
		<-m.block
	}
	m.mx.Lock()
	defer m.mx.Unlock()
	m.calls++
	if m.fail != nil {
		return nil, m.fail
	}
	return m.sessions, nil
}

func (m *mockChat) DeleteChatSession(sessionID, userID int) error {
	m.mx.Lock()
	defer m.mx.Unlock()
	m.deleted = append(m.deleted, sessionID)
	return m.fail
}

func (m *mockChat) ClearChatSessions(userID int) error {
	m.mx.Lock()
	defer m.mx.Unlock()
	m.cleared = userID
	return m.fail
}

func userID(id int) func() (int, error) {
	return func() (int, error) { return id, nil }
}

func TestChatLoadOnce(t *testing.T) {
	m := &mockChat{sessions: []api.ChatSession{{ID: 1, Title: "one"}, {ID: 2, Title: "two"}}}
	c := NewChat(m, userID(7))

	require.NoError(t, c.Load(7))
	require.NoError(t, c.Load(7))
	assert.Equal(t, 1, m.calls)
	assert.True(t, c.Loaded())
	assert.Len(t, c.Sessions(), 2)

	c.Reset()
	assert.False(t, c.Loaded())
	assert.Empty(t, c.Sessions())
	require.NoError(t, c.Load(7))
	assert.Equal(t, 2, m.calls)
}

func TestChatLoadConcurrent(t *testing.T) {
	m := &mockChat{block: make(chan struct{})}
	c := NewChat(m, userID(7))

	done := make(chan struct{})
	go func() {
		c.Load(7)
		close(done)
	}()

	// wait until the first load is in flight
	require.Eventually(t, func() bool {
		c.mx.RLock()
		defer c.mx.RUnlock()
		return c.loading
	}, time.Second, time.Millisecond)

	// skipped while loading
	assert.NoError(t, c.Load(7))
	close(m.block)
	<-done
	assert.Equal(t, 1, m.calls)
}

func TestChatLoadError(t *testing.T) {
	m := &mockChat{fail: errors.New("Failed to load chat sessions")}
	c := NewChat(m, userID(7))

	err := c.Load(7)
	assert.Error(t, err)
	assert.Equal(t, err, c.Err())
	assert.False(t, c.Loaded())

	m.fail = nil
	require.NoError(t, c.Load(7))
	assert.NoError(t, c.Err())
}

func TestChatEdit(t *testing.T) {
	m := &mockChat{sessions: []api.ChatSession{{ID: 1, Title: "one"}, {ID: 2, Title: "two"}}}
	c := NewChat(m, userID(7))
	require.NoError(t, c.Load(7))

	c.Add(api.ChatSession{ID: 3, Title: "New Chat"})
	assert.Equal(t, 3, c.Sessions()[0].ID)

	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	c.UpdateTitle(3, "Pricing questions", now)
	s := c.Sessions()[0]
	assert.Equal(t, "Pricing questions", s.Title)
	assert.Equal(t, now, s.UpdatedAt.Time)

	require.NoError(t, c.Delete(1))
	assert.Equal(t, []int{1}, m.deleted)
	ids := []int{}
	for _, s := range c.Sessions() {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []int{3, 2}, ids)

	require.NoError(t, c.Clear(7))
	assert.Equal(t, 7, m.cleared)
	assert.Empty(t, c.Sessions())
	assert.True(t, c.Loaded())
}

func TestChatDeleteUnauthenticated(t *testing.T) {
	m := &mockChat{}
	c := NewChat(m, func() (int, error) { return 0, errors.New("no token") })

	err := c.Delete(1)
	assert.True(t, bizgen.IsUnauthorized(err))
	assert.Empty(t, m.deleted)

	c = NewChat(m, userID(0))
	assert.True(t, bizgen.IsUnauthorized(c.Delete(1)))
}

type mockProfile struct {
	profile api.Profile
	fail    error
}

func (m *mockProfile) Profile() (api.Profile, error) {
	return m.profile, m.fail
}

func (m *mockProfile) UpdateProfile(r api.UpdateProfileRequest) (api.Profile, error) {
	if r.Name != nil {
		m.profile.Name = *r.Name
	}
	return m.profile, m.fail
}

func (m *mockProfile) UploadProfileImage(name string, r io.Reader) (api.Profile, error) {
	m.profile.ImageURL = "/uploads/" + name
	return m.profile, m.fail
}

func TestProfile(t *testing.T) {
	m := &mockProfile{profile: api.Profile{ID: 1, Name: "Me"}}
	p := NewProfile(m)

	_, ok := p.Get()
	assert.False(t, ok)

	require.NoError(t, p.Fetch())
	got, ok := p.Get()
	assert.True(t, ok)
	assert.Equal(t, "Me", got.Name)

	name := "You"
	require.NoError(t, p.Update(api.UpdateProfileRequest{Name: &name}))
	got, _ = p.Get()
	assert.Equal(t, "You", got.Name)

	require.NoError(t, p.UploadImage("me.png", nil))
	got, _ = p.Get()
	assert.Equal(t, "/uploads/me.png", got.ImageURL)

	m.fail = errors.New("Failed to update profile")
	assert.Error(t, p.Update(api.UpdateProfileRequest{Name: &name}))
	assert.Equal(t, m.fail, p.Err())
	assert.False(t, p.Loading())

	// the cached profile survives a failure
	_, ok = p.Get()
	assert.True(t, ok)

	p.Clear()
	_, ok = p.Get()
	assert.False(t, ok)
	assert.NoError(t, p.Err())
}

func TestRequests(t *testing.T) {
	r := NewRequests()

	id, err := r.Begin(AIChat)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.True(t, r.InProgress(AIChat))
	assert.False(t, r.InProgress(GenerateCode))

	_, err = r.Begin(AIChat)
	assert.ErrorIs(t, err, ErrInProgress)

	// stale ids do not end the current request
	r.End(AIChat, "req_other")
	assert.True(t, r.InProgress(AIChat))

	r.End(AIChat, id)
	assert.False(t, r.InProgress(AIChat))
	assert.Equal(t, RequestState{}, r.State(AIChat))
}

func TestRequestsDo(t *testing.T) {
	r := NewRequests()

	err := r.Do(EnhancePrompt, func() error {
		assert.True(t, r.InProgress(EnhancePrompt))
		inner := r.Do(EnhancePrompt, func() error { return nil })
		assert.ErrorIs(t, inner, ErrInProgress)
		return errors.New("boom")
	})
	assert.EqualError(t, err, "boom")
	assert.False(t, r.InProgress(EnhancePrompt))
}

func TestChatTitle(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", "New Chat"},
		{"   \n  ", "New Chat"},
		{"Hello there", "Hello there"},
		{"  **How** do I _price_ my `SaaS`?\nsecond line", "How do I price my SaaS?"},
		{"# Heading", "Heading"},
		{"See [the docs](https://example.com) now", "See the docs now"},
		{"Look ![diagram](https://example.com/a.png) here", "Look here"},
		{"***", "New Chat"},
		{"a\tb   c", "a b c"},
		{
			"Write a detailed business plan for a coffee shop in the city center",
			"Write a detailed business plan for a coffee shop...",
		},
		{
			"Supercalifragilisticexpialidocious-and-more-words-without spaces",
			"Supercalifragilisticexpialidocious-and-more-words-...",
		},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ChatTitle(c.in), c.in)
	}
}
