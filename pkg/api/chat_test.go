package api

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akeil/bizgen/pkg/deck"
)

func deckRequest(deckID, slide int, query string) deck.ImageRequest {
	return deck.ImageRequest{Deck: deckID, Slide: slide, Query: query, Email: "me@example.com"}
}

func TestChat(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/chat/sessions/4":
			assert.Equal(t, "25", r.URL.Query().Get("limit"))
			io.WriteString(w, `[{"id": 1, "title": "First"}]`)
		case r.Method == http.MethodPost && r.URL.Path == "/api/chat/sessions":
			io.WriteString(w, `{"id": 2, "user_id": 4, "title": "New Chat"}`)
		case r.Method == http.MethodPut && r.URL.Path == "/api/chat/sessions/2/title":
			assert.Equal(t, "4", r.URL.Query().Get("user_id"))
			assert.Equal(t, "A & B", r.URL.Query().Get("title"))
		case r.Method == http.MethodPost && r.URL.Path == "/api/chat/message":
			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, float64(2), body["session_id"])
			io.WriteString(w, `[{"id": 1, "role": "user", "content": "hi"}, {"id": 2, "role": "assistant", "content": "hello"}]`)
		case r.Method == http.MethodDelete && r.URL.Path == "/api/chat/sessions/2":
			assert.Equal(t, "4", r.URL.Query().Get("user_id"))
		default:
			t.Errorf("unexpected request %v %v", r.Method, r.URL)
		}
	})

	sessions, err := c.ChatSessions(4, 0)
	require.NoError(t, err)
	assert.Equal(t, "First", sessions[0].Title)

	s, err := c.CreateChatSession(4, "New Chat")
	require.NoError(t, err)
	assert.Equal(t, 2, s.ID)
	assert.NotNil(t, s.Messages)

	require.NoError(t, c.RenameChatSession(2, 4, " A & B "))
	assert.Error(t, c.RenameChatSession(2, 4, "  "))

	msgs, err := c.SendMessage(4, 2, "hi")
	require.NoError(t, err)
	reply, ok := LastReply(msgs)
	assert.True(t, ok)
	assert.Equal(t, "hello", reply.Content)

	require.NoError(t, c.DeleteChatSession(2, 4))
}

func TestNames(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "playful", r.FormValue("name_tone"))
		assert.Equal(t, "3", r.FormValue("no_of_names"))
		assert.Equal(t, "coffee shop", r.FormValue("prompts"))
		io.WriteString(w, `{"id": 1, "generated_names": ["Bean There", "Brewtiful", "Grind"]}`)
	})

	req := NamesRequest{UserID: 1, Tone: "playful", Industry: "food", Prompt: "coffee shop", Count: 3}
	g, err := c.GenerateNames(req)
	require.NoError(t, err)
	assert.Len(t, g.Names, 3)

	req.Count = 51
	_, err = c.GenerateNames(req)
	assert.Error(t, err)
}

func TestWebsiteProject(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/website-builder/projects":
			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "9", body["user_id"])
			assert.Equal(t, "active", body["status"])
			io.WriteString(w, `{"id": 12, "title": "Shop", "messages": [{"role": "user", "content": "a shop"}, {"sender": "ai", "content": {"result": "ok"}}]}`)
		case "/api/website-builder/enhance-prompt":
			io.WriteString(w, `{"enhancedPrompt": "a better shop"}`)
		case "/api/website-builder/generate-code":
			io.WriteString(w, `{"files": {"/App.js": "export default 1"}}`)
		}
	})

	p, err := c.CreateProject(ProjectRequest{Title: "Shop", Prompt: "a shop", UserID: 9})
	require.NoError(t, err)
	assert.Equal(t, ID("12"), p.ID)
	assert.Equal(t, []ProjectMessage{
		{Role: "user", Content: "a shop"},
		{Role: "assistant", Content: "ok"},
	}, p.History())

	enhanced, err := c.EnhancePrompt("a shop")
	require.NoError(t, err)
	assert.Equal(t, "a better shop", enhanced)

	files, err := c.GenerateCode("[]")
	require.NoError(t, err)
	assert.Equal(t, "export default 1", files["/App.js"])
}
