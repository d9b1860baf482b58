package api

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akeil/bizgen"
)

func makeToken(t *testing.T, claims map[string]interface{}) string {
	data, err := json.Marshal(claims)
	require.NoError(t, err)
	enc := base64.RawURLEncoding
	return enc.EncodeToString([]byte(`{"alg":"HS256"}`)) + "." + enc.EncodeToString(data) + ".sig"
}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/api/", "", 0)
}

func TestResolve(t *testing.T) {
	cases := []struct {
		base, ep, want string
	}{
		{"http://host", "/auth/signin", "http://host/auth/signin"},
		{"http://host/api", "/auth/signin", "http://host/api/auth/signin"},
		{"http://host/api/", "chat/sessions/1?limit=25", "http://host/api/chat/sessions/1?limit=25"},
		{"http://host/api", "https://cdn.example.com/x.png", "https://cdn.example.com/x.png"},
	}
	for _, c := range cases {
		got, err := resolve(c.base, c.ep)
		require.NoError(t, err)
		assert.Equal(t, c.want, got)
	}
}

func TestParseClaims(t *testing.T) {
	tok := makeToken(t, map[string]interface{}{
		"user_id": 42,
		"email":   "me@example.com",
		"exp":     1700000000,
	})

	c, err := ParseClaims(tok)
	require.NoError(t, err)
	assert.Equal(t, 42, c.UserID)
	assert.Equal(t, "me@example.com", c.Email)
	assert.Equal(t, time.Unix(1700000000, 0), c.Expires)
	assert.True(t, c.Expired(time.Unix(1700000001, 0)))

	_, err = ParseClaims("garbage")
	assert.Error(t, err)

	c, err = ParseClaims(makeToken(t, map[string]interface{}{"sub": "x"}))
	require.NoError(t, err)
	assert.Equal(t, 0, c.UserID)
	assert.False(t, c.Expired(time.Now()))
}

func TestErrorMessage(t *testing.T) {
	cases := []struct {
		body string
		want string
	}{
		{`{"detail": "Invalid credentials"}`, "Invalid credentials"},
		{`{"detail": [{"msg": "field required"}, {"message": "too short"}]}`, "field required; too short"},
		{`{"detail": ["plain", {"loc": 1}]}`, `plain; {"loc": 1}`},
		{`{"message": "Something broke"}`, "Something broke"},
		{`{"error": {"message": "nested"}}`, "nested"},
		{`{"detail": "", "message": "fallback"}`, "fallback"},
		{`not json`, ""},
		{`{"error": "a string"}`, ""},
		{`{"error": "a string", "message": "still read"}`, "still read"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, errorMessage([]byte(c.body)), c.body)
	}
}

func TestStatusError(t *testing.T) {
	var notified []error
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/logo/1":
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `{"detail": "Logo not found"}`)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	})
	c.Notify = func(err error) { notified = append(notified, err) }

	_, err := c.Logo(1)
	require.Error(t, err)
	assert.Equal(t, "Logo not found", err.Error())
	assert.True(t, bizgen.IsNotFound(err))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)

	_, err = c.Logo(2)
	require.Error(t, err)
	assert.Equal(t, "Request failed with status code 500", err.Error())

	assert.Len(t, notified, 2)
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 20*time.Millisecond)
	_, err := c.Videos(1)
	require.Error(t, err)
	assert.Equal(t, timeoutMessage, err.Error())
}

func TestUnauthorized(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"detail": "Could not validate credentials"}`)
	})
	c.SetToken("expired")
	signedOut := false
	c.OnUnauthorized = func() { signedOut = true }

	_, err := c.Profile()
	require.Error(t, err)
	assert.True(t, bizgen.IsUnauthorized(err))
	assert.True(t, signedOut)
	assert.Equal(t, "", c.Token())
}

func TestSignin(t *testing.T) {
	tok := makeToken(t, map[string]interface{}{"user_id": 7})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/signin":
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			var body SigninRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "me@example.com", body.Email)
			json.NewEncoder(w).Encode(SigninResponse{AccessToken: tok, TokenType: "bearer"})
		case "/api/auth/profile":
			assert.Equal(t, "Bearer "+tok, r.Header.Get("Authorization"))
			io.WriteString(w, `{"id": 7, "email": "me@example.com", "fullname": "Me", "photo": "/p.png"}`)
		}
	})

	_, err := c.Signin(SigninRequest{Email: "nope", Password: "x"})
	assert.True(t, bizgen.IsValidationError(err))

	got, err := c.Signin(SigninRequest{Email: "me@example.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, tok, got)
	assert.Equal(t, tok, c.Token())

	claims, err := c.Claims()
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)

	p, err := c.Profile()
	require.NoError(t, err)
	assert.Equal(t, Profile{ID: 7, Email: "me@example.com", Name: "Me", ImageURL: "/p.png"}, p)
}

func TestDocuments(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/documents/nda/user/3":
			io.WriteString(w, `[{
				"id": 11, "user_id": 3,
				"disclosing_party": "Acme", "receiving_party": "Globex",
				"ai_generated_content": "# NDA",
				"input_data": {"logo_url": "/logo.png"},
				"created_at": "2024-05-01T10:00:00.123456"
			}]`)
		case r.Method == http.MethodPut && r.URL.Path == "/api/documents/contract/5":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			io.WriteString(w, `{"id": 5, "contract_type": "Services", "ai_generated_content": "`+body["ai_generated_content"]+`"}`)
		case r.Method == http.MethodDelete && r.URL.Path == "/api/documents/privacy-policy/9":
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected request %v %v", r.Method, r.URL)
		}
	})

	docs, err := c.ListDocuments(bizgen.NDA, 3)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	d := docs[0]
	assert.Equal(t, 11, d.ID)
	assert.Equal(t, bizgen.NDA, d.Kind)
	assert.Equal(t, "/logo.png", d.LogoURL)
	assert.Equal(t, "Acme", d.Name())
	assert.Equal(t, []bizgen.Field{
		{Label: "Disclosing Party", Value: "Acme"},
		{Label: "Receiving Party", Value: "Globex"},
	}, d.Header)
	assert.Equal(t, 2024, d.Created.Year())

	repo := NewRepository(c)
	doc := &bizgen.Document{ID: 5, Kind: bizgen.Contract, Content: "new text"}
	require.NoError(t, repo.Update(doc))
	assert.Equal(t, "new text", doc.Content)
	assert.Equal(t, "Services", doc.Name())

	require.NoError(t, repo.Delete(bizgen.PrivacyPolicy, 9))

	_, err = c.GenerateDocument(NDARequest{UserID: 3, DisclosingParty: "Acme"})
	assert.True(t, bizgen.IsValidationError(err))
}

func TestGenerateDeck(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/presentation/presentation/generate-unified", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "5", r.FormValue("slides_count"))
		assert.Equal(t, "A rocket company for everyone", r.FormValue("prompt"))
		assert.Equal(t, "2", r.FormValue("user_id"))
		assert.Equal(t, "false", r.FormValue("generate_images"))
		_, ok := r.MultipartForm.Value["tone"]
		assert.False(t, ok, "empty optional fields are not sent")
		io.WriteString(w, `{"success": true, "presentation_id": 77, "presentation_xml": "<SECTION></SECTION>"}`)
	})

	no := false
	req := GenerateDeckRequest{
		SlidesCount:    5,
		Prompt:         "A rocket company for everyone",
		UserID:         2,
		WebsiteURLs:    "acme.com, https://blog.acme.com",
		GenerateImages: &no,
	}
	res, err := c.GenerateDeck(req)
	require.NoError(t, err)
	assert.Equal(t, 77, res.PresentationID)
}

func TestGenerateDeckValidate(t *testing.T) {
	base := GenerateDeckRequest{SlidesCount: 10, Prompt: "long enough prompt", UserID: 1}
	assert.NoError(t, base.Validate())

	r := base
	r.SlidesCount = 2
	assert.Error(t, r.Validate())
	r.SlidesCount = 21
	assert.Error(t, r.Validate())

	r = base
	r.Prompt = "too short"
	assert.Error(t, r.Validate())

	r = base
	r.WebsiteURLs = "localhost"
	assert.Error(t, r.Validate())

	r = base
	r.RevenuePlan = "tbd"
	assert.Error(t, r.Validate())
}

func TestSplitURLs(t *testing.T) {
	urls, err := SplitURLs(" acme.com ,, http://x.io/path ")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://acme.com", "http://x.io/path"}, urls)

	_, err = SplitURLs(" , ")
	assert.Error(t, err)
	_, err = SplitURLs("acme.com, intranet")
	assert.Error(t, err)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SplitList("a, b\n c,,"))
}

func TestSaveTheme(t *testing.T) {
	var (
		echo  string
		fresh string
	)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			io.WriteString(w, `{"id": 1, "theme": "`+echo+`"}`)
		case http.MethodGet:
			io.WriteString(w, `{"id": 1, "content": {"theme": "`+fresh+`"}}`)
		}
	})

	echo = "#ff5e3a"
	p, err := c.SaveTheme(1, "#FF5E3A")
	require.NoError(t, err)
	assert.Equal(t, "#ff5e3a", p.ThemeValue())

	echo, fresh = "", "#FF5E3A"
	p, err = c.SaveTheme(1, "#FF5E3A")
	require.NoError(t, err)
	assert.Equal(t, "#FF5E3A", p.ThemeValue())

	echo, fresh = "blue", ""
	_, err = c.SaveTheme(1, "#FF5E3A")
	require.Error(t, err)
	assert.Equal(t, "theme not saved, server returned: blue", err.Error())

	echo, fresh = "", ""
	_, err = c.SaveTheme(1, "#FF5E3A")
	assert.Equal(t, "theme not saved, server returned: <none>", err.Error())
}

func TestSlidesXML(t *testing.T) {
	var p PresentationDetail
	require.NoError(t, json.Unmarshal([]byte(`{"id": "3", "content": {"slides": "`+"```xml\\n<SECTION></SECTION>```"+`"}}`), &p))
	assert.Equal(t, ID("3"), p.ID)
	assert.Equal(t, "<SECTION></SECTION>", p.SlidesXML())

	p = PresentationDetail{}
	require.NoError(t, json.Unmarshal([]byte(`{"id": 3, "content": {"slides": [{"xml": "<SECTION/>"}]}}`), &p))
	assert.Equal(t, ID("3"), p.ID)
	assert.Equal(t, "<SECTION/>", p.SlidesXML())

	p = PresentationDetail{}
	assert.Equal(t, "", p.SlidesXML())
}

func TestPresentationImages(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/presentation/presentation/1/images":
			io.WriteString(w, `["/a.png", "/b.png"]`)
		case "/api/presentation/presentation/2/images":
			io.WriteString(w, `{"images": ["/c.png"]}`)
		default:
			io.WriteString(w, `{"other": true}`)
		}
	})

	imgs, err := c.PresentationImages(1)
	require.NoError(t, err)
	assert.Equal(t, []string{"/a.png", "/b.png"}, imgs)

	imgs, err = c.PresentationImages(2)
	require.NoError(t, err)
	assert.Equal(t, []string{"/c.png"}, imgs)

	imgs, err = c.PresentationImages(3)
	require.NoError(t, err)
	assert.Empty(t, imgs)

	assert.True(t, strings.HasSuffix(c.ResolveAsset("/a.png"), "/api/a.png"))
	assert.Equal(t, "https://x/y.png", c.ResolveAsset("https://x/y.png"))
}

func TestGenerateImage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req GenerateImageRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, SlideImageSize, req.Size)
		assert.Equal(t, SlideImageQuality, req.Quality)
		assert.Equal(t, SlideImageContext, req.Context)
		if req.Prompt == "fail" {
			io.WriteString(w, `{"success": false, "error": "quota exceeded"}`)
			return
		}
		io.WriteString(w, `{"success": true, "url": "/img/`+req.Prompt+`.png"}`)
	})

	gen := c.SlideImageGenerator()
	url, err := gen(deckRequest(4, 1, "team"))
	require.NoError(t, err)
	assert.Equal(t, "/img/team.png", url)

	_, err = gen(deckRequest(4, 1, "fail"))
	require.Error(t, err)
	assert.Equal(t, "quota exceeded", err.Error())
}

func TestExtractText(t *testing.T) {
	var v interface{}
	require.NoError(t, json.Unmarshal([]byte(`{"choices": [{"message": {"content": "hi there"}}]}`), &v))
	assert.Equal(t, "hi there", ExtractText(v))

	require.NoError(t, json.Unmarshal([]byte(`["a", "", {"result": "b"}]`), &v))
	assert.Equal(t, "a\nb", ExtractText(v))

	require.NoError(t, json.Unmarshal([]byte(`{"data": {"content": "deep"}}`), &v))
	assert.Equal(t, "deep", ExtractText(v))

	require.NoError(t, json.Unmarshal([]byte(`{"x": 1}`), &v))
	assert.Equal(t, "{\n  \"x\": 1\n}", ExtractText(v))

	assert.Equal(t, "", ExtractText(nil))
}

func TestDateTime(t *testing.T) {
	var v struct {
		A DateTime `json:"a"`
		B DateTime `json:"b"`
		C DateTime `json:"c"`
	}
	err := json.Unmarshal([]byte(`{"a": "2024-01-02T03:04:05Z", "b": "2024-01-02T03:04:05.5", "c": null}`), &v)
	require.NoError(t, err)
	assert.Equal(t, 2024, v.A.Year())
	assert.Equal(t, 500*time.Millisecond, time.Duration(v.B.Nanosecond()))
	assert.True(t, v.C.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`{"a": "yesterday"}`), &v))
}
