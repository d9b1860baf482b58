package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/akeil/bizgen/internal/logging"
)

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "http://localhost:8000"

// Client is the REST client for the generation backend.
type Client struct {
	base   string
	client *http.Client

	mx    sync.RWMutex
	token string

	// OnUnauthorized is called when the backend rejects the access token.
	// The token is already cleared when it runs.
	OnUnauthorized func()
	// Notify receives the user-facing error for every failed request.
	Notify func(err error)
}

// NewClient sets up an API client for the given base URL.
//
// A zero timeout means requests never time out.
func NewClient(base, token string, timeout time.Duration) *Client {
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{
		base:   strings.TrimRight(base, "/"),
		token:  token,
		client: &http.Client{Timeout: timeout},
	}
}

// BaseURL is the backend base URL without trailing slash.
func (c *Client) BaseURL() string {
	return c.base
}

// Token returns the current access token.
func (c *Client) Token() string {
	c.mx.RLock()
	defer c.mx.RUnlock()
	return c.token
}

// SetToken replaces the access token.
func (c *Client) SetToken(token string) {
	c.mx.Lock()
	defer c.mx.Unlock()
	c.token = strings.TrimSpace(token)
}

// Claims decodes the current access token.
func (c *Client) Claims() (Claims, error) {
	return ParseClaims(c.Token())
}

// ResolveAsset turns a relative asset path returned by the backend into
// an absolute URL. Absolute URLs are returned as they are.
func (c *Client) ResolveAsset(u string) string {
	if u == "" {
		return ""
	}
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	resolved, err := resolve(c.base, u)
	if err != nil {
		return u
	}
	return resolved
}

// request sends a JSON request and decodes the JSON response into dst.
func (c *Client) request(method, endpoint string, payload, dst interface{}) error {
	req, err := newRequest(method, c.base, endpoint, c.Token(), payload)
	if err != nil {
		return fmt.Errorf("could not prepare API request: %v", err)
	}

	// log the request body
	if req.Body != nil && logging.Enabled(logging.LevelDebug) {
		data, err := io.ReadAll(req.Body)
		if err == nil {
			logging.Debug("Request body: %v", string(data))
			req.Body = io.NopCloser(bytes.NewBuffer(data))
		}
	}

	return c.do(req, dst)
}

// form sends multipart form data with an optional file.
func (c *Client) form(method, endpoint string, fields url.Values, file *File, dst interface{}) error {
	u, err := resolve(c.base, endpoint)
	if err != nil {
		return err
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, vs := range fields {
		for _, v := range vs {
			err = w.WriteField(k, v)
			if err != nil {
				return err
			}
		}
	}
	if file != nil {
		part, err := w.CreateFormFile(file.Field, file.Name)
		if err != nil {
			return err
		}
		_, err = io.Copy(part, file.Content)
		if err != nil {
			return err
		}
	}
	err = w.Close()
	if err != nil {
		return err
	}

	req, err := http.NewRequest(method, u, &body)
	if err != nil {
		return err
	}
	setHeaders(req, c.Token())
	req.Header.Set("Content-Type", w.FormDataContentType())

	return c.do(req, dst)
}

func (c *Client) do(req *http.Request, dst interface{}) error {
	logging.Debug("API %v %v", req.Method, req.URL)

	res, err := c.client.Do(req)
	if err != nil {
		return c.fail(newTransportError(req, err))
	}
	defer res.Body.Close()

	// must read body to end
	// https://golang.org/pkg/net/http/#Client.Do
	data, err := io.ReadAll(res.Body)
	if err != nil {
		return c.fail(newTransportError(req, err))
	}

	logging.Debug("API request %v %v returned status %v", req.Method, req.URL, res.StatusCode)
	logging.Debug("Response body: %v", string(data))

	apiErr := newStatusError(res, data)
	if apiErr != nil {
		if res.StatusCode == http.StatusUnauthorized {
			c.signOut()
		}
		return c.fail(apiErr)
	}

	if dst != nil && len(bytes.TrimSpace(data)) > 0 {
		err = json.Unmarshal(data, dst)
		if err != nil {
			return fmt.Errorf("failed to read API response: %v", err)
		}
	}

	return nil
}

func (c *Client) fail(err *APIError) error {
	logging.Warning("API error: %v", err)
	if c.Notify != nil {
		c.Notify(err)
	}
	return err
}

func (c *Client) signOut() {
	logging.Info("Access token rejected, sign out")
	c.SetToken("")
	if c.OnUnauthorized != nil {
		c.OnUnauthorized()
	}
}

// File is an upload for a multipart request.
type File struct {
	Field   string
	Name    string
	Content io.Reader
}

func newRequest(method, base, endpoint, token string, payload interface{}) (*http.Request, error) {
	url, err := resolve(base, endpoint)
	if err != nil {
		return nil, err
	}

	// If we have payload, encode it to JSON
	var body io.ReadWriter
	if payload != nil {
		body = &bytes.Buffer{}
		enc := json.NewEncoder(body)
		err = enc.Encode(payload)
		if err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return nil, err
	}

	setHeaders(req, token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

func setHeaders(req *http.Request, token string) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(token))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "bizgen")
}
