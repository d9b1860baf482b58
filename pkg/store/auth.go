package store

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/akeil/bizgen/internal/fs"
	"github.com/akeil/bizgen/internal/logging"
	"github.com/akeil/bizgen/pkg/api"
)

// TokenFile keeps the access token between runs.
type TokenFile struct {
	path string
	mx   sync.Mutex
}

func NewTokenFile(path string) *TokenFile {
	return &TokenFile{path: path}
}

// Load reads the stored token.
// A missing file means there is no token.
func (t *TokenFile) Load() (string, error) {
	t.mx.Lock()
	defer t.mx.Unlock()

	data, err := os.ReadFile(t.path)
	if os.IsNotExist(err) {
		return "", nil
	} else if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (t *TokenFile) Save(token string) error {
	t.mx.Lock()
	defer t.mx.Unlock()

	err := os.MkdirAll(filepath.Dir(t.path), 0700)
	if err != nil {
		return err
	}
	return fs.WriteAtomic(t.path, bytes.NewBufferString(token))
}

// Clear removes the stored token.
func (t *TokenFile) Clear() error {
	t.mx.Lock()
	defer t.mx.Unlock()

	err := os.Remove(t.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Auth holds the signed in user.
type Auth struct {
	tokens *TokenFile

	mx            sync.RWMutex
	user          *api.User
	authenticated bool
}

func NewAuth(tokens *TokenFile) *Auth {
	return &Auth{tokens: tokens}
}

// User returns the current user, if there is one.
func (a *Auth) User() (api.User, bool) {
	a.mx.RLock()
	defer a.mx.RUnlock()
	if a.user == nil {
		return api.User{}, false
	}
	return *a.user, true
}

func (a *Auth) SetUser(u *api.User) {
	a.mx.Lock()
	defer a.mx.Unlock()
	if u == nil {
		a.user = nil
		return
	}
	user := *u
	a.user = &user
}

func (a *Auth) Authenticated() bool {
	a.mx.RLock()
	defer a.mx.RUnlock()
	return a.authenticated
}

func (a *Auth) SetAuthenticated(auth bool) {
	a.mx.Lock()
	defer a.mx.Unlock()
	a.authenticated = auth
}

// SignOut forgets the user and removes the stored token.
func (a *Auth) SignOut() error {
	a.mx.Lock()
	a.user = nil
	a.authenticated = false
	a.mx.Unlock()

	if a.tokens == nil {
		return nil
	}
	return a.tokens.Clear()
}

// Bind signs out whenever the client's token is rejected.
func (a *Auth) Bind(c *api.Client) {
	c.OnUnauthorized = func() {
		err := a.SignOut()
		if err != nil {
			logging.Warning("Failed to remove access token: %v", err)
		}
	}
}
