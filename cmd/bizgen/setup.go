package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/akeil/bizgen"
	"github.com/akeil/bizgen/pkg/api"
	"github.com/akeil/bizgen/pkg/render"
	"github.com/akeil/bizgen/pkg/store"
)

const (
	checkmark = "\u2713"
	crossmark = "\u2717"
	ellipsis  = "\u2026"
)

// env bundles what the commands need.
type env struct {
	s      settings
	client *api.Client
	tokens *store.TokenFile
	auth   *store.Auth
	cache  bizgen.Cache
	drafts *bizgen.Drafts
	// requests guards the website builder operations
	requests *store.Requests
}

func setup(s settings) (*env, error) {
	tokens := store.NewTokenFile(s.tokenPath())
	token, err := tokens.Load()
	if err != nil {
		return nil, err
	}

	client := api.NewClient(s.BaseURL, token, s.Timeout)
	client.Notify = func(err error) {
		fmt.Fprintf(os.Stderr, "%v %v\n", crossmark, err)
	}

	auth := store.NewAuth(tokens)
	auth.SetAuthenticated(token != "")
	auth.Bind(client)

	cache := bizgen.NewFilesystemCache(s.cacheDir())

	return &env{
		s:      s,
		client: client,
		tokens: tokens,
		auth:   auth,
		cache:  cache,
		drafts: bizgen.NewDrafts(cache),

		requests: store.NewRequests(),
	}, nil
}

// userID reads the signed in user from the access token.
func (e *env) userID() (int, error) {
	if e.client.Token() == "" {
		return 0, bizgen.NewUnauthorized("not signed in, use 'bizgen login'")
	}
	claims, err := e.client.Claims()
	if err != nil {
		return 0, bizgen.Wrap(err, "invalid access token")
	}
	if claims.UserID == 0 {
		return 0, bizgen.NewUnauthorized("access token has no user id")
	}
	return claims.UserID, nil
}

// email is the email from the access token, or the configured fallback.
func (e *env) email() string {
	claims, err := e.client.Claims()
	if err == nil && claims.Email != "" {
		return claims.Email
	}
	return e.s.FallbackEmail
}

func (e *env) repo() bizgen.Repository {
	return api.NewRepository(e.client)
}

func (e *env) renderContext() *render.Context {
	rc := render.NewContext(&http.Client{Timeout: e.s.Timeout}, e.cache)
	rc.Resolve = e.client.ResolveAsset
	return rc
}
