package api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// resolve appends the endpoint to the base URL.
//
// Unlike url.ResolveReference, a path on the base URL is kept. The endpoint
// may carry a query string.
func resolve(base, endpoint string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", err
	}

	e, err := url.Parse(endpoint)
	if err != nil {
		return "", err
	}

	if e.IsAbs() {
		return e.String(), nil
	}

	b.Path = strings.TrimRight(b.Path, "/") + "/" + strings.TrimLeft(e.Path, "/")
	b.RawPath = ""
	b.RawQuery = e.RawQuery
	b.Fragment = ""

	return b.String(), nil
}

// Claims are the fields we read from the access token.
type Claims struct {
	UserID  int
	Email   string
	Expires time.Time
}

// Expired tells if the token has an expiration time in the past.
// Tokens without expiration never expire.
func (c Claims) Expired(now time.Time) bool {
	return !c.Expires.IsZero() && c.Expires.Before(now)
}

// ParseClaims reads the payload of a JWT without verifying it.
func ParseClaims(token string) (Claims, error) {
	var c Claims

	// split the JWT into its parts (header.payload.signature),
	// we are only interested in the `payload`.
	parts := strings.Split(strings.TrimSpace(token), ".")
	if len(parts) < 2 {
		return c, fmt.Errorf("unexpected number of token segments")
	}

	// decode from base64, tolerate padding
	data, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(parts[1], "="))
	if err != nil {
		return c, err
	}

	jwt := struct {
		UserID json.Number `json:"user_id"`
		Email  string      `json:"email"`
		Exp    int64       `json:"exp"`
	}{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	err = dec.Decode(&jwt)
	if err != nil {
		return c, err
	}

	if jwt.UserID != "" {
		n, err := jwt.UserID.Int64()
		if err != nil {
			return c, fmt.Errorf("invalid user id in token: %v", err)
		}
		c.UserID = int(n)
	}

	c.Email = jwt.Email
	if jwt.Exp != 0 {
		c.Expires = time.Unix(jwt.Exp, 0)
	}

	return c, nil
}
