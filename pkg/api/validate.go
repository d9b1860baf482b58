package api

import (
	"net/mail"
	"net/url"
	"regexp"
	"strings"

	"github.com/akeil/bizgen"
)

var (
	reUpper      = regexp.MustCompile(`[A-Z]`)
	reLower      = regexp.MustCompile(`[a-z]`)
	reDigit      = regexp.MustCompile(`\d`)
	reSpecial    = regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{};':"\\|,.<>/?]`)
	reResetToken = regexp.MustCompile(`^\d{4}$`)
	reListSep    = regexp.MustCompile(`[,\n]`)
)

func validEmail(s string) bool {
	a, err := mail.ParseAddress(strings.TrimSpace(s))
	return err == nil && a.Name == "" && strings.Contains(a.Address, "@")
}

// ValidatePassword checks the rules for a new password.
func ValidatePassword(p string) error {
	switch {
	case len(p) < 6:
		return bizgen.NewValidationError("New password must be at least 6 characters")
	case !reUpper.MatchString(p):
		return bizgen.NewValidationError("Password must contain at least one uppercase letter")
	case !reLower.MatchString(p):
		return bizgen.NewValidationError("Password must contain at least one lowercase letter")
	case !reDigit.MatchString(p):
		return bizgen.NewValidationError("Password must contain at least one number")
	case !reSpecial.MatchString(p):
		return bizgen.NewValidationError("Password must contain at least one special character")
	}
	return nil
}

// ValidateResetToken checks the format of a password reset token.
func ValidateResetToken(t string) error {
	if !reResetToken.MatchString(t) {
		return bizgen.NewValidationError("Token must be 4 digits")
	}
	return nil
}

// required returns an error for the first empty field.
// Fields are given as label, value pairs.
func required(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			return bizgen.NewValidationError("%v is required", pairs[i])
		}
	}
	return nil
}

// minLength checks that a trimmed value has at least n characters.
func minLength(label, value string, n int) error {
	if len([]rune(strings.TrimSpace(value))) < n {
		return bizgen.NewValidationError("%v must be at least %d characters", label, n)
	}
	return nil
}

// SplitURLs splits a comma separated list of website URLs.
//
// Entries without scheme get "https://". Every entry must have a host name
// with a dot.
func SplitURLs(s string) ([]string, error) {
	var out []string
	for _, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if !strings.HasPrefix(entry, "http://") && !strings.HasPrefix(entry, "https://") {
			entry = "https://" + entry
		}
		u, err := url.Parse(entry)
		if err != nil || u.Hostname() == "" || !strings.Contains(u.Hostname(), ".") {
			return nil, bizgen.NewValidationError("Enter valid URL(s), e.g., https://example.com or example.com")
		}
		out = append(out, entry)
	}
	if len(out) == 0 {
		return nil, bizgen.NewValidationError("Website URL is required")
	}
	return out, nil
}

// SplitList splits user input into list items, on newlines and commas.
func SplitList(s string) []string {
	var out []string
	for _, item := range reListSep.Split(s, -1) {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
