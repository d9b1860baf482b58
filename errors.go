package bizgen

import (
	"errors"
	"fmt"
	"net/http"
)

// Wrap wraps an error by prepending additional text.
// The text can contain formatting parameters.
func Wrap(err error, msg string, v ...interface{}) error {
	msg = fmt.Sprintf(msg, v...)
	return fmt.Errorf("%v: %w", msg, err)
}

type notFound struct {
	message string
}

// NewNotFound creates a new "not found" error.
func NewNotFound(s string, v ...interface{}) error {
	return asNotFound(fmt.Errorf(s, v...))
}

func (n notFound) Error() string {
	return n.message
}

func asNotFound(e error) error {
	return notFound{fmt.Sprintf("Not found: %v", e)}
}

// IsNotFound checks if the given error is a "not found" error.
func IsNotFound(err error) bool {
	var nf notFound
	return errors.As(err, &nf)
}

type validationError struct {
	message string
}

func (v validationError) Error() string {
	return v.message
}

// NewValidationError creates an error of from the given format string.
func NewValidationError(msg string, v ...interface{}) error {
	return validationError{fmt.Sprintf(msg, v...)}
}

// IsValidationError tells if the error was created with NewValidationError.
func IsValidationError(err error) bool {
	var ve validationError
	return errors.As(err, &ve)
}

type unauthorized struct {
	message string
}

func (u unauthorized) Error() string {
	return u.message
}

// NewUnauthorized creates the error for a rejected or missing access token.
func NewUnauthorized(msg string, v ...interface{}) error {
	return unauthorized{fmt.Sprintf(msg, v...)}
}

// IsUnauthorized checks if the given error is an "unauthorized" error.
func IsUnauthorized(err error) bool {
	var u unauthorized
	return errors.As(err, &u)
}

// ExpectOK checks if the given http response has status "200 - OK"
// and returns an error with the given message if not.
func ExpectOK(res *http.Response, msg string) error {
	return ExpectStatus(res, http.StatusOK, msg)
}

// ExpectSuccess accepts any 2xx status.
func ExpectSuccess(res *http.Response, msg string) error {
	if res.StatusCode >= 200 && res.StatusCode < 300 {
		return nil
	}
	return ExpectStatus(res, http.StatusOK, msg)
}

// ExpectStatus checks if the given http response has the expected status
// and returns an error with the given message if not.
func ExpectStatus(res *http.Response, expected int, msg string) error {
	code := res.StatusCode

	if code == expected {
		return nil
	}

	if msg != "" {
		msg = msg + ": "
	}

	// specific types for selected error codes
	switch code {
	case http.StatusNotFound:
		return NewNotFound("%vgot HTTP status %v", msg, code)
	case http.StatusUnauthorized:
		return NewUnauthorized("%vgot HTTP status %v", msg, code)
	}

	// unspecified errors
	return fmt.Errorf("%vgot HTTP status code %v", msg, code)
}
