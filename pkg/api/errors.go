package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/akeil/bizgen"
)

// APIError is returned for failed requests.
//
// Message is suitable to be shown to the user. The underlying error can be
// tested with bizgen.IsNotFound and bizgen.IsUnauthorized.
type APIError struct {
	Status  int
	Method  string
	URL     string
	Message string
	cause   error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.cause
}

// Timeout tells if the request failed because it timed out.
func (e *APIError) Timeout() bool {
	var ne net.Error
	return errors.As(e.cause, &ne) && ne.Timeout()
}

const timeoutMessage = "Request timed out. Please try again."

func newTransportError(req *http.Request, err error) *APIError {
	e := &APIError{
		Method:  req.Method,
		URL:     req.URL.String(),
		Message: err.Error(),
		cause:   err,
	}
	if e.Timeout() {
		e.Message = timeoutMessage
	}
	return e
}

// newStatusError checks the response status.
// Returns nil for 2xx responses.
func newStatusError(res *http.Response, body []byte) *APIError {
	cause := bizgen.ExpectSuccess(res, "")
	if cause == nil {
		return nil
	}

	e := &APIError{
		Status: res.StatusCode,
		cause:  cause,
	}
	if res.Request != nil {
		e.Method = res.Request.Method
		e.URL = res.Request.URL.String()
	}

	e.Message = errorMessage(body)
	if e.Message == "" {
		e.Message = fmt.Sprintf("Request failed with status code %d", res.StatusCode)
	}

	return e
}

type errorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
	Error   struct {
		Message string `json:"message"`
	} `json:"error"`
}

// errorMessage builds the user-facing message from an error response.
//
// The "detail" field wins. It may be a string or a list of validation
// errors with "msg" or "message". Otherwise "message" is used.
func errorMessage(body []byte) string {
	var eb errorBody
	err := json.Unmarshal(body, &eb)
	if err != nil {
		// error.message is a string field, other shapes are ignored
		var loose struct {
			Detail  json.RawMessage `json:"detail"`
			Message string          `json:"message"`
		}
		if json.Unmarshal(body, &loose) != nil {
			return ""
		}
		eb.Detail = loose.Detail
		eb.Message = loose.Message
	}

	msg := detailMessage(eb.Detail)
	if msg != "" {
		return msg
	}
	if eb.Message != "" {
		return eb.Message
	}
	return eb.Error.Message
}

func detailMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}

	var list []json.RawMessage
	if json.Unmarshal(raw, &list) != nil {
		return ""
	}

	parts := make([]string, 0, len(list))
	for _, item := range list {
		var d struct {
			Msg     string `json:"msg"`
			Message string `json:"message"`
		}
		switch {
		case json.Unmarshal(item, &s) == nil:
			parts = append(parts, s)
		case json.Unmarshal(item, &d) == nil && d.Msg != "":
			parts = append(parts, d.Msg)
		case d.Message != "":
			parts = append(parts, d.Message)
		default:
			parts = append(parts, string(item))
		}
	}

	return strings.Join(parts, "; ")
}
