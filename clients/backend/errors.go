package backend

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

var (
	// ErrUnauthorized matches any APIError with status 401
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound matches any APIError with status 404
	ErrNotFound = errors.New("not found")
)

// APIError wraps a non-2xx backend response with its raw body for logging
type APIError struct {
	Method     string `json:"method"`
	Path       string `json:"path"`
	StatusCode int    `json:"status_code"`
	Detail     string `json:"detail,omitempty"`

	// RawBody is kept as text since proxies answer with HTML or plain text
	RawBody string `json:"raw_body,omitempty"`
}

func newAPIError(req *Request, statusCode int, body []byte) *APIError {
	return &APIError{
		Method:     req.Method,
		Path:       req.Path,
		StatusCode: statusCode,
		Detail:     errorDetail(body),
		RawBody:    string(body),
	}
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("backend %s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Is lets errors.Is match the status sentinels
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// errorDetail pulls the human-readable message out of an error body.
// The backend reports errors as {"detail": "..."}; validation failures carry
// a list of {"msg": "..."} objects instead.
func errorDetail(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	detail := gjson.GetBytes(body, "detail")
	if detail.IsArray() {
		if msg := detail.Get("0.msg"); msg.Exists() {
			return msg.String()
		}
		return detail.Raw
	}
	return detail.String()
}
