package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"
)

// Request describes a call to the backend API
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   any
}

// NewRequest creates a request with an empty header set
func NewRequest(method, path string) *Request {
	return &Request{
		Method: method,
		Path:   path,
		Header: make(http.Header),
	}
}

// Response is a fully read backend response
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// JSON decodes the response body into v
func (r *Response) JSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}

// Get extracts a value from the JSON body using a gjson path
func (r *Response) Get(path string) gjson.Result {
	return gjson.GetBytes(r.Body, path)
}

// Doer executes backend requests
type Doer interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// DoerFunc adapts a function to the Doer interface
type DoerFunc func(ctx context.Context, req *Request) (*Response, error)

// Do implements Doer
func (f DoerFunc) Do(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}

// Middleware decorates a Doer with a cross-cutting concern
type Middleware func(next Doer) Doer

// Chain wraps d with mw so that mw[0] is the outermost layer
func Chain(d Doer, mw ...Middleware) Doer {
	for i := len(mw) - 1; i >= 0; i-- {
		if mw[i] != nil {
			d = mw[i](d)
		}
	}
	return d
}
