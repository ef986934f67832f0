package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is where the backend listens in local development
	DefaultBaseURL = "http://localhost:8000"

	// DefaultTimeout bounds a single HTTP attempt
	DefaultTimeout = 10 * time.Second
)

// HTTPDoer is the terminal Doer that talks to the backend over net/http
type HTTPDoer struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewHTTPDoer creates a transport for baseURL with the given per-attempt timeout
func NewHTTPDoer(baseURL string, timeout time.Duration) *HTTPDoer {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPDoer{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// Do sends req and reads the full response. Non-2xx responses are returned
// together with an *APIError so middleware can inspect both.
func (h *HTTPDoer) Do(ctx context.Context, req *Request) (*Response, error) {
	target := h.BaseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s %s request: %w", req.Method, req.Path, err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	for key, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	client := h.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s %s response body: %w", req.Method, req.Path, err)
	}

	out := &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       bodyBytes,
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return out, newAPIError(req, resp.StatusCode, bodyBytes)
	}
	return out, nil
}
