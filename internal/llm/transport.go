package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxErrorBody caps how much of a failed response is kept in an APIError
const maxErrorBody = 4 << 10

// APIError is a non-2xx answer from a backend
type APIError struct {
	Provider string
	Status   int
	Kind     string // Error type reported by the backend, if any
	Message  string
}

func (e *APIError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("%s returned %d (%s): %s", e.Provider, e.Status, e.Kind, e.Message)
	}
	return fmt.Sprintf("%s returned %d: %s", e.Provider, e.Status, e.Message)
}

// jsonClient talks JSON to one backend over plain HTTP
type jsonClient struct {
	provider string
	baseURL  string
	client   *http.Client
	header   http.Header

	// decodeError pulls the backend's error kind and message out of a failed response body.
	// ok is false when the body is not in the backend's error shape.
	decodeError func(body []byte) (kind, message string, ok bool)
}

func newJSONClient(provider, baseURL string, config Config) *jsonClient {
	return &jsonClient{
		provider: provider,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		client:   newHTTPClient(config),
		header:   make(http.Header),
	}
}

// do sends in (when non-nil) to path and decodes a 2xx answer into out (when non-nil)
func (c *jsonClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	for k, v := range c.header {
		req.Header[k] = v
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := &APIError{Provider: c.provider, Status: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
		if c.decodeError != nil {
			if kind, msg, ok := c.decodeError(raw); ok {
				apiErr.Kind, apiErr.Message = kind, msg
			}
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
