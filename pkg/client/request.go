package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Request describes one call relative to the client's base URL.
type Request struct {
	Method string
	Path   string
	Query  url.Values

	// Body is JSON encoded when non-nil.
	Body any
}

// NewHTTPRequest builds the *http.Request for r.
func (c *Client) NewHTTPRequest(ctx context.Context, r Request) (*http.Request, error) {
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	u := strings.TrimRight(c.config.BaseURL, "/") + "/" + strings.TrimLeft(r.Path, "/")
	if len(r.Query) > 0 {
		u += "?" + r.Query.Encode()
	}

	var body io.Reader
	if r.Body != nil {
		data, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// Raw performs r and returns the response body.
// Responses with status >= 400 become *APIError.
func (c *Client) Raw(ctx context.Context, r Request) ([]byte, error) {
	req, err := c.NewHTTPRequest(ctx, r)
	if err != nil {
		return nil, err
	}

	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{
			App:        c.config.App,
			StatusCode: resp.StatusCode,
			ErrorClass: ErrorClassNetwork,
			Message:    "read response body",
			Err:        err,
		}
	}

	if resp.StatusCode >= 400 {
		return nil, &APIError{
			App:        c.config.App,
			StatusCode: resp.StatusCode,
			ErrorClass: classify(resp, nil),
			Message:    resp.Status,
			Body:       excerpt(body),
		}
	}

	return body, nil
}

// DoJSON performs r and decodes the JSON response into out.
// A nil out discards the body.
func (c *Client) DoJSON(ctx context.Context, r Request, out any) error {
	body, err := c.Raw(ctx, r)
	if err != nil {
		return err
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", r.Method, r.Path, err)
	}
	return nil
}
