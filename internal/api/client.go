// Package api is the typed client for the tracker backend. Every request
// carries the stored bearer token when one exists, and every response runs
// through one policy: 2xx passes, transport failures become NetworkError,
// 401 fires the session-expiry hook, other 4xx become ValidationError and
// 5xx become ServerError. No retries.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Timeout is deliberately long so a cold-starting backend does not surface
// as an outage.
const requestTimeout = 60 * time.Second

// TokenSource supplies the current bearer token, empty when logged out.
type TokenSource interface {
	Token() string
}

// Client talks to one backend.
type Client struct {
	BaseURL string

	http         *http.Client
	tokens       TokenSource
	onAuthReject func()
}

// New creates a client for baseURL. tokens may be nil for a client that
// only hits the public auth endpoints.
func New(baseURL string, tokens TokenSource) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: requestTimeout},
		tokens:  tokens,
	}
}

// OnAuthReject registers the hook invoked whenever the backend answers 401.
// The hook owns its own reentrancy guard; the client calls it on every 401.
func (c *Client) OnAuthReject(fn func()) {
	c.onAuthReject = fn
}

// do sends one request and applies the response policy. A non-nil out is
// filled from the 2xx JSON body.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	raw, err := c.doRaw(ctx, method, path, body, contentType)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// doRaw is do without JSON decoding, used for CSV downloads.
func (c *Client) doRaw(ctx context.Context, method, path string, body io.Reader, contentType string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	switch {
	case resp.StatusCode < 300:
		return raw, nil
	case resp.StatusCode == http.StatusUnauthorized:
		if c.onAuthReject != nil {
			c.onAuthReject()
		}
		return nil, &AuthError{Detail: detailOf(raw)}
	case resp.StatusCode >= 500:
		return nil, &ServerError{Status: resp.StatusCode, Detail: detailOf(raw)}
	default:
		return nil, &ValidationError{Status: resp.StatusCode, Detail: detailOf(raw)}
	}
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(payload), "application/json", out)
}

func (c *Client) putJSON(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return c.do(ctx, http.MethodPut, path, bytes.NewReader(payload), "application/json", out)
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values, out any) error {
	return c.do(ctx, http.MethodPost, path, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, "", out)
}

// postFile uploads data as the multipart "file" field.
func (c *Client) postFile(ctx context.Context, path string, data []byte, filename string, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("encode upload: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("encode upload: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("encode upload: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, &buf, w.FormDataContentType(), out)
}
