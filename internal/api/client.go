// Package api is a thin JSON client for the diaflow REST backend. It
// injects the bearer token of the current session into every request and
// propagates HTTP errors to the caller without retrying.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	apperrors "github.com/daniilabradorr/diaflow/internal/errors"
)

// TokenSource supplies the bearer token for a request. It is consulted on
// every call so that a logout takes effect on the very next request.
type TokenSource interface {
	Token(ctx context.Context) (string, bool)
}

type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

// NewClient creates a client rooted at baseURL. A nil TokenSource makes an
// anonymous client (used for the public kit endpoints).
func NewClient(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		tokens:  tokens,
	}
}

// StatusError is a 4xx/5xx response. The body is kept verbatim so callers
// can decide what, if anything, to surface.
type StatusError struct {
	Code int
	Body []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api: unexpected status %d: %s", e.Code, string(e.Body))
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	if !errorsAs(err, &se) {
		return false
	}
	return se.Code == code
}

func errorsAs(err error, target **StatusError) bool {
	for err != nil {
		if se, ok := err.(*StatusError); ok {
			*target = se
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, in, out)
}

func (c *Client) Patch(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPatch, path, nil, in, out)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return apperrors.NewInternalError(err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if tok, ok := c.tokens.Token(ctx); ok {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.NewNetworkError(err, method+" "+path)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.NewNetworkError(err, "read response of "+path)
	}

	if resp.StatusCode >= 400 {
		return &StatusError{Code: resp.StatusCode, Body: data}
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return apperrors.NewInternalError(fmt.Errorf("decode %s response: %w", path, err))
		}
	}
	return nil
}
