package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/daniilabradorr/diaflow/internal/logger"
)

// envelope is the DRF pagination wrapper some endpoints answer with.
type envelope struct {
	Results json.RawMessage `json:"results"`
}

// DecodeList normalizes a collection response that may be either a bare
// JSON array or a paginated envelope holding a "results" array. Any other
// shape is rejected: silently treating it as empty would hide data loss.
func DecodeList[T any](raw json.RawMessage) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("api: empty list response")
	}

	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("api: decode list: %w", err)
		}
		return items, nil
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("api: decode list envelope: %w", err)
	}
	if env.Results == nil {
		logger.Warn("Unrecognized list response shape", "body_prefix", previewOf(trimmed))
		return nil, fmt.Errorf("api: unrecognized list response shape")
	}

	var items []T
	if err := json.Unmarshal(env.Results, &items); err != nil {
		return nil, fmt.Errorf("api: decode list results: %w", err)
	}
	return items, nil
}

// GetList fetches a collection endpoint and normalizes its shape.
func GetList[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	var raw json.RawMessage
	if err := c.Get(ctx, path, query, &raw); err != nil {
		return nil, err
	}
	return DecodeList[T](raw)
}

func previewOf(b []byte) string {
	const max = 120
	if len(b) > max {
		b = b[:max]
	}
	return string(b)
}
