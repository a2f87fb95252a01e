package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"streamdvr/pkg/types"
)

// client talks to a running daemon over its HTTP surface.
type client struct {
	base       string
	httpClient *http.Client
	raw        bool
}

// apiError is a non-2xx reply decoded from types.ErrorResponse.
type apiError struct {
	Status int
	Msg    string
}

func (e *apiError) Error() string { return fmt.Sprintf("server returned %d: %s", e.Status, e.Msg) }

func newClient(base string, raw bool) *client {
	return &client{
		base:       strings.TrimRight(base, "/"),
		httpClient: &http.Client{Timeout: 60 * time.Second},
		raw:        raw,
	}
}

// do sends body (when non-nil) as JSON and decodes a 2xx reply into out.
// The undecoded body is returned for --json output.
func (c *client) do(ctx context.Context, method, path string, body, out any) ([]byte, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		var er types.ErrorResponse
		if json.Unmarshal(b, &er) == nil && er.Error != "" {
			return b, &apiError{Status: resp.StatusCode, Msg: er.Error}
		}
		return b, &apiError{Status: resp.StatusCode, Msg: strings.TrimSpace(string(b))}
	}
	if out != nil {
		if err := json.Unmarshal(b, out); err != nil {
			return b, fmt.Errorf("decode response: %w", err)
		}
	}
	return b, nil
}

func streamerPath(name, suffix string) string {
	return "/streamers/" + url.PathEscape(name) + suffix
}
