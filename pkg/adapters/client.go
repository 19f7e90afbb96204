package adapters

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"context"
)

const (
	// UserAgent mirrors what the vendor shops expect from a browser.
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	acceptHeader = "application/json, text/plain, */*"

	maxBodyBytes = 4 << 20
)

// Client is the shared outbound HTTP client for JSON providers. Every call
// carries the browser-like headers and the configured hard timeout.
type Client struct {
	http *http.Client
}

// NewClient creates a Client with the given request timeout.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		http: &http.Client{Timeout: timeout},
	}
}

// GetJSON fetches url and returns a JSON payload. If the provider answers
// with a rendered HTML page instead of raw JSON and marker is non-empty,
// one attempt is made to pull the embedded JSON blob out of the document
// before giving up.
func (c *Client) GetJSON(ctx context.Context, url, marker string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", acceptHeader)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	trimmed := bytes.TrimSpace(body)
	if json.Valid(trimmed) {
		return trimmed, nil
	}
	if marker != "" {
		if blob, ok := ExtractEmbeddedJSON(trimmed, marker); ok {
			return blob, nil
		}
	}
	return nil, fmt.Errorf("payload is not JSON")
}

// ExtractEmbeddedJSON locates marker inside an HTML/script payload and
// returns the first balanced JSON object or array that follows it.
// Vendors that render pages server-side tend to park their state in a
// script tag like `window.__STATE__ = {...};`.
func ExtractEmbeddedJSON(body []byte, marker string) ([]byte, bool) {
	idx := bytes.Index(body, []byte(marker))
	if idx < 0 {
		return nil, false
	}
	rest := body[idx+len(marker):]

	start := bytes.IndexAny(rest, "{[")
	if start < 0 {
		return nil, false
	}
	rest = rest[start:]

	open, close := rest[0], byte('}')
	if open == '[' {
		close = ']'
	}

	depth := 0
	inString := false
	escaped := false
	for i, b := range rest {
		if inString {
			switch {
			case escaped:
				escaped = false
			case b == '\\':
				escaped = true
			case b == '"':
				inString = false
			}
			continue
		}
		switch b {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				blob := rest[:i+1]
				if json.Valid(blob) {
					return blob, true
				}
				return nil, false
			}
		}
	}
	return nil, false
}
