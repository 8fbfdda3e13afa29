// Package pi talks to the pattern endpoint of a Raspberry Pi running the
// display server, and debounces the stream of edits the picker produces.
package pi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jwulff/picolor-go/internal/domain"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 5 * time.Second

// Client sends pattern updates to a Pi. The target URL is supplied per call
// because it lives in user settings and can change between edits.
type Client struct {
	HTTPClient *http.Client
}

// NewClient creates a client with default settings.
func NewClient() *Client {
	return &Client{
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// patternUpdate is the request body of the pattern endpoint.
type patternUpdate struct {
	Matrix domain.MatrixConfig `json:"matrix"`
}

// UpdatePattern PUTs the matrix to url. An empty url is a silent no-op so
// that the feature stays dormant until the user configures their Pi.
func (c *Client) UpdatePattern(ctx context.Context, url string, config domain.MatrixConfig) error {
	if url == "" {
		return nil
	}

	data, err := json.Marshal(patternUpdate{Matrix: config})
	if err != nil {
		return fmt.Errorf("failed to marshal pattern: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(body))
	}

	return nil
}
