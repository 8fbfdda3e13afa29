// Package sense talks to a Sense HAT equipped Pi: one-shot sensor fetches
// over HTTP and a live websocket feed of readings.
package sense

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jwulff/picolor-go/internal/domain"
)

// TestURL is a magic device URL that serves simulated readings without any
// hardware, handy when no Pi is on the network.
const TestURL = "test"

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 15 * time.Second

// Client fetches sensor readings from one device.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a client for the device at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// FetchSensors reads one snapshot from the device.
func (c *Client) FetchSensors(ctx context.Context) (domain.SensorData, error) {
	if c.BaseURL == TestURL {
		return Simulated(), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/sensors", nil)
	if err != nil {
		return domain.SensorData{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return domain.SensorData{}, fmt.Errorf("failed to fetch sensors: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.SensorData{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return domain.SensorData{}, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(body))
	}

	var data domain.SensorData
	if err := json.Unmarshal(body, &data); err != nil {
		return domain.SensorData{}, fmt.Errorf("failed to parse sensor data: %w", err)
	}
	return data, nil
}

// Capture reads a snapshot and wraps it into a named entry for deviceID.
func (c *Client) Capture(ctx context.Context, deviceID, name string, location *domain.Geolocation) (domain.SensorEntry, error) {
	data, err := c.FetchSensors(ctx)
	if err != nil {
		return domain.SensorEntry{}, err
	}
	return domain.NewSensorEntry(deviceID, name, data, location), nil
}
