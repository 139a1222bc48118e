// Package googlemaps wraps the Google Maps web APIs used by the planner:
// Geocoding, Places Nearby Search, and the Distance Matrix.
package googlemaps

import (
	"log/slog"
	"net/http"
)

const defaultBaseURL = "https://maps.googleapis.com"

// Location represents a geographic location with coordinates.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// HTTPClient interface for making HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client handles Google Maps API operations.
type Client struct {
	apiKey     string
	httpClient HTTPClient
	logger     *slog.Logger

	// BaseURL overrides the production endpoint; tests point it at a local
	// server. Empty means the real API.
	BaseURL string
}

// NewClient creates a new Google Maps API client.
func NewClient(apiKey string, httpClient HTTPClient, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		apiKey:     apiKey,
		httpClient: httpClient,
		logger:     logger,
	}
}

func (c *Client) baseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return defaultBaseURL
}
