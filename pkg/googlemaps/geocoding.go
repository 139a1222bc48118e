package googlemaps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// Geocode converts a free-form destination string to coordinates using the
// Google Geocoding API. A non-OK status or an empty result set is an error;
// the caller decides how to degrade.
func (c *Client) Geocode(ctx context.Context, destination string) (*Location, error) {
	if c.apiKey == "" {
		c.logger.Warn("Google Maps API key not configured - skipping geocoding", "destination", destination)
		return nil, errors.New("google Maps API key not configured")
	}

	apiURL := fmt.Sprintf("%s/maps/api/geocode/json?address=%s&key=%s",
		c.baseURL(), url.QueryEscape(destination), c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, http.NoBody)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Debug("failed to close response body", "error", err)
		}
	}()

	var result struct {
		Results []struct {
			Geometry struct {
				Location struct {
					Lat float64 `json:"lat"`
					Lng float64 `json:"lng"`
				} `json:"location"`
			} `json:"geometry"`
			FormattedAddress string `json:"formatted_address"`
		} `json:"results"`
		Status       string `json:"status"`
		ErrorMessage string `json:"error_message"`
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(body, &result); err != nil {
		c.logger.Debug("geocoding JSON parse error", "destination", destination, "error", err)
		return nil, fmt.Errorf("failed to parse geocoding response: %w", err)
	}

	if result.Status != "OK" || len(result.Results) == 0 {
		c.logger.Debug("geocoding failed", "destination", destination,
			"status", result.Status, "error_message", result.ErrorMessage)
		return nil, fmt.Errorf("geocoding failed for %s: %s", destination, result.Status)
	}

	loc := result.Results[0].Geometry.Location
	return &Location{Latitude: loc.Lat, Longitude: loc.Lng}, nil
}
