// Package openweather wraps the OpenWeather current-weather API.
package openweather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
)

const defaultBaseURL = "https://api.openweathermap.org"

// kelvinOffset converts the API's default Kelvin readings to Celsius.
const kelvinOffset = 273.15

// Observation is one current-weather reading. Condition is one of the API's
// fixed condition groups (Clear, Clouds, Rain, ...).
type Observation struct {
	TempC     float64 `json:"temp_c"`
	Condition string  `json:"condition"`
}

// HTTPClient interface for making HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client handles OpenWeather API operations.
type Client struct {
	apiKey     string
	httpClient HTTPClient
	logger     *slog.Logger

	// BaseURL overrides the production endpoint for tests.
	BaseURL string
}

// NewClient creates a new OpenWeather API client.
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

// Current fetches the current weather at the given coordinates. The API
// reports Kelvin; the observation is converted to Celsius.
func (c *Client) Current(ctx context.Context, lat, lng float64) (*Observation, error) {
	if c.apiKey == "" {
		return nil, errors.New("OpenWeather API key not configured")
	}

	base := c.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	apiURL := fmt.Sprintf("%s/data/2.5/weather?lat=%f&lon=%f&appid=%s", base, lat, lng, c.apiKey)

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

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather API returned status %d", resp.StatusCode)
	}

	var result struct {
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		Weather []struct {
			Main        string `json:"main"`
			Description string `json:"description"`
		} `json:"weather"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to parse weather response: %w", err)
	}
	if len(result.Weather) == 0 {
		return nil, errors.New("weather response missing condition")
	}

	obs := &Observation{
		TempC:     result.Main.Temp - kelvinOffset,
		Condition: result.Weather[0].Main,
	}
	c.logger.Debug("weather fetched", "lat", lat, "lng", lng,
		"temp_c", obs.TempC, "condition", obs.Condition)
	return obs, nil
}
