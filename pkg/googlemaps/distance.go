package googlemaps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// DefaultTravelMinutes is substituted for any destination the Distance
// Matrix cannot answer for, instead of failing the whole batch.
const DefaultTravelMinutes = 30.0

// TravelTimes queries the Distance Matrix once for one origin and every
// destination, returning per-destination travel minutes in input order.
// origin is passed verbatim, so it may be "lat,lng" or a free-form location
// string. Individual failed elements fall back to DefaultTravelMinutes; the
// second return value counts how many did.
func (c *Client) TravelTimes(ctx context.Context, origin string, dests []Location) ([]float64, int, error) {
	if c.apiKey == "" {
		return nil, 0, errors.New("google Maps API key not configured")
	}
	if len(dests) == 0 {
		return nil, 0, nil
	}

	var destParts []string
	for _, d := range dests {
		destParts = append(destParts, fmt.Sprintf("%f,%f", d.Latitude, d.Longitude))
	}
	apiURL := fmt.Sprintf("%s/maps/api/distancematrix/json?origins=%s&destinations=%s&departure_time=now&traffic_model=best_guess&key=%s",
		c.baseURL(), url.QueryEscape(origin), url.QueryEscape(strings.Join(destParts, "|")), c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, http.NoBody)
	if err != nil {
		return nil, 0, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Debug("failed to close response body", "error", err)
		}
	}()

	var result struct {
		Rows []struct {
			Elements []struct {
				Status   string `json:"status"`
				Duration struct {
					Value float64 `json:"value"`
				} `json:"duration"`
				DurationInTraffic struct {
					Value float64 `json:"value"`
				} `json:"duration_in_traffic"`
			} `json:"elements"`
		} `json:"rows"`
		Status       string `json:"status"`
		ErrorMessage string `json:"error_message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, 0, fmt.Errorf("failed to parse distance matrix response: %w", err)
	}

	minutes := make([]float64, len(dests))
	defaults := 0

	if result.Status != "OK" || len(result.Rows) == 0 {
		c.logger.Warn("distance matrix unavailable, defaulting every travel time",
			"status", result.Status, "error_message", result.ErrorMessage, "destinations", len(dests))
		for i := range minutes {
			minutes[i] = DefaultTravelMinutes
		}
		return minutes, len(dests), nil
	}

	elements := result.Rows[0].Elements
	for i := range minutes {
		if i >= len(elements) || elements[i].Status != "OK" {
			minutes[i] = DefaultTravelMinutes
			defaults++
			continue
		}
		seconds := elements[i].DurationInTraffic.Value
		if seconds == 0 {
			seconds = elements[i].Duration.Value
		}
		minutes[i] = seconds / 60
	}

	if defaults > len(dests)/2 {
		c.logger.Warn("more than half of travel times fell back to defaults",
			"defaults", defaults, "destinations", len(dests))
	}
	return minutes, defaults, nil
}
