package googlemaps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// MaxPlaces caps how many candidates a nearby search returns; the Places API
// serves at most 20 results per page and the recommender never needs more.
const MaxPlaces = 20

// defaultSearchRadiusMeters matches the original planner's 5 km search.
const defaultSearchRadiusMeters = 5000

// Place is one candidate returned by the Places Nearby Search API. Rating
// and UserRatingsTotal are nil when the API omits them.
type Place struct {
	Name             string   `json:"name"`
	Vicinity         string   `json:"vicinity"`
	Types            []string `json:"types"`
	Location         Location `json:"location"`
	Rating           *float64 `json:"rating,omitempty"`
	UserRatingsTotal *float64 `json:"user_ratings_total,omitempty"`
}

// NearbyAttractions searches for tourist attractions around the given
// coordinates. ZERO_RESULTS yields an empty, non-error slice.
func (c *Client) NearbyAttractions(ctx context.Context, loc Location) ([]Place, error) {
	if c.apiKey == "" {
		return nil, errors.New("google Maps API key not configured")
	}

	apiURL := fmt.Sprintf("%s/maps/api/place/nearbysearch/json?location=%f,%f&radius=%d&type=tourist_attraction&key=%s",
		c.baseURL(), loc.Latitude, loc.Longitude, defaultSearchRadiusMeters, c.apiKey)

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
			Name     string `json:"name"`
			Vicinity string `json:"vicinity"`
			Geometry struct {
				Location struct {
					Lat float64 `json:"lat"`
					Lng float64 `json:"lng"`
				} `json:"location"`
			} `json:"geometry"`
			Types            []string `json:"types"`
			Rating           *float64 `json:"rating"`
			UserRatingsTotal *float64 `json:"user_ratings_total"`
		} `json:"results"`
		Status       string `json:"status"`
		ErrorMessage string `json:"error_message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to parse places response: %w", err)
	}

	if result.Status == "ZERO_RESULTS" {
		return nil, nil
	}
	if result.Status != "OK" {
		c.logger.Debug("places search failed", "status", result.Status, "error_message", result.ErrorMessage)
		return nil, fmt.Errorf("places search failed: %s", result.Status)
	}

	places := make([]Place, 0, len(result.Results))
	for _, r := range result.Results {
		if len(places) >= MaxPlaces {
			break
		}
		places = append(places, Place{
			Name:             r.Name,
			Vicinity:         r.Vicinity,
			Types:            r.Types,
			Location:         Location{Latitude: r.Geometry.Location.Lat, Longitude: r.Geometry.Location.Lng},
			Rating:           r.Rating,
			UserRatingsTotal: r.UserRatingsTotal,
		})
	}
	c.logger.Debug("places search completed", "count", len(places))
	return places, nil
}

// AttractionsByQuery searches for attractions by free-form text. It covers
// the case where the destination could not be geocoded, so no coordinates
// are available for a nearby search. Same result shape and ZERO_RESULTS
// handling as NearbyAttractions.
func (c *Client) AttractionsByQuery(ctx context.Context, destination string) ([]Place, error) {
	if c.apiKey == "" {
		return nil, errors.New("google Maps API key not configured")
	}

	apiURL := fmt.Sprintf("%s/maps/api/place/textsearch/json?query=%s&key=%s",
		c.baseURL(), url.QueryEscape("tourist attractions in "+destination), c.apiKey)

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
			Name             string `json:"name"`
			FormattedAddress string `json:"formatted_address"`
			Geometry         struct {
				Location struct {
					Lat float64 `json:"lat"`
					Lng float64 `json:"lng"`
				} `json:"location"`
			} `json:"geometry"`
			Types            []string `json:"types"`
			Rating           *float64 `json:"rating"`
			UserRatingsTotal *float64 `json:"user_ratings_total"`
		} `json:"results"`
		Status       string `json:"status"`
		ErrorMessage string `json:"error_message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to parse places response: %w", err)
	}

	if result.Status == "ZERO_RESULTS" {
		return nil, nil
	}
	if result.Status != "OK" {
		c.logger.Debug("text search failed", "status", result.Status, "error_message", result.ErrorMessage)
		return nil, fmt.Errorf("places text search failed: %s", result.Status)
	}

	places := make([]Place, 0, len(result.Results))
	for _, r := range result.Results {
		if len(places) >= MaxPlaces {
			break
		}
		places = append(places, Place{
			Name:             r.Name,
			Vicinity:         r.FormattedAddress,
			Types:            r.Types,
			Location:         Location{Latitude: r.Geometry.Location.Lat, Longitude: r.Geometry.Location.Lng},
			Rating:           r.Rating,
			UserRatingsTotal: r.UserRatingsTotal,
		})
	}
	c.logger.Debug("text search completed", "destination", destination, "count", len(places))
	return places, nil
}
