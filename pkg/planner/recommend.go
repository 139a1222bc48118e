package planner

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/sanjaymadhal/AI-Powered-Travel-Recommendation-and-Planner-using-Weather-and-Traffic-Forecast/pkg/features"
	"github.com/sanjaymadhal/AI-Powered-Travel-Recommendation-and-Planner-using-Weather-and-Traffic-Forecast/pkg/googlemaps"
	"github.com/sanjaymadhal/AI-Powered-Travel-Recommendation-and-Planner-using-Weather-and-Traffic-Forecast/pkg/itinerary"
)

// DefaultResultCount is how many places a recommendation returns when the
// request does not say.
const DefaultResultCount = 5

// Defaults applied when the destination weather is unknown, matching the
// comfortable-clear-day assumption the scorer's defaults are built around.
const (
	defaultWeatherTempC     = 25.0
	defaultWeatherCondition = "Clear"
)

// Request is one recommendation request.
type Request struct {
	// Destination is the city or area to recommend places in.
	Destination string
	// UserLocation is the traffic origin used verbatim when the destination
	// cannot be geocoded.
	UserLocation string
	// N is the number of places to return; zero means DefaultResultCount.
	N int
}

// Place is one ranked place, projected for display. Rounding matches the
// report format: score to 2 decimals, temperature and travel time to 1.
type Place struct {
	Name             string  `json:"name"`
	Address          string  `json:"address"`
	Categories       string  `json:"categories"`
	Rating           float64 `json:"rating"`
	UserRatingsTotal float64 `json:"user_ratings_total"`
	Score            float64 `json:"score"`
	TravelTimeMin    float64 `json:"travel_time_min"`
	Condition        string  `json:"condition"`
	TempC            float64 `json:"temp_c"`
	RatingDefaulted  bool    `json:"rating_defaulted,omitempty"`
	RatingsDefaulted bool    `json:"ratings_defaulted,omitempty"`
}

// Defaults records which parts of the result came from fallback values
// instead of live data, so partial outages stay visible.
type Defaults struct {
	Geocode     bool `json:"geocode,omitempty"`
	Weather     bool `json:"weather,omitempty"`
	TravelTimes int  `json:"travel_times,omitempty"`
}

// Result is a complete recommendation.
type Result struct {
	Destination string          `json:"destination"`
	Origin      string          `json:"origin"`
	Condition   string          `json:"condition"`
	TempC       float64         `json:"temp_c"`
	Places      []Place         `json:"places"`
	Days        []itinerary.Day `json:"days,omitempty"`
	Defaults    Defaults        `json:"defaults"`
	// NoPlaces is set when the destination yielded zero candidates; this is
	// a sentinel, not an error.
	NoPlaces bool `json:"no_places,omitempty"`
}

// Recommend produces a ranked list of places for the destination.
func (p *Planner) Recommend(ctx context.Context, req Request) (*Result, error) {
	if p.bundle == nil {
		return nil, errors.New("no scoring model loaded")
	}
	if strings.TrimSpace(req.Destination) == "" {
		return nil, errors.New("destination is required")
	}
	n := req.N
	if n <= 0 {
		n = DefaultResultCount
	}

	result := &Result{Destination: req.Destination}

	// Resolve the destination. When geocoding fails the pipeline keeps
	// going: the user location becomes the traffic origin as-is, the
	// weather falls back to a comfortable clear day, and place discovery
	// switches to a text search.
	var places []googlemaps.Place
	wx := features.Conditions{TempC: defaultWeatherTempC, Condition: defaultWeatherCondition}

	loc, err := p.maps.Geocode(ctx, req.Destination)
	if err != nil {
		p.logger.Warn("geocoding failed, using fallback origin and default weather",
			"destination", req.Destination, "error", err)
		result.Defaults.Geocode = true
		result.Defaults.Weather = true
		result.Origin = req.UserLocation

		places, err = p.maps.AttractionsByQuery(ctx, req.Destination)
		if err != nil {
			return nil, fmt.Errorf("place search failed: %w", err)
		}
	} else {
		result.Origin = fmt.Sprintf("%.4f,%.4f", loc.Latitude, loc.Longitude)

		if obs, wxErr := p.weather.Current(ctx, loc.Latitude, loc.Longitude); wxErr != nil {
			p.logger.Warn("weather fetch failed, using default conditions",
				"destination", req.Destination, "error", wxErr)
			result.Defaults.Weather = true
		} else {
			wx = features.Conditions{TempC: obs.TempC, Condition: obs.Condition}
		}

		places, err = p.maps.NearbyAttractions(ctx, *loc)
		if err != nil {
			return nil, fmt.Errorf("place search failed: %w", err)
		}
	}

	result.Condition = wx.Condition
	result.TempC = round1(wx.TempC)

	if len(places) == 0 {
		p.logger.Info("no places found", "destination", req.Destination)
		result.NoPlaces = true
		return result, nil
	}

	// One batched distance-matrix call for every candidate. A transport
	// failure degrades to the default travel time instead of aborting.
	dests := make([]googlemaps.Location, len(places))
	for i, pl := range places {
		dests[i] = pl.Location
	}
	travel, defaulted, err := p.maps.TravelTimes(ctx, result.Origin, dests)
	if err != nil {
		p.logger.Warn("distance matrix failed, defaulting all travel times", "error", err)
		travel = make([]float64, len(places))
		for i := range travel {
			travel[i] = googlemaps.DefaultTravelMinutes
		}
		defaulted = len(places)
	}
	result.Defaults.TravelTimes = defaulted

	cands := make([]features.Candidate, len(places))
	for i, pl := range places {
		cands[i] = features.Candidate{
			Name:             pl.Name,
			Rating:           pl.Rating,
			UserRatingsTotal: pl.UserRatingsTotal,
		}
	}
	batch := features.BuildBatch(cands, travel, wx, p.bundle.Features)
	if err := p.bundle.Validate(batch); err != nil {
		return nil, err
	}
	scores := p.bundle.Predict(batch)

	// Rank descending by score. Stable sort keeps the API's input order
	// on ties.
	order := make([]int, len(places))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	if n > len(order) {
		n = len(order)
	}
	// Display the same imputed values the scorer saw.
	meanRating := batchMean(places, func(pl googlemaps.Place) *float64 { return pl.Rating }, features.DefaultRating)
	meanTotal := batchMean(places, func(pl googlemaps.Place) *float64 { return pl.UserRatingsTotal }, features.DefaultUserRatingsTotal)
	for i := 0; i < n; i++ {
		idx := order[i]
		pl := places[idx]

		rating, ratingDefaulted := meanRating, true
		if pl.Rating != nil {
			rating, ratingDefaulted = *pl.Rating, false
		}
		total, totalDefaulted := meanTotal, true
		if pl.UserRatingsTotal != nil {
			total, totalDefaulted = *pl.UserRatingsTotal, false
		}

		result.Places = append(result.Places, Place{
			Name:             pl.Name,
			Address:          pl.Vicinity,
			Categories:       strings.Join(pl.Types, ", "),
			Rating:           rating,
			UserRatingsTotal: total,
			Score:            round2(scores[idx]),
			TravelTimeMin:    round1(travel[idx]),
			Condition:        wx.Condition,
			TempC:            round1(wx.TempC),
			RatingDefaulted:  ratingDefaulted,
			RatingsDefaulted: totalDefaulted,
		})
	}

	stops := make([]itinerary.Stop, len(result.Places))
	for i, pl := range result.Places {
		stops[i] = itinerary.Stop{
			Name:          pl.Name,
			Types:         places[order[i]].Types,
			TravelTimeMin: pl.TravelTimeMin,
		}
	}
	result.Days = itinerary.Build(stops, wx.Condition, wx.TempC)

	p.logger.Info("recommendation complete", "destination", req.Destination,
		"candidates", len(places), "returned", len(result.Places),
		"condition", wx.Condition, "temp_c", result.TempC,
		"defaulted_travel_times", defaulted)
	return result, nil
}

func batchMean(places []googlemaps.Place, field func(googlemaps.Place) *float64, fallback float64) float64 {
	var sum float64
	var n int
	for _, pl := range places {
		if v := field(pl); v != nil {
			sum += *v
			n++
		}
	}
	if n == 0 {
		return fallback
	}
	return sum / float64(n)
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round1(v float64) float64 { return math.Round(v*10) / 10 }
