package googlemaps

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient("test-key", nil, nil)
	c.BaseURL = srv.URL
	return c
}

func TestGeocode(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/maps/api/geocode/json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("address"); got != "Paris" {
			t.Errorf("address = %q, want Paris", got)
		}
		fmt.Fprint(w, `{"status":"OK","results":[{"geometry":{"location":{"lat":48.8566,"lng":2.3522}}}]}`)
	})

	loc, err := c.Geocode(context.Background(), "Paris")
	if err != nil {
		t.Fatalf("Geocode: %v", err)
	}
	if loc.Latitude != 48.8566 || loc.Longitude != 2.3522 {
		t.Errorf("location = %+v", loc)
	}
}

func TestGeocodeFailures(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"zero results", `{"status":"ZERO_RESULTS","results":[]}`},
		{"denied", `{"status":"REQUEST_DENIED","error_message":"bad key"}`},
		{"ok but empty", `{"status":"OK","results":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, tt.body)
			})
			if _, err := c.Geocode(context.Background(), "Nowhere"); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestGeocodeWithoutAPIKey(t *testing.T) {
	c := NewClient("", nil, nil)
	if _, err := c.Geocode(context.Background(), "Paris"); err == nil {
		t.Error("expected error without API key")
	}
}

func TestNearbyAttractions(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("type"); got != "tourist_attraction" {
			t.Errorf("type = %q, want tourist_attraction", got)
		}
		fmt.Fprint(w, `{"status":"OK","results":[
			{"name":"Louvre","vicinity":"Rue de Rivoli","types":["museum","tourist_attraction"],
			 "geometry":{"location":{"lat":48.86,"lng":2.33}},"rating":4.7,"user_ratings_total":250000},
			{"name":"Unrated Spot","vicinity":"Somewhere",
			 "geometry":{"location":{"lat":48.85,"lng":2.35}}}
		]}`)
	})

	places, err := c.NearbyAttractions(context.Background(), Location{Latitude: 48.8566, Longitude: 2.3522})
	if err != nil {
		t.Fatalf("NearbyAttractions: %v", err)
	}
	if len(places) != 2 {
		t.Fatalf("got %d places, want 2", len(places))
	}
	if places[0].Name != "Louvre" || *places[0].Rating != 4.7 || *places[0].UserRatingsTotal != 250000 {
		t.Errorf("place 0 = %+v", places[0])
	}
	if places[1].Rating != nil || places[1].UserRatingsTotal != nil {
		t.Errorf("missing rating fields should be nil: %+v", places[1])
	}
}

func TestNearbyAttractionsZeroResultsIsNotAnError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"status":"ZERO_RESULTS","results":[]}`)
	})
	places, err := c.NearbyAttractions(context.Background(), Location{})
	if err != nil {
		t.Fatalf("ZERO_RESULTS should not error: %v", err)
	}
	if places != nil {
		t.Errorf("places = %v, want nil", places)
	}
}

func TestNearbyAttractionsCapsAtMaxPlaces(t *testing.T) {
	body := `{"status":"OK","results":[`
	for i := range 25 {
		if i > 0 {
			body += ","
		}
		body += fmt.Sprintf(`{"name":"Place %d","geometry":{"location":{"lat":1,"lng":1}}}`, i)
	}
	body += `]}`
	c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, body)
	})

	places, err := c.NearbyAttractions(context.Background(), Location{})
	if err != nil {
		t.Fatalf("NearbyAttractions: %v", err)
	}
	if len(places) != MaxPlaces {
		t.Errorf("got %d places, want cap %d", len(places), MaxPlaces)
	}
}

func TestAttractionsByQuery(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/maps/api/place/textsearch/json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"status":"OK","results":[
			{"name":"Gateway of India","formatted_address":"Apollo Bandar, Mumbai",
			 "types":["tourist_attraction"],"geometry":{"location":{"lat":18.92,"lng":72.83}},
			 "rating":4.6,"user_ratings_total":90000}
		]}`)
	})

	places, err := c.AttractionsByQuery(context.Background(), "Mumbai")
	if err != nil {
		t.Fatalf("AttractionsByQuery: %v", err)
	}
	if len(places) != 1 {
		t.Fatalf("got %d places, want 1", len(places))
	}
	if places[0].Vicinity != "Apollo Bandar, Mumbai" {
		t.Errorf("vicinity = %q", places[0].Vicinity)
	}
}

func TestTravelTimes(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if got := q.Get("origins"); got != "48.8566,2.3522" {
			t.Errorf("origins = %q", got)
		}
		if got := q.Get("traffic_model"); got != "best_guess" {
			t.Errorf("traffic_model = %q", got)
		}
		fmt.Fprint(w, `{"status":"OK","rows":[{"elements":[
			{"status":"OK","duration":{"value":600},"duration_in_traffic":{"value":900}},
			{"status":"NOT_FOUND"},
			{"status":"OK","duration":{"value":1200}}
		]}]}`)
	})

	minutes, defaults, err := c.TravelTimes(context.Background(), "48.8566,2.3522",
		[]Location{{1, 1}, {2, 2}, {3, 3}})
	if err != nil {
		t.Fatalf("TravelTimes: %v", err)
	}
	if defaults != 1 {
		t.Errorf("defaults = %d, want 1", defaults)
	}
	// First element prefers duration_in_traffic, third falls back to duration.
	want := []float64{15, DefaultTravelMinutes, 20}
	for i := range want {
		if minutes[i] != want[i] {
			t.Errorf("minutes[%d] = %v, want %v", i, minutes[i], want[i])
		}
	}
}

func TestTravelTimesWholeBatchFailureDefaultsEverything(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"status":"OVER_QUERY_LIMIT"}`)
	})

	minutes, defaults, err := c.TravelTimes(context.Background(), "origin", []Location{{1, 1}, {2, 2}})
	if err != nil {
		t.Fatalf("batch failure should degrade, not error: %v", err)
	}
	if defaults != 2 {
		t.Errorf("defaults = %d, want 2", defaults)
	}
	for i, m := range minutes {
		if m != DefaultTravelMinutes {
			t.Errorf("minutes[%d] = %v, want %v", i, m, DefaultTravelMinutes)
		}
	}
}

func TestTravelTimesEmptyDestinations(t *testing.T) {
	c := NewClient("test-key", nil, nil)
	minutes, defaults, err := c.TravelTimes(context.Background(), "origin", nil)
	if err != nil || minutes != nil || defaults != 0 {
		t.Errorf("empty destinations: minutes=%v defaults=%d err=%v", minutes, defaults, err)
	}
}
