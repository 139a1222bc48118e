package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/sanjaymadhal/AI-Powered-Travel-Recommendation-and-Planner-using-Weather-and-Traffic-Forecast/pkg/gemini"
	"github.com/sanjaymadhal/AI-Powered-Travel-Recommendation-and-Planner-using-Weather-and-Traffic-Forecast/pkg/itinerary"
	"github.com/sanjaymadhal/AI-Powered-Travel-Recommendation-and-Planner-using-Weather-and-Traffic-Forecast/pkg/planner"
)

func init() {
	color.NoColor = true
}

func sampleResult() *planner.Result {
	return &planner.Result{
		Destination: "Paris",
		Origin:      "48.8566,2.3522",
		Condition:   "Clear",
		TempC:       15.9,
		Places: []planner.Place{
			{Name: "Louvre", Address: "Rue de Rivoli", Categories: "museum", Rating: 4.7,
				UserRatingsTotal: 250000, Score: 62.51, TravelTimeMin: 11, Condition: "Clear", TempC: 15.9},
			{Name: "Jardin du Luxembourg", Categories: "park", Rating: 4.6,
				UserRatingsTotal: 90000, Score: 58.2, TravelTimeMin: 18, Condition: "Clear", TempC: 15.9},
		},
		Days: []itinerary.Day{
			{Number: 1, Stops: []itinerary.PlannedStop{
				{Name: "Louvre", Category: "indoor", BestTime: "midday", Traffic: "light", TravelTimeMin: 11},
			}},
		},
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	Write(&buf, sampleResult())
	out := buf.String()

	for _, want := range []string{
		"Top places in Paris",
		"Clear, 15.9°C",
		"Louvre",
		"62.51",
		"Jardin du Luxembourg",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "assumed") || strings.Contains(out, "could not be geocoded") {
		t.Errorf("no default warnings expected:\n%s", out)
	}
}

func TestWriteDefaultsWarnings(t *testing.T) {
	res := sampleResult()
	res.Defaults = planner.Defaults{Geocode: true, Weather: true, TravelTimes: 2}
	res.Origin = "Bangalore"

	var buf bytes.Buffer
	Write(&buf, res)
	out := buf.String()

	for _, want := range []string{
		"assumed, live weather unavailable",
		`traffic measured from "Bangalore"`,
		"2 travel time(s) fell back",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteNoPlaces(t *testing.T) {
	res := &planner.Result{Destination: "Atlantis", Condition: "Clear", TempC: 25, NoPlaces: true}

	var buf bytes.Buffer
	Write(&buf, res)
	if !strings.Contains(buf.String(), "No places found") {
		t.Errorf("sentinel message missing:\n%s", buf.String())
	}
}

func TestWriteDefaultedRatingMarker(t *testing.T) {
	res := sampleResult()
	res.Places[1].RatingDefaulted = true

	var buf bytes.Buffer
	Write(&buf, res)
	out := buf.String()
	if !strings.Contains(out, "4.6*") {
		t.Errorf("defaulted rating not marked:\n%s", out)
	}
	if !strings.Contains(out, "rating not reported, imputed") {
		t.Errorf("marker legend missing:\n%s", out)
	}
}

func TestWriteItinerary(t *testing.T) {
	var buf bytes.Buffer
	WriteItinerary(&buf, sampleResult())
	out := buf.String()

	for _, want := range []string{"Suggested itinerary", "Day 1", "Louvre", "midday", "light"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	WriteItinerary(&buf, &planner.Result{})
	if buf.Len() != 0 {
		t.Errorf("empty plan should write nothing, got %q", buf.String())
	}
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	WriteSummary(&buf, &gemini.Response{
		Summary:         "A clear day for museums and gardens.",
		Tips:            []string{"Book Louvre tickets ahead."},
		BestTimeToVisit: "morning",
	})
	out := buf.String()

	for _, want := range []string{"Trip summary", "A clear day", "Book Louvre tickets", "morning"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	WriteSummary(&buf, nil)
	if buf.Len() != 0 {
		t.Errorf("nil summary should write nothing, got %q", buf.String())
	}
}
