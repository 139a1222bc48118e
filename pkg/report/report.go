// Package report renders a recommendation as a colored terminal table.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/sanjaymadhal/AI-Powered-Travel-Recommendation-and-Planner-using-Weather-and-Traffic-Forecast/pkg/gemini"
	"github.com/sanjaymadhal/AI-Powered-Travel-Recommendation-and-Planner-using-Weather-and-Traffic-Forecast/pkg/itinerary"
	"github.com/sanjaymadhal/AI-Powered-Travel-Recommendation-and-Planner-using-Weather-and-Traffic-Forecast/pkg/planner"
)

// trafficColor maps a traffic note to its display color.
func trafficColor(note string) *color.Color {
	switch note {
	case "light":
		return color.New(color.FgGreen)
	case "moderate":
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed)
	}
}

// conditionColor picks a color for a weather condition group.
func conditionColor(condition string) *color.Color {
	switch condition {
	case "Clear":
		return color.New(color.FgYellow)
	case "Clouds", "Mist", "Haze", "Fog":
		return color.New(color.FgHiBlack)
	case "Rain", "Drizzle", "Thunderstorm", "Snow":
		return color.New(color.FgBlue)
	default:
		return color.New(color.Reset)
	}
}

// Write renders the recommendation to w.
func Write(w io.Writer, res *planner.Result) {
	bold := color.New(color.Bold)
	warn := color.New(color.FgYellow)

	fmt.Fprintln(w)
	bold.Fprintf(w, "Top places in %s\n", res.Destination)
	fmt.Fprintln(w, strings.Repeat("─", 60))

	wx := conditionColor(res.Condition)
	fmt.Fprintf(w, "Weather: %s, %.1f°C", wx.Sprint(res.Condition), res.TempC)
	if res.Defaults.Weather {
		warn.Fprint(w, "  (assumed, live weather unavailable)")
	}
	fmt.Fprintln(w)
	if res.Defaults.Geocode {
		warn.Fprintf(w, "Destination could not be geocoded; traffic measured from %q\n", res.Origin)
	}
	if res.Defaults.TravelTimes > 0 {
		warn.Fprintf(w, "%d travel time(s) fell back to the 30-minute default\n", res.Defaults.TravelTimes)
	}
	fmt.Fprintln(w)

	if res.NoPlaces {
		fmt.Fprintln(w, "No places found for this destination.")
		return
	}

	bold.Fprintf(w, "%-3s %-32s %6s %7s %8s\n", "#", "Place", "Rating", "Score", "Travel")
	for i, p := range res.Places {
		name := p.Name
		if len(name) > 32 {
			name = name[:29] + "..."
		}
		rating := fmt.Sprintf("%.1f", p.Rating)
		if p.RatingDefaulted {
			rating += "*"
		}
		travel := trafficColor(itinerary.TrafficNote(p.TravelTimeMin)).Sprintf("%5.1fm", p.TravelTimeMin)
		fmt.Fprintf(w, "%-3d %-32s %6s %7.2f %8s\n", i+1, name, rating, p.Score, travel)
	}
	if anyRatingDefaulted(res.Places) {
		fmt.Fprintln(w, "  * rating not reported, imputed")
	}
}

// WriteItinerary renders the day-by-day plan to w.
func WriteItinerary(w io.Writer, res *planner.Result) {
	if len(res.Days) == 0 {
		return
	}
	bold := color.New(color.Bold)
	fmt.Fprintln(w)
	bold.Fprintln(w, "Suggested itinerary")
	for _, day := range res.Days {
		fmt.Fprintf(w, "  Day %d\n", day.Number)
		for _, stop := range day.Stops {
			traffic := trafficColor(stop.Traffic).Sprint(stop.Traffic)
			fmt.Fprintf(w, "    %-32s %-10s %-14s traffic %s\n",
				stop.Name, stop.Category, stop.BestTime, traffic)
		}
	}
}

// WriteSummary renders the Gemini trip summary to w.
func WriteSummary(w io.Writer, summary *gemini.Response) {
	if summary == nil || summary.Summary == "" {
		return
	}
	bold := color.New(color.Bold)
	fmt.Fprintln(w)
	bold.Fprintln(w, "Trip summary")
	fmt.Fprintf(w, "  %s\n", summary.Summary)
	for _, tip := range summary.Tips {
		fmt.Fprintf(w, "  • %s\n", tip)
	}
	if summary.BestTimeToVisit != "" {
		fmt.Fprintf(w, "  Best time for the top pick: %s\n", summary.BestTimeToVisit)
	}
}

func anyRatingDefaulted(places []planner.Place) bool {
	for _, p := range places {
		if p.RatingDefaulted {
			return true
		}
	}
	return false
}
