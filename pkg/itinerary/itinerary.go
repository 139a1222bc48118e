// Package itinerary groups ranked places into a simple day-by-day plan.
// Categorization is driven by the place type tags the places API returns;
// time-of-day suggestions follow the weather.
package itinerary

import "slices"

// Category buckets for scheduling.
const (
	CategoryOutdoor = "outdoor"
	CategoryIndoor  = "indoor"
	CategoryDining  = "dining"
	CategoryMixed   = "mixed"
)

// stopsPerDay is how many places fit in one day of the plan.
const stopsPerDay = 4

var outdoorTypes = []string{"park", "zoo", "campground", "natural_feature", "amusement_park"}

var indoorTypes = []string{"museum", "art_gallery", "shopping_mall", "aquarium", "movie_theater", "library"}

var diningTypes = []string{"restaurant", "cafe", "bar", "bakery", "food"}

// Stop is one ranked place to be scheduled.
type Stop struct {
	Name          string
	Types         []string
	TravelTimeMin float64
}

// PlannedStop is a stop with its schedule slot and traffic note filled in.
type PlannedStop struct {
	Name          string
	Category      string
	BestTime      string
	Traffic       string
	TravelTimeMin float64
}

// Day is one day of the plan, in visit order.
type Day struct {
	Number int
	Stops  []PlannedStop
}

// Categorize maps a place's type tags to a scheduling category. The first
// recognized tag wins; unrecognized places are mixed.
func Categorize(types []string) string {
	for _, t := range types {
		switch {
		case slices.Contains(outdoorTypes, t):
			return CategoryOutdoor
		case slices.Contains(indoorTypes, t):
			return CategoryIndoor
		case slices.Contains(diningTypes, t):
			return CategoryDining
		}
	}
	return CategoryMixed
}

// TrafficNote labels a travel time for display: light under 20 minutes,
// moderate under 30, heavy beyond that.
func TrafficNote(travelMin float64) string {
	switch {
	case travelMin < 20:
		return "light"
	case travelMin < 30:
		return "moderate"
	default:
		return "heavy"
	}
}

// bestTime suggests a slot for a category. Outdoor stops go early when the
// weather cooperates and late afternoon otherwise, indoor stops fill midday,
// dining closes out the evening.
func bestTime(category string, outdoorFriendly bool) string {
	switch category {
	case CategoryOutdoor:
		if outdoorFriendly {
			return "morning"
		}
		return "late afternoon"
	case CategoryIndoor:
		return "midday"
	case CategoryDining:
		return "evening"
	default:
		return "anytime"
	}
}

// OutdoorFriendly reports whether the current weather suits outdoor stops:
// a clear or lightly clouded sky and a temperature that is not punishing.
func OutdoorFriendly(condition string, tempC float64) bool {
	if condition != "Clear" && condition != "Clouds" {
		return false
	}
	return tempC >= 10 && tempC <= 32
}

// Build splits the ranked stops into days of up to four stops each,
// preserving rank order, and assigns each stop a suggested time slot.
func Build(stops []Stop, condition string, tempC float64) []Day {
	if len(stops) == 0 {
		return nil
	}
	friendly := OutdoorFriendly(condition, tempC)

	var days []Day
	for start := 0; start < len(stops); start += stopsPerDay {
		end := min(start+stopsPerDay, len(stops))
		day := Day{Number: len(days) + 1}
		for _, s := range stops[start:end] {
			cat := Categorize(s.Types)
			day.Stops = append(day.Stops, PlannedStop{
				Name:          s.Name,
				Category:      cat,
				BestTime:      bestTime(cat, friendly),
				Traffic:       TrafficNote(s.TravelTimeMin),
				TravelTimeMin: s.TravelTimeMin,
			})
		}
		days = append(days, day)
	}
	return days
}
