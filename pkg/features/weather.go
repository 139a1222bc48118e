// Package features derives the numeric feature schema shared by the training
// pipeline and the live recommender.
package features

import "sort"

// Feature column names, in the order the model is trained on.
const (
	FeatureWeatherQuality   = "Weather Quality"
	FeatureTrafficLevel     = "Traffic Level"
	FeatureTempComfort      = "Temp_Comfort"
	FeatureRating           = "Rating"
	FeatureUserRatingsTotal = "User Ratings Total"
)

// TrainingSchema is the canonical feature order used by the offline pipeline.
func TrainingSchema() []string {
	return []string{
		FeatureWeatherQuality,
		FeatureTrafficLevel,
		FeatureTempComfort,
		FeatureRating,
		FeatureUserRatingsTotal,
	}
}

// conditionQuality maps OpenWeather condition groups to a travel-friendliness
// score. The 15 groups cover everything the current-weather API returns.
var conditionQuality = map[string]float64{
	"Clear":        10,
	"Clouds":       8,
	"Mist":         7,
	"Haze":         7,
	"Fog":          6,
	"Dust":         6,
	"Smoke":        6,
	"Drizzle":      5,
	"Sand":         5,
	"Rain":         4,
	"Snow":         4,
	"Squall":       3,
	"Ash":          3,
	"Thunderstorm": 3,
	"Tornado":      2,
}

// UnknownConditionQuality is used for conditions outside the fixed table.
const UnknownConditionQuality = 5

// KnownConditions lists the condition groups in the quality table, sorted.
func KnownConditions() []string {
	names := make([]string, 0, len(conditionQuality))
	for name := range conditionQuality {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WeatherQuality scores a weather condition for sightseeing. Conditions not
// in the table score UnknownConditionQuality.
func WeatherQuality(condition string) float64 {
	if q, ok := conditionQuality[condition]; ok {
		return q
	}
	return UnknownConditionQuality
}

// IdealTempC is the temperature at which TempComfort peaks.
const IdealTempC = 24.0

// TempComfort scores a temperature in [0,10], peaking at IdealTempC and
// decaying symmetrically by half a point per degree.
func TempComfort(tempC float64) float64 {
	diff := tempC - IdealTempC
	if diff < 0 {
		diff = -diff
	}
	return clamp(10-diff/2, 0, 10)
}

// TrafficLevel normalizes a travel time in minutes to [0,10].
func TrafficLevel(travelMinutes float64) float64 {
	return clamp(travelMinutes/10, 0, 10)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
