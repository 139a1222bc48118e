package planner

import "github.com/sanjaymadhal/AI-Powered-Travel-Recommendation-and-Planner-using-Weather-and-Traffic-Forecast/pkg/model"

// Option configures a Planner.
type Option func(*OptionHolder)

// WithMapsAPIKey sets the Google Maps API key used for geocoding, place
// search, and the distance matrix.
func WithMapsAPIKey(key string) Option {
	return func(o *OptionHolder) {
		o.mapsAPIKey = key
	}
}

// WithWeatherAPIKey sets the OpenWeather API key.
func WithWeatherAPIKey(key string) Option {
	return func(o *OptionHolder) {
		o.weatherAPIKey = key
	}
}

// WithGeminiAPIKey sets the Gemini API key for the optional trip summary.
func WithGeminiAPIKey(key string) Option {
	return func(o *OptionHolder) {
		o.geminiAPIKey = key
	}
}

// WithGeminiModel sets the Gemini model for the trip summary.
func WithGeminiModel(model string) Option {
	return func(o *OptionHolder) {
		o.geminiModel = model
	}
}

// WithModel sets the trained scoring bundle.
func WithModel(b *model.Bundle) Option {
	return func(o *OptionHolder) {
		o.bundle = b
	}
}

// WithCacheDir sets the cache directory for API responses.
func WithCacheDir(dir string) Option {
	return func(o *OptionHolder) {
		o.cacheDir = dir
	}
}

// WithNoCache disables response caching entirely.
func WithNoCache() Option {
	return func(o *OptionHolder) {
		o.noCache = true
	}
}

// WithMemoryOnlyCache uses an in-memory cache that is never persisted,
// for server use.
func WithMemoryOnlyCache() Option {
	return func(o *OptionHolder) {
		o.memoryOnlyCache = true
	}
}

// OptionHolder holds configuration options.
type OptionHolder struct {
	mapsAPIKey      string
	weatherAPIKey   string
	geminiAPIKey    string
	geminiModel     string
	cacheDir        string
	bundle          *model.Bundle
	noCache         bool
	memoryOnlyCache bool
}
