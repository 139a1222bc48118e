package planner

import (
	"context"
	"errors"

	"github.com/sanjaymadhal/AI-Powered-Travel-Recommendation-and-Planner-using-Weather-and-Traffic-Forecast/pkg/gemini"
)

// Summarize asks Gemini for a short narrative trip summary of a completed
// recommendation. Optional: requires a Gemini API key and a non-empty
// recommendation.
func (p *Planner) Summarize(ctx context.Context, result *Result) (*gemini.Response, error) {
	if p.geminiAPIKey == "" {
		return nil, errors.New("gemini API key not configured")
	}
	if result == nil || len(result.Places) == 0 {
		return nil, errors.New("nothing to summarize")
	}

	summaries := make([]gemini.PlaceSummary, len(result.Places))
	for i, pl := range result.Places {
		summaries[i] = gemini.PlaceSummary{
			Name:          pl.Name,
			Rating:        pl.Rating,
			Score:         pl.Score,
			TravelTimeMin: pl.TravelTimeMin,
			Categories:    pl.Categories,
		}
	}

	webContext := p.destinationContext(ctx, result.Destination)
	prompt := gemini.BuildSummaryPrompt(result.Destination, result.Condition, result.TempC, summaries, webContext)

	client := gemini.NewClient(p.geminiAPIKey, p.geminiModel)
	var cache gemini.CacheInterface
	if p.cache != nil {
		cache = p.cache
	}
	return client.Summarize(ctx, prompt, cache, p.logger)
}
