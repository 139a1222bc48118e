package gemini

import (
	"fmt"
	"strings"
)

// PlaceSummary is the slice of a scored place the prompt needs.
type PlaceSummary struct {
	Name          string
	Rating        float64
	Score         float64
	TravelTimeMin float64
	Categories    string
}

// BuildSummaryPrompt assembles the trip-summary prompt from the ranked
// places, the shared weather reading, and optional web context about the
// destination (already converted to markdown).
func BuildSummaryPrompt(destination, condition string, tempC float64, places []PlaceSummary, webContext string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a travel assistant. Write a short trip summary for a visitor in %s today.\n\n", destination)
	fmt.Fprintf(&b, "Current weather: %s, %.1f C\n\n", condition, tempC)

	b.WriteString("Recommended places, best first:\n")
	for i, p := range places {
		fmt.Fprintf(&b, "%d. %s (rating %.1f, score %.2f, %.0f min away", i+1, p.Name, p.Rating, p.Score, p.TravelTimeMin)
		if p.Categories != "" {
			fmt.Fprintf(&b, ", %s", p.Categories)
		}
		b.WriteString(")\n")
	}

	if webContext != "" {
		// Keep the prompt bounded even for long pages.
		const maxContext = 4000
		if len(webContext) > maxContext {
			webContext = webContext[:maxContext]
		}
		b.WriteString("\nBackground on the destination:\n")
		b.WriteString(webContext)
		b.WriteString("\n")
	}

	b.WriteString("\nRespond with JSON: a 2-3 sentence summary, up to three practical tips, and the best time of day for the top place given the weather.\n")
	return b.String()
}
