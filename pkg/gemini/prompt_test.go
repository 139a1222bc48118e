package gemini

import (
	"strings"
	"testing"
)

func TestBuildSummaryPrompt(t *testing.T) {
	places := []PlaceSummary{
		{Name: "Louvre", Rating: 4.7, Score: 62.51, TravelTimeMin: 11, Categories: "museum, tourist_attraction"},
		{Name: "Jardin du Luxembourg", Rating: 4.6, Score: 58.2, TravelTimeMin: 18},
	}
	prompt := BuildSummaryPrompt("Paris", "Clear", 15.9, places, "")

	for _, want := range []string{
		"Paris",
		"Clear, 15.9 C",
		"1. Louvre (rating 4.7, score 62.51, 11 min away, museum, tourist_attraction)",
		"2. Jardin du Luxembourg",
		"JSON",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
	if strings.Contains(prompt, "Background on the destination") {
		t.Error("background section should be absent without web context")
	}
}

func TestBuildSummaryPromptTruncatesWebContext(t *testing.T) {
	long := strings.Repeat("x", 10_000)
	prompt := BuildSummaryPrompt("Paris", "Clear", 20, nil, long)

	if !strings.Contains(prompt, "Background on the destination") {
		t.Error("background section missing")
	}
	if strings.Count(prompt, "x") > 4000 {
		t.Errorf("web context not truncated: %d x's", strings.Count(prompt, "x"))
	}
}

func TestIsTransientError(t *testing.T) {
	tests := []struct {
		msg  string
		want bool
	}{
		{"rate limit exceeded", true},
		{"deadline exceeded", true},
		{"503 service unavailable", true},
		{"invalid api key", false},
		{"schema validation failed", false},
	}
	for _, tt := range tests {
		if got := isTransientError(errTest(tt.msg)); got != tt.want {
			t.Errorf("isTransientError(%q) = %v, want %v", tt.msg, got, tt.want)
		}
	}
}

type errTest string

func (e errTest) Error() string { return string(e) }
