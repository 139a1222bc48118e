// Package gemini provides a client for Google's Gemini AI API, used to turn
// a ranked recommendation list into a short narrative trip summary.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"google.golang.org/genai"
)

// Response is the structured trip summary returned by Gemini.
type Response struct {
	Summary         string   `json:"summary"`
	Tips            []string `json:"tips"`
	BestTimeToVisit string   `json:"best_time_to_visit"`
}

// Client represents a Gemini API client.
type Client struct {
	apiKey string
	model  string
}

// NewClient creates a new Gemini API client.
func NewClient(apiKey, model string) *Client {
	return &Client{apiKey: apiKey, model: model}
}

// Summarize calls the Gemini API with the given prompt and returns the
// structured summary. Responses are cached by model and prompt.
func (c *Client) Summarize(ctx context.Context, prompt string, cache CacheInterface, logger Logger) (*Response, error) {
	if cached := c.checkCache(prompt, cache, logger); cached != nil {
		return cached, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  c.apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	modelName, contents, genConfig := c.configureRequest(prompt, logger)

	resp, err := c.generateWithRetry(ctx, client, modelName, contents, genConfig, logger)
	if err != nil {
		return nil, err
	}
	return c.processResponseAndCache(resp, prompt, cache, logger)
}

func (c *Client) checkCache(prompt string, cache CacheInterface, logger Logger) *Response {
	if cache == nil {
		return nil
	}
	cacheKey := fmt.Sprintf("genai:%s:%s", c.model, prompt)
	cachedData, found := cache.APICall(cacheKey, []byte(prompt))
	if !found {
		return nil
	}
	var result Response
	if err := json.Unmarshal(cachedData, &result); err != nil {
		logger.Debug("failed to unmarshal cached Gemini response", "error", err)
		return nil
	}
	if result.Summary == "" {
		logger.Warn("cached Gemini response is empty, fetching fresh")
		return nil
	}
	logger.Debug("using cached Gemini response", "summary_length", len(result.Summary))
	return &result
}

func (c *Client) configureRequest(prompt string, logger Logger) (string, []*genai.Content, *genai.GenerateContentConfig) {
	modelName := c.model
	if modelName == "" {
		modelName = "gemini-2.5-flash-lite"
	}
	modelName = strings.TrimPrefix(modelName, "models/")
	logger.Debug("using model", "model", modelName)

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt},
			},
		},
	}

	maxTokens := int32(1500)
	temperature := float32(0.4)

	genConfig := &genai.GenerateContentConfig{
		Temperature:      &temperature,
		MaxOutputTokens:  maxTokens,
		ResponseMIMEType: "application/json",
		ResponseSchema:   c.responseSchema(),
	}
	return modelName, contents, genConfig
}

func (c *Client) responseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"summary": {
				Type:        genai.TypeString,
				Description: "Two or three sentences describing the trip, referencing the recommended places and the current weather",
			},
			"tips": {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: "Up to three short practical tips for visiting these places today",
			},
			"best_time_to_visit": {
				Type:        genai.TypeString,
				Description: "The best part of the day for the highest-ranked place, given the weather",
			},
		},
		PropertyOrdering: []string{"summary", "tips", "best_time_to_visit"},
		Required:         []string{"summary"},
	}
}

func (c *Client) generateWithRetry(ctx context.Context, client *genai.Client, modelName string, contents []*genai.Content, config *genai.GenerateContentConfig, logger Logger) (*genai.GenerateContentResponse, error) {
	maxRetries := 3
	baseDelay := 100 * time.Millisecond
	jitter := 50 * time.Millisecond

	for attempt := 0; attempt <= maxRetries; attempt++ {
		resp, err := client.Models.GenerateContent(ctx, modelName, contents, config)
		if err == nil {
			return resp, nil
		}
		if attempt == maxRetries {
			return nil, fmt.Errorf("gemini API call failed after %d attempts: %w", maxRetries+1, err)
		}
		if !isTransientError(err) {
			logger.Warn("non-transient Gemini API error - giving up", "error", err)
			return nil, fmt.Errorf("non-transient gemini API error: %w", err)
		}

		delay := baseDelay*time.Duration(1<<uint(attempt)) + time.Duration(rand.Int64N(int64(jitter)))
		logger.Debug("retrying Gemini API call", "attempt", attempt+1, "delay_ms", delay.Milliseconds(), "error", err.Error())
		time.Sleep(delay)
	}
	return nil, fmt.Errorf("unexpected end of retry loop")
}

func isTransientError(err error) bool {
	errStr := strings.ToLower(err.Error())
	transientIndicators := []string{
		"rate limit", "quota", "timeout", "deadline", "unavailable",
		"internal server error", "502", "503", "504",
	}
	for _, indicator := range transientIndicators {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}
	return false
}

func (c *Client) processResponseAndCache(resp *genai.GenerateContentResponse, prompt string, cache CacheInterface, logger Logger) (*Response, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("empty response from Gemini API")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return nil, fmt.Errorf("no content in Gemini response")
	}
	text := candidate.Content.Parts[0].Text
	if text == "" {
		return nil, fmt.Errorf("empty text in Gemini response")
	}
	logger.Debug("raw Gemini response", "response_text", text)

	var summary Response
	if err := json.Unmarshal([]byte(text), &summary); err != nil {
		logger.Warn("failed to parse Gemini JSON response", "error", err, "response_text", text)
		return nil, fmt.Errorf("failed to parse Gemini JSON response: %w", err)
	}
	if summary.Summary == "" {
		return nil, fmt.Errorf("gemini response missing summary")
	}

	if cache != nil {
		cacheKey := fmt.Sprintf("genai:%s:%s", c.model, prompt)
		if respData, err := json.Marshal(summary); err == nil {
			if err := cache.SetAPICall(cacheKey, []byte(prompt), respData); err != nil {
				logger.Debug("failed to cache Gemini response", "error", err)
			}
		}
	}
	return &summary, nil
}
