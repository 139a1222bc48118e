package planner

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// destinationContext fetches a public page about the destination and converts
// it to markdown for the trip-summary prompt. Failures are soft: the summary
// works without background context, so this never returns an error.
func (p *Planner) destinationContext(ctx context.Context, destination string) string {
	pageURL := "https://en.wikipedia.org/wiki/" + url.PathEscape(strings.ReplaceAll(destination, " ", "_"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		p.logger.Debug("failed to create context request", "url", pageURL, "error", err)
		return ""
	}
	req.Header.Set("User-Agent", "Trip-Planner/1.0")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.logger.Debug("failed to fetch destination page", "url", pageURL, "error", err)
		return ""
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			p.logger.Debug("failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		p.logger.Debug("destination page returned non-200 status", "url", pageURL, "status", resp.StatusCode)
		return ""
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1024*1024)) // 1MB limit
	if err != nil {
		p.logger.Debug("failed to read destination page", "url", pageURL, "error", err)
		return ""
	}
	htmlStr := string(body)

	// Markdown conversion is deterministic for the same HTML, so cache it
	// alongside the API responses.
	cacheKey := fmt.Sprintf("markdown:%s", pageURL)
	if p.cache != nil {
		if cached, found := p.cache.APICall(cacheKey, []byte(htmlStr)); found {
			p.logger.Debug("using cached markdown conversion", "url", pageURL, "cached_length", len(cached))
			return string(cached)
		}
	}

	markdown, err := md.ConvertString(htmlStr)
	if err != nil {
		p.logger.Debug("failed to convert HTML to markdown", "url", pageURL, "error", err)
		return ""
	}
	if p.cache != nil {
		if err := p.cache.SetAPICall(cacheKey, []byte(htmlStr), []byte(markdown)); err != nil {
			p.logger.Debug("failed to cache markdown conversion", "error", err)
		}
	}
	return markdown
}
