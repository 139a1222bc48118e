package httpcache

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// HTTPClient interface for making HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// CachedHTTPClient wraps an HTTP client with response caching. GET responses
// are cached under the request URL for the TTL the call site chooses.
type CachedHTTPClient struct {
	cache      *Cache
	httpClient HTTPClient
	logger     *slog.Logger
}

// NewCachedHTTPClient creates a new caching HTTP client.
func NewCachedHTTPClient(cache *Cache, httpClient HTTPClient, logger *slog.Logger) *CachedHTTPClient {
	return &CachedHTTPClient{
		cache:      cache,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Do performs an HTTP request, serving GETs from cache when possible and
// caching successful responses for ttl.
func (c *CachedHTTPClient) Do(req *http.Request, ttl time.Duration) (*http.Response, error) {
	if c.cache == nil || req.Method != http.MethodGet {
		return c.httpClient.Do(req)
	}

	url := req.URL.String()
	if cached, found := c.cache.APICall(url, nil); found {
		resp := &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(bytes.NewReader(cached)),
			Header:     make(http.Header),
			Request:    req,
		}
		resp.Header.Set("X-From-Cache", "true")
		return resp, nil
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Debug("failed to close response body", "error", closeErr)
		}
		if err != nil {
			return nil, err
		}
		if err := c.cache.SetAPICallTTL(url, nil, body, ttl); err != nil {
			c.logger.Debug("cache set failed", "url", url, "error", err)
		}
		resp.Body = io.NopCloser(bytes.NewReader(body))
	}
	return resp, nil
}
