// Package planner orchestrates the travel recommendation pipeline: geocode
// the destination, fetch the current weather, discover nearby attractions,
// query traffic-aware travel times, and score every candidate with the
// trained model.
package planner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/sanjaymadhal/AI-Powered-Travel-Recommendation-and-Planner-using-Weather-and-Traffic-Forecast/pkg/googlemaps"
	"github.com/sanjaymadhal/AI-Powered-Travel-Recommendation-and-Planner-using-Weather-and-Traffic-Forecast/pkg/httpcache"
	"github.com/sanjaymadhal/AI-Powered-Travel-Recommendation-and-Planner-using-Weather-and-Traffic-Forecast/pkg/model"
	"github.com/sanjaymadhal/AI-Powered-Travel-Recommendation-and-Planner-using-Weather-and-Traffic-Forecast/pkg/openweather"
)

// Planner performs destination recommendations.
type Planner struct {
	logger       *slog.Logger
	httpClient   *http.Client
	cache        *httpcache.Cache
	maps         *googlemaps.Client
	weather      *openweather.Client
	geminiAPIKey string
	geminiModel  string
	bundle       *model.Bundle
}

// NewWithLogger creates a new Planner with a custom logger.
func NewWithLogger(ctx context.Context, logger *slog.Logger, opts ...Option) *Planner {
	optHolder := &OptionHolder{}
	for _, opt := range opts {
		opt(optHolder)
	}

	var cache *httpcache.Cache
	switch {
	case optHolder.noCache:
		logger.Info("caching disabled by --no-cache flag")
		cache = nil
	case optHolder.memoryOnlyCache:
		cache = httpcache.NewMemoryOnlyCache(logger)
	default:
		var cacheDir string
		if optHolder.cacheDir != "" {
			cacheDir = optHolder.cacheDir
		} else if userCacheDir, err := os.UserCacheDir(); err == nil {
			cacheDir = filepath.Join(userCacheDir, "tripplanner")
		} else {
			logger.Debug("could not determine user cache directory", "error", err)
		}

		if cacheDir != "" {
			var err error
			cache, err = httpcache.NewDiskCache(ctx, cacheDir, logger)
			if err != nil {
				logger.Warn("cache initialization failed", "error", err, "cache_dir", cacheDir)
				// Cache is optional, continue without it
				cache = nil
			}
		}
	}

	p := &Planner{
		logger:       logger,
		geminiAPIKey: optHolder.geminiAPIKey,
		geminiModel:  optHolder.geminiModel,
		bundle:       optHolder.bundle,
		cache:        cache,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}

	apiClient := p.apiHTTPClient()
	p.maps = googlemaps.NewClient(optHolder.mapsAPIKey, apiClient, logger)
	p.weather = openweather.NewClient(optHolder.weatherAPIKey, apiClient, logger)
	return p
}

// New creates a new Planner with the default logger.
func New(ctx context.Context, opts ...Option) *Planner {
	return NewWithLogger(ctx, slog.Default(), opts...)
}

// SetModel replaces the scoring bundle, for when training happens after the
// planner is constructed.
func (p *Planner) SetModel(b *model.Bundle) {
	p.bundle = b
}

// Close properly shuts down the planner, including saving the cache to disk.
func (p *Planner) Close() error {
	if p.cache != nil {
		return p.cache.Close()
	}
	return nil
}

// apiHTTPClient builds the client the API wrappers share: retrying transport,
// wrapped in the TTL cache when one is configured.
func (p *Planner) apiHTTPClient() googlemaps.HTTPClient {
	rc := &retryingClient{inner: p.httpClient, logger: p.logger}
	if p.cache == nil {
		return rc
	}
	return &cachingClient{
		cached: httpcache.NewCachedHTTPClient(p.cache, rc, p.logger),
	}
}

// retryingClient performs HTTP requests with exponential backoff and jitter.
// The returned response body must be closed by the caller.
type retryingClient struct {
	inner  *http.Client
	logger *slog.Logger
}

func (r *retryingClient) Do(req *http.Request) (*http.Response, error) {
	// Give up after 15 seconds total
	deadline := time.Now().Add(15 * time.Second)
	var resp *http.Response
	var lastErr error

	err := retry.Do(
		func() error {
			if time.Now().After(deadline) {
				return retry.Unrecoverable(errors.New("timeout after 15 seconds"))
			}

			var err error
			resp, err = r.inner.Do(req) //nolint:bodyclose // Body closed on error, returned open on success for caller
			if err != nil {
				lastErr = err
				return err
			}

			// Retry on rate limiting or server errors
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
				body, readErr := io.ReadAll(resp.Body)
				closeErr := resp.Body.Close()
				if readErr != nil {
					r.logger.Debug("failed to read error response body", "error", readErr)
				}
				if closeErr != nil {
					r.logger.Debug("failed to close error response body", "error", closeErr)
				}
				lastErr = fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
				return lastErr
			}

			// Success - response body is handled by caller
			return nil
		},
		retry.Context(req.Context()),
		retry.Attempts(10),
		retry.Delay(100*time.Millisecond),
		retry.MaxDelay(3*time.Second),
		retry.DelayType(retry.CombineDelay(retry.BackOffDelay, retry.RandomDelay)),
		retry.MaxJitter(100*time.Millisecond),
		retry.OnRetry(func(n uint, err error) {
			r.logger.Info("retrying HTTP request",
				"attempt", n+1,
				"url", req.URL.String(),
				"remaining_time", time.Until(deadline),
				"error", err)
		}),
		retry.RetryIf(func(err error) bool {
			if time.Now().After(deadline) {
				return false
			}
			return err != nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("request failed after retries: %w", lastErr)
	}
	return resp, nil
}

// cachingClient routes requests through the response cache, choosing a TTL
// per endpoint: geocoding results barely change, traffic goes stale fast.
type cachingClient struct {
	cached *httpcache.CachedHTTPClient
}

func (c *cachingClient) Do(req *http.Request) (*http.Response, error) {
	return c.cached.Do(req, ttlForPath(req.URL.Path))
}

func ttlForPath(path string) time.Duration {
	switch {
	case strings.HasPrefix(path, "/maps/api/geocode"):
		return 24 * time.Hour
	case strings.HasPrefix(path, "/maps/api/place"):
		return time.Hour
	case strings.HasPrefix(path, "/maps/api/distancematrix"):
		return 10 * time.Minute
	case strings.HasPrefix(path, "/data/2.5/weather"):
		return 30 * time.Minute
	default:
		return time.Hour
	}
}
