// Package main implements the tripplanner web server: a JSON API over the
// recommendation pipeline, with per-IP rate limiting and a short-lived
// response cache.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/maypok86/otter/v2"
	"github.com/sanjaymadhal/AI-Powered-Travel-Recommendation-and-Planner-using-Weather-and-Traffic-Forecast/pkg/dataset"
	"github.com/sanjaymadhal/AI-Powered-Travel-Recommendation-and-Planner-using-Weather-and-Traffic-Forecast/pkg/features"
	"github.com/sanjaymadhal/AI-Powered-Travel-Recommendation-and-Planner-using-Weather-and-Traffic-Forecast/pkg/model"
	"github.com/sanjaymadhal/AI-Powered-Travel-Recommendation-and-Planner-using-Weather-and-Traffic-Forecast/pkg/planner"
)

var (
	port          = flag.String("port", "8080", "Port for web server")
	mapsAPIKey    = flag.String("maps-key", "", "Google Maps API key (or set GOOGLE_MAPS_API_KEY)")
	weatherAPIKey = flag.String("weather-key", "", "OpenWeather API key (or set OPENWEATHER_API_KEY)")
	geminiAPIKey  = flag.String("gemini-key", "", "Gemini API key (or set GEMINI_API_KEY)")
	geminiModel   = flag.String("gemini-model", "gemini-2.5-flash-lite", "Gemini model to use")
	dataPath      = flag.String("data", "", "Destination CSV for training (default: bundled table)")
	modelPath     = flag.String("model", "", "Saved model bundle; trains at startup when empty")
	verbose       = flag.Bool("verbose", false, "Enable verbose logging")
	version       = flag.Bool("version", false, "Show version")
)

type rateLimiter struct {
	requests map[string][]time.Time
	mu       sync.Mutex
}

func newRateLimiter() *rateLimiter {
	return &rateLimiter{
		requests: make(map[string][]time.Time),
	}
}

func (rl *rateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-time.Minute)

	var valid []time.Time
	for _, t := range rl.requests[ip] {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}

	// Rate limit: 15 requests per minute per IP
	if len(valid) >= 15 {
		rl.requests[ip] = valid
		return false
	}

	rl.requests[ip] = append(valid, now)
	return true
}

func main() {
	flag.Parse()

	if *version {
		fmt.Println("tripplanner Server v1.0.0")
		return
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if *mapsAPIKey == "" {
		*mapsAPIKey = os.Getenv("GOOGLE_MAPS_API_KEY")
	}
	if *weatherAPIKey == "" {
		*weatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	}
	if *geminiAPIKey == "" {
		*geminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}

	logger.Info("Server configuration",
		"port", *port,
		"verbose", *verbose,
		"gemini_model", *geminiModel,
		"has_maps_key", *mapsAPIKey != "",
		"has_weather_key", *weatherAPIKey != "",
		"has_gemini_key", *geminiAPIKey != "")

	bundle, err := prepareModel(logger)
	if err != nil {
		logger.Error("model preparation failed", "error", err)
		os.Exit(1)
	}

	p := planner.NewWithLogger(context.Background(), logger,
		planner.WithMapsAPIKey(*mapsAPIKey),
		planner.WithWeatherAPIKey(*weatherAPIKey),
		planner.WithGeminiAPIKey(*geminiAPIKey),
		planner.WithGeminiModel(*geminiModel),
		planner.WithModel(bundle),
		planner.WithMemoryOnlyCache(),
	)
	defer func() {
		if err := p.Close(); err != nil {
			logger.Error("failed to close planner", "error", err)
		}
	}()

	// Short-lived response cache: identical recommendation requests within
	// ten minutes share one pipeline run.
	respCache := otter.Must(&otter.Options[string, []byte]{
		MaximumSize:      10_000,
		ExpiryCalculator: otter.ExpiryWriting[string, []byte](10 * time.Minute),
	})

	srv := &server{
		planner:   p,
		respCache: respCache,
		limiter:   newRateLimiter(),
		logger:    logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", srv.handleHealthz)
	mux.HandleFunc("POST /api/v1/recommend", srv.handleRecommend)

	antiCSRF := http.NewCrossOriginProtection()

	httpSrv := &http.Server{
		Addr:              ":" + *port,
		Handler:           srv.wrap(antiCSRF.Handler(mux)),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "port", *port)
		if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		logger.Error("Shutdown failed", "error", err)
	}
	logger.Info("Server stopped")
}

// prepareModel loads a saved bundle or trains a fresh one at startup. The
// bundle is read-only afterwards, so concurrent requests can share it.
func prepareModel(logger *slog.Logger) (*model.Bundle, error) {
	if *modelPath != "" {
		if _, err := os.Stat(*modelPath); err == nil {
			bundle, err := model.Load(*modelPath)
			if err != nil {
				return nil, err
			}
			logger.Info("model loaded", "path", *modelPath, "features", len(bundle.Features))
			return bundle, nil
		}
	}

	var rows []features.Row
	var err error
	if *dataPath != "" {
		rows, err = dataset.Load(*dataPath)
		if err != nil {
			return nil, err
		}
	} else {
		rows = dataset.Builtin()
	}

	rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	dataset.Simulate(rows, rng)
	bundle, report, err := planner.TrainModel(rows, rng)
	if err != nil {
		return nil, err
	}
	logger.Info("model trained",
		"rows", report.TrainRows+report.TestRows,
		"test_rows", report.TestRows,
		"r_squared", report.RSquared)

	if *modelPath != "" {
		if err := bundle.Save(*modelPath); err != nil {
			return nil, err
		}
		logger.Info("model saved", "path", *modelPath)
	}
	return bundle, nil
}

type server struct {
	planner   *planner.Planner
	respCache *otter.Cache[string, []byte]
	limiter   *rateLimiter
	logger    *slog.Logger
}

func (s *server) wrap(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := fmt.Sprintf("%d-%d", time.Now().Unix(), time.Now().Nanosecond())
		w.Header().Set("X-Request-ID", requestID)

		defer func() {
			if err := recover(); err != nil {
				const size = 64 << 10
				buf := make([]byte, size)
				buf = buf[:runtime.Stack(buf, false)]

				s.logger.Error("PANIC: Request handler crashed",
					"error", err,
					"path", r.URL.Path,
					"method", r.Method,
					"request_id", requestID,
					"client_ip", clientIP(r),
					"stack", string(buf))
				http.Error(w, "Internal server error", http.StatusInternalServerError)
			}
		}()

		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		if strings.HasPrefix(r.URL.Path, "/api/") {
			w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
		}

		handler.ServeHTTP(w, r)
	})
}

func (s *server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "ok")
}

// recommendRequest is the JSON body of POST /api/v1/recommend.
type recommendRequest struct {
	Destination string `json:"destination"`
	Origin      string `json:"origin"`
	N           int    `json:"n"`
	Summary     bool   `json:"summary"`
}

type recommendResponse struct {
	*planner.Result
	TripSummary any `json:"trip_summary,omitempty"`
}

func (s *server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := w.Header().Get("X-Request-ID")
	ip := clientIP(r)

	if !s.limiter.allow(ip) {
		s.logger.Error("Rate limit exceeded", "request_id", requestID, "client_ip", ip)
		http.Error(w, "Rate limit exceeded. Try again in a minute.", http.StatusTooManyRequests)
		return
	}

	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Destination) == "" {
		http.Error(w, "destination is required", http.StatusBadRequest)
		return
	}

	cacheKey := fmt.Sprintf("%s|%s|%d|%t", req.Destination, req.Origin, req.N, req.Summary)
	if cached, found := s.respCache.GetIfPresent(cacheKey); found {
		s.logger.Info("serving cached recommendation",
			"request_id", requestID, "destination", req.Destination)
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-From-Cache", "true")
		if _, err := w.Write(cached); err != nil {
			s.logger.Debug("failed to write cached response", "error", err)
		}
		return
	}

	result, err := s.planner.Recommend(r.Context(), planner.Request{
		Destination:  req.Destination,
		UserLocation: req.Origin,
		N:            req.N,
	})
	if err != nil {
		s.logger.Error("recommendation failed",
			"request_id", requestID, "destination", req.Destination, "error", err)
		http.Error(w, "Could not recommend places for this destination.", http.StatusBadGateway)
		return
	}

	resp := recommendResponse{Result: result}
	if req.Summary && !result.NoPlaces {
		if summary, err := s.planner.Summarize(r.Context(), result); err != nil {
			s.logger.Warn("trip summary unavailable", "request_id", requestID, "error", err)
		} else {
			resp.TripSummary = summary
		}
	}

	body, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error("response encoding failed", "request_id", requestID, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	s.respCache.Set(cacheKey, body)

	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(body); err != nil {
		s.logger.Debug("failed to write response", "error", err)
	}

	s.logger.Info("recommendation served",
		"request_id", requestID,
		"client_ip", ip,
		"destination", req.Destination,
		"places", len(result.Places),
		"duration_ms", time.Since(start).Milliseconds())
}

func clientIP(r *http.Request) string {
	return strings.Split(r.RemoteAddr, ":")[0]
}
