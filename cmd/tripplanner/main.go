// Package main implements the tripplanner CLI: train or load the scoring
// model, then recommend ranked places for a destination.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"github.com/sanjaymadhal/AI-Powered-Travel-Recommendation-and-Planner-using-Weather-and-Traffic-Forecast/pkg/dataset"
	"github.com/sanjaymadhal/AI-Powered-Travel-Recommendation-and-Planner-using-Weather-and-Traffic-Forecast/pkg/features"
	"github.com/sanjaymadhal/AI-Powered-Travel-Recommendation-and-Planner-using-Weather-and-Traffic-Forecast/pkg/model"
	"github.com/sanjaymadhal/AI-Powered-Travel-Recommendation-and-Planner-using-Weather-and-Traffic-Forecast/pkg/planner"
	"github.com/sanjaymadhal/AI-Powered-Travel-Recommendation-and-Planner-using-Weather-and-Traffic-Forecast/pkg/report"
)

var (
	mapsAPIKey    = flag.String("maps-key", "", "Google Maps API key (or set GOOGLE_MAPS_API_KEY)")
	weatherAPIKey = flag.String("weather-key", "", "OpenWeather API key (or set OPENWEATHER_API_KEY)")
	geminiAPIKey  = flag.String("gemini-key", "", "Gemini API key for trip summaries (or set GEMINI_API_KEY)")
	geminiModel   = flag.String("gemini-model", "gemini-2.5-flash-lite", "Gemini model to use (or set GEMINI_MODEL)")
	cacheDir      = flag.String("cache-dir", "", "Cache directory (or set CACHE_DIR)")
	noCache       = flag.Bool("no-cache", false, "Disable caching")
	verbose       = flag.Bool("verbose", false, "Enable verbose logging")
	version       = flag.Bool("version", false, "Show version")
	dataPath      = flag.String("data", "", "Destination CSV for training (default: bundled table)")
	modelPath     = flag.String("model", "", "Model bundle path; reused when it exists, written after training")
	retrain       = flag.Bool("retrain", false, "Retrain even when a saved model exists")
	userLocation  = flag.String("origin", "Bangalore", "Fallback traffic origin when the destination cannot be geocoded")
	topN          = flag.Int("n", planner.DefaultResultCount, "Number of places to recommend")
	summarize     = flag.Bool("summary", false, "Generate an AI trip summary (requires Gemini key)")
)

func main() {
	flag.Parse()

	if *version {
		fmt.Println("tripplanner CLI v1.0.0")
		return
	}

	args := flag.Args()
	if len(args) > 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] [destination]\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}
	// No argument runs the demo destination.
	destination := "Bangalore"
	if len(args) == 1 {
		destination = args[0]
	}

	// Configure logging
	level := slog.LevelError
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	// Get keys from environment if not provided as flags
	if *mapsAPIKey == "" {
		*mapsAPIKey = os.Getenv("GOOGLE_MAPS_API_KEY")
	}
	if *weatherAPIKey == "" {
		*weatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	}
	if *geminiAPIKey == "" {
		*geminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}
	if *geminiModel == "gemini-2.5-flash-lite" && os.Getenv("GEMINI_MODEL") != "" {
		*geminiModel = os.Getenv("GEMINI_MODEL")
	}
	if *cacheDir == "" {
		*cacheDir = os.Getenv("CACHE_DIR")
	}

	bundle, err := loadOrTrain(logger)
	if err != nil {
		logger.Error("model preparation failed", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	plannerOpts := []planner.Option{
		planner.WithMapsAPIKey(*mapsAPIKey),
		planner.WithWeatherAPIKey(*weatherAPIKey),
		planner.WithGeminiAPIKey(*geminiAPIKey),
		planner.WithGeminiModel(*geminiModel),
		planner.WithModel(bundle),
	}
	if *noCache {
		plannerOpts = append(plannerOpts, planner.WithNoCache())
	} else if *cacheDir != "" {
		plannerOpts = append(plannerOpts, planner.WithCacheDir(*cacheDir))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	p := planner.NewWithLogger(ctx, logger, plannerOpts...)
	defer func() {
		if err := p.Close(); err != nil {
			logger.Error("failed to close planner", "error", err)
		}
	}()

	result, err := p.Recommend(ctx, planner.Request{
		Destination:  destination,
		UserLocation: *userLocation,
		N:            *topN,
	})
	if err != nil {
		// Errors become a message, never a panic: the demo must not crash.
		logger.Error("recommendation failed", "destination", destination, "error", err)
		fmt.Fprintf(os.Stderr, "Could not recommend places for %q: %v\n", destination, err)
		os.Exit(1)
	}

	report.Write(os.Stdout, result)
	report.WriteItinerary(os.Stdout, result)

	if *summarize && !result.NoPlaces {
		summary, err := p.Summarize(ctx, result)
		if err != nil {
			logger.Warn("trip summary unavailable", "error", err)
		} else {
			report.WriteSummary(os.Stdout, summary)
		}
	}
}

// loadOrTrain returns the scoring bundle: a saved one when -model points at
// an existing file and -retrain is not set, otherwise a fresh fit on the CSV
// (or the bundled destination table), saved back when -model is set.
func loadOrTrain(logger *slog.Logger) (*model.Bundle, error) {
	if *modelPath != "" && !*retrain {
		if _, err := os.Stat(*modelPath); err == nil {
			bundle, err := model.Load(*modelPath)
			if err != nil {
				return nil, err
			}
			logger.Info("model loaded", "path", *modelPath, "features", len(bundle.Features))
			return bundle, nil
		}
	}

	dataRows, err := loadRows()
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	dataset.Simulate(dataRows, rng)
	bundle, trainReport, err := planner.TrainModel(dataRows, rng)
	if err != nil {
		return nil, err
	}
	logger.Info("model trained",
		"rows", trainReport.TrainRows+trainReport.TestRows,
		"test_rows", trainReport.TestRows,
		"r_squared", trainReport.RSquared)

	if *modelPath != "" {
		if err := bundle.Save(*modelPath); err != nil {
			return nil, err
		}
		logger.Info("model saved", "path", *modelPath)
	}
	return bundle, nil
}

func loadRows() ([]features.Row, error) {
	if *dataPath != "" {
		return dataset.Load(*dataPath)
	}
	return dataset.Builtin(), nil
}
