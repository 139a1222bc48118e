package model

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
)

// Bundle is the persisted model artifact: the regression, the fitted scaler,
// and the exact feature columns both were trained on. It is written once by
// the training pipeline and loaded read-only by the recommender; a loaded
// bundle is safe for concurrent use.
type Bundle struct {
	Features   []string   `json:"features"`
	Scaler     Scaler     `json:"scaler"`
	Regression Regression `json:"regression"`
}

// TrainReport summarizes a training run.
type TrainReport struct {
	TrainRows int
	TestRows  int
	RSquared  float64
}

// Train fits a scaler and regression on a random train/test split and
// reports held-out R². features names the columns of x, in order.
func Train(features []string, x [][]float64, y []float64, testFraction float64, rng *rand.Rand) (*Bundle, TrainReport, error) {
	if len(x) < 2 || len(x) != len(y) {
		return nil, TrainReport{}, fmt.Errorf("model: need at least 2 aligned rows, have %d/%d", len(x), len(y))
	}
	for _, row := range x {
		if len(row) != len(features) {
			return nil, TrainReport{}, fmt.Errorf("model: row width %d does not match %d features", len(row), len(features))
		}
	}

	perm := rng.Perm(len(x))
	nTest := int(float64(len(x)) * testFraction)
	if nTest < 1 {
		nTest = 1
	}
	if nTest >= len(x) {
		nTest = len(x) - 1
	}

	var trainX, testX [][]float64
	var trainY, testY []float64
	for i, idx := range perm {
		if i < nTest {
			testX = append(testX, x[idx])
			testY = append(testY, y[idx])
		} else {
			trainX = append(trainX, x[idx])
			trainY = append(trainY, y[idx])
		}
	}

	scaler := FitScaler(trainX)
	reg, err := TrainRegression(scaler.Transform(trainX), trainY)
	if err != nil {
		return nil, TrainReport{}, err
	}

	b := &Bundle{
		Features:   append([]string(nil), features...),
		Scaler:     scaler,
		Regression: reg,
	}
	report := TrainReport{
		TrainRows: len(trainX),
		TestRows:  len(testX),
		RSquared:  RSquared(b.Predict(testX), testY),
	}
	return b, report, nil
}

// Predict scales the feature rows and scores them. Rows must be
// column-aligned to b.Features; a width mismatch is fatal for the request.
func (b *Bundle) Predict(x [][]float64) []float64 {
	return b.Regression.Predict(b.Scaler.Transform(x))
}

// Validate checks that rows match the persisted feature schema.
func (b *Bundle) Validate(x [][]float64) error {
	for i, row := range x {
		if len(row) != len(b.Features) {
			return fmt.Errorf("model: row %d has %d columns, bundle expects %d", i, len(row), len(b.Features))
		}
	}
	return nil
}

// Save writes the bundle to path as JSON.
func (b *Bundle) Save(path string) error {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding bundle: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing bundle: %w", err)
	}
	return nil
}

// Load reads a bundle previously written by Save.
func Load(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading bundle: %w", err)
	}
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("decoding bundle: %w", err)
	}
	if len(b.Features) == 0 || len(b.Features) != len(b.Scaler.Means) ||
		len(b.Features) != len(b.Regression.Weights) {
		return nil, fmt.Errorf("bundle %s is inconsistent: %d features, %d scaler columns, %d weights",
			path, len(b.Features), len(b.Scaler.Means), len(b.Regression.Weights))
	}
	return &b, nil
}
