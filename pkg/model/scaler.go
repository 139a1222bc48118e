// Package model implements the trained scoring bundle: a standard scaler, a
// linear regression, and the persisted artifact that couples them to a fixed
// feature schema.
package model

import "math"

// Scaler centers and scales each feature column. Fitted parameters are
// persisted with the bundle so prediction-time transforms are deterministic.
type Scaler struct {
	Means []float64 `json:"means"`
	Stds  []float64 `json:"stds"`
}

// FitScaler computes per-column means and standard deviations.
func FitScaler(x [][]float64) Scaler {
	if len(x) == 0 {
		return Scaler{}
	}
	cols := len(x[0])
	means := make([]float64, cols)
	stds := make([]float64, cols)

	for _, row := range x {
		for j, v := range row {
			means[j] += v
		}
	}
	n := float64(len(x))
	for j := range means {
		means[j] /= n
	}
	for _, row := range x {
		for j, v := range row {
			d := v - means[j]
			stds[j] += d * d
		}
	}
	for j := range stds {
		stds[j] = math.Sqrt(stds[j] / n)
		if stds[j] == 0 {
			// Constant column: leave values centered but unscaled.
			stds[j] = 1
		}
	}
	return Scaler{Means: means, Stds: stds}
}

// Transform returns a scaled copy of x. The input is not modified.
func (s Scaler) Transform(x [][]float64) [][]float64 {
	out := make([][]float64, len(x))
	for i, row := range x {
		scaled := make([]float64, len(row))
		for j, v := range row {
			scaled[j] = (v - s.Means[j]) / s.Stds[j]
		}
		out[i] = scaled
	}
	return out
}
