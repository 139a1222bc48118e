package model

import (
	"math"
	"math/rand/v2"
	"path/filepath"
	"testing"
)

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestFitScaler(t *testing.T) {
	x := [][]float64{
		{1, 10, 5},
		{3, 20, 5},
		{5, 30, 5},
	}
	s := FitScaler(x)

	wantMeans := []float64{3, 20, 5}
	for j, want := range wantMeans {
		if !almostEqual(s.Means[j], want, 1e-9) {
			t.Errorf("mean[%d] = %v, want %v", j, s.Means[j], want)
		}
	}
	// Column 2 is constant: std forced to 1 so Transform stays defined.
	if s.Stds[2] != 1 {
		t.Errorf("constant column std = %v, want 1", s.Stds[2])
	}

	scaled := s.Transform(x)
	for j := range 3 {
		var sum float64
		for i := range scaled {
			sum += scaled[i][j]
		}
		if !almostEqual(sum, 0, 1e-9) {
			t.Errorf("scaled column %d does not center at 0: sum %v", j, sum)
		}
	}
	// Transform must not mutate its input.
	if x[0][0] != 1 {
		t.Errorf("Transform mutated input: x[0][0] = %v", x[0][0])
	}
}

func TestTrainRegressionRecoversLinearFunction(t *testing.T) {
	// y = 2*a - 0.5*b + 7
	rng := rand.New(rand.NewPCG(1, 2))
	var x [][]float64
	var y []float64
	for range 50 {
		a := rng.Float64() * 10
		b := rng.Float64() * 10
		x = append(x, []float64{a, b})
		y = append(y, 2*a-0.5*b+7)
	}

	reg, err := TrainRegression(x, y)
	if err != nil {
		t.Fatalf("TrainRegression: %v", err)
	}
	if !almostEqual(reg.Weights[0], 2, 1e-3) || !almostEqual(reg.Weights[1], -0.5, 1e-3) {
		t.Errorf("weights = %v, want [2 -0.5]", reg.Weights)
	}
	if !almostEqual(reg.Intercept, 7, 1e-3) {
		t.Errorf("intercept = %v, want 7", reg.Intercept)
	}

	pred := reg.Predict(x)
	if r2 := RSquared(pred, y); r2 < 0.999 {
		t.Errorf("R² on noiseless data = %v, want ~1", r2)
	}
}

func TestTrainRegressionRejectsBadInput(t *testing.T) {
	if _, err := TrainRegression(nil, nil); err == nil {
		t.Error("expected error for empty training set")
	}
	if _, err := TrainRegression([][]float64{{1, 2}}, []float64{1, 2}); err == nil {
		t.Error("expected error for misaligned x and y")
	}
	if _, err := TrainRegression([][]float64{{1, 2}, {1}}, []float64{1, 2}); err == nil {
		t.Error("expected error for ragged matrix")
	}
}

func TestRSquared(t *testing.T) {
	observed := []float64{1, 2, 3, 4}
	if r2 := RSquared(observed, observed); !almostEqual(r2, 1, 1e-12) {
		t.Errorf("perfect prediction R² = %v, want 1", r2)
	}
	if r2 := RSquared([]float64{2.5, 2.5, 2.5, 2.5}, observed); !almostEqual(r2, 0, 1e-12) {
		t.Errorf("mean prediction R² = %v, want 0", r2)
	}
	if r2 := RSquared(nil, nil); r2 != 0 {
		t.Errorf("empty R² = %v, want 0", r2)
	}
}

func trainingData(n int, rng *rand.Rand) ([][]float64, []float64) {
	var x [][]float64
	var y []float64
	for range n {
		wq := rng.Float64() * 10
		tl := rng.Float64() * 10
		tc := rng.Float64() * 10
		rating := 3 + rng.Float64()*2
		total := 20 + rng.Float64()*480
		x = append(x, []float64{wq, tl, tc, rating, total})
		y = append(y, rating*10+wq+tc-tl+total/100)
	}
	return x, y
}

func TestTrainBundle(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 0))
	features := []string{"Weather Quality", "Traffic Level", "Temp_Comfort", "Rating", "User Ratings Total"}
	x, y := trainingData(75, rng)

	bundle, report, err := Train(features, x, y, 0.2, rng)
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	if report.TestRows != 15 {
		t.Errorf("test rows = %d, want 15 (20%% of 75)", report.TestRows)
	}
	if report.TrainRows != 60 {
		t.Errorf("train rows = %d, want 60", report.TrainRows)
	}
	// The label is an exact linear function of the features.
	if report.RSquared < 0.99 {
		t.Errorf("held-out R² = %v, want near 1", report.RSquared)
	}
	if err := bundle.Validate(x); err != nil {
		t.Errorf("Validate on training rows: %v", err)
	}
}

func TestTrainRejectsTinyOrMisalignedData(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	if _, _, err := Train([]string{"a"}, [][]float64{{1}}, []float64{1}, 0.2, rng); err == nil {
		t.Error("expected error for single-row training set")
	}
	if _, _, err := Train([]string{"a", "b"}, [][]float64{{1}, {2}}, []float64{1, 2}, 0.2, rng); err == nil {
		t.Error("expected error for row width not matching features")
	}
}

func TestBundleSaveLoadRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	features := []string{"Weather Quality", "Traffic Level", "Temp_Comfort", "Rating", "User Ratings Total"}
	x, y := trainingData(60, rng)

	bundle, _, err := Train(features, x, y, 0.2, rng)
	if err != nil {
		t.Fatalf("Train: %v", err)
	}

	path := filepath.Join(t.TempDir(), "bundle.json")
	if err := bundle.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	probe := x[:5]
	want := bundle.Predict(probe)
	got := loaded.Predict(probe)
	for i := range want {
		if !almostEqual(want[i], got[i], 1e-9) {
			t.Errorf("prediction %d differs after reload: %v vs %v", i, want[i], got[i])
		}
	}
}

func TestLoadRejectsInconsistentBundle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	b := &Bundle{
		Features:   []string{"a", "b"},
		Scaler:     Scaler{Means: []float64{0}, Stds: []float64{1}},
		Regression: Regression{Weights: []float64{1, 2}},
	}
	if err := b.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for bundle with mismatched feature/scaler widths")
	}
}

func TestBundleValidate(t *testing.T) {
	b := &Bundle{
		Features:   []string{"a", "b"},
		Scaler:     Scaler{Means: []float64{0, 0}, Stds: []float64{1, 1}},
		Regression: Regression{Weights: []float64{1, 1}},
	}
	if err := b.Validate([][]float64{{1, 2}}); err != nil {
		t.Errorf("Validate on matching rows: %v", err)
	}
	if err := b.Validate([][]float64{{1, 2, 3}}); err == nil {
		t.Error("expected error for wide row")
	}
}
