package features

import (
	"math"
	"testing"
)

func fp(v float64) *float64 { return &v }

func TestBuildBatchEmpty(t *testing.T) {
	if got := BuildBatch(nil, nil, Conditions{TempC: 25, Condition: "Clear"}, TrainingSchema()); got != nil {
		t.Errorf("BuildBatch(nil) = %v, want nil", got)
	}
}

func TestBuildBatchSharedWeather(t *testing.T) {
	cands := []Candidate{
		{Name: "Fort", Rating: fp(4.0), UserRatingsTotal: fp(100)},
		{Name: "Museum", Rating: fp(4.5), UserRatingsTotal: fp(300)},
	}
	wx := Conditions{TempC: 24, Condition: "Rain"}
	batch := BuildBatch(cands, []float64{10, 50}, wx, TrainingSchema())

	if len(batch) != 2 {
		t.Fatalf("got %d vectors, want 2", len(batch))
	}
	// Weather Quality and Temp_Comfort identical across the batch.
	for i, vec := range batch {
		if vec[0] != 4 {
			t.Errorf("row %d weather quality = %v, want 4 (Rain)", i, vec[0])
		}
		if vec[2] != 10 {
			t.Errorf("row %d temp comfort = %v, want 10", i, vec[2])
		}
	}
	// Traffic Level is per candidate.
	if batch[0][1] != 1 || batch[1][1] != 5 {
		t.Errorf("traffic levels = %v, %v, want 1, 5", batch[0][1], batch[1][1])
	}
	if batch[0][3] != 4.0 || batch[1][3] != 4.5 {
		t.Errorf("ratings = %v, %v, want 4.0, 4.5", batch[0][3], batch[1][3])
	}
}

func TestBuildBatchImputesMissingRatingsWithBatchMean(t *testing.T) {
	cands := []Candidate{
		{Name: "A", Rating: fp(4.0), UserRatingsTotal: fp(100)},
		{Name: "B", Rating: fp(5.0), UserRatingsTotal: fp(300)},
		{Name: "C"}, // no rating data at all
	}
	batch := BuildBatch(cands, []float64{10, 10, 10}, Conditions{TempC: 24, Condition: "Clear"}, TrainingSchema())

	if got := batch[2][3]; math.Abs(got-4.5) > 1e-9 {
		t.Errorf("imputed rating = %v, want batch mean 4.5", got)
	}
	if got := batch[2][4]; math.Abs(got-200) > 1e-9 {
		t.Errorf("imputed ratings total = %v, want batch mean 200", got)
	}
}

func TestBuildBatchFixedDefaultsWhenWholeBatchMissing(t *testing.T) {
	cands := []Candidate{{Name: "A"}, {Name: "B"}}
	batch := BuildBatch(cands, nil, Conditions{TempC: 24, Condition: "Clear"}, TrainingSchema())

	for i, vec := range batch {
		if vec[3] != DefaultRating {
			t.Errorf("row %d rating = %v, want default %v", i, vec[3], DefaultRating)
		}
		if vec[4] != DefaultUserRatingsTotal {
			t.Errorf("row %d ratings total = %v, want default %v", i, vec[4], DefaultUserRatingsTotal)
		}
		// No travel times supplied: the default 30 minutes maps to level 3.
		if vec[1] != 3 {
			t.Errorf("row %d traffic level = %v, want 3", i, vec[1])
		}
	}
}

func TestAlignVectorDefaultsMissingFeaturesToZero(t *testing.T) {
	schema := []string{FeatureRating, "Brand New Feature", FeatureTempComfort}
	raw := map[string]float64{FeatureRating: 4.2, FeatureTempComfort: 7}

	vec := AlignVector(raw, schema)
	want := []float64{4.2, 0, 7}
	for i := range want {
		if vec[i] != want[i] {
			t.Errorf("vec[%d] = %v, want %v", i, vec[i], want[i])
		}
	}
}
