package features

// Defaults substituted when live data is missing. Travel time matches the
// distance-matrix fallback; rating/ratings-count are only used when an
// entire batch lacks the field.
const (
	DefaultTravelTimeMin    = 30.0
	DefaultRating           = 3.5
	DefaultUserRatingsTotal = 100.0
)

// Candidate is one live place to be scored. Rating and UserRatingsTotal are
// nil when the places API did not return them.
type Candidate struct {
	Name             string
	Rating           *float64
	UserRatingsTotal *float64
}

// Conditions is the shared city-level weather context for a batch. One
// observation applies to every candidate in the request.
type Conditions struct {
	TempC     float64
	Condition string
}

// BuildBatch produces one feature vector per candidate, column-aligned to
// schema. travelMinutes is positional with candidates; missing entries fall
// back to DefaultTravelTimeMin. Missing ratings and ratings counts are
// imputed with the batch mean, or the fixed defaults when the whole batch
// lacks the field.
func BuildBatch(cands []Candidate, travelMinutes []float64, wx Conditions, schema []string) [][]float64 {
	if len(cands) == 0 {
		return nil
	}

	// Weather applies identically to every candidate.
	wq := WeatherQuality(wx.Condition)
	tc := TempComfort(wx.TempC)

	meanRating := batchMean(cands, func(c Candidate) *float64 { return c.Rating }, DefaultRating)
	meanTotal := batchMean(cands, func(c Candidate) *float64 { return c.UserRatingsTotal }, DefaultUserRatingsTotal)

	vectors := make([][]float64, 0, len(cands))
	for i, c := range cands {
		travel := DefaultTravelTimeMin
		if i < len(travelMinutes) && travelMinutes[i] > 0 {
			travel = travelMinutes[i]
		}

		rating := meanRating
		if c.Rating != nil {
			rating = *c.Rating
		}
		total := meanTotal
		if c.UserRatingsTotal != nil {
			total = *c.UserRatingsTotal
		}

		raw := map[string]float64{
			FeatureWeatherQuality:   wq,
			FeatureTempComfort:      tc,
			FeatureTrafficLevel:     TrafficLevel(travel),
			FeatureRating:           rating,
			FeatureUserRatingsTotal: total,
		}
		vectors = append(vectors, AlignVector(raw, schema))
	}
	return vectors
}

// AlignVector projects raw fields onto the expected schema, in order. Any
// feature the schema names but raw lacks defaults to 0 so the vector is
// always compatible with the fitted scaler.
func AlignVector(raw map[string]float64, schema []string) []float64 {
	vec := make([]float64, len(schema))
	for i, name := range schema {
		vec[i] = raw[name] // missing -> 0
	}
	return vec
}

func batchMean(cands []Candidate, field func(Candidate) *float64, fallback float64) float64 {
	var sum float64
	var n int
	for _, c := range cands {
		if v := field(c); v != nil {
			sum += *v
			n++
		}
	}
	if n == 0 {
		return fallback
	}
	return sum / float64(n)
}
