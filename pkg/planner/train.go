package planner

import (
	"math/rand/v2"

	"github.com/sanjaymadhal/AI-Powered-Travel-Recommendation-and-Planner-using-Weather-and-Traffic-Forecast/pkg/features"
	"github.com/sanjaymadhal/AI-Powered-Travel-Recommendation-and-Planner-using-Weather-and-Traffic-Forecast/pkg/model"
)

// defaultTestFraction is the held-out share of rows used to report R².
const defaultTestFraction = 0.2

// TrainModel engineers features on the destination rows and fits a fresh
// scoring bundle, reporting held-out R². Rows must already be complete;
// run dataset.Simulate first when columns are missing.
func TrainModel(rows []features.Row, rng *rand.Rand) (*model.Bundle, model.TrainReport, error) {
	features.Engineer(rows)

	x := make([][]float64, len(rows))
	y := make([]float64, len(rows))
	for i := range rows {
		x[i] = rows[i].Vector()
		y[i] = rows[i].DestinationScore
	}
	return model.Train(features.TrainingSchema(), x, y, defaultTestFraction, rng)
}
