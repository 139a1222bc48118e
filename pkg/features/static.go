package features

// Row is one destination observation from the historical dataset, after any
// missing columns have been simulated.
type Row struct {
	Name             string
	Rating           float64
	UserRatingsTotal float64
	TempC            float64
	Condition        string
	TravelTimeMin    float64

	// Derived columns, filled by Engineer.
	WeatherQuality   float64
	TrafficLevelVal  float64
	TempComfortVal   float64
	DestinationScore float64
}

// Engineer fills the derived feature columns and the training label on every
// row, in place. All derivations are pure functions of the raw columns.
func Engineer(rows []Row) {
	for i := range rows {
		r := &rows[i]
		r.WeatherQuality = WeatherQuality(r.Condition)
		r.TrafficLevelVal = TrafficLevel(r.TravelTimeMin)
		r.TempComfortVal = TempComfort(r.TempC)
		r.DestinationScore = Label(r.Rating, r.WeatherQuality, r.TempComfortVal, r.TrafficLevelVal, r.UserRatingsTotal)
	}
}

// Label computes the Destination Score training label.
func Label(rating, weatherQuality, tempComfort, trafficLevel, userRatingsTotal float64) float64 {
	return rating*10 + weatherQuality + tempComfort - trafficLevel + userRatingsTotal/100
}

// Vector returns the row's features in training-schema order.
func (r *Row) Vector() []float64 {
	return []float64{
		r.WeatherQuality,
		r.TrafficLevelVal,
		r.TempComfortVal,
		r.Rating,
		r.UserRatingsTotal,
	}
}
