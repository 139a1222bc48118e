// Package dataset loads the historical destination table and synthesizes the
// columns the training pipeline needs when the source file lacks them.
package dataset

import (
	"encoding/csv"
	"fmt"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"

	"github.com/sanjaymadhal/AI-Powered-Travel-Recommendation-and-Planner-using-Weather-and-Traffic-Forecast/pkg/features"
)

// Load parses a CSV with at least name and rating columns (headers matched
// case-insensitively; "city" is accepted for name). Temperature, condition,
// travel time and ratings-count columns are read when present and left zero
// otherwise, to be filled by Simulate.
func Load(path string) ([]features.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing dataset %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("dataset %s has no data rows", path)
	}

	cols := indexColumns(records[0])
	nameIdx, ok := cols["name"]
	if !ok {
		nameIdx, ok = cols["city"]
	}
	if !ok {
		return nil, fmt.Errorf("dataset %s: no name or city column", path)
	}
	ratingIdx, ok := cols["rating"]
	if !ok {
		return nil, fmt.Errorf("dataset %s: no rating column", path)
	}

	seen := make(map[string]bool)
	var rows []features.Row
	for i, rec := range records[1:] {
		name := strings.TrimSpace(rec[nameIdx])
		if name == "" || seen[name] {
			continue // skip blanks and duplicate destinations
		}
		seen[name] = true

		rating, err := strconv.ParseFloat(strings.TrimSpace(rec[ratingIdx]), 64)
		if err != nil {
			return nil, fmt.Errorf("dataset %s row %d: bad rating %q: %w", path, i+2, rec[ratingIdx], err)
		}

		row := features.Row{Name: name, Rating: rating}
		row.TempC = optionalFloat(rec, cols, "temperature")
		row.TravelTimeMin = optionalFloat(rec, cols, "travel_time")
		row.UserRatingsTotal = optionalFloat(rec, cols, "user_ratings_total")
		if idx, ok := cols["condition"]; ok && idx < len(rec) {
			row.Condition = strings.TrimSpace(rec[idx])
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("dataset %s has no usable rows", path)
	}
	return rows, nil
}

// Builtin returns the bundled destination table, used when no CSV is
// supplied. Names and ratings follow the Holidify destination list the
// planner was originally tuned on; environmental columns are left zero for
// Simulate to fill.
func Builtin() []features.Row {
	type entry struct {
		name   string
		rating float64
	}
	entries := []entry{
		{"Manali", 4.5}, {"Leh Ladakh", 4.6}, {"Coorg", 4.2}, {"Andaman", 4.5},
		{"Lakshadweep", 4.3}, {"Goa", 4.5}, {"Udaipur", 4.4}, {"Srinagar", 4.5},
		{"Gangtok", 4.3}, {"Munnar", 4.4}, {"Varkala", 4.1}, {"Mcleodganj", 4.2},
		{"Rishikesh", 4.4}, {"Alleppey", 4.3}, {"Darjeeling", 4.3}, {"Nainital", 4.2},
		{"Shimla", 4.2}, {"Ooty", 4.3}, {"Jaipur", 4.4}, {"Lonavala", 4.0},
		{"Mussoorie", 4.1}, {"Kodaikanal", 4.2}, {"Dalhousie", 4.0}, {"Pachmarhi", 4.0},
		{"Varanasi", 4.3}, {"Mahabaleshwar", 4.1}, {"Mount Abu", 4.0}, {"Agra", 4.4},
		{"Jodhpur", 4.2}, {"Amritsar", 4.4}, {"Jaisalmer", 4.3}, {"Mumbai", 4.3},
		{"Delhi", 4.2}, {"Hyderabad", 4.2}, {"Kolkata", 4.2}, {"Bangalore", 4.1},
		{"Chennai", 4.0}, {"Pune", 4.0}, {"Auli", 4.2}, {"Wayanad", 4.2},
		{"Kasol", 4.3}, {"Spiti Valley", 4.5}, {"Hampi", 4.4}, {"Khajuraho", 4.2},
		{"Pondicherry", 4.2}, {"Gulmarg", 4.4}, {"Tawang", 4.3}, {"Kanyakumari", 4.1},
		{"Mysore", 4.3}, {"Kochi", 4.2}, {"Ajanta and Ellora Caves", 4.4},
		{"Madurai", 4.1}, {"Haridwar", 4.2}, {"Pahalgam", 4.4}, {"Ranthambore", 4.2},
		{"Shillong", 4.2}, {"Cherrapunji", 4.2}, {"Binsar", 4.0}, {"Chikmagalur", 4.1},
		{"Kaziranga National Park", 4.4}, {"Gokarna", 4.2}, {"Jim Corbett National Park", 4.2},
		{"Chopta", 4.2}, {"Dharamshala", 4.2}, {"Tirupati", 4.2}, {"Rameshwaram", 4.2},
		{"Vaishno Devi", 4.3}, {"Kovalam", 4.0}, {"Thekkady", 4.1}, {"Kumarakom", 4.1},
		{"Ranikhet", 4.0}, {"Almora", 4.0}, {"Kausani", 4.0}, {"Lansdowne", 3.9},
		{"Chittorgarh", 4.1},
	}
	rows := make([]features.Row, len(entries))
	for i, e := range entries {
		rows[i] = features.Row{Name: e.name, Rating: e.rating}
	}
	return rows
}

// Simulate fills any zero-valued environmental columns with plausible values
// so feature engineering always has a complete table to work from.
func Simulate(rows []features.Row, rng *rand.Rand) {
	conditions := features.KnownConditions()
	for i := range rows {
		r := &rows[i]
		if r.TempC == 0 {
			r.TempC = 15 + rng.Float64()*20 // 15..35 C
		}
		if r.Condition == "" {
			r.Condition = conditions[rng.IntN(len(conditions))]
		}
		if r.TravelTimeMin == 0 {
			r.TravelTimeMin = 5 + rng.Float64()*55 // 5..60 min
		}
		if r.UserRatingsTotal == 0 {
			r.UserRatingsTotal = float64(20 + rng.IntN(481)) // 20..500
		}
	}
}

func indexColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		key = strings.ReplaceAll(key, " ", "_")
		cols[key] = i
	}
	return cols
}

func optionalFloat(rec []string, cols map[string]int, name string) float64 {
	idx, ok := cols[name]
	if !ok || idx >= len(rec) {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(rec[idx]), 64)
	if err != nil {
		return 0
	}
	return v
}
