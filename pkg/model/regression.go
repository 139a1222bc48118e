package model

import "errors"

// Regression is a least-squares linear model over scaled features.
type Regression struct {
	Weights   []float64 `json:"weights"`
	Intercept float64   `json:"intercept"`
}

// ridgeLambda is a small L2 penalty that keeps the normal equations solvable
// when feature columns are nearly collinear (common with simulated data).
const ridgeLambda = 1e-6

// TrainRegression fits a linear model to x and y by solving the normal
// equations. x rows must all have the same length.
func TrainRegression(x [][]float64, y []float64) (Regression, error) {
	if len(x) == 0 || len(x) != len(y) {
		return Regression{}, errors.New("model: training set is empty or misaligned")
	}
	cols := len(x[0])
	// Augment with a bias column so the intercept falls out of the solve.
	dim := cols + 1

	// Build A = X'X + lambda*I and b = X'y.
	a := make([][]float64, dim)
	for i := range a {
		a[i] = make([]float64, dim)
	}
	b := make([]float64, dim)

	for i, row := range x {
		if len(row) != cols {
			return Regression{}, errors.New("model: ragged feature matrix")
		}
		aug := make([]float64, dim)
		copy(aug, row)
		aug[cols] = 1
		for p := range dim {
			for q := range dim {
				a[p][q] += aug[p] * aug[q]
			}
			b[p] += aug[p] * y[i]
		}
	}
	for p := range cols {
		a[p][p] += ridgeLambda
	}

	w, err := solve(a, b)
	if err != nil {
		return Regression{}, err
	}
	return Regression{Weights: w[:cols], Intercept: w[cols]}, nil
}

// Predict returns one score per row of scaled features.
func (r Regression) Predict(x [][]float64) []float64 {
	out := make([]float64, len(x))
	for i, row := range x {
		s := r.Intercept
		for j, v := range row {
			s += r.Weights[j] * v
		}
		out[i] = s
	}
	return out
}

// RSquared computes the coefficient of determination of predictions against
// observed labels.
func RSquared(predicted, observed []float64) float64 {
	if len(observed) == 0 || len(predicted) != len(observed) {
		return 0
	}
	var mean float64
	for _, v := range observed {
		mean += v
	}
	mean /= float64(len(observed))

	var ssRes, ssTot float64
	for i, v := range observed {
		d := v - predicted[i]
		ssRes += d * d
		t := v - mean
		ssTot += t * t
	}
	if ssTot == 0 {
		return 0
	}
	return 1 - ssRes/ssTot
}

// solve performs Gaussian elimination with partial pivoting on a*x = b.
// a and b are consumed.
func solve(a [][]float64, b []float64) ([]float64, error) {
	n := len(a)
	for col := range n {
		pivot := col
		for r := col + 1; r < n; r++ {
			if abs(a[r][col]) > abs(a[pivot][col]) {
				pivot = r
			}
		}
		if abs(a[pivot][col]) < 1e-12 {
			return nil, errors.New("model: singular feature matrix")
		}
		a[col], a[pivot] = a[pivot], a[col]
		b[col], b[pivot] = b[pivot], b[col]

		for r := col + 1; r < n; r++ {
			f := a[r][col] / a[col][col]
			for c := col; c < n; c++ {
				a[r][c] -= f * a[col][c]
			}
			b[r] -= f * b[col]
		}
	}

	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		s := b[i]
		for j := i + 1; j < n; j++ {
			s -= a[i][j] * x[j]
		}
		x[i] = s / a[i][i]
	}
	return x, nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
