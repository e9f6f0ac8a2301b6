package linear

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// DefaultAlphas is the regularization candidate grid for RidgeCV, spanning
// four orders of magnitude either side of 1.
var DefaultAlphas = []float64{
	0.0001, 0.005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5,
	1.0, 5.0, 10.0, 50.0, 100.0, 500.0, 1000.0,
}

// RidgeCV is ridge regression with the regularization strength chosen by
// k-fold cross-validated mean squared error over a candidate grid.
type RidgeCV struct {
	Ridge

	Alphas []float64
	Folds  int
}

// NewRidgeCV creates a cross-validated ridge regressor. A nil alphas slice
// selects the default grid.
func NewRidgeCV(alphas []float64, folds int) *RidgeCV {
	if alphas == nil {
		alphas = DefaultAlphas
	}
	if folds < 2 {
		folds = 3
	}
	return &RidgeCV{Alphas: alphas, Folds: folds}
}

// Fit searches the candidate grid by cross-validation and refits on the full
// data with the winning alpha. Folds are contiguous row blocks, so the search
// is deterministic for a fixed input ordering.
func (r *RidgeCV) Fit(X mat.Matrix, y []float64) error {
	if len(r.Alphas) == 0 {
		return ErrNoAlphas
	}
	n, _ := X.Dims()
	if n != len(y) {
		return ErrShape
	}

	folds := r.Folds
	if folds > n {
		folds = n
	}
	if folds < 2 {
		// Too few rows to hold anything out; fall back to the first alpha.
		r.Ridge.Alpha = r.Alphas[0]
		return r.Ridge.Fit(X, y)
	}

	bestAlpha, bestErr := r.Alphas[0], math.Inf(1)
	for _, alpha := range r.Alphas {
		cvErr, err := r.crossValidate(X, y, alpha, folds)
		if err != nil {
			return err
		}
		if cvErr < bestErr {
			bestErr = cvErr
			bestAlpha = alpha
		}
	}

	r.Ridge.Alpha = bestAlpha
	return r.Ridge.Fit(X, y)
}

func (r *RidgeCV) crossValidate(X mat.Matrix, y []float64, alpha float64, folds int) (float64, error) {
	n, d := X.Dims()
	dense := mat.DenseCopyOf(X)

	totalErr, totalCount := 0.0, 0
	for fold := 0; fold < folds; fold++ {
		lo := fold * n / folds
		hi := (fold + 1) * n / folds
		if lo == hi {
			continue
		}

		trainRows := n - (hi - lo)
		trainX := mat.NewDense(trainRows, d, nil)
		trainY := make([]float64, 0, trainRows)
		row := 0
		for i := 0; i < n; i++ {
			if i >= lo && i < hi {
				continue
			}
			trainX.SetRow(row, dense.RawRowView(i))
			trainY = append(trainY, y[i])
			row++
		}

		est := NewRidge(alpha)
		if err := est.Fit(trainX, trainY); err != nil {
			return 0, err
		}

		holdout := dense.Slice(lo, hi, 0, d)
		preds, err := est.Predict(holdout)
		if err != nil {
			return 0, err
		}
		for i, p := range preds {
			diff := y[lo+i] - p
			totalErr += diff * diff
			totalCount++
		}
	}

	return totalErr / float64(totalCount), nil
}
