// Package linear implements the linear estimators shipped with cascade:
// ridge regression, cross-validated ridge, and binary logistic regression.
// The blending stage uses these as its meta-estimators; they are also usable
// as first-level candidates.
package linear

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/ekisa-team/cascade/internal/metrics"
)

// Error definitions for the linear package.
var (
	ErrNotFitted   = errors.New("estimator has not been fitted")
	ErrEmptyInput  = errors.New("no samples to fit")
	ErrShape       = errors.New("feature and label dimensions disagree")
	ErrNotBinary   = errors.New("labels are not binary")
	ErrNoAlphas    = errors.New("no regularization candidates supplied")
	ErrSingularFit = errors.New("normal equations are singular")
)

// Ridge is L2-regularized least squares solved by normal equations.
// Fitted fields are exported for serialization.
type Ridge struct {
	Alpha     float64
	Coef      []float64
	Intercept float64
}

// NewRidge creates a ridge regressor with the given regularization strength.
func NewRidge(alpha float64) *Ridge {
	return &Ridge{Alpha: alpha}
}

// Fit trains the regressor on the given features and labels.
func (r *Ridge) Fit(X mat.Matrix, y []float64) error {
	return r.fit(X, y, nil)
}

// FitWeighted trains with per-sample weights.
func (r *Ridge) FitWeighted(X mat.Matrix, y, sampleWeight []float64) error {
	return r.fit(X, y, sampleWeight)
}

func (r *Ridge) fit(X mat.Matrix, y, sampleWeight []float64) error {
	n, d := X.Dims()
	if n == 0 || d == 0 {
		return ErrEmptyInput
	}
	if n != len(y) {
		return fmt.Errorf("%w: %d rows, %d labels", ErrShape, n, len(y))
	}
	if sampleWeight != nil && len(sampleWeight) != n {
		return fmt.Errorf("%w: %d rows, %d weights", ErrShape, n, len(sampleWeight))
	}

	// Weighted means for centering; the intercept absorbs them.
	weightTotal := 0.0
	xMeans := make([]float64, d)
	yMean := 0.0
	for i := 0; i < n; i++ {
		w := 1.0
		if sampleWeight != nil {
			w = sampleWeight[i]
		}
		weightTotal += w
		for j := 0; j < d; j++ {
			xMeans[j] += w * X.At(i, j)
		}
		yMean += w * y[i]
	}
	if weightTotal == 0 {
		return ErrEmptyInput
	}
	for j := 0; j < d; j++ {
		xMeans[j] /= weightTotal
	}
	yMean /= weightTotal

	// Centered, sqrt-weight scaled design matrix and response.
	xc := mat.NewDense(n, d, nil)
	yc := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		scale := 1.0
		if sampleWeight != nil {
			scale = math.Sqrt(sampleWeight[i])
		}
		for j := 0; j < d; j++ {
			xc.Set(i, j, scale*(X.At(i, j)-xMeans[j]))
		}
		yc.SetVec(i, scale*(y[i]-yMean))
	}

	var gram mat.Dense
	gram.Mul(xc.T(), xc)
	for j := 0; j < d; j++ {
		gram.Set(j, j, gram.At(j, j)+r.Alpha)
	}

	rhs := mat.NewVecDense(d, nil)
	rhs.MulVec(xc.T(), yc)

	var coef mat.VecDense
	if err := coef.SolveVec(&gram, rhs); err != nil {
		return fmt.Errorf("%w: %v", ErrSingularFit, err)
	}

	r.Coef = make([]float64, d)
	for j := 0; j < d; j++ {
		r.Coef[j] = coef.AtVec(j)
	}
	r.Intercept = yMean
	for j := 0; j < d; j++ {
		r.Intercept -= r.Coef[j] * xMeans[j]
	}
	return nil
}

// Predict produces point predictions.
func (r *Ridge) Predict(X mat.Matrix) ([]float64, error) {
	if r.Coef == nil {
		return nil, ErrNotFitted
	}
	n, d := X.Dims()
	if d != len(r.Coef) {
		return nil, fmt.Errorf("%w: %d features, %d coefficients", ErrShape, d, len(r.Coef))
	}

	out := make([]float64, n)
	for i := 0; i < n; i++ {
		sum := r.Intercept
		for j := 0; j < d; j++ {
			sum += r.Coef[j] * X.At(i, j)
		}
		out[i] = sum
	}
	return out, nil
}

// Coefficients returns the fitted coefficients.
func (r *Ridge) Coefficients() []float64 {
	return r.Coef
}

// Score returns R² on the given set.
func (r *Ridge) Score(X mat.Matrix, y []float64) (float64, error) {
	preds, err := r.Predict(X)
	if err != nil {
		return 0, err
	}
	v, err := metrics.R2Score(y, preds)
	if err != nil {
		return 0, err
	}
	return v.Scalar, nil
}
