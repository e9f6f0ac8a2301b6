package linear

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/ekisa-team/cascade/internal/metrics"
)

// Logistic is binary L2-regularized logistic regression fitted by iteratively
// reweighted least squares. Labels must be 0/1; PredictProba returns the
// positive-class probability. Fitted fields are exported for serialization.
type Logistic struct {
	Lambda    float64
	MaxIter   int
	Tol       float64
	Coef      []float64
	Intercept float64
}

// NewLogistic creates a logistic classifier with default regularization.
func NewLogistic() *Logistic {
	return &Logistic{
		Lambda:  1.0,
		MaxIter: 100,
		Tol:     1e-8,
	}
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

// Fit trains the classifier on binary labels.
func (l *Logistic) Fit(X mat.Matrix, y []float64) error {
	return l.FitWeighted(X, y, nil)
}

// FitWeighted trains with per-sample weights folded into the IRLS weighting.
func (l *Logistic) FitWeighted(X mat.Matrix, y, sampleWeight []float64) error {
	n, d := X.Dims()
	if n == 0 || d == 0 {
		return ErrEmptyInput
	}
	if n != len(y) {
		return fmt.Errorf("%w: %d rows, %d labels", ErrShape, n, len(y))
	}
	for _, v := range y {
		if v != 0 && v != 1 {
			return ErrNotBinary
		}
	}
	if sampleWeight != nil && len(sampleWeight) != n {
		return fmt.Errorf("%w: %d rows, %d weights", ErrShape, n, len(sampleWeight))
	}

	// Augment with an intercept column; the intercept is not penalized.
	aug := mat.NewDense(n, d+1, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < d; j++ {
			aug.Set(i, j, X.At(i, j))
		}
		aug.Set(i, d, 1)
	}

	beta := make([]float64, d+1)

	for iter := 0; iter < l.MaxIter; iter++ {
		// Working response z = Xb + (y - p)/w under weights w = p(1-p).
		weighted := mat.NewDense(n, d+1, nil)
		z := mat.NewVecDense(n, nil)
		for i := 0; i < n; i++ {
			eta := beta[d]
			for j := 0; j < d; j++ {
				eta += beta[j] * aug.At(i, j)
			}

			p := sigmoid(eta)
			w := p * (1 - p)
			if w < 1e-10 {
				w = 1e-10
			}
			if sampleWeight != nil {
				w *= sampleWeight[i]
			}

			sqw := math.Sqrt(w)
			for j := 0; j <= d; j++ {
				weighted.Set(i, j, sqw*aug.At(i, j))
			}
			z.SetVec(i, sqw*(eta+(y[i]-p)/(p*(1-p)+1e-10)))
		}

		var gram mat.Dense
		gram.Mul(weighted.T(), weighted)
		for j := 0; j < d; j++ {
			gram.Set(j, j, gram.At(j, j)+l.Lambda)
		}

		rhs := mat.NewVecDense(d+1, nil)
		rhs.MulVec(weighted.T(), z)

		var next mat.VecDense
		if err := next.SolveVec(&gram, rhs); err != nil {
			return fmt.Errorf("%w: %v", ErrSingularFit, err)
		}

		delta := 0.0
		for j := 0; j <= d; j++ {
			delta = math.Max(delta, math.Abs(next.AtVec(j)-beta[j]))
			beta[j] = next.AtVec(j)
		}
		if delta < l.Tol {
			break
		}
	}

	l.Coef = make([]float64, d)
	copy(l.Coef, beta[:d])
	l.Intercept = beta[d]
	return nil
}

// Predict thresholds the positive-class probability at 0.5.
func (l *Logistic) Predict(X mat.Matrix) ([]float64, error) {
	probas, err := l.PredictProba(X)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(probas))
	for i, p := range probas {
		if p >= 0.5 {
			out[i] = 1
		}
	}
	return out, nil
}

// PredictProba returns the probability of the positive class per row.
func (l *Logistic) PredictProba(X mat.Matrix) ([]float64, error) {
	if l.Coef == nil {
		return nil, ErrNotFitted
	}
	n, d := X.Dims()
	if d != len(l.Coef) {
		return nil, fmt.Errorf("%w: %d features, %d coefficients", ErrShape, d, len(l.Coef))
	}

	out := make([]float64, n)
	for i := 0; i < n; i++ {
		eta := l.Intercept
		for j := 0; j < d; j++ {
			eta += l.Coef[j] * X.At(i, j)
		}
		out[i] = sigmoid(eta)
	}
	return out, nil
}

// Coefficients returns the fitted coefficients.
func (l *Logistic) Coefficients() []float64 {
	return l.Coef
}

// Score returns accuracy on the given set.
func (l *Logistic) Score(X mat.Matrix, y []float64) (float64, error) {
	preds, err := l.Predict(X)
	if err != nil {
		return 0, err
	}
	v, err := metrics.AccuracyScore(y, preds)
	if err != nil {
		return 0, err
	}
	return v.Scalar, nil
}
