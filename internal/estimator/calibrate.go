package estimator

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/ekisa-team/cascade/internal/estimator/linear"
	"github.com/ekisa-team/cascade/internal/metrics"
)

// CalibrationMethod selects how raw probabilities are mapped to calibrated
// ones.
type CalibrationMethod string

const (
	// CalibrationSigmoid fits a Platt-scaling logistic map.
	CalibrationSigmoid CalibrationMethod = "sigmoid"
	// CalibrationIsotonic fits a monotone step map by pool-adjacent-violators.
	CalibrationIsotonic CalibrationMethod = "isotonic"
)

// ErrUnknownCalibration is returned for an unrecognized calibration method.
var ErrUnknownCalibration = errors.New("unknown calibration method")

// CalibratedClassifier wraps a classifier builder and recalibrates its
// probability output with cross-validated out-of-fold estimates. It satisfies
// the same capabilities as the wrapped classifier's slot requires, so the
// pipeline can swap it in place of the original estimator.
type CalibratedClassifier struct {
	Method CalibrationMethod
	Folds  int

	Base  Estimator
	Map   *IsotonicMap
	Platt *linear.Logistic

	builder func() Estimator
}

// Calibrate creates a calibrated classifier around fresh instances produced
// by builder.
func Calibrate(builder func() Estimator, method CalibrationMethod, folds int) *CalibratedClassifier {
	if folds < 2 {
		folds = 3
	}
	return &CalibratedClassifier{
		Method:  method,
		Folds:   folds,
		builder: builder,
	}
}

// Fit computes out-of-fold probabilities, fits the calibration map on them,
// and refits the base classifier on the full training data.
func (c *CalibratedClassifier) Fit(X mat.Matrix, y []float64) error {
	return c.FitWeighted(X, y, nil)
}

// FitWeighted is Fit with per-sample weights forwarded to weight-capable base
// classifiers.
func (c *CalibratedClassifier) FitWeighted(X mat.Matrix, y, sampleWeight []float64) error {
	if c.Method != CalibrationSigmoid && c.Method != CalibrationIsotonic {
		return fmt.Errorf("%w: %s", ErrUnknownCalibration, c.Method)
	}

	n, d := X.Dims()
	if n != len(y) {
		return linear.ErrShape
	}
	dense := mat.DenseCopyOf(X)

	folds := c.Folds
	if folds > n {
		folds = n
	}

	oof := make([]float64, n)
	for fold := 0; fold < folds; fold++ {
		lo := fold * n / folds
		hi := (fold + 1) * n / folds
		if lo == hi {
			continue
		}

		trainX := mat.NewDense(n-(hi-lo), d, nil)
		trainY := make([]float64, 0, n-(hi-lo))
		var trainW []float64
		if sampleWeight != nil {
			trainW = make([]float64, 0, n-(hi-lo))
		}
		row := 0
		for i := 0; i < n; i++ {
			if i >= lo && i < hi {
				continue
			}
			trainX.SetRow(row, dense.RawRowView(i))
			trainY = append(trainY, y[i])
			if sampleWeight != nil {
				trainW = append(trainW, sampleWeight[i])
			}
			row++
		}

		est := c.builder()
		if err := fitMaybeWeighted(est, trainX, trainY, trainW); err != nil {
			return fmt.Errorf("calibration fold %d: %w", fold, err)
		}

		prob, ok := est.(ProbabilityEstimator)
		if !ok {
			return ErrNoProbabilities
		}
		probas, err := prob.PredictProba(dense.Slice(lo, hi, 0, d))
		if err != nil {
			return fmt.Errorf("calibration fold %d: %w", fold, err)
		}
		copy(oof[lo:hi], probas)
	}

	if err := c.fitMap(oof, y); err != nil {
		return err
	}

	c.Base = c.builder()
	if err := fitMaybeWeighted(c.Base, X, y, sampleWeight); err != nil {
		return err
	}
	if _, ok := c.Base.(ProbabilityEstimator); !ok {
		return ErrNoProbabilities
	}
	return nil
}

func fitMaybeWeighted(est Estimator, X mat.Matrix, y, sampleWeight []float64) error {
	if sampleWeight != nil {
		if weighted, ok := est.(WeightedFitter); ok {
			return weighted.FitWeighted(X, y, sampleWeight)
		}
	}
	return est.Fit(X, y)
}

func (c *CalibratedClassifier) fitMap(scores, y []float64) error {
	if c.Method == CalibrationIsotonic {
		c.Map = FitIsotonic(scores, y)
		return nil
	}

	platt := linear.NewLogistic()
	X := mat.NewDense(len(scores), 1, nil)
	for i, s := range scores {
		X.Set(i, 0, s)
	}
	if err := platt.Fit(X, y); err != nil {
		return fmt.Errorf("platt scaling: %w", err)
	}
	c.Platt = platt
	return nil
}

// Predict thresholds the calibrated probability at 0.5.
func (c *CalibratedClassifier) Predict(X mat.Matrix) ([]float64, error) {
	probas, err := c.PredictProba(X)
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

// PredictProba maps the base classifier's probabilities through the
// calibration map.
func (c *CalibratedClassifier) PredictProba(X mat.Matrix) ([]float64, error) {
	if c.Base == nil {
		return nil, ErrNotFitted
	}
	prob := c.Base.(ProbabilityEstimator)

	raw, err := prob.PredictProba(X)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(raw))
	for i, p := range raw {
		out[i] = c.mapProba(p)
	}
	return out, nil
}

func (c *CalibratedClassifier) mapProba(p float64) float64 {
	if c.Method == CalibrationIsotonic {
		return c.Map.Value(p)
	}
	return plattValue(c.Platt, p)
}

func plattValue(platt *linear.Logistic, p float64) float64 {
	X := mat.NewDense(1, 1, []float64{p})
	probas, err := platt.PredictProba(X)
	if err != nil {
		return p
	}
	return probas[0]
}

// Score returns calibrated accuracy on the given set.
func (c *CalibratedClassifier) Score(X mat.Matrix, y []float64) (float64, error) {
	preds, err := c.Predict(X)
	if err != nil {
		return 0, err
	}
	v, err := metrics.AccuracyScore(y, preds)
	if err != nil {
		return 0, err
	}
	return v.Scalar, nil
}
