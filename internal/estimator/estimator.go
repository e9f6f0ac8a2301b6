// Package estimator defines the capability interfaces every candidate
// algorithm is consumed through, and the registry of algorithm recipes.
//
// An algorithm is an opaque fitted artifact: the core pipeline only relies on
// Estimator, and probes for the optional capabilities (probabilities, sample
// weighting, eval-set early stopping, importances, coefficients, self-scoring)
// with type assertions rather than assuming a concrete type.
package estimator

import "gonum.org/v1/gonum/mat"

// Estimator is the minimal fitting and prediction capability.
type Estimator interface {
	// Fit trains the estimator on the given features and labels.
	Fit(X mat.Matrix, y []float64) error

	// Predict produces point predictions for the given features.
	Predict(X mat.Matrix) ([]float64, error)
}

// ProbabilityEstimator is an optional interface for classifiers that can
// produce positive-class probability estimates.
type ProbabilityEstimator interface {
	Estimator

	// PredictProba returns the probability of the positive class per row.
	PredictProba(X mat.Matrix) ([]float64, error)
}

// WeightedFitter is an optional interface for estimators that accept
// per-sample weights.
type WeightedFitter interface {
	// FitWeighted trains with one weight per training sample.
	FitWeighted(X mat.Matrix, y, sampleWeight []float64) error
}

// EvalSetFitter is an optional interface for estimators that monitor a
// held-out evaluation set and stop early when the metric stalls.
type EvalSetFitter interface {
	// FitEvalSet trains on (X, y) while evaluating metric on (evalX, evalY)
	// after each boosting round, stopping once the metric has not improved
	// for rounds consecutive rounds.
	FitEvalSet(X mat.Matrix, y []float64, evalX mat.Matrix, evalY []float64, metric string, rounds int) error
}

// ImportanceReporter is an optional interface for estimators that expose
// per-feature importances after fitting.
type ImportanceReporter interface {
	FeatureImportances() []float64
}

// CoefficientReporter is an optional interface for estimators that expose
// fitted coefficients.
type CoefficientReporter interface {
	Coefficients() []float64
}

// SelfScorer is an optional interface for estimators that report their
// default score on a labeled set (accuracy for classifiers, R² for
// regressors).
type SelfScorer interface {
	Score(X mat.Matrix, y []float64) (float64, error)
}
