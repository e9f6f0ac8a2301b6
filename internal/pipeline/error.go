package pipeline

import "errors"

// Error definitions for the pipeline package.
var (
	ErrEstimatorMissing   = errors.New("algorithm has no fitted estimator")
	ErrPredictionsMissing = errors.New("algorithm has no predictions for partition")
	ErrMetricNotComputed  = errors.New("scorer metric was never computed for algorithm")
)
