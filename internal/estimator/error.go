package estimator

import "errors"

// Error definitions for the estimator package.
var (
	ErrUnknownAlgorithm  = errors.New("algorithm not found in registry")
	ErrAlreadyRegistered = errors.New("algorithm is already registered in the registry")
	ErrNotFitted         = errors.New("estimator has not been fitted")
	ErrNoProbabilities   = errors.New("estimator does not produce probabilities")
)
