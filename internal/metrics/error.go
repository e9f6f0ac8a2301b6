package metrics

import "errors"

// Error definitions for the metrics package.
var (
	ErrLengthMismatch   = errors.New("expected and predicted lengths differ")
	ErrEmptyInput       = errors.New("no samples to score")
	ErrContinuousTarget = errors.New("continuous targets are not supported")
	ErrNotBinary        = errors.New("targets are not binary")
	ErrSingleClass      = errors.New("only one class present in targets")
	ErrDegenerate       = errors.New("targets have zero variance")
	ErrUnknownScorer    = errors.New("scorer is not registered")
)
