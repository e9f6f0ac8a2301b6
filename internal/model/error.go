package model

import "errors"

// Error definitions for the model package.
var (
	ErrMissingAlgorithms  = errors.New("model spec must include the key: algorithms")
	ErrDuplicateAlgorithm = errors.New("algorithm listed more than once")
	ErrNoPositiveSamples  = errors.New("no samples with the target value; class weight ratio is undefined")
	ErrShapeMismatch      = errors.New("dataset shapes are inconsistent")
	ErrMissingPartition   = errors.New("partition data is missing")
)
