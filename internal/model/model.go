// Package model holds the central record of a pipeline run: the train/test
// split and every per-algorithm artifact produced by the stages (fitted
// estimators, importances, coefficients, support masks, predictions,
// probabilities, metrics).
//
// The state is mutated in place by one logical writer per stage. The reserved
// ids BEST and BLEND are derived views added by the selection and blending
// stages; referencing them earlier is an error.
package model

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/ekisa-team/cascade/internal/estimator"
	"github.com/ekisa-team/cascade/internal/metrics"
)

// Type is the learning task kind.
type Type string

const (
	// Classification predicts binary class labels.
	Classification Type = "classification"
	// Regression predicts continuous values.
	Regression Type = "regression"
)

// Partition names a data split.
type Partition string

const (
	// Train is the training partition.
	Train Partition = "train"
	// Test is the holdout partition.
	Test Partition = "test"
)

// Reserved pseudo-algorithm ids.
const (
	// BestTag is the slot the selection stage copies the winner into.
	BestTag = "BEST"
	// BlendTag is the slot the blending stage stores the meta-estimator into.
	BlendTag = "BLEND"
)

// PredKey addresses a prediction or probability vector.
type PredKey struct {
	Algo      string
	Partition Partition
}

// MetricKey addresses a computed metric value.
type MetricKey struct {
	Algo      string
	Partition Partition
	Metric    metrics.Name
}

// Dataset is the shared train/test split. YTest is nil for a true holdout
// without ground truth.
type Dataset struct {
	XTrain *mat.Dense
	XTest  *mat.Dense
	YTrain []float64
	YTest  []float64
}

// NewDataset validates shape invariants: label lengths match feature rows and
// train/test column counts agree.
func NewDataset(xTrain, xTest *mat.Dense, yTrain, yTest []float64) (*Dataset, error) {
	trainRows, trainCols := xTrain.Dims()
	testRows, testCols := xTest.Dims()

	if trainCols != testCols {
		return nil, fmt.Errorf("%w: train has %d feature columns, test has %d", ErrShapeMismatch, trainCols, testCols)
	}
	if len(yTrain) != trainRows {
		return nil, fmt.Errorf("%w: %d train rows, %d train labels", ErrShapeMismatch, trainRows, len(yTrain))
	}
	if yTest != nil && len(yTest) != testRows {
		return nil, fmt.Errorf("%w: %d test rows, %d test labels", ErrShapeMismatch, testRows, len(yTest))
	}

	return &Dataset{XTrain: xTrain, XTest: xTest, YTrain: yTrain, YTest: yTest}, nil
}

// Labels returns ground truth for the partition, nil when unavailable.
func (d *Dataset) Labels(partition Partition) []float64 {
	if partition == Train {
		return d.YTrain
	}
	return d.YTest
}

// Features returns the feature matrix for the partition.
func (d *Dataset) Features(partition Partition) *mat.Dense {
	if partition == Train {
		return d.XTrain
	}
	return d.XTest
}

// State aggregates every artifact of a pipeline run.
type State struct {
	Type       Type
	Algorithms []string
	Data       *Dataset

	// SampleWeights is nil when class balancing is disabled.
	SampleWeights []float64

	// Keyed by algorithm id.
	Estimators  map[string]estimator.Estimator
	Importances map[string][]float64
	Coefs       map[string][]float64
	Support     map[string][]bool

	// Keyed by (algorithm id, partition).
	Preds  map[PredKey][]float64
	Probas map[PredKey][]float64

	// Keyed by (algorithm id, partition, metric). Sparse: an absent entry
	// means the metric could not be computed for that combination.
	Metrics map[MetricKey]metrics.Value
}

// New creates the state for a run. The algorithm list must be present and
// free of duplicates; all artifact containers start empty and are populated
// incrementally by the stages.
func New(modelType Type, algorithms []string, data *Dataset) (*State, error) {
	if len(algorithms) == 0 {
		return nil, ErrMissingAlgorithms
	}
	seen := make(map[string]struct{}, len(algorithms))
	for _, algo := range algorithms {
		if _, ok := seen[algo]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateAlgorithm, algo)
		}
		seen[algo] = struct{}{}
	}

	return &State{
		Type:        modelType,
		Algorithms:  algorithms,
		Data:        data,
		Estimators:  make(map[string]estimator.Estimator),
		Importances: make(map[string][]float64),
		Coefs:       make(map[string][]float64),
		Support:     make(map[string][]bool),
		Preds:       make(map[PredKey][]float64),
		Probas:      make(map[PredKey][]float64),
		Metrics:     make(map[MetricKey]metrics.Value),
	}, nil
}

// AlgoMetrics collects the computed metrics for one algorithm and partition,
// keyed by metric name.
func (s *State) AlgoMetrics(algo string, partition Partition) map[metrics.Name]metrics.Value {
	out := make(map[metrics.Name]metrics.Value)
	for key, value := range s.Metrics {
		if key.Algo == algo && key.Partition == partition {
			out[key.Metric] = value
		}
	}
	return out
}
