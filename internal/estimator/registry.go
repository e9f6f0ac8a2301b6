package estimator

import (
	"fmt"
	"sync"
)

// Factory builds a fresh, unfitted estimator from hyperparameters.
type Factory func(params map[string]any) Estimator

// Algorithm is a registered recipe: how to build the estimator, its
// hyperparameters, and which scorers map to a native evaluation metric for
// eval-set early stopping. An algorithm with a nil or empty EvalMetrics map
// never takes the early-stopping fit path.
type Algorithm struct {
	Factory     Factory
	Params      map[string]any
	EvalMetrics map[string]string
}

// Registry manages algorithm recipes keyed by algorithm id.
type Registry struct {
	algorithms map[string]Algorithm
	mu         sync.RWMutex
}

// NewRegistry creates an empty algorithm registry.
func NewRegistry() *Registry {
	return &Registry{
		algorithms: make(map[string]Algorithm),
	}
}

// Register adds an algorithm recipe to the registry.
func (r *Registry) Register(id string, algo Algorithm) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.algorithms[id]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, id)
	}
	r.algorithms[id] = algo
	return nil
}

// New builds a fresh estimator for the given algorithm id.
func (r *Registry) New(id string) (Estimator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	algo, ok := r.algorithms[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAlgorithm, id)
	}
	return algo.Factory(algo.Params), nil
}

// Builder returns a zero-argument constructor for the algorithm, used where a
// collaborator needs to create fresh instances (calibration folds).
func (r *Registry) Builder(id string) (func() Estimator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	algo, ok := r.algorithms[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAlgorithm, id)
	}
	return func() Estimator { return algo.Factory(algo.Params) }, nil
}

// SetParams replaces the hyperparameters of a registered algorithm.
func (r *Registry) SetParams(id string, params map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	algo, ok := r.algorithms[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAlgorithm, id)
	}
	algo.Params = params
	r.algorithms[id] = algo
	return nil
}

// EvalMetric resolves the native evaluation metric the algorithm uses for the
// given scorer, if early stopping applies.
func (r *Registry) EvalMetric(id, scorer string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	algo, ok := r.algorithms[id]
	if !ok || algo.EvalMetrics == nil {
		return "", false
	}
	metric, ok := algo.EvalMetrics[scorer]
	return metric, ok
}

// IDs returns the registered algorithm ids.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.algorithms))
	for id := range r.algorithms {
		ids = append(ids, id)
	}
	return ids
}
