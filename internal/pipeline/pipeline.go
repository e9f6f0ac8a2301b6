// Package pipeline orchestrates a model run: fitting every configured
// algorithm against the shared split, producing predictions, scoring them,
// selecting the best performer, and blending a meta-estimator over the
// first-level outputs.
//
// Stages run strictly sequentially; each mutates the shared state the next
// one reads. The optional parallel fit preserves that contract by merging
// per-algorithm results single-threaded after the barrier.
package pipeline

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ekisa-team/cascade/internal/config"
	"github.com/ekisa-team/cascade/internal/estimator"
	"github.com/ekisa-team/cascade/internal/model"
)

// Pipeline drives the stages of one model run over a single State.
type Pipeline struct {
	spec     *config.Spec
	state    *model.State
	registry *estimator.Registry
	log      *slog.Logger
	runID    uuid.UUID
}

// New creates a pipeline run. The spec's algorithm list seeds the state, and
// sample weights are computed up front when class balancing is requested.
func New(spec *config.Spec, data *model.Dataset, registry *estimator.Registry, log *slog.Logger) (*Pipeline, error) {
	if log == nil {
		log = slog.Default()
	}

	state, err := model.New(model.Type(spec.ModelType), spec.Algorithms, data)
	if err != nil {
		return nil, err
	}

	weights, err := model.SampleWeights(data.YTrain, spec.BalanceClasses, spec.TargetValue)
	if err != nil {
		return nil, err
	}
	state.SampleWeights = weights
	if weights == nil {
		log.Info("Skipping sample weights")
	} else {
		log.Info("Sample weights computed", "target_value", spec.TargetValue)
	}

	runID := uuid.New()
	return &Pipeline{
		spec:     spec,
		state:    state,
		registry: registry,
		log:      log.With("run_id", runID.String()),
		runID:    runID,
	}, nil
}

// State exposes the run's artifact record.
func (p *Pipeline) State() *model.State {
	return p.state
}

// RunID returns the unique id of this run.
func (p *Pipeline) RunID() uuid.UUID {
	return p.runID
}

// Run executes the full stage sequence: fit, predict, metrics on both
// partitions, selection, and blending.
func (p *Pipeline) Run(ctx context.Context) error {
	if err := p.Fit(ctx); err != nil {
		return err
	}
	return p.afterFit(ctx)
}

// RunParallel is Run with the fit stage spread over the given number of
// workers.
func (p *Pipeline) RunParallel(ctx context.Context, workers int) error {
	if workers <= 1 {
		return p.Run(ctx)
	}
	if err := p.FitParallel(ctx, workers); err != nil {
		return err
	}
	return p.afterFit(ctx)
}

func (p *Pipeline) afterFit(ctx context.Context) error {
	if err := p.Predict(ctx); err != nil {
		return err
	}
	if err := p.ComputeMetrics(model.Train); err != nil {
		return err
	}
	if err := p.ComputeMetrics(model.Test); err != nil {
		return err
	}
	if err := p.SelectBest(); err != nil {
		return err
	}
	return p.Blend()
}

func (p *Pipeline) classification() bool {
	return p.state.Type == model.Classification
}
