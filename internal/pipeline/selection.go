package pipeline

import (
	"fmt"
	"math"
	"time"

	"github.com/ekisa-team/cascade/internal/metrics"
	"github.com/ekisa-team/cascade/internal/model"
)

// SelectBest picks the winning algorithm by the configured scorer and copies
// its artifacts into the BEST slot. Scores are read from the test partition
// when test labels exist, otherwise from train. Ties keep the
// earliest-listed algorithm.
func (p *Pipeline) SelectBest() error {
	scorer, err := metrics.LookupScorer(p.spec.Scorer)
	if err != nil {
		return err
	}

	partition := model.Train
	if p.state.Data.YTest != nil {
		partition = model.Test
	}

	start := time.Now()
	p.log.Info("Selecting best model",
		"scorer", p.spec.Scorer, "direction", scorer.Direction.String(), "partition", partition)

	maximize := scorer.Direction == metrics.Maximize
	bestScore := math.Inf(1)
	if maximize {
		bestScore = math.Inf(-1)
	}

	bestAlgo := ""
	for _, algo := range p.state.Algorithms {
		value, ok := p.state.Metrics[model.MetricKey{Algo: algo, Partition: partition, Metric: scorer.Metric}]
		if !ok {
			return fmt.Errorf("%w: %s/%s/%s", ErrMetricNotComputed, algo, partition, scorer.Metric)
		}

		if maximize && value.Scalar > bestScore || !maximize && value.Scalar < bestScore {
			bestScore = value.Scalar
			bestAlgo = algo
		}
	}

	p.log.Info("Best model selected",
		"algorithm", bestAlgo, "scorer", p.spec.Scorer, "score", bestScore)

	if err := p.copySlot(bestAlgo, model.BestTag); err != nil {
		return err
	}

	p.log.Info("Best model selection complete", "elapsed", time.Since(start))
	return nil
}

// copySlot aliases an algorithm's estimator and copies its prediction vectors
// into a reserved slot. Vectors are copied so later stages cannot mutate the
// source algorithm's artifacts through the slot.
func (p *Pipeline) copySlot(algo, tag string) error {
	est, ok := p.state.Estimators[algo]
	if !ok {
		return fmt.Errorf("%w: %s", ErrEstimatorMissing, algo)
	}
	p.state.Estimators[tag] = est

	for _, partition := range p.partitions() {
		src := model.PredKey{Algo: algo, Partition: partition}
		dst := model.PredKey{Algo: tag, Partition: partition}

		preds, ok := p.state.Preds[src]
		if !ok {
			return fmt.Errorf("%w: %s/%s", ErrPredictionsMissing, algo, partition)
		}
		p.state.Preds[dst] = append([]float64(nil), preds...)

		if p.classification() {
			probas, ok := p.state.Probas[src]
			if !ok {
				return fmt.Errorf("%w: %s/%s probabilities", ErrPredictionsMissing, algo, partition)
			}
			p.state.Probas[dst] = append([]float64(nil), probas...)
		}
	}
	return nil
}
