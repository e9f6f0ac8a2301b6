package pipeline

import (
	"fmt"
	"sort"

	"github.com/ekisa-team/cascade/internal/metrics"
	"github.com/ekisa-team/cascade/internal/model"
)

// ComputeMetrics runs the evaluation battery for every configured algorithm
// on one partition. A partition without ground truth is a logged no-op that
// leaves prior entries untouched. Individual metric failures are logged and
// skipped; a missing prediction vector is fatal.
func (p *Pipeline) ComputeMetrics(partition model.Partition) error {
	expected := p.state.Data.Labels(partition)
	if expected == nil {
		p.log.Info("No labels for generating metrics", "partition", partition)
		return nil
	}

	p.log.Info("Generating metrics", "partition", partition)

	for _, algo := range p.state.Algorithms {
		predicted, ok := p.state.Preds[model.PredKey{Algo: algo, Partition: partition}]
		if !ok {
			return fmt.Errorf("%w: %s/%s", ErrPredictionsMissing, algo, partition)
		}
		p.computeBattery(algo, partition, expected, predicted, metrics.PointBattery())

		if p.classification() {
			probas, ok := p.state.Probas[model.PredKey{Algo: algo, Partition: partition}]
			if !ok {
				return fmt.Errorf("%w: %s/%s probabilities", ErrPredictionsMissing, algo, partition)
			}
			p.computeBattery(algo, partition, expected, probas, metrics.ProbaBattery())
		}
	}

	p.logMetrics(partition)
	return nil
}

func (p *Pipeline) computeBattery(algo string, partition model.Partition, expected, predicted []float64, battery []metrics.Computation) {
	for _, computation := range battery {
		value, err := computation.Func(expected, predicted)
		if err != nil {
			p.log.Info("Metric not calculated",
				"metric", computation.Name, "algorithm", algo, "partition", partition, "reason", err)
			continue
		}
		p.state.Metrics[model.MetricKey{Algo: algo, Partition: partition, Metric: computation.Name}] = value
	}
}

// logMetrics emits the per-algorithm listing sorted by metric name.
func (p *Pipeline) logMetrics(partition model.Partition) {
	for _, algo := range p.state.Algorithms {
		computed := p.state.AlgoMetrics(algo, partition)

		names := make([]string, 0, len(computed))
		for name := range computed {
			names = append(names, string(name))
		}
		sort.Strings(names)

		p.log.Info("Algorithm metrics", "algorithm", algo, "partition", partition)
		for _, name := range names {
			p.log.Info("Metric", "name", name, "value", computed[metrics.Name(name)].String())
		}
	}
}
