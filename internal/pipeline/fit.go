package pipeline

import (
	"context"
	"fmt"
	"math/rand"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/ekisa-team/cascade/internal/estimator"
	"github.com/ekisa-team/cascade/internal/model"
)

// fitResult carries one algorithm's artifacts out of a fit worker so the
// state maps are only written by a single goroutine.
type fitResult struct {
	est         estimator.Estimator
	importances []float64
	coefs       []float64
}

// Fit trains every configured algorithm in list order. Any fit error is
// fatal to the run.
func (p *Pipeline) Fit(ctx context.Context) error {
	for _, algo := range p.state.Algorithms {
		if err := ctx.Err(); err != nil {
			return err
		}

		result, err := p.fitOne(algo)
		if err != nil {
			return fmt.Errorf("fit %s: %w", algo, err)
		}
		p.store(algo, result)
	}
	return nil
}

// FitParallel trains the configured algorithms on up to workers goroutines.
// Results are merged into the state only after every worker has finished, so
// later stages always observe complete artifacts.
func (p *Pipeline) FitParallel(ctx context.Context, workers int) error {
	results := make([]fitResult, len(p.state.Algorithms))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, algo := range p.state.Algorithms {
		i, algo := i, algo
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			result, err := p.fitOne(algo)
			if err != nil {
				return fmt.Errorf("fit %s: %w", algo, err)
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, algo := range p.state.Algorithms {
		p.store(algo, results[i])
	}
	return nil
}

func (p *Pipeline) store(algo string, result fitResult) {
	p.state.Estimators[algo] = result.est
	if result.importances != nil {
		p.state.Importances[algo] = result.importances
	}
	if result.coefs != nil {
		p.state.Coefs[algo] = result.coefs
	}
}

// fitOne builds and fits a fresh estimator for the algorithm, picking the
// fitting policy by capability: eval-set early stopping when the scorer maps
// to a native metric, weighted fitting for regression when weights exist,
// plain fitting otherwise.
func (p *Pipeline) fitOne(algo string) (fitResult, error) {
	est, err := p.registry.New(algo)
	if err != nil {
		return fitResult{}, err
	}

	data := p.state.Data
	evalMetric, hasEval := p.registry.EvalMetric(algo, p.spec.Scorer)
	evalFitter, canEval := est.(estimator.EvalSetFitter)
	weightedFitter, canWeight := est.(estimator.WeightedFitter)

	switch {
	case canEval && hasEval:
		fitX, fitY, evalX, evalY := validationSplit(data.XTrain, data.YTrain, p.spec.Split, p.spec.Seed)
		p.log.Info("Fitting with early stopping",
			"algorithm", algo, "eval_metric", evalMetric, "esr", p.spec.ESR)
		err = evalFitter.FitEvalSet(fitX, fitY, evalX, evalY, evalMetric, p.spec.ESR)

	case p.state.SampleWeights != nil && !p.classification() && canWeight:
		p.log.Info("Fitting with sample weights", "algorithm", algo)
		err = weightedFitter.FitWeighted(data.XTrain, data.YTrain, p.state.SampleWeights)

	default:
		p.log.Info("Fitting", "algorithm", algo)
		err = est.Fit(data.XTrain, data.YTrain)
	}
	if err != nil {
		return fitResult{}, err
	}

	result := fitResult{est: est}
	if reporter, ok := est.(estimator.ImportanceReporter); ok {
		result.importances = reporter.FeatureImportances()
	}
	if reporter, ok := est.(estimator.CoefficientReporter); ok {
		result.coefs = reporter.Coefficients()
	}
	return result, nil
}

// validationSplit carves a deterministic internal validation fold out of the
// training partition for early stopping.
func validationSplit(X *mat.Dense, y []float64, fraction float64, seed int64) (*mat.Dense, []float64, *mat.Dense, []float64) {
	n, d := X.Dims()
	indices := rand.New(rand.NewSource(seed)).Perm(n)

	holdout := int(float64(n) * fraction)
	if holdout < 1 {
		holdout = 1
	}
	if holdout >= n {
		holdout = n - 1
	}

	fitRows := n - holdout
	fitX := mat.NewDense(fitRows, d, nil)
	fitY := make([]float64, fitRows)
	evalX := mat.NewDense(holdout, d, nil)
	evalY := make([]float64, holdout)

	for i, idx := range indices[:fitRows] {
		fitX.SetRow(i, X.RawRowView(idx))
		fitY[i] = y[idx]
	}
	for i, idx := range indices[fitRows:] {
		evalX.SetRow(i, X.RawRowView(idx))
		evalY[i] = y[idx]
	}
	return fitX, fitY, evalX, evalY
}

// Partition helper used by predict and metrics stages.
func (p *Pipeline) partitions() []model.Partition {
	return []model.Partition{model.Train, model.Test}
}
