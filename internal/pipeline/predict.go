package pipeline

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/ekisa-team/cascade/internal/estimator"
	"github.com/ekisa-team/cascade/internal/model"
)

// Predict produces predictions (and probabilities for classification) for
// every fitted algorithm on both partitions, calibrating classifiers first
// when the spec asks for it.
func (p *Pipeline) Predict(ctx context.Context) error {
	for _, algo := range p.state.Algorithms {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.predictOne(algo); err != nil {
			return fmt.Errorf("predict %s: %w", algo, err)
		}
	}
	return nil
}

func (p *Pipeline) predictOne(algo string) error {
	est, ok := p.state.Estimators[algo]
	if !ok {
		return fmt.Errorf("%w: %s", ErrEstimatorMissing, algo)
	}

	p.log.Info("Final model predictions", "algorithm", algo)

	xTrain, xTest := p.maskedFeatures(algo)
	yTrain := p.state.Data.YTrain

	if p.classification() {
		if p.spec.Calibrate {
			builder, err := p.registry.Builder(algo)
			if err != nil {
				return err
			}

			p.log.Info("Calibrating classifier",
				"algorithm", algo, "method", p.spec.CalType, "cv_folds", p.spec.CVFolds)
			calibrated := estimator.Calibrate(builder, estimator.CalibrationMethod(p.spec.CalType), p.spec.CVFolds)
			if err := calibrated.FitWeighted(xTrain, yTrain, p.state.SampleWeights); err != nil {
				return fmt.Errorf("calibrate: %w", err)
			}

			// The calibrated classifier takes over the estimator slot so its
			// probabilities are the ones recorded and persisted.
			p.state.Estimators[algo] = calibrated
			est = calibrated
			p.log.Info("Calibration complete", "algorithm", algo)
		} else {
			p.log.Info("Skipping calibration", "algorithm", algo)
		}
	}

	features := map[model.Partition]*mat.Dense{
		model.Train: xTrain,
		model.Test:  xTest,
	}
	for _, partition := range p.partitions() {
		preds, err := est.Predict(features[partition])
		if err != nil {
			return err
		}
		p.state.Preds[model.PredKey{Algo: algo, Partition: partition}] = preds
	}

	if p.classification() {
		prob, ok := est.(estimator.ProbabilityEstimator)
		if !ok {
			return fmt.Errorf("%w: %s", estimator.ErrNoProbabilities, algo)
		}
		for _, partition := range p.partitions() {
			probas, err := prob.PredictProba(features[partition])
			if err != nil {
				return err
			}
			p.state.Probas[model.PredKey{Algo: algo, Partition: partition}] = probas
		}
	}
	p.log.Info("Predictions complete", "algorithm", algo)

	p.logScores(algo, est, xTrain, xTest)
	return nil
}

// logScores reports the estimator's internal score; failures here are logged,
// never fatal.
func (p *Pipeline) logScores(algo string, est estimator.Estimator, xTrain, xTest *mat.Dense) {
	scorer, ok := est.(estimator.SelfScorer)
	if !ok {
		return
	}

	if score, err := scorer.Score(xTrain, p.state.Data.YTrain); err == nil {
		p.log.Info("Training score", "algorithm", algo, "score", score)
	} else {
		p.log.Info("Training score not available", "algorithm", algo, "reason", err)
	}

	if p.state.Data.YTest != nil {
		if score, err := scorer.Score(xTest, p.state.Data.YTest); err == nil {
			p.log.Info("Testing score", "algorithm", algo, "score", score)
		} else {
			p.log.Info("Testing score not available", "algorithm", algo, "reason", err)
		}
	}
}

// maskedFeatures applies the algorithm's support mask to both partitions,
// falling back to the full feature set when no mask was recorded.
func (p *Pipeline) maskedFeatures(algo string) (*mat.Dense, *mat.Dense) {
	data := p.state.Data
	mask, ok := p.state.Support[algo]
	if !ok {
		return data.XTrain, data.XTest
	}
	return applyMask(data.XTrain, mask), applyMask(data.XTest, mask)
}

func applyMask(X *mat.Dense, mask []bool) *mat.Dense {
	rows, cols := X.Dims()
	kept := make([]int, 0, cols)
	for j := 0; j < cols && j < len(mask); j++ {
		if mask[j] {
			kept = append(kept, j)
		}
	}
	if len(kept) == cols {
		return X
	}

	out := mat.NewDense(rows, len(kept), nil)
	for i := 0; i < rows; i++ {
		for dst, src := range kept {
			out.Set(i, dst, X.At(i, src))
		}
	}
	return out
}
