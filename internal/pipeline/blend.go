package pipeline

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/ekisa-team/cascade/internal/estimator"
	"github.com/ekisa-team/cascade/internal/estimator/linear"
	"github.com/ekisa-team/cascade/internal/model"
)

// Blend trains a second-level estimator over the first-level outputs: one
// column per configured algorithm holding its probabilities (classification)
// or predictions (regression). The result is stored under the BLEND slot
// with the same storage shape as any other algorithm.
func (p *Pipeline) Blend() error {
	start := time.Now()
	p.log.Info("Blending models", "algorithms", len(p.state.Algorithms))

	data := p.state.Data
	trainRows, _ := data.XTrain.Dims()
	testRows, _ := data.XTest.Dims()
	columns := len(p.state.Algorithms)

	blendTrain := mat.NewDense(trainRows, columns, nil)
	blendTest := mat.NewDense(testRows, columns, nil)

	for i, algo := range p.state.Algorithms {
		est, ok := p.state.Estimators[algo]
		if !ok {
			return fmt.Errorf("%w: %s", ErrEstimatorMissing, algo)
		}

		// Opportunistic recapture: calibration may have replaced the
		// estimator since the fit stage recorded these.
		if reporter, ok := est.(estimator.CoefficientReporter); ok {
			p.state.Coefs[algo] = reporter.Coefficients()
		}
		if reporter, ok := est.(estimator.ImportanceReporter); ok {
			p.state.Importances[algo] = reporter.FeatureImportances()
		}

		source := p.state.Preds
		if p.classification() {
			source = p.state.Probas
		}

		trainCol, ok := source[model.PredKey{Algo: algo, Partition: model.Train}]
		if !ok {
			return fmt.Errorf("%w: %s/%s", ErrPredictionsMissing, algo, model.Train)
		}
		testCol, ok := source[model.PredKey{Algo: algo, Partition: model.Test}]
		if !ok {
			return fmt.Errorf("%w: %s/%s", ErrPredictionsMissing, algo, model.Test)
		}

		blendTrain.SetCol(i, trainCol)
		blendTest.SetCol(i, testCol)
	}

	if p.classification() {
		if err := p.blendClassification(blendTrain, blendTest); err != nil {
			return err
		}
	} else {
		if err := p.blendRegression(blendTrain, blendTest); err != nil {
			return err
		}
	}

	p.log.Info("Blending complete", "elapsed", time.Since(start))
	return nil
}

func (p *Pipeline) blendClassification(blendTrain, blendTest *mat.Dense) error {
	clf := linear.NewLogistic()
	if err := clf.Fit(blendTrain, p.state.Data.YTrain); err != nil {
		return fmt.Errorf("blend fit: %w", err)
	}
	p.state.Estimators[model.BlendTag] = clf

	return p.storeBlend(clf, blendTrain, blendTest, true)
}

func (p *Pipeline) blendRegression(blendTrain, blendTest *mat.Dense) error {
	reg := linear.NewRidgeCV(nil, p.spec.CVFolds)
	if err := reg.Fit(blendTrain, p.state.Data.YTrain); err != nil {
		return fmt.Errorf("blend fit: %w", err)
	}
	p.state.Estimators[model.BlendTag] = reg

	return p.storeBlend(reg, blendTrain, blendTest, false)
}

func (p *Pipeline) storeBlend(est estimator.Estimator, blendTrain, blendTest *mat.Dense, probas bool) error {
	features := map[model.Partition]*mat.Dense{
		model.Train: blendTrain,
		model.Test:  blendTest,
	}

	for _, partition := range p.partitions() {
		preds, err := est.Predict(features[partition])
		if err != nil {
			return err
		}
		p.state.Preds[model.PredKey{Algo: model.BlendTag, Partition: partition}] = preds

		if probas {
			prob := est.(estimator.ProbabilityEstimator)
			values, err := prob.PredictProba(features[partition])
			if err != nil {
				return err
			}
			p.state.Probas[model.PredKey{Algo: model.BlendTag, Partition: partition}] = values
		}
	}
	return nil
}
