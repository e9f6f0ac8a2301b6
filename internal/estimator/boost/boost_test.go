package boost

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func stepData() (*mat.Dense, []float64) {
	// y is a step function of x0; x1 is a constant distractor.
	X := mat.NewDense(8, 2, []float64{
		1, 5,
		2, 5,
		3, 5,
		4, 5,
		5, 5,
		6, 5,
		7, 5,
		8, 5,
	})
	y := []float64{1, 1, 1, 1, 9, 9, 9, 9}
	return X, y
}

func TestRegressor_FitsStepFunction(t *testing.T) {
	X, y := stepData()

	est := NewRegressor(200, 0.1)
	require.NoError(t, est.Fit(X, y))

	preds, err := est.Predict(X)
	require.NoError(t, err)
	for i := range y {
		assert.InDelta(t, y[i], preds[i], 0.5)
	}
}

func TestClassifier_SeparableData(t *testing.T) {
	X := mat.NewDense(8, 1, []float64{1, 2, 3, 4, 5, 6, 7, 8})
	y := []float64{0, 0, 0, 0, 1, 1, 1, 1}

	est := NewClassifier(100, 0.3)
	require.NoError(t, est.Fit(X, y))

	preds, err := est.Predict(X)
	require.NoError(t, err)
	assert.Equal(t, y, preds)

	probas, err := est.PredictProba(X)
	require.NoError(t, err)
	assert.Less(t, probas[0], 0.5)
	assert.Greater(t, probas[7], 0.5)
}

func TestClassifier_RejectsNonBinaryLabels(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{1, 2, 3})

	est := NewClassifier(10, 0.1)
	assert.ErrorIs(t, est.Fit(X, []float64{0, 1, 2}), ErrNotBinary)
}

func TestFitEvalSet_UnknownMetric(t *testing.T) {
	X, y := stepData()

	est := NewRegressor(10, 0.1)
	err := est.FitEvalSet(X, y, X, y, "gini", 5)
	assert.ErrorIs(t, err, ErrUnknownMetric)
	assert.Nil(t, est.Stumps)
}

func TestFitEvalSet_StopsEarly(t *testing.T) {
	X, y := stepData()

	// Held-out labels sit at the training mean, so every boosting round past
	// the first makes the eval score worse and patience runs out.
	evalY := []float64{5, 5, 5, 5, 5, 5, 5, 5}

	est := NewRegressor(500, 0.1)
	require.NoError(t, est.FitEvalSet(X, y, X, evalY, "rmse", 5))

	assert.Len(t, est.Stumps, 1)
}

func TestFitEvalSet_ImprovingEvalRunsAllRounds(t *testing.T) {
	X, y := stepData()

	est := NewRegressor(30, 0.1)
	require.NoError(t, est.FitEvalSet(X, y, X, y, "rmse", 5))

	// Eval score improves every round, so nothing is truncated.
	assert.Len(t, est.Stumps, 30)

	preds, err := est.Predict(X)
	require.NoError(t, err)
	for i := range y {
		assert.InDelta(t, y[i], preds[i], 1.0)
	}
}

func TestFeatureImportances(t *testing.T) {
	X, y := stepData()

	est := NewRegressor(50, 0.1)
	require.NoError(t, est.Fit(X, y))

	imps := est.FeatureImportances()
	require.Len(t, imps, 2)

	// All splits land on the informative feature.
	assert.InDelta(t, 1.0, imps[0], 1e-12)
	assert.Zero(t, imps[1])
	assert.InDelta(t, 1.0, imps[0]+imps[1], 1e-12)
}

func TestPredictBeforeFit(t *testing.T) {
	est := NewRegressor(10, 0.1)
	_, err := est.Predict(mat.NewDense(1, 1, []float64{1}))
	assert.ErrorIs(t, err, ErrNotFitted)
}

func TestEvalScore(t *testing.T) {
	rmse, err := evalScore("rmse", LossSquared, []float64{0, 0}, []float64{3, 4})
	require.NoError(t, err)
	assert.InDelta(t, 3.5355339059327378, rmse, 1e-12)

	mae, err := evalScore("mae", LossSquared, []float64{0, 0}, []float64{3, -4})
	require.NoError(t, err)
	assert.InDelta(t, 3.5, mae, 1e-12)

	errRate, err := evalScore("error", LossLogistic, []float64{1, 0}, []float64{5, 5})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, errRate, 1e-12)
}
