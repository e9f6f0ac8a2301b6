package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccuracyScore(t *testing.T) {
	v, err := AccuracyScore([]float64{1, 0, 1, 1}, []float64{1, 0, 0, 1})
	require.NoError(t, err)
	assert.Equal(t, 0.75, v.Scalar)
}

func TestAccuracyScore_RejectsContinuous(t *testing.T) {
	_, err := AccuracyScore([]float64{1, 0}, []float64{0.3, 0.7})
	assert.ErrorIs(t, err, ErrContinuousTarget)
}

func TestAccuracyScore_LengthMismatch(t *testing.T) {
	_, err := AccuracyScore([]float64{1}, []float64{1, 0})
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestF1PrecisionRecall(t *testing.T) {
	expected := []float64{1, 1, 0, 0, 1}
	predicted := []float64{1, 0, 1, 0, 1}

	precision, err := PrecisionScore(expected, predicted)
	require.NoError(t, err)
	assert.InDelta(t, 2.0/3.0, precision.Scalar, 1e-12)

	recall, err := RecallScore(expected, predicted)
	require.NoError(t, err)
	assert.InDelta(t, 2.0/3.0, recall.Scalar, 1e-12)

	f1, err := F1Score(expected, predicted)
	require.NoError(t, err)
	assert.InDelta(t, 2.0/3.0, f1.Scalar, 1e-12)
}

func TestF1Score_RejectsNonBinary(t *testing.T) {
	_, err := F1Score([]float64{1, 2, 0}, []float64{1, 2, 0})
	assert.ErrorIs(t, err, ErrNotBinary)

	// Continuous regression output must be rejected, not coerced.
	_, err = F1Score([]float64{1, 0}, []float64{0.9, 0.1})
	assert.ErrorIs(t, err, ErrNotBinary)
}

func TestRegressionErrors(t *testing.T) {
	expected := []float64{1, 2, 3, 4}
	predicted := []float64{1, 2, 5, 8}

	mae, err := MeanAbsoluteErrorScore(expected, predicted)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, mae.Scalar, 1e-12)

	mse, err := MeanSquaredErrorScore(expected, predicted)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, mse.Scalar, 1e-12)

	medae, err := MedianAbsoluteErrorScore(expected, predicted)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, medae.Scalar, 1e-12)
}

func TestR2Score(t *testing.T) {
	v, err := R2Score([]float64{1, 2, 3}, []float64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 1.0, v.Scalar)

	_, err = R2Score([]float64{2, 2, 2}, []float64{1, 2, 3})
	assert.ErrorIs(t, err, ErrDegenerate)
}

func TestExplainedVarianceScore(t *testing.T) {
	v, err := ExplainedVarianceScore([]float64{1, 2, 3, 4}, []float64{1, 2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, 1.0, v.Scalar)
}

func TestConfusionMatrixScore(t *testing.T) {
	v, err := ConfusionMatrixScore([]float64{0, 0, 1, 1}, []float64{0, 1, 1, 1})
	require.NoError(t, err)
	require.True(t, v.IsMatrix())

	assert.Equal(t, [][]float64{{1, 1}, {0, 2}}, v.Matrix)
}

func TestAdjustedRandScore(t *testing.T) {
	// Identical labelings score 1.
	v, err := AdjustedRandScore([]float64{0, 0, 1, 1}, []float64{0, 0, 1, 1})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, v.Scalar, 1e-12)

	// Permuted cluster ids still score 1.
	v, err = AdjustedRandScore([]float64{0, 0, 1, 1}, []float64{1, 1, 0, 0})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, v.Scalar, 1e-12)
}

func TestROCAUCScore(t *testing.T) {
	expected := []float64{0, 0, 1, 1}
	probas := []float64{0.1, 0.4, 0.35, 0.8}

	v, err := ROCAUCScore(expected, probas)
	require.NoError(t, err)
	assert.InDelta(t, 0.75, v.Scalar, 1e-12)
}

func TestROCAUCScore_PerfectSeparation(t *testing.T) {
	v, err := ROCAUCScore([]float64{0, 0, 1, 1}, []float64{0.1, 0.2, 0.8, 0.9})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, v.Scalar, 1e-12)
}

func TestROCAUCScore_SingleClass(t *testing.T) {
	_, err := ROCAUCScore([]float64{1, 1, 1}, []float64{0.5, 0.6, 0.7})
	assert.ErrorIs(t, err, ErrSingleClass)
}

func TestLogLossScore(t *testing.T) {
	v, err := LogLossScore([]float64{1, 0}, []float64{0.9, 0.1})
	require.NoError(t, err)
	assert.InDelta(t, -math.Log(0.9), v.Scalar, 1e-12)
}

func TestAveragePrecisionScore(t *testing.T) {
	v, err := AveragePrecisionScore([]float64{0, 1, 1}, []float64{0.1, 0.8, 0.9})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, v.Scalar, 1e-12)
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "0.5", Value{Scalar: 0.5}.String())
	assert.Equal(t, "[[1 0] [0 1]]", Value{Matrix: [][]float64{{1, 0}, {0, 1}}}.String())
}

func TestBatteryOrderIsStable(t *testing.T) {
	first := PointBattery()
	second := PointBattery()
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Name, second[i].Name)
	}
}
