package linear

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// syntheticLinear draws rows from y = 2*x0 - x1 + 3 with a little noise.
func syntheticLinear(n int, seed int64) (*mat.Dense, []float64) {
	rng := rand.New(rand.NewSource(seed))

	X := mat.NewDense(n, 2, nil)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x0 := rng.Float64() * 10
		x1 := rng.Float64() * 10
		X.Set(i, 0, x0)
		X.Set(i, 1, x1)
		y[i] = 2*x0 - x1 + 3 + rng.NormFloat64()*0.01
	}
	return X, y
}

func TestRidge_RecoversCoefficients(t *testing.T) {
	X, y := syntheticLinear(200, 1)

	est := NewRidge(0.001)
	require.NoError(t, est.Fit(X, y))

	require.Len(t, est.Coef, 2)
	assert.InDelta(t, 2.0, est.Coef[0], 0.05)
	assert.InDelta(t, -1.0, est.Coef[1], 0.05)
	assert.InDelta(t, 3.0, est.Intercept, 0.2)

	score, err := est.Score(X, y)
	require.NoError(t, err)
	assert.Greater(t, score, 0.99)
}

func TestRidge_FitWeighted(t *testing.T) {
	// Two populations with conflicting slopes; the heavy one should win.
	X := mat.NewDense(6, 1, []float64{1, 2, 3, 1, 2, 3})
	y := []float64{2, 4, 6, -2, -4, -6}
	weights := []float64{100, 100, 100, 1, 1, 1}

	est := NewRidge(0.001)
	require.NoError(t, est.FitWeighted(X, y, weights))
	assert.Greater(t, est.Coef[0], 1.5)
}

func TestRidge_Errors(t *testing.T) {
	est := NewRidge(1)

	_, err := est.Predict(mat.NewDense(1, 1, []float64{1}))
	assert.ErrorIs(t, err, ErrNotFitted)

	err = est.Fit(mat.NewDense(2, 1, []float64{1, 2}), []float64{1})
	assert.ErrorIs(t, err, ErrShape)
}

func TestRidgeCV_PicksSmallAlphaOnCleanData(t *testing.T) {
	X, y := syntheticLinear(200, 2)

	est := NewRidgeCV([]float64{0.001, 1000}, 3)
	require.NoError(t, est.Fit(X, y))

	// Heavy shrinkage loses badly on near-noiseless data.
	assert.Equal(t, 0.001, est.Alpha)
}

func TestRidgeCV_DefaultGrid(t *testing.T) {
	est := NewRidgeCV(nil, 0)
	assert.Equal(t, DefaultAlphas, est.Alphas)
	assert.Equal(t, 3, est.Folds)
}

func TestRidgeCV_NoAlphas(t *testing.T) {
	est := &RidgeCV{Folds: 3}
	err := est.Fit(mat.NewDense(3, 1, []float64{1, 2, 3}), []float64{1, 2, 3})
	assert.ErrorIs(t, err, ErrNoAlphas)
}
