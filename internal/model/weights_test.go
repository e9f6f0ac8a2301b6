package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSampleWeights_Balanced(t *testing.T) {
	y := []float64{1, 0, 0, 0, 1, 0}

	weights, err := SampleWeights(y, true, 1)
	assert.NoError(t, err)

	// Two positives, four negatives: positive weight is 4/2.
	assert.Equal(t, []float64{2, 1, 1, 1, 2, 1}, weights)
}

func TestSampleWeights_Disabled(t *testing.T) {
	weights, err := SampleWeights([]float64{1, 0, 1}, false, 1)
	assert.NoError(t, err)
	assert.Nil(t, weights)
}

func TestSampleWeights_NoPositives(t *testing.T) {
	_, err := SampleWeights([]float64{0, 0, 0}, true, 1)
	assert.ErrorIs(t, err, ErrNoPositiveSamples)
}

func TestSampleWeights_ZeroTargetValue(t *testing.T) {
	y := []float64{0, 1, 1, 1}

	weights, err := SampleWeights(y, true, 0)
	assert.NoError(t, err)
	assert.Equal(t, []float64{3, 1, 1, 1}, weights)
}
