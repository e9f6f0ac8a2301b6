package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupScorer(t *testing.T) {
	s, err := LookupScorer("roc_auc")
	require.NoError(t, err)
	assert.Equal(t, ROCAUC, s.Metric)
	assert.Equal(t, Maximize, s.Direction)

	s, err = LookupScorer("neg_mean_squared_error")
	require.NoError(t, err)
	assert.Equal(t, MeanSquaredError, s.Metric)
	assert.Equal(t, Minimize, s.Direction)
}

func TestLookupScorer_Unknown(t *testing.T) {
	_, err := LookupScorer("nope")
	assert.ErrorIs(t, err, ErrUnknownScorer)
}

func TestDirectionString(t *testing.T) {
	assert.Equal(t, "maximize", Maximize.String())
	assert.Equal(t, "minimize", Minimize.String())
}
