package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var schemaPath = filepath.Join("..", "..", "configs", "cascade.v1.schema.json")

const validSpec = `
directory: /tmp/project
model_type: classification
algorithms: [LOGR, GBC]
target: won
scorer: roc_auc
calibrate: true
cal_type: isotonic
balance_classes: true
target_value: 1
params:
  GBC:
    rounds: 200
    learning_rate: 0.05
`

func writeSpec(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "spec.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAndValidate(t *testing.T) {
	spec, err := LoadAndValidate(writeSpec(t, validSpec), schemaPath)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/project", spec.Directory)
	assert.Equal(t, "classification", spec.ModelType)
	assert.Equal(t, []string{"LOGR", "GBC"}, spec.Algorithms)
	assert.Equal(t, "won", spec.Target)
	assert.Equal(t, "roc_auc", spec.Scorer)
	assert.True(t, spec.Calibrate)
	assert.Equal(t, "isotonic", spec.CalType)
	assert.Equal(t, 200, spec.Params["GBC"]["rounds"])
	assert.Equal(t, 0.05, spec.Params["GBC"]["learning_rate"])
}

func TestLoadAndValidate_AppliesDefaults(t *testing.T) {
	spec, err := LoadAndValidate(writeSpec(t, validSpec), schemaPath)
	require.NoError(t, err)

	assert.Equal(t, "csv", spec.Extension)
	assert.Equal(t, ",", spec.Separator)
	assert.Equal(t, "train", spec.TrainFile)
	assert.Equal(t, "test", spec.TestFile)
	assert.Equal(t, 3, spec.CVFolds)
	assert.Equal(t, 10, spec.ESR)
	assert.Equal(t, 0.2, spec.Split)
	assert.Equal(t, int64(42), spec.Seed)
}

func TestLoadAndValidate_SchemaViolations(t *testing.T) {
	cases := map[string]string{
		"missing scorer": `
directory: /tmp/project
model_type: classification
algorithms: [LOGR]
target: won
`,
		"bad model type": `
directory: /tmp/project
model_type: clustering
algorithms: [LOGR]
target: won
scorer: roc_auc
`,
		"duplicate algorithms": `
directory: /tmp/project
model_type: classification
algorithms: [LOGR, LOGR]
target: won
scorer: roc_auc
`,
		"unknown key": `
directory: /tmp/project
model_type: classification
algorithms: [LOGR]
target: won
scorer: roc_auc
grid_search: true
`,
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadAndValidate(writeSpec(t, content), schemaPath)
			assert.Error(t, err)
		})
	}
}

func TestLoadAndValidate_InvalidYAML(t *testing.T) {
	_, err := LoadAndValidate(writeSpec(t, "algorithms: [unclosed"), schemaPath)
	assert.ErrorContains(t, err, "invalid YAML")
}

func TestLoadAndValidate_MissingFile(t *testing.T) {
	_, err := LoadAndValidate(filepath.Join(t.TempDir(), "nope.yaml"), schemaPath)
	assert.Error(t, err)
}
