// Package config defines the model specification consumed by a pipeline run
// and its YAML loading, schema validation, and hot-reload watching.
package config

import "errors"

// ErrMissingAlgorithms is returned when a spec omits the algorithms key.
var ErrMissingAlgorithms = errors.New("model spec must include the key: algorithms")

// Spec is the externally supplied model configuration, immutable during a
// run.
type Spec struct {
	Version string `json:"version" yaml:"version"`

	// Project layout.
	Directory string `json:"directory"            yaml:"directory"`
	Extension string `json:"extension,omitempty"  yaml:"extension,omitempty"`
	Separator string `json:"separator,omitempty"  yaml:"separator,omitempty"`
	TrainFile string `json:"train_file,omitempty" yaml:"train_file,omitempty"`
	TestFile  string `json:"test_file,omitempty"  yaml:"test_file,omitempty"`

	// Task definition.
	ModelType  string   `json:"model_type"             yaml:"model_type"`
	Algorithms []string `json:"algorithms"             yaml:"algorithms"`
	Target     string   `json:"target"                 yaml:"target"`
	TestLabels bool     `json:"test_labels,omitempty"  yaml:"test_labels,omitempty"`

	// Selection and fitting policy.
	Scorer         string  `json:"scorer"                     yaml:"scorer"`
	Calibrate      bool    `json:"calibrate,omitempty"        yaml:"calibrate,omitempty"`
	CalType        string  `json:"cal_type,omitempty"         yaml:"cal_type,omitempty"`
	CVFolds        int     `json:"cv_folds,omitempty"         yaml:"cv_folds,omitempty"`
	BalanceClasses bool    `json:"balance_classes,omitempty"  yaml:"balance_classes,omitempty"`
	TargetValue    float64 `json:"target_value,omitempty"     yaml:"target_value,omitempty"`
	ESR            int     `json:"esr,omitempty"              yaml:"esr,omitempty"`
	Seed           int64   `json:"seed,omitempty"             yaml:"seed,omitempty"`
	Split          float64 `json:"split,omitempty"            yaml:"split,omitempty"`

	// Per-algorithm hyperparameter overrides.
	Params map[string]map[string]any `json:"params,omitempty" yaml:"params,omitempty"`

	// Submission artifacts.
	SampleSubmission bool   `json:"sample_submission,omitempty" yaml:"sample_submission,omitempty"`
	SubmissionFile   string `json:"submission_file,omitempty"   yaml:"submission_file,omitempty"`
}
