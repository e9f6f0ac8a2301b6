package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// DefaultConfigPath returns the default path for the cascade config
// directory.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "cascade", "config")
	}

	switch runtime.GOOS {
	case "windows":
		return filepath.Join(home, "AppData", "Roaming", "cascade")
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "cascade")
	default: // Linux, BSD, etc.
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "cascade")
		}
		return filepath.Join(home, ".config", "cascade")
	}
}

// applyDefaults fills unset spec fields with their defaults.
func applyDefaults(spec *Spec) {
	if spec.Extension == "" {
		spec.Extension = "csv"
	}
	if spec.Separator == "" {
		spec.Separator = ","
	}
	if spec.TrainFile == "" {
		spec.TrainFile = "train"
	}
	if spec.TestFile == "" {
		spec.TestFile = "test"
	}
	if spec.CalType == "" {
		spec.CalType = "sigmoid"
	}
	if spec.CVFolds == 0 {
		spec.CVFolds = 3
	}
	if spec.ESR == 0 {
		spec.ESR = 10
	}
	if spec.Split == 0 {
		spec.Split = 0.2
	}
	if spec.Seed == 0 {
		spec.Seed = 42
	}
}
