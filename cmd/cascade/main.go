package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"github.com/ekisa-team/cascade/internal/config"
	"github.com/ekisa-team/cascade/internal/envvar"
	"github.com/ekisa-team/cascade/internal/estimator"
	"github.com/ekisa-team/cascade/internal/frame"
	"github.com/ekisa-team/cascade/internal/logger"
	"github.com/ekisa-team/cascade/internal/model"
	"github.com/ekisa-team/cascade/internal/persist"
	"github.com/ekisa-team/cascade/internal/pipeline"
	"github.com/ekisa-team/cascade/internal/xfs"
)

func main() {
	var (
		flagSpecPath   = flag.String("config", path.Join(config.DefaultConfigPath(), "spec.yaml"), "Path to model spec file")
		flagSchemaPath = flag.String("schema", path.Join(config.DefaultConfigPath(), "cascade.v1.schema.json"), "Path to schema file")
		flagWatch      = flag.Bool("watch", false, "Re-run the pipeline whenever the spec file changes")
		flagWorkers    = flag.Int("workers", 1, "Number of parallel fit workers")
	)
	flag.Parse()

	environment := os.Getenv(envvar.CascadeEnv)
	logFile := os.Getenv(envvar.CascadeLogFile)
	if logFile == "" {
		logFile = "logs/cascade.log"
	}

	slog.SetDefault(
		logger.New(environment,
			logger.WithLogToFile(true),
			logger.WithLogFile(logFile),
		),
	)

	if !*flagWatch {
		spec, err := config.LoadAndValidate(*flagSpecPath, *flagSchemaPath)
		if err != nil {
			slog.Error("Failed to load spec", "error", err)
			os.Exit(1)
		}
		if err := run(spec, *flagWorkers); err != nil {
			slog.Error("Pipeline failed", "error", err)
			os.Exit(1)
		}
		return
	}

	watcher, err := config.NewWatcher(*flagSpecPath, *flagSchemaPath, func(spec *config.Spec, err error) {
		if err != nil {
			slog.Error("Failed to reload spec", "error", err)
			return
		}
		if err := run(spec, *flagWorkers); err != nil {
			slog.Error("Pipeline failed", "error", err)
		}
	})
	if err != nil {
		slog.Error("Failed to create spec watcher", "error", err)
		os.Exit(1)
	}

	if err := run(watcher.Snapshot(), *flagWorkers); err != nil {
		slog.Error("Pipeline failed", "error", err)
	}

	slog.Info("Watching spec for changes", "spec", *flagSpecPath)
	select {}
}

// run executes one complete pipeline pass for the spec and persists the
// winning model's artifacts.
func run(spec *config.Spec, workers int) error {
	data, err := loadDataset(spec)
	if err != nil {
		return err
	}

	registry := estimator.DefaultRegistry()
	for id, params := range spec.Params {
		if err := registry.SetParams(id, params); err != nil {
			slog.Warn("Ignoring params for unknown algorithm", "algorithm", id, "error", err)
		}
	}

	p, err := pipeline.New(spec, data, registry, slog.Default())
	if err != nil {
		return err
	}
	if err := p.RunParallel(context.Background(), workers); err != nil {
		return err
	}

	return persist.SaveResults(p.State(), spec, model.BestTag, model.Test)
}

// loadDataset reads the train and test frames from the project's input
// directory and converts them into the shared split.
func loadDataset(spec *config.Spec) (*model.Dataset, error) {
	inputDir := filepath.Join(xfs.ExpandTilde(spec.Directory), "input")

	trainFrame, err := frame.Read(inputDir, spec.TrainFile, spec.Extension, spec.Separator)
	if err != nil {
		return nil, err
	}
	xTrain, yTrain, err := trainFrame.ToMatrix(spec.Target, false)
	if err != nil {
		return nil, err
	}

	testFrame, err := frame.Read(inputDir, spec.TestFile, spec.Extension, spec.Separator)
	if err != nil {
		return nil, err
	}
	xTest, yTest, err := testFrame.ToMatrix(spec.Target, !spec.TestLabels)
	if err != nil {
		return nil, err
	}
	if !spec.TestLabels {
		yTest = nil
	}

	return model.NewDataset(xTrain, xTest, yTrain, yTest)
}
