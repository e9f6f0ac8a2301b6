// Package persist writes a run's artifacts: the winning estimator, flat
// prediction files, the ranked-prediction table, and an optional submission
// file built from a sample template.
package persist

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/ekisa-team/cascade/internal/config"
	"github.com/ekisa-team/cascade/internal/frame"
	"github.com/ekisa-team/cascade/internal/model"
	"github.com/ekisa-team/cascade/internal/xfs"
)

// Error definitions for the persist package.
var (
	ErrNoModelFile     = errors.New("no stored model file found")
	ErrMissingArtifact = errors.New("state is missing a required artifact")
)

// Timestamp returns the date stamp used in artifact file names.
func Timestamp(t time.Time) string {
	return t.Format("20060102")
}

// SaveModelObject serializes an estimator under <directory>/model with a date
// stamp, returning the written path.
func SaveModelObject(directory string, est any, timestamp string) (string, error) {
	modelDir := filepath.Join(directory, "model")
	if err := xfs.EnsureDir(modelDir); err != nil {
		return "", err
	}

	data, err := msgpack.Marshal(est)
	if err != nil {
		return "", fmt.Errorf("persist: failed to encode model: %w", err)
	}

	path := filepath.Join(modelDir, "model_"+timestamp+".bin")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("persist: failed to write %s: %w", path, err)
	}

	slog.Info("Saved model object", "path", path)
	return path, nil
}

// LoadModelObject decodes the newest stored model file under
// <directory>/model into est, returning the path it was loaded from.
func LoadModelObject(directory string, est any) (string, error) {
	pattern := filepath.Join(directory, "model", "model_*.bin")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return "", fmt.Errorf("persist: bad search path %s: %w", pattern, err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoModelFile, pattern)
	}

	newest, newestTime := "", time.Time{}
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil {
			continue
		}
		if info.ModTime().After(newestTime) {
			newest, newestTime = match, info.ModTime()
		}
	}
	if newest == "" {
		return "", fmt.Errorf("%w: %s", ErrNoModelFile, pattern)
	}

	data, err := os.ReadFile(newest)
	if err != nil {
		return "", fmt.Errorf("persist: failed to read %s: %w", newest, err)
	}
	if err := msgpack.Unmarshal(data, est); err != nil {
		return "", fmt.Errorf("persist: failed to decode %s: %w", newest, err)
	}

	slog.Info("Loaded model object", "path", newest)
	return newest, nil
}

// SaveResults writes every produced artifact for the tagged slot on the
// given partition: the serialized estimator, flat prediction and probability
// files, the ranked-prediction table, and the optional submission file.
func SaveResults(state *model.State, spec *config.Spec, tag string, partition model.Partition) error {
	directory := xfs.ExpandTilde(spec.Directory)
	timestamp := Timestamp(time.Now())

	est, ok := state.Estimators[tag]
	if !ok {
		return fmt.Errorf("%w: estimator %s", ErrMissingArtifact, tag)
	}
	if _, err := SaveModelObject(directory, est, timestamp); err != nil {
		return err
	}

	inputDir := filepath.Join(directory, "input")
	outputDir := filepath.Join(directory, "output")
	if err := xfs.EnsureDir(outputDir); err != nil {
		return err
	}

	preds, ok := state.Preds[model.PredKey{Algo: tag, Partition: partition}]
	if !ok {
		return fmt.Errorf("%w: predictions %s/%s", ErrMissingArtifact, tag, partition)
	}

	slog.Info("Saving predictions", "tag", tag, "partition", partition)
	if err := frame.WriteVector(preds, outputDir, "predictions_"+timestamp, spec.Extension); err != nil {
		return err
	}

	var probas []float64
	classification := state.Type == model.Classification
	if classification {
		probas, ok = state.Probas[model.PredKey{Algo: tag, Partition: partition}]
		if !ok {
			return fmt.Errorf("%w: probabilities %s/%s", ErrMissingArtifact, tag, partition)
		}

		slog.Info("Saving probabilities", "tag", tag, "partition", partition)
		if err := frame.WriteVector(probas, outputDir, "probabilities_"+timestamp, spec.Extension); err != nil {
			return err
		}
	}

	if err := saveRankings(spec, inputDir, outputDir, timestamp, preds, probas, classification); err != nil {
		return err
	}

	if spec.SampleSubmission {
		if err := saveSubmission(spec, inputDir, outputDir, timestamp, preds, probas, classification); err != nil {
			return err
		}
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// saveRankings appends prediction (and probability) columns to the test frame
// and writes it sorted descending by the ranking column.
func saveRankings(spec *config.Spec, inputDir, outputDir, timestamp string, preds, probas []float64, classification bool) error {
	slog.Info("Saving ranked predictions")

	tf, err := frame.Read(inputDir, spec.TestFile, spec.Extension, spec.Separator)
	if err != nil {
		return err
	}
	if len(tf.Rows) != len(preds) {
		return fmt.Errorf("%w: %d test rows, %d predictions", ErrMissingArtifact, len(tf.Rows), len(preds))
	}

	ranking := preds
	tf.Header = append(tf.Header, "prediction")
	for i := range tf.Rows {
		tf.Rows[i] = append(tf.Rows[i], formatFloat(preds[i]))
	}
	if classification {
		ranking = probas
		tf.Header = append(tf.Header, "probability")
		for i := range tf.Rows {
			tf.Rows[i] = append(tf.Rows[i], formatFloat(probas[i]))
		}
	}

	order := make([]int, len(tf.Rows))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return ranking[order[a]] > ranking[order[b]]
	})

	sorted := make([][]string, len(tf.Rows))
	for i, idx := range order {
		sorted[i] = tf.Rows[idx]
	}
	tf.Rows = sorted

	return frame.Write(tf, outputDir, "rankings_"+timestamp, spec.Extension, spec.Separator)
}

// saveSubmission overwrites the second column of the sample-submission
// template with probabilities (classification) or predictions (regression).
func saveSubmission(spec *config.Spec, inputDir, outputDir, timestamp string, preds, probas []float64, classification bool) error {
	slog.Info("Saving submission")

	ss, err := frame.Read(inputDir, spec.SubmissionFile, spec.Extension, spec.Separator)
	if err != nil {
		return err
	}

	values := preds
	if classification {
		values = probas
	}
	if len(ss.Rows) != len(values) {
		return fmt.Errorf("%w: %d submission rows, %d values", ErrMissingArtifact, len(ss.Rows), len(values))
	}

	for i := range ss.Rows {
		if len(ss.Rows[i]) < 2 {
			return fmt.Errorf("%w: submission row %d has fewer than two columns", ErrMissingArtifact, i)
		}
		ss.Rows[i][1] = formatFloat(values[i])
	}

	return frame.Write(ss, outputDir, "submission_"+timestamp, spec.Extension, spec.Separator)
}
