// Package frame is the tabular I/O collaborator: it reads and writes
// delimited files addressed by directory, base name, extension, and field
// separator, and converts frames into the numeric matrices the pipeline
// consumes.
package frame

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/gonum/mat"
)

// Error definitions for the frame package.
var (
	ErrEmptyFrame      = errors.New("frame has no data rows")
	ErrColumnNotFound  = errors.New("column not found in frame")
	ErrColumnMismatch  = errors.New("row length differs from header")
	ErrBadSeparator    = errors.New("separator must be a single character")
	ErrNonNumericValue = errors.New("non-numeric value in numeric column")
)

// Frame is a header plus string rows, the shape tabular files arrive in.
type Frame struct {
	Header []string
	Rows   [][]string
}

// Path assembles the file path for a frame.
func Path(dir, name, extension string) string {
	return filepath.Join(dir, name+"."+extension)
}

func separatorRune(separator string) (rune, error) {
	runes := []rune(separator)
	if len(runes) != 1 {
		return 0, fmt.Errorf("%w: %q", ErrBadSeparator, separator)
	}
	return runes[0], nil
}

// Read loads a delimited file with a header row.
func Read(dir, name, extension, separator string) (*Frame, error) {
	comma, err := separatorRune(separator)
	if err != nil {
		return nil, err
	}

	path := Path(dir, name, extension)
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("frame: failed to open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = comma
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("frame: failed to parse %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFrame, path)
	}

	return &Frame{Header: records[0], Rows: records[1:]}, nil
}

// Write stores a frame as a delimited file with a header row.
func Write(f *Frame, dir, name, extension, separator string) error {
	comma, err := separatorRune(separator)
	if err != nil {
		return err
	}

	path := Path(dir, name, extension)
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("frame: failed to create %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	writer.Comma = comma
	if err := writer.Write(f.Header); err != nil {
		return fmt.Errorf("frame: failed to write header: %w", err)
	}
	if err := writer.WriteAll(f.Rows); err != nil {
		return fmt.Errorf("frame: failed to write rows: %w", err)
	}
	writer.Flush()
	return writer.Error()
}

// WriteVector stores a flat numeric vector, one value per line.
func WriteVector(values []float64, dir, name, extension string) error {
	path := Path(dir, name, extension)
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("frame: failed to create %s: %w", path, err)
	}
	defer file.Close()

	for _, v := range values {
		if _, err := fmt.Fprintf(file, "%g\n", v); err != nil {
			return fmt.Errorf("frame: failed to write %s: %w", path, err)
		}
	}
	return nil
}

// ColumnIndex finds a named column.
func (f *Frame) ColumnIndex(name string) (int, error) {
	for i, col := range f.Header {
		if col == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrColumnNotFound, name)
}

// ToMatrix converts the frame to a feature matrix and a label vector taken
// from the target column. An empty target name, or a missing target column
// with allowMissingTarget, yields a nil label vector and all columns as
// features.
func (f *Frame) ToMatrix(target string, allowMissingTarget bool) (*mat.Dense, []float64, error) {
	if len(f.Rows) == 0 {
		return nil, nil, ErrEmptyFrame
	}

	targetIdx := -1
	if target != "" {
		idx, err := f.ColumnIndex(target)
		if err != nil {
			if !allowMissingTarget {
				return nil, nil, err
			}
		} else {
			targetIdx = idx
		}
	}

	cols := len(f.Header)
	featureCols := cols
	if targetIdx >= 0 {
		featureCols--
	}

	X := mat.NewDense(len(f.Rows), featureCols, nil)
	var y []float64
	if targetIdx >= 0 {
		y = make([]float64, len(f.Rows))
	}

	for i, row := range f.Rows {
		if len(row) != cols {
			return nil, nil, fmt.Errorf("%w: row %d has %d fields, header has %d", ErrColumnMismatch, i, len(row), cols)
		}

		col := 0
		for j, cell := range row {
			value, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("%w: row %d column %s: %q", ErrNonNumericValue, i, f.Header[j], cell)
			}
			if j == targetIdx {
				y[i] = value
				continue
			}
			X.Set(i, col, value)
			col++
		}
	}

	return X, y, nil
}
