package frame

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(Path(dir, name, "csv"), []byte(content), 0o644))
}

func TestRead(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "train", "a,b,target\n1,2,0\n3,4,1\n")

	f, err := Read(dir, "train", "csv", ",")
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "target"}, f.Header)
	assert.Equal(t, [][]string{{"1", "2", "0"}, {"3", "4", "1"}}, f.Rows)
}

func TestRead_CustomSeparator(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "train", "a;b\n1;2\n")

	f, err := Read(dir, "train", "csv", ";")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"1", "2"}}, f.Rows)
}

func TestRead_BadSeparator(t *testing.T) {
	_, err := Read(t.TempDir(), "train", "csv", ",,")
	assert.ErrorIs(t, err, ErrBadSeparator)
}

func TestRead_HeaderOnly(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "train", "a,b\n")

	_, err := Read(dir, "train", "csv", ",")
	assert.ErrorIs(t, err, ErrEmptyFrame)
}

func TestWrite_RoundTrip(t *testing.T) {
	dir := t.TempDir()

	original := &Frame{
		Header: []string{"x", "y"},
		Rows:   [][]string{{"1.5", "2"}, {"3", "4.25"}},
	}
	require.NoError(t, Write(original, dir, "out", "csv", ","))

	loaded, err := Read(dir, "out", "csv", ",")
	require.NoError(t, err)
	assert.Equal(t, original.Header, loaded.Header)
	assert.Equal(t, original.Rows, loaded.Rows)
}

func TestWriteVector(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteVector([]float64{0.5, 1, 2.25}, dir, "preds", "csv"))

	content, err := os.ReadFile(Path(dir, "preds", "csv"))
	require.NoError(t, err)
	assert.Equal(t, "0.5\n1\n2.25\n", string(content))
}

func TestToMatrix(t *testing.T) {
	f := &Frame{
		Header: []string{"a", "b", "target"},
		Rows:   [][]string{{"1", "2", "0"}, {"3", "4", "1"}},
	}

	X, y, err := f.ToMatrix("target", false)
	require.NoError(t, err)

	rows, cols := X.Dims()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 2, cols)
	assert.Equal(t, 4.0, X.At(1, 1))
	assert.Equal(t, []float64{0, 1}, y)
}

func TestToMatrix_MissingTarget(t *testing.T) {
	f := &Frame{
		Header: []string{"a", "b"},
		Rows:   [][]string{{"1", "2"}},
	}

	_, _, err := f.ToMatrix("target", false)
	assert.ErrorIs(t, err, ErrColumnNotFound)

	X, y, err := f.ToMatrix("target", true)
	require.NoError(t, err)
	assert.Nil(t, y)

	_, cols := X.Dims()
	assert.Equal(t, 2, cols)
}

func TestToMatrix_NonNumeric(t *testing.T) {
	f := &Frame{
		Header: []string{"a"},
		Rows:   [][]string{{"oops"}},
	}

	_, _, err := f.ToMatrix("", false)
	assert.ErrorIs(t, err, ErrNonNumericValue)
}

func TestToMatrix_RaggedRow(t *testing.T) {
	f := &Frame{
		Header: []string{"a", "b"},
		Rows:   [][]string{{"1"}},
	}

	_, _, err := f.ToMatrix("", false)
	assert.ErrorIs(t, err, ErrColumnMismatch)
}

func TestColumnIndex(t *testing.T) {
	f := &Frame{Header: []string{"a", "b"}}

	idx, err := f.ColumnIndex("b")
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	_, err = f.ColumnIndex("c")
	assert.ErrorIs(t, err, ErrColumnNotFound)
}
