// Package metrics implements the evaluation battery used to score fitted
// algorithms, plus the scorer registry that drives model selection.
//
// Every metric is an independent computation returning (Value, error); the
// caller decides what to do with failures. The battery driver in the pipeline
// records successes and drops failures, so a classification metric applied to
// continuous regression output is simply absent rather than fatal.
package metrics

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"
)

// Name identifies a metric in the battery.
type Name string

const (
	Accuracy          Name = "accuracy"
	AdjustedRand      Name = "adjusted_rand_score"
	ConfusionMatrix   Name = "confusion_matrix"
	ExplainedVariance Name = "explained_variance"
	F1                Name = "f1"
	MeanAbsoluteError Name = "mean_absolute_error"
	MedianAbsError    Name = "median_absolute_error"
	MeanSquaredError  Name = "neg_mean_squared_error"
	Precision         Name = "precision"
	R2                Name = "r2"
	Recall            Name = "recall"

	// Probability-based metrics, classification only.
	AveragePrecision Name = "average_precision"
	LogLoss          Name = "neg_log_loss"
	ROCAUC           Name = "roc_auc"
)

// Value is a computed metric: either a scalar or a matrix (confusion matrix).
type Value struct {
	Scalar float64
	Matrix [][]float64
}

// IsMatrix reports whether the value is matrix-shaped.
func (v Value) IsMatrix() bool {
	return v.Matrix != nil
}

func (v Value) String() string {
	if !v.IsMatrix() {
		return fmt.Sprintf("%g", v.Scalar)
	}

	rows := make([]string, len(v.Matrix))
	for i, row := range v.Matrix {
		cells := make([]string, len(row))
		for j, c := range row {
			cells[j] = fmt.Sprintf("%g", c)
		}
		rows[i] = "[" + strings.Join(cells, " ") + "]"
	}
	return "[" + strings.Join(rows, " ") + "]"
}

func scalar(s float64) Value {
	return Value{Scalar: s}
}

// Func computes a metric from expected and predicted vectors. For
// probability-based metrics the predicted vector holds positive-class
// probabilities.
type Func func(expected, predicted []float64) (Value, error)

// Computation pairs a metric name with its computation.
type Computation struct {
	Name Name
	Func Func
}

// PointBattery returns the metrics computed against point predictions, in a
// fixed order.
func PointBattery() []Computation {
	return []Computation{
		{Accuracy, AccuracyScore},
		{AdjustedRand, AdjustedRandScore},
		{ConfusionMatrix, ConfusionMatrixScore},
		{ExplainedVariance, ExplainedVarianceScore},
		{F1, F1Score},
		{MeanAbsoluteError, MeanAbsoluteErrorScore},
		{MedianAbsError, MedianAbsoluteErrorScore},
		{MeanSquaredError, MeanSquaredErrorScore},
		{Precision, PrecisionScore},
		{R2, R2Score},
		{Recall, RecallScore},
	}
}

// ProbaBattery returns the metrics computed against positive-class
// probabilities, in a fixed order.
func ProbaBattery() []Computation {
	return []Computation{
		{AveragePrecision, AveragePrecisionScore},
		{LogLoss, LogLossScore},
		{ROCAUC, ROCAUCScore},
	}
}

func checkLengths(expected, predicted []float64) error {
	if len(expected) != len(predicted) {
		return fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(expected), len(predicted))
	}
	if len(expected) == 0 {
		return ErrEmptyInput
	}
	return nil
}

// isDiscrete reports whether every value is an integer class label.
func isDiscrete(values []float64) bool {
	for _, v := range values {
		if v != math.Trunc(v) || math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// isBinary reports whether every value is 0 or 1.
func isBinary(values []float64) bool {
	for _, v := range values {
		if v != 0 && v != 1 {
			return false
		}
	}
	return true
}

func checkDiscrete(expected, predicted []float64) error {
	if err := checkLengths(expected, predicted); err != nil {
		return err
	}
	if !isDiscrete(expected) || !isDiscrete(predicted) {
		return ErrContinuousTarget
	}
	return nil
}

func checkBinary(expected, predicted []float64) error {
	if err := checkLengths(expected, predicted); err != nil {
		return err
	}
	if !isBinary(expected) || !isBinary(predicted) {
		return ErrNotBinary
	}
	return nil
}

// AccuracyScore is the fraction of exactly matching labels.
func AccuracyScore(expected, predicted []float64) (Value, error) {
	if err := checkDiscrete(expected, predicted); err != nil {
		return Value{}, err
	}

	correct := 0
	for i := range expected {
		if expected[i] == predicted[i] {
			correct++
		}
	}
	return scalar(float64(correct) / float64(len(expected))), nil
}

// AdjustedRandScore computes the adjusted Rand index between two labelings.
func AdjustedRandScore(expected, predicted []float64) (Value, error) {
	if err := checkDiscrete(expected, predicted); err != nil {
		return Value{}, err
	}

	type pair struct{ a, b float64 }
	contingency := make(map[pair]float64)
	rowSums := make(map[float64]float64)
	colSums := make(map[float64]float64)
	for i := range expected {
		contingency[pair{expected[i], predicted[i]}]++
		rowSums[expected[i]]++
		colSums[predicted[i]]++
	}

	choose2 := func(n float64) float64 { return n * (n - 1) / 2 }

	var sumCells, sumRows, sumCols float64
	for _, n := range contingency {
		sumCells += choose2(n)
	}
	for _, n := range rowSums {
		sumRows += choose2(n)
	}
	for _, n := range colSums {
		sumCols += choose2(n)
	}

	total := choose2(float64(len(expected)))
	expectedIndex := sumRows * sumCols / total
	maxIndex := (sumRows + sumCols) / 2
	if maxIndex == expectedIndex {
		// Both labelings are trivial partitions.
		return scalar(1), nil
	}
	return scalar((sumCells - expectedIndex) / (maxIndex - expectedIndex)), nil
}

// ConfusionMatrixScore computes the confusion matrix over the union of labels
// seen in either vector, sorted ascending. Rows are expected labels, columns
// predicted.
func ConfusionMatrixScore(expected, predicted []float64) (Value, error) {
	if err := checkDiscrete(expected, predicted); err != nil {
		return Value{}, err
	}

	seen := make(map[float64]struct{})
	for _, v := range expected {
		seen[v] = struct{}{}
	}
	for _, v := range predicted {
		seen[v] = struct{}{}
	}

	labels := make([]float64, 0, len(seen))
	for v := range seen {
		labels = append(labels, v)
	}
	sort.Float64s(labels)

	index := make(map[float64]int, len(labels))
	for i, v := range labels {
		index[v] = i
	}

	matrix := make([][]float64, len(labels))
	for i := range matrix {
		matrix[i] = make([]float64, len(labels))
	}
	for i := range expected {
		matrix[index[expected[i]]][index[predicted[i]]]++
	}
	return Value{Matrix: matrix}, nil
}

// ExplainedVarianceScore is 1 - Var(residual)/Var(expected).
func ExplainedVarianceScore(expected, predicted []float64) (Value, error) {
	if err := checkLengths(expected, predicted); err != nil {
		return Value{}, err
	}

	variance := stat.Variance(expected, nil)
	if variance == 0 {
		return Value{}, ErrDegenerate
	}

	residuals := make([]float64, len(expected))
	for i := range expected {
		residuals[i] = expected[i] - predicted[i]
	}
	return scalar(1 - stat.Variance(residuals, nil)/variance), nil
}

// binaryCounts tallies true/false positives and false negatives for the
// positive class 1.
func binaryCounts(expected, predicted []float64) (tp, fp, fn float64) {
	for i := range expected {
		switch {
		case predicted[i] == 1 && expected[i] == 1:
			tp++
		case predicted[i] == 1 && expected[i] == 0:
			fp++
		case predicted[i] == 0 && expected[i] == 1:
			fn++
		}
	}
	return tp, fp, fn
}

// PrecisionScore is tp / (tp + fp) for binary labels.
func PrecisionScore(expected, predicted []float64) (Value, error) {
	if err := checkBinary(expected, predicted); err != nil {
		return Value{}, err
	}

	tp, fp, _ := binaryCounts(expected, predicted)
	if tp+fp == 0 {
		return scalar(0), nil
	}
	return scalar(tp / (tp + fp)), nil
}

// RecallScore is tp / (tp + fn) for binary labels.
func RecallScore(expected, predicted []float64) (Value, error) {
	if err := checkBinary(expected, predicted); err != nil {
		return Value{}, err
	}

	tp, _, fn := binaryCounts(expected, predicted)
	if tp+fn == 0 {
		return scalar(0), nil
	}
	return scalar(tp / (tp + fn)), nil
}

// F1Score is the harmonic mean of precision and recall.
func F1Score(expected, predicted []float64) (Value, error) {
	if err := checkBinary(expected, predicted); err != nil {
		return Value{}, err
	}

	tp, fp, fn := binaryCounts(expected, predicted)
	precision, recall := 0.0, 0.0
	if tp+fp > 0 {
		precision = tp / (tp + fp)
	}
	if tp+fn > 0 {
		recall = tp / (tp + fn)
	}
	if precision+recall == 0 {
		return scalar(0), nil
	}
	return scalar(2 * precision * recall / (precision + recall)), nil
}

// MeanAbsoluteErrorScore is the mean of absolute residuals.
func MeanAbsoluteErrorScore(expected, predicted []float64) (Value, error) {
	if err := checkLengths(expected, predicted); err != nil {
		return Value{}, err
	}

	sum := 0.0
	for i := range expected {
		sum += math.Abs(expected[i] - predicted[i])
	}
	return scalar(sum / float64(len(expected))), nil
}

// MedianAbsoluteErrorScore is the median of absolute residuals.
func MedianAbsoluteErrorScore(expected, predicted []float64) (Value, error) {
	if err := checkLengths(expected, predicted); err != nil {
		return Value{}, err
	}

	residuals := make([]float64, len(expected))
	for i := range expected {
		residuals[i] = math.Abs(expected[i] - predicted[i])
	}
	sort.Float64s(residuals)

	n := len(residuals)
	if n%2 == 1 {
		return scalar(residuals[n/2]), nil
	}
	return scalar((residuals[n/2-1] + residuals[n/2]) / 2), nil
}

// MeanSquaredErrorScore is the mean of squared residuals.
func MeanSquaredErrorScore(expected, predicted []float64) (Value, error) {
	if err := checkLengths(expected, predicted); err != nil {
		return Value{}, err
	}

	sum := 0.0
	for i := range expected {
		d := expected[i] - predicted[i]
		sum += d * d
	}
	return scalar(sum / float64(len(expected))), nil
}

// R2Score is the coefficient of determination.
func R2Score(expected, predicted []float64) (Value, error) {
	if err := checkLengths(expected, predicted); err != nil {
		return Value{}, err
	}

	mean := stat.Mean(expected, nil)
	ssTot, ssRes := 0.0, 0.0
	for i := range expected {
		d := expected[i] - mean
		ssTot += d * d
		r := expected[i] - predicted[i]
		ssRes += r * r
	}
	if ssTot == 0 {
		return Value{}, ErrDegenerate
	}
	return scalar(1 - ssRes/ssTot), nil
}

// AveragePrecisionScore summarizes the precision-recall curve over
// probability-ranked predictions.
func AveragePrecisionScore(expected, probas []float64) (Value, error) {
	if err := checkLengths(expected, probas); err != nil {
		return Value{}, err
	}
	if !isBinary(expected) {
		return Value{}, ErrNotBinary
	}

	order := make([]int, len(probas))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return probas[order[i]] > probas[order[j]]
	})

	positives := 0.0
	for _, v := range expected {
		positives += v
	}
	if positives == 0 {
		return Value{}, ErrSingleClass
	}

	tp, sum := 0.0, 0.0
	for rank, idx := range order {
		if expected[idx] == 1 {
			tp++
			sum += tp / float64(rank+1)
		}
	}
	return scalar(sum / positives), nil
}

// LogLossScore is the negative log-likelihood of binary labels under
// predicted probabilities.
func LogLossScore(expected, probas []float64) (Value, error) {
	if err := checkLengths(expected, probas); err != nil {
		return Value{}, err
	}
	if !isBinary(expected) {
		return Value{}, ErrNotBinary
	}

	const eps = 1e-15
	sum := 0.0
	for i := range expected {
		p := math.Min(math.Max(probas[i], eps), 1-eps)
		sum += expected[i]*math.Log(p) + (1-expected[i])*math.Log(1-p)
	}
	return scalar(-sum / float64(len(expected))), nil
}

// ROCAUCScore integrates the ROC curve with the trapezoid rule.
func ROCAUCScore(expected, probas []float64) (Value, error) {
	if err := checkLengths(expected, probas); err != nil {
		return Value{}, err
	}
	if !isBinary(expected) {
		return Value{}, ErrNotBinary
	}

	positives := 0.0
	for _, v := range expected {
		positives += v
	}
	if positives == 0 || positives == float64(len(expected)) {
		return Value{}, ErrSingleClass
	}

	// stat.ROC wants scores sorted ascending with aligned class indicators.
	order := make([]int, len(probas))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return probas[order[i]] < probas[order[j]]
	})

	scores := make([]float64, len(probas))
	classes := make([]bool, len(probas))
	for i, idx := range order {
		scores[i] = probas[idx]
		classes[i] = expected[idx] == 1
	}

	tpr, fpr, _ := stat.ROC(nil, scores, classes, nil)
	return scalar(integrate.Trapezoidal(fpr, tpr)), nil
}
