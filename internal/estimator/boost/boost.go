// Package boost implements a gradient-boosted decision-stump ensemble for
// regression and binary classification. It is the pack's eval-set capable
// family: FitEvalSet monitors a held-out fold with a native metric and stops
// once the metric has stalled for a configured number of rounds.
package boost

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Error definitions for the boost package.
var (
	ErrNotFitted     = errors.New("ensemble has not been fitted")
	ErrEmptyInput    = errors.New("no samples to fit")
	ErrShape         = errors.New("feature and label dimensions disagree")
	ErrNotBinary     = errors.New("labels are not binary")
	ErrUnknownMetric = errors.New("unknown evaluation metric")
)

// Loss selects the boosting objective.
type Loss string

const (
	// LossSquared is least-squares boosting for regression.
	LossSquared Loss = "squared"
	// LossLogistic is logistic boosting for binary classification.
	LossLogistic Loss = "logistic"
)

// Stump is a single-split regression tree fitted to pseudo-residuals.
type Stump struct {
	Feature   int
	Threshold float64
	Left      float64
	Right     float64
}

func (s Stump) value(x float64) float64 {
	if x <= s.Threshold {
		return s.Left
	}
	return s.Right
}

// Boost is the stump ensemble. Fitted fields are exported for serialization.
type Boost struct {
	Rounds       int
	LearningRate float64
	Loss         Loss

	Init   float64
	Stumps []Stump
	Gains  []float64
}

// NewRegressor creates a least-squares boosted ensemble.
func NewRegressor(rounds int, learningRate float64) *Boost {
	return &Boost{Rounds: rounds, LearningRate: learningRate, Loss: LossSquared}
}

// NewClassifier creates a logistic boosted ensemble for binary labels.
func NewClassifier(rounds int, learningRate float64) *Boost {
	return &Boost{Rounds: rounds, LearningRate: learningRate, Loss: LossLogistic}
}

// Fit trains the ensemble for the configured number of rounds.
func (b *Boost) Fit(X mat.Matrix, y []float64) error {
	return b.fit(X, y, nil, nil, "", 0)
}

// FitEvalSet trains while scoring (evalX, evalY) with the named metric after
// each round, stopping once the metric has not improved for rounds
// consecutive rounds. The ensemble is truncated to its best round.
func (b *Boost) FitEvalSet(X mat.Matrix, y []float64, evalX mat.Matrix, evalY []float64, metric string, rounds int) error {
	if _, err := evalScore(metric, b.Loss, evalY, make([]float64, len(evalY))); err != nil {
		return err
	}
	return b.fit(X, y, evalX, evalY, metric, rounds)
}

func (b *Boost) fit(X mat.Matrix, y []float64, evalX mat.Matrix, evalY []float64, metric string, patience int) error {
	n, d := X.Dims()
	if n == 0 || d == 0 {
		return ErrEmptyInput
	}
	if n != len(y) {
		return fmt.Errorf("%w: %d rows, %d labels", ErrShape, n, len(y))
	}
	if b.Loss == LossLogistic {
		for _, v := range y {
			if v != 0 && v != 1 {
				return ErrNotBinary
			}
		}
	}

	b.Init = b.initialScore(y)
	b.Stumps = nil
	b.Gains = make([]float64, d)

	// Column-sorted row orders, computed once.
	orders := make([][]int, d)
	for j := 0; j < d; j++ {
		order := make([]int, n)
		for i := range order {
			order[i] = i
		}
		col := j
		sort.SliceStable(order, func(a, c int) bool {
			return X.At(order[a], col) < X.At(order[c], col)
		})
		orders[j] = order
	}

	current := make([]float64, n)
	for i := range current {
		current[i] = b.Init
	}

	var evalCurrent []float64
	bestEval := math.Inf(1)
	bestRound := -1
	if evalY != nil {
		evalCurrent = make([]float64, len(evalY))
		for i := range evalCurrent {
			evalCurrent[i] = b.Init
		}
	}

	residuals := make([]float64, n)
	for round := 0; round < b.Rounds; round++ {
		for i := 0; i < n; i++ {
			residuals[i] = b.gradient(y[i], current[i])
		}

		stump, gain, ok := bestStump(X, residuals, orders)
		if !ok {
			break
		}
		b.Stumps = append(b.Stumps, stump)
		b.Gains[stump.Feature] += gain

		for i := 0; i < n; i++ {
			current[i] += b.LearningRate * stump.value(X.At(i, stump.Feature))
		}

		if evalY != nil {
			for i := range evalCurrent {
				evalCurrent[i] += b.LearningRate * stump.value(evalX.At(i, stump.Feature))
			}
			score, err := evalScore(metric, b.Loss, evalY, evalCurrent)
			if err != nil {
				return err
			}
			if score < bestEval {
				bestEval = score
				bestRound = round
			} else if round-bestRound >= patience {
				break
			}
		}
	}

	if evalY != nil && bestRound >= 0 {
		b.Stumps = b.Stumps[:bestRound+1]
	}
	return nil
}

func (b *Boost) initialScore(y []float64) float64 {
	sum := 0.0
	for _, v := range y {
		sum += v
	}
	mean := sum / float64(len(y))

	if b.Loss == LossLogistic {
		const eps = 1e-10
		mean = math.Min(math.Max(mean, eps), 1-eps)
		return math.Log(mean / (1 - mean))
	}
	return mean
}

func (b *Boost) gradient(label, current float64) float64 {
	if b.Loss == LossLogistic {
		return label - sigmoid(current)
	}
	return label - current
}

// bestStump finds the split minimizing squared error against the residuals.
func bestStump(X mat.Matrix, residuals []float64, orders [][]int) (Stump, float64, bool) {
	n := len(residuals)
	total := 0.0
	for _, r := range residuals {
		total += r
	}

	best := Stump{}
	bestGain := 0.0
	found := false

	for feature, order := range orders {
		leftSum := 0.0
		for k := 0; k < n-1; k++ {
			idx := order[k]
			leftSum += residuals[idx]

			// Only split between distinct feature values.
			cur := X.At(idx, feature)
			next := X.At(order[k+1], feature)
			if cur == next {
				continue
			}

			leftCount := float64(k + 1)
			rightCount := float64(n - k - 1)
			rightSum := total - leftSum

			// Variance-reduction gain of the split.
			gain := leftSum*leftSum/leftCount + rightSum*rightSum/rightCount - total*total/float64(n)
			if gain > bestGain {
				bestGain = gain
				best = Stump{
					Feature:   feature,
					Threshold: (cur + next) / 2,
					Left:      leftSum / leftCount,
					Right:     rightSum / rightCount,
				}
				found = true
			}
		}
	}

	return best, bestGain, found
}

func (b *Boost) raw(X mat.Matrix) ([]float64, error) {
	if b.Stumps == nil && b.Gains == nil {
		return nil, ErrNotFitted
	}
	n, _ := X.Dims()

	out := make([]float64, n)
	for i := 0; i < n; i++ {
		score := b.Init
		for _, stump := range b.Stumps {
			score += b.LearningRate * stump.value(X.At(i, stump.Feature))
		}
		out[i] = score
	}
	return out, nil
}

// Predict produces point predictions: raw scores for regression, thresholded
// probabilities for classification.
func (b *Boost) Predict(X mat.Matrix) ([]float64, error) {
	scores, err := b.raw(X)
	if err != nil {
		return nil, err
	}
	if b.Loss != LossLogistic {
		return scores, nil
	}

	for i, s := range scores {
		if sigmoid(s) >= 0.5 {
			scores[i] = 1
		} else {
			scores[i] = 0
		}
	}
	return scores, nil
}

// PredictProba returns positive-class probabilities for classification.
func (b *Boost) PredictProba(X mat.Matrix) ([]float64, error) {
	scores, err := b.raw(X)
	if err != nil {
		return nil, err
	}
	for i, s := range scores {
		scores[i] = sigmoid(s)
	}
	return scores, nil
}

// FeatureImportances returns normalized per-feature gain.
func (b *Boost) FeatureImportances() []float64 {
	total := 0.0
	for _, g := range b.Gains {
		total += g
	}

	out := make([]float64, len(b.Gains))
	if total == 0 {
		return out
	}
	for i, g := range b.Gains {
		out[i] = g / total
	}
	return out
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

// evalScore computes the named eval metric, lower is better for all of them.
func evalScore(metric string, loss Loss, y, current []float64) (float64, error) {
	switch metric {
	case "rmse":
		sum := 0.0
		for i := range y {
			d := y[i] - current[i]
			sum += d * d
		}
		return math.Sqrt(sum / float64(len(y))), nil
	case "mae":
		sum := 0.0
		for i := range y {
			sum += math.Abs(y[i] - current[i])
		}
		return sum / float64(len(y)), nil
	case "logloss":
		const eps = 1e-15
		sum := 0.0
		for i := range y {
			p := math.Min(math.Max(sigmoid(current[i]), eps), 1-eps)
			sum += y[i]*math.Log(p) + (1-y[i])*math.Log(1-p)
		}
		return -sum / float64(len(y)), nil
	case "error":
		wrong := 0.0
		for i := range y {
			pred := 0.0
			if loss == LossLogistic {
				if sigmoid(current[i]) >= 0.5 {
					pred = 1
				}
			} else {
				pred = current[i]
			}
			if pred != y[i] {
				wrong++
			}
		}
		return wrong / float64(len(y)), nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownMetric, metric)
	}
}
