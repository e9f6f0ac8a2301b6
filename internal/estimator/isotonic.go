package estimator

import "sort"

// IsotonicMap is a monotone non-decreasing step map fitted by the
// pool-adjacent-violators algorithm. Thresholds are strictly increasing input
// scores; Values holds the calibrated output at each threshold.
type IsotonicMap struct {
	Thresholds []float64
	Values     []float64
}

// FitIsotonic fits a monotone map from scores to binary labels.
func FitIsotonic(scores, y []float64) *IsotonicMap {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] < scores[order[b]]
	})

	// Blocks of pooled observations, merged while decreasing.
	type block struct {
		sum, weight float64
		lo          float64
	}
	blocks := make([]block, 0, len(order))
	for _, idx := range order {
		blocks = append(blocks, block{sum: y[idx], weight: 1, lo: scores[idx]})
		for len(blocks) > 1 {
			last := len(blocks) - 1
			if blocks[last-1].sum/blocks[last-1].weight <= blocks[last].sum/blocks[last].weight {
				break
			}
			blocks[last-1].sum += blocks[last].sum
			blocks[last-1].weight += blocks[last].weight
			blocks = blocks[:last]
		}
	}

	m := &IsotonicMap{
		Thresholds: make([]float64, len(blocks)),
		Values:     make([]float64, len(blocks)),
	}
	for i, b := range blocks {
		m.Thresholds[i] = b.lo
		m.Values[i] = b.sum / b.weight
	}
	return m
}

// Value evaluates the step map at a score, clamping outside the fitted range.
func (m *IsotonicMap) Value(score float64) float64 {
	if len(m.Thresholds) == 0 {
		return score
	}
	if score <= m.Thresholds[0] {
		return m.Values[0]
	}

	// Last threshold at or below the score.
	i := sort.SearchFloat64s(m.Thresholds, score)
	if i == len(m.Thresholds) || m.Thresholds[i] > score {
		i--
	}
	return m.Values[i]
}
