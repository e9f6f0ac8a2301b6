package model

// SampleWeights computes per-sample weights correcting class imbalance for
// the minority label. With balancing enabled, every sample matching
// targetValue receives count(other)/count(target) and all others 1.0, so only
// the positive class's influence changes. With balancing disabled the result
// is nil and downstream fitting is unweighted.
func SampleWeights(y []float64, balance bool, targetValue float64) ([]float64, error) {
	if !balance {
		return nil, nil
	}

	positives := 0
	for _, v := range y {
		if v == targetValue {
			positives++
		}
	}
	if positives == 0 {
		return nil, ErrNoPositiveSamples
	}

	weight := float64(len(y)-positives) / float64(positives)
	weights := make([]float64, len(y))
	for i, v := range y {
		if v == targetValue {
			weights[i] = weight
		} else {
			weights[i] = 1.0
		}
	}
	return weights, nil
}
