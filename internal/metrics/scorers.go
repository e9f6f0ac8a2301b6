package metrics

import "fmt"

// Direction is the optimization objective of a scorer.
type Direction int

const (
	// Maximize means a higher score is better.
	Maximize Direction = iota
	// Minimize means a lower score is better.
	Minimize
)

func (d Direction) String() string {
	if d == Minimize {
		return "minimize"
	}
	return "maximize"
}

// Scorer names the metric driving model selection along with its objective.
type Scorer struct {
	Metric    Name
	Direction Direction
}

// scorers maps a scorer name to the metric it reads and the direction in
// which it is optimized.
var scorers = map[string]Scorer{
	"accuracy":              {Accuracy, Maximize},
	"adjusted_rand_score":   {AdjustedRand, Maximize},
	"average_precision":     {AveragePrecision, Maximize},
	"explained_variance":    {ExplainedVariance, Maximize},
	"f1":                    {F1, Maximize},
	"mean_absolute_error":   {MeanAbsoluteError, Minimize},
	"median_absolute_error": {MedianAbsError, Minimize},
	"neg_log_loss":          {LogLoss, Minimize},
	"neg_mean_squared_error": {MeanSquaredError, Minimize},
	"precision":             {Precision, Maximize},
	"r2":                    {R2, Maximize},
	"recall":                {Recall, Maximize},
	"roc_auc":               {ROCAUC, Maximize},
}

// LookupScorer resolves a scorer by name.
func LookupScorer(name string) (Scorer, error) {
	s, ok := scorers[name]
	if !ok {
		return Scorer{}, fmt.Errorf("%w: %s", ErrUnknownScorer, name)
	}
	return s, nil
}
