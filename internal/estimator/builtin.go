package estimator

import (
	"github.com/ekisa-team/cascade/internal/estimator/boost"
	"github.com/ekisa-team/cascade/internal/estimator/linear"
	"github.com/ekisa-team/cascade/internal/params"
)

// Built-in algorithm ids.
const (
	AlgoLogistic        = "LOGR"
	AlgoRidge           = "RIDGE"
	AlgoBoostRegressor  = "GBR"
	AlgoBoostClassifier = "GBC"
)

// DefaultRegistry returns a registry populated with the built-in algorithm
// recipes. External estimator libraries register additional recipes on top.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	// Registration of built-ins cannot collide on a fresh registry.
	_ = r.Register(AlgoLogistic, Algorithm{
		Factory: func(p map[string]any) Estimator {
			est := linear.NewLogistic()
			est.Lambda = params.Get(p, "lambda", est.Lambda)
			est.MaxIter = params.Get(p, "max_iter", est.MaxIter)
			return est
		},
	})

	_ = r.Register(AlgoRidge, Algorithm{
		Factory: func(p map[string]any) Estimator {
			return linear.NewRidgeCV(
				params.Floats(p, "alphas", nil),
				params.Get(p, "cv_folds", 3),
			)
		},
	})

	_ = r.Register(AlgoBoostRegressor, Algorithm{
		Factory: func(p map[string]any) Estimator {
			return boost.NewRegressor(
				params.Get(p, "rounds", 100),
				params.Get(p, "learning_rate", 0.1),
			)
		},
		EvalMetrics: map[string]string{
			"neg_mean_squared_error": "rmse",
			"mean_absolute_error":    "mae",
		},
	})

	_ = r.Register(AlgoBoostClassifier, Algorithm{
		Factory: func(p map[string]any) Estimator {
			return boost.NewClassifier(
				params.Get(p, "rounds", 100),
				params.Get(p, "learning_rate", 0.1),
			)
		},
		EvalMetrics: map[string]string{
			"neg_log_loss": "logloss",
			"accuracy":     "error",
		},
	})

	return r
}
