package descent

import (
	"errors"
	"log/slog"
)

// ErrEmptyDataset is returned when optimization is started without data.
var ErrEmptyDataset = errors.New("descent: dataset must contain at least one sample")

// Reason is the terminal state of an optimization run
type Reason string

const (
	// ReasonConverged means every parameter moved by at most Eps in the last step
	ReasonConverged Reason = "converged"
	// ReasonMaxSteps means the step bound was exhausted before convergence
	ReasonMaxSteps Reason = "max_steps"
)

// Config controls the optimization loop.
// A zero MaxSteps defaults to 10000. Eps is taken literally: 0 requires
// an exactly unchanged parameter vector, negative disables convergence.
type Config struct {
	MaxSteps int     `json:"maxSteps"`
	Eps      float64 `json:"eps"`
	Initial  Params  `json:"initial"`
}

// DefaultConfig returns the demo defaults: 10000 steps, eps 1e-6,
// starting from (0, 0).
func DefaultConfig() Config {
	return Config{
		MaxSteps: 10000,
		Eps:      1e-6,
	}
}

// ProgressFunc observes the parameters after each full batch pass.
// iteration is 1-based and counts completed steps.
type ProgressFunc func(iteration int, p Params, cost float64)

// Result holds the output of an optimization run
type Result struct {
	Params      Params
	Reason      Reason
	Steps       int
	InitialCost float64
	FinalCost   float64
}

// Optimize runs batch gradient descent over the dataset until the
// parameter change drops to Eps or the step bound is reached. The
// terminal reason is reported alongside the final parameters so callers
// can tell convergence from step exhaustion.
//
// grad defaults to CostGradient when nil. onProgress, if set, fires
// once per iteration after the batch pass completes; this is the point
// at which the updated parameters become observable.
func Optimize(ds *Dataset, grad GradientFunc, cfg Config, onProgress ProgressFunc) (*Result, error) {
	if ds == nil || ds.Len() == 0 {
		return nil, ErrEmptyDataset
	}
	if grad == nil {
		grad = CostGradient
	}
	if cfg.MaxSteps == 0 {
		cfg.MaxSteps = 10000
	}

	p := cfg.Initial
	prev := p
	initialCost := TotalCost(ds, p)
	steps := 0
	reason := ReasonMaxSteps

	slog.Debug("Starting descent",
		"samples", ds.Len(),
		"learning_rate", ds.LearningRate,
		"max_steps", cfg.MaxSteps,
		"eps", cfg.Eps,
	)

	for {
		Step(&p, ds, grad)
		steps++

		if onProgress != nil {
			onProgress(steps, p, TotalCost(ds, p))
		}
		slog.Debug("Step complete", "iteration", steps, "theta0", p.Theta0, "theta1", p.Theta1)

		if Converged(prev, p, cfg.Eps) {
			reason = ReasonConverged
			break
		}
		if steps >= cfg.MaxSteps {
			break
		}
		prev = p
	}

	finalCost := TotalCost(ds, p)
	slog.Info("Descent finished",
		"reason", string(reason),
		"steps", steps,
		"theta0", p.Theta0,
		"theta1", p.Theta1,
		"initial_cost", initialCost,
		"final_cost", finalCost,
	)

	return &Result{
		Params:      p,
		Reason:      reason,
		Steps:       steps,
		InitialCost: initialCost,
		FinalCost:   finalCost,
	}, nil
}
