package descent

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

// noiseFreeDataset builds samples lying exactly on y = t0 + t1*x.
func noiseFreeDataset(t0, t1, lr float64, n int) *Dataset {
	samples := make([]Sample, n)
	for i := range samples {
		x := 3 * float64(i) / float64(n)
		samples[i] = Sample{X: x, Y: Hypothesis(t0, t1, x)}
	}
	return &Dataset{Samples: samples, LearningRate: lr}
}

func TestOptimizeRecoversNoiseFreeParameters(t *testing.T) {
	const t0, t1 = 4.0, 1.5
	ds := noiseFreeDataset(t0, t1, 0.3, 30)

	res, err := Optimize(ds, CostGradient, Config{MaxSteps: 50000, Eps: 1e-13}, nil)
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}

	if res.Reason != ReasonConverged {
		t.Errorf("Expected convergence, got %s after %d steps", res.Reason, res.Steps)
	}
	if math.Abs(res.Params.Theta0-t0) > 1e-9 {
		t.Errorf("theta0 = %.12f, want %g", res.Params.Theta0, t0)
	}
	if math.Abs(res.Params.Theta1-t1) > 1e-9 {
		t.Errorf("theta1 = %.12f, want %g", res.Params.Theta1, t1)
	}
	if res.FinalCost > 1e-15 {
		t.Errorf("Final cost %g, expected ~0 for a noise-free fit", res.FinalCost)
	}
}

func TestOptimizeCostMonotonicDecrease(t *testing.T) {
	ds, err := Generate(DefaultGenConfig(), rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	var costs []float64
	res, err := Optimize(ds, CostGradient, DefaultConfig(), func(_ int, _ Params, cost float64) {
		costs = append(costs, cost)
	})
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}

	if len(costs) != res.Steps {
		t.Fatalf("Progress fired %d times, want %d", len(costs), res.Steps)
	}

	// Descent property: the total cost is non-increasing for at least
	// 95% of iterations under the default configuration.
	decreasing := 0
	for i := 1; i < len(costs); i++ {
		if costs[i] <= costs[i-1] {
			decreasing++
		}
	}
	if ratio := float64(decreasing) / float64(len(costs)-1); ratio < 0.95 {
		t.Errorf("Cost non-increasing for only %.1f%% of iterations", ratio*100)
	}

	if res.FinalCost > res.InitialCost {
		t.Errorf("Final cost %g exceeds initial cost %g", res.FinalCost, res.InitialCost)
	}
}

func TestOptimizeDefaultsRecoverDemoFit(t *testing.T) {
	// The intercept noise is uniform [0, 1), so the best average fit is
	// near (9.5, 2) for the default ground truth (9, 2).
	ds, err := Generate(DefaultGenConfig(), rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	res, err := Optimize(ds, nil, DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}

	if math.Abs(res.Params.Theta0-9.5) > 0.3 {
		t.Errorf("theta0 = %g, expected near 9.5", res.Params.Theta0)
	}
	if math.Abs(res.Params.Theta1-2.0) > 0.3 {
		t.Errorf("theta1 = %g, expected near 2.0", res.Params.Theta1)
	}
}

func TestOptimizeStepBoundTermination(t *testing.T) {
	ds := noiseFreeDataset(1, 1, 0, 5) // zero learning rate: no movement

	// Negative eps disables convergence, so the run must stop at
	// exactly the configured bound.
	res, err := Optimize(ds, CostGradient, Config{MaxSteps: 25, Eps: -1}, nil)
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}
	if res.Reason != ReasonMaxSteps {
		t.Errorf("Expected max_steps, got %s", res.Reason)
	}
	if res.Steps != 25 {
		t.Errorf("Expected exactly 25 steps, got %d", res.Steps)
	}
}

func TestOptimizeZeroMovementConverges(t *testing.T) {
	// With no movement any eps >= 0 is trivially satisfied on the first
	// comparison against the initial parameters.
	for _, eps := range []float64{0, 1e-6} {
		ds := noiseFreeDataset(1, 1, 0, 5)

		res, err := Optimize(ds, CostGradient, Config{MaxSteps: 100, Eps: eps}, nil)
		if err != nil {
			t.Fatalf("Optimize failed: %v", err)
		}
		if res.Reason != ReasonConverged {
			t.Errorf("eps=%g: expected convergence, got %s", eps, res.Reason)
		}
		if res.Steps != 1 {
			t.Errorf("eps=%g: expected convergence after the first step, got %d", eps, res.Steps)
		}
	}
}

func TestOptimizeEmptyDataset(t *testing.T) {
	_, err := Optimize(&Dataset{}, CostGradient, DefaultConfig(), nil)
	if !errors.Is(err, ErrEmptyDataset) {
		t.Errorf("Expected ErrEmptyDataset, got %v", err)
	}

	_, err = Optimize(nil, CostGradient, DefaultConfig(), nil)
	if !errors.Is(err, ErrEmptyDataset) {
		t.Errorf("Expected ErrEmptyDataset for nil dataset, got %v", err)
	}
}

func TestOptimizeProgressObservesFinalParams(t *testing.T) {
	ds := noiseFreeDataset(2, -1, 0.2, 20)

	var lastIter int
	var lastParams Params
	res, err := Optimize(ds, CostGradient, Config{MaxSteps: 1000, Eps: 1e-10}, func(iter int, p Params, _ float64) {
		if iter != lastIter+1 {
			t.Errorf("Progress iteration jumped from %d to %d", lastIter, iter)
		}
		lastIter = iter
		lastParams = p
	})
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}

	if lastIter != res.Steps {
		t.Errorf("Last progress iteration %d, want %d", lastIter, res.Steps)
	}
	if lastParams != res.Params {
		t.Errorf("Last observed params %+v, final params %+v", lastParams, res.Params)
	}
}
