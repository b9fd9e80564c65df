package descent

import (
	"fmt"
	"math/rand"
)

// Sample is one observed (x, y) pair
type Sample struct {
	X float64
	Y float64
}

// Dataset is the training data for one fit. It is created once before
// optimization starts and is read-only afterwards.
type Dataset struct {
	Samples      []Sample
	LearningRate float64
}

// GenConfig controls synthetic dataset generation.
// The ground truth (Theta0, Theta1) is unknown to the optimizer; the
// intercept is perturbed per sample by a fraction in [0, 1) so the data
// is noisy and no exact linear fit exists.
type GenConfig struct {
	Size         int     `json:"size"`
	LearningRate float64 `json:"learningRate"`
	Theta0       float64 `json:"theta0"` // true intercept base
	Theta1       float64 `json:"theta1"` // true slope (held constant)
}

// DefaultGenConfig returns the demo defaults: 1000 samples of
// y = (9 + noise) + 2x with learning rate 1e-2.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Size:         1000,
		LearningRate: 1e-2,
		Theta0:       9,
		Theta1:       2,
	}
}

// Generate produces a synthetic dataset from the given config and RNG.
// x values are bounded fractions of [0, 3); each sample's intercept is
// Theta0 plus an independent fraction of [0, 1).
//
// The RNG is explicit so generation is reproducible for a fixed seed.
func Generate(cfg GenConfig, rng *rand.Rand) (*Dataset, error) {
	if cfg.Size < 1 {
		return nil, fmt.Errorf("descent: dataset size must be >= 1, got %d", cfg.Size)
	}
	if rng == nil {
		return nil, fmt.Errorf("descent: rng must not be nil")
	}

	samples := make([]Sample, cfg.Size)
	for i := range samples {
		// Fractions quantized to hundredths, as in the reference data.
		x := 3 * float64(rng.Intn(100)) / 100
		t0 := cfg.Theta0 + float64(rng.Intn(100))/100
		samples[i] = Sample{X: x, Y: Hypothesis(t0, cfg.Theta1, x)}
	}

	return &Dataset{
		Samples:      samples,
		LearningRate: cfg.LearningRate,
	}, nil
}

// Len returns the number of samples
func (ds *Dataset) Len() int {
	return len(ds.Samples)
}
