package descent

import (
	"math/rand"
	"testing"
)

func TestGenerateSizeAndRange(t *testing.T) {
	cfg := DefaultGenConfig()
	ds, err := Generate(cfg, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if ds.Len() != 1000 {
		t.Errorf("Expected 1000 samples, got %d", ds.Len())
	}
	if ds.LearningRate != 1e-2 {
		t.Errorf("Expected learning rate 1e-2, got %g", ds.LearningRate)
	}

	for i, s := range ds.Samples {
		if s.X < 0 || s.X >= 3 {
			t.Errorf("Sample %d: x = %g outside [0, 3)", i, s.X)
		}

		// y = (9 + u) + 2x with u in [0, 1), so the residual against the
		// unperturbed line is exactly the intercept noise.
		noise := s.Y - cfg.Theta0 - cfg.Theta1*s.X
		if noise < 0 || noise >= 1 {
			t.Errorf("Sample %d: intercept noise %g outside [0, 1)", i, noise)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	cfg := DefaultGenConfig()

	ds1, err := Generate(cfg, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	ds2, err := Generate(cfg, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	for i := range ds1.Samples {
		if ds1.Samples[i] != ds2.Samples[i] {
			t.Fatalf("Sample %d differs between identically seeded runs: %+v vs %+v",
				i, ds1.Samples[i], ds2.Samples[i])
		}
	}
}

func TestGenerateInvalidConfig(t *testing.T) {
	cfg := DefaultGenConfig()
	cfg.Size = 0

	if _, err := Generate(cfg, rand.New(rand.NewSource(1))); err == nil {
		t.Error("Expected error for size 0, got nil")
	}

	cfg.Size = 10
	if _, err := Generate(cfg, nil); err == nil {
		t.Error("Expected error for nil rng, got nil")
	}
}

func TestGenerateSingleSample(t *testing.T) {
	cfg := DefaultGenConfig()
	cfg.Size = 1

	ds, err := Generate(cfg, rand.New(rand.NewSource(3)))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if ds.Len() != 1 {
		t.Errorf("Expected 1 sample, got %d", ds.Len())
	}
}
