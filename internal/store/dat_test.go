package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cwbudde/linfit/internal/descent"
)

func testDataset() *descent.Dataset {
	return &descent.Dataset{
		Samples: []descent.Sample{
			{X: 0, Y: 9.5},
			{X: 1.5, Y: 12.25},
			{X: 2.97, Y: 15.81},
		},
		LearningRate: 0.01,
	}
}

func TestWriteDatasetFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset_gd.dat")

	if err := WriteDataset(path, testDataset()); err != nil {
		t.Fatalf("WriteDataset failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "0\t9.5" {
		t.Errorf("Line 0 = %q, want %q", lines[0], "0\t9.5")
	}
	if lines[1] != "1.5\t12.25" {
		t.Errorf("Line 1 = %q, want %q", lines[1], "1.5\t12.25")
	}
}

func TestWriteDatasetReadPairsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset_gd.dat")
	ds := testDataset()

	if err := WriteDataset(path, ds); err != nil {
		t.Fatalf("WriteDataset failed: %v", err)
	}

	samples, err := ReadPairs(path)
	if err != nil {
		t.Fatalf("ReadPairs failed: %v", err)
	}

	if len(samples) != ds.Len() {
		t.Fatalf("Read %d samples, want %d", len(samples), ds.Len())
	}
	for i, s := range samples {
		if s != ds.Samples[i] {
			t.Errorf("Sample %d = %+v, want %+v (order must be preserved)", i, s, ds.Samples[i])
		}
	}
}

func TestWriteFittedCurve(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out_gd.dat")
	ds := testDataset()
	p := descent.Params{Theta0: 9.5, Theta1: 2}

	if err := WriteFittedCurve(path, ds, p); err != nil {
		t.Fatalf("WriteFittedCurve failed: %v", err)
	}

	samples, err := ReadPairs(path)
	if err != nil {
		t.Fatalf("ReadPairs failed: %v", err)
	}

	if len(samples) != ds.Len() {
		t.Fatalf("Read %d samples, want %d", len(samples), ds.Len())
	}
	for i, s := range samples {
		if s.X != ds.Samples[i].X {
			t.Errorf("Curve x[%d] = %g, want %g", i, s.X, ds.Samples[i].X)
		}
		want := descent.Hypothesis(p.Theta0, p.Theta1, s.X)
		if s.Y != want {
			t.Errorf("Curve y[%d] = %g, want %g", i, s.Y, want)
		}
	}
}

func TestReadPairsMalformed(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"three columns", "1\t2\t3\n"},
		{"non-numeric x", "abc\t2\n"},
		{"non-numeric y", "1\txyz\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_")+".dat")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("WriteFile failed: %v", err)
			}

			if _, err := ReadPairs(path); err == nil {
				t.Error("Expected parse error, got nil")
			}
		})
	}
}

func TestReadPairsSkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blank.dat")
	if err := os.WriteFile(path, []byte("1\t2\n\n3 4\n"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	samples, err := ReadPairs(path)
	if err != nil {
		t.Fatalf("ReadPairs failed: %v", err)
	}
	if len(samples) != 2 {
		t.Errorf("Expected 2 samples, got %d", len(samples))
	}
}
