package store

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cwbudde/linfit/internal/descent"
)

// Plot data files are two-column tab-separated text, one (x, y) pair
// per line in generation order, directly consumable by gnuplot:
//
//	gnuplot -e "plot 'dataset_gd.dat' with points pt 7; \
//	            replot 'out_gd.dat' using 1:2 with lines; pause -1"

// WriteDataset writes the generated samples to a .dat file.
func WriteDataset(path string, ds *descent.Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create dataset file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, s := range ds.Samples {
		if _, err := fmt.Fprintf(w, "%g\t%g\n", s.X, s.Y); err != nil {
			return fmt.Errorf("failed to write dataset line: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush dataset file: %w", err)
	}
	return nil
}

// WriteFittedCurve writes (x, f(theta0, theta1, x)) for each dataset x,
// in the same order as the dataset file.
func WriteFittedCurve(path string, ds *descent.Dataset, p descent.Params) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create curve file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, s := range ds.Samples {
		y := descent.Hypothesis(p.Theta0, p.Theta1, s.X)
		if _, err := fmt.Fprintf(w, "%g\t%g\n", s.X, y); err != nil {
			return fmt.Errorf("failed to write curve line: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush curve file: %w", err)
	}
	return nil
}

// ReadPairs reads a two-column .dat file back into samples.
// Fields may be separated by any run of spaces or tabs.
func ReadPairs(path string) ([]descent.Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open data file: %w", err)
	}
	defer f.Close()

	var samples []descent.Sample
	scanner := bufio.NewScanner(f)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d: expected 2 columns, got %d", lineNo, len(fields))
		}

		x, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid x value %q: %w", lineNo, fields[0], err)
		}
		y, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid y value %q: %w", lineNo, fields[1], err)
		}

		samples = append(samples, descent.Sample{X: x, Y: y})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan data file: %w", err)
	}
	return samples, nil
}
