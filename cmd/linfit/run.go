package main

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/cwbudde/linfit/internal/descent"
	"github.com/cwbudde/linfit/internal/opt"
	"github.com/cwbudde/linfit/internal/store"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// Parameter bounds handed to the derivative-free solver. Wide enough
// for any plausible fit of the demo data.
const mayflyBound = 50

var (
	runSize     int
	runLR       float64
	runMaxSteps int
	runEps      float64
	runSeed     int64
	runTheta0   float64
	runTheta1   float64
	runSolver   string
	datasetOut  string
	fitOut      string
	runDataDir  string
	noSave      bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a single fit",
	Long: `Generates a synthetic noisy dataset and fits the linear model
f(theta0, theta1, x) = theta0 + theta1*x to it. Writes the dataset and the
fitted curve as gnuplot-compatible .dat files and persists the run record.`,
	RunE: runFit,
}

func init() {
	runCmd.Flags().IntVar(&runSize, "size", 1000, "Number of samples to generate")
	runCmd.Flags().Float64Var(&runLR, "lr", 1e-2, "Learning rate")
	runCmd.Flags().IntVar(&runMaxSteps, "max-steps", 10000, "Max descent steps")
	runCmd.Flags().Float64Var(&runEps, "eps", 1e-6, "Convergence tolerance on parameter change")
	runCmd.Flags().Int64Var(&runSeed, "seed", 42, "Random seed for dataset generation")
	runCmd.Flags().Float64Var(&runTheta0, "t0", 9, "Ground-truth intercept base")
	runCmd.Flags().Float64Var(&runTheta1, "t1", 2, "Ground-truth slope")
	runCmd.Flags().StringVar(&runSolver, "solver", "descent", "Solver: descent, mayfly")
	runCmd.Flags().StringVar(&datasetOut, "dataset-out", "dataset_gd.dat", "Dataset output path")
	runCmd.Flags().StringVar(&fitOut, "fit-out", "out_gd.dat", "Fitted curve output path")
	runCmd.Flags().StringVar(&runDataDir, "data-dir", "./data", "Base directory for run records")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "Skip persisting the run record and trace")

	rootCmd.AddCommand(runCmd)
}

func runFit(cmd *cobra.Command, args []string) error {
	slog.Info("Starting fit", "solver", runSolver, "size", runSize, "lr", runLR, "seed", runSeed)

	config := store.RunConfig{
		Size:         runSize,
		LearningRate: runLR,
		Theta0:       runTheta0,
		Theta1:       runTheta1,
		Seed:         runSeed,
		MaxSteps:     runMaxSteps,
		Eps:          runEps,
		Solver:       runSolver,
	}

	ds, err := descent.Generate(descent.GenConfig{
		Size:         config.Size,
		LearningRate: config.LearningRate,
		Theta0:       config.Theta0,
		Theta1:       config.Theta1,
	}, rand.New(rand.NewSource(config.Seed)))
	if err != nil {
		return fmt.Errorf("failed to generate dataset: %w", err)
	}

	if err := store.WriteDataset(datasetOut, ds); err != nil {
		return err
	}
	slog.Info("Wrote dataset", "path", datasetOut, "samples", ds.Len())

	var runStore store.Store
	runID := uuid.New().String()
	if !noSave {
		fs, err := store.NewFSStore(runDataDir)
		if err != nil {
			return fmt.Errorf("failed to create run store: %w", err)
		}
		runStore = fs
	}

	start := time.Now()
	theta, reason, steps, initialCost, finalCost, err := solve(ds, config, runStore, runID)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	if err := store.WriteFittedCurve(fitOut, ds, theta); err != nil {
		return err
	}

	if runStore != nil {
		record := store.NewRunRecord(runID, theta.Theta0, theta.Theta1, reason, steps, initialCost, finalCost, config)
		if err := runStore.SaveRun(runID, record); err != nil {
			return fmt.Errorf("failed to persist run record: %w", err)
		}
	}

	slog.Info("Fit complete",
		"run_id", runID,
		"elapsed", elapsed,
		"reason", reason,
		"steps", steps,
		"theta0", theta.Theta0,
		"theta1", theta.Theta1,
		"initial_cost", initialCost,
		"final_cost", finalCost,
	)

	fmt.Printf("Wrote %s and %s\n", datasetOut, fitOut)
	fmt.Printf("theta0 = %.6f, theta1 = %.6f (%s after %d steps, cost %.4f -> %.4f)\n",
		theta.Theta0, theta.Theta1, reason, steps, initialCost, finalCost)
	if runStore != nil {
		fmt.Printf("Run ID: %s\n", runID)
	}

	return nil
}

// solve dispatches to the configured solver. When runStore is non-nil the
// descent solver writes a per-iteration trace alongside the run record.
func solve(ds *descent.Dataset, config store.RunConfig, runStore store.Store, runID string) (descent.Params, string, int, float64, float64, error) {
	switch config.Solver {
	case "descent":
		var trace *store.TraceWriter
		if runStore != nil {
			var err error
			trace, err = store.NewTraceWriter(runDataDir, runID, false)
			if err != nil {
				slog.Warn("Failed to create trace writer", "error", err)
				trace = nil
			} else {
				defer trace.Close()
			}
		}

		var onProgress descent.ProgressFunc
		if trace != nil {
			onProgress = func(iter int, p descent.Params, cost float64) {
				trace.Write(store.TraceEntry{
					Iteration: iter,
					Theta0:    p.Theta0,
					Theta1:    p.Theta1,
					Cost:      cost,
					Timestamp: time.Now(),
				})
			}
		}

		cfg := descent.Config{MaxSteps: config.MaxSteps, Eps: config.Eps}
		result, err := descent.Optimize(ds, descent.CostGradient, cfg, onProgress)
		if err != nil {
			return descent.Params{}, "", 0, 0, 0, err
		}
		if trace != nil {
			if err := trace.Flush(); err != nil {
				slog.Warn("Failed to flush trace", "error", err)
			}
		}
		return result.Params, string(result.Reason), result.Steps, result.InitialCost, result.FinalCost, nil

	case "mayfly":
		initialCost := descent.TotalCost(ds, descent.Params{})
		optimizer := opt.NewMayfly(config.MaxSteps, 20, config.Seed)
		lower := []float64{-mayflyBound, -mayflyBound}
		upper := []float64{mayflyBound, mayflyBound}

		best, cost := optimizer.Run(opt.SSEObjective(ds), lower, upper, 2)
		theta := descent.Params{Theta0: best[0], Theta1: best[1]}
		return theta, string(descent.ReasonMaxSteps), config.MaxSteps, initialCost, cost, nil

	default:
		return descent.Params{}, "", 0, 0, 0, fmt.Errorf("unknown solver: %s", config.Solver)
	}
}
