package main

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/cwbudde/linfit/internal/descent"
	"github.com/cwbudde/linfit/internal/store"
	"github.com/spf13/cobra"
)

var (
	resumeDataDir  string
	resumeMaxSteps int
	resumeEps      float64
)

var resumeCmd = &cobra.Command{
	Use:   "resume [run-id]",
	Short: "Resume a persisted descent run",
	Long: `Continues batch gradient descent from a persisted run record.
The dataset is regenerated exactly from the stored seed, so resuming is
an exact continuation of the original run. The step budget and tolerance
may be changed; the dataset-defining fields may not.`,
	Args: cobra.ExactArgs(1),
	RunE: runResume,
}

func init() {
	resumeCmd.Flags().StringVar(&resumeDataDir, "data-dir", "./data", "Base directory for run records")
	resumeCmd.Flags().IntVar(&resumeMaxSteps, "max-steps", 0, "Additional step budget (0 = record's budget)")
	resumeCmd.Flags().Float64Var(&resumeEps, "eps", 0, "Convergence tolerance (0 = record's eps)")
	rootCmd.AddCommand(resumeCmd)
}

func runResume(cmd *cobra.Command, args []string) error {
	runID := args[0]

	runStore, err := store.NewFSStore(resumeDataDir)
	if err != nil {
		return fmt.Errorf("failed to create run store: %w", err)
	}

	record, err := runStore.LoadRun(runID)
	if err != nil {
		return fmt.Errorf("failed to load run: %w", err)
	}
	if err := record.Validate(); err != nil {
		return fmt.Errorf("stored record is invalid: %w", err)
	}
	if record.Config.Solver != "descent" {
		return fmt.Errorf("only descent runs can be resumed, run used solver %q", record.Config.Solver)
	}

	config := record.Config
	if resumeMaxSteps > 0 {
		config.MaxSteps = resumeMaxSteps
	}
	if resumeEps != 0 {
		config.Eps = resumeEps
	}

	// Budget fields may change on resume; everything defining the
	// dataset must still match the record.
	if err := record.IsCompatible(config); err != nil {
		return fmt.Errorf("config not compatible with stored run: %w", err)
	}

	slog.Info("Resuming run",
		"run_id", runID,
		"completed_steps", record.Steps,
		"theta0", record.FitTheta0,
		"theta1", record.FitTheta1,
		"max_steps", config.MaxSteps,
		"eps", config.Eps,
	)

	ds, err := descent.Generate(descent.GenConfig{
		Size:         config.Size,
		LearningRate: config.LearningRate,
		Theta0:       config.Theta0,
		Theta1:       config.Theta1,
	}, rand.New(rand.NewSource(config.Seed)))
	if err != nil {
		return fmt.Errorf("failed to regenerate dataset: %w", err)
	}

	trace, err := store.NewTraceWriter(resumeDataDir, runID, true)
	if err != nil {
		slog.Warn("Failed to open trace for append", "error", err)
		trace = nil
	} else {
		defer trace.Close()
	}

	priorSteps := record.Steps
	var onProgress descent.ProgressFunc
	if trace != nil {
		onProgress = func(iter int, p descent.Params, cost float64) {
			trace.Write(store.TraceEntry{
				Iteration: priorSteps + iter,
				Theta0:    p.Theta0,
				Theta1:    p.Theta1,
				Cost:      cost,
				Timestamp: time.Now(),
			})
		}
	}

	cfg := descent.Config{
		MaxSteps: config.MaxSteps,
		Eps:      config.Eps,
		Initial:  descent.Params{Theta0: record.FitTheta0, Theta1: record.FitTheta1},
	}

	start := time.Now()
	result, err := descent.Optimize(ds, descent.CostGradient, cfg, onProgress)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	if trace != nil {
		if err := trace.Flush(); err != nil {
			slog.Warn("Failed to flush trace", "error", err)
		}
	}

	totalSteps := priorSteps + result.Steps
	updated := store.NewRunRecord(runID,
		result.Params.Theta0, result.Params.Theta1,
		string(result.Reason), totalSteps,
		record.InitialCost, result.FinalCost, config)
	if err := runStore.SaveRun(runID, updated); err != nil {
		return fmt.Errorf("failed to persist updated record: %w", err)
	}

	slog.Info("Resume complete",
		"run_id", runID,
		"elapsed", elapsed,
		"reason", string(result.Reason),
		"new_steps", result.Steps,
		"total_steps", totalSteps,
		"theta0", result.Params.Theta0,
		"theta1", result.Params.Theta1,
		"final_cost", result.FinalCost,
	)

	fmt.Printf("theta0 = %.6f, theta1 = %.6f (%s, %d new steps, %d total, cost %.4f)\n",
		result.Params.Theta0, result.Params.Theta1, result.Reason, result.Steps, totalSteps, result.FinalCost)

	return nil
}
