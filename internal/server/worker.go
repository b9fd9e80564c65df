package server

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/cwbudde/linfit/internal/descent"
	"github.com/cwbudde/linfit/internal/opt"
	"github.com/cwbudde/linfit/internal/store"
)

// Parameter bounds handed to the derivative-free solver. Wide enough
// for any plausible fit of the demo data.
const mayflyBound = 50

// runJob executes a fit job in the background.
// If runStore is not nil, the run record and per-iteration trace are persisted.
func runJob(ctx context.Context, jm *JobManager, runStore store.Store, dataDir, jobID string) error {
	job, exists := jm.GetJob(jobID)
	if !exists {
		return fmt.Errorf("job not found: %s", jobID)
	}

	err := jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateRunning
	})
	if err != nil {
		return err
	}

	slog.Info("Starting job", "job_id", jobID, "solver", job.Config.Solver, "size", job.Config.Size)

	// Regenerate the dataset from the job config; the seed makes this
	// exact, so the job is fully described by its config.
	genCfg := descent.GenConfig{
		Size:         job.Config.Size,
		LearningRate: job.Config.LearningRate,
		Theta0:       job.Config.Theta0,
		Theta1:       job.Config.Theta1,
	}
	ds, err := descent.Generate(genCfg, rand.New(rand.NewSource(job.Config.Seed)))
	if err != nil {
		markJobFailed(jm, jobID, fmt.Errorf("failed to generate dataset: %w", err))
		return err
	}

	initialCost := descent.TotalCost(ds, descent.Params{})
	jm.UpdateJob(jobID, func(j *Job) {
		j.InitialCost = initialCost
		j.Cost = initialCost
	})

	// Check for cancellation before starting the long optimization
	select {
	case <-ctx.Done():
		markJobCancelled(jm, jobID)
		return ctx.Err()
	default:
	}

	var trace *store.TraceWriter
	if runStore != nil {
		trace, err = store.NewTraceWriter(dataDir, jobID, false)
		if err != nil {
			slog.Warn("Failed to create trace writer", "job_id", jobID, "error", err)
			trace = nil
		} else {
			defer trace.Close()
		}
	}

	// Start progress monitoring goroutine
	start := time.Now()
	progressDone := make(chan struct{})
	go monitorProgress(ctx, jm, jobID, progressDone)

	var theta descent.Params
	var reason string
	var steps int

	switch job.Config.Solver {
	case "", "descent":
		onProgress := func(iter int, p descent.Params, cost float64) {
			jm.UpdateJob(jobID, func(j *Job) {
				j.Iterations = iter
				j.Theta0 = p.Theta0
				j.Theta1 = p.Theta1
				j.Cost = cost
			})
			if trace != nil {
				trace.Write(store.TraceEntry{
					Iteration: iter,
					Theta0:    p.Theta0,
					Theta1:    p.Theta1,
					Cost:      cost,
					Timestamp: time.Now(),
				})
			}
		}

		cfg := descent.Config{MaxSteps: job.Config.MaxSteps, Eps: job.Config.Eps}
		result, err := descent.Optimize(ds, descent.CostGradient, cfg, onProgress)
		if err != nil {
			close(progressDone)
			markJobFailed(jm, jobID, err)
			return err
		}
		theta = result.Params
		reason = string(result.Reason)
		steps = result.Steps

	case "mayfly":
		optimizer := opt.NewMayfly(job.Config.MaxSteps, 20, job.Config.Seed)
		lower := []float64{-mayflyBound, -mayflyBound}
		upper := []float64{mayflyBound, mayflyBound}

		best, _ := optimizer.Run(opt.SSEObjective(ds), lower, upper, 2)
		theta = descent.Params{Theta0: best[0], Theta1: best[1]}
		reason = "max_steps"
		steps = job.Config.MaxSteps

	default:
		err := fmt.Errorf("unknown solver: %s", job.Config.Solver)
		close(progressDone)
		markJobFailed(jm, jobID, err)
		return err
	}

	close(progressDone)
	elapsed := time.Since(start)

	// Check for cancellation after optimization
	select {
	case <-ctx.Done():
		markJobCancelled(jm, jobID)
		return ctx.Err()
	default:
	}

	finalCost := descent.TotalCost(ds, theta)
	endTime := time.Now()
	err = jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateCompleted
		j.Theta0 = theta.Theta0
		j.Theta1 = theta.Theta1
		j.Cost = finalCost
		j.Iterations = steps
		j.Reason = reason
		j.EndTime = &endTime
	})
	if err != nil {
		return err
	}

	if trace != nil {
		if err := trace.Flush(); err != nil {
			slog.Warn("Failed to flush trace", "job_id", jobID, "error", err)
		}
	}

	if runStore != nil {
		record := store.NewRunRecord(jobID, theta.Theta0, theta.Theta1, reason, steps, initialCost, finalCost, job.Config)
		if err := runStore.SaveRun(jobID, record); err != nil {
			slog.Warn("Failed to persist run record", "job_id", jobID, "error", err)
		}
	}

	slog.Info("Job completed",
		"job_id", jobID,
		"elapsed", elapsed,
		"reason", reason,
		"steps", steps,
		"theta0", theta.Theta0,
		"theta1", theta.Theta1,
		"initial_cost", initialCost,
		"final_cost", finalCost,
	)

	// Broadcast final completion event
	jm.broadcaster.Broadcast(ProgressEvent{
		JobID:     jobID,
		State:     StateCompleted,
		Iteration: steps,
		Theta0:    theta.Theta0,
		Theta1:    theta.Theta1,
		Cost:      finalCost,
		Timestamp: time.Now(),
	})

	return nil
}

// monitorProgress periodically broadcasts progress events during optimization
func monitorProgress(ctx context.Context, jm *JobManager, jobID string, done chan struct{}) {
	ticker := time.NewTicker(500 * time.Millisecond) // Throttle to 2 updates per second
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			job, exists := jm.GetJob(jobID)
			if !exists {
				return
			}

			jm.broadcaster.Broadcast(ProgressEvent{
				JobID:     jobID,
				State:     job.State,
				Iteration: job.Iterations,
				Theta0:    job.Theta0,
				Theta1:    job.Theta1,
				Cost:      job.Cost,
				Timestamp: time.Now(),
			})
		}
	}
}

// markJobFailed marks a job as failed with an error message
func markJobFailed(jm *JobManager, jobID string, err error) {
	endTime := time.Now()
	jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateFailed
		j.Error = err.Error()
		j.EndTime = &endTime
	})
	slog.Error("Job failed", "job_id", jobID, "error", err)
}

// markJobCancelled marks a job as cancelled
func markJobCancelled(jm *JobManager, jobID string) {
	endTime := time.Now()
	jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateCancelled
		j.EndTime = &endTime
	})
	slog.Info("Job cancelled", "job_id", jobID)
}
