package server

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/linfit/internal/store"
)

func testJobConfig() JobConfig {
	return JobConfig{
		Size:         100,
		LearningRate: 0.05,
		Theta0:       9,
		Theta1:       2,
		Seed:         42,
		MaxSteps:     2000,
		Eps:          1e-6,
		Solver:       "descent",
	}
}

func TestRunJob_Success(t *testing.T) {
	jm := NewJobManager()
	job := jm.CreateJob(testJobConfig())

	if err := runJob(context.Background(), jm, nil, "", job.ID); err != nil {
		t.Fatalf("runJob should succeed: %v", err)
	}

	updated, _ := jm.GetJob(job.ID)
	if updated.State != StateCompleted {
		t.Errorf("Job should be completed, got %s", updated.State)
	}
	if updated.Iterations == 0 {
		t.Error("Iterations should be set")
	}
	if updated.Reason == "" {
		t.Error("Reason should be set")
	}
	if updated.Cost >= updated.InitialCost {
		t.Errorf("Cost %g should improve on initial %g", updated.Cost, updated.InitialCost)
	}
	if updated.EndTime == nil {
		t.Error("EndTime should be set")
	}

	// The noisy-intercept data pulls the best fit near (9.5, 2).
	if math.Abs(updated.Theta0-9.5) > 0.5 || math.Abs(updated.Theta1-2) > 0.5 {
		t.Errorf("Fitted theta (%g, %g), expected near (9.5, 2)", updated.Theta0, updated.Theta1)
	}
}

func TestRunJob_PersistsRecordAndTrace(t *testing.T) {
	dataDir := t.TempDir()
	fs, err := store.NewFSStore(dataDir)
	if err != nil {
		t.Fatalf("NewFSStore failed: %v", err)
	}

	jm := NewJobManager()
	job := jm.CreateJob(testJobConfig())

	if err := runJob(context.Background(), jm, fs, dataDir, job.ID); err != nil {
		t.Fatalf("runJob failed: %v", err)
	}

	record, err := fs.LoadRun(job.ID)
	if err != nil {
		t.Fatalf("LoadRun failed: %v", err)
	}
	if record.Config != job.Config {
		t.Errorf("Persisted config %+v, want %+v", record.Config, job.Config)
	}
	if err := record.Validate(); err != nil {
		t.Errorf("Persisted record invalid: %v", err)
	}

	reader, err := store.NewTraceReader(dataDir, job.ID)
	if err != nil {
		t.Fatalf("NewTraceReader failed: %v", err)
	}
	defer reader.Close()

	entries, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(entries) != record.Steps {
		t.Errorf("Trace has %d entries, want one per step (%d)", len(entries), record.Steps)
	}

	// Entries appear in batch-pass order with the final parameters last.
	last := entries[len(entries)-1]
	if last.Theta0 != record.FitTheta0 || last.Theta1 != record.FitTheta1 {
		t.Errorf("Last trace theta (%g, %g), record (%g, %g)",
			last.Theta0, last.Theta1, record.FitTheta0, record.FitTheta1)
	}
}

func TestRunJob_MayflySolver(t *testing.T) {
	config := testJobConfig()
	config.Solver = "mayfly"
	config.MaxSteps = 100

	jm := NewJobManager()
	job := jm.CreateJob(config)

	if err := runJob(context.Background(), jm, nil, "", job.ID); err != nil {
		t.Fatalf("runJob failed: %v", err)
	}

	updated, _ := jm.GetJob(job.ID)
	if updated.State != StateCompleted {
		t.Errorf("Job should be completed, got %s", updated.State)
	}
	if math.Abs(updated.Theta0-9.5) > 1 || math.Abs(updated.Theta1-2) > 1 {
		t.Errorf("Fitted theta (%g, %g), expected near (9.5, 2)", updated.Theta0, updated.Theta1)
	}
}

func TestRunJob_InvalidConfig(t *testing.T) {
	config := testJobConfig()
	config.Size = 0 // would divide by zero in the update rule

	jm := NewJobManager()
	job := jm.CreateJob(config)

	if err := runJob(context.Background(), jm, nil, "", job.ID); err == nil {
		t.Error("runJob should fail with size 0")
	}

	updated, _ := jm.GetJob(job.ID)
	if updated.State != StateFailed {
		t.Errorf("Job should be failed, got %s", updated.State)
	}
	if updated.Error == "" {
		t.Error("Error message should be set")
	}
}

func TestRunJob_UnknownSolver(t *testing.T) {
	config := testJobConfig()
	config.Solver = "annealing"

	jm := NewJobManager()
	job := jm.CreateJob(config)

	if err := runJob(context.Background(), jm, nil, "", job.ID); err == nil {
		t.Error("runJob should fail with unknown solver")
	}

	updated, _ := jm.GetJob(job.ID)
	if updated.State != StateFailed {
		t.Errorf("Job should be failed, got %s", updated.State)
	}
}

func TestRunJob_UnknownJob(t *testing.T) {
	jm := NewJobManager()
	if err := runJob(context.Background(), jm, nil, "", "no-such-job"); err == nil {
		t.Error("runJob should fail for unknown job ID")
	}
}

func TestRunJob_CancelledBeforeStart(t *testing.T) {
	jm := NewJobManager()
	job := jm.CreateJob(testJobConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := runJob(ctx, jm, nil, "", job.ID)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}

	updated, _ := jm.GetJob(job.ID)
	if updated.State != StateCancelled {
		t.Errorf("Job should be cancelled, got %s", updated.State)
	}
	if updated.EndTime == nil {
		t.Error("EndTime should be set on cancellation")
	}
}
