package store

import (
	"fmt"
	"time"
)

// RunConfig holds the configuration of a fit run. It is persisted with
// the result so a run can be reproduced or resumed: the dataset is
// fully determined by (Size, LearningRate, Theta0, Theta1, Seed).
type RunConfig struct {
	Size         int     `json:"size"`
	LearningRate float64 `json:"learningRate"`
	Theta0       float64 `json:"theta0"` // ground-truth intercept base
	Theta1       float64 `json:"theta1"` // ground-truth slope
	Seed         int64   `json:"seed"`
	MaxSteps     int     `json:"maxSteps"`
	Eps          float64 `json:"eps"`
	Solver       string  `json:"solver"` // descent, mayfly
}

// RunRecord represents a completed (or checkpointed) fit run.
// All fields are serialized to JSON for persistence.
//
// A record carries everything needed to resume: the fitted parameters
// plus the config that regenerates the exact dataset. No optimizer
// state beyond the parameter vector exists for batch gradient descent,
// so resuming from a record is an exact continuation.
type RunRecord struct {
	// RunID is the unique identifier for this run
	RunID string `json:"runId"`

	// FitTheta0 and FitTheta1 are the fitted parameters
	FitTheta0 float64 `json:"fitTheta0"`
	FitTheta1 float64 `json:"fitTheta1"`

	// Reason is the terminal state: converged or max_steps
	Reason string `json:"reason"`

	// Steps is the cumulative number of completed descent steps
	Steps int `json:"steps"`

	// InitialCost is the total cost at the initial parameters
	InitialCost float64 `json:"initialCost"`

	// FinalCost is the total cost at the fitted parameters
	FinalCost float64 `json:"finalCost"`

	// Timestamp records when this record was written
	Timestamp time.Time `json:"timestamp"`

	// Config holds the run configuration, needed for resume validation
	Config RunConfig `json:"config"`
}

// RunInfo contains metadata about a run without the full record.
// Used for listing runs efficiently.
type RunInfo struct {
	RunID     string    `json:"runId"`
	Reason    string    `json:"reason"`
	Steps     int       `json:"steps"`
	FinalCost float64   `json:"finalCost"`
	Solver    string    `json:"solver"`
	Size      int       `json:"size"`
	Timestamp time.Time `json:"timestamp"`
}

// NewRunRecord creates a record from run results.
func NewRunRecord(runID string, theta0, theta1 float64, reason string, steps int, initialCost, finalCost float64, config RunConfig) *RunRecord {
	return &RunRecord{
		RunID:       runID,
		FitTheta0:   theta0,
		FitTheta1:   theta1,
		Reason:      reason,
		Steps:       steps,
		InitialCost: initialCost,
		FinalCost:   finalCost,
		Timestamp:   time.Now(),
		Config:      config,
	}
}

// ToInfo converts a full RunRecord to RunInfo (metadata only).
func (r *RunRecord) ToInfo() RunInfo {
	return RunInfo{
		RunID:     r.RunID,
		Reason:    r.Reason,
		Steps:     r.Steps,
		FinalCost: r.FinalCost,
		Solver:    r.Config.Solver,
		Size:      r.Config.Size,
		Timestamp: r.Timestamp,
	}
}

// Validate checks if the record has valid data.
// Returns an error if any required field is missing or invalid.
func (r *RunRecord) Validate() error {
	if r.RunID == "" {
		return &ValidationError{Field: "RunID", Reason: "cannot be empty"}
	}
	if r.Reason == "" {
		return &ValidationError{Field: "Reason", Reason: "cannot be empty"}
	}
	if r.Steps < 0 {
		return &ValidationError{Field: "Steps", Reason: "cannot be negative"}
	}
	if r.InitialCost < 0 {
		return &ValidationError{Field: "InitialCost", Reason: "cannot be negative"}
	}
	if r.FinalCost < 0 {
		return &ValidationError{Field: "FinalCost", Reason: "cannot be negative"}
	}
	if r.Timestamp.IsZero() {
		return &ValidationError{Field: "Timestamp", Reason: "cannot be zero"}
	}
	if r.Config.Size < 1 {
		return &ValidationError{Field: "Config.Size", Reason: "must be >= 1"}
	}
	if r.Config.MaxSteps <= 0 {
		return &ValidationError{Field: "Config.MaxSteps", Reason: "must be positive"}
	}
	if r.Config.Solver == "" {
		return &ValidationError{Field: "Config.Solver", Reason: "cannot be empty"}
	}
	return nil
}

// ValidationError represents a run-record validation error.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Field + " " + e.Reason
}

// IsCompatible checks if this record can be resumed with the given config.
// The dataset-defining fields must match exactly, otherwise the saved
// parameters would continue descent on different data.
func (r *RunRecord) IsCompatible(config RunConfig) error {
	if r.Config.Size != config.Size {
		return &CompatibilityError{
			Field:    "Size",
			Expected: fmt.Sprintf("%d", r.Config.Size),
			Actual:   fmt.Sprintf("%d", config.Size),
		}
	}
	if r.Config.Seed != config.Seed {
		return &CompatibilityError{
			Field:    "Seed",
			Expected: fmt.Sprintf("%d", r.Config.Seed),
			Actual:   fmt.Sprintf("%d", config.Seed),
		}
	}
	if r.Config.LearningRate != config.LearningRate {
		return &CompatibilityError{
			Field:    "LearningRate",
			Expected: fmt.Sprintf("%g", r.Config.LearningRate),
			Actual:   fmt.Sprintf("%g", config.LearningRate),
		}
	}
	if r.Config.Theta0 != config.Theta0 || r.Config.Theta1 != config.Theta1 {
		return &CompatibilityError{
			Field:    "GroundTruth",
			Expected: fmt.Sprintf("(%g, %g)", r.Config.Theta0, r.Config.Theta1),
			Actual:   fmt.Sprintf("(%g, %g)", config.Theta0, config.Theta1),
		}
	}
	return nil
}

// CompatibilityError represents a resume compatibility error.
type CompatibilityError struct {
	Field    string
	Expected string
	Actual   string
}

func (e *CompatibilityError) Error() string {
	return "compatibility error: " + e.Field + " mismatch (expected " + e.Expected + ", got " + e.Actual + ")"
}
