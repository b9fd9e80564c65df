package opt

import "github.com/cwbudde/linfit/internal/descent"

// Optimizer defines a derivative-free optimization algorithm interface
type Optimizer interface {
	// Run executes the optimization
	// eval: objective function to minimize
	// lower, upper: parameter bounds
	// dim: dimensionality of parameter space
	// Returns: best parameters and best cost
	Run(eval func([]float64) float64, lower, upper []float64, dim int) ([]float64, float64)
}

// SSEObjective builds the total squared-error objective over a dataset
// as a function of the flat parameter vector [theta0, theta1].
// It is the gradient-free counterpart of the descent cost, so both
// solvers minimize the same surface.
func SSEObjective(ds *descent.Dataset) func([]float64) float64 {
	return func(v []float64) float64 {
		return descent.TotalCost(ds, descent.Params{Theta0: v[0], Theta1: v[1]})
	}
}
