package descent

import "math"

// Converged reports whether the step from prev to cur moved every
// parameter by at most eps.
//
// On the first iteration the initial parameters serve as prev, so the
// check can never signal convergence from an uninitialized comparison.
// A negative eps never converges, which disables early exit and forces
// the optimizer to run to its step bound.
func Converged(prev, cur Params, eps float64) bool {
	return math.Abs(prev.Theta0-cur.Theta0) <= eps &&
		math.Abs(prev.Theta1-cur.Theta1) <= eps
}
