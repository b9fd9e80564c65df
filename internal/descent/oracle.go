package descent

// GradientFunc supplies the partial derivatives of the per-sample cost
// (f(theta0,theta1,x) - y)^2 with respect to each of its four inputs,
// in order: d/dtheta0, d/dtheta1, d/dx, d/dy.
//
// The step executor consumes only the first two; the x and y partials
// are part of the contract but unused by the optimizer. Implementations
// must be pure: deterministic for fixed inputs, no shared mutable
// state between calls. Closed-form, numeric, or tape-based
// differentiation are all valid substitutes.
type GradientFunc func(theta0, theta1, x, y float64) (dTheta0, dTheta1, dX, dY float64)

// CostGradient is the closed-form gradient of the squared-error cost.
// With r = f(theta0,theta1,x) - y:
//
//	d/dtheta0 = 2r
//	d/dtheta1 = 2r*x
//	d/dx      = 2r*theta1
//	d/dy      = -2r
func CostGradient(theta0, theta1, x, y float64) (dTheta0, dTheta1, dX, dY float64) {
	r := Hypothesis(theta0, theta1, x) - y
	return 2 * r, 2 * r * x, 2 * r * theta1, -2 * r
}
