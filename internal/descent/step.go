package descent

// Step executes one full-batch gradient descent step, mutating p in place.
//
// The per-sample theta partials are summed over the whole dataset before
// any update, then each parameter moves against its accumulated gradient
// scaled by learningRate / (2N). The division by 2N follows the
// mean-squared-error convention: the 2 cancels the factor the squared
// cost contributes to its own derivative.
func Step(p *Params, ds *Dataset, grad GradientFunc) {
	var acc0, acc1 float64
	for _, s := range ds.Samples {
		d0, d1, _, _ := grad(p.Theta0, p.Theta1, s.X, s.Y)
		acc0 += d0
		acc1 += d1
	}

	n := float64(ds.Len())
	p.Theta0 -= ds.LearningRate * acc0 / (2 * n)
	p.Theta1 -= ds.LearningRate * acc1 / (2 * n)
}
