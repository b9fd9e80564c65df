package descent

// Params holds the current hypothesis parameters (theta0, theta1)
type Params struct {
	Theta0 float64 `json:"theta0"`
	Theta1 float64 `json:"theta1"`
}

// Hypothesis evaluates the affine model f(theta0, theta1, x) = theta0 + theta1*x
func Hypothesis(theta0, theta1, x float64) float64 {
	return theta0 + theta1*x
}

// SampleCost computes the squared residual of one sample under the hypothesis
func SampleCost(theta0, theta1, x, y float64) float64 {
	r := Hypothesis(theta0, theta1, x) - y
	return r * r
}

// TotalCost sums the per-sample cost over the full dataset
func TotalCost(ds *Dataset, p Params) float64 {
	var sum float64
	for _, s := range ds.Samples {
		sum += SampleCost(p.Theta0, p.Theta1, s.X, s.Y)
	}
	return sum
}
