package descent

import "testing"

func TestConverged(t *testing.T) {
	tests := []struct {
		name string
		prev Params
		cur  Params
		eps  float64
		want bool
	}{
		{
			name: "within tolerance",
			prev: Params{Theta0: 1.0, Theta1: 2.0},
			cur:  Params{Theta0: 1.0 + 5e-7, Theta1: 2.0 - 5e-7},
			eps:  1e-6,
			want: true,
		},
		{
			name: "outside tighter tolerance",
			prev: Params{Theta0: 1.0, Theta1: 2.0},
			cur:  Params{Theta0: 1.0 + 5e-7, Theta1: 2.0 - 5e-7},
			eps:  1e-7,
			want: false,
		},
		{
			name: "one component over",
			prev: Params{Theta0: 0, Theta1: 0},
			cur:  Params{Theta0: 1e-8, Theta1: 1e-3},
			eps:  1e-6,
			want: false,
		},
		{
			name: "identical with zero eps",
			prev: Params{Theta0: 4, Theta1: -1},
			cur:  Params{Theta0: 4, Theta1: -1},
			eps:  0,
			want: true,
		},
		{
			name: "negative eps never converges",
			prev: Params{Theta0: 4, Theta1: -1},
			cur:  Params{Theta0: 4, Theta1: -1},
			eps:  -1,
			want: false,
		},
		{
			name: "exactly at tolerance",
			prev: Params{Theta0: 0, Theta1: 0},
			cur:  Params{Theta0: 1e-6, Theta1: -1e-6},
			eps:  1e-6,
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Converged(tt.prev, tt.cur, tt.eps); got != tt.want {
				t.Errorf("Converged(%+v, %+v, %g) = %v, want %v",
					tt.prev, tt.cur, tt.eps, got, tt.want)
			}
		})
	}
}
