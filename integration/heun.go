package integration

import "github.com/dendra-sim/dendra/sim"

// Heun is the explicit trapezoidal method: an Euler predictor followed by a
// trapezoidal corrector, second order accurate.
type Heun struct {
	// SubSteps is the number of internal steps per output interval. Zero
	// means one.
	SubSteps int
}

// Integrate produces the state trajectory at the requested times.
func (e Heun) Integrate(
	f sim.DerivFunc,
	y0 []float64,
	times []sim.VTimeInSec,
) [][]float64 {
	sub := e.SubSteps
	if sub < 1 {
		sub = 1
	}

	dim := len(y0)
	out := alloc(y0, len(times))

	y := make([]float64, dim)
	pred := make([]float64, dim)
	k1 := make([]float64, dim)
	k2 := make([]float64, dim)
	copy(y, y0)

	for i := 0; i < len(times)-1; i++ {
		h := span(times, i) / float64(sub)
		for s := 0; s < sub; s++ {
			t := times[i] + sim.VTimeInSec(float64(s)*h)

			f(y, t, k1)
			for j := range pred {
				pred[j] = y[j] + h*k1[j]
			}
			f(pred, t+sim.VTimeInSec(h), k2)

			for j := range y {
				y[j] += h * 0.5 * (k1[j] + k2[j])
			}
		}
		copy(out[i+1], y)
	}

	return out
}
