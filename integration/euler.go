package integration

import "github.com/dendra-sim/dendra/sim"

// Euler is the forward Euler method. Each output interval is subdivided into
// SubSteps internal steps.
type Euler struct {
	// SubSteps is the number of internal steps per output interval. Zero
	// means one.
	SubSteps int
}

// Integrate produces the state trajectory at the requested times.
func (e Euler) Integrate(
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
	dydt := make([]float64, dim)
	copy(y, y0)

	for i := 0; i < len(times)-1; i++ {
		h := span(times, i) / float64(sub)
		for s := 0; s < sub; s++ {
			t := times[i] + sim.VTimeInSec(float64(s)*h)
			f(y, t, dydt)
			for j := range y {
				y[j] += h * dydt[j]
			}
		}
		copy(out[i+1], y)
	}

	return out
}
