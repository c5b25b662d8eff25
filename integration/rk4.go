package integration

import "github.com/dendra-sim/dendra/sim"

// RK4 is the classic fourth-order Runge-Kutta method.
type RK4 struct {
	// SubSteps is the number of internal steps per output interval. Zero
	// means one.
	SubSteps int
}

// Integrate produces the state trajectory at the requested times.
func (e RK4) Integrate(
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
	tmp := make([]float64, dim)
	k1 := make([]float64, dim)
	k2 := make([]float64, dim)
	k3 := make([]float64, dim)
	k4 := make([]float64, dim)
	copy(y, y0)

	for i := 0; i < len(times)-1; i++ {
		h := span(times, i) / float64(sub)
		for s := 0; s < sub; s++ {
			t := times[i] + sim.VTimeInSec(float64(s)*h)
			half := t + sim.VTimeInSec(h/2)

			f(y, t, k1)
			for j := range tmp {
				tmp[j] = y[j] + h/2*k1[j]
			}
			f(tmp, half, k2)
			for j := range tmp {
				tmp[j] = y[j] + h/2*k2[j]
			}
			f(tmp, half, k3)
			for j := range tmp {
				tmp[j] = y[j] + h*k3[j]
			}
			f(tmp, t+sim.VTimeInSec(h), k4)

			for j := range y {
				y[j] += h / 6 * (k1[j] + 2*k2[j] + 2*k3[j] + k4[j])
			}
		}
		copy(out[i+1], y)
	}

	return out
}
