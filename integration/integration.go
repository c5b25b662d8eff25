// Package integration provides the numerical integrators that advance the
// entities of a network. Fixed-step methods subdivide each output interval;
// the adaptive method picks its own internal steps and interpolates onto the
// requested times.
package integration

import "github.com/dendra-sim/dendra/sim"

// alloc builds the output trajectory with the initial state in row zero.
func alloc(y0 []float64, n int) [][]float64 {
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, len(y0))
	}
	copy(out[0], y0)
	return out
}

func span(times []sim.VTimeInSec, i int) float64 {
	return float64(times[i+1] - times[i])
}
