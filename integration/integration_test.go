package integration

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/dendra-sim/dendra/sim"
)

func grid(from, to float64, n int) []sim.VTimeInSec {
	times := make([]sim.VTimeInSec, n+1)
	for i := range times {
		times[i] = sim.VTimeInSec(
			from + (to-from)*float64(i)/float64(n))
	}
	return times
}

func decay(y []float64, t sim.VTimeInSec, dydt []float64) {
	dydt[0] = -y[0]
}

func oscillator(y []float64, t sim.VTimeInSec, dydt []float64) {
	dydt[0] = y[1]
	dydt[1] = -y[0]
}

// checkDecay asserts that a trajectory of the pure decay problem matches
// the exponential solution at every requested time.
func checkDecay(
	traj [][]float64,
	times []sim.VTimeInSec,
	tol float64,
) {
	for i, t := range times {
		ExpectWithOffset(1, traj[i][0]).To(
			BeNumerically("~", math.Exp(-float64(t)), tol),
			"at time %f", float64(t))
	}
}

var _ = Describe("Euler", func() {
	It("should solve the decay problem to first order", func() {
		times := grid(0, 1, 10)

		traj := Euler{SubSteps: 10}.Integrate(decay, []float64{1}, times)

		checkDecay(traj, times, 5e-3)
	})

	It("should default to one internal step", func() {
		times := grid(0, 2, 4)
		linear := func(y []float64, t sim.VTimeInSec, dydt []float64) {
			dydt[0] = 2
		}

		traj := Euler{}.Integrate(linear, []float64{0}, times)

		for i, t := range times {
			Expect(traj[i][0]).To(
				BeNumerically("~", 2*float64(t), 1e-12))
		}
	})

	It("should keep the initial state in row zero", func() {
		times := grid(0, 1, 2)

		traj := Euler{}.Integrate(decay, []float64{0.4}, times)

		Expect(traj[0]).To(Equal([]float64{0.4}))
	})
})

var _ = Describe("Heun", func() {
	It("should solve the decay problem to second order", func() {
		times := grid(0, 1, 10)

		traj := Heun{SubSteps: 10}.Integrate(decay, []float64{1}, times)

		checkDecay(traj, times, 1e-4)
	})
})

var _ = Describe("RK4", func() {
	It("should solve the decay problem to fourth order", func() {
		times := grid(0, 1, 10)

		traj := RK4{}.Integrate(decay, []float64{1}, times)

		checkDecay(traj, times, 1e-6)
	})

	It("should track the harmonic oscillator over a full period", func() {
		times := grid(0, 2*math.Pi, 100)

		traj := RK4{}.Integrate(oscillator, []float64{1, 0}, times)

		for i, t := range times {
			Expect(traj[i][0]).To(
				BeNumerically("~", math.Cos(float64(t)), 1e-5))
			Expect(traj[i][1]).To(
				BeNumerically("~", -math.Sin(float64(t)), 1e-5))
		}
	})
})

var _ = Describe("DormandPrince", func() {
	It("should solve the decay problem within its tolerance", func() {
		times := grid(0, 5, 10)

		traj := DormandPrince{}.Integrate(decay, []float64{1}, times)

		checkDecay(traj, times, 1e-5)
	})

	It("should interpolate onto irregular output times", func() {
		times := []sim.VTimeInSec{0, 0.013, 0.4, 0.41, 1.7, 2}

		traj := DormandPrince{}.Integrate(decay, []float64{1}, times)

		checkDecay(traj, times, 1e-5)
	})

	It("should handle fast transients by rejecting steps", func() {
		fast := func(y []float64, t sim.VTimeInSec, dydt []float64) {
			dydt[0] = -50 * y[0]
		}
		times := grid(0, 0.2, 4)

		traj := DormandPrince{}.Integrate(fast, []float64{1}, times)

		for i, t := range times {
			Expect(traj[i][0]).To(
				BeNumerically("~", math.Exp(-50*float64(t)), 1e-5))
		}
	})

	It("should honor the step cap", func() {
		calls := 0
		counted := func(y []float64, t sim.VTimeInSec, dydt []float64) {
			calls++
			dydt[0] = -y[0]
		}
		times := grid(0, 1, 2)

		traj := DormandPrince{MaxStep: 0.01}.Integrate(
			counted, []float64{1}, times)

		checkDecay(traj, times, 1e-5)
		// 100 capped steps at 6 new stage evaluations each, plus the
		// initial one.
		Expect(calls).To(BeNumerically(">=", 600))
	})

	It("should integrate vector states componentwise", func() {
		times := grid(0, 2*math.Pi, 8)

		traj := DormandPrince{}.Integrate(oscillator, []float64{1, 0}, times)

		for i, t := range times {
			Expect(traj[i][0]).To(
				BeNumerically("~", math.Cos(float64(t)), 1e-4))
			Expect(traj[i][1]).To(
				BeNumerically("~", -math.Sin(float64(t)), 1e-4))
		}
	})
})
