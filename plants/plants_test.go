package plants

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/dendra-sim/dendra/integration"
	"github.com/dendra-sim/dendra/sim"
	"github.com/dendra-sim/dendra/synapses"
	"github.com/dendra-sim/dendra/units"
)

func newNet() *sim.Network {
	net, err := sim.NewNetwork(sim.NetworkConfig{
		MinDelay:    0.5,
		MinBuffSize: 10,
		Integrator:  integration.RK4{},
		Seed:        5,
	})
	Expect(err).ToNot(HaveOccurred())
	return net
}

func constSource(net *sim.Network, v float64) int {
	ids, err := net.CreateUnits(1, sim.UnitConfig{
		Model: units.SourceConfig{
			Function: func(t sim.VTimeInSec) float64 { return v },
		},
	})
	Expect(err).ToNot(HaveOccurred())
	return ids[0]
}

func drivePort(net *sim.Network, plantID, port int, v, w float64) {
	src := constSource(net, v)
	err := net.SetPlantInputs([]int{src}, plantID, sim.PlantInputConfig{
		Ports:  []int{port},
		Weight: sim.Fixed(w),
		Delay:  sim.Fixed(0.5),
	})
	Expect(err).ToNot(HaveOccurred())
}

var _ = Describe("Pendulum", func() {
	It("should spin freely without gravity or friction", func() {
		net := newNet()
		id, err := net.CreatePlant(sim.PlantConfig{
			Model: PendulumConfig{
				Length:     1,
				Mass:       1,
				InitAngle:  0.3,
				InitAngVel: 2,
				G:          -1,
			},
		})
		Expect(err).ToNot(HaveOccurred())

		times, _, states, runErr := net.Run(3.0)
		Expect(runErr).ToNot(HaveOccurred())

		for i, t := range times {
			Expect(states[id][i][0]).To(
				BeNumerically("~", 0.3+2*float64(t), 1e-9))
			Expect(states[id][i][1]).To(BeNumerically("~", 2, 1e-9))
		}
	})

	It("should rest at the hanging equilibrium", func() {
		net := newNet()
		id, err := net.CreatePlant(sim.PlantConfig{
			Model: PendulumConfig{
				Length:    1,
				Mass:      1,
				InitAngle: -math.Pi / 2,
			},
		})
		Expect(err).ToNot(HaveOccurred())

		_, _, states, runErr := net.Run(3.0)
		Expect(runErr).ToNot(HaveOccurred())

		for _, s := range states[id] {
			Expect(s[0]).To(BeNumerically("~", -math.Pi/2, 1e-6))
			Expect(s[1]).To(BeNumerically("~", 0, 1e-6))
		}
	})

	It("should damp its spin with viscous friction", func() {
		net := newNet()
		// Inertia of a rod about one end is one third of mass times
		// length squared; mass 3 makes it exactly one.
		id, err := net.CreatePlant(sim.PlantConfig{
			Model: PendulumConfig{
				Length:     1,
				Mass:       3,
				InitAngVel: 2,
				G:          -1,
				Mu:         0.5,
			},
		})
		Expect(err).ToNot(HaveOccurred())

		times, _, states, runErr := net.Run(4.0)
		Expect(runErr).ToNot(HaveOccurred())

		for i, t := range times {
			Expect(states[id][i][1]).To(
				BeNumerically("~", 2*math.Exp(-0.5*float64(t)), 1e-5))
		}
	})

	It("should accelerate under an input torque", func() {
		net := newNet()
		id, err := net.CreatePlant(sim.PlantConfig{
			Model: PendulumConfig{
				Length: 1,
				Mass:   3,
				G:      -1,
			},
		})
		Expect(err).ToNot(HaveOccurred())
		drivePort(net, id, 0, 1, 2)

		times, _, states, runErr := net.Run(3.0)
		Expect(runErr).ToNot(HaveOccurred())

		// Constant torque 2 on unit inertia: angle grows as t squared.
		for i, t := range times {
			Expect(states[id][i][0]).To(
				BeNumerically("~", float64(t)*float64(t), 1e-9))
		}
	})

	It("should reject a non-positive length", func() {
		net := newNet()
		_, err := net.CreatePlant(sim.PlantConfig{
			Model: PendulumConfig{Length: 0, Mass: 1},
		})

		Expect(err).To(BeAssignableToTypeOf(&sim.ConfigError{}))
	})
})

var _ = Describe("PointMass2D", func() {
	It("should drift at its initial velocity without forces", func() {
		net := newNet()
		id, err := net.CreatePlant(sim.PlantConfig{
			Model: PointMass2DConfig{
				Mass:    1,
				InitPos: [2]float64{1, 2},
				InitVel: [2]float64{0.5, -0.5},
			},
		})
		Expect(err).ToNot(HaveOccurred())

		times, _, states, runErr := net.Run(3.0)
		Expect(runErr).ToNot(HaveOccurred())

		for i, t := range times {
			Expect(states[id][i][0]).To(
				BeNumerically("~", 1+0.5*float64(t), 1e-9))
			Expect(states[id][i][1]).To(
				BeNumerically("~", 2-0.5*float64(t), 1e-9))
		}
	})

	It("should accelerate along the port force direction", func() {
		net := newNet()
		id, err := net.CreatePlant(sim.PlantConfig{
			Model: PointMass2DConfig{
				Mass: 2,
				Vec0: [2]float64{1, 0},
				Vec1: [2]float64{0, 1},
				G0:   2,
				G1:   1,
			},
		})
		Expect(err).ToNot(HaveOccurred())
		drivePort(net, id, 0, 1, 1)

		times, _, states, runErr := net.Run(3.0)
		Expect(runErr).ToNot(HaveOccurred())

		// Acceleration 1 along x, none along y.
		for i, t := range times {
			ft := float64(t)
			Expect(states[id][i][0]).To(
				BeNumerically("~", 0.5*ft*ft, 1e-9))
			Expect(states[id][i][1]).To(BeNumerically("~", 0, 1e-9))
			Expect(states[id][i][2]).To(BeNumerically("~", ft, 1e-9))
		}
	})

	It("should reject a non-positive mass", func() {
		net := newNet()
		_, err := net.CreatePlant(sim.PlantConfig{
			Model: PointMass2DConfig{Mass: 0},
		})

		Expect(err).To(BeAssignableToTypeOf(&sim.ConfigError{}))
	})
})

var _ = Describe("ConnTester", func() {
	It("should oscillate at the driven frequency", func() {
		net := newNet()
		id, err := net.CreatePlant(sim.PlantConfig{
			Model: ConnTesterConfig{InitState: [3]float64{1, 0, 0}},
		})
		Expect(err).ToNot(HaveOccurred())
		drivePort(net, id, 0, 1, 1)
		drivePort(net, id, 1, 1, 1)

		times, _, states, runErr := net.Run(5.0)
		Expect(runErr).ToNot(HaveOccurred())

		for i, t := range times {
			ft := float64(t)
			Expect(states[id][i][0]).To(
				BeNumerically("~", math.Cos(ft), 1e-4))
			Expect(states[id][i][1]).To(
				BeNumerically("~", math.Sin(ft), 1e-4))
		}
	})

	It("should decay its third variable at the driven rate", func() {
		net := newNet()
		id, err := net.CreatePlant(sim.PlantConfig{
			Model: ConnTesterConfig{InitState: [3]float64{0, 0, 1}},
		})
		Expect(err).ToNot(HaveOccurred())
		drivePort(net, id, 2, 1, 1)

		times, _, states, runErr := net.Run(5.0)
		Expect(runErr).ToNot(HaveOccurred())

		for i, t := range times {
			Expect(states[id][i][2]).To(
				BeNumerically("~", math.Exp(-float64(t)), 1e-4))
		}
	})

	It("should feed its state back into units", func() {
		net := newNet()
		id, err := net.CreatePlant(sim.PlantConfig{
			Model: ConnTesterConfig{InitState: [3]float64{0, 0, 1}},
		})
		Expect(err).ToNot(HaveOccurred())

		tgt, err := net.CreateUnits(1, sim.UnitConfig{
			Model: units.LinearConfig{Tau: 0.5},
		})
		Expect(err).ToNot(HaveOccurred())

		err = net.SetPlantOutputs(id, tgt, sim.PlantOutputConfig{
			StateVars: []int{2},
			Model:     synapses.StaticConfig{},
			InitW:     sim.Fixed(1),
			Delay:     sim.Fixed(0.5),
		})
		Expect(err).ToNot(HaveOccurred())

		_, acts, _, runErr := net.Run(5.0)
		Expect(runErr).ToNot(HaveOccurred())

		// The undriven third variable holds 1; the unit relaxes toward it.
		last := len(acts[tgt[0]]) - 1
		Expect(acts[tgt[0]][last]).To(
			BeNumerically("~", 1-math.Exp(-2*4.5), 1e-3))
	})
})
