package plants

import (
	"math"

	"github.com/dendra-sim/dendra/sim"
)

// PendulumConfig configures a rigid homogeneous rod attached to a
// one-dimensional rotational joint at the origin. Positive X is zero
// radians, gravity points toward negative Y, counterclockwise is positive.
// Inputs at port 0 are torques at the joint.
//
// State variable 0 is the angle in radians, 1 the angular velocity.
type PendulumConfig struct {
	Length float64 // rod length [m]
	Mass   float64 // rod mass [kg]

	InitAngle  float64
	InitAngVel float64

	// G is the gravitational acceleration. Zero means 9.8; set a small
	// negative value for a gravity-free rod.
	G float64

	// InpGain scales the input torque. Zero means 1.
	InpGain float64

	// Mu is the viscous friction coefficient.
	Mu float64
}

// ModelKind returns the pendulum kind tag.
func (PendulumConfig) ModelKind() string { return KindPendulum }

type pendulumModel struct {
	inertia float64
	gravTrq float64 // torque per cos(angle) from gravity
	inpGain float64
	mu      float64
	init    []float64
}

func newPendulum(p *sim.Plant, cfg sim.PlantModelConfig) (sim.PlantModel, error) {
	c, ok := cfg.(PendulumConfig)
	if !ok {
		return nil, sim.ConfigErrorf("pendulum: unexpected config %T", cfg)
	}
	if c.Length <= 0 || c.Mass <= 0 {
		return nil, sim.ConfigErrorf(
			"pendulum: length and mass must be positive, got %f and %f",
			c.Length, c.Mass)
	}

	g := c.G
	if g == 0 {
		g = 9.8
	} else if g < 0 {
		g = 0
	}
	gain := c.InpGain
	if gain == 0 {
		gain = 1
	}

	return &pendulumModel{
		// Moment of inertia of a homogeneous rod about one end.
		inertia: c.Mass * c.Length * c.Length / 3,
		gravTrq: 0.5 * c.Mass * g * c.Length,
		inpGain: gain,
		mu:      c.Mu,
		init:    []float64{c.InitAngle, c.InitAngVel},
	}, nil
}

func (m *pendulumModel) Dim() int    { return 2 }
func (m *pendulumModel) InpDim() int { return 1 }

func (m *pendulumModel) InitState() []float64 { return m.init }

func (m *pendulumModel) Derivatives(
	p *sim.Plant,
	y []float64,
	t sim.VTimeInSec,
	dydt []float64,
) {
	torque := m.inpGain * p.InputSum(0, t)
	torque -= m.gravTrq*math.Cos(y[0]) + m.mu*y[1]

	dydt[0] = y[1]
	dydt[1] = torque / m.inertia
}
