package plants

import "github.com/dendra-sim/dendra/sim"

// PointMass2DConfig configures a point mass moving on a plane. Inputs at
// port 0 push the mass along Vec0 with force G0 per unit of weighted input;
// port 1 does the same with Vec1 and G1.
//
// State variables 0 and 1 are the x and y coordinates, 2 and 3 the
// velocities.
type PointMass2DConfig struct {
	Mass float64

	InitPos [2]float64
	InitVel [2]float64

	Vec0 [2]float64
	Vec1 [2]float64
	G0   float64
	G1   float64
}

// ModelKind returns the planar point mass kind tag.
func (PointMass2DConfig) ModelKind() string { return KindPointMass2D }

type pointMass2DModel struct {
	rmass      float64
	vec0, vec1 [2]float64
	g0, g1     float64
	init       []float64
}

func newPointMass2D(p *sim.Plant, cfg sim.PlantModelConfig) (sim.PlantModel, error) {
	c, ok := cfg.(PointMass2DConfig)
	if !ok {
		return nil, sim.ConfigErrorf(
			"point_mass_2d: unexpected config %T", cfg)
	}
	if c.Mass <= 0 {
		return nil, sim.ConfigErrorf(
			"point_mass_2d: mass must be positive, got %f", c.Mass)
	}

	return &pointMass2DModel{
		rmass: 1 / c.Mass,
		vec0:  c.Vec0,
		vec1:  c.Vec1,
		g0:    c.G0,
		g1:    c.G1,
		init: []float64{
			c.InitPos[0], c.InitPos[1], c.InitVel[0], c.InitVel[1]},
	}, nil
}

func (m *pointMass2DModel) Dim() int    { return 4 }
func (m *pointMass2DModel) InpDim() int { return 2 }

func (m *pointMass2DModel) InitState() []float64 { return m.init }

func (m *pointMass2DModel) Derivatives(
	p *sim.Plant,
	y []float64,
	t sim.VTimeInSec,
	dydt []float64,
) {
	f0 := m.g0 * p.InputSum(0, t)
	f1 := m.g1 * p.InputSum(1, t)

	dydt[0] = y[2]
	dydt[1] = y[3]
	dydt[2] = (f0*m.vec0[0] + f1*m.vec1[0]) * m.rmass
	dydt[3] = (f0*m.vec0[1] + f1*m.vec1[1]) * m.rmass
}
