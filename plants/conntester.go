package plants

import "github.com/dendra-sim/dendra/sim"

// ConnTesterConfig configures a three-variable diagnostic plant. With a
// constant unit input sum, the first two state variables oscillate as
// sine and cosine whose frequency tracks the port 0 and 1 input amplitudes,
// and the third decays exponentially with rate set by port 2. It exists to
// verify plant wiring, not to model anything physical.
type ConnTesterConfig struct {
	InitState [3]float64
}

// ModelKind returns the connection tester kind tag.
func (ConnTesterConfig) ModelKind() string { return KindConnTester }

type connTesterModel struct {
	init []float64
}

func newConnTester(p *sim.Plant, cfg sim.PlantModelConfig) (sim.PlantModel, error) {
	c, ok := cfg.(ConnTesterConfig)
	if !ok {
		return nil, sim.ConfigErrorf("conn_tester: unexpected config %T", cfg)
	}

	return &connTesterModel{
		init: []float64{c.InitState[0], c.InitState[1], c.InitState[2]},
	}, nil
}

func (m *connTesterModel) Dim() int    { return 3 }
func (m *connTesterModel) InpDim() int { return 3 }

func (m *connTesterModel) InitState() []float64 { return m.init }

func (m *connTesterModel) Derivatives(
	p *sim.Plant,
	y []float64,
	t sim.VTimeInSec,
	dydt []float64,
) {
	dydt[0] = -y[1] * p.InputSum(0, t)
	dydt[1] = y[0] * p.InputSum(1, t)
	dydt[2] = -y[2] * p.InputSum(2, t)
}
