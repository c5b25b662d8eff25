package units

import "github.com/dendra-sim/dendra/sim"

// LinearConfig configures a linear unit. The activity relaxes toward the
// delayed, weighted input sum with time constant Tau.
type LinearConfig struct {
	Tau float64

	// Taus, when set, overrides Tau per unit in a creation batch.
	Taus []float64
}

// ModelKind returns the linear kind tag.
func (LinearConfig) ModelKind() string { return KindLinear }

// ForUnit returns the scalar view for the i-th unit of a batch.
func (c LinearConfig) ForUnit(i int) sim.UnitModelConfig {
	if c.Taus != nil {
		c.Tau = c.Taus[i]
		c.Taus = nil
	}
	return c
}

type linearModel struct {
	rtau float64
}

func newLinear(u *sim.Unit, cfg sim.UnitModelConfig) (sim.UnitModel, error) {
	c, ok := cfg.(LinearConfig)
	if !ok {
		return nil, sim.ConfigErrorf("linear unit: unexpected config %T", cfg)
	}
	if c.Tau <= 0 {
		return nil, sim.ConfigErrorf(
			"linear unit: time constant must be positive, got %f", c.Tau)
	}

	return &linearModel{rtau: 1 / c.Tau}, nil
}

func (m *linearModel) Derivatives(
	u *sim.Unit,
	y []float64,
	t sim.VTimeInSec,
	dydt []float64,
) {
	dydt[0] = (u.InputSum(t) - y[0]) * m.rtau
}
