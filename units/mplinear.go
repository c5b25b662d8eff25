package units

import "github.com/dendra-sim/dendra/sim"

// MPLinearConfig configures a multi-port linear unit. All ports contribute
// identically to the input sum; the separate ports exist so connections can
// be grouped, typically when the inputs come from a plant.
type MPLinearConfig struct {
	Tau float64

	// Taus, when set, overrides Tau per unit in a creation batch.
	Taus []float64
}

// ModelKind returns the multi-port linear kind tag.
func (MPLinearConfig) ModelKind() string { return KindMPLinear }

// ForUnit returns the scalar view for the i-th unit of a batch.
func (c MPLinearConfig) ForUnit(i int) sim.UnitModelConfig {
	if c.Taus != nil {
		c.Tau = c.Taus[i]
		c.Taus = nil
	}
	return c
}

type mpLinearModel struct {
	rtau float64
}

func newMPLinear(u *sim.Unit, cfg sim.UnitModelConfig) (sim.UnitModel, error) {
	c, ok := cfg.(MPLinearConfig)
	if !ok {
		return nil, sim.ConfigErrorf(
			"mp_linear unit: unexpected config %T", cfg)
	}
	if c.Tau <= 0 {
		return nil, sim.ConfigErrorf(
			"mp_linear unit: time constant must be positive, got %f", c.Tau)
	}

	return &mpLinearModel{rtau: 1 / c.Tau}, nil
}

func (m *mpLinearModel) Derivatives(
	u *sim.Unit,
	y []float64,
	t sim.VTimeInSec,
	dydt []float64,
) {
	sum := 0.0
	if u.NPorts() == 1 {
		sum = u.InputSum(t)
	} else {
		for p := 0; p < u.NPorts(); p++ {
			sum += u.PortInputSum(p, t)
		}
	}
	dydt[0] = (sum - y[0]) * m.rtau
}
