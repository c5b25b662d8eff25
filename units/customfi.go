package units

import "github.com/dendra-sim/dendra/sim"

// CustomFIConfig configures a unit whose gain curve is supplied by the
// caller. The activity relaxes toward F(input sum) with time constant Tau.
type CustomFIConfig struct {
	Tau float64
	F   func(float64) float64

	// Taus, when set, overrides Tau per unit in a creation batch.
	Taus []float64
}

// ModelKind returns the custom gain curve kind tag.
func (CustomFIConfig) ModelKind() string { return KindCustomFI }

// ForUnit returns the scalar view for the i-th unit of a batch.
func (c CustomFIConfig) ForUnit(i int) sim.UnitModelConfig {
	if c.Taus != nil {
		c.Tau = c.Taus[i]
		c.Taus = nil
	}
	return c
}

type customFIModel struct {
	rtau float64
	f    func(float64) float64
}

func newCustomFI(u *sim.Unit, cfg sim.UnitModelConfig) (sim.UnitModel, error) {
	c, ok := cfg.(CustomFIConfig)
	if !ok {
		return nil, sim.ConfigErrorf(
			"custom_fi unit: unexpected config %T", cfg)
	}
	if c.Tau <= 0 {
		return nil, sim.ConfigErrorf(
			"custom_fi unit: time constant must be positive, got %f", c.Tau)
	}
	if c.F == nil {
		return nil, sim.ConfigErrorf("custom_fi unit: a gain curve is required")
	}

	return &customFIModel{rtau: 1 / c.Tau, f: c.F}, nil
}

func (m *customFIModel) Derivatives(
	u *sim.Unit,
	y []float64,
	t sim.VTimeInSec,
	dydt []float64,
) {
	dydt[0] = (m.f(u.InputSum(t)) - y[0]) * m.rtau
}
