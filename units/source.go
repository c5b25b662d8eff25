package units

import "github.com/dendra-sim/dendra/sim"

// SourceConfig configures a source unit: a pure signal generator whose
// activity is a function of time. Source units keep no activation history
// and are never integrated.
type SourceConfig struct {
	// Function produces the activity. Nil means constant zero until a
	// function is set through Unit.SetActivityFunc.
	Function sim.ActFunc
}

// ModelKind returns the source kind tag.
func (SourceConfig) ModelKind() string { return KindSource }

func newSource(u *sim.Unit, cfg sim.UnitModelConfig) (sim.UnitModel, error) {
	c, ok := cfg.(SourceConfig)
	if !ok {
		return nil, sim.ConfigErrorf("source unit: unexpected config %T", cfg)
	}

	f := c.Function
	if f == nil {
		f = func(t sim.VTimeInSec) float64 { return 0 }
	}
	u.SetActivityFunc(f)

	return nil, nil
}
