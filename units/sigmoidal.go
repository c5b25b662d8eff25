package units

import (
	"math"

	"github.com/dendra-sim/dendra/sim"
)

// SigmoidalConfig configures a sigmoidal unit. The activity relaxes toward a
// logistic function of the input sum, so it stays between zero and one.
type SigmoidalConfig struct {
	Tau    float64
	Slope  float64
	Thresh float64

	// Per-unit overrides for a creation batch.
	Taus     []float64
	Slopes   []float64
	Threshes []float64
}

// ModelKind returns the sigmoidal kind tag.
func (SigmoidalConfig) ModelKind() string { return KindSigmoidal }

// ForUnit returns the scalar view for the i-th unit of a batch.
func (c SigmoidalConfig) ForUnit(i int) sim.UnitModelConfig {
	if c.Taus != nil {
		c.Tau = c.Taus[i]
	}
	if c.Slopes != nil {
		c.Slope = c.Slopes[i]
	}
	if c.Threshes != nil {
		c.Thresh = c.Threshes[i]
	}
	c.Taus, c.Slopes, c.Threshes = nil, nil, nil
	return c
}

type sigmoidalModel struct {
	rtau   float64
	slope  float64
	thresh float64
}

func newSigmoidal(u *sim.Unit, cfg sim.UnitModelConfig) (sim.UnitModel, error) {
	c, ok := cfg.(SigmoidalConfig)
	if !ok {
		return nil, sim.ConfigErrorf(
			"sigmoidal unit: unexpected config %T", cfg)
	}
	if c.Tau <= 0 {
		return nil, sim.ConfigErrorf(
			"sigmoidal unit: time constant must be positive, got %f", c.Tau)
	}

	return &sigmoidalModel{
		rtau:   1 / c.Tau,
		slope:  c.Slope,
		thresh: c.Thresh,
	}, nil
}

func (m *sigmoidalModel) f(arg float64) float64 {
	return 1 / (1 + math.Exp(-m.slope*(arg-m.thresh)))
}

func (m *sigmoidalModel) Derivatives(
	u *sim.Unit,
	y []float64,
	t sim.VTimeInSec,
	dydt []float64,
) {
	dydt[0] = (m.f(u.InputSum(t)) - y[0]) * m.rtau
}
