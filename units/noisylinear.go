package units

import (
	"math/rand"

	"github.com/dendra-sim/dendra/sim"
)

// NoisyLinearConfig configures a linear unit with an additive
// Ornstein-Uhlenbeck noise term. Every Derivatives call adds the current
// noise sample, so the realized trajectory depends on the integrator's step
// pattern; pair it with a fixed-step integrator for reproducible runs.
type NoisyLinearConfig struct {
	Tau float64

	// Sigma scales the noise. TauNoise is the correlation time of the
	// noise process; zero means Tau.
	Sigma    float64
	TauNoise float64

	// Seed initializes the model's private noise source. Units of one
	// batch offset the seed by their batch index, so they get
	// independent noise streams.
	Seed int64

	// Taus, when set, overrides Tau per unit in a creation batch.
	Taus []float64

	seedOffset int64
}

// ModelKind returns the noisy linear kind tag.
func (NoisyLinearConfig) ModelKind() string { return KindNoisyLinear }

// ForUnit returns the scalar view for the i-th unit of a batch.
func (c NoisyLinearConfig) ForUnit(i int) sim.UnitModelConfig {
	if c.Taus != nil {
		c.Tau = c.Taus[i]
		c.Taus = nil
	}
	c.seedOffset = int64(i)
	return c
}

type noisyLinearModel struct {
	rtau     float64
	sigma    float64
	rtauN    float64
	rng      *rand.Rand
	noise    float64
	lastTime sim.VTimeInSec
}

func newNoisyLinear(u *sim.Unit, cfg sim.UnitModelConfig) (sim.UnitModel, error) {
	c, ok := cfg.(NoisyLinearConfig)
	if !ok {
		return nil, sim.ConfigErrorf(
			"noisy_linear unit: unexpected config %T", cfg)
	}
	if c.Tau <= 0 {
		return nil, sim.ConfigErrorf(
			"noisy_linear unit: time constant must be positive, got %f", c.Tau)
	}
	tauN := c.TauNoise
	if tauN == 0 {
		tauN = c.Tau
	}

	return &noisyLinearModel{
		rtau:  1 / c.Tau,
		sigma: c.Sigma,
		rtauN: 1 / tauN,
		rng:   rand.New(rand.NewSource(c.Seed + c.seedOffset)),
	}, nil
}

func (m *noisyLinearModel) Derivatives(
	u *sim.Unit,
	y []float64,
	t sim.VTimeInSec,
	dydt []float64,
) {
	if t > m.lastTime {
		// One fresh noise sample per forward time step.
		dt := float64(t - m.lastTime)
		decay := 1 - m.rtauN*dt
		if decay < 0 {
			decay = 0
		}
		m.noise = decay*m.noise + m.sigma*m.rng.NormFloat64()
		m.lastTime = t
	}

	dydt[0] = (u.InputSum(t)-y[0])*m.rtau + m.noise
}
