package synapses

import "github.com/dendra-sim/dendra/sim"

// BCMConfig configures a BCM rule synapse. The weight change is Hebbian
// above a sliding threshold and anti-Hebbian below it; the threshold is the
// slow average of the squared postsynaptic activity, which stabilizes the
// rule without explicit normalization.
type BCMConfig struct {
	LRate float64
}

// ModelKind returns the BCM kind tag.
func (BCMConfig) ModelKind() string { return KindBCM }

type bcmRule struct {
	alpha float64
}

func newBCM(s *sim.Synapse, cfg sim.SynapseModelConfig) (sim.SynapseRule, error) {
	c, ok := cfg.(BCMConfig)
	if !ok {
		return nil, sim.ConfigErrorf("bcm synapse: unexpected config %T", cfg)
	}
	if s.PreUnit() == nil {
		return nil, sim.ConfigErrorf(
			"bcm synapse: the source must be a unit")
	}
	return &bcmRule{
		alpha: c.LRate * float64(s.PostUnit().Net().MinDelay()),
	}, nil
}

func (r *bcmRule) Requirements() []sim.ReqTag {
	return []sim.ReqTag{sim.ReqLPFFast, sim.ReqSqLPFSlow, sim.ReqPreLPFFast}
}

func (r *bcmRule) Update(s *sim.Synapse, t sim.VTimeInSec) {
	post := s.PostUnit().LPFFast(0)
	pre := s.PreUnit().LPFFast(s.DelaySteps())
	theta := s.PostUnit().SqLPFSlow()
	if theta < 1e-6 {
		theta = 1e-6
	}

	s.SetWeight(s.Weight() + r.alpha*post*(post-theta)*pre/theta)
}
