package synapses

import "github.com/dendra-sim/dendra/sim"

// OjaConfig configures an Oja rule synapse: Hebbian growth with a decay
// proportional to the squared postsynaptic activity, which keeps the
// incoming weight vector bounded.
type OjaConfig struct {
	// LRate is the learning rate. The effective per-tick step is
	// LRate times the network's minimum delay.
	LRate float64
}

// ModelKind returns the Oja kind tag.
func (OjaConfig) ModelKind() string { return KindOja }

type ojaRule struct {
	alpha float64
}

func newOja(s *sim.Synapse, cfg sim.SynapseModelConfig) (sim.SynapseRule, error) {
	c, ok := cfg.(OjaConfig)
	if !ok {
		return nil, sim.ConfigErrorf("oja synapse: unexpected config %T", cfg)
	}
	if s.PreUnit() == nil {
		return nil, sim.ConfigErrorf(
			"oja synapse: the source must be a unit")
	}
	return &ojaRule{alpha: c.LRate * float64(s.PostUnit().Net().MinDelay())}, nil
}

func (r *ojaRule) Requirements() []sim.ReqTag {
	return []sim.ReqTag{sim.ReqLPFFast, sim.ReqPreLPFFast}
}

func (r *ojaRule) Update(s *sim.Synapse, t sim.VTimeInSec) {
	post := s.PostUnit().LPFFast(0)
	pre := s.PreUnit().LPFFast(s.DelaySteps())

	s.SetWeight(s.Weight() + r.alpha*post*(pre-post*s.Weight()))
}
