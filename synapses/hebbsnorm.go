package synapses

import "github.com/dendra-sim/dendra/sim"

// HebbSNormConfig configures a Hebbian synapse with subtractive
// normalization: the input average of all normalizing synapses on the
// target is subtracted from the presynaptic term, so the summed weight
// stays roughly constant while individual weights compete.
type HebbSNormConfig struct {
	LRate float64
}

// ModelKind returns the subtractively normalized Hebbian kind tag.
func (HebbSNormConfig) ModelKind() string { return KindHebbSNorm }

type hebbSNormRule struct {
	alpha float64
}

func newHebbSNorm(s *sim.Synapse, cfg sim.SynapseModelConfig) (sim.SynapseRule, error) {
	c, ok := cfg.(HebbSNormConfig)
	if !ok {
		return nil, sim.ConfigErrorf(
			"hebbsnorm synapse: unexpected config %T", cfg)
	}
	if s.PreUnit() == nil {
		return nil, sim.ConfigErrorf(
			"hebbsnorm synapse: the source must be a unit")
	}
	return &hebbSNormRule{
		alpha: c.LRate * float64(s.PostUnit().Net().MinDelay()),
	}, nil
}

// Normalizing marks the rule's inputs as members of the target's input
// average.
func (r *hebbSNormRule) Normalizing() {}

func (r *hebbSNormRule) Requirements() []sim.ReqTag {
	return []sim.ReqTag{sim.ReqLPFFast, sim.ReqInpAvg, sim.ReqPreLPFFast}
}

func (r *hebbSNormRule) Update(s *sim.Synapse, t sim.VTimeInSec) {
	post := s.PostUnit().LPFFast(0)
	pre := s.PreUnit().LPFFast(s.DelaySteps())
	avg := s.PostUnit().InpAvg()

	w := s.Weight() + r.alpha*post*(pre-avg)
	if w < 0 {
		w = 0 // subtractive normalization can undershoot
	}
	s.SetWeight(w)
}
