package synapses

import "github.com/dendra-sim/dendra/sim"

// HebbianConfig configures a plain Hebbian synapse: the weight grows with
// the product of the filtered pre- and postsynaptic activities. The rule is
// unstable on its own; it exists as the building block the normalized
// variants are compared against.
type HebbianConfig struct {
	LRate float64
}

// ModelKind returns the Hebbian kind tag.
func (HebbianConfig) ModelKind() string { return KindHebbian }

type hebbianRule struct {
	alpha float64
}

func newHebbian(s *sim.Synapse, cfg sim.SynapseModelConfig) (sim.SynapseRule, error) {
	c, ok := cfg.(HebbianConfig)
	if !ok {
		return nil, sim.ConfigErrorf(
			"hebbian synapse: unexpected config %T", cfg)
	}
	if s.PreUnit() == nil {
		return nil, sim.ConfigErrorf(
			"hebbian synapse: the source must be a unit")
	}
	return &hebbianRule{
		alpha: c.LRate * float64(s.PostUnit().Net().MinDelay()),
	}, nil
}

func (r *hebbianRule) Requirements() []sim.ReqTag {
	return []sim.ReqTag{sim.ReqLPFFast, sim.ReqPreLPFFast}
}

func (r *hebbianRule) Update(s *sim.Synapse, t sim.VTimeInSec) {
	post := s.PostUnit().LPFFast(0)
	pre := s.PreUnit().LPFFast(s.DelaySteps())

	s.SetWeight(s.Weight() + r.alpha*pre*post)
}
