package synapses

import "github.com/dendra-sim/dendra/sim"

// StaticConfig configures a static synapse: the weight set at wiring never
// changes.
type StaticConfig struct{}

// ModelKind returns the static kind tag.
func (StaticConfig) ModelKind() string { return KindStatic }

type staticRule struct{}

func newStatic(s *sim.Synapse, cfg sim.SynapseModelConfig) (sim.SynapseRule, error) {
	if _, ok := cfg.(StaticConfig); !ok {
		return nil, sim.ConfigErrorf("static synapse: unexpected config %T", cfg)
	}
	return staticRule{}, nil
}

func (staticRule) Requirements() []sim.ReqTag { return nil }

func (staticRule) Update(s *sim.Synapse, t sim.VTimeInSec) {}
