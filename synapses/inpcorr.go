package synapses

import "github.com/dendra-sim/dendra/sim"

// InpCorrConfig configures an input-correlation synapse. Inputs are either
// error signals, which stay static and drive the target's error derivative,
// or predictors, whose weights track the correlation between their own
// activity and that derivative.
type InpCorrConfig struct {
	LRate float64

	// Role tells whether this input is an error or a predictor.
	Role sim.InputRole
}

// ModelKind returns the input-correlation kind tag.
func (InpCorrConfig) ModelKind() string { return KindInpCorr }

type inpCorrRule struct {
	alpha float64
	role  sim.InputRole
}

func newInpCorr(s *sim.Synapse, cfg sim.SynapseModelConfig) (sim.SynapseRule, error) {
	c, ok := cfg.(InpCorrConfig)
	if !ok {
		return nil, sim.ConfigErrorf(
			"inp_corr synapse: unexpected config %T", cfg)
	}
	if s.PreUnit() == nil {
		return nil, sim.ConfigErrorf(
			"inp_corr synapse: the source must be a unit")
	}
	return &inpCorrRule{
		alpha: c.LRate * float64(s.PostUnit().Net().MinDelay()),
		role:  c.Role,
	}, nil
}

// InputRole reports whether the input is an error or a predictor.
func (r *inpCorrRule) InputRole() sim.InputRole { return r.role }

func (r *inpCorrRule) Requirements() []sim.ReqTag {
	if r.role == sim.RoleError {
		// Error inputs feed the target's error derivative; their own
		// weight never changes.
		return []sim.ReqTag{sim.ReqErrDiff, sim.ReqPreLPFFast, sim.ReqPreLPFMid}
	}
	return []sim.ReqTag{sim.ReqErrDiff, sim.ReqPreLPFMid}
}

func (r *inpCorrRule) Update(s *sim.Synapse, t sim.VTimeInSec) {
	if r.role == sim.RoleError {
		return
	}

	pre := s.PreUnit().LPFMid(s.DelaySteps())
	s.SetWeight(s.Weight() + r.alpha*s.PostUnit().ErrDiff()*pre)
}
