// Package synapses provides the built-in learning rules. Creating a synapse
// of one of these kinds pulls the rule in through the kind registry, so a
// blank import of this package is enough to make them available.
package synapses

import "github.com/dendra-sim/dendra/sim"

// Kind tags of the built-in synapse models.
const (
	KindStatic    = "static"
	KindOja       = "oja"
	KindHebbian   = "hebbian"
	KindHebbSNorm = "hebbsnorm"
	KindInpCorr   = "inp_corr"
	KindBCM       = "bcm"
)

func init() {
	sim.RegisterSynapseModel(KindStatic, newStatic)
	sim.RegisterSynapseModel(KindOja, newOja)
	sim.RegisterSynapseModel(KindHebbian, newHebbian)
	sim.RegisterSynapseModel(KindHebbSNorm, newHebbSNorm)
	sim.RegisterSynapseModel(KindInpCorr, newInpCorr)
	sim.RegisterSynapseModel(KindBCM, newBCM)
}
