// Package units provides the built-in unit models. Creating a unit of one
// of these kinds pulls the model in through the kind registry, so a blank
// import of this package is enough to make them available.
package units

import "github.com/dendra-sim/dendra/sim"

// Kind tags of the built-in unit models.
const (
	KindSource      = "source"
	KindLinear      = "linear"
	KindSigmoidal   = "sigmoidal"
	KindMPLinear    = "mp_linear"
	KindCustomFI    = "custom_fi"
	KindNoisyLinear = "noisy_linear"
)

func init() {
	sim.RegisterUnitModel(KindSource, newSource)
	sim.RegisterUnitModel(KindLinear, newLinear)
	sim.RegisterUnitModel(KindSigmoidal, newSigmoidal)
	sim.RegisterUnitModel(KindMPLinear, newMPLinear)
	sim.RegisterUnitModel(KindCustomFI, newCustomFI)
	sim.RegisterUnitModel(KindNoisyLinear, newNoisyLinear)
}
