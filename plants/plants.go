// Package plants provides the built-in plant models: multi-dimensional
// physical systems driven by unit activity through typed input ports.
// Creating a plant of one of these kinds pulls the model in through the
// kind registry, so a blank import of this package is enough to make them
// available.
package plants

import "github.com/dendra-sim/dendra/sim"

// Kind tags of the built-in plant models.
const (
	KindPendulum    = "pendulum"
	KindPointMass2D = "point_mass_2d"
	KindConnTester  = "conn_tester"
)

func init() {
	sim.RegisterPlantModel(KindPendulum, newPendulum)
	sim.RegisterPlantModel(KindPointMass2D, newPointMass2D)
	sim.RegisterPlantModel(KindConnTester, newConnTester)
}
