package sim

import "fmt"

// A DerivFunc computes the state derivative at time t, writing it into dydt.
// It is the right-hand side of the differential equation being integrated.
type DerivFunc func(y []float64, t VTimeInSec, dydt []float64)

// An Integrator produces a state trajectory from a derivative function, an
// initial state, and the desired output times. The first entry of times
// carries the initial state. Both fixed-step and adaptive implementations
// are legal; the kernel never inspects how the trajectory was produced.
type Integrator interface {
	Integrate(f DerivFunc, y0 []float64, times []VTimeInSec) [][]float64
}

// A UnitModel supplies the differential equation of a unit. The kernel only
// calls it through the integrator.
type UnitModel interface {
	// Derivatives writes the state derivative at time t into dydt. The
	// model reads its delayed, weighted input sums through the unit.
	Derivatives(u *Unit, y []float64, t VTimeInSec, dydt []float64)
}

// A SynapseRule is the learning rule of a synapse. It declares the auxiliary
// quantities it needs and may mutate the synapse weight once per tick.
type SynapseRule interface {
	// Requirements lists the tags this rule needs from its target entity.
	// Pre-synaptic tags (ReqPreLPF*) are demands on the source entity.
	Requirements() []ReqTag

	// Update may mutate the synapse weight. It runs after every entity
	// has committed its state for the tick, so it only observes delayed,
	// already-finalized signals and freshly refreshed requirement state.
	Update(s *Synapse, t VTimeInSec)
}

// A PlantModel supplies the dynamics of a multi-dimensional physical model.
type PlantModel interface {
	// Derivatives writes the state derivative at time t into dydt. The
	// model reads its per-port delayed, weighted input sums through the
	// plant.
	Derivatives(p *Plant, y []float64, t VTimeInSec, dydt []float64)

	// Dim is the dimensionality of the state vector.
	Dim() int

	// InpDim is the number of qualitatively different input ports.
	InpDim() int

	// InitState is the state the plant starts from at time zero.
	InitState() []float64
}

// UnitModelConfig is the configuration of one unit model kind. Each model
// defines its own struct; the kind tag selects the registered factory.
type UnitModelConfig interface {
	ModelKind() string
}

// PerUnitConfig is implemented by unit model configs that carry per-unit
// parameter lists. ForUnit returns the scalar view for the i-th unit of a
// creation batch.
type PerUnitConfig interface {
	ForUnit(i int) UnitModelConfig
}

// SynapseModelConfig is the configuration of one synapse model kind.
type SynapseModelConfig interface {
	ModelKind() string
}

// PlantModelConfig is the configuration of one plant model kind.
type PlantModelConfig interface {
	ModelKind() string
}

// A UnitFactory builds the model of a freshly created unit.
type UnitFactory func(u *Unit, cfg UnitModelConfig) (UnitModel, error)

// A SynapseFactory builds the rule of a freshly created synapse.
type SynapseFactory func(s *Synapse, cfg SynapseModelConfig) (SynapseRule, error)

// A PlantFactory builds the model of a freshly created plant.
type PlantFactory func(p *Plant, cfg PlantModelConfig) (PlantModel, error)

var (
	unitFactories    = map[string]UnitFactory{}
	synapseFactories = map[string]SynapseFactory{}
	plantFactories   = map[string]PlantFactory{}
)

// RegisterUnitModel registers a unit model kind. It is usually called from
// the init function of a model package.
func RegisterUnitModel(kind string, f UnitFactory) {
	if _, ok := unitFactories[kind]; ok {
		panic(fmt.Sprintf("unit model %q is already registered", kind))
	}
	unitFactories[kind] = f
}

// RegisterSynapseModel registers a synapse model kind.
func RegisterSynapseModel(kind string, f SynapseFactory) {
	if _, ok := synapseFactories[kind]; ok {
		panic(fmt.Sprintf("synapse model %q is already registered", kind))
	}
	synapseFactories[kind] = f
}

// RegisterPlantModel registers a plant model kind.
func RegisterPlantModel(kind string, f PlantFactory) {
	if _, ok := plantFactories[kind]; ok {
		panic(fmt.Sprintf("plant model %q is already registered", kind))
	}
	plantFactories[kind] = f
}

func unitFactory(kind string) (UnitFactory, error) {
	f, ok := unitFactories[kind]
	if !ok {
		return nil, &ModelError{Category: "unit", Kind: kind}
	}
	return f, nil
}

func synapseFactory(kind string) (SynapseFactory, error) {
	f, ok := synapseFactories[kind]
	if !ok {
		return nil, &ModelError{Category: "synapse", Kind: kind}
	}
	return f, nil
}

func plantFactory(kind string) (PlantFactory, error) {
	f, ok := plantFactories[kind]
	if !ok {
		return nil, &ModelError{Category: "plant", Kind: kind}
	}
	return f, nil
}
