package sim

import (
	"math/rand"
	"sync"
)

// A NetworkConfig carries the global parameters of a network. MinDelay and
// MinBuffSize are required; everything else has a usable default.
type NetworkConfig struct {
	// MinDelay is the smallest schedulable time step. Every connection
	// delay is a multiple of it.
	MinDelay VTimeInSec

	// MinBuffSize is the number of samples each entity stores per
	// MinDelay period. It must be at least 2 so interpolation always has
	// two anchors.
	MinBuffSize int

	// Integrator advances the entities' differential equations. Required.
	Integrator Integrator

	// Seed initializes the pseudorandom source used for distribution
	// sampled weights and delays. Identical seeds give identical wiring.
	Seed int64
}

// A Network owns the entities, the connectivity tables, and the simulation
// clock. Build one with NewNetwork, add entities with Create, wire them
// with Connect, and advance them with Run.
type Network struct {
	HookableBase

	minDelay    VTimeInSec
	minBuffSize int
	simTime     VTimeInSec

	units  []*Unit
	plants []*Plant

	// Incoming-connection tables, indexed by target unit ID. The j-th
	// entries describe the j-th connection into that unit.
	delays [][]VTimeInSec
	acts   [][]ActFunc
	syns   [][]*Synapse

	integrator Integrator
	rng        *rand.Rand

	pauseLock sync.Mutex

	grid []VTimeInSec // sample-time offsets within one tick
}

// NewNetwork validates the configuration and creates an empty network at
// simulation time zero.
func NewNetwork(cfg NetworkConfig) (*Network, error) {
	if cfg.MinDelay <= 0 {
		return nil, ConfigErrorf("MinDelay must be positive, got %f",
			cfg.MinDelay)
	}
	if cfg.MinBuffSize < 2 {
		return nil, ConfigErrorf("MinBuffSize must be at least 2, got %d",
			cfg.MinBuffSize)
	}
	if cfg.Integrator == nil {
		return nil, ConfigErrorf("an integrator is required")
	}

	net := &Network{
		minDelay:    cfg.MinDelay,
		minBuffSize: cfg.MinBuffSize,
		integrator:  cfg.Integrator,
		rng:         rand.New(rand.NewSource(cfg.Seed)),
	}

	net.grid = make([]VTimeInSec, cfg.MinBuffSize+1)
	for i := range net.grid {
		net.grid[i] = cfg.MinDelay *
			VTimeInSec(i) / VTimeInSec(cfg.MinBuffSize)
	}

	return net, nil
}

// MinDelay returns the smallest schedulable time step.
func (net *Network) MinDelay() VTimeInSec {
	return net.minDelay
}

// MinBuffSize returns the samples stored per MinDelay period.
func (net *Network) MinBuffSize() int {
	return net.minBuffSize
}

// CurrentTime returns the simulation clock. It only moves forward.
func (net *Network) CurrentTime() VTimeInSec {
	return net.simTime
}

// NumUnits returns the number of units in the network.
func (net *Network) NumUnits() int {
	return len(net.units)
}

// NumPlants returns the number of plants in the network.
func (net *Network) NumPlants() int {
	return len(net.plants)
}

// Unit returns a unit by ID.
func (net *Network) Unit(id int) *Unit {
	return net.units[id]
}

// Plant returns a plant by ID.
func (net *Network) Plant(id int) *Plant {
	return net.plants[id]
}

// IncomingSynapses returns the synapses arriving at a unit, in connection
// order.
func (net *Network) IncomingSynapses(id int) []*Synapse {
	return net.syns[id]
}

// An EntityConfig configures one Create call. UnitConfig and PlantConfig
// are the two variants.
type EntityConfig interface {
	isEntityConfig()
}

// A UnitConfig describes a batch of units to create.
type UnitConfig struct {
	// Model selects and parameterizes the unit model.
	Model UnitModelConfig

	// InitVal is the initial activation. InitVals, when set, overrides it
	// per unit and must have one entry per created unit.
	InitVal  float64
	InitVals []float64

	// Delay is the initial maximum outgoing delay. Zero means two
	// MinDelay periods; Connect enlarges it as needed.
	Delay VTimeInSec

	// NPorts is the number of input ports. Zero means one.
	NPorts int

	// Time constants for the low-pass filter requirements. A filter
	// requirement activated on a unit without its constant is a
	// configuration error.
	TauFast, TauMid, TauSlow float64

	// Positions optionally places the units in space, one entry per
	// created unit.
	Positions []Position
}

func (UnitConfig) isEntityConfig() {}

// A PlantConfig describes one plant to create.
type PlantConfig struct {
	// Model selects and parameterizes the plant model.
	Model PlantModelConfig

	// Delay is the initial maximum outgoing delay. Zero means two
	// MinDelay periods.
	Delay VTimeInSec
}

func (PlantConfig) isEntityConfig() {}

// Create adds n entities configured by cfg and returns their IDs. Units and
// plants are numbered independently. Entities can only be created while the
// simulation time is zero.
func (net *Network) Create(n int, cfg EntityConfig) ([]int, error) {
	switch c := cfg.(type) {
	case UnitConfig:
		return net.CreateUnits(n, c)
	case PlantConfig:
		if n != 1 {
			return nil, ConfigErrorf(
				"only one plant can be created per call, got %d", n)
		}
		id, err := net.CreatePlant(c)
		if err != nil {
			return nil, err
		}
		return []int{id}, nil
	default:
		return nil, ConfigErrorf("unrecognized entity config %T", cfg)
	}
}

// CreateUnits adds n units of the configured model kind and returns their
// IDs.
func (net *Network) CreateUnits(n int, cfg UnitConfig) ([]int, error) {
	if net.simTime != 0 {
		return nil, ConfigErrorf(
			"units created when the simulation time is not zero")
	}
	if n <= 0 {
		return nil, ConfigErrorf("unit count must be positive, got %d", n)
	}
	if cfg.Model == nil {
		return nil, ConfigErrorf("a unit model config is required")
	}
	if cfg.InitVals != nil && len(cfg.InitVals) != n {
		return nil, ConfigErrorf(
			"InitVals has %d entries for %d units", len(cfg.InitVals), n)
	}
	if cfg.Positions != nil && len(cfg.Positions) != n {
		return nil, ConfigErrorf(
			"Positions has %d entries for %d units", len(cfg.Positions), n)
	}

	factory, err := unitFactory(cfg.Model.ModelKind())
	if err != nil {
		return nil, err
	}

	delay := cfg.Delay
	if delay == 0 {
		delay = 2 * net.minDelay
	} else if !net.isDelayMultiple(delay) {
		return nil, ConfigErrorf(
			"unit delay %f is not a multiple of the minimum delay %f",
			delay, net.minDelay)
	}

	nPorts := cfg.NPorts
	if nPorts == 0 {
		nPorts = 1
	}

	ids := make([]int, 0, n)
	for i := 0; i < n; i++ {
		u := &Unit{
			id:      len(net.units),
			kind:    cfg.Model.ModelKind(),
			net:     net,
			initVal: cfg.InitVal,
			delay:   delay,
			nPorts:  nPorts,
			tauFast: cfg.TauFast,
			tauMid:  cfg.TauMid,
			tauSlow: cfg.TauSlow,
			grid:    net.grid,
			y0:      make([]float64, 1),
		}
		if cfg.InitVals != nil {
			u.initVal = cfg.InitVals[i]
		}
		if cfg.Positions != nil {
			u.pos = cfg.Positions[i]
			u.hasPos = true
		}

		modelCfg := cfg.Model
		if per, ok := modelCfg.(PerUnitConfig); ok {
			modelCfg = per.ForUnit(i)
		}

		model, err := factory(u, modelCfg)
		if err != nil {
			return nil, err
		}
		u.model = model
		if model != nil {
			u.derivFn = func(y []float64, t VTimeInSec, dydt []float64) {
				model.Derivatives(u, y, t, dydt)
			}
		}

		u.initBuffers()

		net.units = append(net.units, u)
		net.delays = append(net.delays, nil)
		net.acts = append(net.acts, nil)
		net.syns = append(net.syns, nil)
		ids = append(ids, u.id)
	}

	return ids, nil
}

// CreatePlant adds one plant and returns its ID.
func (net *Network) CreatePlant(cfg PlantConfig) (int, error) {
	if net.simTime != 0 {
		return 0, ConfigErrorf(
			"a plant created when the simulation time is not zero")
	}
	if cfg.Model == nil {
		return 0, ConfigErrorf("a plant model config is required")
	}

	factory, err := plantFactory(cfg.Model.ModelKind())
	if err != nil {
		return 0, err
	}

	delay := cfg.Delay
	if delay == 0 {
		delay = 2 * net.minDelay
	} else if !net.isDelayMultiple(delay) {
		return 0, ConfigErrorf(
			"plant delay %f is not a multiple of the minimum delay %f",
			delay, net.minDelay)
	}

	p := &Plant{
		id:    len(net.plants),
		kind:  cfg.Model.ModelKind(),
		net:   net,
		delay: delay,
		grid:  net.grid,
	}

	model, err := factory(p, cfg.Model)
	if err != nil {
		return 0, err
	}

	p.model = model
	p.dim = model.Dim()
	p.inpDim = model.InpDim()
	p.inputs = make([][]plantInput, p.inpDim)
	p.derivFn = func(y []float64, t VTimeInSec, dydt []float64) {
		model.Derivatives(p, y, t, dydt)
	}

	if len(model.InitState()) != p.dim {
		return 0, ConfigErrorf(
			"plant model %q: initial state has %d entries for dimension %d",
			p.kind, len(model.InitState()), p.dim)
	}

	p.initBuffers()

	net.plants = append(net.plants, p)

	return p.id, nil
}

// isDelayMultiple tells whether d is a positive multiple of the minimum
// delay, within floating tolerance.
func (net *Network) isDelayMultiple(d VTimeInSec) bool {
	if d < net.minDelay {
		return false
	}
	steps := float64(d) / float64(net.minDelay)
	return absf(steps-roundf(steps)) < 1e-6
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func roundf(x float64) float64 {
	return float64(int(x + 0.5))
}
