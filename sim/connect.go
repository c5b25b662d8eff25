package sim

// Connection rules accepted by ConnConfig.
const (
	RuleAllToAll       = "all_to_all"
	RuleOneToOne       = "one_to_one"
	RuleFixedOutdegree = "fixed_outdegree"
	RuleFixedIndegree  = "fixed_indegree"
)

// A ConnConfig selects which (source, target) pairs a Connect call wires and
// which transmission delay each pair gets.
type ConnConfig struct {
	// Rule is one of the Rule* constants.
	Rule string

	// Outdegree is the number of targets each source connects to under
	// fixed_outdegree. Indegree is the dual for fixed_indegree.
	Outdegree int
	Indegree  int

	// AllowAutapses permits connections from a unit to itself. Repeated
	// connections between the same ordered pair are always permitted.
	AllowAutapses bool

	// Delay assigns each pair's transmission delay. Delays are rounded to
	// multiples of the network's minimum delay and floored at one.
	Delay ParamSpec
}

// A SynConfig selects the synapse model of a Connect call and the initial
// weight of each created synapse.
type SynConfig struct {
	// Model selects and parameterizes the synapse model.
	Model SynapseModelConfig

	// InitW assigns each synapse's initial weight.
	InitW ParamSpec

	// Port is the target input port every connection arrives at. Ports,
	// when set, overrides it per source and must have one entry per
	// source ID.
	Port  int
	Ports []int
}

// connPair is one wiring decision before the synapse exists. srcIdx is the
// position of the source in the Connect call's source list, which selects
// the per-source input port when Ports is set; a unit listed twice resolves
// each occurrence separately.
type connPair struct {
	src, tgt, srcIdx int
}

// Connect wires the source units onto the target units following the
// connection rule, creating one synapse per pair, and re-resolves the
// requirement state of every endpoint. Wiring is only legal while the
// simulation time is zero, because extending a source's buffer discards its
// history.
func (net *Network) Connect(
	sources, targets []int,
	conn ConnConfig,
	syn SynConfig,
) error {
	if net.simTime != 0 {
		return ConfigErrorf(
			"connections created when the simulation time is not zero")
	}
	if len(sources) == 0 || len(targets) == 0 {
		return ConfigErrorf("empty source or target list")
	}
	if err := net.checkUnitIDs(sources); err != nil {
		return err
	}
	if err := net.checkUnitIDs(targets); err != nil {
		return err
	}
	if syn.Model == nil {
		return ConfigErrorf("a synapse model config is required")
	}
	if syn.Ports != nil && len(syn.Ports) != len(sources) {
		return ConfigErrorf("Ports has %d entries for %d sources",
			len(syn.Ports), len(sources))
	}

	factory, err := synapseFactory(syn.Model.ModelKind())
	if err != nil {
		return err
	}

	pairs, err := net.buildPairs(sources, targets, conn)
	if err != nil {
		return err
	}

	weights, err := syn.InitW.sample(net.rng, len(pairs))
	if err != nil {
		return err
	}
	delays, err := conn.Delay.sampleDelays(net.rng, len(pairs), net.minDelay)
	if err != nil {
		return err
	}

	affected := make(map[int]bool)
	for i, pair := range pairs {
		tgt := net.units[pair.tgt]
		port := syn.Port
		if syn.Ports != nil {
			port = syn.Ports[pair.srcIdx]
		}
		if port < 0 || port >= tgt.nPorts {
			return ConfigErrorf("unit %d has no input port %d (n_ports %d)",
				tgt.id, port, tgt.nPorts)
		}

		s := &Synapse{
			net:        net,
			preID:      pair.src,
			postID:     pair.tgt,
			port:       port,
			w:          weights[i],
			delay:      delays[i],
			delaySteps: int(float64(delays[i])/float64(net.minDelay) + 0.5),
			act:        net.units[pair.src].Act,
		}

		rule, err := factory(s, syn.Model)
		if err != nil {
			return err
		}
		s.rule = rule

		net.delays[pair.tgt] = append(net.delays[pair.tgt], s.delay)
		net.acts[pair.tgt] = append(net.acts[pair.tgt], s.act)
		net.syns[pair.tgt] = append(net.syns[pair.tgt], s)

		net.enlargeUnitBuffer(pair.src, s.delay)

		affected[pair.src] = true
		affected[pair.tgt] = true
	}

	return net.resolveRequirements(affected)
}

// buildPairs expands the connection rule into the ordered pair list.
func (net *Network) buildPairs(
	sources, targets []int,
	conn ConnConfig,
) ([]connPair, error) {
	var pairs []connPair

	switch conn.Rule {
	case RuleAllToAll:
		for si, src := range sources {
			for _, tgt := range targets {
				if src == tgt && !conn.AllowAutapses {
					continue
				}
				pairs = append(pairs, connPair{src, tgt, si})
			}
		}

	case RuleOneToOne:
		if len(sources) != len(targets) {
			return nil, ConfigErrorf(
				"one_to_one needs equal list lengths, got %d and %d",
				len(sources), len(targets))
		}
		for i, src := range sources {
			pairs = append(pairs, connPair{src, targets[i], i})
		}

	case RuleFixedOutdegree:
		for si, src := range sources {
			picked, err := net.pickDistinct(
				targets, src, conn.Outdegree, conn.AllowAutapses, "outdegree")
			if err != nil {
				return nil, err
			}
			for _, ti := range picked {
				pairs = append(pairs, connPair{src, targets[ti], si})
			}
		}

	case RuleFixedIndegree:
		for _, tgt := range targets {
			picked, err := net.pickDistinct(
				sources, tgt, conn.Indegree, conn.AllowAutapses, "indegree")
			if err != nil {
				return nil, err
			}
			for _, si := range picked {
				pairs = append(pairs, connPair{sources[si], tgt, si})
			}
		}

	default:
		return nil, ConfigErrorf("unknown connection rule %q", conn.Rule)
	}

	return pairs, nil
}

// pickDistinct samples k distinct positions in pool, excluding self when
// autapses are not allowed. The returned values index pool, not the unit
// IDs it holds.
func (net *Network) pickDistinct(
	pool []int,
	self, k int,
	allowAutapses bool,
	degreeName string,
) ([]int, error) {
	eligible := make([]int, 0, len(pool))
	for i, id := range pool {
		if id == self && !allowAutapses {
			continue
		}
		eligible = append(eligible, i)
	}

	if k < 0 || k > len(eligible) {
		return nil, ConfigErrorf(
			"%s %d exceeds the %d eligible entities for unit %d",
			degreeName, k, len(eligible), self)
	}

	picked := make([]int, k)
	for i, j := range net.rng.Perm(len(eligible))[:k] {
		picked[i] = eligible[j]
	}

	return picked, nil
}

// enlargeUnitBuffer extends a source unit's history to cover a new outgoing
// delay. The extra minimum delay keeps one full period of slack, so filtered
// history read through pre-synaptic requirements stays in range.
func (net *Network) enlargeUnitBuffer(id int, delay VTimeInSec) {
	u := net.units[id]
	if u.delay > delay {
		return
	}
	u.delay = delay + net.minDelay
	u.initBuffers()
}

func (net *Network) checkUnitIDs(ids []int) error {
	for _, id := range ids {
		if id < 0 || id >= len(net.units) {
			return ConfigErrorf("unit ID %d is out of range [0, %d)",
				id, len(net.units))
		}
	}
	return nil
}

// A PlantInputConfig wires scalar unit outputs into a plant's typed input
// ports through static gains.
type PlantInputConfig struct {
	// Ports maps each source unit to the plant input port it feeds, one
	// entry per unit ID.
	Ports []int

	// Weight and Delay assign each link's gain and transmission delay,
	// with the same handling as Connect.
	Weight ParamSpec
	Delay  ParamSpec
}

// SetPlantInputs wires a batch of units into a plant's input ports. Each
// link carries a fixed gain; the plant sums its ports' delayed, weighted
// inputs when its derivatives are evaluated.
func (net *Network) SetPlantInputs(
	unitIDs []int,
	plantID int,
	cfg PlantInputConfig,
) error {
	if net.simTime != 0 {
		return ConfigErrorf(
			"plant inputs created when the simulation time is not zero")
	}
	if err := net.checkUnitIDs(unitIDs); err != nil {
		return err
	}
	if plantID < 0 || plantID >= len(net.plants) {
		return ConfigErrorf("plant ID %d is out of range [0, %d)",
			plantID, len(net.plants))
	}
	if len(cfg.Ports) != len(unitIDs) {
		return ConfigErrorf("Ports has %d entries for %d units",
			len(cfg.Ports), len(unitIDs))
	}

	p := net.plants[plantID]

	weights, err := cfg.Weight.sample(net.rng, len(unitIDs))
	if err != nil {
		return err
	}
	delays, err := cfg.Delay.sampleDelays(net.rng, len(unitIDs), net.minDelay)
	if err != nil {
		return err
	}

	acts := make([]ActFunc, len(unitIDs))
	syns := make([]*Synapse, len(unitIDs))
	for i, id := range unitIDs {
		acts[i] = net.units[id].Act
		syns[i] = &Synapse{
			net:        net,
			preID:      id,
			postID:     plantID,
			port:       cfg.Ports[i],
			w:          weights[i],
			delay:      delays[i],
			delaySteps: int(float64(delays[i])/float64(net.minDelay) + 0.5),
			act:        acts[i],
		}
	}

	if err := p.appendInputs(acts, cfg.Ports, delays, syns); err != nil {
		return err
	}

	for i, id := range unitIDs {
		net.enlargeUnitBuffer(id, delays[i])
	}

	return nil
}

// A PlantOutputConfig wires a plant's state variables into unit input ports
// through ordinary synapses.
type PlantOutputConfig struct {
	// StateVars maps each target unit to the plant state variable it
	// reads, one entry per unit ID.
	StateVars []int

	// Ports optionally maps each target unit to the input port the
	// connection arrives at. Nil means port zero everywhere.
	Ports []int

	// Model selects and parameterizes the synapse model of every link.
	Model SynapseModelConfig

	// InitW and Delay assign each link's weight and transmission delay.
	InitW ParamSpec
	Delay ParamSpec
}

// SetPlantOutputs wires one plant state variable into each target unit.
// The created synapses enter the units' incoming tables like any other
// connection, so unit models see the plant through their ordinary input
// sums.
func (net *Network) SetPlantOutputs(
	plantID int,
	unitIDs []int,
	cfg PlantOutputConfig,
) error {
	if net.simTime != 0 {
		return ConfigErrorf(
			"plant outputs created when the simulation time is not zero")
	}
	if plantID < 0 || plantID >= len(net.plants) {
		return ConfigErrorf("plant ID %d is out of range [0, %d)",
			plantID, len(net.plants))
	}
	if err := net.checkUnitIDs(unitIDs); err != nil {
		return err
	}
	if len(cfg.StateVars) != len(unitIDs) {
		return ConfigErrorf("StateVars has %d entries for %d units",
			len(cfg.StateVars), len(unitIDs))
	}
	if cfg.Ports != nil && len(cfg.Ports) != len(unitIDs) {
		return ConfigErrorf("Ports has %d entries for %d units",
			len(cfg.Ports), len(unitIDs))
	}
	if cfg.Model == nil {
		return ConfigErrorf("a synapse model config is required")
	}

	factory, err := synapseFactory(cfg.Model.ModelKind())
	if err != nil {
		return err
	}

	p := net.plants[plantID]
	for _, sv := range cfg.StateVars {
		if sv < 0 || sv >= p.dim {
			return ConfigErrorf(
				"plant %d has no state variable %d (dimension %d)",
				plantID, sv, p.dim)
		}
	}

	weights, err := cfg.InitW.sample(net.rng, len(unitIDs))
	if err != nil {
		return err
	}
	delays, err := cfg.Delay.sampleDelays(net.rng, len(unitIDs), net.minDelay)
	if err != nil {
		return err
	}

	affected := make(map[int]bool)
	for i, id := range unitIDs {
		tgt := net.units[id]

		port := 0
		if cfg.Ports != nil {
			port = cfg.Ports[i]
		}
		if port < 0 || port >= tgt.nPorts {
			return ConfigErrorf("unit %d has no input port %d (n_ports %d)",
				tgt.id, port, tgt.nPorts)
		}

		sv := cfg.StateVars[i]
		act := func(t VTimeInSec) float64 {
			return p.StateVar(t, sv)
		}

		s := &Synapse{
			net:        net,
			preID:      plantID,
			postID:     id,
			port:       port,
			w:          weights[i],
			delay:      delays[i],
			delaySteps: int(float64(delays[i])/float64(net.minDelay) + 0.5),
			act:        act,
			plantOut:   sv,
			prePlant:   true,
		}

		rule, err := factory(s, cfg.Model)
		if err != nil {
			return err
		}
		s.rule = rule

		net.delays[id] = append(net.delays[id], s.delay)
		net.acts[id] = append(net.acts[id], act)
		net.syns[id] = append(net.syns[id], s)

		net.enlargePlantBuffer(plantID, s.delay)

		affected[id] = true
	}

	return net.resolveRequirements(affected)
}

// enlargePlantBuffer extends a plant's history to cover a new outgoing
// delay.
func (net *Network) enlargePlantBuffer(id int, delay VTimeInSec) {
	p := net.plants[id]
	if p.delay > delay {
		return
	}
	p.delay = delay + net.minDelay
	p.initBuffers()
}
