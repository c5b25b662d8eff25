package sim

// A Synapse is one weighted, delayed connection between a source and a
// target entity. The weight is the only part of a synapse that changes
// after wiring; the rule that mutates it is plugged in at creation.
type Synapse struct {
	net  *Network
	rule SynapseRule

	preID  int
	postID int
	port   int

	w          float64
	delay      VTimeInSec // immutable once created
	delaySteps int        // delay in units of minDelay
	act        ActFunc    // the source's read accessor

	// plantOut is the source output channel when the source is a plant.
	plantOut int
	prePlant bool
}

// Pre returns the source entity ID.
func (s *Synapse) Pre() int {
	return s.preID
}

// Post returns the target entity ID.
func (s *Synapse) Post() int {
	return s.postID
}

// Port returns the target input port the connection arrives at.
func (s *Synapse) Port() int {
	return s.port
}

// Weight returns the current synaptic weight.
func (s *Synapse) Weight() float64 {
	return s.w
}

// SetWeight overwrites the synaptic weight. It is meant to be called from
// the synapse's own rule.
func (s *Synapse) SetWeight(w float64) {
	s.w = w
}

// Delay returns the transmission delay of the connection.
func (s *Synapse) Delay() VTimeInSec {
	return s.delay
}

// DelaySteps returns the transmission delay in scheduling steps.
func (s *Synapse) DelaySteps() int {
	return s.delaySteps
}

// Rule returns the learning rule attached to the synapse.
func (s *Synapse) Rule() SynapseRule {
	return s.rule
}

// PreUnit returns the source unit. It is nil when the source is a plant.
func (s *Synapse) PreUnit() *Unit {
	if s.prePlant {
		return nil
	}
	return s.net.units[s.preID]
}

// PostUnit returns the target unit.
func (s *Synapse) PostUnit() *Unit {
	return s.net.units[s.postID]
}

// PreAct samples the source's activity delay seconds before t, through the
// same accessor the target's dynamics use.
func (s *Synapse) PreAct(t VTimeInSec) float64 {
	return s.act(t - s.delay)
}
