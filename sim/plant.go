package sim

import "log"

// A plantInput is one unit-to-plant connection: the source accessor, its
// transmission delay, and the static synapse scaling it.
type plantInput struct {
	act   ActFunc
	delay VTimeInSec
	syn   *Synapse
}

// A Plant is the vector-state analogue of a Unit: a physical model with
// typed input ports and multiple output channels, sharing the same
// buffering and delay contract.
type Plant struct {
	id    int
	kind  string
	net   *Network
	model PlantModel

	dim    int
	inpDim int

	delay  VTimeInSec // maximum delay among outgoing connections
	steps  int
	buffer *VectorDelayLine
	grid   []VTimeInSec

	inputs [][]plantInput // inputs[port] lists the connections into port

	derivFn DerivFunc
}

// ID returns the plant's integer identifier. Plants are numbered
// independently from units.
func (p *Plant) ID() int {
	return p.id
}

// Kind returns the model kind tag the plant was created with.
func (p *Plant) Kind() string {
	return p.kind
}

// Dim returns the dimensionality of the plant's state vector.
func (p *Plant) Dim() int {
	return p.dim
}

// InpDim returns the number of typed input ports.
func (p *Plant) InpDim() int {
	return p.inpDim
}

// State returns the full state vector at time t.
func (p *Plant) State(t VTimeInSec) []float64 {
	return p.buffer.Sample(t)
}

// StateVar returns one state variable at time t. Output channels of the
// plant are read through this accessor.
func (p *Plant) StateVar(t VTimeInSec, idx int) float64 {
	return p.buffer.SampleVar(t, idx)
}

// InputSum returns the delayed, weighted sum of the inputs arriving at one
// port at time t.
func (p *Plant) InputSum(port int, t VTimeInSec) float64 {
	sum := 0.0
	for _, in := range p.inputs[port] {
		sum += in.syn.w * in.act(t-in.delay)
	}
	return sum
}

// initBuffers (re)creates the state history from the current delay.
func (p *Plant) initBuffers() {
	if p.net.simTime != 0 {
		log.Panicf("plant %d: buffers reset when the simulation time is not zero",
			p.id)
	}

	minDelay := p.net.minDelay
	p.steps = int(float64(p.delay)/float64(minDelay) + 0.5)
	p.buffer = NewVectorDelayLine(
		p.delay, minDelay, p.net.minBuffSize, p.model.InitState())
}

// appendInputs wires a batch of unit outputs into the plant's ports. Every
// port is validated before any link is stored, so a failing call leaves the
// plant untouched.
func (p *Plant) appendInputs(
	acts []ActFunc,
	ports []int,
	delays []VTimeInSec,
	syns []*Synapse,
) error {
	for _, port := range ports {
		if port < 0 || port >= p.inpDim {
			return ConfigErrorf(
				"plant %d has no input port %d (inp_dim %d)",
				p.id, port, p.inpDim)
		}
	}

	for i, port := range ports {
		p.inputs[port] = append(p.inputs[port], plantInput{
			act:   acts[i],
			delay: delays[i],
			syn:   syns[i],
		})
	}

	return nil
}

// step advances the plant's state from t to t+minDelay, committing
// minBuffSize new state vectors.
func (p *Plant) step(t VTimeInSec) {
	end := p.buffer.EndTime()
	times := make([]VTimeInSec, len(p.grid))
	for i, g := range p.grid {
		times[i] = end + g
	}

	y0 := make([]float64, p.dim)
	copy(y0, p.buffer.Last())

	traj := p.net.integrator.Integrate(p.derivFn, y0, times)

	p.buffer.Advance(times[1:], traj[1:])
}
