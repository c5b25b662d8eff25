package sim

import "log"

// An ActFunc reads the activity of a source entity at a past time.
type ActFunc func(t VTimeInSec) float64

// A Position is the optional spatial location of a unit.
type Position struct {
	X, Y float64
}

// A Unit is a scalar continuous-time dynamical entity. Its equation of
// motion comes from the plugged-in UnitModel; the unit itself owns the
// activation history, the requirement state, and the per-tick bookkeeping.
type Unit struct {
	id    int
	kind  string
	net   *Network
	model UnitModel

	// actFn, when set, produces the activity directly as a function of
	// time. Units with actFn (source units) keep no activation history.
	actFn ActFunc

	initVal  float64
	delay    VTimeInSec // maximum delay among outgoing connections
	steps    int        // delay in units of minDelay
	buffer   *DelayLine
	grid     []VTimeInSec // offsets of the new sample times within one tick
	lastTime VTimeInSec

	nPorts  int
	portIdx [][]int // portIdx[p] indexes incoming tables for port p

	pos    Position
	hasPos bool

	tauFast, tauMid, tauSlow float64

	reqs    reqState
	refresh []ReqTag // active requirement tags, in update order

	derivFn DerivFunc
	y0      []float64
}

// ID returns the unit's network-wide integer identifier.
func (u *Unit) ID() int {
	return u.id
}

// Kind returns the model kind tag the unit was created with.
func (u *Unit) Kind() string {
	return u.kind
}

// Net returns the network that owns the unit.
func (u *Unit) Net() *Network {
	return u.net
}

// Delay returns the maximum delay among the unit's outgoing connections.
func (u *Unit) Delay() VTimeInSec {
	return u.delay
}

// Position returns the unit's spatial coordinates, if any were assigned.
func (u *Unit) Position() (Position, bool) {
	return u.pos, u.hasPos
}

// InitVal returns the initial activation value.
func (u *Unit) InitVal() float64 {
	return u.initVal
}

// NPorts returns the number of input ports of the unit.
func (u *Unit) NPorts() int {
	return u.nPorts
}

// SetActivityFunc turns the unit into a pure signal source: its activity at
// time t is f(t) and its differential equation is never integrated. Source
// units are created with a null function and configured through this method.
func (u *Unit) SetActivityFunc(f ActFunc) {
	u.actFn = f
}

// Act returns the unit's activity at time t. For buffered units this samples
// the delay line; connections hold this accessor to read delayed values.
func (u *Unit) Act(t VTimeInSec) float64 {
	if u.actFn != nil {
		return u.actFn(t)
	}
	return u.buffer.Sample(t)
}

// currentValue is the most recent committed activity, used by the
// requirement updaters.
func (u *Unit) currentValue(t VTimeInSec) float64 {
	if u.actFn != nil {
		return u.actFn(t)
	}
	return u.buffer.Last()
}

// initBuffers (re)creates the activation history and the per-requirement
// ring buffers from the current delay. Enlarging a buffer discards history,
// which is only legal before the first simulation step.
func (u *Unit) initBuffers() {
	if u.net.simTime != 0 {
		log.Panicf("unit %d: buffers reset when the simulation time is not zero",
			u.id)
	}

	minDelay := u.net.minDelay
	u.steps = int(float64(u.delay)/float64(minDelay) + 0.5)

	u.reqs.resizeRingBuffers(u)

	if u.actFn != nil {
		return // source units keep no activation history
	}

	u.buffer = NewDelayLine(u.delay, minDelay, u.net.minBuffSize, u.initVal)
}

// Inputs returns the delayed, unweighted input values at time t, in incoming
// connection order.
func (u *Unit) Inputs(t VTimeInSec) []float64 {
	acts := u.net.acts[u.id]
	delays := u.net.delays[u.id]

	out := make([]float64, len(acts))
	for i, fn := range acts {
		out[i] = fn(t - delays[i])
	}

	return out
}

// InputSum returns the sum of all inputs at time t, each scaled by its
// synaptic weight. The sum accounts for transmission delays; ports are
// ignored.
func (u *Unit) InputSum(t VTimeInSec) float64 {
	acts := u.net.acts[u.id]
	delays := u.net.delays[u.id]
	syns := u.net.syns[u.id]

	sum := 0.0
	for i, fn := range acts {
		sum += syns[i].w * fn(t-delays[i])
	}

	return sum
}

// PortInputSum returns the weighted input sum restricted to one input port.
// It requires the port index tables, which exist for units created with
// NPorts > 1.
func (u *Unit) PortInputSum(port int, t VTimeInSec) float64 {
	acts := u.net.acts[u.id]
	delays := u.net.delays[u.id]
	syns := u.net.syns[u.id]

	sum := 0.0
	for _, i := range u.portIdx[port] {
		sum += syns[i].w * acts[i](t-delays[i])
	}

	return sum
}

// step advances the unit's own dynamics from t to t+minDelay, committing
// minBuffSize new samples into the delay line. Requirement refresh and
// synapse updates are driven separately by the scheduler, after every entity
// has committed its state for the tick.
func (u *Unit) step(t VTimeInSec) {
	if u.actFn != nil {
		return
	}

	end := u.buffer.EndTime()
	times := make([]VTimeInSec, len(u.grid))
	for i, g := range u.grid {
		times[i] = end + g
	}

	u.y0[0] = u.buffer.Last()
	traj := u.net.integrator.Integrate(u.derivFn, u.y0, times)

	vals := make([]float64, len(times)-1)
	for i := range vals {
		vals[i] = traj[i+1][0]
	}

	u.buffer.Advance(times[1:], vals)
}

// Refresh runs every active requirement updater once, local quantities
// before cross-entity ones, and records the update time. The scheduler runs
// the two stages across all entities instead, so cross-entity reads always
// observe same-tick filtered values; this method is the single-entity view
// of the same operation.
func (u *Unit) Refresh(t VTimeInSec) {
	u.refreshStage(reqStageLocal, t)
	u.refreshStage(reqStageCross, t)
	u.lastTime = t
}

func (u *Unit) refreshStage(stage int, t VTimeInSec) {
	for _, tag := range u.refresh {
		if reqTable[tag].stage == stage {
			reqTable[tag].update(u, t)
		}
	}
}

// ActiveRequirements returns the tags currently computed for this unit, in
// update order.
func (u *Unit) ActiveRequirements() []ReqTag {
	out := make([]ReqTag, len(u.refresh))
	copy(out, u.refresh)
	return out
}

// HasRequirement tells whether a tag is active on this unit.
func (u *Unit) HasRequirement(tag ReqTag) bool {
	return u.reqs.active[tag]
}

// LPFFast returns the fast low-pass filtered activity as it was steps ticks
// before the latest committed one.
func (u *Unit) LPFFast(steps int) float64 {
	return ringRead(u.reqs.lpfFastBuf, steps)
}

// LPFMid returns the mid-speed low-pass filtered activity steps ticks back.
func (u *Unit) LPFMid(steps int) float64 {
	return ringRead(u.reqs.lpfMidBuf, steps)
}

// LPFSlow returns the slow low-pass filtered activity steps ticks back.
func (u *Unit) LPFSlow(steps int) float64 {
	return ringRead(u.reqs.lpfSlowBuf, steps)
}

// SqLPFSlow returns the slow low-pass filter of the squared activity.
func (u *Unit) SqLPFSlow() float64 {
	return u.reqs.sqLPFSlow
}

// InpVector returns the delayed input values captured at the last refresh.
func (u *Unit) InpVector() []float64 {
	return u.reqs.inpVector
}

// LPFMidInpSum returns the mid-speed low-pass filtered input sum.
func (u *Unit) LPFMidInpSum() float64 {
	return u.reqs.lpfMidInpSum
}

// Balance returns the fractions of inputs currently below and above the
// unit's own activity.
func (u *Unit) Balance() (below, above float64) {
	return u.reqs.below, u.reqs.above
}

// InpAvg returns the average of the fast-filtered inputs arriving through
// normalizing synapses.
func (u *Unit) InpAvg() float64 {
	return u.reqs.inpAvg
}

// PosInpAvg returns the same average restricted to positive-weight synapses.
func (u *Unit) PosInpAvg() float64 {
	return u.reqs.posInpAvg
}

// ErrDiff returns the approximate derivative of the error inputs.
func (u *Unit) ErrDiff() float64 {
	return u.reqs.errDiff
}

// DiffAvg returns the average approximate derivative of the inputs arriving
// through differential normalizing synapses.
func (u *Unit) DiffAvg() float64 {
	return u.reqs.diffAvg
}
