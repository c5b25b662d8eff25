package sim

import "math"

// A ReqTag names an auxiliary derived quantity that a synapse rule can
// request from an entity. The set of tags is closed; each tag maps to a
// fixed slot in the entity's requirement state.
type ReqTag int

// The tag order is also the update order: a tag's prerequisites always come
// earlier in the enumeration.
const (
	ReqLPFFast ReqTag = iota
	ReqLPFMid
	ReqLPFSlow
	ReqSqLPFSlow
	ReqInpVector
	ReqLPFMidInpSum
	ReqBalance
	ReqInpAvg
	ReqPosInpAvg
	ReqErrDiff
	ReqDiffAvg

	numReqTags

	// Pre-synaptic demands. A synapse declaring one of these forces the
	// corresponding filter onto its source entity; they never become
	// active tags themselves.
	ReqPreLPFFast
	ReqPreLPFMid
	ReqPreLPFSlow
)

var reqNames = map[ReqTag]string{
	ReqLPFFast:      "lpf_fast",
	ReqLPFMid:       "lpf_mid",
	ReqLPFSlow:      "lpf_slow",
	ReqSqLPFSlow:    "sq_lpf_slow",
	ReqInpVector:    "inp_vector",
	ReqLPFMidInpSum: "lpf_mid_inp_sum",
	ReqBalance:      "balance",
	ReqInpAvg:       "inp_avg",
	ReqPosInpAvg:    "pos_inp_avg",
	ReqErrDiff:      "err_diff",
	ReqDiffAvg:      "diff_avg",
	ReqPreLPFFast:   "pre_lpf_fast",
	ReqPreLPFMid:    "pre_lpf_mid",
	ReqPreLPFSlow:   "pre_lpf_slow",
}

func (t ReqTag) String() string {
	if n, ok := reqNames[t]; ok {
		return n
	}
	return "unknown_requirement"
}

// preDemand maps a pre-synaptic demand to the filter tag it forces onto the
// source entity. The second return value is false for ordinary tags.
func preDemand(t ReqTag) (ReqTag, bool) {
	switch t {
	case ReqPreLPFFast:
		return ReqLPFFast, true
	case ReqPreLPFMid:
		return ReqLPFMid, true
	case ReqPreLPFSlow:
		return ReqLPFSlow, true
	}
	return 0, false
}

// Update stages. Local quantities only read the entity's own state and
// delayed raw inputs; cross quantities read other entities' filtered
// signals. The scheduler finishes the local stage on every entity before
// any cross update runs, so filtered reads are tick-consistent regardless
// of iteration order.
const (
	reqStageLocal = iota
	reqStageCross
)

// NormalizingRule marks synapse rules whose inputs feed the inp_avg and
// pos_inp_avg population averages.
type NormalizingRule interface {
	Normalizing()
}

// DiffNormalizingRule marks synapse rules whose inputs feed the diff_avg
// population average.
type DiffNormalizingRule interface {
	DiffNormalizing()
}

// An InputRole distinguishes the function of an input in rules that treat
// their inputs asymmetrically.
type InputRole int

// Roles used by input-correlation rules.
const (
	RoleError InputRole = iota
	RolePredictor
)

// RoleRule is implemented by synapse rules that assign a role to their
// input, such as input-correlation learning.
type RoleRule interface {
	InputRole() InputRole
}

// A requirement couples a tag with its prerequisites, its per-entity
// initializer, and its per-tick updater. The table is fixed; entity-level
// activation is the only mutable part of the system.
//
// rebuild, when set, reconstructs the structures derived from the synapse
// list. It runs on every resolution pass, including for tags that are
// already active, so later wiring calls are reflected without touching
// filter state.
type requirement struct {
	prereqs []ReqTag
	stage   int
	init    func(u *Unit) error
	rebuild func(u *Unit) error
	update  func(u *Unit, t VTimeInSec)
}

var reqTable = [numReqTags]requirement{
	ReqLPFFast: {
		init: func(u *Unit) error {
			if u.tauFast <= 0 {
				return ConfigErrorf(
					"unit %d: requirement lpf_fast needs TauFast, not set", u.id)
			}
			u.reqs.lpfFast = u.initVal
			u.reqs.lpfFastBuf = newRing(u.steps, u.initVal)
			return nil
		},
		update: func(u *Unit, t VTimeInSec) {
			cur := u.currentValue(t)
			u.reqs.lpfFast = lpfStep(u.reqs.lpfFast, cur, u.lastTime, t, u.tauFast)
			ringPush(u.reqs.lpfFastBuf, u.reqs.lpfFast)
		},
	},
	ReqLPFMid: {
		init: func(u *Unit) error {
			if u.tauMid <= 0 {
				return ConfigErrorf(
					"unit %d: requirement lpf_mid needs TauMid, not set", u.id)
			}
			u.reqs.lpfMid = u.initVal
			u.reqs.lpfMidBuf = newRing(u.steps, u.initVal)
			return nil
		},
		update: func(u *Unit, t VTimeInSec) {
			cur := u.currentValue(t)
			u.reqs.lpfMid = lpfStep(u.reqs.lpfMid, cur, u.lastTime, t, u.tauMid)
			ringPush(u.reqs.lpfMidBuf, u.reqs.lpfMid)
		},
	},
	ReqLPFSlow: {
		init: func(u *Unit) error {
			if u.tauSlow <= 0 {
				return ConfigErrorf(
					"unit %d: requirement lpf_slow needs TauSlow, not set", u.id)
			}
			u.reqs.lpfSlow = u.initVal
			u.reqs.lpfSlowBuf = newRing(u.steps, u.initVal)
			return nil
		},
		update: func(u *Unit, t VTimeInSec) {
			cur := u.currentValue(t)
			u.reqs.lpfSlow = lpfStep(u.reqs.lpfSlow, cur, u.lastTime, t, u.tauSlow)
			ringPush(u.reqs.lpfSlowBuf, u.reqs.lpfSlow)
		},
	},
	ReqSqLPFSlow: {
		init: func(u *Unit) error {
			if u.tauSlow <= 0 {
				return ConfigErrorf(
					"unit %d: requirement sq_lpf_slow needs TauSlow, not set", u.id)
			}
			u.reqs.sqLPFSlow = u.initVal
			return nil
		},
		update: func(u *Unit, t VTimeInSec) {
			cur := u.currentValue(t)
			u.reqs.sqLPFSlow = lpfStep(
				u.reqs.sqLPFSlow, cur*cur, u.lastTime, t, u.tauSlow)
		},
	},
	ReqInpVector: {
		init:    rebuildInpVector,
		rebuild: rebuildInpVector,
		update: func(u *Unit, t VTimeInSec) {
			acts := u.net.acts[u.id]
			delays := u.net.delays[u.id]
			for i, fn := range acts {
				u.reqs.inpVector[i] = fn(t - delays[i])
			}
		},
	},
	ReqLPFMidInpSum: {
		prereqs: []ReqTag{ReqInpVector},
		init: func(u *Unit) error {
			if u.tauMid <= 0 {
				return ConfigErrorf(
					"unit %d: requirement lpf_mid_inp_sum needs TauMid, not set",
					u.id)
			}
			u.reqs.lpfMidInpSum = u.initVal
			u.reqs.lpfMidInpSumBuf = newRing(u.steps, u.initVal)
			return nil
		},
		update: func(u *Unit, t VTimeInSec) {
			sum := 0.0
			for _, v := range u.reqs.inpVector {
				sum += v
			}
			u.reqs.lpfMidInpSum = lpfStep(
				u.reqs.lpfMidInpSum, sum, u.lastTime, t, u.tauMid)
			ringPush(u.reqs.lpfMidInpSumBuf, u.reqs.lpfMidInpSum)
		},
	},
	ReqBalance: {
		prereqs: []ReqTag{ReqInpVector},
		init: func(u *Unit) error {
			u.reqs.below = 0.5
			u.reqs.above = 0.5
			return nil
		},
		update: func(u *Unit, t VTimeInSec) {
			n := len(u.reqs.inpVector)
			if n == 0 {
				return
			}
			r := u.currentValue(t)
			above, below := 0.0, 0.0
			for _, v := range u.reqs.inpVector {
				above += 0.5 * (sign(v-r) + 1)
				below += 0.5 * (sign(r-v) + 1)
			}
			u.reqs.above = above / float64(n)
			u.reqs.below = below / float64(n)
		},
	},
	ReqInpAvg: {
		stage: reqStageCross,
		init: func(u *Unit) error {
			u.reqs.inpAvg = 0.2 // arbitrary starting average
			return rebuildSnorm(u)
		},
		rebuild: rebuildSnorm,
		update: func(u *Unit, t VTimeInSec) {
			if len(u.reqs.snorm) == 0 {
				return
			}
			sum := 0.0
			for _, c := range u.reqs.snorm {
				sum += c.pre.LPFFast(c.steps)
			}
			u.reqs.inpAvg = sum / float64(len(u.reqs.snorm))
		},
	},
	ReqPosInpAvg: {
		stage: reqStageCross,
		init: func(u *Unit) error {
			u.reqs.posInpAvg = 0.2
			return rebuildPosSnorm(u)
		},
		rebuild: rebuildPosSnorm,
		update: func(u *Unit, t VTimeInSec) {
			sum, n := 0.0, 0.0
			for _, c := range u.reqs.posSnorm {
				if c.syn.w > 0 {
					sum += c.pre.LPFFast(c.steps)
					n++
				}
			}
			if n > 0 {
				u.reqs.posInpAvg = sum / n
			}
		},
	},
	ReqErrDiff: {
		stage:   reqStageCross,
		init:    rebuildErrConns,
		rebuild: rebuildErrConns,
		update: func(u *Unit, t VTimeInSec) {
			diff := 0.0
			for _, c := range u.reqs.errConns {
				diff += c.pre.LPFFast(c.steps) - c.pre.LPFMid(c.steps)
			}
			u.reqs.errDiff = diff
		},
	},
	ReqDiffAvg: {
		stage: reqStageCross,
		init: func(u *Unit) error {
			u.reqs.diffAvg = 0.2
			return rebuildDsnorm(u)
		},
		rebuild: rebuildDsnorm,
		update: func(u *Unit, t VTimeInSec) {
			if len(u.reqs.dsnorm) == 0 {
				return
			}
			sum := 0.0
			for _, c := range u.reqs.dsnorm {
				sum += c.pre.LPFFast(c.steps) - c.pre.LPFMid(c.steps)
			}
			u.reqs.diffAvg = sum / float64(len(u.reqs.dsnorm))
		},
	},
}

// reqState is the per-entity slot table holding the state of every active
// requirement. Slots for inactive tags stay zero.
type reqState struct {
	active  [numReqTags]bool
	pending [numReqTags]bool // wanted in the current resolution pass

	lpfFast, lpfMid, lpfSlow            float64
	lpfFastBuf, lpfMidBuf, lpfSlowBuf   []float64
	sqLPFSlow                           float64
	inpVector                           []float64
	lpfMidInpSum                        float64
	lpfMidInpSumBuf                     []float64
	below, above                        float64
	inpAvg, posInpAvg, errDiff, diffAvg float64

	snorm, posSnorm, errConns, dsnorm []preConn
}

// A preConn is a precomputed handle on one incoming connection, kept by
// requirements that aggregate over a subset of inputs.
type preConn struct {
	pre   *Unit
	syn   *Synapse
	steps int
}

// resizeRingBuffers regrows the per-tick ring buffers of active filter
// requirements after the entity's delay changed.
func (r *reqState) resizeRingBuffers(u *Unit) {
	if r.active[ReqLPFFast] {
		r.lpfFastBuf = newRing(u.steps, u.initVal)
	}
	if r.active[ReqLPFMid] {
		r.lpfMidBuf = newRing(u.steps, u.initVal)
	}
	if r.active[ReqLPFSlow] {
		r.lpfSlowBuf = newRing(u.steps, u.initVal)
	}
	if r.active[ReqLPFMidInpSum] {
		r.lpfMidInpSumBuf = newRing(u.steps, u.initVal)
	}
}

// hasOrWillHave reports whether the tag is active or about to be activated
// in the resolution pass in progress.
func (u *Unit) hasOrWillHave(tag ReqTag) bool {
	return u.reqs.active[tag] || u.reqs.pending[tag]
}

func isNormalizing(r SynapseRule) bool {
	_, ok := r.(NormalizingRule)
	return ok
}

func isDiffNormalizing(r SynapseRule) bool {
	_, ok := r.(DiffNormalizingRule)
	return ok
}

func isErrorRole(r SynapseRule) bool {
	rr, ok := r.(RoleRule)
	return ok && rr.InputRole() == RoleError
}

// rebuildInpVector sizes the delayed-input snapshot to the current synapse
// list. Entries captured before the wiring change are preserved; slots for
// newly wired inputs start at the initial value until the next refresh.
func rebuildInpVector(u *Unit) error {
	vec := make([]float64, len(u.net.syns[u.id]))
	for i := range vec {
		vec[i] = u.initVal
	}
	copy(vec, u.reqs.inpVector)
	u.reqs.inpVector = vec
	return nil
}

func rebuildSnorm(u *Unit) error {
	conns, err := u.collectPreConns(ReqInpAvg, isNormalizing)
	if err != nil {
		return err
	}
	u.reqs.snorm = conns
	return nil
}

func rebuildPosSnorm(u *Unit) error {
	conns, err := u.collectPreConns(ReqPosInpAvg, isNormalizing)
	if err != nil {
		return err
	}
	u.reqs.posSnorm = conns
	return nil
}

func rebuildErrConns(u *Unit) error {
	conns, err := u.collectPreConns(ReqErrDiff, isErrorRole)
	if err != nil {
		return err
	}
	u.reqs.errConns = conns
	return nil
}

func rebuildDsnorm(u *Unit) error {
	conns, err := u.collectPreConns(ReqDiffAvg, isDiffNormalizing)
	if err != nil {
		return err
	}
	u.reqs.dsnorm = conns
	return nil
}

// collectPreConns gathers the incoming connections whose rule satisfies the
// predicate, verifying that each source entity computes the fast (and, for
// differential aggregates, mid) filters the aggregate reads.
func (u *Unit) collectPreConns(
	req ReqTag,
	match func(SynapseRule) bool,
) ([]preConn, error) {
	needMid := req == ReqErrDiff || req == ReqDiffAvg

	var conns []preConn
	for _, s := range u.net.syns[u.id] {
		if s.prePlant || !match(s.rule) {
			continue
		}

		pre := u.net.units[s.preID]
		if !pre.hasOrWillHave(ReqLPFFast) {
			return nil, &DependencyError{
				EntityID: u.id, Req: req, Missing: ReqLPFFast}
		}
		if needMid && !pre.hasOrWillHave(ReqLPFMid) {
			return nil, &DependencyError{
				EntityID: u.id, Req: req, Missing: ReqLPFMid}
		}

		conns = append(conns, preConn{pre: pre, syn: s, steps: s.delaySteps})
	}

	return conns, nil
}

// lpfStep advances a first-order low-pass filter from last to t. It is the
// exact solution of lpf' = (x - lpf)/tau assuming x constant over the
// interval, which is more accurate than an Euler step.
func lpfStep(lpf, cur float64, last, t VTimeInSec, tau float64) float64 {
	return cur + (lpf-cur)*math.Exp(float64(last-t)/tau)
}

func newRing(n int, v float64) []float64 {
	r := make([]float64, n)
	for i := range r {
		r[i] = v
	}
	return r
}

func ringPush(r []float64, v float64) {
	copy(r, r[1:])
	r[len(r)-1] = v
}

// ringRead returns the value steps entries before the latest. Requests past
// the stored depth are clamped to the oldest entry.
func ringRead(r []float64, steps int) float64 {
	if steps > len(r)-1 {
		steps = len(r) - 1
	}
	return r[len(r)-1-steps]
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
