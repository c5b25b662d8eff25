package sim

import "math"

// A TickSample is the hook item carried by HookPosBeforeTick and
// HookPosAfterTick: the activities and plant states of every entity at one
// sampling time. The slices are reused across ticks; hooks that retain them
// must copy.
type TickSample struct {
	Time        VTimeInSec
	UnitActs    []float64
	PlantStates [][]float64
}

// Run advances the simulation by totalTime, taking floor(totalTime/minDelay)
// ticks. It returns the sampling times and, per unit and per plant, the
// trajectory of sampled values, one entry per tick. Consecutive calls resume
// from the committed state, so Run(a) followed by Run(b) reproduces
// Run(a+b) for deterministic networks.
func (net *Network) Run(totalTime VTimeInSec) (
	times []VTimeInSec,
	unitActs [][]float64,
	plantStates [][][]float64,
	err error,
) {
	if totalTime < 0 {
		return nil, nil, nil,
			ConfigErrorf("run time cannot be negative, got %f", totalTime)
	}

	nSteps := int(math.Floor(float64(totalTime) / float64(net.minDelay)))

	times = make([]VTimeInSec, 0, nSteps)
	unitActs = make([][]float64, len(net.units))
	for i := range unitActs {
		unitActs[i] = make([]float64, 0, nSteps)
	}
	plantStates = make([][][]float64, len(net.plants))
	for i := range plantStates {
		plantStates[i] = make([][]float64, 0, nSteps)
	}

	sample := TickSample{
		UnitActs:    make([]float64, len(net.units)),
		PlantStates: make([][]float64, len(net.plants)),
	}

	for step := 0; step < nSteps; step++ {
		net.pauseLock.Lock()

		t := net.simTime

		// Every current value is sampled before any entity moves, so no
		// entity ever observes a same-tick value of another.
		times = append(times, t)
		sample.Time = t
		for i, u := range net.units {
			a := u.Act(t)
			sample.UnitActs[i] = a
			unitActs[i] = append(unitActs[i], a)
		}
		for i, p := range net.plants {
			state := p.State(t)
			sample.PlantStates[i] = state
			plantStates[i] = append(plantStates[i], state)
		}

		net.InvokeHook(HookCtx{
			Domain: net,
			Pos:    HookPosBeforeTick,
			Item:   &sample,
		})

		net.tick(t)

		sample.Time = net.simTime
		net.InvokeHook(HookCtx{
			Domain: net,
			Pos:    HookPosAfterTick,
			Item:   &sample,
		})

		net.pauseLock.Unlock()
	}

	return times, unitActs, plantStates, nil
}

// tick advances every entity across one minimum delay period. Each phase
// completes for all entities before the next begins: integration commits the
// tick's history, requirement refresh reads it (local filters before
// cross-entity aggregates), and synapse updates run last against fully
// refreshed state.
func (net *Network) tick(t VTimeInSec) {
	for _, u := range net.units {
		u.step(t)
	}

	for _, u := range net.units {
		u.refreshStage(reqStageLocal, t)
	}
	for _, u := range net.units {
		u.refreshStage(reqStageCross, t)
	}
	for _, u := range net.units {
		u.lastTime = t
	}

	for _, u := range net.units {
		for _, s := range net.syns[u.id] {
			s.rule.Update(s, t)
		}
	}

	for _, p := range net.plants {
		p.step(t)
	}

	net.simTime += net.minDelay
}

// Pause blocks a concurrently executing Run at the next tick boundary. It is
// safe to inspect the network between Pause and Continue.
func (net *Network) Pause() {
	net.pauseLock.Lock()
}

// Continue releases a paused network.
func (net *Network) Continue() {
	net.pauseLock.Unlock()
}
