package datarecording

import "github.com/dendra-sim/dendra/sim"

// UnitActivity is one recorded unit sample.
type UnitActivity struct {
	Time     float64
	UnitID   int
	Activity float64
}

// PlantState is one recorded plant state variable sample.
type PlantState struct {
	Time    float64
	PlantID int
	Var     int
	Value   float64
}

// TrajectoryRecorder hooks into a network and records every tick's sampled
// unit activities and plant states.
type TrajectoryRecorder struct {
	recorder DataRecorder

	unitTable  string
	plantTable string
}

// NewTrajectoryRecorder creates the recorder's tables and returns a hook
// ready to attach to a network.
func NewTrajectoryRecorder(recorder DataRecorder) *TrajectoryRecorder {
	t := &TrajectoryRecorder{
		recorder:   recorder,
		unitTable:  "unit_activity",
		plantTable: "plant_state",
	}

	recorder.CreateTable(t.unitTable, UnitActivity{})
	recorder.CreateTable(t.plantTable, PlantState{})

	return t
}

// AttachTo registers the recorder on a network.
func (t *TrajectoryRecorder) AttachTo(net *sim.Network) {
	net.AcceptHook(t)
}

// Func records one tick's sample.
func (t *TrajectoryRecorder) Func(ctx sim.HookCtx) {
	if ctx.Pos != sim.HookPosBeforeTick {
		return
	}

	sample := ctx.Item.(*sim.TickSample)

	for id, act := range sample.UnitActs {
		t.recorder.InsertData(t.unitTable, UnitActivity{
			Time:     float64(sample.Time),
			UnitID:   id,
			Activity: act,
		})
	}

	for id, state := range sample.PlantStates {
		for v, val := range state {
			t.recorder.InsertData(t.plantTable, PlantState{
				Time:    float64(sample.Time),
				PlantID: id,
				Var:     v,
				Value:   val,
			})
		}
	}
}
