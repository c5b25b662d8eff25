package sim

// wantedTags computes the full requirement set the unit must carry given
// the current wiring: the union of the tags declared by its incoming
// synapses, plus the filters that synapses elsewhere in the network demand
// from this unit as their source.
func (u *Unit) wantedTags() [numReqTags]bool {
	var wanted [numReqTags]bool

	for _, s := range u.net.syns[u.id] {
		for _, tag := range s.rule.Requirements() {
			if _, pre := preDemand(tag); pre {
				continue // a demand on the source, handled below
			}
			wanted[tag] = true
		}
	}

	for _, synList := range u.net.syns {
		for _, s := range synList {
			if s.prePlant || s.preID != u.id {
				continue
			}
			for _, tag := range s.rule.Requirements() {
				if filter, pre := preDemand(tag); pre {
					wanted[filter] = true
				}
			}
		}
	}

	return wanted
}

// resolveRequirements recomputes the active requirement set of every given
// entity after a wiring change. Resolution is idempotent on filter state:
// tags that are already active keep their scalars and ring buffers, while
// the structures derived from the synapse list are rebuilt so later wiring
// calls are always reflected. Prerequisite violations surface here, at
// wiring time, never during a simulation step.
func (net *Network) resolveRequirements(affected map[int]bool) error {
	// Mark everything first, so cross-entity prerequisite checks can see
	// tags that will be activated later in this same pass.
	for id := range affected {
		u := net.units[id]
		wanted := u.wantedTags()
		for tag := ReqTag(0); tag < numReqTags; tag++ {
			if wanted[tag] && !u.reqs.active[tag] {
				u.reqs.pending[tag] = true
			}
		}
	}

	if err := net.checkPrerequisites(affected); err != nil {
		net.clearPending(affected)
		return err
	}

	for id := range affected {
		u := net.units[id]

		if err := u.activatePending(); err != nil {
			net.clearPending(affected)
			return err
		}

		if u.nPorts > 1 {
			u.rebuildPortIdx()
		}
	}

	net.clearPending(affected)

	return nil
}

func (net *Network) checkPrerequisites(affected map[int]bool) error {
	for id := range affected {
		u := net.units[id]
		for tag := ReqTag(0); tag < numReqTags; tag++ {
			if !u.hasOrWillHave(tag) {
				continue
			}
			for _, p := range reqTable[tag].prereqs {
				if !u.hasOrWillHave(p) {
					return &DependencyError{
						EntityID: u.id, Req: tag, Missing: p}
				}
			}
		}
	}

	return nil
}

// activatePending initializes the pending tags in table order, rebuilds the
// wiring-derived structures of tags that were already active, and rebuilds
// the refresh list.
func (u *Unit) activatePending() error {
	for tag := ReqTag(0); tag < numReqTags; tag++ {
		switch {
		case u.reqs.pending[tag] && !u.reqs.active[tag]:
			if err := reqTable[tag].init(u); err != nil {
				return err
			}
			u.reqs.active[tag] = true

		case u.reqs.active[tag] && reqTable[tag].rebuild != nil:
			if err := reqTable[tag].rebuild(u); err != nil {
				return err
			}
		}
	}

	u.refresh = u.refresh[:0]
	for tag := ReqTag(0); tag < numReqTags; tag++ {
		if u.reqs.active[tag] {
			u.refresh = append(u.refresh, tag)
		}
	}

	return nil
}

func (net *Network) clearPending(affected map[int]bool) {
	for id := range affected {
		net.units[id].reqs.pending = [numReqTags]bool{}
	}
}

// rebuildPortIdx groups the incoming connection indices by input port for
// units with more than one port.
func (u *Unit) rebuildPortIdx() {
	u.portIdx = make([][]int, u.nPorts)
	for i, s := range u.net.syns[u.id] {
		u.portIdx[s.port] = append(u.portIdx[s.port], i)
	}
}
