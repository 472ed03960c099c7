package nfa

// Copy duplicates the sub-graph reachable from start and returns the entry
// and exit of the duplicate.
//
// The sub-graph must be closed: every edge reachable from start stays inside
// it, and exit is an unlinked epsilon state. Old IDs are mapped to new IDs
// through an explicit table, so the copy does not depend on the order in
// which the original states were allocated.
func (b *Builder) Copy(start, exit StateID) (newStart, newExit StateID, err error) {
	remap := make(map[StateID]StateID)
	order := make([]StateID, 0, 16)
	stack := []StateID{start}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id == NullState {
			continue
		}
		if _, seen := remap[id]; seen {
			continue
		}
		s, err := b.state(id)
		if err != nil {
			return NullState, NullState, err
		}
		orig := *s
		orig.id = NullState
		nid, err := b.add(orig)
		if err != nil {
			return NullState, NullState, err
		}
		b.states[nid].section = orig.section
		remap[id] = nid
		order = append(order, id)

		switch orig.kind {
		case StateEpsilon:
			stack = append(stack, orig.out2, orig.out1)
		case StateConsume:
			stack = append(stack, orig.next)
		}
	}

	for _, old := range order {
		ns := &b.states[remap[old]]
		switch ns.kind {
		case StateEpsilon:
			ns.out1 = remap[ns.out1]
			ns.out2 = remap[ns.out2]
		case StateConsume:
			ns.next = remap[ns.next]
		}
	}

	newExit, ok := remap[exit]
	if !ok {
		// The exit is unreachable (the fragment starts at a fail sentinel);
		// the copy still needs an exit of its own to link.
		if newExit, err = b.AddEpsilon(NullState, NullState); err != nil {
			return NullState, NullState, err
		}
	}
	return remap[start], newExit, nil
}
