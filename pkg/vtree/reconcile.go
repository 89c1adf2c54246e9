package vtree

// reconcileChildren transforms the old children sequence of an element
// into the new one with the minimum number of moves.
//
// Strategy:
//  1. Total clear fast path: new empty + old non-empty is one
//     ClearChildren, O(1) regardless of old child count.
//  2. Common prefix/suffix skip: same-identity pairs at the edges only
//     recurse, bounding the keyed work to the changed window.
//  3. Identity index over the old window; new-window children match by
//     id, never by position. Unmatched old children are removals,
//     unmatched new children are insertions.
//  4. LIS over the matched old indices: children in the subsequence
//     stay put, every other matched child moves exactly once.
//  5. Every matched pair recurses regardless of movement.
//
// Emission order resolves sink-side dependencies: removals first, then
// placement right-to-left so each insert/move references an anchor that
// already exists in its final position when the patch applies.
func (d *Differ) reconcileChildren(old, next *Node, out *[]Patch) {
	oldKids, newKids := old.Children, next.Children

	if len(newKids) == 0 {
		if len(oldKids) > 0 {
			*out = append(*out, NewClearChildrenPatch(old.ID))
		}
		return
	}

	// Unchanged-key memos adopt their previously forced subtree before
	// any identity read below, so reordering a memoized list never
	// invokes Render for a key the previous render already evaluated.
	for _, nk := range newKids {
		if nk.Kind != KindMemo || nk.forced() {
			continue
		}
		for _, oldKid := range oldKids {
			if oldKid.Kind == KindMemo && memoKeyEqual(oldKid.MemoKey, nk.MemoKey) {
				nk.adopt(oldKid.Force())
				break
			}
		}
	}

	// Common prefix.
	start := 0
	for start < len(oldKids) && start < len(newKids) && sameSlot(oldKids[start], newKids[start]) {
		d.diffNode(oldKids[start], newKids[start], out)
		start++
	}

	// Common suffix.
	oldEnd, newEnd := len(oldKids), len(newKids)
	for oldEnd > start && newEnd > start && sameSlot(oldKids[oldEnd-1], newKids[newEnd-1]) {
		d.diffNode(oldKids[oldEnd-1], newKids[newEnd-1], out)
		oldEnd--
		newEnd--
	}

	if start == oldEnd && start == newEnd {
		return
	}

	f := d.arena.push()

	// Identity index over the old window.
	for i := start; i < oldEnd; i++ {
		f.oldIdx[oldKids[i].identity()] = i
	}

	// Match the new window by id. Matched ids leave the index, so what
	// remains afterwards is exactly the removals.
	for j := start; j < newEnd; j++ {
		id := newKids[j].identity()
		if i, ok := f.oldIdx[id]; ok {
			f.matched = append(f.matched, i)
			delete(f.oldIdx, id)
		} else {
			f.matched = append(f.matched, -1)
		}
	}

	// Removals, in old order.
	if len(f.oldIdx) > 0 {
		for i := start; i < oldEnd; i++ {
			id := oldKids[i].identity()
			if _, ok := f.oldIdx[id]; ok {
				*out = append(*out, NewRemoveChildPatch(id))
			}
		}
	}

	// Recurse into every matched pair, moved or not: position changes
	// and content changes are independent.
	for j := start; j < newEnd; j++ {
		if i := f.matched[j-start]; i >= 0 {
			d.diffNode(oldKids[i], newKids[j], out)
		}
	}

	f.lis()

	// Placement, right to left. The anchor is the new-order successor,
	// which at application time is already in final position: either a
	// suffix child, an LIS child, or a child placed by an earlier patch
	// in this loop. An empty anchor appends at the end of the parent.
	anchor := ""
	if newEnd < len(newKids) {
		anchor = newKids[newEnd].identity()
	}
	for j := newEnd - 1; j >= start; j-- {
		child := newKids[j]
		switch i := f.matched[j-start]; {
		case i < 0:
			*out = append(*out, NewAddChildPatch(old.ID, anchor, child.Force()))
		case !f.keep[j-start]:
			// Moves address the old identity: they execute against the
			// pre-patch surface state.
			*out = append(*out, NewMoveChildPatch(oldKids[i].identity(), anchor))
		}
		anchor = child.identity()
	}

	d.arena.pop()
}
