package vtree

// Differ computes patch sequences between successive renders of a tree.
//
// It retains the previous render as a two-generation buffer: each Diff
// call compares the retained tree against the next one, then the next
// tree becomes the retained tree. The differ also owns the scratch
// arena, so steady-state diffs allocate only for the returned patches.
//
// A Differ is single-threaded by design: the caller serializes render
// cycles so at most one Diff is in flight per instance. Concurrent
// renders get one Differ each rather than sharing one.
type Differ struct {
	prev  *Node
	arena *arena
}

// NewDiffer creates a differ with no retained tree. The first Diff call
// emits a single AddRoot for the whole subtree.
func NewDiffer() *Differ {
	return &Differ{arena: newArena()}
}

// Previous returns the retained tree, nil before the first Diff.
func (d *Differ) Previous() *Node {
	return d.prev
}

// Reset drops the retained tree; the next Diff emits AddRoot again.
func (d *Differ) Reset() {
	d.prev = nil
}

// Diff compares the retained tree against next, retains next, and
// returns the ordered patch sequence that transforms the render surface
// from the old state to the new one. Diffing a structurally equal tree
// yields an empty sequence.
func (d *Differ) Diff(next *Node) []Patch {
	var patches []Patch
	switch {
	case d.prev == nil && next == nil:
		// Nothing rendered yet.
	case d.prev == nil:
		patches = append(patches, NewAddRootPatch(next.Force()))
	case next == nil:
		patches = append(patches, NewRemoveChildPatch(d.prev.identity()))
	default:
		d.diffNode(d.prev, next, &patches)
	}
	d.prev = next
	return patches
}

// Diff compares prev against next using a pooled scratch arena. For
// repeated render cycles prefer a dedicated Differ, which also retains
// the previous tree.
func Diff(prev, next *Node) []Patch {
	a := arenaPool.Get().(*arena)
	d := Differ{prev: prev, arena: a}
	patches := d.Diff(next)
	arenaPool.Put(a)
	return patches
}

// diffNode compares one (old, new) pair. The keyed reconciler only
// recurses into pairs sharing identity, so inside this function an
// element/element pair with equal tags is the same logical node.
func (d *Differ) diffNode(old, next *Node, out *[]Patch) {
	// Memo short-circuit: an unchanged key skips evaluation entirely,
	// not just diffing. The previously forced subtree is carried into
	// the new memo so the retained tree stays forceable next cycle.
	if old.Kind == KindMemo && next.Kind == KindMemo && memoKeyEqual(old.MemoKey, next.MemoKey) {
		next.adopt(old.Force())
		return
	}

	o, n := old.Force(), next.Force()
	if o == nil || n == nil {
		return
	}

	if o.Kind != n.Kind {
		*out = append(*out, NewReplaceChildPatch(o.ID, n))
		return
	}

	switch n.Kind {
	case KindText:
		if o.Text != n.Text {
			*out = append(*out, NewUpdateTextPatch(o.ID, n.Text))
		}
	case KindRaw:
		// Raw fragments are opaque: whole-value equality or replace.
		if o.Text != n.Text {
			*out = append(*out, NewUpdateRawPatch(o.ID, n.Text))
		}
	case KindElement:
		if o.Tag != n.Tag {
			// Different tag means a different logical node; no
			// attribute or child diffing across the boundary.
			*out = append(*out, NewReplaceChildPatch(o.ID, n))
			return
		}
		d.diffAttrs(o, n, out)
		d.reconcileChildren(o, n, out)
	}
}

// sameSlot reports whether two co-located children represent the same
// logical node: equal-key memo pairs match without being forced, all
// other pairs match by id.
func sameSlot(old, next *Node) bool {
	if old.Kind == KindMemo && next.Kind == KindMemo && memoKeyEqual(old.MemoKey, next.MemoKey) {
		return true
	}
	id := old.identity()
	return id != "" && id == next.identity()
}
