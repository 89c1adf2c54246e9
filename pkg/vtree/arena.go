package vtree

import "sync"

// arena holds the scratch buffers the differ reuses across calls. The
// identity index and the LIS computation are the two allocation hot
// spots of a diff; the arena keeps them at zero steady-state
// allocations.
//
// Reconciliation recurses, so the arena is a stack of frames: each
// child window in the tree checks out one frame for the duration of its
// reconcile and returns it before the parent resumes. Frames are
// retained and reused across diff calls.
//
// An arena is owned by exactly one in-flight diff call. A Differ owns
// one for its lifetime; the stateless Diff entry point checks one out
// of a package pool.
type arena struct {
	frames []*frame
	depth  int
}

// frame is the per-window scratch of the keyed reconciler.
type frame struct {
	oldIdx  map[string]int // old-window id -> window position
	matched []int          // old positions in new order; -1 = insertion

	// Patience-sort scratch for the LIS.
	tails    []int  // tails[l] = matched value ending the best run of length l+1
	tailsPos []int  // position in matched of tails[l]
	links    []int  // back-links for LIS reconstruction
	keep     []bool // keep[j] = new-window position j is in the LIS
}

func newArena() *arena {
	return &arena{}
}

// push checks out a frame for one child window, reusing a retained
// frame when one is available at this depth.
func (a *arena) push() *frame {
	if a.depth == len(a.frames) {
		a.frames = append(a.frames, &frame{oldIdx: make(map[string]int, 16)})
	}
	f := a.frames[a.depth]
	a.depth++
	clear(f.oldIdx)
	f.matched = f.matched[:0]
	f.tails = f.tails[:0]
	f.tailsPos = f.tailsPos[:0]
	f.links = f.links[:0]
	f.keep = f.keep[:0]
	return f
}

// pop returns the most recently pushed frame.
func (a *arena) pop() {
	a.depth--
}

var arenaPool = sync.Pool{
	New: func() any { return newArena() },
}
