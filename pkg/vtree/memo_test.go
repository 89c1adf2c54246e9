package vtree

import "testing"

func TestMemoUnchangedKeySkipsRender(t *testing.T) {
	d := NewDiffer()

	renders := 0
	build := func(key any) *Node {
		return Element("root", "div", nil,
			Memo(key, func() *Node {
				renders++
				return Element("heavy", "section", nil, Text("heavy-t", "expensive"))
			}),
		)
	}

	first := d.Diff(build("v1"))
	// Sinks force memos while consuming the emitted subtree.
	Clone(first[0].Node)
	if renders != 1 {
		t.Fatalf("first render: Render called %d times, want 1", renders)
	}

	// Unchanged key: Render must not run at all, not even to compare.
	patches := d.Diff(Element("root", "div", nil,
		Memo("v1", func() *Node {
			t.Fatal("Render called despite unchanged memo key")
			return nil
		}),
	))
	if len(patches) != 0 {
		t.Errorf("Expected 0 patches, got %d: %v", len(patches), ops(patches))
	}
	if renders != 1 {
		t.Errorf("Render called %d times, want 1", renders)
	}
}

func TestMemoChangedKeyRerenders(t *testing.T) {
	d := NewDiffer()

	build := func(key, text string) *Node {
		return Element("root", "div", nil,
			Memo(key, func() *Node {
				return Element("heavy", "section", nil, Text("heavy-t", text))
			}),
		)
	}

	d.Diff(build("v1", "one"))
	patches := d.Diff(build("v2", "two"))

	if got := countOp(patches, PatchUpdateText); got != 1 {
		t.Errorf("UpdateText count = %d, want 1: %v", got, ops(patches))
	}
}

func TestMemoRetainedTreeStaysForceable(t *testing.T) {
	d := NewDiffer()

	build := func(key, text string, renders *int) *Node {
		return Element("root", "div", nil,
			Memo(key, func() *Node {
				*renders++
				return Element("heavy", "section", nil, Text("heavy-t", text))
			}),
		)
	}

	var r1, r2, r3 int
	first := d.Diff(build("v1", "one", &r1))
	Clone(first[0].Node)
	if r1 != 1 {
		t.Fatalf("first render: Render called %d times, want 1", r1)
	}
	// Short-circuit carries the forced value into the retained tree.
	d.Diff(build("v1", "one", &r2))
	// A later key change must diff against the carried subtree, not
	// against an unforceable husk.
	patches := d.Diff(build("v2", "two", &r3))

	if r2 != 0 {
		t.Errorf("second render: Render called %d times, want 0", r2)
	}
	if r3 != 1 {
		t.Errorf("third render: Render called %d times, want 1", r3)
	}
	if got := countOp(patches, PatchUpdateText); got != 1 {
		t.Errorf("UpdateText count = %d, want 1: %v", got, ops(patches))
	}
}

func TestMemoKeyedListSlotMatch(t *testing.T) {
	d := NewDiffer()

	renders := map[string]int{}
	item := func(id, text string) *Node {
		return Memo(id, func() *Node {
			renders[id]++
			return Element(id, "li", nil, Text(id+"-t", text))
		})
	}

	first := d.Diff(Element("list", "ul", nil,
		item("a", "alpha"), item("b", "beta"), item("c", "gamma"),
	))
	Clone(first[0].Node)

	patches := d.Diff(Element("list", "ul", nil,
		item("c", "gamma"), item("a", "alpha"), item("b", "beta"),
	))

	// Memo wrappers match slots by key; the rotation is still one move.
	if len(patches) != 1 || patches[0].Op != PatchMoveChild {
		t.Fatalf("Expected single MoveChild, got %v", ops(patches))
	}
	// Reordering alone must not re-evaluate any unchanged key.
	for _, id := range []string{"a", "b", "c"} {
		if renders[id] != 1 {
			t.Errorf("item %s: Render called %d times, want 1", id, renders[id])
		}
	}
}

func TestMemoReorderedWindowSkipsRender(t *testing.T) {
	d := NewDiffer()

	item := func(id string) *Node {
		return Memo(id, func() *Node {
			return Element(id, "li", nil, Text(id+"-t", id))
		})
	}

	first := d.Diff(Element("list", "ul", nil,
		item("a"), item("b"), item("c"),
	))
	Clone(first[0].Node)

	// Every closure in the reordered render traps: only adopted cached
	// subtrees may satisfy the diff.
	trap := func(id string) *Node {
		return Memo(id, func() *Node {
			t.Fatalf("item %s: Render called despite unchanged key", id)
			return nil
		})
	}
	patches := d.Diff(Element("list", "ul", nil,
		trap("c"), trap("a"), trap("b"),
	))

	if len(patches) != 1 || patches[0].Op != PatchMoveChild {
		t.Fatalf("Expected single MoveChild, got %v", ops(patches))
	}
}

func TestMemoKeyEquality(t *testing.T) {
	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"strings equal", "k", "k", true},
		{"strings differ", "k", "j", false},
		{"ints equal", 42, 42, true},
		{"int vs int64", 42, int64(42), false},
		{"nils", nil, nil, true},
		{"nil vs value", nil, "x", false},
		{"bools", true, true, true},
		{"structs deep equal", struct{ A, B int }{1, 2}, struct{ A, B int }{1, 2}, true},
		{"slices deep equal", []int{1, 2}, []int{1, 2}, true},
		{"slices differ", []int{1, 2}, []int{2, 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := memoKeyEqual(tt.a, tt.b); got != tt.want {
				t.Errorf("memoKeyEqual(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestForceInvokesRenderOnce(t *testing.T) {
	renders := 0
	m := Memo("k", func() *Node {
		renders++
		return Text("t", "value")
	})

	first := m.Force()
	second := m.Force()

	if renders != 1 {
		t.Errorf("Render called %d times, want 1", renders)
	}
	if first != second {
		t.Error("Force should return the same cached node")
	}
}
