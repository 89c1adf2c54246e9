package vtree

import "testing"

// runLIS feeds a matched sequence through a fresh frame and returns the
// keep mask.
func runLIS(matched []int) []bool {
	a := newArena()
	f := a.push()
	f.matched = append(f.matched, matched...)
	f.lis()
	keep := make([]bool, len(f.keep))
	copy(keep, f.keep)
	a.pop()
	return keep
}

func keepCount(keep []bool) int {
	n := 0
	for _, k := range keep {
		if k {
			n++
		}
	}
	return n
}

func TestLISLength(t *testing.T) {
	tests := []struct {
		name    string
		matched []int
		wantLen int
	}{
		{"empty", nil, 0},
		{"single", []int{0}, 1},
		{"already sorted", []int{0, 1, 2, 3}, 4},
		{"reversed", []int{3, 2, 1, 0}, 1},
		{"rotation", []int{2, 0, 1}, 2},
		{"swap ends", []int{4, 1, 2, 3, 0}, 3},
		{"all insertions", []int{-1, -1, -1}, 0},
		{"insertions interleaved", []int{2, -1, 0, -1, 1}, 2},
		{"classic", []int{0, 8, 4, 12, 2, 10, 6, 14, 1, 9}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keep := runLIS(tt.matched)
			if got := keepCount(keep); got != tt.wantLen {
				t.Errorf("LIS length = %d, want %d (keep=%v)", got, tt.wantLen, keep)
			}
		})
	}
}

func TestLISKeepIsIncreasing(t *testing.T) {
	matched := []int{5, 0, 3, -1, 1, 6, 2, 4}
	keep := runLIS(matched)

	last := -1
	for j, k := range keep {
		if !k {
			continue
		}
		if matched[j] < 0 {
			t.Fatalf("keep[%d] set on an insertion slot", j)
		}
		if matched[j] <= last {
			t.Fatalf("kept sequence not increasing at %d: %v / %v", j, matched, keep)
		}
		last = matched[j]
	}
}

func TestLISNeverKeepsInsertions(t *testing.T) {
	keep := runLIS([]int{-1, 2, -1, 5, -1})
	if keep[0] || keep[2] || keep[4] {
		t.Errorf("insertion slots marked kept: %v", keep)
	}
	if !keep[1] || !keep[3] {
		t.Errorf("increasing matches should be kept: %v", keep)
	}
}

func TestArenaFrameReuseAcrossNesting(t *testing.T) {
	a := newArena()

	outer := a.push()
	outer.oldIdx["x"] = 1
	outer.matched = append(outer.matched, 1)

	inner := a.push()
	if inner == outer {
		t.Fatal("nested push returned the in-use frame")
	}
	if len(inner.oldIdx) != 0 || len(inner.matched) != 0 {
		t.Fatal("nested frame not clean")
	}
	a.pop()

	// Outer frame state must survive the nested window.
	if outer.oldIdx["x"] != 1 || len(outer.matched) != 1 {
		t.Fatal("outer frame clobbered by nested window")
	}
	a.pop()

	// Frames are retained and handed out again, reset.
	again := a.push()
	if again != outer {
		t.Error("expected the retained frame to be reused")
	}
	if len(again.oldIdx) != 0 || len(again.matched) != 0 {
		t.Error("reused frame not reset")
	}
	a.pop()
}
