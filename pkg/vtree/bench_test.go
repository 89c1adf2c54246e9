package vtree

import (
	"fmt"
	"testing"
)

func bigList(n int, offset int) *Node {
	children := make([]*Node, n)
	for i := range children {
		id := fmt.Sprintf("item-%d", (i+offset)%n)
		children[i] = Element(id, "li",
			[]Attr{{Name: "class", Value: "item"}},
			Text(id+"-t", id),
		)
	}
	return Element("list", "ul", nil, children...)
}

func TestDiffEqualTreesZeroAlloc(t *testing.T) {
	a := bigList(50, 0)
	b := bigList(50, 0)
	d := NewDiffer()
	d.Diff(a) // warm the arena and retain a

	trees := [2]*Node{b, a}
	i := 0
	allocs := testing.AllocsPerRun(100, func() {
		d.Diff(trees[i%2])
		i++
	})
	if allocs != 0 {
		t.Errorf("steady-state equal-tree diff allocates %.1f per run, want 0", allocs)
	}
}

func BenchmarkDiffEqual(b *testing.B) {
	x := bigList(100, 0)
	y := bigList(100, 0)
	d := NewDiffer()
	d.Diff(x)

	trees := [2]*Node{y, x}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		d.Diff(trees[i%2])
	}
}

func BenchmarkDiffRotation(b *testing.B) {
	d := NewDiffer()
	d.Diff(bigList(100, 0))

	trees := [2]*Node{bigList(100, 7), bigList(100, 0)}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		d.Diff(trees[i%2])
	}
}

func BenchmarkDiffFirstRender(b *testing.B) {
	next := bigList(100, 0)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		d := NewDiffer()
		d.Diff(next)
	}
}
