package main

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/vireo-ui/vireo/pkg/vtree"
	"github.com/vireo-ui/vireo/pkg/wire"
)

func benchCmd() *cobra.Command {
	var (
		cycles   int
		listSize int
		churn    float64
		seed     int64
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark diff and encode on synthetic trees",
		Long: `Generate a seeded pseudo-random tree, mutate it for the given
number of cycles, and report diff+encode statistics: patch-op
histogram, bytes on the wire, and time per cycle.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(cycles, listSize, churn, seed)
		},
	}

	cmd.Flags().IntVarP(&cycles, "cycles", "n", 1000, "Number of render cycles")
	cmd.Flags().IntVarP(&listSize, "list-size", "l", 100, "Keyed children per list")
	cmd.Flags().Float64VarP(&churn, "churn", "c", 0.2, "Fraction of children mutated per cycle")
	cmd.Flags().Int64VarP(&seed, "seed", "s", 1, "PRNG seed")

	return cmd
}

func runBench(cycles, listSize int, churn float64, seed int64) error {
	if cycles < 1 {
		return fmt.Errorf("cycles must be at least 1, got %d", cycles)
	}
	if listSize < 1 {
		return fmt.Errorf("list size must be at least 1, got %d", listSize)
	}

	rng := rand.New(rand.NewSource(seed))

	gen := &treeGen{rng: rng, listSize: listSize, churn: churn}
	current := gen.initial()

	differ := vtree.NewDiffer()
	batch := wire.NewBatchEncoder()
	enc := wire.NewEncoder()

	// Prime the differ so the measured cycles are incremental updates,
	// not the first full render.
	differ.Diff(current)

	hist := make(map[vtree.PatchOp]uint64)
	var totalPatches, totalBytes uint64
	var diffTime, encodeTime time.Duration

	for i := 0; i < cycles; i++ {
		current = gen.mutate(current)

		start := time.Now()
		patches := differ.Diff(current)
		diffTime += time.Since(start)

		for _, p := range patches {
			hist[p.Op]++
		}
		totalPatches += uint64(len(patches))

		start = time.Now()
		enc.Reset()
		if err := batch.EncodeTo(enc, patches); err != nil {
			return fmt.Errorf("encode failed on cycle %d: %w", i, err)
		}
		encodeTime += time.Since(start)
		totalBytes += uint64(enc.Len())
	}

	printBanner()
	fmt.Println()
	info("cycles:        %d", cycles)
	info("list size:     %d", listSize)
	info("churn:         %.2f", churn)
	info("seed:          %d", seed)
	fmt.Println()
	info("patches:       %d (%.1f/cycle)", totalPatches, float64(totalPatches)/float64(cycles))
	info("bytes:         %d (%.1f/cycle)", totalBytes, float64(totalBytes)/float64(cycles))
	info("diff time:     %v (%v/cycle)", diffTime, diffTime/time.Duration(cycles))
	info("encode time:   %v (%v/cycle)", encodeTime, encodeTime/time.Duration(cycles))
	fmt.Println()

	type opCount struct {
		op    vtree.PatchOp
		count uint64
	}
	ops := make([]opCount, 0, len(hist))
	for op, count := range hist {
		ops = append(ops, opCount{op, count})
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i].count > ops[j].count })

	info("patch ops:")
	for _, oc := range ops {
		info("  %-16s %d", oc.op.String(), oc.count)
	}

	success("bench complete")
	return nil
}

// treeGen produces a mutating keyed list under a fixed root, the shape
// most sensitive to reconciliation quality.
type treeGen struct {
	rng      *rand.Rand
	listSize int
	churn    float64
	nextID   int
}

func (g *treeGen) initial() *vtree.Node {
	children := make([]*vtree.Node, g.listSize)
	for i := range children {
		children[i] = g.item()
	}
	return vtree.Element("root", "div", nil,
		vtree.Element("list", "ul", nil, children...),
	)
}

func (g *treeGen) item() *vtree.Node {
	g.nextID++
	id := fmt.Sprintf("item-%d", g.nextID)
	return vtree.Element(id, "li",
		[]vtree.Attr{{Name: "class", Value: "item"}},
		vtree.Text(id+"-text", fmt.Sprintf("entry %d", g.nextID)),
	)
}

// mutate returns a fresh tree where a churn-sized fraction of children
// is shuffled, replaced, or retexted. Untouched children are rebuilt
// with identical ids and content so the differ must prove them equal.
func (g *treeGen) mutate(prev *vtree.Node) *vtree.Node {
	old := prev.Children[0].Children
	next := make([]*vtree.Node, 0, len(old))
	for _, c := range old {
		next = append(next, vtree.Clone(c))
	}

	mutations := int(float64(len(next)) * g.churn)
	if mutations < 1 {
		mutations = 1
	}
	for m := 0; m < mutations; m++ {
		if len(next) == 0 {
			next = append(next, g.item())
			continue
		}
		i := g.rng.Intn(len(next))
		switch g.rng.Intn(4) {
		case 0: // move
			j := g.rng.Intn(len(next))
			next[i], next[j] = next[j], next[i]
		case 1: // remove
			next = append(next[:i], next[i+1:]...)
		case 2: // insert
			next = append(next[:i], append([]*vtree.Node{g.item()}, next[i:]...)...)
		case 3: // text change
			if len(next[i].Children) == 1 {
				next[i].Children[0].Text = fmt.Sprintf("entry %d", g.rng.Int())
			}
		}
	}

	return vtree.Element("root", "div", nil,
		vtree.Element("list", "ul", nil, next...),
	)
}
