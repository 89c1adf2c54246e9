package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vireo-ui/vireo/pkg/archive"
	"github.com/vireo-ui/vireo/pkg/vtree"
	"github.com/vireo-ui/vireo/pkg/wire"
)

func inspectCmd() *cobra.Command {
	var (
		rawBatch bool
		check    bool
	)

	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Decode a recorded stream or batch file and print its patches",
		Long: `Decode a recorded frame stream (the default) or a bare patch
batch (--batch) and print every patch in order. With --check the
batches are also applied to an empty tree to verify that every patch
targets a known node.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			if rawBatch {
				return inspectBatch(data, check)
			}
			return inspectStream(data, check)
		},
	}

	cmd.Flags().BoolVar(&rawBatch, "batch", false, "Treat FILE as a bare batch, not a frame stream")
	cmd.Flags().BoolVar(&check, "check", false, "Apply the patches to verify target ids resolve")

	return cmd
}

func inspectStream(data []byte, check bool) error {
	var root *vtree.Node
	var frames, total int

	err := archive.Replay(data, func(seq uint64, patches []vtree.Patch) error {
		frames++
		total += len(patches)
		fmt.Printf("frame seq=%d patches=%d\n", seq, len(patches))
		for _, p := range patches {
			fmt.Printf("  %s\n", formatPatch(&p))
		}
		if check {
			next, err := vtree.Apply(root, patches)
			if err != nil {
				return fmt.Errorf("seq %d: %w", seq, err)
			}
			root = next
		}
		return nil
	})
	if err != nil {
		errorMsg("%s", err)
		return err
	}

	success("%d frames, %d patches", frames, total)
	return nil
}

func inspectBatch(data []byte, check bool) error {
	patches, err := wire.DecodeBatch(data)
	if err != nil {
		errorMsg("decode failed: %s", err)
		return err
	}

	for _, p := range patches {
		fmt.Println(formatPatch(&p))
	}

	if check {
		if _, err := vtree.Apply(nil, patches); err != nil {
			errorMsg("apply failed: %s", err)
			return err
		}
	}

	success("%d patches", len(patches))
	return nil
}

func formatPatch(p *vtree.Patch) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-16s id=%q", p.Op.String(), p.ID)
	if p.Ref != "" {
		fmt.Fprintf(&b, " ref=%q", p.Ref)
	}
	if p.Name != "" {
		fmt.Fprintf(&b, " name=%q", p.Name)
	}
	if p.Value != "" {
		fmt.Fprintf(&b, " value=%q", truncate(p.Value, 48))
	}
	if p.Node != nil {
		fmt.Fprintf(&b, " node=%s", summarizeNode(p.Node))
	}
	return b.String()
}

func summarizeNode(n *vtree.Node) string {
	switch n.Kind {
	case vtree.KindText:
		return fmt.Sprintf("text(%q)", truncate(n.Text, 32))
	case vtree.KindRaw:
		return fmt.Sprintf("raw(%d bytes)", len(n.Text))
	default:
		return fmt.Sprintf("<%s id=%q children=%d>", n.Tag, n.ID, len(n.Children))
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
