package vtree

import "fmt"

// Apply replays an ordered patch sequence against a model of the render
// surface whose current state is root, returning the resulting tree.
// The input tree is not modified; inserted subtrees are deep-copied.
//
// This is the reference sink: encode(Diff(old, new)) decoded and applied
// to old yields a tree structurally equal to new. Real sinks mutate a
// concrete surface instead, but follow the same per-op semantics.
//
// Apply is strict where the engine contract allows it to be: patches
// addressing unknown ids fail, which is what round-trip tests want.
func Apply(root *Node, patches []Patch) (*Node, error) {
	root = Clone(root)
	for _, p := range patches {
		var err error
		root, err = applyOne(root, p)
		if err != nil {
			return nil, err
		}
	}
	return root, nil
}

func applyOne(root *Node, p Patch) (*Node, error) {
	switch p.Op {
	case PatchAddRoot:
		return Clone(p.Node), nil

	case PatchReplaceChild:
		if root != nil && root.ID == p.ID {
			return Clone(p.Node), nil
		}
		_, parent, idx, ok := find(root, p.ID)
		if !ok {
			return nil, unknownID(p)
		}
		parent.Children[idx] = Clone(p.Node)
		return root, nil

	case PatchAddChild:
		parent, _, _, ok := find(root, p.ID)
		if !ok {
			return nil, unknownID(p)
		}
		return root, insertBefore(parent, Clone(p.Node), p.Ref)

	case PatchRemoveChild:
		_, parent, idx, ok := find(root, p.ID)
		if !ok {
			return nil, unknownID(p)
		}
		if parent == nil {
			return nil, nil // Root removed; surface is empty.
		}
		parent.Children = append(parent.Children[:idx], parent.Children[idx+1:]...)
		return root, nil

	case PatchClearChildren:
		n, _, _, ok := find(root, p.ID)
		if !ok {
			return nil, unknownID(p)
		}
		n.Children = nil
		return root, nil

	case PatchMoveChild:
		n, parent, idx, ok := find(root, p.ID)
		if !ok || parent == nil {
			return nil, unknownID(p)
		}
		parent.Children = append(parent.Children[:idx], parent.Children[idx+1:]...)
		return root, insertBefore(parent, n, p.Ref)

	case PatchAddAttribute, PatchUpdateAttribute, PatchAddHandler, PatchUpdateHandler:
		n, _, _, ok := find(root, p.ID)
		if !ok {
			return nil, unknownID(p)
		}
		setAttr(n, p.Name, p.Value)
		return root, nil

	case PatchRemoveAttribute, PatchRemoveHandler:
		n, _, _, ok := find(root, p.ID)
		if !ok {
			return nil, unknownID(p)
		}
		removeAttr(n, p.Name)
		return root, nil

	case PatchAddText, PatchUpdateText, PatchAddRaw, PatchUpdateRaw, PatchReplaceRaw:
		n, _, _, ok := find(root, p.ID)
		if !ok {
			return nil, unknownID(p)
		}
		n.Text = p.Value
		return root, nil

	case PatchRemoveText, PatchRemoveRaw:
		n, _, _, ok := find(root, p.ID)
		if !ok {
			return nil, unknownID(p)
		}
		n.Text = ""
		return root, nil

	default:
		return nil, fmt.Errorf("vtree: apply: unknown op 0x%02x", uint8(p.Op))
	}
}

func unknownID(p Patch) error {
	return fmt.Errorf("vtree: apply %s: unknown id %q", p.Op, p.ID)
}

// find locates a node by id, returning the node, its parent (nil for
// the root) and its index among the parent's children.
func find(root *Node, id string) (n, parent *Node, idx int, ok bool) {
	if root == nil {
		return nil, nil, 0, false
	}
	if root.ID == id {
		return root, nil, 0, true
	}
	return findIn(root, id)
}

func findIn(parent *Node, id string) (*Node, *Node, int, bool) {
	for i, child := range parent.Children {
		if child.ID == id {
			return child, parent, i, true
		}
		if n, par, idx, ok := findIn(child, id); ok {
			return n, par, idx, ok
		}
	}
	return nil, nil, 0, false
}

// insertBefore inserts n among parent's children before the child with
// id ref, or appends when ref is empty.
func insertBefore(parent, n *Node, ref string) error {
	if ref == "" {
		parent.Children = append(parent.Children, n)
		return nil
	}
	for i, child := range parent.Children {
		if child.ID == ref {
			parent.Children = append(parent.Children, nil)
			copy(parent.Children[i+1:], parent.Children[i:])
			parent.Children[i] = n
			return nil
		}
	}
	return fmt.Errorf("vtree: apply: reference id %q not among children of %q", ref, parent.ID)
}

func setAttr(n *Node, name, value string) {
	for i := range n.Attrs {
		if n.Attrs[i].Name == name {
			n.Attrs[i].Value = value
			return
		}
	}
	n.Attrs = append(n.Attrs, Attr{Name: name, Value: value})
}

func removeAttr(n *Node, name string) {
	for i := range n.Attrs {
		if n.Attrs[i].Name == name {
			n.Attrs = append(n.Attrs[:i], n.Attrs[i+1:]...)
			return
		}
	}
}
