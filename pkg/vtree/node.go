package vtree

import (
	"reflect"
	"strings"
)

// NodeKind is the node type discriminator.
type NodeKind uint8

const (
	KindElement NodeKind = iota // <div>, <button>, etc.
	KindText                    // Plain text node
	KindRaw                     // Opaque pre-rendered fragment
	KindMemo                    // Lazily-produced, key-cached subtree
)

// String returns the string representation of the NodeKind.
func (k NodeKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindRaw:
		return "Raw"
	case KindMemo:
		return "Memo"
	default:
		return "Unknown"
	}
}

// Node is one unit of the immutable virtual tree.
//
// The tree producer assigns every Element/Text/Raw node an ID that is
// unique among its render's nodes and stable across renders for
// logically-unchanged call sites. Call sites invoked more than once per
// render (loops, dynamic lists) must derive the ID from content, e.g.
// a record's primary key. The engine relies on this and does not verify
// it.
type Node struct {
	Kind     NodeKind
	ID       string  // Stable identity; empty only for KindMemo
	Tag      string  // Element tag name (e.g., "div")
	Attrs    []Attr  // Ordered attributes; names unique per element
	Children []*Node // Child nodes, render order
	Text     string  // Text value (KindText) or raw HTML (KindRaw)

	MemoKey any          // Equality key for KindMemo
	Render  func() *Node // Lazy body for KindMemo
	cached  *Node        // Forced value of Render, populated on demand
}

// Attr is a single name/value attribute. Boolean attributes follow the
// empty-string convention: present with Value "" means true, absent
// means false. Names with an "on" prefix are handler attributes whose
// Value is an opaque handler token.
type Attr struct {
	Name  string
	Value string
}

// Element creates an element node.
func Element(id, tag string, attrs []Attr, children ...*Node) *Node {
	return &Node{Kind: KindElement, ID: id, Tag: tag, Attrs: attrs, Children: children}
}

// Text creates a text node.
func Text(id, value string) *Node {
	return &Node{Kind: KindText, ID: id, Text: value}
}

// Raw creates a raw HTML node. Raw nodes are diffed only by whole-value
// equality of their HTML string.
func Raw(id, html string) *Node {
	return &Node{Kind: KindRaw, ID: id, Text: html}
}

// Memo wraps a potentially expensive subtree behind an equality key.
// When the key is unchanged across renders, render is never invoked and
// the wrapped subtree is neither rebuilt nor diffed.
func Memo(key any, render func() *Node) *Node {
	return &Node{Kind: KindMemo, MemoKey: key, Render: render}
}

// Force returns the node itself, or for a memo node its rendered value,
// invoking Render at most once per node.
func (n *Node) Force() *Node {
	if n == nil || n.Kind != KindMemo {
		return n
	}
	if n.cached == nil && n.Render != nil {
		n.cached = n.Render()
	}
	return n.cached
}

// forced reports whether a memo node already has a cached value.
func (n *Node) forced() bool {
	return n.cached != nil
}

// adopt carries a previously forced value into this memo node without
// invoking Render. Used when a key match short-circuits the diff: the
// retained tree must stay forceable for the next cycle.
func (n *Node) adopt(cached *Node) {
	n.cached = cached
}

// identity returns the reconciliation id of a node, forcing memos.
func (n *Node) identity() string {
	if n == nil {
		return ""
	}
	if n.Kind == KindMemo {
		return n.Force().identity()
	}
	return n.ID
}

// isHandlerName reports whether an attribute name addresses an event
// handler slot. Case-insensitive to match onclick, onClick, ONCLICK.
func isHandlerName(name string) bool {
	return len(name) > 2 && strings.EqualFold(name[:2], "on")
}

// memoKeyEqual compares two memo keys. Fast paths for the common
// comparable types, reflect.DeepEqual for the rest.
func memoKeyEqual(a, b any) bool {
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case int:
		bv, ok := b.(int)
		return ok && av == bv
	case int64:
		bv, ok := b.(int64)
		return ok && av == bv
	case uint64:
		bv, ok := b.(uint64)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case nil:
		return b == nil
	}
	return reflect.DeepEqual(a, b)
}

// Equal reports structural equality of two trees. Memo nodes are forced
// before comparison. Attribute order does not encode meaning, so
// attributes compare as a name/value set. Intended for tests and
// tooling, not the diff hot path.
func Equal(a, b *Node) bool {
	a, b = a.Force(), b.Force()
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind || a.ID != b.ID || a.Tag != b.Tag || a.Text != b.Text {
		return false
	}
	if len(a.Attrs) != len(b.Attrs) || len(a.Children) != len(b.Children) {
		return false
	}
	for _, at := range a.Attrs {
		found := false
		for _, bt := range b.Attrs {
			if at.Name == bt.Name {
				found = at.Value == bt.Value
				break
			}
		}
		if !found {
			return false
		}
	}
	for i := range a.Children {
		if !Equal(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the tree with memo nodes forced.
func Clone(n *Node) *Node {
	n = n.Force()
	if n == nil {
		return nil
	}
	c := &Node{Kind: n.Kind, ID: n.ID, Tag: n.Tag, Text: n.Text}
	if len(n.Attrs) > 0 {
		c.Attrs = make([]Attr, len(n.Attrs))
		copy(c.Attrs, n.Attrs)
	}
	if len(n.Children) > 0 {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = Clone(child)
		}
	}
	return c
}
