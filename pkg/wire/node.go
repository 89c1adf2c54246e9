package wire

import (
	"github.com/vireo-ui/vireo/pkg/vtree"
)

// MaxNodeDepth limits the nesting depth of decoded subtrees. This
// prevents stack exhaustion from a maliciously deep node blob.
const MaxNodeDepth = 256

// nilNode marks a nil node in a blob.
const nilNode = 0xFF

// Node blob format, stored in the string table and referenced by
// subtree-carrying entries. Memo nodes are forced before encoding; only
// Element/Text/Raw appear on the wire. String references are uvarint
// indices into the batch's string table, which makes repeated ids, tag
// names and attribute names across subtrees free.
//
//	kind byte (or 0xFF for nil)
//	Element: id-ref, tag-ref, uvarint attr count, (name-ref, value-ref)*,
//	         uvarint child count, children...
//	Text:    id-ref, text-ref
//	Raw:     id-ref, html-ref

// internNode encodes n as a node blob and interns the blob itself,
// deduplicating identical subtrees within the batch. Reports failures
// through *err and returns NoRef when encoding is skipped or fails.
func (be *BatchEncoder) internNode(n *vtree.Node, err *error) uint32 {
	if *err != nil {
		return NoRef
	}
	if n == nil {
		return NoRef
	}
	be.blob.Reset()
	if *err = be.encodeNode(n); *err != nil {
		return NoRef
	}
	ref, e := be.table.intern(string(be.blob.Bytes()))
	if e != nil {
		*err = e
		return NoRef
	}
	return ref
}

func (be *BatchEncoder) encodeNode(n *vtree.Node) error {
	n = n.Force()
	if n == nil {
		be.blob.WriteByte(nilNode)
		return nil
	}

	be.blob.WriteByte(byte(n.Kind))
	idRef, err := be.table.intern(n.ID)
	if err != nil {
		return err
	}
	be.blob.WriteUvarint(uint64(idRef))

	switch n.Kind {
	case vtree.KindElement:
		tagRef, err := be.table.intern(n.Tag)
		if err != nil {
			return err
		}
		be.blob.WriteUvarint(uint64(tagRef))

		be.blob.WriteUvarint(uint64(len(n.Attrs)))
		for _, at := range n.Attrs {
			nameRef, err := be.table.intern(at.Name)
			if err != nil {
				return err
			}
			valueRef, err := be.table.intern(at.Value)
			if err != nil {
				return err
			}
			be.blob.WriteUvarint(uint64(nameRef))
			be.blob.WriteUvarint(uint64(valueRef))
		}

		be.blob.WriteUvarint(uint64(len(n.Children)))
		for _, child := range n.Children {
			if err := be.encodeNode(child); err != nil {
				return err
			}
		}

	case vtree.KindText, vtree.KindRaw:
		textRef, err := be.table.intern(n.Text)
		if err != nil {
			return err
		}
		be.blob.WriteUvarint(uint64(textRef))
	}

	return nil
}

// decodeNodeBlob parses a node blob against the batch's string table.
func decodeNodeBlob(blob string, table []string) (*vtree.Node, error) {
	d := NewDecoder([]byte(blob))
	n, err := decodeNode(d, table, 0)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func decodeNode(d *Decoder, table []string, depth int) (*vtree.Node, error) {
	if depth > MaxNodeDepth {
		return nil, ErrDepthLimit
	}

	kind, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	if kind == nilNode {
		return nil, nil
	}

	readRef := func() (string, error) {
		ref, err := d.ReadUvarint()
		if err != nil {
			return "", err
		}
		if ref >= uint64(len(table)) {
			return "", ErrBadStringRef
		}
		return table[ref], nil
	}

	n := &vtree.Node{Kind: vtree.NodeKind(kind)}
	if n.ID, err = readRef(); err != nil {
		return nil, err
	}

	switch n.Kind {
	case vtree.KindElement:
		if n.Tag, err = readRef(); err != nil {
			return nil, err
		}

		attrCount, err := d.ReadCollectionCount()
		if err != nil {
			return nil, err
		}
		if attrCount > 0 {
			n.Attrs = make([]vtree.Attr, attrCount)
			for i := range n.Attrs {
				if n.Attrs[i].Name, err = readRef(); err != nil {
					return nil, err
				}
				if n.Attrs[i].Value, err = readRef(); err != nil {
					return nil, err
				}
			}
		}

		childCount, err := d.ReadCollectionCount()
		if err != nil {
			return nil, err
		}
		if childCount > 0 {
			n.Children = make([]*vtree.Node, childCount)
			for i := range n.Children {
				if n.Children[i], err = decodeNode(d, table, depth+1); err != nil {
					return nil, err
				}
			}
		}

	case vtree.KindText, vtree.KindRaw:
		if n.Text, err = readRef(); err != nil {
			return nil, err
		}

	default:
		return nil, ErrBadNodeKind
	}

	return n, nil
}
