package wire

import (
	"fmt"
	"math"

	"github.com/vireo-ui/vireo/pkg/vtree"
)

// NoRef marks an absent string-table reference in a batch entry. It is
// distinct from a reference to the empty string, which is interned like
// any other value so that empty strings round-trip exactly.
const NoRef = ^uint32(0)

// entrySize is the fixed size of one patch entry: a 1-byte op plus four
// 4-byte string-table references.
const entrySize = 17

// Batch layout:
//
//	uint32   patch count (big-endian)
//	entry*   fixed 17-byte records: op byte + 4 uint32 refs
//	uvarint  string table count
//	string*  uvarint length + bytes, one per distinct value
//
// Entry reference slots per op (unused slots hold NoRef):
//
//	                 [0]target  [1]name/ref  [2]value  [3]node
//	AddRoot              -          -            -      subtree
//	ReplaceChild        id          -            -      subtree
//	AddChild         parent    before-ref        -      subtree
//	RemoveChild         id          -            -         -
//	ClearChildren    parent         -            -         -
//	MoveChild           id     before-ref        -         -
//	Add/Upd Attr/Hdl    id        name         value       -
//	Rem Attr/Hdl        id        name           -         -
//	Add/Upd Text/Raw    id          -          value       -
//	Rem Text/Raw        id          -            -         -
//
// Subtrees are encoded as node blobs (see node.go) and interned in the
// string table like any other value, so identical inserted subtrees are
// also stored once.

// stringTable is the deduplicating pool of variable-length values.
// reset keeps the backing storage so one table serves many batches.
type stringTable struct {
	index  map[string]uint32
	values []string
}

func (t *stringTable) reset() {
	clear(t.index)
	t.values = t.values[:0]
}

// intern returns the table index of s, adding it on first sight.
func (t *stringTable) intern(s string) (uint32, error) {
	if len(s) > DefaultMaxAllocation {
		return NoRef, ErrOverflow
	}
	if idx, ok := t.index[s]; ok {
		return idx, nil
	}
	if uint64(len(t.values)) >= uint64(NoRef) {
		return NoRef, ErrOverflow
	}
	idx := uint32(len(t.values))
	t.index[s] = idx
	t.values = append(t.values, s)
	return idx, nil
}

// BatchEncoder serializes patch sequences into the batch wire format.
// It owns the string table and the node-blob scratch buffer, both
// reused across batches. Not safe for concurrent use.
type BatchEncoder struct {
	table stringTable
	blob  Encoder
}

// NewBatchEncoder creates a batch encoder.
func NewBatchEncoder() *BatchEncoder {
	return &BatchEncoder{table: stringTable{index: make(map[string]uint32, 64)}}
}

// EncodeTo appends the batch encoding of patches to e. On error the
// encoder may hold a partial batch; callers reset it before reuse.
func (be *BatchEncoder) EncodeTo(e *Encoder, patches []vtree.Patch) error {
	if uint64(len(patches)) > math.MaxUint32 {
		return ErrOverflow
	}
	be.table.reset()

	e.WriteUint32(uint32(len(patches)))
	for i := range patches {
		if err := be.encodeEntry(e, &patches[i]); err != nil {
			return err
		}
	}

	e.WriteUvarint(uint64(len(be.table.values)))
	for _, s := range be.table.values {
		e.WriteString(s)
	}
	return nil
}

// EncodePatchesTo appends a sequenced patches payload: uvarint sequence
// number followed by the batch. This is the payload of a FramePatches
// frame.
func (be *BatchEncoder) EncodePatchesTo(e *Encoder, seq uint64, patches []vtree.Patch) error {
	e.WriteUvarint(seq)
	return be.EncodeTo(e, patches)
}

// EncodeBatch encodes a patch sequence into a fresh buffer.
func EncodeBatch(patches []vtree.Patch) ([]byte, error) {
	be := NewBatchEncoder()
	e := NewEncoder()
	if err := be.EncodeTo(e, patches); err != nil {
		return nil, err
	}
	out := make([]byte, e.Len())
	copy(out, e.Bytes())
	return out, nil
}

func (be *BatchEncoder) encodeEntry(e *Encoder, p *vtree.Patch) error {
	target, name, value, node := NoRef, NoRef, NoRef, NoRef

	var err error
	in := func(s string) uint32 {
		if err != nil {
			return NoRef
		}
		var ref uint32
		ref, err = be.table.intern(s)
		return ref
	}

	switch p.Op {
	case vtree.PatchAddRoot:
		node = be.internNode(p.Node, &err)

	case vtree.PatchReplaceChild:
		target = in(p.ID)
		node = be.internNode(p.Node, &err)

	case vtree.PatchAddChild:
		target = in(p.ID)
		name = in(p.Ref)
		node = be.internNode(p.Node, &err)

	case vtree.PatchRemoveChild, vtree.PatchClearChildren,
		vtree.PatchRemoveText, vtree.PatchRemoveRaw:
		target = in(p.ID)

	case vtree.PatchMoveChild:
		target = in(p.ID)
		name = in(p.Ref)

	case vtree.PatchAddAttribute, vtree.PatchUpdateAttribute,
		vtree.PatchAddHandler, vtree.PatchUpdateHandler:
		target = in(p.ID)
		name = in(p.Name)
		value = in(p.Value)

	case vtree.PatchRemoveAttribute, vtree.PatchRemoveHandler:
		target = in(p.ID)
		name = in(p.Name)

	case vtree.PatchAddText, vtree.PatchUpdateText,
		vtree.PatchAddRaw, vtree.PatchUpdateRaw, vtree.PatchReplaceRaw:
		target = in(p.ID)
		value = in(p.Value)

	default:
		return fmt.Errorf("wire: encode: unknown patch op 0x%02x", uint8(p.Op))
	}
	if err != nil {
		return err
	}

	e.WriteByte(byte(p.Op))
	e.WriteUint32(target)
	e.WriteUint32(name)
	e.WriteUint32(value)
	e.WriteUint32(node)
	return nil
}

// DecodeBatch decodes a batch buffer into the exact ordered patch
// sequence it was encoded from. A malformed buffer yields a
// *DecodeError and no patches.
func DecodeBatch(data []byte) ([]vtree.Patch, error) {
	return DecodeBatchFrom(NewDecoder(data))
}

// DecodePatches decodes a sequenced patches payload (uvarint sequence
// number + batch), the payload of a FramePatches frame.
func DecodePatches(data []byte) (uint64, []vtree.Patch, error) {
	d := NewDecoder(data)
	seq, err := d.ReadUvarint()
	if err != nil {
		return 0, nil, decodeErr(d, err)
	}
	patches, err := DecodeBatchFrom(d)
	if err != nil {
		return 0, nil, err
	}
	return seq, patches, nil
}

// DecodeBatchFrom decodes one batch from the decoder, leaving it
// positioned after the string table.
func DecodeBatchFrom(d *Decoder) ([]vtree.Patch, error) {
	count32, err := d.ReadUint32()
	if err != nil {
		return nil, decodeErr(d, err)
	}
	if count32 > MaxCollectionCount {
		return nil, decodeErr(d, ErrCollectionTooLarge)
	}
	count := int(count32)

	// Entries are fixed-size, so the string table is at a known offset;
	// read it first, then resolve entries against it.
	entriesOff := d.Position()
	if err := d.Skip(count * entrySize); err != nil {
		return nil, decodeErr(d, err)
	}

	tableLen, err := d.ReadCollectionCount()
	if err != nil {
		return nil, decodeErr(d, err)
	}
	table := make([]string, tableLen)
	for i := range table {
		if table[i], err = d.ReadString(); err != nil {
			return nil, decodeErr(d, err)
		}
	}

	ed := NewDecoder(d.buf[entriesOff : entriesOff+count*entrySize])
	patches := make([]vtree.Patch, count)
	for i := range patches {
		if err := decodeEntry(ed, table, &patches[i]); err != nil {
			return nil, &DecodeError{Offset: entriesOff + ed.Position(), Err: err}
		}
	}
	return patches, nil
}

func decodeEntry(d *Decoder, table []string, p *vtree.Patch) error {
	op, err := d.ReadByte()
	if err != nil {
		return err
	}

	var refs [4]uint32
	for i := range refs {
		if refs[i], err = d.ReadUint32(); err != nil {
			return err
		}
	}

	resolve := func(ref uint32) string {
		if err != nil || ref == NoRef {
			return ""
		}
		if int64(ref) >= int64(len(table)) {
			err = ErrBadStringRef
			return ""
		}
		return table[ref]
	}

	p.Op = vtree.PatchOp(op)
	switch p.Op {
	case vtree.PatchAddRoot:
		if err == nil {
			p.Node, err = resolveNode(refs[3], table)
		}

	case vtree.PatchReplaceChild:
		p.ID = resolve(refs[0])
		if err == nil {
			p.Node, err = resolveNode(refs[3], table)
		}

	case vtree.PatchAddChild:
		p.ID = resolve(refs[0])
		p.Ref = resolve(refs[1])
		if err == nil {
			p.Node, err = resolveNode(refs[3], table)
		}

	case vtree.PatchRemoveChild, vtree.PatchClearChildren,
		vtree.PatchRemoveText, vtree.PatchRemoveRaw:
		p.ID = resolve(refs[0])

	case vtree.PatchMoveChild:
		p.ID = resolve(refs[0])
		p.Ref = resolve(refs[1])

	case vtree.PatchAddAttribute, vtree.PatchUpdateAttribute,
		vtree.PatchAddHandler, vtree.PatchUpdateHandler:
		p.ID = resolve(refs[0])
		p.Name = resolve(refs[1])
		p.Value = resolve(refs[2])

	case vtree.PatchRemoveAttribute, vtree.PatchRemoveHandler:
		p.ID = resolve(refs[0])
		p.Name = resolve(refs[1])

	case vtree.PatchAddText, vtree.PatchUpdateText,
		vtree.PatchAddRaw, vtree.PatchUpdateRaw, vtree.PatchReplaceRaw:
		p.ID = resolve(refs[0])
		p.Value = resolve(refs[2])

	default:
		return ErrUnknownOp
	}
	return err
}

// resolveNode decodes the node blob referenced by ref, or nil for NoRef.
func resolveNode(ref uint32, table []string) (*vtree.Node, error) {
	if ref == NoRef {
		return nil, nil
	}
	if int64(ref) >= int64(len(table)) {
		return nil, ErrBadStringRef
	}
	return decodeNodeBlob(table[ref], table)
}
