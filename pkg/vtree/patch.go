package vtree

// PatchOp is the type of patch operation.
type PatchOp uint8

// Patch operation constants. The value groups mirror the wire protocol:
// 0x0x structural, 0x1x attribute/handler, 0x2x text/raw.
const (
	PatchAddRoot       PatchOp = 0x01 // Install the initial root subtree
	PatchReplaceChild  PatchOp = 0x02 // Replace a node wholesale
	PatchAddChild      PatchOp = 0x03 // Insert a subtree under a parent
	PatchRemoveChild   PatchOp = 0x04 // Remove a node
	PatchClearChildren PatchOp = 0x05 // Remove all children of a parent
	PatchMoveChild     PatchOp = 0x06 // Move a node within its parent

	PatchAddAttribute    PatchOp = 0x10 // Add attribute
	PatchRemoveAttribute PatchOp = 0x11 // Remove attribute
	PatchUpdateAttribute PatchOp = 0x12 // Update attribute value
	PatchAddHandler      PatchOp = 0x13 // Bind handler token
	PatchRemoveHandler   PatchOp = 0x14 // Unbind handler token
	PatchUpdateHandler   PatchOp = 0x15 // Rebind handler token

	PatchAddText    PatchOp = 0x20 // Set text content on an empty slot
	PatchRemoveText PatchOp = 0x21 // Clear text content
	PatchUpdateText PatchOp = 0x22 // Update text content
	PatchAddRaw     PatchOp = 0x23 // Set raw HTML on an empty slot
	PatchRemoveRaw  PatchOp = 0x24 // Clear raw HTML
	PatchReplaceRaw PatchOp = 0x25 // Replace raw HTML node
	PatchUpdateRaw  PatchOp = 0x26 // Update raw HTML in place
)

// String returns the string representation of the patch operation.
func (op PatchOp) String() string {
	switch op {
	case PatchAddRoot:
		return "AddRoot"
	case PatchReplaceChild:
		return "ReplaceChild"
	case PatchAddChild:
		return "AddChild"
	case PatchRemoveChild:
		return "RemoveChild"
	case PatchClearChildren:
		return "ClearChildren"
	case PatchMoveChild:
		return "MoveChild"
	case PatchAddAttribute:
		return "AddAttribute"
	case PatchRemoveAttribute:
		return "RemoveAttribute"
	case PatchUpdateAttribute:
		return "UpdateAttribute"
	case PatchAddHandler:
		return "AddHandler"
	case PatchRemoveHandler:
		return "RemoveHandler"
	case PatchUpdateHandler:
		return "UpdateHandler"
	case PatchAddText:
		return "AddText"
	case PatchRemoveText:
		return "RemoveText"
	case PatchUpdateText:
		return "UpdateText"
	case PatchAddRaw:
		return "AddRaw"
	case PatchRemoveRaw:
		return "RemoveRaw"
	case PatchReplaceRaw:
		return "ReplaceRaw"
	case PatchUpdateRaw:
		return "UpdateRaw"
	default:
		return "Unknown"
	}
}

// Patch is one atomic mutation instruction. Patches address nodes by ID
// only, never by position in the instruction stream, so a decoded batch
// can be replayed independently at the sink.
//
// Field use per operation:
//
//	AddRoot        Node
//	ReplaceChild   ID (replaced node), Node
//	AddChild       ID (parent), Ref (insert before; ""=append), Node
//	RemoveChild    ID
//	ClearChildren  ID (parent)
//	MoveChild      ID (moved node), Ref (move before; ""=end of list)
//	*Attribute     ID, Name, Value
//	*Handler       ID, Name, Value (opaque handler token)
//	*Text, *Raw    ID, Value
type Patch struct {
	Op    PatchOp
	ID    string
	Ref   string
	Name  string
	Value string
	Node  *Node
}

// NewAddRootPatch creates an AddRoot patch.
func NewAddRootPatch(node *Node) Patch {
	return Patch{Op: PatchAddRoot, Node: node}
}

// NewReplaceChildPatch creates a ReplaceChild patch.
func NewReplaceChildPatch(id string, node *Node) Patch {
	return Patch{Op: PatchReplaceChild, ID: id, Node: node}
}

// NewAddChildPatch creates an AddChild patch. An empty ref appends at
// the end of the parent's children.
func NewAddChildPatch(parentID, ref string, node *Node) Patch {
	return Patch{Op: PatchAddChild, ID: parentID, Ref: ref, Node: node}
}

// NewRemoveChildPatch creates a RemoveChild patch.
func NewRemoveChildPatch(id string) Patch {
	return Patch{Op: PatchRemoveChild, ID: id}
}

// NewClearChildrenPatch creates a ClearChildren patch.
func NewClearChildrenPatch(parentID string) Patch {
	return Patch{Op: PatchClearChildren, ID: parentID}
}

// NewMoveChildPatch creates a MoveChild patch. An empty ref moves the
// node to the end of its parent's children.
func NewMoveChildPatch(id, ref string) Patch {
	return Patch{Op: PatchMoveChild, ID: id, Ref: ref}
}

// NewAddAttributePatch creates an AddAttribute patch.
func NewAddAttributePatch(id, name, value string) Patch {
	return Patch{Op: PatchAddAttribute, ID: id, Name: name, Value: value}
}

// NewRemoveAttributePatch creates a RemoveAttribute patch.
func NewRemoveAttributePatch(id, name string) Patch {
	return Patch{Op: PatchRemoveAttribute, ID: id, Name: name}
}

// NewUpdateAttributePatch creates an UpdateAttribute patch.
func NewUpdateAttributePatch(id, name, value string) Patch {
	return Patch{Op: PatchUpdateAttribute, ID: id, Name: name, Value: value}
}

// NewAddHandlerPatch creates an AddHandler patch.
func NewAddHandlerPatch(id, name, token string) Patch {
	return Patch{Op: PatchAddHandler, ID: id, Name: name, Value: token}
}

// NewRemoveHandlerPatch creates a RemoveHandler patch.
func NewRemoveHandlerPatch(id, name string) Patch {
	return Patch{Op: PatchRemoveHandler, ID: id, Name: name}
}

// NewUpdateHandlerPatch creates an UpdateHandler patch.
func NewUpdateHandlerPatch(id, name, token string) Patch {
	return Patch{Op: PatchUpdateHandler, ID: id, Name: name, Value: token}
}

// NewUpdateTextPatch creates an UpdateText patch.
func NewUpdateTextPatch(id, value string) Patch {
	return Patch{Op: PatchUpdateText, ID: id, Value: value}
}

// NewUpdateRawPatch creates an UpdateRaw patch.
func NewUpdateRawPatch(id, html string) Patch {
	return Patch{Op: PatchUpdateRaw, ID: id, Value: html}
}
