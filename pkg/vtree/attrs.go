package vtree

// diffAttrs compares the ordered attribute sets of two elements known
// to share identity and appends attribute/handler patches.
//
// A changed value is always a single Update, never a Remove+Add pair:
// remove+add would re-register handlers and flicker attribute state at
// the sink for the common case of a changing value on a stable name.
// Unchanged sets emit nothing.
//
// Boolean attributes (present with empty value = true) need no special
// casing here: "" is an ordinary value, so true<->false transitions
// surface as Add/Remove with an empty value on every code path.
func (d *Differ) diffAttrs(old, next *Node, out *[]Patch) {
	if len(old.Attrs) == 0 && len(next.Attrs) == 0 {
		return
	}

	f := d.arena.push()
	for i, at := range old.Attrs {
		f.oldIdx[at.Name] = i
	}

	// Adds and updates in new-attribute order. Matched names are
	// removed from the index so what remains is exactly the removals.
	for _, at := range next.Attrs {
		if i, ok := f.oldIdx[at.Name]; ok {
			if old.Attrs[i].Value != at.Value {
				if isHandlerName(at.Name) {
					*out = append(*out, NewUpdateHandlerPatch(old.ID, at.Name, at.Value))
				} else {
					*out = append(*out, NewUpdateAttributePatch(old.ID, at.Name, at.Value))
				}
			}
			delete(f.oldIdx, at.Name)
		} else {
			if isHandlerName(at.Name) {
				*out = append(*out, NewAddHandlerPatch(old.ID, at.Name, at.Value))
			} else {
				*out = append(*out, NewAddAttributePatch(old.ID, at.Name, at.Value))
			}
		}
	}

	// Removals in old-attribute order.
	if len(f.oldIdx) > 0 {
		for _, at := range old.Attrs {
			if _, ok := f.oldIdx[at.Name]; !ok {
				continue
			}
			if isHandlerName(at.Name) {
				*out = append(*out, NewRemoveHandlerPatch(old.ID, at.Name))
			} else {
				*out = append(*out, NewRemoveAttributePatch(old.ID, at.Name))
			}
		}
	}

	d.arena.pop()
}
