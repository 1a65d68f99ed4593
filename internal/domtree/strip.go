package domtree

// StripMode controls how much of a tree's content survives a Strip
// call, so that two trees can be compared purely on structure, purely
// on textual content, or both. Nothing else in this module calls Strip;
// internal/similarity compares trees exactly as it is given them.
type StripMode int

const (
	// StripNone leaves the tree unmodified.
	StripNone StripMode = iota
	// StripAttrs removes every Element's attributes, keeping content.
	StripAttrs
	// StripBodies blanks Text content but keeps the Text nodes,
	// attributes and tag structure.
	StripBodies
	// StripBoth removes attributes, blanks text, and drops empty Text
	// nodes left behind.
	StripBoth
	// StripBothPreserveNodes removes attributes and blanks text but
	// keeps the now-empty Text nodes in place.
	StripBothPreserveNodes
)

// Strip returns a deep copy of t with the given mode applied. The
// receiver is left untouched.
func Strip(t *Tree, mode StripMode) *Tree {
	if mode == StripNone {
		return t.DeepCopy()
	}
	cp := t.DeepCopy()
	stripAttr := mode == StripAttrs || mode == StripBoth || mode == StripBothPreserveNodes
	stripBody := mode == StripBodies || mode == StripBoth || mode == StripBothPreserveNodes
	preserveNodes := mode != StripBoth
	stripElement(cp.root, stripAttr, stripBody, preserveNodes)
	return NewTree(cp.Name, cp.root)
}

// stripElement applies the requested stripping recursively.
func stripElement(e *Element, stripAttr, stripBody, preserveNodes bool) {
	if stripAttr {
		for _, key := range e.AttrNames() {
			e.RemoveAttr(key)
		}
	}

	kept := make([]Node, 0, len(e.children))
	for _, child := range e.children {
		switch c := child.(type) {
		case *Element:
			stripElement(c, stripAttr, stripBody, preserveNodes)
			kept = append(kept, c)
		case *Text:
			if stripBody {
				if preserveNodes {
					c.SetContent("")
					kept = append(kept, c)
				}
				continue
			}
			kept = append(kept, c)
		}
	}
	e.children = kept
}
