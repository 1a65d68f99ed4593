package domtree

import (
	"fmt"
	"io"
	"log"

	"github.com/pagereplay/treediff"
)

// TextName is the sentinel tag name every Text node reports.
const TextName = "text"

// voidElements cannot have children and serialize as self-closing tags.
// "garea" is carried over unchanged from the source implementation this
// module was distilled from, which used the same spelling; it looks
// like a typo for "area" but is preserved here rather than silently
// "fixed", per an open question worth flagging to maintainers.
var voidElements = map[string]bool{
	"garea": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// IsVoidElement reports whether name is in the void-element set.
func IsVoidElement(name string) bool { return voidElements[name] }

// Node is the common interface for Element and Text. Parent pointers
// are logical back-references (the owning reference to any non-root
// node is its parent's children slice), never an owning cycle.
type Node interface {
	Name() string
	ID() NodeID
	Parent() *Element
	PostID() int
	NumNodes() int

	DeepCopy(parent *Element) Node
	setPostOrderID(next int, sink *[]Node) int
	LeftmostLeaf() Node
	FindByPostID(id int) Node
	GetMergeChanges(other Node) ([]MergeChange, error)
	EqualWOcpid(other Node) bool
	IsAncestor(candidate Node) bool
	UpdateID(newIndex int)
	UpdateParent(newParent *Element, newIndex int)
	GetPath() *Path
	WriteHTML(w io.Writer) error

	setParent(*Element)
	setPostID(int)
	nameAndPayloadKey() string
}

// base holds the fields and behavior common to Element and Text.
type base struct {
	id     NodeID
	parent *Element
	postID int
	path   *Path
}

func (b *base) ID() NodeID         { return b.id }
func (b *base) Parent() *Element   { return b.parent }
func (b *base) PostID() int        { return b.postID }
func (b *base) setParent(p *Element) { b.parent = p }
func (b *base) setPostID(id int)   { b.postID = id }

// updateID recomputes this node's cpid from its (possibly just
// changed) parent's cpid and the given new index.
func (b *base) updateID(newIndex int) {
	if b.parent == nil {
		b.id = RootID()
		return
	}
	b.id = ChildID(b.parent.id, newIndex)
}

// isAncestor walks parents upward looking for a cpid match. A cpid
// match with a differing name is logged, not treated as a match: it
// indicates a node shifted under a still-in-flight edit sequence.
func isAncestor(start *Element, candidateID NodeID, candidateName string) bool {
	for ancestor := start; ancestor != nil; ancestor = ancestor.parent {
		if ancestor.id.Equal(candidateID) {
			if ancestor.name == candidateName {
				return true
			}
			log.Printf("domtree: ancestor with matching cpid %s but name %q != %q", ancestor.id, ancestor.name, candidateName)
		}
	}
	return false
}

// GetPath lazily computes and caches the root-to-node Path.
func (b *base) getPath(self Node) *Path {
	if b.path != nil {
		return b.path
	}
	if b.parent == nil {
		b.path = &Path{nodes: []Node{self}}
		return b.path
	}
	parentPath := b.parent.GetPath()
	nodes := make([]Node, len(parentPath.nodes)+1)
	copy(nodes, parentPath.nodes)
	nodes[len(parentPath.nodes)] = self
	b.path = &Path{nodes: nodes}
	return b.path
}

// Element is a tag node: a name, attributes, and ordered children.
type Element struct {
	base
	name     string
	attrs    map[string]AttrValue
	attrKeys []string // insertion order, for deterministic serialization
	children []Node
}

// NewElement creates an Element with the given name under parent at
// childIndex (parent may be nil only for a tree root).
func NewElement(name string, parent *Element, childIndex int) *Element {
	e := &Element{name: name, attrs: make(map[string]AttrValue)}
	e.parent = parent
	if parent == nil {
		e.id = RootID()
	} else {
		e.id = ChildID(parent.id, childIndex)
	}
	e.postID = -1
	return e
}

func (e *Element) Name() string { return e.name }

// SetAttr sets or overwrites an attribute, preserving first-seen order
// for serialization.
func (e *Element) SetAttr(key string, value AttrValue) {
	if _, exists := e.attrs[key]; !exists {
		e.attrKeys = append(e.attrKeys, key)
	}
	e.attrs[key] = value
}

// Attr returns the attribute value and whether it is present.
func (e *Element) Attr(key string) (AttrValue, bool) {
	v, ok := e.attrs[key]
	return v, ok
}

// RemoveAttr deletes an attribute if present.
func (e *Element) RemoveAttr(key string) {
	if _, exists := e.attrs[key]; !exists {
		return
	}
	delete(e.attrs, key)
	for i, k := range e.attrKeys {
		if k == key {
			e.attrKeys = append(e.attrKeys[:i], e.attrKeys[i+1:]...)
			break
		}
	}
}

// AttrNames returns attribute names in first-seen order.
func (e *Element) AttrNames() []string {
	out := make([]string, len(e.attrKeys))
	copy(out, e.attrKeys)
	return out
}

// Children returns the live children slice (callers must not retain
// it across a mutation).
func (e *Element) Children() []Node { return e.children }

// SetChildren replaces the children slice wholesale without refreshing
// any cpids or parent pointers (used by Delete.Apply, Insert.ShadowApply
// and patcher insertion).
func (e *Element) SetChildren(children []Node) { e.children = children }

func (e *Element) DeepCopy(parent *Element) Node {
	cp := &Element{name: e.name, attrs: make(map[string]AttrValue, len(e.attrs))}
	cp.parent = parent
	if parent == nil {
		cp.id = RootID()
	} else {
		cp.id = ChildID(parent.id, e.id.LastIndex())
	}
	cp.postID = -1
	for _, k := range e.attrKeys {
		cp.attrs[k] = e.attrs[k]
		cp.attrKeys = append(cp.attrKeys, k)
	}
	cp.children = make([]Node, len(e.children))
	for i, child := range e.children {
		cp.children[i] = child.DeepCopy(cp)
	}
	return cp
}

func (e *Element) setPostOrderID(next int, sink *[]Node) int {
	for _, child := range e.children {
		next = child.setPostOrderID(next, sink)
	}
	e.postID = next
	*sink = append(*sink, e)
	return next + 1
}

func (e *Element) LeftmostLeaf() Node {
	if len(e.children) == 0 {
		return e
	}
	return e.children[0].LeftmostLeaf()
}

func (e *Element) FindByPostID(id int) Node {
	if e.postID == id {
		return e
	}
	for _, child := range e.children {
		if child.PostID() == id {
			return child
		}
		if child.PostID() > id {
			return child.FindByPostID(id)
		}
	}
	return nil
}

// GetMergeChanges compares two Elements attribute by attribute: REMOVE
// for attributes missing from other, CHANGE for attributes whose value
// differs (unless both are token sequences and other's tokens are all
// contained in this one's), ADD for attributes only in other.
func (e *Element) GetMergeChanges(other Node) ([]MergeChange, error) {
	o, ok := other.(*Element)
	if !ok || o.name != e.name {
		return nil, fmt.Errorf("%w: cannot merge %q with differently-typed/named node", errInvalidMerge, e.name)
	}

	var changes []MergeChange
	for _, key := range e.attrKeys {
		thisValue := e.attrs[key]
		otherValue, exists := o.attrs[key]
		if !exists {
			changes = append(changes, removeChange(key))
			continue
		}
		if thisValue.Equal(otherValue) {
			continue
		}
		if thisValue.IsTokens() && otherValue.IsTokens() {
			if SubsetOf(otherValue.Tokens(), thisValue.Tokens()) {
				// other's tokens are already a subset of self's: no
				// change needed even though self carries extra tokens.
				continue
			}
		}
		changes = append(changes, changeChange(key, otherValue))
	}
	for _, key := range o.attrKeys {
		if _, exists := e.attrs[key]; !exists {
			changes = append(changes, addChange(key, o.attrs[key]))
		}
	}
	return changes, nil
}

func (e *Element) EqualWOcpid(other Node) bool {
	o, ok := other.(*Element)
	if !ok || o.name != e.name {
		return false
	}
	if len(e.attrKeys) != len(o.attrKeys) {
		return false
	}
	for _, k := range e.attrKeys {
		ov, exists := o.attrs[k]
		if !exists || !ov.Equal(e.attrs[k]) {
			return false
		}
	}
	return true
}

func (e *Element) IsAncestor(candidate Node) bool {
	return isAncestor(e.parent, candidate.ID(), nameOf(candidate))
}

func (e *Element) UpdateID(newIndex int) {
	e.updateID(newIndex)
	for i, child := range e.children {
		child.UpdateID(i)
	}
}

func (e *Element) UpdateParent(newParent *Element, newIndex int) {
	e.parent = newParent
	e.UpdateID(newIndex)
}

func (e *Element) GetPath() *Path { return e.getPath(e) }

func (e *Element) NumNodes() int {
	n := 1
	for _, c := range e.children {
		n += c.NumNodes()
	}
	return n
}

func (e *Element) nameAndPayloadKey() string {
	out := e.name + "|"
	for _, k := range e.attrKeys {
		out += k + "=" + e.attrs[k].String() + ";"
	}
	return out
}

// AppendChild appends n to e's children, reseats its parent, and
// refreshes the cpids of the appended subtree.
func (e *Element) AppendChild(n Node) {
	index := len(e.children)
	e.children = append(e.children, n)
	n.setParent(e)
	n.UpdateID(index)
}

// RemoveSubtree removes n (matched by identity) from e's children and
// refreshes the cpids of the later siblings.
func (e *Element) RemoveSubtree(n Node) {
	idx := -1
	for i, c := range e.children {
		if c == n {
			idx = i
			break
		}
	}
	if idx == -1 {
		return
	}
	e.children = append(e.children[:idx], e.children[idx+1:]...)
	for i := idx; i < len(e.children); i++ {
		e.children[i].UpdateID(i)
	}
}

// Text is a text-content node.
type Text struct {
	base
	content string
}

// NewText creates a Text node at childIndex under parent.
func NewText(content string, parent *Element, childIndex int) *Text {
	t := &Text{content: content}
	t.parent = parent
	if parent == nil {
		t.id = RootID()
	} else {
		t.id = ChildID(parent.id, childIndex)
	}
	t.postID = -1
	return t
}

func (t *Text) Name() string { return TextName }

// Content returns the raw text content.
func (t *Text) Content() string { return t.content }

// SetContent overwrites the raw text content (used by Merge.Apply and
// Strip).
func (t *Text) SetContent(s string) { t.content = s }

func (t *Text) DeepCopy(parent *Element) Node {
	cp := &Text{content: t.content}
	cp.parent = parent
	if parent == nil {
		cp.id = RootID()
	} else {
		cp.id = ChildID(parent.id, t.id.LastIndex())
	}
	cp.postID = -1
	return cp
}

func (t *Text) setPostOrderID(next int, sink *[]Node) int {
	t.postID = next
	*sink = append(*sink, t)
	return next + 1
}

func (t *Text) LeftmostLeaf() Node { return t }

func (t *Text) FindByPostID(id int) Node {
	if t.postID == id {
		return t
	}
	return nil
}

// GetMergeChanges compares two Text nodes by content: no change when
// equal, ADD/REMOVE when exactly one side is empty, CHANGE otherwise.
func (t *Text) GetMergeChanges(other Node) ([]MergeChange, error) {
	o, ok := other.(*Text)
	if !ok {
		return nil, fmt.Errorf("%w: cannot merge text node with non-text node", errInvalidMerge)
	}
	if t.content == o.content {
		return nil, nil
	}
	if t.content == "" {
		return []MergeChange{addChange("content", StringAttr(o.content))}, nil
	}
	if o.content == "" {
		return []MergeChange{removeChange("content")}, nil
	}
	return []MergeChange{changeChange("content", StringAttr(o.content))}, nil
}

func (t *Text) EqualWOcpid(other Node) bool {
	o, ok := other.(*Text)
	return ok && o.content == t.content
}

func (t *Text) IsAncestor(candidate Node) bool {
	return isAncestor(t.parent, candidate.ID(), nameOf(candidate))
}

func (t *Text) UpdateID(newIndex int) { t.updateID(newIndex) }

func (t *Text) UpdateParent(newParent *Element, newIndex int) {
	t.parent = newParent
	t.updateID(newIndex)
}

func (t *Text) GetPath() *Path { return t.getPath(t) }

func (t *Text) NumNodes() int { return 1 }

func (t *Text) nameAndPayloadKey() string {
	return TextName + "|" + t.content
}

func nameOf(n Node) string { return n.Name() }

var errInvalidMerge = treediff.ErrInvalidInput
