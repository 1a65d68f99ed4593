package domtree

import (
	"fmt"

	"github.com/pagereplay/treediff"
)

// Tree wraps a parsed document: a name (its source file/label), the
// root Element, and a post_id-indexed node index built once at
// construction time. Index 0 is a dummy sentinel since post_ids start
// at 1, matching the numbering the external solver expects.
type Tree struct {
	Name string
	root *Element

	nodes          []Node
	leftmostLeaves []Node
}

// NewTree assigns post_ids to every node in root's subtree (post-order)
// and builds the lookup caches used by FindByPostID and move-detection.
func NewTree(name string, root *Element) *Tree {
	t := &Tree{Name: name, root: root}
	t.nodes = make([]Node, 1, root.NumNodes()+1)
	t.nodes[0] = NewElement("dummy", nil, 0)
	root.setPostOrderID(1, &t.nodes)
	t.cacheLeftmostLeaves()
	return t
}

// Root returns the tree's root Element.
func (t *Tree) Root() *Element { return t.root }

// Len returns the number of real (non-dummy) nodes, equal to the
// root's post_id.
func (t *Tree) Len() int { return t.root.PostID() }

// DeepCopy produces an independent tree with freshly assigned post_ids.
func (t *Tree) DeepCopy() *Tree {
	rootCopy := t.root.DeepCopy(nil).(*Element)
	return NewTree(t.Name, rootCopy)
}

func (t *Tree) cacheLeftmostLeaves() {
	t.leftmostLeaves = make([]Node, t.Len()+1)
	queue := []Node{t.root}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		t.leftmostLeaves[current.PostID()] = current.LeftmostLeaf()
		if el, ok := current.(*Element); ok {
			queue = append(queue, el.children...)
		}
	}
}

// LeftmostLeaf returns the cached leftmost-leaf node for the given
// post_id, used by the Zhang-Shasha style LR-keyroot computation that
// the external solver performs; retained here for parity checks.
func (t *Tree) LeftmostLeaf(postID int) Node {
	return t.leftmostLeaves[postID]
}

// FindByPostID returns the node with the given post_id, or an error if
// out of range.
func (t *Tree) FindByPostID(id int) (Node, error) {
	if id < 0 || id >= len(t.nodes) {
		return nil, fmt.Errorf("%w: invalid post_id %d", treediff.ErrInvalidInput, id)
	}
	return t.nodes[id], nil
}

// FindByCpid walks the tree along the cpid's child-index path.
func (t *Tree) FindByCpid(id NodeID) (Node, error) {
	path := id.Path()
	if len(path) == 0 {
		return nil, fmt.Errorf("%w: empty cpid", treediff.ErrInvalidInput)
	}
	var current Node = t.root
	children := []Node{t.root}
	for i, childIndex := range path {
		if childIndex < 0 || childIndex >= len(children) {
			return nil, fmt.Errorf("%w: cpid %s out of range at depth %d", treediff.ErrInvalidInput, id, i)
		}
		current = children[childIndex]
		if el, ok := current.(*Element); ok {
			children = el.children
		} else if i != len(path)-1 {
			return nil, fmt.Errorf("%w: cpid %s descends past a text node", treediff.ErrInvalidInput, id)
		}
	}
	return current, nil
}

