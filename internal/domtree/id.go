package domtree

import (
	"fmt"
	"strings"
)

// NodeID is a child-path id: the sequence of child indices from the
// root to a node. It is immutable once constructed and totally ordered
// in a way consistent with a depth-first, left-to-right walk where a
// parent precedes its descendants.
type NodeID struct {
	path []int
}

// RootID returns the NodeID of a tree root.
func RootID() NodeID {
	return NodeID{path: []int{0}}
}

// ChildID appends index to parent's path.
func ChildID(parent NodeID, index int) NodeID {
	path := make([]int, len(parent.path)+1)
	copy(path, parent.path)
	path[len(parent.path)] = index
	return NodeID{path: path}
}

// NodeIDFromPath builds a NodeID directly from a child-index sequence
// given as a plain int slice; the slice is copied.
func NodeIDFromPath(path []int) NodeID {
	cp := make([]int, len(path))
	copy(cp, path)
	return NodeID{path: cp}
}

// Path returns the full root-to-node sequence of child indices.
func (id NodeID) Path() []int {
	return id.path
}

// LastIndex returns this node's index in its parent's children.
func (id NodeID) LastIndex() int {
	if len(id.path) == 0 {
		return 0
	}
	return id.path[len(id.path)-1]
}

// Equal reports whether the two cpids name the same node.
func (id NodeID) Equal(other NodeID) bool {
	if len(id.path) != len(other.path) {
		return false
	}
	for i := range id.path {
		if id.path[i] != other.path[i] {
			return false
		}
	}
	return true
}

// Less implements the total order: compare element-wise, and treat a
// shorter path that is a prefix of the other as smaller.
func (id NodeID) Less(other NodeID) bool {
	n := len(id.path)
	if len(other.path) < n {
		n = len(other.path)
	}
	for i := 0; i < n; i++ {
		if id.path[i] < other.path[i] {
			return true
		}
		if id.path[i] > other.path[i] {
			return false
		}
	}
	return len(id.path) < len(other.path)
}

func (id NodeID) String() string {
	parts := make([]string, len(id.path))
	for i, v := range id.path {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// PathID pairs a start and end node id, identifying a root-to-node
// path by its endpoints. It supports equality only.
type PathID struct {
	Start, End NodeID
}

// Equal reports whether both endpoints match.
func (p PathID) Equal(other PathID) bool {
	return p.Start.Equal(other.Start) && p.End.Equal(other.End)
}
