// Package editscript turns a node mapping between two trees into a
// sorted sequence of typed edits, and turns that sequence into either
// a common tree or a minimized JSON patch.
package editscript

import (
	"github.com/pagereplay/treediff/internal/domtree"
)

// Edit is one atomic transformation discovered from the node mapping.
// Apply mutates a copy of the source tree toward the shared content;
// ShadowApply additionally simulates what a browser-side patcher would
// do, surfacing subtree moves that Apply alone does not model.
type Edit interface {
	CPID() domtree.NodeID
	Cost() int
	Apply(subject *domtree.Tree) error
	ShadowApply(subject *domtree.Tree) (map[string]any, error)
	JSON() map[string]any
	SourceNode() domtree.Node
	String() string
}
