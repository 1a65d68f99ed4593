package editscript

import (
	"fmt"

	treediff "github.com/pagereplay/treediff"
	"github.com/pagereplay/treediff/internal/domtree"
)

// Delete removes Source from the subject tree, reattaching its
// children (if any) to its former parent in place.
type Delete struct {
	Source domtree.Node
}

// NewDelete builds a Delete for the given source node.
func NewDelete(source domtree.Node) *Delete { return &Delete{Source: source} }

func (d *Delete) CPID() domtree.NodeID { return d.Source.ID() }
func (d *Delete) Cost() int            { return 1 }
func (d *Delete) SourceNode() domtree.Node { return d.Source }

func (d *Delete) String() string {
	return fmt.Sprintf("Delete %s (post_id=%d)", d.Source.Name(), d.Source.PostID())
}

// Apply removes the node found at Source's post_id from the subject
// tree. If it is an Element, its children are spliced into its
// parent's children at the removed position, preserving order.
func (d *Delete) Apply(subject *domtree.Tree) error {
	found, err := subject.FindByPostID(d.Source.PostID())
	if err != nil {
		return err
	}
	parent := found.Parent()
	if parent == nil {
		return fmt.Errorf("%w: cannot delete a tree root", treediff.ErrInvariantViolation)
	}

	siblings := parent.Children()
	sourceIndex := indexOf(siblings, found)
	if sourceIndex < 0 {
		return fmt.Errorf("%w: node not found among its parent's children", treediff.ErrInvariantViolation)
	}

	newChildren := append([]domtree.Node{}, siblings[:sourceIndex]...)
	promotedCount := 0
	if el, ok := found.(*domtree.Element); ok {
		promotedCount = len(el.Children())
		for i, child := range el.Children() {
			child.UpdateParent(parent, sourceIndex+i)
		}
		newChildren = append(newChildren, el.Children()...)
	}

	for j := sourceIndex + 1; j < len(siblings); j++ {
		siblings[j].UpdateID(promotedCount + j - 1)
	}
	newChildren = append(newChildren, siblings[sourceIndex+1:]...)
	parent.SetChildren(newChildren)
	return nil
}

// ShadowApply performs exactly Apply's mutation; a Delete is always
// kept in the resulting JSON patch, so no move record is returned.
func (d *Delete) ShadowApply(subject *domtree.Tree) (map[string]any, error) {
	return nil, d.Apply(subject)
}

// JSON renders this edit for the browser-side patcher.
func (d *Delete) JSON() map[string]any {
	out := map[string]any{
		"type":     "Delete",
		"cpid":     d.Source.ID().Path(),
		"tag_name": d.Source.Name(),
	}
	if t, ok := d.Source.(*domtree.Text); ok {
		out["content"] = t.Content()
	}
	return out
}

func indexOf(nodes []domtree.Node, target domtree.Node) int {
	for i, n := range nodes {
		if n == target {
			return i
		}
	}
	return -1
}
