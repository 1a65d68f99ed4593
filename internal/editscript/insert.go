package editscript

import (
	"fmt"

	treediff "github.com/pagereplay/treediff"
	"github.com/pagereplay/treediff/internal/domtree"
)

// Insert adds Target (a node only present in the second tree) into
// the subject tree. Apply is a no-op: the node's eventual position is
// established by ShadowApply when producing a JSON patch, or by the
// Delete/Merge edits that already shaped the common tree when
// generating one.
type Insert struct {
	Target domtree.Node
}

// NewInsert builds an Insert for the given target node. Target must
// not be a tree root.
func NewInsert(target domtree.Node) (*Insert, error) {
	if target.Parent() == nil {
		return nil, fmt.Errorf("%w: cannot insert a root node into another tree", treediff.ErrInvalidInput)
	}
	return &Insert{Target: target}, nil
}

func (i *Insert) CPID() domtree.NodeID     { return i.Target.ID() }
func (i *Insert) Cost() int                { return 1 }
func (i *Insert) SourceNode() domtree.Node { return i.Target }

func (i *Insert) String() string {
	return fmt.Sprintf("Insert %s (post_id=%d)", i.Target.Name(), i.Target.PostID())
}

// Apply does nothing: common-tree generation filters Inserts out
// entirely before applying the remaining edits.
func (i *Insert) Apply(subject *domtree.Tree) error { return nil }

// JSON renders this edit for the browser-side patcher: the parent's
// cpid plus the target index the new node belongs at.
func (i *Insert) JSON() map[string]any {
	out := map[string]any{
		"cpid": i.Target.Parent().ID().Path(),
		"i":    i.Target.ID().LastIndex(),
	}
	if el, ok := i.Target.(*domtree.Element); ok {
		out["n"] = el.Name()
		attrs := make(map[string]any, len(el.AttrNames()))
		for _, name := range el.AttrNames() {
			v, _ := el.Attr(name)
			if v.IsTokens() {
				attrs[name] = v.Tokens()
			} else {
				attrs[name] = v.String()
			}
		}
		out["attrs"] = attrs
	} else {
		out["c"] = i.Target.(*domtree.Text).Content()
	}
	return out
}

// ShadowApply inserts a childless copy of Target into the subject
// tree at its expected position, so later Merge edits on its
// descendants (already present in the subject, per the mapping) land
// on a DOM that matches what a real browser patcher would have built.
func (i *Insert) ShadowApply(subject *domtree.Tree) (map[string]any, error) {
	parentID := i.Target.Parent().ID()
	parentNode, err := subject.FindByCpid(parentID)
	if err != nil {
		return nil, err
	}
	parent, ok := parentNode.(*domtree.Element)
	if !ok {
		return nil, fmt.Errorf("%w: insert target's parent is not an element", treediff.ErrInvariantViolation)
	}

	targetIndex := i.Target.ID().LastIndex()
	copyNode := i.Target.DeepCopy(parent)
	if el, ok := copyNode.(*domtree.Element); ok {
		el.SetChildren(nil)
	}
	parent.InsertChildAt(targetIndex, copyNode)
	return nil, nil
}
