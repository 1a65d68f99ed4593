package editscript

import (
	"fmt"
	"strings"

	treediff "github.com/pagereplay/treediff"
	"github.com/pagereplay/treediff/internal/domtree"
)

// Merge reconciles a source node with its mapped target: Apply keeps
// only what both sides agree on (dropping attributes/content that
// differ), and ShadowApply additionally detects whether the node
// needs to move to match the target's position, emitting a move
// record when it does.
type Merge struct {
	Source, Target domtree.Node
	Changes        []domtree.MergeChange
}

// NewMerge computes the attribute/content diff between source and
// target up front; source and target must share a tag name (or both
// be Text nodes).
func NewMerge(source, target domtree.Node) (*Merge, error) {
	changes, err := source.GetMergeChanges(target)
	if err != nil {
		return nil, err
	}
	return &Merge{Source: source, Target: target, Changes: changes}, nil
}

func (m *Merge) CPID() domtree.NodeID     { return m.Target.ID() }
func (m *Merge) SourceNode() domtree.Node { return m.Source }

// Cost is 0 when source and target already agree (a pure position
// check, resolved only by ShadowApply), 1 otherwise.
func (m *Merge) Cost() int {
	if len(m.Changes) > 0 {
		return 1
	}
	return 0
}

func (m *Merge) String() string {
	return fmt.Sprintf("Merge post_id=%d %s -> %s", m.Source.PostID(), m.Source.Name(), m.Target.Name())
}

// Apply narrows the subject node found at Source's post_id down to
// the content shared with Target.
func (m *Merge) Apply(subject *domtree.Tree) error {
	found, err := subject.FindByPostID(m.Source.PostID())
	if err != nil {
		return err
	}

	if text, ok := found.(*domtree.Text); ok {
		if len(m.Changes) > 0 {
			text.SetContent("")
		}
		return nil
	}

	el, ok := found.(*domtree.Element)
	if !ok {
		return fmt.Errorf("%w: merge target is neither text nor element", treediff.ErrInvariantViolation)
	}
	sourceEl, _ := m.Source.(*domtree.Element)
	targetEl, _ := m.Target.(*domtree.Element)

	for _, c := range m.Changes {
		switch c.Type {
		case domtree.OpRemove:
			el.RemoveAttr(c.Key)
		case domtree.OpChange:
			if !c.Value.IsTokens() {
				value := c.Value.String()
				if strings.HasPrefix(c.Key, "data-") && (strings.Contains(value, "[") || strings.Contains(value, "]")) {
					el.SetAttr(c.Key, domtree.StringAttr(""))
				} else {
					el.RemoveAttr(c.Key)
				}
				continue
			}
			var sourceTokens, targetTokens []string
			if sourceEl != nil {
				if v, ok := sourceEl.Attr(c.Key); ok {
					sourceTokens = v.Tokens()
				}
			}
			if targetEl != nil {
				if v, ok := targetEl.Attr(c.Key); ok {
					targetTokens = v.Tokens()
				}
			}
			el.SetAttr(c.Key, domtree.TokenAttr(domtree.IntersectTokens(sourceTokens, targetTokens)))
		case domtree.OpAdd:
			// not applied: the attribute only exists on the target side.
		}
	}
	return nil
}

// JSON renders this edit for the browser-side patcher. Only non-zero
// cost Merges reach this (the sequence generator skips cost-0 edits).
func (m *Merge) JSON() map[string]any {
	out := map[string]any{"cpid": m.Target.ID().Path()}
	if el, ok := m.Target.(*domtree.Element); ok {
		out["n"] = el.Name()
		attrs := make(map[string]any, len(m.Changes))
		for _, c := range m.Changes {
			if c.Type == domtree.OpRemove {
				attrs[c.Key] = nil
				continue
			}
			if c.Value.IsTokens() {
				attrs[c.Key] = c.Value.Tokens()
			} else {
				attrs[c.Key] = c.Value.String()
			}
		}
		out["attrs"] = attrs
		return out
	}

	if len(m.Changes) == 1 {
		if m.Changes[0].Type == domtree.OpRemove {
			out["c"] = ""
		} else {
			out["c"] = m.Target.(*domtree.Text).Content()
		}
	}
	return out
}

// ShadowApply checks whether the subject node sits where Target
// expects it to; if not, it detaches and reattaches the node under
// its expected parent and returns a move record.
func (m *Merge) ShadowApply(subject *domtree.Tree) (map[string]any, error) {
	found, err := subject.FindByPostID(m.Source.PostID())
	if err != nil {
		return nil, err
	}
	if found.ID().Equal(m.Target.ID()) {
		return nil, nil
	}

	if !m.Target.IsAncestor(found.Parent()) {
		return nil, fmt.Errorf("%w: cannot resolve move for post_id=%d: found.cpid=%s target.cpid=%s",
			treediff.ErrInvariantViolation, m.Source.PostID(), found.ID(), m.Target.ID())
	}

	moveJSON := map[string]any{"cpid": found.ID().Path()}
	found.Parent().RemoveSubtree(found)

	expectedParentNode, err := subject.FindByCpid(m.Target.Parent().ID())
	if err != nil {
		return nil, err
	}
	expectedParent, ok := expectedParentNode.(*domtree.Element)
	if !ok {
		return nil, fmt.Errorf("%w: expected move parent is not an element", treediff.ErrInvariantViolation)
	}
	expectedParent.AppendChild(found)

	moveJSON["np"] = m.Target.Parent().ID().Path()
	moveJSON["j"] = m.Target.ID().LastIndex()
	return moveJSON, nil
}
