package mapping

import (
	"fmt"

	treediff "github.com/pagereplay/treediff"
	"github.com/pagereplay/treediff/internal/domtree"
	"github.com/pagereplay/treediff/internal/editscript"
)

// Translate converts raw solver pairs into a sorted edit Sequence: a
// post_id of 0 on one side means the other side's node was
// inserted/deleted, and a nonzero pair on both sides becomes a Merge.
func Translate(first, second *domtree.Tree, pairs []Pair) (*editscript.Sequence, error) {
	edits := make([]editscript.Edit, 0, len(pairs))
	for _, p := range pairs {
		switch {
		case p.Source == 0:
			target, err := second.FindByPostID(p.Target)
			if err != nil {
				return nil, fmt.Errorf("%w: insert target post_id=%d: %v", treediff.ErrInvalidInput, p.Target, err)
			}
			ins, err := editscript.NewInsert(target)
			if err != nil {
				return nil, err
			}
			edits = append(edits, ins)
		case p.Target == 0:
			source, err := first.FindByPostID(p.Source)
			if err != nil {
				return nil, fmt.Errorf("%w: delete source post_id=%d: %v", treediff.ErrInvalidInput, p.Source, err)
			}
			edits = append(edits, editscript.NewDelete(source))
		default:
			source, err := first.FindByPostID(p.Source)
			if err != nil {
				return nil, fmt.Errorf("%w: merge source post_id=%d: %v", treediff.ErrInvalidInput, p.Source, err)
			}
			target, err := second.FindByPostID(p.Target)
			if err != nil {
				return nil, fmt.Errorf("%w: merge target post_id=%d: %v", treediff.ErrInvalidInput, p.Target, err)
			}
			merge, err := editscript.NewMerge(source, target)
			if err != nil {
				return nil, err
			}
			edits = append(edits, merge)
		}
	}
	return editscript.NewSequence(edits), nil
}
