package editscript

import (
	"sort"

	"github.com/pagereplay/treediff/internal/domtree"
)

// Sequence is a sorted, cost-totaled list of edits translated from a
// node mapping between two trees.
type Sequence struct {
	Edits     []Edit
	TotalCost int
}

// NewSequence sorts edits by cpid and sums their cost.
func NewSequence(edits []Edit) *Sequence {
	sorted := append([]Edit{}, edits...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CPID().Less(sorted[j].CPID())
	})
	s := &Sequence{Edits: sorted}
	for _, e := range sorted {
		s.TotalCost += e.Cost()
	}
	return s
}

// Append returns a new Sequence with more appended after this one's
// edits, re-sorted by cpid. Costs are not renegotiated: consecutive
// delete/insert pairs are never collapsed into a cheaper combination.
func (s *Sequence) Append(more []Edit) *Sequence {
	combined := append(append([]Edit{}, s.Edits...), more...)
	return NewSequence(combined)
}

// AppendSequence returns a new Sequence combining this one's edits
// with other's, cost summed arithmetically.
func (s *Sequence) AppendSequence(other *Sequence) *Sequence {
	return s.Append(other.Edits)
}

// FilterOut removes every edit matching pred, adjusting the cached
// total cost and preserving sort order.
func (s *Sequence) FilterOut(pred func(Edit) bool) {
	kept := s.Edits[:0:0]
	for _, e := range s.Edits {
		if pred(e) {
			s.TotalCost -= e.Cost()
			continue
		}
		kept = append(kept, e)
	}
	s.Edits = kept
}

func (s *Sequence) filterOutInserts() {
	s.FilterOut(func(e Edit) bool {
		_, isInsert := e.(*Insert)
		return isInsert
	})
}

// GenerateCommonTree returns the subtree shared by source and the
// tree this sequence's edits were mapped against: Inserts are
// dropped, every edit touching a <script> once the first non-zero
// cost edit is reached is rewritten to a Delete (a partially-patched
// inline script is worse than no script at all), and the remaining
// Merge/Delete edits are applied to a copy of source.
func (s *Sequence) GenerateCommonTree(source *domtree.Tree) (*domtree.Tree, error) {
	s.filterOutInserts()
	s.cutScripts()

	common := source.DeepCopy()
	for _, e := range s.Edits {
		if err := e.Apply(common); err != nil {
			return nil, err
		}
	}
	return common, nil
}

// cutScripts rewrites script-related edits to Delete once the edit
// stream stops being entirely zero-cost Merges, matching the
// patcher's all-or-nothing treatment of inline scripts.
func (s *Sequence) cutScripts() {
	deleteScripts := false
	for i, e := range s.Edits {
		if !deleteScripts {
			if e.Cost() == 0 {
				continue
			}
			deleteScripts = true
		}
		if e.SourceNode().Name() != "script" {
			continue
		}
		if merge, ok := e.(*Merge); ok {
			s.Edits[i] = NewDelete(merge.Source)
			if i+1 < len(s.Edits) {
				next := s.Edits[i+1]
				if next.SourceNode().Parent() == merge.Source {
					s.Edits[i+1] = NewDelete(next.SourceNode())
				}
			}
		}
	}
}

// GenerateJSONUpdate simulates applying every edit to a copy of
// source (ShadowApply), collecting move records alongside the normal
// edit JSON for every non-zero-cost edit, then minimizes the result
// by folding each edit into its direct parent's children array.
func (s *Sequence) GenerateJSONUpdate(source *domtree.Tree) (map[string]any, error) {
	subject := source.DeepCopy()

	records := []map[string]any{}
	for _, e := range s.Edits {
		moveJSON, err := e.ShadowApply(subject)
		if err != nil {
			return nil, err
		}
		if moveJSON != nil {
			records = append(records, moveJSON)
		}
		if e.Cost() > 0 {
			records = append(records, e.JSON())
		}
	}

	i := 0
	for i < len(records) {
		records = minimizeJSON(records, i)
		i++
	}

	return map[string]any{"edits": records}, nil
}

// minimizeJSON folds every record at index+1.. that is a direct child
// of records[index] into records[index]'s "c" array, recursing first
// so grandchildren are folded before their parent is. When the parent
// ends up with exactly one child that is itself plain text, "c"
// collapses from a one-element array to the raw content string.
func minimizeJSON(records []map[string]any, index int) []map[string]any {
	parent := records[index]
	next := index + 1
	for next < len(records) && isDirectChild(parent, records[next]) {
		records = minimizeJSON(records, next)
		child := records[next]
		delete(child, "cpid")
		delete(child, "i")
		children, _ := parent["c"].([]any)
		parent["c"] = append(children, child)
		records = append(records[:next], records[next+1:]...)
	}

	children, _ := parent["c"].([]any)
	if parent["n"] != nil && len(children) == 1 {
		if childMap, ok := children[0].(map[string]any); ok && childMap["n"] == nil {
			parent["c"] = childMap["c"]
		}
	}
	return records
}

// isDirectChild reports whether candidate is a direct child of an
// Insert parent: only freshly-inserted elements carry an "i" field in
// their JSON, and only their descendants get folded into a nested "c"
// array — a Delete/Merge targets a node that already exists in the
// DOM, so its descendants are patched by their own top-level records.
func isDirectChild(parent, candidate map[string]any) bool {
	if parent["type"] != candidate["type"] {
		return false
	}
	parentIndex, hasIndex := parent["i"].(int)
	if !hasIndex {
		return false
	}
	candidateCPID, ok := candidate["cpid"].([]int)
	if !ok || len(candidateCPID) == 0 {
		return false
	}
	parentCPID, ok := parent["cpid"].([]int)
	if !ok || len(candidateCPID)-1 != len(parentCPID) {
		return false
	}
	for k := range parentCPID {
		if parentCPID[k] != candidateCPID[k] {
			return false
		}
	}
	return candidateCPID[len(candidateCPID)-1] == parentIndex
}
