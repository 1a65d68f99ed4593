package editscript

import (
	"reflect"
	"strings"
	"testing"

	"github.com/pagereplay/treediff/internal/domtree"
)

// mergeAll pairs every node of a with the node of b holding the same
// post_id, the mapping the solver reports for structurally identical
// trees.
func mergeAll(t *testing.T, a, b *domtree.Tree) []Edit {
	t.Helper()
	var edits []Edit
	for id := 1; id <= a.Len(); id++ {
		source, err := a.FindByPostID(id)
		if err != nil {
			t.Fatal(err)
		}
		target, err := b.FindByPostID(id)
		if err != nil {
			t.Fatal(err)
		}
		merge, err := NewMerge(source, target)
		if err != nil {
			t.Fatal(err)
		}
		edits = append(edits, merge)
	}
	return edits
}

func mustBuild(t *testing.T, name, src string) *domtree.Tree {
	t.Helper()
	tree, err := domtree.BuildTree(name, src)
	if err != nil {
		t.Fatal(err)
	}
	return tree
}

func mustMerge(t *testing.T, source, target domtree.Node) *Merge {
	t.Helper()
	m, err := NewMerge(source, target)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func mustInsert(t *testing.T, target domtree.Node) *Insert {
	t.Helper()
	ins, err := NewInsert(target)
	if err != nil {
		t.Fatal(err)
	}
	return ins
}

func mustFind(t *testing.T, tree *domtree.Tree, postID int) domtree.Node {
	t.Helper()
	n, err := tree.FindByPostID(postID)
	if err != nil {
		t.Fatal(err)
	}
	return n
}

func TestGenerateJSONUpdateIdenticalInputsIsEmpty(t *testing.T) {
	src := `<html><head></head><body><p>hi</p></body></html>`
	first := mustBuild(t, "first", src)
	second := mustBuild(t, "second", src)

	seq := NewSequence(mergeAll(t, first, second))
	if seq.TotalCost != 0 {
		t.Fatalf("identical inputs should cost 0, got %d", seq.TotalCost)
	}

	out, err := seq.GenerateJSONUpdate(first)
	if err != nil {
		t.Fatal(err)
	}
	records, ok := out["edits"].([]map[string]any)
	if !ok {
		t.Fatalf("edits should be a record list, got %T", out["edits"])
	}
	if len(records) != 0 {
		t.Errorf("identical inputs should produce no edit records, got %v", records)
	}
}

func TestGenerateJSONUpdateMinimizesInsertedSubtree(t *testing.T) {
	first := mustBuild(t, "first", `<html><head></head><body><p>hi</p></body></html>`)
	second := mustBuild(t, "second", `<html><head></head><body><p>hi</p><p>bye</p></body></html>`)

	// first:  head=1 "hi"=2 p=3 body=4 html=5
	// second: head=1 "hi"=2 p=3 "bye"=4 p=5 body=6 html=7
	edits := []Edit{
		mustMerge(t, mustFind(t, first, 1), mustFind(t, second, 1)),
		mustMerge(t, mustFind(t, first, 2), mustFind(t, second, 2)),
		mustMerge(t, mustFind(t, first, 3), mustFind(t, second, 3)),
		mustInsert(t, mustFind(t, second, 4)),
		mustInsert(t, mustFind(t, second, 5)),
		mustMerge(t, mustFind(t, first, 4), mustFind(t, second, 6)),
		mustMerge(t, mustFind(t, first, 5), mustFind(t, second, 7)),
	}

	out, err := NewSequence(edits).GenerateJSONUpdate(first)
	if err != nil {
		t.Fatal(err)
	}
	records := out["edits"].([]map[string]any)
	if len(records) != 1 {
		t.Fatalf("the two inserts should minimize into one nested record, got %v", records)
	}

	record := records[0]
	if !reflect.DeepEqual(record["cpid"], []int{0, 1}) {
		t.Errorf("cpid = %v, want [0 1]", record["cpid"])
	}
	if record["i"] != 1 {
		t.Errorf("i = %v, want 1", record["i"])
	}
	if record["n"] != "p" {
		t.Errorf("n = %v, want p", record["n"])
	}
	if record["c"] != "bye" {
		t.Errorf("single text child should collapse to c:\"bye\", got %v", record["c"])
	}
}

func TestMergeShadowApplyEmitsMoveRecord(t *testing.T) {
	first := mustBuild(t, "first", `<html><head></head><body><p>x</p></body></html>`)
	second := mustBuild(t, "second", `<html><head></head><body><div><p>x</p></div></body></html>`)

	// first:  head=1 "x"=2 p=3 body=4 html=5
	// second: head=1 "x"=2 p=3 div=4 body=5 html=6
	edits := []Edit{
		mustMerge(t, mustFind(t, first, 1), mustFind(t, second, 1)),
		mustMerge(t, mustFind(t, first, 2), mustFind(t, second, 2)),
		mustMerge(t, mustFind(t, first, 3), mustFind(t, second, 3)),
		mustInsert(t, mustFind(t, second, 4)),
		mustMerge(t, mustFind(t, first, 4), mustFind(t, second, 5)),
		mustMerge(t, mustFind(t, first, 5), mustFind(t, second, 6)),
	}

	out, err := NewSequence(edits).GenerateJSONUpdate(first)
	if err != nil {
		t.Fatal(err)
	}
	records := out["edits"].([]map[string]any)

	var move map[string]any
	for _, r := range records {
		if _, isMove := r["np"]; isMove {
			move = r
		}
	}
	if move == nil {
		t.Fatalf("expected a move record after inserting a wrapper element, got %v", records)
	}
	if !reflect.DeepEqual(move["cpid"], []int{0, 1, 1}) {
		t.Errorf("move cpid = %v, want [0 1 1] (the displaced position)", move["cpid"])
	}
	if !reflect.DeepEqual(move["np"], []int{0, 1, 0}) {
		t.Errorf("move np = %v, want [0 1 0] (the inserted wrapper)", move["np"])
	}
	if move["j"] != 0 {
		t.Errorf("move j = %v, want 0", move["j"])
	}
}

func TestMergeApplyKeepsBracketedDataAttr(t *testing.T) {
	first := mustBuild(t, "first", `<html><head></head><body><p data-model="[1,2]">t</p></body></html>`)
	second := mustBuild(t, "second", `<html><head></head><body><p data-model="[3]">t</p></body></html>`)

	// head=1 "t"=2 p=3 in both trees.
	merge := mustMerge(t, mustFind(t, first, 3), mustFind(t, second, 3))
	if merge.Cost() != 1 {
		t.Fatalf("differing data-model values should cost 1, got %d", merge.Cost())
	}

	subject := first.DeepCopy()
	if err := merge.Apply(subject); err != nil {
		t.Fatal(err)
	}
	p := mustFind(t, subject, 3).(*domtree.Element)
	v, ok := p.Attr("data-model")
	if !ok {
		t.Fatal("bracketed data-* attribute should be kept, not deleted")
	}
	if v.String() != "" {
		t.Errorf("bracketed data-* attribute should be blanked, got %q", v.String())
	}
}

func TestMergeWithoutChangesIsFree(t *testing.T) {
	src := `<html><head></head><body><p class="a b">t</p></body></html>`
	first := mustBuild(t, "first", src)
	second := mustBuild(t, "second", src)

	merge := mustMerge(t, mustFind(t, first, 3), mustFind(t, second, 3))
	if merge.Cost() != 0 {
		t.Fatalf("identical elements should merge for free, got cost %d", merge.Cost())
	}

	subject := first.DeepCopy()
	if err := merge.Apply(subject); err != nil {
		t.Fatal(err)
	}
	p := mustFind(t, subject, 3).(*domtree.Element)
	v, _ := p.Attr("class")
	if !v.Equal(domtree.TokenAttr([]string{"a", "b"})) {
		t.Errorf("cost-0 merge should leave the subject untouched, got class=%v", v)
	}
}

func TestGenerateCommonTreeCutsScriptsBelowFirstChange(t *testing.T) {
	first := mustBuild(t, "first",
		`<html><head><script>var x=1;</script></head><body><p>hi</p></body></html>`)
	second := mustBuild(t, "second",
		`<html><head class="changed"><script>var x=1;</script></head><body><p>hi</p></body></html>`)

	// Both trees: script text=1 script=2 head=3 "hi"=4 p=5 body=6 html=7.
	// The head merge carries an ADD (cost 1) and sorts before the script,
	// so the script and its content must be cut from the common tree.
	seq := NewSequence(mergeAll(t, first, second))
	common, err := seq.GenerateCommonTree(first)
	if err != nil {
		t.Fatal(err)
	}

	rendered, err := domtree.RenderHTML(common)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(rendered, "<script") {
		t.Errorf("common tree should not contain a script below the first change, got %s", rendered)
	}
	if strings.Contains(rendered, "var x=1;") {
		t.Errorf("the script's text content should be cut too, got %s", rendered)
	}
	if !strings.Contains(rendered, "<p>hi</p>") {
		t.Errorf("unrelated content should survive, got %s", rendered)
	}
}

func TestGenerateCommonTreeKeepsScriptsAboveAnyChange(t *testing.T) {
	src := `<html><head><script>var x=1;</script></head><body><p>hi</p></body></html>`
	first := mustBuild(t, "first", src)
	second := mustBuild(t, "second", src)

	seq := NewSequence(mergeAll(t, first, second))
	common, err := seq.GenerateCommonTree(first)
	if err != nil {
		t.Fatal(err)
	}
	rendered, err := domtree.RenderHTML(common)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(rendered, "<script>var x=1;</script>") {
		t.Errorf("an all-zero-cost sequence should leave scripts alone, got %s", rendered)
	}
}
