package editscript

import (
	"testing"

	"github.com/pagereplay/treediff/internal/domtree"
)

func buildTree(name string) (*domtree.Tree, *domtree.Element, *domtree.Element) {
	root := domtree.NewElement("html", nil, 0)
	head := domtree.NewElement("head", root, 0)
	body := domtree.NewElement("body", root, 1)
	root.SetChildren([]domtree.Node{head, body})
	return domtree.NewTree(name, root), head, body
}

func TestDeleteApplyPromotesChildren(t *testing.T) {
	tree, _, body := buildTree("source")
	div := domtree.NewElement("div", body, 0)
	span := domtree.NewElement("span", div, 0)
	div.SetChildren([]domtree.Node{span})
	body.SetChildren([]domtree.Node{div})
	tree = domtree.NewTree("source", tree.Root())

	divNode, err := tree.FindByPostID(div.PostID())
	if err != nil {
		t.Fatal(err)
	}
	del := NewDelete(divNode)
	if err := del.Apply(tree); err != nil {
		t.Fatal(err)
	}

	if len(body.Children()) != 1 || body.Children()[0].Name() != "span" {
		t.Errorf("expected span to be promoted into body's children, got %v", body.Children())
	}
}

func TestMergeApplyNarrowsAttrs(t *testing.T) {
	tree, _, body := buildTree("source")
	sourceDiv := domtree.NewElement("div", body, 0)
	sourceDiv.SetAttr("class", domtree.TokenAttr([]string{"x", "y"}))
	body.SetChildren([]domtree.Node{sourceDiv})
	tree = domtree.NewTree("source", tree.Root())

	targetDiv := domtree.NewElement("div", nil, 0)
	targetDiv.SetAttr("class", domtree.TokenAttr([]string{"y", "z"}))

	found, err := tree.FindByPostID(sourceDiv.PostID())
	if err != nil {
		t.Fatal(err)
	}
	merge, err := NewMerge(found, targetDiv)
	if err != nil {
		t.Fatal(err)
	}
	if merge.Cost() != 1 {
		t.Fatalf("expected cost 1 for a differing class list, got %d", merge.Cost())
	}
	if err := merge.Apply(tree); err != nil {
		t.Fatal(err)
	}

	v, ok := sourceDiv.Attr("class")
	if !ok || !v.Equal(domtree.TokenAttr([]string{"y"})) {
		t.Errorf("expected class to narrow to the intersection {y}, got %v", v)
	}
}

func TestSequenceFiltersInsertsFromCommonTree(t *testing.T) {
	tree, _, body := buildTree("source")
	p := domtree.NewElement("p", body, 0)
	body.SetChildren([]domtree.Node{p})
	tree = domtree.NewTree("source", tree.Root())

	otherRoot := domtree.NewElement("html", nil, 0)
	insertedTarget := domtree.NewElement("span", otherRoot, 0)
	otherRoot.SetChildren([]domtree.Node{insertedTarget})
	domtree.NewTree("other", otherRoot)

	ins, err := NewInsert(insertedTarget)
	if err != nil {
		t.Fatal(err)
	}
	seq := NewSequence([]Edit{ins})

	common, err := seq.GenerateCommonTree(tree)
	if err != nil {
		t.Fatal(err)
	}
	if common.Len() != tree.Len() {
		t.Errorf("an Insert-only sequence should leave the common tree equal to source, got %d vs %d", common.Len(), tree.Len())
	}
}
