package domtree

import "testing"

func buildSimpleTree() *Tree {
	root := NewElement("html", nil, 0)
	head := NewElement("head", root, 0)
	body := NewElement("body", root, 1)
	root.children = []Node{head, body}
	p := NewElement("p", body, 0)
	p.SetAttr("class", TokenAttr([]string{"a", "b"}))
	text := NewText("hello", p, 0)
	p.children = []Node{text}
	body.children = []Node{p}
	return NewTree("t", root)
}

func TestPostOrderIDAssignment(t *testing.T) {
	tree := buildSimpleTree()
	if tree.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", tree.Len())
	}
	text, err := tree.FindByPostID(1)
	if err != nil {
		t.Fatal(err)
	}
	if text.Name() != TextName {
		t.Errorf("post_id 1 should be the leftmost leaf (text), got %s", text.Name())
	}
	root, err := tree.FindByPostID(tree.Len())
	if err != nil {
		t.Fatal(err)
	}
	if root.Name() != "html" {
		t.Errorf("last post_id should be the root, got %s", root.Name())
	}
}

func TestElementGetMergeChangesAttrSubset(t *testing.T) {
	source := NewElement("div", nil, 0)
	source.SetAttr("class", TokenAttr([]string{"a", "b"}))
	target := NewElement("div", nil, 0)
	target.SetAttr("class", TokenAttr([]string{"a"}))

	changes, err := source.GetMergeChanges(target)
	if err != nil {
		t.Fatal(err)
	}
	if len(changes) != 0 {
		t.Errorf("expected no changes when target's classes are a subset of source's, got %v", changes)
	}
}

func TestElementGetMergeChangesAddRemoveChange(t *testing.T) {
	source := NewElement("div", nil, 0)
	source.SetAttr("id", StringAttr("one"))
	source.SetAttr("data-x", StringAttr("keep"))
	target := NewElement("div", nil, 0)
	target.SetAttr("id", StringAttr("two"))
	target.SetAttr("data-y", StringAttr("new"))

	changes, err := source.GetMergeChanges(target)
	if err != nil {
		t.Fatal(err)
	}
	var sawRemove, sawChange, sawAdd bool
	for _, c := range changes {
		switch c.Key {
		case "data-x":
			sawRemove = c.Type == OpRemove
		case "id":
			sawChange = c.Type == OpChange
		case "data-y":
			sawAdd = c.Type == OpAdd
		}
	}
	if !sawRemove || !sawChange || !sawAdd {
		t.Errorf("expected REMOVE/CHANGE/ADD, got %v", changes)
	}
}

func TestTextGetMergeChanges(t *testing.T) {
	source := NewText("hi", nil, 0)
	target := NewText("hi", nil, 0)
	changes, err := source.GetMergeChanges(target)
	if err != nil {
		t.Fatal(err)
	}
	if len(changes) != 0 {
		t.Errorf("identical text should produce no changes, got %v", changes)
	}

	target2 := NewText("bye", nil, 0)
	changes2, err := source.GetMergeChanges(target2)
	if err != nil {
		t.Fatal(err)
	}
	if len(changes2) != 1 || changes2[0].Type != OpChange {
		t.Errorf("differing text should produce one CHANGE, got %v", changes2)
	}
}

func TestDeepCopyIsIndependent(t *testing.T) {
	tree := buildSimpleTree()
	cp := tree.DeepCopy()

	p, err := tree.FindByCpid(ChildID(ChildID(RootID(), 1), 0))
	if err != nil {
		t.Fatal(err)
	}
	el := p.(*Element)
	el.SetAttr("class", TokenAttr([]string{"changed"}))

	cpP, err := cp.FindByCpid(ChildID(ChildID(RootID(), 1), 0))
	if err != nil {
		t.Fatal(err)
	}
	v, _ := cpP.(*Element).Attr("class")
	if !v.Equal(TokenAttr([]string{"a", "b"})) {
		t.Errorf("deep copy should be unaffected by mutation of the original, got %v", v)
	}
}

func TestVoidElementIncludesSourceTypo(t *testing.T) {
	if !IsVoidElement("garea") {
		t.Error("garea must remain in the void element set")
	}
	if IsVoidElement("area") {
		t.Error("area (the likely intended spelling) is not in the source void element list")
	}
}
