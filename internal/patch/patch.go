// Package patch inserts the browser-side JSON patcher script into a
// document tree (the CLI passes a copy of the first input) so that
// opening it applies the accompanying JSON patch.
package patch

import (
	"fmt"

	treediff "github.com/pagereplay/treediff"
	"github.com/pagereplay/treediff/internal/domtree"
)

const bottomPatcherScript = `var patcher = document.getElementById("bottom-patcher");` +
	`patcher.remove();` +
	`applyJsonUpdates();`

// InsertPatchers adds a <script id="main-patcher"> as the first child
// of <head>, carrying patcherJS verbatim, and a <script
// id="bottom-patcher"> as the last child of <body> that removes itself
// and triggers the JSON patch application once the document has
// loaded.
func InsertPatchers(common *domtree.Tree, patcherJS string) error {
	root := common.Root()
	children := root.Children()
	if len(children) < 2 {
		return fmt.Errorf("%w: common tree root has fewer than 2 children", treediff.ErrInvariantViolation)
	}

	head, ok := children[0].(*domtree.Element)
	if !ok || head.Name() != "head" {
		return fmt.Errorf("%w: expected <head> as html's first child", treediff.ErrInvariantViolation)
	}
	body, ok := children[len(children)-1].(*domtree.Element)
	if !ok || body.Name() != "body" {
		return fmt.Errorf("%w: expected <body> as html's last child", treediff.ErrInvariantViolation)
	}

	mainPatcher := domtree.NewElement("script", nil, 0)
	mainPatcher.SetAttr("id", domtree.StringAttr("main-patcher"))
	head.InsertChildAt(0, mainPatcher)
	mainPatcher.SetChildren([]domtree.Node{domtree.NewText(patcherJS, mainPatcher, 0)})

	bottomPatcher := domtree.NewElement("script", nil, 0)
	bottomPatcher.SetAttr("id", domtree.StringAttr("bottom-patcher"))
	body.AppendChild(bottomPatcher)
	bottomPatcher.SetChildren([]domtree.Node{domtree.NewText(bottomPatcherScript, bottomPatcher, 0)})

	return nil
}
