// Package mapping encodes trees for the external tree-edit-distance
// solver, invokes it, and translates its output back into typed
// edits.
package mapping

import (
	"io"
	"strings"

	"github.com/pagereplay/treediff/internal/domtree"
)

// WriteBracket writes tree's root in the solver's bracketed node
// format: "{tag{child}{child}}" for an Element, "{#text:"content"}"
// for a Text node, with '"' and '\' escaped inside text content.
func WriteBracket(w io.Writer, tree *domtree.Tree) error {
	return writeBracketNode(w, tree.Root())
}

func writeBracketNode(w io.Writer, n domtree.Node) error {
	if _, err := io.WriteString(w, "{"); err != nil {
		return err
	}
	switch v := n.(type) {
	case *domtree.Element:
		if _, err := io.WriteString(w, v.Name()); err != nil {
			return err
		}
		for _, child := range v.Children() {
			if err := writeBracketNode(w, child); err != nil {
				return err
			}
		}
	case *domtree.Text:
		escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(v.Content())
		if _, err := io.WriteString(w, `#text:"`+escaped+`"`); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "}")
	return err
}
