package domtree

import (
	"io"
	"strings"
)

// WriteHTML serializes the Text node's content verbatim (no escaping:
// content is taken from the parsed source as-is).
func (t *Text) WriteHTML(w io.Writer) error {
	_, err := io.WriteString(w, t.content)
	return err
}

// WriteHTML serializes the Element and its subtree. Void elements
// self-close and never carry children; every other element writes an
// open tag, its children in order, and a close tag.
func (e *Element) WriteHTML(w io.Writer) error {
	var attrs strings.Builder
	e.writeAttrs(&attrs)

	if IsVoidElement(e.name) {
		if _, err := io.WriteString(w, "<"+e.name+attrs.String()+"/>"); err != nil {
			return err
		}
		return nil
	}

	if _, err := io.WriteString(w, "<"+e.name+attrs.String()+">"); err != nil {
		return err
	}
	for _, child := range e.children {
		if err := child.WriteHTML(w); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</"+e.name+">")
	return err
}

// writeAttrs appends the serialized attribute list, in first-seen
// order, with a leading space before each pair.
func (e *Element) writeAttrs(b *strings.Builder) {
	for _, key := range e.attrKeys {
		v := e.attrs[key]
		value := v.String()
		if !v.IsTokens() {
			value = strings.ReplaceAll(value, `"`, "&quot;")
		}
		b.WriteByte(' ')
		b.WriteString(key)
		b.WriteString(`="`)
		b.WriteString(value)
		b.WriteByte('"')
	}
}

// RenderHTML serializes a Tree to a string.
func RenderHTML(t *Tree) (string, error) {
	var b strings.Builder
	if err := t.root.WriteHTML(&b); err != nil {
		return "", err
	}
	return b.String(), nil
}
