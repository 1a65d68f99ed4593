package domtree

import (
	"fmt"
	"strings"

	"github.com/pagereplay/treediff"
	"golang.org/x/net/html"
)

// BuildTree parses htmlSource into a Tree rooted at a single <html>
// element, discarding doctype declarations, comments, meta tags, and
// whitespace-only text nodes, and collapsing every <noscript> into a
// single Text child holding the serialized form of its original
// children. The returned tree's nodes are not yet stripped by any
// StripMode; callers that need a stripped variant call Strip
// afterward.
func BuildTree(name, htmlSource string) (*Tree, error) {
	if strings.TrimSpace(htmlSource) == "" {
		return nil, fmt.Errorf("%w: %s is empty", treediff.ErrInvalidInput, name)
	}
	doc, err := html.Parse(strings.NewReader(htmlSource))
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", treediff.ErrInvalidInput, name, err)
	}

	htmlNode := findHTMLElement(doc)
	if htmlNode == nil {
		return nil, fmt.Errorf("%w: %s has no <html> element", treediff.ErrInvalidInput, name)
	}

	root := convertElement(htmlNode, nil, 0)
	return NewTree(name, root), nil
}

// findHTMLElement walks doc's immediate descendants looking for the
// <html> element, skipping doctype and comment nodes the parser
// synthesizes at the top level.
func findHTMLElement(doc *html.Node) *html.Node {
	var walk func(n *html.Node) *html.Node
	walk = func(n *html.Node) *html.Node {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.Data == "html" {
				return c
			}
			if c.Type == html.DocumentNode {
				if found := walk(c); found != nil {
					return found
				}
			}
		}
		return nil
	}
	return walk(doc)
}

// convertElement converts a parsed *html.Node tree into the Element
// model, applying the noscript-collapsing and meta/comment/whitespace
// stripping that every built tree carries regardless of StripMode.
func convertElement(n *html.Node, parent *Element, index int) *Element {
	el := NewElement(n.Data, parent, index)
	for _, a := range n.Attr {
		el.SetAttr(a.Key, classifyAttr(a.Key, a.Val))
	}

	if n.Data == "noscript" {
		var sb strings.Builder
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeOriginalHTML(&sb, c)
		}
		if sb.Len() > 0 {
			el.children = []Node{NewText(sb.String(), el, 0)}
		}
		return el
	}

	var children []Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			if c.Data == "meta" {
				continue
			}
			child := convertElement(c, el, len(children))
			children = append(children, child)
		case html.TextNode:
			if strings.TrimSpace(c.Data) == "" {
				continue
			}
			children = append(children, NewText(c.Data, el, len(children)))
		case html.CommentNode, html.DoctypeNode:
			continue
		}
	}
	el.children = children
	return el
}

// classifyAttr decides whether an attribute value should be modeled as
// a token sequence; only class is treated that way, split on
// whitespace. Every other attribute, including other token-list
// attributes such as rel, is kept as a plain string.
func classifyAttr(key, value string) AttrValue {
	if key == "class" {
		return TokenAttr(strings.Fields(value))
	}
	return StringAttr(value)
}

// writeOriginalHTML serializes an *html.Node subtree back to source
// text, used only to build the flattened content of a collapsed
// <noscript>.
func writeOriginalHTML(sb *strings.Builder, n *html.Node) {
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
		return
	}
	if n.Type != html.ElementNode {
		return
	}
	sb.WriteByte('<')
	sb.WriteString(n.Data)
	for _, a := range n.Attr {
		sb.WriteByte(' ')
		sb.WriteString(a.Key)
		sb.WriteString(`="`)
		sb.WriteString(strings.ReplaceAll(a.Val, `"`, "&quot;"))
		sb.WriteByte('"')
	}
	if IsVoidElement(n.Data) {
		sb.WriteString("/>")
		return
	}
	sb.WriteByte('>')
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeOriginalHTML(sb, c)
	}
	sb.WriteString("</")
	sb.WriteString(n.Data)
	sb.WriteByte('>')
}
