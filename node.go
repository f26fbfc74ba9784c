package htmlexpect

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// NodeType discriminates the node kinds the validator understands.
type NodeType int

const (
	ElementNode NodeType = iota
	TextNode
	CommentNode
)

// Node is one node of an actual document tree, the shape an external
// parser must deliver. Elements carry Name, Attributes and an ordered
// Children slice; text and comment nodes carry Data. Case folding of
// names is left to the matcher, which lower-cases both sides of every
// comparison.
type Node struct {
	Type       NodeType
	Name       string
	Attributes map[string]string
	Data       string
	Children   []*Node
}

// ParseHTML parses a full document into an actual document tree and
// returns its document element (normally <html>); the parser inserts
// the implied html/head/body scaffolding for partial input. Text nodes
// are trimmed and whitespace-only runs are dropped, they carry no
// structure worth matching.
func ParseHTML(r io.Reader) (*Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return convert(c), nil
		}
	}
	return nil, fmt.Errorf("parse html: no document element")
}

// ParseFragment parses a snippet such as "<table>...</table>" in body
// context and returns the tree rooted at the snippet's first element.
func ParseFragment(s string) (*Node, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(s), ctx)
	if err != nil {
		return nil, fmt.Errorf("parse fragment: %w", err)
	}
	for _, n := range nodes {
		if n.Type == html.ElementNode {
			return convert(n), nil
		}
	}
	return nil, fmt.Errorf("parse fragment: no element found")
}

// First returns the first element named name in depth-first order, or
// nil when the tree has none. Useful for picking the sub-root a Tag
// expectation describes out of a full page.
func First(root *Node, name string) *Node {
	if root == nil {
		return nil
	}
	name = strings.ToLower(name)
	if root.Type == ElementNode && strings.ToLower(root.Name) == name {
		return root
	}
	for _, c := range root.Children {
		if found := First(c, name); found != nil {
			return found
		}
	}
	return nil
}

func convert(n *html.Node) *Node {
	switch n.Type {
	case html.ElementNode:
		out := &Node{Type: ElementNode, Name: n.Data}
		if len(n.Attr) > 0 {
			out.Attributes = make(map[string]string, len(n.Attr))
			for _, a := range n.Attr {
				out.Attributes[a.Key] = a.Val
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if child := convert(c); child != nil {
				out.Children = append(out.Children, child)
			}
		}
		return out
	case html.TextNode:
		text := strings.TrimSpace(n.Data)
		if text == "" {
			return nil
		}
		return &Node{Type: TextNode, Data: text}
	case html.CommentNode:
		return &Node{Type: CommentNode, Data: n.Data}
	}
	return nil
}

// nodeLabel names a node for diagnostics: the tag name for elements,
// "#text" and "#comment" for the leaf kinds.
func nodeLabel(n *Node) string {
	switch n.Type {
	case TextNode:
		return "#text"
	case CommentNode:
		return "#comment"
	default:
		return strings.ToLower(n.Name)
	}
}
