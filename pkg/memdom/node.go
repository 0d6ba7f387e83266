package memdom

import (
	"slices"
	"strings"
)

// NodeType distinguishes elements from text nodes.
type NodeType uint8

const (
	ElementNode NodeType = iota + 1
	TextNode
)

// Attr is one attribute of an element. Bool attributes have Bool set and
// an empty Value.
type Attr struct {
	Name  string
	Value string
	Bool  bool
}

// Node is an element or text node owned by a Document.
type Node struct {
	ID   int
	Type NodeType
	Tag  string
	Text string

	attrs    []Attr
	parent   *Node
	children []*Node
	doc      *Document
	removed  bool
}

// Parent returns the node's parent, or nil when detached.
func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the node's children.
func (n *Node) Children() []*Node { return slices.Clone(n.children) }

// Attrs returns a copy of the node's attributes in insertion order.
func (n *Node) Attrs() []Attr { return slices.Clone(n.attrs) }

// Attr returns the attribute called name.
func (n *Node) Attr(name string) (Attr, bool) {
	for _, a := range n.attrs {
		if a.Name == name {
			return a, true
		}
	}
	return Attr{}, false
}

// TextContent concatenates the text of n and its descendants.
func (n *Node) TextContent() string {
	if n.Type == TextNode {
		return n.Text
	}
	var sb strings.Builder
	for _, c := range n.children {
		sb.WriteString(c.TextContent())
	}
	return sb.String()
}

func (n *Node) setAttr(a Attr) {
	for i := range n.attrs {
		if n.attrs[i].Name == a.Name {
			n.attrs[i] = a
			return
		}
	}
	n.attrs = append(n.attrs, a)
}

func (n *Node) removeAttr(name string) {
	n.attrs = slices.DeleteFunc(n.attrs, func(a Attr) bool { return a.Name == name })
}

func (n *Node) indexOf(child *Node) int {
	return slices.Index(n.children, child)
}

func (n *Node) detach() {
	if n.parent == nil {
		return
	}
	p := n.parent
	i := p.indexOf(n)
	p.children = slices.Delete(p.children, i, i+1)
	n.parent = nil
}
