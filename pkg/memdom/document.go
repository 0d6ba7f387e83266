package memdom

import (
	"fmt"
	"strconv"

	vterrors "github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/vdom"
)

// Document is a tree of nodes under a root element. It is not safe for
// concurrent use.
type Document struct {
	root   *Node
	nextID int
	live   int
	log    []string
}

// New creates a document whose root element has the given tag.
func New(rootTag string) *Document {
	d := &Document{}
	d.root = d.newNode(ElementNode)
	d.root.Tag = rootTag
	return d
}

// Root returns the root element.
func (d *Document) Root() *Node { return d.root }

// Live returns the number of nodes created and not yet removed, the root
// excluded.
func (d *Document) Live() int { return d.live - 1 }

// Log returns the mutations recorded since the last ResetLog.
func (d *Document) Log() []string { return append([]string(nil), d.log...) }

// ResetLog clears the mutation log.
func (d *Document) ResetLog() { d.log = d.log[:0] }

func (d *Document) newNode(t NodeType) *Node {
	d.nextID++
	d.live++
	return &Node{ID: d.nextID, Type: t, doc: d}
}

func (d *Document) record(format string, args ...any) {
	d.log = append(d.log, fmt.Sprintf(format, args...))
}

// check reports whether n is a live node of d.
func (d *Document) check(op string, n *Node) error {
	switch {
	case n == nil:
		return vterrors.New("E003").WithDetail(op + ": nil node")
	case n.doc != d:
		return vterrors.New("E003").WithDetail(fmt.Sprintf("%s: node #%d belongs to another document", op, n.ID))
	case n.removed:
		return vterrors.New("E003").WithDetail(fmt.Sprintf("%s: node #%d was removed", op, n.ID))
	}
	return nil
}

// CreateElement creates a detached element.
func (d *Document) CreateElement(tag string) (*Node, error) {
	n := d.newNode(ElementNode)
	n.Tag = tag
	d.record("create #%d <%s>", n.ID, tag)
	return n, nil
}

// CreateText creates a detached text node.
func (d *Document) CreateText(text string) (*Node, error) {
	n := d.newNode(TextNode)
	n.Text = text
	d.record("create #%d %q", n.ID, text)
	return n, nil
}

// SetText replaces the content of a text node.
func (d *Document) SetText(n *Node, text string) error {
	if err := d.check("set text", n); err != nil {
		return err
	}
	if n.Type != TextNode {
		return vterrors.New("E003").WithDetail(fmt.Sprintf("set text: node #%d is an element", n.ID))
	}
	n.Text = text
	d.record("text #%d %q", n.ID, text)
	return nil
}

// SetAttr sets or, for a null value, removes an attribute.
func (d *Document) SetAttr(n *Node, name string, v vdom.AttrValue) error {
	if err := d.check("set attr", n); err != nil {
		return err
	}
	if n.Type != ElementNode {
		return vterrors.New("E003").WithDetail(fmt.Sprintf("set attr: node #%d is text", n.ID))
	}
	switch v.Kind() {
	case vdom.ValueNull:
		n.removeAttr(name)
		d.record("unset #%d %s", n.ID, name)
	case vdom.ValueTrue:
		n.setAttr(Attr{Name: name, Bool: true})
		d.record("set #%d %s", n.ID, name)
	default:
		s, _ := v.Str()
		n.setAttr(Attr{Name: name, Value: s})
		d.record("set #%d %s=%q", n.ID, name, s)
	}
	return nil
}

// Insert attaches a detached child at index.
func (d *Document) Insert(parent, child *Node, index int) error {
	if err := d.check("insert", parent); err != nil {
		return err
	}
	if err := d.check("insert", child); err != nil {
		return err
	}
	if child.parent != nil {
		return vterrors.New("E003").WithDetail(fmt.Sprintf("insert: node #%d is already attached", child.ID))
	}
	if err := d.place(parent, child, index); err != nil {
		return err
	}
	d.record("insert #%d -> #%d@%d", child.ID, parent.ID, index)
	return nil
}

// Move detaches an attached child and reinserts it at index.
func (d *Document) Move(parent, child *Node, index int) error {
	if err := d.check("move", parent); err != nil {
		return err
	}
	if err := d.check("move", child); err != nil {
		return err
	}
	if child.parent != parent {
		return vterrors.New("E003").WithDetail(fmt.Sprintf("move: node #%d is not a child of #%d", child.ID, parent.ID))
	}
	child.detach()
	if err := d.place(parent, child, index); err != nil {
		return err
	}
	d.record("move #%d -> #%d@%d", child.ID, parent.ID, index)
	return nil
}

func (d *Document) place(parent, child *Node, index int) error {
	if parent.Type != ElementNode {
		return vterrors.New("E003").WithDetail(fmt.Sprintf("node #%d cannot have children", parent.ID))
	}
	if index < 0 || index > len(parent.children) {
		return vterrors.New("E003").WithDetail("index " + strconv.Itoa(index) + " out of range")
	}
	parent.children = append(parent.children, nil)
	copy(parent.children[index+1:], parent.children[index:])
	parent.children[index] = child
	child.parent = parent
	return nil
}

// Remove detaches n and destroys it with its subtree.
func (d *Document) Remove(n *Node) error {
	if err := d.check("remove", n); err != nil {
		return err
	}
	if n == d.root {
		return vterrors.New("E003").WithDetail("remove: the root cannot be removed")
	}
	n.detach()
	d.destroy(n)
	d.record("remove #%d", n.ID)
	return nil
}

func (d *Document) destroy(n *Node) {
	for _, c := range n.children {
		d.destroy(c)
	}
	n.removed = true
	d.live--
}

// Clear removes every child of root.
func (d *Document) Clear(root *Node) error {
	if err := d.check("clear", root); err != nil {
		return err
	}
	for _, c := range root.children {
		c.parent = nil
		d.destroy(c)
	}
	root.children = nil
	d.record("clear #%d", root.ID)
	return nil
}
