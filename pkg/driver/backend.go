package driver

import "github.com/vango-dev/vtree/pkg/vdom"

// Backend creates and mutates backing resources. H is the handle type the
// backend hands out.
type Backend[H any] interface {
	// CreateElement creates a detached element.
	CreateElement(tag string) (H, error)
	// CreateText creates a detached text node.
	CreateText(text string) (H, error)
	// SetText replaces the content of a text node.
	SetText(h H, text string) error
	// SetAttr sets an attribute. A null value removes it.
	SetAttr(h H, name string, v vdom.AttrValue) error
	// Insert attaches a detached child at index among parent's children.
	Insert(parent, child H, index int) error
	// Move detaches an attached child and reinserts it at index.
	Move(parent, child H, index int) error
	// Remove detaches h and destroys it with its whole subtree.
	Remove(h H) error
}

// Clearer is implemented by backends that can drop every child of a
// container at once. Applications use it to start over after a failed pass.
type Clearer[H any] interface {
	Clear(root H) error
}

// Slot is the driver-store type: the backing handle of a node and whether
// it is live. A component's slot holds the handle of the element its
// rendered nodes are attached to.
type Slot[H any] struct {
	Handle H
	Live   bool
}
