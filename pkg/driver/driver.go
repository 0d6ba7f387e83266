package driver

import (
	vterrors "github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/vdom"
)

// Driver drives a Backend from vdom traversals.
type Driver[H any] struct {
	backend Backend[H]
}

// New creates a driver over b.
func New[H any](b Backend[H]) *Driver[H] {
	return &Driver[H]{backend: b}
}

// Backend returns the driver's backend.
func (d *Driver[H]) Backend() Backend[H] { return d.backend }

// Mount builds tree under root.
func (d *Driver[H]) Mount(root H, tree vdom.NodeList[Slot[H]]) error {
	return vdom.VisitRoot(tree, d.Visitor(root))
}

// Patch reconciles the backing children of root from anc to curr.
func (d *Driver[H]) Patch(root H, curr, anc vdom.NodeList[Slot[H]]) error {
	return vdom.DiffRoot(curr, anc, d.Differ(root))
}

// Unmount removes tree from root and clears its slots.
func (d *Driver[H]) Unmount(root H, tree vdom.NodeList[Slot[H]]) error {
	return vdom.DiffRoot(nil, tree, d.Differ(root))
}

// Visitor returns the visitor that builds nodes under parent.
func (d *Driver[H]) Visitor(parent H) vdom.NodeVisitor[Slot[H]] {
	return &visitor[H]{d: d, parent: parent}
}

// Differ returns the differ that reconciles nodes under parent.
func (d *Driver[H]) Differ(parent H) vdom.NodeDiffer[Slot[H]] {
	return &differ[H]{d: d, parent: parent}
}

func failed(path *vdom.Path, err error) error {
	return vterrors.New("E001").WithPath(path.String()).Wrap(err)
}

func missing(path *vdom.Path, what string) error {
	return vterrors.New("E002").WithPath(path.String()).WithDetail(what + " has no live backing resource")
}
