// Package driver is the stock vdom driver. It turns visit and diff
// callbacks into operations on a Backend, the capability set a concrete
// resource owner (a DOM, an in-memory tree, a patch recorder) implements.
//
// Trees driven by this package use Slot[H] as their store type, where H is
// the backend's handle type:
//
//	type store = driver.Slot[*memdom.Node]
//	d := driver.New[*memdom.Node](doc)
//	err := d.Mount(doc.Root(), tree)
//	...
//	err = d.Patch(doc.Root(), next, tree)
//
// On first render every tag and text is created, its attributes set, its
// children built, and only then inserted into its parent. On re-render
// handles move from the ancestor node to the current one, attributes are
// written only when their value changed, and removed subtrees have every
// slot cleared.
package driver
