package vdom

// NodeKind is the discriminant of a Node.
type NodeKind uint8

const (
	KindTag NodeKind = iota + 1
	KindText
	KindComp
)

// String returns the kind name.
func (k NodeKind) String() string {
	switch k {
	case KindTag:
		return "tag"
	case KindText:
		return "text"
	case KindComp:
		return "comp"
	default:
		return "unknown"
	}
}

// Node is one entry of a NodeList: a *Tag, a *Text or a component node
// created by NewComp. S is the driver-store type; every node carries one S
// slot the driver uses to keep its backing handle between renders.
//
// The set of implementations is closed.
type Node[S any] interface {
	// Kind returns the node discriminant.
	Kind() NodeKind

	// Key returns the node's explicit key, if it has one.
	Key() (Key, bool)

	// Store returns the node's driver-store slot.
	Store() *S

	setKey(k Key)
	visit(path *Path, index *int, v NodeVisitor[S]) error
	diff(path *Path, ci, ai *int, anc Node[S], d NodeDiffer[S]) error
	compatible(anc Node[S]) bool
	width() int
	attach(h Host)
	unmount()
}

// NodeList is an ordered list of child nodes. A nil entry is an absent
// optional subtree: it keeps its position but contributes no backing node.
type NodeList[S any] []Node[S]

// nodeKey holds the optional explicit key shared by all node types.
type nodeKey struct {
	key   Key
	keyed bool
}

// Key returns the node's explicit key.
func (n *nodeKey) Key() (Key, bool) { return n.key, n.keyed }

func (n *nodeKey) setKey(k Key) {
	n.key = k
	n.keyed = true
}

// Width returns the number of backing nodes the list contributes to its
// parent: one per tag or text, and the rendered width of each component.
func (l NodeList[S]) Width() int {
	w := 0
	for _, n := range l {
		if n != nil {
			w += n.width()
		}
	}
	return w
}

// Attach makes h the host of the top-level components of l, looking through
// tags but not into components. Hosts receive self-updates and render
// observations from the components they own.
func Attach[S any](l NodeList[S], h Host) {
	for _, n := range l {
		if n != nil {
			n.attach(h)
		}
	}
}

// Unmount detaches every component reachable from l so that later
// self-updates are dropped. The engine calls it on removed subtrees.
func Unmount[S any](l NodeList[S]) {
	for _, n := range l {
		if n != nil {
			n.unmount()
		}
	}
}
