package vdom

// NodeVisitor creates backing resources on first render. The engine calls
// it for every node of a tree, in order, with the node's path and its
// index among the backing children of the enclosing element.
//
// OnTag and OnText are called before the index advances; the visitor
// decides whether and when to recurse into attributes and children.
// OnComp must visit the component's rendered list with VisitRendered,
// which advances index by the rendered width.
type NodeVisitor[S any] interface {
	OnTag(path *Path, index int, tag *Tag[S]) error
	OnText(path *Path, index int, text *Text[S]) error
	OnComp(path *Path, index *int, comp Comp[S]) error
}

// NodeDiffer reconciles a current tree against its ancestor.
//
// OnTag, OnText and OnComp receive a compatible pair of the same type and
// are expected to move the ancestor's driver store into the current node.
// OnComp must call DiffRendered. OnNodeAdded must advance index by the
// width of the added subtree, normally by visiting it with VisitNode.
// OnNodeRemoved must release every store reachable from node; ancIndex is
// the node's position in the ancestor list. OnNodeMoved is emitted before
// the pair diff of a retained node whose relative position changed: placing
// the ancestor's backing nodes at index to, in emission order, yields the
// current order. from is the position before the move.
type NodeDiffer[S any] interface {
	OnTag(path *Path, currIndex, ancIndex int, curr, anc *Tag[S]) error
	OnText(path *Path, currIndex, ancIndex int, curr, anc *Text[S]) error
	OnComp(path *Path, currIndex, ancIndex *int, curr, anc Comp[S]) error
	OnNodeAdded(path *Path, index *int, node Node[S]) error
	OnNodeRemoved(path *Path, ancIndex *int, node Node[S]) error
	OnNodeMoved(path *Path, from, to int, anc Node[S]) error
}

// VisitNode visits a single node at path. It is how differs create the
// backing resources of an added subtree.
func VisitNode[S any](path *Path, index *int, n Node[S], v NodeVisitor[S]) error {
	if n == nil {
		return nil
	}
	return n.visit(path, index, v)
}

// VisitRoot visits a whole tree from the root.
func VisitRoot[S any](l NodeList[S], v NodeVisitor[S]) error {
	index := 0
	return VisitList(Root(), &index, l, v)
}

// DiffRoot diffs a whole tree against its ancestor from the root.
func DiffRoot[S any](curr, anc NodeList[S], d NodeDiffer[S]) error {
	ci, ai := 0, 0
	return DiffList(Root(), &ci, &ai, curr, anc, d)
}
