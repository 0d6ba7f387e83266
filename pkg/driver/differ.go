package driver

import "github.com/vango-dev/vtree/pkg/vdom"

// differ reconciles the children of parent.
type differ[H any] struct {
	d      *Driver[H]
	parent H
}

// transplant moves the ancestor's slot into the current node.
func transplant[H any](curr, anc *Slot[H]) {
	if curr == anc {
		return
	}
	*curr = *anc
	*anc = Slot[H]{}
}

func (df *differ[H]) OnTag(path *vdom.Path, ci, ai int, curr, anc *vdom.Tag[Slot[H]]) error {
	if !anc.Store().Live {
		return missing(path, "tag <"+anc.Name+">")
	}
	transplant(curr.Store(), anc.Store())
	h := curr.Store().Handle

	if err := curr.DiffAttrs(anc, &attrDiffer[H]{b: df.d.backend, h: h, path: path}); err != nil {
		return err
	}
	return curr.DiffChildren(path, anc, df.d.Differ(h))
}

func (df *differ[H]) OnText(path *vdom.Path, ci, ai int, curr, anc *vdom.Text[Slot[H]]) error {
	if !anc.Store().Live {
		return missing(path, "text")
	}
	transplant(curr.Store(), anc.Store())
	if curr.Static || curr.Content == anc.Content {
		return nil
	}
	if err := df.d.backend.SetText(curr.Store().Handle, curr.Content); err != nil {
		return failed(path, err)
	}
	return nil
}

func (df *differ[H]) OnComp(path *vdom.Path, ci, ai *int, curr, anc vdom.Comp[Slot[H]]) error {
	transplant(curr.Store(), anc.Store())
	*curr.Store() = Slot[H]{Handle: df.parent, Live: true}
	return curr.DiffRendered(path, ci, ai, anc, df)
}

func (df *differ[H]) OnNodeAdded(path *vdom.Path, index *int, n vdom.Node[Slot[H]]) error {
	return vdom.VisitNode(path, index, n, df.d.Visitor(df.parent))
}

func (df *differ[H]) OnNodeRemoved(path *vdom.Path, ai *int, n vdom.Node[Slot[H]]) error {
	return df.d.remove(path, n)
}

func (df *differ[H]) OnNodeMoved(path *vdom.Path, from, to int, anc vdom.Node[Slot[H]]) error {
	handles, err := topHandles(path, anc, nil)
	if err != nil {
		return err
	}
	for i, h := range handles {
		if err := df.d.backend.Move(df.parent, h, to+i); err != nil {
			return failed(path, err)
		}
	}
	return nil
}

// topHandles appends the handles n contributes to its parent element: its
// own for a tag or text, those of its rendered nodes for a component.
func topHandles[H any](path *vdom.Path, n vdom.Node[Slot[H]], out []H) ([]H, error) {
	if c, ok := n.(vdom.Comp[Slot[H]]); ok {
		for _, r := range c.Rendered() {
			if r == nil {
				continue
			}
			var err error
			if out, err = topHandles(path, r, out); err != nil {
				return nil, err
			}
		}
		return out, nil
	}
	s := n.Store()
	if !s.Live {
		return nil, missing(path, n.Kind().String())
	}
	return append(out, s.Handle), nil
}

// remove destroys the backing resources of n and clears every slot
// reachable from it.
func (d *Driver[H]) remove(path *vdom.Path, n vdom.Node[Slot[H]]) error {
	handles, err := topHandles(path, n, nil)
	if err != nil {
		return err
	}
	for _, h := range handles {
		if err := d.backend.Remove(h); err != nil {
			return failed(path, err)
		}
	}
	release(n)
	return nil
}

func release[H any](n vdom.Node[Slot[H]]) {
	*n.Store() = Slot[H]{}
	switch n := n.(type) {
	case *vdom.Tag[Slot[H]]:
		for _, a := range n.Attrs {
			*a.Store() = Slot[H]{}
		}
		for _, c := range n.Children {
			if c != nil {
				release(c)
			}
		}
	case vdom.Comp[Slot[H]]:
		for _, c := range n.Rendered() {
			if c != nil {
				release(c)
			}
		}
	}
}

// attrDiffer writes changed attribute values.
type attrDiffer[H any] struct {
	b    Backend[H]
	h    H
	path *vdom.Path
}

func (a *attrDiffer[H]) OnAttrDiff(curr, anc *vdom.Attr[Slot[H]]) error {
	transplant(curr.Store(), anc.Store())
	*curr.Store() = Slot[H]{Handle: a.h, Live: true}
	if curr.Value == anc.Value {
		return nil
	}
	if err := a.b.SetAttr(a.h, curr.Name, curr.Value); err != nil {
		return failed(a.path, err)
	}
	return nil
}
