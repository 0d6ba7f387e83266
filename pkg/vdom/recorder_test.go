package vdom

import (
	"fmt"
	"strings"
)

// slot is the store type used by the engine tests.
type slot struct {
	id   int
	live bool
}

// recorder is a minimal driver that logs every call it receives.
type recorder struct {
	log    []string
	nextID int
}

func (r *recorder) logf(format string, args ...any) {
	r.log = append(r.log, fmt.Sprintf(format, args...))
}

func (r *recorder) take(s *slot) {
	r.nextID++
	*s = slot{id: r.nextID, live: true}
}

func (r *recorder) OnAttr(a *Attr[slot]) error {
	if !a.Value.IsNull() {
		r.logf("attr %s=%s", a.Name, a.Value)
	}
	return nil
}

func (r *recorder) OnAttrDiff(curr, anc *Attr[slot]) error {
	if curr.Value == anc.Value {
		return nil
	}
	if curr.Value.IsNull() {
		r.logf("remove-attr %s", curr.Name)
	} else {
		r.logf("set-attr %s=%s", curr.Name, curr.Value)
	}
	return nil
}

func (r *recorder) OnTag(path *Path, index int, t *Tag[slot]) error {
	r.take(t.Store())
	r.logf("tag %s %s @%d", path, t.Name, index)
	if err := t.VisitAttrs(r); err != nil {
		return err
	}
	return t.VisitChildren(path, r)
}

func (r *recorder) OnText(path *Path, index int, t *Text[slot]) error {
	r.take(t.Store())
	r.logf("text %s %q @%d", path, t.Content, index)
	return nil
}

func (r *recorder) OnComp(path *Path, index *int, c Comp[slot]) error {
	r.take(c.Store())
	r.logf("comp %s %s", path, c.Name())
	return c.VisitRendered(path, index, r)
}

// differ is the reconciling half of recorder. It is a distinct type because
// NodeVisitor and NodeDiffer share method names.
type differ struct{ *recorder }

func (d differ) OnTag(path *Path, ci, ai int, curr, anc *Tag[slot]) error {
	*curr.Store() = *anc.Store()
	d.logf("tag= %s @%d", path, ci)
	if err := curr.DiffAttrs(anc, d.recorder); err != nil {
		return err
	}
	return curr.DiffChildren(path, anc, d)
}

func (d differ) OnText(path *Path, ci, ai int, curr, anc *Text[slot]) error {
	*curr.Store() = *anc.Store()
	d.logf("text= %s @%d", path, ci)
	if curr.Content != anc.Content {
		d.logf("set-text %s %q", path, curr.Content)
	}
	return nil
}

func (d differ) OnComp(path *Path, ci, ai *int, curr, anc Comp[slot]) error {
	*curr.Store() = *anc.Store()
	return curr.DiffRendered(path, ci, ai, anc, d)
}

func (d differ) OnNodeAdded(path *Path, index *int, n Node[slot]) error {
	d.logf("add %s @%d", path, *index)
	return VisitNode(path, index, n, d.recorder)
}

func (d differ) OnNodeRemoved(path *Path, ai *int, n Node[slot]) error {
	d.logf("remove %s @%d", path, *ai)
	release(n)
	return nil
}

func (d differ) OnNodeMoved(path *Path, from, to int, anc Node[slot]) error {
	d.logf("move %s %d->%d", path, from, to)
	return nil
}

func release(n Node[slot]) {
	*n.Store() = slot{}
	switch n := n.(type) {
	case *Tag[slot]:
		for _, c := range n.Children {
			if c != nil {
				release(c)
			}
		}
	case Comp[slot]:
		for _, c := range n.Rendered() {
			if c != nil {
				release(c)
			}
		}
	}
}

// mutations filters a log down to the entries that change backing state.
func mutations(log []string) []string {
	var out []string
	for _, l := range log {
		for _, p := range []string{"add", "remove", "move", "set-"} {
			if strings.HasPrefix(l, p) {
				out = append(out, l)
				break
			}
		}
	}
	return out
}

// live reports every live slot id reachable from l.
func live(l NodeList[slot]) []int {
	var ids []int
	var walk func(n Node[slot])
	walk = func(n Node[slot]) {
		if n == nil {
			return
		}
		if s := n.Store(); s.live {
			ids = append(ids, s.id)
		}
		switch n := n.(type) {
		case *Tag[slot]:
			for _, c := range n.Children {
				walk(c)
			}
		case Comp[slot]:
			for _, c := range n.Rendered() {
				walk(c)
			}
		}
	}
	for _, n := range l {
		walk(n)
	}
	return ids
}

var h Builder[slot]
