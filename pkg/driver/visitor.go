package driver

import "github.com/vango-dev/vtree/pkg/vdom"

// visitor creates backing resources for new nodes under parent.
type visitor[H any] struct {
	d      *Driver[H]
	parent H
}

func (v *visitor[H]) OnTag(path *vdom.Path, index int, t *vdom.Tag[Slot[H]]) error {
	b := v.d.backend
	h, err := b.CreateElement(t.Name)
	if err != nil {
		return failed(path, err)
	}
	*t.Store() = Slot[H]{Handle: h, Live: true}

	if err := t.VisitAttrs(&attrSetter[H]{b: b, h: h, path: path}); err != nil {
		return err
	}
	if err := t.VisitChildren(path, v.d.Visitor(h)); err != nil {
		return err
	}
	if err := b.Insert(v.parent, h, index); err != nil {
		return failed(path, err)
	}
	return nil
}

func (v *visitor[H]) OnText(path *vdom.Path, index int, t *vdom.Text[Slot[H]]) error {
	b := v.d.backend
	h, err := b.CreateText(t.Content)
	if err != nil {
		return failed(path, err)
	}
	*t.Store() = Slot[H]{Handle: h, Live: true}
	if err := b.Insert(v.parent, h, index); err != nil {
		return failed(path, err)
	}
	return nil
}

func (v *visitor[H]) OnComp(path *vdom.Path, index *int, c vdom.Comp[Slot[H]]) error {
	*c.Store() = Slot[H]{Handle: v.parent, Live: true}
	return c.VisitRendered(path, index, v)
}

// attrSetter writes the initial attributes of a new element.
type attrSetter[H any] struct {
	b    Backend[H]
	h    H
	path *vdom.Path
}

func (s *attrSetter[H]) OnAttr(a *vdom.Attr[Slot[H]]) error {
	*a.Store() = Slot[H]{Handle: s.h, Live: true}
	if a.Value.IsNull() {
		return nil
	}
	if err := s.b.SetAttr(s.h, a.Name, a.Value); err != nil {
		return failed(s.path, err)
	}
	return nil
}
