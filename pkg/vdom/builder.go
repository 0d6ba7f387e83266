package vdom

// Builder constructs trees for one driver-store type without repeating the
// type argument:
//
//	var h vdom.Builder[driver.Slot[*memdom.Node]]
//	list := vdom.NodeList[driver.Slot[*memdom.Node]]{
//	    h.El("ul", h.Attrs(h.Attr("class", "rows")),
//	        h.Keyed(vdom.Str("row-7"), h.El("li", nil, h.Text("seven"))),
//	    ),
//	}
type Builder[S any] struct{}

// El returns a tag with a static name.
func (Builder[S]) El(name string, attrs AttrList[S], children ...Node[S]) *Tag[S] {
	return NewStaticTag(name, attrs, children...)
}

// DynEl returns a tag whose name is computed at runtime.
func (Builder[S]) DynEl(name string, attrs AttrList[S], children ...Node[S]) *Tag[S] {
	return NewTag(name, attrs, children...)
}

// Text returns a dynamic text node.
func (Builder[S]) Text(s string) *Text[S] { return NewText[S](s) }

// StaticText returns a static text node.
func (Builder[S]) StaticText(s string) *Text[S] { return NewStaticText[S](s) }

// Attrs collects attribute entries into a list.
func (Builder[S]) Attrs(attrs ...*Attr[S]) AttrList[S] { return attrs }

// Attr returns a string attribute.
func (Builder[S]) Attr(name, value string) *Attr[S] {
	return &Attr[S]{Name: name, Value: Value(value)}
}

// StaticAttr returns a string attribute whose value never changes.
func (Builder[S]) StaticAttr(name, value string) *Attr[S] {
	return &Attr[S]{Name: name, Value: Value(value), Static: true}
}

// Bool returns a boolean attribute: present when b is true, absent otherwise.
func (Builder[S]) Bool(name string, b bool) *Attr[S] {
	return &Attr[S]{Name: name, Value: Bool(b)}
}

// Opt returns an attribute that is absent when s is nil.
func (Builder[S]) Opt(name string, s *string) *Attr[S] {
	return &Attr[S]{Name: name, Value: Opt(s)}
}

// Keyed sets n's key and returns it.
func (Builder[S]) Keyed(k Key, n Node[S]) Node[S] {
	n.setKey(k)
	return n
}

// If returns n when cond holds and an absent entry otherwise.
func (Builder[S]) If(cond bool, n Node[S]) Node[S] {
	if !cond {
		return nil
	}
	return n
}

// List collects nodes into a list.
func (Builder[S]) List(nodes ...Node[S]) NodeList[S] { return nodes }
