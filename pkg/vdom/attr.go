package vdom

import (
	"strconv"

	vterrors "github.com/vango-dev/vtree/internal/errors"
)

// ValueKind is the kind of an attribute value.
type ValueKind uint8

const (
	// ValueNull means the attribute is absent.
	ValueNull ValueKind = iota
	// ValueTrue is a present attribute without payload (a boolean attribute).
	ValueTrue
	// ValueStr is a string payload.
	ValueStr
)

// AttrValue is the value of an attribute. The zero value is Null.
type AttrValue struct {
	kind ValueKind
	s    string
}

// Null returns the absent value.
func Null() AttrValue { return AttrValue{} }

// True returns the present-without-payload value.
func True() AttrValue { return AttrValue{kind: ValueTrue} }

// Value returns a string value.
func Value(s string) AttrValue { return AttrValue{kind: ValueStr, s: s} }

// Bool returns True for true and Null for false.
func Bool(b bool) AttrValue {
	if b {
		return True()
	}
	return Null()
}

// Opt returns Null for nil and a string value otherwise.
func Opt(s *string) AttrValue {
	if s == nil {
		return Null()
	}
	return Value(*s)
}

// Kind returns the value kind.
func (v AttrValue) Kind() ValueKind { return v.kind }

// IsNull reports whether the attribute is absent.
func (v AttrValue) IsNull() bool { return v.kind == ValueNull }

// Str returns the payload of a string value.
func (v AttrValue) Str() (string, bool) { return v.s, v.kind == ValueStr }

// String renders the value for diagnostics.
func (v AttrValue) String() string {
	switch v.kind {
	case ValueTrue:
		return "true"
	case ValueStr:
		return strconv.Quote(v.s)
	default:
		return "null"
	}
}

// Attr is one attribute entry of a Tag.
type Attr[S any] struct {
	Name  string
	Value AttrValue
	// Static marks a value fixed at construction. It is a hint for
	// differs; the entry is still diffed.
	Static bool

	store S
}

// Store returns the attribute's driver-store slot.
func (a *Attr[S]) Store() *S { return &a.store }

// AttrList is the ordered attribute list of a Tag. Its shape (length and
// names) must not change between renders of the same Tag; an attribute
// disappears by taking the Null value.
type AttrList[S any] []*Attr[S]

// AttrVisitor receives every attribute of a list on first render.
type AttrVisitor[S any] interface {
	OnAttr(attr *Attr[S]) error
}

// AttrDiffer receives every (current, ancestor) attribute pair on re-render,
// including pairs whose values are equal.
type AttrDiffer[S any] interface {
	OnAttrDiff(curr, anc *Attr[S]) error
}

// Visit calls v.OnAttr for each entry in order.
func (l AttrList[S]) Visit(v AttrVisitor[S]) error {
	for _, a := range l {
		if err := v.OnAttr(a); err != nil {
			return err
		}
	}
	return nil
}

// Diff pairs l with anc position by position and calls d.OnAttrDiff once
// per entry. A list whose length or names differ from anc panics.
func (l AttrList[S]) Diff(anc AttrList[S], d AttrDiffer[S]) error {
	if len(l) != len(anc) {
		vterrors.Violation("E020", "", "attribute list has %d entries, ancestor has %d", len(l), len(anc))
	}
	for i, a := range l {
		if a.Name != anc[i].Name {
			vterrors.Violation("E020", "", "attribute %d is %q, ancestor has %q", i, a.Name, anc[i].Name)
		}
		if err := d.OnAttrDiff(a, anc[i]); err != nil {
			return err
		}
	}
	return nil
}
