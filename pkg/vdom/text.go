package vdom

import vterrors "github.com/vango-dev/vtree/internal/errors"

// Text is a leaf node holding string content.
type Text[S any] struct {
	nodeKey

	Content string
	// Static marks content fixed at construction. Static text is never
	// compared by value; changing it between renders is a contract
	// violation.
	Static bool

	store S
}

// NewText creates a dynamic text node.
func NewText[S any](content string) *Text[S] {
	return &Text[S]{Content: content}
}

// NewStaticText creates a static text node.
func NewStaticText[S any](content string) *Text[S] {
	return &Text[S]{Content: content, Static: true}
}

// Keyed sets the text's key and returns the text.
func (t *Text[S]) Keyed(k Key) *Text[S] {
	t.setKey(k)
	return t
}

// Kind returns KindText.
func (t *Text[S]) Kind() NodeKind { return KindText }

// Store returns the text's driver-store slot.
func (t *Text[S]) Store() *S { return &t.store }

func (t *Text[S]) visit(path *Path, index *int, v NodeVisitor[S]) error {
	if err := v.OnText(path, *index, t); err != nil {
		return err
	}
	*index++
	return nil
}

func (t *Text[S]) diff(path *Path, ci, ai *int, anc Node[S], d NodeDiffer[S]) error {
	a := anc.(*Text[S])
	if t.Static && a.Static && t.Content != a.Content {
		vterrors.Violation("E021", path.String(), "static text %q became %q", a.Content, t.Content)
	}
	if err := d.OnText(path, *ci, *ai, t, a); err != nil {
		return err
	}
	*ci++
	*ai++
	return nil
}

func (t *Text[S]) compatible(anc Node[S]) bool {
	_, ok := anc.(*Text[S])
	return ok
}

func (t *Text[S]) width() int { return 1 }

func (t *Text[S]) attach(Host) {}

func (t *Text[S]) unmount() {}
