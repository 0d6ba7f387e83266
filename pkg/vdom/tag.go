package vdom

// Tag is an element node.
type Tag[S any] struct {
	nodeKey

	// Name is the element name.
	Name string
	// Static marks a name fixed at construction.
	Static   bool
	Attrs    AttrList[S]
	Children NodeList[S]

	store S
}

// NewTag creates a tag with a dynamic name.
func NewTag[S any](name string, attrs AttrList[S], children ...Node[S]) *Tag[S] {
	return &Tag[S]{Name: name, Attrs: attrs, Children: children}
}

// NewStaticTag creates a tag whose name is fixed at construction.
func NewStaticTag[S any](name string, attrs AttrList[S], children ...Node[S]) *Tag[S] {
	return &Tag[S]{Name: name, Static: true, Attrs: attrs, Children: children}
}

// Keyed sets the tag's key and returns the tag.
func (t *Tag[S]) Keyed(k Key) *Tag[S] {
	t.setKey(k)
	return t
}

// Kind returns KindTag.
func (t *Tag[S]) Kind() NodeKind { return KindTag }

// Store returns the tag's driver-store slot.
func (t *Tag[S]) Store() *S { return &t.store }

// VisitAttrs visits the tag's attributes.
func (t *Tag[S]) VisitAttrs(v AttrVisitor[S]) error {
	return t.Attrs.Visit(v)
}

// DiffAttrs diffs the tag's attributes against anc's.
func (t *Tag[S]) DiffAttrs(anc *Tag[S], d AttrDiffer[S]) error {
	return t.Attrs.Diff(anc.Attrs, d)
}

// VisitChildren visits the children with indices starting at zero. path is
// the tag's own path.
func (t *Tag[S]) VisitChildren(path *Path, v NodeVisitor[S]) error {
	index := 0
	return VisitList(path, &index, t.Children, v)
}

// DiffChildren diffs the children against anc's with indices starting at
// zero. path is the tag's own path.
func (t *Tag[S]) DiffChildren(path *Path, anc *Tag[S], d NodeDiffer[S]) error {
	ci, ai := 0, 0
	return DiffList(path, &ci, &ai, t.Children, anc.Children, d)
}

func (t *Tag[S]) visit(path *Path, index *int, v NodeVisitor[S]) error {
	if err := v.OnTag(path, *index, t); err != nil {
		return err
	}
	*index++
	return nil
}

func (t *Tag[S]) diff(path *Path, ci, ai *int, anc Node[S], d NodeDiffer[S]) error {
	if err := d.OnTag(path, *ci, *ai, t, anc.(*Tag[S])); err != nil {
		return err
	}
	*ci++
	*ai++
	return nil
}

func (t *Tag[S]) compatible(anc Node[S]) bool {
	a, ok := anc.(*Tag[S])
	return ok && a.Name == t.Name
}

func (t *Tag[S]) width() int { return 1 }

func (t *Tag[S]) attach(h Host) { Attach(t.Children, h) }

func (t *Tag[S]) unmount() { Unmount(t.Children) }
