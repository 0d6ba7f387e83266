package vdom

import (
	"fmt"
	"reflect"

	vterrors "github.com/vango-dev/vtree/internal/errors"
)

// Component is application state that renders a child list from its input.
// Render must be a pure function of the receiver and input.
type Component[S, In any] interface {
	Render(input In) NodeList[S]
}

// Cloner is implemented by components whose state must be deep-copied into
// a snapshot. Without it the state value is copied.
type Cloner[C any] interface {
	Clone() C
}

// RenderGate is implemented by components that decide themselves whether a
// change is worth a render. The receiver is the current state. Without it a
// component re-renders when its state or input is not reflect.DeepEqual to
// the snapshot.
type RenderGate[C, In any] interface {
	ShouldRender(prev C, prevInput, input In) bool
}

// Comp is the type-erased view of a component node that drivers see.
type Comp[S any] interface {
	Node[S]

	// Name returns the component type name.
	Name() string

	// Rendered returns the list produced by the last render, or nil.
	Rendered() NodeList[S]

	// VisitRendered mounts the component if needed, renders it and visits
	// the rendered list under path.
	VisitRendered(path *Path, index *int, v NodeVisitor[S]) error

	// DiffRendered adopts anc's instance and either reuses anc's snapshot
	// or renders again and diffs the result against anc's rendered list.
	DiffRendered(path *Path, ci, ai *int, anc Comp[S], d NodeDiffer[S]) error
}

// Snapshot is the cached result of one render. Snapshots are shared by
// pointer between renders that reuse them.
type Snapshot[S, C, In any] struct {
	State    C
	Input    In
	Rendered NodeList[S]
}

// CompNode places a component in a tree. A fresh CompNode is built on every
// render of its parent; the component instance behind it lives in a Ctx that
// successive CompNodes at the same position share.
type CompNode[S any, C Component[S, In], In any] struct {
	nodeKey

	input In
	newFn func(In, *Ctx[S, C, In]) C
	host  Host
	ctx   *Ctx[S, C, In]
	snap  *Snapshot[S, C, In]
	store S
}

// NewComp creates a component node. newFn constructs the state on first
// mount and may keep ctx for later self-updates.
func NewComp[S any, C Component[S, In], In any](newFn func(In, *Ctx[S, C, In]) C, input In) *CompNode[S, C, In] {
	return &CompNode[S, C, In]{newFn: newFn, input: input}
}

// Keyed sets the node's key and returns the node.
func (c *CompNode[S, C, In]) Keyed(k Key) *CompNode[S, C, In] {
	c.setKey(k)
	return c
}

// Kind returns KindComp.
func (c *CompNode[S, C, In]) Kind() NodeKind { return KindComp }

// Store returns the node's driver-store slot.
func (c *CompNode[S, C, In]) Store() *S { return &c.store }

// Name returns the component type name.
func (c *CompNode[S, C, In]) Name() string {
	return reflect.TypeFor[C]().String()
}

// Input returns the input supplied by the parent.
func (c *CompNode[S, C, In]) Input() In { return c.input }

// Ctx returns the instance handle, or nil before the first render.
func (c *CompNode[S, C, In]) Ctx() *Ctx[S, C, In] { return c.ctx }

// Snapshot returns the node's snapshot, or nil before it rendered.
func (c *CompNode[S, C, In]) Snapshot() *Snapshot[S, C, In] { return c.snap }

// Rendered returns the rendered list, or nil before the first render.
func (c *CompNode[S, C, In]) Rendered() NodeList[S] {
	if c.snap == nil {
		return nil
	}
	return c.snap.Rendered
}

// VisitRendered implements Comp.
func (c *CompNode[S, C, In]) VisitRendered(path *Path, index *int, v NodeVisitor[S]) error {
	if c.ctx == nil {
		if err := c.mount(path); err != nil {
			return err
		}
	}
	if c.snap == nil {
		snap, err := c.render(path)
		if err != nil {
			return err
		}
		c.snap = snap
	}
	return VisitList(path, index, c.snap.Rendered, v)
}

// DiffRendered implements Comp.
func (c *CompNode[S, C, In]) DiffRendered(path *Path, ci, ai *int, anc Comp[S], d NodeDiffer[S]) error {
	a, ok := anc.(*CompNode[S, C, In])
	if !ok || a.snap == nil || a.ctx == nil {
		vterrors.Violation("E025", path.String(), "ancestor of %s has no snapshot", c.Name())
	}
	prev := a.snap

	if c.ctx == nil {
		c.ctx = a.ctx
	}
	x := c.ctx
	if c.host != nil {
		x.host = c.host
	}
	if c != a {
		x.setInput(c.input)
	}

	rerender := x.stale
	if !rerender {
		x.cell.With(func(in *instance[C, In]) {
			rerender = shouldRender(prev, in.state, in.input)
		})
	}

	if !rerender {
		c.snap = prev
		x.ObserveRender(c.Name(), true)
		if x.dirty {
			x.dirty = false
			return DiffList(path, ci, ai, prev.Rendered, prev.Rendered, d)
		}
		w := prev.Rendered.Width()
		*ci += w
		*ai += w
		return nil
	}

	snap, err := c.render(path)
	if err != nil {
		return err
	}
	c.snap = snap
	return DiffList(path, ci, ai, snap.Rendered, prev.Rendered, d)
}

func (c *CompNode[S, C, In]) mount(path *Path) (err error) {
	x := &Ctx[S, C, In]{host: c.host}
	defer func() {
		if r := recover(); r != nil {
			err = recovered("E031", path, r)
		}
	}()
	state := c.newFn(c.input, x)
	x.cell = NewCell(instance[C, In]{state: state, input: c.input})
	x.mounted = true
	c.ctx = x
	return nil
}

func (c *CompNode[S, C, In]) render(path *Path) (snap *Snapshot[S, C, In], err error) {
	x := c.ctx
	in, release := x.cell.Borrow()
	defer release()
	defer func() {
		if r := recover(); r != nil {
			snap, err = nil, recovered("E030", path, r)
		}
	}()

	rendered := in.state.Render(in.input)
	Attach(rendered, Host(x))
	x.stale = false
	x.dirty = false
	x.ObserveRender(c.Name(), false)
	return &Snapshot[S, C, In]{
		State:    cloneState(in.state),
		Input:    in.input,
		Rendered: rendered,
	}, nil
}

func cloneState[C any](s C) C {
	if cl, ok := any(s).(Cloner[C]); ok {
		return cl.Clone()
	}
	return s
}

func shouldRender[S, C, In any](prev *Snapshot[S, C, In], state C, input In) bool {
	if g, ok := any(state).(RenderGate[C, In]); ok {
		return g.ShouldRender(prev.State, prev.Input, input)
	}
	return !reflect.DeepEqual(prev.State, state) || !reflect.DeepEqual(prev.Input, input)
}

// recovered converts a panic from component code into an error. Contract
// violations keep unwinding.
func recovered(code string, path *Path, r any) error {
	if e, ok := r.(*vterrors.Error); ok && e.Category == vterrors.CategoryContract {
		panic(e)
	}
	err := vterrors.New(code).WithPath(path.String()).WithDetail(fmt.Sprint(r))
	if re, ok := r.(error); ok {
		err.Wrap(re)
	}
	return err
}

func (c *CompNode[S, C, In]) visit(path *Path, index *int, v NodeVisitor[S]) error {
	return v.OnComp(path, index, c)
}

func (c *CompNode[S, C, In]) diff(path *Path, ci, ai *int, anc Node[S], d NodeDiffer[S]) error {
	return d.OnComp(path, ci, ai, c, anc.(*CompNode[S, C, In]))
}

func (c *CompNode[S, C, In]) compatible(anc Node[S]) bool {
	_, ok := anc.(*CompNode[S, C, In])
	return ok
}

func (c *CompNode[S, C, In]) width() int {
	if c.snap == nil {
		return 0
	}
	return c.snap.Rendered.Width()
}

func (c *CompNode[S, C, In]) attach(h Host) { c.host = h }

func (c *CompNode[S, C, In]) unmount() {
	if c.ctx != nil {
		c.ctx.mounted = false
	}
	if c.snap != nil {
		Unmount(c.snap.Rendered)
	}
}
