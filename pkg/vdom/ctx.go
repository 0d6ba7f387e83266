package vdom

// Host owns components. It queues their self-updates, learns when one of
// them goes stale and observes their renders. A component's Ctx is the host
// of the components it renders; the application owning the tree is the
// host of the top-level ones. A tree without a host applies updates
// immediately.
type Host interface {
	// Schedule queues fn to run outside any traversal.
	Schedule(fn func())
	// ChildDirty reports that a hosted component, or one below it, is stale.
	ChildDirty()
	// ObserveRender reports a render of the named component, or a reuse of
	// its snapshot when reused is true.
	ObserveRender(component string, reused bool)
}

type instance[C, In any] struct {
	state C
	input In
}

// Ctx is the shared handle to a live component instance. It is created on
// first render, adopted by every later CompNode at the same position, and
// detached when the component is removed.
type Ctx[S any, C Component[S, In], In any] struct {
	cell    *Cell[instance[C, In]]
	host    Host
	mounted bool
	stale   bool
	// dirty is set when a component below this one is stale.
	dirty bool
}

// State returns a copy of the component state.
func (x *Ctx[S, C, In]) State() C {
	var s C
	if x.cell != nil {
		x.cell.With(func(in *instance[C, In]) { s = in.state })
	}
	return s
}

// Input returns the input most recently supplied by the parent.
func (x *Ctx[S, C, In]) Input() In {
	var v In
	if x.cell != nil {
		x.cell.With(func(in *instance[C, In]) { v = in.input })
	}
	return v
}

// Mounted reports whether the component is part of the live tree.
func (x *Ctx[S, C, In]) Mounted() bool { return x.mounted }

// Stale reports whether the component must re-render on the next diff.
func (x *Ctx[S, C, In]) Stale() bool { return x.stale }

// Update mutates the component state outside a render pass and marks the
// component stale. With a host the mutation is queued; without one it is
// applied at once. Updates to an unmounted component are dropped.
func (x *Ctx[S, C, In]) Update(fn func(state *C)) {
	if x.host != nil {
		x.host.Schedule(func() { x.apply(fn) })
		return
	}
	x.apply(fn)
}

func (x *Ctx[S, C, In]) apply(fn func(state *C)) {
	if !x.mounted {
		return
	}
	x.cell.WithMut(func(in *instance[C, In]) { fn(&in.state) })
	x.stale = true
	if x.host != nil {
		x.host.ChildDirty()
	}
}

// Schedule forwards to the host, or runs fn when there is none.
func (x *Ctx[S, C, In]) Schedule(fn func()) {
	if x.host != nil {
		x.host.Schedule(fn)
		return
	}
	fn()
}

// ChildDirty flags the subtree for a walk on the next diff and forwards up.
func (x *Ctx[S, C, In]) ChildDirty() {
	x.dirty = true
	if x.host != nil {
		x.host.ChildDirty()
	}
}

// ObserveRender forwards to the host.
func (x *Ctx[S, C, In]) ObserveRender(component string, reused bool) {
	if x.host != nil {
		x.host.ObserveRender(component, reused)
	}
}

func (x *Ctx[S, C, In]) setInput(v In) {
	x.cell.WithMut(func(in *instance[C, In]) { in.input = v })
}
