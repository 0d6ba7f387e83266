package vdom

import (
	"fmt"
	"slices"
	"testing"

	vterrors "github.com/vango-dev/vtree/internal/errors"
)

type counter struct {
	n       int
	renders *int
}

func (c counter) Render(label string) NodeList[slot] {
	*c.renders++
	return NodeList[slot]{h.El("span", nil, h.Text(fmt.Sprintf("%s:%d", label, c.n)))}
}

func newCounter(renders *int) func(string, *Ctx[slot, counter, string]) counter {
	return func(string, *Ctx[slot, counter, string]) counter {
		return counter{renders: renders}
	}
}

func TestCompSkipsRenderWhenUnchanged(t *testing.T) {
	renders := 0
	first := NewComp(newCounter(&renders), "a")
	anc := NodeList[slot]{first}
	r := mount(t, anc)

	second := NewComp(newCounter(&renders), "a")
	log := rediff(t, r, NodeList[slot]{second}, anc)

	if renders != 1 {
		t.Errorf("renders = %d, want 1", renders)
	}
	if second.Snapshot() != first.Snapshot() {
		t.Error("snapshot should be shared by pointer")
	}
	if second.Ctx() != first.Ctx() {
		t.Error("instance should be adopted")
	}
	if m := mutations(log); len(m) != 0 {
		t.Errorf("mutations = %q", m)
	}
}

func TestCompRerendersOnInputChange(t *testing.T) {
	renders := 0
	anc := NodeList[slot]{NewComp(newCounter(&renders), "a")}
	r := mount(t, anc)

	log := rediff(t, r, NodeList[slot]{NewComp(newCounter(&renders), "b")}, anc)
	if renders != 2 {
		t.Errorf("renders = %d, want 2", renders)
	}
	want := []string{`set-text 0.0.0 "b:0"`}
	if m := mutations(log); !slices.Equal(m, want) {
		t.Errorf("mutations = %q, want %q", m, want)
	}
}

func TestCompSelfUpdate(t *testing.T) {
	renders := 0
	first := NewComp(newCounter(&renders), "a")
	anc := NodeList[slot]{first}
	r := mount(t, anc)

	first.Ctx().Update(func(c *counter) { c.n++ })
	if !first.Ctx().Stale() {
		t.Fatal("update should mark the component stale")
	}

	curr := NodeList[slot]{NewComp(newCounter(&renders), "a")}
	log := rediff(t, r, curr, anc)
	if renders != 2 {
		t.Errorf("renders = %d, want 2", renders)
	}
	want := []string{`set-text 0.0.0 "a:1"`}
	if m := mutations(log); !slices.Equal(m, want) {
		t.Errorf("mutations = %q, want %q", m, want)
	}
	if first.Ctx().Stale() {
		t.Error("render should clear the stale flag")
	}
}

type shell struct {
	renders, childRenders *int
}

func (s shell) Render(label string) NodeList[slot] {
	*s.renders++
	return NodeList[slot]{h.El("section", nil, NewComp(newCounter(s.childRenders), label))}
}

func newShell(renders, childRenders *int) func(string, *Ctx[slot, shell, string]) shell {
	return func(string, *Ctx[slot, shell, string]) shell {
		return shell{renders: renders, childRenders: childRenders}
	}
}

func TestCompStaleChildUnderMemoizedParent(t *testing.T) {
	pr, cr := 0, 0
	anc := NodeList[slot]{NewComp(newShell(&pr, &cr), "x")}
	r := mount(t, anc)

	section := anc[0].(Comp[slot]).Rendered()[0].(*Tag[slot])
	child := section.Children[0].(*CompNode[slot, counter, string])
	child.Ctx().Update(func(c *counter) { c.n = 5 })

	curr := NodeList[slot]{NewComp(newShell(&pr, &cr), "x")}
	log := rediff(t, r, curr, anc)
	if pr != 1 || cr != 2 {
		t.Errorf("parent renders = %d, child renders = %d; want 1, 2", pr, cr)
	}
	want := []string{`set-text 0.0.0.0.0 "x:5"`}
	if m := mutations(log); !slices.Equal(m, want) {
		t.Errorf("mutations = %q, want %q", m, want)
	}

	next := NodeList[slot]{NewComp(newShell(&pr, &cr), "x")}
	log = rediff(t, r, next, curr)
	if pr != 1 || cr != 2 {
		t.Errorf("quiet pass rendered: parent %d, child %d", pr, cr)
	}
	if len(log) != 0 {
		t.Errorf("quiet pass log = %q, want nothing", log)
	}
}

func TestCompUpdateAfterRemovalIsDropped(t *testing.T) {
	renders := 0
	first := NewComp(newCounter(&renders), "a")
	anc := NodeList[slot]{first}
	r := mount(t, anc)
	rediff(t, r, NodeList[slot]{nil}, anc)

	ctx := first.Ctx()
	if ctx.Mounted() {
		t.Fatal("removed component should be unmounted")
	}
	ctx.Update(func(c *counter) { c.n = 9 })
	if ctx.State().n != 0 || ctx.Stale() {
		t.Error("update after removal should be dropped")
	}
}

type gated struct{ renders *int }

type gatedInput struct {
	Label  string
	Clicks int
}

func (g gated) Render(in gatedInput) NodeList[slot] {
	*g.renders++
	return NodeList[slot]{h.Text(in.Label)}
}

func (g gated) ShouldRender(prev gated, prevInput, input gatedInput) bool {
	return prevInput.Label != input.Label
}

func TestCompRenderGate(t *testing.T) {
	renders := 0
	newGated := func(gatedInput, *Ctx[slot, gated, gatedInput]) gated { return gated{renders: &renders} }

	anc := NodeList[slot]{NewComp(newGated, gatedInput{Label: "a"})}
	r := mount(t, anc)

	curr := NodeList[slot]{NewComp(newGated, gatedInput{Label: "a", Clicks: 3})}
	rediff(t, r, curr, anc)
	if renders != 1 {
		t.Errorf("ignored field caused a render: renders = %d", renders)
	}

	next := NodeList[slot]{NewComp(newGated, gatedInput{Label: "b", Clicks: 3})}
	rediff(t, r, next, curr)
	if renders != 2 {
		t.Errorf("renders = %d, want 2", renders)
	}
}

type basket struct {
	items []string
}

func (b basket) Render(struct{}) NodeList[slot] { return nil }

func (b basket) Clone() basket {
	return basket{items: slices.Clone(b.items)}
}

func TestCompSnapshotClonesState(t *testing.T) {
	node := NewComp(func(struct{}, *Ctx[slot, basket, struct{}]) basket {
		return basket{items: []string{"a"}}
	}, struct{}{})
	mount(t, NodeList[slot]{node})

	node.Ctx().Update(func(b *basket) { b.items[0] = "z" })
	if got := node.Snapshot().State.items[0]; got != "a" {
		t.Errorf("snapshot state aliased live state: %q", got)
	}
}

func TestCompWidthCountsRenderedNodes(t *testing.T) {
	pair := NewComp(func(struct{}, *Ctx[slot, pairComp, struct{}]) pairComp { return pairComp{} }, struct{}{})
	r := mount(t, NodeList[slot]{h.Text("a"), pair, h.Text("b")})
	if !slices.Contains(r.log, `text 2 "b" @3`) {
		t.Errorf("log = %q, want b at index 3", r.log)
	}
	if pair.width() != 2 {
		t.Errorf("width = %d, want 2", pair.width())
	}
}

type pairComp struct{}

func (pairComp) Render(struct{}) NodeList[slot] {
	return NodeList[slot]{h.Text("x"), h.Text("y")}
}

func TestCompTypeChangeIsRebuilt(t *testing.T) {
	renders := 0
	anc := NodeList[slot]{NewComp(newCounter(&renders), "a")}
	r := mount(t, anc)
	pair := NewComp(func(struct{}, *Ctx[slot, pairComp, struct{}]) pairComp { return pairComp{} }, struct{}{})
	log := rediff(t, r, NodeList[slot]{pair}, anc)

	want := []string{"remove 0 @0", "add 0 @0"}
	if m := mutations(log); !slices.Equal(m, want) {
		t.Errorf("mutations = %q, want %q", m, want)
	}
	if anc[0].(*CompNode[slot, counter, string]).Ctx().Mounted() {
		t.Error("replaced component should be unmounted")
	}
}

func TestCompKeyedMoveUsesRenderedWidth(t *testing.T) {
	newPair := func(struct{}, *Ctx[slot, pairComp, struct{}]) pairComp { return pairComp{} }
	anc := NodeList[slot]{
		h.Keyed(Str("t"), h.Text("t")),
		NewComp(newPair, struct{}{}).Keyed(Str("p")),
	}
	r := mount(t, anc)
	curr := NodeList[slot]{
		NewComp(newPair, struct{}{}).Keyed(Str("p")),
		h.Keyed(Str("t"), h.Text("t")),
	}
	log := rediff(t, r, curr, anc)
	want := []string{"move sp 1->0"}
	if m := mutations(log); !slices.Equal(m, want) {
		t.Errorf("mutations = %q, want %q", m, want)
	}
	if !slices.Contains(log, "text= st @2") {
		t.Errorf("log = %q, want t diffed at index 2", log)
	}
}

type exploding struct{}

func (exploding) Render(string) NodeList[slot] { panic("render blew up") }

func TestCompRenderPanicBecomesError(t *testing.T) {
	node := NewComp(func(string, *Ctx[slot, exploding, string]) exploding { return exploding{} }, "")
	err := VisitRoot(NodeList[slot]{node}, &recorder{})
	if !vterrors.Is(err, "E030") {
		t.Fatalf("err = %v, want E030", err)
	}
	e := vterrors.FromError(err, "")
	if e.Path != "0" {
		t.Errorf("Path = %q, want 0", e.Path)
	}
}

func TestCompConstructorPanicBecomesError(t *testing.T) {
	node := NewComp(func(string, *Ctx[slot, counter, string]) counter { panic(fmt.Errorf("no state")) }, "")
	err := VisitRoot(NodeList[slot]{node}, &recorder{})
	if !vterrors.Is(err, "E031") {
		t.Fatalf("err = %v, want E031", err)
	}
}

type selfUpdating struct {
	ctx *Ctx[slot, selfUpdating, string]
}

func (s selfUpdating) Render(string) NodeList[slot] {
	s.ctx.Update(func(*selfUpdating) {})
	return nil
}

func TestCompUpdateDuringRenderWithoutHostPanics(t *testing.T) {
	node := NewComp(func(_ string, ctx *Ctx[slot, selfUpdating, string]) selfUpdating {
		return selfUpdating{ctx: ctx}
	}, "")
	defer func() {
		e, ok := recover().(*vterrors.Error)
		if !ok || e.Code != "E023" {
			t.Fatalf("recovered %v, want E023", e)
		}
	}()
	_ = VisitRoot(NodeList[slot]{node}, &recorder{})
}

type queueHost struct {
	queue   []func()
	dirty   int
	renders map[string]int
	reuses  map[string]int
}

func newQueueHost() *queueHost {
	return &queueHost{renders: map[string]int{}, reuses: map[string]int{}}
}

func (q *queueHost) Schedule(fn func()) { q.queue = append(q.queue, fn) }

func (q *queueHost) ChildDirty() { q.dirty++ }

func (q *queueHost) ObserveRender(name string, reused bool) {
	if reused {
		q.reuses[name]++
	} else {
		q.renders[name]++
	}
}

func (q *queueHost) flush() {
	for len(q.queue) > 0 {
		fn := q.queue[0]
		q.queue = q.queue[1:]
		fn()
	}
}

func TestCompUpdatesAreQueuedOnHost(t *testing.T) {
	host := newQueueHost()
	node := NewComp(func(_ string, ctx *Ctx[slot, selfUpdating, string]) selfUpdating {
		return selfUpdating{ctx: ctx}
	}, "")
	l := NodeList[slot]{node}
	Attach(l, host)
	if err := VisitRoot(l, &recorder{}); err != nil {
		t.Fatal(err)
	}
	if len(host.queue) != 1 {
		t.Fatalf("queued %d updates, want 1", len(host.queue))
	}
	host.flush()
	if host.dirty != 1 || !node.Ctx().Stale() {
		t.Errorf("dirty = %d, stale = %v", host.dirty, node.Ctx().Stale())
	}
	if host.renders["vdom.selfUpdating"] != 1 {
		t.Errorf("renders = %v", host.renders)
	}
}

func TestCompHostObservesReuse(t *testing.T) {
	host := newQueueHost()
	renders := 0
	anc := NodeList[slot]{NewComp(newCounter(&renders), "a")}
	Attach(anc, host)
	r := mount(t, anc)

	curr := NodeList[slot]{NewComp(newCounter(&renders), "a")}
	Attach(curr, host)
	rediff(t, r, curr, anc)
	if host.renders["vdom.counter"] != 1 || host.reuses["vdom.counter"] != 1 {
		t.Errorf("renders = %v, reuses = %v", host.renders, host.reuses)
	}
}

func TestCellBorrowRules(t *testing.T) {
	c := NewCell(1)

	_, r1 := c.Borrow()
	_, r2 := c.Borrow()
	func() {
		defer func() {
			e, ok := recover().(*vterrors.Error)
			if !ok || e.Code != "E023" {
				t.Errorf("recovered %v, want E023", e)
			}
		}()
		c.BorrowMut()
	}()
	r1()
	r2()

	c.WithMut(func(v *int) { *v = 2 })
	c.With(func(v *int) {
		if *v != 2 {
			t.Errorf("value = %d, want 2", *v)
		}
	})

	_, release := c.BorrowMut()
	func() {
		defer func() {
			if recover() == nil {
				t.Error("shared borrow during exclusive borrow should panic")
			}
		}()
		c.Borrow()
	}()
	release()
}
