package vdom

import (
	"errors"
	"slices"
	"strings"
	"testing"

	vterrors "github.com/vango-dev/vtree/internal/errors"
)

func rows(keys ...string) NodeList[slot] {
	items := make([]Node[slot], len(keys))
	for i, k := range keys {
		items[i] = h.Keyed(Str(k), h.El("li", nil, h.Text(k)))
	}
	return NodeList[slot]{h.El("ul", nil, items...)}
}

func mount(t *testing.T, l NodeList[slot]) *recorder {
	t.Helper()
	r := &recorder{}
	if err := VisitRoot(l, r); err != nil {
		t.Fatalf("VisitRoot: %v", err)
	}
	return r
}

func rediff(t *testing.T, r *recorder, curr, anc NodeList[slot]) []string {
	t.Helper()
	r.log = nil
	if err := DiffRoot(curr, anc, differ{r}); err != nil {
		t.Fatalf("DiffRoot: %v", err)
	}
	return r.log
}

func TestVisitOrderAndPaths(t *testing.T) {
	r := mount(t, rows("row-7"))
	want := []string{
		"tag 0 ul @0",
		"tag 0.srow-7 li @0",
		`text 0.srow-7.0 "row-7" @0`,
	}
	if !slices.Equal(r.log, want) {
		t.Errorf("log = %q, want %q", r.log, want)
	}
}

func TestDiffUnchangedTreeHasNoMutations(t *testing.T) {
	build := func() NodeList[slot] {
		return NodeList[slot]{
			h.El("div", h.Attrs(h.Attr("class", "card"), h.Bool("hidden", false)),
				h.StaticText("title"),
				h.El("p", nil, h.Text("body")),
				h.If(false, h.El("aside", nil)),
			),
		}
	}
	anc := build()
	r := mount(t, anc)
	curr := build()
	log := rediff(t, r, curr, anc)

	if m := mutations(log); len(m) != 0 {
		t.Errorf("mutations = %q, want none", m)
	}
	if !slices.Contains(log, "tag= 0.1 @1") {
		t.Errorf("log = %q, want pair callback for the paragraph", log)
	}
	if !slices.Equal(live(curr), live(anc)) {
		t.Errorf("stores were not carried forward: %v vs %v", live(curr), live(anc))
	}
}

func TestDiffKeyedReorderOnlyMoves(t *testing.T) {
	anc := NodeList[slot]{h.El("ul", nil,
		h.Keyed(Str("a"), h.El("li", nil, h.Text("1"))),
		h.Keyed(Str("b"), h.El("li", nil, h.Text("2"))),
		h.Keyed(Str("c"), h.El("li", nil, h.Text("3"))),
	)}
	curr := NodeList[slot]{h.El("ul", nil,
		h.Keyed(Str("c"), h.El("li", nil, h.Text("3"))),
		h.Keyed(Str("a"), h.El("li", nil, h.Text("1"))),
		h.Keyed(Str("b"), h.El("li", nil, h.Text("2"))),
	)}
	r := mount(t, anc)
	before := live(anc)
	log := rediff(t, r, curr, anc)

	want := []string{"move 0.sc 2->0"}
	if m := mutations(log); !slices.Equal(m, want) {
		t.Errorf("mutations = %q, want %q", m, want)
	}
	got := live(curr)
	slices.Sort(got)
	slices.Sort(before)
	if !slices.Equal(got, before) {
		t.Errorf("reorder recreated stores: %v vs %v", got, before)
	}
}

func TestDiffPathStableAcrossRenders(t *testing.T) {
	anc := rows("row-7")
	r := mount(t, anc)
	curr := rows("row-1", "row-7")
	log := rediff(t, r, curr, anc)

	if !slices.Contains(log, "tag= 0.srow-7 @1") {
		t.Errorf("log = %q, want row-7 diffed at 0.srow-7", log)
	}
	if !slices.Contains(log, "add 0.srow-1 @0") {
		t.Errorf("log = %q, want row-1 added at index 0", log)
	}
}

func TestDiffRemovalOrder(t *testing.T) {
	anc := rows("a", "b", "c")
	r := mount(t, anc)
	log := rediff(t, r, rows("b"), anc)

	want := []string{"remove 0.sc @2", "remove 0.sa @0"}
	if m := mutations(log); !slices.Equal(m, want) {
		t.Errorf("mutations = %q, want %q", m, want)
	}
}

func TestDiffMixedKeyedAndPositional(t *testing.T) {
	anc := NodeList[slot]{h.Text("x"), h.Keyed(Str("k"), h.Text("k"))}
	r := mount(t, anc)
	curr := NodeList[slot]{h.Keyed(Str("k"), h.Text("k")), h.Text("x")}
	log := rediff(t, r, curr, anc)

	want := []string{"move sk 1->0"}
	if m := mutations(log); !slices.Equal(m, want) {
		t.Errorf("mutations = %q, want %q", m, want)
	}
}

func TestDiffOptionalTable(t *testing.T) {
	node := func() Node[slot] { return h.El("b", nil, h.Text("x")) }
	tests := []struct {
		name      string
		curr, anc Node[slot]
		want      []string
	}{
		{"none none", nil, nil, nil},
		{"some none", node(), nil, []string{"add 0 @0"}},
		{"none some", nil, node(), []string{"remove 0 @0"}},
		{"some some", node(), node(), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &recorder{}
			if tt.anc != nil {
				if err := VisitNode(PathOf(Index(0)), new(int), tt.anc, r); err != nil {
					t.Fatal(err)
				}
			}
			r.log = nil
			ci, ai := 0, 0
			if err := DiffOptional(PathOf(Index(0)), &ci, &ai, tt.curr, tt.anc, differ{r}); err != nil {
				t.Fatal(err)
			}
			if m := mutations(r.log); !slices.Equal(m, tt.want) {
				t.Errorf("mutations = %q, want %q", m, tt.want)
			}
		})
	}
}

func TestAddMatchesVisit(t *testing.T) {
	build := func() Node[slot] {
		return h.El("form", h.Attrs(h.Attr("method", "post")),
			h.El("input", h.Attrs(h.Bool("disabled", true))),
			h.Text("hi"),
		)
	}
	visited := mount(t, NodeList[slot]{build()})

	r := &recorder{}
	if err := DiffRoot(NodeList[slot]{build()}, NodeList[slot]{nil}, differ{r}); err != nil {
		t.Fatal(err)
	}
	if r.log[0] != "add 0 @0" {
		t.Fatalf("log[0] = %q, want add", r.log[0])
	}
	if !slices.Equal(r.log[1:], visited.log) {
		t.Errorf("add log = %q\nvisit log = %q", r.log[1:], visited.log)
	}
}

func TestRemoveReleasesAllStores(t *testing.T) {
	anc := NodeList[slot]{h.El("div", nil, h.El("span", nil, h.Text("a")), h.Text("b"))}
	r := mount(t, anc)
	if len(live(anc)) != 4 {
		t.Fatalf("live before = %v", live(anc))
	}
	rediff(t, r, NodeList[slot]{nil}, anc)
	if l := live(anc); len(l) != 0 {
		t.Errorf("live after removal = %v", l)
	}
}

func TestDiffIncompatiblePairIsRebuilt(t *testing.T) {
	tests := []struct {
		name      string
		curr, anc Node[slot]
	}{
		{"tag to text", h.Text("x"), h.El("div", nil)},
		{"text to tag", h.El("div", nil), h.Text("x")},
		{"tag rename", h.El("span", nil), h.El("div", nil)},
		{"dynamic tag rename", h.DynEl("h2", nil), h.DynEl("h1", nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			anc := NodeList[slot]{tt.anc}
			r := mount(t, anc)
			log := rediff(t, r, NodeList[slot]{tt.curr}, anc)
			want := []string{"remove 0 @0", "add 0 @0"}
			if m := mutations(log); !slices.Equal(m, want) {
				t.Errorf("mutations = %q, want %q", m, want)
			}
		})
	}
}

func TestDiffTextChange(t *testing.T) {
	anc := NodeList[slot]{h.El("p", nil, h.Text("a"))}
	r := mount(t, anc)
	log := rediff(t, r, NodeList[slot]{h.El("p", nil, h.Text("b"))}, anc)
	want := []string{`set-text 0.0 "b"`}
	if m := mutations(log); !slices.Equal(m, want) {
		t.Errorf("mutations = %q, want %q", m, want)
	}
}

func TestDiffAttrBooleanAndNull(t *testing.T) {
	x, y := "x", "y"
	tests := []struct {
		name      string
		curr, anc *Attr[slot]
		want      string
	}{
		{"true to false", h.Bool("checked", false), h.Bool("checked", true), "remove-attr checked"},
		{"some to none", h.Opt("title", nil), h.Opt("title", &x), "remove-attr title"},
		{"none to some", h.Opt("title", &y), h.Opt("title", nil), `set-attr title="y"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			anc := NodeList[slot]{h.El("div", h.Attrs(tt.anc))}
			r := mount(t, anc)
			log := rediff(t, r, NodeList[slot]{h.El("div", h.Attrs(tt.curr))}, anc)
			if m := mutations(log); !slices.Equal(m, []string{tt.want}) {
				t.Errorf("mutations = %q, want %q", m, tt.want)
			}
		})
	}
}

func TestDuplicateKeyPanics(t *testing.T) {
	defer func() {
		e, ok := recover().(*vterrors.Error)
		if !ok || e.Code != "E022" {
			t.Fatalf("recovered %v, want E022", e)
		}
		if !strings.Contains(e.Detail, "sa") {
			t.Errorf("Detail = %q", e.Detail)
		}
	}()
	_ = VisitRoot(rows("a", "a"), &recorder{})
}

func TestStaticTextChangePanics(t *testing.T) {
	anc := NodeList[slot]{h.StaticText("a")}
	r := mount(t, anc)
	defer func() {
		e, ok := recover().(*vterrors.Error)
		if !ok || e.Code != "E021" {
			t.Fatalf("recovered %v, want E021", e)
		}
	}()
	_ = DiffRoot(NodeList[slot]{h.StaticText("b")}, anc, differ{r})
}

type failingVisitor struct {
	recorder
	failOn string
}

func (f *failingVisitor) OnText(path *Path, index int, t *Text[slot]) error {
	if t.Content == f.failOn {
		return errors.New("create failed")
	}
	return f.recorder.OnText(path, index, t)
}

func TestVisitErrorShortCircuits(t *testing.T) {
	f := &failingVisitor{failOn: "b"}
	l := NodeList[slot]{h.Text("a"), h.Text("b"), h.Text("c")}
	err := VisitList(Root(), new(int), l, f)
	if err == nil || err.Error() != "create failed" {
		t.Fatalf("err = %v", err)
	}
	if len(f.log) != 1 {
		t.Errorf("visited %d nodes after failure, want 1", len(f.log))
	}
}

// orderSim applies differ callbacks for a flat list of keyed texts to a
// simulated backing order and checks each position it is given.
type orderSim struct {
	t     *testing.T
	order []string
}

func keyName(p *Path) string {
	k, _ := p.Key()
	s, _ := k.Str()
	return s
}

func (s *orderSim) OnTag(*Path, int, int, *Tag[slot], *Tag[slot]) error { return nil }

func (s *orderSim) OnText(path *Path, ci, ai int, curr, anc *Text[slot]) error {
	if s.order[ci] != keyName(path) {
		s.t.Errorf("pair %s diffed at %d, backing has %q there", keyName(path), ci, s.order[ci])
	}
	return nil
}

func (s *orderSim) OnComp(*Path, *int, *int, Comp[slot], Comp[slot]) error { return nil }

func (s *orderSim) OnNodeAdded(path *Path, index *int, n Node[slot]) error {
	s.order = slices.Insert(s.order, *index, keyName(path))
	*index++
	return nil
}

func (s *orderSim) OnNodeRemoved(path *Path, ai *int, n Node[slot]) error {
	i := slices.Index(s.order, keyName(path))
	s.order = slices.Delete(s.order, i, i+1)
	return nil
}

func (s *orderSim) OnNodeMoved(path *Path, from, to int, anc Node[slot]) error {
	if s.order[from] != keyName(path) {
		s.t.Errorf("move of %s from %d, backing has %q there", keyName(path), from, s.order[from])
	}
	s.order = slices.Delete(s.order, from, from+1)
	s.order = slices.Insert(s.order, to, keyName(path))
	return nil
}

func TestDiffListReachesCurrentOrder(t *testing.T) {
	texts := func(keys string) NodeList[slot] {
		var l NodeList[slot]
		for _, k := range strings.Fields(keys) {
			l = append(l, h.Keyed(Str(k), h.Text(k)))
		}
		return l
	}
	tests := []struct{ anc, curr string }{
		{"a b c", "c a b"},
		{"a b c d e", "e d c b a"},
		{"a b c", "x b y"},
		{"a b c d", "b d a x c"},
		{"", "a b"},
		{"a b", ""},
		{"a b c d e f", "f a e b d c"},
		{"a b c d e f", "b c d e f a"},
	}
	for _, tt := range tests {
		t.Run(tt.anc+"->"+tt.curr, func(t *testing.T) {
			sim := &orderSim{t: t, order: strings.Fields(tt.anc)}
			ci, ai := 0, 0
			if err := DiffList(Root(), &ci, &ai, texts(tt.curr), texts(tt.anc), sim); err != nil {
				t.Fatal(err)
			}
			want := strings.Fields(tt.curr)
			if !slices.Equal(sim.order, want) {
				t.Errorf("order = %v, want %v", sim.order, want)
			}
			if ci != len(want) || ai != len(strings.Fields(tt.anc)) {
				t.Errorf("ci, ai = %d, %d", ci, ai)
			}
		})
	}
}
