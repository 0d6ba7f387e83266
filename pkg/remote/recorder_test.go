package remote

import (
	"fmt"
	"slices"
	"testing"

	vterrors "github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/driver"
	"github.com/vango-dev/vtree/pkg/memdom"
	"github.com/vango-dev/vtree/pkg/protocol"
	"github.com/vango-dev/vtree/pkg/vdom"
)

type slot = driver.Slot[NodeID]

var h vdom.Builder[slot]

func todo(items []string, done map[string]bool) vdom.NodeList[slot] {
	lis := make([]vdom.Node[slot], len(items))
	for i, it := range items {
		lis[i] = h.Keyed(vdom.Str(it), h.El("li", h.Attrs(h.Bool("data-done", done[it])), h.Text(it)))
	}
	return h.List(h.El("ul", h.Attrs(h.StaticAttr("class", "todo")), lis...))
}

func patchStrings(pf *protocol.PatchesFrame) []string {
	out := make([]string, len(pf.Patches))
	for i, p := range pf.Patches {
		out[i] = p.String()
	}
	return out
}

func TestRecorderMountPatches(t *testing.T) {
	r := NewRecorder()
	d := driver.New[NodeID](r)
	if err := d.Mount(r.Root(), todo([]string{"milk"}, map[string]bool{"milk": true})); err != nil {
		t.Fatal(err)
	}
	pf := r.Flush()
	want := []string{
		"CreateElement #1 <ul>",
		`SetAttr #1 class="todo"`,
		"CreateElement #2 <li>",
		"SetBoolAttr #2 data-done",
		`CreateText #3 "milk"`,
		"Insert #3 -> #2@0",
		"Insert #2 -> #1@0",
		"Insert #1 -> #0@0",
	}
	if got := patchStrings(pf); !slices.Equal(got, want) {
		t.Errorf("patches =\n%q\nwant\n%q", got, want)
	}
	if pf.Seq != 1 {
		t.Errorf("Seq = %d, want 1", pf.Seq)
	}
	if r.Flush() != nil {
		t.Error("second Flush returned a batch")
	}
}

func TestRecorderRejectsUnknownNodes(t *testing.T) {
	r := NewRecorder()
	el, _ := r.CreateElement("p")
	txt, _ := r.CreateText("x")

	tests := []struct {
		name string
		err  error
	}{
		{"set text on unknown", r.SetText(42, "x")},
		{"set text on element", r.SetText(el, "x")},
		{"set attr on text", r.SetAttr(txt, "id", vdom.Value("a"))},
		{"insert under text", r.Insert(txt, el, 0)},
		{"move detached", r.Move(protocol.RootID, el, 0)},
		{"insert out of range", r.Insert(protocol.RootID, el, 3)},
		{"remove root", r.Remove(protocol.RootID)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !vterrors.Is(tt.err, "E003") {
				t.Errorf("err = %v, want E003", tt.err)
			}
		})
	}
}

func TestRecorderRemoveForgetsSubtree(t *testing.T) {
	r := NewRecorder()
	d := driver.New[NodeID](r)
	tree := todo([]string{"a", "b"}, nil)
	if err := d.Mount(r.Root(), tree); err != nil {
		t.Fatal(err)
	}
	if r.Nodes() != 5 {
		t.Fatalf("Nodes() = %d, want 5", r.Nodes())
	}
	if err := r.Clear(r.Root()); err != nil {
		t.Fatal(err)
	}
	if r.Nodes() != 0 {
		t.Errorf("Nodes() = %d after Clear, want 0", r.Nodes())
	}
}

// TestMirrorMatchesLocalDocument drives the same sequence of trees through
// a local document and through the wire, and checks both ends agree.
func TestMirrorMatchesLocalDocument(t *testing.T) {
	steps := []struct {
		items []string
		done  map[string]bool
	}{
		{[]string{"a", "b", "c"}, nil},
		{[]string{"c", "a", "b"}, map[string]bool{"a": true}},
		{[]string{"c", "x", "b"}, map[string]bool{"a": true, "x": true}},
		{[]string{"b", "c"}, nil},
		{nil, nil},
		{[]string{"z"}, map[string]bool{"z": true}},
	}

	local := memdom.New("body")
	ld := driver.New[*memdom.Node](local)
	var lanc vdom.NodeList[driver.Slot[*memdom.Node]]
	var lh vdom.Builder[driver.Slot[*memdom.Node]]
	localTree := func(items []string, done map[string]bool) vdom.NodeList[driver.Slot[*memdom.Node]] {
		lis := make([]vdom.Node[driver.Slot[*memdom.Node]], len(items))
		for i, it := range items {
			lis[i] = lh.Keyed(vdom.Str(it), lh.El("li", lh.Attrs(lh.Bool("data-done", done[it])), lh.Text(it)))
		}
		return lh.List(lh.El("ul", lh.Attrs(lh.StaticAttr("class", "todo")), lis...))
	}

	r := NewRecorder()
	rd := driver.New[NodeID](r)
	mirror := NewMirror(memdom.New("body"))
	var ranc vdom.NodeList[slot]

	for i, step := range steps {
		lcurr, rcurr := localTree(step.items, step.done), todo(step.items, step.done)
		var lerr, rerr error
		if i == 0 {
			lerr, rerr = ld.Mount(local.Root(), lcurr), rd.Mount(r.Root(), rcurr)
		} else {
			lerr, rerr = ld.Patch(local.Root(), lcurr, lanc), rd.Patch(r.Root(), rcurr, ranc)
		}
		if lerr != nil || rerr != nil {
			t.Fatalf("step %d: local %v remote %v", i, lerr, rerr)
		}
		lanc, ranc = lcurr, rcurr

		if pf := r.Flush(); pf != nil {
			frame := protocol.NewFrame(protocol.FramePatches, protocol.EncodePatches(pf))
			decoded, err := protocol.DecodeFrame(frame.Encode())
			if err != nil {
				t.Fatalf("step %d: decode frame: %v", i, err)
			}
			if err := mirror.ApplyFrame(decoded.Payload); err != nil {
				t.Fatalf("step %d: apply: %v", i, err)
			}
		}
		if got, want := mirror.Document().HTML(), local.HTML(); got != want {
			t.Errorf("step %d: mirror %s, local %s", i, got, want)
		}
	}
}

func TestMirrorAttrValues(t *testing.T) {
	empty := ""
	tests := []struct {
		name  string
		attr  *vdom.Attr[slot]
		patch string
		html  string
		want  memdom.Attr
	}{
		{"empty string", h.Attr("alt", ""), `SetAttr #1 alt=""`, `<img alt=""></img>`, memdom.Attr{Name: "alt"}},
		{"empty optional", h.Opt("alt", &empty), `SetAttr #1 alt=""`, `<img alt=""></img>`, memdom.Attr{Name: "alt"}},
		{"true", h.Bool("alt", true), "SetBoolAttr #1 alt", "<img alt></img>", memdom.Attr{Name: "alt", Bool: true}},
		{"string", h.Attr("alt", "x"), `SetAttr #1 alt="x"`, `<img alt="x"></img>`, memdom.Attr{Name: "alt", Value: "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRecorder()
			if err := driver.New[NodeID](r).Mount(r.Root(), h.List(h.El("img", h.Attrs(tt.attr)))); err != nil {
				t.Fatal(err)
			}
			pf := r.Flush()
			if got := patchStrings(pf); !slices.Contains(got, tt.patch) {
				t.Errorf("patches = %q, want %q among them", got, tt.patch)
			}
			m := NewMirror(memdom.New("body"))
			if err := m.ApplyFrame(protocol.EncodePatches(pf)); err != nil {
				t.Fatal(err)
			}
			if got, want := m.Document().HTML(), tt.html; got != want {
				t.Errorf("HTML = %s, want %s", got, want)
			}
			img := m.Document().Root().Children()[0]
			if got, _ := img.Attr("alt"); got != tt.want {
				t.Errorf("Attr = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestMirrorRejectsOutOfSequence(t *testing.T) {
	m := NewMirror(memdom.New("body"))
	err := m.Apply(&protocol.PatchesFrame{Seq: 2})
	if !vterrors.Is(err, "E043") {
		t.Errorf("err = %v, want E043", err)
	}
	err = m.Apply(&protocol.PatchesFrame{Seq: 1, Patches: []protocol.Patch{{Op: protocol.PatchRemove, ID: 9}}})
	if !vterrors.Is(err, "E003") {
		t.Errorf("err = %v, want E003", err)
	}
	if m.Seq() != 0 {
		t.Errorf("Seq() = %d after failed batch, want 0", m.Seq())
	}
}

func ExampleRecorder() {
	r := NewRecorder()
	d := driver.New[NodeID](r)
	_ = d.Mount(r.Root(), h.List(h.El("p", nil, h.Text("hi"))))
	for _, p := range r.Flush().Patches {
		fmt.Println(p)
	}
	// Output:
	// CreateElement #1 <p>
	// CreateText #2 "hi"
	// Insert #2 -> #1@0
	// Insert #1 -> #0@0
}

func TestRecorderFlushFramesKeepsSequence(t *testing.T) {
	r := NewRecorder()
	d := driver.New[NodeID](r)
	items := make([]string, 200)
	for i := range items {
		items[i] = fmt.Sprintf("item-%03d", i)
	}
	tree := todo(items, nil)
	if err := d.Mount(r.Root(), tree); err != nil {
		t.Fatal(err)
	}
	frames := r.FlushFrames(512)
	if len(frames) < 2 {
		t.Fatalf("got %d frames, want several", len(frames))
	}

	mirror := NewMirror(memdom.New("body"))
	for _, pf := range frames {
		if err := mirror.Apply(pf); err != nil {
			t.Fatal(err)
		}
	}
	if got := mirror.Document().Live(); got != 1+2*len(items) {
		t.Errorf("mirror holds %d nodes, want %d", got, 1+2*len(items))
	}

	_ = d.Patch(r.Root(), todo(items[:1], nil), tree)
	if pf := r.Flush(); pf == nil || pf.Seq != uint64(len(frames)+1) {
		t.Errorf("next batch does not continue the sequence")
	}
}

func TestDiscard(t *testing.T) {
	r := NewRecorder()
	_, _ = r.CreateText("x")
	r.Discard()
	if r.Pending() != 0 || r.Flush() != nil {
		t.Error("Discard kept patches")
	}
}
