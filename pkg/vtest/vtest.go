package vtest

import (
	"slices"
	"strings"
	"testing"

	"github.com/vango-dev/vtree/pkg/driver"
	"github.com/vango-dev/vtree/pkg/memdom"
	"github.com/vango-dev/vtree/pkg/vdom"
)

// Slot is the driver-store type of trees mounted by a Harness.
type Slot = driver.Slot[*memdom.Node]

// Builder builds trees for a Harness.
var Builder vdom.Builder[Slot]

// Harness owns a memdom document and the tree last applied to it.
type Harness struct {
	t    testing.TB
	doc  *memdom.Document
	drv  *driver.Driver[*memdom.Node]
	tree vdom.NodeList[Slot]
}

// Mount builds tree under a fresh <body> root.
func Mount(t testing.TB, tree vdom.NodeList[Slot]) *Harness {
	t.Helper()
	doc := memdom.New("body")
	h := &Harness{t: t, doc: doc, drv: driver.New[*memdom.Node](doc)}
	if err := h.drv.Mount(doc.Root(), tree); err != nil {
		t.Fatalf("mount: %v", err)
	}
	h.tree = tree
	return h
}

// Patch diffs tree against the last applied tree. The mutation log then
// holds the mutations of this call only.
func (h *Harness) Patch(tree vdom.NodeList[Slot]) *Harness {
	h.t.Helper()
	h.doc.ResetLog()
	if err := h.drv.Patch(h.doc.Root(), tree, h.tree); err != nil {
		h.t.Fatalf("patch: %v", err)
	}
	h.tree = tree
	return h
}

// Unmount removes the last applied tree.
func (h *Harness) Unmount() {
	h.t.Helper()
	h.doc.ResetLog()
	if err := h.drv.Unmount(h.doc.Root(), h.tree); err != nil {
		h.t.Fatalf("unmount: %v", err)
	}
	h.tree = nil
}

// Doc returns the backing document.
func (h *Harness) Doc() *memdom.Document { return h.doc }

// Tree returns the last applied tree.
func (h *Harness) Tree() vdom.NodeList[Slot] { return h.tree }

// HTML renders the children of the root.
func (h *Harness) HTML() string { return h.doc.HTML() }

// Log returns the mutations of the last Mount, Patch or Unmount.
func (h *Harness) Log() []string { return h.doc.Log() }

// ExpectHTML asserts that the document renders exactly want.
//
// Example:
//
//	vtest.ExpectHTML(t, h, `<p class="lead">hi</p>`)
func ExpectHTML(t testing.TB, h *Harness, want string) {
	t.Helper()
	if got := h.HTML(); got != want {
		t.Errorf("rendered output mismatch\n got: %s\nwant: %s", truncate(got, 500), want)
	}
}

// ExpectContains asserts that the rendered output contains expected.
func ExpectContains(t testing.TB, h *Harness, expected string) {
	t.Helper()
	html := h.HTML()
	if !strings.Contains(html, expected) {
		t.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// ExpectNotContains asserts that the rendered output does not contain
// unexpected.
func ExpectNotContains(t testing.TB, h *Harness, unexpected string) {
	t.Helper()
	html := h.HTML()
	if strings.Contains(html, unexpected) {
		t.Errorf("expected rendered output to NOT contain %q, got:\n%s", unexpected, truncate(html, 500))
	}
}

// ExpectMutations asserts the number of backend mutations of the last
// step.
//
// Example:
//
//	vtest.ExpectMutations(t, h.Patch(same), 0)
func ExpectMutations(t testing.TB, h *Harness, n int) {
	t.Helper()
	if log := h.Log(); len(log) != n {
		t.Errorf("expected %d mutations, got %d:\n  %s", n, len(log), strings.Join(log, "\n  "))
	}
}

// ExpectLog asserts the mutation log of the last step line by line.
func ExpectLog(t testing.TB, h *Harness, want ...string) {
	t.Helper()
	if got := h.Log(); !slices.Equal(got, want) {
		t.Errorf("mutation log mismatch\n got:\n  %s\nwant:\n  %s",
			strings.Join(got, "\n  "), strings.Join(want, "\n  "))
	}
}

// ExpectLive asserts the number of live nodes below the root.
func ExpectLive(t testing.TB, h *Harness, n int) {
	t.Helper()
	if got := h.doc.Live(); got != n {
		t.Errorf("expected %d live nodes, got %d", n, got)
	}
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
