// Package vtest provides testing helpers for virtual trees.
//
// A Harness mounts a tree on an in-memory document through the stock
// driver and keeps the last tree, so successive Patch calls replay the
// updates a real owner would issue:
//
//	func TestTodo(t *testing.T) {
//	    h := vtest.Mount(t, list("milk"))
//	    vtest.ExpectHTML(t, h, "<ul><li>milk</li></ul>")
//
//	    h.Patch(list("milk", "eggs"))
//	    vtest.ExpectMutations(t, h, 3)
//	}
//
// Driver errors fail the test at once. The assertions report failures with
// t.Errorf and keep going.
package vtest
