// Package vdom is the reconciliation engine of vtree.
//
// Application code describes a UI as a NodeList of tags, text and
// components. The engine either visits a list (first render: every node is
// new) or diffs it against the list of the previous render, and reports
// what it finds to a driver through the NodeVisitor and NodeDiffer
// interfaces. The engine never touches backing resources itself; drivers
// keep their handles in the per-node store slot of type S.
//
// # Identity and paths
//
// Within a list, an entry's identity is its Key when it has one and its
// ordinal among unkeyed entries otherwise. A node's Path is the sequence of
// identities from the root, so the same logical node is reported at the
// same Path on every render that keeps it.
//
// # Reconciliation
//
// Matched pairs of the same kind (same tag name, same component type) are
// diffed; anything else is removed and added again. Reordered keyed entries
// are reported with OnNodeMoved and keep their backing resources.
//
// # Components
//
// A component renders from (state, input). When both are unchanged since
// its last render and it was not updated through its Ctx, the previous
// Snapshot is reused and its subtree is skipped entirely.
//
// # Errors
//
// Driver and component failures are returned as errors and abort the pass.
// Contract violations, such as a restructured attribute list or a
// duplicate key, panic with an *errors.Error from internal/errors.
package vdom
