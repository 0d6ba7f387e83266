// Package memdom is an in-memory document that implements the driver
// Backend over *Node handles. It keeps ordered attributes, records every
// mutation it receives, and renders itself as HTML. Tests use it to check
// that a driven tree mirrors the virtual one; the CLI uses it to print
// render results.
package memdom
