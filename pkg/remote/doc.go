// Package remote drives a tree that lives on the other side of a
// connection. Recorder is a driver Backend that hands out numeric node IDs
// and records every mutation as a protocol.Patch; Flush turns the pending
// patches into a sequenced batch for the wire. Mirror is the receiving end:
// it replays batches onto a memdom.Document.
package remote
