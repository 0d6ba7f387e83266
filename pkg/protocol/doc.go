// Package protocol is the binary wire format between a vtree server and a
// remote renderer.
//
// The server records backing-tree mutations as Patches (see pkg/remote) and
// ships them in Patches frames; the client answers with Event frames naming
// the tree path an event happened at.
//
// # Wire Format
//
// Every message is a frame with a 4-byte header:
//
//	┌─────────────┬──────────────┬───────────────────────────────┐
//	│ Frame Type  │ Flags        │ Payload Length                │
//	│ (1 byte)    │ (1 byte)     │ (2 bytes, big-endian)         │
//	└─────────────┴──────────────┴───────────────────────────────┘
//
// A Patches payload is a sequence number and a count followed by the
// patches, each an opcode byte and its fields:
//
//	[seq uvarint][count uvarint]{[op u8][fields...]}*
//
// Integers are varints, strings are varint length-prefixed UTF-8.
//
// # Node IDs
//
// Backing nodes are addressed by numeric IDs assigned by the server. ID 0
// is the mount container, which always exists on the client.
package protocol
