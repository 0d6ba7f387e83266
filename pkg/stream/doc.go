// Package stream serves apps over websockets.
//
// Every connection gets its own App rendering into a remote.Recorder. After
// each pass the recorded patches are sent to the client as binary patch
// frames; the first batch carries FlagMount. Clients send events either as
// binary event frames or as JSON text messages:
//
//	{"path":"0.0.1.u3","event":"click"}
//
// The path is the string form of a node path. Events are routed through
// the App's listener registry, after which the App renders and the patches
// of that pass go out. Failures are reported with error frames; a failed
// pass resets the App, and a failed reset closes the session.
//
// The router also serves /healthz and, when metrics are enabled, /metrics.
package stream
