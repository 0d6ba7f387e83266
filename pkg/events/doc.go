// Package events routes events to listeners registered at tree paths.
//
// A listener is keyed by the path of the node it listens on and by the
// event kind. Dispatch starts at the target path and walks toward the root,
// calling every listener of the matching kind on the way until one stops
// propagation.
//
// Trees declare listeners with data-on-<kind> attributes naming an action:
//
//	h.El("button", h.Attrs(h.StaticAttr("data-on-click", "toggle")), ...)
//
// Sync walks a rendered tree and binds those attributes to the handlers of
// an Actions table. Clients refer to targets by the string form of their
// path.
package events
