// Package app owns a driven tree for its whole life.
//
// An App holds the last rendered tree, runs mount and render passes
// through a driver, and is the host of every top-level component: it
// collects their self-updates in a queue, learns when a descendant went
// stale, and counts renders and memo hits. Passes are serialised; calling
// Render from inside a pass is a contract violation.
//
//	a := app.New(doc, doc.Root(), view,
//	    app.WithLogger(logger),
//	    app.WithMetrics(app.NewMetrics(registry, "vtree")),
//	)
//	if err := a.Mount(ctx); err != nil { ... }
//	a.Enqueue(func() { ... })
//	if err := a.Render(ctx); err != nil { ... }
//
// A failed pass leaves the backend in an unknown state. The App keeps
// refusing passes with E032 until Reset clears the backend and mounts
// again.
package app
