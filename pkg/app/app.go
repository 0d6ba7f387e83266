package app

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	vterrors "github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/driver"
	"github.com/vango-dev/vtree/pkg/events"
	"github.com/vango-dev/vtree/pkg/vdom"
)

// Pass kinds.
const (
	KindMount  = "mount"
	KindRender = "render"
	KindReset  = "reset"
)

// Pass describes a finished pass.
type Pass struct {
	Kind      string
	Duration  time.Duration
	Mutations int
	Updates   int
	Stale     int
	Err       error
}

// View produces the tree of one pass.
type View[H any] func() vdom.NodeList[driver.Slot[H]]

// App owns a tree driven into a backend under root.
type App[H any] struct {
	view    View[H]
	root    H
	backend *counting[H]
	driver  *driver.Driver[H]

	logger  *slog.Logger
	metrics *Metrics
	tracer  trace.Tracer
	after   []func(Pass)
	actions events.Actions
	events  *events.Registry

	mu    sync.Mutex
	queue []func()

	inPass  atomic.Bool
	tree    vdom.NodeList[driver.Slot[H]]
	mounted bool
	stale   int
	failed  error
}

// New creates an App rendering view under root of backend b.
func New[H any](b driver.Backend[H], root H, view View[H], opts ...Option) *App[H] {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	cb := &counting[H]{Backend: b}
	a := &App[H]{
		view:    view,
		root:    root,
		backend: cb,
		driver:  driver.New[H](cb),
		logger:  cfg.logger,
		metrics: cfg.metrics,
		tracer:  cfg.tracer,
		after:   cfg.after,
		actions: cfg.actions,
	}
	if cfg.actions != nil {
		a.events = events.NewRegistry()
	}
	return a
}

// Tree returns the last successfully rendered tree.
func (a *App[H]) Tree() vdom.NodeList[driver.Slot[H]] { return a.tree }

// Mounted reports whether the tree is mounted.
func (a *App[H]) Mounted() bool { return a.mounted }

// Failed returns the error of the pass that failed the App, if any.
func (a *App[H]) Failed() error { return a.failed }

// Events returns the listener registry, or nil without WithActions.
func (a *App[H]) Events() *events.Registry { return a.events }

// Schedule implements vdom.Host. It may be called from any goroutine.
func (a *App[H]) Schedule(fn func()) {
	a.mu.Lock()
	a.queue = append(a.queue, fn)
	a.mu.Unlock()
}

// Enqueue queues fn to run at the start of the next render pass.
func (a *App[H]) Enqueue(fn func()) { a.Schedule(fn) }

// Pending returns the number of queued updates.
func (a *App[H]) Pending() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.queue)
}

// ChildDirty implements vdom.Host. It counts the components marked stale
// by the updates of the current pass.
func (a *App[H]) ChildDirty() { a.stale++ }

// ObserveRender implements vdom.Host.
func (a *App[H]) ObserveRender(component string, reused bool) {
	a.metrics.recordRender(component, reused)
}

// Dispatch routes an event to the listeners of the current tree. Handlers
// usually enqueue updates; the caller runs Render afterwards. It reports
// false when no listener of kind is found at target or above it.
func (a *App[H]) Dispatch(target, kind, data string) bool {
	if a.events == nil {
		return false
	}
	n, _ := a.events.DispatchString(target, kind, data)
	return n > 0
}

// Mount renders the view and builds it in the backend.
func (a *App[H]) Mount(ctx context.Context) error {
	return a.pass(ctx, KindMount, func() error {
		tree := a.produce()
		if err := a.driver.Mount(a.root, tree); err != nil {
			return err
		}
		a.tree = tree
		a.mounted = true
		return nil
	})
}

// Render applies queued updates, renders the view and patches the backend
// from the previous tree.
func (a *App[H]) Render(ctx context.Context) error {
	if !a.mounted && a.failed == nil {
		return a.Mount(ctx)
	}
	return a.pass(ctx, KindRender, func() error {
		tree := a.produce()
		if err := a.driver.Patch(a.root, tree, a.tree); err != nil {
			return err
		}
		a.tree = tree
		return nil
	})
}

// Reset clears the backend and mounts the view again. It is the only way
// out of the failed state. The backend must implement driver.Clearer.
func (a *App[H]) Reset(ctx context.Context) error {
	c, ok := a.backend.Backend.(driver.Clearer[H])
	if !ok {
		return vterrors.New("E032").WithDetail("the backend cannot be cleared")
	}
	if err := c.Clear(a.root); err != nil {
		return vterrors.New("E001").Wrap(err)
	}
	if a.tree != nil {
		vdom.Unmount(a.tree)
	}
	a.logger.Info("reset", "previous_error", a.failed)
	a.tree = nil
	a.mounted = false
	a.failed = nil
	return a.Mount(ctx)
}

// produce builds the next tree and makes the App the host of its
// top-level components.
func (a *App[H]) produce() vdom.NodeList[driver.Slot[H]] {
	tree := a.view()
	vdom.Attach(tree, vdom.Host(a))
	return tree
}

// drain applies queued updates and returns how many ran.
func (a *App[H]) drain() int {
	a.mu.Lock()
	queue := a.queue
	a.queue = nil
	a.mu.Unlock()
	for _, fn := range queue {
		fn()
	}
	return len(queue)
}

func (a *App[H]) pass(ctx context.Context, kind string, run func() error) error {
	if !a.inPass.CompareAndSwap(false, true) {
		vterrors.Violation("E024", "", "%s requested while a pass is running", kind)
	}
	defer a.inPass.Store(false)

	if a.failed != nil {
		return vterrors.New("E032").Wrap(a.failed)
	}

	_, span := a.tracer.Start(ctx, "vtree."+kind, trace.WithAttributes(
		attribute.String("vtree.pass", kind),
	))
	defer span.End()

	start := time.Now()
	p := Pass{Kind: kind}
	a.stale = 0
	if kind == KindRender {
		p.Updates = a.drain()
	}
	p.Stale = a.stale
	p.Err = run()
	p.Duration = time.Since(start)
	p.Mutations = a.backend.take()

	span.SetAttributes(
		attribute.Int("vtree.mutations", p.Mutations),
		attribute.Int("vtree.updates", p.Updates),
	)
	if p.Err != nil {
		a.failed = p.Err
		span.RecordError(p.Err)
		span.SetStatus(codes.Error, p.Err.Error())
		a.logger.Error("pass failed", "kind", kind, "error", p.Err)
	} else {
		span.SetStatus(codes.Ok, "")
		a.logger.Debug("pass", "kind", kind,
			"duration", p.Duration,
			"mutations", p.Mutations,
			"updates", p.Updates,
			"stale", p.Stale)
		a.sync()
	}

	a.metrics.recordPass(p)
	for _, fn := range a.after {
		fn(p)
	}
	return p.Err
}

func (a *App[H]) sync() {
	if a.events == nil {
		return
	}
	if err := events.Sync(a.events, a.tree, a.actions); err != nil {
		a.logger.Warn("listener sync", "error", err)
	}
}
