package events

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/vango-dev/vtree/pkg/vdom"
)

// Event is one occurrence delivered to listeners.
type Event struct {
	// Kind is the event kind, e.g. "click".
	Kind string
	// Target is the path the event was dispatched at.
	Target *vdom.Path
	// Current is the path of the listener being called.
	Current *vdom.Path
	// Data is the optional payload sent with the event.
	Data string

	stopped bool
}

// StopPropagation keeps the event from reaching listeners closer to the
// root.
func (e *Event) StopPropagation() { e.stopped = true }

// Handler handles an event.
type Handler func(ev *Event)

type listenerKey struct {
	path vdom.PathID
	kind string
}

type listener struct {
	path    *vdom.Path
	handler Handler
}

// target is a path with at least one listener, and how many kinds it has.
type target struct {
	path  *vdom.Path
	kinds int
}

// Registry holds the listeners of one tree. It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	interner  *vdom.PathInterner
	listeners map[listenerKey]listener
	targets   map[vdom.PathID]*target
	kinds     map[string]int
	logger    *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		interner:  vdom.NewPathInterner(),
		listeners: make(map[listenerKey]listener),
		targets:   make(map[vdom.PathID]*target),
		kinds:     make(map[string]int),
		logger:    slog.Default().With("component", "events"),
	}
}

// Register adds a listener or replaces the one already registered for the
// same path and kind.
func (r *Registry) Register(path *vdom.Path, kind string, fn Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.register(path, kind, fn)
}

func (r *Registry) register(path *vdom.Path, kind string, fn Handler) {
	p := r.interner.Intern(path)
	k := listenerKey{path: p.ID(), kind: kind}
	if _, ok := r.listeners[k]; !ok {
		r.kinds[kind]++
		tg := r.targets[k.path]
		if tg == nil {
			tg = &target{path: p}
			r.targets[k.path] = tg
		}
		tg.kinds++
	}
	r.listeners[k] = listener{path: p, handler: fn}
}

// Unregister removes the listener for path and kind. It reports whether
// one was registered.
func (r *Registry) Unregister(path *vdom.Path, kind string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := listenerKey{path: path.ID(), kind: kind}
	if _, ok := r.listeners[k]; !ok {
		return false
	}
	delete(r.listeners, k)
	if r.kinds[kind]--; r.kinds[kind] == 0 {
		delete(r.kinds, kind)
	}
	tg := r.targets[k.path]
	if tg.kinds--; tg.kinds == 0 {
		delete(r.targets, k.path)
	}
	return true
}

// Reset removes every listener.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reset()
}

func (r *Registry) reset() {
	clear(r.listeners)
	clear(r.targets)
	clear(r.kinds)
}

// Len returns the number of registered listeners.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.listeners)
}

// Kinds returns the event kinds with at least one listener, sorted.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]string, 0, len(r.kinds))
	for k := range r.kinds {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Dispatch delivers an event at target, bubbling toward the root. It
// returns the number of listeners called.
func (r *Registry) Dispatch(target *vdom.Path, kind, data string) int {
	ev := &Event{Kind: kind, Target: target, Data: data}
	var chain []listener
	r.mu.RLock()
	for p := target; ; p = p.Parent() {
		if l, ok := r.listeners[listenerKey{path: p.ID(), kind: kind}]; ok {
			chain = append(chain, l)
		}
		if p.IsRoot() {
			break
		}
	}
	r.mu.RUnlock()

	// Handlers run unlocked so they may register listeners.
	called := 0
	for _, l := range chain {
		ev.Current = l.path
		l.handler(ev)
		called++
		if ev.stopped {
			break
		}
	}
	return called
}

// DispatchString delivers an event at a target given in the form of
// Path.String. The deepest path with a listener that is target or one of
// its ancestors becomes the target; it reports false when there is none or
// when target is malformed.
func (r *Registry) DispatchString(target, kind, data string) (int, bool) {
	p, ok := r.resolve(target)
	if !ok {
		r.logger.Debug("no listener path", "target", target, "event", kind)
		return 0, false
	}
	return r.Dispatch(p, kind, data), true
}

func (r *Registry) resolve(s string) (*vdom.Path, bool) {
	p, err := vdom.ParsePath(s)
	if err != nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for ; p != nil; p = p.Parent() {
		if tg, ok := r.targets[p.ID()]; ok {
			return tg.path, true
		}
	}
	return nil, false
}
