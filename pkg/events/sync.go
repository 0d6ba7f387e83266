package events

import (
	"fmt"
	"strings"

	"github.com/vango-dev/vtree/pkg/vdom"
)

// AttrPrefix starts the name of a listener attribute. The rest of the name
// is the event kind, the value names an action.
const AttrPrefix = "data-on-"

// Actions maps action names to handlers.
type Actions map[string]Handler

// Sync replaces the listeners of r with those declared by tree. Listener
// attributes naming an unknown action are skipped and reported in the
// returned error; the known ones are still registered.
func Sync[S any](r *Registry, tree vdom.NodeList[S], actions Actions) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reset()

	c := &collector[S]{r: r, actions: actions}
	if err := vdom.VisitRoot(tree, c); err != nil {
		return err
	}
	if len(c.unknown) > 0 {
		return fmt.Errorf("events: unknown actions %s", strings.Join(c.unknown, ", "))
	}
	return nil
}

// collector walks an already rendered tree. It never renders: components
// visited here have a snapshot from the pass that produced the tree.
type collector[S any] struct {
	r       *Registry
	actions Actions
	unknown []string
}

func (c *collector[S]) OnTag(path *vdom.Path, index int, t *vdom.Tag[S]) error {
	for _, a := range t.Attrs {
		kind, ok := strings.CutPrefix(a.Name, AttrPrefix)
		if !ok || kind == "" {
			continue
		}
		name, ok := a.Value.Str()
		if !ok {
			continue
		}
		fn, ok := c.actions[name]
		if !ok {
			c.unknown = append(c.unknown, fmt.Sprintf("%q at %s", name, path))
			continue
		}
		c.r.register(path, kind, fn)
	}
	return t.VisitChildren(path, c)
}

func (c *collector[S]) OnText(*vdom.Path, int, *vdom.Text[S]) error { return nil }

func (c *collector[S]) OnComp(path *vdom.Path, index *int, comp vdom.Comp[S]) error {
	return comp.VisitRendered(path, index, c)
}
