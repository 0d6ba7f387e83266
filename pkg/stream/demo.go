package stream

import (
	"fmt"
	"slices"
	"strings"

	"github.com/vango-dev/vtree/pkg/app"
	"github.com/vango-dev/vtree/pkg/driver"
	"github.com/vango-dev/vtree/pkg/events"
	"github.com/vango-dev/vtree/pkg/remote"
	"github.com/vango-dev/vtree/pkg/vdom"
)

type slot = driver.Slot[remote.NodeID]

var h vdom.Builder[slot]

func on(kind, action string) *vdom.Attr[slot] {
	return h.StaticAttr(events.AttrPrefix+kind, action)
}

// demo is the per-session state of the todo demo.
type demo struct {
	todo   *vdom.Ctx[slot, todoList, string]
	clicks *vdom.Ctx[slot, counter, string]
}

type todoItem struct {
	ID    uint64
	Title string
	Done  bool
}

type todoList struct {
	demo  *demo
	Items []todoItem
	Next  uint64
}

func (l todoList) Clone() todoList {
	l.Items = slices.Clone(l.Items)
	return l
}

func (l todoList) Render(title string) vdom.NodeList[slot] {
	rows := make([]vdom.Node[slot], len(l.Items))
	left := 0
	for i, it := range l.Items {
		if !it.Done {
			left++
		}
		rows[i] = h.Keyed(vdom.Uint(it.ID), h.El("li",
			h.Attrs(on("click", "toggle"), h.Bool("data-done", it.Done)),
			h.Text(it.Title)))
	}
	return h.List(
		h.El("h1", nil, h.Text(title)),
		h.El("ul", nil, rows...),
		h.El("p", nil, h.Text(fmt.Sprintf("%d left", left))),
		h.El("button", h.Attrs(on("click", "add")), h.StaticText("Add")),
		h.If(left < len(l.Items), h.El("button", h.Attrs(on("click", "clear")), h.StaticText("Clear done"))),
		vdom.NewComp(l.demo.newCounter, "clicks"),
	)
}

type counter struct{ N int }

func (c counter) Render(label string) vdom.NodeList[slot] {
	return h.List(h.El("button", h.Attrs(on("click", "bump")),
		h.Text(fmt.Sprintf("%s: %d", label, c.N))))
}

func (d *demo) newTodo(_ string, x *vdom.Ctx[slot, todoList, string]) todoList {
	d.todo = x
	return todoList{demo: d}
}

func (d *demo) newCounter(_ string, x *vdom.Ctx[slot, counter, string]) counter {
	d.clicks = x
	return counter{}
}

func (d *demo) actions() events.Actions {
	return events.Actions{
		"add": func(ev *events.Event) {
			d.todo.Update(func(l *todoList) {
				l.Next++
				title := strings.TrimSpace(ev.Data)
				if title == "" {
					title = fmt.Sprintf("Item %d", l.Next)
				}
				l.Items = append(l.Items, todoItem{ID: l.Next, Title: title})
			})
		},
		"toggle": func(ev *events.Event) {
			k, _ := ev.Current.Key()
			id, ok := k.Uint()
			if !ok {
				return
			}
			d.todo.Update(func(l *todoList) {
				for i := range l.Items {
					if l.Items[i].ID == id {
						l.Items[i].Done = !l.Items[i].Done
					}
				}
			})
		},
		"clear": func(*events.Event) {
			d.todo.Update(func(l *todoList) {
				l.Items = slices.DeleteFunc(l.Items, func(it todoItem) bool { return it.Done })
			})
		},
		"bump": func(*events.Event) {
			d.clicks.Update(func(c *counter) { c.N++ })
		},
	}
}

// TodoDemo is the factory of the todo demo: a keyed todo list with a
// nested click counter.
func TodoDemo(title string) Factory {
	return func() (app.View[remote.NodeID], events.Actions) {
		d := &demo{}
		view := func() vdom.NodeList[slot] {
			return h.List(h.El("main", h.Attrs(h.StaticAttr("id", "app")),
				vdom.NewComp(d.newTodo, title)))
		}
		return view, d.actions()
	}
}
