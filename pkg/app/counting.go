package app

import (
	"github.com/vango-dev/vtree/pkg/driver"
	"github.com/vango-dev/vtree/pkg/vdom"
)

// counting wraps a backend and counts the mutations that reach it.
type counting[H any] struct {
	driver.Backend[H]
	n int
}

func (c *counting[H]) CreateElement(tag string) (H, error) {
	c.n++
	return c.Backend.CreateElement(tag)
}

func (c *counting[H]) CreateText(text string) (H, error) {
	c.n++
	return c.Backend.CreateText(text)
}

func (c *counting[H]) SetText(h H, text string) error {
	c.n++
	return c.Backend.SetText(h, text)
}

func (c *counting[H]) SetAttr(h H, name string, v vdom.AttrValue) error {
	c.n++
	return c.Backend.SetAttr(h, name, v)
}

func (c *counting[H]) Insert(parent, child H, index int) error {
	c.n++
	return c.Backend.Insert(parent, child, index)
}

func (c *counting[H]) Move(parent, child H, index int) error {
	c.n++
	return c.Backend.Move(parent, child, index)
}

func (c *counting[H]) Remove(h H) error {
	c.n++
	return c.Backend.Remove(h)
}

// take returns the count since the last call.
func (c *counting[H]) take() int {
	n := c.n
	c.n = 0
	return n
}
