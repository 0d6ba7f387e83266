package main

import (
	"fmt"

	vterrors "github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/driver"
	"github.com/vango-dev/vtree/pkg/treedoc"
	"github.com/vango-dev/vtree/pkg/vdom"
)

// replay loads the tree document at path and applies each of its versions
// to b: the first one is mounted under root, every later one is patched
// against its predecessor. after runs once per version.
func replay[H any](path string, b driver.Backend[H], root H, after func(i int) error) error {
	docs, err := treedoc.Load(path)
	if err != nil {
		return err
	}

	drv := driver.New(b)
	var prev vdom.NodeList[driver.Slot[H]]
	for i, d := range docs {
		tree := treedoc.Build[driver.Slot[H]](d)
		err := guard(func() error {
			if i == 0 {
				return drv.Mount(root, tree)
			}
			return drv.Patch(root, tree, prev)
		})
		if err != nil {
			return fmt.Errorf("%s: version %d: %w", path, i+1, err)
		}
		prev = tree
		if err := after(i); err != nil {
			return err
		}
	}
	return nil
}

// guard runs fn and returns a contract violation it panics with as an
// error. Other panics propagate.
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(*vterrors.Error)
			if !ok {
				panic(r)
			}
			err = e
		}
	}()
	return fn()
}
