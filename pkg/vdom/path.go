package vdom

import (
	"encoding/binary"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// Path is the structural address of a node: the keys taken from the root,
// one per descent. Paths are immutable and share their prefix with the
// path they were pushed from, so they can be stored beyond a traversal.
//
// A nil *Path is the root.
type Path struct {
	parent *Path
	key    Key
	depth  int
	hash   uint64
}

var rootPath = &Path{}

// Root returns the empty path.
func Root() *Path { return rootPath }

// PathOf builds a path from keys given root-to-leaf.
func PathOf(keys ...Key) *Path {
	p := Root()
	for _, k := range keys {
		p = p.Push(k)
	}
	return p
}

// Push returns a new path extending p by k.
func (p *Path) Push(k Key) *Path {
	if p == nil {
		p = rootPath
	}
	return &Path{
		parent: p,
		key:    k,
		depth:  p.depth + 1,
		hash:   combineHash(p.hash, k.Hash()),
	}
}

func combineHash(parent, key uint64) uint64 {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], parent)
	binary.LittleEndian.PutUint64(buf[8:], key)
	return xxhash.Sum64(buf[:])
}

// Parent returns the path one level up. The root's parent is nil.
func (p *Path) Parent() *Path {
	if p == nil {
		return nil
	}
	return p.parent
}

// Key returns the last key of the path. It reports false for the root.
func (p *Path) Key() (Key, bool) {
	if p.IsRoot() {
		return Key{}, false
	}
	return p.key, true
}

// Len returns the number of keys in the path.
func (p *Path) Len() int {
	if p == nil {
		return 0
	}
	return p.depth
}

// IsRoot reports whether p is the empty path.
func (p *Path) IsRoot() bool {
	return p == nil || p.depth == 0
}

// Hash returns a hash consistent with Equal. It is computed once per push.
func (p *Path) Hash() uint64 {
	if p == nil {
		return 0
	}
	return p.hash
}

// Keys returns the keys of the path, root to leaf.
func (p *Path) Keys() []Key {
	n := p.Len()
	keys := make([]Key, n)
	for q := p; !q.IsRoot(); q = q.parent {
		n--
		keys[n] = q.key
	}
	return keys
}

// Equal reports whether p and o address the same position. Shared prefixes
// end the walk early.
func (p *Path) Equal(o *Path) bool {
	if p.Len() != o.Len() || p.Hash() != o.Hash() {
		return false
	}
	for a, b := p, o; !a.IsRoot(); a, b = a.parent, b.parent {
		if a == b {
			return true
		}
		if a.key != b.key {
			return false
		}
	}
	return true
}

// HasPrefix reports whether q is p or one of its ancestors.
func (p *Path) HasPrefix(q *Path) bool {
	if q.Len() > p.Len() {
		return false
	}
	a := p
	for a.Len() > q.Len() {
		a = a.parent
	}
	return a.Equal(q)
}

// String renders the path as dot-joined keys, e.g. "0.srow-7".
func (p *Path) String() string {
	keys := p.Keys()
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k.String()
	}
	return strings.Join(parts, ".")
}

// ParsePath is the inverse of Path.String. The empty string is the root.
func ParsePath(s string) (*Path, error) {
	p := Root()
	if s == "" {
		return p, nil
	}
	start := 0
	for i := 0; i <= len(s); i++ {
		switch {
		case i < len(s)-1 && s[i] == '\\':
			i++
		case i == len(s) || s[i] == '.':
			k, err := ParseKey(s[start:i])
			if err != nil {
				return nil, err
			}
			p = p.Push(k)
			start = i + 1
		}
	}
	return p, nil
}

// PathID is a compact binary form of a path usable as a map key. Distinct
// paths always have distinct IDs.
type PathID string

// ID returns the path's PathID.
func (p *Path) ID() PathID {
	keys := p.Keys()
	b := make([]byte, 0, len(keys)*4)
	for _, k := range keys {
		b = k.appendID(b)
	}
	return PathID(b)
}

// PathInterner hands out canonical paths so long-lived holders, such as
// listener tables, share one copy of every common prefix.
type PathInterner struct {
	mu       sync.Mutex
	children map[internKey]*Path
}

type internKey struct {
	parent *Path
	key    Key
}

// NewPathInterner creates an empty interner.
func NewPathInterner() *PathInterner {
	return &PathInterner{children: make(map[internKey]*Path)}
}

// Intern returns the canonical path equal to p.
func (in *PathInterner) Intern(p *Path) *Path {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.intern(p)
}

func (in *PathInterner) intern(p *Path) *Path {
	if p.IsRoot() {
		return rootPath
	}
	parent := in.intern(p.parent)
	k := internKey{parent: parent, key: p.key}
	if c, ok := in.children[k]; ok {
		return c
	}
	c := &Path{parent: parent, key: p.key, depth: p.depth, hash: p.hash}
	in.children[k] = c
	return c
}

// Len returns the number of interned non-root paths.
func (in *PathInterner) Len() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return len(in.children)
}
