package vdom

import vterrors "github.com/vango-dev/vtree/internal/errors"

// identities returns the identity key of every entry of l: its explicit
// key, or Index(n) where n counts the unkeyed entries before it. Absent
// entries take a positional identity too, so toggling an optional keeps
// the positions of the entries after it.
func identities[S any](path *Path, l NodeList[S]) []Key {
	ids := make([]Key, len(l))
	var seen map[Key]struct{}
	unkeyed := 0
	for i, n := range l {
		if n != nil {
			if k, ok := n.Key(); ok {
				ids[i] = k
				if seen == nil {
					seen = make(map[Key]struct{}, len(l))
				}
				continue
			}
		}
		ids[i] = Index(unkeyed)
		unkeyed++
	}
	if seen == nil {
		return ids
	}
	for _, k := range ids {
		if _, dup := seen[k]; dup {
			vterrors.Violation("E022", path.String(), "key %s appears more than once", k)
		}
		seen[k] = struct{}{}
	}
	return ids
}

// VisitList visits every present entry of l in order. Each entry is visited
// at path extended by its identity.
func VisitList[S any](path *Path, index *int, l NodeList[S], v NodeVisitor[S]) error {
	if len(l) == 0 {
		return nil
	}
	ids := identities(path, l)
	for i, n := range l {
		if n == nil {
			continue
		}
		if err := n.visit(path.Push(ids[i]), index, v); err != nil {
			return err
		}
	}
	return nil
}

// DiffOptional diffs one optional entry against its ancestor at path:
// both present recurses, only curr present is an addition, only anc
// present is a removal, neither is a no-op. An incompatible pair (different
// kinds, tag names or component types) is removed and re-added.
func DiffOptional[S any](path *Path, ci, ai *int, curr, anc Node[S], d NodeDiffer[S]) error {
	switch {
	case curr == nil && anc == nil:
		return nil
	case anc == nil:
		return d.OnNodeAdded(path, ci, curr)
	case curr == nil:
		return removeNode(path, ai, anc, d)
	case !curr.compatible(anc):
		at := *ai
		if err := removeNode(path, &at, anc, d); err != nil {
			return err
		}
		*ai += anc.width()
		return d.OnNodeAdded(path, ci, curr)
	default:
		return curr.diff(path, ci, ai, anc, d)
	}
}

func removeNode[S any](path *Path, ai *int, anc Node[S], d NodeDiffer[S]) error {
	if err := d.OnNodeRemoved(path, ai, anc); err != nil {
		return err
	}
	anc.unmount()
	return nil
}

// liveEntry is a retained or added entry in the simulated backing order.
type liveEntry struct {
	anc   int
	width int
}

// DiffList reconciles curr against anc. Entries are matched by identity.
//
// Callbacks are emitted in two phases. First, ancestor entries with no
// compatible match are removed, last position first. Then current entries
// are processed in order: unmatched ones are added at the running current
// index, matched ones are moved if needed and diffed as a pair. On return
// ci has advanced by the current width and ai by the ancestor width.
func DiffList[S any](path *Path, ci, ai *int, curr, anc NodeList[S], d NodeDiffer[S]) error {
	if len(curr) == 0 && len(anc) == 0 {
		return nil
	}
	cids := identities(path, curr)
	aids := identities(path, anc)

	byID := make(map[Key]int, len(anc))
	for j, n := range anc {
		if n != nil {
			byID[aids[j]] = j
		}
	}

	// match[i] is the ancestor partner of curr[i], or -1.
	match := make([]int, len(curr))
	kept := make([]bool, len(anc))
	for i, n := range curr {
		match[i] = -1
		if n == nil {
			continue
		}
		if j, ok := byID[cids[i]]; ok && n.compatible(anc[j]) {
			match[i] = j
			kept[j] = true
		}
	}

	aStart := make([]int, len(anc))
	at := *ai
	for j, n := range anc {
		aStart[j] = at
		if n != nil {
			at += n.width()
		}
	}
	aEnd := at

	for j := len(anc) - 1; j >= 0; j-- {
		if anc[j] == nil || kept[j] {
			continue
		}
		idx := aStart[j]
		if err := removeNode(path.Push(aids[j]), &idx, anc[j], d); err != nil {
			return err
		}
	}

	live := make([]liveEntry, 0, len(anc))
	for j, n := range anc {
		if n != nil && kept[j] {
			live = append(live, liveEntry{anc: j, width: n.width()})
		}
	}

	base := *ci
	pos := 0
	for i, n := range curr {
		if n == nil {
			continue
		}
		p := path.Push(cids[i])
		start := *ci
		j := match[i]
		if j < 0 {
			if err := d.OnNodeAdded(p, ci, n); err != nil {
				return err
			}
			live = append(live, liveEntry{})
			copy(live[pos+1:], live[pos:])
			live[pos] = liveEntry{anc: -1, width: *ci - start}
			pos++
			continue
		}

		if live[pos].anc != j {
			q := pos + 1
			for live[q].anc != j {
				q++
			}
			from := base
			for _, e := range live[:q] {
				from += e.width
			}
			e := live[q]
			copy(live[pos+1:q+1], live[pos:q])
			live[pos] = e
			if e.width > 0 {
				if err := d.OnNodeMoved(p, from, *ci, anc[j]); err != nil {
					return err
				}
			}
		}

		idx := aStart[j]
		if err := n.diff(p, ci, &idx, anc[j], d); err != nil {
			return err
		}
		live[pos].width = *ci - start
		pos++
	}

	*ai = aEnd
	return nil
}
