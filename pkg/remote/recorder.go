package remote

import (
	"fmt"
	"slices"

	vterrors "github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/protocol"
	"github.com/vango-dev/vtree/pkg/vdom"
)

// NodeID is the handle type of a Recorder.
type NodeID = protocol.NodeID

type entry struct {
	text     bool
	parent   NodeID
	attached bool
	children []NodeID
}

// Recorder is a patch-recording Backend. It tracks enough of the remote
// tree to reject handles the remote side would not know. It is not safe for
// concurrent use.
type Recorder struct {
	nextID  NodeID
	nodes   map[NodeID]*entry
	pending []protocol.Patch
	seq     uint64
}

// NewRecorder creates a recorder whose tree holds only the root container.
func NewRecorder() *Recorder {
	return &Recorder{
		nextID: protocol.RootID,
		nodes:  map[NodeID]*entry{protocol.RootID: {}},
	}
}

// Root returns the ID of the mount container.
func (r *Recorder) Root() NodeID { return protocol.RootID }

// Nodes returns the number of live nodes, the root excluded.
func (r *Recorder) Nodes() int { return len(r.nodes) - 1 }

// Pending returns the number of patches recorded since the last Flush.
func (r *Recorder) Pending() int { return len(r.pending) }

// Flush returns the pending patches as the next batch in sequence, or nil
// when nothing changed.
func (r *Recorder) Flush() *protocol.PatchesFrame {
	if len(r.pending) == 0 {
		return nil
	}
	r.seq++
	pf := &protocol.PatchesFrame{Seq: r.seq, Patches: r.pending}
	r.pending = nil
	return pf
}

// FlushFrames returns the pending patches as consecutive batches whose
// encoded payload fits maxPayload.
func (r *Recorder) FlushFrames(maxPayload int) []*protocol.PatchesFrame {
	frames := protocol.SplitPatches(r.seq+1, r.pending, maxPayload)
	r.seq += uint64(len(frames))
	r.pending = nil
	return frames
}

// Discard drops the pending patches without consuming a sequence number.
func (r *Recorder) Discard() { r.pending = nil }

func (r *Recorder) emit(p protocol.Patch) { r.pending = append(r.pending, p) }

func (r *Recorder) lookup(op string, id NodeID) (*entry, error) {
	e, ok := r.nodes[id]
	if !ok {
		return nil, vterrors.New("E003").WithDetail(fmt.Sprintf("%s: unknown node #%d", op, id))
	}
	return e, nil
}

func (r *Recorder) create(text bool) NodeID {
	r.nextID++
	r.nodes[r.nextID] = &entry{text: text}
	return r.nextID
}

// CreateElement records a detached element.
func (r *Recorder) CreateElement(tag string) (NodeID, error) {
	id := r.create(false)
	r.emit(protocol.Patch{Op: protocol.PatchCreateElement, ID: id, Name: tag})
	return id, nil
}

// CreateText records a detached text node.
func (r *Recorder) CreateText(text string) (NodeID, error) {
	id := r.create(true)
	r.emit(protocol.Patch{Op: protocol.PatchCreateText, ID: id, Value: text})
	return id, nil
}

// SetText records a text change.
func (r *Recorder) SetText(id NodeID, text string) error {
	e, err := r.lookup("set text", id)
	if err != nil {
		return err
	}
	if !e.text {
		return vterrors.New("E003").WithDetail(fmt.Sprintf("set text: node #%d is an element", id))
	}
	r.emit(protocol.Patch{Op: protocol.PatchSetText, ID: id, Value: text})
	return nil
}

// SetAttr records an attribute change: a SetBoolAttr for true, a
// RemoveAttr for null and a SetAttr otherwise.
func (r *Recorder) SetAttr(id NodeID, name string, v vdom.AttrValue) error {
	e, err := r.lookup("set attr", id)
	if err != nil {
		return err
	}
	if e.text {
		return vterrors.New("E003").WithDetail(fmt.Sprintf("set attr: node #%d is text", id))
	}
	switch s, ok := v.Str(); {
	case v.IsNull():
		r.emit(protocol.Patch{Op: protocol.PatchRemoveAttr, ID: id, Name: name})
	case !ok:
		r.emit(protocol.Patch{Op: protocol.PatchSetBoolAttr, ID: id, Name: name})
	default:
		r.emit(protocol.Patch{Op: protocol.PatchSetAttr, ID: id, Name: name, Value: s})
	}
	return nil
}

// Insert records the attachment of a detached node.
func (r *Recorder) Insert(parent, child NodeID, index int) error {
	p, c, err := r.pair("insert", parent, child)
	if err != nil {
		return err
	}
	if c.attached {
		return vterrors.New("E003").WithDetail(fmt.Sprintf("insert: node #%d is already attached", child))
	}
	if err := place(p, child, index); err != nil {
		return err
	}
	c.parent, c.attached = parent, true
	r.emit(protocol.Patch{Op: protocol.PatchInsert, ID: child, Parent: parent, Index: index})
	return nil
}

// Move records the repositioning of an attached node.
func (r *Recorder) Move(parent, child NodeID, index int) error {
	p, c, err := r.pair("move", parent, child)
	if err != nil {
		return err
	}
	if !c.attached || c.parent != parent {
		return vterrors.New("E003").WithDetail(fmt.Sprintf("move: node #%d is not a child of #%d", child, parent))
	}
	p.children = slices.DeleteFunc(p.children, func(id NodeID) bool { return id == child })
	if err := place(p, child, index); err != nil {
		return err
	}
	r.emit(protocol.Patch{Op: protocol.PatchMove, ID: child, Parent: parent, Index: index})
	return nil
}

func (r *Recorder) pair(op string, parent, child NodeID) (*entry, *entry, error) {
	p, err := r.lookup(op, parent)
	if err != nil {
		return nil, nil, err
	}
	if p.text {
		return nil, nil, vterrors.New("E003").WithDetail(fmt.Sprintf("%s: node #%d cannot have children", op, parent))
	}
	c, err := r.lookup(op, child)
	if err != nil {
		return nil, nil, err
	}
	return p, c, nil
}

func place(p *entry, child NodeID, index int) error {
	if index < 0 || index > len(p.children) {
		return vterrors.New("E003").WithDetail(fmt.Sprintf("index %d out of range", index))
	}
	p.children = slices.Insert(p.children, index, child)
	return nil
}

// Remove records the destruction of a node and its subtree.
func (r *Recorder) Remove(id NodeID) error {
	if id == protocol.RootID {
		return vterrors.New("E003").WithDetail("remove: the root cannot be removed")
	}
	e, err := r.lookup("remove", id)
	if err != nil {
		return err
	}
	if e.attached {
		p := r.nodes[e.parent]
		p.children = slices.DeleteFunc(p.children, func(c NodeID) bool { return c == id })
	}
	r.forget(id)
	r.emit(protocol.Patch{Op: protocol.PatchRemove, ID: id})
	return nil
}

func (r *Recorder) forget(id NodeID) {
	for _, c := range r.nodes[id].children {
		r.forget(c)
	}
	delete(r.nodes, id)
}

// Clear records the removal of every child of root.
func (r *Recorder) Clear(root NodeID) error {
	e, err := r.lookup("clear", root)
	if err != nil {
		return err
	}
	for _, c := range slices.Clone(e.children) {
		if err := r.Remove(c); err != nil {
			return err
		}
	}
	return nil
}
