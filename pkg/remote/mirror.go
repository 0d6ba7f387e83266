package remote

import (
	"fmt"

	vterrors "github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/memdom"
	"github.com/vango-dev/vtree/pkg/protocol"
	"github.com/vango-dev/vtree/pkg/vdom"
)

// Mirror replays patch batches onto a document, the way a client applies
// what a Recorder sent.
type Mirror struct {
	doc   *memdom.Document
	nodes map[NodeID]*memdom.Node
	seq   uint64
}

// NewMirror creates a mirror whose root container is doc's root.
func NewMirror(doc *memdom.Document) *Mirror {
	return &Mirror{
		doc:   doc,
		nodes: map[NodeID]*memdom.Node{protocol.RootID: doc.Root()},
	}
}

// Document returns the mirrored document.
func (m *Mirror) Document() *memdom.Document { return m.doc }

// Seq returns the sequence number of the last applied batch.
func (m *Mirror) Seq() uint64 { return m.seq }

// ApplyFrame decodes a patches payload and applies it.
func (m *Mirror) ApplyFrame(payload []byte) error {
	pf, err := protocol.DecodePatches(payload)
	if err != nil {
		return err
	}
	return m.Apply(pf)
}

// Apply applies one batch. Batches must arrive in sequence.
func (m *Mirror) Apply(pf *protocol.PatchesFrame) error {
	if pf.Seq != m.seq+1 {
		return vterrors.New("E043").WithDetail(fmt.Sprintf("got batch %d, want %d", pf.Seq, m.seq+1))
	}
	for _, p := range pf.Patches {
		if err := m.apply(p); err != nil {
			return fmt.Errorf("apply %s: %w", p, err)
		}
	}
	m.seq = pf.Seq
	return nil
}

func (m *Mirror) node(id NodeID) (*memdom.Node, error) {
	n, ok := m.nodes[id]
	if !ok {
		return nil, vterrors.New("E003").WithDetail(fmt.Sprintf("unknown node #%d", id))
	}
	return n, nil
}

func (m *Mirror) apply(p protocol.Patch) error {
	switch p.Op {
	case protocol.PatchCreateElement:
		n, err := m.doc.CreateElement(p.Name)
		if err != nil {
			return err
		}
		m.nodes[p.ID] = n
		return nil
	case protocol.PatchCreateText:
		n, err := m.doc.CreateText(p.Value)
		if err != nil {
			return err
		}
		m.nodes[p.ID] = n
		return nil
	}

	n, err := m.node(p.ID)
	if err != nil {
		return err
	}
	switch p.Op {
	case protocol.PatchSetText:
		return m.doc.SetText(n, p.Value)
	case protocol.PatchSetAttr:
		return m.doc.SetAttr(n, p.Name, vdom.Value(p.Value))
	case protocol.PatchSetBoolAttr:
		return m.doc.SetAttr(n, p.Name, vdom.True())
	case protocol.PatchRemoveAttr:
		return m.doc.SetAttr(n, p.Name, vdom.Null())
	case protocol.PatchInsert, protocol.PatchMove:
		parent, err := m.node(p.Parent)
		if err != nil {
			return err
		}
		if p.Op == protocol.PatchInsert {
			return m.doc.Insert(parent, n, p.Index)
		}
		return m.doc.Move(parent, n, p.Index)
	case protocol.PatchRemove:
		m.forget(n)
		return m.doc.Remove(n)
	default:
		return vterrors.New("E041").WithDetail(p.Op.String())
	}
}

// forget drops the IDs of n's subtree.
func (m *Mirror) forget(n *memdom.Node) {
	for id, c := range m.nodes {
		for x := c; x != nil; x = x.Parent() {
			if x == n {
				delete(m.nodes, id)
				break
			}
		}
	}
}
