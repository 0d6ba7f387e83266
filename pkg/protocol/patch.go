package protocol

import (
	"fmt"

	vterrors "github.com/vango-dev/vtree/internal/errors"
)

// NodeID identifies a backing node on the client. RootID is the mount
// container.
type NodeID uint64

// RootID is the ID of the mount container.
const RootID NodeID = 0

// PatchOp is the type of patch operation.
type PatchOp uint8

const (
	PatchCreateElement PatchOp = 0x01 // Create a detached element
	PatchCreateText    PatchOp = 0x02 // Create a detached text node
	PatchSetText       PatchOp = 0x03 // Replace text content
	PatchSetAttr       PatchOp = 0x04 // Set an attribute value
	PatchRemoveAttr    PatchOp = 0x05 // Remove an attribute
	PatchInsert        PatchOp = 0x06 // Attach a node under a parent
	PatchMove          PatchOp = 0x07 // Reposition an attached node
	PatchRemove        PatchOp = 0x08 // Detach and destroy a subtree
	PatchSetBoolAttr   PatchOp = 0x09 // Set a boolean attribute
)

// String returns the string representation of the patch operation.
func (op PatchOp) String() string {
	switch op {
	case PatchCreateElement:
		return "CreateElement"
	case PatchCreateText:
		return "CreateText"
	case PatchSetText:
		return "SetText"
	case PatchSetAttr:
		return "SetAttr"
	case PatchRemoveAttr:
		return "RemoveAttr"
	case PatchInsert:
		return "Insert"
	case PatchMove:
		return "Move"
	case PatchRemove:
		return "Remove"
	case PatchSetBoolAttr:
		return "SetBoolAttr"
	default:
		return "Unknown"
	}
}

// Patch is a single backing-tree mutation. Which fields are meaningful
// depends on Op.
type Patch struct {
	Op     PatchOp
	ID     NodeID
	Parent NodeID // Insert, Move
	Index  int    // Insert, Move
	Name   string // CreateElement (tag name), SetAttr, RemoveAttr
	Value  string // CreateText, SetText, SetAttr
}

// String renders the patch for logs and tests.
func (p Patch) String() string {
	switch p.Op {
	case PatchCreateElement:
		return fmt.Sprintf("CreateElement #%d <%s>", p.ID, p.Name)
	case PatchCreateText, PatchSetText:
		return fmt.Sprintf("%s #%d %q", p.Op, p.ID, p.Value)
	case PatchSetAttr:
		return fmt.Sprintf("SetAttr #%d %s=%q", p.ID, p.Name, p.Value)
	case PatchRemoveAttr, PatchSetBoolAttr:
		return fmt.Sprintf("%s #%d %s", p.Op, p.ID, p.Name)
	case PatchInsert, PatchMove:
		return fmt.Sprintf("%s #%d -> #%d@%d", p.Op, p.ID, p.Parent, p.Index)
	default:
		return fmt.Sprintf("%s #%d", p.Op, p.ID)
	}
}

// PatchesFrame is a batch of patches with a sequence number.
type PatchesFrame struct {
	Seq     uint64
	Patches []Patch
}

// EncodePatches encodes a patches frame payload.
func EncodePatches(pf *PatchesFrame) []byte {
	e := NewEncoder()
	EncodePatchesTo(e, pf)
	return e.Bytes()
}

// EncodePatchesTo appends a patches frame payload to e.
func EncodePatchesTo(e *Encoder, pf *PatchesFrame) {
	e.WriteUvarint(pf.Seq)
	e.WriteUvarint(uint64(len(pf.Patches)))
	for i := range pf.Patches {
		encodePatch(e, &pf.Patches[i])
	}
}

// SplitPatches cuts patches into consecutive batches whose encoded payload
// fits maxPayload, numbered from seq. A patch too large on its own gets a
// batch of its own.
func SplitPatches(seq uint64, patches []Patch, maxPayload int) []*PatchesFrame {
	// Room for the seq and count varints.
	const header = 2 * 10
	var frames []*PatchesFrame
	e := NewEncoder()
	start, size := 0, header
	for i := range patches {
		e.Reset()
		encodePatch(e, &patches[i])
		if i > start && size+e.Len() > maxPayload {
			frames = append(frames, &PatchesFrame{Seq: seq, Patches: patches[start:i]})
			seq++
			start, size = i, header
		}
		size += e.Len()
	}
	if start < len(patches) {
		frames = append(frames, &PatchesFrame{Seq: seq, Patches: patches[start:]})
	}
	return frames
}

func encodePatch(e *Encoder, p *Patch) {
	e.WriteByte(byte(p.Op))
	e.WriteUvarint(uint64(p.ID))

	switch p.Op {
	case PatchCreateElement:
		e.WriteString(p.Name)
	case PatchCreateText, PatchSetText:
		e.WriteString(p.Value)
	case PatchSetAttr:
		e.WriteString(p.Name)
		e.WriteString(p.Value)
	case PatchRemoveAttr, PatchSetBoolAttr:
		e.WriteString(p.Name)
	case PatchInsert, PatchMove:
		e.WriteUvarint(uint64(p.Parent))
		e.WriteUvarint(uint64(p.Index))
	case PatchRemove:
		// ID is sufficient
	}
}

// DecodePatches decodes a patches frame payload. Malformed input yields an
// E040 error, an unknown opcode E041.
func DecodePatches(data []byte) (*PatchesFrame, error) {
	d := NewDecoder(data)
	pf, err := decodePatches(d)
	if err != nil {
		return nil, vterrors.FromError(err, "E040")
	}
	if !d.EOF() {
		return nil, vterrors.New("E040").WithDetail(fmt.Sprintf("%d trailing bytes", d.Remaining()))
	}
	return pf, nil
}

func decodePatches(d *Decoder) (*PatchesFrame, error) {
	seq, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}
	count, err := d.ReadCollectionCount()
	if err != nil {
		return nil, err
	}
	pf := &PatchesFrame{Seq: seq, Patches: make([]Patch, count)}
	for i := range pf.Patches {
		if err := decodePatch(d, &pf.Patches[i]); err != nil {
			return nil, err
		}
	}
	return pf, nil
}

func decodePatch(d *Decoder, p *Patch) error {
	op, err := d.ReadByte()
	if err != nil {
		return err
	}
	p.Op = PatchOp(op)
	id, err := d.ReadUvarint()
	if err != nil {
		return err
	}
	p.ID = NodeID(id)

	switch p.Op {
	case PatchCreateElement, PatchRemoveAttr, PatchSetBoolAttr:
		p.Name, err = d.ReadString()
	case PatchCreateText, PatchSetText:
		p.Value, err = d.ReadString()
	case PatchSetAttr:
		if p.Name, err = d.ReadString(); err == nil {
			p.Value, err = d.ReadString()
		}
	case PatchInsert, PatchMove:
		var parent, index uint64
		if parent, err = d.ReadUvarint(); err == nil {
			index, err = d.ReadUvarint()
		}
		p.Parent, p.Index = NodeID(parent), int(index)
	case PatchRemove:
	default:
		return vterrors.New("E041").WithDetail(fmt.Sprintf("opcode 0x%02x", op))
	}
	return err
}
