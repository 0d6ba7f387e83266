package protocol

import (
	"encoding/json"
	"fmt"

	vterrors "github.com/vango-dev/vtree/internal/errors"
)

// Event is a client event addressed to the node at Path, the dot-joined
// path string the server reported when it mounted the node.
type Event struct {
	Path string `json:"path"`
	Kind string `json:"event"`
	Data string `json:"data,omitempty"`
}

// EncodeEvent encodes an event frame payload.
func EncodeEvent(ev *Event) []byte {
	e := NewEncoderWithCap(len(ev.Path) + len(ev.Kind) + len(ev.Data) + 3)
	e.WriteString(ev.Path)
	e.WriteString(ev.Kind)
	e.WriteString(ev.Data)
	return e.Bytes()
}

// DecodeEvent decodes an event frame payload.
func DecodeEvent(data []byte) (*Event, error) {
	d := NewDecoder(data)
	var ev Event
	var err error
	if ev.Path, err = d.ReadString(); err != nil {
		return nil, vterrors.FromError(err, "E040")
	}
	if ev.Kind, err = d.ReadString(); err != nil {
		return nil, vterrors.FromError(err, "E040")
	}
	if ev.Data, err = d.ReadString(); err != nil {
		return nil, vterrors.FromError(err, "E040")
	}
	return &ev, nil
}

// ParseTextEvent decodes the JSON form of an event sent as a websocket text
// message: {"path":"0.1","event":"click"}.
func ParseTextEvent(msg []byte) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(msg, &ev); err != nil {
		return nil, vterrors.New("E040").Wrap(err)
	}
	if ev.Kind == "" {
		return nil, vterrors.New("E040").WithDetail(fmt.Sprintf("event without kind: %s", msg))
	}
	return &ev, nil
}
