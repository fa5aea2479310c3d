// Package transport is the node that owns every TCP connection between a
// server and its clients: the handshake, the wire framing, and delivering
// wire-eligible events in both directions. It implements node.Producer
// (incoming wire events become bus events) and node.Consumer (outgoing bus
// events are written to the current peer), mirroring the original
// communication node that was simultaneously a NodeBase, a Consumer and a
// Producer.
package transport

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"reflect"

	"github.com/mksync/mksync/internal/events"
)

// maxFrameSize bounds a single frame's payload so a corrupt or hostile peer
// cannot force an unbounded allocation.
const maxFrameSize = 1 << 20

// writeFrame writes a length-prefixed frame: a 4-byte big-endian length
// covering everything that follows, a 2-byte big-endian TypeID, then the
// JSON-encoded payload.
func writeFrame(w io.Writer, typ events.TypeID, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("transport: encode payload: %w", err)
	}

	buf := make([]byte, 4+2+len(body))
	binary.BigEndian.PutUint32(buf[0:4], uint32(2+len(body)))
	binary.BigEndian.PutUint16(buf[4:6], uint16(typ))
	copy(buf[6:], body)

	_, err = w.Write(buf)
	return err
}

// readFrame reads one frame and decodes its payload into the zero value
// events.NewPointer allocates for the wire TypeID it carries.
func readFrame(r io.Reader) (events.TypeID, any, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return 0, nil, err
	}
	length := binary.BigEndian.Uint32(lenBuf[:])
	if length < 2 || length > maxFrameSize {
		return 0, nil, fmt.Errorf("transport: frame length %d out of bounds", length)
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return 0, nil, err
	}

	typ := events.TypeID(binary.BigEndian.Uint16(body[:2]))
	if !events.WireTypes[typ] {
		return 0, nil, fmt.Errorf("transport: type %s is not a wire type", typ)
	}

	ptr, ok := events.NewPointer(typ)
	if !ok {
		return 0, nil, fmt.Errorf("transport: unknown wire type %d", typ)
	}
	if err := json.Unmarshal(body[2:], ptr); err != nil {
		return 0, nil, fmt.Errorf("transport: decode payload: %w", err)
	}
	return typ, reflect.ValueOf(ptr).Elem().Interface(), nil
}
