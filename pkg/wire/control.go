package wire

import "errors"

// ControlType identifies a control message within a FrameControl frame.
type ControlType uint8

const (
	ControlPing   ControlType = 0x01 // Liveness probe
	ControlPong   ControlType = 0x02 // Ping response
	ControlResync ControlType = 0x03 // Sink requests missed batches
)

// String returns the string representation of the control type.
func (ct ControlType) String() string {
	switch ct {
	case ControlPing:
		return "Ping"
	case ControlPong:
		return "Pong"
	case ControlResync:
		return "Resync"
	default:
		return "Unknown"
	}
}

// ErrInvalidControl is returned for a malformed control payload.
var ErrInvalidControl = errors.New("wire: invalid control message")

// PingPong carries the sender's timestamp for latency measurement.
type PingPong struct {
	Timestamp uint64
}

// ResyncRequest asks the engine to replay every batch after LastSeq.
type ResyncRequest struct {
	LastSeq uint64
}

// EncodeControl encodes a control message to bytes.
func EncodeControl(ct ControlType, msg any) []byte {
	e := NewEncoder()
	EncodeControlTo(e, ct, msg)
	return e.Bytes()
}

// EncodeControlTo encodes a control message using the provided encoder.
func EncodeControlTo(e *Encoder, ct ControlType, msg any) {
	e.WriteByte(byte(ct))
	switch m := msg.(type) {
	case *PingPong:
		e.WriteUvarint(m.Timestamp)
	case *ResyncRequest:
		e.WriteUvarint(m.LastSeq)
	}
}

// DecodeControl decodes a control message from bytes.
func DecodeControl(data []byte) (ControlType, any, error) {
	d := NewDecoder(data)

	ctByte, err := d.ReadByte()
	if err != nil {
		return 0, nil, decodeErr(d, err)
	}
	ct := ControlType(ctByte)

	switch ct {
	case ControlPing, ControlPong:
		ts, err := d.ReadUvarint()
		if err != nil {
			return 0, nil, decodeErr(d, err)
		}
		return ct, &PingPong{Timestamp: ts}, nil

	case ControlResync:
		seq, err := d.ReadUvarint()
		if err != nil {
			return 0, nil, decodeErr(d, err)
		}
		return ct, &ResyncRequest{LastSeq: seq}, nil

	default:
		return 0, nil, decodeErr(d, ErrInvalidControl)
	}
}

// NewPing creates a ping control message.
func NewPing(timestamp uint64) (ControlType, *PingPong) {
	return ControlPing, &PingPong{Timestamp: timestamp}
}

// NewPong creates a pong control message.
func NewPong(timestamp uint64) (ControlType, *PingPong) {
	return ControlPong, &PingPong{Timestamp: timestamp}
}
