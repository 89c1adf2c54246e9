package wire

// Ack acknowledges receipt of patches frames up to and including
// LastSeq. The engine uses it to garbage-collect replay history.
type Ack struct {
	LastSeq uint64
}

// EncodeAck encodes an Ack to bytes.
func EncodeAck(a *Ack) []byte {
	e := NewEncoder()
	EncodeAckTo(e, a)
	return e.Bytes()
}

// EncodeAckTo encodes an Ack using the provided encoder.
func EncodeAckTo(e *Encoder, a *Ack) {
	e.WriteUvarint(a.LastSeq)
}

// DecodeAck decodes an Ack from bytes.
func DecodeAck(data []byte) (*Ack, error) {
	d := NewDecoder(data)
	seq, err := d.ReadUvarint()
	if err != nil {
		return nil, decodeErr(d, err)
	}
	return &Ack{LastSeq: seq}, nil
}

// ErrorCode identifies the type of a transported error.
type ErrorCode uint16

const (
	CodeUnknown      ErrorCode = 0x0000 // Unknown error
	CodeInvalidFrame ErrorCode = 0x0001 // Malformed frame or payload
	CodeResyncFailed ErrorCode = 0x0002 // Requested range left history
	CodeServerError  ErrorCode = 0x0100 // Internal engine error
)

// String returns the string representation of the error code.
func (ec ErrorCode) String() string {
	switch ec {
	case CodeUnknown:
		return "Unknown"
	case CodeInvalidFrame:
		return "InvalidFrame"
	case CodeResyncFailed:
		return "ResyncFailed"
	case CodeServerError:
		return "ServerError"
	default:
		return "Unknown"
	}
}

// ErrorMessage is sent in a FrameError frame when something fails.
type ErrorMessage struct {
	Code    ErrorCode // Error code
	Message string    // Human-readable error message
	Fatal   bool      // If true, the connection should be closed
}

// Error implements the error interface.
func (em *ErrorMessage) Error() string {
	if em.Fatal {
		return "fatal: " + em.Code.String() + ": " + em.Message
	}
	return em.Code.String() + ": " + em.Message
}

// EncodeErrorMessage encodes an ErrorMessage to bytes.
func EncodeErrorMessage(em *ErrorMessage) []byte {
	e := NewEncoder()
	e.WriteUint16(uint16(em.Code))
	e.WriteString(em.Message)
	e.WriteBool(em.Fatal)
	return e.Bytes()
}

// DecodeErrorMessage decodes an ErrorMessage from bytes.
func DecodeErrorMessage(data []byte) (*ErrorMessage, error) {
	d := NewDecoder(data)

	code, err := d.ReadUint16()
	if err != nil {
		return nil, decodeErr(d, err)
	}
	message, err := d.ReadString()
	if err != nil {
		return nil, decodeErr(d, err)
	}
	fatal, err := d.ReadBool()
	if err != nil {
		return nil, decodeErr(d, err)
	}

	return &ErrorMessage{Code: ErrorCode(code), Message: message, Fatal: fatal}, nil
}
