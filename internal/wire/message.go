package wire

import "fmt"

// Magic is the 4-byte sentinel that opens every framed message.
const Magic uint32 = 0xDEADBEEF

// HeaderSize is the fixed size, in bytes, of a message header:
// magic(4) + type(1) + payload_size(4).
const HeaderSize = 9

// MessageType is the 1-byte discriminator carried in every header.
type MessageType uint8

// Wire message type constants, per spec.md §3.
const (
	TypeLoginRequest  MessageType = 0x10
	TypeLoginSuccess  MessageType = 0x11
	TypeLoginFailure  MessageType = 0x12
	TypeQueryRequest  MessageType = 0x20
	TypeQueryResponse MessageType = 0x21
	TypePingRequest   MessageType = 0x30
	TypePongResponse  MessageType = 0x31
	TypeErrorResponse MessageType = 0x99
)

func (t MessageType) String() string {
	switch t {
	case TypeLoginRequest:
		return "LOGIN_REQUEST"
	case TypeLoginSuccess:
		return "LOGIN_SUCCESS"
	case TypeLoginFailure:
		return "LOGIN_FAILURE"
	case TypeQueryRequest:
		return "QUERY_REQUEST"
	case TypeQueryResponse:
		return "QUERY_RESPONSE"
	case TypePingRequest:
		return "PING_REQUEST"
	case TypePongResponse:
		return "PONG_RESPONSE"
	case TypeErrorResponse:
		return "ERROR_RESPONSE"
	default:
		return fmt.Sprintf("UNKNOWN(0x%02x)", uint8(t))
	}
}

// FrameError reports a framing-level failure (bad magic, unknown type,
// a payload that doesn't match its declared size).
type FrameError struct {
	Reason string
}

func (e *FrameError) Error() string { return "frame: " + e.Reason }

// Message is implemented by every payload variant. A Message knows its
// own wire type and how to encode/decode its payload; framing (the
// 9-byte header) is handled once, generically, by Encode/Decode below.
type Message interface {
	Type() MessageType
	encodePayload(enc *Encoder)
	decodePayload(dec *Decoder) error
}

// newPayload is the factory keyed by wire type, used during decode to
// allocate the right concrete Message before filling it in.
func newPayload(t MessageType) (Message, error) {
	switch t {
	case TypeLoginRequest:
		return &LoginRequest{}, nil
	case TypeLoginSuccess:
		return &LoginSuccess{}, nil
	case TypeLoginFailure:
		return &LoginFailure{}, nil
	case TypeQueryRequest:
		return &QueryRequest{}, nil
	case TypeQueryResponse:
		return &QueryResponse{}, nil
	case TypePingRequest:
		return &PingRequest{}, nil
	case TypePongResponse:
		return &PongResponse{}, nil
	case TypeErrorResponse:
		return &ErrorResponse{}, nil
	default:
		return nil, &FrameError{Reason: fmt.Sprintf("invalid message type 0x%02x", uint8(t))}
	}
}

// Encode renders a header followed by m's encoded payload. The payload
// is built first so payload_size is always exact, per spec.md §4.2.
func Encode(m Message) []byte {
	penc := NewEncoder()
	m.encodePayload(penc)
	payload := penc.Bytes()

	henc := NewEncoder()
	henc.U32(Magic)
	henc.U8(uint8(m.Type()))
	henc.U32(uint32(len(payload)))
	henc.RawBytes(payload)
	return henc.Bytes()
}

// DecodeHeader parses the fixed 9-byte header, returning the message
// type and declared payload size.
func DecodeHeader(hdr []byte) (MessageType, uint32, error) {
	if len(hdr) != HeaderSize {
		return 0, 0, &FrameError{Reason: fmt.Sprintf("header must be %d bytes, got %d", HeaderSize, len(hdr))}
	}
	dec := NewDecoder(hdr)
	magic, _ := dec.U32()
	if magic != Magic {
		return 0, 0, &FrameError{Reason: "invalid magic number"}
	}
	typ, _ := dec.U8()
	size, _ := dec.U32()
	return MessageType(typ), size, nil
}

// DecodePayload allocates the Message variant for typ and decodes
// payload into it. A payload shorter or malformed relative to its
// declared layout surfaces as a FrameError or a *SerializationError.
func DecodePayload(typ MessageType, payload []byte) (Message, error) {
	m, err := newPayload(typ)
	if err != nil {
		return nil, err
	}
	dec := NewDecoder(payload)
	if err := m.decodePayload(dec); err != nil {
		return nil, fmt.Errorf("deserialize %s: %w", typ, err)
	}
	if dec.Remaining() != 0 {
		return nil, &FrameError{Reason: fmt.Sprintf("%s: %d trailing bytes after payload", typ, dec.Remaining())}
	}
	return m, nil
}

// Decode splits a full framed message (header + payload) and returns
// the decoded Message.
func Decode(full []byte) (Message, error) {
	if len(full) < HeaderSize {
		return nil, &FrameError{Reason: "message shorter than header"}
	}
	typ, size, err := DecodeHeader(full[:HeaderSize])
	if err != nil {
		return nil, err
	}
	body := full[HeaderSize:]
	if uint32(len(body)) != size {
		return nil, &FrameError{Reason: fmt.Sprintf("payload size mismatch: header says %d, got %d", size, len(body))}
	}
	return DecodePayload(typ, body)
}
