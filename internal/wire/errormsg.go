package wire

// Standard error codes surfaced to clients, per spec.md §7.
const (
	ErrCodeUnauthorized    = 401
	ErrCodeUnsupportedType = 400
)

// ErrorResponse is sent for transport/framing failures that also force
// the server to disconnect the client, and for authorization failures
// on a QUERY_REQUEST (unknown/expired session token), per spec.md §7.
type ErrorResponse struct {
	ErrorMessage string
	ErrorCode    uint32
}

func (m *ErrorResponse) Type() MessageType { return TypeErrorResponse }

func (m *ErrorResponse) encodePayload(enc *Encoder) {
	enc.String(m.ErrorMessage)
	enc.U32(m.ErrorCode)
}

func (m *ErrorResponse) decodePayload(dec *Decoder) error {
	var err error
	if m.ErrorMessage, err = dec.String(); err != nil {
		return err
	}
	m.ErrorCode, err = dec.U32()
	return err
}
