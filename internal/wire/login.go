package wire

// LoginRequest carries a username/password pair, per spec.md §3.
type LoginRequest struct {
	Username string
	Password string
}

func (m *LoginRequest) Type() MessageType { return TypeLoginRequest }

func (m *LoginRequest) encodePayload(enc *Encoder) {
	enc.String(m.Username)
	enc.String(m.Password)
}

func (m *LoginRequest) decodePayload(dec *Decoder) error {
	var err error
	if m.Username, err = dec.String(); err != nil {
		return err
	}
	m.Password, err = dec.String()
	return err
}

// LoginSuccess carries the freshly minted session token and a numeric
// user id, per spec.md §3.
type LoginSuccess struct {
	SessionToken string
	UserID       uint32
}

func (m *LoginSuccess) Type() MessageType { return TypeLoginSuccess }

func (m *LoginSuccess) encodePayload(enc *Encoder) {
	enc.String(m.SessionToken)
	enc.U32(m.UserID)
}

func (m *LoginSuccess) decodePayload(dec *Decoder) error {
	var err error
	if m.SessionToken, err = dec.String(); err != nil {
		return err
	}
	m.UserID, err = dec.U32()
	return err
}

// LoginFailure carries a generic failure message. Per spec.md §4.4 it
// must never distinguish "unknown user" from "bad password".
type LoginFailure struct {
	ErrorMessage string
}

func (m *LoginFailure) Type() MessageType { return TypeLoginFailure }

func (m *LoginFailure) encodePayload(enc *Encoder) { enc.String(m.ErrorMessage) }

func (m *LoginFailure) decodePayload(dec *Decoder) error {
	var err error
	m.ErrorMessage, err = dec.String()
	return err
}
