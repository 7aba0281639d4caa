package wire

// PingRequest carries the client's local timestamp, in milliseconds
// since the Unix epoch.
type PingRequest struct {
	TimestampMS uint64
}

func (m *PingRequest) Type() MessageType { return TypePingRequest }

func (m *PingRequest) encodePayload(enc *Encoder) { enc.U64(m.TimestampMS) }

func (m *PingRequest) decodePayload(dec *Decoder) error {
	var err error
	m.TimestampMS, err = dec.U64()
	return err
}

// PongResponse echoes the original timestamp and adds the server's
// own, so a client can estimate round-trip latency and clock skew.
type PongResponse struct {
	OriginalTimestampMS uint64
	ServerTimestampMS   uint64
}

func (m *PongResponse) Type() MessageType { return TypePongResponse }

func (m *PongResponse) encodePayload(enc *Encoder) {
	enc.U64(m.OriginalTimestampMS)
	enc.U64(m.ServerTimestampMS)
}

func (m *PongResponse) decodePayload(dec *Decoder) error {
	var err error
	if m.OriginalTimestampMS, err = dec.U64(); err != nil {
		return err
	}
	m.ServerTimestampMS, err = dec.U64()
	return err
}
