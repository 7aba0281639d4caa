package transport

import "errors"

// SocketError buckets, per spec.md §4.3. Go's net.Listen has no
// separate bind(2)/listen(2) steps to distinguish, so a failure there
// is always ErrBindFailed; there is no corresponding ErrListenFailed.
var (
	ErrInvalidAddress   = errors.New("invalid address")
	ErrBindFailed       = errors.New("bind failed")
	ErrAcceptFailed     = errors.New("accept failed")
	ErrSendFailed       = errors.New("send failed")
	ErrRecvFailed       = errors.New("recv failed")
	ErrConnectionClosed = errors.New("connection closed")
)
