package transport

import (
	"context"
	"fmt"
	"net"
	"time"
)

// DialerOptions mirrors the shape of the teacher's driver/dial package:
// optional per-dial parameters a custom Dialer may honor.
type DialerOptions struct {
	Timeout, KeepAlive time.Duration
}

// Dialer is implemented by anything that can open a connection to an
// SDSQL server. The default implementation dials plain TCP; a caller
// can pass any other Dialer to Dial, for example one returning one end
// of a net.Pipe, without needing a real listening socket.
type Dialer interface {
	DialContext(ctx context.Context, address string, options DialerOptions) (net.Conn, error)
}

// DefaultDialer opens a real TCP connection.
var DefaultDialer Dialer = &tcpDialer{}

type tcpDialer struct{}

func (d *tcpDialer) DialContext(ctx context.Context, address string, options DialerOptions) (net.Conn, error) {
	dialer := net.Dialer{Timeout: options.Timeout, KeepAlive: options.KeepAlive}
	return dialer.DialContext(ctx, "tcp", address)
}

// Dial opens a connection to an SDSQL server at address using dialer
// (DefaultDialer if nil) and wraps it as a Conn.
func Dial(ctx context.Context, address string, dialer Dialer, options DialerOptions) (*Conn, error) {
	if dialer == nil {
		dialer = DefaultDialer
	}
	nc, err := dialer.DialContext(ctx, address, options)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidAddress, address, err)
	}
	return NewConn(nc), nil
}
