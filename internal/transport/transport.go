// Package transport frames wire.Message values onto a net.Conn: exact-
// count reads and writes of the header and payload spec.md §4.3
// requires, layered over internal/wire's codec the way the teacher
// layers driver/internal/protocol's session handling over
// driver/dial's raw net.Conn.
package transport

import (
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/sdsql/sdsql/internal/wire"
)

// Conn wraps a net.Conn with SDSQL's framed message read/write loop.
type Conn struct {
	nc net.Conn
}

// NewConn wraps an already-established net.Conn.
func NewConn(nc net.Conn) *Conn { return &Conn{nc: nc} }

// Close closes the underlying connection.
func (c *Conn) Close() error { return c.nc.Close() }

// RemoteAddr returns the address of the connection's remote end.
func (c *Conn) RemoteAddr() net.Addr { return c.nc.RemoteAddr() }

// Send encodes m and writes it as one framed message. A short write
// from the underlying conn is never partial on return: io.WriteFull
// semantics are supplied by (*net.TCPConn).Write, which always writes
// the whole slice or returns an error, per the io.Writer contract.
func (c *Conn) Send(m wire.Message) error {
	frame := wire.Encode(m)
	if _, err := c.nc.Write(frame); err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	return nil
}

// Receive reads exactly one framed message: the fixed 9-byte header,
// then its declared payload length, per spec.md §4.3's "read an exact
// number of bytes" contract. It never reads past the frame boundary,
// so the connection is left positioned at the start of the next frame.
// A clean EOF/closed-connection read surfaces as ErrConnectionClosed;
// any other transport-level read failure surfaces as ErrRecvFailed.
// Neither wraps a *wire.FrameError or *wire.SerializationError, so
// callers can distinguish "the peer went away" from "the peer sent
// garbage" with errors.As.
func (c *Conn) Receive() (wire.Message, error) {
	hdr := make([]byte, wire.HeaderSize)
	if _, err := io.ReadFull(c.nc, hdr); err != nil {
		return nil, wrapReadErr(err)
	}
	typ, size, err := wire.DecodeHeader(hdr)
	if err != nil {
		return nil, err
	}
	payload := make([]byte, size)
	if _, err := io.ReadFull(c.nc, payload); err != nil {
		return nil, wrapReadErr(err)
	}
	return wire.DecodePayload(typ, payload)
}

func wrapReadErr(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, io.ErrClosedPipe) || errors.Is(err, net.ErrClosed) {
		return fmt.Errorf("%w: %v", ErrConnectionClosed, err)
	}
	return fmt.Errorf("%w: %v", ErrRecvFailed, err)
}
