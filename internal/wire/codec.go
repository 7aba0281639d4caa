// Package wire implements SDSQL's length-prefixed binary codec and the
// message framing built on top of it (components C1 and C2).
package wire

import (
	"encoding/binary"
	"fmt"
)

// maxStringLen bounds any single decoded string to guard against a
// corrupt or hostile length prefix forcing a huge allocation.
const maxStringLen = 1 << 20 // 1 MiB

// ErrorKind enumerates the ways a decode can fail.
type ErrorKind int

const (
	BufferOverflow ErrorKind = iota
	InsufficientData
	InvalidFormat
	StringTooLong
)

func (k ErrorKind) String() string {
	switch k {
	case BufferOverflow:
		return "BUFFER_OVERFLOW"
	case InsufficientData:
		return "INSUFFICIENT_DATA"
	case InvalidFormat:
		return "INVALID_FORMAT"
	case StringTooLong:
		return "STRING_TOO_LONG"
	default:
		return "UNKNOWN"
	}
}

// SerializationError is returned by every Decoder read once the
// underlying buffer cannot satisfy the request.
type SerializationError struct {
	Kind ErrorKind
	Msg  string
}

func (e *SerializationError) Error() string {
	if e.Msg == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func newErr(kind ErrorKind, format string, args ...any) *SerializationError {
	return &SerializationError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Encoder appends primitives to a growable byte buffer using big-endian
// (network) byte order, mirroring the teacher's scratch-buffer encoder
// but writing to a slice instead of an io.Writer, since a full message
// payload must be assembled before its length prefix can be written.
type Encoder struct {
	buf []byte
}

// NewEncoder returns an Encoder with a small pre-allocated buffer.
func NewEncoder() *Encoder {
	return &Encoder{buf: make([]byte, 0, 64)}
}

// Bytes returns the accumulated buffer.
func (e *Encoder) Bytes() []byte { return e.buf }

// Len returns the number of bytes written so far.
func (e *Encoder) Len() int { return len(e.buf) }

// U8 appends a single byte.
func (e *Encoder) U8(v uint8) { e.buf = append(e.buf, v) }

// U16 appends a big-endian uint16.
func (e *Encoder) U16(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	e.buf = append(e.buf, b[:]...)
}

// U32 appends a big-endian uint32.
func (e *Encoder) U32(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	e.buf = append(e.buf, b[:]...)
}

// U64 appends a uint64 as two big-endian uint32s, high word first, per
// spec.md §4.1.
func (e *Encoder) U64(v uint64) {
	e.U32(uint32(v >> 32))
	e.U32(uint32(v))
}

// Bool appends a boolean as a single byte (0 or 1).
func (e *Encoder) Bool(v bool) {
	if v {
		e.U8(1)
	} else {
		e.U8(0)
	}
}

// RawBytes appends a raw byte span with no length prefix.
func (e *Encoder) RawBytes(p []byte) { e.buf = append(e.buf, p...) }

// String appends a u32 byte-length prefix followed by the raw bytes of
// s. Length is a byte count, not a rune count.
func (e *Encoder) String(s string) {
	e.U32(uint32(len(s)))
	e.buf = append(e.buf, s...)
}

// Decoder reads primitives from a fixed byte slice via a moving cursor,
// mirroring the teacher's Decoder but operating on an in-memory buffer
// (a full message payload is always read in one piece by the transport
// layer before decoding starts) and returning an error from every call
// instead of latching one on the receiver.
type Decoder struct {
	buf []byte
	pos int
}

// NewDecoder wraps buf for sequential decoding.
func NewDecoder(buf []byte) *Decoder {
	return &Decoder{buf: buf}
}

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int { return len(d.buf) - d.pos }

// Pos returns the current cursor position.
func (d *Decoder) Pos() int { return d.pos }

func (d *Decoder) need(n int) error {
	if n < 0 {
		return newErr(InvalidFormat, "negative length")
	}
	if d.Remaining() < n {
		return newErr(InsufficientData, "need %d bytes, have %d", n, d.Remaining())
	}
	return nil
}

// Skip advances the cursor by n bytes if that many remain.
func (d *Decoder) Skip(n int) error {
	if err := d.need(n); err != nil {
		return err
	}
	d.pos += n
	return nil
}

// Peek returns the next n bytes without advancing the cursor.
func (d *Decoder) Peek(n int) ([]byte, error) {
	if err := d.need(n); err != nil {
		return nil, err
	}
	return d.buf[d.pos : d.pos+n], nil
}

// U8 reads a single byte.
func (d *Decoder) U8() (uint8, error) {
	if err := d.need(1); err != nil {
		return 0, err
	}
	v := d.buf[d.pos]
	d.pos++
	return v, nil
}

// U16 reads a big-endian uint16.
func (d *Decoder) U16() (uint16, error) {
	if err := d.need(2); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(d.buf[d.pos:])
	d.pos += 2
	return v, nil
}

// U32 reads a big-endian uint32.
func (d *Decoder) U32() (uint32, error) {
	if err := d.need(4); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(d.buf[d.pos:])
	d.pos += 4
	return v, nil
}

// U64 reads a uint64 encoded as two big-endian uint32s, high word
// first.
func (d *Decoder) U64() (uint64, error) {
	hi, err := d.U32()
	if err != nil {
		return 0, err
	}
	lo, err := d.U32()
	if err != nil {
		return 0, err
	}
	return uint64(hi)<<32 | uint64(lo), nil
}

// Bool reads a single byte and reports whether it is non-zero.
func (d *Decoder) Bool() (bool, error) {
	v, err := d.U8()
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

// RawBytes reads n raw bytes with no length prefix.
func (d *Decoder) RawBytes(n int) ([]byte, error) {
	if err := d.need(n); err != nil {
		return nil, err
	}
	v := d.buf[d.pos : d.pos+n]
	d.pos += n
	out := make([]byte, n)
	copy(out, v)
	return out, nil
}

// String reads a u32 byte-length prefix followed by that many raw
// bytes, rejecting lengths above the 1 MiB bound.
func (d *Decoder) String() (string, error) {
	n, err := d.U32()
	if err != nil {
		return "", err
	}
	if n > maxStringLen {
		return "", newErr(StringTooLong, "length %d exceeds %d", n, maxStringLen)
	}
	if err := d.need(int(n)); err != nil {
		return "", err
	}
	v := string(d.buf[d.pos : d.pos+int(n)])
	d.pos += int(n)
	return v, nil
}
