package wire

import (
	"bytes"
	"strings"
	"testing"
)

func TestCodecRoundTripPrimitives(t *testing.T) {
	enc := NewEncoder()
	enc.U8(0xAB)
	enc.U16(0x1234)
	enc.U32(0xDEADBEEF)
	enc.U64(0x0102030405060708)
	enc.Bool(true)
	enc.Bool(false)
	enc.String("hello")
	enc.String("")

	dec := NewDecoder(enc.Bytes())

	if v, err := dec.U8(); err != nil || v != 0xAB {
		t.Fatalf("U8 = %v, %v", v, err)
	}
	if v, err := dec.U16(); err != nil || v != 0x1234 {
		t.Fatalf("U16 = %v, %v", v, err)
	}
	if v, err := dec.U32(); err != nil || v != 0xDEADBEEF {
		t.Fatalf("U32 = %v, %v", v, err)
	}
	if v, err := dec.U64(); err != nil || v != 0x0102030405060708 {
		t.Fatalf("U64 = %v, %v", v, err)
	}
	if v, err := dec.Bool(); err != nil || v != true {
		t.Fatalf("Bool = %v, %v", v, err)
	}
	if v, err := dec.Bool(); err != nil || v != false {
		t.Fatalf("Bool = %v, %v", v, err)
	}
	if v, err := dec.String(); err != nil || v != "hello" {
		t.Fatalf("String = %q, %v", v, err)
	}
	if v, err := dec.String(); err != nil || v != "" {
		t.Fatalf("String = %q, %v", v, err)
	}
	if dec.Remaining() != 0 {
		t.Fatalf("expected 0 remaining, got %d", dec.Remaining())
	}
}

func TestCodecBigEndian(t *testing.T) {
	enc := NewEncoder()
	enc.U32(0x0A000000)
	want := []byte{0x0A, 0x00, 0x00, 0x00}
	if !bytes.Equal(enc.Bytes(), want) {
		t.Fatalf("expected big-endian bytes %x, got %x", want, enc.Bytes())
	}

	dec := NewDecoder(want)
	v, err := dec.U32()
	if err != nil {
		t.Fatal(err)
	}
	if v != 0x0A000000 {
		t.Fatalf("expected 0x0A000000, got 0x%08X", v)
	}
}

func TestCodecU64SplitAsTwoU32(t *testing.T) {
	enc := NewEncoder()
	enc.U64(0x1122334455667788)
	b := enc.Bytes()
	if len(b) != 8 {
		t.Fatalf("expected 8 bytes, got %d", len(b))
	}
	hi := uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
	lo := uint32(b[4])<<24 | uint32(b[5])<<16 | uint32(b[6])<<8 | uint32(b[7])
	if hi != 0x11223344 || lo != 0x55667788 {
		t.Fatalf("expected hi=0x11223344 lo=0x55667788, got hi=0x%08X lo=0x%08X", hi, lo)
	}
}

func TestCodecInsufficientData(t *testing.T) {
	dec := NewDecoder([]byte{0x01, 0x02})
	if _, err := dec.U32(); err == nil {
		t.Fatal("expected an error reading U32 from 2 bytes")
	} else if se, ok := err.(*SerializationError); !ok || se.Kind != InsufficientData {
		t.Fatalf("expected InsufficientData, got %v", err)
	}
}

func TestCodecStringTooLong(t *testing.T) {
	enc := NewEncoder()
	enc.U32(1 << 21) // 2 MiB, exceeds the 1 MiB bound
	dec := NewDecoder(enc.Bytes())
	_, err := dec.String()
	se, ok := err.(*SerializationError)
	if !ok || se.Kind != StringTooLong {
		t.Fatalf("expected StringTooLong, got %v", err)
	}
}

func TestCodecStringByteCountNotRuneCount(t *testing.T) {
	s := strings.Repeat("é", 10) // 2 bytes per rune in UTF-8
	enc := NewEncoder()
	enc.String(s)
	dec := NewDecoder(enc.Bytes())
	n, err := dec.U32()
	if err != nil {
		t.Fatal(err)
	}
	if int(n) != len(s) {
		t.Fatalf("expected length prefix %d (byte count), got %d", len(s), n)
	}
}

func TestCodecPeekDoesNotAdvance(t *testing.T) {
	dec := NewDecoder([]byte{0x01, 0x02, 0x03})
	p, err := dec.Peek(2)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(p, []byte{0x01, 0x02}) {
		t.Fatalf("unexpected peek %x", p)
	}
	if dec.Pos() != 0 {
		t.Fatalf("expected pos 0 after peek, got %d", dec.Pos())
	}
}

func TestCodecSkip(t *testing.T) {
	dec := NewDecoder([]byte{0x01, 0x02, 0x03, 0x04})
	if err := dec.Skip(2); err != nil {
		t.Fatal(err)
	}
	v, err := dec.U8()
	if err != nil || v != 0x03 {
		t.Fatalf("expected 0x03 after skip, got %v, %v", v, err)
	}
	if err := dec.Skip(10); err == nil {
		t.Fatal("expected error skipping past end of buffer")
	}
}
