package transport

import (
	"net"
	"testing"

	"github.com/sdsql/sdsql/internal/wire"
)

func TestSendReceiveRoundTrip(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	cc := NewConn(client)
	sc := NewConn(server)

	want := &wire.PingRequest{}
	done := make(chan error, 1)
	go func() { done <- cc.Send(want) }()

	got, err := sc.Receive()
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("Send: %v", err)
	}
	if got.Type() != want.Type() {
		t.Fatalf("got type %v, want %v", got.Type(), want.Type())
	}
}

func TestReceiveSurfacesClosedConnection(t *testing.T) {
	client, server := net.Pipe()
	client.Close()
	sc := NewConn(server)
	if _, err := sc.Receive(); err == nil {
		t.Fatal("expected Receive on a closed pipe to fail")
	}
}

func TestListenAndAcceptDeliversConnections(t *testing.T) {
	ln, err := Listen("127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer ln.Close()

	accepted := make(chan *Conn, 1)
	acceptErr := make(chan error, 1)
	go func() {
		c, err := ln.Accept()
		accepted <- c
		acceptErr <- err
	}()

	client, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatalf("net.Dial: %v", err)
	}
	defer client.Close()

	if err := <-acceptErr; err != nil {
		t.Fatalf("Accept: %v", err)
	}
	srvConn := <-accepted
	defer srvConn.Close()

	if err := NewConn(client).Send(&wire.PingRequest{}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	msg, err := srvConn.Receive()
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if msg.Type() != wire.TypePingRequest {
		t.Fatalf("got %v, want PING_REQUEST", msg.Type())
	}
}
