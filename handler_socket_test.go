package femtologging

import (
	"net"
	"strings"
	"testing"
	"time"
)

func TestSocketHandlerWritesOverTCP(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	received := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		buf := make([]byte, 256)
		n, _ := conn.Read(buf)
		received <- string(buf[:n])
	}()

	h, err := NewSocketHandler(SocketConfig{Network: "tcp", Address: ln.Addr().String()}, HandlerConfig{Capacity: 4})
	if err != nil {
		t.Fatalf("NewSocketHandler: %v", err)
	}
	defer h.Close()

	h.Handle(&Record{LoggerName: "x", Message: "over the wire"})

	select {
	case got := <-received:
		if !strings.Contains(got, "over the wire") {
			t.Fatalf("received %q, missing message", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the socket handler to write")
	}
}

func TestSocketHandlerConstructionErrorOnUnreachableAddress(t *testing.T) {
	_, err := NewSocketHandler(SocketConfig{
		Network:     "tcp",
		Address:     "127.0.0.1:1", // reserved, nothing listens here
		DialTimeout: 200 * time.Millisecond,
	}, HandlerConfig{})
	if err == nil {
		t.Fatal("expected a dial error for an unreachable address")
	}
}
