package main

import (
	"net"
	"testing"
	"time"
)

func TestProbeSendsAndReadsReply(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	got := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		buf := make([]byte, 64)
		n, _ := conn.Read(buf)
		got <- string(buf[:n])
		_, _ = conn.Write([]byte("1.0,1.09900,1.10100"))
	}()

	reply, err := probe(ln.Addr().String(), "EURUSD,1.10000,25.0", 2*time.Second)
	if err != nil {
		t.Fatalf("probe returned error: %v", err)
	}
	if reply != "1.0,1.09900,1.10100" {
		t.Fatalf("unexpected reply %q", reply)
	}
	if sent := <-got; sent != "EURUSD,1.10000,25.0" {
		t.Fatalf("server saw %q", sent)
	}
}

func TestProbeDialFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	if _, err := probe(addr, "x", 500*time.Millisecond); err == nil {
		t.Fatalf("expected dial error against closed port")
	}
}
