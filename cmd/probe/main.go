// Binary probe sends one sample to a running signal server and prints the reply,
// the same way the terminal's expert advisor does.
package main

import (
	"flag"
	"fmt"
	"net"
	"os"
	"time"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:8888", "signal server address")
	msg := flag.String("msg", "EURUSD,1.10000,25.0", "SYMBOL,BID,RSI payload")
	timeout := flag.Duration("timeout", 3*time.Second, "dial and reply timeout")
	flag.Parse()

	reply, err := probe(*addr, *msg, *timeout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "probe failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(reply)
}

func probe(addr, msg string, timeout time.Duration) (string, error) {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return "", fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
		return "", err
	}
	if _, err := conn.Write([]byte(msg)); err != nil {
		return "", fmt.Errorf("send: %w", err)
	}
	buf := make([]byte, 256)
	n, err := conn.Read(buf)
	if err != nil {
		return "", fmt.Errorf("read reply: %w", err)
	}
	return string(buf[:n]), nil
}
