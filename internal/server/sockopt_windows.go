//go:build windows

package server

import "syscall"

// WSAECONNRESET and WSAECONNABORTED.
var resetErrnos = []syscall.Errno{10054, 10053}

// SO_REUSEADDR on Windows lets another socket steal the port, so the runtime default is kept.
var listenControl func(network, address string, c syscall.RawConn) error
