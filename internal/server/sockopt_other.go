//go:build !unix && !windows

package server

import "syscall"

var resetErrnos []syscall.Errno

var listenControl func(network, address string, c syscall.RawConn) error
