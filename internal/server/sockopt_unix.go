//go:build unix

package server

import "syscall"

var resetErrnos = []syscall.Errno{syscall.ECONNRESET, syscall.ECONNABORTED}

// listenControl enables SO_REUSEADDR so a restarted server can rebind while old
// connections sit in TIME_WAIT.
func listenControl(_, _ string, c syscall.RawConn) error {
	var sockErr error
	if err := c.Control(func(fd uintptr) {
		sockErr = syscall.SetsockoptInt(int(fd), syscall.SOL_SOCKET, syscall.SO_REUSEADDR, 1)
	}); err != nil {
		return err
	}
	return sockErr
}
