//go:build linux || darwin || freebsd

package sharksem

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// holdPortReservation reports whether the data port stays reserved until the data dial.
const holdPortReservation = true

// sharePortControl lets the data channel bind the port still held by its reservation.
func sharePortControl(_, _ string, c syscall.RawConn) error {
	var optErr error
	err := c.Control(func(fd uintptr) {
		optErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
		if optErr == nil {
			optErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEPORT, 1)
		}
	})
	if err != nil {
		return err
	}

	return optErr
}
