//go:build !(linux || darwin || freebsd)

package sharksem

import "syscall"

// holdPortReservation reports whether the data port stays reserved until the data dial.
// Without a shareable bind the port is released before the dial.
const holdPortReservation = false

func sharePortControl(_, _ string, _ syscall.RawConn) error {
	return nil
}
