//go:build !windows

package httphandlers

import (
	"syscall"

	"golang.org/x/sys/unix"
)

const socketBufferSize = 256 * 1024

// listenControl tunes the listening socket before bind. SO_REUSEADDR lets a
// quick session restart rebind the same port; large kernel buffers keep
// high-bitrate streams fed. Buffer sizing is best-effort since some systems
// clamp it.
func listenControl(network, address string, c syscall.RawConn) error {
	var sockErr error
	err := c.Control(func(fd uintptr) {
		sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
		_ = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_SNDBUF, socketBufferSize)
		_ = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_RCVBUF, socketBufferSize)
	})
	if err != nil {
		return err
	}
	return sockErr
}
