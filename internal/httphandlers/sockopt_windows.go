//go:build windows

package httphandlers

import "syscall"

// Windows listeners run with stock socket options; the defaults are adequate
// and SO_REUSEADDR has different semantics there.
func listenControl(network, address string, c syscall.RawConn) error {
	return nil
}
