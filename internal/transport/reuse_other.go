//go:build !linux && !darwin

package transport

import "syscall"

func reusePort(network, address string, c syscall.RawConn) error {
	return nil
}
