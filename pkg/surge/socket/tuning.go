// Package socket applies TCP tuning options to accepted connections.
// Platform-specific options live in tuning_linux.go; other platforms
// get the portable subset only.
package socket

import (
	"net"
	"syscall"
)

// Config selects which socket options to apply. Zero values mean "use
// the system default".
type Config struct {
	// NoDelay disables Nagle's algorithm. Recommended for HTTP/1.1
	// request/response traffic.
	NoDelay bool

	// RecvBuffer sets SO_RCVBUF in bytes when > 0.
	RecvBuffer int

	// SendBuffer sets SO_SNDBUF in bytes when > 0.
	SendBuffer int

	// QuickAck enables TCP_QUICKACK (Linux only), trading ACK batching
	// for lower latency.
	QuickAck bool

	// KeepAlive enables SO_KEEPALIVE probes on the connection.
	KeepAlive bool
}

// DefaultConfig returns the recommended tuning for HTTP workloads.
func DefaultConfig() *Config {
	return &Config{
		NoDelay:    true,
		RecvBuffer: 256 * 1024,
		SendBuffer: 256 * 1024,
		QuickAck:   true,
		KeepAlive:  true,
	}
}

// Apply tunes an accepted connection. Only a TCP_NODELAY failure is
// reported; platform-specific options are best effort. Non-TCP
// connections are left untouched.
func Apply(conn net.Conn, cfg *Config) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	tcpConn, ok := conn.(*net.TCPConn)
	if !ok {
		return nil
	}

	rawConn, err := tcpConn.SyscallConn()
	if err != nil {
		return err
	}

	var lastErr error
	err = rawConn.Control(func(fd uintptr) {
		if cfg.NoDelay {
			if err := syscall.SetsockoptInt(int(fd), syscall.IPPROTO_TCP, syscall.TCP_NODELAY, 1); err != nil {
				lastErr = err
				return
			}
		}
		if cfg.RecvBuffer > 0 {
			_ = syscall.SetsockoptInt(int(fd), syscall.SOL_SOCKET, syscall.SO_RCVBUF, cfg.RecvBuffer)
		}
		if cfg.SendBuffer > 0 {
			_ = syscall.SetsockoptInt(int(fd), syscall.SOL_SOCKET, syscall.SO_SNDBUF, cfg.SendBuffer)
		}
		if cfg.KeepAlive {
			_ = syscall.SetsockoptInt(int(fd), syscall.SOL_SOCKET, syscall.SO_KEEPALIVE, 1)
		}

		applyPlatformOptions(int(fd), cfg)
	})
	if err != nil {
		return err
	}
	return lastErr
}
