//go:build linux

package socket

import "golang.org/x/sys/unix"

// applyPlatformOptions applies Linux-specific options. All best effort;
// an old kernel rejecting an option is not a reason to drop the
// connection.
func applyPlatformOptions(fd int, cfg *Config) {
	// TCP_QUICKACK is not persistent; setting it once at accept is a
	// best-effort latency win for the first exchanges.
	if cfg.QuickAck {
		_ = unix.SetsockoptInt(fd, unix.IPPROTO_TCP, unix.TCP_QUICKACK, 1)
	}

	// Bound retransmission of unacknowledged data so dead peers are
	// detected within 10 seconds.
	_ = unix.SetsockoptInt(fd, unix.IPPROTO_TCP, unix.TCP_USER_TIMEOUT, 10000)
}
