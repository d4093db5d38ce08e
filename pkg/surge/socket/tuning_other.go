//go:build !linux

package socket

// applyPlatformOptions is a no-op on platforms without Linux-specific
// TCP options.
func applyPlatformOptions(fd int, cfg *Config) {}
