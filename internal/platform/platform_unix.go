//go:build linux || darwin || freebsd || netbsd || openbsd

package platform

import (
	"os"
	"syscall"
)

// Supported reports whether owner identifiers and permission bits are
// available on this platform.
const Supported = true

// OwnerAndMode extracts the owner uid and permission bits from a FileInfo
// obtained via os.Lstat. Returns (0, info.Mode().Perm()) when the
// underlying Sys() value isn't a *syscall.Stat_t.
func OwnerAndMode(info os.FileInfo) (owner uint32, perm uint32) {
	if stat, ok := info.Sys().(*syscall.Stat_t); ok {
		return stat.Uid, uint32(stat.Mode & 0o7777)
	}
	return 0, uint32(info.Mode().Perm())
}
