//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package platform

import "os"

// Supported reports whether owner identifiers and permission bits are
// available on this platform.
const Supported = false

// OwnerAndMode degrades to a read-only boolean collapsed into perm: 0o644
// means writable, 0o444 means read-only. owner is always 0 where unsupported.
func OwnerAndMode(info os.FileInfo) (owner uint32, perm uint32) {
	if info.Mode().Perm()&0o200 == 0 {
		return 0, 0o444
	}
	return 0, 0o644
}
