//go:build linux || darwin || freebsd || netbsd || openbsd

package platform

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOwnerAndModeReadsPermissionBits(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f")
	if err := os.WriteFile(path, []byte("x"), 0o640); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	info, err := os.Lstat(path)
	if err != nil {
		t.Fatalf("Lstat: %v", err)
	}

	_, perm := OwnerAndMode(info)
	if perm&0o777 != 0o640 {
		t.Errorf("perm = %o, want low bits 640", perm)
	}
}

func TestThreadCPUTimeReportsNonNegativeDuration(t *testing.T) {
	d, ok := ThreadCPUTime()
	if CPUTimeSupported && !ok {
		t.Error("expected ThreadCPUTime to succeed where CPUTimeSupported is true")
	}
	if d < 0 {
		t.Errorf("ThreadCPUTime() = %v, want >= 0", d)
	}
}
