//go:build !linux

package platform

import "time"

// CPUTimeSupported reports whether ThreadCPUTime can report a meaningful
// value on this platform.
const CPUTimeSupported = false

// ThreadCPUTime is a no-op outside Linux; RUSAGE_THREAD semantics vary
// enough across the remaining platforms that a guess isn't worth the
// surface.
func ThreadCPUTime() (time.Duration, bool) {
	return 0, false
}
