//go:build linux

package platform

import (
	"syscall"
	"time"
)

// CPUTimeSupported reports whether ThreadCPUTime can report a meaningful
// value on this platform.
const CPUTimeSupported = true

// ThreadCPUTime returns the calling OS thread's accumulated user+system CPU
// time via getrusage(RUSAGE_THREAD, ...). Meaningful only when the calling
// goroutine has called runtime.LockOSThread, otherwise it reports whichever
// OS thread happened to be running it.
func ThreadCPUTime() (time.Duration, bool) {
	var ru syscall.Rusage
	if err := syscall.Getrusage(syscall.RUSAGE_THREAD, &ru); err != nil {
		return 0, false
	}
	user := time.Duration(ru.Utime.Sec)*time.Second + time.Duration(ru.Utime.Usec)*time.Microsecond
	sys := time.Duration(ru.Stime.Sec)*time.Second + time.Duration(ru.Stime.Usec)*time.Microsecond
	return user + sys, true
}
