// Package watchdog provides an optional hard stop for a scan: after a
// configured duration the process exits regardless of scan progress.
package watchdog

import (
	"fmt"
	"os"
	"time"
)

// Start arms a timer that calls os.Exit(1) after duration unless the
// returned stop function is called first. There is no cancellation-aware
// wait point in the core scan loop to hook a context into, so this is a
// true hard stop rather than a graceful one.
func Start(duration time.Duration) (stop func()) {
	timer := time.AfterFunc(duration, func() {
		fmt.Fprintf(os.Stderr, "parascan: watchdog expired after %s, forcing exit\n", duration)
		os.Exit(1)
	})
	return func() { timer.Stop() }
}
