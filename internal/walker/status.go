package walker

import (
	"sync/atomic"
	"time"

	"github.com/sflanaga/parascan/internal/platform"
)

// Status is a lock-free snapshot of one worker's progress, polled by the
// optional thread-status debug introspection (--write-thread-status,
// --t-status-on-key) and by CPU-time accounting
// (--write-thread-cpu-time). Carried here because cmd/parascan needs
// the surface to poll even though the core scan logic never reads it.
type Status struct {
	id        int
	path      atomic.Pointer[string]
	processed atomic.Int64
	idle      atomic.Bool
	cpuTime   atomic.Int64 // nanoseconds, updated only where platform.CPUTimeSupported
}

// Snapshot is an immutable copy of a worker's current Status.
type Snapshot struct {
	ID        int
	Path      string
	Processed int64
	Idle      bool
	CPUTime   time.Duration
	HasCPU    bool
}

func newStatus(id int) *Status {
	s := &Status{id: id}
	empty := ""
	s.path.Store(&empty)
	s.idle.Store(true)
	return s
}

func (s *Status) setBusy(path string) {
	s.path.Store(&path)
	s.idle.Store(false)
}

func (s *Status) setIdle() {
	s.idle.Store(true)
}

func (s *Status) incrProcessed() {
	s.processed.Add(1)
}

// refreshCPUTime reads the calling OS thread's accumulated CPU time. Must
// be called from the worker's own goroutine after it has locked itself to
// an OS thread, or the value is meaningless.
func (s *Status) refreshCPUTime() {
	if d, ok := platform.ThreadCPUTime(); ok {
		s.cpuTime.Store(int64(d))
	}
}

// Snapshot reads the current state without blocking any worker.
func (s *Status) Snapshot() Snapshot {
	return Snapshot{
		ID:        s.id,
		Path:      *s.path.Load(),
		Processed: s.processed.Load(),
		Idle:      s.idle.Load(),
		CPUTime:   time.Duration(s.cpuTime.Load()),
		HasCPU:    platform.CPUTimeSupported,
	}
}
