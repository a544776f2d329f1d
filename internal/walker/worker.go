// Package walker implements the directory worker pool: a fixed set of N
// workers, each simultaneously a consumer (of directories to read from the
// work queue) and a producer (of newly discovered subdirectories pushed
// back onto that same queue), feeding an unbounded self-feeding queue
// instead of a bounded channel with a local fallback stack.
package walker

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/sflanaga/parascan/internal/diag"
	"github.com/sflanaga/parascan/internal/entrymeta"
	"github.com/sflanaga/parascan/internal/filterset"
	"github.com/sflanaga/parascan/internal/queue"
)

// Worker reads directories popped from the work queue, classifies each
// child entry, and emits a metadata batch plus newly discovered
// subdirectories.
type Worker struct {
	id        int
	workQueue *queue.Queue[entrymeta.DirWork]
	metaQueue *queue.Queue[entrymeta.MetaItem]
	filters   filterset.Set
	log       *diag.Logger
	status    *Status

	errMu  sync.Mutex
	errors []entrymeta.ScanError
}

// NewWorker constructs a worker bound to the shared work and metadata
// queues.
func NewWorker(id int, workQueue *queue.Queue[entrymeta.DirWork], metaQueue *queue.Queue[entrymeta.MetaItem], filters filterset.Set, log *diag.Logger) *Worker {
	return &Worker{
		id:        id,
		workQueue: workQueue,
		metaQueue: metaQueue,
		filters:   filters,
		log:       log,
		status:    newStatus(id),
	}
}

// Status exposes the worker's live progress snapshot.
func (w *Worker) Status() *Status { return w.status }

// Errors returns every enumeration or stat failure this worker recorded
// over its lifetime. Safe to call after Run has returned.
func (w *Worker) Errors() []entrymeta.ScanError {
	w.errMu.Lock()
	defer w.errMu.Unlock()
	out := make([]entrymeta.ScanError, len(w.errors))
	copy(out, w.errors)
	return out
}

// recordError logs the failure to the diagnostic stream and appends it to
// the worker's own ScanError collection, so callers that want a structured
// summary (rather than just the stderr stream) can retrieve it after Run.
func (w *Worker) recordError(path, message string) {
	w.log.Errorf("parascan: %s", message)
	w.errMu.Lock()
	w.errors = append(w.errors, entrymeta.ScanError{Path: path, Message: message})
	w.errMu.Unlock()
}

// Run loops popping paths until it pops the sentinel, at which point it
// returns cleanly. This is the worker's entire lifecycle — no context
// cancellation is threaded through the pop loop itself because the queue's
// own blocking contract is the only suspension point.
func (w *Worker) Run() {
	// RUSAGE_THREAD only reports the calling OS thread's usage, so the
	// worker pins itself to one for the rest of its life.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	for {
		work := w.workQueue.Pop()
		if work.Sentinel {
			w.status.setIdle()
			return
		}
		w.status.setBusy(work.Path)
		w.processDirectory(work.Path)
		w.status.incrProcessed()
		w.status.refreshCPUTime()
	}
}

// processDirectory opens dir, classifies each child, publishes the
// batch, then feeds discovered subdirectories back onto the work queue.
func (w *Worker) processDirectory(dir string) {
	children, err := os.ReadDir(dir)
	if err != nil {
		w.recordError(dir, fmt.Sprintf("cannot read dir %q: %v", dir, err))
		return
	}

	batch := entrymeta.Batch{Parent: dir}
	var subdirs []string

	for _, child := range children {
		childPath := filepath.Join(dir, child.Name())

		// DirEntry.Info() is an lstat-equivalent call: it reports the
		// entry itself, never following a symlink target.
		info, err := child.Info()
		if err != nil {
			w.recordError(childPath, fmt.Sprintf("cannot stat %q: %v", childPath, err))
			continue
		}

		if info.Mode()&os.ModeSymlink != 0 {
			continue
		}

		meta := entrymeta.FromLstat(info)

		switch meta.Kind {
		case entrymeta.KindDir:
			batch.Entries = append(batch.Entries, entrymeta.Item{Path: childPath, Meta: meta})
			subdirs = append(subdirs, childPath)
		case entrymeta.KindFile:
			if w.filters.PassesPath(childPath) {
				batch.Entries = append(batch.Entries, entrymeta.Item{Path: childPath, Meta: meta})
			}
		default:
			// block/char/socket/fifo: ignored.
		}
	}

	if len(batch.Entries) > 0 {
		w.metaQueue.Push(entrymeta.MetaItem{Batch: batch})
	}

	for _, sub := range subdirs {
		w.workQueue.Push(entrymeta.DirWork{Path: sub})
	}
}
