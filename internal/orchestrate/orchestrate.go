// Package orchestrate wires the work queue, metadata queue, worker pool,
// and aggregator together into a single scan: start workers, feed the
// root, wait for quiescence, drain the aggregator, and join.
package orchestrate

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sflanaga/parascan/internal/aggregate"
	"github.com/sflanaga/parascan/internal/diag"
	"github.com/sflanaga/parascan/internal/entrymeta"
	"github.com/sflanaga/parascan/internal/filterset"
	"github.com/sflanaga/parascan/internal/progressui"
	"github.com/sflanaga/parascan/internal/queue"
	"github.com/sflanaga/parascan/internal/walker"
)

// quiescencePoll is how often the orchestrator checks whether the work
// queue has drained. Short enough that shutdown latency is negligible
// next to any real scan, long enough not to spin.
const quiescencePoll = 250 * time.Millisecond

// Options configures one scan run.
type Options struct {
	Root     string
	Workers  int
	TopLimit int
	Filters  filterset.Set
	Log      *diag.Logger

	// Progress, when true, renders live queue telemetry for the duration
	// of the scan at TickerInterval (default 200ms if zero).
	Progress       bool
	TickerInterval time.Duration
}

// Result is everything produced by a completed scan.
type Result struct {
	Stats        *aggregate.Stats
	WorkerStatus []walker.Snapshot
	ScanErrors   []entrymeta.ScanError
	Started      time.Time
	Finished     time.Time
}

// Run executes a full scan: seed the root, run workers to quiescence,
// drain the aggregator, roll up, and return the finished Stats.
func Run(opts Options) (*Result, error) {
	started := time.Now()

	rootInfo, err := os.Lstat(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("stat root %q: %w", opts.Root, err)
	}
	if !rootInfo.IsDir() {
		return nil, fmt.Errorf("root %q is not a directory", opts.Root)
	}

	workQueue := queue.New[entrymeta.DirWork](opts.Workers)
	metaQueue := queue.New[entrymeta.MetaItem](1)

	workers := buildWorkers(opts, workQueue, metaQueue)

	agg := aggregate.New(opts.Root, opts.TopLimit, opts.Filters, metaQueue)

	var g errgroup.Group
	for _, w := range workers {
		w := w
		g.Go(func() error {
			w.Run()
			return nil
		})
	}

	aggDone := make(chan struct{})
	go func() {
		agg.Run()
		close(aggDone)
	}()

	progressDone := startProgress(opts, workQueue, metaQueue)
	defer close(progressDone)

	workQueue.Push(entrymeta.DirWork{Path: opts.Root})

	waitForWorkQuiescence(workQueue)
	for range workers {
		workQueue.Push(entrymeta.DirWork{Sentinel: true})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("worker pool: %w", err)
	}

	waitForWorkQuiescence(metaQueue)
	metaQueue.Push(entrymeta.MetaItem{Sentinel: true})
	<-aggDone

	stats := agg.Finalize()

	statuses := make([]walker.Snapshot, len(workers))
	var scanErrors []entrymeta.ScanError
	for i, w := range workers {
		statuses[i] = w.Status().Snapshot()
		scanErrors = append(scanErrors, w.Errors()...)
	}

	return &Result{
		Stats:        stats,
		WorkerStatus: statuses,
		ScanErrors:   scanErrors,
		Started:      started,
		Finished:     time.Now(),
	}, nil
}

// startProgress launches the optional live telemetry display and returns a
// channel the caller must close when the scan finishes. When opts.Progress
// is false the channel is still returned (closing it is then a no-op) so
// callers can unconditionally defer close() without a nil check.
func startProgress[W, M any](opts Options, workQueue *queue.Queue[W], metaQueue *queue.Queue[M]) chan struct{} {
	done := make(chan struct{})
	if !opts.Progress {
		return done
	}

	interval := opts.TickerInterval
	if interval <= 0 {
		interval = 200 * time.Millisecond
	}

	snap := func() progressui.Snapshot {
		return progressui.Snapshot{Work: workQueue.Snapshot(), Meta: metaQueue.Snapshot()}
	}
	go progressui.Run(interval, snap, done)
	return done
}

// buildWorkers constructs the fixed-size worker pool bound to the shared
// queues, shared by both the aggregated (Run) and raw-record (RunListFiles)
// entry points.
func buildWorkers(opts Options, workQueue *queue.Queue[entrymeta.DirWork], metaQueue *queue.Queue[entrymeta.MetaItem]) []*walker.Worker {
	workers := make([]*walker.Worker, opts.Workers)
	for i := range workers {
		workers[i] = walker.NewWorker(i, workQueue, metaQueue, opts.Filters, opts.Log)
	}
	return workers
}

// waitForWorkQuiescence polls WaitForQuiescence with a bounded per-call
// timeout until it reports quiescent, rather than blocking a single call
// indefinitely — this keeps the orchestrator goroutine responsive to future
// cancellation hooks (e.g. a watchdog) without restructuring the queue's
// own wait contract.
func waitForWorkQuiescence[T any](q *queue.Queue[T]) {
	for {
		quiescent, _ := q.WaitForQuiescence(quiescencePoll)
		if quiescent {
			return
		}
	}
}
