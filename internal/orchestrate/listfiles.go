package orchestrate

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/sflanaga/parascan/internal/entrymeta"
	"github.com/sflanaga/parascan/internal/queue"
	"github.com/sflanaga/parascan/internal/report"
)

// RunListFiles executes the same worker pool as Run but streams raw file
// and directory records to w as they are discovered, instead of building
// an aggregated Stats tree.
func RunListFiles(opts Options, w io.Writer, delimiter string) error {
	rootInfo, err := os.Lstat(opts.Root)
	if err != nil {
		return fmt.Errorf("stat root %q: %w", opts.Root, err)
	}
	if !rootInfo.IsDir() {
		return fmt.Errorf("root %q is not a directory", opts.Root)
	}

	workQueue := queue.New[entrymeta.DirWork](opts.Workers)
	metaQueue := queue.New[entrymeta.MetaItem](1)

	workers := buildWorkers(opts, workQueue, metaQueue)

	var g errgroup.Group
	for _, wk := range workers {
		wk := wk
		g.Go(func() error {
			wk.Run()
			return nil
		})
	}

	report.FileRecordHeader(w, delimiter)

	drainDone := make(chan struct{})
	go func() {
		drainRecords(metaQueue, w, delimiter, opts)
		close(drainDone)
	}()

	progressDone := startProgress(opts, workQueue, metaQueue)
	defer close(progressDone)

	workQueue.Push(entrymeta.DirWork{Path: opts.Root})

	waitForWorkQuiescence(workQueue)
	for range workers {
		workQueue.Push(entrymeta.DirWork{Sentinel: true})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("worker pool: %w", err)
	}

	waitForWorkQuiescence(metaQueue)
	metaQueue.Push(entrymeta.MetaItem{Sentinel: true})
	<-drainDone

	return nil
}

func drainRecords(metaQueue *queue.Queue[entrymeta.MetaItem], w io.Writer, delimiter string, opts Options) {
	for {
		item := metaQueue.Pop()
		if item.Sentinel {
			return
		}
		for _, entry := range item.Batch.Entries {
			if !opts.Filters.PassesAge(entry.Meta.ModTime) {
				continue
			}
			report.WriteFileRecord(w, delimiter, entry)
		}
	}
}
