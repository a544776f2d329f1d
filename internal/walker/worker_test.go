package walker

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"testing"
	"time"

	"github.com/sflanaga/parascan/internal/diag"
	"github.com/sflanaga/parascan/internal/entrymeta"
	"github.com/sflanaga/parascan/internal/filterset"
	"github.com/sflanaga/parascan/internal/queue"
)

// buildTree creates:
//
//	root/
//	  a.txt
//	  sub/
//	    b.txt
func buildTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "a.txt"), []byte("aaa"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	sub := filepath.Join(root, "sub")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(sub, "b.txt"), []byte("bb"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return root
}

// buildTreeWithSymlink extends buildTree with a symlink, root/link, pointing
// outside the scanned tree entirely (to an unrelated temp directory) — the
// entry a real scan must never follow or report.
func buildTreeWithSymlink(t *testing.T) string {
	t.Helper()
	root := buildTree(t)
	target := t.TempDir()
	if err := os.Symlink(target, filepath.Join(root, "link")); err != nil {
		t.Fatalf("Symlink: %v", err)
	}
	return root
}

func drainWorkerOutput(t *testing.T, root string, filters filterset.Set) []entrymeta.Batch {
	t.Helper()
	_, batches := drainWorker(t, root, filters)
	return batches
}

func drainWorker(t *testing.T, root string, filters filterset.Set) (*Worker, []entrymeta.Batch) {
	t.Helper()
	workQueue := queue.New[entrymeta.DirWork](1)
	metaQueue := queue.New[entrymeta.MetaItem](1)
	w := NewWorker(0, workQueue, metaQueue, filters, diag.New(&bytes.Buffer{}, 0))

	var batches []entrymeta.Batch
	collected := make(chan struct{})
	go func() {
		for {
			item := metaQueue.Pop()
			if item.Sentinel {
				close(collected)
				return
			}
			batches = append(batches, item.Batch)
		}
	}()

	runnerDone := make(chan struct{})
	go func() {
		w.Run()
		close(runnerDone)
	}()

	workQueue.Push(entrymeta.DirWork{Path: root})

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if quiescent, _ := workQueue.WaitForQuiescence(10 * time.Millisecond); quiescent {
			break
		}
	}
	workQueue.Push(entrymeta.DirWork{Sentinel: true})
	<-runnerDone

	metaQueue.Push(entrymeta.MetaItem{Sentinel: true})
	<-collected

	return w, batches
}

func TestWorkerWalksNestedDirectories(t *testing.T) {
	root := buildTree(t)
	batches := drainWorkerOutput(t, root, filterset.Set{})

	var allPaths []string
	for _, b := range batches {
		for _, item := range b.Entries {
			allPaths = append(allPaths, item.Path)
		}
	}
	sort.Strings(allPaths)

	want := []string{
		filepath.Join(root, "a.txt"),
		filepath.Join(root, "sub"),
		filepath.Join(root, "sub", "b.txt"),
	}
	sort.Strings(want)

	if len(allPaths) != len(want) {
		t.Fatalf("got %v, want %v", allPaths, want)
	}
	for i := range want {
		if allPaths[i] != want[i] {
			t.Errorf("allPaths[%d] = %q, want %q", i, allPaths[i], want[i])
		}
	}
}

func TestWorkerAppliesPathFilterToFilesOnly(t *testing.T) {
	root := buildTree(t)
	filters := filterset.Set{Exclude: regexp.MustCompile(`a\.txt$`)}
	batches := drainWorkerOutput(t, root, filters)

	var allPaths []string
	for _, b := range batches {
		for _, item := range b.Entries {
			allPaths = append(allPaths, item.Path)
		}
	}

	for _, p := range allPaths {
		if p == filepath.Join(root, "a.txt") {
			t.Errorf("expected a.txt to be excluded by the path filter, but it was present: %v", allPaths)
		}
	}
	// sub/ itself (a directory) must never be subject to path filtering,
	// even though it matches nothing meaningful here; it should still be
	// walked and its child (b.txt) should still appear.
	foundB := false
	for _, p := range allPaths {
		if p == filepath.Join(root, "sub", "b.txt") {
			foundB = true
		}
	}
	if !foundB {
		t.Errorf("expected sub/b.txt to still be discovered, got %v", allPaths)
	}
}

func TestWorkerExcludesSymlinks(t *testing.T) {
	root := buildTreeWithSymlink(t)
	batches := drainWorkerOutput(t, root, filterset.Set{})

	var allPaths []string
	for _, b := range batches {
		for _, item := range b.Entries {
			allPaths = append(allPaths, item.Path)
		}
	}

	linkPath := filepath.Join(root, "link")
	for _, p := range allPaths {
		if p == linkPath {
			t.Errorf("expected symlink %q to be excluded entirely, got %v", linkPath, allPaths)
		}
	}

	want := []string{
		filepath.Join(root, "a.txt"),
		filepath.Join(root, "sub"),
		filepath.Join(root, "sub", "b.txt"),
	}
	sort.Strings(allPaths)
	sort.Strings(want)
	if len(allPaths) != len(want) {
		t.Fatalf("got %v, want %v (symlink must contribute nothing)", allPaths, want)
	}
	for i := range want {
		if allPaths[i] != want[i] {
			t.Errorf("allPaths[%d] = %q, want %q", i, allPaths[i], want[i])
		}
	}
}

func TestWorkerCollectsScanErrors(t *testing.T) {
	root := t.TempDir()
	unreadable := filepath.Join(root, "locked")
	if err := os.Mkdir(unreadable, 0o000); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	t.Cleanup(func() { os.Chmod(unreadable, 0o755) })

	w, _ := drainWorker(t, root, filterset.Set{})

	errs := w.Errors()
	if len(errs) != 1 {
		t.Fatalf("Errors() = %v, want exactly one recorded failure for the unreadable directory", errs)
	}
	if errs[0].Path != unreadable {
		t.Errorf("ScanError.Path = %q, want %q", errs[0].Path, unreadable)
	}
}

func TestWorkerStatusReflectsIdleAfterSentinel(t *testing.T) {
	workQueue := queue.New[entrymeta.DirWork](1)
	metaQueue := queue.New[entrymeta.MetaItem](1)
	w := NewWorker(0, workQueue, metaQueue, filterset.Set{}, diag.New(&bytes.Buffer{}, 0))

	done := make(chan struct{})
	go func() {
		w.Run()
		close(done)
	}()

	workQueue.Push(entrymeta.DirWork{Sentinel: true})
	<-done

	snap := w.Status().Snapshot()
	if !snap.Idle {
		t.Error("expected worker status to be idle after processing the sentinel")
	}
}
