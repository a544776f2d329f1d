package aggregate

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/sflanaga/parascan/internal/entrymeta"
	"github.com/sflanaga/parascan/internal/filterset"
	"github.com/sflanaga/parascan/internal/pathutil"
	"github.com/sflanaga/parascan/internal/queue"
)

// Aggregator is the single consumer of metadata batches. It owns Stats
// exclusively: no other goroutine reads or writes it.
type Aggregator struct {
	stats     *Stats
	filters   filterset.Set
	metaQueue *queue.Queue[entrymeta.MetaItem]
}

// New creates an aggregator rooted at root with the given top-N capacity.
func New(root string, limit int, filters filterset.Set, metaQueue *queue.Queue[entrymeta.MetaItem]) *Aggregator {
	return &Aggregator{
		stats:     NewStats(pathutil.Normalize(root), limit),
		filters:   filters,
		metaQueue: metaQueue,
	}
}

// Run drains the metadata queue until it pops the sentinel.
func (a *Aggregator) Run() {
	for {
		item := a.metaQueue.Pop()
		if item.Sentinel {
			return
		}
		a.processBatch(item.Batch)
	}
}

// processBatch folds one metadata batch into the directory tree,
// extension map, and user map.
func (a *Aggregator) processBatch(batch entrymeta.Batch) {
	parent := pathutil.Normalize(batch.Parent)
	if !a.isUnderRoot(parent) {
		// Defensive: never expected in normal operation.
		return
	}

	dir := a.stats.getOrCreate(parent)

	for _, item := range batch.Entries {
		switch item.Meta.Kind {
		case entrymeta.KindFile:
			a.processFile(dir, item)
		case entrymeta.KindDir:
			a.processDir(dir, item)
		}
	}
}

func (a *Aggregator) processFile(dir *DirStats, item entrymeta.Item) {
	size := uint64(item.Meta.Size)

	// The "largest files" heap and the user-credit map ignore the age
	// filter — a file can be excluded from direct/recursive totals yet
	// still rank among the largest files observed.
	a.stats.TopLargestFiles.Offer(size, item.Path)

	user, ok := a.stats.Users[item.Meta.Owner]
	if !ok {
		user = &UserStat{}
		a.stats.Users[item.Meta.Owner] = user
	}
	user.Files++
	user.Bytes += size
	a.stats.TotalBytes += size

	if !a.filters.PassesAge(item.Meta.ModTime) {
		return
	}

	dir.FilesDirect++
	dir.SizeDirect += size
	dir.AgeDirect.observe(item.Meta.ModTime)

	ext := multiExtension(filepath.Base(item.Path))
	if ext != "" {
		a.stats.Extension[ext] += size
	}
}

func (a *Aggregator) processDir(dir *DirStats, item entrymeta.Item) {
	if !a.filters.PassesAge(item.Meta.ModTime) {
		return
	}
	dir.DirsDirect++
	dir.AgeDirect.observe(item.Meta.ModTime)
}

// isUnderRoot reports whether dir is the configured root or a descendant
// of it.
func (a *Aggregator) isUnderRoot(dir string) bool {
	if dir == a.stats.Root {
		return true
	}
	rel, err := filepath.Rel(a.stats.Root, dir)
	if err != nil {
		return false
	}
	return rel != ".." && !hasDotDotPrefix(rel)
}

func hasDotDotPrefix(rel string) bool {
	return len(rel) >= 2 && rel[0] == '.' && rel[1] == '.' &&
		(len(rel) == 2 || rel[2] == os.PathSeparator)
}

// Finalize performs the recursive roll-up (a post-pass over the
// directory tree, chosen for correctness over incremental folding which
// risks double-counting when subtrees complete out of order) and
// populates the five directory-ranking heaps plus the extension heap.
// Must be called only after Run has returned.
func (a *Aggregator) Finalize() *Stats {
	a.rollup()
	a.populateTopN()
	return a.stats
}

// rollup walks directories in decreasing path-length order. A child path
// is always strictly longer than its parent's (child = parent + separator
// + name), so by the time a directory is folded into its parent, every one
// of its own descendants — regardless of their subtree depth — has
// already been folded into it.
func (a *Aggregator) rollup() {
	paths := make([]string, 0, len(a.stats.Dirs))
	for p, d := range a.stats.Dirs {
		d.SizeRecursive = d.SizeDirect
		d.FilesRecursive = d.FilesDirect
		d.DirsRecursive = d.DirsDirect
		d.AgeRecursive = d.AgeDirect
		paths = append(paths, p)
	}
	sort.Slice(paths, func(i, j int) bool { return len(paths[i]) > len(paths[j]) })

	for _, p := range paths {
		if p == a.stats.Root {
			continue
		}
		parentPath := filepath.Dir(p)
		parent, ok := a.stats.Dirs[parentPath]
		if !ok {
			continue
		}
		child := a.stats.Dirs[p]
		parent.SizeRecursive += child.SizeRecursive
		parent.FilesRecursive += child.FilesRecursive
		parent.DirsRecursive += child.DirsRecursive
		if child.AgeRecursive.Seen() {
			parent.AgeRecursive.observe(child.AgeRecursive.Oldest)
			parent.AgeRecursive.observe(child.AgeRecursive.Newest)
		}
	}
}

func (a *Aggregator) populateTopN() {
	for p, d := range a.stats.Dirs {
		a.stats.TopSizeDirect.Offer(d.SizeDirect, p)
		a.stats.TopSizeRecursive.Offer(d.SizeRecursive, p)
		a.stats.TopDirsDirect.Offer(d.DirsDirect, p)
		a.stats.TopFilesDirect.Offer(d.FilesDirect, p)
		a.stats.TopFilesRecursive.Offer(d.FilesRecursive, p)
	}
	for ext, total := range a.stats.Extension {
		a.stats.TopExtensions.Offer(total, ext)
	}
}
