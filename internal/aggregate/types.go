// Package aggregate implements the single-consumer aggregation stage:
// it folds metadata batches (discovered in nondeterministic order across
// workers) into a directory-statistics tree, per-extension and per-user
// totals, and seven bounded top-N rankings, then performs the recursive
// roll-up and emits a report. A single goroutine owns the whole tree, so
// none of it needs locking.
package aggregate

import (
	"time"

	"github.com/sflanaga/parascan/internal/topn"
)

// AgeRange tracks the oldest/newest modification time observed among the
// entries that contributed to a statistic. Both fields are zero-valued
// (IsZero) until the first contributing entry is seen.
type AgeRange struct {
	Oldest time.Time
	Newest time.Time
	seen   bool
}

func (a *AgeRange) observe(t time.Time) {
	if !a.seen {
		a.Oldest, a.Newest = t, t
		a.seen = true
		return
	}
	if t.Before(a.Oldest) {
		a.Oldest = t
	}
	if t.After(a.Newest) {
		a.Newest = t
	}
}

// Seen reports whether any entry has contributed to this range.
func (a AgeRange) Seen() bool { return a.seen }

// DirStats holds the per-directory counters this tool tracks. The
// Direct fields are sums over entries whose immediate parent is this
// directory and which pass the age filter; the Recursive fields are sums
// over the entire subtree rooted here, populated by the post-pass roll-up.
type DirStats struct {
	Path string

	SizeDirect  uint64
	FilesDirect uint64
	DirsDirect  uint64

	SizeRecursive  uint64
	FilesRecursive uint64
	DirsRecursive  uint64

	AgeDirect    AgeRange
	AgeRecursive AgeRange
}

// UserStat is the per-owner total credited in the user map.
type UserStat struct {
	Files uint64
	Bytes uint64
}

// Stats holds every piece of state the aggregator owns exclusively: the
// directory tree, extension and user maps, the global byte total, and the
// seven bounded top-N rankings (see DESIGN.md for why there are seven,
// not six). No other goroutine reads or writes
// this struct.
type Stats struct {
	Root string

	Dirs      map[string]*DirStats
	Extension map[string]uint64
	Users     map[uint32]*UserStat

	TotalBytes uint64

	TopSizeDirect     *topn.Heap[string]
	TopSizeRecursive  *topn.Heap[string]
	TopDirsDirect     *topn.Heap[string]
	TopFilesDirect    *topn.Heap[string]
	TopFilesRecursive *topn.Heap[string]
	TopLargestFiles   *topn.Heap[string]
	TopExtensions     *topn.Heap[string]
}

// NewStats creates an empty Stats rooted at root, with every top-N heap at
// the given capacity. The root directory itself is pre-created so it
// always appears in the tree, even for an empty root: every directory
// key is always a descendant, inclusive, of the configured root.
func NewStats(root string, limit int) *Stats {
	s := &Stats{
		Root:      root,
		Dirs:      make(map[string]*DirStats),
		Extension: make(map[string]uint64),
		Users:     make(map[uint32]*UserStat),

		TopSizeDirect:     topn.New[string](limit),
		TopSizeRecursive:  topn.New[string](limit),
		TopDirsDirect:     topn.New[string](limit),
		TopFilesDirect:    topn.New[string](limit),
		TopFilesRecursive: topn.New[string](limit),
		TopLargestFiles:   topn.New[string](limit),
		TopExtensions:     topn.New[string](limit),
	}
	s.getOrCreate(root)
	return s
}

func (s *Stats) getOrCreate(path string) *DirStats {
	if d, ok := s.Dirs[path]; ok {
		return d
	}
	d := &DirStats{Path: path}
	s.Dirs[path] = d
	return d
}
