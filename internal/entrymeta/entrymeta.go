// Package entrymeta holds the data model shared between the worker pool and
// the aggregator: entry kinds, per-entry metadata, and the metadata batch
// that is the atomic handoff unit between the two stages.
package entrymeta

import (
	"os"
	"time"

	"github.com/sflanaga/parascan/internal/platform"
)

// Kind classifies a directory entry. Symbolic links are resolved to Other
// only in the impossible case they reach this far; workers skip them before
// a Kind is ever assigned.
type Kind uint8

const (
	KindFile Kind = iota
	KindDir
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDir:
		return "dir"
	default:
		return "other"
	}
}

// Metadata is the per-entry information collected with an lstat-equivalent
// call. Owner and Perm are platform-dependent: where the platform does not
// expose them, Owner reads 0 and Perm only carries a read-only marker
// (0o444 read-only, 0o644 writable; see internal/platform).
type Metadata struct {
	Kind    Kind
	Size    int64
	ModTime time.Time
	Owner   uint32
	Perm    uint32
}

// FromLstat builds Metadata from an os.FileInfo obtained via os.Lstat. The
// caller is responsible for having already excluded symlinks.
func FromLstat(info os.FileInfo) Metadata {
	owner, perm := platform.OwnerAndMode(info)
	kind := KindOther
	switch {
	case info.Mode().IsRegular():
		kind = KindFile
	case info.Mode().IsDir():
		kind = KindDir
	}
	return Metadata{
		Kind:    kind,
		Size:    info.Size(),
		ModTime: info.ModTime(),
		Owner:   owner,
		Perm:    perm,
	}
}

// Item is one (path, metadata) pair inside a batch.
type Item struct {
	Path string
	Meta Metadata
}

// Batch is a non-empty ordered sequence of entries discovered in a single
// directory enumeration. All entries share Parent as their immediate parent
// directory — the invariant that lets the aggregator attribute the batch
// to one directory-statistics record without re-deriving it per entry.
type Batch struct {
	Parent  string
	Entries []Item
}

// ScanError records an enumeration or stat failure. It never aborts the
// worker that produced it; each worker collects its own and the
// orchestrator gathers all of them onto the final Result once the pool
// has finished, alongside the same failure already having been logged via
// internal/diag as it happened.
type ScanError struct {
	Path    string
	Message string
}

// DirWork is one unit of work on the directory queue: a path to enumerate.
// Sentinel is the distinguished out-of-band value the orchestrator pushes
// to tell a worker to exit cleanly once quiescence has been observed.
type DirWork struct {
	Path     string
	Sentinel bool
}

// MetaItem wraps a Batch with the same sentinel convention, carried on the
// single-consumer queue between workers and the aggregator.
type MetaItem struct {
	Batch    Batch
	Sentinel bool
}
