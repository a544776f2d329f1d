// Package topn implements the bounded top-N tracking used for every
// ranking table in the usage report: a capacity-k min-heap keyed on a
// uint64 score, so the current minimum can be evicted in O(log k) when a
// better candidate arrives.
package topn

import (
	"container/heap"
	"sort"
)

type entry[T any] struct {
	score   uint64
	payload T
	seq     int
}

type rawHeap[T any] []entry[T]

func (h rawHeap[T]) Len() int            { return len(h) }
func (h rawHeap[T]) Less(i, j int) bool  { return h[i].score < h[j].score }
func (h rawHeap[T]) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *rawHeap[T]) Push(x interface{}) { *h = append(*h, x.(entry[T])) }
func (h *rawHeap[T]) Pop() interface{} {
	old := *h
	n := len(old)
	last := old[n-1]
	*h = old[:n-1]
	return last
}

// Heap is a bounded min-scored priority queue of capacity N that retains
// the N highest-scoring Offer calls seen so far.
type Heap[T any] struct {
	capacity int
	items    rawHeap[T]
	nextSeq  int
}

// New creates a heap with the given capacity. A capacity of 0 never
// retains anything.
func New[T any](capacity int) *Heap[T] {
	return &Heap[T]{capacity: capacity}
}

// Offer applies the top-N insertion rule: a zero score is always dropped;
// while under capacity every candidate is kept; once full, a candidate only
// displaces the current minimum if it strictly exceeds it, so ties keep the
// first-seen element.
func (h *Heap[T]) Offer(score uint64, payload T) {
	if score == 0 || h.capacity == 0 {
		return
	}
	e := entry[T]{score: score, payload: payload, seq: h.nextSeq}
	h.nextSeq++

	if h.items.Len() < h.capacity {
		heap.Push(&h.items, e)
		return
	}
	if h.items[0].score < score {
		heap.Pop(&h.items)
		heap.Push(&h.items, e)
	}
}

// Len returns the number of elements currently retained.
func (h *Heap[T]) Len() int { return h.items.Len() }

// Entry is one ranked result: a score and the payload it was offered with.
type Entry[T any] struct {
	Score   uint64
	Payload T
}

// Ranked drains a snapshot of the retained elements in descending score
// order. Ties are broken by observation order (first-seen first), matching
// the insertion rule's tie-break. The heap itself is left intact.
func (h *Heap[T]) Ranked() []Entry[T] {
	snapshot := make([]entry[T], len(h.items))
	copy(snapshot, h.items)

	sort.Slice(snapshot, func(i, j int) bool {
		if snapshot[i].score != snapshot[j].score {
			return snapshot[i].score > snapshot[j].score
		}
		return snapshot[i].seq < snapshot[j].seq
	})

	out := make([]Entry[T], len(snapshot))
	for i, e := range snapshot {
		out[i] = Entry[T]{Score: e.score, Payload: e.payload}
	}
	return out
}
