// Package store provides the scheduler's deadline-ordered, in-memory job
// collection.
//
// Jobs are ordered by (deadline, insertion sequence): deadline primary,
// insertion order as tie-break so equal deadlines execute FIFO. A min-heap
// keeps peek-earliest O(1) and insert O(log n); a stable integer key into an
// index map backs cancellation handles, so a job's lifetime is governed
// solely by the store and a stale handle is detectable rather than dangling.
//
// Cancellation is lazy: Cancel only flips a flag, and the entry is
// physically removed the next time it reaches the head of the worker's
// scan. A canceled entry behind a nearer deadline therefore occupies space
// until the scan reaches it.
//
// A single store-wide mutex serializes every operation, including the
// cancellation flags and the closed flag, so the worker's
// peek/check-canceled/pop decision is one atomic step.
package store

import (
	"container/heap"
	"sync"
	"time"

	"github.com/xraph/tempo/job"
)

// item is one entry in the deadline-ordered min-heap.
type item struct {
	j        *job.Job
	deadline time.Time
	seq      uint64 // insertion sequence; FIFO tie-break and handle key

	// heapIdx is the item's current position in the heap slice,
	// maintained by minHeap.Swap.
	heapIdx int

	// canceled marks the item for lazy removal. Guarded by Store.mu.
	canceled bool
}

// minHeap orders items by (deadline, seq). The earliest sits at index 0.
type minHeap []*item

func (h minHeap) Len() int { return len(h) }

func (h minHeap) Less(i, k int) bool {
	if !h[i].deadline.Equal(h[k].deadline) {
		return h[i].deadline.Before(h[k].deadline)
	}
	return h[i].seq < h[k].seq
}

func (h minHeap) Swap(i, k int) {
	h[i], h[k] = h[k], h[i]
	h[i].heapIdx = i
	h[k].heapIdx = k
}

func (h *minHeap) Push(x any) {
	it := x.(*item)
	it.heapIdx = len(*h)
	*h = append(*h, it)
}

func (h *minHeap) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	old[n-1] = nil // allow GC
	it.heapIdx = -1
	*h = old[:n-1]
	return it
}

// Store is a mutex-protected, deadline-ordered collection of jobs.
// Safe for concurrent use by the worker and any number of submitters.
type Store struct {
	mu     sync.Mutex
	items  minHeap
	index  map[uint64]*item
	seq    uint64
	closed bool
}

// New returns a new empty Store.
func New() *Store {
	return &Store{index: make(map[uint64]*item)}
}

// Insert adds a job ordered by (deadline, insertion sequence) and returns a
// stable key usable for cancellation. ok is false when the store has been
// closed; the job is not added.
func (s *Store) Insert(j *job.Job) (key uint64, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, false
	}

	s.seq++
	it := &item{j: j, deadline: j.Deadline, seq: s.seq}
	heap.Push(&s.items, it)
	s.index[it.seq] = it
	return it.seq, true
}

// Cancel marks the job behind key as canceled. The entry stays in the heap
// until the worker's scan reaches it (lazy removal). It reports whether this
// call flipped the flag: a stale key or an already-canceled entry is a
// silent no-op returning false, which makes repeated cancellation idempotent.
func (s *Store) Cancel(key uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.index[key]
	if !ok || it.canceled {
		return false
	}
	it.canceled = true
	return true
}

// Due examines the head of the collection relative to now, as one atomic
// step. Canceled entries at the head are swept. The return values encode
// three states:
//
//   - j != nil: a due job was removed and must be executed.
//   - j == nil, next non-zero: the earliest job's deadline is next, an
//     absolute instant in the future. Returning the instant rather than a
//     relative wait lets the caller arm a timer against the same target the
//     store saw, so a clock advance between this call and timer registration
//     cannot strand the job.
//   - j == nil, next zero: the store is empty; closed reports whether no
//     further insertions can occur (the worker's terminal condition).
func (s *Store) Due(now time.Time) (j *job.Job, next time.Time, closed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for len(s.items) > 0 {
		head := s.items[0]
		if head.canceled {
			heap.Pop(&s.items)
			delete(s.index, head.seq)
			continue
		}
		if head.deadline.After(now) {
			return nil, head.deadline, s.closed
		}
		heap.Pop(&s.items)
		delete(s.index, head.seq)
		return head.j, time.Time{}, s.closed
	}

	return nil, time.Time{}, s.closed
}

// Close marks the store closed: Insert rejects all further jobs. Pending
// entries are unaffected. Idempotent.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// Len returns the number of entries, including canceled ones not yet swept.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Empty reports whether the store holds no entries.
func (s *Store) Empty() bool {
	return s.Len() == 0
}
