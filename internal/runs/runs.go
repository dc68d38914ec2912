// Package runs implements the Run Store & Ordering component: an
// append-only collection of discovered Runs, sorted once for reporting.
// Replaces the original's intrusive linked list + merge sort with a
// growable slice + a single sort.Slice, per spec.md §9's guidance that
// the list is not load-bearing.
package runs

import (
	"sort"

	"github.com/asynkron/simtext/internal/text"
)

// Run is an unordered pair of equal-length, maximal-match Chunks. By
// convention Chunk0 is the earlier-starting chunk (canonical orientation).
type Run struct {
	Chunk0 text.Chunk
	Chunk1 text.Chunk
	Size   int
}

// New builds a canonically-oriented Run from two chunks of equal size,
// placing the earlier-starting one first.
func New(a, b text.Chunk) Run {
	if a.First > b.First {
		a, b = b, a
	}
	return Run{Chunk0: a, Chunk1: b, Size: a.Size()}
}

// Store holds discovered runs until they are retrieved for reporting.
type Store struct {
	runs []Run
}

// Add appends a run. O(1) amortized.
func (s *Store) Add(r Run) {
	s.runs = append(s.runs, r)
}

// Len reports how many runs have been added.
func (s *Store) Len() int {
	return len(s.runs)
}

// Retrieve sorts the stored runs by (size desc, first-text-index asc,
// first-position asc) and returns them, mirroring Retrieve_Runs's
// ordering contract.
func (s *Store) Retrieve() []Run {
	sort.Slice(s.runs, func(i, j int) bool {
		a, b := s.runs[i], s.runs[j]
		if a.Size != b.Size {
			return a.Size > b.Size
		}
		if a.Chunk0.TextIndex != b.Chunk0.TextIndex {
			return a.Chunk0.TextIndex < b.Chunk0.TextIndex
		}
		return a.Chunk0.First < b.Chunk0.First
	})
	return s.runs
}
