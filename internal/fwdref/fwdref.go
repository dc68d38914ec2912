// Package fwdref builds and owns the Forward-Reference Index: the
// primary hash1 pass into a prime-sized bucket table, the secondary
// hash2 false-positive cleanup, and an optional debug "perfect pass"
// that replaces hash2 with full token equality. Grounded bit-for-bit on
// original_source/hash.c.
package fwdref

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/asynkron/simtext/internal/applog"
	"github.com/asynkron/simtext/internal/text"
	"github.com/asynkron/simtext/internal/token"
)

// Options configures index construction.
type Options struct {
	// Parallel enables splitting the hash2 cleanup pass across 8
	// goroutines via errgroup, per spec §5's explicit permission to
	// parallelize this pass. Each goroutine writes only its own f[i]
	// range and reads from an immutable pre-cleaning snapshot, so the
	// result is identical to the serial pass byte-for-byte.
	Parallel bool
	// Perfect replaces the hash2 predicate with a full minRun-token
	// equality check, the debug "perfect pass" of spec §4.2.3. Not
	// required for correctness; used to measure hash2's false-positive
	// rate in tests.
	Perfect bool
	// MaxTableBytes caps the last_index allocation so tests can force the
	// prime step-down without actually exhausting memory. Zero means no
	// cap.
	MaxTableBytes uint64
}

// Index is the built forward-reference array F, indexed by token
// position. Position 0 is always 0 (the sentinel).
type Index struct {
	f         []int
	minRun    int
	samplePos [nSamples]int
}

// Build constructs the Forward-Reference Index over store, scoped to the
// given texts, with minimum run size minRun.
func Build(ctx context.Context, store *token.Store, texts []text.Text, minRun int, opts Options) (*Index, error) {
	if minRun < 1 {
		return nil, applog.UsageError{Msg: "bad or zero run size; form is: -r N"}
	}

	idx := &Index{
		f:         make([]int, store.Len()+1),
		minRun:    minRun,
		samplePos: samplePositions(minRun),
	}

	lastIndex, tableSize, err := idx.initHashTable(store.Len(), opts.MaxTableBytes)
	if err != nil {
		return nil, err
	}

	idx.hash1Pass(store, texts, lastIndex, tableSize)

	if opts.Perfect {
		idx.perfectPass(ctx, store, opts.Parallel)
	} else {
		if err := idx.hash2Pass(ctx, store, opts.Parallel); err != nil {
			return nil, err
		}
	}

	return idx, nil
}

// initHashTable allocates last_index[], stepping down through the prime
// table when the ideal size is too large, mirroring hash.c's
// init_hash_table degraded-allocation behavior.
func (idx *Index) initHashTable(tokenLen int, maxBytes uint64) ([]int, uint64, error) {
	n := idealPrimeIndex(uint64(tokenLen))
	if n >= len(primes) {
		n = len(primes) - 1
	}

	for ; n >= 0; n-- {
		size := primes[n]
		if maxBytes != 0 && size*8 > maxBytes {
			continue
		}
		return make([]int, size), size, nil
	}
	return nil, 0, applog.OutOfMemory()
}

// hash1Pass runs the primary pass, threading F through last_index
// ascending-position chains per hash bucket. Mirrors
// make_forward_references_hash1.
func (idx *Index) hash1Pass(store *token.Store, texts []text.Text, lastIndex []int, tableSize uint64) {
	for _, t := range texts {
		for j := t.Start; j+idx.minRun-1 < t.Limit; j++ {
			if !store.MayStartRun(j) {
				continue
			}
			h := uint64(hash1(store, j, idx.samplePos)) % tableSize
			if lastIndex[h] != 0 {
				idx.f[lastIndex[h]] = j
			}
			lastIndex[h] = j
		}
	}
}

// hash2Pass cleans spurious chain links by walking each chain until the
// secondary hash matches, short-circuiting F[i] directly to the match or
// to zero. Mirrors clean_forward_references_hash2.
func (idx *Index) hash2Pass(ctx context.Context, store *token.Store, parallel bool) error {
	// hash.c sweeps i = 1..L-Min_Run_Size, i.e. i+minRun <= L; len(idx.f)
	// is L+1 (the sentinel plus L real positions), so the inclusive upper
	// bound is len(idx.f)-minRun-1.
	limit := len(idx.f) - idx.minRun - 1
	if limit < 1 {
		return nil
	}

	// clean only ever writes idx.f[i] for i in its own [lo,hi) chunk, but
	// the chain walk reads idx.f[j] for j > i (hash1Pass's chains only
	// ever point forward). Run serially that read always lands on an
	// untouched hash1 value because i hasn't reached j yet; run in
	// parallel against the live idx.f it would land on whatever another
	// worker's chunk happens to have written so far, a genuine
	// read/write race producing a different F run-to-run. Reading from
	// src - an immutable snapshot taken before any worker starts, never
	// written to - reproduces the serial read exactly while letting
	// every worker write its own chunk of idx.f concurrently.
	clean := func(src []int, lo, hi int) {
		for i := lo; i < hi; i++ {
			h2 := hash2(store, i, idx.samplePos)
			j := i
			for src[j] != 0 && hash2(store, src[j], idx.samplePos) != h2 {
				j = src[j]
			}
			idx.f[i] = src[j]
		}
	}

	if !parallel {
		clean(idx.f, 1, limit+1)
		return nil
	}

	snapshot := make([]int, len(idx.f))
	copy(snapshot, idx.f)

	g, _ := errgroup.WithContext(ctx)
	workers := 8
	chunk := (limit + workers - 1) / workers
	for w := 0; w < workers; w++ {
		lo := 1 + w*chunk
		hi := lo + chunk
		if lo > limit {
			break
		}
		if hi > limit+1 {
			hi = limit + 1
		}
		g.Go(func() error {
			clean(snapshot, lo, hi)
			return nil
		})
	}
	return g.Wait()
}

// perfectPass replaces hash2 with full minRun-token equality, the
// optional debug pass of spec §4.2.3.
func (idx *Index) perfectPass(ctx context.Context, store *token.Store, parallel bool) {
	limit := len(idx.f) - idx.minRun - 1
	if limit < 1 {
		return
	}

	eq := func(p, q int) bool {
		for k := 0; k < idx.minRun; k++ {
			if !store.Equal(p+k, q+k) {
				return false
			}
		}
		return true
	}

	// See hash2Pass: reads must come from an immutable snapshot, not the
	// live idx.f, or a parallel worker can observe another worker's
	// in-progress write for j > i and produce a nondeterministic F.
	clean := func(src []int, lo, hi int) {
		for i := lo; i < hi; i++ {
			j := i
			for src[j] != 0 && !eq(i, src[j]) {
				j = src[j]
			}
			idx.f[i] = src[j]
		}
	}

	if !parallel {
		clean(idx.f, 1, limit+1)
		return
	}

	snapshot := make([]int, len(idx.f))
	copy(snapshot, idx.f)

	g, _ := errgroup.WithContext(ctx)
	workers := 8
	chunk := (limit + workers - 1) / workers
	for w := 0; w < workers; w++ {
		lo := 1 + w*chunk
		hi := lo + chunk
		if lo > limit {
			break
		}
		if hi > limit+1 {
			hi = limit + 1
		}
		g.Go(func() error {
			clean(snapshot, lo, hi)
			return nil
		})
	}
	_ = g.Wait()
}

// Forward returns F[i], the next candidate right partner for position i.
func (idx *Index) Forward(i int) (int, error) {
	if i <= 0 || i >= len(idx.f) {
		return 0, applog.Internalf("bad forward reference")
	}
	return idx.f[i], nil
}

// Len returns the number of positions the index covers, including the
// sentinel at 0.
func (idx *Index) Len() int {
	return len(idx.f)
}

// Free drops the index's backing storage, mirroring
// Free_Forward_References; it is not required in a garbage-collected
// runtime but kept so Driver code can mirror the original's explicit
// lifecycle.
func (idx *Index) Free() {
	idx.f = nil
}
