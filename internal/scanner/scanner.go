// Package scanner implements the Run Scanner: it walks the
// Forward-Reference Index, verifies and extends candidate windows into
// maximal matching runs, and emits them into a runs.Store. Grounded on
// spec.md §4.3, whose numbered algorithm has no equivalent in
// original_source/ (pass2.c/pass3.c were not part of the retrieval) and
// is implemented directly from that description, using the same
// forward-reference chain-walk idiom hash.c uses for its own sweeps.
package scanner

import (
	"github.com/asynkron/simtext/internal/fwdref"
	"github.com/asynkron/simtext/internal/runs"
	"github.com/asynkron/simtext/internal/text"
	"github.com/asynkron/simtext/internal/token"
)

// Mode selects which file pairs are considered, mirroring the three
// orthogonal comparison-mode flags of spec.md §4.3/§6.
type Mode struct {
	EachToEach bool // -e: compare each file to each file (recorded, see note below)
	NoSelf     bool // -s: drop runs fully inside one Text
	NewOldOnly bool // -S: only runs crossing the new/old boundary
}

// Scan walks idx and finds every maximal run satisfying mode, appending
// them to out. minRun must match the value idx was built with.
//
// EachToEach does not add extra filtering of its own: the scanner already
// considers every chain pair by default, so -e's effect is fully captured
// by whichever of NoSelf/NewOldOnly accompanies it (percentage mode sets
// both automatically, per spec.md §6's implication chain).
//
// A chain walked from a single i can carry many candidate js that are all
// trivially left-maximal whenever i sits at its Text's start (extending
// left is impossible there regardless of what j is): a run of R identical
// tokens threads i=1 to every later occurrence, and each pairing would
// otherwise verify and emit on its own, the "quadratic explosion" spec.md
// §8 scenario 4 forbids. Once a run is emitted for (i, j, size), every
// later candidate j' < j+size in the same chain is a nested re-discovery
// of that same match at a different internal offset, not a new one, so it
// is skipped without re-verifying; the chain walk still continues past
// it to find any genuinely disjoint match farther on.
func Scan(store *token.Store, tb *text.Table, idx *fwdref.Index, minRun int, mode Mode, out *runs.Store) error {
	limit := idx.Len() - minRun
	for i := 1; i <= limit; i++ {
		textI, ok := tb.Of(i)
		if !ok {
			continue
		}
		if !store.MayStartRun(i) {
			continue
		}

		j, err := idx.Forward(i)
		if err != nil {
			return err
		}
		coveredUntil := 0
		for j != 0 {
			textJ, ok := tb.Of(j)
			if !ok {
				j, err = idx.Forward(j)
				if err != nil {
					return err
				}
				continue
			}

			if skip(tb, textI, textJ, mode) {
				j, err = idx.Forward(j)
				if err != nil {
					return err
				}
				continue
			}

			if j < coveredUntil {
				j, err = idx.Forward(j)
				if err != nil {
					return err
				}
				continue
			}

			size, ok := verifyAndExtend(store, tb, textI, i, textJ, j, minRun)
			if ok && isLeftMaximal(store, tb, textI, i, textJ, j) {
				c0 := text.Chunk{TextIndex: textI, First: i, Last: i + size}
				c1 := text.Chunk{TextIndex: textJ, First: j, Last: j + size}
				out.Add(runs.New(c0, c1))
				coveredUntil = j + size
			}

			j, err = idx.Forward(j)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// skip reports whether the (textI, textJ) pair should be excluded under
// mode.
func skip(tb *text.Table, textI, textJ int, mode Mode) bool {
	sameText := textI == textJ
	if sameText && mode.NoSelf {
		return true
	}
	if mode.NewOldOnly {
		oldI, oldJ := tb.Texts[textI].IsOld, tb.Texts[textJ].IsOld
		if oldI == oldJ {
			// both new or both old: never crosses the boundary
			return true
		}
	}
	return false
}

// verifyAndExtend checks true token equality at (i, j) over minRun tokens
// (hash1/hash2 are probabilistic) and, if equal, extends the match as far
// right as possible without leaving either Text. Returns the extended
// size and whether the base window verified at all.
func verifyAndExtend(store *token.Store, tb *text.Table, textI, i, textJ, j, minRun int) (int, bool) {
	for k := 0; k < minRun; k++ {
		if !store.Equal(i+k, j+k) {
			return 0, false
		}
	}

	limitI := tb.Texts[textI].Limit
	limitJ := tb.Texts[textJ].Limit
	size := minRun
	for i+size < limitI && j+size < limitJ && store.Equal(i+size, j+size) {
		size++
	}
	return size, true
}

// isLeftMaximal reports whether the run starting at (i, j) cannot be
// extended to the left, i.e. either position sits at its Text's start or
// the immediately preceding tokens differ.
func isLeftMaximal(store *token.Store, tb *text.Table, textI, i, textJ, j int) bool {
	startI := tb.Texts[textI].Start
	startJ := tb.Texts[textJ].Start
	if i == startI || j == startJ {
		return true
	}
	return !store.Equal(i-1, j-1)
}
