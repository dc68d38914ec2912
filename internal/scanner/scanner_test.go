package scanner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asynkron/simtext/internal/fwdref"
	"github.com/asynkron/simtext/internal/runs"
	"github.com/asynkron/simtext/internal/text"
	"github.com/asynkron/simtext/internal/token"
)

// buildTwoFiles lays out A=1,2,3,4,5 and B=9,1,2,3,9, sharing the run
// "1,2,3" at A's position 1 and within B.
func buildTwoFiles(t *testing.T) (*token.Store, *text.Table) {
	t.Helper()
	s := token.New()
	for _, v := range []token.ID{1, 2, 3, 4, 5} {
		s.Append(v, true, 1)
	}
	aLimit := s.Len() + 1
	for _, v := range []token.ID{9, 1, 2, 3, 9} {
		s.Append(v, true, 2)
	}
	var tb text.Table
	tb.Add(text.Text{Name: "a.go", Start: 1, Limit: aLimit})
	tb.Add(text.Text{Name: "b.go", Start: aLimit, Limit: s.Len() + 1})
	return s, &tb
}

func TestScanFindsMaximalCrossFileRun(t *testing.T) {
	store, tb := buildTwoFiles(t)
	idx, err := fwdref.Build(context.Background(), store, tb.Texts, 3, fwdref.Options{})
	require.NoError(t, err)
	defer idx.Free()

	var out runs.Store
	err = Scan(store, tb, idx, 3, Mode{EachToEach: true}, &out)
	require.NoError(t, err)

	got := out.Retrieve()
	require.Len(t, got, 1)
	assert.Equal(t, 3, got[0].Size)
}

func TestScanNoSelfExcludesSameTextRuns(t *testing.T) {
	store := token.New()
	for _, v := range []token.ID{1, 2, 3, 4, 1, 2, 3, 5} {
		store.Append(v, true, 1)
	}
	var tb text.Table
	tb.Add(text.Text{Name: "only.go", Start: 1, Limit: store.Len() + 1})

	idx, err := fwdref.Build(context.Background(), store, tb.Texts, 3, fwdref.Options{})
	require.NoError(t, err)
	defer idx.Free()

	var out runs.Store
	err = Scan(store, &tb, idx, 3, Mode{EachToEach: true, NoSelf: true}, &out)
	require.NoError(t, err)
	assert.Empty(t, out.Retrieve())
}

// TestScanRepeatedTokenCollapsesToSingleRun is spec.md §8 scenario 4: a
// file of nothing but the same may-start-run token threads every
// position into one forward-reference chain, and without collapsing
// nested self-overlaps the scanner would emit one run per pair of
// positions instead of the single maximal run covering the file.
func TestScanRepeatedTokenCollapsesToSingleRun(t *testing.T) {
	store := token.New()
	for i := 0; i < 50; i++ {
		store.Append(1, true, 1)
	}
	var tb text.Table
	tb.Add(text.Text{Name: "w.go", Start: 1, Limit: store.Len() + 1})

	idx, err := fwdref.Build(context.Background(), store, tb.Texts, 5, fwdref.Options{})
	require.NoError(t, err)
	defer idx.Free()

	var out runs.Store
	err = Scan(store, &tb, idx, 5, Mode{EachToEach: true}, &out)
	require.NoError(t, err)
	assert.Len(t, out.Retrieve(), 1)

	var outNoSelf runs.Store
	err = Scan(store, &tb, idx, 5, Mode{EachToEach: true, NoSelf: true}, &outNoSelf)
	require.NoError(t, err)
	assert.Empty(t, outNoSelf.Retrieve())
}

func TestScanNewOldOnlyRequiresBoundaryCrossing(t *testing.T) {
	store, tb := buildTwoFiles(t)
	tb.SplitNewOld(1) // b.go becomes "old", a.go stays "new"

	idx, err := fwdref.Build(context.Background(), store, tb.Texts, 3, fwdref.Options{})
	require.NoError(t, err)
	defer idx.Free()

	var out runs.Store
	err = Scan(store, tb, idx, 3, Mode{EachToEach: true, NewOldOnly: true}, &out)
	require.NoError(t, err)
	assert.Len(t, out.Retrieve(), 1)

	tb.SplitNewOld(0) // both texts "old": no new/old boundary exists
	var out2 runs.Store
	err = Scan(store, tb, idx, 3, Mode{EachToEach: true, NewOldOnly: true}, &out2)
	require.NoError(t, err)
	assert.Empty(t, out2.Retrieve())
}
