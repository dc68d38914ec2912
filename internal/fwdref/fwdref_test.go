package fwdref

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asynkron/simtext/internal/text"
	"github.com/asynkron/simtext/internal/token"
)

// buildStore lays out a small token stream shared by two texts: A holds
// 1,2,3,4,5 and B holds 9,1,2,3,9, so the run "1,2,3" is shared between
// them at A's position 1 and B's position 2 (within B).
func buildStore(t *testing.T) (*token.Store, []text.Text) {
	t.Helper()
	s := token.New()
	for _, v := range []token.ID{1, 2, 3, 4, 5} {
		s.Append(v, true, 1)
	}
	aLimit := s.Len() + 1
	for _, v := range []token.ID{9, 1, 2, 3, 9} {
		s.Append(v, true, 2)
	}
	texts := []text.Text{
		{Name: "a.go", Start: 1, Limit: aLimit},
		{Name: "b.go", Start: aLimit, Limit: s.Len() + 1},
	}
	return s, texts
}

func TestBuildFindsSharedRun(t *testing.T) {
	store, texts := buildStore(t)
	idx, err := Build(context.Background(), store, texts, 3, Options{})
	require.NoError(t, err)
	defer idx.Free()

	// position 1 in A begins "1,2,3"; its forward reference should chain
	// to position 7 in B (6 + offset 1), which begins the same run.
	j, err := idx.Forward(1)
	require.NoError(t, err)
	assert.Equal(t, texts[1].Start+1, j)
}

func TestBuildRejectsNonPositiveMinRun(t *testing.T) {
	store, texts := buildStore(t)
	_, err := Build(context.Background(), store, texts, 0, Options{})
	assert.Error(t, err)
}

func TestPerfectPassAgreesWithHash2OnRealMatch(t *testing.T) {
	store, texts := buildStore(t)

	idxHash, err := Build(context.Background(), store, texts, 3, Options{})
	require.NoError(t, err)
	defer idxHash.Free()

	idxPerfect, err := Build(context.Background(), store, texts, 3, Options{Perfect: true})
	require.NoError(t, err)
	defer idxPerfect.Free()

	fh, err := idxHash.Forward(1)
	require.NoError(t, err)
	fp, err := idxPerfect.Forward(1)
	require.NoError(t, err)
	assert.Equal(t, fp, fh)
}

func TestParallelCleanupMatchesSerial(t *testing.T) {
	store, texts := buildStore(t)

	serial, err := Build(context.Background(), store, texts, 3, Options{Parallel: false})
	require.NoError(t, err)
	defer serial.Free()

	parallel, err := Build(context.Background(), store, texts, 3, Options{Parallel: true})
	require.NoError(t, err)
	defer parallel.Free()

	for i := 1; i <= store.Len(); i++ {
		a, err := serial.Forward(i)
		require.NoError(t, err)
		b, err := parallel.Forward(i)
		require.NoError(t, err)
		assert.Equal(t, a, b, "position %d", i)
	}
}

func TestInitHashTableStepsDownUnderByteCap(t *testing.T) {
	store, _ := buildStore(t)
	idx := &Index{f: make([]int, store.Len()+1), minRun: 3}

	// primes[2] tokens would ideally get primes[2] buckets; the cap allows
	// only primes[0].
	table, size, err := idx.initHashTable(int(primes[2]), primes[0]*8)
	require.NoError(t, err)
	assert.Equal(t, primes[0], size)
	assert.Len(t, table, int(primes[0]))
}

func TestIdealPrimeIndexPicksSmallestFit(t *testing.T) {
	i := idealPrimeIndex(14052)
	assert.Equal(t, 1, i)
	assert.GreaterOrEqual(t, primes[i], uint64(14052))
}
