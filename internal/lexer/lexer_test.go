package lexer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWordScannerSplitsOnSeparatorsAndStripsComments(t *testing.T) {
	s := WordScanner{}
	lexemes, err := s.Tokenize("x.go", []byte("foo(bar) // trailing\nbaz"))
	require.NoError(t, err)

	var words []string
	for _, lx := range lexemes {
		if lx.MayStartRun {
			words = append(words, lx.Text)
		}
	}
	assert.Equal(t, []string{"foo", "bar", "baz"}, words)
}

func TestWordScannerRecordsLineNumbers(t *testing.T) {
	s := WordScanner{}
	lexemes, err := s.Tokenize("x.txt", []byte("one\ntwo\nthree"))
	require.NoError(t, err)

	byText := map[string]int{}
	for _, lx := range lexemes {
		byText[lx.Text] = lx.Line
	}
	assert.Equal(t, 1, byText["one"])
	assert.Equal(t, 2, byText["two"])
	assert.Equal(t, 3, byText["three"])
}

func TestWordScannerFunctionLikeOnlyFiltersNonCalls(t *testing.T) {
	s := WordScanner{FunctionLikeOnly: true}
	lexemes, err := s.Tokenize("x.go", []byte("helper() plain"))
	require.NoError(t, err)

	var words []string
	for _, lx := range lexemes {
		if lx.MayStartRun {
			words = append(words, lx.Text)
		}
	}
	assert.Equal(t, []string{"helper"}, words)
}

func TestInternerAssignsStableIDs(t *testing.T) {
	in := NewInterner()
	a := in.ID("foo")
	b := in.ID("bar")
	c := in.ID("foo")

	assert.Equal(t, a, c)
	assert.NotEqual(t, a, b)
	assert.Equal(t, "foo", in.Text(a))
	assert.Equal(t, "bar", in.Text(b))
}

func TestTokenizeFilesBuildsStoreAndTextTable(t *testing.T) {
	dir := t.TempDir()
	p1 := filepath.Join(dir, "a.go")
	p2 := filepath.Join(dir, "b.go")
	require.NoError(t, os.WriteFile(p1, []byte("foo bar"), 0o644))
	require.NoError(t, os.WriteFile(p2, []byte("baz"), 0o644))

	in := NewInterner()
	store, tb, err := TokenizeFiles(context.Background(), WordScanner{}, in, []File{
		{Path: p1}, {Path: p2, IsOld: true},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, store.Len())
	require.Len(t, tb.Texts, 2)
	assert.False(t, tb.Texts[0].IsOld)
	assert.True(t, tb.Texts[1].IsOld)
	assert.Equal(t, 2, tb.Texts[0].Len())
	assert.Equal(t, 1, tb.Texts[1].Len())
}

type fakeCache struct {
	hits  int
	store map[string][]Lexeme
}

func (f *fakeCache) Get(path string, modTime int64) ([]Lexeme, bool) {
	lx, ok := f.store[path]
	if ok {
		f.hits++
	}
	return lx, ok
}

func (f *fakeCache) Put(path string, modTime int64, lexemes []Lexeme) {
	if f.store == nil {
		f.store = map[string][]Lexeme{}
	}
	f.store[path] = lexemes
}

func TestTokenizeFilesCachedReusesCachedLexemes(t *testing.T) {
	dir := t.TempDir()
	p1 := filepath.Join(dir, "a.go")
	require.NoError(t, os.WriteFile(p1, []byte("foo bar"), 0o644))

	c := &fakeCache{}
	in := NewInterner()
	_, _, err := TokenizeFilesCached(context.Background(), WordScanner{}, in, []File{{Path: p1}}, c, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, c.hits)

	_, _, err = TokenizeFilesCached(context.Background(), WordScanner{}, in, []File{{Path: p1}}, c, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, c.hits)
}
