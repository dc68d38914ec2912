// Package lexer is the default tokenizer collaborator: it turns file
// bytes into a token stream plus file boundaries and the may-start-run
// predicate the core consumes. Out of scope for the core per spec.md §1,
// but implemented here as the default front-end, grounded in the
// teacher's Strategy/ParseLine shape (cmd/quickdup/strategy.go,
// parser.go).
package lexer

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/asynkron/simtext/internal/applog"
	"github.com/asynkron/simtext/internal/text"
	"github.com/asynkron/simtext/internal/token"
)

// separators delimit words, mirroring cmd/quickdup/parser.go's const.
const separators = " \t:.;{}()[]#!<>=,\n\r\"'+-*/%&|^~?"

// commentPrefixes maps a file extension to its line-comment marker, kept
// from the teacher's per-extension table but pared to what a tokenizer
// needs: whether to drop a line's trailing comment.
var commentPrefixes = map[string]string{
	".go":    "//",
	".java":  "//",
	".ts":    "//",
	".tsx":   "//",
	".js":    "//",
	".jsx":   "//",
	".cs":    "//",
	".c":     "//",
	".cpp":   "//",
	".rs":    "//",
	".kt":    "//",
	".scala": "//",
	".py":    "#",
	".rb":    "#",
	".sh":    "#",
}

// Lexeme is one tokenizer-produced unit before interning.
type Lexeme struct {
	Text        string
	MayStartRun bool
	Line        int // 1-based source line
}

// Scanner tokenizes one file's contents into a stream of Lexemes. -f
// restricts to function-like forms, -F keeps function identifiers intact;
// both are scanner-specific toggles per spec.md §6.
type Scanner interface {
	Name() string
	Tokenize(path string, data []byte) ([]Lexeme, error)
}

// WordScanner is the default Scanner: it splits on separators, strips
// line comments, and classifies every surviving word as may-start-run;
// separators that are kept as punctuation tokens are not.
type WordScanner struct {
	// FunctionLikeOnly corresponds to -f: only identifier-looking words
	// followed by '(' are kept.
	FunctionLikeOnly bool
	// KeepFunctionIdentifiers corresponds to -F. WordScanner never folds
	// identifiers to a placeholder, so every word is kept intact whether
	// or not this is set; the field does not change the output.
	KeepFunctionIdentifiers bool
}

func (WordScanner) Name() string { return "word" }

func (s WordScanner) Tokenize(path string, data []byte) ([]Lexeme, error) {
	ext := strings.ToLower(filepath.Ext(path))
	commentPrefix := commentPrefixes[ext]

	var out []Lexeme
	for lineNum, line := range strings.Split(string(data), "\n") {
		lineNum++ // 1-based
		if commentPrefix != "" {
			if idx := strings.Index(line, commentPrefix); idx >= 0 {
				line = line[:idx]
			}
		}
		s.tokenizeLine(lineNum, line, &out)
	}
	return out, nil
}

func (s WordScanner) tokenizeLine(lineNum int, line string, out *[]Lexeme) {
	var word strings.Builder
	flush := func() {
		if word.Len() == 0 {
			return
		}
		w := word.String()
		if !s.FunctionLikeOnly || looksFunctionLike(line, w) {
			*out = append(*out, Lexeme{Text: w, MayStartRun: true, Line: lineNum})
		}
		word.Reset()
	}

	for _, r := range line {
		if strings.ContainsRune(separators, r) {
			flush()
			if r != ' ' && r != '\t' {
				*out = append(*out, Lexeme{Text: string(r), MayStartRun: false, Line: lineNum})
			}
			continue
		}
		word.WriteRune(r)
	}
	flush()
}

// looksFunctionLike is a crude -f heuristic: the word is immediately
// followed by '(' somewhere later on the same line.
func looksFunctionLike(line, word string) bool {
	idx := strings.Index(line, word+"(")
	return idx >= 0
}

// Interner assigns stable token.IDs to distinct lexeme text, shared
// across every file in one comparison run so identical words anywhere
// in the input collapse to the same ID.
type Interner struct {
	ids  map[string]token.ID
	text []string // reverse lookup, index by ID-1
}

// NewInterner returns an empty Interner.
func NewInterner() *Interner {
	return &Interner{ids: make(map[string]token.ID)}
}

// ID returns the stable identifier for s, assigning a new one if s has
// not been seen before.
func (in *Interner) ID(s string) token.ID {
	if id, ok := in.ids[s]; ok {
		return id
	}
	id := token.ID(len(in.ids) + 1)
	in.ids[s] = id
	in.text = append(in.text, s)
	return id
}

// Text reverses ID back to its original lexeme text, used by report to
// reconstruct source excerpts.
func (in *Interner) Text(id token.ID) string {
	if int(id) < 1 || int(id) > len(in.text) {
		return ""
	}
	return in.text[id-1]
}

// File is one input file's path alongside which half of the new/old
// split (per spec.md §3) it belongs to.
type File struct {
	Path  string
	IsOld bool
}

// TokenizeFiles reads and tokenizes every file, appending them in order
// into a fresh token.Store and text.Table. File reads and per-file
// tokenization run concurrently (bounded by GOMAXPROCS via errgroup),
// but the append into the shared Store happens serially in input order
// so position numbering stays deterministic, mirroring the teacher's
// parallel-parse-then-serial-merge pattern in detector.go.
func TokenizeFiles(ctx context.Context, scanner Scanner, in *Interner, files []File) (*token.Store, *text.Table, error) {
	return TokenizeFilesCached(ctx, scanner, in, files, nil, nil)
}

// Cache is satisfied by internal/cache.Store; kept as a narrow interface
// here so this package does not need to import its caller.
type Cache interface {
	Get(path string, modTime int64) ([]Lexeme, bool)
	Put(path string, modTime int64, lexemes []Lexeme)
}

// TokenizeFilesCached behaves like TokenizeFiles, but consults cache for
// each file by modification time before invoking scanner, and records
// freshly tokenized files back into it. log may be nil; when non-nil it
// receives a per-file cache hit/miss line plus a summary once every
// goroutine has finished, mirroring the teacher's cacheHits/cacheMisses
// atomic counters in parseFilesWithCache.
func TokenizeFilesCached(ctx context.Context, scanner Scanner, in *Interner, files []File, c Cache, log *applog.Logger) (*token.Store, *text.Table, error) {
	if log == nil {
		log = applog.Discard()
	}
	results := make([][]Lexeme, len(files))

	var hits, misses atomic.Int64

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			info, err := os.Stat(f.Path)
			if err != nil {
				return err
			}
			modTime := info.ModTime().UnixNano()
			if c != nil {
				if lexemes, ok := c.Get(f.Path, modTime); ok {
					hits.Add(1)
					log.Debug().Str("path", f.Path).Msg("token cache hit")
					results[i] = lexemes
					return nil
				}
			}
			data, err := os.ReadFile(f.Path)
			if err != nil {
				return err
			}
			lexemes, err := scanner.Tokenize(f.Path, data)
			if err != nil {
				return err
			}
			results[i] = lexemes
			if c != nil {
				misses.Add(1)
				log.Debug().Str("path", f.Path).Msg("token cache miss")
				c.Put(f.Path, modTime, lexemes)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	if c != nil {
		log.Info().Int64("hits", hits.Load()).Int64("misses", misses.Load()).Msg("token cache")
	}

	store := token.New()
	tb := &text.Table{}
	oldStart := -1
	for i, f := range files {
		if f.IsOld && oldStart < 0 {
			oldStart = i
		}
		start := store.Len() + 1
		for _, lx := range results[i] {
			store.Append(in.ID(lx.Text), lx.MayStartRun, lx.Line)
		}
		limit := store.Len() + 1
		tb.Add(text.Text{Name: f.Path, Start: start, Limit: limit})
	}
	tb.SplitNewOld(oldStart)

	return store, tb, nil
}
