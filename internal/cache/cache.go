// Package cache implements the incremental per-file token cache: a
// gob-encoded map keyed by path, skipping re-tokenization when a file's
// modification time is unchanged. Grounded on the teacher's cache.go
// (FileCache, CachedFile, loadCache/saveCache), retargeted from
// []Entry to lexer.Lexeme.
package cache

import (
	"encoding/gob"
	"os"
	"path/filepath"
	"sync"

	"github.com/asynkron/simtext/internal/lexer"
)

// version is the cache format version; bumping it invalidates old caches,
// mirroring the teacher's cacheVersion constant.
const version = 1

// CachedFile holds one file's tokenized lexemes alongside the modtime
// they were produced from.
type CachedFile struct {
	ModTime int64
	Lexemes []lexer.Lexeme
}

// Store is the on-disk cache contents. Get and Put are called from every
// goroutine TokenizeFilesCached spawns (one per file), so the map is
// guarded by mu; the teacher avoids the same race by building results
// under a mutex in parseFilesWithCache.
type Store struct {
	Version int
	Files   map[string]CachedFile

	mu sync.RWMutex
}

// Path returns the cache file location under dir, mirroring the
// teacher's ".quickdup/<strategy>-cache.gob" layout.
func Path(dir, scannerName string) string {
	return filepath.Join(dir, ".simtext", scannerName+"-cache.gob")
}

// Load reads the cache at path. A missing file, a version mismatch, or a
// decode error all yield an empty, usable Store rather than an error:
// the cache is an optimization, never a correctness requirement.
func Load(path string) *Store {
	f, err := os.Open(path)
	if err != nil {
		return &Store{Version: version, Files: make(map[string]CachedFile)}
	}
	defer f.Close()

	var s Store
	if err := gob.NewDecoder(f).Decode(&s); err != nil || s.Version != version {
		return &Store{Version: version, Files: make(map[string]CachedFile)}
	}
	return &s
}

// Get returns the cached lexemes for path if modTime matches what was
// cached. Safe to call from multiple goroutines.
func (s *Store) Get(path string, modTime int64) ([]lexer.Lexeme, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cf, ok := s.Files[path]
	if !ok || cf.ModTime != modTime {
		return nil, false
	}
	return cf.Lexemes, true
}

// Put records freshly tokenized lexemes for path. Safe to call from
// multiple goroutines.
func (s *Store) Put(path string, modTime int64, lexemes []lexer.Lexeme) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Files == nil {
		s.Files = make(map[string]CachedFile)
	}
	s.Files[path] = CachedFile{ModTime: modTime, Lexemes: lexemes}
}

// Save writes the cache to path, creating parent directories as needed.
func Save(path string, s *Store) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	s.Version = version
	return gob.NewEncoder(f).Encode(s)
}
