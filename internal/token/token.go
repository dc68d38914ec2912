// Package token implements the Token Store: a single append-only sequence
// of token identifiers shared by every text compared in one run.
package token

// ID identifies a lexeme class. Two tokens compare equal iff their IDs
// match; the mapping from source lexemes to IDs is the tokenizer's concern.
type ID int32

// Store is the global token array T[0..Len]. Position 0 is a reserved
// sentinel meaning "none" and is never a valid token position on its own;
// real tokens start at position 1.
type Store struct {
	ids    []ID
	starts []bool // MayStartRun, parallel to ids
	lines  []int  // 1-based source line each token came from, parallel to ids
}

// New returns an initialized, empty Store with the sentinel at position 0.
func New() *Store {
	s := &Store{}
	s.ids = append(s.ids, 0)
	s.starts = append(s.starts, false)
	s.lines = append(s.lines, 0)
	return s
}

// Append adds one token to the end of the store and returns its position.
func (s *Store) Append(id ID, mayStartRun bool, line int) int {
	s.ids = append(s.ids, id)
	s.starts = append(s.starts, mayStartRun)
	s.lines = append(s.lines, line)
	return len(s.ids) - 1
}

// Line returns the 1-based source line position i was tokenized from,
// used by report to print file:line source locations.
func (s *Store) Line(i int) int {
	return s.lines[i]
}

// Len reports the number of real positions stored, not counting the
// sentinel; valid positions are 1..Len.
func (s *Store) Len() int {
	return len(s.ids) - 1
}

// At returns the token ID at position i. Position 0 always yields the
// zero ID; callers must not treat it as a real token.
func (s *Store) At(i int) ID {
	return s.ids[i]
}

// MayStartRun reports whether position i is eligible to seed a
// forward-reference chain (e.g. not punctuation).
func (s *Store) MayStartRun(i int) bool {
	return s.starts[i]
}

// Equal reports whether the tokens at i and j are the same identifier.
func (s *Store) Equal(i, j int) bool {
	return s.ids[i] == s.ids[j]
}
