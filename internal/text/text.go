// Package text holds the per-file Text records and Chunk slices that sit
// on top of a token.Store, plus the new/old split used by comparison-mode
// flags.
package text

// Text is one input file's slice of the global token array, numbered in
// input order. Source-line recovery for reporting is done from the
// owning token.Store (each position records its own line), not from a
// byte-offset table here.
type Text struct {
	Name  string
	Start int // inclusive
	Limit int // exclusive; Start == Limit means an empty file
	IsOld bool
}

// Len returns the number of tokens belonging to this text.
func (t Text) Len() int {
	return t.Limit - t.Start
}

// Table is the ordered list of Texts for one comparison run.
type Table struct {
	Texts []Text
}

// Add appends a Text and returns its index.
func (tb *Table) Add(t Text) int {
	tb.Texts = append(tb.Texts, t)
	return len(tb.Texts) - 1
}

// Of returns the Text owning token position p, or false if none does.
// Texts are few relative to tokens, so a linear scan over text boundaries
// is cheap enough; callers on a hot path should cache the index instead.
func (tb *Table) Of(p int) (int, bool) {
	for i, t := range tb.Texts {
		if p >= t.Start && p < t.Limit {
			return i, true
		}
	}
	return 0, false
}

// SplitNewOld marks texts at and after oldStart as "old"; everything
// before it is "new". Passing -1 means no separator was given, and every
// text is "new".
func (tb *Table) SplitNewOld(oldStart int) {
	for i := range tb.Texts {
		tb.Texts[i].IsOld = oldStart >= 0 && i >= oldStart
	}
}

// Chunk is a half-open token range inside one Text.
type Chunk struct {
	TextIndex int
	First     int
	Last      int // exclusive
}

// Size returns the number of tokens in the chunk.
func (c Chunk) Size() int {
	return c.Last - c.First
}
