// Package percent implements the Percentage Aggregator: it folds runs
// into per-ordered-file-pair coverage totals and prints them grouped by
// main contributor. A close structural port of
// original_source/percentages.c, replacing its linked list with a map
// plus a slice.
package percent

import (
	"fmt"
	"io"
	"sort"

	"github.com/asynkron/simtext/internal/runs"
	"github.com/asynkron/simtext/internal/text"
)

// match is one ordered-pair coverage record. Mirrors struct match in
// percentages.c.
type match struct {
	fname0  string
	fname1  string
	covered int // tokens of fname0 found in fname1
	size0   int // total tokens in fname0
}

func (m *match) percentage() float64 {
	return float64(m.covered) / float64(m.size0)
}

// Aggregator accumulates match records keyed by ordered (fname0, fname1).
type Aggregator struct {
	order []*match
	byKey map[[2]string]*match
}

// New returns an empty Aggregator.
func New() *Aggregator {
	return &Aggregator{byKey: make(map[[2]string]*match)}
}

// AddRun folds one run into the aggregator. Percentages are only
// meaningful between different files, mirroring add_to_percentages's
// early return for same-text runs.
func (a *Aggregator) AddRun(r runs.Run, tb *text.Table) {
	t0 := tb.Texts[r.Chunk0.TextIndex]
	t1 := tb.Texts[r.Chunk1.TextIndex]
	if r.Chunk0.TextIndex == r.Chunk1.TextIndex {
		return
	}
	a.add(t0.Name, t1.Name, r.Size, t0.Len())
	a.add(t1.Name, t0.Name, r.Size, t1.Len())
}

func (a *Aggregator) add(fname0, fname1 string, size, size0 int) {
	key := [2]string{fname0, fname1}
	if m, ok := a.byKey[key]; ok {
		m.covered += size
		return
	}
	m := &match{fname0: fname0, fname1: fname1, covered: size, size0: size0}
	a.byKey[key] = m
	a.order = append(a.order, m)
}

// Line is one printable percentage line.
type Line struct {
	Fname0     string
	Fname1     string
	Percentage int
}

// Show sorts the accumulated matches by coverage percentage descending,
// groups by main contributor (the top entry for each fname0), and
// returns the lines to print, suppressing values below threshold and, if
// mainContributorOnly is set, every non-leading line for a given fname0.
// Mirrors Show_Percentages / print_and_remove_perc_info_for_top_file.
func (a *Aggregator) Show(threshold int, mainContributorOnly bool) []Line {
	sort.SliceStable(a.order, func(i, j int) bool {
		return a.order[i].percentage() > a.order[j].percentage()
	})

	var lines []Line
	remaining := append([]*match(nil), a.order...)
	for len(remaining) > 0 {
		top := remaining[0]
		fname := top.fname0
		lines = appendLine(lines, top, threshold)

		rest := remaining[1:]
		kept := rest[:0]
		for _, m := range rest {
			if m.fname0 == fname {
				if !mainContributorOnly {
					lines = appendLine(lines, m, threshold)
				}
				continue
			}
			kept = append(kept, m)
		}
		remaining = kept
	}
	return lines
}

func appendLine(lines []Line, m *match, threshold int) []Line {
	pct := int(m.percentage() * 100.0)
	if pct > 100 {
		pct = 100
	}
	if pct < threshold {
		return lines
	}
	return append(lines, Line{Fname0: m.fname0, Fname1: m.fname1, Percentage: pct})
}

// WriteText prints lines in the original tool's sentence form.
func WriteText(w io.Writer, lines []Line) error {
	for _, l := range lines {
		if _, err := fmt.Fprintf(w, "%s consists for %d %% of %s material\n", l.Fname0, l.Percentage, l.Fname1); err != nil {
			return err
		}
	}
	return nil
}
