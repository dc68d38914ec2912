package percent

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/asynkron/simtext/internal/runs"
	"github.com/asynkron/simtext/internal/text"
)

func newTable(sizes ...int) *text.Table {
	var tb text.Table
	for i, size := range sizes {
		tb.Add(text.Text{Name: names[i], Start: 0, Limit: size})
	}
	return &tb
}

var names = []string{"a.go", "b.go", "c.go"}

func TestAddRunIgnoresSelfComparison(t *testing.T) {
	tb := newTable(100)
	a := New()
	r := runs.New(text.Chunk{TextIndex: 0, First: 0, Last: 10}, text.Chunk{TextIndex: 0, First: 50, Last: 60})

	a.AddRun(r, tb)
	lines := a.Show(0, false)
	assert.Empty(t, lines)
}

func TestShowComputesPercentageBothDirections(t *testing.T) {
	tb := newTable(100, 50)
	a := New()
	r := runs.New(text.Chunk{TextIndex: 0, First: 0, Last: 25}, text.Chunk{TextIndex: 1, First: 0, Last: 25})

	a.AddRun(r, tb)
	lines := a.Show(0, false)

	assert.Len(t, lines, 2)
	byFname := map[string]Line{}
	for _, l := range lines {
		byFname[l.Fname0] = l
	}
	assert.Equal(t, 25, byFname["a.go"].Percentage) // 25 of 100 tokens
	assert.Equal(t, 50, byFname["b.go"].Percentage) // 25 of 50 tokens
}

func TestShowSuppressesBelowThreshold(t *testing.T) {
	tb := newTable(100, 100)
	a := New()
	r := runs.New(text.Chunk{TextIndex: 0, First: 0, Last: 5}, text.Chunk{TextIndex: 1, First: 0, Last: 5})

	a.AddRun(r, tb)
	lines := a.Show(50, false)
	assert.Empty(t, lines)
}

func TestShowMainContributorOnlyKeepsOneLinePerSource(t *testing.T) {
	tb := newTable(100, 100, 100)
	a := New()
	big := runs.New(text.Chunk{TextIndex: 0, First: 0, Last: 40}, text.Chunk{TextIndex: 1, First: 0, Last: 40})
	small := runs.New(text.Chunk{TextIndex: 0, First: 40, Last: 50}, text.Chunk{TextIndex: 2, First: 0, Last: 10})

	a.AddRun(big, tb)
	a.AddRun(small, tb)

	all := a.Show(0, false)
	var aGoLines int
	for _, l := range all {
		if l.Fname0 == "a.go" {
			aGoLines++
		}
	}
	assert.Equal(t, 2, aGoLines)

	mainOnly := a.Show(0, true)
	var aGoMainLines int
	for _, l := range mainOnly {
		if l.Fname0 == "a.go" {
			aGoMainLines++
		}
	}
	assert.Equal(t, 1, aGoMainLines)
}

func TestWriteTextFormat(t *testing.T) {
	var sb strings.Builder
	err := WriteText(&sb, []Line{{Fname0: "a.go", Fname1: "b.go", Percentage: 42}})
	assert.NoError(t, err)
	assert.Equal(t, "a.go consists for 42 % of b.go material\n", sb.String())
}
