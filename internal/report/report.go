package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/asynkron/simtext/internal/lexer"
	"github.com/asynkron/simtext/internal/percent"
	"github.com/asynkron/simtext/internal/runs"
	"github.com/asynkron/simtext/internal/text"
	"github.com/asynkron/simtext/internal/token"
)

// excerpt reconstructs the surface text of a chunk by looking each
// token's ID back up through the interner, space-joining words.
func excerpt(store *token.Store, in *lexer.Interner, c text.Chunk) string {
	var words []string
	for p := c.First; p < c.Last; p++ {
		words = append(words, in.Text(token.ID(store.At(p))))
	}
	return strings.Join(words, " ")
}

// WriteRuns is the default run listing with source excerpts, one block
// per run, ordered as given (callers pass runs.Store.Retrieve()'s
// output).
func WriteRuns(w io.Writer, store *token.Store, tb *text.Table, in *lexer.Interner, th Theme, rs []runs.Run) error {
	for _, r := range rs {
		t0 := tb.Texts[r.Chunk0.TextIndex]
		t1 := tb.Texts[r.Chunk1.TextIndex]
		line0 := store.Line(r.Chunk0.First)
		line1 := store.Line(r.Chunk1.First)
		if _, err := fmt.Fprintf(w, "%s\n%s\n%s\n\n",
			th.Score.Render(fmt.Sprintf("run, %d tokens", r.Size)),
			th.Location.Render(fmt.Sprintf("%s:%d", t0.Name, line0)),
			th.Location.Render(fmt.Sprintf("%s:%d", t1.Name, line1)),
		); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s\n\n", excerpt(store, in, r.Chunk0)); err != nil {
			return err
		}
	}
	return nil
}

// WriteHeadings prints only each run's size and the two source locations,
// omitting the excerpt body; the -n counterpart to WriteRuns's full
// listing.
func WriteHeadings(w io.Writer, store *token.Store, tb *text.Table, th Theme, rs []runs.Run) error {
	for _, r := range rs {
		t0 := tb.Texts[r.Chunk0.TextIndex]
		t1 := tb.Texts[r.Chunk1.TextIndex]
		if _, err := fmt.Fprintf(w, "%s\n%s\n%s\n\n",
			th.Score.Render(fmt.Sprintf("run, %d tokens", r.Size)),
			th.Location.Render(fmt.Sprintf("%s:%d", t0.Name, store.Line(r.Chunk0.First))),
			th.Location.Render(fmt.Sprintf("%s:%d", t1.Name, store.Line(r.Chunk1.First))),
		); err != nil {
			return err
		}
	}
	return nil
}

// WriteDiff prints diff-style output: per run, a "line,line of file"
// header for chunk0, a "---" separator, and the same header for chunk1.
// Both numbers in a header are the chunk's first source line.
func WriteDiff(w io.Writer, store *token.Store, tb *text.Table, rs []runs.Run) error {
	for _, r := range rs {
		t0 := tb.Texts[r.Chunk0.TextIndex]
		t1 := tb.Texts[r.Chunk1.TextIndex]
		line0 := store.Line(r.Chunk0.First)
		line1 := store.Line(r.Chunk1.First)
		if _, err := fmt.Fprintf(w, "%d,%d of %s\n", line0, line0, t0.Name); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "---\n"); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%d,%d of %s\n\n", line1, line1, t1.Name); err != nil {
			return err
		}
	}
	return nil
}

// WriteTerse prints one line per run: "sizeInTokens file0:line0 file1:line1".
func WriteTerse(w io.Writer, store *token.Store, tb *text.Table, rs []runs.Run) error {
	for _, r := range rs {
		t0 := tb.Texts[r.Chunk0.TextIndex]
		t1 := tb.Texts[r.Chunk1.TextIndex]
		if _, err := fmt.Fprintf(w, "%d %s:%d %s:%d\n",
			r.Size, t0.Name, store.Line(r.Chunk0.First), t1.Name, store.Line(r.Chunk1.First),
		); err != nil {
			return err
		}
	}
	return nil
}

// WriteLexemes dumps the token stream one word per line as "file:line word",
// the Go analogue of sim.c's "--" lexical-scan-only mode, which printed
// extract_Token's output directly instead of running the comparison.
func WriteLexemes(w io.Writer, store *token.Store, tb *text.Table, in *lexer.Interner) error {
	ti := 0
	for p := 1; p <= store.Len(); p++ {
		for ti < len(tb.Texts)-1 && p >= tb.Texts[ti+1].Start {
			ti++
		}
		name := tb.Texts[ti].Name
		if _, err := fmt.Fprintf(w, "%s:%d %s\n", name, store.Line(p), in.Text(token.ID(store.At(p)))); err != nil {
			return err
		}
	}
	return nil
}

// WritePercentTable prints the -p/-P percentage lines via percent.WriteText.
func WritePercentTable(w io.Writer, lines []percent.Line) error {
	return percent.WriteText(w, lines)
}

// JSONRun is the JSON serialization of one run.
type JSONRun struct {
	Size  int    `json:"size"`
	File0 string `json:"file0"`
	Line0 int    `json:"line0"`
	File1 string `json:"file1"`
	Line1 int    `json:"line1"`
}

// JSONPercent is the JSON serialization of one percentage line.
type JSONPercent struct {
	File0      string `json:"file0"`
	File1      string `json:"file1"`
	Percentage int    `json:"percentage"`
}

// JSONOutput is the full JSON document written by WriteJSON.
type JSONOutput struct {
	Runs        []JSONRun     `json:"runs,omitempty"`
	Percentages []JSONPercent `json:"percentages,omitempty"`
}

// WriteJSON serializes runs and/or percentage lines to w, grounded in
// the teacher's WriteJSONResults.
func WriteJSON(w io.Writer, store *token.Store, tb *text.Table, rs []runs.Run, lines []percent.Line) error {
	out := JSONOutput{}
	for _, r := range rs {
		t0 := tb.Texts[r.Chunk0.TextIndex]
		t1 := tb.Texts[r.Chunk1.TextIndex]
		out.Runs = append(out.Runs, JSONRun{
			Size: r.Size, File0: t0.Name, Line0: store.Line(r.Chunk0.First),
			File1: t1.Name, Line1: store.Line(r.Chunk1.First),
		})
	}
	for _, l := range lines {
		out.Percentages = append(out.Percentages, JSONPercent{File0: l.Fname0, File1: l.Fname1, Percentage: l.Percentage})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// WriteGitHubAnnotations prints one GitHub Actions workflow-command line
// per run, anchored at chunk0's file and line.
func WriteGitHubAnnotations(w io.Writer, store *token.Store, tb *text.Table, rs []runs.Run, level string) error {
	for _, r := range rs {
		t0 := tb.Texts[r.Chunk0.TextIndex]
		t1 := tb.Texts[r.Chunk1.TextIndex]
		line0 := store.Line(r.Chunk0.First)
		endLine := line0 + r.Size - 1
		msg := fmt.Sprintf("Duplicate region also at %s:%d", t1.Name, store.Line(r.Chunk1.First))
		if _, err := fmt.Fprintf(w, "::%s file=%s,line=%d,endLine=%d,title=Duplicate run (%d tokens)::%s\n",
			level, t0.Name, line0, endLine, r.Size, msg,
		); err != nil {
			return err
		}
	}
	return nil
}
