package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/asynkron/simtext/internal/lexer"
	"github.com/asynkron/simtext/internal/runs"
	"github.com/asynkron/simtext/internal/text"
	"github.com/asynkron/simtext/internal/token"
)

// RenderMarkdown builds a Markdown report of rs and renders it in-process
// with glamour, replacing the teacher's exec.Command("glow", ...) call:
// the teacher imports charmbracelet/glamour in go.mod but never actually
// uses the library, shelling out to an external glow binary instead.
func RenderMarkdown(store *token.Store, tb *text.Table, in *lexer.Interner, rs []runs.Run, width int) (string, error) {
	md := buildMarkdown(store, tb, in, rs)

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}

func buildMarkdown(store *token.Store, tb *text.Table, in *lexer.Interner, rs []runs.Run) string {
	var sb strings.Builder
	for i, r := range rs {
		t0 := tb.Texts[r.Chunk0.TextIndex]
		t1 := tb.Texts[r.Chunk1.TextIndex]

		sb.WriteString(fmt.Sprintf("## Run %d\n\n", i+1))
		sb.WriteString(fmt.Sprintf("**Size:** %d tokens\n\n", r.Size))
		sb.WriteString(fmt.Sprintf("### `%s:%d`\n\n", t0.Name, store.Line(r.Chunk0.First)))
		sb.WriteString("```\n")
		sb.WriteString(excerpt(store, in, r.Chunk0))
		sb.WriteString("\n```\n\n")
		sb.WriteString(fmt.Sprintf("### `%s:%d`\n\n", t1.Name, store.Line(r.Chunk1.First)))
		sb.WriteString("```\n")
		sb.WriteString(excerpt(store, in, r.Chunk1))
		sb.WriteString("\n```\n\n")
		sb.WriteString("---\n\n")
	}
	return sb.String()
}
