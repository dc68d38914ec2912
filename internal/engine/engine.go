package engine

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/asynkron/simtext/internal/applog"
	simcache "github.com/asynkron/simtext/internal/cache"
	"github.com/asynkron/simtext/internal/fwdref"
	"github.com/asynkron/simtext/internal/lexer"
	"github.com/asynkron/simtext/internal/memstats"
	"github.com/asynkron/simtext/internal/percent"
	"github.com/asynkron/simtext/internal/report"
	"github.com/asynkron/simtext/internal/runs"
	"github.com/asynkron/simtext/internal/scanner"
	"github.com/asynkron/simtext/internal/text"
	"github.com/asynkron/simtext/internal/token"
	"github.com/asynkron/simtext/internal/walkfs"
)

// Engine owns the state that used to be file-scope globals in the
// original tool (T, F, last_index, the match list), threaded explicitly
// through one context instead, per spec.md §9.
type Engine struct {
	Opts Options
	Log  *applog.Logger
}

// New builds an Engine. log may be applog.Discard() when diagnostics are
// not wanted.
func New(opts Options, log *applog.Logger) *Engine {
	if log == nil {
		log = applog.Discard()
	}
	return &Engine{Opts: opts, Log: log}
}

// Result is everything a run produces before formatting; callers pick a
// report.Write* function according to Options.
type Result struct {
	Store *token.Store
	Texts *text.Table
	In    *lexer.Interner
	Runs  []runs.Run
	Lines []percent.Line
}

// Run executes scan -> index -> compare, mirroring
// read_and_compare_files + either Retrieve_Runs/Show_Runs or
// Show_Percentages.
func (e *Engine) Run(ctx context.Context, files []lexer.File) (Result, error) {
	before := memstats.Take()

	in := lexer.NewInterner()
	sc := lexer.WordScanner{
		FunctionLikeOnly:        e.Opts.FunctionLikeOnly,
		KeepFunctionIdentifiers: e.Opts.KeepFunctionIdentifiers,
	}

	var c *simcache.Store
	if e.Opts.CacheDir != "" {
		path := simcache.Path(e.Opts.CacheDir, sc.Name())
		c = simcache.Load(path)
	}

	// Pass a nil interface, not a typed-nil *Store, when caching is off.
	var lc lexer.Cache
	if c != nil {
		lc = c
	}

	store, tb, err := lexer.TokenizeFilesCached(ctx, sc, in, files, lc, e.Log)
	if err != nil {
		return Result{}, e.fatal(err)
	}

	if c != nil {
		path := simcache.Path(e.Opts.CacheDir, sc.Name())
		_ = simcache.Save(path, c)
	}

	if e.Opts.LexOnly {
		return Result{Store: store, Texts: tb, In: in}, nil
	}

	idx, err := fwdref.Build(ctx, store, tb.Texts, e.Opts.MinRunSize, fwdref.Options{Parallel: e.Opts.Parallel})
	if err != nil {
		return Result{}, e.fatal(err)
	}
	defer idx.Free()

	mode := scanner.Mode{EachToEach: e.Opts.EachToEach, NoSelf: e.Opts.NoSelf, NewOldOnly: e.Opts.NewOldOnly}

	ignored, err := loadIgnored(e.Opts.IgnorePath)
	if err != nil {
		return Result{}, e.fatal(err)
	}

	runStore := &runs.Store{}
	if err := scanner.Scan(store, tb, idx, e.Opts.MinRunSize, mode, runStore); err != nil {
		return Result{}, e.fatal(err)
	}

	result := Result{Store: store, Texts: tb, In: in}

	if e.Opts.Percent {
		agg := percent.New()
		for _, r := range runStore.Retrieve() {
			if ignored[runHash(r)] {
				continue
			}
			agg.AddRun(r, tb)
		}
		result.Lines = agg.Show(e.Opts.Threshold, e.Opts.MainOnly)
	} else {
		all := runStore.Retrieve()
		result.Runs = make([]runs.Run, 0, len(all))
		for _, r := range all {
			if ignored[runHash(r)] {
				continue
			}
			result.Runs = append(result.Runs, r)
		}
	}

	if e.Opts.MemStats {
		after := memstats.Take()
		_ = memstats.Report(os.Stderr, before, after)
		e.Log.Info().
			Uint64("heap_alloc", after.HeapAlloc).
			Int64("heap_alloc_delta", int64(after.HeapAlloc)-int64(before.HeapAlloc)).
			Uint32("gc_count_delta", after.NumGC-before.NumGC).
			Msg("memstats")
	}

	return result, nil
}

// fatal logs err through its taxonomy (applog.UsageError/ResourceError/
// InternalError vs. a plain collaborator error) before returning it
// unchanged, so every fatal condition that reaches the caller is also
// observable as a structured diagnostic, mirroring error.c's single
// fatal() exit point.
func (e *Engine) fatal(err error) error {
	switch err.(type) {
	case applog.UsageError:
		e.Log.Warn().Err(err).Str("kind", "usage").Msg("fatal")
	case applog.ResourceError:
		e.Log.Error().Err(err).Str("kind", "resource").Msg("fatal")
	case applog.InternalError:
		e.Log.Error().Err(err).Str("kind", "internal").Msg("fatal")
	default:
		e.Log.Error().Err(err).Str("kind", "collaborator").Msg("fatal")
	}
	return err
}

// Write formats result according to Options and writes it to w.
func (e *Engine) Write(w io.Writer, res Result) error {
	if e.Opts.LexOnly {
		return report.WriteLexemes(w, res.Store, res.Texts, res.In)
	}

	switch e.Opts.OutputFormat {
	case "json":
		return report.WriteJSON(w, res.Store, res.Texts, res.Runs, res.Lines)
	case "markdown":
		width := e.Opts.PageWidth
		if width <= 0 {
			width = 80
		}
		rendered, err := report.RenderMarkdown(res.Store, res.Texts, res.In, res.Runs, width)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, rendered)
		return err
	case "github":
		level := e.Opts.GitHubLevel
		if level == "" {
			level = "warning"
		}
		return report.WriteGitHubAnnotations(w, res.Store, res.Texts, res.Runs, level)
	}

	switch {
	case e.Opts.Percent:
		return report.WritePercentTable(w, res.Lines)
	case e.Opts.Diff:
		return report.WriteDiff(w, res.Store, res.Texts, res.Runs)
	case e.Opts.Terse:
		return report.WriteTerse(w, res.Store, res.Texts, res.Runs)
	case e.Opts.Headings:
		return report.WriteHeadings(w, res.Store, res.Texts, report.DefaultTheme, res.Runs)
	default:
		return report.WriteRuns(w, res.Store, res.Texts, res.In, report.DefaultTheme, res.Runs)
	}
}

// ResolveFiles turns CLI positional arguments into lexer.Files, applying
// -R recursion, -i stdin reading, and the "/" / "|" new/old separator,
// mirroring sim.c's argument-resolution block in main().
func ResolveFiles(opts Options, args []string, stdin io.Reader) ([]lexer.File, error) {
	if opts.ReadStdin {
		fromStdin, err := walkfs.ReadStdinArgs(stdin)
		if err != nil {
			return nil, err
		}
		args = fromStdin
	}

	newArgs, oldArgs, hasSep := splitNewOld(args)
	if !hasSep && opts.NewOldOnly {
		return nil, applog.UsageError{Msg: "-S requires a '/' or '|' separator in the file list"}
	}

	newPaths, err := walkfs.Expand(newArgs, opts.Recurse, opts.Exclude)
	if err != nil {
		return nil, err
	}
	oldPaths, err := walkfs.Expand(oldArgs, opts.Recurse, opts.Exclude)
	if err != nil {
		return nil, err
	}

	files := make([]lexer.File, 0, len(newPaths)+len(oldPaths))
	for _, p := range newPaths {
		files = append(files, lexer.File{Path: p, IsOld: false})
	}
	for _, p := range oldPaths {
		files = append(files, lexer.File{Path: p, IsOld: true})
	}
	return files, nil
}

func splitNewOld(args []string) (newArgs, oldArgs []string, hasSep bool) {
	for i, a := range args {
		if a == "/" || a == "|" {
			return args[:i], args[i+1:], true
		}
	}
	return args, nil, false
}

// runHash identifies a run for --ignore suppression as
// "textIndex:first:size" of the canonical chunk0: two different scans of
// unchanged source in the same file order produce the same key.
func runHash(r runs.Run) string {
	return strings.Join([]string{
		strconv.Itoa(r.Chunk0.TextIndex), strconv.Itoa(r.Chunk0.First), strconv.Itoa(r.Size),
	}, ":")
}

func loadIgnored(path string) (map[string]bool, error) {
	out := make(map[string]bool)
	if path == "" {
		return out, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return nil, err
	}
	var hashes []string
	if err := json.Unmarshal(data, &hashes); err != nil {
		return nil, applog.UsageError{Msg: "cannot parse ignore file: " + err.Error()}
	}
	for _, h := range hashes {
		out[h] = true
	}
	return out, nil
}
