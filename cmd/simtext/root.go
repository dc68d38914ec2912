package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/asynkron/simtext/internal/applog"
	"github.com/asynkron/simtext/internal/config"
	"github.com/asynkron/simtext/internal/engine"
)

type flags struct {
	minRun      int
	pageWidth   int
	threshold   int
	hasThresh   bool
	fn          bool
	keepFn      bool
	diff        bool
	terse       bool
	headings    bool
	pct         bool
	pctMain     bool
	each        bool
	noSelf      bool
	newOld      bool
	recurse     bool
	stdin       bool
	lexOnly     bool
	outputPath  string
	showVer     bool
	memStats    bool
	exclude     []string
	ignore      string
	cacheDir    string
	parallel    bool
	format      string
	githubLevel string
	configPath  string
}

func newRootCmd() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "simtext [flags] new_file... [('/' | '|') old_file...]",
		Short: "Find near-duplicate regions across a set of text files",
		Args:  cobra.ArbitraryArgs,
		// exitForError in main.go is the single funnel for fatal errors
		// (progname: message, exit 1); letting cobra also print "Error:
		// ..." plus a usage dump would violate spec §7's single-line
		// stderr message.
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, f, args)
		},
	}

	dir, _ := os.Getwd()
	defaults := config.Load(dir)

	flagsSet := cmd.Flags()
	flagsSet.IntVarP(&f.minRun, "min-run", "r", defaults.MinRunSize, "minimum run size R")
	flagsSet.IntVarP(&f.pageWidth, "width", "w", defaults.PageWidth, "output page width")
	flagsSet.BoolVarP(&f.fn, "function-like", "f", false, "function-like forms only")
	flagsSet.BoolVarP(&f.keepFn, "keep-function-ids", "F", false, "keep function identifiers intact")
	flagsSet.BoolVarP(&f.diff, "diff", "d", false, "diff-style output")
	flagsSet.BoolVarP(&f.terse, "terse", "T", false, "terse output")
	flagsSet.BoolVarP(&f.headings, "headings", "n", false, "display headings only")
	flagsSet.BoolVarP(&f.pct, "percent", "p", false, "percentage output (implies -e -s)")
	flagsSet.BoolVarP(&f.pctMain, "percent-main", "P", false, "percentage output, main contributor only")
	flagsSet.IntVarP(&f.threshold, "threshold", "t", defaults.Threshold, "threshold percentage to show (requires -p or -P)")
	flagsSet.BoolVarP(&f.each, "each-to-each", "e", false, "compare each file to each file separately")
	flagsSet.BoolVarP(&f.noSelf, "no-self", "s", false, "do not compare a file to itself")
	flagsSet.BoolVarP(&f.newOld, "new-old", "S", false, "compare new files to old files only")
	flagsSet.BoolVarP(&f.recurse, "recurse", "R", false, "recurse into subdirectories")
	flagsSet.BoolVarP(&f.stdin, "stdin", "i", false, "read file names from standard input")
	flagsSet.StringVarP(&f.outputPath, "output", "o", "", "write output to file")
	flagsSet.BoolVarP(&f.showVer, "version", "v", false, "show version number and exit")
	flagsSet.BoolVarP(&f.memStats, "memstats", "M", false, "report memory usage")
	flagsSet.BoolVar(&f.lexOnly, "lex-only", false, "emit lexical scan output only (-- in the original)")
	flagsSet.StringSliceVar(&f.exclude, "exclude", defaults.Exclude, "glob patterns to exclude")
	flagsSet.StringVar(&f.ignore, "ignore", "", "JSON file of run identifiers to suppress")
	flagsSet.StringVar(&f.cacheDir, "cache-dir", "", "directory for the incremental token cache (empty disables caching)")
	flagsSet.BoolVar(&f.parallel, "parallel", true, "parallelize the hash2 cleanup pass (file tokenization is always concurrent)")
	flagsSet.StringVar(&f.format, "format", "", "output format override: json, markdown, or github (default: spec flags)")
	flagsSet.StringVar(&f.githubLevel, "github-level", "warning", "annotation level used by --format github")
	flagsSet.StringVar(&f.configPath, "config", "", "accepted but not read: project defaults always come from ./.simtext.yaml in the working directory")

	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		f.hasThresh = cmd.Flags().Changed("threshold")
		return nil
	}

	cmd.AddCommand(newDiffCmd())

	return cmd
}

func runRoot(cmd *cobra.Command, f flags, args []string) error {
	if f.showVer {
		fmt.Printf("simtext version %s (commit %s, built %s)\n", version, commit, date)
		return nil
	}

	opts := engine.Options{
		MinRunSize:              f.minRun,
		PageWidth:               f.pageWidth,
		Threshold:               f.threshold,
		FunctionLikeOnly:        f.fn,
		KeepFunctionIdentifiers: f.keepFn,
		Diff:                    f.diff,
		Terse:                   f.terse,
		Headings:                f.headings,
		Percent:                 f.pct,
		MainOnly:                f.pctMain,
		EachToEach:              f.each,
		NoSelf:                  f.noSelf,
		NewOldOnly:              f.newOld,
		Recurse:                 f.recurse,
		ReadStdin:               f.stdin,
		LexOnly:                 f.lexOnly,
		OutputPath:              f.outputPath,
		MemStats:                f.memStats,
		Exclude:                 f.exclude,
		IgnorePath:              f.ignore,
		CacheDir:                f.cacheDir,
		Parallel:                f.parallel,
		OutputFormat:            f.format,
		GitHubLevel:             f.githubLevel,
	}

	if err := opts.Validate(f.hasThresh, len(args) > 0); err != nil {
		return err
	}

	files, err := engine.ResolveFiles(opts, args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	eng := engine.New(opts, applog.New(isTTY()))

	ctx := context.Background()
	res, err := eng.Run(ctx, files)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.OutputPath != "" {
		w, err := os.Create(opts.OutputPath)
		if err != nil {
			return applog.UsageError{Msg: fmt.Sprintf("cannot open output file `%s'", opts.OutputPath)}
		}
		defer w.Close()
		out = w
	}

	return eng.Write(out, res)
}

func isTTY() bool {
	info, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
