// Package engine is the Driver (spec.md §4.6): it owns the engine-wide
// context that replaces the original's file-scope globals (T, F,
// last_index, match list) and orchestrates
// scan -> index -> compare -> report, honoring comparison-mode flags.
// Grounded on original_source/sim.c's main/read_and_compare_files
// control flow.
package engine

import (
	"strings"

	"github.com/asynkron/simtext/internal/applog"
)

// Options mirrors the full flag table of spec.md §6.
type Options struct {
	MinRunSize int
	PageWidth  int
	Threshold  int

	FunctionLikeOnly        bool // -f
	KeepFunctionIdentifiers bool // -F

	Diff     bool // -d
	Terse    bool // -T
	Headings bool // -n
	Percent  bool // -p
	MainOnly bool // -P

	EachToEach bool // -e
	NoSelf     bool // -s
	NewOldOnly bool // -S

	Recurse   bool // -R
	ReadStdin bool // -i
	LexOnly   bool // --

	OutputPath string // -o
	Version    bool   // -v
	MemStats   bool   // -M

	Exclude     []string
	IgnorePath  string
	CacheDir    string
	Parallel    bool
	GitHubLevel string

	// OutputFormat selects one of the SPEC_FULL.md additions ("json",
	// "markdown", "github"); empty means use the spec.md §6 flags
	// (-d/-T/-n/-p, default run listing) instead.
	OutputFormat string
}

// Validate applies sim.c main's exact option-compatibility checks:
// mutual exclusion of {d,n,p,P,T}, -t requiring -p/-P, and the
// -P -> -p -> (-e,-s) implication chain.
func (o *Options) Validate(hasThresholdFlag, hasFileArgs bool) error {
	set := []struct {
		flag string
		on   bool
	}{
		{"d", o.Diff}, {"n", o.Headings}, {"p", o.Percent}, {"P", o.MainOnly}, {"T", o.Terse},
	}
	var exclusive []string
	for _, f := range set {
		if f.on {
			exclusive = append(exclusive, f.flag)
		}
	}
	if len(exclusive) > 1 {
		return applog.UsageError{Msg: "options -" + strings.Join(exclusive, " and -") + " are incompatible"}
	}

	if hasThresholdFlag && !o.Percent && !o.MainOnly {
		return applog.UsageError{Msg: "option -t requires -p or -P"}
	}

	if o.ReadStdin && hasFileArgs {
		return applog.UsageError{Msg: "-i option conflicts with file arguments"}
	}

	if o.MinRunSize == 0 {
		return applog.UsageError{Msg: "bad or zero run size; form is: -r N"}
	}
	if o.PageWidth <= 0 {
		return applog.UsageError{Msg: "bad or zero page width"}
	}
	if o.Threshold > 100 || o.Threshold <= 0 {
		return applog.UsageError{Msg: "threshold must be between 1 and 100"}
	}

	if o.MainOnly {
		o.Percent = true
	}
	if o.Percent {
		o.EachToEach = true
		o.NoSelf = true
	}
	return nil
}
