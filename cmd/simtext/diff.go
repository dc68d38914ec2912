package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/asynkron/simtext/internal/report"
)

// newDiffCmd wires "simtext diff base..head [paths...]", grounded in the
// teacher's runCompare/compare.go: it stands up two detached git
// worktrees, re-invokes this same binary against each with -p --format
// json, and reports which cross-file percentages rose, fell, or newly
// appeared between the two refs.
func newDiffCmd() *cobra.Command {
	var minRun int
	var threshold int

	cmd := &cobra.Command{
		Use:   "diff <baseRef>..<headRef> [path...]",
		Short: "Compare near-duplicate percentages between two git refs",
		Args:  cobra.MinimumNArgs(1),
		// See newRootCmd: exitForError is the only place errors get
		// printed.
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			baseRef, headRef, err := splitRefs(args[0])
			if err != nil {
				return err
			}
			return runDiff(cmd, baseRef, headRef, args[1:], minRun, threshold)
		},
	}

	cmd.Flags().IntVarP(&minRun, "min-run", "r", 8, "minimum run size R")
	cmd.Flags().IntVarP(&threshold, "threshold", "t", 1, "threshold percentage to show")
	return cmd
}

func splitRefs(spec string) (base, head string, err error) {
	parts := strings.SplitN(spec, "..", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("diff: expected `baseRef..headRef', got `%s'", spec)
	}
	return parts[0], parts[1], nil
}

func runDiff(cmd *cobra.Command, baseRef, headRef string, paths []string, minRun, threshold int) error {
	out := cmd.OutOrStdout()

	baseDir, err := os.MkdirTemp("", "simtext-base-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(baseDir)

	headDir, err := os.MkdirTemp("", "simtext-head-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(headDir)

	fmt.Fprintf(out, "Comparing %s -> %s\n\n", baseRef, headRef)

	if err := addWorktree(baseDir, baseRef); err != nil {
		return err
	}
	defer exec.Command("git", "worktree", "remove", "--force", baseDir).Run()

	if err := addWorktree(headDir, headRef); err != nil {
		return err
	}
	defer exec.Command("git", "worktree", "remove", "--force", headDir).Run()

	baseResult, err := scanWorktree(baseDir, paths, minRun, threshold)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: scanning %s: %v\n", baseRef, err)
	}
	headResult, err := scanWorktree(headDir, paths, minRun, threshold)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: scanning %s: %v\n", headRef, err)
	}

	basePct := percentMap(baseResult)
	headPct := percentMap(headResult)

	type delta struct {
		pair string
		base int
		head int
	}
	var changed, removed, added []delta

	for pair, b := range basePct {
		h, ok := headPct[pair]
		switch {
		case !ok:
			removed = append(removed, delta{pair, b, 0})
		case h != b:
			changed = append(changed, delta{pair, b, h})
		}
	}
	for pair, h := range headPct {
		if _, ok := basePct[pair]; !ok {
			added = append(added, delta{pair, 0, h})
		}
	}

	sort.Slice(changed, func(i, j int) bool { return changed[i].head-changed[i].base > changed[j].head-changed[j].base })
	sort.Slice(added, func(i, j int) bool { return added[i].head > added[j].head })
	sort.Slice(removed, func(i, j int) bool { return removed[i].base > removed[j].base })

	if len(changed) == 0 && len(added) == 0 && len(removed) == 0 {
		fmt.Fprintln(out, "No change in cross-file duplication.")
		return nil
	}

	for _, d := range changed {
		fmt.Fprintf(out, "%s %d%% -> %d%%\n", d.pair, d.base, d.head)
	}
	for _, d := range added {
		fmt.Fprintf(out, "%s new duplication, %d%%\n", d.pair, d.head)
	}
	for _, d := range removed {
		fmt.Fprintf(out, "%s duplication gone (was %d%%)\n", d.pair, d.base)
	}
	return nil
}

func addWorktree(dir, ref string) error {
	cmd := exec.Command("git", "worktree", "add", "--detach", dir, ref)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("git worktree add %s: %w\n%s", ref, err, out)
	}
	return nil
}

// scanWorktree re-invokes the simtext binary inside a worktree on paths
// (relative to it) and parses its JSON output, the same self-exec trick the teacher's
// runCompare uses instead of linking the scan logic directly.
func scanWorktree(dir string, paths []string, minRun, threshold int) (report.JSONOutput, error) {
	scanPaths := paths
	if len(scanPaths) == 0 {
		scanPaths = []string{"."}
	}
	self, err := os.Executable()
	if err != nil {
		self = os.Args[0]
	}

	args := append([]string{
		"-R", "-p", "-t", fmt.Sprintf("%d", threshold), "-r", fmt.Sprintf("%d", minRun),
		"--format", "json",
	}, scanPaths...)

	// Run inside the worktree with relative paths so both refs report the
	// same file names and their percentages can be matched up.
	cmd := exec.Command(self, args...)
	cmd.Dir = dir
	data, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return report.JSONOutput{}, fmt.Errorf("%w: %s", err, exitErr.Stderr)
		}
		return report.JSONOutput{}, err
	}

	var parsed report.JSONOutput
	if err := json.Unmarshal(data, &parsed); err != nil {
		return report.JSONOutput{}, err
	}
	return parsed, nil
}

func percentMap(r report.JSONOutput) map[string]int {
	out := make(map[string]int, len(r.Percentages))
	for _, p := range r.Percentages {
		out[fmt.Sprintf("%s <-> %s", p.File0, p.File1)] = p.Percentage
	}
	return out
}
