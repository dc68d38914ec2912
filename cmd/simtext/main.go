// Command simtext detects near-duplicate regions across a collection of
// tokenized text files, reports the maximal matching runs, and can
// summarize them as per-file similarity percentages.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		exitForError(err)
	}
}

// exitForError mirrors the original tool's single fatal() exit point:
// every error funnels through here and maps to "progname: message" on
// stderr plus exit code 1.
func exitForError(err error) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", progname(), err.Error())
	os.Exit(1)
}

func progname() string {
	return "simtext"
}
