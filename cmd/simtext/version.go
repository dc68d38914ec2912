package main

// version, commit, and date are populated via -ldflags at build time,
// the common Go CLI pattern shown across the corpus's CLI-shaped tools.
// The original tool prints a $Id$ RCS string instead; this is its
// Go-idiomatic analogue.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
