// Package walkfs is the recursive file-system enumeration collaborator
// (-R, -i, --exclude), grounded in the teacher's filepath.Walk driver
// code in cmd/quickdup/main.go.
package walkfs

import (
	"bufio"
	"io"
	"path/filepath"
)

// Expand resolves a list of command-line file arguments into a flat list
// of file paths. When recurse is true, directories are walked; exclude
// patterns (shell globs matched against the base name) drop matches.
func Expand(args []string, recurse bool, exclude []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		info, err := statOrNil(arg)
		if err != nil {
			return nil, err
		}
		if info != nil && info.IsDir() {
			if !recurse {
				continue
			}
			walked, err := walkDir(arg, exclude)
			if err != nil {
				return nil, err
			}
			out = append(out, walked...)
			continue
		}
		if excluded(arg, exclude) {
			continue
		}
		out = append(out, arg)
	}
	return out, nil
}

// ReadStdinArgs reads one file path per line from r, mirroring -i's
// get_new_std_input_args.
func ReadStdinArgs(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out, sc.Err()
}

func excluded(path string, patterns []string) bool {
	base := filepath.Base(path)
	for _, p := range patterns {
		if ok, _ := filepath.Match(p, base); ok {
			return true
		}
	}
	return false
}
