// Package memstats is the -M memory-diagnostics harness. The original
// tool's comment in sim.c ("it is not trivial to plug the leaks... to do,
// perhaps") does not apply to a garbage-collected runtime; this package
// reports runtime.MemStats deltas around an engine run (tokenization
// through comparison) instead. It reports the heap in use after a forced
// GC, not the peak heap reached during the run.
package memstats

import (
	"fmt"
	"io"
	"runtime"
)

// Snapshot captures the fields of runtime.MemStats that matter for a
// before/after comparison.
type Snapshot struct {
	HeapAlloc uint64
	NumGC     uint32
}

// Take forces a GC so HeapAlloc reflects live data, then snapshots it.
func Take() Snapshot {
	runtime.GC()
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return Snapshot{HeapAlloc: m.HeapAlloc, NumGC: m.NumGC}
}

// Report prints the delta between before and after, mirroring
// ReportMemoryLeaks's call shape (it takes an io.Writer, here stderr).
func Report(w io.Writer, before, after Snapshot) error {
	var delta int64
	delta = int64(after.HeapAlloc) - int64(before.HeapAlloc)
	_, err := fmt.Fprintf(w,
		"memory: heap in use %d bytes (delta %+d), %d GC cycles\n",
		after.HeapAlloc, delta, after.NumGC-before.NumGC,
	)
	return err
}
