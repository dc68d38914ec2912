package memstats

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTakeReportsLiveHeap(t *testing.T) {
	s := Take()
	assert.GreaterOrEqual(t, s.HeapAlloc, uint64(0))
}

func TestReportFormatsDelta(t *testing.T) {
	var sb strings.Builder
	before := Snapshot{HeapAlloc: 1000, NumGC: 2}
	after := Snapshot{HeapAlloc: 1500, NumGC: 5}

	require.NoError(t, Report(&sb, before, after))
	out := sb.String()
	assert.Contains(t, out, "1500 bytes")
	assert.Contains(t, out, "+500")
	assert.Contains(t, out, "3 GC cycles")
}

func TestReportFormatsNegativeDelta(t *testing.T) {
	var sb strings.Builder
	before := Snapshot{HeapAlloc: 2000, NumGC: 1}
	after := Snapshot{HeapAlloc: 1200, NumGC: 1}

	require.NoError(t, Report(&sb, before, after))
	assert.Contains(t, sb.String(), "-800")
}
