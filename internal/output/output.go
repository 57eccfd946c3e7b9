// Package output renders scan results: per-format writers (text, JSON,
// CSV), a live progress line, optional sorted replay, and a directory
// tree summary.
package output

import (
	"time"

	"github.com/jmartin-dev/dirsearch-go/internal/fuzz"
)

// Stats holds aggregate scan statistics for the footer.
type Stats struct {
	TotalRequests  int64
	FoundCount     int64
	FilteredCount  int64
	ErrorCount     int64
	Duration       time.Duration
	RequestsPerSec float64
}

// Writer is implemented by each output format. WriteResult only ever
// receives matches; suppressed and errored results are counted in
// Stats instead.
type Writer interface {
	WriteHeader() error
	WriteResult(result *fuzz.Result) error
	WriteFooter(stats Stats) error
	Close() error
}
