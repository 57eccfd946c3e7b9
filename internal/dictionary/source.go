package dictionary

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
)

// lineSource is a named, reopenable stream of raw lines: either a wordlist
// file on disk or an in-memory payload (the embedded default wordlist or
// an embedded blacklist). Reopenable because each source is consumed
// twice: once to compute approx_total, once by the producer goroutine.
type lineSource struct {
	name string
	open func() (io.ReadCloser, error)
}

func fileSource(path string) lineSource {
	return lineSource{
		name: path,
		open: func() (io.ReadCloser, error) { return os.Open(path) },
	}
}

func memSource(name string, data []byte) lineSource {
	return lineSource{
		name: name,
		open: func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil },
	}
}

// NewFromFiles builds a Dictionary reading candidates from one or more
// wordlist files on disk, in order. An empty paths falls back to the
// bundled DefaultSource.
func NewFromFiles(paths []string, cfg Config) (*Dictionary, error) {
	if len(paths) == 0 {
		return New([]lineSource{DefaultSource()}, cfg)
	}
	sources := make([]lineSource, len(paths))
	for i, p := range paths {
		sources[i] = fileSource(p)
	}
	return New(sources, cfg)
}

// NewFromLines builds a Dictionary over an in-memory list of raw
// lines, used by tests and by callers that already hold a wordlist in
// memory (e.g. a raw-request import's discovered paths).
func NewFromLines(name string, lines []string, cfg Config) (*Dictionary, error) {
	data := []byte(strings.Join(lines, "\n"))
	return New([]lineSource{memSource(name, data)}, cfg)
}

// countLines computes a best-effort upper bound on unique candidates,
// used only for progress display: dedup shrinks the real stream and
// expansion grows it, so the count is an estimate either way.
func countLines(sources []lineSource) (int, error) {
	total := 0
	for _, src := range sources {
		rc, err := src.open()
		if err != nil {
			return 0, fmt.Errorf("opening %s: %w", src.name, err)
		}
		sc := bufio.NewScanner(rc)
		sc.Buffer(make([]byte, 64*1024), 10*1024*1024)
		for sc.Scan() {
			total++
		}
		err = sc.Err()
		rc.Close()
		if err != nil {
			return 0, fmt.Errorf("reading %s: %w", src.name, err)
		}
	}
	return total, nil
}
