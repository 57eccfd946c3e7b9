package dictionary

import (
	"bufio"
	"io"
	"sync"
)

// Dictionary is a single logical sequence of unique candidate paths
// drawn from one or more sources, expanded and optionally mutated, plus a side channel ("extra") that lets a
// running scan enqueue paths discovered mid-flight (crawled links,
// recursion targets) ahead of the static sequence.
//
// Next is safe for concurrent use by the Fuzzer's worker pool: each call
// either pops the extra queue, which is guarded by mu, or receives the
// next produced candidate from a channel, which delivers each value to
// exactly one receiver, so no candidate is ever handed out twice
// (invariant: each worker observes a distinct candidate).
type Dictionary struct {
	mu       sync.Mutex
	extra    []string
	extraSet map[string]struct{}

	candidates chan string
	approx     int

	stopCh chan struct{}
	closed bool
}

// New builds a Dictionary over sources, pre-computing approx_total and
// launching the producer goroutine that feeds Next.
func New(sources []lineSource, cfg Config) (*Dictionary, error) {
	approx, err := countLines(sources)
	if err != nil {
		return nil, err
	}

	d := &Dictionary{
		extraSet:   make(map[string]struct{}),
		candidates: make(chan string, 256),
		approx:     approx,
		stopCh:     make(chan struct{}),
	}

	go produce(cfg, sources, d.candidates, d.stopCh)
	return d, nil
}

// produce walks every source in order, expanding each line
// and, when enabled, mutation, emitting every not-yet-seen candidate
// onto out. seen is shared across all sources: uniqueness is sequence-
// wide, not per-file. Closes out when exhausted
// or when stop fires, so a blocked Next() unblocks either way.
func produce(cfg Config, sources []lineSource, out chan<- string, stop <-chan struct{}) {
	defer close(out)

	seen := make(map[string]struct{})
	emit := func(p string) bool {
		if p == "" {
			return true
		}
		if _, ok := seen[p]; ok {
			return true
		}
		seen[p] = struct{}{}
		if cfg.Skip != nil && cfg.Skip(p) {
			return true
		}
		select {
		case out <- p:
			return true
		case <-stop:
			return false
		}
	}

	for _, src := range sources {
		rc, err := src.open()
		if err != nil {
			continue
		}
		ok := scanLines(rc, func(raw string) bool {
			for _, c := range expandLine(raw, cfg) {
				if !emit(c) {
					return false
				}
				if cfg.Mutation {
					for _, m := range Mutate(c) {
						if !emit(m) {
							return false
						}
					}
				}
			}
			select {
			case <-stop:
				return false
			default:
				return true
			}
		})
		rc.Close()
		if !ok {
			return
		}
	}
}

// Next returns the next candidate in priority order (extra queue first,
// then the produced sequence) and false once both are exhausted.
func (d *Dictionary) Next() (string, bool) {
	d.mu.Lock()
	if len(d.extra) > 0 {
		p := d.extra[0]
		d.extra = d.extra[1:]
		delete(d.extraSet, p)
		d.mu.Unlock()
		return p, true
	}
	d.mu.Unlock()

	p, ok := <-d.candidates
	if !ok {
		// The static sequence drained while this call was parked on the
		// channel; a concurrent AddExtra may have queued more work.
		d.mu.Lock()
		defer d.mu.Unlock()
		if len(d.extra) > 0 {
			p := d.extra[0]
			d.extra = d.extra[1:]
			delete(d.extraSet, p)
			return p, true
		}
		return "", false
	}
	return p, true
}

// AddExtra enqueues a path discovered mid-scan (crawled link, recursion
// target) ahead of the static sequence, deduplicated against every other
// extra path added so far.
func (d *Dictionary) AddExtra(p string) {
	if p == "" {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.extraSet[p]; ok {
		return
	}
	d.extraSet[p] = struct{}{}
	d.extra = append(d.extra, p)
}

// Len reports the approximate total candidate count for progress display.
func (d *Dictionary) Len() int {
	return d.approx
}

// Reset restarts the static sequence from the beginning over the given
// sources, used when a recursion step needs a fresh cursor over the same
// wordlist for a new base path. It discards any pending extra queue.
func (d *Dictionary) Reset(sources []lineSource, cfg Config) error {
	d.Close()

	approx, err := countLines(sources)
	if err != nil {
		return err
	}

	d.mu.Lock()
	d.extra = nil
	d.extraSet = make(map[string]struct{})
	d.candidates = make(chan string, 256)
	d.approx = approx
	d.stopCh = make(chan struct{})
	d.closed = false
	stop := d.stopCh
	out := d.candidates
	d.mu.Unlock()

	go produce(cfg, sources, out, stop)
	return nil
}

// Close unblocks any goroutine parked in Next by terminating the
// producer early. Idempotent: a Fuzzer's Quit may race with Dictionary
// exhaustion, and both must be safe to call more than once.
func (d *Dictionary) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	close(d.stopCh)
}

// scanLines runs fn over every line of rc, stopping early if fn returns
// false.
func scanLines(rc io.Reader, fn func(string) bool) bool {
	sc := bufio.NewScanner(rc)
	sc.Buffer(make([]byte, 64*1024), 10*1024*1024)
	for sc.Scan() {
		if !fn(sc.Text()) {
			return false
		}
	}
	return true
}
