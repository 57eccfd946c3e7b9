package fuzz

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jmartin-dev/dirsearch-go/internal/baseline"
	"github.com/jmartin-dev/dirsearch-go/internal/dictionary"
	"github.com/jmartin-dev/dirsearch-go/internal/exclusion"
	"github.com/jmartin-dev/dirsearch-go/internal/httpclient"
	"github.com/jmartin-dev/dirsearch-go/internal/waf"
)

// Result is the payload handed to a Callbacks function for one
// requested path.
type Result struct {
	Method       string
	Path         string
	URL          string
	Response     *httpclient.Response
	Err          error
	Filtered     bool
	FilterReason string
}

// Callbacks lets the caller react to each outcome without the Fuzzer
// depending on any particular output format.
type Callbacks struct {
	OnMatch    func(Result)
	OnNotFound func(Result)
	OnError    func(Result)
}

// Config holds the per-scan tunables the Fuzzer itself needs. Path
// expansion/transformation config lives in the Dictionary; this is
// just what governs request issuance and worker behavior.
type Config struct {
	ThreadCount                int
	Delay                      time.Duration
	ExitOnError                bool
	AlwaysIncludeUntransformed bool
	Prefixes                   []string
	Suffixes                   []string
	HostOverride               string
	Method                     string
	TargetMaxTime              time.Duration
	SkipCalibration            bool
}

// Fuzzer orchestrates the scan: it owns the worker pool, the pause
// gate, and the terminal fatal-error slot, and drives callbacks as
// results come in.
type Fuzzer struct {
	client   *httpclient.Client
	dict     *dictionary.Dictionary
	scanners *baseline.Set
	filters  *exclusion.Chain
	cfg      Config
	cb       Callbacks
	log      *logrus.Entry

	gate  *Gate
	state stateBox

	wafDetected atomic.Bool
	wafVerdict  atomic.Value // waf.Verdict

	fatal    atomic.Value // error
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New constructs a Fuzzer in the init state. Setup must be called
// before Start.
func New(client *httpclient.Client, dict *dictionary.Dictionary, filters *exclusion.Chain, cfg Config, cb Callbacks, log *logrus.Entry) *Fuzzer {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	f := &Fuzzer{
		client:  client,
		dict:    dict,
		filters: filters,
		cfg:     cfg,
		cb:      cb,
		log:     log,
		gate:    NewGate(),
		stopCh:  make(chan struct{}),
	}
	f.state.Store(StateInit)
	return f
}

// Setup runs wildcard calibration and a one-shot WAF probe against the
// target, then transitions the Fuzzer to READY.
func (f *Fuzzer) Setup(ctx context.Context, opts baseline.SetOptions) error {
	if !f.cfg.SkipCalibration {
		set, err := baseline.NewSet(ctx, f.client, opts)
		if err != nil {
			return err
		}
		f.scanners = set
	}

	if resp, err := f.client.Request(ctx, "", f.cfg.HostOverride); err == nil {
		v := waf.Classify(resp.Headers, resp.Content)
		f.wafVerdict.Store(v)
		f.wafDetected.Store(v.WAFPresent)
		if v.WAFPresent {
			f.log.WithField("vendor", v.Source).Warn("waf detected on target, results may be unreliable")
		}
	}

	f.state.Store(StateReady)
	return nil
}

// Start spawns the worker pool and blocks until every worker has
// joined, either because the dictionary was exhausted or Quit was
// called. It returns the first fatal error recorded by a worker, if
// any.
func (f *Fuzzer) Start(ctx context.Context) error {
	if f.state.Load() != StateReady {
		return errors.New("fuzz: Start called before Setup completed")
	}
	f.state.Store(StateRunning)

	if f.cfg.TargetMaxTime > 0 {
		timer := time.AfterFunc(f.cfg.TargetMaxTime, f.Quit)
		defer timer.Stop()
	}

	threads := f.cfg.ThreadCount
	if threads < 1 {
		threads = 1
	}
	for i := 0; i < threads; i++ {
		f.wg.Add(1)
		go f.worker(ctx, i)
	}
	f.wg.Wait()

	f.state.Store(StateDone)
	if v := f.fatal.Load(); v != nil {
		return v.(error)
	}
	return nil
}

func (f *Fuzzer) worker(ctx context.Context, id int) {
	defer f.wg.Done()
	for {
		f.gate.Wait()

		select {
		case <-f.stopCh:
			return
		case <-ctx.Done():
			return
		default:
		}

		path, ok := f.dict.Next()
		if !ok {
			return
		}

		for _, variant := range transformVariants(path, f.cfg) {
			f.requestOne(ctx, variant)
			select {
			case <-f.stopCh:
				return
			case <-ctx.Done():
				return
			default:
			}
		}

		if f.cfg.Delay > 0 {
			select {
			case <-time.After(f.cfg.Delay):
			case <-f.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}
}

// transformVariants expands one candidate into the request paths for
// this scan's configured prefixes and suffixes.
func transformVariants(path string, cfg Config) []string {
	return dictionary.Transform(path, cfg.Prefixes, cfg.Suffixes, cfg.AlwaysIncludeUntransformed)
}

func (f *Fuzzer) requestOne(ctx context.Context, path string) {
	resp, err := f.client.Request(ctx, path, f.cfg.HostOverride)
	if err != nil {
		var reqErr *httpclient.RequestError
		transient := errors.As(err, &reqErr) && reqErr.IsTransient()
		result := Result{Method: f.cfg.Method, Path: path, Err: err}
		if f.cb.OnError != nil {
			f.cb.OnError(result)
		}
		if !transient {
			f.log.WithError(err).WithField("path", path).Debug("permanent request error")
		}
		if f.cfg.ExitOnError && !transient {
			f.fatal.CompareAndSwap(nil, err)
			f.Quit()
		}
		return
	}

	result := Result{Method: f.cfg.Method, Path: path, URL: resp.URL, Response: resp}

	if rejected, reason := f.filters.Apply(resp, path); rejected {
		result.Filtered = true
		result.FilterReason = reason
		if f.cb.OnNotFound != nil {
			f.cb.OnNotFound(result)
		}
		return
	}

	if f.scanners != nil && !f.scanners.CheckAll(path, resp) {
		result.Filtered = true
		result.FilterReason = "wildcard"
		if f.cb.OnNotFound != nil {
			f.cb.OnNotFound(result)
		}
		return
	}

	if f.cb.OnMatch != nil {
		f.cb.OnMatch(result)
	}
}

// Pause halts every worker at its next Gate.Wait() check.
func (f *Fuzzer) Pause() {
	f.gate.Pause()
	f.state.CAS(StateRunning, StatePaused)
}

// Play resumes a paused Fuzzer.
func (f *Fuzzer) Play() {
	f.gate.Resume()
	f.state.CAS(StatePaused, StateRunning)
}

// Toggle flips pause state and returns whether the Fuzzer is now
// paused.
func (f *Fuzzer) Toggle() bool {
	if f.gate.Toggle() {
		f.state.CAS(StateRunning, StatePaused)
		return true
	}
	f.state.CAS(StatePaused, StateRunning)
	return false
}

// Quit requests a graceful stop: in-flight requests finish, but no
// further candidates are pulled from the dictionary. Safe to call more
// than once and from any goroutine.
func (f *Fuzzer) Quit() {
	f.stopOnce.Do(func() {
		f.state.Store(StateStopping)
		close(f.stopCh)
		f.dict.Close()
		f.gate.Resume()
	})
}

// Gate exposes the pause gate, e.g. for pause-aware progress display.
func (f *Fuzzer) Gate() *Gate { return f.gate }

// IsFinished reports whether every worker has joined and Start has
// returned.
func (f *Fuzzer) IsFinished() bool { return f.state.Load() == StateDone }

// State returns the current lifecycle state.
func (f *Fuzzer) State() State { return f.state.Load() }

// WAFDetected reports whether Setup's probe found signs of a WAF.
func (f *Fuzzer) WAFDetected() bool { return f.wafDetected.Load() }

// WAFVerdict returns the verdict recorded during Setup, if any.
func (f *Fuzzer) WAFVerdict() (waf.Verdict, bool) {
	v := f.wafVerdict.Load()
	if v == nil {
		return waf.Verdict{}, false
	}
	return v.(waf.Verdict), true
}
