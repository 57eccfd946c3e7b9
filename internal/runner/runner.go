// Package runner wires the scan pipeline together: target resolution,
// dictionary construction, wildcard calibration, the fuzzing worker
// pool, exclusion filtering, crawling, recursion, resumption, and
// output.
package runner

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jmartin-dev/dirsearch-go/internal/baseline"
	"github.com/jmartin-dev/dirsearch-go/internal/config"
	"github.com/jmartin-dev/dirsearch-go/internal/crawl"
	"github.com/jmartin-dev/dirsearch-go/internal/dictionary"
	"github.com/jmartin-dev/dirsearch-go/internal/exclusion"
	"github.com/jmartin-dev/dirsearch-go/internal/fuzz"
	"github.com/jmartin-dev/dirsearch-go/internal/hook"
	"github.com/jmartin-dev/dirsearch-go/internal/httpclient"
	"github.com/jmartin-dev/dirsearch-go/internal/netutil"
	"github.com/jmartin-dev/dirsearch-go/internal/output"
	"github.com/jmartin-dev/dirsearch-go/internal/resume"
	"github.com/jmartin-dev/dirsearch-go/pkg/version"
)

// Run executes the full scan pipeline over every resolved target.
func Run(ctx context.Context, opts *config.Options) error {
	if opts.MaxTime > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.MaxTime)
		defer cancel()
	}

	targets, err := resolveTargets(opts)
	if err != nil {
		return err
	}

	log := newLogger(opts)

	toggle, cleanup := startInteractiveToggle(opts.Quiet)
	defer cleanup()

	for idx, target := range targets {
		if len(targets) > 1 && !opts.Quiet {
			fmt.Fprintf(os.Stderr, "\n[*] Target %d/%d: %s\n", idx+1, len(targets), target)
		}
		if err := scanTarget(ctx, opts, target, log, toggle); err != nil {
			if ctx.Err() != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "[!] Error scanning %s: %v\n", target, err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return nil
}

// resolveTargets builds the list of URLs to scan from -u, -l, and
// --cidr.
func resolveTargets(opts *config.Options) ([]string, error) {
	var targets []string

	if opts.URL != "" {
		targets = append(targets, opts.URL)
	}

	if opts.URLsFile != "" {
		f, err := os.Open(opts.URLsFile)
		if err != nil {
			return nil, fmt.Errorf("opening URLs file: %w", err)
		}
		defer f.Close()
		sc := bufio.NewScanner(f)
		for sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			if !strings.HasPrefix(line, "http://") && !strings.HasPrefix(line, "https://") {
				line = "http://" + line
			}
			targets = append(targets, line)
		}
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("reading URLs file: %w", err)
		}
	}

	if opts.CIDRTargets != "" {
		scheme := "https"
		if strings.HasPrefix(opts.URL, "http://") {
			scheme = "http"
		}
		cidrURLs, err := netutil.ExpandTargets(opts.CIDRTargets, opts.Ports, scheme)
		if err != nil {
			return nil, fmt.Errorf("expanding CIDR: %w", err)
		}
		targets = append(targets, cidrURLs...)
	}

	if len(targets) == 0 {
		return nil, fmt.Errorf("no targets specified (-u, -l, or --cidr)")
	}
	return targets, nil
}

func newLogger(opts *config.Options) *logrus.Entry {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	if opts.Quiet {
		l.SetLevel(logrus.ErrorLevel)
	} else {
		l.SetLevel(logrus.WarnLevel)
	}
	return logrus.NewEntry(l)
}

// targetScan carries the state shared by every pass (wordlist, crawl
// sweeps, recursion) against one target.
type targetScan struct {
	opts     *config.Options
	log      *logrus.Entry
	toggle   *toggleHub
	target   string
	client   *httpclient.Client
	chain    *exclusion.Chain
	out      output.Writer
	progress *output.Progress
	hook     *hook.Runner
	state    *resume.State

	mu        sync.Mutex
	requested map[string]struct{} // root-relative paths already issued
	crawlGen  map[string]int      // root-relative path -> crawl generation
	crawled   []string            // crawl-discovered paths, root-relative
	dirs      []string            // directories found by the current pass
	found     []string            // all matched paths, for the tree summary
}

func scanTarget(ctx context.Context, opts *config.Options, target string, log *logrus.Entry, toggle *toggleHub) error {
	client, err := httpclient.NewClient(target, httpclient.Options{
		Method:              opts.Method,
		Headers:             opts.Headers,
		UserAgent:           opts.UserAgent,
		Proxy:               opts.Proxy,
		FollowRedirects:     opts.FollowRedirects,
		Timeout:             opts.Timeout,
		MaxRetries:          opts.MaxRetries,
		InsecureSkipVerify:  opts.InsecureSkipVerify,
		MaxIdleConnsPerHost: opts.Threads,
		RateLimit:           opts.RateLimit,
	})
	if err != nil {
		return err
	}

	chain, err := buildChain(opts)
	if err != nil {
		return err
	}

	s := &targetScan{
		opts:      opts,
		log:       log,
		toggle:    toggle,
		target:    target,
		client:    client,
		chain:     chain,
		requested: make(map[string]struct{}),
		crawlGen:  make(map[string]int),
	}

	stopAutoSave := func() {}
	if opts.ResumeFile != "" {
		existing, err := resume.Load(opts.ResumeFile)
		if err != nil {
			return fmt.Errorf("loading resume file: %w", err)
		}
		if existing != nil && existing.URL == target {
			s.state = existing
			if !opts.Quiet {
				fmt.Fprintf(os.Stderr, "[+] Resuming: %d paths already completed\n", existing.CompletedCount())
			}
		} else {
			s.state = resume.New(opts.ResumeFile, target)
		}
		stopAutoSave = s.state.AutoSave(10 * time.Second)
		defer stopAutoSave()
	}

	s.out, err = createWriter(opts)
	if err != nil {
		return fmt.Errorf("creating output writer: %w", err)
	}
	defer s.out.Close()
	if err := s.out.WriteHeader(); err != nil {
		return err
	}

	if opts.OnResultCmd != "" {
		s.hook = hook.NewRunner(opts.OnResultCmd, opts.Quiet)
	}

	dict, err := s.newWordlistDictionary("")
	if err != nil {
		return fmt.Errorf("loading wordlist: %w", err)
	}

	if !opts.Quiet {
		printBanner(opts, target, dict.Len())
	}

	s.progress = output.NewProgress(dict.Len(), opts.Quiet)
	s.progress.Start()
	defer s.progress.Stop()
	start := time.Now()

	if err := s.pass(ctx, dict, ""); err != nil {
		return err
	}

	if err := s.crawlSweeps(ctx); err != nil {
		return err
	}

	if opts.Recursive {
		if err := s.recurse(ctx); err != nil {
			return err
		}
	}

	completed, found, filtered, errors := s.progress.Counts()
	stats := output.Stats{
		TotalRequests: completed,
		FoundCount:    found,
		FilteredCount: filtered,
		ErrorCount:    errors,
		Duration:      time.Since(start),
	}
	if stats.Duration.Seconds() > 0 {
		stats.RequestsPerSec = float64(stats.TotalRequests) / stats.Duration.Seconds()
	}

	s.progress.Stop()
	if opts.Tree && !opts.Quiet {
		output.PrintTree(os.Stderr, s.found)
	}

	if err := s.out.WriteFooter(stats); err != nil {
		return err
	}

	// The resume file only survives an interrupted scan.
	if s.state != nil && ctx.Err() == nil {
		stopAutoSave()
		_ = s.state.Remove()
	}
	return nil
}

// newWordlistDictionary builds a dictionary over the configured
// wordlists, scoped to baseDir for resume bookkeeping.
func (s *targetScan) newWordlistDictionary(baseDir string) (*dictionary.Dictionary, error) {
	return dictionary.NewFromFiles(s.opts.WordlistPaths, s.dictConfig(baseDir))
}

func (s *targetScan) dictConfig(baseDir string) dictionary.Config {
	cfg := dictionary.Config{
		Extensions:                 s.opts.Extensions,
		ForceExtensions:            s.opts.ForceExtensions,
		OverwriteExtensions:        s.opts.OverwriteExtensions,
		ExcludeExtensions:          s.opts.ExcludeExtensions,
		Prefixes:                   s.opts.Prefixes,
		Suffixes:                   s.opts.Suffixes,
		Mutation:                   s.opts.Mutation,
		Uppercase:                  s.opts.Uppercase,
		Lowercase:                  s.opts.Lowercase,
		Capitalization:             s.opts.Capitalization,
		AlwaysIncludeUntransformed: s.opts.AlwaysIncludeUntransformed,
	}
	if s.state != nil {
		cfg.Skip = func(candidate string) bool {
			return s.state.IsCompleted(baseDir + candidate)
		}
	}
	return cfg
}

// pass runs one fuzzer over dict with the client already pointed at
// target/baseDir. baseDir is "" for the root pass, "admin/" for a
// recursion pass.
func (s *targetScan) pass(ctx context.Context, dict *dictionary.Dictionary, baseDir string) error {
	fz := fuzz.New(s.client, dict, s.chain, fuzz.Config{
		ThreadCount:                s.opts.Threads,
		Delay:                      s.opts.Delay,
		ExitOnError:                s.opts.ExitOnError,
		AlwaysIncludeUntransformed: s.opts.AlwaysIncludeUntransformed,
		Prefixes:                   s.opts.Prefixes,
		Suffixes:                   s.opts.Suffixes,
		Method:                     s.opts.Method,
		TargetMaxTime:              s.opts.TargetMaxTime,
		SkipCalibration:            s.opts.NoWildcard,
	}, s.callbacks(dict, baseDir), s.log)

	if err := fz.Setup(ctx, baseline.SetOptions{
		Prefixes:            s.opts.Prefixes,
		Suffixes:            s.opts.Suffixes,
		Extensions:          s.opts.Extensions,
		ExcludeResponsePath: s.opts.ExcludeResponsePath,
		ProbeCount:          s.opts.ProbeCount,
	}); err != nil {
		return fmt.Errorf("calibrating %s: %w", s.client.BaseURL(), err)
	}

	if v, ok := fz.WAFVerdict(); ok && v.WAFPresent && !s.opts.Quiet {
		s.progress.ClearLine()
		fmt.Fprintf(os.Stderr, "[!] WAF detected: %s (confidence: %s) — results may be unreliable\n", v.Source, v.Confidence)
		s.progress.Redraw()
	}

	s.progress.SetPauser(fz.Gate())
	s.toggle.set(fz)
	defer s.toggle.set(nil)

	stop := context.AfterFunc(ctx, fz.Quit)
	defer stop()

	return fz.Start(ctx)
}

func (s *targetScan) callbacks(dict *dictionary.Dictionary, baseDir string) fuzz.Callbacks {
	mark := func(path string) string {
		full := baseDir + strings.TrimPrefix(path, "/")
		s.progress.Increment()
		if s.state != nil {
			s.state.MarkCompleted(full)
		}
		s.mu.Lock()
		s.requested[full] = struct{}{}
		s.mu.Unlock()
		return full
	}

	return fuzz.Callbacks{
		OnMatch: func(r fuzz.Result) {
			full := mark(r.Path)
			s.progress.IncrementFound()

			s.mu.Lock()
			s.found = append(s.found, full)
			if s.opts.Recursive && s.eligibleDirectory(r) {
				s.dirs = append(s.dirs, strings.TrimSuffix(full, "/"))
			}
			s.progress.ClearLine()
			err := s.out.WriteResult(&r)
			s.progress.Redraw()
			s.mu.Unlock()
			if err != nil {
				s.log.WithError(err).Error("writing result")
			}

			if s.hook != nil {
				s.hook.Run(r)
			}
			if s.opts.Crawl {
				s.crawlResult(r, full, dict, baseDir)
			}
		},
		OnNotFound: func(r fuzz.Result) {
			mark(r.Path)
			s.progress.IncrementFiltered()
		},
		OnError: func(r fuzz.Result) {
			mark(r.Path)
			s.progress.IncrementErrors()
		},
	}
}

// crawlResult extracts same-origin paths from a match and feeds them
// back into the scan. During the root pass new paths go straight onto
// the dictionary's extra queue; recursion passes only record them for
// the root-scoped crawl sweep, since their dictionary is joined under a
// subdirectory.
func (s *targetScan) crawlResult(r fuzz.Result, full string, dict *dictionary.Dictionary, baseDir string) {
	s.mu.Lock()
	gen := s.crawlGen[full]
	s.mu.Unlock()
	if gen >= s.opts.CrawlDepth {
		return
	}

	discovered := crawl.Extract(r.Response, s.target)
	if len(discovered) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range discovered {
		if _, done := s.requested[p]; done {
			continue
		}
		if _, known := s.crawlGen[p]; known {
			continue
		}
		s.crawlGen[p] = gen + 1
		s.crawled = append(s.crawled, p)
		if baseDir == "" {
			dict.AddExtra(p)
			s.progress.AddTotal(1)
		}
	}
}

// crawlSweeps scans crawl-discovered paths that were not consumed by
// the pass that found them (e.g. discovered too late, or during a
// recursion pass). Each sweep may discover more; generations bound the
// expansion.
func (s *targetScan) crawlSweeps(ctx context.Context) error {
	if !s.opts.Crawl {
		return nil
	}
	for sweep := 0; sweep < s.opts.CrawlDepth; sweep++ {
		s.mu.Lock()
		var pending []string
		for _, p := range s.crawled {
			if _, done := s.requested[p]; !done {
				pending = append(pending, p)
			}
		}
		s.crawled = nil
		s.mu.Unlock()

		if len(pending) == 0 || ctx.Err() != nil {
			return ctx.Err()
		}

		if err := s.client.SetURL(s.target); err != nil {
			return err
		}
		// Crawled paths are scanned verbatim: no extension expansion
		// or case folding on paths the server itself advertised.
		cfg := dictionary.Config{}
		if s.state != nil {
			cfg.Skip = func(candidate string) bool { return s.state.IsCompleted(candidate) }
		}
		dict, err := dictionary.NewFromLines("crawl", pending, cfg)
		if err != nil {
			return err
		}
		s.progress.AddTotal(dict.Len())
		if err := s.pass(ctx, dict, ""); err != nil {
			return err
		}
	}
	return nil
}

// recurse runs breadth-first passes over directories discovered so
// far, each with a fresh dictionary and calibration scoped to that
// directory.
func (s *targetScan) recurse(ctx context.Context) error {
	for depth := 1; depth <= s.opts.MaxDepth; depth++ {
		s.mu.Lock()
		level := s.dirs
		s.dirs = nil
		s.mu.Unlock()

		if len(level) == 0 {
			return nil
		}

		for _, dir := range level {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if !s.opts.Quiet {
				s.progress.ClearLine()
				fmt.Fprintf(os.Stderr, "[*] Recursing into /%s (depth %d/%d)\n", dir, depth, s.opts.MaxDepth)
				s.progress.Redraw()
			}
			if err := s.client.SetURL(s.target + "/" + dir); err != nil {
				return err
			}
			dict, err := s.newWordlistDictionary(dir + "/")
			if err != nil {
				return err
			}
			s.progress.AddTotal(dict.Len())
			if err := s.pass(ctx, dict, dir+"/"); err != nil {
				if ctx.Err() != nil {
					return err
				}
				fmt.Fprintf(os.Stderr, "[!] Error scanning /%s: %v\n", dir, err)
			}
		}
	}
	return nil
}

// eligibleDirectory reports whether a match should be recursed into.
func (s *targetScan) eligibleDirectory(r fuzz.Result) bool {
	resp := r.Response
	if resp == nil {
		return false
	}
	if len(s.opts.RecursionStatusCodes) > 0 {
		ok := false
		for _, code := range s.opts.RecursionStatusCodes {
			if resp.Status == code {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return looksLikeDirectory(r.Path, resp.Status, resp.Redirect)
}

func looksLikeDirectory(path string, status int, redirect string) bool {
	if strings.HasSuffix(path, "/") {
		return true
	}
	if status >= 300 && status < 400 {
		return strings.HasSuffix(redirect, strings.TrimPrefix(path, "/")+"/") || strings.HasSuffix(redirect, "/")
	}
	if status >= 200 && status < 300 {
		last := path
		if idx := strings.LastIndex(path, "/"); idx >= 0 {
			last = path[idx+1:]
		}
		return !strings.Contains(last, ".")
	}
	return false
}

func buildChain(opts *config.Options) (*exclusion.Chain, error) {
	freq := exclusion.NewFrequencyTable()
	chain := exclusion.NewChain(freq)

	if len(opts.IncludeStatus) > 0 || len(opts.ExcludeStatus) > 0 {
		chain.Add(exclusion.NewStatusFilter(opts.IncludeStatus, opts.ExcludeStatus))
	}
	chain.Add(exclusion.NewBlacklistFilter(opts.BlacklistStatuses))

	if len(opts.ExcludeSize) > 0 || opts.MinSize > 0 || opts.MaxSize > 0 {
		min, max := opts.MinSize, opts.MaxSize
		if min <= 0 {
			min = -1
		}
		if max <= 0 {
			max = -1
		}
		chain.Add(exclusion.NewSizeFilter(opts.ExcludeSize, min, max))
	}
	if len(opts.ExcludeText) > 0 {
		chain.Add(exclusion.NewTextFilter(opts.ExcludeText))
	}
	if opts.ExcludeRegex != "" {
		f, err := exclusion.NewRegexFilter(opts.ExcludeRegex)
		if err != nil {
			return nil, fmt.Errorf("invalid --exclude-regex: %w", err)
		}
		chain.Add(f)
	}
	if opts.ExcludeRedirect != "" {
		chain.Add(exclusion.NewRedirectFilter(opts.ExcludeRedirect))
	}
	if opts.FrequencyThreshold > 0 {
		chain.Add(exclusion.NewFrequencyFilter(freq, opts.FrequencyThreshold))
	}
	return chain, nil
}

func createWriter(opts *config.Options) (output.Writer, error) {
	var w output.Writer
	var err error
	switch opts.OutputFormat {
	case "json":
		w, err = output.NewJSONWriter(opts.OutputFile)
	case "csv":
		w, err = output.NewCSVWriter(opts.OutputFile)
	default:
		w, err = output.NewTextWriter(opts.OutputFile, opts.NoColor, opts.Quiet)
	}
	if err != nil {
		return nil, err
	}
	if opts.SortBy != "" {
		w = output.NewSortedWriter(w, opts.SortBy)
	}
	return w, nil
}

func printBanner(opts *config.Options, target string, pathCount int) {
	const (
		cyan  = "\033[36m"
		white = "\033[97m"
		dim   = "\033[2m"
		reset = "\033[0m"
	)

	c, w, d, rs := cyan, white, dim, reset
	if opts.NoColor {
		c, w, d, rs = "", "", "", ""
	}

	fmt.Fprintf(os.Stderr, `
%s     ___         __
%s  ___/ (_)______ ___ ___ _________/ /
%s / _  / / __(_-</ -_) _ '/ __/ __/ _ \
%s \_,_/_/_/ /___/\__/\_,_/_/  \__/_//_/%s  %sv%s%s

`,
		c, c, c, c, rs, d, version.Version, rs,
	)

	fmt.Fprintf(os.Stderr, "%s  ──────────────────────────────────────%s\n", d, rs)
	fmt.Fprintf(os.Stderr, "  %sTarget:%s     %s%s%s\n", d, rs, w, target, rs)
	fmt.Fprintf(os.Stderr, "  %sThreads:%s    %s%d%s\n", d, rs, w, opts.Threads, rs)
	fmt.Fprintf(os.Stderr, "  %sWordlist:%s   %s~%d paths%s\n", d, rs, w, pathCount, rs)
	if len(opts.Extensions) > 0 {
		fmt.Fprintf(os.Stderr, "  %sExtensions:%s %s%s%s\n", d, rs, w, strings.Join(opts.Extensions, ", "), rs)
	}
	calib := "ON"
	if opts.NoWildcard {
		calib = "OFF"
	}
	fmt.Fprintf(os.Stderr, "  %sWildcard:%s   %s\n", d, rs, calib)
	fmt.Fprintf(os.Stderr, "%s  ──────────────────────────────────────%s\n\n", d, rs)
}
