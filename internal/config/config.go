package config

import "time"

// Options holds all configuration for a scan, assembled by cmd/root.go
// from CLI flags and handed down to every internal package. Fields are
// grouped by concern; cmd/root.go's help output uses its own grouping.
type Options struct {
	// Target
	URL          string
	URLsFile     string // -l: file with one target URL per line
	CIDRTargets  string // --cidr: CIDR range, one target per host
	Ports        string // comma-separated ports applied to CIDR targets

	// Dictionary
	WordlistPaths       []string // empty = bundled default wordlist
	Extensions          []string
	ForceExtensions     bool
	OverwriteExtensions bool
	ExcludeExtensions   []string
	Prefixes            []string
	Suffixes            []string
	Mutation            bool
	Uppercase           bool
	Lowercase           bool
	Capitalization      bool
	AlwaysIncludeUntransformed bool

	// Performance
	Threads   int
	Timeout   time.Duration
	Delay     time.Duration
	MaxRetries int
	RateLimit float64 // requests/second, 0 = unlimited
	MaxTime   time.Duration // overall scan wall-clock budget
	TargetMaxTime time.Duration // wall-clock budget for each pass over a target (root, crawl sweep, recursed dir); not summed per target

	// Wildcard calibration
	NoWildcard          bool // skip baseline calibration entirely
	ProbeCount          int
	ExcludeResponsePath string

	// Status/size/content filtering
	IncludeStatus     []int
	ExcludeStatus     []int
	ExcludeSize       []int64
	MinSize           int64
	MaxSize           int64
	ExcludeText       []string
	ExcludeRegex      string
	ExcludeRedirect   string
	BlacklistStatuses []int
	FrequencyThreshold int

	// Output
	OutputFile   string
	OutputFormat string // "text", "json", "csv"
	Quiet        bool
	NoColor      bool
	SortBy       string // "", "status", "path", "size"
	Tree         bool

	// Recursion
	Recursive             bool
	MaxDepth              int
	RecursionStatusCodes  []int

	// Resume
	ResumeFile string // path to save/load scan state

	// HTTP
	RequestFile        string // path to a raw HTTP request file (e.g. a Burp export)
	Method             string
	Headers            map[string]string
	UserAgent          string
	Proxy              string
	FollowRedirects    bool
	InsecureSkipVerify bool

	// Crawl
	Crawl      bool // crawl discovered pages for additional paths
	CrawlDepth int  // maximum link-following hops

	// Hooks
	OnResultCmd string // command to run for each result (receives JSON on stdin)

	// Error handling
	ExitOnError bool
}
