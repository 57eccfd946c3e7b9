// Package cmd defines the CLI surface: every scan option as a flag,
// grouped categorized help, and the entry point that hands a validated
// config.Options to the runner.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jmartin-dev/dirsearch-go/internal/config"
	"github.com/jmartin-dev/dirsearch-go/internal/reqparse"
	"github.com/jmartin-dev/dirsearch-go/internal/runner"
	"github.com/jmartin-dev/dirsearch-go/pkg/version"
)

var opts config.Options

type flagGroup struct {
	title string
	flags []string
}

var helpGroups = []flagGroup{
	{"TARGET", []string{"url", "urls-file", "request-file", "cidr", "ports"}},
	{"DICTIONARY", []string{"wordlist", "extensions", "force-extensions", "overwrite-extensions", "exclude-extensions", "prefixes", "suffixes", "include-untransformed", "mutation", "uppercase", "lowercase", "capitalization"}},
	{"DISCOVERY", []string{"recursive", "max-depth", "recursion-status", "crawl", "crawl-depth"}},
	{"MATCHERS", []string{"include-status"}},
	{"FILTERS", []string{"exclude-status", "exclude-size", "exclude-text", "exclude-regex", "exclude-redirect", "exclude-response", "blacklist-status", "filter-threshold", "min-size", "max-size", "no-wildcard", "probes"}},
	{"RATE-LIMIT", []string{"threads", "timeout", "delay", "max-rate", "retries", "max-time", "target-max-time", "exit-on-error"}},
	{"HTTP", []string{"method", "header", "user-agent", "proxy", "follow-redirects", "insecure"}},
	{"OUTPUT", []string{"output", "format", "quiet", "no-color", "sort", "tree", "on-result"}},
	{"CONFIGURATION", []string{"resume-file"}},
}

var rootCmd = &cobra.Command{
	Use:     "dirsearch -u <url> [flags]",
	Short:   "Web path brute-forcer with wildcard calibration and WAF detection",
	Version: version.Version,
	Long: `dirsearch is a web path/file brute-forcing tool for penetration testing
and bug bounty hunting. It calibrates against the target's wildcard and
soft-404 behavior before scanning, so catch-all routes that answer 200
for everything do not flood the results.`,
	Example: `  dirsearch -u https://example.com
  dirsearch -u https://example.com -e php,html -t 50
  dirsearch -u https://example.com -w custom.txt --force-extensions
  dirsearch -u https://example.com -x 403,500 -o results.json --format json
  dirsearch -r burp.req -e php,html
  dirsearch -l urls.txt -w wordlist.txt
  dirsearch --cidr 192.168.1.0/24 --ports 80,443,8080
  dirsearch -u https://example.com --prefixes .,admin_ --suffixes ~,.bak
  dirsearch -u https://example.com --filter-threshold 5
  dirsearch -u https://example.com --resume-file scan.state
  dirsearch -u https://example.com --on-result "notify-send {url}"`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Raw HTTP request file (e.g. Burp export): target, method, and
		// headers come from the capture; explicit flags win.
		if opts.RequestFile != "" {
			parsed, err := reqparse.ParseFile(opts.RequestFile)
			if err != nil {
				return fmt.Errorf("parsing request file: %w", err)
			}
			if !cmd.Flags().Changed("url") {
				opts.URL = parsed.URL
			}
			if !cmd.Flags().Changed("method") {
				opts.Method = parsed.Method
			}
			if opts.Headers == nil {
				opts.Headers = make(map[string]string)
			}
			for key, val := range parsed.Headers {
				k := strings.ToLower(key)
				// Hop-by-hop and encoding headers don't make sense to
				// replay per fuzzed path.
				if k == "host" || k == "content-length" || k == "accept-encoding" {
					continue
				}
				if _, exists := opts.Headers[key]; !exists {
					opts.Headers[key] = val
				}
			}
			if !cmd.Flags().Changed("user-agent") {
				if ua, ok := parsed.Headers["User-Agent"]; ok {
					opts.UserAgent = ua
				}
			}
			if !opts.Quiet {
				fmt.Fprintf(os.Stderr, "[+] Loaded request from %s -> %s\n", opts.RequestFile, opts.URL)
			}
		}
		if opts.URL == "" && opts.URLsFile == "" && opts.CIDRTargets == "" {
			_ = cmd.Help()
			fmt.Fprintln(os.Stderr)
			return fmt.Errorf("target required: use -u, -l, --cidr, or --request-file")
		}
		if opts.URL != "" && !strings.HasPrefix(opts.URL, "http://") && !strings.HasPrefix(opts.URL, "https://") {
			opts.URL = "http://" + opts.URL
		}
		if len(opts.IncludeStatus) > 0 && len(opts.ExcludeStatus) > 0 {
			return fmt.Errorf("--include-status and --exclude-status are mutually exclusive")
		}
		switch opts.OutputFormat {
		case "text", "json", "csv":
		default:
			return fmt.Errorf("--format must be one of: text, json, csv")
		}
		switch opts.SortBy {
		case "", "status", "path", "size":
		default:
			return fmt.Errorf("--sort must be one of: status, path, size")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		return runner.Run(ctx, &opts)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	f := rootCmd.Flags()

	// Target
	f.StringVarP(&opts.URL, "url", "u", "", "Target URL")
	f.StringVarP(&opts.URLsFile, "urls-file", "l", "", "File with one URL per line")
	f.StringVarP(&opts.RequestFile, "request-file", "r", "", "Raw HTTP request file (e.g. Burp Suite export)")
	f.StringVar(&opts.CIDRTargets, "cidr", "", "CIDR range to scan (e.g. 192.168.1.0/24)")
	f.StringVar(&opts.Ports, "ports", "", "Ports for CIDR targets (comma-separated, e.g. 80,443,8080)")

	// Dictionary
	f.StringSliceVarP(&opts.WordlistPaths, "wordlist", "w", nil, "Wordlist path(s) (default: built-in)")
	f.StringSliceVarP(&opts.Extensions, "extensions", "e", nil, "File extensions to test (e.g. php,html,js)")
	f.BoolVarP(&opts.ForceExtensions, "force-extensions", "f", false, "Append extensions and a trailing slash to every wordlist entry")
	f.BoolVar(&opts.OverwriteExtensions, "overwrite-extensions", false, "Replace existing extensions in wordlist entries")
	f.StringSliceVar(&opts.ExcludeExtensions, "exclude-extensions", nil, "Skip wordlist entries with these extensions")
	f.StringSliceVar(&opts.Prefixes, "prefixes", nil, "Request each path with these prefixes")
	f.StringSliceVar(&opts.Suffixes, "suffixes", nil, "Request each path with these suffixes")
	f.BoolVar(&opts.Mutation, "mutation", false, "Generate mutated variants of each path (backups, version bumps)")
	f.BoolVar(&opts.Uppercase, "uppercase", false, "Uppercase all paths")
	f.BoolVar(&opts.Lowercase, "lowercase", false, "Lowercase all paths")
	f.BoolVar(&opts.Capitalization, "capitalization", false, "Capitalize all paths")
	f.BoolVar(&opts.AlwaysIncludeUntransformed, "include-untransformed", false, "With --prefixes/--suffixes, also request the original path")

	// Discovery
	f.BoolVar(&opts.Recursive, "recursive", false, "Recurse into discovered directories")
	f.IntVarP(&opts.MaxDepth, "max-depth", "R", 3, "Maximum recursion depth")
	f.Var(&intSliceValue{target: &opts.RecursionStatusCodes}, "recursion-status", "Only recurse into these status codes (comma-separated)")
	f.BoolVar(&opts.Crawl, "crawl", false, "Crawl discovered pages for additional paths")
	f.IntVar(&opts.CrawlDepth, "crawl-depth", 2, "Maximum crawl depth (link-following hops)")

	// Matchers
	f.VarP(&intSliceValue{target: &opts.IncludeStatus}, "include-status", "i", "Only show these status codes (comma-separated)")

	// Filters
	f.VarP(&intSliceValue{target: &opts.ExcludeStatus}, "exclude-status", "x", "Hide these status codes (comma-separated)")
	f.Var(&int64SliceValue{target: &opts.ExcludeSize}, "exclude-size", "Hide responses of these sizes (comma-separated)")
	f.StringSliceVar(&opts.ExcludeText, "exclude-text", nil, "Hide responses containing these strings")
	f.StringVar(&opts.ExcludeRegex, "exclude-regex", "", "Hide responses whose body matches this regex")
	f.StringVar(&opts.ExcludeRedirect, "exclude-redirect", "", "Hide responses redirecting to a location matching this string or regex")
	f.StringVar(&opts.ExcludeResponsePath, "exclude-response", "", "Hide responses similar to the response of this path")
	f.Var(&intSliceValue{target: &opts.BlacklistStatuses}, "blacklist-status", "Apply built-in path blacklists for these status codes (default 400,403,500)")
	f.IntVar(&opts.FrequencyThreshold, "filter-threshold", 0, "Hide a response once its fingerprint repeated this many times (0 to disable)")
	f.Int64Var(&opts.MinSize, "min-size", 0, "Hide responses smaller than this many bytes")
	f.Int64Var(&opts.MaxSize, "max-size", 0, "Hide responses larger than this many bytes (0 to disable)")
	f.BoolVar(&opts.NoWildcard, "no-wildcard", false, "Skip wildcard/soft-404 calibration")
	f.IntVar(&opts.ProbeCount, "probes", 2, "Calibration probes per baseline")

	// Rate limiting
	f.IntVarP(&opts.Threads, "threads", "t", 25, "Number of concurrent workers")
	f.DurationVar(&opts.Timeout, "timeout", 10*time.Second, "HTTP request timeout")
	f.DurationVar(&opts.Delay, "delay", 0, "Delay between requests per worker")
	f.Float64Var(&opts.RateLimit, "max-rate", 0, "Maximum requests per second across all workers (0 for unlimited)")
	f.IntVar(&opts.MaxRetries, "retries", 1, "Retries per request for transient failures")
	f.DurationVar(&opts.MaxTime, "max-time", 0, "Abort the whole scan after this duration (0 to disable)")
	f.DurationVar(&opts.TargetMaxTime, "target-max-time", 0, "Abort each scan pass (root wordlist, crawl sweep, recursed directory) after this duration; not summed per target (0 to disable)")
	f.BoolVar(&opts.ExitOnError, "exit-on-error", false, "Stop the scan on the first permanent request error")

	// HTTP
	f.StringVarP(&opts.Method, "method", "m", "GET", "HTTP method")
	f.StringSliceVarP(new([]string), "header", "H", nil, "Custom headers (Key: Value)")
	f.StringVar(&opts.UserAgent, "user-agent", "", "Custom User-Agent string")
	f.StringVar(&opts.Proxy, "proxy", "", "HTTP/SOCKS proxy URL")
	f.BoolVar(&opts.FollowRedirects, "follow-redirects", false, "Follow HTTP redirects")
	f.BoolVar(&opts.InsecureSkipVerify, "insecure", false, "Skip TLS certificate verification")

	// Output
	f.StringVarP(&opts.OutputFile, "output", "o", "", "Output file path")
	f.StringVar(&opts.OutputFormat, "format", "text", "Output format: text, json, csv")
	f.BoolVarP(&opts.Quiet, "quiet", "q", false, "Minimal output")
	f.BoolVar(&opts.NoColor, "no-color", false, "Disable colored output")
	f.StringVar(&opts.SortBy, "sort", "", "Sort results: status, path, size (buffers until scan completes)")
	f.BoolVar(&opts.Tree, "tree", false, "Print a tree summary of discovered paths after the scan")
	f.StringVar(&opts.OnResultCmd, "on-result", "", "Shell command to run for each result (receives JSON on stdin)")

	// Configuration
	f.StringVar(&opts.ResumeFile, "resume-file", "", "File to save/load scan progress for resume")

	// Custom help: categorized flags like httpx.
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		w := os.Stderr
		fmt.Fprint(w, helpBanner(cmd.Version))
		fmt.Fprintf(w, "%s\n\nUsage:\n  %s\n", cmd.Long, cmd.UseLine())
		fmt.Fprintf(w, "\nExamples:\n%s\n", cmd.Example)
		fmt.Fprintf(w, "\nFlags:\n")
		for _, g := range helpGroups {
			fmt.Fprintf(w, "\n%s:\n", g.title)
			for _, name := range g.flags {
				if f := cmd.Flags().Lookup(name); f != nil {
					fmt.Fprintln(w, formatFlag(f))
				}
			}
		}
		fmt.Fprintln(w)
	})

	// Parse headers from string slice into map in PreRun.
	rootCmd.PreRunE = chainPreRun(rootCmd.PreRunE, func(cmd *cobra.Command, args []string) error {
		headers, _ := f.GetStringSlice("header")
		if len(headers) > 0 {
			if opts.Headers == nil {
				opts.Headers = make(map[string]string, len(headers))
			}
			for _, h := range headers {
				parts := strings.SplitN(h, ":", 2)
				if len(parts) != 2 {
					return fmt.Errorf("invalid header format %q, expected 'Key: Value'", h)
				}
				opts.Headers[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
			}
		}
		return nil
	})
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// chainPreRun runs prepend before existing: header flags must be in
// opts.Headers before the request-file merge decides which ones win.
func chainPreRun(existing, prepend func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if prepend != nil {
			if err := prepend(cmd, args); err != nil {
				return err
			}
		}
		return existing(cmd, args)
	}
}

// intSliceValue implements pflag.Value for comma-separated int slices.
type intSliceValue struct {
	target *[]int
}

func (v *intSliceValue) String() string {
	if v.target == nil || len(*v.target) == 0 {
		return ""
	}
	parts := make([]string, len(*v.target))
	for i, val := range *v.target {
		parts[i] = strconv.Itoa(val)
	}
	return strings.Join(parts, ",")
}

func (v *intSliceValue) Set(s string) error {
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return fmt.Errorf("invalid status code %q: %w", p, err)
		}
		*v.target = append(*v.target, n)
	}
	return nil
}

func (v *intSliceValue) Type() string { return "ints" }

// int64SliceValue implements pflag.Value for comma-separated sizes.
type int64SliceValue struct {
	target *[]int64
}

func (v *int64SliceValue) String() string {
	if v.target == nil || len(*v.target) == 0 {
		return ""
	}
	parts := make([]string, len(*v.target))
	for i, val := range *v.target {
		parts[i] = strconv.FormatInt(val, 10)
	}
	return strings.Join(parts, ",")
}

func (v *int64SliceValue) Set(s string) error {
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid size %q: %w", p, err)
		}
		*v.target = append(*v.target, n)
	}
	return nil
}

func (v *int64SliceValue) Type() string { return "sizes" }

func formatFlag(f *pflag.Flag) string {
	var left string
	if f.Shorthand != "" {
		left = fmt.Sprintf("-%s, --%s", f.Shorthand, f.Name)
	} else {
		left = fmt.Sprintf("    --%s", f.Name)
	}

	typ := f.Value.Type()
	if typ != "bool" {
		left += " " + typ
	}

	// Pad to fixed column width for aligned descriptions.
	const col = 36
	for len(left) < col {
		left += " "
	}

	right := f.Usage
	// Show default for non-zero values.
	def := f.DefValue
	if def != "" && def != "false" && def != "0" && def != "0s" && def != "[]" {
		right += fmt.Sprintf(" (default %s)", def)
	}

	return "   " + left + right
}

func helpBanner(ver string) string {
	if ver != "dev" && ver != "" && !strings.HasPrefix(ver, "v") {
		ver = "v" + ver
	}
	return fmt.Sprintf(`
     ___         __
  ___/ (_)______ ___ ___ _________/ /
 / _  / / __(_-</ -_) _ '/ __/ __/ _ \
 \_,_/_/_/ /___/\__/\_,_/_/  \__/_//_/   %s

`, ver)
}
