package dictionary

// Config holds every tunable the path-candidate pipeline reads: a
// subset of internal/config.Options, copied in rather than imported so
// this package stays independent of the CLI-bound flag struct.
type Config struct {
	Extensions                 []string
	ForceExtensions            bool
	OverwriteExtensions        bool
	ExcludeExtensions          []string
	Prefixes                   []string
	Suffixes                   []string
	Mutation                   bool
	Uppercase                  bool
	Lowercase                  bool
	Capitalization             bool
	IsBlacklist                bool
	AlwaysIncludeUntransformed bool

	// Skip, when non-nil, drops a candidate after expansion and dedup.
	// Used by scan resumption to leave out paths a previous run already
	// covered.
	Skip func(string) bool
}
