// Package version holds build-time version information, injected via
// -ldflags at release time the same way the rest of the cobra/CLI stack
// expects a Version string to exist.
package version

// Version is overwritten at build time with -ldflags
// "-X github.com/jmartin-dev/dirsearch-go/pkg/version.Version=...".
var Version = "dev"
