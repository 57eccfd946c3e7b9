// Package hook executes a user-supplied shell command for each
// discovered path, with the result available both as JSON on stdin and
// via {placeholder} expansion in the command string.
package hook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/jmartin-dev/dirsearch-go/internal/fuzz"
)

// resultJSON is the JSON payload sent to the hook command via stdin.
type resultJSON struct {
	Method   string `json:"method"`
	URL      string `json:"url"`
	Path     string `json:"path"`
	Status   int    `json:"status"`
	Size     int64  `json:"size"`
	Redirect string `json:"redirect,omitempty"`
	Type     string `json:"content_type,omitempty"`
}

// Runner executes a shell command for each match.
type Runner struct {
	cmd   string
	quiet bool
}

// NewRunner creates a hook runner. cmd is the shell command to execute.
func NewRunner(cmd string, quiet bool) *Runner {
	return &Runner{cmd: cmd, quiet: quiet}
}

// Run executes the hook command with the result as JSON on stdin.
// The command runs with a 30-second timeout. Errors are logged but
// do not halt the scan.
func (r *Runner) Run(result fuzz.Result) {
	if result.Response == nil {
		return
	}
	resp := result.Response

	payload := resultJSON{
		Method:   result.Method,
		URL:      result.URL,
		Path:     result.Path,
		Status:   resp.Status,
		Size:     resp.Length(),
		Redirect: resp.Redirect,
		Type:     resp.ContentType(),
	}

	data, err := json.Marshal(payload)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[hook] marshal error: %v\n", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	shell, args := shellCommand()
	expanded := r.cmd
	expanded = strings.ReplaceAll(expanded, "{url}", result.URL)
	expanded = strings.ReplaceAll(expanded, "{path}", result.Path)
	expanded = strings.ReplaceAll(expanded, "{status}", fmt.Sprintf("%d", resp.Status))
	expanded = strings.ReplaceAll(expanded, "{size}", fmt.Sprintf("%d", resp.Length()))
	expanded = strings.ReplaceAll(expanded, "{method}", result.Method)

	cmd := exec.CommandContext(ctx, shell, append(args, expanded)...)
	cmd.Stdin = bytes.NewReader(data)
	cmd.Stderr = os.Stderr

	output, err := cmd.Output()
	if err != nil {
		if !r.quiet {
			fmt.Fprintf(os.Stderr, "[hook] error: %v\n", err)
		}
		return
	}

	if len(output) > 0 && !r.quiet {
		fmt.Fprintf(os.Stderr, "[hook] %s", output)
	}
}

func shellCommand() (string, []string) {
	if runtime.GOOS == "windows" {
		return "cmd", []string{"/C"}
	}
	return "sh", []string{"-c"}
}
