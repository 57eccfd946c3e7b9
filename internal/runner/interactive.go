package runner

import (
	"fmt"
	"os"
	"sync/atomic"

	"golang.org/x/term"

	"github.com/jmartin-dev/dirsearch-go/internal/fuzz"
)

// toggleHub routes keypresses to whichever fuzzer pass is currently
// running. A scan consists of sequential passes (root, crawl sweeps,
// recursion), each with its own pause gate, so the hub tracks the
// active one.
type toggleHub struct {
	active atomic.Pointer[fuzz.Fuzzer]
}

func (h *toggleHub) set(f *fuzz.Fuzzer) {
	h.active.Store(f)
}

func (h *toggleHub) toggle() (paused, ok bool) {
	f := h.active.Load()
	if f == nil {
		return false, false
	}
	return f.Toggle(), true
}

// startInteractiveToggle puts the controlling terminal into raw mode
// and toggles the active fuzzer's pause gate on Enter or Space. The
// returned cleanup restores the terminal state. If stdin is not a
// terminal, the hub still works programmatically and cleanup is a
// no-op.
func startInteractiveToggle(quiet bool) (*toggleHub, func()) {
	hub := &toggleHub{}
	fd := int(os.Stdin.Fd())

	if !term.IsTerminal(fd) {
		return hub, func() {}
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		if !quiet {
			fmt.Fprintf(os.Stderr, "[!] Could not enable raw terminal: %v\n", err)
		}
		return hub, func() {}
	}

	// MakeRaw disables OPOST, which stops \n -> \r\n translation and
	// misaligns the progress line. Only raw input is needed, so turn
	// output processing back on.
	restoreOutputFlags(fd)

	cleanup := func() {
		_ = term.Restore(fd, oldState)
	}

	go func() {
		buf := make([]byte, 1)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				return
			}
			if n == 0 {
				continue
			}

			switch buf[0] {
			case 0x03:
				// Ctrl+C: restore the terminal and re-send SIGINT so
				// the normal signal handler chain fires.
				_ = term.Restore(fd, oldState)
				sendInterrupt()
				return
			case '\r', '\n', ' ':
				if paused, ok := hub.toggle(); ok && !quiet {
					if paused {
						fmt.Fprintf(os.Stderr, "\r\033[K[*] Scan PAUSED — press Enter or Space to resume\n")
					} else {
						fmt.Fprintf(os.Stderr, "\r\033[K[*] Scan RESUMED\n")
					}
				}
			}
		}
	}()

	return hub, cleanup
}
