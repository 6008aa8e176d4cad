package transport

import (
	"context"
	"strings"
	"time"
)

// Result holds the outcome of a completed command invocation.
type Result struct {
	ExitCode int    `json:"exit_code"`
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
}

// Ok reports whether the command exited cleanly.
func (r *Result) Ok() bool {
	return r != nil && r.ExitCode == 0
}

// Transport executes a command line against an execution context and returns
// its exit status and captured output. A non-nil error means the transport
// itself failed (unreachable host, timeout); a non-zero ExitCode with a nil
// error means the command ran and failed. Callers must quote any value they
// interpolate into the command line (see Quote).
type Transport interface {
	Run(ctx context.Context, commandLine string, timeout time.Duration) (*Result, error)
}

// Quote escapes a string for safe interpolation into a shell command line,
// equivalent to POSIX single-quoting.
func Quote(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, " \t\n\r\"'`$\\|&;<>()*?[]#~%!{}") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}
