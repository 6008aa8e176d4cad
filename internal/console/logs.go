package console

import (
	"context"
	"fmt"
	"time"

	"github.com/xtamtamx/pickaxe-rcon/internal/transport"
)

// MaxTailLines is the hard ceiling on log tail requests, regardless of what
// the caller asks for.
const MaxTailLines = 1000

// LogSource fetches the trailing portion of the server's combined output
// stream. Always fresh data, never cached: the tail is the only response
// channel the server has.
type LogSource interface {
	Tail(ctx context.Context, lines int) (string, error)
}

// CapTailLines clamps a requested line count to the allowed range.
func CapTailLines(lines int) int {
	if lines <= 0 {
		return 50
	}
	if lines > MaxTailLines {
		return MaxTailLines
	}
	return lines
}

// cliLogSource reads logs with the docker CLI through a transport.
type cliLogSource struct {
	tr         transport.Transport
	dockerPath string
	container  string
	timeout    time.Duration
}

// Tail fetches the last n lines of container output, stdout and stderr
// combined (startup and version info goes to stderr).
func (s *cliLogSource) Tail(ctx context.Context, lines int) (string, error) {
	lines = CapTailLines(lines)
	cmd := fmt.Sprintf("%s logs --tail %d %s 2>&1", s.dockerPath, lines, s.container)
	res, err := s.tr.Run(ctx, cmd, s.timeout)
	if err != nil {
		return "", err
	}
	if !res.Ok() {
		return "", fmt.Errorf("docker logs exited %d: %s", res.ExitCode, res.Stderr)
	}
	return res.Stdout, nil
}
