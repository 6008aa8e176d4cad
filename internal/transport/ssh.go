package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// SSH runs every command line through an SSH hop to the host that manages
// the server container.
type SSH struct {
	Host    string
	User    string
	KeyPath string
}

// NewSSH creates an SSH transport
func NewSSH(host, user, keyPath string) *SSH {
	return &SSH{
		Host:    host,
		User:    user,
		KeyPath: keyPath,
	}
}

// Run executes commandLine on the remote host
func (t *SSH) Run(ctx context.Context, commandLine string, timeout time.Duration) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := []string{
		"-i", t.KeyPath,
		"-o", "StrictHostKeyChecking=no",
		"-o", "UserKnownHostsFile=/dev/null",
		"-o", "LogLevel=ERROR",
		fmt.Sprintf("%s@%s", t.User, t.Host),
		commandLine,
	}

	cmd := exec.CommandContext(ctx, "ssh", args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return nil, fmt.Errorf("ssh command timed out after %s", timeout)
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// The remote command ran and exited non-zero; an ssh connection
			// failure also lands here with exit code 255.
			return &Result{
				ExitCode: exitErr.ExitCode(),
				Stdout:   stdout.String(),
				Stderr:   stderr.String(),
			}, nil
		}
		return nil, fmt.Errorf("ssh invocation failed: %w", err)
	}

	return &Result{
		ExitCode: 0,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}, nil
}
