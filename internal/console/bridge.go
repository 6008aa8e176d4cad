package console

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xtamtamx/pickaxe-rcon/internal/transport"
)

// Bridge reconstructs a synchronous command/response abstraction on top of
// the server's one-way console channel. Commands go in through the
// transport; the only observable output is the shared log stream, so
// responses are recovered by scanning a fresh log tail with recency-biased
// heuristics. The newest matching line is assumed to belong to the command
// just issued, which can misattribute output under concurrent traffic —
// an accepted limitation of the managed server's protocol.
type Bridge struct {
	tr        transport.Transport
	logs      LogSource
	lifecycle Lifecycle
	opts      Options
}

// New creates a bridge with explicit collaborators. Tests inject a fake
// transport and log source here.
func New(tr transport.Transport, logs LogSource, lifecycle Lifecycle, opts Options) *Bridge {
	return &Bridge{
		tr:        tr,
		logs:      logs,
		lifecycle: lifecycle,
		opts:      opts,
	}
}

// NewCLI creates a bridge whose log source and lifecycle run through the
// docker CLI on the given transport. This is the only wiring that works
// across an SSH hop.
func NewCLI(tr transport.Transport, opts Options) *Bridge {
	return New(tr,
		&cliLogSource{
			tr:         tr,
			dockerPath: opts.DockerPath,
			container:  opts.ContainerName,
			timeout:    opts.CommandTimeout,
		},
		&cliLifecycle{tr: tr, opts: opts},
		opts)
}

// SendCommand injects a command into the server console, fire-and-forget.
// Success reflects only transport delivery; no output is collected.
func (b *Bridge) SendCommand(ctx context.Context, command string) CommandResult {
	cmd := fmt.Sprintf("%s exec -i %s send-command %s",
		b.opts.DockerPath, b.opts.ContainerName, transport.Quote(command))

	res, err := b.tr.Run(ctx, cmd, b.opts.CommandTimeout)
	if err != nil {
		return CommandResult{Success: false, Error: fmt.Sprintf("Error: %v", err)}
	}
	if !res.Ok() {
		return CommandResult{Success: false, Error: fmt.Sprintf("Error: %s", res.Stderr)}
	}
	return CommandResult{Success: true, Response: strings.TrimSpace(res.Stdout)}
}

// SendCommandWithOutput injects a command and then tries to recover its
// output from the log tail. Commands with a stable output shape (list,
// seed) get dedicated recovery paths; everything else falls back to
// keyword heuristics and, failing that, a synthesized confirmation.
func (b *Bridge) SendCommandWithOutput(ctx context.Context, command string) CommandResult {
	cmdLower := strings.ToLower(strings.TrimSpace(command))

	if cmdLower == "list" {
		return b.listWithOutput(ctx)
	}
	if cmdLower == "seed" {
		return b.seedWithOutput(ctx, command)
	}

	return b.genericWithOutput(ctx, command)
}

// genericWithOutput is the keyword-heuristic recovery path shared by all
// commands without a dedicated output shape.
func (b *Bridge) genericWithOutput(ctx context.Context, command string) CommandResult {
	cmdLower := strings.ToLower(strings.TrimSpace(command))

	sent := b.SendCommand(ctx, command)
	if !sent.Success {
		return sent
	}

	// Let the asynchronous log flush catch up before reading the tail.
	time.Sleep(b.opts.SettleDelay)

	tail, err := b.logs.Tail(ctx, b.opts.LogTailLines)
	if err != nil {
		return CommandResult{Success: false, Error: "Command sent but could not verify execution"}
	}

	lines := strings.Split(tail, "\n")

	if strings.Contains(cmdLower, "seed") {
		if resp, ok := extractAfterMarker(lines, "Seed"); ok {
			return CommandResult{Success: true, Response: resp}
		}
	}

	if strings.Contains(cmdLower, "time query") {
		for i := len(lines) - 1; i >= 0; i-- {
			line := lines[i]
			if strings.Contains(strings.ToLower(line), "time is") && strings.Contains(line, "INFO]") {
				parts := strings.SplitN(line, "INFO]", 2)
				if len(parts) > 1 {
					return CommandResult{Success: true, Response: strings.TrimSpace(parts[1])}
				}
			}
		}
	}

	// No matching line. The transport already confirmed delivery, so this
	// is a correlation miss, not a failure.
	return CommandResult{Success: true, Response: fmt.Sprintf("✓ Command %q executed", command)}
}

// extractAfterMarker scans lines newest-first for one containing marker and
// returns the text after the log-level tag, or the whole line when the tag
// is absent.
func extractAfterMarker(lines []string, marker string) (string, bool) {
	for i := len(lines) - 1; i >= 0; i-- {
		line := lines[i]
		if !strings.Contains(line, marker) {
			continue
		}
		if strings.Contains(line, "INFO]") {
			parts := strings.SplitN(line, "INFO]", 2)
			if len(parts) > 1 {
				return strings.TrimSpace(parts[1]), true
			}
			continue
		}
		return strings.TrimSpace(line), true
	}
	return "", false
}

func (b *Bridge) listWithOutput(ctx context.Context) CommandResult {
	players := b.GetOnlinePlayers(ctx)
	if !players.Success {
		// Roster scrape failed; fall back to the generic send-and-confirm
		// path rather than reporting a failure for a delivered command.
		return b.genericWithOutput(ctx, "list")
	}
	if len(players.Players) == 0 {
		return CommandResult{Success: true, Response: "There are 0/20 players online"}
	}
	return CommandResult{
		Success: true,
		Response: fmt.Sprintf("There are %d/20 players online:\n%s",
			len(players.Players), strings.Join(players.Players, "\n")),
	}
}

func (b *Bridge) seedWithOutput(ctx context.Context, command string) CommandResult {
	sent := b.SendCommand(ctx, command)
	if !sent.Success {
		return sent
	}

	time.Sleep(b.opts.SettleDelay)

	if tail, err := b.logs.Tail(ctx, b.opts.LogTailLines); err == nil {
		lines := strings.Split(tail, "\n")
		for i := len(lines) - 1; i >= 0; i-- {
			line := lines[i]
			if strings.Contains(line, "Seed") && strings.Contains(line, "INFO]") {
				parts := strings.SplitN(line, "INFO]", 2)
				if len(parts) > 1 {
					return CommandResult{Success: true, Response: strings.TrimSpace(parts[1])}
				}
			}
		}
	}

	// Structured fallback: server.properties carries the configured seed.
	props := b.GetServerProperties(ctx)
	if props.Success {
		seed := props.Properties["level-seed"]
		if seed == "" {
			seed = "Not set"
		}
		return CommandResult{Success: true, Response: fmt.Sprintf("Seed from server.properties: %s", seed)}
	}

	return CommandResult{Success: true, Response: fmt.Sprintf("✓ Command %q executed", command)}
}

// GetOnlinePlayers sends the list command and scrapes the player roster
// from the log tail. A missing header yields an empty roster, not an
// error: the server prints nothing extra when nobody is online.
func (b *Bridge) GetOnlinePlayers(ctx context.Context) PlayerList {
	sent := b.SendCommand(ctx, "list")
	if !sent.Success {
		return PlayerList{Success: false, Players: []string{}, Error: sent.Error}
	}

	time.Sleep(b.opts.ListSettleDelay)

	tail, err := b.logs.Tail(ctx, b.opts.ListTailLines)
	if err != nil {
		return PlayerList{Success: false, Players: []string{}, Error: err.Error()}
	}

	players := []string{}
	lines := strings.Split(tail, "\n")
	for i, line := range lines {
		if !strings.Contains(strings.ToLower(line), "players online:") {
			continue
		}
		// Player names follow the header, one per line, until a blank line
		// or the next log entry.
		for j := i + 1; j < len(lines); j++ {
			next := strings.TrimSpace(lines[j])
			if next == "" || strings.Contains(next, "[") || strings.Contains(next, "INFO") {
				break
			}
			players = append(players, next)
		}
		break
	}

	return PlayerList{Success: true, Players: players}
}

// IsRunning reports whether the server container is up
func (b *Bridge) IsRunning(ctx context.Context) bool {
	return b.lifecycle.IsRunning(ctx)
}

// RestartContainer restarts the server container
func (b *Bridge) RestartContainer(ctx context.Context) ActionResult {
	return b.lifecycle.Restart(ctx)
}

// StopContainer stops the server container
func (b *Bridge) StopContainer(ctx context.Context) ActionResult {
	return b.lifecycle.Stop(ctx)
}

// StartContainer starts the server container
func (b *Bridge) StartContainer(ctx context.Context) ActionResult {
	return b.lifecycle.Start(ctx)
}

// ContainerStats returns a resource usage snapshot for the container
func (b *Bridge) ContainerStats(ctx context.Context) ContainerStats {
	return b.lifecycle.Stats(ctx)
}

// GetLogs returns the last n lines of server output
func (b *Bridge) GetLogs(ctx context.Context, lines int) (string, error) {
	return b.logs.Tail(ctx, lines)
}

// ServerVersion extracts the running server version from recent logs
func (b *Bridge) ServerVersion(ctx context.Context) VersionInfo {
	tail, err := b.logs.Tail(ctx, 50)
	if err != nil {
		return VersionInfo{Success: false, Version: "Unknown"}
	}
	for _, line := range strings.Split(tail, "\n") {
		if strings.Contains(line, "Version") {
			return VersionInfo{Success: true, Version: strings.TrimSpace(line)}
		}
	}
	return VersionInfo{Success: false, Version: "Unknown"}
}
