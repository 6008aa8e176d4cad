package console

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/xtamtamx/pickaxe-rcon/internal/transport"
)

// Lifecycle manages the server container's process state. Two
// implementations exist: a docker-CLI form driven through a Transport (the
// only option when the container lives behind an SSH hop) and a Docker SDK
// form used when the agent runs next to the daemon.
type Lifecycle interface {
	Start(ctx context.Context) ActionResult
	Stop(ctx context.Context) ActionResult
	Restart(ctx context.Context) ActionResult
	IsRunning(ctx context.Context) bool
	Stats(ctx context.Context) ContainerStats
}

// cliLifecycle drives the docker CLI through a transport.
type cliLifecycle struct {
	tr   transport.Transport
	opts Options
}

func (l *cliLifecycle) Start(ctx context.Context) ActionResult {
	cmd := fmt.Sprintf("%s start %s", l.opts.DockerPath, l.opts.ContainerName)
	res, err := l.tr.Run(ctx, cmd, l.opts.LifecycleTimeout)
	if err != nil {
		return ActionResult{Success: false, Error: fmt.Sprintf("failed to start container: %v", err)}
	}
	if !res.Ok() {
		return ActionResult{Success: false, Error: fmt.Sprintf("failed to start container: %s", res.Stderr)}
	}
	return ActionResult{Success: true, Message: "Server container started successfully"}
}

func (l *cliLifecycle) Stop(ctx context.Context) ActionResult {
	cmd := fmt.Sprintf("%s stop %s", l.opts.DockerPath, l.opts.ContainerName)
	res, err := l.tr.Run(ctx, cmd, l.opts.LifecycleTimeout)
	if err != nil {
		return ActionResult{Success: false, Error: fmt.Sprintf("failed to stop container: %v", err)}
	}
	if !res.Ok() {
		return ActionResult{Success: false, Error: fmt.Sprintf("failed to stop container: %s", res.Stderr)}
	}
	return ActionResult{Success: true, Message: "Server container stopped successfully"}
}

func (l *cliLifecycle) Restart(ctx context.Context) ActionResult {
	cmd := fmt.Sprintf("%s restart %s", l.opts.DockerPath, l.opts.ContainerName)
	res, err := l.tr.Run(ctx, cmd, l.opts.RestartTimeout)
	if err != nil {
		return ActionResult{Success: false, Error: fmt.Sprintf("failed to restart container: %v", err)}
	}
	if !res.Ok() {
		return ActionResult{Success: false, Error: fmt.Sprintf("failed to restart container: %s", res.Stderr)}
	}
	return ActionResult{Success: true, Message: "Server container restarted successfully"}
}

// IsRunning reports whether the container status carries the "Up" marker.
// Any other status text, or a failed probe, counts as not running.
func (l *cliLifecycle) IsRunning(ctx context.Context) bool {
	cmd := fmt.Sprintf("%s ps --filter name=%s --format '{{.Status}}'",
		l.opts.DockerPath, l.opts.ContainerName)
	res, err := l.tr.Run(ctx, cmd, l.opts.CommandTimeout)
	if err != nil || !res.Ok() {
		return false
	}
	status := strings.TrimSpace(res.Stdout)
	return status != "" && strings.Contains(status, "Up")
}

// Stats reads one docker stats sample in JSON format.
func (l *cliLifecycle) Stats(ctx context.Context) ContainerStats {
	cmd := fmt.Sprintf(`%s stats %s --no-stream --format "{{json .}}"`,
		l.opts.DockerPath, l.opts.ContainerName)
	res, err := l.tr.Run(ctx, cmd, l.opts.CommandTimeout)
	if err != nil || !res.Ok() {
		return ContainerStats{Success: false, Error: "Failed to retrieve container stats"}
	}

	var raw struct {
		CPUPerc  string `json:"CPUPerc"`
		MemUsage string `json:"MemUsage"`
		MemPerc  string `json:"MemPerc"`
		NetIO    string `json:"NetIO"`
		BlockIO  string `json:"BlockIO"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(res.Stdout)), &raw); err != nil {
		return ContainerStats{Success: false, Error: fmt.Sprintf("Failed to parse stats: %v", err)}
	}

	memUsed, memLimit := "0B", "0B"
	if parts := strings.Split(raw.MemUsage, " / "); len(parts) == 2 {
		memUsed, memLimit = parts[0], parts[1]
	}

	return ContainerStats{
		Success:       true,
		CPUPercent:    parsePercent(raw.CPUPerc),
		MemoryUsed:    memUsed,
		MemoryLimit:   memLimit,
		MemoryPercent: parsePercent(raw.MemPerc),
		NetworkIO:     raw.NetIO,
		BlockIO:       raw.BlockIO,
	}
}

func parsePercent(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(s), "%"), 64)
	if err != nil {
		return 0
	}
	return v
}
