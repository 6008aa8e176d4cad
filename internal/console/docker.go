package console

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/client"
)

// DockerManager is the direct, no-SSH capability set: it talks to the local
// Docker daemon through the SDK instead of shelling out. It implements both
// Lifecycle and LogSource for the server container.
type DockerManager struct {
	client    *client.Client
	container string
}

// NewDockerManager creates a manager bound to the named container
func NewDockerManager(containerName string) (*DockerManager, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}

	return &DockerManager{
		client:    cli,
		container: containerName,
	}, nil
}

// IsAvailable checks if the Docker daemon is reachable
func (m *DockerManager) IsAvailable(ctx context.Context) bool {
	_, err := m.client.Ping(ctx)
	return err == nil
}

// Close closes the Docker client
func (m *DockerManager) Close() error {
	return m.client.Close()
}

// Start starts the server container
func (m *DockerManager) Start(ctx context.Context) ActionResult {
	if err := m.client.ContainerStart(ctx, m.container, types.ContainerStartOptions{}); err != nil {
		return ActionResult{Success: false, Error: fmt.Sprintf("failed to start container: %v", err)}
	}
	return ActionResult{Success: true, Message: "Server container started successfully"}
}

// Stop stops the server container
func (m *DockerManager) Stop(ctx context.Context) ActionResult {
	timeout := 60
	if err := m.client.ContainerStop(ctx, m.container, container.StopOptions{Timeout: &timeout}); err != nil {
		return ActionResult{Success: false, Error: fmt.Sprintf("failed to stop container: %v", err)}
	}
	return ActionResult{Success: true, Message: "Server container stopped successfully"}
}

// Restart restarts the server container
func (m *DockerManager) Restart(ctx context.Context) ActionResult {
	timeout := 60
	if err := m.client.ContainerRestart(ctx, m.container, container.StopOptions{Timeout: &timeout}); err != nil {
		return ActionResult{Success: false, Error: fmt.Sprintf("failed to restart container: %v", err)}
	}
	return ActionResult{Success: true, Message: "Server container restarted successfully"}
}

// IsRunning reports whether the container status carries the "Up" marker
func (m *DockerManager) IsRunning(ctx context.Context) bool {
	containers, err := m.client.ContainerList(ctx, types.ContainerListOptions{
		Filters: filters.NewArgs(filters.Arg("name", m.container)),
	})
	if err != nil || len(containers) == 0 {
		return false
	}
	return strings.Contains(containers[0].Status, "Up")
}

// Tail returns the last n lines of container output, stdout and stderr
// combined, newest line last.
func (m *DockerManager) Tail(ctx context.Context, lines int) (string, error) {
	lines = CapTailLines(lines)

	reader, err := m.client.ContainerLogs(ctx, m.container, types.ContainerLogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Tail:       strconv.Itoa(lines),
	})
	if err != nil {
		return "", fmt.Errorf("failed to get container logs: %w", err)
	}
	defer reader.Close()

	var sb strings.Builder
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		line := scanner.Text()
		// Docker logs have an 8-byte header for each line
		if len(line) > 8 {
			line = line[8:]
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}

	return sb.String(), nil
}

// Stats returns one resource usage reading for the container
func (m *DockerManager) Stats(ctx context.Context) ContainerStats {
	stats, err := m.client.ContainerStats(ctx, m.container, false)
	if err != nil {
		return ContainerStats{Success: false, Error: fmt.Sprintf("failed to get container stats: %v", err)}
	}
	defer stats.Body.Close()

	var v types.StatsJSON
	if err := decodeStats(stats.Body, &v); err != nil {
		return ContainerStats{Success: false, Error: fmt.Sprintf("failed to decode stats: %v", err)}
	}

	// Calculate CPU percentage
	cpuDelta := float64(v.CPUStats.CPUUsage.TotalUsage - v.PreCPUStats.CPUUsage.TotalUsage)
	systemDelta := float64(v.CPUStats.SystemUsage - v.PreCPUStats.SystemUsage)
	cpuPercent := 0.0
	if systemDelta > 0.0 && cpuDelta > 0.0 {
		cpuPercent = (cpuDelta / systemDelta) * float64(len(v.CPUStats.CPUUsage.PercpuUsage)) * 100.0
	}

	memPercent := 0.0
	if v.MemoryStats.Limit > 0 {
		memPercent = float64(v.MemoryStats.Usage) / float64(v.MemoryStats.Limit) * 100.0
	}

	var netRx, netTx uint64
	for _, net := range v.Networks {
		netRx += net.RxBytes
		netTx += net.TxBytes
	}

	var blockRead, blockWrite uint64
	for _, bio := range v.BlkioStats.IoServiceBytesRecursive {
		switch bio.Op {
		case "Read":
			blockRead += bio.Value
		case "Write":
			blockWrite += bio.Value
		}
	}

	return ContainerStats{
		Success:       true,
		CPUPercent:    cpuPercent,
		MemoryUsed:    formatBytes(v.MemoryStats.Usage),
		MemoryLimit:   formatBytes(v.MemoryStats.Limit),
		MemoryPercent: memPercent,
		NetworkIO:     fmt.Sprintf("%s / %s", formatBytes(netRx), formatBytes(netTx)),
		BlockIO:       fmt.Sprintf("%s / %s", formatBytes(blockRead), formatBytes(blockWrite)),
	}
}

func decodeStats(reader io.Reader, v *types.StatsJSON) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func formatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%dB", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
