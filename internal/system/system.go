// Package system reports metrics for the machine the agent itself runs
// on. Container-level stats come from the console package; this covers
// the host so disk pressure on the backup volume is visible.
package system

import (
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
)

// Snapshot is a point-in-time view of the host
type Snapshot struct {
	Timestamp   time.Time   `json:"timestamp"`
	Hostname    string      `json:"hostname"`
	OS          string      `json:"os"`
	Platform    string      `json:"platform"`
	Uptime      uint64      `json:"uptime"`
	UptimeHuman string      `json:"uptime_human"`
	CPU         CPUUsage    `json:"cpu"`
	Memory      MemoryUsage `json:"memory"`
	Disks       []DiskUsage `json:"disks"`
}

type CPUUsage struct {
	Cores        int     `json:"cores"`
	UsagePercent float64 `json:"usage_percent"`
	LoadAvg1     float64 `json:"load_avg_1"`
	LoadAvg5     float64 `json:"load_avg_5"`
	LoadAvg15    float64 `json:"load_avg_15"`
}

type MemoryUsage struct {
	Total       uint64  `json:"total"`
	Used        uint64  `json:"used"`
	Available   uint64  `json:"available"`
	UsedPercent float64 `json:"used_percent"`
}

type DiskUsage struct {
	Device      string  `json:"device"`
	Mountpoint  string  `json:"mountpoint"`
	Total       uint64  `json:"total"`
	Free        uint64  `json:"free"`
	UsedPercent float64 `json:"used_percent"`
}

// Collect gathers a host snapshot. CPU sampling blocks briefly.
func Collect() (*Snapshot, error) {
	info, err := host.Info()
	if err != nil {
		return nil, fmt.Errorf("failed to get host info: %w", err)
	}

	percent, err := cpu.Percent(200*time.Millisecond, false)
	if err != nil {
		return nil, fmt.Errorf("failed to get cpu percent: %w", err)
	}
	counts, err := cpu.Counts(true)
	if err != nil {
		counts = 0
	}

	loadAvg, err := load.Avg()
	if err != nil {
		// Not available on all platforms
		loadAvg = &load.AvgStat{}
	}

	vmem, err := mem.VirtualMemory()
	if err != nil {
		return nil, fmt.Errorf("failed to get virtual memory: %w", err)
	}

	snap := &Snapshot{
		Timestamp:   time.Now(),
		Hostname:    info.Hostname,
		OS:          info.OS,
		Platform:    info.Platform,
		Uptime:      info.Uptime,
		UptimeHuman: formatUptime(info.Uptime),
		CPU: CPUUsage{
			Cores:     counts,
			LoadAvg1:  loadAvg.Load1,
			LoadAvg5:  loadAvg.Load5,
			LoadAvg15: loadAvg.Load15,
		},
		Memory: MemoryUsage{
			Total:       vmem.Total,
			Used:        vmem.Used,
			Available:   vmem.Available,
			UsedPercent: vmem.UsedPercent,
		},
	}
	if len(percent) > 0 {
		snap.CPU.UsagePercent = percent[0]
	}

	partitions, err := disk.Partitions(false)
	if err == nil {
		for _, p := range partitions {
			if p.Fstype == "squashfs" || p.Fstype == "tmpfs" || p.Fstype == "devtmpfs" {
				continue
			}
			usage, err := disk.Usage(p.Mountpoint)
			if err != nil {
				continue
			}
			snap.Disks = append(snap.Disks, DiskUsage{
				Device:      p.Device,
				Mountpoint:  p.Mountpoint,
				Total:       usage.Total,
				Free:        usage.Free,
				UsedPercent: usage.UsedPercent,
			})
		}
	}

	return snap, nil
}

// formatUptime converts uptime seconds to a short human form
func formatUptime(seconds uint64) string {
	duration := time.Duration(seconds) * time.Second

	days := int(duration.Hours() / 24)
	hours := int(duration.Hours()) % 24
	minutes := int(duration.Minutes()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}
