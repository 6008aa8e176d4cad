package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xtamtamx/pickaxe-rcon/config"
	"github.com/xtamtamx/pickaxe-rcon/internal/cache"
	"github.com/xtamtamx/pickaxe-rcon/internal/console"
	"github.com/xtamtamx/pickaxe-rcon/internal/scheduler"
	"github.com/xtamtamx/pickaxe-rcon/internal/system"
)

// Handlers holds the dependencies shared by all HTTP handlers
type Handlers struct {
	cfg    *config.Config
	bridge *console.Holder
	sched  *scheduler.Scheduler
	cache  *cache.Cache
}

// NewHandlers creates the handler set. Stats and host metrics are cached
// briefly so dashboard polling does not hammer the docker daemon.
func NewHandlers(cfg *config.Config, bridge *console.Holder, sched *scheduler.Scheduler) *Handlers {
	return &Handlers{
		cfg:    cfg,
		bridge: bridge,
		sched:  sched,
		cache:  cache.New(2 * time.Second),
	}
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"service":   "pickaxe-rcon",
		"timestamp": time.Now().Unix(),
	})
}

// ExecuteCommand handles POST /api/command
func (h *Handlers) ExecuteCommand(c *gin.Context) {
	var req struct {
		Command string `json:"command" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "command is required"})
		return
	}

	c.JSON(http.StatusOK, h.bridge.Get().SendCommandWithOutput(c.Request.Context(), req.Command))
}

// GetStatus handles GET /api/status
func (h *Handlers) GetStatus(c *gin.Context) {
	running := h.bridge.Get().IsRunning(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"running":   running,
		"container": h.cfg.Connection().ContainerName,
	})
}

// GetPlayers handles GET /api/players
func (h *Handlers) GetPlayers(c *gin.Context) {
	c.JSON(http.StatusOK, h.bridge.Get().GetOnlinePlayers(c.Request.Context()))
}

// GetVersion handles GET /api/version
func (h *Handlers) GetVersion(c *gin.Context) {
	c.JSON(http.StatusOK, h.bridge.Get().ServerVersion(c.Request.Context()))
}

// GetLogs handles GET /api/logs?lines=
func (h *Handlers) GetLogs(c *gin.Context) {
	lines, err := strconv.Atoi(c.DefaultQuery("lines", "50"))
	if err != nil {
		lines = 50
	}
	lines = console.CapTailLines(lines)

	logs, err := h.bridge.Get().GetLogs(c.Request.Context(), lines)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "error": "Failed to read server logs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "logs": logs, "lines": lines})
}

// GetStats handles GET /api/stats
func (h *Handlers) GetStats(c *gin.Context) {
	if cached, ok := h.cache.Get(cache.KeyStats); ok {
		c.JSON(http.StatusOK, cached)
		return
	}

	stats := h.bridge.Get().ContainerStats(c.Request.Context())
	if stats.Success {
		h.cache.Set(cache.KeyStats, stats)
	}
	c.JSON(http.StatusOK, stats)
}

// GetSystem handles GET /api/system
func (h *Handlers) GetSystem(c *gin.Context) {
	if cached, ok := h.cache.Get(cache.KeySystem); ok {
		c.JSON(http.StatusOK, gin.H{"success": true, "system": cached})
		return
	}

	snap, err := system.Collect()
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "error": "Failed to collect host metrics"})
		return
	}
	h.cache.Set(cache.KeySystem, snap)
	c.JSON(http.StatusOK, gin.H{"success": true, "system": snap})
}

// GetProperties handles GET /api/server-properties
func (h *Handlers) GetProperties(c *gin.Context) {
	c.JSON(http.StatusOK, h.bridge.Get().GetServerProperties(c.Request.Context()))
}

// UpdateProperties handles POST /api/server-properties
func (h *Handlers) UpdateProperties(c *gin.Context) {
	var req struct {
		Properties map[string]string `json:"properties" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Properties) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "properties map is required"})
		return
	}

	c.JSON(http.StatusOK, h.bridge.Get().UpdateServerProperties(c.Request.Context(), req.Properties))
}

// GetAllowlist handles GET /api/allowlist
func (h *Handlers) GetAllowlist(c *gin.Context) {
	c.JSON(http.StatusOK, h.bridge.Get().GetAllowlist(c.Request.Context()))
}

// GetPermissions handles GET /api/permissions
func (h *Handlers) GetPermissions(c *gin.Context) {
	c.JSON(http.StatusOK, h.bridge.Get().GetPermissions(c.Request.Context()))
}

// ListBackups handles GET /api/backups
func (h *Handlers) ListBackups(c *gin.Context) {
	c.JSON(http.StatusOK, h.bridge.Get().ListBackups(c.Request.Context()))
}

// CreateBackup handles POST /api/backups
func (h *Handlers) CreateBackup(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	// Body is optional; an empty name gets a timestamped default.
	_ = c.ShouldBindJSON(&req)

	c.JSON(http.StatusOK, h.bridge.Get().CreateBackup(c.Request.Context(), req.Name))
}

// RestoreBackup handles POST /api/backups/:filename/restore
func (h *Handlers) RestoreBackup(c *gin.Context) {
	c.JSON(http.StatusOK, h.bridge.Get().RestoreBackup(c.Request.Context(), c.Param("filename")))
}

// DeleteBackup handles DELETE /api/backups/:filename
func (h *Handlers) DeleteBackup(c *gin.Context) {
	c.JSON(http.StatusOK, h.bridge.Get().DeleteBackup(c.Request.Context(), c.Param("filename")))
}

// CreateWorld handles POST /api/world/new
func (h *Handlers) CreateWorld(c *gin.Context) {
	var req struct {
		Seed        string `json:"seed"`
		AutoRestart *bool  `json:"auto_restart"`
	}
	_ = c.ShouldBindJSON(&req)

	autoRestart := true
	if req.AutoRestart != nil {
		autoRestart = *req.AutoRestart
	}

	c.JSON(http.StatusOK, h.bridge.Get().CreateNewWorld(c.Request.Context(), req.Seed, autoRestart))
}

// StartServer handles POST /api/server/start
func (h *Handlers) StartServer(c *gin.Context) {
	c.JSON(http.StatusOK, h.bridge.Get().StartContainer(c.Request.Context()))
}

// StopServer handles POST /api/server/stop
func (h *Handlers) StopServer(c *gin.Context) {
	c.JSON(http.StatusOK, h.bridge.Get().StopContainer(c.Request.Context()))
}

// RestartServer handles POST /api/server/restart
func (h *Handlers) RestartServer(c *gin.Context) {
	c.JSON(http.StatusOK, h.bridge.Get().RestartContainer(c.Request.Context()))
}

// UpdateServer handles POST /api/server/update. This blocks for the
// whole stop/pull/start cycle, so the write timeout must cover it.
func (h *Handlers) UpdateServer(c *gin.Context) {
	c.JSON(http.StatusOK, h.bridge.Get().UpdateServer(c.Request.Context()))
}

// ListTasks handles GET /api/scheduler/tasks
func (h *Handlers) ListTasks(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "tasks": h.sched.GetTasks()})
}

// AddTask handles POST /api/scheduler/tasks
func (h *Handlers) AddTask(c *gin.Context) {
	var req struct {
		Name            string  `json:"name" binding:"required"`
		Command         string  `json:"command" binding:"required"`
		ScheduleType    string  `json:"schedule_type"`
		IntervalMinutes float64 `json:"interval_minutes"`
		Cron            string  `json:"cron"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "name and command are required"})
		return
	}

	if req.ScheduleType == "" {
		req.ScheduleType = scheduler.ScheduleInterval
	}

	task, err := h.sched.AddTask(req.Name, req.Command, req.ScheduleType, req.IntervalMinutes, req.Cron)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "task": task})
}

// RemoveTask handles DELETE /api/scheduler/tasks/:id
func (h *Handlers) RemoveTask(c *gin.Context) {
	id := c.Param("id")
	if !h.sched.RemoveTask(id) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "task not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Task removed", "id": id})
}

// ToggleTask handles POST /api/scheduler/tasks/:id/toggle
func (h *Handlers) ToggleTask(c *gin.Context) {
	var req struct {
		Enabled *bool `json:"enabled" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "enabled is required"})
		return
	}

	id := c.Param("id")
	if !h.sched.ToggleTask(id, *req.Enabled) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "task not found"})
		return
	}

	task, _ := h.sched.GetTask(id)
	c.JSON(http.StatusOK, gin.H{"success": true, "task": task})
}

// GetSettings handles GET /api/settings
func (h *Handlers) GetSettings(c *gin.Context) {
	conn := h.cfg.Connection()
	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"ssh_host":       conn.SSHHost,
		"ssh_user":       conn.SSHUser,
		"container_name": conn.ContainerName,
		"use_ssh":        conn.UseSSH(),
	})
}

// UpdateConnection handles PUT /api/settings/connection. Settings are
// persisted to the env file and the bridge is rebuilt in one step, so
// every later request uses the new connection.
func (h *Handlers) UpdateConnection(c *gin.Context) {
	var req struct {
		SSHHost       string `json:"ssh_host"`
		SSHUser       string `json:"ssh_user"`
		ContainerName string `json:"container_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}

	conn := h.cfg.Connection()
	if req.SSHUser == "" {
		req.SSHUser = conn.SSHUser
	}
	if req.ContainerName == "" {
		req.ContainerName = conn.ContainerName
	}

	if err := h.cfg.SaveConnection(req.SSHHost, req.SSHUser, req.ContainerName); err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "error": "Failed to save connection settings"})
		return
	}

	h.bridge.Set(NewBridge(h.cfg))
	h.cache.Delete(cache.KeyStats)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Connection settings updated",
		"use_ssh": h.cfg.UseSSH(),
	})
}
