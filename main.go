package main

import (
	"log"

	"github.com/xtamtamx/pickaxe-rcon/config"
	"github.com/xtamtamx/pickaxe-rcon/internal/console"
	"github.com/xtamtamx/pickaxe-rcon/internal/scheduler"
	"github.com/xtamtamx/pickaxe-rcon/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// The holder lets the settings endpoint swap the bridge at runtime
	// without restarting the scheduler or the HTTP server.
	bridge := console.NewHolder(server.NewBridge(cfg))

	sched := scheduler.New(bridge, scheduler.NewStore(cfg.TasksFile), cfg.BackupSettleDelay, cfg.CommandTimeout)
	if err := sched.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	srv := server.New(cfg, bridge, sched)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
