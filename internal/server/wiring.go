package server

import (
	"context"
	"log"
	"time"

	"github.com/xtamtamx/pickaxe-rcon/config"
	"github.com/xtamtamx/pickaxe-rcon/internal/console"
	"github.com/xtamtamx/pickaxe-rcon/internal/transport"
)

// NewBridge builds the console bridge for the current connection
// settings. SSH credentials select the CLI-over-SSH wiring; otherwise
// the local Docker daemon is preferred, with the CLI as fallback when
// the daemon socket is not reachable. This is the single point where
// the connection capability is probed.
func NewBridge(cfg *config.Config) *console.Bridge {
	conn := cfg.Connection()

	opts := console.Options{
		DockerPath:    cfg.DockerPath,
		ContainerName: conn.ContainerName,

		SettleDelay:       cfg.SettleDelay,
		ListSettleDelay:   cfg.ListSettleDelay,
		BackupSettleDelay: cfg.BackupSettleDelay,
		LogTailLines:      cfg.LogTailLines,
		ListTailLines:     cfg.ListTailLines,

		CommandTimeout:   cfg.CommandTimeout,
		LifecycleTimeout: cfg.LifecycleTimeout,
		RestartTimeout:   cfg.RestartTimeout,
	}

	if conn.UseSSH() {
		log.Printf("[bridge] using ssh connection to %s@%s", conn.SSHUser, conn.SSHHost)
		return console.NewCLI(transport.NewSSH(conn.SSHHost, conn.SSHUser, conn.SSHKeyPath), opts)
	}

	local := transport.NewLocal()
	if dm, err := console.NewDockerManager(conn.ContainerName); err == nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if dm.IsAvailable(ctx) {
			log.Printf("[bridge] using local docker daemon for container %s", conn.ContainerName)
			return console.New(local, dm, dm, opts)
		}
		dm.Close()
	}

	log.Printf("[bridge] docker daemon unreachable, using docker cli for container %s", conn.ContainerName)
	return console.NewCLI(local, opts)
}
