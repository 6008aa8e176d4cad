package console

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
)

// CreateNewWorld deletes the current world so the server regenerates it on
// next start, optionally setting a new seed first and restarting the
// container. Each step short-circuits on failure and names itself in the
// result.
func (b *Bridge) CreateNewWorld(ctx context.Context, seed string, autoRestart bool) ActionResult {
	worldName, ok := b.worldName(ctx)
	if !ok {
		return ActionResult{Success: false, Error: "Failed to read world name", Step: "properties"}
	}

	// The seed must land in server.properties before the world directory
	// goes away, or the regenerated world ignores it.
	if seed != "" {
		update := b.UpdateServerProperties(ctx, map[string]string{"level-seed": seed})
		if !update.Success {
			return ActionResult{
				Success: false,
				Error:   fmt.Sprintf("Failed to update seed in server.properties: %s", update.Error),
				Step:    "seed",
			}
		}
	}

	log.Printf("[console] deleting world %q", worldName)
	removeCmd := fmt.Sprintf(`%s exec -i %s sh -c "rm -rf /data/worlds/\"%s\""`,
		b.opts.DockerPath, b.opts.ContainerName, worldName)
	res, err := b.tr.Run(ctx, removeCmd, b.opts.CommandTimeout)
	if err != nil {
		return ActionResult{Success: false, Error: fmt.Sprintf("Failed to delete world: %v", err), Step: "delete"}
	}
	if !res.Ok() {
		return ActionResult{Success: false, Error: fmt.Sprintf("Failed to delete world: %s", res.Stderr), Step: "delete"}
	}

	withSeed := ""
	if seed != "" {
		withSeed = fmt.Sprintf(" With seed: %s", seed)
	}

	if !autoRestart {
		return ActionResult{
			Success: true,
			Message: "Current world deleted. New world will generate on next server start." + withSeed,
		}
	}

	restart := b.RestartContainer(ctx)
	if !restart.Success {
		msg := "World deleted but failed to restart server. Please restart manually."
		if seed != "" {
			msg += fmt.Sprintf(" Seed %s is set and ready.", seed)
		}
		return ActionResult{Success: false, Error: msg, Step: "restart"}
	}

	return ActionResult{
		Success: true,
		Message: "World deleted and server restarted! New world is generating..." + withSeed,
	}
}

// UpdateServer upgrades the Bedrock server binary: stop the container,
// remove the cached server download so the entrypoint fetches the latest,
// pull a fresh image, start again. The image pull is best effort.
func (b *Bridge) UpdateServer(ctx context.Context) UpdateResult {
	inspectCmd := fmt.Sprintf(`%s inspect %s --format "{{range .Mounts}}{{if eq .Destination \"/data\"}}{{.Source}}{{end}}{{end}}"`,
		b.opts.DockerPath, b.opts.ContainerName)
	inspectRes, err := b.tr.Run(ctx, inspectCmd, b.opts.CommandTimeout)
	if err != nil || !inspectRes.Ok() || strings.TrimSpace(inspectRes.Stdout) == "" {
		return UpdateResult{Success: false, Error: "Failed to find data volume path", Step: "inspect"}
	}
	dataPath := strings.TrimSpace(inspectRes.Stdout)

	oldVersion := b.grepVersion(ctx)

	stop := b.StopContainer(ctx)
	if !stop.Success {
		return UpdateResult{Success: false, Error: "Failed to stop container", Step: "stop"}
	}

	rmCmd := fmt.Sprintf("rm -f %s/bedrock_server-*", dataPath)
	if _, err := b.tr.Run(ctx, rmCmd, b.opts.CommandTimeout); err != nil {
		log.Printf("[console] failed to remove cached server binary: %v", err)
	}

	pullCmd := fmt.Sprintf("%s pull itzg/minecraft-bedrock-server:latest", b.opts.DockerPath)
	if _, err := b.tr.Run(ctx, pullCmd, 5*time.Minute); err != nil {
		log.Printf("[console] image pull failed, continuing with cached image: %v", err)
	}

	start := b.StartContainer(ctx)
	if !start.Success {
		return UpdateResult{Success: false, Error: "Failed to start container after update", Step: "start"}
	}

	// Give the entrypoint time to download and boot the new server before
	// looking for the version banner.
	time.Sleep(45 * time.Second)

	newVersion := b.grepVersion(ctx)

	switch {
	case newVersion != "Unknown" && newVersion != oldVersion:
		return UpdateResult{
			Success:    true,
			Message:    fmt.Sprintf("Updated from %s to %s", oldVersion, newVersion),
			Updated:    true,
			OldVersion: oldVersion,
			NewVersion: newVersion,
		}
	case newVersion != "Unknown":
		return UpdateResult{
			Success:    true,
			Message:    fmt.Sprintf("Server restarted with %s (was already latest)", newVersion),
			Updated:    false,
			NewVersion: newVersion,
		}
	default:
		return UpdateResult{Success: true, Message: "Server restarted, check logs for version", Updated: true}
	}
}

func (b *Bridge) grepVersion(ctx context.Context) string {
	cmd := fmt.Sprintf(`%s logs --tail 100 %s 2>&1 | grep -o "Version: [0-9.]*" | tail -1`,
		b.opts.DockerPath, b.opts.ContainerName)
	res, err := b.tr.Run(ctx, cmd, b.opts.CommandTimeout)
	if err != nil || res == nil {
		return "Unknown"
	}
	v := strings.TrimSpace(res.Stdout)
	if v == "" {
		return "Unknown"
	}
	return v
}
