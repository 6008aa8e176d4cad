package console

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
)

const backupsDir = "/data/backups"

// Backup filenames are interpolated into remote commands, so anything that
// is not a plain archive name is rejected outright instead of sanitized.
var backupNameRe = regexp.MustCompile(`^[\w.-]+\.tar\.gz$`)

// ValidBackupName reports whether filename is a safe backup archive name:
// .tar.gz extension, no path separators, no parent-directory segments.
func ValidBackupName(filename string) bool {
	if !backupNameRe.MatchString(filename) {
		return false
	}
	if strings.Contains(filename, "..") || strings.Contains(filename, "/") {
		return false
	}
	return true
}

// ListBackups lists the archives in the container's backups directory
func (b *Bridge) ListBackups(ctx context.Context) BackupList {
	cmd := fmt.Sprintf(`%s exec -i %s sh -c "ls -lt %s/ 2>/dev/null | grep -v ^d || echo NO_BACKUPS"`,
		b.opts.DockerPath, b.opts.ContainerName, backupsDir)
	res, err := b.tr.Run(ctx, cmd, b.opts.CommandTimeout)
	if err != nil || !res.Ok() {
		return BackupList{Success: false, Backups: []Backup{}, Error: "Failed to list backups"}
	}

	backups := []Backup{}
	for _, line := range strings.Split(res.Stdout, "\n") {
		if line == "" || strings.HasPrefix(line, "total") || strings.Contains(line, "NO_BACKUPS") {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) < 9 {
			continue
		}
		backups = append(backups, Backup{
			Filename: parts[len(parts)-1],
			Size:     parts[4],
			Date:     strings.Join(parts[5:8], " "),
		})
	}

	return BackupList{Success: true, Backups: backups}
}

// CreateBackup archives the current world into the backups directory. An
// empty name gets a timestamped default; custom names get the .tar.gz
// extension appended when missing.
func (b *Bridge) CreateBackup(ctx context.Context, name string) BackupResult {
	if name == "" {
		name = fmt.Sprintf("world_backup_%s.tar.gz", time.Now().Format("20060102_150405"))
	} else if !strings.HasSuffix(name, ".tar.gz") {
		name += ".tar.gz"
	}

	if !ValidBackupName(name) {
		return BackupResult{Success: false, Error: "Invalid backup filename"}
	}

	worldName, ok := b.worldName(ctx)
	if !ok {
		return BackupResult{Success: false, Error: "Failed to read world name"}
	}

	mkdirCmd := fmt.Sprintf("%s exec -i %s mkdir -p %s", b.opts.DockerPath, b.opts.ContainerName, backupsDir)
	if _, err := b.tr.Run(ctx, mkdirCmd, b.opts.CommandTimeout); err != nil {
		return BackupResult{Success: false, Error: fmt.Sprintf("Failed to create backup: %v", err)}
	}

	backupCmd := fmt.Sprintf(`%s exec -i %s sh -c "cd /data/worlds && tar -czf %s/%s \"%s\""`,
		b.opts.DockerPath, b.opts.ContainerName, backupsDir, name, worldName)
	res, err := b.tr.Run(ctx, backupCmd, b.opts.LifecycleTimeout)
	if err != nil {
		return BackupResult{Success: false, Error: fmt.Sprintf("Failed to create backup: %v", err)}
	}
	if !res.Ok() {
		return BackupResult{Success: false, Error: fmt.Sprintf("Failed to create backup: %s", res.Stderr)}
	}

	return BackupResult{Success: true, Message: fmt.Sprintf("Backup created: %s", name), Filename: name}
}

// RestoreBackup replaces the current world with the named archive's
// contents. The server should be restarted afterwards to load it.
func (b *Bridge) RestoreBackup(ctx context.Context, filename string) ActionResult {
	if !ValidBackupName(filename) {
		return ActionResult{Success: false, Error: "Invalid backup filename"}
	}

	worldName, ok := b.worldName(ctx)
	if !ok {
		return ActionResult{Success: false, Error: "Failed to read world name"}
	}

	removeCmd := fmt.Sprintf(`%s exec -i %s sh -c "rm -rf /data/worlds/\"%s\""`,
		b.opts.DockerPath, b.opts.ContainerName, worldName)
	removeRes, err := b.tr.Run(ctx, removeCmd, b.opts.CommandTimeout)
	if err != nil || !removeRes.Ok() {
		return ActionResult{Success: false, Error: "Failed to remove current world"}
	}

	restoreCmd := fmt.Sprintf(`%s exec -i %s sh -c "cd /data/worlds && tar -xzf %s/%s"`,
		b.opts.DockerPath, b.opts.ContainerName, backupsDir, filename)
	res, err := b.tr.Run(ctx, restoreCmd, b.opts.LifecycleTimeout)
	if err != nil {
		return ActionResult{Success: false, Error: fmt.Sprintf("Failed to restore backup: %v", err)}
	}
	if !res.Ok() {
		return ActionResult{Success: false, Error: fmt.Sprintf("Failed to restore backup: %s", res.Stderr)}
	}

	return ActionResult{Success: true, Message: fmt.Sprintf("World restored from %s. Restart server to load.", filename)}
}

// DeleteBackup removes the named archive
func (b *Bridge) DeleteBackup(ctx context.Context, filename string) ActionResult {
	if !ValidBackupName(filename) {
		return ActionResult{Success: false, Error: "Invalid backup filename"}
	}

	cmd := fmt.Sprintf("%s exec -i %s rm %s/%s", b.opts.DockerPath, b.opts.ContainerName, backupsDir, filename)
	res, err := b.tr.Run(ctx, cmd, b.opts.CommandTimeout)
	if err != nil || !res.Ok() {
		return ActionResult{Success: false, Error: "Failed to delete backup"}
	}

	return ActionResult{Success: true, Message: fmt.Sprintf("Backup %s deleted", filename)}
}

// worldName reads level-name from server.properties, with the Bedrock
// default as fallback.
func (b *Bridge) worldName(ctx context.Context) (string, bool) {
	props := b.GetServerProperties(ctx)
	if !props.Success {
		return "", false
	}
	name := props.Properties["level-name"]
	if name == "" {
		name = "Bedrock level"
	}
	return name, true
}
