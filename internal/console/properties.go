package console

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
)

const propertiesPath = "/data/server.properties"

// base64 payloads above this size are written in multiple append commands
// to stay under the remote shell's argument limit.
const maxChunkSize = 50000

// GetServerProperties reads and parses server.properties from the container
func (b *Bridge) GetServerProperties(ctx context.Context) Properties {
	cmd := fmt.Sprintf("%s exec -i %s cat %s", b.opts.DockerPath, b.opts.ContainerName, propertiesPath)
	res, err := b.tr.Run(ctx, cmd, b.opts.CommandTimeout)
	if err != nil || !res.Ok() {
		return Properties{Success: false, Error: "Failed to read server.properties"}
	}

	return Properties{Success: true, Properties: ParseProperties(res.Stdout)}
}

// ParseProperties parses key=value lines, skipping comments and blanks
func ParseProperties(content string) map[string]string {
	properties := make(map[string]string)
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || !strings.Contains(line, "=") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		properties[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	return properties
}

// RewriteProperties applies updates to the raw file content, preserving
// comments, blank lines and original key order. Keys not already present
// are appended at the end.
func RewriteProperties(content string, updates map[string]string) string {
	lines := strings.Split(content, "\n")
	updatedKeys := make(map[string]bool)

	for i, line := range lines {
		stripped := strings.TrimSpace(line)
		if stripped == "" || strings.HasPrefix(stripped, "#") || !strings.Contains(stripped, "=") {
			continue
		}
		key := strings.TrimSpace(strings.SplitN(stripped, "=", 2)[0])
		if value, ok := updates[key]; ok {
			lines[i] = key + "=" + value
			updatedKeys[key] = true
		}
	}

	for key, value := range updates {
		if !updatedKeys[key] {
			lines = append(lines, key+"="+value)
		}
	}

	return strings.Join(lines, "\n")
}

// UpdateServerProperties rewrites server.properties inside the container.
// The whole file is transferred base64-encoded and replaced in one shot
// rather than edited line by line, so a failed transfer never leaves a
// half-written file behind.
func (b *Bridge) UpdateServerProperties(ctx context.Context, updates map[string]string) ActionResult {
	readCmd := fmt.Sprintf("%s exec -i %s cat %s", b.opts.DockerPath, b.opts.ContainerName, propertiesPath)
	readRes, err := b.tr.Run(ctx, readCmd, b.opts.CommandTimeout)
	if err != nil || !readRes.Ok() {
		return ActionResult{Success: false, Error: "Failed to read current properties"}
	}

	content := RewriteProperties(readRes.Stdout, updates)
	encoded := base64.StdEncoding.EncodeToString([]byte(content))

	if len(encoded) > maxChunkSize {
		return b.writeChunked(ctx, encoded)
	}

	writeCmd := fmt.Sprintf(`%s exec -i %s sh -c "echo %s | base64 -d > %s"`,
		b.opts.DockerPath, b.opts.ContainerName, encoded, propertiesPath)
	writeRes, err := b.tr.Run(ctx, writeCmd, b.opts.CommandTimeout)
	if err != nil {
		return ActionResult{Success: false, Error: fmt.Sprintf("Failed to write server.properties: %v", err)}
	}
	if !writeRes.Ok() {
		return ActionResult{Success: false, Error: fmt.Sprintf("Failed to write server.properties: %s", writeRes.Stderr)}
	}

	return ActionResult{Success: true, Message: "Server properties updated. Restart server for changes to take effect."}
}

// writeChunked appends the encoded payload to a staging file in slices,
// then decodes it over the real file and removes the staging copy.
func (b *Bridge) writeChunked(ctx context.Context, encoded string) ActionResult {
	staging := propertiesPath + ".new"

	rmCmd := fmt.Sprintf(`%s exec -i %s sh -c "rm -f %s"`, b.opts.DockerPath, b.opts.ContainerName, staging)
	if _, err := b.tr.Run(ctx, rmCmd, b.opts.CommandTimeout); err != nil {
		return ActionResult{Success: false, Error: fmt.Sprintf("Failed to prepare staging file: %v", err)}
	}

	for i := 0; i < len(encoded); i += maxChunkSize {
		end := i + maxChunkSize
		if end > len(encoded) {
			end = len(encoded)
		}
		appendCmd := fmt.Sprintf(`%s exec -i %s sh -c "echo %s >> %s"`,
			b.opts.DockerPath, b.opts.ContainerName, encoded[i:end], staging)
		res, err := b.tr.Run(ctx, appendCmd, b.opts.CommandTimeout)
		if err != nil || !res.Ok() {
			return ActionResult{Success: false, Error: "Failed to write properties chunk"}
		}
	}

	decodeCmd := fmt.Sprintf(`%s exec -i %s sh -c "base64 -d %s > %s && rm %s"`,
		b.opts.DockerPath, b.opts.ContainerName, staging, propertiesPath, staging)
	res, err := b.tr.Run(ctx, decodeCmd, b.opts.CommandTimeout)
	if err != nil {
		return ActionResult{Success: false, Error: fmt.Sprintf("Failed to write server.properties: %v", err)}
	}
	if !res.Ok() {
		return ActionResult{Success: false, Error: fmt.Sprintf("Failed to write server.properties: %s", res.Stderr)}
	}

	return ActionResult{Success: true, Message: "Server properties updated. Restart server for changes to take effect."}
}
