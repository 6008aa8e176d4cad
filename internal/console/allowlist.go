package console

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

const (
	allowlistPath   = "/data/allowlist.json"
	permissionsPath = "/data/permissions.json"
)

// GetAllowlist reads the server's player allowlist. A missing file is
// created empty rather than reported as an error.
func (b *Bridge) GetAllowlist(ctx context.Context) JSONFile {
	return b.readJSONList(ctx, allowlistPath)
}

// GetPermissions reads the server's operator permission list
func (b *Bridge) GetPermissions(ctx context.Context) JSONFile {
	return b.readJSONList(ctx, permissionsPath)
}

func (b *Bridge) readJSONList(ctx context.Context, path string) JSONFile {
	cmd := fmt.Sprintf("%s exec %s cat %s", b.opts.DockerPath, b.opts.ContainerName, path)
	res, err := b.tr.Run(ctx, cmd, b.opts.CommandTimeout)
	if err != nil {
		return JSONFile{Success: false, Entries: []interface{}{}, Error: fmt.Sprintf("Docker exec failed: %v", err)}
	}

	if res.Ok() {
		var entries []interface{}
		if err := json.Unmarshal([]byte(res.Stdout), &entries); err != nil {
			return JSONFile{Success: false, Entries: []interface{}{}, Error: fmt.Sprintf("JSON decode error: %v", err)}
		}
		return JSONFile{Success: true, Entries: entries}
	}

	if strings.Contains(res.Stderr, "No such file or directory") {
		return b.createEmptyList(ctx, path)
	}

	return JSONFile{Success: false, Entries: []interface{}{}, Error: fmt.Sprintf("Docker exec failed: %s", res.Stderr)}
}

func (b *Bridge) createEmptyList(ctx context.Context, path string) JSONFile {
	encoded := base64.StdEncoding.EncodeToString([]byte("[]"))
	cmd := fmt.Sprintf(`%s exec %s sh -c "echo %s | base64 -d > %s"`,
		b.opts.DockerPath, b.opts.ContainerName, encoded, path)
	res, err := b.tr.Run(ctx, cmd, b.opts.CommandTimeout)
	if err != nil || !res.Ok() {
		return JSONFile{Success: false, Entries: []interface{}{}, Error: fmt.Sprintf("Could not create %s", path)}
	}
	return JSONFile{Success: true, Entries: []interface{}{}}
}
