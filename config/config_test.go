package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresAPIKey(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))
	t.Setenv("API_KEY", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))
	t.Setenv("API_KEY", "secret")

	// Clear every variable whose default is asserted below, so ambient
	// host configuration cannot leak into the test.
	for _, key := range []string{
		"PORT", "HOST", "JWT_SECRET", "SSH_HOST", "SSH_USER",
		"CONTAINER_NAME", "DOCKER_PATH", "DATA_DIR", "TASKS_FILE",
		"SETTLE_DELAY_MS", "LIST_SETTLE_DELAY_MS", "BACKUP_SETTLE_DELAY_MS",
		"LOG_TAIL_LINES", "LIST_TAIL_LINES",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8092, cfg.Port)
	assert.Equal(t, "minecraft-bedrock-server", cfg.ContainerName)
	assert.Equal(t, "docker", cfg.DockerPath)
	assert.Equal(t, 700*time.Millisecond, cfg.SettleDelay)
	assert.Equal(t, 500*time.Millisecond, cfg.ListSettleDelay)
	assert.Equal(t, 2*time.Second, cfg.BackupSettleDelay)
	assert.Equal(t, 30, cfg.LogTailLines)
	assert.Equal(t, 20, cfg.ListTailLines)
	assert.Equal(t, "data/scheduled_tasks.json", cfg.TasksFile)

	// JWT secret falls back to the API key
	assert.Equal(t, "secret", cfg.JWTSecret)
	assert.False(t, cfg.UseSSH())
}

func TestLoad_SSHMode(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))
	t.Setenv("API_KEY", "secret")
	t.Setenv("SSH_HOST", "192.168.1.50")
	t.Setenv("SSH_USER", "mc")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.UseSSH())
	assert.Equal(t, "192.168.1.50", cfg.SSHHost)
	assert.Equal(t, "mc", cfg.SSHUser)
}

func TestAddr(t *testing.T) {
	cfg := LoadWithDefaults()
	assert.Equal(t, "0.0.0.0:8092", cfg.Addr())
}

func TestGenerateAPIKey(t *testing.T) {
	key1, err := GenerateAPIKey()
	require.NoError(t, err)
	assert.Len(t, key1, 64)

	key2, err := GenerateAPIKey()
	require.NoError(t, err)
	assert.NotEqual(t, key1, key2)
}

func TestUpdateEnvFile_UpdatesExistingKeys(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("API_KEY=old\nSSH_HOST=1.2.3.4\nPORT=8092\n"), 0o600))

	err := UpdateEnvFile(envFile, map[string]string{"SSH_HOST": "5.6.7.8"})
	require.NoError(t, err)

	data, err := os.ReadFile(envFile)
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "SSH_HOST=5.6.7.8")
	assert.NotContains(t, content, "1.2.3.4")
	assert.Contains(t, content, "API_KEY=old")
	assert.Contains(t, content, "PORT=8092")
}

func TestUpdateEnvFile_AddsMissingKeys(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("API_KEY=old\n"), 0o600))

	err := UpdateEnvFile(envFile, map[string]string{"CONTAINER_NAME": "bedrock"})
	require.NoError(t, err)

	data, err := os.ReadFile(envFile)
	require.NoError(t, err)

	assert.Contains(t, string(data), "CONTAINER_NAME=bedrock")
	assert.Contains(t, string(data), "API_KEY=old")
}

func TestUpdateEnvFile_CreatesFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")

	err := UpdateEnvFile(envFile, map[string]string{"SSH_HOST": "10.0.0.1"})
	require.NoError(t, err)

	data, err := os.ReadFile(envFile)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "SSH_HOST=10.0.0.1"))
}

func TestSaveConnection_ConcurrentReads(t *testing.T) {
	cfg := LoadWithDefaults()
	cfg.EnvFile = filepath.Join(t.TempDir(), ".env")

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				assert.NoError(t, cfg.SaveConnection(fmt.Sprintf("10.0.0.%d", j), "steve", "bedrock"))
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				conn := cfg.Connection()
				_ = conn.UseSSH()
				_ = cfg.UseSSH()
			}
		}()
	}
	wg.Wait()

	assert.True(t, cfg.UseSSH())
	assert.Equal(t, "bedrock", cfg.Connection().ContainerName)
}

func TestSaveConnection(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	cfg := LoadWithDefaults()
	cfg.EnvFile = envFile

	require.NoError(t, cfg.SaveConnection("192.168.1.99", "steve", "bedrock"))

	assert.Equal(t, "192.168.1.99", cfg.SSHHost)
	assert.Equal(t, "steve", cfg.SSHUser)
	assert.Equal(t, "bedrock", cfg.ContainerName)
	assert.True(t, cfg.UseSSH())

	data, err := os.ReadFile(envFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "SSH_HOST=192.168.1.99")
}
