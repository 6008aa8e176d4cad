package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

// GenerateAPIKey generates a secure random API key
func GenerateAPIKey() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// Config holds all configuration for the agent
type Config struct {
	// Server settings
	Port         int
	Host         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Authentication
	APIKey    string
	JWTSecret string

	// Security
	AllowedOrigins []string
	RateLimitRPS   int

	// Connection to the Bedrock server. SSHHost empty means the container
	// runs on the same host as the agent. SaveConnection rewrites these at
	// runtime, so concurrent readers go through Connection() under mu.
	mu            sync.RWMutex
	SSHHost       string
	SSHUser       string
	SSHKeyPath    string
	ContainerName string
	DockerPath    string
	DataDir       string

	// Console bridge tuning. The settle delays compensate for the async
	// log flush between injecting a command and its output appearing.
	SettleDelay       time.Duration
	ListSettleDelay   time.Duration
	BackupSettleDelay time.Duration
	LogTailLines      int
	ListTailLines     int

	// Timeouts by operation class
	CommandTimeout   time.Duration
	LifecycleTimeout time.Duration
	RestartTimeout   time.Duration

	// Scheduler
	TasksFile string

	// Logging
	LogLevel string

	EnvFile string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	envFile := getEnvFile()
	_ = godotenv.Load(envFile)

	cfg := &Config{
		Port:           getEnvInt("PORT", 8092),
		Host:           getEnv("HOST", "0.0.0.0"),
		ReadTimeout:    time.Duration(getEnvInt("READ_TIMEOUT_SECONDS", 30)) * time.Second,
		WriteTimeout:   time.Duration(getEnvInt("WRITE_TIMEOUT_SECONDS", 300)) * time.Second,
		APIKey:         getEnv("API_KEY", ""),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		AllowedOrigins: getEnvSlice("ALLOWED_ORIGINS", []string{"*"}),
		RateLimitRPS:   getEnvInt("RATE_LIMIT_RPS", 100),

		SSHHost:       getEnv("SSH_HOST", ""),
		SSHUser:       getEnv("SSH_USER", "admin"),
		SSHKeyPath:    getEnv("SSH_KEY_PATH", defaultSSHKeyPath()),
		ContainerName: getEnv("CONTAINER_NAME", "minecraft-bedrock-server"),
		DockerPath:    getEnv("DOCKER_PATH", "docker"),
		DataDir:       getEnv("DATA_DIR", "data"),

		SettleDelay:       getEnvDurationMs("SETTLE_DELAY_MS", 700),
		ListSettleDelay:   getEnvDurationMs("LIST_SETTLE_DELAY_MS", 500),
		BackupSettleDelay: getEnvDurationMs("BACKUP_SETTLE_DELAY_MS", 2000),
		LogTailLines:      getEnvInt("LOG_TAIL_LINES", 30),
		ListTailLines:     getEnvInt("LIST_TAIL_LINES", 20),

		CommandTimeout:   time.Duration(getEnvInt("COMMAND_TIMEOUT_SECONDS", 30)) * time.Second,
		LifecycleTimeout: time.Duration(getEnvInt("LIFECYCLE_TIMEOUT_SECONDS", 60)) * time.Second,
		RestartTimeout:   time.Duration(getEnvInt("RESTART_TIMEOUT_SECONDS", 120)) * time.Second,

		LogLevel: getEnv("LOG_LEVEL", "info"),
		EnvFile:  envFile,
	}

	cfg.TasksFile = getEnv("TASKS_FILE", cfg.DataDir+"/scheduled_tasks.json")

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API_KEY is required")
	}

	if cfg.JWTSecret == "" {
		// Use API key as fallback for JWT secret
		cfg.JWTSecret = cfg.APIKey
	}

	return cfg, nil
}

// Connection is a point-in-time snapshot of the settings that can change
// at runtime through the settings endpoint. Handlers read through a
// snapshot instead of the struct fields, since SaveConnection can rewrite
// them mid-request.
type Connection struct {
	SSHHost       string
	SSHUser       string
	SSHKeyPath    string
	ContainerName string
}

// UseSSH reports whether the snapshot points at a remote host
func (conn Connection) UseSSH() bool {
	return conn.SSHHost != ""
}

// Connection returns a consistent snapshot of the mutable connection
// fields.
func (c *Config) Connection() Connection {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Connection{
		SSHHost:       c.SSHHost,
		SSHUser:       c.SSHUser,
		SSHKeyPath:    c.SSHKeyPath,
		ContainerName: c.ContainerName,
	}
}

// UseSSH reports whether the agent should reach the container over SSH.
// Presence of remote credentials decides the mode; business logic never
// re-checks the connection type.
func (c *Config) UseSSH() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.SSHHost != ""
}

func defaultSSHKeyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ssh/minecraft_panel_rsa"
	}
	return home + "/.ssh/minecraft_panel_rsa"
}

// getEnvFile returns the path to the .env file
func getEnvFile() string {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		return envFile
	}

	if _, err := os.Stat(".env"); err == nil {
		return ".env"
	}

	// Try the executable directory
	exe, err := os.Executable()
	if err == nil {
		dir := strings.TrimSuffix(exe, "/pickaxe-rcon")
		envPath := dir + "/.env"
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	return ".env"
}

// SaveConnection persists connection settings to the .env file and updates
// the in-memory config. The caller is responsible for re-initializing the
// console bridge afterwards.
func (c *Config) SaveConnection(sshHost, sshUser, containerName string) error {
	updates := map[string]string{
		"SSH_HOST":       sshHost,
		"SSH_USER":       sshUser,
		"CONTAINER_NAME": containerName,
	}
	if err := UpdateEnvFile(c.EnvFile, updates); err != nil {
		return err
	}

	c.mu.Lock()
	c.SSHHost = sshHost
	c.SSHUser = sshUser
	c.ContainerName = containerName
	c.mu.Unlock()

	return nil
}

// UpdateEnvFile updates or adds environment variables in a .env file
func UpdateEnvFile(envFile string, updates map[string]string) error {
	existingContent := ""
	if data, err := os.ReadFile(envFile); err == nil {
		existingContent = string(data)
	}

	lines := strings.Split(existingContent, "\n")
	found := make(map[string]bool)

	// Update existing keys
	for i, line := range lines {
		for key, value := range updates {
			if strings.HasPrefix(line, key+"=") {
				lines[i] = key + "=" + value
				found[key] = true
				break
			}
		}
	}

	// Add missing keys at the beginning
	var newLines []string
	for key, value := range updates {
		if !found[key] {
			newLines = append(newLines, key+"="+value)
		}
	}
	if len(newLines) > 0 {
		lines = append(newLines, lines...)
	}

	// Remove empty lines at the end
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}

	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(envFile, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write .env file: %w", err)
	}

	return nil
}

// LoadWithDefaults loads config with defaults for testing
func LoadWithDefaults() *Config {
	return &Config{
		Port:           8092,
		Host:           "0.0.0.0",
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   300 * time.Second,
		APIKey:         "test-api-key",
		JWTSecret:      "test-jwt-secret",
		AllowedOrigins: []string{"*"},
		RateLimitRPS:   100,

		SSHUser:       "admin",
		SSHKeyPath:    "/tmp/test_rsa",
		ContainerName: "minecraft-bedrock-server",
		DockerPath:    "docker",
		DataDir:       "data",

		SettleDelay:       700 * time.Millisecond,
		ListSettleDelay:   500 * time.Millisecond,
		BackupSettleDelay: 2 * time.Second,
		LogTailLines:      30,
		ListTailLines:     20,

		CommandTimeout:   30 * time.Second,
		LifecycleTimeout: 60 * time.Second,
		RestartTimeout:   120 * time.Second,

		TasksFile: "data/scheduled_tasks.json",
		LogLevel:  "info",
	}
}

// Addr returns the server address string
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationMs(key string, defaultMs int) time.Duration {
	return time.Duration(getEnvInt(key, defaultMs)) * time.Millisecond
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}
