package console

import "time"

// CommandResult is the outcome of sending a console command. Success tracks
// only whether the command was delivered; Response may be a synthesized
// confirmation when no matching log output was found.
type CommandResult struct {
	Success  bool   `json:"success"`
	Response string `json:"response,omitempty"`
	Error    string `json:"error,omitempty"`
}

// ActionResult is the uniform outcome of a container or file action.
type ActionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	// Step names the stage that failed in multi-step actions such as
	// world recreation or server update.
	Step string `json:"step,omitempty"`
}

// PlayerList is the outcome of querying online players. An empty Players
// slice with Success true means nobody is online (or the header was not
// found in the log tail).
type PlayerList struct {
	Success bool     `json:"success"`
	Players []string `json:"players"`
	Error   string   `json:"error,omitempty"`
}

// Properties is the parsed contents of server.properties.
type Properties struct {
	Success    bool              `json:"success"`
	Properties map[string]string `json:"properties,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// Backup describes one archive in the backups directory.
type Backup struct {
	Filename string `json:"filename"`
	Size     string `json:"size"`
	Date     string `json:"date"`
}

// BackupList is the outcome of listing backups.
type BackupList struct {
	Success bool     `json:"success"`
	Backups []Backup `json:"backups"`
	Error   string   `json:"error,omitempty"`
}

// BackupResult is the outcome of creating a backup.
type BackupResult struct {
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
	Filename string `json:"filename,omitempty"`
	Error    string `json:"error,omitempty"`
}

// JSONFile is the outcome of reading one of the server's JSON list files
// (allowlist.json, permissions.json).
type JSONFile struct {
	Success bool          `json:"success"`
	Entries []interface{} `json:"entries"`
	Error   string        `json:"error,omitempty"`
}

// ContainerStats holds one resource usage reading for the server container.
type ContainerStats struct {
	Success       bool    `json:"success"`
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryUsed    string  `json:"memory_used"`
	MemoryLimit   string  `json:"memory_limit"`
	MemoryPercent float64 `json:"memory_percent"`
	NetworkIO     string  `json:"network_io"`
	BlockIO       string  `json:"block_io"`
	Error         string  `json:"error,omitempty"`
}

// VersionInfo is the outcome of reading the server version from logs.
type VersionInfo struct {
	Success bool   `json:"success"`
	Version string `json:"version"`
}

// UpdateResult is the outcome of the server update sequence.
type UpdateResult struct {
	Success    bool   `json:"success"`
	Message    string `json:"message,omitempty"`
	Updated    bool   `json:"updated"`
	OldVersion string `json:"old_version,omitempty"`
	NewVersion string `json:"new_version,omitempty"`
	Error      string `json:"error,omitempty"`
	Step       string `json:"step,omitempty"`
}

// Options tunes the bridge's correlation heuristics. The settle delays and
// tail sizes are deliberately injectable so tests can exercise both the
// found and miss paths with a fake log source.
type Options struct {
	DockerPath    string
	ContainerName string

	SettleDelay       time.Duration
	ListSettleDelay   time.Duration
	BackupSettleDelay time.Duration
	LogTailLines      int
	ListTailLines     int

	CommandTimeout   time.Duration
	LifecycleTimeout time.Duration
	RestartTimeout   time.Duration
}
