package console

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidBackupName(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     bool
	}{
		{"timestamped default", "world_backup_20240101_120000.tar.gz", true},
		{"custom name", "before-update.tar.gz", true},
		{"dots in name", "v1.20.backup.tar.gz", true},
		{"wrong extension", "backup.zip", false},
		{"no extension", "backup", false},
		{"path traversal", "../../etc/passwd.tar.gz", false},
		{"absolute path", "/data/worlds/world.tar.gz", false},
		{"embedded slash", "backups/world.tar.gz", false},
		{"spaces", "name with spaces.tar.gz", false},
		{"shell metacharacters", "world;rm -rf.tar.gz", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidBackupName(tt.filename))
		})
	}
}
