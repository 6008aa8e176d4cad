package console

import (
	"strings"
	"testing"

	"github.com/docker/docker/api/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{512, "512B"},
		{1024, "1.0KiB"},
		{1536 * 1024, "1.5MiB"},
		{2 * 1024 * 1024 * 1024, "2.0GiB"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatBytes(tt.in))
	}
}

func TestDecodeStats(t *testing.T) {
	body := `{"memory_stats":{"usage":1024,"limit":2048}}`

	var v types.StatsJSON
	require.NoError(t, decodeStats(strings.NewReader(body), &v))

	assert.Equal(t, uint64(1024), v.MemoryStats.Usage)
	assert.Equal(t, uint64(2048), v.MemoryStats.Limit)
}

func TestDecodeStats_InvalidJSON(t *testing.T) {
	var v types.StatsJSON
	assert.Error(t, decodeStats(strings.NewReader("not json"), &v))
}
