package transport

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuote(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", "''"},
		{"bare word", "list", "list"},
		{"safe punctuation", "level-seed=123", "level-seed=123"},
		{"spaces", "say hello world", "'say hello world'"},
		{"double quotes", `say "hi"`, `'say "hi"'`},
		{"single quote", "say it's fine", `'say it'"'"'s fine'`},
		{"command substitution", "say $(whoami)", "'say $(whoami)'"},
		{"backtick", "say `id`", "'say `id`'"},
		{"semicolon", "list; rm -rf /", "'list; rm -rf /'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Quote(tt.in))
		})
	}
}

func TestLocalRun(t *testing.T) {
	local := NewLocal()

	res, err := local.Run(context.Background(), "echo hello", 5*time.Second)
	require.NoError(t, err)
	assert.True(t, res.Ok())
	assert.Equal(t, "hello\n", res.Stdout)
}

func TestLocalRun_NonZeroExit(t *testing.T) {
	local := NewLocal()

	// A failing command is a result, not a transport error.
	res, err := local.Run(context.Background(), "echo oops >&2; exit 3", 5*time.Second)
	require.NoError(t, err)
	assert.False(t, res.Ok())
	assert.Equal(t, 3, res.ExitCode)
	assert.Contains(t, res.Stderr, "oops")
}

func TestLocalRun_Timeout(t *testing.T) {
	local := NewLocal()

	_, err := local.Run(context.Background(), "sleep 5", 50*time.Millisecond)
	assert.Error(t, err)
}

func TestResult_Ok(t *testing.T) {
	assert.True(t, (&Result{ExitCode: 0}).Ok())
	assert.False(t, (&Result{ExitCode: 1}).Ok())
}
