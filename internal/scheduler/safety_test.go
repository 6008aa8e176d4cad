package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSafe(t *testing.T) {
	tests := []struct {
		name    string
		command string
		want    bool
	}{
		{"save-all", "save-all", true},
		{"say with args", "say Server restarting in 5 minutes", true},
		{"uppercase keyword", "SAY hello", true},
		{"give", "give Steve diamond 64", true},
		{"time set", "time set day", true},
		{"leading whitespace", "  weather clear", true},
		{"stop not allowed", "stop", false},
		{"unknown command", "frobnicate everything", false},
		{"semicolon injection", "say hi; rm -rf /", false},
		{"pipe", "say hi | tee /etc/passwd", false},
		{"backtick", "say `whoami`", false},
		{"dollar", "say $HOME", false},
		{"redirect out", "say hi > /data/out", false},
		{"redirect in", "say hi < /data/in", false},
		{"backslash", `say hi\there`, false},
		{"newline", "say hi\nstop", false},
		{"carriage return", "say hi\rstop", false},
		{"empty", "", false},
		{"whitespace only", "   ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSafe(tt.command))
		})
	}
}

func TestSplitCommands(t *testing.T) {
	assert.Equal(t, []string{"say hi"}, SplitCommands("say hi"))
	assert.Equal(t,
		[]string{"save-all", "say saved"},
		SplitCommands("save-all && say saved"))
	assert.Equal(t,
		[]string{"save-all", "say saved"},
		SplitCommands("save-all &&  say saved && "))
	assert.Empty(t, SplitCommands(""))
}
