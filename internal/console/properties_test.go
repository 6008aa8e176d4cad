package console

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseProperties(t *testing.T) {
	content := strings.Join([]string{
		"# Bedrock server configuration",
		"",
		"server-name=Dedicated Server",
		"gamemode=survival",
		"max-players=20",
		"not a property line",
		"  level-seed = 12345  ",
	}, "\n")

	props := ParseProperties(content)

	assert.Equal(t, "Dedicated Server", props["server-name"])
	assert.Equal(t, "survival", props["gamemode"])
	assert.Equal(t, "20", props["max-players"])
	assert.Equal(t, "12345", props["level-seed"])
	assert.Len(t, props, 4)
}

func TestRewriteProperties_PreservesCommentsAndOrder(t *testing.T) {
	content := strings.Join([]string{
		"# Bedrock server configuration",
		"server-name=Dedicated Server",
		"gamemode=survival",
		"",
		"max-players=20",
	}, "\n")

	out := RewriteProperties(content, map[string]string{"gamemode": "creative"})

	lines := strings.Split(out, "\n")
	assert.Equal(t, "# Bedrock server configuration", lines[0])
	assert.Equal(t, "server-name=Dedicated Server", lines[1])
	assert.Equal(t, "gamemode=creative", lines[2])
	assert.Equal(t, "", lines[3])
	assert.Equal(t, "max-players=20", lines[4])
}

func TestRewriteProperties_AppendsNewKeys(t *testing.T) {
	content := "server-name=Dedicated Server"

	out := RewriteProperties(content, map[string]string{"level-seed": "998877"})

	lines := strings.Split(out, "\n")
	assert.Equal(t, "server-name=Dedicated Server", lines[0])
	assert.Equal(t, "level-seed=998877", lines[1])
}

func TestRewriteProperties_CommentedKeyNotUpdated(t *testing.T) {
	content := "# gamemode=survival\ngamemode=survival"

	out := RewriteProperties(content, map[string]string{"gamemode": "creative"})

	lines := strings.Split(out, "\n")
	assert.Equal(t, "# gamemode=survival", lines[0])
	assert.Equal(t, "gamemode=creative", lines[1])
}
