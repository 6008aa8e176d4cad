package console

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCapTailLines(t *testing.T) {
	assert.Equal(t, 50, CapTailLines(0))
	assert.Equal(t, 50, CapTailLines(-10))
	assert.Equal(t, 1, CapTailLines(1))
	assert.Equal(t, 500, CapTailLines(500))
	assert.Equal(t, MaxTailLines, CapTailLines(1000))
	assert.Equal(t, MaxTailLines, CapTailLines(100000))
}
