package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_SetAndGet(t *testing.T) {
	c := New(time.Minute)

	c.Set(KeyStats, "value")

	got, ok := c.Get(KeyStats)
	require.True(t, ok)
	assert.Equal(t, "value", got)
}

func TestCache_Miss(t *testing.T) {
	c := New(time.Minute)

	_, ok := c.Get("absent")
	assert.False(t, ok)
}

func TestCache_Expiration(t *testing.T) {
	c := New(10 * time.Millisecond)

	c.Set(KeySystem, 42)
	time.Sleep(30 * time.Millisecond)

	_, ok := c.Get(KeySystem)
	assert.False(t, ok)
}

func TestCache_Delete(t *testing.T) {
	c := New(time.Minute)

	c.Set(KeyStats, "value")
	c.Delete(KeyStats)

	_, ok := c.Get(KeyStats)
	assert.False(t, ok)
}

func TestCache_Overwrite(t *testing.T) {
	c := New(time.Minute)

	c.Set(KeyStats, "old")
	c.Set(KeyStats, "new")

	got, ok := c.Get(KeyStats)
	require.True(t, ok)
	assert.Equal(t, "new", got)
}
