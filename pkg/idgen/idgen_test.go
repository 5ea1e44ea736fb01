package idgen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSonyflakeUnique(t *testing.T) {
	g, err := NewSonyflake(1)
	require.NoError(t, err)

	seen := make(map[int64]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		id, err := g.NextID()
		require.NoError(t, err)
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %d", id)
		seen[id] = struct{}{}
	}
}

func TestTimeRandUnique(t *testing.T) {
	g := NewTimeRand("conn", 6)

	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		id := g.Next()
		assert.True(t, strings.HasPrefix(id, "conn-"))
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}

func TestNumericString(t *testing.T) {
	g, err := NewSonyflake(3)
	require.NoError(t, err)

	sg := NewNumericString(g, "cmd")
	first := sg.Next()
	second := sg.Next()

	assert.True(t, strings.HasPrefix(first, "cmd-"))
	assert.NotEqual(t, first, second)
}

func TestGlobalDelegatesToDefault(t *testing.T) {
	g, err := NewSonyflake(4)
	require.NoError(t, err)
	Init(g)

	sg := NewNumericString(Global(), "cmd")
	first := sg.Next()
	second := sg.Next()

	assert.True(t, strings.HasPrefix(first, "cmd-"))
	assert.NotEqual(t, first, second)

	id, err := Global().NextID()
	require.NoError(t, err)
	assert.NotZero(t, id)
}

func TestGlobalUninitialized(t *testing.T) {
	Init(nil)
	_, err := NextID()
	assert.Error(t, err)

	g, err := NewSonyflake(2)
	require.NoError(t, err)
	Init(g)

	id, err := NextID()
	require.NoError(t, err)
	assert.NotZero(t, id)
}
