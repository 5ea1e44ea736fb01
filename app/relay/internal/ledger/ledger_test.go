package ledger

import (
	"fmt"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seqGen 递增序号生成器，让测试中的 ID 可预期
type seqGen struct {
	n int
}

func (g *seqGen) Next() string {
	g.n++
	return fmt.Sprintf("cmd-%d", g.n)
}

func TestAppendAssignsIDAndTimestamp(t *testing.T) {
	mock := clock.NewMock()
	mock.Set(time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC))

	l := New(WithClock(mock), WithIDGenerator(&seqGen{}))

	cmd := l.Append(map[string]any{"command": "lock"}, "mobile")
	assert.Equal(t, "cmd-1", cmd.ID)
	assert.Equal(t, "mobile", cmd.From)
	assert.Equal(t, mock.Now(), cmd.Timestamp)
	assert.False(t, cmd.Processed)
	assert.Equal(t, 1, l.Len())
}

func TestPendingFiltersProcessed(t *testing.T) {
	l := New(WithIDGenerator(&seqGen{}))

	l.Append(map[string]any{"command": "a"}, "mobile")
	l.Append(map[string]any{"command": "b"}, "mobile")
	l.Append(map[string]any{"command": "c"}, "mobile")

	require.True(t, l.MarkProcessed("cmd-2", map[string]any{"ok": true}))

	pending := l.Pending()
	require.Len(t, pending, 2)
	assert.Equal(t, "cmd-1", pending[0].ID)
	assert.Equal(t, "cmd-3", pending[1].ID)
	assert.Equal(t, 2, l.PendingCount())
}

func TestMarkProcessedIdempotent(t *testing.T) {
	l := New(WithIDGenerator(&seqGen{}))
	l.Append(map[string]any{"command": "a"}, "mobile")

	require.True(t, l.MarkProcessed("cmd-1", map[string]any{"result": "first"}))
	require.True(t, l.MarkProcessed("cmd-1", map[string]any{"result": "second"}))

	assert.Empty(t, l.Pending())

	// 以最后一次响应为准
	assert.Equal(t, 0, l.PendingCount())
}

func TestMarkProcessedAbsentIDIsNoop(t *testing.T) {
	l := New(WithIDGenerator(&seqGen{}))
	l.Append(map[string]any{"command": "a"}, "mobile")

	assert.False(t, l.MarkProcessed("never-existed", nil))
	assert.Equal(t, 1, l.PendingCount())
}

func TestEvictionPrefersProcessed(t *testing.T) {
	l := New(WithIDGenerator(&seqGen{}), WithMaxEntries(3))

	l.Append(map[string]any{"command": "a"}, "mobile")
	l.Append(map[string]any{"command": "b"}, "mobile")
	l.Append(map[string]any{"command": "c"}, "mobile")
	require.True(t, l.MarkProcessed("cmd-2", nil))

	// 超限后淘汰最早的已处理记录
	l.Append(map[string]any{"command": "d"}, "mobile")
	assert.Equal(t, 3, l.Len())

	pending := l.Pending()
	ids := make([]string, 0, len(pending))
	for _, cmd := range pending {
		ids = append(ids, cmd.ID)
	}
	assert.Equal(t, []string{"cmd-1", "cmd-3", "cmd-4"}, ids)
}

func TestEvictionFallsBackToOldest(t *testing.T) {
	l := New(WithIDGenerator(&seqGen{}), WithMaxEntries(2))

	l.Append(map[string]any{"command": "a"}, "mobile")
	l.Append(map[string]any{"command": "b"}, "mobile")
	l.Append(map[string]any{"command": "c"}, "mobile")

	pending := l.Pending()
	require.Len(t, pending, 2)
	assert.Equal(t, "cmd-2", pending[0].ID)
	assert.Equal(t, "cmd-3", pending[1].ID)
}

func TestUnboundedWhenZero(t *testing.T) {
	l := New(WithIDGenerator(&seqGen{}), WithMaxEntries(0))

	for i := 0; i < 100; i++ {
		l.Append(map[string]any{"i": i}, "mobile")
	}
	assert.Equal(t, 100, l.Len())
}

func TestPendingReturnsCopies(t *testing.T) {
	l := New(WithIDGenerator(&seqGen{}))
	l.Append(map[string]any{"command": "a"}, "mobile")

	pending := l.Pending()
	pending[0].Processed = true

	// 快照上的改动不影响账本
	assert.Equal(t, 1, l.PendingCount())
}
