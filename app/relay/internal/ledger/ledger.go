// Package ledger 记录移动端发出的命令及其处理结果。
// 追加式内存账本，由管理接口轮询消费。
package ledger

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/hidanz98/command-d-relay/pkg/idgen"
)

// DefaultMaxEntries 账本默认容量，0 表示不设上限
const DefaultMaxEntries = 4096

// Command 一条命令记录
type Command struct {
	ID        string         `json:"id"`
	Payload   map[string]any `json:"payload"`
	From      string         `json:"from"`
	Timestamp time.Time      `json:"timestamp"`
	Processed bool           `json:"processed"`
	Response  map[string]any `json:"response,omitempty"`
}

// Ledger 命令账本
type Ledger struct {
	mu      sync.Mutex
	entries []*Command

	maxEntries int
	clock      clock.Clock
	ids        idgen.StringGenerator
}

// Option 账本配置函数
type Option func(*Ledger)

// WithMaxEntries 设置容量上限，n <= 0 表示不设上限
func WithMaxEntries(n int) Option {
	return func(l *Ledger) { l.maxEntries = n }
}

// WithClock 注入时钟，测试中使用 mock 时钟
func WithClock(c clock.Clock) Option {
	return func(l *Ledger) { l.clock = c }
}

// WithIDGenerator 注入命令 ID 生成器
func WithIDGenerator(g idgen.StringGenerator) Option {
	return func(l *Ledger) { l.ids = g }
}

// New 创建账本
func New(opts ...Option) *Ledger {
	l := &Ledger{
		maxEntries: DefaultMaxEntries,
		clock:      clock.New(),
		ids:        idgen.NewTimeRand("cmd", 4),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Append 追加一条命令并分配 ID
func (l *Ledger) Append(payload map[string]any, from string) *Command {
	l.mu.Lock()
	defer l.mu.Unlock()

	cmd := &Command{
		ID:        l.ids.Next(),
		Payload:   payload,
		From:      from,
		Timestamp: l.clock.Now(),
		Processed: false,
	}
	l.entries = append(l.entries, cmd)
	l.evictLocked()
	return cmd
}

// evictLocked 容量超限时腾出空间
// 优先淘汰最早的已处理记录，全部未处理时淘汰最旧的一条
func (l *Ledger) evictLocked() {
	if l.maxEntries <= 0 {
		return
	}
	for len(l.entries) > l.maxEntries {
		idx := 0
		for i, cmd := range l.entries {
			if cmd.Processed {
				idx = i
				break
			}
		}
		l.entries = append(l.entries[:idx], l.entries[idx+1:]...)
	}
}

// Pending 返回全部未处理命令的快照
func (l *Ledger) Pending() []*Command {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []*Command
	for _, cmd := range l.entries {
		if !cmd.Processed {
			c := *cmd
			out = append(out, &c)
		}
	}
	return out
}

// MarkProcessed 将指定命令标记为已处理并附加响应
// 幂等：重复调用以最后一次响应为准；ID 不存在时返回 false，不报错
func (l *Ledger) MarkProcessed(id string, response map[string]any) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, cmd := range l.entries {
		if cmd.ID == id {
			cmd.Processed = true
			cmd.Response = response
			return true
		}
	}
	return false
}

// Len 返回账本中的记录总数
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// PendingCount 返回未处理命令数
func (l *Ledger) PendingCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for _, cmd := range l.entries {
		if !cmd.Processed {
			n++
		}
	}
	return n
}
