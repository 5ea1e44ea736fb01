package idgen

import (
	"sync"

	"github.com/cockroachdb/errors"
)

// 进程级默认生成器，main 启动时注入，之后只读
var (
	defaultGen Generator
	defaultMu  sync.RWMutex
)

// Init 设置进程级默认生成器
func Init(g Generator) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultGen = g
}

// NextID 使用默认生成器生成命令 ID
func NextID() (int64, error) {
	defaultMu.RLock()
	g := defaultGen
	defaultMu.RUnlock()

	if g == nil {
		return 0, errors.New("idgen: default generator not initialized")
	}
	return g.NextID()
}

// globalGenerator 转发到当前默认生成器，Init 之后生效
type globalGenerator struct{}

func (globalGenerator) NextID() (int64, error) {
	return NextID()
}

// Global 返回委托给默认生成器的 Generator
// 调用方持有的实例在 Init 切换后自动跟随新生成器
func Global() Generator {
	return globalGenerator{}
}
