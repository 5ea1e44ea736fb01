package logger

import "sync"

var (
	defaultLogger Logger
	defaultOnce   sync.Once
	defaultMu     sync.RWMutex
)

// Default 返回全局默认 Logger
// 未显式设置时，按默认配置惰性初始化；初始化失败时退化为 Noop
func Default() Logger {
	defaultMu.RLock()
	if defaultLogger != nil {
		l := defaultLogger
		defaultMu.RUnlock()
		return l
	}
	defaultMu.RUnlock()

	defaultOnce.Do(func() {
		l, err := New(DefaultConfig())
		defaultMu.Lock()
		if err != nil {
			defaultLogger = Noop()
		} else {
			defaultLogger = l
		}
		defaultMu.Unlock()
	})

	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefault 设置全局默认 Logger
func SetDefault(l Logger) {
	if l == nil {
		return
	}
	defaultMu.Lock()
	defaultLogger = l
	defaultMu.Unlock()
}
