package logger

// noopLogger 空实现，用于测试或禁用日志的场景
type noopLogger struct{}

// Noop 返回不输出任何内容的 Logger
func Noop() Logger {
	return &noopLogger{}
}

func (n *noopLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (n *noopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (n *noopLogger) Warn(msg string, keysAndValues ...interface{})  {}
func (n *noopLogger) Error(msg string, keysAndValues ...interface{}) {}

func (n *noopLogger) Named(name string) Logger                       { return n }
func (n *noopLogger) WithFields(keysAndValues ...interface{}) Logger { return n }
func (n *noopLogger) Sync() error                                    { return nil }
