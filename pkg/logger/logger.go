// pkg/logger/logger.go
package logger

import (
	"fmt"
	"os"

	"github.com/hidanz98/command-d-relay/pkg/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// 确保 BaseLogger 实现了 Logger 接口
var _ Logger = (*BaseLogger)(nil)

// BaseLogger 基于 zap 的日志记录器实现
type BaseLogger struct {
	sugar  *zap.SugaredLogger
	config *Config
	name   string
}

// New 创建新的 BaseLogger
func New(cfg *Config) (*BaseLogger, error) {
	// 使用 MergeConfig 合并默认配置，允许用户只传递部分配置
	mergedConfig, err := config.MergeConfig(DefaultConfig(), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to merge config: %w", err)
	}

	if err := mergedConfig.Validate(); err != nil {
		return nil, err
	}

	l := &BaseLogger{config: mergedConfig}

	zapLogger, err := l.build()
	if err != nil {
		return nil, err
	}

	sugar := zapLogger.Sugar()
	if len(mergedConfig.GlobalFields) > 0 {
		kvs := make([]interface{}, 0, len(mergedConfig.GlobalFields)*2)
		for k, v := range mergedConfig.GlobalFields {
			kvs = append(kvs, k, v)
		}
		sugar = sugar.With(kvs...)
	}
	l.sugar = sugar

	return l, nil
}

// build 构建 zap logger
func (l *BaseLogger) build() (*zap.Logger, error) {
	encoderConfig := l.buildEncoderConfig()

	var encoder zapcore.Encoder
	switch l.config.Format {
	case ConsoleFormat:
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	default:
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	writers := make([]zapcore.WriteSyncer, 0, 2)

	// 控制台输出
	if l.config.EnableConsole {
		writers = append(writers, zapcore.AddSync(os.Stdout))
	}

	// 文件输出 (lumberjack 按大小轮换)
	if l.config.EnableFile {
		writers = append(writers, zapcore.AddSync(&lumberjack.Logger{
			Filename:   l.config.OutputPath,
			MaxSize:    l.config.Rotation.MaxSize,
			MaxBackups: l.config.Rotation.MaxBackups,
			MaxAge:     l.config.Rotation.MaxAge,
			Compress:   l.config.Rotation.Compress,
		}))
	}

	if len(writers) == 0 {
		writers = append(writers, zapcore.AddSync(os.Stdout))
	}

	core := zapcore.NewCore(
		encoder,
		zapcore.NewMultiWriteSyncer(writers...),
		l.parseLevel(l.config.Level),
	)

	opts := []zap.Option{zap.AddCaller(), zap.AddCallerSkip(1)}
	if l.config.Development {
		opts = append(opts, zap.Development())
	}

	return zap.New(core, opts...), nil
}

// buildEncoderConfig 构建 encoder 配置
func (l *BaseLogger) buildEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout(l.config.TimeFormat)
	if l.config.Development && l.config.Format == ConsoleFormat {
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg.EncodeLevel = zapcore.LowercaseLevelEncoder
	}
	return cfg
}

// parseLevel 解析日志等级
func (l *BaseLogger) parseLevel(level Level) zapcore.Level {
	switch level {
	case DebugLevel:
		return zapcore.DebugLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Debug 输出 Debug 日志
func (l *BaseLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, keysAndValues...)
}

// Info 输出 Info 日志
func (l *BaseLogger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Infow(msg, keysAndValues...)
}

// Warn 输出 Warn 日志
func (l *BaseLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.sugar.Warnw(msg, keysAndValues...)
}

// Error 输出 Error 日志
func (l *BaseLogger) Error(msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, keysAndValues...)
}

// Named 返回具名 Logger
func (l *BaseLogger) Named(name string) Logger {
	clone := *l
	if l.name != "" {
		clone.name = l.name + "." + name
	} else {
		clone.name = name
	}
	clone.sugar = l.sugar.Named(name)
	return &clone
}

// WithFields 返回携带固定字段的 Logger
func (l *BaseLogger) WithFields(keysAndValues ...interface{}) Logger {
	clone := *l
	clone.sugar = l.sugar.With(keysAndValues...)
	return &clone
}

// Sync 刷新日志缓冲
func (l *BaseLogger) Sync() error {
	return l.sugar.Sync()
}
