package logger

// Level 日志等级
type Level string

const (
	DebugLevel Level = "debug"
	InfoLevel  Level = "info"
	WarnLevel  Level = "warn"
	ErrorLevel Level = "error"
)

// Format 日志格式
type Format string

const (
	JSONFormat    Format = "json"
	ConsoleFormat Format = "console"
)

// Config 日志配置
type Config struct {
	// 基础配置
	Level  Level  `mapstructure:"level"`  // 日志等级
	Format Format `mapstructure:"format"` // 输出格式 (json/console)

	// 输出配置
	EnableConsole bool   `mapstructure:"enable_console"` // 启用控制台输出
	EnableFile    bool   `mapstructure:"enable_file"`    // 启用文件输出
	OutputPath    string `mapstructure:"output_path"`    // 日志文件路径

	// 时间格式
	TimeFormat string `mapstructure:"time_format"`

	// 轮换配置 (lumberjack)
	Rotation RotationConfig `mapstructure:"rotation"`

	// 开发模式 (彩色输出、可读时间)
	Development bool `mapstructure:"development"`

	// 全局字段
	GlobalFields map[string]interface{} `mapstructure:"global_fields"`
}

// RotationConfig 轮换配置
type RotationConfig struct {
	MaxSize    int  `mapstructure:"max_size"`    // 单文件最大大小 (MB)
	MaxBackups int  `mapstructure:"max_backups"` // 保留的旧文件数量
	MaxAge     int  `mapstructure:"max_age"`     // 保留天数
	Compress   bool `mapstructure:"compress"`    // 是否压缩旧文件
}

// DefaultConfig 返回默认日志配置
func DefaultConfig() *Config {
	return &Config{
		Level:         InfoLevel,
		Format:        ConsoleFormat,
		EnableConsole: true,
		EnableFile:    false,
		OutputPath:    "logs/app.log",
		TimeFormat:    "2006-01-02 15:04:05",
		Rotation: RotationConfig{
			MaxSize:    100,
			MaxBackups: 7,
			MaxAge:     30,
		},
	}
}

// Validate 校验配置
func (c *Config) Validate() error {
	switch c.Level {
	case DebugLevel, InfoLevel, WarnLevel, ErrorLevel, "":
	default:
		return ErrInvalidLevel
	}
	switch c.Format {
	case JSONFormat, ConsoleFormat, "":
	default:
		return ErrInvalidFormat
	}
	if c.EnableFile && c.OutputPath == "" {
		return ErrMissingOutputPath
	}
	return nil
}
