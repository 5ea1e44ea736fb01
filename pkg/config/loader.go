// pkg/config/loader.go
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Loader 配置加载器
// 封装 viper：配置文件 + RELAY_ 前缀环境变量覆盖
type Loader struct {
	viper *viper.Viper
}

// NewLoader 创建配置加载器
func NewLoader() *Loader {
	return &Loader{viper: viper.New()}
}

// NewLoaderWithViper 使用外部 viper 实例创建加载器
// 入口层（pkg/app）需要在加载前注入命令行覆盖项时使用
func NewLoaderWithViper(v *viper.Viper) *Loader {
	if v == nil {
		v = viper.New()
	}
	return &Loader{viper: v}
}

// LoadFile 加载 YAML 配置文件
// 环境变量覆盖：RELAY_LOG_LEVEL -> log.level
func (l *Loader) LoadFile(configPath string) error {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrConfigFileNotFound, configPath)
	}

	l.viper.SetConfigFile(configPath)
	l.viper.SetConfigType("yaml")

	l.viper.SetEnvPrefix("RELAY")
	l.viper.AutomaticEnv()
	l.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	if err := l.viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// Unmarshal 解析整个配置到结构体
func (l *Loader) Unmarshal(target interface{}) error {
	if err := l.viper.Unmarshal(target); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return nil
}

// UnmarshalKey 解析配置中的某个 key 到结构体
func (l *Loader) UnmarshalKey(key string, target interface{}) error {
	if err := l.viper.UnmarshalKey(key, target); err != nil {
		return fmt.Errorf("failed to unmarshal key %s: %w", key, err)
	}
	return nil
}

// Viper 返回底层 viper 实例
func (l *Loader) Viper() *viper.Viper {
	return l.viper
}
