// pkg/websocket/config.go
package websocket

import (
	"net/http"
	"time"
)

// PoolConfig 连接池配置
type PoolConfig struct {
	// MaxConnections 最大连接数
	MaxConnections int `mapstructure:"max_connections"`
	// MaxConnectionsPerIP 每 IP 最大连接数
	MaxConnectionsPerIP int `mapstructure:"max_connections_per_ip"`
}

// DefaultPoolConfig 返回默认连接池配置
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxConnections:      10000,
		MaxConnectionsPerIP: 100,
	}
}

// ServerConfig 服务端配置
type ServerConfig struct {
	// 缓冲区配置
	ReadBufferSize  int   `mapstructure:"read_buffer_size"`
	WriteBufferSize int   `mapstructure:"write_buffer_size"`
	MaxMessageSize  int64 `mapstructure:"max_message_size"`

	// 超时配置
	HandshakeTimeout time.Duration `mapstructure:"handshake_timeout"`
	ReadTimeout      time.Duration `mapstructure:"read_timeout"`
	WriteTimeout     time.Duration `mapstructure:"write_timeout"`
	PongTimeout      time.Duration `mapstructure:"pong_timeout"`
	PingInterval     time.Duration `mapstructure:"ping_interval"`

	// 连接池配置
	Pool PoolConfig `mapstructure:"pool"`

	// 发送队列配置
	SendQueueSize int `mapstructure:"send_queue_size"`

	// 跨域配置（运行时设置，不序列化）
	CheckOrigin func(r *http.Request) bool `mapstructure:"-"`
}

// DefaultServerConfig 返回默认服务端配置
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		ReadBufferSize:   4096,
		WriteBufferSize:  4096,
		MaxMessageSize:   512 * 1024, // 512KB
		HandshakeTimeout: 10 * time.Second,
		WriteTimeout:     10 * time.Second,
		PongTimeout:      60 * time.Second,
		PingInterval:     30 * time.Second,
		Pool:             DefaultPoolConfig(),
		SendQueueSize:    256,
	}
}

// Validate 验证服务端配置
func (c *ServerConfig) Validate() error {
	if c == nil {
		return ErrInvalidConfig
	}
	if c.ReadBufferSize <= 0 {
		c.ReadBufferSize = 4096
	}
	if c.WriteBufferSize <= 0 {
		c.WriteBufferSize = 4096
	}
	if c.MaxMessageSize <= 0 {
		c.MaxMessageSize = 512 * 1024
	}
	if c.SendQueueSize <= 0 {
		c.SendQueueSize = 256
	}
	return nil
}
