// pkg/websocket/options.go
package websocket

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hidanz98/command-d-relay/pkg/idgen"
	"github.com/hidanz98/command-d-relay/pkg/logger"
)

// ConnectionOption 连接选项
type ConnectionOption func(*Connection)

// WithConnectionLogger 设置连接日志
func WithConnectionLogger(l logger.Logger) ConnectionOption {
	return func(c *Connection) {
		c.logger = l
	}
}

// WithConnectionID 使用外部生成器产生连接 ID
func WithConnectionID(g idgen.StringGenerator) ConnectionOption {
	return func(c *Connection) {
		if g != nil {
			c.id = g.Next()
		}
	}
}

// WithConnectionReadTimeout 设置读取超时（0 表示不设置读超时）
func WithConnectionReadTimeout(d time.Duration) ConnectionOption {
	return func(c *Connection) {
		c.readTimeout = d
	}
}

// WithConnectionWriteTimeout 设置写入超时
func WithConnectionWriteTimeout(d time.Duration) ConnectionOption {
	return func(c *Connection) {
		if d > 0 {
			c.writeTimeout = d
		}
	}
}

// WithConnectionSendQueueSize 设置发送队列大小
func WithConnectionSendQueueSize(size int) ConnectionOption {
	return func(c *Connection) {
		if size > 0 {
			c.sendQueueSize = size
		}
	}
}

// ServerOption 服务端选项
type ServerOption func(*Server)

// WithServerLogger 设置服务端日志
func WithServerLogger(l logger.Logger) ServerOption {
	return func(s *Server) {
		s.logger = l
	}
}

// WithServerMetrics 注册 prometheus 指标
func WithServerMetrics(registerer prometheus.Registerer) ServerOption {
	return func(s *Server) {
		s.metricsRegisterer = registerer
	}
}

// WithServerConnectionID 为新连接设置 ID 生成器
func WithServerConnectionID(g idgen.StringGenerator) ServerOption {
	return func(s *Server) {
		s.connIDGen = g
	}
}

// WithServerHandler 设置消息处理器
func WithServerHandler(h MessageHandler) ServerOption {
	return func(s *Server) {
		s.handler = h
	}
}

// WithServerMiddleware 追加消息中间件
func WithServerMiddleware(mw ...Middleware) ServerOption {
	return func(s *Server) {
		s.middlewares = append(s.middlewares, mw...)
	}
}
