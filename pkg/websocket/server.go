// pkg/websocket/server.go
package websocket

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hidanz98/command-d-relay/pkg/conc"
	"github.com/hidanz98/command-d-relay/pkg/idgen"
	"github.com/hidanz98/command-d-relay/pkg/logger"
)

// Server WebSocket 服务端
// 负责连接升级、读写循环调度和传输层保活；业务语义由 MessageHandler 承载
type Server struct {
	config   *ServerConfig
	upgrader *websocket.Upgrader
	logger   logger.Logger

	// 连接池
	pool *ConnectionPool

	// 连接 ID 生成
	connIDGen idgen.StringGenerator

	// 消息处理
	handler     MessageHandler
	middlewares []Middleware
	handlerFunc HandlerFunc

	// 工作池
	workerPool *conc.Pool[struct{}]

	// 指标
	metrics           *ServerMetrics
	metricsRegisterer prometheus.Registerer

	// 状态
	mu      sync.RWMutex
	closed  bool
	closeCh chan struct{}
	wg      sync.WaitGroup
}

// NewServer 创建服务端
func NewServer(cfg *ServerConfig, opts ...ServerOption) (*Server, error) {
	if cfg == nil {
		cfg = DefaultServerConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Server{
		config:  cfg,
		closeCh: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.upgrader = &websocket.Upgrader{
		ReadBufferSize:   cfg.ReadBufferSize,
		WriteBufferSize:  cfg.WriteBufferSize,
		HandshakeTimeout: cfg.HandshakeTimeout,
		CheckOrigin:      cfg.CheckOrigin,
	}

	s.pool = NewConnectionPool(&cfg.Pool)

	poolSize := cfg.Pool.MaxConnections / 10
	if poolSize < 10 {
		poolSize = 10
	}
	s.workerPool = conc.NewPool[struct{}](poolSize)

	if s.metricsRegisterer != nil {
		s.metrics = NewServerMetrics(s.metricsRegisterer)
	}

	s.buildHandlerChain()

	return s, nil
}

// buildHandlerChain 构建处理器链
func (s *Server) buildHandlerChain() {
	base := func(conn *Connection, msg *Message) error {
		if s.metrics != nil {
			s.metrics.OnMessageReceived(msg.Type, int64(msg.Len()))
		}
		if s.handler != nil {
			return s.handler.OnMessage(conn, msg)
		}
		return nil
	}
	s.handlerFunc = chainMiddleware(base, s.middlewares)
}

// Handler 返回 http.Handler
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(s.ServeHTTP)
}

// ServeHTTP 实现 http.Handler 接口
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.Upgrade(w, r)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("websocket upgrade failed", "error", err, "remote_addr", r.RemoteAddr)
		}
		return
	}

	s.handleConnection(conn)
}

// Upgrade 升级 HTTP 连接为 WebSocket
func (s *Server) Upgrade(w http.ResponseWriter, r *http.Request) (*Connection, error) {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return nil, ErrPoolClosed
	}
	s.mu.RUnlock()

	if s.pool.IsFull() {
		http.Error(w, "too many connections", http.StatusServiceUnavailable)
		if s.metrics != nil {
			s.metrics.OnUpgradeError()
		}
		return nil, ErrPoolFull
	}

	remoteIP := extractIP(r.RemoteAddr)
	if s.pool.IsIPLimitReached(remoteIP) {
		http.Error(w, "too many connections from this IP", http.StatusTooManyRequests)
		if s.metrics != nil {
			s.metrics.OnUpgradeError()
		}
		return nil, ErrMaxConnectionsPerIP
	}

	wsConn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		if s.metrics != nil {
			s.metrics.OnUpgradeError()
		}
		return nil, err
	}

	conn := NewConnection(wsConn,
		WithConnectionLogger(s.logger),
		WithConnectionID(s.connIDGen),
		WithConnectionReadTimeout(s.config.ReadTimeout),
		WithConnectionWriteTimeout(s.config.WriteTimeout),
		WithConnectionSendQueueSize(s.config.SendQueueSize),
	)

	if s.config.MaxMessageSize > 0 {
		conn.SetReadLimit(s.config.MaxMessageSize)
	}

	if err := s.pool.Add(conn); err != nil {
		_ = conn.Close()
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.OnConnectionOpened()
	}

	return conn, nil
}

// handleConnection 处理连接（阻塞到连接断开）
func (s *Server) handleConnection(conn *Connection) {
	s.wg.Add(1)
	defer s.wg.Done()

	if s.handler != nil {
		if err := s.handler.OnConnect(conn); err != nil {
			if s.logger != nil {
				s.logger.Warn("websocket OnConnect error", "error", err, "conn_id", conn.ID())
			}
			_ = conn.CloseWithError(err)
			s.pool.Remove(conn.ID())
			if s.metrics != nil {
				s.metrics.OnConnectionClosed()
			}
			return
		}
	}

	// Pong 延长读超时（仅在设置了读超时时生效）
	conn.SetPongHandler(func(appData string) error {
		if s.config.ReadTimeout > 0 && s.config.PongTimeout > 0 {
			_ = conn.conn.SetReadDeadline(time.Now().Add(s.config.PongTimeout))
		}
		return nil
	})

	// 写入循环
	s.workerPool.Submit(func() (struct{}, error) {
		conn.WriteLoop()
		return struct{}{}, nil
	})

	// 传输层保活
	if s.config.PingInterval > 0 {
		s.workerPool.Submit(func() (struct{}, error) {
			s.pingLoop(conn)
			return struct{}{}, nil
		})
	}

	// 读取循环（阻塞）
	conn.ReadLoop(s.handlerFunc)

	s.removeConnection(conn, conn.CloseError())
}

// pingLoop 传输层 Ping 循环
func (s *Server) pingLoop(conn *Connection) {
	ticker := time.NewTicker(s.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if conn.IsClosed() {
				return
			}
			if err := conn.Ping(); err != nil {
				if s.logger != nil {
					s.logger.Debug("websocket ping error", "error", err, "conn_id", conn.ID())
				}
				_ = conn.Close()
				return
			}
		case <-conn.closeChan:
			return
		case <-s.closeCh:
			return
		}
	}
}

// removeConnection 移除连接
func (s *Server) removeConnection(conn *Connection, err error) {
	s.pool.Remove(conn.ID())

	if s.handler != nil {
		s.handler.OnDisconnect(conn, err)
	}

	if s.metrics != nil {
		s.metrics.OnConnectionClosed()
	}
}

// Send 向指定连接发送消息并记录指标
func (s *Server) Send(conn *Connection, msg *Message) error {
	if err := conn.SendAsync(msg); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.OnMessageSent(msg.Type, int64(msg.Len()))
	}
	return nil
}

// GetConnection 获取指定连接
func (s *Server) GetConnection(connID string) (*Connection, bool) {
	return s.pool.Get(connID)
}

// GetConnectionCount 获取连接数
func (s *Server) GetConnectionCount() int {
	return s.pool.Count()
}

// GetConnections 获取所有连接
func (s *Server) GetConnections() []*Connection {
	return s.pool.GetAll()
}

// Stats 获取统计信息
func (s *Server) Stats() Stats {
	return s.pool.Stats()
}

// Close 关闭服务端
func (s *Server) Close() error {
	return s.CloseWithContext(context.Background())
}

// CloseWithContext 带上下文关闭服务端
func (s *Server) CloseWithContext(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.closeCh)
	s.mu.Unlock()

	_ = s.pool.Close()

	done := make(chan struct{})
	conc.Go(func() (struct{}, error) {
		s.wg.Wait()
		close(done)
		return struct{}{}, nil
	})

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	s.workerPool.Release()

	return nil
}
