// pkg/websocket/connection.go
package websocket

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/hidanz98/command-d-relay/pkg/logger"
)

// Connection WebSocket 连接封装
// 每个连接持有独立的发送队列和写入循环，互不阻塞
type Connection struct {
	id   string
	conn *websocket.Conn

	// 配置
	readTimeout   time.Duration
	writeTimeout  time.Duration
	sendQueueSize int

	// 发送队列
	sendChan chan *Message

	// 日志
	logger logger.Logger

	// 状态
	mu         sync.RWMutex
	state      ConnectionState
	closed     atomic.Bool
	closeChan  chan struct{}
	closeOnce  sync.Once
	closeError error

	// 连接信息
	remoteAddr  string
	connectedAt time.Time
}

// NewConnection 创建连接
func NewConnection(conn *websocket.Conn, opts ...ConnectionOption) *Connection {
	c := &Connection{
		id:            uuid.New().String(),
		conn:          conn,
		writeTimeout:  10 * time.Second,
		sendQueueSize: 256,
		closeChan:     make(chan struct{}),
		state:         StateConnected,
		remoteAddr:    conn.RemoteAddr().String(),
		connectedAt:   time.Now(),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.sendChan = make(chan *Message, c.sendQueueSize)

	return c
}

// ID 返回连接 ID
func (c *Connection) ID() string {
	return c.id
}

// State 返回连接状态
func (c *Connection) State() ConnectionState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// RemoteAddr 返回远程地址
func (c *Connection) RemoteAddr() string {
	return c.remoteAddr
}

// ConnectedAt 返回连接时间
func (c *Connection) ConnectedAt() time.Time {
	return c.connectedAt
}

// IsClosed 检查连接是否已关闭
func (c *Connection) IsClosed() bool {
	return c.closed.Load()
}

// Info 返回连接信息
func (c *Connection) Info() ConnectionInfo {
	return ConnectionInfo{
		ID:          c.id,
		RemoteAddr:  c.remoteAddr,
		State:       c.State(),
		ConnectedAt: c.connectedAt,
	}
}

// Send 发送消息（同步，压入发送队列）
func (c *Connection) Send(ctx context.Context, msg *Message) error {
	if c.IsClosed() {
		return ErrConnectionClosed
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case c.sendChan <- msg:
		return nil
	case <-c.closeChan:
		return ErrConnectionClosed
	}
}

// SendAsync 发送消息（异步，非阻塞）
func (c *Connection) SendAsync(msg *Message) error {
	if c.IsClosed() {
		return ErrConnectionClosed
	}

	select {
	case c.sendChan <- msg:
		return nil
	default:
		return ErrSendQueueFull
	}
}

// SendJSON 发送 JSON 文本消息
func (c *Connection) SendJSON(ctx context.Context, v interface{}) error {
	msg, err := NewJSONMessage(v)
	if err != nil {
		return err
	}
	return c.Send(ctx, msg)
}

// ReadLoop 读取循环
// 每收到一条消息调用一次 handler；连接关闭或读错误时返回
func (c *Connection) ReadLoop(handler HandlerFunc) {
	defer c.Close()

	for {
		if c.IsClosed() {
			return
		}

		if c.readTimeout > 0 {
			_ = c.conn.SetReadDeadline(time.Now().Add(c.readTimeout))
		}

		msgType, data, err := c.conn.ReadMessage()
		if err != nil {
			if c.IsClosed() {
				return
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return
			}
			if err == io.EOF {
				return
			}
			if c.logger != nil {
				c.logger.Debug("websocket read error", "error", err, "conn_id", c.id)
			}
			return
		}

		msg := &Message{
			Type:      MessageType(msgType),
			Data:      data,
			Timestamp: time.Now(),
		}

		if handler != nil {
			if err := handler(c, msg); err != nil {
				if c.logger != nil {
					c.logger.Warn("websocket handler error", "error", err, "conn_id", c.id)
				}
			}
		}
	}
}

// WriteLoop 写入循环
// 将发送队列中的消息逐条写入底层连接
func (c *Connection) WriteLoop() {
	defer c.Close()

	for {
		select {
		case msg, ok := <-c.sendChan:
			if !ok {
				return
			}

			if c.writeTimeout > 0 {
				_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
			}

			if err := c.conn.WriteMessage(int(msg.Type), msg.Data); err != nil {
				if c.logger != nil {
					c.logger.Debug("websocket write error", "error", err, "conn_id", c.id)
				}
				return
			}

		case <-c.closeChan:
			return
		}
	}
}

// Close 关闭连接
func (c *Connection) Close() error {
	return c.CloseWithError(nil)
}

// CloseWithError 带错误关闭连接
// 保证底层连接只被关闭一次
func (c *Connection) CloseWithError(err error) error {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		c.closeError = err

		c.mu.Lock()
		c.state = StateClosed
		c.mu.Unlock()

		close(c.closeChan)

		// 发送关闭帧
		_ = c.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)

		_ = c.conn.Close()
	})
	return nil
}

// CloseError 返回关闭错误
func (c *Connection) CloseError() error {
	return c.closeError
}

// Ping 发送传输层 Ping 控制帧
func (c *Connection) Ping() error {
	if c.IsClosed() {
		return ErrConnectionClosed
	}
	return c.conn.WriteControl(
		websocket.PingMessage,
		[]byte{},
		time.Now().Add(c.writeTimeout),
	)
}

// SetPongHandler 设置 Pong 处理器
func (c *Connection) SetPongHandler(h func(appData string) error) {
	c.conn.SetPongHandler(h)
}

// SetReadLimit 设置单条消息的读取上限
func (c *Connection) SetReadLimit(limit int64) {
	c.conn.SetReadLimit(limit)
}
