// pkg/websocket/handler.go
package websocket

// MessageHandler 消息处理器接口
type MessageHandler interface {
	// OnConnect 连接建立时的回调
	OnConnect(conn *Connection) error

	// OnMessage 收到消息时的回调
	OnMessage(conn *Connection, msg *Message) error

	// OnDisconnect 连接断开时的回调
	OnDisconnect(conn *Connection, err error)

	// OnError 发生错误时的回调
	OnError(conn *Connection, err error)
}

// BaseHandler 基础处理器（提供空实现，可嵌入使用）
type BaseHandler struct{}

// OnConnect 连接建立
func (h *BaseHandler) OnConnect(conn *Connection) error {
	return nil
}

// OnMessage 收到消息
func (h *BaseHandler) OnMessage(conn *Connection, msg *Message) error {
	return nil
}

// OnDisconnect 连接断开
func (h *BaseHandler) OnDisconnect(conn *Connection, err error) {}

// OnError 发生错误
func (h *BaseHandler) OnError(conn *Connection, err error) {}

// HandlerFunc 消息处理函数类型
type HandlerFunc func(conn *Connection, msg *Message) error

// Middleware 消息中间件
type Middleware func(next HandlerFunc) HandlerFunc

// chainMiddleware 将中间件按注册顺序串联
func chainMiddleware(base HandlerFunc, mws []Middleware) HandlerFunc {
	h := base
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
