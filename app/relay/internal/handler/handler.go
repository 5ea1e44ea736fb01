// Package handler 实现中继服务的消息分发。
// 解析入站帧、维护连接状态机（未识别 -> 已识别），并把帧路由到同会话的其余成员。
package handler

import (
	"github.com/benbjohnson/clock"

	"github.com/hidanz98/command-d-relay/app/relay/internal/ledger"
	"github.com/hidanz98/command-d-relay/app/relay/internal/protocol"
	"github.com/hidanz98/command-d-relay/app/relay/internal/session"
	"github.com/hidanz98/command-d-relay/pkg/logger"
	"github.com/hidanz98/command-d-relay/pkg/websocket"
)

// 连接建立时下发的问候语
const greetingMessage = "connected to relay server"

// Relay 中继分发器
// 实现 websocket.MessageHandler，同时向管理接口暴露统计与命令账本
type Relay struct {
	manager *session.Manager
	ledger  *ledger.Ledger
	clock   clock.Clock
	logger  logger.Logger
}

// Option Relay 配置函数
type Option func(*Relay)

// WithLogger 设置日志器
func WithLogger(l logger.Logger) Option {
	return func(r *Relay) { r.logger = l }
}

// WithClock 注入时钟
func WithClock(c clock.Clock) Option {
	return func(r *Relay) { r.clock = c }
}

// NewRelay 创建中继分发器
func NewRelay(manager *session.Manager, led *ledger.Ledger, opts ...Option) *Relay {
	r := &Relay{
		manager: manager,
		ledger:  led,
		clock:   clock.New(),
		logger:  logger.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.Named("relay.handler")
	return r
}

// OnConnect 连接建立回调
func (r *Relay) OnConnect(conn *websocket.Connection) error {
	return r.handleConnect(conn)
}

// OnMessage 收到帧回调
func (r *Relay) OnMessage(conn *websocket.Connection, msg *websocket.Message) error {
	return r.handleFrame(conn, msg.Data)
}

// OnDisconnect 连接断开回调
func (r *Relay) OnDisconnect(conn *websocket.Connection, err error) {
	r.handleDisconnect(conn.ID(), err)
}

// OnError 错误回调
func (r *Relay) OnError(conn *websocket.Connection, err error) {
	r.logger.Warn("connection error", "peer_id", conn.ID(), "error", err)
}

// handleConnect 注册连接并下发问候帧
// 标识冲突只导致本次注册失败，连接随之被关闭，进程不受影响
func (r *Relay) handleConnect(conn session.Conn) error {
	peer, err := r.manager.Register(conn, r.clock.Now())
	if err != nil {
		r.logger.Error("failed to register connection", "peer_id", conn.ID(), "error", err)
		return err
	}

	r.logger.Info("peer connected", "peer_id", conn.ID(), "remote_addr", conn.RemoteAddr())

	env, err := protocol.NewEnvelope(protocol.KindStatus, "", protocol.ConnectedStatus{
		Connected: true,
		ClientID:  conn.ID(),
		Message:   greetingMessage,
	}, r.clock.Now())
	if err != nil {
		r.manager.Remove(conn.ID())
		return err
	}
	if err := r.manager.SendTo(peer, env); err != nil {
		// 问候帧都发不出去的连接没有保留价值，立即撤销注册
		r.manager.Remove(conn.ID())
		return err
	}
	return nil
}

// handleFrame 分发一个入站帧
// 畸形帧记录后丢弃，永远不把错误上抛为致命错误
func (r *Relay) handleFrame(conn session.Conn, raw []byte) error {
	env, err := protocol.Decode(raw)
	if err != nil {
		r.logger.Warn("malformed frame dropped", "peer_id", conn.ID(), "error", err)
		return nil
	}

	peer, ok := r.manager.Get(conn.ID())
	if !ok {
		// 连接已被移除，迟到的帧直接丢弃
		return nil
	}

	// 任何入站帧都刷新活跃时间，不只是 ping
	peer.Touch(r.clock.Now())

	switch env.Type {
	case protocol.KindJoin:
		r.handleJoin(peer, env)
	case protocol.KindCommand:
		r.handleCommand(peer, env)
	case protocol.KindResponse:
		r.handleResponse(peer, env)
	case protocol.KindTyping:
		r.handleTyping(peer, env)
	case protocol.KindPing:
		// 仅刷新活跃时间，不产生出站帧
	default:
		// 未知种类静默忽略
	}
	return nil
}

// handleJoin 将连接识别进一个会话并广播上线事件
// 重复 join 覆盖旧的角色与会话，是刻意支持的重识别语义
func (r *Relay) handleJoin(peer *session.Peer, env *protocol.Envelope) {
	data, err := env.JoinPayload()
	if err != nil {
		r.logger.Warn("invalid join payload dropped", "peer_id", peer.ID(), "error", err)
		return
	}

	sessionKey := env.SessionID
	if sessionKey == "" {
		sessionKey = protocol.DefaultSessionKey
	}
	role := session.ParseClientType(data.Type)
	peer.Identify(role, sessionKey)

	// 上线人数在加入之后统计，包含新成员自己
	online := r.manager.CountBySession(sessionKey)

	r.logger.Info("peer joined session",
		"peer_id", peer.ID(),
		"session", sessionKey,
		"role", role.String(),
		"online", online,
	)

	out, err := protocol.NewEnvelope(protocol.KindStatus, sessionKey, protocol.JoinedStatus{
		Event:      "user_joined",
		ClientType: role.ClientType(),
		Online:     online,
	}, r.clock.Now())
	if err != nil {
		r.logger.Error("failed to build join status", "error", err)
		return
	}
	r.manager.Broadcast(sessionKey, out, peer.ID())
}

// handleCommand 命令入账、转发给会话内其余成员并回执发送方
func (r *Relay) handleCommand(peer *session.Peer, env *protocol.Envelope) {
	if !peer.Identified() {
		return
	}

	payload, err := env.ObjectPayload()
	if err != nil {
		r.logger.Warn("invalid command payload dropped", "peer_id", peer.ID(), "error", err)
		return
	}

	cmd := r.ledger.Append(payload, peer.Role().String())

	// 转发的命令携带服务端补充的 id / from / timestamp
	data := make(map[string]any, len(cmd.Payload)+3)
	for k, v := range cmd.Payload {
		data[k] = v
	}
	data["id"] = cmd.ID
	data["from"] = cmd.From
	data["timestamp"] = cmd.Timestamp.UnixMilli()

	sessionKey := peer.SessionKey()
	out, err := protocol.NewEnvelope(protocol.KindCommand, sessionKey, data, r.clock.Now())
	if err != nil {
		r.logger.Error("failed to build command frame", "error", err)
		return
	}
	out.From = cmd.From
	r.manager.Broadcast(sessionKey, out, peer.ID())

	// 回执只发给发送方
	ack, err := protocol.NewEnvelope(protocol.KindStatus, sessionKey, protocol.AckStatus{
		Received:  true,
		CommandID: cmd.ID,
	}, r.clock.Now())
	if err != nil {
		r.logger.Error("failed to build command ack", "error", err)
		return
	}
	if err := r.manager.SendTo(peer, ack); err != nil {
		r.logger.Warn("command ack send failed", "peer_id", peer.ID(), "error", err)
	}
}

// handleResponse 把响应转发给会话内其余成员
// from 固定标记为 "pc"：协议约定响应只来自桌面端，这里不校验实际角色
func (r *Relay) handleResponse(peer *session.Peer, env *protocol.Envelope) {
	if !peer.Identified() {
		return
	}

	payload, err := env.ObjectPayload()
	if err != nil {
		r.logger.Warn("invalid response payload dropped", "peer_id", peer.ID(), "error", err)
		return
	}

	sessionKey := peer.SessionKey()
	out, err := protocol.NewEnvelope(protocol.KindResponse, sessionKey, payload, r.clock.Now())
	if err != nil {
		r.logger.Error("failed to build response frame", "error", err)
		return
	}
	out.From = "pc"
	r.manager.Broadcast(sessionKey, out, peer.ID())
}

// handleTyping 转发输入状态，不经过账本
func (r *Relay) handleTyping(peer *session.Peer, env *protocol.Envelope) {
	if !peer.Identified() {
		return
	}

	data, err := env.TypingPayload()
	if err != nil {
		r.logger.Warn("invalid typing payload dropped", "peer_id", peer.ID(), "error", err)
		return
	}

	sessionKey := peer.SessionKey()
	out, err := protocol.NewEnvelope(protocol.KindTyping, sessionKey, protocol.TypingData{
		IsTyping: data.IsTyping,
		From:     peer.Role().String(),
	}, r.clock.Now())
	if err != nil {
		r.logger.Error("failed to build typing frame", "error", err)
		return
	}
	r.manager.Broadcast(sessionKey, out, peer.ID())
}

// handleDisconnect 同步移除注册表记录
func (r *Relay) handleDisconnect(identity string, err error) {
	r.manager.Remove(identity)
	if err != nil {
		r.logger.Info("peer disconnected", "peer_id", identity, "reason", err.Error())
		return
	}
	r.logger.Info("peer disconnected", "peer_id", identity)
}
