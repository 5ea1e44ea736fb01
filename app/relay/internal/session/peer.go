package session

import (
	"sync"
	"time"

	"github.com/hidanz98/command-d-relay/pkg/websocket"
)

// Conn 传输层连接
// *websocket.Connection 实现了该接口，测试中可用假连接替代
type Conn interface {
	ID() string
	RemoteAddr() string
	SendAsync(msg *websocket.Message) error
	IsClosed() bool
	Close() error
}

// Peer 注册表中的一条连接记录
// 标识在创建后不变；角色和会话键由 join 帧设置，允许重复 join 覆盖
type Peer struct {
	conn Conn

	mu         sync.RWMutex
	role       Role
	sessionKey string
	lastSeen   time.Time
}

// NewPeer 创建连接记录，初始为未识别状态
func NewPeer(conn Conn, now time.Time) *Peer {
	return &Peer{
		conn:     conn,
		role:     RoleUnknown,
		lastSeen: now,
	}
}

// ID 返回连接标识
func (p *Peer) ID() string {
	return p.conn.ID()
}

// Conn 返回底层连接
func (p *Peer) Conn() Conn {
	return p.conn
}

// Role 返回当前角色
func (p *Peer) Role() Role {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.role
}

// SessionKey 返回当前会话键，join 之前为空串
func (p *Peer) SessionKey() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.sessionKey
}

// Identify 设置角色和会话键
// 重复调用是刻意支持的重识别语义，直接覆盖旧值
func (p *Peer) Identify(role Role, sessionKey string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.role = role
	p.sessionKey = sessionKey
}

// Identified 报告该连接是否已完成 join
func (p *Peer) Identified() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.sessionKey != ""
}

// Touch 更新活跃时间戳，任何入站帧都会触发
func (p *Peer) Touch(now time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastSeen = now
}

// LastSeen 返回最近一次收到帧的时间
func (p *Peer) LastSeen() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastSeen
}
