package session

import (
	"sync"
	"time"

	"github.com/hidanz98/command-d-relay/app/relay/internal/protocol"
	"github.com/hidanz98/command-d-relay/pkg/logger"
	"github.com/hidanz98/command-d-relay/pkg/websocket"
)

// Manager 连接注册表与会话路由
// 按连接标识管理全部存活连接，并按会话键解析广播目标
type Manager struct {
	mu    sync.RWMutex
	peers map[string]*Peer

	logger logger.Logger
}

// NewManager 创建连接管理器
func NewManager(l logger.Logger) *Manager {
	if l == nil {
		l = logger.Default()
	}
	return &Manager{
		peers:  make(map[string]*Peer),
		logger: l.Named("relay.session"),
	}
}

// Register 注册新连接
// 标识重复说明生成器被破坏，拒绝本次注册但不影响进程
func (m *Manager) Register(conn Conn, now time.Time) (*Peer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.peers[conn.ID()]; ok {
		return nil, ErrDuplicateIdentity
	}

	p := NewPeer(conn, now)
	m.peers[conn.ID()] = p
	return p, nil
}

// Remove 移除连接，幂等，移除不存在的标识为空操作
func (m *Manager) Remove(identity string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.peers, identity)
}

// Get 按标识查找连接，不存在是正常结果
func (m *Manager) Get(identity string) (*Peer, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.peers[identity]
	return p, ok
}

// All 返回全部连接的快照，可在并发增删下安全遍历
func (m *Manager) All() []*Peer {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Peer, 0, len(m.peers))
	for _, p := range m.peers {
		out = append(out, p)
	}
	return out
}

// MembersOf 返回会话内全部连接
// 空会话键代表 join 之前的状态，永远没有成员
func (m *Manager) MembersOf(sessionKey string) []*Peer {
	if sessionKey == "" {
		return nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Peer
	for _, p := range m.peers {
		if p.SessionKey() == sessionKey {
			out = append(out, p)
		}
	}
	return out
}

// CountBySession 返回会话内连接数
func (m *Manager) CountBySession(sessionKey string) int {
	return len(m.MembersOf(sessionKey))
}

// Count 返回存活连接总数
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.peers)
}

// SessionCount 返回当前存在的会话数（至少有一个成员的不同会话键）
func (m *Manager) SessionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make(map[string]struct{})
	for _, p := range m.peers {
		if key := p.SessionKey(); key != "" {
			keys[key] = struct{}{}
		}
	}
	return len(keys)
}

// CountByRole 返回各角色的连接数
func (m *Manager) CountByRole() map[Role]int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[Role]int)
	for _, p := range m.peers {
		out[p.Role()]++
	}
	return out
}

// Broadcast 向会话内除 excludeIdentity 外的全部成员发送帧
// 发送尽力而为：单个成员失败不影响其余成员，失败方按掉线处理并移出注册表
func (m *Manager) Broadcast(sessionKey string, env *protocol.Envelope, excludeIdentity string) {
	members := m.MembersOf(sessionKey)
	if len(members) == 0 {
		return
	}

	raw, err := env.Encode()
	if err != nil {
		m.logger.Error("failed to encode broadcast frame", "kind", env.Type, "error", err)
		return
	}

	for _, p := range members {
		if p.ID() == excludeIdentity {
			continue
		}
		if err := p.Conn().SendAsync(websocket.NewTextMessage(raw)); err != nil {
			m.logger.Warn("broadcast send failed, dropping peer",
				"peer_id", p.ID(),
				"session", sessionKey,
				"error", err,
			)
			m.Remove(p.ID())
			_ = p.Conn().Close()
		}
	}
}

// SendTo 向单个连接发送帧
func (m *Manager) SendTo(p *Peer, env *protocol.Envelope) error {
	raw, err := env.Encode()
	if err != nil {
		return err
	}
	return p.Conn().SendAsync(websocket.NewTextMessage(raw))
}
