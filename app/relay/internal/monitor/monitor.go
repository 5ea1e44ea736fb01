// Package monitor 实现会话级心跳广播。
// 周期性向每个存活连接下发 ping 帧，仅作健康通告，不做超时清理，
// 连接的移除只由传输层关闭或出错触发。
package monitor

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/hidanz98/command-d-relay/app/relay/internal/protocol"
	"github.com/hidanz98/command-d-relay/app/relay/internal/session"
	"github.com/hidanz98/command-d-relay/pkg/conc"
	"github.com/hidanz98/command-d-relay/pkg/logger"
)

// DefaultInterval 默认心跳周期
const DefaultInterval = 30 * time.Second

// Monitor 心跳广播器
type Monitor struct {
	manager  *session.Manager
	interval time.Duration
	clock    clock.Clock
	logger   logger.Logger

	stopOnce sync.Once
	stopChan chan struct{}
	doneChan chan struct{}
}

// Option Monitor 配置函数
type Option func(*Monitor)

// WithInterval 设置心跳周期
func WithInterval(d time.Duration) Option {
	return func(m *Monitor) {
		if d > 0 {
			m.interval = d
		}
	}
}

// WithClock 注入时钟
func WithClock(c clock.Clock) Option {
	return func(m *Monitor) { m.clock = c }
}

// WithLogger 设置日志器
func WithLogger(l logger.Logger) Option {
	return func(m *Monitor) { m.logger = l }
}

// New 创建心跳广播器
func New(manager *session.Manager, opts ...Option) *Monitor {
	m := &Monitor{
		manager:  manager,
		interval: DefaultInterval,
		clock:    clock.New(),
		logger:   logger.Default(),
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.Named("relay.monitor")
	return m
}

// Start 启动心跳循环，不阻塞调用方
func (m *Monitor) Start() error {
	conc.Go(func() (struct{}, error) {
		m.run()
		return struct{}{}, nil
	})
	return nil
}

// Stop 停止心跳循环并等待退出
func (m *Monitor) Stop() error {
	m.stopOnce.Do(func() {
		close(m.stopChan)
	})
	<-m.doneChan
	return nil
}

func (m *Monitor) run() {
	defer close(m.doneChan)

	ticker := m.clock.Ticker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Sweep()
		case <-m.stopChan:
			return
		}
	}
}

// Sweep 对全部存活连接下发一轮心跳
// 帧携带该连接当前的会话键，join 之前为空
func (m *Monitor) Sweep() {
	peers := m.manager.All()
	for _, p := range peers {
		if p.Conn().IsClosed() {
			continue
		}

		env, err := protocol.NewEnvelope(protocol.KindPing, p.SessionKey(), nil, m.clock.Now())
		if err != nil {
			m.logger.Error("failed to build ping frame", "error", err)
			continue
		}
		if err := m.manager.SendTo(p, env); err != nil {
			// 发送失败只记录，清理交给传输层的断开回调
			m.logger.Warn("heartbeat send failed", "peer_id", p.ID(), "error", err)
		}
	}

	if len(peers) > 0 {
		m.logger.Debug("heartbeat sweep complete", "peers", len(peers))
	}
}
