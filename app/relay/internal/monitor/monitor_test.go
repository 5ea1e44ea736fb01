package monitor

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hidanz98/command-d-relay/app/relay/internal/protocol"
	"github.com/hidanz98/command-d-relay/app/relay/internal/session"
	"github.com/hidanz98/command-d-relay/pkg/websocket"
)

type fakeConn struct {
	id string

	mu     sync.Mutex
	sent   []*websocket.Message
	closed bool
}

func (c *fakeConn) ID() string         { return c.id }
func (c *fakeConn) RemoteAddr() string { return "127.0.0.1:0" }

func (c *fakeConn) SendAsync(msg *websocket.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, msg)
	return nil
}

func (c *fakeConn) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) pings(t *testing.T) []*protocol.Envelope {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []*protocol.Envelope
	for _, msg := range c.sent {
		var env protocol.Envelope
		require.NoError(t, json.Unmarshal(msg.Data, &env))
		if env.Type == protocol.KindPing {
			out = append(out, &env)
		}
	}
	return out
}

func TestSweepSendsPingWithSessionKey(t *testing.T) {
	m := session.NewManager(nil)

	joined := &fakeConn{id: "c1"}
	p, err := m.Register(joined, time.Now())
	require.NoError(t, err)
	p.Identify(session.RoleDesktop, "s1")

	// join 之前的连接也收到心跳，会话键为空
	fresh := &fakeConn{id: "c2"}
	_, err = m.Register(fresh, time.Now())
	require.NoError(t, err)

	mon := New(m)
	mon.Sweep()

	pings := joined.pings(t)
	require.Len(t, pings, 1)
	assert.Equal(t, "s1", pings[0].SessionID)

	pings = fresh.pings(t)
	require.Len(t, pings, 1)
	assert.Empty(t, pings[0].SessionID)
}

func TestSweepSkipsClosedConnections(t *testing.T) {
	m := session.NewManager(nil)

	closed := &fakeConn{id: "c1"}
	_, err := m.Register(closed, time.Now())
	require.NoError(t, err)
	require.NoError(t, closed.Close())

	mon := New(m)
	mon.Sweep()

	assert.Empty(t, closed.pings(t))
	// 心跳不做清理，连接仍在注册表中
	_, ok := m.Get("c1")
	assert.True(t, ok)
}

func TestStartStop(t *testing.T) {
	m := session.NewManager(nil)

	conn := &fakeConn{id: "c1"}
	p, err := m.Register(conn, time.Now())
	require.NoError(t, err)
	p.Identify(session.RoleMobile, "s1")

	mon := New(m, WithInterval(10*time.Millisecond))
	require.NoError(t, mon.Start())

	require.Eventually(t, func() bool {
		conn.mu.Lock()
		defer conn.mu.Unlock()
		return len(conn.sent) >= 2
	}, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, mon.Stop())
}
