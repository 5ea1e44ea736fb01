package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	gws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoHandler 回显收到的文本消息
type echoHandler struct {
	BaseHandler

	mu           sync.Mutex
	connected    []string
	disconnected []string
}

func (h *echoHandler) OnConnect(conn *Connection) error {
	h.mu.Lock()
	h.connected = append(h.connected, conn.ID())
	h.mu.Unlock()
	return nil
}

func (h *echoHandler) OnMessage(conn *Connection, msg *Message) error {
	return conn.SendAsync(NewTextMessage(msg.Data))
}

func (h *echoHandler) OnDisconnect(conn *Connection, err error) {
	h.mu.Lock()
	h.disconnected = append(h.disconnected, conn.ID())
	h.mu.Unlock()
}

func newTestServer(t *testing.T, opts ...ServerOption) (*Server, *httptest.Server) {
	t.Helper()

	cfg := DefaultServerConfig()
	cfg.PingInterval = 0 // 测试中不需要传输层保活
	cfg.CheckOrigin = func(r *http.Request) bool { return true }

	srv, err := NewServer(cfg, opts...)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		_ = srv.Close()
		ts.Close()
	})
	return srv, ts
}

func dial(t *testing.T, ts *httptest.Server) *gws.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := gws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func TestServerEcho(t *testing.T) {
	handler := &echoHandler{}
	srv, ts := newTestServer(t, WithServerHandler(handler))

	client := dial(t, ts)
	defer client.Close()

	require.NoError(t, client.WriteMessage(gws.TextMessage, []byte("hello")))

	_ = client.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := client.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	assert.Equal(t, 1, srv.GetConnectionCount())
}

func TestServerDisconnectCleanup(t *testing.T) {
	handler := &echoHandler{}
	srv, ts := newTestServer(t, WithServerHandler(handler))

	client := dial(t, ts)
	require.NoError(t, client.WriteMessage(gws.TextMessage, []byte("x")))
	_ = client.Close()

	require.Eventually(t, func() bool {
		return srv.GetConnectionCount() == 0
	}, 2*time.Second, 10*time.Millisecond)

	handler.mu.Lock()
	defer handler.mu.Unlock()
	assert.Len(t, handler.connected, 1)
	assert.Len(t, handler.disconnected, 1)
	assert.Equal(t, handler.connected[0], handler.disconnected[0])
}

func TestServerMiddleware(t *testing.T) {
	var order []string
	var mu sync.Mutex

	mw := func(name string) Middleware {
		return func(next HandlerFunc) HandlerFunc {
			return func(conn *Connection, msg *Message) error {
				mu.Lock()
				order = append(order, name)
				mu.Unlock()
				return next(conn, msg)
			}
		}
	}

	handler := &echoHandler{}
	_, ts := newTestServer(t,
		WithServerHandler(handler),
		WithServerMiddleware(mw("first"), mw("second")),
	)

	client := dial(t, ts)
	defer client.Close()

	require.NoError(t, client.WriteMessage(gws.TextMessage, []byte("m")))

	_ = client.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := client.ReadMessage()
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestConnectionSendJSON(t *testing.T) {
	type payload struct {
		Kind string `json:"kind"`
	}

	srv, ts := newTestServer(t)

	client := dial(t, ts)
	defer client.Close()

	require.Eventually(t, func() bool {
		return srv.GetConnectionCount() == 1
	}, 2*time.Second, 10*time.Millisecond)

	conns := srv.GetConnections()
	require.Len(t, conns, 1)
	require.NoError(t, conns[0].SendJSON(context.Background(), payload{Kind: "status"}))

	_ = client.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := client.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"status"}`, string(data))
}

func TestConfigValidateDefaults(t *testing.T) {
	cfg := &ServerConfig{}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 4096, cfg.ReadBufferSize)
	assert.Equal(t, int64(512*1024), cfg.MaxMessageSize)
	assert.Equal(t, 256, cfg.SendQueueSize)
}

func TestExtractIP(t *testing.T) {
	assert.Equal(t, "127.0.0.1", extractIP("127.0.0.1:8080"))
	assert.Equal(t, "localhost", extractIP("localhost"))
}
