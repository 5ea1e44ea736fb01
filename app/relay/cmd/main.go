package main

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hidanz98/command-d-relay/app/relay/internal/api"
	"github.com/hidanz98/command-d-relay/app/relay/internal/handler"
	"github.com/hidanz98/command-d-relay/app/relay/internal/ledger"
	"github.com/hidanz98/command-d-relay/app/relay/internal/monitor"
	"github.com/hidanz98/command-d-relay/app/relay/internal/session"
	"github.com/hidanz98/command-d-relay/pkg/app"
	"github.com/hidanz98/command-d-relay/pkg/idgen"
	"github.com/hidanz98/command-d-relay/pkg/logger"
	"github.com/hidanz98/command-d-relay/pkg/web"
	"github.com/hidanz98/command-d-relay/pkg/websocket"
)

// Config Relay 服务配置
type Config struct {
	Log logger.Config `mapstructure:"log"`

	// Web 配置
	Web web.Config `mapstructure:"web"`

	// WebSocket 配置
	WebSocket websocket.ServerConfig `mapstructure:"websocket"`

	// Relay 配置
	Relay RelayConfig `mapstructure:"relay"`
}

// RelayConfig 中继自身的配置
type RelayConfig struct {
	// HeartbeatInterval 心跳周期，0 表示使用默认值
	HeartbeatInterval time.Duration `mapstructure:"heartbeat_interval"`

	// LedgerMaxEntries 命令账本容量，0 表示默认值，负数表示不设上限
	LedgerMaxEntries int `mapstructure:"ledger_max_entries"`

	// MachineID Sonyflake 机器 ID，命令 ID 生成使用
	MachineID uint16 `mapstructure:"machine_id"`
}

func main() {
	var cfg Config

	// 1. 加载配置
	if err := app.LoadConfig(&cfg); err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		return
	}

	// 2. 初始化日志
	l, err := logger.New(&cfg.Log)
	if err != nil {
		panic(err)
	}
	logger.SetDefault(l)

	// 3. 初始化命令 ID 生成器
	cmdIDs, err := idgen.NewSonyflake(cfg.Relay.MachineID)
	if err != nil {
		l.Error("failed to create id generator", "error", err)
		return
	}
	idgen.Init(cmdIDs)

	// 4. 初始化连接注册表与命令账本
	manager := session.NewManager(l)

	maxEntries := cfg.Relay.LedgerMaxEntries
	if maxEntries == 0 {
		maxEntries = ledger.DefaultMaxEntries
	} else if maxEntries < 0 {
		maxEntries = 0
	}
	led := ledger.New(
		ledger.WithMaxEntries(maxEntries),
		ledger.WithIDGenerator(idgen.NewNumericString(idgen.Global(), "cmd")),
	)

	// 5. 初始化中继分发器
	relay := handler.NewRelay(manager, led, handler.WithLogger(l))
	relay.RegisterMetrics(prometheus.DefaultRegisterer)

	// 6. 初始化 WebSocket Server
	wsServer, err := websocket.NewServer(&cfg.WebSocket,
		websocket.WithServerLogger(l),
		websocket.WithServerMetrics(prometheus.DefaultRegisterer),
		websocket.WithServerConnectionID(idgen.NewTimeRand("", 8)),
		websocket.WithServerHandler(relay),
	)
	if err != nil {
		l.Error("failed to create websocket server", "error", err)
		return
	}

	// 7. 初始化 Web Server 并注册路由
	webServer := web.NewServer(&cfg.Web, l)
	router := webServer.Router()

	router.GET("/ws", gin.WrapH(wsServer.Handler()))
	router.GET("/healthz", func(c *gin.Context) {
		web.Success(c, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	api.NewHandler(relay, l).Register(router)

	// 8. 初始化心跳广播
	monOpts := []monitor.Option{monitor.WithLogger(l)}
	if cfg.Relay.HeartbeatInterval > 0 {
		monOpts = append(monOpts, monitor.WithInterval(cfg.Relay.HeartbeatInterval))
	}
	mon := monitor.New(manager, monOpts...)

	// 9. 创建应用并注册服务
	application := app.NewBaseApp(
		app.WithName("relay"),
		app.WithLogger(l),
	)
	application.AppendServer(webServer, mon)
	application.AppendCloser(wsServer)

	// 10. 启动应用（阻塞直到退出信号）
	if err := application.Run(); err != nil {
		l.Error("application exited with error", "error", err)
	}
}
