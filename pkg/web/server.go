package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hidanz98/command-d-relay/pkg/logger"
	"github.com/hidanz98/command-d-relay/pkg/web/middleware"
)

// Server Web 服务核心结构
type Server struct {
	engine *gin.Engine
	config *Config
	logger logger.Logger
	server *http.Server
}

// NewServer 创建 Web 服务
func NewServer(cfg *Config, l logger.Logger) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if l == nil {
		l = logger.Default()
	}

	gin.SetMode(cfg.Mode)

	engine := gin.New()

	// 挂载基础中间件
	engine.Use(middleware.Logger(l))
	engine.Use(middleware.Recovery(l))
	if cfg.EnableCORS {
		engine.Use(middleware.CORS())
	}

	return &Server{
		engine: engine,
		config: cfg,
		logger: l.Named("web.server"),
	}
}

// Router 返回 Gin 引擎，用于注册路由
func (s *Server) Router() *gin.Engine {
	return s.engine
}

// Handler 返回 http.Handler 接口
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Addr 返回监听地址
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}

// Start 启动监听，不阻塞调用方
func (s *Server) Start() error {
	if s.server != nil {
		return ErrServerAlreadyStarted
	}

	addr := s.Addr()
	s.server = &http.Server{
		Addr:           addr,
		Handler:        s.engine,
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		var err error
		if s.config.EnableTLS {
			s.logger.Info("starting https server", "addr", addr)
			err = s.server.ListenAndServeTLS(s.config.CertFile, s.config.KeyFile)
		} else {
			s.logger.Info("starting http server", "addr", addr)
			err = s.server.ListenAndServe()
		}

		if err != nil && err != http.ErrServerClosed {
			s.logger.Error("server startup failed", "error", err)
		}
	}()

	return nil
}

// Stop 立即停止服务
func (s *Server) Stop() error {
	if s.server == nil {
		return ErrServerNotStarted
	}
	return s.server.Close()
}

// GracefulStop 优雅关机，等待存量请求完成
func (s *Server) GracefulStop() error {
	if s.server == nil {
		return ErrServerNotStarted
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	s.logger.Info("server exited")
	return nil
}
