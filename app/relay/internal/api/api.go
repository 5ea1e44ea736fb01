// Package api 暴露中继服务的管理接口。
// 面向后台轮询方，不面向 WebSocket 对端。
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hidanz98/command-d-relay/app/relay/internal/handler"
	"github.com/hidanz98/command-d-relay/app/relay/internal/ledger"
	"github.com/hidanz98/command-d-relay/pkg/logger"
	"github.com/hidanz98/command-d-relay/pkg/web"
)

// Handler 管理接口处理器
type Handler struct {
	relay  *handler.Relay
	logger logger.Logger
}

// NewHandler 创建管理接口处理器
func NewHandler(relay *handler.Relay, l logger.Logger) *Handler {
	if l == nil {
		l = logger.Default()
	}
	return &Handler{
		relay:  relay,
		logger: l.Named("relay.api"),
	}
}

// Register 注册路由
func (h *Handler) Register(r gin.IRouter) {
	group := r.Group("/api/relay")
	group.GET("/stats", h.getStats)
	group.GET("/commands", h.getPendingCommands)
	group.POST("/commands/:id/response", h.markProcessed)
}

// getStats 返回运行时统计
func (h *Handler) getStats(c *gin.Context) {
	web.Success(c, h.relay.Stats())
}

// getPendingCommands 返回未处理命令
func (h *Handler) getPendingCommands(c *gin.Context) {
	pending := h.relay.PendingCommands()
	if pending == nil {
		pending = []*ledger.Command{}
	}
	web.Success(c, pending)
}

// markProcessed 标记命令已处理
// 命令不存在不是错误，通过 applied 字段告知调用方
func (h *Handler) markProcessed(c *gin.Context) {
	id := c.Param("id")

	var response map[string]any
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&response); err != nil {
			web.Error(c, http.StatusBadRequest, 400, "invalid response body: "+err.Error())
			return
		}
	}

	applied := h.relay.MarkCommandProcessed(id, response)
	if !applied {
		h.logger.Debug("mark processed on absent command", "command_id", id)
	}
	web.Success(c, gin.H{"applied": applied})
}
