package handler

import (
	"github.com/hidanz98/command-d-relay/app/relay/internal/ledger"
	"github.com/hidanz98/command-d-relay/app/relay/internal/session"
)

// Stats 管理接口暴露的运行时统计
type Stats struct {
	TotalClients int        `json:"totalClients"`
	ByType       TypeCounts `json:"byType"`
	CommandQueue int        `json:"commandQueue"`
}

// TypeCounts 各客户端类型的连接数
type TypeCounts struct {
	PC     int `json:"pc"`
	IPhone int `json:"iphone"`
}

// Stats 返回当前统计快照
func (r *Relay) Stats() Stats {
	byRole := r.manager.CountByRole()
	return Stats{
		TotalClients: r.manager.Count(),
		ByType: TypeCounts{
			PC:     byRole[session.RoleDesktop],
			IPhone: byRole[session.RoleMobile],
		},
		CommandQueue: r.ledger.PendingCount(),
	}
}

// PendingCommands 返回未处理命令的快照
func (r *Relay) PendingCommands() []*ledger.Command {
	return r.ledger.Pending()
}

// MarkCommandProcessed 标记命令已处理并附加响应
// ID 不存在时返回 false，调用方自行决定如何呈现
func (r *Relay) MarkCommandProcessed(id string, response map[string]any) bool {
	return r.ledger.MarkProcessed(id, response)
}
