package handler

import "github.com/prometheus/client_golang/prometheus"

// RegisterMetrics 注册中继层指标
// 传输层指标由 pkg/websocket 负责，这里只暴露业务视角的量
func (r *Relay) RegisterMetrics(registerer prometheus.Registerer) {
	registerer.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "relay",
			Name:      "clients",
			Help:      "Number of registered relay clients",
		}, func() float64 {
			return float64(r.manager.Count())
		}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "relay",
			Name:      "sessions",
			Help:      "Number of sessions with at least one member",
		}, func() float64 {
			return float64(r.manager.SessionCount())
		}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "relay",
			Name:      "pending_commands",
			Help:      "Number of unprocessed commands in the ledger",
		}, func() float64 {
			return float64(r.ledger.PendingCount())
		}),
	)
}
