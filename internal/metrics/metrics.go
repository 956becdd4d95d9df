package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "orderquota"
	subsystem = "optimizer"
)

// Registry 独立的 Prometheus 注册表，不使用全局默认注册表
var Registry = prometheus.NewRegistry()

// SolveRecorder 记录求解事件
type SolveRecorder interface {
	RecordSolve(outcome string, items int, duration time.Duration)
}

// SolveCollector 求解指标
type SolveCollector struct {
	solvesTotal   *prometheus.CounterVec
	solveDuration prometheus.Histogram
	items         prometheus.Gauge
}

// NewSolveCollector 创建求解指标
func NewSolveCollector() *SolveCollector {
	return &SolveCollector{
		solvesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "solves_total",
				Help:      "Total number of solve requests by outcome",
			},
			[]string{"outcome"},
		),
		solveDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "solve_duration_seconds",
				Help:      "Build-solve-project duration distribution",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 30.0},
			},
		),
		items: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "items",
				Help:      "Number of items in the most recent solve",
			},
		),
	}
}

// Register 注册到 reg，reg 为空时使用 Registry
func (c *SolveCollector) Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = Registry
	}
	for _, m := range []prometheus.Collector{c.solvesTotal, c.solveDuration, c.items} {
		if err := reg.Register(m); err != nil {
			return err
		}
	}
	return nil
}

// RecordSolve 记录一次求解
func (c *SolveCollector) RecordSolve(outcome string, items int, duration time.Duration) {
	c.solvesTotal.WithLabelValues(outcome).Inc()
	c.solveDuration.Observe(duration.Seconds())
	c.items.Set(float64(items))
}

// Nop 不记录任何指标
type Nop struct{}

func (Nop) RecordSolve(string, int, time.Duration) {}
