package server

import (
	"net/http"
	"time"

	"github.com/shouni/go-pudding-kit/pkg/generator"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics は画像生成の回数と所要時間を Prometheus 形式で公開するのだ。
// サーバーごとにレジストリを持つので、テストで何度作っても衝突しないのだ。
type Metrics struct {
	registry    *prometheus.Registry
	generations *prometheus.CounterVec
	duration    prometheus.Histogram
}

// NewMetrics は Metrics を初期化するのだ。
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pudding_generations_total",
			Help: "Number of pudding character generations by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pudding_generation_duration_seconds",
			Help:    "Time spent fetching a pudding character image.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
	}
	m.registry.MustRegister(m.generations, m.duration)
	return m
}

// Observe は1回の取得結果を記録するのだ。
func (m *Metrics) Observe(outcome generator.Outcome, elapsed time.Duration) {
	m.generations.WithLabelValues(string(outcome)).Inc()
	m.duration.Observe(elapsed.Seconds())
}

// Handler は /metrics 用のハンドラーを返すのだ。
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
