package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// クエリ結果の分類
const (
	OutcomeOK        = "ok"
	OutcomeTransport = "transport"
	OutcomeStatus    = "status"
	OutcomeDecode    = "decode"
)

// Metrics は検索とモーダルのPrometheusコレクタ
type Metrics struct {
	registry *prometheus.Registry

	keywordQueries    *prometheus.CounterVec
	refreshes         *prometheus.CounterVec
	closeRequests     *prometheus.CounterVec
	missingToken      prometheus.Counter
	pendingTasks      prometheus.Gauge
	discoveryDuration prometheus.Histogram
}

// New は専用のレジストリにコレクタを登録する
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		keywordQueries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "slaguard_keyword_queries_total",
				Help: "Assignment queries issued, by keyword and outcome",
			},
			[]string{"keyword", "outcome"},
		),
		refreshes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "slaguard_refreshes_total",
				Help: "Modal refreshes, by trigger",
			},
			[]string{"trigger"},
		),
		closeRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "slaguard_close_requests_total",
				Help: "Close requests, by result",
			},
			[]string{"result"},
		),
		missingToken: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "slaguard_missing_token_total",
				Help: "Discovery cycles skipped because no anti-forgery token was available",
			},
		),
		pendingTasks: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "slaguard_pending_tasks",
				Help: "Overdue tasks found by the latest discovery cycle",
			},
		),
		discoveryDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "slaguard_discovery_duration_seconds",
				Help:    "Duration of a full discovery cycle",
				Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
		),
	}

	m.registry.MustRegister(
		m.keywordQueries,
		m.refreshes,
		m.closeRequests,
		m.missingToken,
		m.pendingTasks,
		m.discoveryDuration,
	)

	return m
}

// Registry はレジストリを返す
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler は /metrics 用のハンドラを返す
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordQuery はキーワードクエリを1件数える
func (m *Metrics) RecordQuery(keyword, outcome string) {
	if m == nil {
		return
	}
	m.keywordQueries.WithLabelValues(keyword, outcome).Inc()
}

// RecordMissingToken はトークンなしでスキップしたサイクルを数える
func (m *Metrics) RecordMissingToken() {
	if m == nil {
		return
	}
	m.missingToken.Inc()
}

// RecordDiscovery は完了したサイクルを記録する
func (m *Metrics) RecordDiscovery(pending int, d time.Duration) {
	if m == nil {
		return
	}
	m.pendingTasks.Set(float64(pending))
	m.discoveryDuration.Observe(d.Seconds())
}

// RecordRefresh はモーダルの更新を数える
func (m *Metrics) RecordRefresh(trigger string) {
	if m == nil {
		return
	}
	m.refreshes.WithLabelValues(trigger).Inc()
}

// RecordClose は閉じる操作を数える
func (m *Metrics) RecordClose(accepted bool) {
	if m == nil {
		return
	}
	result := "rejected"
	if accepted {
		result = "accepted"
	}
	m.closeRequests.WithLabelValues(result).Inc()
}
