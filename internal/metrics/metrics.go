// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ハンドラーやサービス層から利用する。
type MetricsCollector interface {
	RecordSubmissionCreated(mediaType string)
	RecordModerationAction(action string)
	RecordCaptionRequest()
	RecordCaptionFailure()
	RecordCaptionLatency(duration time.Duration)
	RecordSyncCycle(changed bool)
	SetPublishedCount(count int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	submissionsCreated *prometheus.CounterVec
	moderationActions  *prometheus.CounterVec
	captionRequests    prometheus.Counter
	captionFailures    prometheus.Counter
	captionLatency     prometheus.Histogram
	syncCycles         *prometheus.CounterVec
	publishedCount     prometheus.Gauge
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		submissionsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "singshot_submissions_created_total",
			Help: "作成された投稿のメディア種別ごとの合計数",
		}, []string{"media_type"}),
		moderationActions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "singshot_moderation_actions_total",
			Help: "モデレーション操作のアクション別合計数",
		}, []string{"action"}),
		captionRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "singshot_caption_requests_total",
			Help: "キャプション生成リクエストの合計数",
		}),
		captionFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "singshot_caption_failures_total",
			Help: "キャプション生成失敗の合計数",
		}),
		captionLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "singshot_caption_latency_seconds",
			Help:    "キャプション生成のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		syncCycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "singshot_sync_cycles_total",
			Help: "公開セット同期サイクルの変更有無別合計数",
		}, []string{"changed"}),
		publishedCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "singshot_published_count",
			Help: "現在の公開セットの投稿数",
		}),
	}

	reg.MustRegister(
		c.submissionsCreated,
		c.moderationActions,
		c.captionRequests,
		c.captionFailures,
		c.captionLatency,
		c.syncCycles,
		c.publishedCount,
	)

	return c
}

// RecordSubmissionCreated は投稿作成を記録する。
func (c *Collector) RecordSubmissionCreated(mediaType string) {
	c.submissionsCreated.WithLabelValues(mediaType).Inc()
}

// RecordModerationAction はモデレーション操作を記録する。
func (c *Collector) RecordModerationAction(action string) {
	c.moderationActions.WithLabelValues(action).Inc()
}

// RecordCaptionRequest はキャプション生成リクエストを記録する。
func (c *Collector) RecordCaptionRequest() {
	c.captionRequests.Inc()
}

// RecordCaptionFailure はキャプション生成失敗を記録する。
func (c *Collector) RecordCaptionFailure() {
	c.captionFailures.Inc()
}

// RecordCaptionLatency はキャプション生成のレイテンシを記録する。
func (c *Collector) RecordCaptionLatency(duration time.Duration) {
	c.captionLatency.Observe(duration.Seconds())
}

// RecordSyncCycle は同期サイクルの実行を変更有無とともに記録する。
func (c *Collector) RecordSyncCycle(changed bool) {
	label := "false"
	if changed {
		label = "true"
	}
	c.syncCycles.WithLabelValues(label).Inc()
}

// SetPublishedCount は現在の公開セットの投稿数を記録する。
func (c *Collector) SetPublishedCount(count int) {
	c.publishedCount.Set(float64(count))
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
