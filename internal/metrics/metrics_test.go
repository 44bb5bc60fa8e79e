package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// TestNewCollector_ReturnsNonNil はCollectorが正常に生成されることを検証する。
func TestNewCollector_ReturnsNonNil(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	if c == nil {
		t.Fatal("expected non-nil Collector")
	}
}

// TestRecordSubmissionCreated_IncrementsCounterWithLabel は投稿作成カウンタがメディア種別ラベル付きで増加することを検証する。
func TestRecordSubmissionCreated_IncrementsCounterWithLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordSubmissionCreated("photo")
	c.RecordSubmissionCreated("photo")
	c.RecordSubmissionCreated("video")

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	found := false
	for _, mf := range metrics {
		if mf.GetName() == "singshot_submissions_created_total" {
			found = true
			if len(mf.GetMetric()) != 2 {
				t.Fatalf("expected 2 label combinations, got %d", len(mf.GetMetric()))
			}
			for _, m := range mf.GetMetric() {
				label := m.GetLabel()[0].GetValue()
				val := m.GetCounter().GetValue()
				switch label {
				case "photo":
					if val != 2 {
						t.Errorf("submissions_created_total{media_type=photo} = %v, want 2", val)
					}
				case "video":
					if val != 1 {
						t.Errorf("submissions_created_total{media_type=video} = %v, want 1", val)
					}
				default:
					t.Errorf("unexpected label value: %s", label)
				}
			}
		}
	}
	if !found {
		t.Error("singshot_submissions_created_total metric not found")
	}
}

// TestRecordModerationAction_IncrementsCounterWithLabel はモデレーションカウンタがアクション別で増加することを検証する。
func TestRecordModerationAction_IncrementsCounterWithLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordModerationAction("approve")
	c.RecordModerationAction("approve")
	c.RecordModerationAction("reject")

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	found := false
	for _, mf := range metrics {
		if mf.GetName() == "singshot_moderation_actions_total" {
			found = true
			for _, m := range mf.GetMetric() {
				label := m.GetLabel()[0].GetValue()
				val := m.GetCounter().GetValue()
				switch label {
				case "approve":
					if val != 2 {
						t.Errorf("moderation_actions_total{action=approve} = %v, want 2", val)
					}
				case "reject":
					if val != 1 {
						t.Errorf("moderation_actions_total{action=reject} = %v, want 1", val)
					}
				default:
					t.Errorf("unexpected label value: %s", label)
				}
			}
		}
	}
	if !found {
		t.Error("singshot_moderation_actions_total metric not found")
	}
}

// TestRecordCaptionFailure_IncrementsCounter はキャプション失敗カウンタが増加することを検証する。
func TestRecordCaptionFailure_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordCaptionRequest()
	c.RecordCaptionRequest()
	c.RecordCaptionFailure()

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	var requests, failures float64
	for _, mf := range metrics {
		switch mf.GetName() {
		case "singshot_caption_requests_total":
			requests = mf.GetMetric()[0].GetCounter().GetValue()
		case "singshot_caption_failures_total":
			failures = mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	if requests != 2 {
		t.Errorf("caption_requests_total = %v, want 2", requests)
	}
	if failures != 1 {
		t.Errorf("caption_failures_total = %v, want 1", failures)
	}
}

// TestRecordCaptionLatency_ObservesHistogram はキャプションレイテンシのヒストグラムに値が記録されることを検証する。
func TestRecordCaptionLatency_ObservesHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordCaptionLatency(100 * time.Millisecond)
	c.RecordCaptionLatency(2 * time.Second)

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	found := false
	for _, mf := range metrics {
		if mf.GetName() == "singshot_caption_latency_seconds" {
			found = true
			h := mf.GetMetric()[0].GetHistogram()
			if h.GetSampleCount() != 2 {
				t.Errorf("sample_count = %d, want 2", h.GetSampleCount())
			}
			// 合計は0.1 + 2.0 = 2.1秒
			if h.GetSampleSum() < 2.0 || h.GetSampleSum() > 2.2 {
				t.Errorf("sample_sum = %v, want ~2.1", h.GetSampleSum())
			}
		}
	}
	if !found {
		t.Error("singshot_caption_latency_seconds metric not found")
	}
}

// TestRecordSyncCycle_IncrementsCounterWithLabel は同期サイクルカウンタが変更有無別で増加することを検証する。
func TestRecordSyncCycle_IncrementsCounterWithLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordSyncCycle(true)
	c.RecordSyncCycle(false)
	c.RecordSyncCycle(false)

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	found := false
	for _, mf := range metrics {
		if mf.GetName() == "singshot_sync_cycles_total" {
			found = true
			for _, m := range mf.GetMetric() {
				label := m.GetLabel()[0].GetValue()
				val := m.GetCounter().GetValue()
				switch label {
				case "true":
					if val != 1 {
						t.Errorf("sync_cycles_total{changed=true} = %v, want 1", val)
					}
				case "false":
					if val != 2 {
						t.Errorf("sync_cycles_total{changed=false} = %v, want 2", val)
					}
				default:
					t.Errorf("unexpected label value: %s", label)
				}
			}
		}
	}
	if !found {
		t.Error("singshot_sync_cycles_total metric not found")
	}
}

// TestSetPublishedCount_SetsGauge は公開数ゲージが最新値で上書きされることを検証する。
func TestSetPublishedCount_SetsGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.SetPublishedCount(5)
	c.SetPublishedCount(3)

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	found := false
	for _, mf := range metrics {
		if mf.GetName() == "singshot_published_count" {
			found = true
			val := mf.GetMetric()[0].GetGauge().GetValue()
			if val != 3 {
				t.Errorf("published_count = %v, want 3", val)
			}
		}
	}
	if !found {
		t.Error("singshot_published_count metric not found")
	}
}

// TestMetricsHandler_ReturnsPrometheusFormat は/metricsエンドポイントがPrometheus形式で返すことを検証する。
func TestMetricsHandler_ReturnsPrometheusFormat(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	// いくつかのメトリクスを記録
	c.RecordSubmissionCreated("photo")
	c.RecordModerationAction("approve")
	c.RecordCaptionRequest()
	c.RecordCaptionLatency(500 * time.Millisecond)
	c.SetPublishedCount(1)

	handler := Handler(reg)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	body, _ := io.ReadAll(resp.Body)
	bodyStr := string(body)

	// Prometheus形式のメトリクスが含まれていることを確認
	expectedMetrics := []string{
		"singshot_submissions_created_total",
		"singshot_moderation_actions_total",
		"singshot_caption_requests_total",
		"singshot_caption_latency_seconds",
		"singshot_published_count",
	}

	for _, metric := range expectedMetrics {
		if !strings.Contains(bodyStr, metric) {
			t.Errorf("response body does not contain %q", metric)
		}
	}
}

// TestCollector_ImplementsMetricsCollectorInterface はCollectorがMetricsCollectorインターフェースを実装することを検証する。
func TestCollector_ImplementsMetricsCollectorInterface(t *testing.T) {
	reg := prometheus.NewRegistry()
	var _ MetricsCollector = NewCollector(reg)
}
