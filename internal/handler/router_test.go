package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/singshot/internal/middleware"
	"github.com/hitoshi/singshot/internal/model"
	"github.com/hitoshi/singshot/internal/moderation"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	rl := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		GeneralRate:     1000,
		GeneralBurst:    1000,
		SubmitRate:      1000,
		SubmitBurst:     1000,
		CleanupInterval: time.Minute,
	})
	t.Cleanup(rl.Stop)

	return NewRouter(&RouterDeps{
		Logger:            slog.New(slog.NewTextHandler(io.Discard, nil)),
		CORSAllowedOrigin: "http://localhost:3000",
		RateLimiter:       rl,

		IntakeService: &mockIntakeService{
			generateCaptionsFn: func(ctx context.Context, nickname, eventType string) ([]string, error) {
				return []string{"a", "b", "c"}, nil
			},
		},
		ModerationService: &mockModerationService{
			listByStatusFn: func(ctx context.Context, status string) ([]model.Submission, error) {
				return []model.Submission{}, nil
			},
			countsFn: func(ctx context.Context) (*moderation.StatusCounts, error) {
				return &moderation.StatusCounts{Pending: 1}, nil
			},
			approveFn: func(ctx context.Context, id string) ([]model.Submission, error) {
				return []model.Submission{{ID: id, Status: model.StatusApproved}}, nil
			},
		},
		GalleryService: &mockGalleryService{
			listPublishedFn: func(ctx context.Context) ([]model.Submission, error) {
				return []model.Submission{}, nil
			},
		},
		LeaderboardService: &mockLeaderboardService{},
	})
}

// TestRouter_RoutesAreWired は主要なエンドポイントがルーティングされていることを検証する。
func TestRouter_RoutesAreWired(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodPost, "/api/captions", `{"nickname":"n","eventType":"e"}`, http.StatusOK},
		{http.MethodGet, "/api/submissions?status=all", "", http.StatusOK},
		{http.MethodGet, "/api/submissions/stats", "", http.StatusOK},
		{http.MethodPost, "/api/submissions/sub-1/approve", "", http.StatusOK},
		{http.MethodGet, "/api/gallery", "", http.StatusOK},
		{http.MethodGet, "/api/leaderboard", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			var req *http.Request
			if tt.body != "" {
				req = httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			} else {
				req = httptest.NewRequest(tt.method, tt.path, nil)
			}
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

// TestRouter_AppliesSecurityHeaders はミドルウェアチェーンが全ルートに効いていることを検証する。
func TestRouter_AppliesSecurityHeaders(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/gallery", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Access-Control-Allow-Origin = %q, want http://localhost:3000", got)
	}
}

// TestRouter_UnknownRoute_Returns404 は未定義パスで404が返ることを検証する。
func TestRouter_UnknownRoute_Returns404(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/unknown", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

// TestDisplayRouter_IsReadOnly はディスプレイルーターが書き込み系ルートを持たないことを検証する。
func TestDisplayRouter_IsReadOnly(t *testing.T) {
	router := NewDisplayRouter(&DisplayRouterDeps{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Viewer: &mockDisplayViewer{},
	})

	// 読み取りは通る
	req := httptest.NewRequest(http.MethodGet, "/display/current", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /display/current: status = %d, want 200", w.Code)
	}

	var resp map[string]json.RawMessage
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if _, ok := resp["current"]; !ok {
		t.Error("currentフィールドがレスポンスに含まれていない")
	}

	// 書き込み系エンドポイントは存在しない
	writePaths := []string{
		"/api/submissions",
		"/api/submissions/sub-1/approve",
		"/api/captions",
	}
	for _, path := range writePaths {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader("{}"))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusNotFound && w.Code != http.StatusMethodNotAllowed {
			t.Errorf("POST %s: status = %d, want 404/405", path, w.Code)
		}
	}
}

// TestHealthHandler_DBFailure_Returns503 はDB疎通確認失敗時に503が返ることを検証する。
func TestHealthHandler_DBFailure_Returns503(t *testing.T) {
	h := NewHealthHandler(failingPinger{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}
}

type failingPinger struct{}

func (failingPinger) PingContext(ctx context.Context) error {
	return context.DeadlineExceeded
}
