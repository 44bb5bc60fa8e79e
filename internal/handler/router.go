package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/singshot/internal/middleware"
)

// HealthChecker はDBへの疎通確認インターフェース。*sql.DBが満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger            *slog.Logger
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter

	// ヘルスチェック・メトリクス
	HealthChecker  HealthChecker
	MetricsHandler http.Handler

	// ドメインサービス
	IntakeService      IntakeServiceInterface
	ModerationService  ModerationServiceInterface
	GalleryService     GalleryServiceInterface
	LeaderboardService LeaderboardServiceInterface

	// メトリクス記録（nil許容）
	Metrics MetricsRecorder
}

// NewRouter はキオスク・スタッフ向け全APIエンドポイントのルーティングと
// ミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Logging → RateLimit(General)
//
// ヘルスチェックとメトリクスはレート制限の外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))

	submissionHandler := NewSubmissionHandler(deps.IntakeService, deps.Metrics)
	moderationHandler := NewModerationHandler(deps.ModerationService, deps.Metrics)
	galleryHandler := NewGalleryHandler(deps.GalleryService)
	leaderboardHandler := NewLeaderboardHandler(deps.LeaderboardService)

	// --- レート制限の外に置くルート ---

	r.Get("/health", NewHealthHandler(deps.HealthChecker))
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	// --- APIルート ---
	// ミドルウェアスタック: RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// キャプション生成（投稿専用レート制限を追加）
		r.With(deps.RateLimiter.SubmitMiddleware()).Post("/api/captions", submissionHandler.GenerateCaptions)

		// 投稿管理
		r.Route("/api/submissions", func(r chi.Router) {
			// POST /api/submissions - 投稿作成（投稿専用レート制限を追加）
			r.With(deps.RateLimiter.SubmitMiddleware()).Post("/", submissionHandler.CreateSubmission)

			// スタッフモデレーション
			r.Get("/", moderationHandler.ListSubmissions)
			r.Get("/stats", moderationHandler.GetStats)

			r.Route("/{id}", func(r chi.Router) {
				r.Post("/approve", moderationHandler.ApproveSubmission)
				r.Post("/reject", moderationHandler.RejectSubmission)
			})
		})

		// 公開ギャラリー・ランキング
		r.Get("/api/gallery", galleryHandler.ListGallery)
		r.Get("/api/leaderboard", leaderboardHandler.GetLeaderboard)
	})

	return r
}

// DisplayRouterDeps はNewDisplayRouterに必要な依存関係をまとめた構造体。
type DisplayRouterDeps struct {
	Logger         *slog.Logger
	HealthChecker  HealthChecker
	MetricsHandler http.Handler
	Viewer         DisplayViewer
}

// NewDisplayRouter はディスプレイコンテキストの読み取り専用ルーターを返す。
// 書き込み系エンドポイントは持たない。
func NewDisplayRouter(deps *DisplayRouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))

	displayHandler := NewDisplayHandler(deps.Viewer)

	r.Get("/health", NewHealthHandler(deps.HealthChecker))
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	r.Get("/display/current", displayHandler.GetCurrent)

	return r
}

// NewHealthHandler はヘルスチェックのHTTPハンドラーを返す。
// checkerがnilでない場合はDB疎通も確認する。
func NewHealthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if checker != nil {
			if err := checker.PingContext(r.Context()); err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte(`{"status":"unavailable"}`))
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}
}
