package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/singshot/internal/caption"
	"github.com/hitoshi/singshot/internal/clock"
	"github.com/hitoshi/singshot/internal/config"
	"github.com/hitoshi/singshot/internal/database"
	"github.com/hitoshi/singshot/internal/display"
	"github.com/hitoshi/singshot/internal/handler"
	"github.com/hitoshi/singshot/internal/intake"
	"github.com/hitoshi/singshot/internal/kvstore"
	"github.com/hitoshi/singshot/internal/leaderboard"
	"github.com/hitoshi/singshot/internal/logger"
	"github.com/hitoshi/singshot/internal/metrics"
	"github.com/hitoshi/singshot/internal/middleware"
	"github.com/hitoshi/singshot/internal/moderation"
	"github.com/hitoshi/singshot/internal/repository"
	"github.com/hitoshi/singshot/internal/security"
	"github.com/hitoshi/singshot/internal/worker/retention"
	"golang.org/x/time/rate"
)

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
	)

	switch cmd {
	case CommandServe:
		return runServe(cfg)
	case CommandDisplay:
		return runDisplay(cfg)
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// newCaptionGenerator はキャプション生成サービスを構築する。
// CAPTION_API_URLが設定されている場合は外部APIクライアントを、
// 未設定の場合はローカルのテンプレート生成を使用する。
// 設定されたURLは起動時に静的検証し、危険なURLの場合はエラーを返す。
func newCaptionGenerator(cfg *config.Config) (caption.GeneratorService, error) {
	if cfg.CaptionAPIURL == "" {
		slog.Info("caption API URL not set, using template generator")
		return caption.NewTemplateGenerator(), nil
	}

	ssrfGuard := security.NewSSRFGuard()
	if err := ssrfGuard.ValidateURL(cfg.CaptionAPIURL); err != nil {
		return nil, fmt.Errorf("invalid caption API URL: %w", err)
	}

	return caption.NewClient(
		ssrfGuard.NewSafeClient(cfg.CaptionTimeout),
		slog.Default(),
		cfg.CaptionAPIURL,
		cfg.CaptionMaxSize,
	), nil
}

// runServe はキオスク・スタッフAPIサーバーモードで起動する。
// DB接続を開き、全依存関係をワイヤリングし、HTTPサーバーを起動する。
// 投稿整理ジョブをバックグラウンドで実行する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	// 1. DB接続
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established")

	// 2. ストアとリポジトリの初期化
	store := kvstore.NewPostgresStore(db)
	repo := repository.NewKVSubmissionRepo(store, slog.Default())

	// 3. メトリクスの初期化
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 4. ドメインサービスの初期化
	sanitizer := security.NewTextSanitizer()
	generator, err := newCaptionGenerator(cfg)
	if err != nil {
		return err
	}
	sysClock := clock.SystemClock{}

	intakeService := intake.NewService(repo, generator, sanitizer, sysClock)
	moderationService := moderation.NewService(repo, sysClock, cfg.ReviewerName, slog.Default())
	leaderboardService := leaderboard.NewService(repo)

	// 5. ルーターの構築
	rateLimiterCfg := middleware.DefaultRateLimiterConfig()
	// configのレート値はreq/min単位なのでreq/secに変換する
	rateLimiterCfg.GeneralRate = rate.Limit(float64(cfg.RateLimitGeneral) / 60.0)
	rateLimiterCfg.GeneralBurst = cfg.RateLimitGeneral
	rateLimiterCfg.SubmitRate = rate.Limit(float64(cfg.RateLimitSubmit) / 60.0)
	rateLimiterCfg.SubmitBurst = cfg.RateLimitSubmit

	rateLimiter := middleware.NewRateLimiter(rateLimiterCfg)
	defer rateLimiter.Stop()

	deps := &handler.RouterDeps{
		Logger:            slog.Default(),
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       rateLimiter,

		HealthChecker:  db,
		MetricsHandler: metrics.Handler(registry),

		IntakeService:      intakeService,
		ModerationService:  moderationService,
		GalleryService:     repo,
		LeaderboardService: leaderboardService,

		Metrics: collector,
	}

	router := handler.NewRouter(deps)

	// 6. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// 7. 投稿整理ジョブをバックグラウンドで実行
	if cfg.RetentionMax > 0 {
		retentionJob := retention.NewRetentionJob(repo, slog.Default(), cfg.RetentionMax)
		go retentionJob.Start(ctx, cfg.RetentionInterval)
	}

	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down API server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runDisplay はディスプレイモードで起動する。
// 公開セットの同期ループとローテーションループを起動し、
// 読み取り専用のHTTPサーバーで現在の表示状態を提供する。
// SIGINTまたはSIGTERMシグナルを受信するとシャットダウンする。
func runDisplay(cfg *config.Config) error {
	// 1. DB接続
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established (display)")

	// 2. ストアとリポジトリの初期化
	store := kvstore.NewPostgresStore(db)
	repo := repository.NewKVSubmissionRepo(store, slog.Default())

	// 3. メトリクスの初期化
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 4. ローテーターと同期ループの初期化
	rotator := display.NewRotator(slog.Default())
	syncer := display.NewSyncer(repo, rotator, slog.Default(), collector)

	// グレースフルシャットダウンのためのシグナルハンドリング
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-stop
		slog.Info("shutting down display...")
		cancel()
	}()

	slog.Info("display starting",
		slog.Duration("sync_interval", cfg.SyncInterval),
		slog.Duration("rotate_interval", cfg.RotateInterval),
	)

	// 5. ローテーション・スポットライトをバックグラウンドで起動
	go rotator.StartRotation(ctx, cfg.RotateInterval, cfg.TransitionDelay)
	go rotator.StartSpotlight(ctx, cfg.SpotlightInterval, cfg.SpotlightDuration)

	// 6. 読み取り専用HTTPサーバーの起動
	router := handler.NewDisplayRouter(&handler.DisplayRouterDeps{
		Logger:         slog.Default(),
		HealthChecker:  db,
		MetricsHandler: metrics.Handler(registry),
		Viewer:         rotator,
	})

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("display server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	// 7. 同期ループをメインgoroutineで実行（ブロッキング）
	syncer.Start(ctx, cfg.SyncInterval)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("display stopped gracefully")
	return nil
}

// runMigrate はデータベースマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
func runMigrate(cfg *config.Config) error {
	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLの認証情報をマスクする。
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
