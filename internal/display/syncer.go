package display

import (
	"context"
	"log/slog"
	"time"

	"github.com/hitoshi/singshot/internal/model"
)

// PublishedLister は公開セットの読み取りインターフェース。
// 表示コンテキストはこの狭い読み取り経路だけに依存し、
// pending/rejected投稿の内容にはアクセスしない。
type PublishedLister interface {
	ListPublished(ctx context.Context) ([]model.Submission, error)
}

// SyncMetrics はSyncerが記録するメトリクスのインターフェース。
type SyncMetrics interface {
	RecordSyncCycle(changed bool)
	SetPublishedCount(count int)
}

// Syncer は公開セットのポーリング同期ループ。
// プッシュチャネルを持たないこの設計における唯一のコンテキスト間伝播手段で、
// 固定間隔で公開キャッシュを再読し、差分があればRotatorのスナップショットを
// 原子的に差し替える。新規承認の可視化はポーリング間隔の分だけ遅延しうる。
type Syncer struct {
	repo    PublishedLister
	rotator *Rotator
	logger  *slog.Logger
	metrics SyncMetrics
}

// NewSyncer はSyncerの新しいインスタンスを生成する。
// metricsはnil許容（記録しない）。
func NewSyncer(repo PublishedLister, rotator *Rotator, logger *slog.Logger, metrics SyncMetrics) *Syncer {
	return &Syncer{
		repo:    repo,
		rotator: rotator,
		logger:  logger,
		metrics: metrics,
	}
}

// Start は固定間隔のティッカーで同期ループを起動する。
// 起動直後に1回実行し、以後はintervalごとに実行する。
// コンテキストがキャンセルされるまで実行を継続する。
func (s *Syncer) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("公開セット同期ループを開始しました",
		slog.Duration("interval", interval),
	)

	// 起動直後に1回実行
	if err := s.RunOnce(ctx); err != nil {
		s.logger.Error("公開セットの同期に失敗しました",
			slog.String("error", err.Error()),
		)
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("公開セット同期ループを停止しました")
			return
		case <-ticker.C:
			if err := s.RunOnce(ctx); err != nil {
				s.logger.Error("公開セットの同期に失敗しました",
					slog.String("error", err.Error()),
				)
			}
		}
	}
}

// RunOnce は公開セットを1回再読し、保持中のスナップショットと異なる場合のみ
// Rotatorへ差し替える。差分判定はID列の比較で行う（投稿の内容フィールドは
// 作成後イミュータブルのため、ID列が同じなら表示内容も同じ）。
func (s *Syncer) RunOnce(ctx context.Context) error {
	published, err := s.repo.ListPublished(ctx)
	if err != nil {
		return err
	}

	changed := !sameIDs(s.rotator.snapshotIDs(), published)
	if changed {
		s.rotator.SetPublished(published)
		s.logger.Info("公開セットを更新しました",
			slog.Int("count", len(published)),
		)
	}

	if s.metrics != nil {
		s.metrics.RecordSyncCycle(changed)
		s.metrics.SetPublishedCount(len(published))
	}

	return nil
}

// sameIDs は保持中のID列と新しい公開セットのID列が一致するかを返す。
func sameIDs(held []string, published []model.Submission) bool {
	if len(held) != len(published) {
		return false
	}
	for i, sub := range published {
		if held[i] != sub.ID {
			return false
		}
	}
	return true
}
