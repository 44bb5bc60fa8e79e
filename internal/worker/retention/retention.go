// Package retention は投稿データの自動整理ジョブを提供する。
// 全投稿リストが上限件数（MaxSubmissions）を超えた場合に、審査済み
// （pending以外）の古い投稿から順に削除して上限まで縮める。
// pending投稿はスタッフの審査を待っている状態のため削除対象にしない。
// MaxSubmissions=0 のときは無制限（整理しない）。
package retention

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/singshot/internal/model"
	"github.com/hitoshi/singshot/internal/repository"
)

// RetentionJob は上限超過分の投稿を削除する定期バッチジョブ。
// 冪等な削除処理を保証する（対象がなければ何もしない）。
type RetentionJob struct {
	repo           repository.SubmissionRepository
	logger         *slog.Logger
	MaxSubmissions int // 保持する投稿の上限件数（0で無制限）
}

// NewRetentionJob は新しいRetentionJobを生成する。
func NewRetentionJob(repo repository.SubmissionRepository, logger *slog.Logger, maxSubmissions int) *RetentionJob {
	return &RetentionJob{
		repo:           repo,
		logger:         logger,
		MaxSubmissions: maxSubmissions,
	}
}

// Run は上限を超過した分の審査済み投稿を古い順に削除する。
// 削除後はSave経由で承認済みキャッシュも再計算される。
// pending投稿だけで上限を超える場合は削除対象がないため全件残る。
func (j *RetentionJob) Run(ctx context.Context) error {
	if j.MaxSubmissions <= 0 {
		return nil
	}

	start := time.Now()

	subs, err := j.repo.ListAll(ctx)
	if err != nil {
		j.logger.Error("投稿整理ジョブの実行に失敗しました",
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("投稿リストの読み取りに失敗: %w", err)
	}

	excess := len(subs) - j.MaxSubmissions
	if excess <= 0 {
		return nil
	}

	// 挿入順 = 古い順。先頭から走査し、審査済みのものだけ削除候補にする。
	kept := make([]model.Submission, 0, len(subs))
	deleted := 0
	for _, sub := range subs {
		if deleted < excess && sub.Status != model.StatusPending {
			deleted++
			continue
		}
		kept = append(kept, sub)
	}

	if deleted == 0 {
		return nil
	}

	if err := j.repo.Save(ctx, kept); err != nil {
		j.logger.Error("整理後の投稿リストの保存に失敗しました",
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("整理後の投稿リストの保存に失敗: %w", err)
	}

	duration := time.Since(start)
	j.logger.Info("投稿整理ジョブが完了しました",
		slog.Int("deleted_count", deleted),
		slog.Int("remaining_count", len(kept)),
		slog.Int("max_submissions", j.MaxSubmissions),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)

	return nil
}

// Start は固定間隔でRunを実行するループを起動する。
// コンテキストがキャンセルされるまで実行を継続する。
func (j *RetentionJob) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	j.logger.Info("投稿整理ループを開始しました",
		slog.Duration("interval", interval),
		slog.Int("max_submissions", j.MaxSubmissions),
	)

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("投稿整理ループを停止しました")
			return
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				j.logger.Error("投稿整理ジョブでエラーが発生しました",
					slog.String("error", err.Error()),
				)
			}
		}
	}
}
