// Package moderation はスタッフによる投稿レビューの状態遷移を提供する。
//
// 状態機械: pending（初期）→ approved / rejected。
// approvedとrejectedは相互に再遷移可能（再レビュー許可、遷移ガードなし）。
// レビュー済みの投稿をpendingに戻す操作は存在しない。
package moderation

import (
	"context"
	"log/slog"

	"github.com/hitoshi/singshot/internal/clock"
	"github.com/hitoshi/singshot/internal/model"
	"github.com/hitoshi/singshot/internal/repository"
)

// Service はモデレーション操作のサービス層。
// 遷移のたびに全リストを読み、対象をマップ変換してSaveする。
// Saveの副作用として公開キャッシュが全件再計算される。
type Service struct {
	repo     repository.SubmissionRepository
	clock    clock.Clock
	reviewer string
	logger   *slog.Logger
}

// NewService はServiceの新しいインスタンスを生成する。
// reviewerは遷移時にReviewedByへ記録するレビュアー識別子。
func NewService(
	repo repository.SubmissionRepository,
	clk clock.Clock,
	reviewer string,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:     repo,
		clock:    clk,
		reviewer: reviewer,
		logger:   logger,
	}
}

// Approve は指定IDの投稿をapprovedに遷移させる。
// 未知のIDはソフトな無操作（警告ログのみ）だが、リストのSaveと
// 公開キャッシュの再計算は行われる。
func (s *Service) Approve(ctx context.Context, id string) ([]model.Submission, error) {
	return s.transition(ctx, id, model.StatusApproved)
}

// Reject は指定IDの投稿をrejectedに遷移させる。Approveと対称。
func (s *Service) Reject(ctx context.Context, id string) ([]model.Submission, error) {
	return s.transition(ctx, id, model.StatusRejected)
}

// transition は状態遷移の共通処理。
// ReviewedBy/ReviewedAtは遷移のたびに上書きされる（マージしない）。
func (s *Service) transition(ctx context.Context, id string, status model.Status) ([]model.Submission, error) {
	subs, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	found := false
	now := s.clock.Now()
	updated := make([]model.Submission, len(subs))
	for i, sub := range subs {
		if sub.ID == id {
			sub.Status = status
			sub.ReviewedBy = s.reviewer
			sub.ReviewedAt = &now
			found = true
		}
		updated[i] = sub
	}

	if !found {
		s.logger.Warn("モデレーション対象の投稿が見つかりません",
			slog.String("submission_id", id),
			slog.String("status", string(status)),
		)
	}

	if err := s.repo.Save(ctx, updated); err != nil {
		return nil, err
	}

	if found {
		s.logger.Info("投稿のステータスを更新しました",
			slog.String("submission_id", id),
			slog.String("status", string(status)),
			slog.String("reviewed_by", s.reviewer),
		)
	}

	return updated, nil
}

// ListByStatus は指定ステータスの投稿を挿入順で返す。
// statusが空または"all"の場合は全投稿を返す。
func (s *Service) ListByStatus(ctx context.Context, status string) ([]model.Submission, error) {
	subs, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	if status == "" || status == "all" {
		return subs, nil
	}

	st := model.Status(status)
	if !model.ValidStatus(st) {
		return nil, model.NewInvalidStatusError(status)
	}

	return model.FilterByStatus(subs, st), nil
}

// StatusCounts はステータスごとの投稿件数。スタッフダッシュボードの統計表示に使う。
type StatusCounts struct {
	Pending  int
	Approved int
	Rejected int
}

// Counts はステータスごとの件数を返す。
func (s *Service) Counts(ctx context.Context) (*StatusCounts, error) {
	subs, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	counts := &StatusCounts{}
	for _, sub := range subs {
		switch sub.Status {
		case model.StatusPending:
			counts.Pending++
		case model.StatusApproved:
			counts.Approved++
		case model.StatusRejected:
			counts.Rejected++
		}
	}

	return counts, nil
}
