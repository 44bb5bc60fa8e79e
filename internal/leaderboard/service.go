// Package leaderboard は承認済み投稿からニックネーム別のランキングを導出する。
// ランキングは独立した保存データを持たず、公開セットからの純粋な導出値として
// 扱う。公開セットが変われば次の読み取りで自動的に反映される。
package leaderboard

import (
	"context"
	"sort"
	"time"

	"github.com/hitoshi/singshot/internal/model"
)

// Entry はランキングの1行。
type Entry struct {
	Rank           int        `json:"rank"`
	Nickname       string     `json:"nickname"`
	ShotCount      int        `json:"shotCount"`
	LatestApproval *time.Time `json:"latestApproval,omitempty"`
}

// PublishedLister は公開セットの読み取りインターフェース。
type PublishedLister interface {
	ListPublished(ctx context.Context) ([]model.Submission, error)
}

// Service はランキング導出サービス。
type Service struct {
	repo PublishedLister
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(repo PublishedLister) *Service {
	return &Service{repo: repo}
}

// List は承認済み投稿をニックネームで集計し、ランキングを返す。
// 並び順は投稿数の降順、同数の場合は先に承認された（公開セット内で
// 先に現れた）ニックネームが上位。順位は1始まりの連番で、同数でも
// 順位は分け合わない。
func (s *Service) List(ctx context.Context) ([]Entry, error) {
	published, err := s.repo.ListPublished(ctx)
	if err != nil {
		return nil, err
	}

	type bucket struct {
		entry Entry
		order int // 公開セット内での初出位置（同数時のタイブレーク）
	}

	buckets := make(map[string]*bucket)
	for i, sub := range published {
		b, ok := buckets[sub.Nickname]
		if !ok {
			b = &bucket{
				entry: Entry{Nickname: sub.Nickname},
				order: i,
			}
			buckets[sub.Nickname] = b
		}
		b.entry.ShotCount++
		if sub.ReviewedAt != nil {
			if b.entry.LatestApproval == nil || sub.ReviewedAt.After(*b.entry.LatestApproval) {
				t := *sub.ReviewedAt
				b.entry.LatestApproval = &t
			}
		}
	}

	ranked := make([]*bucket, 0, len(buckets))
	for _, b := range buckets {
		ranked = append(ranked, b)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].entry.ShotCount != ranked[j].entry.ShotCount {
			return ranked[i].entry.ShotCount > ranked[j].entry.ShotCount
		}
		return ranked[i].order < ranked[j].order
	})

	entries := make([]Entry, len(ranked))
	for i, b := range ranked {
		b.entry.Rank = i + 1
		entries[i] = b.entry
	}
	return entries, nil
}
