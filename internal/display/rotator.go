// Package display は公開ディスプレイ側の同期ループとローテーション制御を提供する。
// モデレーション側とはプロセスを共有せず、永続ストア越しのポーリングのみで
// 結果整合を実現する。
package display

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hitoshi/singshot/internal/model"
)

// Rotator は公開済み投稿をタイマーで巡回表示するローテーションコントローラ。
// 状態はすべてmutexで保護され、SyncerとHTTPハンドラーから並行アクセスされる。
// データそのものは所有せず、Syncerから渡された最新のスナップショットを描画するだけ。
type Rotator struct {
	mu        sync.Mutex
	published []model.Submission
	index     int
	visible   bool
	spotlight bool

	logger *slog.Logger
}

// NewRotator はRotatorの新しいインスタンスを生成する。
func NewRotator(logger *slog.Logger) *Rotator {
	return &Rotator{
		visible: true,
		logger:  logger,
	}
}

// View はディスプレイが描画する現在の表示状態のスナップショット。
type View struct {
	Current   *model.Submission // 表示中の投稿。公開セットが空の場合はnil（アイドル表示）
	Index     int
	Total     int
	Visible   bool // フェードトランジション用フラグ
	Spotlight bool // スポットライト演出フラグ
}

// SetPublished は公開セットのスナップショットを原子的に差し替える。
// リストが縮んだ場合はインデックスを新しい長さでクランプし、
// 範囲外アクセスを防ぐ。
func (r *Rotator) SetPublished(subs []model.Submission) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.published = subs
	if len(subs) == 0 {
		r.index = 0
		return
	}
	if r.index >= len(subs) {
		r.index = r.index % len(subs)
	}
}

// Current は現在の表示状態を返す。
func (r *Rotator) Current() View {
	r.mu.Lock()
	defer r.mu.Unlock()

	view := View{
		Index:     r.index,
		Total:     len(r.published),
		Visible:   r.visible,
		Spotlight: r.spotlight,
	}
	if len(r.published) > 0 {
		sub := r.published[r.index]
		view.Current = &sub
	}
	return view
}

// snapshotIDs は現在保持している公開セットのID列を返す。Syncerの差分検出用。
func (r *Rotator) snapshotIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, len(r.published))
	for i, sub := range r.published {
		ids[i] = sub.ID
	}
	return ids
}

// beginTransition はフェードアウトを開始する（visible=false）。
func (r *Rotator) beginTransition() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.visible = false
}

// completeTransition は次の投稿へ進めてフェードインする。
// インデックスは公開セットの長さでラップする（N-1の次は0）。
func (r *Rotator) completeTransition() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.published) > 0 {
		r.index = (r.index + 1) % len(r.published)
	}
	r.visible = true
}

// StartRotation はローテーションのティッカーループを起動する。
// ティックごとにフェードアウト → transitionDelay待機 → 次の投稿へ進めてフェードイン。
// 公開セットが空の間はアイドル状態のまま何もしない。
// コンテキストがキャンセルされるまで実行を継続する。
func (r *Rotator) StartRotation(ctx context.Context, interval, transitionDelay time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	r.logger.Info("ローテーションコントローラを開始しました",
		slog.Duration("interval", interval),
		slog.Duration("transition_delay", transitionDelay),
	)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("ローテーションコントローラを停止しました")
			return
		case <-ticker.C:
			r.Tick(ctx, transitionDelay)
		}
	}
}

// Tick はローテーションの1サイクルを実行する。
// 公開セットが空の場合は何もしない。
func (r *Rotator) Tick(ctx context.Context, transitionDelay time.Duration) {
	if r.Current().Total == 0 {
		return
	}

	r.beginTransition()

	select {
	case <-ctx.Done():
		return
	case <-time.After(transitionDelay):
	}

	r.completeTransition()
}

// StartSpotlight はスポットライト演出のティッカーループを起動する。
// intervalごとにspotlightをdurationの間だけ有効化する。
// 公開セットが空の間は演出しない。
func (r *Rotator) StartSpotlight(ctx context.Context, interval, duration time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if r.Current().Total == 0 {
				continue
			}

			r.setSpotlight(true)

			select {
			case <-ctx.Done():
				r.setSpotlight(false)
				return
			case <-time.After(duration):
			}

			r.setSpotlight(false)
		}
	}
}

func (r *Rotator) setSpotlight(on bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.spotlight = on
}
