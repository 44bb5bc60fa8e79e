package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/singshot/internal/leaderboard"
	"github.com/hitoshi/singshot/internal/model"
)

// GalleryServiceInterface はギャラリーハンドラーが必要とする読み取りインターフェース。
type GalleryServiceInterface interface {
	// ListPublished は承認済みキャッシュを読み取って返す。
	ListPublished(ctx context.Context) ([]model.Submission, error)
}

// GalleryHandler は公開ギャラリーのHTTPハンドラー。
type GalleryHandler struct {
	service GalleryServiceInterface
}

// NewGalleryHandler はGalleryHandlerを生成する。
func NewGalleryHandler(service GalleryServiceInterface) *GalleryHandler {
	return &GalleryHandler{service: service}
}

// ListGallery は承認済み投稿の一覧を返す。
// GET /api/gallery
func (h *GalleryHandler) ListGallery(w http.ResponseWriter, r *http.Request) {
	subs, err := h.service.ListPublished(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(submissionListResponse{Submissions: subs})
}

// LeaderboardServiceInterface はリーダーボードハンドラーが必要とするサービスインターフェース。
type LeaderboardServiceInterface interface {
	// List はニックネーム別のランキングを返す。
	List(ctx context.Context) ([]leaderboard.Entry, error)
}

// LeaderboardHandler はランキングのHTTPハンドラー。
type LeaderboardHandler struct {
	service LeaderboardServiceInterface
}

// NewLeaderboardHandler はLeaderboardHandlerを生成する。
func NewLeaderboardHandler(service LeaderboardServiceInterface) *LeaderboardHandler {
	return &LeaderboardHandler{service: service}
}

// leaderboardResponse はランキングのAPIレスポンス。
type leaderboardResponse struct {
	Entries []leaderboard.Entry `json:"entries"`
}

// GetLeaderboard はニックネーム別のランキングを返す。
// GET /api/leaderboard
func (h *LeaderboardHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(leaderboardResponse{Entries: entries})
}
