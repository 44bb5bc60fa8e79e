package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/singshot/internal/model"
	"github.com/hitoshi/singshot/internal/moderation"
)

// ModerationServiceInterface はモデレーションハンドラーが必要とするサービスインターフェース。
type ModerationServiceInterface interface {
	// Approve は投稿を承認し、更新後の全投稿リストを返す。
	Approve(ctx context.Context, id string) ([]model.Submission, error)
	// Reject は投稿を却下し、更新後の全投稿リストを返す。
	Reject(ctx context.Context, id string) ([]model.Submission, error)
	// ListByStatus は指定ステータスの投稿リストを返す。空文字や"all"は全件。
	ListByStatus(ctx context.Context, status string) ([]model.Submission, error)
	// Counts はステータスごとの投稿件数を返す。
	Counts(ctx context.Context) (*moderation.StatusCounts, error)
}

// ModerationHandler はスタッフモデレーションのHTTPハンドラー。
type ModerationHandler struct {
	service ModerationServiceInterface
	metrics MetricsRecorder
}

// NewModerationHandler はModerationHandlerを生成する。
func NewModerationHandler(service ModerationServiceInterface, metrics MetricsRecorder) *ModerationHandler {
	return &ModerationHandler{
		service: service,
		metrics: metrics,
	}
}

// submissionListResponse は投稿リストのAPIレスポンス。
type submissionListResponse struct {
	Submissions []model.Submission `json:"submissions"`
}

// statsResponse はステータス統計のAPIレスポンス。
type statsResponse struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
	Total    int `json:"total"`
}

// ListSubmissions は投稿一覧をステータスフィルタ付きで返す。
// GET /api/submissions?status=pending|approved|rejected|all
func (h *ModerationHandler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")

	subs, err := h.service.ListByStatus(r.Context(), status)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(submissionListResponse{Submissions: subs})
}

// GetStats はステータスごとの投稿件数を返す。
// GET /api/submissions/stats
func (h *ModerationHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	counts, err := h.service.Counts(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(statsResponse{
		Pending:  counts.Pending,
		Approved: counts.Approved,
		Rejected: counts.Rejected,
		Total:    counts.Pending + counts.Approved + counts.Rejected,
	})
}

// ApproveSubmission は投稿を承認する。
// 未知のIDでもエラーにせず、現在のリストをそのまま返す。
// POST /api/submissions/:id/approve
func (h *ModerationHandler) ApproveSubmission(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	subs, err := h.service.Approve(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordModerationAction("approve")
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(submissionListResponse{Submissions: subs})
}

// RejectSubmission は投稿を却下する。
// 未知のIDでもエラーにせず、現在のリストをそのまま返す。
// POST /api/submissions/:id/reject
func (h *ModerationHandler) RejectSubmission(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	subs, err := h.service.Reject(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordModerationAction("reject")
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(submissionListResponse{Submissions: subs})
}
