package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/hitoshi/singshot/internal/intake"
	"github.com/hitoshi/singshot/internal/model"
)

// IntakeServiceInterface は投稿ハンドラーが必要とするサービスインターフェース。
type IntakeServiceInterface interface {
	// Create は入力を検証して新規投稿をpending状態で作成する。
	Create(ctx context.Context, input intake.CreateInput) (*model.Submission, error)
	// GenerateCaptions はニックネームとイベント種別からキャプション候補を生成する。
	GenerateCaptions(ctx context.Context, nickname, eventType string) ([]string, error)
}

// MetricsRecorder はハンドラー層が記録するメトリクスのインターフェース。
// nil許容（記録しない）。
type MetricsRecorder interface {
	RecordSubmissionCreated(mediaType string)
	RecordModerationAction(action string)
	RecordCaptionRequest()
	RecordCaptionFailure()
	RecordCaptionLatency(duration time.Duration)
}

// SubmissionHandler は投稿作成・キャプション生成のHTTPハンドラー。
type SubmissionHandler struct {
	service IntakeServiceInterface
	metrics MetricsRecorder
}

// NewSubmissionHandler はSubmissionHandlerを生成する。
func NewSubmissionHandler(service IntakeServiceInterface, metrics MetricsRecorder) *SubmissionHandler {
	return &SubmissionHandler{
		service: service,
		metrics: metrics,
	}
}

// createSubmissionRequest は投稿作成リクエストのボディ。
// フィールド名は保存形式のJSONキーに合わせる。
type createSubmissionRequest struct {
	MediaType     string `json:"type"`
	MediaRef      string `json:"data"`
	Overlay       string `json:"overlay"`
	Filter        string `json:"filter"`
	Nickname      string `json:"nickname"`
	EventType     string `json:"eventType"`
	Caption       string `json:"caption"`
	SocialConsent bool   `json:"socialConsent"`
}

// generateCaptionsRequest はキャプション生成リクエストのボディ。
type generateCaptionsRequest struct {
	Nickname  string `json:"nickname"`
	EventType string `json:"eventType"`
}

// generateCaptionsResponse はキャプション生成レスポンス。
type generateCaptionsResponse struct {
	Captions []string `json:"captions"`
}

// apiErrorResponse は統一エラーフォーマットのレスポンス。
type apiErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// CreateSubmission は投稿作成を処理する。
// POST /api/submissions
func (h *SubmissionHandler) CreateSubmission(w http.ResponseWriter, r *http.Request) {
	var req createSubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, invalidRequestError())
		return
	}

	sub, err := h.service.Create(r.Context(), intake.CreateInput{
		MediaType:     model.MediaType(req.MediaType),
		MediaRef:      req.MediaRef,
		Overlay:       req.Overlay,
		Filter:        req.Filter,
		Nickname:      req.Nickname,
		EventType:     req.EventType,
		Caption:       req.Caption,
		SocialConsent: req.SocialConsent,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordSubmissionCreated(string(sub.MediaType))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(sub)
}

// GenerateCaptions はキャプション候補の生成を処理する。
// POST /api/captions
func (h *SubmissionHandler) GenerateCaptions(w http.ResponseWriter, r *http.Request) {
	var req generateCaptionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, invalidRequestError())
		return
	}

	start := time.Now()
	if h.metrics != nil {
		h.metrics.RecordCaptionRequest()
	}

	captions, err := h.service.GenerateCaptions(r.Context(), req.Nickname, req.EventType)
	if err != nil {
		if h.metrics != nil {
			h.metrics.RecordCaptionFailure()
		}
		handleServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordCaptionLatency(time.Since(start))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(generateCaptionsResponse{Captions: captions})
}

// --- ヘルパー関数 ---

// invalidRequestError はリクエストボディ解析失敗のエラーを返す。
func invalidRequestError() *model.APIError {
	return &model.APIError{
		Code:     "INVALID_REQUEST",
		Message:  "リクエストボディの解析に失敗しました。",
		Category: "validation",
		Action:   "正しいJSON形式でリクエストしてください。",
	}
}

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(apiErrorResponse{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		statusCode := mapAPIErrorToHTTPStatus(apiErr)
		writeAPIErrorResponse(w, statusCode, apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	})
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeDuplicateID:
		return http.StatusConflict
	case model.ErrCodeSubmissionNotFound:
		return http.StatusNotFound
	case model.ErrCodeInvalidMediaType, model.ErrCodeEmptyField, model.ErrCodeInvalidStatus:
		return http.StatusBadRequest
	case model.ErrCodeCaptionFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
