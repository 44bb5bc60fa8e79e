package handler

import (
	"encoding/json"
	"net/http"

	"github.com/hitoshi/singshot/internal/display"
	"github.com/hitoshi/singshot/internal/model"
)

// DisplayViewer は現在の表示状態を提供するインターフェース。
type DisplayViewer interface {
	Current() display.View
}

// DisplayHandler はディスプレイ表示状態のHTTPハンドラー。
// ディスプレイコンテキストの読み取り専用サーフェスで、書き込み系の
// エンドポイントは一切持たない。
type DisplayHandler struct {
	viewer DisplayViewer
}

// NewDisplayHandler はDisplayHandlerを生成する。
func NewDisplayHandler(viewer DisplayViewer) *DisplayHandler {
	return &DisplayHandler{viewer: viewer}
}

// displayViewResponse は表示状態のAPIレスポンス。
type displayViewResponse struct {
	Current   *model.Submission `json:"current"`
	Index     int               `json:"index"`
	Total     int               `json:"total"`
	Visible   bool              `json:"visible"`
	Spotlight bool              `json:"spotlight"`
}

// GetCurrent は現在の表示状態を返す。
// GET /display/current
func (h *DisplayHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	view := h.viewer.Current()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(displayViewResponse{
		Current:   view.Current,
		Index:     view.Index,
		Total:     view.Total,
		Visible:   view.Visible,
		Spotlight: view.Spotlight,
	})
}
