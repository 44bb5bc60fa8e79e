package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/singshot/internal/display"
	"github.com/hitoshi/singshot/internal/leaderboard"
	"github.com/hitoshi/singshot/internal/model"
)

// --- モック定義 ---

// mockGalleryService はGalleryServiceInterfaceのモック実装。
type mockGalleryService struct {
	listPublishedFn func(ctx context.Context) ([]model.Submission, error)
}

func (m *mockGalleryService) ListPublished(ctx context.Context) ([]model.Submission, error) {
	if m.listPublishedFn != nil {
		return m.listPublishedFn(ctx)
	}
	return nil, nil
}

// mockLeaderboardService はLeaderboardServiceInterfaceのモック実装。
type mockLeaderboardService struct {
	listFn func(ctx context.Context) ([]leaderboard.Entry, error)
}

func (m *mockLeaderboardService) List(ctx context.Context) ([]leaderboard.Entry, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

// mockDisplayViewer はDisplayViewerのモック実装。
type mockDisplayViewer struct {
	view display.View
}

func (m *mockDisplayViewer) Current() display.View {
	return m.view
}

// --- GET /api/gallery テスト ---

func TestGalleryHandler_ListGallery_ReturnsPublished(t *testing.T) {
	svc := &mockGalleryService{
		listPublishedFn: func(ctx context.Context) ([]model.Submission, error) {
			return []model.Submission{
				{ID: "sub-1", Status: model.StatusApproved},
				{ID: "sub-2", Status: model.StatusApproved},
			}, nil
		},
	}
	h := NewGalleryHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/gallery", nil)
	w := httptest.NewRecorder()

	h.ListGallery(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp submissionListResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Submissions) != 2 {
		t.Errorf("len(submissions) = %d, want 2", len(resp.Submissions))
	}
}

func TestGalleryHandler_ListGallery_EmptyIsEmptyList(t *testing.T) {
	h := NewGalleryHandler(&mockGalleryService{
		listPublishedFn: func(ctx context.Context) ([]model.Submission, error) {
			return []model.Submission{}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/gallery", nil)
	w := httptest.NewRecorder()

	h.ListGallery(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(w.Body).Decode(&raw); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if string(raw["submissions"]) != "[]" {
		t.Errorf("submissions = %s, want []", raw["submissions"])
	}
}

func TestGalleryHandler_ListGallery_Error_Returns500(t *testing.T) {
	h := NewGalleryHandler(&mockGalleryService{
		listPublishedFn: func(ctx context.Context) ([]model.Submission, error) {
			return nil, errors.New("store unavailable")
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/gallery", nil)
	w := httptest.NewRecorder()

	h.ListGallery(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
}

// --- GET /api/leaderboard テスト ---

func TestLeaderboardHandler_GetLeaderboard_ReturnsEntries(t *testing.T) {
	svc := &mockLeaderboardService{
		listFn: func(ctx context.Context) ([]leaderboard.Entry, error) {
			return []leaderboard.Entry{
				{Rank: 1, Nickname: "ゆうこ", ShotCount: 3},
				{Rank: 2, Nickname: "たろう", ShotCount: 1},
			}, nil
		},
	}
	h := NewLeaderboardHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/leaderboard", nil)
	w := httptest.NewRecorder()

	h.GetLeaderboard(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp leaderboardResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Entries) != 2 || resp.Entries[0].Nickname != "ゆうこ" {
		t.Errorf("unexpected entries: %+v", resp.Entries)
	}
}

// --- GET /display/current テスト ---

func TestDisplayHandler_GetCurrent_ReturnsView(t *testing.T) {
	sub := model.Submission{ID: "sub-1", Status: model.StatusApproved}
	h := NewDisplayHandler(&mockDisplayViewer{
		view: display.View{
			Current:   &sub,
			Index:     1,
			Total:     3,
			Visible:   true,
			Spotlight: false,
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/display/current", nil)
	w := httptest.NewRecorder()

	h.GetCurrent(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp map[string]json.RawMessage
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if string(resp["index"]) != "1" || string(resp["total"]) != "3" {
		t.Errorf("index/total = %s/%s, want 1/3", resp["index"], resp["total"])
	}
	if string(resp["visible"]) != "true" {
		t.Errorf("visible = %s, want true", resp["visible"])
	}
}

// TestDisplayHandler_GetCurrent_EmptySetIsIdle は公開セットが空のとき
// currentがnullのアイドル表示を返すことを検証する。
func TestDisplayHandler_GetCurrent_EmptySetIsIdle(t *testing.T) {
	h := NewDisplayHandler(&mockDisplayViewer{
		view: display.View{Visible: true},
	})

	req := httptest.NewRequest(http.MethodGet, "/display/current", nil)
	w := httptest.NewRecorder()

	h.GetCurrent(w, req)

	var resp map[string]json.RawMessage
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if string(resp["current"]) != "null" {
		t.Errorf("current = %s, want null", resp["current"])
	}
	if string(resp["total"]) != "0" {
		t.Errorf("total = %s, want 0", resp["total"])
	}
}
