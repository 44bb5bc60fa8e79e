// Package model はドメインモデルを定義する。
package model

import "time"

// MediaType は投稿メディアの種別を表す。
type MediaType string

const (
	// MediaTypePhoto は写真投稿。
	MediaTypePhoto MediaType = "photo"
	// MediaTypeVideo は動画投稿。
	MediaTypeVideo MediaType = "video"
)

// Status は投稿のモデレーション状態を表す。
type Status string

const (
	// StatusPending はスタッフレビュー待ちの初期状態。
	StatusPending Status = "pending"
	// StatusApproved は承認済み状態。ギャラリーに公開される。
	StatusApproved Status = "approved"
	// StatusRejected は却下状態。
	StatusRejected Status = "rejected"
)

// Submission はゲストが撮影・投稿した1件のコンテンツを表す。
// 作成後に変更可能なのはStatusとレビュー関連フィールドのみで、
// それ以外のフィールドはイミュータブルとして扱う。
type Submission struct {
	ID            string     `json:"id"`
	MediaType     MediaType  `json:"type"`
	MediaRef      string     `json:"data"` // キャプチャサブシステムが発行する不透明なメディア参照
	Overlay       string     `json:"overlay,omitempty"`
	Filter        string     `json:"filter,omitempty"`
	Nickname      string     `json:"nickname"`
	EventType     string     `json:"eventType"`
	Caption       string     `json:"caption"`
	SocialConsent bool       `json:"socialConsent"`
	CreatedAt     time.Time  `json:"timestamp"`
	Status        Status     `json:"status"`
	ReviewedBy    string     `json:"reviewedBy,omitempty"`
	ReviewedAt    *time.Time `json:"reviewedAt,omitempty"`
}

// ValidMediaType はメディア種別が定義済みの値かどうかを返す。
func ValidMediaType(t MediaType) bool {
	return t == MediaTypePhoto || t == MediaTypeVideo
}

// ValidStatus はステータスが定義済みの値かどうかを返す。
func ValidStatus(s Status) bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// FilterByStatus は投稿リストから指定ステータスのものだけを
// 元の相対順序を保って抽出する。
func FilterByStatus(subs []Submission, status Status) []Submission {
	filtered := make([]Submission, 0, len(subs))
	for _, s := range subs {
		if s.Status == status {
			filtered = append(filtered, s)
		}
	}
	return filtered
}
