// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: validation, moderation, caption, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeDuplicateID        = "DUPLICATE_ID"
	ErrCodeSubmissionNotFound = "SUBMISSION_NOT_FOUND"
	ErrCodeInvalidMediaType   = "INVALID_MEDIA_TYPE"
	ErrCodeEmptyField         = "EMPTY_FIELD"
	ErrCodeInvalidStatus      = "INVALID_STATUS"
	ErrCodeCaptionFailed      = "CAPTION_FAILED"
)

// NewDuplicateIDError は投稿IDの重複エラーを生成する。
func NewDuplicateIDError(id string) *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateID,
		Message:  fmt.Sprintf("同じIDの投稿が既に存在します: %s", id),
		Category: "validation",
		Action:   "もう一度撮影からやり直してください。",
	}
}

// NewSubmissionNotFoundError は投稿未検出エラーを生成する。
func NewSubmissionNotFoundError(id string) *APIError {
	return &APIError{
		Code:     ErrCodeSubmissionNotFound,
		Message:  fmt.Sprintf("指定された投稿が見つかりません: %s", id),
		Category: "moderation",
		Action:   "投稿IDを確認してください。",
	}
}

// NewInvalidMediaTypeError は無効なメディア種別エラーを生成する。
func NewInvalidMediaTypeError(t string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidMediaType,
		Message:  fmt.Sprintf("無効なメディア種別です: %s", t),
		Category: "validation",
		Action:   "メディア種別には photo または video を指定してください。",
	}
}

// NewEmptyFieldError は必須フィールド未入力エラーを生成する。
func NewEmptyFieldError(field string) *APIError {
	return &APIError{
		Code:     ErrCodeEmptyField,
		Message:  fmt.Sprintf("必須フィールドが未入力です: %s", field),
		Category: "validation",
		Action:   "すべての必須項目を入力してください。",
	}
}

// NewInvalidStatusError は無効なステータスフィルタエラーを生成する。
func NewInvalidStatusError(status string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidStatus,
		Message:  fmt.Sprintf("無効なステータスです: %s", status),
		Category: "validation",
		Action:   "ステータスには all、pending、approved、rejected のいずれかを指定してください。",
	}
}

// NewCaptionFailedError はキャプション生成失敗エラーを生成する。
// リトライ可能なエラーとして扱い、投稿データは一切永続化しない。
func NewCaptionFailedError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeCaptionFailed,
		Message:  fmt.Sprintf("キャプションの生成に失敗しました: %s", reason),
		Category: "caption",
		Action:   "しばらく待ってから再度生成をお試しください。入力内容は失われません。",
	}
}
