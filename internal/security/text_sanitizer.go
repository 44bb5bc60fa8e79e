// Package security はアプリケーションのセキュリティ機能を提供する。
//
// TextSanitizerService はゲストが入力するテキスト（ニックネーム、イベント種別、
// キャプション）をサニタイズし、公開ディスプレイやスタッフダッシュボードへの
// XSS持ち込みを防止する。bluemondayのStrictPolicyを使用し、
// HTMLタグを一切許可しないプレーンテキスト化を行う。
package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizerService はユーザー入力テキストのサニタイズ機能のインターフェースを定義する。
// 投稿の作成前（intake層）で使用される。
type TextSanitizerService interface {
	// Sanitize は入力テキストからすべてのHTMLタグを除去し、
	// 前後の空白をトリムしたプレーンテキストを返す。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(input string) string
}

// textSanitizer はTextSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type textSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer はTextSanitizerServiceの新しいインスタンスを生成する。
// StrictPolicy（全タグ除去）を使用する。ディスプレイに流れるのは
// プレーンテキストのみで、装飾はUI側のoverlay/filterタグが担うため、
// ゲスト入力にHTMLを許可する理由がない。
func NewTextSanitizer() *textSanitizer {
	return &textSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize は入力テキストからHTMLタグを除去してプレーンテキストを返す。
// bluemondayはエンティティをエスケープして返すため、
// 表示用に一度だけアンエスケープして元の文字（絵文字や&など）を保持する。
func (s *textSanitizer) Sanitize(input string) string {
	cleaned := s.policy.Sanitize(input)
	return strings.TrimSpace(html.UnescapeString(cleaned))
}
