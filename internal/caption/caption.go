// Package caption はAIキャプション生成サービスとの連携を提供する。
// 外部キャプションAPIのクライアントと、API未設定環境向けの
// テンプレートベースのフォールバック生成器を含む。
package caption

import "context"

// GeneratorService はキャプション候補生成のインターフェース。
// 成功時は必ず1件以上の候補を返す。失敗はリトライ可能なエラーとして
// intake層に伝播し、投稿データは一切永続化されない。
type GeneratorService interface {
	// Generate はニックネームとイベント種別からキャプション候補を生成する。
	Generate(ctx context.Context, nickname, eventType string) ([]string, error)
}
