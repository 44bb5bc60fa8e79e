// Package kvstore は文字列キーの永続ストアへのアダプタを提供する。
// ストアは同期的で、単一キーの原子的置換のみを保証する。
// トランザクションやキー間の整合性保証は提供しない。
package kvstore

import "context"

// Store はキーバリューストアのインターフェース。
// リポジトリ層はこのインターフェース越しにのみ永続化を行い、
// テストではインメモリのフェイクを注入する。
type Store interface {
	// Get は指定キーの生の値を取得する。キーが存在しない場合はok=falseを返す。
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set は指定キーの値を原子的に置換する。キーが存在しない場合は作成する。
	Set(ctx context.Context, key, value string) error
}
