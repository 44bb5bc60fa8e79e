// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/singshot/internal/model"
)

// SubmissionRepository は投稿データの永続化インターフェース。
// 全投稿リスト（正本）と承認済みキャッシュ（派生）の2つのコレクションを管理し、
// 書き込み時に両者の整合性を保つ（write-through）。
type SubmissionRepository interface {
	// ListAll は全投稿を挿入順で返す。
	// ストアにデータがない場合や破損している場合は空スライスを返し、エラーにしない。
	ListAll(ctx context.Context) ([]model.Submission, error)

	// Add は投稿を末尾に追加して永続化し、承認済みキャッシュを再計算する。
	// 追加後の全投稿リストを返す。IDが重複する場合はDUPLICATE_IDエラーを返す。
	Add(ctx context.Context, sub model.Submission) ([]model.Submission, error)

	// Save は全投稿リストを丸ごと置換し、承認済みキャッシュを再計算して永続化する。
	// モデレーション操作が使う唯一の更新経路。楽観的並行性チェックは行わない
	// （コレクション全体のlast-writer-wins）。
	Save(ctx context.Context, subs []model.Submission) error

	// ListPublished は承認済みキャッシュを直接読み取って返す。
	// 全履歴からの再計算は行わない。表示コンテキストはこの狭い読み取り経路だけに依存する。
	// ストアにデータがない場合や破損している場合は空スライスを返す。
	ListPublished(ctx context.Context) ([]model.Submission, error)
}
