package repository

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hitoshi/singshot/internal/kvstore"
	"github.com/hitoshi/singshot/internal/model"
)

// 永続化キー。submissionsKeyが全履歴の正本、publishedKeyが派生キャッシュ。
const (
	submissionsKey = "singshot_submissions"
	publishedKey   = "singshot_gallery"
)

// KVSubmissionRepo はキーバリューストア上のSubmissionRepository実装。
// ストア破損はこの層で吸収し、呼び出し元には空リストとして見せる。
type KVSubmissionRepo struct {
	store  kvstore.Store
	logger *slog.Logger
}

// NewKVSubmissionRepo はKVSubmissionRepoの新しいインスタンスを生成する。
func NewKVSubmissionRepo(store kvstore.Store, logger *slog.Logger) *KVSubmissionRepo {
	return &KVSubmissionRepo{
		store:  store,
		logger: logger,
	}
}

// ListAll は全投稿を挿入順で返す。
func (r *KVSubmissionRepo) ListAll(ctx context.Context) ([]model.Submission, error) {
	return r.readList(ctx, submissionsKey)
}

// Add は投稿を末尾に追加し、正本と承認済みキャッシュの両方を永続化する。
func (r *KVSubmissionRepo) Add(ctx context.Context, sub model.Submission) ([]model.Submission, error) {
	subs, err := r.readList(ctx, submissionsKey)
	if err != nil {
		return nil, err
	}

	for _, existing := range subs {
		if existing.ID == sub.ID {
			return nil, model.NewDuplicateIDError(sub.ID)
		}
	}

	subs = append(subs, sub)
	if err := r.Save(ctx, subs); err != nil {
		return nil, err
	}

	return subs, nil
}

// Save は全投稿リストを置換し、承認済みキャッシュを全件走査で再計算する。
// 再計算はモデレーション操作ごとにO(n)だが、1イベント規模（数十〜数百件）では問題にならない。
func (r *KVSubmissionRepo) Save(ctx context.Context, subs []model.Submission) error {
	if subs == nil {
		subs = []model.Submission{}
	}

	if err := r.writeList(ctx, submissionsKey, subs); err != nil {
		return err
	}

	published := model.FilterByStatus(subs, model.StatusApproved)
	return r.writeList(ctx, publishedKey, published)
}

// ListPublished は承認済みキャッシュを直接読み取って返す。
func (r *KVSubmissionRepo) ListPublished(ctx context.Context) ([]model.Submission, error) {
	return r.readList(ctx, publishedKey)
}

// readList は指定キーのJSON配列をパースして返す。
// キーが存在しない場合、またはJSONとしてパースできない場合は空スライスを返す。
// 破損は警告ログのみ記録し、エラーとして伝播させない。
func (r *KVSubmissionRepo) readList(ctx context.Context, key string) ([]model.Submission, error) {
	raw, ok, err := r.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []model.Submission{}, nil
	}

	var subs []model.Submission
	if err := json.Unmarshal([]byte(raw), &subs); err != nil {
		r.logger.Warn("ストアの内容が破損しているため空リストとして扱います",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return []model.Submission{}, nil
	}
	if subs == nil {
		// JSONの "null" も空コレクションとして扱う
		return []model.Submission{}, nil
	}

	return subs, nil
}

// writeList は投稿リストをJSON配列として指定キーに書き込む。
func (r *KVSubmissionRepo) writeList(ctx context.Context, key string, subs []model.Submission) error {
	data, err := json.Marshal(subs)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, key, string(data))
}
