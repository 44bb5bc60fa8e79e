package caption

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/hitoshi/singshot/internal/model"
)

// Client は外部キャプション生成APIのクライアント。
// エンドポイントは運用者が設定し、HTTPクライアントにはSSRF防止機能付きの
// クライアントを注入することを想定している。
type Client struct {
	httpClient  *http.Client
	logger      *slog.Logger
	endpoint    string
	maxBodySize int64
}

// NewClient はClientの新しいインスタンスを生成する。
// maxBodySizeはレスポンスボディの最大許容バイト数。
func NewClient(httpClient *http.Client, logger *slog.Logger, endpoint string, maxBodySize int64) *Client {
	return &Client{
		httpClient:  httpClient,
		logger:      logger,
		endpoint:    endpoint,
		maxBodySize: maxBodySize,
	}
}

// generateRequest はキャプションAPIへのリクエストボディ。
type generateRequest struct {
	Nickname  string `json:"nickname"`
	EventType string `json:"event_type"`
}

// generateResponse はキャプションAPIのレスポンスボディ。
type generateResponse struct {
	Captions []string `json:"captions"`
}

// Generate は外部APIを呼び出してキャプション候補を取得する。
// 失敗はすべてCAPTION_FAILEDとして返し、呼び出し元がリトライを判断する。
func (c *Client) Generate(ctx context.Context, nickname, eventType string) ([]string, error) {
	payload, err := json.Marshal(generateRequest{
		Nickname:  nickname,
		EventType: eventType,
	})
	if err != nil {
		return nil, model.NewCaptionFailedError("リクエストの構築に失敗しました")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, model.NewCaptionFailedError("HTTPリクエストの作成に失敗しました")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "SingShot/1.0 Event Kiosk")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("キャプションAPIの呼び出しに失敗しました",
			slog.String("error", err.Error()),
		)
		return nil, model.NewCaptionFailedError("APIへの接続に失敗しました")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("キャプションAPIがエラーステータスを返しました",
			slog.Int("http_status", resp.StatusCode),
		)
		return nil, model.NewCaptionFailedError("APIがエラーを返しました")
	}

	// レスポンスボディを読み込み（最大サイズ制限付き）
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize+1))
	if err != nil {
		c.logger.Error("レスポンスボディの読み取りに失敗しました",
			slog.String("error", err.Error()),
		)
		return nil, model.NewCaptionFailedError("レスポンスの読み取りに失敗しました")
	}

	// サイズ超過チェック
	if int64(len(body)) > c.maxBodySize {
		c.logger.Error("キャプションAPIのレスポンスが大きすぎます",
			slog.Int64("max_body_size", c.maxBodySize),
		)
		return nil, model.NewCaptionFailedError("レスポンスが大きすぎます")
	}

	var result generateResponse
	if err := json.Unmarshal(body, &result); err != nil {
		c.logger.Error("キャプションAPIのレスポンスのパースに失敗しました",
			slog.String("error", err.Error()),
		)
		return nil, model.NewCaptionFailedError("レスポンスの解析に失敗しました")
	}

	if len(result.Captions) == 0 {
		return nil, model.NewCaptionFailedError("候補が1件も返されませんでした")
	}

	return result.Captions, nil
}
