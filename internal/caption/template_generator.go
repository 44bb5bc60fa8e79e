package caption

import (
	"context"
	"fmt"
	"strings"
)

// TemplateGenerator はテンプレートベースのキャプション生成器。
// CAPTION_API_URLが未設定の環境（オフライン会場など）でのフォールバックとして使用する。
// 常に3件の候補を返し、失敗しない。
type TemplateGenerator struct{}

// NewTemplateGenerator はTemplateGeneratorの新しいインスタンスを生成する。
func NewTemplateGenerator() *TemplateGenerator {
	return &TemplateGenerator{}
}

// Generate はニックネームとイベント種別を埋め込んだ定型キャプション候補を返す。
func (g *TemplateGenerator) Generate(ctx context.Context, nickname, eventType string) ([]string, error) {
	event := strings.ToLower(eventType)
	return []string{
		fmt.Sprintf("%s is absolutely crushing it at this %s! 🎤✨", nickname, event),
		fmt.Sprintf("When %s takes the mic, magic happens! Perfect %s vibes 🌟", nickname, event),
		fmt.Sprintf("%s's karaoke game is UNREAL! This %s just got legendary! 🔥", nickname, event),
	}, nil
}
