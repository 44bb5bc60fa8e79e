// Package intake は投稿の受付フローを提供する。
// 撮影・カスタマイズUIからの入力を検証・サニタイズし、
// pending状態の投稿としてリポジトリに登録する。
package intake

import (
	"context"

	"github.com/google/uuid"

	"github.com/hitoshi/singshot/internal/caption"
	"github.com/hitoshi/singshot/internal/clock"
	"github.com/hitoshi/singshot/internal/model"
	"github.com/hitoshi/singshot/internal/repository"
	"github.com/hitoshi/singshot/internal/security"
)

// Service は投稿受付のサービス層。
type Service struct {
	repo      repository.SubmissionRepository
	generator caption.GeneratorService
	sanitizer security.TextSanitizerService
	clock     clock.Clock
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	repo repository.SubmissionRepository,
	generator caption.GeneratorService,
	sanitizer security.TextSanitizerService,
	clk clock.Clock,
) *Service {
	return &Service{
		repo:      repo,
		generator: generator,
		sanitizer: sanitizer,
		clock:     clk,
	}
}

// CreateInput は投稿作成の入力。
// MediaRefはキャプチャサブシステムが発行した不透明な参照で、コアでは検証しない。
type CreateInput struct {
	MediaType     model.MediaType
	MediaRef      string
	Overlay       string
	Filter        string
	Nickname      string
	EventType     string
	Caption       string
	SocialConsent bool
}

// Create は入力を検証・サニタイズし、pending状態の投稿を作成して永続化する。
// IDはUUIDで払い出し、作成時刻はClockからスタンプする。
func (s *Service) Create(ctx context.Context, input CreateInput) (*model.Submission, error) {
	if !model.ValidMediaType(input.MediaType) {
		return nil, model.NewInvalidMediaTypeError(string(input.MediaType))
	}
	if input.MediaRef == "" {
		return nil, model.NewEmptyFieldError("mediaRef")
	}

	nickname := s.sanitizer.Sanitize(input.Nickname)
	eventType := s.sanitizer.Sanitize(input.EventType)
	capt := s.sanitizer.Sanitize(input.Caption)

	if nickname == "" {
		return nil, model.NewEmptyFieldError("nickname")
	}
	if eventType == "" {
		return nil, model.NewEmptyFieldError("eventType")
	}
	if capt == "" {
		return nil, model.NewEmptyFieldError("caption")
	}

	sub := model.Submission{
		ID:            uuid.NewString(),
		MediaType:     input.MediaType,
		MediaRef:      input.MediaRef,
		Overlay:       input.Overlay,
		Filter:        input.Filter,
		Nickname:      nickname,
		EventType:     eventType,
		Caption:       capt,
		SocialConsent: input.SocialConsent,
		CreatedAt:     s.clock.Now(),
		Status:        model.StatusPending,
	}

	if _, err := s.repo.Add(ctx, sub); err != nil {
		return nil, err
	}

	return &sub, nil
}

// GenerateCaptions はキャプション候補を生成して返す。
// 生成に失敗してもリトライ可能なエラーを返すだけで、何も永続化しない。
func (s *Service) GenerateCaptions(ctx context.Context, nickname, eventType string) ([]string, error) {
	nickname = s.sanitizer.Sanitize(nickname)
	eventType = s.sanitizer.Sanitize(eventType)

	if nickname == "" {
		return nil, model.NewEmptyFieldError("nickname")
	}
	if eventType == "" {
		return nil, model.NewEmptyFieldError("eventType")
	}

	return s.generator.Generate(ctx, nickname, eventType)
}
