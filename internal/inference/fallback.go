package inference

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/sera/internal/model"
)

// maxFallbackTitleLen はフォールバックカードのタイトル最大長。
const maxFallbackTitleLen = 60

// FallbackClient はAPIキーなしで動作する決定的な推論クライアント。
// Gemini未構成の環境（ローカル開発・CI）でもサービス全体を起動可能にする。
type FallbackClient struct{}

// NewFallbackClient はFallbackClientを生成する。
func NewFallbackClient() *FallbackClient {
	return &FallbackClient{}
}

// GenerateCards は入力テキストからスケジュールカードを1枚生成する。
func (c *FallbackClient) GenerateCards(ctx context.Context, text, userID string) ([]*model.Card, error) {
	title := text
	// バイト境界での切り詰めはマルチバイト文字を壊すため、ルーン単位で行う
	if runes := []rune(title); len(runes) > maxFallbackTitleLen {
		title = string(runes[:maxFallbackTitleLen])
	}
	if title == "" {
		title = "Captured note"
	}

	card := &model.Card{
		CardID:      uuid.New().String(),
		Type:        "schedule",
		Title:       title,
		Description: fmt.Sprintf("Processing: %s", text),
		PrimaryAction: map[string]any{
			"event_title": title,
		},
		Status:    model.StatusPending,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}

	return []*model.Card{card}, nil
}

// InterpretAction は固定の確認メッセージを返す。
func (c *FallbackClient) InterpretAction(ctx context.Context, cardID, actionType string, modifications map[string]any) (map[string]any, error) {
	return map[string]any{
		"message": fmt.Sprintf("Action %q processed", actionType),
	}, nil
}

// Health はフォールバック状態を返す。
func (c *FallbackClient) Health(ctx context.Context) string {
	return "fallback"
}

// Mode は動作モードを返す。
func (c *FallbackClient) Mode() string {
	return ModeFallback
}

// compile-time interface check
var _ Client = (*FallbackClient)(nil)
