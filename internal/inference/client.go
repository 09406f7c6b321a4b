// Package inference は言語モデルによるカード生成・アクション解釈を提供する。
package inference

import (
	"context"

	"github.com/hitoshi/sera/internal/model"
)

// 動作モード。ヘルスチェックとルートエンドポイントで公開する。
const (
	// ModeNormal は本物のGeminiクライアントで動作していることを示す。
	ModeNormal = "normal"
	// ModeFallback はAPIキーなしのフォールバッククライアントで動作していることを示す。
	ModeFallback = "test/fallback"
)

// Client は推論クライアントのインターフェース。
// 本物のGeminiクライアントとフォールバッククライアントの両方が実装する。
type Client interface {
	// GenerateCards は自由テキストからカード群を生成する。
	// 返されるカードは新規card_id・status=pending・created_at設定済み。
	GenerateCards(ctx context.Context, text, userID string) ([]*model.Card, error)

	// InterpretAction はカードに対するアクションを解釈し、結果ペイロードを返す。
	// modificationsはアクションがmodifiedの場合の変更内容（nil可）。
	InterpretAction(ctx context.Context, cardID, actionType string, modifications map[string]any) (map[string]any, error)

	// Health はクライアントの状態を表す不透明な文字列を返す。
	Health(ctx context.Context) string

	// Mode は動作モード（ModeNormalまたはModeFallback）を返す。
	Mode() string
}
