// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/sera/internal/model"
)

// CardRepository はカードデータの永続化インターフェース。
// ワーキングセットはプロセス寿命のキャッシュにすぎず、永続化層が常に正となる。
type CardRepository interface {
	// Create はカードを作成する。
	Create(ctx context.Context, card *model.Card) error

	// UpdateStatus は指定カードのステータスを更新する。
	// ステータス値はアクション名をそのまま保存する（語彙の検証は行わない）。
	UpdateStatus(ctx context.Context, cardID, status string) error

	// ListByUserID はユーザーのカード一覧を作成日時昇順で返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.Card, error)
}

// CaptureSessionRepository はキャプチャセッションの永続化インターフェース。
type CaptureSessionRepository interface {
	// Create はキャプチャセッションを作成する。セッションは作成後変更されない。
	Create(ctx context.Context, session *model.CaptureSession) error
}
