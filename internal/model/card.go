// Package model はドメインモデルを定義する。
package model

import "time"

// AnonymousUserID はuser_id未指定のリクエストに割り当てる既定のユーザーID。
// 認証レイヤーを持たないため、明示的な匿名ポリシーとして扱う。
const AnonymousUserID = "default_user"

// Card は推論クライアントが生成し、ユーザーに提示される提案カードを表す。
// card_idとuser_idは生成後に変更されない。statusのみがアクション処理で遷移する。
type Card struct {
	CardID        string         `json:"card_id"`
	Type          string         `json:"type"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	PrimaryAction map[string]any `json:"primary_action"`
	Status        string         `json:"status"`
	UserID        string         `json:"user_id"`
	CreatedAt     time.Time      `json:"created_at"`
}

// StatusPending は生成直後のカードの初期ステータス。
const StatusPending = "pending"

// 既知のアクション語彙。ステータスはアクション名をそのまま採用するため
// 検証には使用しないが、フォールバッククライアントとテストの基準値として定義する。
const (
	ActionAccepted  = "accepted"
	ActionModified  = "modified"
	ActionDismissed = "dismissed"
)

// CaptureSession は1回のテキストキャプチャと生成されたカード群の対応を表す。
// 作成後は変更されない読み取り専用のレコード。
type CaptureSession struct {
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	CardIDs   []string  `json:"card_ids"`
	CreatedAt time.Time `json:"created_at"`
}
