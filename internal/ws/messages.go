package ws

import "github.com/hitoshi/sera/internal/model"

// サーバー→クライアントおよびクライアント→サーバーのメッセージ種別。
const (
	MessageTypeNewCards    = "new_cards"
	MessageTypeCardUpdated = "card_updated"
	MessageTypePing        = "ping"
	MessageTypePong        = "pong"
)

// NewCardsMessage はキャプチャで生成されたカード群のプッシュ通知。
// 発信元ユーザーにのみ送信される。
type NewCardsMessage struct {
	Type      string        `json:"type"`
	SessionID string        `json:"session_id"`
	Cards     []*model.Card `json:"cards"`
}

// NewCardsNotification はNewCardsMessageを生成する。
func NewCardsNotification(sessionID string, cards []*model.Card) NewCardsMessage {
	return NewCardsMessage{
		Type:      MessageTypeNewCards,
		SessionID: sessionID,
		Cards:     cards,
	}
}

// CardUpdatedMessage はカードステータス更新のプッシュ通知。
// カード所有者に限らず全接続ユーザーに同報される。
type CardUpdatedMessage struct {
	Type   string `json:"type"`
	CardID string `json:"card_id"`
	Action string `json:"action"`
}

// CardUpdatedNotification はCardUpdatedMessageを生成する。
func CardUpdatedNotification(cardID, action string) CardUpdatedMessage {
	return CardUpdatedMessage{
		Type:   MessageTypeCardUpdated,
		CardID: cardID,
		Action: action,
	}
}

// ControlMessage はクライアントから受信する制御メッセージ。
// type == "ping" のみ処理し、それ以外は無視する。
type ControlMessage struct {
	Type string `json:"type"`
}

// PongMessage はpingへの応答。
type PongMessage struct {
	Type string `json:"type"`
}

// Pong はPongMessageを生成する。
func Pong() PongMessage {
	return PongMessage{Type: MessageTypePong}
}
