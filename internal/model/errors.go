// Package model はドメインモデルを定義する。
package model

import "fmt"

// NotFoundError は参照されたカードがワーキングセットに存在しないことを表す。
// HTTP境界では404に対応づけられる唯一のエラー種別。
type NotFoundError struct {
	CardID string
}

// Error はerrorインターフェースを実装する。
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("card not found: %s", e.CardID)
}

// NewCardNotFoundError はカード未検出エラーを生成する。
func NewCardNotFoundError(cardID string) *NotFoundError {
	return &NotFoundError{CardID: cardID}
}

// ProcessingStage は処理失敗がどの段階で発生したかを表す。
// 外部契約上は単一の500に畳み込まれるが、ログ上は段階を区別する。
type ProcessingStage string

const (
	// StageInference は推論クライアント呼び出しの失敗を示す。
	StageInference ProcessingStage = "inference"
	// StagePersistence は永続化の失敗を示す。
	StagePersistence ProcessingStage = "persistence"
)

// ProcessingError はキャプチャ・アクションフロー内の失敗を段階情報付きで表す。
type ProcessingError struct {
	Stage ProcessingStage
	Err   error
}

// Error はerrorインターフェースを実装する。
func (e *ProcessingError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

// Unwrap はラップされた元のエラーを返す。
func (e *ProcessingError) Unwrap() error {
	return e.Err
}

// NewProcessingError は段階付きの処理失敗エラーを生成する。
func NewProcessingError(stage ProcessingStage, err error) *ProcessingError {
	return &ProcessingError{Stage: stage, Err: err}
}
