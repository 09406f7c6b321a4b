package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/hitoshi/sera/internal/model"
)

// PostgresCaptureSessionRepo はPostgreSQLを使用したキャプチャセッションリポジトリ。
type PostgresCaptureSessionRepo struct {
	db *sql.DB
}

// NewPostgresCaptureSessionRepo はPostgresCaptureSessionRepoを生成する。
func NewPostgresCaptureSessionRepo(db *sql.DB) *PostgresCaptureSessionRepo {
	return &PostgresCaptureSessionRepo{db: db}
}

// Create はキャプチャセッションを作成する。
// card_idsはJSONB配列として保存する。
func (r *PostgresCaptureSessionRepo) Create(ctx context.Context, session *model.CaptureSession) error {
	cardIDs := session.CardIDs
	if cardIDs == nil {
		cardIDs = []string{}
	}
	idsJSON, err := json.Marshal(cardIDs)
	if err != nil {
		return fmt.Errorf("failed to marshal card_ids: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO capture_sessions (id, user_id, card_ids, created_at)
		 VALUES ($1, $2, $3, $4)`,
		session.SessionID, session.UserID, idsJSON, session.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create capture session: %w", err)
	}
	return nil
}

// compile-time interface check
var _ CaptureSessionRepository = (*PostgresCaptureSessionRepo)(nil)
