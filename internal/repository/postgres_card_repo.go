package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/hitoshi/sera/internal/model"
)

// PostgresCardRepo はPostgreSQLを使用したカードリポジトリ。
type PostgresCardRepo struct {
	db *sql.DB
}

// NewPostgresCardRepo はPostgresCardRepoを生成する。
func NewPostgresCardRepo(db *sql.DB) *PostgresCardRepo {
	return &PostgresCardRepo{db: db}
}

// Create はカードを作成する。
// primary_actionはJSONBとして保存する。
func (r *PostgresCardRepo) Create(ctx context.Context, card *model.Card) error {
	actionJSON, err := json.Marshal(card.PrimaryAction)
	if err != nil {
		return fmt.Errorf("failed to marshal primary_action: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO cards (id, card_type, title, description, primary_action, status, user_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		card.CardID, card.Type, card.Title, card.Description,
		actionJSON, card.Status, card.UserID, card.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create card: %w", err)
	}
	return nil
}

// UpdateStatus は指定カードのステータスを更新する。
func (r *PostgresCardRepo) UpdateStatus(ctx context.Context, cardID, status string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE cards SET status = $2 WHERE id = $1`,
		cardID, status,
	)
	if err != nil {
		return fmt.Errorf("failed to update card status: %w", err)
	}
	return nil
}

// ListByUserID はユーザーのカード一覧を作成日時昇順で返す。
func (r *PostgresCardRepo) ListByUserID(ctx context.Context, userID string) ([]*model.Card, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, card_type, title, description, primary_action, status, user_id, created_at
		 FROM cards
		 WHERE user_id = $1
		 ORDER BY created_at ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	defer rows.Close()

	var cards []*model.Card
	for rows.Next() {
		card := &model.Card{}
		var actionJSON []byte
		if err := rows.Scan(
			&card.CardID, &card.Type, &card.Title, &card.Description,
			&actionJSON, &card.Status, &card.UserID, &card.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		if len(actionJSON) > 0 {
			if err := json.Unmarshal(actionJSON, &card.PrimaryAction); err != nil {
				return nil, fmt.Errorf("failed to unmarshal primary_action: %w", err)
			}
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cards: %w", err)
	}

	return cards, nil
}

// compile-time interface check
var _ CardRepository = (*PostgresCardRepo)(nil)
