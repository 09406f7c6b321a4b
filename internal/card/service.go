// Package card はキャプチャ・アクションフローを統括するオーケストレーターを提供する。
package card

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/sera/internal/inference"
	"github.com/hitoshi/sera/internal/metrics"
	"github.com/hitoshi/sera/internal/model"
	"github.com/hitoshi/sera/internal/repository"
	"github.com/hitoshi/sera/internal/ws"
)

// Notifier は通知配信のインターフェース。
// ws.Registryの部分集合として定義する。配信はベストエフォートでエラーを返さない。
type Notifier interface {
	SendToUser(payload any, userID string)
	Broadcast(payload any)
}

// Service はキャプチャ・アクションフローのオーケストレーター。
// インメモリのワーキングセット（card_id→カード）を排他的に所有する。
// ワーキングセットはプロセス寿命のキャッシュであり、永続化層が常に正となる。
type Service struct {
	inference   inference.Client
	cardRepo    repository.CardRepository
	sessionRepo repository.CaptureSessionRepository
	notifier    Notifier
	metrics     metrics.Collector
	logger      *slog.Logger

	mu          sync.RWMutex
	activeCards map[string]*model.Card
}

// NewService はServiceを生成する。
func NewService(
	inferenceClient inference.Client,
	cardRepo repository.CardRepository,
	sessionRepo repository.CaptureSessionRepository,
	notifier Notifier,
	collector metrics.Collector,
	logger *slog.Logger,
) *Service {
	if collector == nil {
		collector = metrics.NopCollector{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		inference:   inferenceClient,
		cardRepo:    cardRepo,
		sessionRepo: sessionRepo,
		notifier:    notifier,
		metrics:     collector,
		logger:      logger,
		activeCards: make(map[string]*model.Card),
	}
}

// CaptureResult はCaptureTextの結果。
type CaptureResult struct {
	SessionID string
	Cards     []*model.Card
}

// CaptureText は自由テキストからカードを生成し、永続化・キャッシュ・通知を行う。
// フロー: 推論 → カード永続化（1枚ずつ、バッチロールバックなし） →
// セッション永続化 → 発信元ユーザーへのプッシュ通知（ベストエフォート）。
// userIDが空の場合は匿名ユーザーIDを割り当てる。
func (s *Service) CaptureText(ctx context.Context, text, userID string) (*CaptureResult, error) {
	if userID == "" {
		userID = model.AnonymousUserID
	}
	sessionID := uuid.New().String()

	s.logger.Info("processing text capture",
		slog.String("session_id", sessionID),
		slog.String("user_id", userID),
	)

	start := time.Now()
	cards, err := s.inference.GenerateCards(ctx, text, userID)
	s.metrics.RecordInferenceLatency(time.Since(start))
	if err != nil {
		s.logger.Error("card generation failed",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
		return nil, model.NewProcessingError(model.StageInference, err)
	}

	// カードを1枚ずつ永続化してからワーキングセットに載せる。
	// 途中で失敗した場合、永続化済みのカードはそのまま残る（ロールバックなし）。
	cardIDs := make([]string, 0, len(cards))
	for _, c := range cards {
		if err := s.cardRepo.Create(ctx, c); err != nil {
			s.logger.Error("card persistence failed",
				slog.String("session_id", sessionID),
				slog.String("card_id", c.CardID),
				slog.Int("persisted_count", len(cardIDs)),
				slog.String("error", err.Error()),
			)
			return nil, model.NewProcessingError(model.StagePersistence, err)
		}
		s.mu.Lock()
		s.activeCards[c.CardID] = c
		s.mu.Unlock()
		cardIDs = append(cardIDs, c.CardID)
	}

	session := &model.CaptureSession{
		SessionID: sessionID,
		UserID:    userID,
		CardIDs:   cardIDs,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		s.logger.Error("session persistence failed",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
		return nil, model.NewProcessingError(model.StagePersistence, err)
	}

	// 通知はベストエフォート。送信失敗はレジストリ内で吸収される。
	s.notifier.SendToUser(ws.NewCardsNotification(sessionID, cards), userID)

	s.metrics.RecordCapture()
	s.metrics.RecordCardsGenerated(len(cards))
	s.logger.Info("capture completed",
		slog.String("session_id", sessionID),
		slog.Int("card_count", len(cards)),
	)

	return &CaptureResult{SessionID: sessionID, Cards: cards}, nil
}

// ActionResult はHandleActionの結果。
type ActionResult struct {
	CardID string
	Status string
}

// HandleAction はカードへのアクションを処理する。
// カードの検索はワーキングセットのみを対象とし、永続化層は参照しない。
// ステータス値はアクション名をそのまま採用する（語彙の検証は行わない）。
// 更新はカード所有者に限らず全接続ユーザーへ同報される。
func (s *Service) HandleAction(ctx context.Context, cardID, actionType, userID string, modifications map[string]any) (*ActionResult, error) {
	if userID == "" {
		userID = model.AnonymousUserID
	}

	s.mu.RLock()
	_, ok := s.activeCards[cardID]
	s.mu.RUnlock()
	if !ok {
		return nil, model.NewCardNotFoundError(cardID)
	}

	start := time.Now()
	result, err := s.inference.InterpretAction(ctx, cardID, actionType, modifications)
	s.metrics.RecordInferenceLatency(time.Since(start))
	if err != nil {
		s.logger.Error("action interpretation failed",
			slog.String("card_id", cardID),
			slog.String("action", actionType),
			slog.String("error", err.Error()),
		)
		return nil, model.NewProcessingError(model.StageInference, err)
	}
	s.logger.Debug("action interpreted",
		slog.String("card_id", cardID),
		slog.Any("result", result),
	)

	if err := s.cardRepo.UpdateStatus(ctx, cardID, actionType); err != nil {
		s.logger.Error("status persistence failed",
			slog.String("card_id", cardID),
			slog.String("action", actionType),
			slog.String("error", err.Error()),
		)
		return nil, model.NewProcessingError(model.StagePersistence, err)
	}

	// 推論待機中にカードが差し替わっている可能性があるためロック下で再参照する。
	// 同一カードへの並行アクションは最後の書き込みが勝つ。
	s.mu.Lock()
	if card, ok := s.activeCards[cardID]; ok {
		card.Status = actionType
	}
	s.mu.Unlock()

	s.notifier.Broadcast(ws.CardUpdatedNotification(cardID, actionType))

	s.metrics.RecordCardAction(actionType)
	s.logger.Info("card action completed",
		slog.String("card_id", cardID),
		slog.String("action", actionType),
		slog.String("user_id", userID),
	)

	return &ActionResult{CardID: cardID, Status: actionType}, nil
}

// ListCards はユーザーのカード一覧を永続化層から取得する。
func (s *Service) ListCards(ctx context.Context, userID string) ([]*model.Card, error) {
	cards, err := s.cardRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, model.NewProcessingError(model.StagePersistence, err)
	}
	if cards == nil {
		cards = []*model.Card{}
	}
	return cards, nil
}
