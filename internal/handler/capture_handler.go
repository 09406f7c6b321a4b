package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/hitoshi/sera/internal/card"
	"github.com/hitoshi/sera/internal/model"
)

// CardServiceInterface はハンドラーが必要とするオーケストレーターのインターフェース。
type CardServiceInterface interface {
	// CaptureText はテキストからカードを生成・永続化・通知する。
	CaptureText(ctx context.Context, text, userID string) (*card.CaptureResult, error)
	// HandleAction はカードへのアクションを処理する。
	HandleAction(ctx context.Context, cardID, actionType, userID string, modifications map[string]any) (*card.ActionResult, error)
	// ListCards はユーザーのカード一覧を返す。
	ListCards(ctx context.Context, userID string) ([]*model.Card, error)
}

// CaptureHandler はテキストキャプチャのHTTPハンドラー。
type CaptureHandler struct {
	service CardServiceInterface
}

// NewCaptureHandler はCaptureHandlerを生成する。
func NewCaptureHandler(service CardServiceInterface) *CaptureHandler {
	return &CaptureHandler{service: service}
}

// captureRequest はキャプチャリクエストのボディ。
type captureRequest struct {
	Text   string `json:"text"`
	UserID string `json:"user_id"`
}

// captureResponse はキャプチャのレスポンス。
type captureResponse struct {
	SessionID string        `json:"session_id"`
	Cards     []*model.Card `json:"cards"`
	Status    string        `json:"status"`
}

// CaptureText はテキストを処理してカードを生成する。
// POST /api/capture/text
func (h *CaptureHandler) CaptureText(w http.ResponseWriter, r *http.Request) {
	var req captureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.service.CaptureText(r.Context(), req.Text, req.UserID)
	if err != nil {
		// 推論・永続化・通知の失敗は外部契約上1種類に畳み込まれる
		writeDetail(w, http.StatusInternalServerError, fmt.Sprintf("Processing failed: %v", err))
		return
	}

	writeJSON(w, captureResponse{
		SessionID: result.SessionID,
		Cards:     result.Cards,
		Status:    "success",
	})
}
