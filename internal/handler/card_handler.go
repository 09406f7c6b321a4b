package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/sera/internal/model"
)

// CardHandler はカードアクション・一覧取得のHTTPハンドラー。
type CardHandler struct {
	service CardServiceInterface
}

// NewCardHandler はCardHandlerを生成する。
func NewCardHandler(service CardServiceInterface) *CardHandler {
	return &CardHandler{service: service}
}

// actionRequest はカードアクションリクエストのボディ。
// actionは任意の文字列を受け付ける（語彙の検証は行わない）。
type actionRequest struct {
	Action        string         `json:"action"`
	UserID        string         `json:"user_id"`
	Modifications map[string]any `json:"modifications"`
}

// actionResponse はカードアクションのレスポンス。
type actionResponse struct {
	CardID  string `json:"card_id"`
	Status  string `json:"status"`
	Success bool   `json:"success"`
}

// listCardsResponse はユーザーカード一覧のレスポンス。
type listCardsResponse struct {
	UserID string        `json:"user_id"`
	Cards  []*model.Card `json:"cards"`
	Count  int           `json:"count"`
}

// HandleAction はカードへのアクションを処理する。
// POST /api/cards/:card_id/action
func (h *CardHandler) HandleAction(w http.ResponseWriter, r *http.Request) {
	cardID := chi.URLParam(r, "card_id")

	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.service.HandleAction(r.Context(), cardID, req.Action, req.UserID, req.Modifications)
	if err != nil {
		var notFound *model.NotFoundError
		if errors.As(err, &notFound) {
			writeDetail(w, http.StatusNotFound, "Card not found")
			return
		}
		writeDetail(w, http.StatusInternalServerError, fmt.Sprintf("Action failed: %v", err))
		return
	}

	writeJSON(w, actionResponse{
		CardID:  result.CardID,
		Status:  result.Status,
		Success: true,
	})
}

// ListUserCards はユーザーのカード一覧を取得する。
// GET /api/user/:user_id/cards
func (h *CardHandler) ListUserCards(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	cards, err := h.service.ListCards(r.Context(), userID)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, fmt.Sprintf("Failed to get cards: %v", err))
		return
	}

	writeJSON(w, listCardsResponse{
		UserID: userID,
		Cards:  cards,
		Count:  len(cards),
	})
}
