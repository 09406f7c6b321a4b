package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/sera/internal/card"
	"github.com/hitoshi/sera/internal/model"
)

// --- モック定義 ---

// mockCardService はCardServiceInterfaceのモック実装。
type mockCardService struct {
	captureTextFn  func(ctx context.Context, text, userID string) (*card.CaptureResult, error)
	handleActionFn func(ctx context.Context, cardID, actionType, userID string, modifications map[string]any) (*card.ActionResult, error)
	listCardsFn    func(ctx context.Context, userID string) ([]*model.Card, error)
}

func (m *mockCardService) CaptureText(ctx context.Context, text, userID string) (*card.CaptureResult, error) {
	if m.captureTextFn != nil {
		return m.captureTextFn(ctx, text, userID)
	}
	return &card.CaptureResult{}, nil
}

func (m *mockCardService) HandleAction(ctx context.Context, cardID, actionType, userID string, modifications map[string]any) (*card.ActionResult, error) {
	if m.handleActionFn != nil {
		return m.handleActionFn(ctx, cardID, actionType, userID, modifications)
	}
	return &card.ActionResult{}, nil
}

func (m *mockCardService) ListCards(ctx context.Context, userID string) ([]*model.Card, error) {
	if m.listCardsFn != nil {
		return m.listCardsFn(ctx, userID)
	}
	return []*model.Card{}, nil
}

// --- テストヘルパー ---

// withChiURLParam はchiのURLパラメータをリクエストに注入するヘルパー。
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	return r.WithContext(ctx)
}

// parseDetailResponse はレスポンスボディからdetailエラーレスポンスをパースするヘルパー。
func parseDetailResponse(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var result map[string]string
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return result["detail"]
}

// --- POST /api/capture/text テスト ---

func TestCaptureHandler_CaptureText_Success(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	svc := &mockCardService{
		captureTextFn: func(ctx context.Context, text, userID string) (*card.CaptureResult, error) {
			if text != "明日14時に佐藤さんと打ち合わせ" {
				t.Errorf("text = %q, want capture text", text)
			}
			if userID != "user-123" {
				t.Errorf("userID = %q, want %q", userID, "user-123")
			}
			return &card.CaptureResult{
				SessionID: "session-1",
				Cards: []*model.Card{
					{
						CardID:      "card-1",
						Type:        "schedule",
						Title:       "佐藤さんと打ち合わせ",
						Description: "明日14時",
						Status:      model.StatusPending,
						UserID:      "user-123",
						CreatedAt:   now,
					},
				},
			}, nil
		},
	}

	h := NewCaptureHandler(svc)

	body := `{"text": "明日14時に佐藤さんと打ち合わせ", "user_id": "user-123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/capture/text", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.CaptureText(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "application/json" {
		t.Errorf("Content-Type = %q, want %q", contentType, "application/json")
	}

	var result map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if result["session_id"] != "session-1" {
		t.Errorf("session_id = %v, want %q", result["session_id"], "session-1")
	}
	if result["status"] != "success" {
		t.Errorf("status = %v, want %q", result["status"], "success")
	}

	cards, ok := result["cards"].([]interface{})
	if !ok {
		t.Fatal("expected cards array in response")
	}
	if len(cards) != 1 {
		t.Errorf("cards length = %d, want 1", len(cards))
	}
}

func TestCaptureHandler_CaptureText_EmptyUserID_PassedThrough(t *testing.T) {
	// user_id未指定時のデフォルト解決はサービス層の責務。
	// ハンドラーは受け取った値をそのまま渡す。
	receivedUserID := "unset"
	svc := &mockCardService{
		captureTextFn: func(ctx context.Context, text, userID string) (*card.CaptureResult, error) {
			receivedUserID = userID
			return &card.CaptureResult{SessionID: "session-1", Cards: []*model.Card{}}, nil
		},
	}

	h := NewCaptureHandler(svc)

	body := `{"text": "買い物メモ"}`
	req := httptest.NewRequest(http.MethodPost, "/api/capture/text", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.CaptureText(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}
	if receivedUserID != "" {
		t.Errorf("userID = %q, want empty string", receivedUserID)
	}
}

func TestCaptureHandler_CaptureText_InvalidJSON_ReturnsBadRequest(t *testing.T) {
	h := NewCaptureHandler(&mockCardService{})

	body := `{invalid json`
	req := httptest.NewRequest(http.MethodPost, "/api/capture/text", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.CaptureText(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}

func TestCaptureHandler_CaptureText_ServiceError_ReturnsInternalServerError(t *testing.T) {
	svc := &mockCardService{
		captureTextFn: func(ctx context.Context, text, userID string) (*card.CaptureResult, error) {
			return nil, model.NewProcessingError(model.StageInference, errors.New("upstream timeout"))
		},
	}

	h := NewCaptureHandler(svc)

	body := `{"text": "テスト", "user_id": "user-123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/capture/text", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.CaptureText(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusInternalServerError)
	}

	detail := parseDetailResponse(t, w)
	if detail == "" {
		t.Error("expected detail in error response")
	}
	if !strings.HasPrefix(detail, "Processing failed: ") {
		t.Errorf("detail = %q, want prefix %q", detail, "Processing failed: ")
	}
}

func TestCaptureHandler_CaptureText_EmptyCards_ReturnsSuccess(t *testing.T) {
	svc := &mockCardService{
		captureTextFn: func(ctx context.Context, text, userID string) (*card.CaptureResult, error) {
			return &card.CaptureResult{SessionID: "session-1", Cards: []*model.Card{}}, nil
		},
	}

	h := NewCaptureHandler(svc)

	body := `{"text": "......", "user_id": "user-123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/capture/text", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.CaptureText(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	cards, ok := result["cards"].([]interface{})
	if !ok {
		t.Fatal("expected cards array in response")
	}
	if len(cards) != 0 {
		t.Errorf("cards length = %d, want 0", len(cards))
	}
}
