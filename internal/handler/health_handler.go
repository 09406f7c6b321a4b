package handler

import (
	"context"
	"net/http"
	"time"
)

// InferenceStatusInterface はヘルスチェックが必要とする推論クライアントのインターフェース。
// inference.Clientの部分集合として定義する。
type InferenceStatusInterface interface {
	// Health はクライアントの状態を表す不透明な文字列を返す。
	Health(ctx context.Context) string
	// Mode は動作モードを返す。
	Mode() string
}

// HealthHandler はヘルスチェックとルートエンドポイントのHTTPハンドラー。
type HealthHandler struct {
	inference InferenceStatusInterface
}

// NewHealthHandler はHealthHandlerを生成する。
func NewHealthHandler(inference InferenceStatusInterface) *HealthHandler {
	return &HealthHandler{inference: inference}
}

// healthResponse はヘルスチェックのレスポンス。
type healthResponse struct {
	Status    string `json:"status"`
	Gemini    string `json:"gemini"`
	Mode      string `json:"mode"`
	Timestamp string `json:"timestamp"`
}

// rootResponse はルートエンドポイントのレスポンス。
type rootResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
	Mode    string `json:"mode"`
}

// Health はヘルスチェックを返す。
// GET /api/health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, healthResponse{
		Status:    "healthy",
		Gemini:    h.inference.Health(r.Context()),
		Mode:      h.inference.Mode(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Root はサービス情報を返す。
// GET /
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, rootResponse{
		Message: "SERA Backend API",
		Status:  "running",
		Mode:    h.inference.Mode(),
	})
}
