package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/sera/internal/metrics"
	"github.com/hitoshi/sera/internal/middleware"
	"github.com/hitoshi/sera/internal/ws"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger
	Metrics           metrics.Collector

	// カード
	CardService CardServiceInterface

	// 推論
	Inference InferenceStatusInterface

	// WebSocket
	Registry *ws.Registry
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORSMiddleware → RecoveryMiddleware → LoggingMiddleware → RateLimitMiddleware
//
// WebSocketルート（/ws/*）はレート制限の外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	// 全ルートに効くミドルウェア
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger, deps.Metrics))

	captureHandler := NewCaptureHandler(deps.CardService)
	cardHandler := NewCardHandler(deps.CardService)
	healthHandler := NewHealthHandler(deps.Inference)
	wsHandler := NewWSHandler(deps.Registry, deps.Logger)

	// ルートエンドポイント（疎通確認用）
	r.Get("/", healthHandler.Root)

	// WebSocket接続（レート制限の対象外）
	r.Get("/ws/{user_id}", wsHandler.Serve)

	// --- REST API ---
	// ミドルウェアスタック: RateLimit
	r.Group(func(r chi.Router) {
		r.Use(deps.RateLimiter.Middleware())

		r.Route("/api", func(r chi.Router) {
			// テキスト取り込み
			r.Post("/capture/text", captureHandler.CaptureText)

			// カード操作
			r.Post("/cards/{card_id}/action", cardHandler.HandleAction)

			// ユーザーごとのカード一覧
			r.Get("/user/{user_id}/cards", cardHandler.ListUserCards)

			// ヘルスチェック
			r.Get("/health", healthHandler.Health)
		})
	})

	return r
}
