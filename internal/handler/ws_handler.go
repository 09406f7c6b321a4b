package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/hitoshi/sera/internal/ws"
)

// upgrader はHTTP接続をWebSocketにアップグレードする。
// CORSポリシーと同様にオリジン制限は行わない。
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSHandler はWebSocketエンドポイントのハンドラー。
type WSHandler struct {
	registry *ws.Registry
	logger   *slog.Logger
}

// NewWSHandler はWSHandlerを生成する。
func NewWSHandler(registry *ws.Registry, logger *slog.Logger) *WSHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WSHandler{registry: registry, logger: logger}
}

// Serve はWebSocket接続を確立し、読み取りループに入る。
// GET /ws/:user_id
//
// 読み取りループはクライアントからの制御メッセージを待ち、
// type == "ping" にpongで応答する。それ以外のメッセージは無視する。
// サーバー側からのハートビートは行わない（クライアント起点のみ）。
func (h *WSHandler) Serve(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgradeは失敗時に自身でエラーレスポンスを書き込む
		h.logger.Warn("websocket upgrade failed",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return
	}

	handle := h.registry.Register(userID, conn)
	defer h.registry.Unregister(userID, handle)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			// 切断（正常・異常問わず）で読み取りループを抜ける
			return
		}

		var msg ws.ControlMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}

		if msg.Type == ws.MessageTypePing {
			if err := handle.Send(ws.Pong()); err != nil {
				h.logger.Warn("failed to send pong",
					slog.String("user_id", userID),
					slog.String("error", err.Error()),
				)
				return
			}
		}
	}
}
