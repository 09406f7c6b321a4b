// Package ws はユーザーごとのWebSocket接続レジストリと通知配信を提供する。
package ws

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/hitoshi/sera/internal/metrics"
)

// Conn は登録済みの1本のWebSocket接続を表すハンドル。
// gorilla/websocketは並行書き込みを許可しないため、書き込みはmuで直列化する。
// レジストリ経由のプッシュとハンドラーからの直接応答（pong）が同じロックを共有する。
type Conn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// Send はペイロードをシリアライズしてこの接続に書き込む。
func (c *Conn) Send(payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return c.write(data)
}

// write はテキストフレームを書き込む。
func (c *Conn) write(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// close は下層の接続を閉じる。
func (c *Conn) close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.Close()
}

// Registry はユーザーIDと生きているWebSocket接続の対応を管理する。
// 1ユーザーにつき同時に保持される接続は最大1本。
// 配信はベストエフォート・at-most-onceで、送信失敗は呼び出し元に伝播しない
// （永続化層が正であり、クライアントは一覧APIで再取得できる）。
type Registry struct {
	mu      sync.RWMutex
	clients map[string]*Conn

	logger  *slog.Logger
	metrics metrics.Collector
}

// NewRegistry はRegistryを生成する。
func NewRegistry(logger *slog.Logger, collector metrics.Collector) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	if collector == nil {
		collector = metrics.NopCollector{}
	}
	return &Registry{
		clients: make(map[string]*Conn),
		logger:  logger,
		metrics: collector,
	}
}

// Register はユーザーの接続を登録し、その接続のハンドルを返す。
// 同一ユーザーの既存接続がある場合は、置き換える前に閉じる。
// 置き換えられた接続の読み取りループはクローズエラーで終了し、
// Unregisterの接続同一性ガードにより後続接続を誤って削除しない。
func (r *Registry) Register(userID string, wsConn *websocket.Conn) *Conn {
	c := &Conn{conn: wsConn}

	r.mu.Lock()
	old, existed := r.clients[userID]
	r.clients[userID] = c
	r.mu.Unlock()

	if existed {
		if err := old.close(); err != nil {
			r.logger.Warn("failed to close superseded connection",
				slog.String("user_id", userID),
				slog.String("error", err.Error()),
			)
		}
		r.metrics.RecordWSDisconnect()
		r.logger.Info("superseded existing connection",
			slog.String("user_id", userID),
		)
	}

	r.metrics.RecordWSConnect()
	r.logger.Info("websocket connected", slog.String("user_id", userID))
	return c
}

// Unregister はユーザーの接続登録を解除する。冪等で、未登録のユーザーはno-op。
// connが非nilの場合、登録中の接続と同一のときだけ削除する。
// これにより置き換え済みの接続の後始末が新しい接続を巻き込まない。
func (r *Registry) Unregister(userID string, conn *Conn) {
	r.mu.Lock()
	current, ok := r.clients[userID]
	if !ok || (conn != nil && current != conn) {
		r.mu.Unlock()
		return
	}
	delete(r.clients, userID)
	r.mu.Unlock()

	r.metrics.RecordWSDisconnect()
	r.logger.Info("websocket disconnected", slog.String("user_id", userID))
}

// SendToUser はペイロードをシリアライズして指定ユーザーの接続に送信する。
// 接続が存在しない場合はメッセージを破棄する（キューイングしない）。
// 送信失敗はログと計測のみで、呼び出し元には伝播しない。
func (r *Registry) SendToUser(payload any, userID string) {
	data, err := json.Marshal(payload)
	if err != nil {
		r.logger.Error("failed to marshal personal message",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return
	}

	r.mu.RLock()
	c, ok := r.clients[userID]
	r.mu.RUnlock()
	if !ok {
		return
	}

	if err := c.write(data); err != nil {
		r.metrics.RecordWSSendFailure()
		r.logger.Warn("failed to send personal message",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}
}

// Broadcast はペイロードを1回シリアライズして全接続に送信する。
// 個別接続の送信失敗は分離され、他の接続への配信を妨げない。
func (r *Registry) Broadcast(payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		r.logger.Error("failed to marshal broadcast message",
			slog.String("error", err.Error()),
		)
		return
	}

	r.mu.RLock()
	targets := make(map[string]*Conn, len(r.clients))
	for userID, c := range r.clients {
		targets[userID] = c
	}
	r.mu.RUnlock()

	for userID, c := range targets {
		if err := c.write(data); err != nil {
			r.metrics.RecordWSSendFailure()
			r.logger.Warn("failed to broadcast to connection",
				slog.String("user_id", userID),
				slog.String("error", err.Error()),
			)
		}
	}
}

// Count は現在登録されている接続数を返す。
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}
