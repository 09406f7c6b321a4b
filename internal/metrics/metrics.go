// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector はメトリクス収集のインターフェース。
// オーケストレーターと接続レジストリから利用する。
type Collector interface {
	RecordCapture()
	RecordCardsGenerated(count int)
	RecordCardAction(actionType string)
	RecordInferenceLatency(duration time.Duration)
	RecordHTTPStatus(statusCode int)
	RecordWSConnect()
	RecordWSDisconnect()
	RecordWSSendFailure()
}

// PrometheusCollector はPrometheusメトリクスを収集する実装。
type PrometheusCollector struct {
	captures         prometheus.Counter
	cardsGenerated   prometheus.Counter
	cardActions      *prometheus.CounterVec
	inferenceLatency prometheus.Histogram
	httpStatus       *prometheus.CounterVec
	wsConnections    prometheus.Gauge
	wsSendFailures   prometheus.Counter
}

// NewPrometheusCollector は新しいPrometheusCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewPrometheusCollector(reg prometheus.Registerer) *PrometheusCollector {
	c := &PrometheusCollector{
		captures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sera_captures_total",
			Help: "テキストキャプチャリクエストの合計数",
		}),
		cardsGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sera_cards_generated_total",
			Help: "生成されたカードの合計数",
		}),
		cardActions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sera_card_actions_total",
			Help: "アクション種別ごとのカードアクション数",
		}, []string{"action"}),
		inferenceLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sera_inference_latency_seconds",
			Help:    "推論呼び出しのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sera_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		wsConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sera_ws_connections",
			Help: "現在接続中のWebSocketコネクション数",
		}),
		wsSendFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sera_ws_send_failures_total",
			Help: "WebSocket送信失敗の合計数",
		}),
	}

	reg.MustRegister(
		c.captures,
		c.cardsGenerated,
		c.cardActions,
		c.inferenceLatency,
		c.httpStatus,
		c.wsConnections,
		c.wsSendFailures,
	)

	return c
}

// RecordCapture はキャプチャリクエストを記録する。
func (c *PrometheusCollector) RecordCapture() {
	c.captures.Inc()
}

// RecordCardsGenerated は生成されたカード数を記録する。
func (c *PrometheusCollector) RecordCardsGenerated(count int) {
	c.cardsGenerated.Add(float64(count))
}

// RecordCardAction はカードアクションを記録する。
func (c *PrometheusCollector) RecordCardAction(actionType string) {
	c.cardActions.WithLabelValues(actionType).Inc()
}

// RecordInferenceLatency は推論のレイテンシを記録する。
func (c *PrometheusCollector) RecordInferenceLatency(duration time.Duration) {
	c.inferenceLatency.Observe(duration.Seconds())
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *PrometheusCollector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordWSConnect はWebSocket接続の確立を記録する。
func (c *PrometheusCollector) RecordWSConnect() {
	c.wsConnections.Inc()
}

// RecordWSDisconnect はWebSocket接続の切断を記録する。
func (c *PrometheusCollector) RecordWSDisconnect() {
	c.wsConnections.Dec()
}

// RecordWSSendFailure はWebSocket送信失敗を記録する。
func (c *PrometheusCollector) RecordWSSendFailure() {
	c.wsSendFailures.Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}

// NopCollector は何も記録しないCollector。テストで使用する。
type NopCollector struct{}

func (NopCollector) RecordCapture()                              {}
func (NopCollector) RecordCardsGenerated(count int)              {}
func (NopCollector) RecordCardAction(actionType string)          {}
func (NopCollector) RecordInferenceLatency(duration time.Duration) {}
func (NopCollector) RecordHTTPStatus(statusCode int)             {}
func (NopCollector) RecordWSConnect()                            {}
func (NopCollector) RecordWSDisconnect()                         {}
func (NopCollector) RecordWSSendFailure()                        {}

// compile-time interface checks
var (
	_ Collector = (*PrometheusCollector)(nil)
	_ Collector = NopCollector{}
)
