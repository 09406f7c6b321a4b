// Package handler はHTTPハンドラーとルーティングを提供する。
package handler

import (
	"encoding/json"
	"net/http"
)

// detailResponse はエラーレスポンスの統一フォーマット。
type detailResponse struct {
	Detail string `json:"detail"`
}

// writeDetail はエラーレスポンスを書き込む。
func writeDetail(w http.ResponseWriter, statusCode int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(detailResponse{Detail: detail})
}

// writeJSON は200レスポンスをJSONで書き込む。
func writeJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(body)
}
