package server

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/cloud-ru/mcp-tvm-go/internal/logging"
)

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// RespondJSON пишет data в формате JSON с указанным статусом.
// При data == nil отправляется только статус. Тело кодируется до записи заголовка,
// поэтому ошибка кодирования превращается в 500, а не в пустой 200.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if data == nil {
		w.WriteHeader(status)
		return
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		logging.Log.WithError(err).Error("failed to encode JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"failed to encode response"}` + "\n"))
		return
	}
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		logging.Log.WithError(err).Error("failed to write JSON response")
	}
}

// RespondError пишет структурированную ошибку
func RespondError(w http.ResponseWriter, status int, message string, details interface{}) {
	RespondJSON(w, status, ErrorResponse{
		Error:   message,
		Details: details,
	})
}
