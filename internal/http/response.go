package http

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// IndexedError — ошибка валидации одного элемента батча
type IndexedError struct {
	Index   int    `json:"index"`
	Message string `json:"message"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type createResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      string `json:"id"`
}

type batchResponse struct {
	Success     bool           `json:"success"`
	Message     string         `json:"message"`
	FailedCount int            `json:"failedCount"`
	Errors      []IndexedError `json:"errors,omitempty"`
}

type batchFailedResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Errors  []IndexedError `json:"errors"`
}

type dataResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Response any    `json:"response"`
}

func (s *HTTPServer) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}
