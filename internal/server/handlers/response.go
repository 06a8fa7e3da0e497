package handlers

import (
	"encoding/json"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/iudanet/gophnotes/pkg/api"
)

// maxBodySize ограничивает размер тела запроса (1MB)
const maxBodySize = 1 << 20

// sendJSON отправляет JSON ответ
func sendJSON(logger *slog.Logger, w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// sendResult отправляет {error, message, data} со статусом 200
func sendResult(logger *slog.Logger, w http.ResponseWriter, message string, data any) {
	sendJSON(logger, w, api.Result{Error: api.ResultOK, Message: message, Data: data}, http.StatusOK)
}

// sendFailure отправляет {error: 1, message}
func sendFailure(logger *slog.Logger, w http.ResponseWriter, message string, statusCode int) {
	sendJSON(logger, w, api.Result{Error: api.ResultFailed, Message: message}, statusCode)
}

// sendStatus отправляет голый статус без структурированного тела
func sendStatus(w http.ResponseWriter, statusCode int) {
	http.Error(w, http.StatusText(statusCode), statusCode)
}

// sendText отправляет plain-text сообщение
func sendText(logger *slog.Logger, w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(message)); err != nil {
		logger.Error("failed to write response", slog.Any("error", err))
	}
}

func isJSONRequest(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

// wantsJSON reports whether the client asked for view data instead of HTML
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// bindRequest decodes a JSON body into dst, or fills it from a urlencoded form
func bindRequest(w http.ResponseWriter, r *http.Request, dst any, fromForm func(url.Values)) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	if isJSONRequest(r) {
		return json.NewDecoder(r.Body).Decode(dst)
	}

	if err := r.ParseForm(); err != nil {
		return err
	}
	fromForm(r.PostForm)
	return nil
}
