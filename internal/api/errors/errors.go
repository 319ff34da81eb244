// Пакет errors — ответы об ошибках API:
//
//	{"error": {"code": "NOT_FOUND", "message": "...", "request_id": "..."}}
//
// HTTP-статус однозначно определяется кодом. request_id берётся из заголовка
// X-Request-ID ответа (его выставляет middleware логирования).
package errors

import (
	"encoding/json"
	"net/http"
)

// HeaderRequestID — заголовок с идентификатором запроса.
const HeaderRequestID = "X-Request-ID"

// Коды ошибок из OpenAPI-контракта.
const (
	CodeValidationError = "VALIDATION_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeForbidden       = "FORBIDDEN"
	CodeConflict        = "CONFLICT"
	CodeDatabaseError   = "DATABASE_ERROR"
	CodeInternalError   = "INTERNAL_ERROR"
)

var statusByCode = map[string]int{
	CodeValidationError: http.StatusBadRequest,
	CodeNotFound:        http.StatusNotFound,
	CodeUnauthorized:    http.StatusUnauthorized,
	CodeForbidden:       http.StatusForbidden,
	CodeConflict:        http.StatusConflict,
	CodeDatabaseError:   http.StatusInternalServerError,
	CodeInternalError:   http.StatusInternalServerError,
}

// StatusFor возвращает HTTP-статус для кода ошибки.
// Неизвестный код — 500.
func StatusFor(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// Write записывает ошибку с кодом code; статус выбирается по StatusFor.
func Write(w http.ResponseWriter, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(StatusFor(code))
	_ = json.NewEncoder(w).Encode(errorBody{
		Error: errorDetail{
			Code:      code,
			Message:   message,
			RequestID: w.Header().Get(HeaderRequestID),
		},
	})
}

// ValidationError — 400.
func ValidationError(w http.ResponseWriter, message string) { Write(w, CodeValidationError, message) }

// NotFound — 404, ресурс или его владелец не найден.
func NotFound(w http.ResponseWriter, message string) { Write(w, CodeNotFound, message) }

// Unauthorized — 401.
func Unauthorized(w http.ResponseWriter, message string) { Write(w, CodeUnauthorized, message) }

// Forbidden — 403, роль не позволяет операцию.
func Forbidden(w http.ResponseWriter, message string) { Write(w, CodeForbidden, message) }

// Conflict — 409: дубликат или ресурс используется.
func Conflict(w http.ResponseWriter, message string) { Write(w, CodeConflict, message) }

// DatabaseError — 500, ошибка хранилища.
func DatabaseError(w http.ResponseWriter, message string) { Write(w, CodeDatabaseError, message) }

// InternalError — 500.
func InternalError(w http.ResponseWriter, message string) { Write(w, CodeInternalError, message) }
