package errors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name       string
		write      func(http.ResponseWriter, string)
		wantStatus int
		wantCode   string
	}{
		{"validation", ValidationError, http.StatusBadRequest, CodeValidationError},
		{"not found", NotFound, http.StatusNotFound, CodeNotFound},
		{"unauthorized", Unauthorized, http.StatusUnauthorized, CodeUnauthorized},
		{"forbidden", Forbidden, http.StatusForbidden, CodeForbidden},
		{"conflict", Conflict, http.StatusConflict, CodeConflict},
		{"database", DatabaseError, http.StatusInternalServerError, CodeDatabaseError},
		{"internal", InternalError, http.StatusInternalServerError, CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.write(rec, "сообщение")

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, ожидалось %d", rec.Code, tt.wantStatus)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q", ct)
			}

			var body errorBody
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("декодирование: %v", err)
			}
			if body.Error.Code != tt.wantCode || body.Error.Message != "сообщение" {
				t.Errorf("body = %+v", body)
			}
		})
	}
}

func TestWrite_RequestID(t *testing.T) {
	rec := httptest.NewRecorder()
	rec.Header().Set(HeaderRequestID, "req-7")
	NotFound(rec, "клиент 5")

	var body errorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("декодирование: %v", err)
	}
	if body.Error.RequestID != "req-7" {
		t.Errorf("request_id = %q, ожидался req-7", body.Error.RequestID)
	}

	// Без заголовка поле не выводится.
	rec = httptest.NewRecorder()
	NotFound(rec, "клиент 5")
	var raw map[string]map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&raw); err != nil {
		t.Fatalf("декодирование: %v", err)
	}
	if _, ok := raw["error"]["request_id"]; ok {
		t.Errorf("request_id без заголовка: %v", raw)
	}
}

func TestStatusFor_UnknownCode(t *testing.T) {
	if got := StatusFor("SOMETHING_NEW"); got != http.StatusInternalServerError {
		t.Errorf("StatusFor = %d, ожидалось 500", got)
	}
}
