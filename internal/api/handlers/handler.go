// handler.go — основной обработчик API, реализующий generated.ServerInterface.
// Объединяет все доменные обработчики и делегирует запросы в сервисный слой.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apierrors "github.com/nicflores/user-manager-api/internal/api/errors"
	"github.com/nicflores/user-manager-api/internal/api/generated"
	"github.com/nicflores/user-manager-api/internal/api/middleware"
	"github.com/nicflores/user-manager-api/internal/config"
	"github.com/nicflores/user-manager-api/internal/service"
)

var _ generated.ServerInterface = (*APIHandler)(nil)

// APIHandler — основной обработчик API.
// Реализует generated.ServerInterface, делегируя запросы в сервисный слой.
type APIHandler struct {
	health       *HealthHandler
	clients      *service.ClientService
	vendors      *service.VendorService
	provisioning *service.ProvisioningService
	agents       *service.AgentService
	publicConfig config.PublicConfig
	logger       *slog.Logger
}

// NewAPIHandler создаёт основной обработчик API.
// publicConfig — представление конфигурации для GET /api/v1/config (секреты уже замаскированы).
func NewAPIHandler(
	health *HealthHandler,
	clients *service.ClientService,
	vendors *service.VendorService,
	provisioning *service.ProvisioningService,
	agents *service.AgentService,
	publicConfig config.PublicConfig,
	logger *slog.Logger,
) *APIHandler {
	return &APIHandler{
		health:       health,
		clients:      clients,
		vendors:      vendors,
		provisioning: provisioning,
		agents:       agents,
		publicConfig: publicConfig,
		logger:       logger.With(slog.String("component", "api_handler")),
	}
}

// HealthLive — liveness-проверка (делегируется в HealthHandler).
func (h *APIHandler) HealthLive(w http.ResponseWriter, r *http.Request) {
	h.health.HealthLive(w, r)
}

// HealthReady — readiness-проверка (делегируется в HealthHandler).
func (h *APIHandler) HealthReady(w http.ResponseWriter, r *http.Request) {
	h.health.HealthReady(w, r)
}

// GetMetrics — Prometheus метрики (делегируется в HealthHandler).
func (h *APIHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.health.GetMetrics(w, r)
}

// GetConfig — GET /api/v1/config.
// Возвращает конфигурацию сервиса; API-ключ замаскирован, пароли не выводятся.
func (h *APIHandler) GetConfig(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.publicConfig)
}

// --- Вспомогательные функции ---

// writeJSON записывает JSON-ответ с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// decodeJSON разбирает тело запроса. При ошибке пишет 400 и возвращает false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON: "+err.Error())
		return false
	}
	return true
}

// writeServiceError переводит ошибку сервисного слоя в HTTP-ответ.
// op — описание операции для сообщений о внутренних ошибках.
func (h *APIHandler) writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		apierrors.ValidationError(w, err.Error())
	case errors.Is(err, service.ErrNotFound):
		apierrors.NotFound(w, err.Error())
	case errors.Is(err, service.ErrConflict):
		apierrors.Conflict(w, err.Error())
	case errors.Is(err, service.ErrDatabase):
		h.logError(r, op, err)
		apierrors.DatabaseError(w, op+": ошибка базы данных")
	default:
		h.logError(r, op, err)
		apierrors.InternalError(w, op+": внутренняя ошибка")
	}
}

// logError пишет внутреннюю ошибку с request_id, чтобы её можно было
// сопоставить с записью access-лога.
func (h *APIHandler) logError(r *http.Request, op string, err error) {
	h.logger.LogAttrs(r.Context(), slog.LevelError, op,
		slog.String("path", r.URL.Path),
		slog.String("request_id", middleware.RequestIDFromContext(r.Context())),
		slog.String("error", err.Error()),
	)
}
