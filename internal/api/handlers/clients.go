// clients.go — обработчики /api/v1/clients.
package handlers

import (
	"net/http"

	"github.com/nicflores/user-manager-api/internal/api/generated"
	"github.com/nicflores/user-manager-api/internal/domain/model"
)

// ListClients — GET /api/v1/clients.
func (h *APIHandler) ListClients(w http.ResponseWriter, r *http.Request, params generated.ListClientsParams) {
	items, err := h.clients.List(r.Context(), model.ClientFilter{Name: params.Name, Email: params.Email})
	if err != nil {
		h.writeServiceError(w, r, "Ошибка получения списка клиентов", err)
		return
	}
	writeJSON(w, http.StatusOK, clientListToAPI(items))
}

// CreateClient — POST /api/v1/clients.
func (h *APIHandler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req generated.ClientInput
	if !decodeJSON(w, r, &req) {
		return
	}

	c, err := h.clients.Create(r.Context(), clientInput(req))
	if err != nil {
		h.writeServiceError(w, r, "Ошибка создания клиента", err)
		return
	}
	writeJSON(w, http.StatusCreated, clientToAPI(c))
}

// GetClient — GET /api/v1/clients/{id}.
func (h *APIHandler) GetClient(w http.ResponseWriter, r *http.Request, id generated.ClientId) {
	c, err := h.clients.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, "Ошибка получения клиента", err)
		return
	}
	writeJSON(w, http.StatusOK, clientToAPI(c))
}

// UpdateClient — PUT /api/v1/clients/{id}.
func (h *APIHandler) UpdateClient(w http.ResponseWriter, r *http.Request, id generated.ClientId) {
	var req generated.ClientInput
	if !decodeJSON(w, r, &req) {
		return
	}

	c, err := h.clients.Update(r.Context(), id, clientInput(req))
	if err != nil {
		h.writeServiceError(w, r, "Ошибка обновления клиента", err)
		return
	}
	writeJSON(w, http.StatusOK, clientToAPI(c))
}

// DeleteClient — DELETE /api/v1/clients/{id}.
// Клиент с вендорами или SFTP-учёткой не удаляется (409).
func (h *APIHandler) DeleteClient(w http.ResponseWriter, r *http.Request, id generated.ClientId) {
	if err := h.clients.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, r, "Ошибка удаления клиента", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
