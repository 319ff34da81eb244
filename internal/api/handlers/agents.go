// agents.go — обработчики /api/v1/agents.
package handlers

import (
	"net/http"

	"github.com/nicflores/user-manager-api/internal/api/generated"
	"github.com/nicflores/user-manager-api/internal/domain/model"
)

// ListAgents — GET /api/v1/agents.
func (h *APIHandler) ListAgents(w http.ResponseWriter, r *http.Request, params generated.ListAgentsParams) {
	items, err := h.agents.List(r.Context(), model.AgentFilter{Name: params.Name})
	if err != nil {
		h.writeServiceError(w, r, "Ошибка получения списка агентов", err)
		return
	}
	writeJSON(w, http.StatusOK, agentListToAPI(items))
}

// CreateAgent — POST /api/v1/agents.
func (h *APIHandler) CreateAgent(w http.ResponseWriter, r *http.Request) {
	var req generated.AgentInput
	if !decodeJSON(w, r, &req) {
		return
	}

	a, err := h.agents.Create(r.Context(), agentInput(req))
	if err != nil {
		h.writeServiceError(w, r, "Ошибка создания агента", err)
		return
	}
	writeJSON(w, http.StatusCreated, agentToAPI(a))
}

// GetAgent — GET /api/v1/agents/{id}.
func (h *APIHandler) GetAgent(w http.ResponseWriter, r *http.Request, id generated.AgentId) {
	a, err := h.agents.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, "Ошибка получения агента", err)
		return
	}
	writeJSON(w, http.StatusOK, agentToAPI(a))
}

// UpdateAgent — PUT /api/v1/agents/{id}.
func (h *APIHandler) UpdateAgent(w http.ResponseWriter, r *http.Request, id generated.AgentId) {
	var req generated.AgentInput
	if !decodeJSON(w, r, &req) {
		return
	}

	a, err := h.agents.Update(r.Context(), id, agentInput(req))
	if err != nil {
		h.writeServiceError(w, r, "Ошибка обновления агента", err)
		return
	}
	writeJSON(w, http.StatusOK, agentToAPI(a))
}

// DeleteAgent — DELETE /api/v1/agents/{id}.
func (h *APIHandler) DeleteAgent(w http.ResponseWriter, r *http.Request, id generated.AgentId) {
	if err := h.agents.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, r, "Ошибка удаления агента", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListAgentClients — GET /api/v1/agents/{id}/clients.
func (h *APIHandler) ListAgentClients(w http.ResponseWriter, r *http.Request, id generated.AgentId) {
	items, err := h.agents.Clients(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, "Ошибка получения клиентов агента", err)
		return
	}
	writeJSON(w, http.StatusOK, clientListToAPI(items))
}

// AssignAgentClient — PUT /api/v1/agents/{id}/clients/{clientId}. Идемпотентно.
func (h *APIHandler) AssignAgentClient(w http.ResponseWriter, r *http.Request, id generated.AgentId, clientID int64) {
	if err := h.agents.AssignClient(r.Context(), id, clientID); err != nil {
		h.writeServiceError(w, r, "Ошибка назначения клиента агенту", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
