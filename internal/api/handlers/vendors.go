// vendors.go — обработчики вендоров клиента и /api/v1/vendors.
package handlers

import (
	"net/http"

	"github.com/nicflores/user-manager-api/internal/api/generated"
	"github.com/nicflores/user-manager-api/internal/domain/model"
)

// AddVendor — POST /api/v1/clients/{id}/vendors.
func (h *APIHandler) AddVendor(w http.ResponseWriter, r *http.Request, id generated.ClientId) {
	var req generated.VendorInput
	if !decodeJSON(w, r, &req) {
		return
	}

	vendorID, err := h.vendors.Add(r.Context(), id, vendorInput(req))
	if err != nil {
		h.writeServiceError(w, r, "Ошибка добавления вендора", err)
		return
	}
	writeJSON(w, http.StatusCreated, generated.Created{Id: vendorID})
}

// UpdateVendor — PUT /api/v1/clients/{id}/vendors/{vendorId}.
// Полная замена полей, включая секреты.
func (h *APIHandler) UpdateVendor(w http.ResponseWriter, r *http.Request, id generated.ClientId, vendorID int64) {
	var req generated.VendorInput
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.vendors.Update(r.Context(), id, vendorID, vendorInput(req)); err != nil {
		h.writeServiceError(w, r, "Ошибка обновления вендора", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListVendors — GET /api/v1/vendors.
func (h *APIHandler) ListVendors(w http.ResponseWriter, r *http.Request, params generated.ListVendorsParams) {
	items, err := h.vendors.List(r.Context(), model.VendorFilter{ClientID: params.ClientId, Name: params.Name})
	if err != nil {
		h.writeServiceError(w, r, "Ошибка получения списка вендоров", err)
		return
	}
	writeJSON(w, http.StatusOK, vendorListToAPI(items))
}

// GetVendor — GET /api/v1/vendors/{id}.
func (h *APIHandler) GetVendor(w http.ResponseWriter, r *http.Request, id generated.VendorId) {
	v, err := h.vendors.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, "Ошибка получения вендора", err)
		return
	}
	writeJSON(w, http.StatusOK, vendorToAPI(v))
}

// DeleteVendor — DELETE /api/v1/vendors/{id}.
func (h *APIHandler) DeleteVendor(w http.ResponseWriter, r *http.Request, id generated.VendorId) {
	if err := h.vendors.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, r, "Ошибка удаления вендора", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
