// sftp.go — выдача SFTP-учёток, ротация ключей и /api/v1/sftp.
package handlers

import (
	"net/http"

	"github.com/nicflores/user-manager-api/internal/api/generated"
	"github.com/nicflores/user-manager-api/internal/domain/model"
	"github.com/nicflores/user-manager-api/internal/service"
)

// ProvisionSftp — POST /api/v1/clients/{id}/sftp.
// Генерирует пару ключей; приватный ключ возвращается только в этом ответе.
func (h *APIHandler) ProvisionSftp(w http.ResponseWriter, r *http.Request, id generated.ClientId) {
	var req generated.SftpProvisionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	cred, err := h.provisioning.Provision(r.Context(), id, service.ProvisionRequest{
		Username:   req.Username,
		BucketName: req.BucketName,
		RoleARN:    req.RoleArn,
	})
	if err != nil {
		h.writeServiceError(w, r, "Ошибка выдачи SFTP-учётки", err)
		return
	}

	writeJSON(w, http.StatusCreated, provisionedToAPI(cred))
}

// RotateSftpKeys — POST /api/v1/clients/{id}/sftp/rotate.
func (h *APIHandler) RotateSftpKeys(w http.ResponseWriter, r *http.Request, id generated.ClientId) {
	rotated, err := h.provisioning.RotateKeys(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, "Ошибка ротации SFTP-ключей", err)
		return
	}

	writeJSON(w, http.StatusOK, rotatedToAPI(rotated))
}

// ListSftp — GET /api/v1/sftp.
func (h *APIHandler) ListSftp(w http.ResponseWriter, r *http.Request, params generated.ListSftpParams) {
	items, err := h.provisioning.List(r.Context(), model.SFTPFilter{ClientID: params.ClientId})
	if err != nil {
		h.writeServiceError(w, r, "Ошибка получения списка SFTP-учёток", err)
		return
	}
	writeJSON(w, http.StatusOK, sftpListToAPI(items))
}

// GetSftp — GET /api/v1/sftp/{id}.
func (h *APIHandler) GetSftp(w http.ResponseWriter, r *http.Request, id int64) {
	s, err := h.provisioning.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, "Ошибка получения SFTP-учётки", err)
		return
	}
	writeJSON(w, http.StatusOK, sftpToAPI(s))
}

// UpdateSftp — PUT /api/v1/sftp/{id}.
// Частичное обновление: меняются только переданные поля.
func (h *APIHandler) UpdateSftp(w http.ResponseWriter, r *http.Request, id int64) {
	var req generated.SftpUpdate
	if !decodeJSON(w, r, &req) {
		return
	}

	s, err := h.provisioning.Update(r.Context(), id, model.SFTPUpdate{
		Username:   req.Username,
		BucketName: req.BucketName,
		RoleARN:    req.RoleArn,
	})
	if err != nil {
		h.writeServiceError(w, r, "Ошибка обновления SFTP-учётки", err)
		return
	}
	writeJSON(w, http.StatusOK, sftpToAPI(s))
}

// DeleteSftp — DELETE /api/v1/sftp/{id}.
func (h *APIHandler) DeleteSftp(w http.ResponseWriter, r *http.Request, id int64) {
	if err := h.provisioning.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, r, "Ошибка удаления SFTP-учётки", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
