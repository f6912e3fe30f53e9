package handlers

import (
	"net/http"

	"github.com/ukydev/vessel-ops/internal/models"
)

// ReportSystemStatus handles PATCH /api/vessels/{id}/systems/{system_id}/status
func (h *VesselHandler) ReportSystemStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := owner(w, r)
	if !ok {
		return
	}
	var req models.SystemStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	record, err := h.service.ReportSystemStatus(r.Context(), userID, r.PathValue("id"), r.PathValue("system_id"), req.Status)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// AddTask handles POST /api/vessels/{id}/systems/{system_id}/tasks
func (h *VesselHandler) AddTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := owner(w, r)
	if !ok {
		return
	}
	var req models.CreateTaskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	task, err := h.service.AddTask(r.Context(), userID, r.PathValue("id"), r.PathValue("system_id"), req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

// UpdateTask handles PATCH /api/vessels/{id}/systems/{system_id}/tasks/{task_id}
func (h *VesselHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := owner(w, r)
	if !ok {
		return
	}
	var req models.UpdateTaskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	task, err := h.service.UpdateTask(r.Context(), userID, r.PathValue("id"), r.PathValue("system_id"), r.PathValue("task_id"), req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// DeleteTask handles DELETE /api/vessels/{id}/systems/{system_id}/tasks/{task_id}
func (h *VesselHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := owner(w, r)
	if !ok {
		return
	}
	err := h.service.DeleteTask(r.Context(), userID, r.PathValue("id"), r.PathValue("system_id"), r.PathValue("task_id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
