package handlers

import (
	"net/http"
	"strconv"

	"github.com/ukydev/vessel-ops/internal/maintenance"
	"github.com/ukydev/vessel-ops/internal/middleware"
	"github.com/ukydev/vessel-ops/internal/models"
)

// VesselHandler serves vessels, their counters, service logs and
// maintenance summaries.
type VesselHandler struct {
	service *maintenance.Service
}

// NewVesselHandler creates a new vessel handler
func NewVesselHandler(service *maintenance.Service) *VesselHandler {
	return &VesselHandler{service: service}
}

// owner returns the id of the authenticated user, writing 401 when absent.
func owner(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "user context not found")
		return "", false
	}
	return claims.UserID, true
}

// List handles GET /api/vessels
func (h *VesselHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := owner(w, r)
	if !ok {
		return
	}
	vessels, err := h.service.ListVessels(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if vessels == nil {
		vessels = []models.Vessel{}
	}
	writeJSON(w, http.StatusOK, vessels)
}

// Create handles POST /api/vessels
func (h *VesselHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := owner(w, r)
	if !ok {
		return
	}
	var req models.CreateVesselRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	vessel, err := h.service.CreateVessel(r.Context(), userID, req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, vessel)
}

// Get handles GET /api/vessels/{id}
func (h *VesselHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := owner(w, r)
	if !ok {
		return
	}
	vessel, err := h.service.GetVessel(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vessel)
}

// Update handles PUT /api/vessels/{id}
func (h *VesselHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := owner(w, r)
	if !ok {
		return
	}
	var req models.CreateVesselRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	vessel, err := h.service.UpdateVessel(r.Context(), userID, r.PathValue("id"), req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vessel)
}

// Delete handles DELETE /api/vessels/{id}
func (h *VesselHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := owner(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteVessel(r.Context(), userID, r.PathValue("id")); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// State handles GET /api/vessels/{id}/state
func (h *VesselHandler) State(w http.ResponseWriter, r *http.Request) {
	userID, ok := owner(w, r)
	if !ok {
		return
	}
	state, err := h.service.State(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// PatchState handles PATCH /api/vessels/{id}/state
func (h *VesselHandler) PatchState(w http.ResponseWriter, r *http.Request) {
	userID, ok := owner(w, r)
	if !ok {
		return
	}
	var patch models.StatePatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	state, err := h.service.PatchState(r.Context(), userID, r.PathValue("id"), patch)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// CompleteTrip handles POST /api/vessels/{id}/complete-trip
func (h *VesselHandler) CompleteTrip(w http.ResponseWriter, r *http.Request) {
	userID, ok := owner(w, r)
	if !ok {
		return
	}
	var req models.CompleteTripRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	state, err := h.service.CompleteTrip(r.Context(), userID, r.PathValue("id"), req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// ListLogs handles GET /api/vessels/{id}/logs?system_id=&part_name=&limit=
func (h *VesselHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	userID, ok := owner(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	filter := models.LogFilter{
		SystemID: q.Get("system_id"),
		PartName: q.Get("part_name"),
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.ParseInt(v, 10, 64)
		if err != nil || limit < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		filter.Limit = limit
	}
	logs, err := h.service.ListLogs(r.Context(), userID, r.PathValue("id"), filter)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if logs == nil {
		logs = []models.MaintenanceLog{}
	}
	writeJSON(w, http.StatusOK, logs)
}

// RecordLog handles POST /api/vessels/{id}/logs
func (h *VesselHandler) RecordLog(w http.ResponseWriter, r *http.Request) {
	userID, ok := owner(w, r)
	if !ok {
		return
	}
	var req models.LogMaintenanceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	entry, err := h.service.RecordLog(r.Context(), userID, r.PathValue("id"), req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// Summary handles GET /api/vessels/{id}/summary
func (h *VesselHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID, ok := owner(w, r)
	if !ok {
		return
	}
	summary, err := h.service.Summary(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
