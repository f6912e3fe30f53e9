package handlers

import (
	"net/http"

	"github.com/ukydev/vessel-ops/internal/fuel"
	"github.com/ukydev/vessel-ops/internal/models"
)

// FuelHandler serves trip fuel estimates and the vessel spec table.
type FuelHandler struct {
	estimator *fuel.Estimator
}

// NewFuelHandler creates a new fuel handler
func NewFuelHandler(estimator *fuel.Estimator) *FuelHandler {
	return &FuelHandler{estimator: estimator}
}

// Estimate handles POST /api/fuel/estimate
func (h *FuelHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	var req models.FuelEstimateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	estimate, err := h.estimator.Estimate(req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, estimate)
}

// Vessels handles GET /api/fuel/vessels
func (h *FuelHandler) Vessels(w http.ResponseWriter, r *http.Request) {
	specs, err := h.estimator.Vessels()
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"vessels":     specs,
		"total_count": len(specs),
	})
}

// Vessel handles GET /api/fuel/vessels/{id}
func (h *FuelHandler) Vessel(w http.ResponseWriter, r *http.Request) {
	spec, err := h.estimator.Vessel(r.PathValue("id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, spec)
}
