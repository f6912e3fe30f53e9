package handlers

import (
	"net/http"

	"github.com/ukydev/vessel-ops/internal/maintenance"
	"github.com/ukydev/vessel-ops/internal/models"
)

// RuleHandler serves the maintenance rule book of the current user.
type RuleHandler struct {
	service *maintenance.Service
}

// NewRuleHandler creates a new rule handler
func NewRuleHandler(service *maintenance.Service) *RuleHandler {
	return &RuleHandler{service: service}
}

// List handles GET /api/maintenance/rules?system_id=
func (h *RuleHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := owner(w, r)
	if !ok {
		return
	}
	rules, err := h.service.ListRules(r.Context(), userID, r.URL.Query().Get("system_id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	if rules == nil {
		rules = []models.MaintenanceRule{}
	}
	writeJSON(w, http.StatusOK, rules)
}

// Create handles POST /api/maintenance/rules
func (h *RuleHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := owner(w, r)
	if !ok {
		return
	}
	var req models.CreateRuleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rule, err := h.service.CreateRule(r.Context(), userID, req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rule)
}

// Update handles PUT /api/maintenance/rules/{id}
func (h *RuleHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := owner(w, r)
	if !ok {
		return
	}
	var req models.UpdateRuleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rule, err := h.service.UpdateRule(r.Context(), userID, r.PathValue("id"), req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rule)
}

// Delete handles DELETE /api/maintenance/rules/{id}
func (h *RuleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := owner(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteRule(r.Context(), userID, r.PathValue("id")); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Seed handles POST /api/maintenance/rules/seed
func (h *RuleHandler) Seed(w http.ResponseWriter, r *http.Request) {
	userID, ok := owner(w, r)
	if !ok {
		return
	}
	rules, seeded, err := h.service.SeedDefaultRules(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	status := http.StatusOK
	if seeded {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]any{
		"seeded": seeded,
		"count":  len(rules),
		"rules":  rules,
	})
}
