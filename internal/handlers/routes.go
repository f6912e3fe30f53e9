package handlers

import (
	"net/http"

	"github.com/ukydev/vessel-ops/internal/middleware"
	"github.com/ukydev/vessel-ops/internal/models"
)

// Routes groups the handlers mounted on the API mux.
type Routes struct {
	Auth    *AuthHandler
	Vessels *VesselHandler
	Rules   *RuleHandler
	Fuel    *FuelHandler
	Health  *HealthHandler
	Metrics http.Handler
}

// Mux registers every route. Authentication itself runs as an outer
// middleware; per-route permission checks are applied here.
func (rt *Routes) Mux(am *middleware.AuthMiddleware) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/register", rt.Auth.Register)
	mux.HandleFunc("POST /api/auth/login", rt.Auth.Login)
	mux.HandleFunc("POST /api/auth/refresh", rt.Auth.Refresh)
	mux.HandleFunc("GET /api/auth/profile", rt.Auth.GetProfile)

	v := rt.Vessels
	mux.Handle("GET /api/vessels", am.Permit(models.ActionViewVessels, v.List))
	mux.Handle("POST /api/vessels", am.Permit(models.ActionManageVessels, v.Create))
	mux.Handle("GET /api/vessels/{id}", am.Permit(models.ActionViewVessels, v.Get))
	mux.Handle("PUT /api/vessels/{id}", am.Permit(models.ActionManageVessels, v.Update))
	mux.Handle("DELETE /api/vessels/{id}", am.Permit(models.ActionManageVessels, v.Delete))
	mux.Handle("GET /api/vessels/{id}/state", am.Permit(models.ActionViewVessels, v.State))
	mux.Handle("PATCH /api/vessels/{id}/state", am.Permit(models.ActionUpdateState, v.PatchState))
	mux.Handle("POST /api/vessels/{id}/complete-trip", am.Permit(models.ActionCompleteTrip, v.CompleteTrip))
	mux.Handle("GET /api/vessels/{id}/logs", am.Permit(models.ActionViewVessels, v.ListLogs))
	mux.Handle("POST /api/vessels/{id}/logs", am.Permit(models.ActionLogMaintenance, v.RecordLog))
	mux.Handle("GET /api/vessels/{id}/summary", am.Permit(models.ActionViewVessels, v.Summary))
	mux.Handle("PATCH /api/vessels/{id}/systems/{system_id}/status", am.Permit(models.ActionUpdateState, v.ReportSystemStatus))
	mux.Handle("POST /api/vessels/{id}/systems/{system_id}/tasks", am.Permit(models.ActionManageTasks, v.AddTask))
	mux.Handle("PATCH /api/vessels/{id}/systems/{system_id}/tasks/{task_id}", am.Permit(models.ActionManageTasks, v.UpdateTask))
	mux.Handle("DELETE /api/vessels/{id}/systems/{system_id}/tasks/{task_id}", am.Permit(models.ActionManageTasks, v.DeleteTask))

	ru := rt.Rules
	mux.Handle("GET /api/maintenance/rules", am.Permit(models.ActionViewVessels, ru.List))
	mux.Handle("POST /api/maintenance/rules", am.Permit(models.ActionManageRules, ru.Create))
	mux.Handle("POST /api/maintenance/rules/seed", am.Permit(models.ActionManageRules, ru.Seed))
	mux.Handle("PUT /api/maintenance/rules/{id}", am.Permit(models.ActionManageRules, ru.Update))
	mux.Handle("DELETE /api/maintenance/rules/{id}", am.Permit(models.ActionManageRules, ru.Delete))

	mux.HandleFunc("POST /api/fuel/estimate", rt.Fuel.Estimate)
	mux.HandleFunc("GET /api/fuel/vessels", rt.Fuel.Vessels)
	mux.HandleFunc("GET /api/fuel/vessels/{id}", rt.Fuel.Vessel)

	mux.HandleFunc("GET /health", rt.Health.Health)
	if rt.Metrics != nil {
		mux.Handle("GET /metrics", rt.Metrics)
	}
	return mux
}
