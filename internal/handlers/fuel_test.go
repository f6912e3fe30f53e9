package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/vessel-ops/internal/models"
)

func TestFuelHandler_Estimate(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, "POST", "/api/fuel/estimate", "", models.FuelEstimateRequest{EndLat: 1, VesselID: "IDAY-001"})
	require.Equal(t, http.StatusOK, w.Code)
	est := decode[models.FuelEstimate](t, w)
	assert.Equal(t, 111.19, est.DistanceKm)
	assert.Equal(t, 33.7, est.FuelConsumptionLiters)
	assert.Equal(t, "IDAY-001", est.VesselUsed)

	w = s.do(t, "POST", "/api/fuel/estimate", "", models.FuelEstimateRequest{StartLat: 95})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFuelHandler_Vessels(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, "GET", "/api/fuel/vessels", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[struct {
		Vessels    []models.VesselSpec `json:"vessels"`
		TotalCount int                 `json:"total_count"`
	}](t, w)
	assert.Equal(t, 1, body.TotalCount)

	w = s.do(t, "GET", "/api/fuel/vessels/IDAY-001", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 45.0, decode[models.VesselSpec](t, w).HP)

	w = s.do(t, "GET", "/api/fuel/vessels/NOPE", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
