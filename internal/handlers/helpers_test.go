package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/ukydev/vessel-ops/internal/auth"
	"github.com/ukydev/vessel-ops/internal/db/dbtest"
	"github.com/ukydev/vessel-ops/internal/fuel"
	"github.com/ukydev/vessel-ops/internal/maintenance"
	"github.com/ukydev/vessel-ops/internal/middleware"
	"github.com/ukydev/vessel-ops/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var testNow = time.Date(2025, 11, 30, 9, 0, 0, 0, time.UTC)

type staticSpecs []models.VesselSpec

func (s staticSpecs) Specs() ([]models.VesselSpec, error) { return s, nil }

type testServer struct {
	users   *dbtest.MockUserCollection
	vessels *dbtest.MockVesselCollection
	states  *dbtest.MockStateCollection
	rules   *dbtest.MockRuleCollection
	logs    *dbtest.MockLogCollection
	auth    *auth.Service
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	authService, err := auth.NewService("handler-test-secret-key", time.Hour)
	require.NoError(t, err)

	s := &testServer{
		users:   new(dbtest.MockUserCollection),
		vessels: new(dbtest.MockVesselCollection),
		states:  new(dbtest.MockStateCollection),
		rules:   new(dbtest.MockRuleCollection),
		logs:    new(dbtest.MockLogCollection),
		auth:    authService,
	}

	calc := maintenance.NewCalculator(map[string]string{"engine": "Main Engine", "nets": "Nets & Gear"}, nil)
	calc.Now = func() time.Time { return testNow }
	svc := maintenance.NewService(s.vessels, s.states, s.rules, s.logs, calc,
		maintenance.WithClock(func() time.Time { return testNow }))

	routes := &Routes{
		Auth:    NewAuthHandler(authService, s.users),
		Vessels: NewVesselHandler(svc),
		Rules:   NewRuleHandler(svc),
		Fuel: NewFuelHandler(fuel.NewEstimator(staticSpecs{
			{VesselID: "IDAY-001", FuelConsumptionPerDay: 160, FuelCostUSDPerDay: 192, HP: 45, VesselType: "One-Day Boat"},
		})),
		Health: NewHealthHandler(nil),
	}
	am := middleware.NewAuthMiddleware(authService)
	s.handler = am.Authenticate(routes.Mux(am))
	return s
}

// userWithRole returns a user and a token for it.
func (s *testServer) userWithRole(t *testing.T, role models.Role) (*models.User, string) {
	t.Helper()
	user := &models.User{ID: primitive.NewObjectID(), Email: string(role) + "@example.com", Name: "Test", Role: role, IsActive: true}
	token, err := s.auth.GenerateToken(user)
	require.NoError(t, err)
	return user, token
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v))
	return v
}
