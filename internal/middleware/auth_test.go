package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/vessel-ops/internal/auth"
	"github.com/ukydev/vessel-ops/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newAuthService(t *testing.T) *auth.Service {
	t.Helper()
	svc, err := auth.NewService("middleware-test-secret", time.Hour)
	require.NoError(t, err)
	return svc
}

func tokenFor(t *testing.T, svc *auth.Service, role models.Role) string {
	t.Helper()
	token, err := svc.GenerateToken(&models.User{ID: primitive.NewObjectID(), Email: string(role) + "@example.com", Role: role})
	require.NoError(t, err)
	return token
}

func TestAuthMiddleware_Authenticate(t *testing.T) {
	authService := newAuthService(t)
	middleware := NewAuthMiddleware(authService)

	t.Run("valid token", func(t *testing.T) {
		token := tokenFor(t, authService, models.RoleCrew)
		req := httptest.NewRequest("GET", "/api/vessels", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		handlerCalled := false
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handlerCalled = true
			claims, ok := GetUserFromContext(r.Context())
			assert.True(t, ok)
			assert.Equal(t, "crew@example.com", claims.Email)
			assert.Equal(t, models.RoleCrew, claims.Role)
		})

		middleware.Authenticate(handler).ServeHTTP(w, req)
		assert.True(t, handlerCalled)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	rejected := []struct {
		name   string
		header string
		errMsg string
	}{
		{"missing authorization header", "", "authorization header required"},
		{"wrong scheme", "Basic dXNlcjpwYXNz", "invalid authorization header"},
		{"invalid token", "Bearer invalid-token", "invalid token"},
	}
	for _, tt := range rejected {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/vessels", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			handlerCalled := false
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
			})

			middleware.Authenticate(handler).ServeHTTP(w, req)
			assert.False(t, handlerCalled)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			var body map[string]string
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.Equal(t, tt.errMsg, body["error"])
		})
	}

	for _, path := range []string{"/api/auth/login", "/api/auth/register", "/api/auth/refresh", "/api/fuel/estimate", "/api/fuel/vessels/IMUL-001", "/health", "/metrics"} {
		t.Run("public "+path, func(t *testing.T) {
			req := httptest.NewRequest("GET", path, nil)
			w := httptest.NewRecorder()

			handlerCalled := false
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
			})

			middleware.Authenticate(handler).ServeHTTP(w, req)
			assert.True(t, handlerCalled)
		})
	}

	t.Run("profile is not public", func(t *testing.T) {
		w := httptest.NewRecorder()
		middleware.Authenticate(http.NotFoundHandler()).ServeHTTP(w, httptest.NewRequest("GET", "/api/auth/profile", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("refresh token is not an access token", func(t *testing.T) {
		refresh, err := authService.GenerateRefreshToken(&models.User{ID: primitive.NewObjectID(), Role: models.RoleOwner})
		require.NoError(t, err)
		req := httptest.NewRequest("GET", "/api/vessels", nil)
		req.Header.Set("Authorization", "Bearer "+refresh)
		w := httptest.NewRecorder()
		middleware.Authenticate(http.NotFoundHandler()).ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthMiddleware_RequirePermission(t *testing.T) {
	authService := newAuthService(t)
	middleware := NewAuthMiddleware(authService)

	tests := []struct {
		name    string
		role    models.Role
		action  string
		allowed bool
	}{
		{"owner manages rules", models.RoleOwner, models.ActionManageRules, true},
		{"crew completes trips", models.RoleCrew, models.ActionCompleteTrip, true},
		{"crew cannot manage rules", models.RoleCrew, models.ActionManageRules, false},
		{"viewer views vessels", models.RoleViewer, models.ActionViewVessels, true},
		{"viewer cannot log maintenance", models.RoleViewer, models.ActionLogMaintenance, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/vessels/x", nil)
			req.Header.Set("Authorization", "Bearer "+tokenFor(t, authService, tt.role))
			w := httptest.NewRecorder()

			handlerCalled := false
			handler := func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
			}

			middleware.Authenticate(middleware.Permit(tt.action, handler)).ServeHTTP(w, req)
			assert.Equal(t, tt.allowed, handlerCalled)
			if !tt.allowed {
				assert.Equal(t, http.StatusForbidden, w.Code)
			}
		})
	}

	t.Run("no user in context", func(t *testing.T) {
		w := httptest.NewRecorder()
		middleware.RequirePermission(models.ActionViewVessels)(http.NotFoundHandler()).ServeHTTP(w, httptest.NewRequest("GET", "/api/vessels", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestGetUserFromContext(t *testing.T) {
	claims := &models.Claims{
		UserID: "test-id",
		Email:  "test@example.com",
		Role:   models.RoleAdmin,
	}

	retrievedClaims, ok := GetUserFromContext(WithUser(context.Background(), claims))
	assert.True(t, ok)
	assert.Equal(t, claims, retrievedClaims)

	_, ok = GetUserFromContext(context.Background())
	assert.False(t, ok)
}

func TestChain_Order(t *testing.T) {
	var order []string
	mark := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { order = append(order, "handler") }), mark("first"), mark("second"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, []string{"first", "second", "handler"}, order)
}
