package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/vessel-ops/internal/db"
	"github.com/ukydev/vessel-ops/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAuthHandler_Login(t *testing.T) {
	t.Run("successful login", func(t *testing.T) {
		s := newTestServer(t)
		passwordHash, err := s.auth.HashPassword("password123")
		assert.NoError(t, err)
		user := &models.User{
			ID:           primitive.NewObjectID(),
			Email:        "skipper@example.com",
			Name:         "Skipper",
			PasswordHash: passwordHash,
			Role:         models.RoleOwner,
			IsActive:     true,
		}
		s.users.On("FindUserByEmail", mock.Anything, "skipper@example.com").Return(user, nil)
		s.users.On("UpdateLastLogin", mock.Anything, user.ID.Hex()).Return(nil)

		w := s.do(t, "POST", "/api/auth/login", "", models.LoginRequest{Email: " Skipper@Example.com ", Password: "password123"})

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decode[models.LoginResponse](t, w)
		assert.NotEmpty(t, resp.Token)
		assert.NotEmpty(t, resp.RefreshToken)
		assert.Equal(t, user.Email, resp.User.Email)
		assert.Empty(t, resp.User.PasswordHash)

		claims, err := s.auth.ValidateToken(resp.Token)
		assert.NoError(t, err)
		assert.Equal(t, user.ID.Hex(), claims.UserID)
		s.users.AssertExpectations(t)
	})

	t.Run("wrong password", func(t *testing.T) {
		s := newTestServer(t)
		passwordHash, _ := s.auth.HashPassword("password123")
		s.users.On("FindUserByEmail", mock.Anything, "skipper@example.com").
			Return(&models.User{ID: primitive.NewObjectID(), PasswordHash: passwordHash, IsActive: true}, nil)

		w := s.do(t, "POST", "/api/auth/login", "", models.LoginRequest{Email: "skipper@example.com", Password: "wrongpassword"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		s.users.AssertNotCalled(t, "UpdateLastLogin", mock.Anything, mock.Anything)
	})

	t.Run("unknown user", func(t *testing.T) {
		s := newTestServer(t)
		s.users.On("FindUserByEmail", mock.Anything, "ghost@example.com").Return(nil, db.ErrNotFound)

		w := s.do(t, "POST", "/api/auth/login", "", models.LoginRequest{Email: "ghost@example.com", Password: "password123"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "invalid credentials", decode[map[string]string](t, w)["error"])
	})

	t.Run("inactive user", func(t *testing.T) {
		s := newTestServer(t)
		s.users.On("FindUserByEmail", mock.Anything, "old@example.com").Return(&models.User{IsActive: false}, nil)

		w := s.do(t, "POST", "/api/auth/login", "", models.LoginRequest{Email: "old@example.com", Password: "password123"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		s := newTestServer(t)
		w := s.do(t, "POST", "/api/auth/login", "", "{not json")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		s := newTestServer(t)
		w := s.do(t, "POST", "/api/auth/login", "", models.LoginRequest{Email: "skipper@example.com"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("wrong method", func(t *testing.T) {
		s := newTestServer(t)
		w := s.do(t, "GET", "/api/auth/login", "", nil)
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})
}

func TestAuthHandler_Register(t *testing.T) {
	valid := models.RegisterRequest{Email: "new@example.com", Name: "Nimal", Password: "password123"}

	t.Run("successful registration", func(t *testing.T) {
		s := newTestServer(t)
		s.users.On("FindUserByEmail", mock.Anything, "new@example.com").Return(nil, db.ErrNotFound)
		s.users.On("InsertUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
			return u.Email == "new@example.com" && u.Role == models.RoleOwner && u.IsActive && u.PasswordHash != "password123"
		})).Return(nil)

		w := s.do(t, "POST", "/api/auth/register", "", valid)

		assert.Equal(t, http.StatusCreated, w.Code)
		resp := decode[models.LoginResponse](t, w)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, models.RoleOwner, resp.User.Role)
		s.users.AssertExpectations(t)
	})

	t.Run("email already exists", func(t *testing.T) {
		s := newTestServer(t)
		s.users.On("FindUserByEmail", mock.Anything, "new@example.com").Return(&models.User{}, nil)

		w := s.do(t, "POST", "/api/auth/register", "", valid)
		assert.Equal(t, http.StatusConflict, w.Code)
		s.users.AssertNotCalled(t, "InsertUser", mock.Anything, mock.Anything)
	})

	invalid := []struct {
		name string
		req  models.RegisterRequest
	}{
		{"short password", models.RegisterRequest{Email: "a@example.com", Name: "A", Password: "short"}},
		{"bad email", models.RegisterRequest{Email: "nope", Name: "A", Password: "password123"}},
		{"missing name", models.RegisterRequest{Email: "a@example.com", Password: "password123"}},
		{"admin self registration", models.RegisterRequest{Email: "a@example.com", Name: "A", Password: "password123", Role: models.RoleAdmin}},
		{"unknown role", models.RegisterRequest{Email: "a@example.com", Name: "A", Password: "password123", Role: "captain"}},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			w := s.do(t, "POST", "/api/auth/register", "", tt.req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestAuthHandler_GetProfile(t *testing.T) {
	s := newTestServer(t)
	user, token := s.userWithRole(t, models.RoleCrew)
	s.users.On("FindUserByID", mock.Anything, user.ID.Hex()).Return(user, nil)

	w := s.do(t, "GET", "/api/auth/profile", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, user.Email, decode[models.User](t, w).Email)

	w = s.do(t, "GET", "/api/auth/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_GetProfile_Deleted(t *testing.T) {
	s := newTestServer(t)
	user, token := s.userWithRole(t, models.RoleOwner)
	s.users.On("FindUserByID", mock.Anything, user.ID.Hex()).Return(nil, db.ErrNotFound)

	w := s.do(t, "GET", "/api/auth/profile", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuthHandler_Refresh(t *testing.T) {
	t.Run("issues a new token pair", func(t *testing.T) {
		s := newTestServer(t)
		user, _ := s.userWithRole(t, models.RoleCrew)
		refresh, err := s.auth.GenerateRefreshToken(user)
		require.NoError(t, err)
		s.users.On("FindUserByID", mock.Anything, user.ID.Hex()).Return(user, nil)

		w := s.do(t, "POST", "/api/auth/refresh", "", models.RefreshRequest{RefreshToken: refresh})
		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[models.LoginResponse](t, w)

		claims, err := s.auth.ValidateToken(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, user.ID.Hex(), claims.UserID)
		assert.Equal(t, models.RoleCrew, claims.Role)
		userID, err := s.auth.ValidateRefreshToken(resp.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID.Hex(), userID)
	})

	t.Run("access token is rejected", func(t *testing.T) {
		s := newTestServer(t)
		_, token := s.userWithRole(t, models.RoleOwner)

		w := s.do(t, "POST", "/api/auth/refresh", "", models.RefreshRequest{RefreshToken: token})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		s.users.AssertNotCalled(t, "FindUserByID", mock.Anything, mock.Anything)
	})

	t.Run("deactivated user", func(t *testing.T) {
		s := newTestServer(t)
		user, _ := s.userWithRole(t, models.RoleOwner)
		user.IsActive = false
		refresh, err := s.auth.GenerateRefreshToken(user)
		require.NoError(t, err)
		s.users.On("FindUserByID", mock.Anything, user.ID.Hex()).Return(user, nil)

		w := s.do(t, "POST", "/api/auth/refresh", "", models.RefreshRequest{RefreshToken: refresh})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("deleted user", func(t *testing.T) {
		s := newTestServer(t)
		user, _ := s.userWithRole(t, models.RoleOwner)
		refresh, err := s.auth.GenerateRefreshToken(user)
		require.NoError(t, err)
		s.users.On("FindUserByID", mock.Anything, user.ID.Hex()).Return(nil, db.ErrNotFound)

		w := s.do(t, "POST", "/api/auth/refresh", "", models.RefreshRequest{RefreshToken: refresh})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		s := newTestServer(t)
		w := s.do(t, "POST", "/api/auth/refresh", "", models.RefreshRequest{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
