package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"floor-backend/internal/auth"
	"floor-backend/internal/config"
	"floor-backend/internal/models"
	"floor-backend/internal/repositories"
	"floor-backend/internal/store/memstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func setupAuth(t *testing.T) (*AuthMiddleware, *auth.JWTManager, *repositories.UserRepository) {
	t.Helper()
	cfg := &config.Config{}
	cfg.JWT.Secret = "middleware-secret"
	cfg.JWT.Issuer = "floor-test"
	cfg.JWT.ExpirationHours = 1
	jwt := auth.NewJWTManager(cfg)
	users := repositories.NewUserRepository(memstore.New(nil))
	return NewAuthMiddleware(jwt, users), jwt, users
}

func addUser(t *testing.T, users *repositories.UserRepository, role string, active bool) *models.User {
	t.Helper()
	u := &models.User{Name: role, Email: role + "@example.com", Role: role, Active: active}
	require.NoError(t, users.Create(context.Background(), u))
	return u
}

var echoUser = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	id, _ := GetUserIDFromContext(r.Context())
	role, _ := GetRoleFromContext(r.Context())
	w.Write([]byte(id + ":" + role))
})

func TestRequireRole(t *testing.T) {
	m, jwt, users := setupAuth(t)
	admin := addUser(t, users, models.RoleAdmin, true)
	analyst := addUser(t, users, models.RoleAnalyst, true)
	suspended := addUser(t, users, models.RoleSupervisor, false)

	handler := m.RequireRole(models.RoleAdmin)(echoUser)

	tokenFor := func(u *models.User) string {
		tok, err := jwt.GenerateToken(u)
		require.NoError(t, err)
		return tok
	}

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer nope", http.StatusUnauthorized},
		{"wrong role", "Bearer " + tokenFor(analyst), http.StatusForbidden},
		{"suspended", "Bearer " + tokenFor(suspended), http.StatusForbidden},
		{"admin", "Bearer " + tokenFor(admin), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(admin))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, admin.ID+":admin", rec.Body.String())
}

func TestStreamAuth(t *testing.T) {
	m, jwt, users := setupAuth(t)
	u := addUser(t, users, models.RoleMechanic, true)
	handler := m.StreamAuth(echoUser)

	session, err := jwt.GenerateToken(u)
	require.NoError(t, err)
	stream, err := jwt.GenerateStreamToken(u)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws/alerts?token="+session, nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws/alerts?token="+stream, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, u.ID+":mechanic", rec.Body.String())
}

func TestRequestLoggerRecordsUser(t *testing.T) {
	m, jwt, users := setupAuth(t)
	u := addUser(t, users, models.RoleSupervisor, true)
	tok, err := jwt.GenerateToken(u)
	require.NoError(t, err)

	core, logs := observer.New(zap.InfoLevel)
	handler := RequestLogger(zap.New(core))(m.Authenticate(echoUser))

	req := httptest.NewRequest(http.MethodGet, "/api/lines", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, u.ID, fields["user_id"])
	assert.Equal(t, "/api/lines", fields["path"])
	assert.EqualValues(t, http.StatusOK, fields["status"])
}

func TestPanicRecovery(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	handler := PanicRecovery(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/downtime", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error": "Internal server error"}`, rec.Body.String())
	assert.Equal(t, 1, logs.Len())
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.5:5123"
	assert.Equal(t, "10.0.0.5", getClientIP(req))

	req.Header.Set("X-Real-IP", "192.168.1.9")
	assert.Equal(t, "192.168.1.9", getClientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", getClientIP(req))
}
