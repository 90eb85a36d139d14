package middleware

import (
	"context"
	"net/http"
	"strings"

	"floor-backend/internal/auth"
	"floor-backend/internal/models"
)

type contextKey string

const (
	UserIDKey contextKey = "user_id"
	EmailKey  contextKey = "email"
	RoleKey   contextKey = "role"
)

// UserLookup loads the current state of a user
type UserLookup interface {
	Get(ctx context.Context, id string) (*models.User, error)
}

type AuthMiddleware struct {
	jwtManager *auth.JWTManager
	users      UserLookup
}

func NewAuthMiddleware(jwtManager *auth.JWTManager, users UserLookup) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		users:      users,
	}
}

// Authenticate validates the bearer token and loads the user
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return m.RequireRole()(next)
}

// RequireRole authenticates the request and, when roles are given,
// requires the user to hold one of them. Role and active flag come from
// the store so changes apply without waiting for the token to expire.
func (m *AuthMiddleware) RequireRole(allowedRoles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				http.Error(w, "Authorization header required", http.StatusUnauthorized)
				return
			}
			claims, err := m.jwtManager.ValidateToken(token)
			if err != nil {
				http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
				return
			}
			m.serveUser(w, r, next, claims.UserID, allowedRoles)
		})
	}
}

// StreamAuth authenticates WebSocket upgrades with a stream token passed
// as ?token=, since browsers cannot set headers on the upgrade request.
func (m *AuthMiddleware) StreamAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "Stream token required", http.StatusUnauthorized)
			return
		}
		claims, err := m.jwtManager.ValidateStreamToken(token)
		if err != nil {
			http.Error(w, "Invalid or expired stream token", http.StatusUnauthorized)
			return
		}
		m.serveUser(w, r, next, claims.UserID, nil)
	})
}

func (m *AuthMiddleware) serveUser(w http.ResponseWriter, r *http.Request, next http.Handler, userID string, allowedRoles []string) {
	user, err := m.users.Get(r.Context(), userID)
	if err != nil {
		http.Error(w, "User not found", http.StatusUnauthorized)
		return
	}
	if !user.Active {
		http.Error(w, "Account suspended. Please contact administrator.", http.StatusForbidden)
		return
	}
	if len(allowedRoles) > 0 && !hasRole(user.Role, allowedRoles) {
		http.Error(w, "Forbidden: Insufficient permissions", http.StatusForbidden)
		return
	}

	if info, ok := r.Context().Value(requestInfoKey).(*requestInfo); ok {
		info.userID = user.ID
	}

	ctx := context.WithValue(r.Context(), UserIDKey, user.ID)
	ctx = context.WithValue(ctx, EmailKey, user.Email)
	ctx = context.WithValue(ctx, RoleKey, user.Role)
	next.ServeHTTP(w, r.WithContext(ctx))
}

// RequireAdmin is a middleware that ensures the user has admin role
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return m.RequireRole(models.RoleAdmin)(next)
}

func bearerToken(r *http.Request) (string, bool) {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func hasRole(role string, allowed []string) bool {
	for _, r := range allowed {
		if role == r {
			return true
		}
	}
	return false
}

// GetUserIDFromContext extracts user ID from request context
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok
}

func GetEmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(EmailKey).(string)
	return email, ok
}

func GetRoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(RoleKey).(string)
	return role, ok
}
