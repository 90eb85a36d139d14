package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"floor-backend/internal/auth"
	"floor-backend/internal/models"
	"floor-backend/internal/repositories"
	"floor-backend/internal/store"

	"go.uber.org/zap"
)

type UserService struct {
	Repo       *repositories.UserRepository
	JWTManager *auth.JWTManager
	log        *zap.Logger
}

func NewUserService(repo *repositories.UserRepository, jwtManager *auth.JWTManager, log *zap.Logger) *UserService {
	return &UserService{
		Repo:       repo,
		JWTManager: jwtManager,
		log:        log.Named("users"),
	}
}

func (s *UserService) CreateUser(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	// Check if user already exists
	if _, err := s.Repo.GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("user with email %s %w", email, ErrConflict)
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         req.Name,
		Email:        email,
		Role:         req.Role,
		PasswordHash: hashedPassword,
		Active:       true,
	}
	if req.Passcode != "" {
		if user.PasscodeHash, err = auth.HashPassword(req.Passcode); err != nil {
			return nil, err
		}
	}

	if err := s.Repo.Create(ctx, user); err != nil {
		return nil, err
	}
	s.log.Info("user created", zap.String("user_id", user.ID), zap.String("role", user.Role))
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.Repo.Get(ctx, id)
}

// ListUsers returns all users
func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.Repo.List(ctx)
}

// UpdateUser applies the non-nil fields of req
func (s *UserService) UpdateUser(ctx context.Context, id string, req *models.UpdateUserRequest) (*models.User, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Role != nil {
		fields["role"] = *req.Role
	}
	if req.Active != nil {
		fields["active"] = *req.Active
	}
	// If password is provided, hash it
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		fields["passwordHash"] = hash
	}
	if req.Passcode != nil {
		hash, err := auth.HashPassword(*req.Passcode)
		if err != nil {
			return nil, err
		}
		fields["passcodeHash"] = hash
	}

	if err := s.Repo.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.Repo.Get(ctx, id)
}

// DeleteUser deletes a user
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	return s.Repo.Delete(ctx, id)
}

// Login authenticates a user and returns a JWT token
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	user, err := s.Repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidLogin
	}
	if err != nil {
		return nil, err
	}

	// Verify password
	if !auth.VerifyPassword(user.PasswordHash, req.Password) || !user.Active {
		return nil, ErrInvalidLogin
	}

	token, err := s.JWTManager.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, User: user}, nil
}

// StreamToken issues a short-lived ticket for the WebSocket endpoints
func (s *UserService) StreamToken(ctx context.Context, userID string) (string, error) {
	user, err := s.Repo.Get(ctx, userID)
	if err != nil {
		return "", err
	}
	return s.JWTManager.GenerateStreamToken(user)
}

// VerifyPasscode checks a station passcode for a sign-off. The user must
// be active, hold one of roles and have a matching passcode.
func (s *UserService) VerifyPasscode(ctx context.Context, userID, passcode string, roles ...string) (*models.User, error) {
	if userID == "" || passcode == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.Repo.Get(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !user.Active || !hasRole(user.Role, roles) || !auth.VerifyPassword(user.PasscodeHash, passcode) {
		s.log.Warn("passcode rejected", zap.String("user_id", userID), zap.Strings("roles", roles))
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// EnsureAdmin creates the first admin account when none exists
func (s *UserService) EnsureAdmin(ctx context.Context, name, email, password string) error {
	n, err := s.Repo.CountByRole(ctx, models.RoleAdmin)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	if email == "" || password == "" {
		s.log.Warn("no admin user exists and no bootstrap credentials are configured")
		return nil
	}

	_, err = s.CreateUser(ctx, &models.CreateUserRequest{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     models.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	s.log.Info("bootstrap admin created", zap.String("email", email))
	return nil
}

func hasRole(role string, allowed []string) bool {
	for _, r := range allowed {
		if role == r {
			return true
		}
	}
	return false
}
