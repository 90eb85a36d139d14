package models

import "time"

// Roles
const (
	RoleAdmin      = "admin"
	RoleSupervisor = "supervisor"
	RoleAnalyst    = "analyst"
	RoleMechanic   = "mechanic"
	RoleQC         = "qc"
)

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	PasscodeHash string    `json:"-"` // station passcode for acknowledgements and sign-offs
	HasPasscode  bool      `json:"hasPasscode"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse represents the response after successful authentication
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// CreateUserRequest represents the request body for creating a user
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=admin supervisor analyst mechanic qc"`
	Passcode string `json:"passcode,omitempty" validate:"omitempty,min=4"`
}

// UpdateUserRequest represents the request body for updating a user.
// Nil fields are left unchanged.
type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Role     *string `json:"role,omitempty" validate:"omitempty,oneof=admin supervisor analyst mechanic qc"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=8"`
	Passcode *string `json:"passcode,omitempty" validate:"omitempty,min=4"`
	Active   *bool   `json:"active,omitempty"`
}
