package auth

import (
	"github.com/angelmondragon/fueltrips-backend/internal/users"
)

// RegisterRequest is the sign-up payload. Rol is optional and defaults to operator.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"nombre" validate:"required,min=2"`
	Role     string `json:"rol,omitempty" validate:"omitempty,userrole"`
}

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ChangePasswordRequest rotates the caller's password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token string         `json:"token"`
	User  *users.UserDTO `json:"user"`
}
