package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/fueltrips-backend/pkg/db/models"
	"github.com/angelmondragon/fueltrips-backend/pkg/enums"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID        uuid.UUID      `json:"id"`
	Email     string         `json:"email"`
	Name      string         `json:"nombre"`
	Role      enums.UserRole `json:"rol"`
	IsActive  bool           `json:"activo"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Email        string
	PasswordHash string
	Name         string
	Role         enums.UserRole
	IsActive     *bool
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	isActive := true
	if c.IsActive != nil {
		isActive = *c.IsActive
	}

	role := c.Role
	if role == "" {
		role = enums.UserRoleOperator
	}

	return &models.User{
		Email:        NormalizeEmail(c.Email),
		PasswordHash: c.PasswordHash,
		Name:         c.Name,
		Role:         role,
		IsActive:     isActive,
	}
}
