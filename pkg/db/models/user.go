package models

import (
	"time"

	"github.com/angelmondragon/fueltrips-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a dashboard account.
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Email        string         `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	Name         string         `gorm:"column:name;not null"`
	Role         enums.UserRole `gorm:"column:role;type:text;not null"`
	IsActive     bool           `gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string { return "users" }

// BeforeCreate assigns an id when the caller did not.
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
