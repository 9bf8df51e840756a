package models

import (
	"time"

	"github.com/angelmondragon/fueltrips-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Trip is a single fuel delivery assignment.
type Trip struct {
	ID           uuid.UUID        `gorm:"type:uuid;primaryKey"`
	Truck        string           `gorm:"column:truck;not null"`
	Driver       string           `gorm:"column:driver;not null;index"`
	Origin       string           `gorm:"column:origin;not null"`
	Destination  string           `gorm:"column:destination;not null"`
	FuelType     enums.FuelType   `gorm:"column:fuel_type;type:text;not null;index"`
	VolumeLiters int              `gorm:"column:volume_liters;not null"`
	DepartureAt  time.Time        `gorm:"column:departure_at;not null;index"`
	Status       enums.TripStatus `gorm:"column:status;type:text;not null;index"`
	DeliveredAt  *time.Time       `gorm:"column:delivered_at"`
	Notes        *string          `gorm:"column:notes"`
	CreatedBy    uuid.UUID        `gorm:"column:created_by;type:uuid;not null"`
	Creator      *User            `gorm:"foreignKey:CreatedBy;references:ID;constraint:OnDelete:RESTRICT"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

func (Trip) TableName() string { return "trips" }

// BeforeCreate assigns an id when the caller did not.
func (t *Trip) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
