package trips

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/fueltrips-backend/pkg/db/models"
	"github.com/angelmondragon/fueltrips-backend/pkg/enums"
)

// CreateTripRequest is the payload for scheduling a new trip.
type CreateTripRequest struct {
	Truck        string     `json:"camion" validate:"required,truckplate"`
	Driver       string     `json:"conductor" validate:"required,min=2"`
	Origin       string     `json:"origen" validate:"required,min=2"`
	Destination  string     `json:"destino" validate:"required,min=2"`
	FuelType     string     `json:"combustible" validate:"required,fueltype"`
	VolumeLiters int        `json:"cantidad_litros" validate:"required,min=1,max=30000"`
	DepartureAt  *time.Time `json:"fecha_salida" validate:"required"`
	Status       string     `json:"estado,omitempty" validate:"omitempty,tripstatus"`
	Notes        *string    `json:"observaciones,omitempty" validate:"omitnil,max=500"`
}

// UpdateTripRequest is a partial update; nil fields are left untouched.
type UpdateTripRequest struct {
	Truck        *string    `json:"camion,omitempty" validate:"omitnil,truckplate"`
	Driver       *string    `json:"conductor,omitempty" validate:"omitnil,min=2"`
	Origin       *string    `json:"origen,omitempty" validate:"omitnil,min=2"`
	Destination  *string    `json:"destino,omitempty" validate:"omitnil,min=2"`
	FuelType     *string    `json:"combustible,omitempty" validate:"omitnil,fueltype"`
	VolumeLiters *int       `json:"cantidad_litros,omitempty" validate:"omitnil,min=1,max=30000"`
	DepartureAt  *time.Time `json:"fecha_salida,omitempty"`
	Status       *string    `json:"estado,omitempty" validate:"omitnil,tripstatus"`
	Notes        *string    `json:"observaciones,omitempty" validate:"omitnil,max=500"`
}

// ListParams carries the raw list query; empty strings mean "not set".
type ListParams struct {
	Page          int
	Limit         int
	Status        string
	FuelType      string
	Driver        string
	ExcludeStatus string
	SortBy        string
	SortOrder     string
}

// CreatorDTO is the embedded owner summary.
type CreatorDTO struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"nombre,omitempty"`
	Email string    `json:"email,omitempty"`
}

// TripDTO is the transport shape for a trip.
type TripDTO struct {
	ID           uuid.UUID        `json:"id"`
	Truck        string           `json:"camion"`
	Driver       string           `json:"conductor"`
	Origin       string           `json:"origen"`
	Destination  string           `json:"destino"`
	FuelType     enums.FuelType   `json:"combustible"`
	VolumeLiters int              `json:"cantidad_litros"`
	DepartureAt  time.Time        `json:"fecha_salida"`
	Status       enums.TripStatus `json:"estado"`
	DeliveredAt  *time.Time       `json:"fecha_entrega,omitempty"`
	Notes        *string          `json:"observaciones,omitempty"`
	CreatedBy    CreatorDTO       `json:"creado_por"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// StatsDTO feeds the dashboard charts.
type StatsDTO struct {
	Scheduled   int64 `json:"scheduled"`
	InTransit   int64 `json:"inTransit"`
	Delivered   int64 `json:"delivered"`
	Cancelled   int64 `json:"cancelled"`
	TotalVolume int64 `json:"totalVolume"`
}

func FromModel(t *models.Trip) *TripDTO {
	if t == nil {
		return nil
	}
	dto := &TripDTO{
		ID:           t.ID,
		Truck:        t.Truck,
		Driver:       t.Driver,
		Origin:       t.Origin,
		Destination:  t.Destination,
		FuelType:     t.FuelType,
		VolumeLiters: t.VolumeLiters,
		DepartureAt:  t.DepartureAt,
		Status:       t.Status,
		DeliveredAt:  t.DeliveredAt,
		Notes:        t.Notes,
		CreatedBy:    CreatorDTO{ID: t.CreatedBy},
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
	if t.Creator != nil {
		dto.CreatedBy.Name = t.Creator.Name
		dto.CreatedBy.Email = t.Creator.Email
	}
	return dto
}
