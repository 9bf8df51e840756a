package trips

import (
	"strings"
	"time"

	"github.com/angelmondragon/fueltrips-backend/pkg/validation"
)

const departureField = "fecha_salida"

func (r *CreateTripRequest) normalize() {
	r.Truck = normalizePlate(r.Truck)
	r.Driver = strings.TrimSpace(r.Driver)
	r.Origin = strings.TrimSpace(r.Origin)
	r.Destination = strings.TrimSpace(r.Destination)
	r.FuelType = strings.TrimSpace(r.FuelType)
	r.Status = strings.TrimSpace(r.Status)
	r.Notes = trimPtr(r.Notes)
	if r.Notes != nil && *r.Notes == "" {
		r.Notes = nil
	}
}

func (r *UpdateTripRequest) normalize() {
	if r.Truck != nil {
		v := normalizePlate(*r.Truck)
		r.Truck = &v
	}
	r.Driver = trimPtr(r.Driver)
	r.Origin = trimPtr(r.Origin)
	r.Destination = trimPtr(r.Destination)
	r.FuelType = trimPtr(r.FuelType)
	r.Status = trimPtr(r.Status)
	r.Notes = trimPtr(r.Notes)
}

// ValidateCreate normalises req in place and checks every rule against now.
func ValidateCreate(req *CreateTripRequest, now time.Time) error {
	req.normalize()
	violations := validation.Struct(req)
	checkDeparture(&violations, req.DepartureAt, now)
	return violations.Err()
}

// ValidateUpdate normalises the present fields of req and checks them against now.
func ValidateUpdate(req *UpdateTripRequest, now time.Time) error {
	req.normalize()
	violations := validation.Struct(req)
	checkDeparture(&violations, req.DepartureAt, now)
	return violations.Err()
}

func checkDeparture(v *validation.Violations, departure *time.Time, now time.Time) {
	if departure == nil {
		return
	}
	if !departure.After(now) {
		v.Add(departureField, "must be in the future")
	}
}

func normalizePlate(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}

func trimPtr(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	return &v
}
