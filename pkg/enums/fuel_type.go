package enums

import "fmt"

// FuelType is the product carried on a trip.
type FuelType string

const (
	FuelTypeDiesel       FuelType = "Diésel"
	FuelTypeNaftaSuper   FuelType = "Nafta Super"
	FuelTypeNaftaPremium FuelType = "Nafta Premium"
	FuelTypeGNC          FuelType = "GNC"
	FuelTypeGLP          FuelType = "GLP"
)

var validFuelTypes = []FuelType{
	FuelTypeDiesel,
	FuelTypeNaftaSuper,
	FuelTypeNaftaPremium,
	FuelTypeGNC,
	FuelTypeGLP,
}

// FuelTypes returns every accepted fuel type.
func FuelTypes() []FuelType {
	return append([]FuelType(nil), validFuelTypes...)
}

// String implements fmt.Stringer.
func (f FuelType) String() string {
	return string(f)
}

// IsValid reports whether the value is a known FuelType.
func (f FuelType) IsValid() bool {
	for _, candidate := range validFuelTypes {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseFuelType converts raw input into a FuelType.
func ParseFuelType(value string) (FuelType, error) {
	for _, candidate := range validFuelTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid fuel type %q", value)
}
