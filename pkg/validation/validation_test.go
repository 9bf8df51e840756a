package validation

import (
	"testing"

	pkgerrors "github.com/angelmondragon/fueltrips-backend/pkg/errors"
)

type sample struct {
	Plate  string  `json:"camion" validate:"required,truckplate"`
	Fuel   string  `json:"combustible" validate:"required,fueltype"`
	Liters int     `json:"cantidad_litros" validate:"min=1,max=30000"`
	Notes  *string `json:"observaciones" validate:"omitnil,max=5"`
	Status *string `json:"estado" validate:"omitnil,tripstatus"`
}

func TestStructCollectsAllViolations(t *testing.T) {
	long := "too long"
	bad := "Lost"
	got := Struct(&sample{Plate: "ab-12", Fuel: "Kerosene", Liters: 30001, Notes: &long, Status: &bad})

	byField := map[string]string{}
	for _, v := range got {
		byField[v.Field] = v.Message
	}
	for _, field := range []string{"camion", "combustible", "cantidad_litros", "observaciones", "estado"} {
		if _, ok := byField[field]; !ok {
			t.Fatalf("expected violation for %s, got %+v", field, got)
		}
	}
	if byField["cantidad_litros"] != "must be at most 30000" {
		t.Fatalf("unexpected liters message %q", byField["cantidad_litros"])
	}
	if byField["observaciones"] != "must be at most 5 characters" {
		t.Fatalf("unexpected notes message %q", byField["observaciones"])
	}
}

func TestStructAcceptsValidPayload(t *testing.T) {
	status := "Programado"
	if got := Struct(&sample{Plate: "AB123CD", Fuel: "GNC", Liters: 1, Status: &status}); len(got) != 0 {
		t.Fatalf("expected no violations, got %+v", got)
	}
}

func TestViolationsErrSortsAndWraps(t *testing.T) {
	var v Violations
	if v.Err() != nil {
		t.Fatal("empty violations should not error")
	}
	v.Add("origen", "is required")
	v.Add("camion", "is required")

	err := v.Err()
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details := typed.Details().(map[string]any)["errors"].(Violations)
	if details[0].Field != "camion" || details[1].Field != "origen" {
		t.Fatalf("expected violations sorted by field, got %+v", details)
	}
	if v[0].Field != "origen" {
		t.Fatalf("Err must not reorder the receiver")
	}
}

func TestIsTruckPlate(t *testing.T) {
	cases := map[string]bool{"ABC123": true, "AB123CDE": true, "AB12": false, "abc123": false, "ABC-123": false, "ABCDEFGHI": false}
	for plate, want := range cases {
		if got := IsTruckPlate(plate); got != want {
			t.Fatalf("IsTruckPlate(%q) = %v, want %v", plate, got, want)
		}
	}
}
