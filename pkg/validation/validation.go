package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/angelmondragon/fueltrips-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/fueltrips-backend/pkg/errors"
	"github.com/go-playground/validator/v10"
)

var truckPlatePattern = regexp.MustCompile(`^[A-Z0-9]{6,8}$`)

// Violation is one field-level validation failure.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Violations aggregates failures for a single payload.
type Violations []Violation

// Add appends a violation.
func (v *Violations) Add(field, message string) {
	*v = append(*v, Violation{Field: field, Message: message})
}

// Err returns nil when empty, otherwise a VALIDATION_ERROR carrying every
// violation sorted by field.
func (v Violations) Err() error {
	if len(v) == 0 {
		return nil
	}
	sorted := append(Violations(nil), v...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Field < sorted[j].Field })
	return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
		WithDetails(map[string]any{"errors": sorted})
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	mustRegister(v, "truckplate", func(fl validator.FieldLevel) bool {
		return truckPlatePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "fueltype", func(fl validator.FieldLevel) bool {
		return enums.FuelType(fl.Field().String()).IsValid()
	})
	mustRegister(v, "tripstatus", func(fl validator.FieldLevel) bool {
		_, err := enums.ParseTripStatus(fl.Field().String())
		return err == nil
	})
	mustRegister(v, "userrole", func(fl validator.FieldLevel) bool {
		_, err := enums.ParseUserRole(fl.Field().String())
		return err == nil
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// Struct runs the struct-tag rules on dest and returns the violations found.
// A non-struct or nil argument is reported as a single body violation.
func Struct(dest any) Violations {
	err := validate.Struct(dest)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return Violations{{Field: "body", Message: err.Error()}}
	}
	out := make(Violations, 0, len(errs))
	for _, fe := range errs {
		out.Add(fe.Field(), Message(fe))
	}
	return out
}

// Message renders a human readable message for a validator failure.
func Message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if isNumeric(fe.Kind()) {
			return fmt.Sprintf("must be at least %s", fe.Param())
		}
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		if isNumeric(fe.Kind()) {
			return fmt.Sprintf("must be at most %s", fe.Param())
		}
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "email":
		return "must be a valid email"
	case "truckplate":
		return "must be 6 to 8 uppercase letters or digits"
	case "fueltype":
		return "must be one of: " + joinFuelTypes()
	case "tripstatus":
		return "must be one of: Scheduled, InTransit, Delivered, Cancelled"
	case "userrole":
		return "must be one of: admin, operator"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	}
	return "is invalid"
}

func isNumeric(kind reflect.Kind) bool {
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func joinFuelTypes() string {
	types := enums.FuelTypes()
	names := make([]string, 0, len(types))
	for _, ft := range types {
		names = append(names, ft.String())
	}
	return strings.Join(names, ", ")
}

// IsTruckPlate reports whether value is an already-normalised plate.
func IsTruckPlate(value string) bool {
	return truckPlatePattern.MatchString(value)
}
