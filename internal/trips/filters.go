package trips

import (
	"strings"

	"github.com/angelmondragon/fueltrips-backend/pkg/enums"
	"github.com/angelmondragon/fueltrips-backend/pkg/pagination"
	"github.com/angelmondragon/fueltrips-backend/pkg/validation"
)

const (
	DefaultSortBy    = "fecha_salida"
	DefaultSortOrder = "desc"
)

// sortColumns maps the public sort keys onto trip columns.
var sortColumns = map[string]string{
	"fecha_salida":    "departure_at",
	"conductor":       "driver",
	"estado":          "status",
	"cantidad_litros": "volume_liters",
	"camion":          "truck",
	"combustible":     "fuel_type",
}

// listQuery is a validated ListParams ready for the repository.
type listQuery struct {
	Page          pagination.Params
	Status        enums.TripStatus
	FuelType      enums.FuelType
	Driver        string
	ExcludeStatus enums.TripStatus
	SortColumn    string
	Descending    bool
}

func buildListQuery(p ListParams) (listQuery, error) {
	var violations validation.Violations
	q := listQuery{SortColumn: sortColumns[DefaultSortBy], Descending: true}

	if p.Page < 0 {
		violations.Add("page", "must be at least 1")
	}
	if p.Limit < 0 || p.Limit > pagination.MaxLimit {
		violations.Add("limit", "must be between 1 and 100")
	}
	q.Page = pagination.Params{Page: p.Page, Limit: p.Limit}.Normalize()

	if raw := strings.TrimSpace(p.Status); raw != "" {
		status, err := enums.ParseTripStatus(raw)
		if err != nil {
			violations.Add("estado", "must be one of: Scheduled, InTransit, Delivered, Cancelled")
		}
		q.Status = status
	}
	if raw := strings.TrimSpace(p.ExcludeStatus); raw != "" {
		status, err := enums.ParseTripStatus(raw)
		if err != nil {
			violations.Add("excludeStatus", "must be one of: Scheduled, InTransit, Delivered, Cancelled")
		}
		q.ExcludeStatus = status
	}
	if raw := strings.TrimSpace(p.FuelType); raw != "" {
		fuel, err := enums.ParseFuelType(raw)
		if err != nil {
			violations.Add("combustible", "is not a known fuel type")
		}
		q.FuelType = fuel
	}
	q.Driver = strings.ToLower(strings.TrimSpace(p.Driver))

	if raw := strings.TrimSpace(p.SortBy); raw != "" {
		column, ok := sortColumns[raw]
		if !ok {
			violations.Add("sortBy", "must be one of: fecha_salida, conductor, estado, cantidad_litros, camion, combustible")
		}
		q.SortColumn = column
	}
	switch strings.ToLower(strings.TrimSpace(p.SortOrder)) {
	case "", DefaultSortOrder:
	case "asc":
		q.Descending = false
	default:
		violations.Add("sortOrder", "must be asc or desc")
	}

	return q, violations.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching value anywhere, treating
// wildcard characters in value literally.
func containsPattern(value string) string {
	return "%" + likeEscaper.Replace(value) + "%"
}
