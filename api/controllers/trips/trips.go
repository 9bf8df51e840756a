package trips

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/fueltrips-backend/api/middleware"
	"github.com/angelmondragon/fueltrips-backend/api/responses"
	"github.com/angelmondragon/fueltrips-backend/api/validators"
	internaltrips "github.com/angelmondragon/fueltrips-backend/internal/trips"
	pkgerrors "github.com/angelmondragon/fueltrips-backend/pkg/errors"
	"github.com/angelmondragon/fueltrips-backend/pkg/logger"
	"github.com/angelmondragon/fueltrips-backend/pkg/pagination"
	"github.com/angelmondragon/fueltrips-backend/pkg/validation"
)

const tripIDParam = "tripId"

func unavailable(w http.ResponseWriter, r *http.Request, logg *logger.Logger) {
	responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "trips service unavailable"))
}

// List returns a filtered, sorted page of trips.
func List(svc internaltrips.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg)
			return
		}

		params, err := parseListParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func parseListParams(r *http.Request) (internaltrips.ListParams, error) {
	var violations validation.Violations
	// An absent value reads as zero and takes the default; an explicit one
	// must already be in range.
	readInt := func(key string, upper int, outOfRange string) int {
		value, err := validators.ParseQueryInt(r, key)
		if err != nil {
			violations.Add(key, "must be an integer")
			return 0
		}
		if validators.ParseQueryString(r, key) != "" && (value < 1 || (upper > 0 && value > upper)) {
			violations.Add(key, outOfRange)
		}
		return value
	}

	params := internaltrips.ListParams{
		Page:          readInt("page", 0, "must be at least 1"),
		Limit:         readInt("limit", pagination.MaxLimit, "must be between 1 and 100"),
		Status:        validators.ParseQueryString(r, "estado"),
		FuelType:      validators.ParseQueryString(r, "combustible"),
		Driver:        validators.ParseQueryString(r, "conductor"),
		ExcludeStatus: validators.ParseQueryString(r, "excludeStatus"),
		SortBy:        validators.ParseQueryString(r, "sortBy"),
		SortOrder:     validators.ParseQueryString(r, "sortOrder"),
	}
	return params, violations.Err()
}

// Get returns a single trip with its creator.
func Get(svc internaltrips.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg)
			return
		}

		id, err := validators.ParseUUIDParam(r, tripIDParam, "trip")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		trip, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"trip": trip})
	}
}

// Create schedules a trip owned by the caller.
func Create(svc internaltrips.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg)
			return
		}

		creatorID, ok := middleware.UserUUIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		var body internaltrips.CreateTripRequest
		if err := validators.DecodeJSONBody(w, r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		trip, err := svc.Create(r.Context(), creatorID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		logTrip(r, logg, trip.ID, "trip.created")
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"trip": trip})
	}
}

// Update applies a partial update, including status transitions.
func Update(svc internaltrips.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg)
			return
		}

		id, err := validators.ParseUUIDParam(r, tripIDParam, "trip")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body internaltrips.UpdateTripRequest
		if err := validators.DecodeJSONBody(w, r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		trip, err := svc.Update(r.Context(), id, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		logTrip(r, logg, trip.ID, "trip.updated")
		responses.WriteSuccess(w, map[string]any{"trip": trip})
	}
}

// Cancel soft-deletes a trip by moving it to cancelled.
func Cancel(svc internaltrips.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg)
			return
		}

		id, err := validators.ParseUUIDParam(r, tripIDParam, "trip")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		trip, err := svc.Cancel(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		logTrip(r, logg, trip.ID, "trip.cancelled")
		responses.WriteSuccess(w, map[string]any{"trip": trip})
	}
}

// Stats returns per-status counts and the summed volume of every trip.
func Stats(svc internaltrips.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg)
			return
		}

		stats, err := svc.DashboardStats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}

func logTrip(r *http.Request, logg *logger.Logger, id uuid.UUID, msg string) {
	if logg == nil {
		return
	}
	logg.Info(logg.WithTripID(r.Context(), id.String()), msg)
}
