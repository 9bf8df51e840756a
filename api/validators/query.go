package validators

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	pkgerrors "github.com/angelmondragon/fueltrips-backend/pkg/errors"
	"github.com/angelmondragon/fueltrips-backend/pkg/validation"
)

// ParseQueryInt reads an optional integer query parameter. Zero is returned
// when the parameter is absent so callers can apply their own defaults.
func ParseQueryInt(r *http.Request, key string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		var v validation.Violations
		v.Add(key, "must be an integer")
		return 0, v.Err()
	}
	return value, nil
}

// ParseQueryString returns the trimmed query value.
func ParseQueryString(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}

// ParseUUIDParam reads a chi URL parameter as a uuid. A malformed id cannot
// name an existing resource, so it is reported as not found.
func ParseUUIDParam(r *http.Request, key, resource string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(chi.URLParam(r, key)))
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeNotFound, resource+" not found")
	}
	return id, nil
}
