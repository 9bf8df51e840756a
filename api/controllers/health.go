package controllers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/angelmondragon/fueltrips-backend/api/responses"
	"github.com/angelmondragon/fueltrips-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/fueltrips-backend/pkg/errors"
	"github.com/angelmondragon/fueltrips-backend/pkg/logger"
)

const readyTimeout = 2 * time.Second

// Pinger is a dependency the readiness probe checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-FuelTrips-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every named dependency; nil entries are skipped.
func HealthReady(cfg *config.Config, deps map[string]Pinger, logg *logger.Logger) http.HandlerFunc {
	names := make([]string, 0, len(deps))
	for name, dep := range deps {
		if dep != nil {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-FuelTrips-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		checks := make(map[string]string, len(names))
		var failed []string
		for _, name := range names {
			if err := deps[name].Ping(ctx); err != nil {
				checks[name] = "down"
				failed = append(failed, name)
				if logg != nil {
					logg.Error(logg.WithField(r.Context(), "dependency", name), "health.ready.failed", err)
				}
				continue
			}
			checks[name] = "up"
		}

		if len(failed) > 0 {
			responses.WriteError(r.Context(), nil, w, pkgerrors.New(pkgerrors.CodeDependency, "dependency unavailable").
				WithDetails(map[string]any{"checks": checks}))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
