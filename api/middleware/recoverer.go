package middleware

import (
	"fmt"
	"net/http"

	"github.com/angelmondragon/fueltrips-backend/api/responses"
	pkgerrors "github.com/angelmondragon/fueltrips-backend/pkg/errors"
	"github.com/angelmondragon/fueltrips-backend/pkg/logger"
)

// Recoverer turns handler panics into INTERNAL_ERROR responses.
func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				ctx := r.Context()
				if logg != nil {
					ctx = logg.WithField(ctx, "panic", fmt.Sprint(rec))
				}
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, fmt.Errorf("panic: %v", rec), "panic"))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
