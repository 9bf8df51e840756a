package controllers

import (
	"net/http"

	"github.com/angelmondragon/fueltrips-backend/api/middleware"
	"github.com/angelmondragon/fueltrips-backend/api/responses"
	"github.com/angelmondragon/fueltrips-backend/api/validators"
	"github.com/angelmondragon/fueltrips-backend/internal/auth"
	pkgerrors "github.com/angelmondragon/fueltrips-backend/pkg/errors"
	"github.com/angelmondragon/fueltrips-backend/pkg/logger"
)

// AdminSetUserActive activates or deactivates the user named by {userId}.
func AdminSetUserActive(svc auth.Service, active bool, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			authUnavailable(w, r, logg)
			return
		}

		actorID, ok := middleware.UserUUIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		userID, err := validators.ParseUUIDParam(r, "userId", "user")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.SetActive(r.Context(), actorID, userID, active)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if logg != nil {
			ctx := logg.WithFields(r.Context(), map[string]any{"target_user_id": userID.String(), "active": active})
			logg.Info(ctx, "admin.user.active_changed")
		}
		responses.WriteSuccess(w, map[string]any{"user": user})
	}
}
