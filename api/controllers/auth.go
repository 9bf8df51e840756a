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

func authUnavailable(w http.ResponseWriter, r *http.Request, logg *logger.Logger) {
	responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
}

// AuthRegister creates an account and returns a token for it.
func AuthRegister(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			authUnavailable(w, r, logg)
			return
		}

		var body auth.RegisterRequest
		if err := validators.DecodeJSONBody(w, r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Register(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if logg != nil {
			logg.Info(logg.WithUserID(r.Context(), result.User.ID.String()), "auth.registered")
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// AuthLogin wires the login endpoint into the HTTP layer.
func AuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			authUnavailable(w, r, logg)
			return
		}

		var body auth.LoginRequest
		if err := validators.DecodeJSONBody(w, r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// AuthLogout acknowledges a logout. Tokens are stateless; the client drops it.
func AuthLogout(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if logg != nil {
			logg.Info(r.Context(), "auth.logout")
		}
		responses.WriteSuccess(w, map[string]string{"message": "logged out"})
	}
}

// AuthMe returns the authenticated user.
func AuthMe(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			authUnavailable(w, r, logg)
			return
		}

		userID, ok := middleware.UserUUIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		user, err := svc.CurrentUser(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"user": user})
	}
}

// AuthChangePassword replaces the caller's password after checking the current one.
func AuthChangePassword(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			authUnavailable(w, r, logg)
			return
		}

		userID, ok := middleware.UserUUIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		var body auth.ChangePasswordRequest
		if err := validators.DecodeJSONBody(w, r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.ChangePassword(r.Context(), userID, body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"message": "password updated"})
	}
}
