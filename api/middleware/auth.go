package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/fueltrips-backend/api/responses"
	"github.com/angelmondragon/fueltrips-backend/internal/users"
	pkgAuth "github.com/angelmondragon/fueltrips-backend/pkg/auth"
	"github.com/angelmondragon/fueltrips-backend/pkg/config"
	"github.com/angelmondragon/fueltrips-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/fueltrips-backend/pkg/errors"
	"github.com/angelmondragon/fueltrips-backend/pkg/logger"
)

// UserLookup re-reads the live user behind a token.
type UserLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Auth validates a bearer token, re-fetches the user it names and seeds the
// request context with that identity. Deactivated or deleted users are
// rejected even while their token is still within its lifetime.
func Auth(cfg config.JWTConfig, lookup UserLookup, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInvalidToken, err, "invalid token"))
				return
			}

			user, err := lookup.FindByID(r.Context(), claims.UserID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInvalidToken, err, "account unavailable"))
					return
				}
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user"))
				return
			}
			if !user.IsActive {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInvalidToken, "account unavailable"))
				return
			}

			ctx := WithUser(r.Context(), users.FromModel(user))
			if logg != nil {
				ctx = logg.WithUserID(ctx, user.ID.String())
				ctx = logg.WithActorRole(ctx, string(user.Role))
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken returns the token of a "Bearer" Authorization header. Any other
// scheme counts as no credentials.
func bearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
