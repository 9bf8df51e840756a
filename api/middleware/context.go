package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/angelmondragon/fueltrips-backend/internal/users"
)

type contextKey string

const (
	ctxUserID contextKey = "user_id"
	ctxRole   contextKey = "actor_role"
	ctxUser   contextKey = "user"
)

func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxUserID).(string); ok {
		return v
	}
	return ""
}

// UserUUIDFromContext parses the authenticated user id.
func UserUUIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(UserIDFromContext(ctx))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func RoleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(string); ok {
		return v
	}
	return ""
}

// UserFromContext returns the live user resolved by Auth.
func UserFromContext(ctx context.Context) *users.UserDTO {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxUser).(*users.UserDTO); ok {
		return v
	}
	return nil
}

// WithUser injects the resolved identity into the context.
func WithUser(ctx context.Context, user *users.UserDTO) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if user == nil {
		return ctx
	}
	ctx = context.WithValue(ctx, ctxUserID, user.ID.String())
	ctx = context.WithValue(ctx, ctxRole, string(user.Role))
	return context.WithValue(ctx, ctxUser, user)
}
