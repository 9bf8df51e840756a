package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/fueltrips-backend/pkg/auth"
	"github.com/angelmondragon/fueltrips-backend/pkg/config"
	"github.com/angelmondragon/fueltrips-backend/pkg/db/models"
	"github.com/angelmondragon/fueltrips-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/fueltrips-backend/pkg/errors"
	"github.com/angelmondragon/fueltrips-backend/pkg/logger"
)

var testJWT = config.JWTConfig{Secret: "secret", Issuer: "fueltrips", ExpirationMinutes: 60}

type stubUsers map[uuid.UUID]*models.User

func (s stubUsers) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func mintTestToken(t *testing.T, cfg config.JWTConfig, userID uuid.UUID, role enums.UserRole, issuedAt time.Time) string {
	t.Helper()
	token, err := auth.MintAccessToken(cfg, issuedAt, auth.AccessTokenPayload{UserID: userID, Role: role})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return payload.Error.Code
}

func serveAuth(t *testing.T, lookup UserLookup, header string) (*httptest.ResponseRecorder, context.Context) {
	t.Helper()
	var captured context.Context
	handler := Auth(testJWT, lookup, logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Context()
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, captured
}

func TestAuthRejectsMissingToken(t *testing.T) {
	id := uuid.New()
	users := stubUsers{id: {ID: id, Role: enums.UserRoleOperator, IsActive: true}}
	valid := mintTestToken(t, testJWT, id, enums.UserRoleOperator, time.Now())

	for name, header := range map[string]string{
		"absent":       "",
		"basic scheme": "Basic dXNlcjpwYXNz",
		"no scheme":    valid,
		"other scheme": "Token " + valid,
		"empty bearer": "Bearer ",
	} {
		rec, _ := serveAuth(t, users, header)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401 got %d", name, rec.Code)
		}
		if code := errorCode(t, rec); code != string(pkgerrors.CodeUnauthorized) {
			t.Fatalf("%s: expected UNAUTHORIZED got %s", name, code)
		}
	}
}

func TestAuthRejectsBadTokens(t *testing.T) {
	id := uuid.New()
	users := stubUsers{id: {ID: id, Role: enums.UserRoleOperator, IsActive: true}}

	expired := mintTestToken(t, testJWT, id, enums.UserRoleOperator, time.Now().Add(-2*time.Hour))
	otherIssuer := mintTestToken(t, config.JWTConfig{Secret: "secret", Issuer: "someone-else", ExpirationMinutes: 60}, id, enums.UserRoleOperator, time.Now())
	otherSecret := mintTestToken(t, config.JWTConfig{Secret: "nope", Issuer: "fueltrips", ExpirationMinutes: 60}, id, enums.UserRoleOperator, time.Now())

	for name, header := range map[string]string{
		"garbage":      "Bearer invalid",
		"expired":      "Bearer " + expired,
		"issuer":       "Bearer " + otherIssuer,
		"signature":    "Bearer " + otherSecret,
		"unknown user": "Bearer " + mintTestToken(t, testJWT, uuid.New(), enums.UserRoleOperator, time.Now()),
	} {
		rec, _ := serveAuth(t, users, header)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401 got %d", name, rec.Code)
		}
		if code := errorCode(t, rec); code != string(pkgerrors.CodeInvalidToken) {
			t.Fatalf("%s: expected INVALID_TOKEN got %s", name, code)
		}
	}
}

func TestAuthRejectsDeactivatedUser(t *testing.T) {
	id := uuid.New()
	users := stubUsers{id: {ID: id, Role: enums.UserRoleOperator, IsActive: false}}

	rec, _ := serveAuth(t, users, "Bearer "+mintTestToken(t, testJWT, id, enums.UserRoleOperator, time.Now()))
	if rec.Code != http.StatusUnauthorized || errorCode(t, rec) != string(pkgerrors.CodeInvalidToken) {
		t.Fatalf("expected INVALID_TOKEN for inactive user, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestAuthAllowsValidTokenWithLiveRole(t *testing.T) {
	id := uuid.New()
	users := stubUsers{id: {ID: id, Email: "ana@example.com", Name: "Ana", Role: enums.UserRoleAdmin, IsActive: true}}

	// The token still says operator; the live record wins.
	rec, ctx := serveAuth(t, users, "bearer "+mintTestToken(t, testJWT, id, enums.UserRoleOperator, time.Now()))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if got := UserIDFromContext(ctx); got != id.String() {
		t.Fatalf("expected user id %s got %s", id, got)
	}
	if got, ok := UserUUIDFromContext(ctx); !ok || got != id {
		t.Fatalf("expected parsed user id, got %s %v", got, ok)
	}
	if RoleFromContext(ctx) != string(enums.UserRoleAdmin) {
		t.Fatalf("expected admin role got %s", RoleFromContext(ctx))
	}
	if user := UserFromContext(ctx); user == nil || user.Email != "ana@example.com" {
		t.Fatalf("expected user dto in context, got %+v", user)
	}
}

func TestRequireRole(t *testing.T) {
	handler := RequireRole(enums.UserRoleAdmin, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req.WithContext(context.WithValue(req.Context(), ctxRole, "operator")))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req.WithContext(context.WithValue(req.Context(), ctxRole, "admin")))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", rec.Code)
	}
}
