package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/fueltrips-backend/internal/users"
	pkgAuth "github.com/angelmondragon/fueltrips-backend/pkg/auth"
	"github.com/angelmondragon/fueltrips-backend/pkg/config"
	"github.com/angelmondragon/fueltrips-backend/pkg/db/dbtest"
	"github.com/angelmondragon/fueltrips-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/fueltrips-backend/pkg/errors"
	"github.com/angelmondragon/fueltrips-backend/pkg/security"
	"github.com/angelmondragon/fueltrips-backend/pkg/validation"
)

var testJWT = config.JWTConfig{
	Secret:            "test-secret",
	Issuer:            "fueltrips",
	ExpirationMinutes: 1440,
}

var fastPasswords = config.PasswordConfig{
	ArgonMemoryKB:    8192,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     16,
	ArgonKeyLen:      32,
}

type countingHasher struct {
	*security.Hasher
	burns int
}

func (h *countingHasher) Burn(password string) {
	h.burns++
	h.Hasher.Burn(password)
}

func buildTestService(t *testing.T) (Service, *users.Repository, *countingHasher) {
	t.Helper()
	repo := users.NewRepository(dbtest.Open(t))
	hasher := &countingHasher{Hasher: security.NewHasher(fastPasswords)}
	svc, err := NewService(ServiceParams{
		UserRepo:  repo,
		Hasher:    hasher,
		JWTConfig: testJWT,
		Now:       func() time.Time { return time.Now() },
	})
	require.NoError(t, err)
	return svc, repo, hasher
}

func registerAna(t *testing.T, svc Service) *AuthResponse {
	t.Helper()
	resp, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "Ana@Example.com",
		Password: "secret1",
		Name:     " Ana ",
	})
	require.NoError(t, err)
	return resp
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(ServiceParams{})
	require.Error(t, err)
	_, err = NewService(ServiceParams{UserRepo: users.NewRepository(dbtest.Open(t))})
	require.Error(t, err)
}

func TestRegisterIssuesTokenAndDefaultsRole(t *testing.T) {
	svc, _, _ := buildTestService(t)

	resp := registerAna(t, svc)
	require.NotNil(t, resp.User)
	assert.Equal(t, "ana@example.com", resp.User.Email)
	assert.Equal(t, "Ana", resp.User.Name)
	assert.Equal(t, enums.UserRoleOperator, resp.User.Role)
	assert.True(t, resp.User.IsActive)

	claims, err := pkgAuth.ParseAccessToken(testJWT, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, enums.UserRoleOperator, claims.Role)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestRegisterAcceptsLegacyRoleAlias(t *testing.T) {
	svc, _, _ := buildTestService(t)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Email: "op@example.com", Password: "secret1", Name: "Operador", Role: "operador",
	})
	require.NoError(t, err)
	assert.Equal(t, enums.UserRoleOperator, resp.User.Role)
}

func TestRegisterDuplicateEmailIsConflict(t *testing.T) {
	svc, _, _ := buildTestService(t)
	registerAna(t, svc)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email: "ANA@example.com", Password: "another1", Name: "Ana Two",
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
}

func TestRegisterValidationAggregatesFields(t *testing.T) {
	svc, _, _ := buildTestService(t)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email: "not-an-email", Password: "123", Name: "A", Role: "driver",
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	details, ok := typed.Details().(map[string]any)
	require.True(t, ok)
	violations, ok := details["errors"].(validation.Violations)
	require.True(t, ok)

	fields := make([]string, 0, len(violations))
	for _, v := range violations {
		fields = append(fields, v.Field)
	}
	assert.Equal(t, []string{"email", "nombre", "password", "rol"}, fields)
}

func TestLoginSuccess(t *testing.T) {
	svc, _, _ := buildTestService(t)
	registered := registerAna(t, svc)

	resp, err := svc.Login(context.Background(), LoginRequest{Email: " ANA@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, resp.User.ID)
	assert.NotEmpty(t, resp.Token)
}

func TestLoginFailuresShareMessage(t *testing.T) {
	svc, repo, hasher := buildTestService(t)
	registered := registerAna(t, svc)

	_, wrongPassword := svc.Login(context.Background(), LoginRequest{Email: "ana@example.com", Password: "wrong-pass"})
	_, unknownEmail := svc.Login(context.Background(), LoginRequest{Email: "ghost@example.com", Password: "secret1"})

	require.NoError(t, repo.SetActive(context.Background(), registered.User.ID, false))
	_, inactive := svc.Login(context.Background(), LoginRequest{Email: "ana@example.com", Password: "secret1"})

	for _, err := range []error{wrongPassword, unknownEmail, inactive} {
		require.Error(t, err)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeInvalidCredentials, typed.Code())
		assert.Equal(t, invalidCredentialsMessage, typed.Message())
	}
	assert.Equal(t, 1, hasher.burns, "unknown email should still run a hash verification")
}

func TestCurrentUserReflectsLiveRecord(t *testing.T) {
	svc, repo, _ := buildTestService(t)
	registered := registerAna(t, svc)

	require.NoError(t, repo.SetActive(context.Background(), registered.User.ID, false))
	current, err := svc.CurrentUser(context.Background(), registered.User.ID)
	require.NoError(t, err)
	assert.False(t, current.IsActive)

	_, err = svc.CurrentUser(context.Background(), uuid.New())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestChangePassword(t *testing.T) {
	svc, _, _ := buildTestService(t)
	registered := registerAna(t, svc)
	ctx := context.Background()

	err := svc.ChangePassword(ctx, registered.User.ID, ChangePasswordRequest{CurrentPassword: "nope", NewPassword: "brand-new"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInvalidCredentials))

	err = svc.ChangePassword(ctx, registered.User.ID, ChangePasswordRequest{CurrentPassword: "secret1", NewPassword: "123"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	require.NoError(t, svc.ChangePassword(ctx, registered.User.ID, ChangePasswordRequest{CurrentPassword: "secret1", NewPassword: "brand-new"}))

	_, err = svc.Login(ctx, LoginRequest{Email: "ana@example.com", Password: "secret1"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInvalidCredentials))
	_, err = svc.Login(ctx, LoginRequest{Email: "ana@example.com", Password: "brand-new"})
	assert.NoError(t, err)
}

func TestSetActive(t *testing.T) {
	svc, _, _ := buildTestService(t)
	registered := registerAna(t, svc)
	ctx := context.Background()
	admin := uuid.New()

	user, err := svc.SetActive(ctx, admin, registered.User.ID, false)
	require.NoError(t, err)
	assert.False(t, user.IsActive)

	user, err = svc.SetActive(ctx, admin, registered.User.ID, true)
	require.NoError(t, err)
	assert.True(t, user.IsActive)

	_, err = svc.SetActive(ctx, registered.User.ID, registered.User.ID, false)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))

	_, err = svc.SetActive(ctx, admin, uuid.New(), false)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}
