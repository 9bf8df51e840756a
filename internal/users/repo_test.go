package users

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/fueltrips-backend/pkg/db"
	"github.com/angelmondragon/fueltrips-backend/pkg/db/dbtest"
	"github.com/angelmondragon/fueltrips-backend/pkg/enums"
)

func TestRepositoryCreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(dbtest.Open(t))

	created, err := repo.Create(ctx, CreateUserDTO{
		Email:        "  Ana@Example.COM ",
		PasswordHash: "hash",
		Name:         "Ana",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, "ana@example.com", created.Email)
	assert.Equal(t, enums.UserRoleOperator, created.Role)
	assert.True(t, created.IsActive)

	byEmail, err := repo.FindByEmail(ctx, "ANA@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	byID, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", byID.Name)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.True(t, db.IsNotFound(err))
}

func TestRepositoryCreateDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(dbtest.Open(t))

	_, err := repo.Create(ctx, CreateUserDTO{Email: "dup@example.com", PasswordHash: "h", Name: "One"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, CreateUserDTO{Email: "DUP@example.com", PasswordHash: "h", Name: "Two"})
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err, ""))
}

func TestRepositoryCreateInactive(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(dbtest.Open(t))

	inactive := false
	created, err := repo.Create(ctx, CreateUserDTO{Email: "off@example.com", PasswordHash: "h", Name: "Off", IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, created.IsActive)

	loaded, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, loaded.IsActive)

	byEmail, err := repo.FindByEmail(ctx, "OFF@example.com")
	require.NoError(t, err)
	assert.False(t, byEmail.IsActive)
}

func TestRepositorySetActiveAndPassword(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(dbtest.Open(t))

	created, err := repo.Create(ctx, CreateUserDTO{Email: "u@example.com", PasswordHash: "old", Name: "User", Role: enums.UserRoleAdmin})
	require.NoError(t, err)

	require.NoError(t, repo.SetActive(ctx, created.ID, false))
	require.NoError(t, repo.UpdatePassword(ctx, created.ID, "new"))

	loaded, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, loaded.IsActive)
	assert.Equal(t, "new", loaded.PasswordHash)
	assert.Equal(t, enums.UserRoleAdmin, loaded.Role)

	assert.ErrorIs(t, repo.SetActive(ctx, uuid.New(), true), gorm.ErrRecordNotFound)
	assert.ErrorIs(t, repo.UpdatePassword(ctx, uuid.New(), "x"), gorm.ErrRecordNotFound)
}

func TestFromModelOmitsPasswordHash(t *testing.T) {
	dto := FromModel(CreateUserDTO{Email: "a@b.co", PasswordHash: "secret", Name: "Ab"}.ToModel())
	require.NotNil(t, dto)
	assert.Equal(t, enums.UserRoleOperator, dto.Role)
	assert.Nil(t, FromModel(nil))
}
