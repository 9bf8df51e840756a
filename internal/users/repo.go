package users

import (
	"context"
	"strings"

	"github.com/angelmondragon/fueltrips-backend/internal/repo"
	"github.com/angelmondragon/fueltrips-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes user-related persistence operations.
type Repository struct {
	repo.Base
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Create inserts a new user and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	if err := r.DB(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	// gorm omits a false is_active because the column carries a default, and
	// then reads the default back into user. Follow up with an explicit write.
	if dto.IsActive != nil && !*dto.IsActive {
		if err := r.SetActive(ctx, user.ID, false); err != nil {
			return nil, err
		}
		user.IsActive = false
	}
	return user, nil
}

// FindByEmail retrieves the user matching the provided email, case-insensitively.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB(ctx).Where("email = ?", NormalizeEmail(email)).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user by their UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.DB(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// SetActive flips the user's is_active flag. Missing users yield gorm.ErrRecordNotFound.
func (r *Repository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	res := r.DB(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdatePassword overwrites the stored password hash.
func (r *Repository) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	res := r.DB(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("password_hash", hash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// NormalizeEmail trims and lower-cases an address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
