package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/fueltrips-backend/internal/users"
	pkgAuth "github.com/angelmondragon/fueltrips-backend/pkg/auth"
	"github.com/angelmondragon/fueltrips-backend/pkg/config"
	"github.com/angelmondragon/fueltrips-backend/pkg/db"
	"github.com/angelmondragon/fueltrips-backend/pkg/db/models"
	"github.com/angelmondragon/fueltrips-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/fueltrips-backend/pkg/errors"
	"github.com/angelmondragon/fueltrips-backend/pkg/validation"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const invalidCredentialsMessage = "invalid credentials"

// Service defines the behavior needed by the auth and admin controllers.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	CurrentUser(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error
	SetActive(ctx context.Context, actorID, userID uuid.UUID, active bool) (*users.UserDTO, error)
}

type userRepository interface {
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
}

type passwordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) (bool, error)
	Burn(password string)
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo  userRepository
	Hasher    passwordHasher
	JWTConfig config.JWTConfig
	Now       func() time.Time
}

type service struct {
	users  userRepository
	hasher passwordHasher
	jwtCfg config.JWTConfig
	now    func() time.Time
}

// NewService constructs the credential service.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.Hasher == nil {
		return nil, fmt.Errorf("password hasher is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		users:  params.UserRepo,
		hasher: params.Hasher,
		jwtCfg: params.JWTConfig,
		now:    now,
	}, nil
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	req.Email = users.NormalizeEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	req.Role = strings.TrimSpace(req.Role)
	if err := validation.Struct(req).Err(); err != nil {
		return nil, err
	}

	role := enums.UserRoleOperator
	if req.Role != "" {
		parsed, err := enums.ParseUserRole(req.Role)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role")
		}
		role = parsed
	}

	if _, err := s.users.FindByEmail(ctx, req.Email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.users.Create(ctx, users.CreateUserDTO{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         role,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}

	return s.issue(user)
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	req.Email = users.NormalizeEmail(req.Email)
	if err := validation.Struct(req).Err(); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.hasher.Burn(req.Password)
			return nil, pkgerrors.New(pkgerrors.CodeInvalidCredentials, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	valid, err := s.hasher.Verify(req.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid || !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidCredentials, invalidCredentialsMessage)
	}

	return s.issue(user)
}

func (s *service) CurrentUser(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return users.FromModel(user), nil
}

func (s *service) ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error {
	if err := validation.Struct(req).Err(); err != nil {
		return err
	}

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}

	valid, err := s.hasher.Verify(req.CurrentPassword, user.PasswordHash)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return pkgerrors.New(pkgerrors.CodeInvalidCredentials, invalidCredentialsMessage)
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update password")
	}
	return nil
}

func (s *service) SetActive(ctx context.Context, actorID, userID uuid.UUID, active bool) (*users.UserDTO, error) {
	if actorID == userID && !active {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "cannot deactivate your own account")
	}
	if err := s.users.SetActive(ctx, userID, active); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update user status")
	}
	return s.CurrentUser(ctx, userID)
}

func (s *service) loadUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	return user, nil
}

func (s *service) issue(user *models.User) (*AuthResponse, error) {
	token, err := pkgAuth.MintAccessToken(s.jwtCfg, s.now().UTC(), pkgAuth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
		JTI:    uuid.NewString(),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	return &AuthResponse{Token: token, User: users.FromModel(user)}, nil
}
